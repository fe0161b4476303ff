package jetton

import (
	"fmt"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/tvm/cell"

	"github.com/tonsmc/tonsmc-go/ton/payload"
)

// BurnParams is the body of a burn request sent to the owner's jetton wallet.
type BurnParams struct {
	_                   tlb.Magic        `tlb:"#595f07bc"`
	QueryID             uint64           `tlb:"## 64"`
	Amount              tlb.Coins        `tlb:"."`
	ResponseDestination *address.Address `tlb:"addr"`
	CustomPayload       *cell.Cell       `tlb:"maybe ^"`
}

func BuildBurn(p BurnParams) (*cell.Cell, error) {
	if err := payload.ValidateCoins(p.Amount); err != nil {
		return nil, fmt.Errorf("invalid jetton amount: %w", err)
	}

	body, err := tlb.ToCell(p)
	if err != nil {
		return nil, fmt.Errorf("failed to convert BurnParams to cell: %w", err)
	}
	return body, nil
}

func ParseBurn(c *cell.Cell) (*BurnParams, error) {
	var p BurnParams
	if err := tlb.LoadFromCell(&p, c.BeginParse()); err != nil {
		return nil, fmt.Errorf("failed to parse burn: %w", err)
	}
	return &p, nil
}
