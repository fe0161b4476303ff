package jetton

import (
	"errors"
	"fmt"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/tvm/cell"

	"github.com/tonsmc/tonsmc-go/ton/payload"
)

const (
	OpTransfer = 0x0f8a7ea5
	OpBurn     = 0x595f07bc
)

var (
	ErrNilDestination = errors.New("jetton transfer destination is nil")
	ErrUnexpectedOp   = errors.New("unexpected op code")
)

// TransferParams is the body of a transfer request sent to the owner's jetton wallet.
type TransferParams struct {
	QueryID             uint64
	Amount              tlb.Coins
	Destination         *address.Address
	ResponseDestination *address.Address
	CustomPayload       *cell.Cell
	ForwardTONAmount    tlb.Coins

	// ForwardPayload is inlined when it fits into the body, nil means empty.
	ForwardPayload *cell.Cell
}

// BuildTransfer encodes
//
//	transfer#0f8a7ea5 query_id:uint64 amount:(VarUInteger 16) destination:MsgAddress
//	response_destination:MsgAddress custom_payload:(Maybe ^Cell)
//	forward_ton_amount:(VarUInteger 16) forward_payload:(Either Cell ^Cell)
func BuildTransfer(p TransferParams) (*cell.Cell, error) {
	if p.Destination == nil {
		return nil, ErrNilDestination
	}
	if err := payload.ValidateCoins(p.Amount); err != nil {
		return nil, fmt.Errorf("invalid jetton amount: %w", err)
	}
	if err := payload.ValidateCoins(p.ForwardTONAmount); err != nil {
		return nil, fmt.Errorf("invalid forward ton amount: %w", err)
	}

	b := cell.BeginCell().
		MustStoreUInt(OpTransfer, 32).
		MustStoreUInt(p.QueryID, 64).
		MustStoreBigCoins(p.Amount.Nano()).
		MustStoreAddr(p.Destination).
		MustStoreAddr(p.ResponseDestination).
		MustStoreMaybeRef(p.CustomPayload).
		MustStoreBigCoins(p.ForwardTONAmount.Nano())

	if _, err := payload.StoreEither(b, p.ForwardPayload); err != nil {
		return nil, fmt.Errorf("failed to store forward payload: %w", err)
	}

	return b.EndCell(), nil
}

// ParseTransfer decodes a body built by BuildTransfer.
func ParseTransfer(c *cell.Cell) (*TransferParams, error) {
	s := c.BeginParse()

	op, err := s.LoadUInt(32)
	if err != nil {
		return nil, fmt.Errorf("failed to load op: %w", err)
	}
	if op != OpTransfer {
		return nil, fmt.Errorf("%w: %x", ErrUnexpectedOp, op)
	}

	var p TransferParams
	if p.QueryID, err = s.LoadUInt(64); err != nil {
		return nil, fmt.Errorf("failed to load query id: %w", err)
	}
	amount, err := s.LoadBigCoins()
	if err != nil {
		return nil, fmt.Errorf("failed to load amount: %w", err)
	}
	p.Amount = tlb.FromNanoTON(amount)

	if p.Destination, err = s.LoadAddr(); err != nil {
		return nil, fmt.Errorf("failed to load destination: %w", err)
	}
	if p.ResponseDestination, err = s.LoadAddr(); err != nil {
		return nil, fmt.Errorf("failed to load response destination: %w", err)
	}

	custom, err := s.LoadMaybeRef()
	if err != nil {
		return nil, fmt.Errorf("failed to load custom payload: %w", err)
	}
	if custom != nil {
		if p.CustomPayload, err = custom.ToCell(); err != nil {
			return nil, fmt.Errorf("failed to read custom payload: %w", err)
		}
	}

	fwd, err := s.LoadBigCoins()
	if err != nil {
		return nil, fmt.Errorf("failed to load forward ton amount: %w", err)
	}
	p.ForwardTONAmount = tlb.FromNanoTON(fwd)

	if p.ForwardPayload, _, err = payload.LoadEither(s); err != nil {
		return nil, fmt.Errorf("failed to load forward payload: %w", err)
	}

	return &p, nil
}
