package nft

import (
	"errors"
	"fmt"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/tvm/cell"

	"github.com/tonsmc/tonsmc-go/ton/payload"
)

const OpTransfer = 0x5fcc3d14

var (
	ErrNilNewOwner  = errors.New("nft new owner is nil")
	ErrUnexpectedOp = errors.New("unexpected op code")
)

type TransferParams struct {
	QueryID             uint64
	NewOwner            *address.Address
	ResponseDestination *address.Address
	CustomPayload       *cell.Cell
	ForwardAmount       tlb.Coins

	// ForwardPayload is inlined when it fits into the body, nil means empty.
	ForwardPayload *cell.Cell
}

// BuildTransfer encodes
//
//	transfer#5fcc3d14 query_id:uint64 new_owner:MsgAddress response_destination:MsgAddress
//	custom_payload:(Maybe ^Cell) forward_amount:(VarUInteger 16) forward_payload:(Either Cell ^Cell)
func BuildTransfer(p TransferParams) (*cell.Cell, error) {
	if p.NewOwner == nil {
		return nil, ErrNilNewOwner
	}
	if err := payload.ValidateCoins(p.ForwardAmount); err != nil {
		return nil, fmt.Errorf("invalid forward amount: %w", err)
	}

	b := cell.BeginCell().
		MustStoreUInt(OpTransfer, 32).
		MustStoreUInt(p.QueryID, 64).
		MustStoreAddr(p.NewOwner).
		MustStoreAddr(p.ResponseDestination).
		MustStoreMaybeRef(p.CustomPayload).
		MustStoreBigCoins(p.ForwardAmount.Nano())

	if _, err := payload.StoreEither(b, p.ForwardPayload); err != nil {
		return nil, fmt.Errorf("failed to store forward payload: %w", err)
	}

	return b.EndCell(), nil
}

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
	if p.NewOwner, err = s.LoadAddr(); err != nil {
		return nil, fmt.Errorf("failed to load new owner: %w", err)
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
		return nil, fmt.Errorf("failed to load forward amount: %w", err)
	}
	p.ForwardAmount = tlb.FromNanoTON(fwd)

	if p.ForwardPayload, _, err = payload.LoadEither(s); err != nil {
		return nil, fmt.Errorf("failed to load forward payload: %w", err)
	}

	return &p, nil
}
