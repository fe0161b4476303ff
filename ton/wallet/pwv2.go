package wallet

import (
	"context"
	"crypto/ed25519"
	"fmt"

	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/tvm/cell"
)

// OpSendMsg is the tag of action_send_msg in an action list.
const OpSendMsg = 0x0ec3c86d

// PWV2Wallet encodes transfers for preprocessed wallet v2.
//
// Unlike the other families the signature is followed by a reference:
//
//	signature:bits512 ^[ valid_until:uint64 seqno:uint16 ^OutList ]
type PWV2Wallet struct {
	*account
}

// NewPWV2 creates a preprocessed wallet, it has no subwallet id.
func NewPWV2(pubKey ed25519.PublicKey, opts ...Option) (*PWV2Wallet, error) {
	acc, err := newAccount(PWV2, pubKey, 0, opts)
	if err != nil {
		return nil, err
	}
	return &PWV2Wallet{acc}, nil
}

func (w *PWV2Wallet) BuildTransfer(ctx context.Context, transfers []*Transfer, seqno uint16, withStateInit bool) (*tlb.ExternalMessage, error) {
	if err := checkPWV2Batch(transfers); err != nil {
		return nil, err
	}
	return w.BuildTransferUntil(ctx, transfers, seqno, uint64(w.deadline()), withStateInit)
}

func (w *PWV2Wallet) BuildTransferUntil(ctx context.Context, transfers []*Transfer, seqno uint16, validUntil uint64, withStateInit bool) (*tlb.ExternalMessage, error) {
	if err := checkPWV2Batch(transfers); err != nil {
		return nil, err
	}
	if err := validateTransfers(transfers); err != nil {
		return nil, err
	}

	actions, err := packActions(transfers)
	if err != nil {
		return nil, err
	}

	inner := cell.BeginCell().
		MustStoreUInt(validUntil, 64).
		MustStoreUInt(uint64(seqno), 16).
		MustStoreRef(actions).
		EndCell()

	sign, err := w.sign(ctx, inner)
	if err != nil {
		return nil, err
	}
	body := cell.BeginCell().MustStoreSlice(sign, 512).MustStoreRef(inner).EndCell()

	return w.externalMessage(body, withStateInit), nil
}

// packActions builds an OutList where the root holds the last action
// and a reference to the list of previous ones, terminated by an empty cell.
func packActions(transfers []*Transfer) (*cell.Cell, error) {
	list := cell.BeginCell().EndCell()

	for i, t := range transfers {
		msg, err := t.messageCell()
		if err != nil {
			return nil, fmt.Errorf("transfer %d: %w", i, err)
		}

		list = cell.BeginCell().
			MustStoreRef(list).
			MustStoreUInt(OpSendMsg, 32).
			MustStoreUInt(uint64(t.Mode), 8).
			MustStoreRef(msg).
			EndCell()
	}
	return list, nil
}

func checkPWV2Batch(transfers []*Transfer) error {
	if len(transfers) == 0 {
		return ErrNoTransfers
	}
	if len(transfers) > MaxPWV2Transfers {
		return fmt.Errorf("%w: preprocessed wallet can send max %d messages at once", ErrTooManyTransfers, MaxPWV2Transfers)
	}
	return nil
}
