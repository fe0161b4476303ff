package wallet

import (
	"context"
	"crypto/ed25519"
	"fmt"

	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/tvm/cell"
)

// V4Wallet encodes simple transfers for wallet v4r2.
//
// Signed body layout:
//
//	signature:bits512 subwallet_id:uint32 valid_until:uint32 seqno:uint32 op:uint8
//	(mode:uint8 ^message)*
//
// Plugin operations are not built, op is always 0.
type V4Wallet struct {
	*account
}

func NewV4(pubKey ed25519.PublicKey, opts ...Option) (*V4Wallet, error) {
	acc, err := newAccount(V4R2, pubKey, DefaultSubwallet, opts)
	if err != nil {
		return nil, err
	}
	return &V4Wallet{acc}, nil
}

func (w *V4Wallet) SubwalletID() uint32 {
	return w.cfg.subwallet
}

func (w *V4Wallet) BuildTransfer(ctx context.Context, transfers []*Transfer, seqno uint32, withStateInit bool) (*tlb.ExternalMessage, error) {
	return w.BuildTransferUntil(ctx, transfers, seqno, uint32(w.deadline()), withStateInit)
}

func (w *V4Wallet) BuildTransferUntil(ctx context.Context, transfers []*Transfer, seqno, validUntil uint32, withStateInit bool) (*tlb.ExternalMessage, error) {
	if len(transfers) > MaxRegularTransfers {
		return nil, fmt.Errorf("%w: v4 wallet can send max %d messages at once", ErrTooManyTransfers, MaxRegularTransfers)
	}
	if err := validateTransfers(transfers); err != nil {
		return nil, err
	}

	payload := cell.BeginCell().MustStoreUInt(uint64(w.cfg.subwallet), 32).
		MustStoreUInt(uint64(validUntil), 32).
		MustStoreUInt(uint64(seqno), 32).
		MustStoreInt(0, 8) // op

	if err := storeRegularMessages(payload, transfers); err != nil {
		return nil, err
	}

	sign, err := w.sign(ctx, payload.EndCell())
	if err != nil {
		return nil, err
	}
	body := cell.BeginCell().MustStoreSlice(sign, 512).MustStoreBuilder(payload).EndCell()

	return w.externalMessage(body, withStateInit), nil
}
