package wallet

import (
	"context"
	"crypto/ed25519"
	"fmt"

	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/tvm/cell"
)

// V3Wallet encodes transfers for wallet v3r2.
//
// Signed body layout:
//
//	signature:bits512 subwallet_id:uint32 valid_until:uint32 seqno:uint32
//	(mode:uint8 ^message)*
type V3Wallet struct {
	*account
}

func NewV3(pubKey ed25519.PublicKey, opts ...Option) (*V3Wallet, error) {
	acc, err := newAccount(V3R2, pubKey, DefaultSubwallet, opts)
	if err != nil {
		return nil, err
	}
	return &V3Wallet{acc}, nil
}

func (w *V3Wallet) SubwalletID() uint32 {
	return w.cfg.subwallet
}

// BuildTransfer is BuildTransferUntil with the deadline set to now plus messages ttl.
func (w *V3Wallet) BuildTransfer(ctx context.Context, transfers []*Transfer, seqno uint32, withStateInit bool) (*tlb.ExternalMessage, error) {
	return w.BuildTransferUntil(ctx, transfers, seqno, uint32(w.deadline()), withStateInit)
}

func (w *V3Wallet) BuildTransferUntil(ctx context.Context, transfers []*Transfer, seqno, validUntil uint32, withStateInit bool) (*tlb.ExternalMessage, error) {
	if len(transfers) > MaxRegularTransfers {
		return nil, fmt.Errorf("%w: v3 wallet can send max %d messages at once", ErrTooManyTransfers, MaxRegularTransfers)
	}
	if err := validateTransfers(transfers); err != nil {
		return nil, err
	}

	payload := cell.BeginCell().MustStoreUInt(uint64(w.cfg.subwallet), 32).
		MustStoreUInt(uint64(validUntil), 32).
		MustStoreUInt(uint64(seqno), 32)

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

// storeRegularMessages appends each transfer as its mode and a reference to the message.
func storeRegularMessages(payload *cell.Builder, transfers []*Transfer) error {
	for i, t := range transfers {
		msg, err := t.messageCell()
		if err != nil {
			return fmt.Errorf("transfer %d: %w", i, err)
		}

		if err = payload.StoreUInt(uint64(t.Mode), 8); err != nil {
			return fmt.Errorf("failed to store mode of transfer %d: %w", i, err)
		}
		if err = payload.StoreRef(msg); err != nil {
			return fmt.Errorf("failed to store transfer %d: %w", i, err)
		}
	}
	return nil
}
