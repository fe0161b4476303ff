package wallet

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"math/big"

	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/tvm/cell"
)

// HighloadV2Wallet encodes batches for highload wallet v2.
//
// Signed body layout:
//
//	signature:bits512 subwallet_id:uint32 query_id:uint64
//	messages:(HashmapE 16 (mode:uint8 ^message))
type HighloadV2Wallet struct {
	*account
}

// NewHighloadV2 creates a highload wallet, its subwallet is 0 unless WithSubwallet is passed.
func NewHighloadV2(pubKey ed25519.PublicKey, opts ...Option) (*HighloadV2Wallet, error) {
	acc, err := newAccount(HighloadV2, pubKey, 0, opts)
	if err != nil {
		return nil, err
	}
	return &HighloadV2Wallet{acc}, nil
}

func (w *HighloadV2Wallet) SubwalletID() uint32 {
	return w.cfg.subwallet
}

// GenerateQueryID puts the deadline into the high half, so ids of later
// batches are always greater and the contract can drop expired ones.
func GenerateQueryID(validUntil, rnd uint32) uint64 {
	return uint64(validUntil)<<32 | uint64(rnd)
}

// BuildTransfer builds a batch with a query id generated from the default deadline and a random part.
func (w *HighloadV2Wallet) BuildTransfer(ctx context.Context, transfers []*Transfer, withStateInit bool) (*tlb.ExternalMessage, error) {
	if err := checkHighloadBatch(transfers); err != nil {
		return nil, err
	}

	queryID := GenerateQueryID(uint32(w.deadline()), randUint32())
	Logger("wallet", w.addr.String(), "generated query id", queryID)

	return w.BuildTransferWithQueryID(ctx, transfers, queryID, withStateInit)
}

func (w *HighloadV2Wallet) BuildTransferWithQueryID(ctx context.Context, transfers []*Transfer, queryID uint64, withStateInit bool) (*tlb.ExternalMessage, error) {
	if err := checkHighloadBatch(transfers); err != nil {
		return nil, err
	}
	if err := validateTransfers(transfers); err != nil {
		return nil, err
	}

	dict := cell.NewDict(16)

	for i, t := range transfers {
		msg, err := t.messageCell()
		if err != nil {
			return nil, fmt.Errorf("transfer %d: %w", i, err)
		}

		data := cell.BeginCell().
			MustStoreUInt(uint64(t.Mode), 8).
			MustStoreRef(msg).
			EndCell()

		if err = dict.SetIntKey(big.NewInt(int64(i)), data); err != nil {
			return nil, fmt.Errorf("failed to add msg to dict: %w", err)
		}
	}

	payload := cell.BeginCell().MustStoreUInt(uint64(w.cfg.subwallet), 32).
		MustStoreUInt(queryID, 64).
		MustStoreDict(dict)

	sign, err := w.sign(ctx, payload.EndCell())
	if err != nil {
		return nil, err
	}
	body := cell.BeginCell().MustStoreSlice(sign, 512).MustStoreBuilder(payload).EndCell()

	return w.externalMessage(body, withStateInit), nil
}

func checkHighloadBatch(transfers []*Transfer) error {
	if len(transfers) == 0 || len(transfers) > MaxHighloadTransfers {
		return fmt.Errorf("%w, got %d", ErrBatchSize, len(transfers))
	}
	return nil
}
