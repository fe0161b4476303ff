package wallet

import (
	"crypto/ed25519"
	"fmt"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/tvm/cell"
)

func AddressFromPubKey(key ed25519.PublicKey, ver Version, subwallet uint32, workchain int8) (*address.Address, error) {
	state, err := GetStateInit(key, ver, subwallet)
	if err != nil {
		return nil, fmt.Errorf("failed to get state: %w", err)
	}

	return AddressFromStateInit(state, workchain)
}

// AddressFromStateInit returns the bounceable address of a contract deployed with state.
func AddressFromStateInit(state *tlb.StateInit, workchain int8) (*address.Address, error) {
	stateCell, err := tlb.ToCell(state)
	if err != nil {
		return nil, fmt.Errorf("failed to get state cell: %w", err)
	}

	return address.NewAddress(0, byte(workchain), stateCell.Hash()), nil
}

// GetStateInit builds the initial storage of the wallet with zero seqno and empty dictionaries.
func GetStateInit(pubKey ed25519.PublicKey, ver Version, subwallet uint32) (*tlb.StateInit, error) {
	if len(pubKey) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("invalid public key size %d", len(pubKey))
	}

	code, err := GetCode(ver)
	if err != nil {
		return nil, err
	}

	var data *cell.Cell
	switch ver {
	case V3R2:
		data = cell.BeginCell().
			MustStoreUInt(0, 32). // seqno
			MustStoreUInt(uint64(subwallet), 32).
			MustStoreSlice(pubKey, 256).
			EndCell()
	case V4R2:
		data = cell.BeginCell().
			MustStoreUInt(0, 32). // seqno
			MustStoreUInt(uint64(subwallet), 32).
			MustStoreSlice(pubKey, 256).
			MustStoreDict(nil). // empty plugins dict
			EndCell()
	case HighloadV2:
		data = cell.BeginCell().
			MustStoreUInt(uint64(subwallet), 32).
			MustStoreUInt(0, 64). // last cleaned
			MustStoreSlice(pubKey, 256).
			MustStoreDict(nil). // old queries
			EndCell()
	case PWV2:
		data = cell.BeginCell().
			MustStoreSlice(pubKey, 256).
			MustStoreUInt(0, 16). // seqno
			EndCell()
	default:
		return nil, ErrUnsupportedWalletVersion
	}

	return &tlb.StateInit{
		Data: data,
		Code: code,
	}, nil
}
