package wallet

import (
	"crypto/ed25519"
	"fmt"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tvm/cell"
)

type V3Storage struct {
	Seqno       uint32
	SubwalletID uint32
	PublicKey   ed25519.PublicKey
}

type V4Storage struct {
	Seqno       uint32
	SubwalletID uint32
	PublicKey   ed25519.PublicKey
	Plugins     []*address.Address
}

type HighloadV2Storage struct {
	SubwalletID uint32
	LastCleaned uint64
	PublicKey   ed25519.PublicKey
	OldQueries  int
}

type PWV2Storage struct {
	PublicKey ed25519.PublicKey
	Seqno     uint16
}

func ParseV3Storage(s *cell.Slice) (*V3Storage, error) {
	seqno, err := s.LoadUInt(32)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load seqno: %w", ErrStorageDecode, err)
	}
	subwallet, err := s.LoadUInt(32)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load subwallet id: %w", ErrStorageDecode, err)
	}
	pubKey, err := loadPublicKey(s)
	if err != nil {
		return nil, err
	}

	return &V3Storage{
		Seqno:       uint32(seqno),
		SubwalletID: uint32(subwallet),
		PublicKey:   pubKey,
	}, nil
}

func ParseV4Storage(s *cell.Slice) (*V4Storage, error) {
	v3, err := ParseV3Storage(s)
	if err != nil {
		return nil, err
	}

	dict, err := s.LoadDict(8 + 256)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load plugins dict: %w", ErrStorageDecode, err)
	}

	var plugins []*address.Address
	if dict != nil {
		kvs, err := dict.LoadAll()
		if err != nil {
			return nil, fmt.Errorf("%w: failed to enumerate plugins: %w", ErrStorageDecode, err)
		}

		for i, kv := range kvs {
			wc, err := kv.Key.LoadInt(8)
			if err != nil {
				return nil, fmt.Errorf("%w: failed to load workchain of plugin %d: %w", ErrStorageDecode, i, err)
			}
			data, err := kv.Key.LoadSlice(256)
			if err != nil {
				return nil, fmt.Errorf("%w: failed to load address of plugin %d: %w", ErrStorageDecode, i, err)
			}
			plugins = append(plugins, address.NewAddress(0, byte(wc), data))
		}
	}

	return &V4Storage{
		Seqno:       v3.Seqno,
		SubwalletID: v3.SubwalletID,
		PublicKey:   v3.PublicKey,
		Plugins:     plugins,
	}, nil
}

func ParseHighloadV2Storage(s *cell.Slice) (*HighloadV2Storage, error) {
	subwallet, err := s.LoadUInt(32)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load subwallet id: %w", ErrStorageDecode, err)
	}
	lastCleaned, err := s.LoadUInt(64)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load last cleaned: %w", ErrStorageDecode, err)
	}
	pubKey, err := loadPublicKey(s)
	if err != nil {
		return nil, err
	}

	dict, err := s.LoadDict(64)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load old queries: %w", ErrStorageDecode, err)
	}

	var queries int
	if dict != nil {
		kvs, err := dict.LoadAll()
		if err != nil {
			return nil, fmt.Errorf("%w: failed to enumerate old queries: %w", ErrStorageDecode, err)
		}
		queries = len(kvs)
	}

	return &HighloadV2Storage{
		SubwalletID: uint32(subwallet),
		LastCleaned: lastCleaned,
		PublicKey:   pubKey,
		OldQueries:  queries,
	}, nil
}

func ParsePWV2Storage(s *cell.Slice) (*PWV2Storage, error) {
	pubKey, err := loadPublicKey(s)
	if err != nil {
		return nil, err
	}
	seqno, err := s.LoadUInt(16)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load seqno: %w", ErrStorageDecode, err)
	}

	return &PWV2Storage{
		PublicKey: pubKey,
		Seqno:     uint16(seqno),
	}, nil
}

func loadPublicKey(s *cell.Slice) (ed25519.PublicKey, error) {
	key, err := s.LoadSlice(256)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load public key: %w", ErrStorageDecode, err)
	}
	return key, nil
}
