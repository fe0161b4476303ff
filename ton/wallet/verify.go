package wallet

import (
	"crypto/ed25519"
	"fmt"

	ed25519crv "github.com/oasisprotocol/curve25519-voi/primitives/ed25519"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/tvm/cell"
)

// VerifySignature checks the detached signature of an external message body
// built for the given wallet family.
func VerifySignature(ver Version, pubKey ed25519.PublicKey, body *cell.Cell) error {
	if body == nil {
		return fmt.Errorf("%w: body is nil", ErrInvalidSignature)
	}
	if len(pubKey) != ed25519.PublicKeySize {
		return fmt.Errorf("%w: invalid public key size %d", ErrInvalidSignature, len(pubKey))
	}

	s := body.BeginParse()
	sign, err := s.LoadSlice(512)
	if err != nil {
		return fmt.Errorf("%w: failed to load signature: %w", ErrInvalidSignature, err)
	}

	var signed *cell.Cell
	switch ver {
	case V3R2, V4R2, HighloadV2:
		signed, err = s.ToCell()
	case PWV2:
		signed, err = s.LoadRefCell()
	default:
		return ErrUnsupportedWalletVersion
	}
	if err != nil {
		return fmt.Errorf("%w: failed to load signed payload: %w", ErrInvalidSignature, err)
	}

	if !ed25519crv.Verify(ed25519crv.PublicKey(pubKey), signed.Hash(), sign) {
		return ErrInvalidSignature
	}
	return nil
}

type HighloadV2Body struct {
	Signature   []byte
	SubwalletID uint32
	QueryID     uint64
	Messages    []HighloadV2Message
}

type HighloadV2Message struct {
	Mode    uint8
	Message *tlb.InternalMessage
}

// ParseHighloadV2Body decodes a highload v2 external message body.
// Messages are returned in key order, a gap in keys gives ErrBatchOrder.
func ParseHighloadV2Body(body *cell.Cell) (*HighloadV2Body, error) {
	if body == nil {
		return nil, fmt.Errorf("%w: nil body", ErrStorageDecode)
	}
	s := body.BeginParse()

	sign, err := s.LoadSlice(512)
	if err != nil {
		return nil, fmt.Errorf("failed to load signature: %w", err)
	}
	subwallet, err := s.LoadUInt(32)
	if err != nil {
		return nil, fmt.Errorf("failed to load subwallet id: %w", err)
	}
	queryID, err := s.LoadUInt(64)
	if err != nil {
		return nil, fmt.Errorf("failed to load query id: %w", err)
	}
	dict, err := s.LoadDict(16)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages dict: %w", err)
	}

	res := &HighloadV2Body{
		Signature:   sign,
		SubwalletID: uint32(subwallet),
		QueryID:     queryID,
	}
	if dict == nil {
		return res, nil
	}

	kvs, err := dict.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate messages: %w", err)
	}

	for i, kv := range kvs {
		key, err := kv.Key.LoadInt(16)
		if err != nil {
			return nil, fmt.Errorf("failed to load key %d: %w", i, err)
		}
		if key != int64(i) {
			return nil, fmt.Errorf("%w: expected key %d, got %d", ErrBatchOrder, i, key)
		}

		mode, err := kv.Value.LoadUInt(8)
		if err != nil {
			return nil, fmt.Errorf("failed to load mode of message %d: %w", i, err)
		}
		ref, err := kv.Value.LoadRef()
		if err != nil {
			return nil, fmt.Errorf("failed to load message %d: %w", i, err)
		}

		var msg tlb.InternalMessage
		if err = tlb.LoadFromCell(&msg, ref); err != nil {
			return nil, fmt.Errorf("failed to parse message %d: %w", i, err)
		}

		res.Messages = append(res.Messages, HighloadV2Message{
			Mode:    uint8(mode),
			Message: &msg,
		})
	}

	return res, nil
}
