package metadata

import (
	"encoding/hex"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/xssnick/tonutils-go/tvm/cell"
)

const (
	TagOnchain  = 0x00
	TagOffchain = 0x01

	// value tag of an attribute stored as snake data
	tagSnake = 0x00
)

var (
	ErrInvalidContent              = errors.New("invalid content")
	ErrUnsupportedChunkedAttribute = errors.New("chunked attribute encoding is not supported")
)

// Logger receives non-fatal diagnostics, it is silent by default.
var Logger = func(v ...any) {}

// Content is either *Offchain or *Onchain.
type Content interface {
	isContent()
	ContentCell() (*cell.Cell, error)
}

type Offchain struct {
	URI string
}

// Onchain holds the known attributes, nil means the attribute is absent.
type Onchain struct {
	URI         *string
	Name        *string
	Description *string
	Image       *string
	ImageData   *string
	Symbol      *string
	Decimals    *string
}

func (*Offchain) isContent() {}
func (*Onchain) isContent()  {}

func FromCell(c *cell.Cell) (Content, error) {
	return Parse(c.BeginParse())
}

// Parse reads token metadata: tag 0x01 is an offchain link,
// any other tag is an onchain attributes dictionary.
func Parse(s *cell.Slice) (Content, error) {
	if s.BitsLeft() < 8 {
		if s.RefsNum() == 0 {
			return nil, ErrInvalidContent
		}
		s = s.MustLoadRef()
	}

	tag, err := s.LoadUInt(8)
	if err != nil {
		return nil, fmt.Errorf("failed to load tag: %w", err)
	}

	if tag == TagOffchain {
		uri, err := loadChunkedString(s)
		if err != nil {
			return nil, fmt.Errorf("failed to load offchain uri: %w", err)
		}
		return &Offchain{URI: uri}, nil
	}

	on, err := parseOnchain(s)
	if err != nil {
		return nil, err
	}
	return on, nil
}

func parseOnchain(s *cell.Slice) (*Onchain, error) {
	dict, err := s.LoadDict(256)
	if err != nil {
		return nil, fmt.Errorf("failed to load dict onchain data: %w", err)
	}

	on := &Onchain{}
	if dict == nil {
		return on, nil
	}

	kvs, err := dict.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate onchain data: %w", err)
	}

	for _, kv := range kvs {
		key, err := kv.Key.LoadSlice(256)
		if err != nil {
			return nil, fmt.Errorf("failed to load attribute key: %w", err)
		}

		attr, ok := attributesByHash[hex.EncodeToString(key)]
		if !ok {
			Logger("metadata: skipping unknown attribute", hex.EncodeToString(key))
			continue
		}

		val, err := kv.Value.LoadRef()
		if err != nil {
			return nil, fmt.Errorf("failed to load %s value: %w", attr.name, err)
		}

		tag, err := val.LoadUInt(8)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s value tag: %w", attr.name, err)
		}
		if tag != tagSnake {
			return nil, fmt.Errorf("%w: %s has tag %d", ErrUnsupportedChunkedAttribute, attr.name, tag)
		}

		str, err := loadChunkedString(val)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s value: %w", attr.name, err)
		}
		*attr.field(on) = &str
	}

	return on, nil
}

// loadChunkedString concatenates the whole bytes of the slice and then of
// every referenced cell, depth first in reference order.
func loadChunkedString(s *cell.Slice) (string, error) {
	var buf []byte
	if err := appendChunks(s, &buf); err != nil {
		return "", err
	}

	if !utf8.Valid(buf) {
		return "", fmt.Errorf("%w: string is not valid utf-8", ErrInvalidContent)
	}
	return string(buf), nil
}

func appendChunks(s *cell.Slice, buf *[]byte) error {
	data, err := s.LoadSlice(s.BitsLeft() / 8 * 8)
	if err != nil {
		return fmt.Errorf("failed to load chunk: %w", err)
	}
	*buf = append(*buf, data...)

	for s.RefsNum() > 0 {
		next, err := s.LoadRef()
		if err != nil {
			return fmt.Errorf("failed to load next chunk: %w", err)
		}
		if err = appendChunks(next, buf); err != nil {
			return err
		}
	}
	return nil
}

func (c *Offchain) ContentCell() (*cell.Cell, error) {
	b := cell.BeginCell().MustStoreUInt(TagOffchain, 8)
	if err := b.StoreStringSnake(c.URI); err != nil {
		return nil, fmt.Errorf("failed to store uri: %w", err)
	}
	return b.EndCell(), nil
}

// ContentCell stores every present attribute as snake data.
func (c *Onchain) ContentCell() (*cell.Cell, error) {
	dict := cell.NewDict(256)

	for _, a := range knownAttributes {
		val := *a.field(c)
		if val == nil {
			continue
		}

		v := cell.BeginCell().MustStoreUInt(tagSnake, 8)
		if err := v.StoreStringSnake(*val); err != nil {
			return nil, fmt.Errorf("failed to store %s: %w", a.name, err)
		}

		key := cell.BeginCell().MustStoreSlice(attributeKey(a.name), 256).EndCell()
		if err := dict.Set(key, cell.BeginCell().MustStoreRef(v.EndCell()).EndCell()); err != nil {
			return nil, fmt.Errorf("failed to set %s: %w", a.name, err)
		}
	}

	return cell.BeginCell().MustStoreUInt(TagOnchain, 8).MustStoreDict(dict).EndCell(), nil
}
