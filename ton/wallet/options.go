package wallet

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"time"

	"github.com/xssnick/tonutils-go/tvm/cell"
)

// DefaultMessagesTTL is added to the current time when no deadline is given.
const DefaultMessagesTTL = 60 * time.Second

// Signer returns a detached ed25519 signature of the cell hash.
type Signer func(context.Context, *cell.Cell) ([]byte, error)

type walletConfig struct {
	workchain   int8
	subwallet   uint32
	messagesTTL time.Duration
	signer      Signer
}

type Option func(*walletConfig)

func WithWorkchain(workchain int8) Option {
	return func(c *walletConfig) {
		c.workchain = workchain
	}
}

// WithSubwallet can be used to operate multiple wallets with the same key and version.
// Preprocessed wallets have no subwallet id and ignore it.
func WithSubwallet(subwallet uint32) Option {
	return func(c *walletConfig) {
		c.subwallet = subwallet
	}
}

func WithMessagesTTL(ttl time.Duration) Option {
	return func(c *walletConfig) {
		c.messagesTTL = ttl
	}
}

func WithSigner(signer Signer) Option {
	return func(c *walletConfig) {
		c.signer = signer
	}
}

func WithPrivateKey(key ed25519.PrivateKey) Option {
	return WithSigner(func(ctx context.Context, c *cell.Cell) ([]byte, error) {
		if c == nil {
			return nil, fmt.Errorf("cannot sign: cell is nil")
		}
		return c.Sign(key), nil
	})
}
