package wallet

import (
	"context"
	"crypto/ed25519"
	"fmt"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/tvm/cell"
)

// account holds what every wallet family derives once at construction.
// It is never mutated afterwards, so wallets are safe for concurrent use.
type account struct {
	ver       Version
	pubKey    ed25519.PublicKey
	cfg       walletConfig
	stateInit *tlb.StateInit
	addr      *address.Address
}

func newAccount(ver Version, pubKey ed25519.PublicKey, defaultSubwallet uint32, opts []Option) (*account, error) {
	if len(pubKey) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("invalid public key size %d", len(pubKey))
	}

	cfg := walletConfig{
		subwallet:   defaultSubwallet,
		messagesTTL: DefaultMessagesTTL,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	state, err := GetStateInit(pubKey, ver, cfg.subwallet)
	if err != nil {
		return nil, fmt.Errorf("failed to get state init: %w", err)
	}

	addr, err := AddressFromStateInit(state, cfg.workchain)
	if err != nil {
		return nil, err
	}

	return &account{
		ver:       ver,
		pubKey:    pubKey,
		cfg:       cfg,
		stateInit: state,
		addr:      addr,
	}, nil
}

// Address returns the bounceable address of the wallet.
func (a *account) Address() *address.Address {
	return a.addr
}

func (a *account) StateInit() *tlb.StateInit {
	return a.stateInit
}

func (a *account) PublicKey() ed25519.PublicKey {
	return a.pubKey
}

func (a *account) Version() Version {
	return a.ver
}

// deadline is computed at encode time, a message that waits longer than
// the ttl before reaching the chain is rejected by the contract.
func (a *account) deadline() int64 {
	validUntil := timeNow().Add(a.cfg.messagesTTL).UTC().Unix()
	Logger("wallet", a.addr.String(), "using default deadline", validUntil)
	return validUntil
}

func (a *account) sign(ctx context.Context, c *cell.Cell) ([]byte, error) {
	if a.cfg.signer == nil {
		return nil, ErrNoSigner
	}

	sign, err := a.cfg.signer(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("failed to sign: %w", err)
	}
	if len(sign) != ed25519.SignatureSize {
		return nil, fmt.Errorf("%w: signer returned %d bytes", ErrInvalidSignature, len(sign))
	}
	return sign, nil
}

func (a *account) externalMessage(body *cell.Cell, withStateInit bool) *tlb.ExternalMessage {
	var state *tlb.StateInit
	if withStateInit {
		state = a.stateInit
	}

	return &tlb.ExternalMessage{
		DstAddr:   a.addr,
		StateInit: state,
		Body:      body,
	}
}
