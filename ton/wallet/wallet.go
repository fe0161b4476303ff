package wallet

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/tvm/cell"

	"github.com/tonsmc/tonsmc-go/ton/payload"
)

type Version int

const (
	V3R2       Version = 32
	V3                 = V3R2
	V4R2       Version = 42
	V4                 = V4R2
	HighloadV2 Version = 120
	PWV2       Version = 1002
	Unknown    Version = 0
)

const (
	CarryAllRemainingBalance       = 128
	CarryAllRemainingIncomingValue = 64
	DestroyAccountIfZero           = 32
	IgnoreErrors                   = 2
	PayGasSeparately               = 1
)

// DefaultSubwallet is the subwallet id hardcoded by most v3/v4 wallet apps.
const DefaultSubwallet = 698983191

// Per-message limits of each family.
const (
	MaxRegularTransfers  = 4
	MaxHighloadTransfers = 254
	MaxPWV2Transfers     = 255
)

func (v Version) String() string {
	switch v {
	case V3R2:
		return "V3R2"
	case V4R2:
		return "V4R2"
	case HighloadV2:
		return "highload V2"
	case PWV2:
		return "preprocessed V2"
	case Unknown:
		return "unknown"
	}
	return fmt.Sprintf("%d", int(v))
}

// Logger receives non-fatal diagnostics, it is silent by default.
var Logger = func(v ...any) {}

// defining some funcs this way to mock for tests
var randUint32 = func() uint32 {
	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	return binary.LittleEndian.Uint32(buf)
}

var timeNow = time.Now

var (
	ErrUnsupportedWalletVersion = errors.New("wallet version is not supported")
	ErrMalformedCode            = errors.New("malformed wallet code constant")
	ErrTooManyTransfers         = errors.New("too many transfers for this wallet type")
	ErrNoTransfers              = errors.New("transfer list is empty")
	ErrBatchSize                = errors.New("highload wallet can make only 1 to 254 transfers per operation")
	ErrNilDestination           = errors.New("transfer destination is nil")
	ErrNoSigner                 = errors.New("wallet has no signer")
	ErrInvalidSignature         = errors.New("invalid signature")
	ErrStorageDecode            = errors.New("failed to decode contract storage")
	ErrBatchOrder               = errors.New("batch keys are not dense")
)

// Transfer is a single outgoing internal message request.
type Transfer struct {
	Mode        uint8
	Destination *address.Address
	Bounce      bool
	Amount      tlb.Coins
	Body        *cell.Cell

	// StateInit deploys the destination in the same message, optional.
	StateInit *tlb.StateInit
}

// SimpleTransfer builds a transfer with a text comment, paying fees separately
// and ignoring action errors, as regular wallet apps do.
func SimpleTransfer(to *address.Address, amount tlb.Coins, bounce bool, comment string) (_ *Transfer, err error) {
	var body *cell.Cell
	if comment != "" {
		body, err = CreateCommentCell(comment)
		if err != nil {
			return nil, err
		}
	}

	return &Transfer{
		Mode:        PayGasSeparately + IgnoreErrors,
		Destination: to,
		Bounce:      bounce,
		Amount:      amount,
		Body:        body,
	}, nil
}

func CreateCommentCell(text string) (*cell.Cell, error) {
	// comment ident
	root := cell.BeginCell().MustStoreUInt(0, 32)

	if err := root.StoreStringSnake(text); err != nil {
		return nil, fmt.Errorf("failed to build comment: %w", err)
	}

	return root.EndCell(), nil
}

func (t *Transfer) validate() error {
	if t == nil || t.Destination == nil {
		return ErrNilDestination
	}
	if err := payload.ValidateCoins(t.Amount); err != nil {
		return fmt.Errorf("invalid transfer amount: %w", err)
	}
	return nil
}

// InternalMessage converts the transfer to the message that the wallet will emit.
func (t *Transfer) InternalMessage() *tlb.InternalMessage {
	return &tlb.InternalMessage{
		IHRDisabled: true,
		Bounce:      t.Bounce,
		DstAddr:     t.Destination,
		Amount:      t.Amount,
		StateInit:   t.StateInit,
		Body:        t.Body,
	}
}

func (t *Transfer) messageCell() (*cell.Cell, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}

	msg, err := tlb.ToCell(t.InternalMessage())
	if err != nil {
		return nil, fmt.Errorf("failed to convert internal message to cell: %w", err)
	}
	return msg, nil
}

func validateTransfers(transfers []*Transfer) error {
	for i, t := range transfers {
		if err := t.validate(); err != nil {
			return fmt.Errorf("transfer %d: %w", i, err)
		}
	}
	return nil
}
