package wallet

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/tvm/cell"

	"github.com/tonsmc/tonsmc-go/ton/payload"
)

var testDst = address.MustParseAddr("EQCvoBT5Keb46oUhI_DpX0WXFDdX9ZyxXBfX3FC9cZa90nQP")

func testKey() ed25519.PrivateKey {
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = byte(i + 1)
	}
	return ed25519.NewKeyFromSeed(seed)
}

func fixTime(t *testing.T) {
	oldNow, oldRand := timeNow, randUint32
	timeNow = func() time.Time {
		return time.Unix(1700000000, 0)
	}
	randUint32 = func() uint32 {
		return 0xDEADBEEF
	}
	t.Cleanup(func() {
		timeNow, randUint32 = oldNow, oldRand
	})
}

func makeTransfers(n int) []*Transfer {
	list := make([]*Transfer, n)
	for i := range list {
		list[i] = &Transfer{
			Mode:        PayGasSeparately + IgnoreErrors,
			Destination: testDst,
			Bounce:      i%2 == 0,
			Amount:      tlb.FromNanoTONU(uint64(1000 + i)),
		}
	}
	return list
}

func TestSimpleTransfer(t *testing.T) {
	tr, err := SimpleTransfer(testDst, tlb.MustFromTON("0.5"), true, "hello")
	if err != nil {
		t.Fatal(err)
	}
	if tr.Mode != 3 || !tr.Bounce {
		t.Fatal("bad transfer flags")
	}

	msg := tr.InternalMessage()
	if !msg.IHRDisabled {
		t.Fatal("ihr should be disabled")
	}
	if msg.Comment() != "hello" {
		t.Fatal("comment not match:", msg.Comment())
	}

	empty, err := SimpleTransfer(testDst, tlb.MustFromTON("0.5"), true, "")
	if err != nil {
		t.Fatal(err)
	}
	if empty.Body != nil {
		t.Fatal("empty comment should give no body")
	}
}

func TestV3_BuildTransfer(t *testing.T) {
	fixTime(t)
	key := testKey()

	w, err := NewV3(key.Public().(ed25519.PublicKey), WithPrivateKey(key))
	if err != nil {
		t.Fatal(err)
	}

	for n := 0; n <= 4; n++ {
		msg, err := w.BuildTransfer(context.Background(), makeTransfers(n), 7, false)
		if err != nil {
			t.Fatal(n, err)
		}

		s := msg.Body.BeginParse()
		s.MustLoadSlice(512)
		if s.MustLoadUInt(32) != DefaultSubwallet {
			t.Fatal("bad subwallet")
		}
		if s.MustLoadUInt(32) != 1700000060 {
			t.Fatal("bad deadline")
		}
		if s.MustLoadUInt(32) != 7 {
			t.Fatal("bad seqno")
		}
		for i := 0; i < n; i++ {
			if s.MustLoadUInt(8) != 3 {
				t.Fatal("bad mode")
			}
		}
		if s.BitsLeft() != 0 || int(s.RefsNum()) != n {
			t.Fatal("unexpected tail", s.BitsLeft(), s.RefsNum())
		}

		if err = VerifySignature(V3, w.PublicKey(), msg.Body); err != nil {
			t.Fatal(err)
		}
	}

	_, err = w.BuildTransfer(context.Background(), makeTransfers(5), 7, false)
	if !errors.Is(err, ErrTooManyTransfers) {
		t.Fatal("5 transfers should fail, got", err)
	}
}

func TestV4_BuildTransferUntil(t *testing.T) {
	key := testKey()

	w, err := NewV4(key.Public().(ed25519.PublicKey), WithPrivateKey(key), WithSubwallet(5))
	if err != nil {
		t.Fatal(err)
	}

	msg, err := w.BuildTransferUntil(context.Background(), makeTransfers(4), 1, 12345, true)
	if err != nil {
		t.Fatal(err)
	}

	if msg.StateInit == nil || msg.StateInit != w.StateInit() {
		t.Fatal("state init should be attached")
	}
	if !bytes.Equal(msg.DstAddr.Data(), w.Address().Data()) {
		t.Fatal("external message should go to the wallet")
	}

	s := msg.Body.BeginParse()
	s.MustLoadSlice(512)
	if s.MustLoadUInt(32) != 5 || s.MustLoadUInt(32) != 12345 || s.MustLoadUInt(32) != 1 {
		t.Fatal("bad header")
	}
	if s.MustLoadUInt(8) != 0 {
		t.Fatal("op should be zero")
	}

	ref, err := s.LoadRefCell()
	if err != nil {
		t.Fatal(err)
	}
	var intMsg tlb.InternalMessage
	if err = tlb.LoadFromCell(&intMsg, ref.BeginParse()); err != nil {
		t.Fatal(err)
	}
	if intMsg.Amount.Nano().Uint64() != 1000 || !intMsg.Bounce || !intMsg.IHRDisabled {
		t.Fatal("bad internal message")
	}

	if err = VerifySignature(V4, w.PublicKey(), msg.Body); err != nil {
		t.Fatal(err)
	}
	if _, err = tlb.ToCell(msg); err != nil {
		t.Fatal("envelope should serialize:", err)
	}

	_, err = w.BuildTransferUntil(context.Background(), makeTransfers(5), 1, 12345, false)
	if !errors.Is(err, ErrTooManyTransfers) {
		t.Fatal("5 transfers should fail, got", err)
	}
	_, err = w.BuildTransfer(context.Background(), makeTransfers(5), 1, false)
	if !errors.Is(err, ErrTooManyTransfers) {
		t.Fatal("5 transfers should fail, got", err)
	}
}

func TestBuildTransfer_Deterministic(t *testing.T) {
	fixTime(t)
	key := testKey()
	pub := key.Public().(ed25519.PublicKey)

	v3, _ := NewV3(pub, WithPrivateKey(key))
	v4, _ := NewV4(pub, WithPrivateKey(key))
	hl, _ := NewHighloadV2(pub, WithPrivateKey(key))
	pw, _ := NewPWV2(pub, WithPrivateKey(key))

	builders := map[string]func() (*tlb.ExternalMessage, error){
		"v3": func() (*tlb.ExternalMessage, error) {
			return v3.BuildTransfer(context.Background(), makeTransfers(3), 10, true)
		},
		"v4": func() (*tlb.ExternalMessage, error) {
			return v4.BuildTransfer(context.Background(), makeTransfers(3), 10, true)
		},
		"highload": func() (*tlb.ExternalMessage, error) {
			return hl.BuildTransfer(context.Background(), makeTransfers(3), true)
		},
		"pwv2": func() (*tlb.ExternalMessage, error) {
			return pw.BuildTransfer(context.Background(), makeTransfers(3), 10, true)
		},
	}

	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			a, err := build()
			if err != nil {
				t.Fatal(err)
			}
			b, err := build()
			if err != nil {
				t.Fatal(err)
			}

			ac, err := tlb.ToCell(a)
			if err != nil {
				t.Fatal(err)
			}
			bc, err := tlb.ToCell(b)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(ac.ToBOC(), bc.ToBOC()) {
				t.Fatal("envelopes differ")
			}
		})
	}
}

func TestHighloadV2_BatchSize(t *testing.T) {
	fixTime(t)
	key := testKey()

	w, err := NewHighloadV2(key.Public().(ed25519.PublicKey), WithPrivateKey(key), WithSubwallet(9))
	if err != nil {
		t.Fatal(err)
	}

	for _, n := range []int{1, 254} {
		msg, err := w.BuildTransfer(context.Background(), makeTransfers(n), false)
		if err != nil {
			t.Fatal(n, err)
		}
		if msg.StateInit != nil {
			t.Fatal("state init should not be attached")
		}

		body, err := ParseHighloadV2Body(msg.Body)
		if err != nil {
			t.Fatal(err)
		}
		if body.SubwalletID != 9 {
			t.Fatal("bad subwallet")
		}
		if body.QueryID != GenerateQueryID(1700000060, 0xDEADBEEF) {
			t.Fatal("bad query id")
		}
		if len(body.Messages) != n {
			t.Fatal("bad messages count", len(body.Messages))
		}
		for i, m := range body.Messages {
			if m.Message.Amount.Nano().Uint64() != uint64(1000+i) {
				t.Fatal("messages out of order at", i)
			}
		}

		if err = VerifySignature(HighloadV2, w.PublicKey(), msg.Body); err != nil {
			t.Fatal(err)
		}
	}

	for _, n := range []int{0, 255} {
		_, err = w.BuildTransfer(context.Background(), makeTransfers(n), false)
		if !errors.Is(err, ErrBatchSize) {
			t.Fatal(n, "transfers should fail, got", err)
		}
	}
}

func TestHighloadV2_QueryID(t *testing.T) {
	if GenerateQueryID(1, 2) != 1<<32|2 {
		t.Fatal("bad query id layout")
	}

	key := testKey()
	w, _ := NewHighloadV2(key.Public().(ed25519.PublicKey), WithPrivateKey(key))

	msg, err := w.BuildTransferWithQueryID(context.Background(), makeTransfers(2), 777, false)
	if err != nil {
		t.Fatal(err)
	}
	body, err := ParseHighloadV2Body(msg.Body)
	if err != nil {
		t.Fatal(err)
	}
	if body.QueryID != 777 {
		t.Fatal("query id not used")
	}
}

func TestParseHighloadV2Body_Gap(t *testing.T) {
	dict := cell.NewDict(16)
	for _, k := range []int64{0, 2} {
		msg, err := makeTransfers(1)[0].messageCell()
		if err != nil {
			t.Fatal(err)
		}
		err = dict.SetIntKey(big.NewInt(k), cell.BeginCell().MustStoreUInt(3, 8).MustStoreRef(msg).EndCell())
		if err != nil {
			t.Fatal(err)
		}
	}

	body := cell.BeginCell().
		MustStoreSlice(make([]byte, 64), 512).
		MustStoreUInt(0, 32).
		MustStoreUInt(1, 64).
		MustStoreDict(dict).
		EndCell()

	if _, err := ParseHighloadV2Body(body); !errors.Is(err, ErrBatchOrder) {
		t.Fatal("gap should be detected, got", err)
	}
}

func TestParseHighloadV2Body_Nil(t *testing.T) {
	if _, err := ParseHighloadV2Body(nil); !errors.Is(err, ErrStorageDecode) {
		t.Fatal("nil body should fail, got", err)
	}
}

func TestPWV2_BuildTransfer(t *testing.T) {
	key := testKey()

	w, err := NewPWV2(key.Public().(ed25519.PublicKey), WithPrivateKey(key))
	if err != nil {
		t.Fatal(err)
	}

	for _, n := range []int{1, 3, 255} {
		transfers := makeTransfers(n)
		msg, err := w.BuildTransferUntil(context.Background(), transfers, 42, 1<<40, false)
		if err != nil {
			t.Fatal(n, err)
		}

		if msg.Body.BitsSize() != 512 || msg.Body.RefsNum() != 1 {
			t.Fatal("signature should be followed by a reference")
		}

		s := msg.Body.BeginParse()
		s.MustLoadSlice(512)
		inner := s.MustLoadRef()
		if inner.MustLoadUInt(64) != 1<<40 || inner.MustLoadUInt(16) != 42 {
			t.Fatal("bad inner header")
		}

		// walk from the last action to the first
		list := inner.MustLoadRef()
		for i := n - 1; i >= 0; i-- {
			prev := list.MustLoadRef()
			if list.MustLoadUInt(32) != OpSendMsg {
				t.Fatal("bad action tag")
			}
			if list.MustLoadUInt(8) != uint64(transfers[i].Mode) {
				t.Fatal("bad mode")
			}

			var intMsg tlb.InternalMessage
			if err = tlb.LoadFromCell(&intMsg, list.MustLoadRef()); err != nil {
				t.Fatal(err)
			}
			if intMsg.Amount.Nano().Uint64() != uint64(1000+i) {
				t.Fatal("actions out of order at", i)
			}
			list = prev
		}
		if list.BitsLeft() != 0 || list.RefsNum() != 0 {
			t.Fatal("list should end with an empty cell")
		}

		if err = VerifySignature(PWV2, w.PublicKey(), msg.Body); err != nil {
			t.Fatal(err)
		}
	}

	if _, err = w.BuildTransfer(context.Background(), nil, 1, false); !errors.Is(err, ErrNoTransfers) {
		t.Fatal("empty list should fail, got", err)
	}
	if _, err = w.BuildTransfer(context.Background(), makeTransfers(256), 1, false); !errors.Is(err, ErrTooManyTransfers) {
		t.Fatal("256 transfers should fail, got", err)
	}
}

func TestVerifySignature_WrongKey(t *testing.T) {
	key := testKey()
	w, _ := NewV3(key.Public().(ed25519.PublicKey), WithPrivateKey(key))

	msg, err := w.BuildTransferUntil(context.Background(), makeTransfers(1), 1, 100, false)
	if err != nil {
		t.Fatal(err)
	}

	_, other, _ := ed25519.GenerateKey(nil)
	if err = VerifySignature(V3, other.Public().(ed25519.PublicKey), msg.Body); !errors.Is(err, ErrInvalidSignature) {
		t.Fatal("foreign key should not verify, got", err)
	}
	if err = VerifySignature(PWV2, w.PublicKey(), msg.Body); !errors.Is(err, ErrInvalidSignature) {
		t.Fatal("wrong layout should not verify, got", err)
	}
}

func TestBuildTransfer_InvalidInput(t *testing.T) {
	key := testKey()
	pub := key.Public().(ed25519.PublicKey)

	noKey, _ := NewV3(pub)
	if _, err := noKey.BuildTransferUntil(context.Background(), makeTransfers(1), 1, 100, false); !errors.Is(err, ErrNoSigner) {
		t.Fatal("expected no signer error, got", err)
	}

	w, _ := NewV3(pub, WithPrivateKey(key))

	noDst := makeTransfers(2)
	noDst[1].Destination = nil
	if _, err := w.BuildTransferUntil(context.Background(), noDst, 1, 100, false); !errors.Is(err, ErrNilDestination) {
		t.Fatal("expected nil destination error, got", err)
	}

	huge := makeTransfers(1)
	huge[0].Amount = tlb.FromNanoTON(new(big.Int).Lsh(big.NewInt(1), 120))
	if _, err := w.BuildTransferUntil(context.Background(), huge, 1, 100, false); !errors.Is(err, payload.ErrCoinsOverflow) {
		t.Fatal("expected coins overflow, got", err)
	}

	badSigner, _ := NewV3(pub, WithSigner(func(ctx context.Context, c *cell.Cell) ([]byte, error) {
		return []byte{1, 2, 3}, nil
	}))
	if _, err := badSigner.BuildTransferUntil(context.Background(), makeTransfers(1), 1, 100, false); !errors.Is(err, ErrInvalidSignature) {
		t.Fatal("short signature should fail, got", err)
	}
}
