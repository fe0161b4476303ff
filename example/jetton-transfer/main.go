package main

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"log"
	"os"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/liteclient"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/ton"
	"github.com/xssnick/tonutils-go/tvm/cell"

	"github.com/tonsmc/tonsmc-go/ton/jetton"
	"github.com/tonsmc/tonsmc-go/ton/wallet"
)

func main() {
	seed, err := hex.DecodeString(os.Getenv("WALLET_SEED_HEX"))
	if err != nil || len(seed) != ed25519.SeedSize {
		log.Fatalln("WALLET_SEED_HEX should contain 32 bytes seed in hex")
		return
	}
	key := ed25519.NewKeyFromSeed(seed)

	client := liteclient.NewConnectionPool()

	err = client.AddConnectionsFromConfigUrl(context.Background(), "https://ton.org/global.config.json")
	if err != nil {
		panic(err)
	}

	ctx := client.StickyContext(context.Background())
	api := ton.NewAPIClient(client)

	w, err := wallet.NewV4(key.Public().(ed25519.PublicKey), wallet.WithPrivateKey(key))
	if err != nil {
		log.Fatalln("NewV4 err:", err.Error())
		return
	}

	block, err := api.CurrentMasterchainInfo(ctx)
	if err != nil {
		log.Fatal(err)
	}

	master := address.MustParseAddr("EQD0vdSA_NedR9uvbgN9EikRX-suesDxGeFg69XQMavfLqIw")

	// find our jetton wallet
	res, err := api.WaitForBlock(block.SeqNo).RunGetMethod(ctx, block, master, "get_wallet_address",
		cell.BeginCell().MustStoreAddr(w.Address()).EndCell().BeginParse())
	if err != nil {
		log.Fatal(err)
	}
	tokenWalletSlice, err := res.Slice(0)
	if err != nil {
		log.Fatal(err)
	}
	tokenWallet, err := tokenWalletSlice.LoadAddr()
	if err != nil {
		log.Fatal(err)
	}

	var seqno uint32
	res, err = api.WaitForBlock(block.SeqNo).RunGetMethod(ctx, block, w.Address(), "seqno")
	if err != nil {
		if cErr, ok := err.(ton.ContractExecError); !ok || cErr.Code != ton.ErrCodeContractNotInitialized {
			log.Fatal(err)
		}
	} else {
		iSeq, err := res.Int(0)
		if err != nil {
			log.Fatal(err)
		}
		seqno = uint32(iSeq.Uint64())
	}

	comment, err := wallet.CreateCommentCell("Hello from tonsmc-go!")
	if err != nil {
		log.Fatal(err)
	}

	// address of receiver's wallet (not token wallet, just usual)
	to := address.MustParseAddr("EQCD39VS5jcptHL8vMjEXrzGaRcCVYto7HUn4bpAOg8xqB2N")
	body, err := jetton.BuildTransfer(jetton.TransferParams{
		QueryID:             uint64(block.SeqNo),
		Amount:              tlb.MustFromDecimal("0.1", 9),
		Destination:         to,
		ResponseDestination: w.Address(),
		ForwardTONAmount:    tlb.MustFromTON("0.01"),
		ForwardPayload:      comment,
	})
	if err != nil {
		log.Fatal(err)
	}

	// your TON balance must be > 0.05 to send
	ext, err := w.BuildTransfer(ctx, []*wallet.Transfer{{
		Mode:        wallet.PayGasSeparately + wallet.IgnoreErrors,
		Destination: tokenWallet,
		Bounce:      true,
		Amount:      tlb.MustFromTON("0.05"),
		Body:        body,
	}}, seqno, seqno == 0)
	if err != nil {
		log.Fatal(err)
	}

	log.Println("sending transaction...")
	if err = api.SendExternalMessage(ctx, ext); err != nil {
		panic(err)
	}
	log.Println("transfer sent from", w.Address().String())
}
