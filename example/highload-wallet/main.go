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

	// connect to testnet lite servers
	err = client.AddConnectionsFromConfigUrl(context.Background(), "https://ton-blockchain.github.io/testnet-global.config.json")
	if err != nil {
		log.Fatalln("connection err: ", err.Error())
		return
	}

	api := ton.NewAPIClient(client).WithRetry()
	wallet.Logger = log.Println

	w, err := wallet.NewHighloadV2(key.Public().(ed25519.PublicKey), wallet.WithPrivateKey(key))
	if err != nil {
		log.Fatalln("NewHighloadV2 err:", err.Error())
		return
	}

	log.Println("wallet address:", w.Address().Bounce(false).String())

	block, err := api.CurrentMasterchainInfo(context.Background())
	if err != nil {
		log.Fatalln("CurrentMasterchainInfo err:", err.Error())
		return
	}

	acc, err := api.WaitForBlock(block.SeqNo).GetAccount(context.Background(), block, w.Address())
	if err != nil {
		log.Fatalln("GetAccount err:", err.Error())
		return
	}

	if !acc.IsActive || acc.State.Balance.Nano().Uint64() < 10000000 {
		log.Println("not enough balance, top up", w.Address().Bounce(false).String())
		return
	}
	deploy := acc.State.Status != tlb.AccountStatusActive

	// source to create messages from
	var receivers = map[string]string{
		"EQCD39VS5jcptHL8vMjEXrzGaRcCVYto7HUn4bpAOg8xqB2N": "0.001",
		"EQBx6tZZWa2Tbv6BvgcvegoOQxkRrVaBVwBOoW85nbP37_Go": "0.002",
		"EQBLS8WneoKVGrwq2MO786J6ruQNiv62NXr8Ko_l5Ttondoc": "0.003",
	}

	var transfers []*wallet.Transfer
	// up to 254 messages can be sent in one batch
	for addrStr, amtStr := range receivers {
		tr, err := wallet.SimpleTransfer(address.MustParseAddr(addrStr), tlb.MustFromTON(amtStr), false, "batch payout")
		if err != nil {
			log.Fatalln("SimpleTransfer err:", err.Error())
			return
		}
		transfers = append(transfers, tr)
	}

	ext, err := w.BuildTransfer(context.Background(), transfers, deploy)
	if err != nil {
		log.Fatalln("BuildTransfer err:", err.Error())
		return
	}

	if err = api.SendExternalMessage(context.Background(), ext); err != nil {
		log.Fatalln("SendExternalMessage err:", err.Error())
		return
	}

	body, err := wallet.ParseHighloadV2Body(ext.Body)
	if err != nil {
		log.Fatalln("ParseHighloadV2Body err:", err.Error())
		return
	}
	log.Println("batch sent, query id:", body.QueryID, "messages:", len(body.Messages))
}
