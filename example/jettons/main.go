package main

import (
	"context"
	"log"
	"os"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/liteclient"
	"github.com/xssnick/tonutils-go/ton"

	"github.com/tonsmc/tonsmc-go/ton/metadata"
)

func main() {
	client := liteclient.NewConnectionPool()

	err := client.AddConnectionsFromConfigUrl(context.Background(), "https://ton.org/global.config.json")
	if err != nil {
		panic(err)
	}

	api := ton.NewAPIClient(client).WithRetry()
	metadata.Logger = log.Println

	masterAddr := "EQD0vdSA_NedR9uvbgN9EikRX-suesDxGeFg69XQMavfLqIw"
	if len(os.Args) > 1 {
		masterAddr = os.Args[1]
	}
	master := address.MustParseAddr(masterAddr)

	block, err := api.CurrentMasterchainInfo(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	res, err := api.WaitForBlock(block.SeqNo).RunGetMethod(context.Background(), block, master, "get_jetton_data")
	if err != nil {
		log.Fatal(err)
	}

	supply, err := res.Int(0)
	if err != nil {
		log.Fatal(err)
	}
	contentCell, err := res.Cell(3)
	if err != nil {
		log.Fatal(err)
	}

	content, err := metadata.FromCell(contentCell)
	if err != nil {
		log.Fatal(err)
	}

	log.Println("total supply:", supply.String())
	switch c := content.(type) {
	case *metadata.Offchain:
		log.Println("offchain content uri:", c.URI)
	case *metadata.Onchain:
		printAttr("uri", c.URI)
		printAttr("name", c.Name)
		printAttr("symbol", c.Symbol)
		printAttr("decimals", c.Decimals)
		printAttr("description", c.Description)
		printAttr("image", c.Image)
	}
}

func printAttr(name string, val *string) {
	if val == nil {
		return
	}
	log.Println(name+":", *val)
}
