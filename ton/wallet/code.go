package wallet

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/xssnick/tonutils-go/tvm/cell"
)

// https://github.com/toncenter/tonweb/blob/master/src/contract/wallet/WalletSources.md#revision-2-2
const _V3R2CodeHex = "B5EE9C724101010100710000DEFF0020DD2082014C97BA218201339CBAB19F71B0ED44D0D31FD31F31D70BFFE304E0A4F2608308D71820D31FD31FD31FF82313BBF263ED44D0D31FD31FD3FFD15132BAF2A15144BAF2A204F901541055F910F2A3F8009320D74A96D307D402FB00E8D101A4C8CB1FCB1FCBFFC9ED5410BD6DAD"

// https://github.com/toncenter/tonweb/blob/master/src/contract/wallet/WalletSources.md#v4-wallet
const _V4R2CodeHex = "B5EE9C72410214010002D4000114FF00F4A413F4BCF2C80B010201200203020148040504F8F28308D71820D31FD31FD31F02F823BBF264ED44D0D31FD31FD3FFF404D15143BAF2A15151BAF2A205F901541064F910F2A3F80024A4C8CB1F5240CB1F5230CBFF5210F400C9ED54F80F01D30721C0009F6C519320D74A96D307D402FB00E830E021C001E30021C002E30001C0039130E30D03A4C8CB1F12CB1FCBFF1011121302E6D001D0D3032171B0925F04E022D749C120925F04E002D31F218210706C7567BD22821064737472BDB0925F05E003FA403020FA4401C8CA07CBFFC9D0ED44D0810140D721F404305C810108F40A6FA131B3925F07E005D33FC8258210706C7567BA923830E30D03821064737472BA925F06E30D06070201200809007801FA00F40430F8276F2230500AA121BEF2E0508210706C7567831EB17080185004CB0526CF1658FA0219F400CB6917CB1F5260CB3F20C98040FB0006008A5004810108F45930ED44D0810140D720C801CF16F400C9ED540172B08E23821064737472831EB17080185005CB055003CF1623FA0213CB6ACB1FCB3FC98040FB00925F03E20201200A0B0059BD242B6F6A2684080A06B90FA0218470D4080847A4937D29910CE6903E9FF9837812801B7810148987159F31840201580C0D0011B8C97ED44D0D70B1F8003DB29DFB513420405035C87D010C00B23281F2FFF274006040423D029BE84C600201200E0F0019ADCE76A26840206B90EB85FFC00019AF1DF6A26840106B90EB858FC0006ED207FA00D4D422F90005C8CA0715CBFFC9D077748018C8CB05CB0222CF165005FA0214CB6B12CCCCC973FB00C84014810108F451F2A7020070810108D718FA00D33FC8542047810108F451F2A782106E6F746570748018C8CB05CB025006CF165004FA0214CB6A12CB1FCB3FC973FB0002006C810108D718FA00D33F305224810108F459F2A782106473747270748018C8CB05CB025005CF165003FA0213CB6ACB1F12CB3FC973FB00000AF400C9ED54696225E5"

// https://github.com/ton-blockchain/ton/blob/master/crypto/smartcont/highload-wallet-v2-code.fc
const _HighloadV2CodeHex = "B5EE9C724101090100E5000114FF00F4A413F4BCF2C80B010201200203020148040501EAF28308D71820D31FD33FF823AA1F5320B9F263ED44D0D31FD33FD3FFF404D153608040F40E6FA131F2605173BAF2A207F901541087F910F2A302F404D1F8007F8E16218010F4786FA5209802D307D43001FB009132E201B3E65B8325A1C840348040F4438AE63101C8CB1F13CB3FCBFFF400C9ED54080004D03002012006070017BD9CE76A26869AF98EB85FFC0041BE5F976A268698F98E99FE9FF98FA0268A91040207A0737D098C92DBFC95DD1F140034208040F4966FA56C122094305303B9DE2093333601926C21E2B39F9E545A"

// https://github.com/pyAndr3w/ton-preprocessed-wallet-v2
const _PWV2CodeHex = "B5EE9C7241010101003D000076FF00DDD40120F90001D0D33FD30FD74CED44D0D3FFD70B0F20A4830FA90822C8CBFFCB0FC9ED5444301046BAF2A1F823BEF2A2F910F2A3F800ED552E766412"

type codeConstant struct {
	hex  string
	hash string
}

var (
	walletCodeConstants = map[Version]codeConstant{
		V3R2:       {_V3R2CodeHex, "84dafa449f98a6987789ba232358072bc0f76dc4524002a5d0918b9a75d2d599"},
		V4R2:       {_V4R2CodeHex, "feb5ff6820e2ff0d9483e7e0d62c817d846789fb4ae580c878866d959dabd5c0"},
		HighloadV2: {_HighloadV2CodeHex, "9494d1cc8edf12f05671a1a9ba09921096eb50811e1924ec65c3c629fbb80812"},
		PWV2:       {_PWV2CodeHex, "45ebbce9b5d235886cb6bfe1c3ad93b708de058244892365c9ee0dfe439cb7b5"},
	}
	walletCode = map[Version]*cell.Cell{}
)

func init() {
	for ver, c := range walletCodeConstants {
		code, err := loadCode(c.hex, c.hash)
		if err != nil {
			panic(fmt.Sprintf("%s: %s", ver, err.Error()))
		}
		walletCode[ver] = code
	}
}

// loadCode decodes a single-root code BOC and checks its hash.
func loadCode(codeHex, expectedHash string) (*cell.Cell, error) {
	boc, err := hex.DecodeString(strings.ToLower(codeHex))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode hex: %w", ErrMalformedCode, err)
	}

	roots, err := cell.FromBOCMultiRoot(boc)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse boc: %w", ErrMalformedCode, err)
	}
	if len(roots) != 1 {
		return nil, fmt.Errorf("%w: expected exactly one root, got %d", ErrMalformedCode, len(roots))
	}

	want, err := hex.DecodeString(expectedHash)
	if err != nil {
		return nil, fmt.Errorf("%w: bad expected hash: %w", ErrMalformedCode, err)
	}
	if !bytes.Equal(roots[0].Hash(), want) {
		return nil, fmt.Errorf("%w: code hash mismatch, got %x", ErrMalformedCode, roots[0].Hash())
	}

	return roots[0], nil
}

// GetCode returns the verified code cell of the wallet version.
func GetCode(ver Version) (*cell.Cell, error) {
	code, ok := walletCode[ver]
	if !ok {
		return nil, ErrUnsupportedWalletVersion
	}
	return code, nil
}
