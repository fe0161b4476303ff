package payload

import (
	"errors"
	"fmt"

	"github.com/xssnick/tonutils-go/tlb"
)

// VarUInteger 16 carries at most 15 value bytes.
const maxCoinsBits = 15 * 8

var ErrCoinsOverflow = errors.New("coins value does not fit VarUInteger 16")

// ValidateCoins checks that the amount is non-negative and fits VarUInteger 16.
func ValidateCoins(c tlb.Coins) error {
	v := c.Nano()
	if v.Sign() < 0 {
		return fmt.Errorf("%w: negative amount %s", ErrCoinsOverflow, v.String())
	}
	if v.BitLen() > maxCoinsBits {
		return fmt.Errorf("%w: %d bits", ErrCoinsOverflow, v.BitLen())
	}
	return nil
}
