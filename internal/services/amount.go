package services

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/artisanhub/artisanhub-api/internal/chain"
)

const maxAmountDecimals = 9

var (
	errAmountNotPositive = errors.New("amount must be greater than zero")
	errAmountPrecision   = fmt.Errorf("amount supports at most %d decimal places", maxAmountDecimals)
	errAmountTooLarge    = errors.New("amount is too large")
)

// ParseLamports converts a decimal SOL amount ("1.5") into lamports without
// floating point rounding.
func ParseLamports(amount string) (uint64, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return 0, errors.New("amount is required")
	}
	if strings.ContainsAny(amount, "eE/xXpP_") {
		return 0, fmt.Errorf("invalid amount %q", amount)
	}

	if dot := strings.IndexByte(amount, '.'); dot >= 0 {
		if len(strings.TrimRight(amount[dot+1:], "0")) > maxAmountDecimals {
			return 0, errAmountPrecision
		}
	}

	sol, ok := new(big.Rat).SetString(amount)
	if !ok {
		return 0, fmt.Errorf("invalid amount %q", amount)
	}
	if sol.Sign() <= 0 {
		return 0, errAmountNotPositive
	}

	lamports := new(big.Rat).Mul(sol, new(big.Rat).SetUint64(chain.LamportsPerSOL))
	if !lamports.IsInt() {
		return 0, errAmountPrecision
	}
	n := lamports.Num()
	if !n.IsUint64() {
		return 0, errAmountTooLarge
	}
	return n.Uint64(), nil
}
