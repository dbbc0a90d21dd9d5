package utils

import (
	"fmt"
	"math/big"
	"strings"
)

// MaxUint256 is the encoded amount for "unlimited" approvals.
var MaxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// ParseAmount converts a human decimal string into the asset's smallest unit.
// Only integer arithmetic is used; more fraction digits than the token has
// decimals is an error rather than a silent truncation.
func ParseAmount(amount string, decimals uint8) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return nil, fmt.Errorf("empty amount")
	}
	if strings.HasPrefix(amount, "-") {
		return nil, fmt.Errorf("amount must be positive: %s", amount)
	}

	whole := amount
	frac := ""
	if i := strings.IndexByte(amount, '.'); i >= 0 {
		whole, frac = amount[:i], amount[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > int(decimals) {
		return nil, fmt.Errorf("amount %s has more than %d decimal places", amount, decimals)
	}
	frac += strings.Repeat("0", int(decimals)-len(frac))

	result, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount: %s", amount)
	}
	return result, nil
}

// FormatAmount renders a smallest-unit amount as a decimal string, trimming
// trailing zeros.
func FormatAmount(amount *big.Int, decimals uint8) string {
	if amount == nil {
		return "0"
	}
	divisor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	whole, frac := new(big.Int).QuoRem(new(big.Int).Abs(amount), divisor, new(big.Int))

	sign := ""
	if amount.Sign() < 0 {
		sign = "-"
	}
	if frac.Sign() == 0 {
		return sign + whole.String()
	}
	fracStr := strings.TrimRight(fmt.Sprintf("%0*s", int(decimals), frac.String()), "0")
	return sign + whole.String() + "." + fracStr
}

// ApplySlippage computes floor(amount * (10000 - slippageBps) / 10000) with
// integer arithmetic, never rounding up.
func ApplySlippage(amount *big.Int, slippageBps int64) (*big.Int, error) {
	if slippageBps < 0 || slippageBps >= 10000 {
		return nil, fmt.Errorf("slippage must be in [0, 10000) basis points, got %d", slippageBps)
	}
	result := new(big.Int).Mul(amount, big.NewInt(10000-slippageBps))
	return result.Quo(result, big.NewInt(10000)), nil
}
