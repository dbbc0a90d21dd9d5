package utils

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

func IsValidEthereumAddress(address string) bool {
	return common.IsHexAddress(address)
}

// NormalizeAddress lower-cases a hex address for use as a lookup key.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
