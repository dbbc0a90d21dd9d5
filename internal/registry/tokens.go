package registry

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Token describes a known asset on one chain. Address is nil for the native
// asset. Decimals are fixed here and never inferred dynamically for registry
// tokens; on-chain introspection is only a fallback for unknown addresses.
type Token struct {
	Symbol   string
	Name     string
	Address  *common.Address
	Decimals uint8
}

func addr(s string) *common.Address {
	a := common.HexToAddress(s)
	return &a
}

// tokensByChain maps chain ID -> symbol (upper case) -> descriptor. At most
// one descriptor per (symbol, chain).
var tokensByChain = map[int64]map[string]Token{
	1: {
		"ETH":  {Symbol: "ETH", Name: "Ether", Address: nil, Decimals: 18},
		"WETH": {Symbol: "WETH", Name: "Wrapped Ether", Address: addr("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"), Decimals: 18},
		"USDC": {Symbol: "USDC", Name: "USD Coin", Address: addr("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"), Decimals: 6},
		"USDT": {Symbol: "USDT", Name: "Tether USD", Address: addr("0xdAC17F958D2ee523a2206206994597C13D831ec7"), Decimals: 6},
		"DAI":  {Symbol: "DAI", Name: "Dai Stablecoin", Address: addr("0x6B175474E89094C44Da98b954EedeAC495271d0F"), Decimals: 18},
		"WBTC": {Symbol: "WBTC", Name: "Wrapped BTC", Address: addr("0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599"), Decimals: 8},
	},
	42161: {
		"ETH":  {Symbol: "ETH", Name: "Ether", Address: nil, Decimals: 18},
		"WETH": {Symbol: "WETH", Name: "Wrapped Ether", Address: addr("0x82aF49447D8a07e3bd95BD0d56f35241523fBab1"), Decimals: 18},
		"USDC": {Symbol: "USDC", Name: "USD Coin", Address: addr("0xaf88d065e77c8cC2239327C5EDb3A432268e5831"), Decimals: 6},
		"USDT": {Symbol: "USDT", Name: "Tether USD", Address: addr("0xFd086bC7CD5C481DCC9C85ebE478A1C0b69FCbb9"), Decimals: 6},
		"DAI":  {Symbol: "DAI", Name: "Dai Stablecoin", Address: addr("0xDA10009cBd5D07dd0CeCc66161FC93D7c9000da1"), Decimals: 18},
		"WBTC": {Symbol: "WBTC", Name: "Wrapped BTC", Address: addr("0x2f2a2543B76A4166549F7aaB2e75Bef0aefC5B0f"), Decimals: 8},
	},
	8453: {
		"ETH":  {Symbol: "ETH", Name: "Ether", Address: nil, Decimals: 18},
		"WETH": {Symbol: "WETH", Name: "Wrapped Ether", Address: addr("0x4200000000000000000000000000000000000006"), Decimals: 18},
		"USDC": {Symbol: "USDC", Name: "USD Coin", Address: addr("0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913"), Decimals: 6},
		"DAI":  {Symbol: "DAI", Name: "Dai Stablecoin", Address: addr("0x50c5725949A6F0c72E6C4a641F24049A917DB0Cb"), Decimals: 18},
	},
	137: {
		"POL":  {Symbol: "POL", Name: "Polygon Ecosystem Token", Address: nil, Decimals: 18},
		"WPOL": {Symbol: "WPOL", Name: "Wrapped POL", Address: addr("0x0d500B1d8E8eF31E21C99d1Db9A6444d3ADf1270"), Decimals: 18},
		"WETH": {Symbol: "WETH", Name: "Wrapped Ether", Address: addr("0x7ceB23fD6bC0adD59E62ac25578270cFf1b9f619"), Decimals: 18},
		"USDC": {Symbol: "USDC", Name: "USD Coin", Address: addr("0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359"), Decimals: 6},
		"USDT": {Symbol: "USDT", Name: "Tether USD", Address: addr("0xc2132D05D31c914a87C6611C10748AEb04B58e8F"), Decimals: 6},
		"DAI":  {Symbol: "DAI", Name: "Dai Stablecoin", Address: addr("0x8f3Cf7ad23Cd3CaDbD9735AFf958023239c6A063"), Decimals: 18},
	},
}

// symbolAliases maps colloquial names to canonical symbols. Lookup is
// case-insensitive; keys are lower case.
var symbolAliases = map[string]string{
	"ether":    "ETH",
	"ethereum": "ETH",
	"btc":      "WBTC",
	"bitcoin":  "WBTC",
	"usd":      "USDC",
	"dollar":   "USDC",
	"dollars":  "USDC",
	"tether":   "USDT",
	"matic":    "POL",
	"polygon":  "POL",
}

// NormalizeSymbol applies the alias table and upper-cases the result. Inputs
// that are not aliases pass through unchanged apart from case.
func NormalizeSymbol(input string) string {
	key := strings.ToLower(strings.TrimSpace(input))
	if canonical, ok := symbolAliases[key]; ok {
		return canonical
	}
	return strings.ToUpper(strings.TrimSpace(input))
}

// GetToken looks up a token by symbol (after alias normalization) on a chain.
func GetToken(chainID int64, symbol string) (*Token, bool) {
	chainTokens, ok := tokensByChain[chainID]
	if !ok {
		return nil, false
	}
	token, ok := chainTokens[NormalizeSymbol(symbol)]
	if !ok {
		return nil, false
	}
	return &token, true
}

// IsNativeSymbol reports whether the (normalized) symbol is the chain's
// native asset.
func IsNativeSymbol(chainID int64, symbol string) bool {
	network, ok := GetNetwork(chainID)
	if !ok {
		return false
	}
	return NormalizeSymbol(symbol) == network.NativeSymbol
}

// FindTokenByAddress scans the chain's token table for a matching address.
func FindTokenByAddress(chainID int64, address common.Address) (*Token, bool) {
	chainTokens, ok := tokensByChain[chainID]
	if !ok {
		return nil, false
	}
	for _, token := range chainTokens {
		if token.Address != nil && *token.Address == address {
			t := token
			return &t, true
		}
	}
	return nil, false
}
