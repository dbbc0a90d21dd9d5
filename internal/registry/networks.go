package registry

import "github.com/ethereum/go-ethereum/common"

// Network describes a supported chain. The table is static and loaded once at
// startup; chain IDs are unique across entries.
type Network struct {
	ChainID       int64
	Name          string
	NativeSymbol  string
	NativeDecimal uint8
	// RPCEndpoints is an ordered candidate list; callers fall back to the
	// next endpoint when one fails.
	RPCEndpoints []string
	ExplorerURL  string
	// WrappedNative is the wrapped native token used on the quote path when
	// one side of a swap is the native asset.
	WrappedNative common.Address
	// SupportsENS is true only where on-chain name service resolution is
	// available.
	SupportsENS bool
}

var networks = []Network{
	{
		ChainID:       1,
		Name:          "Ethereum",
		NativeSymbol:  "ETH",
		NativeDecimal: 18,
		RPCEndpoints: []string{
			"https://eth.llamarpc.com",
			"https://rpc.ankr.com/eth",
			"https://ethereum-rpc.publicnode.com",
		},
		ExplorerURL:   "https://etherscan.io",
		WrappedNative: common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"),
		SupportsENS:   true,
	},
	{
		ChainID:       42161,
		Name:          "Arbitrum One",
		NativeSymbol:  "ETH",
		NativeDecimal: 18,
		RPCEndpoints: []string{
			"https://arb1.arbitrum.io/rpc",
			"https://arbitrum-one-rpc.publicnode.com",
		},
		ExplorerURL:   "https://arbiscan.io",
		WrappedNative: common.HexToAddress("0x82aF49447D8a07e3bd95BD0d56f35241523fBab1"),
	},
	{
		ChainID:       8453,
		Name:          "Base",
		NativeSymbol:  "ETH",
		NativeDecimal: 18,
		RPCEndpoints: []string{
			"https://mainnet.base.org",
			"https://base-rpc.publicnode.com",
		},
		ExplorerURL:   "https://basescan.org",
		WrappedNative: common.HexToAddress("0x4200000000000000000000000000000000000006"),
	},
	{
		ChainID:       137,
		Name:          "Polygon",
		NativeSymbol:  "POL",
		NativeDecimal: 18,
		RPCEndpoints: []string{
			"https://polygon-rpc.com",
			"https://polygon-bor-rpc.publicnode.com",
		},
		ExplorerURL:   "https://polygonscan.com",
		WrappedNative: common.HexToAddress("0x0d500B1d8E8eF31E21C99d1Db9A6444d3ADf1270"),
	},
}

// GetNetwork returns the network descriptor for a chain ID.
func GetNetwork(chainID int64) (*Network, bool) {
	for i := range networks {
		if networks[i].ChainID == chainID {
			return &networks[i], true
		}
	}
	return nil, false
}

// SupportedNetworks returns every configured network.
func SupportedNetworks() []Network {
	out := make([]Network, len(networks))
	copy(out, networks)
	return out
}

// ExplorerTxURL builds an explorer link for a transaction hash.
func ExplorerTxURL(chainID int64, txHash string) string {
	network, ok := GetNetwork(chainID)
	if !ok {
		return ""
	}
	return network.ExplorerURL + "/tx/" + txHash
}

// ExplorerAddressURL builds an explorer link for an address.
func ExplorerAddressURL(chainID int64, address string) string {
	network, ok := GetNetwork(chainID)
	if !ok {
		return ""
	}
	return network.ExplorerURL + "/address/" + address
}
