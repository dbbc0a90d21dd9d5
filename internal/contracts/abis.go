package contracts

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Minimal ABI fragments for the contracts the engine talks to. Only the
// functions actually called are declared.

const erc20ABIJSON = `[
	{"name":"balanceOf","type":"function","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"name":"allowance","type":"function","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"name":"decimals","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]},
	{"name":"symbol","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
	{"name":"transfer","type":"function","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"name":"approve","type":"function","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]}
]`

const quoterV2ABIJSON = `[
	{"name":"quoteExactInputSingle","type":"function","stateMutability":"nonpayable",
	 "inputs":[{"name":"params","type":"tuple","components":[
		{"name":"tokenIn","type":"address"},
		{"name":"tokenOut","type":"address"},
		{"name":"amountIn","type":"uint256"},
		{"name":"fee","type":"uint24"},
		{"name":"sqrtPriceLimitX96","type":"uint160"}]}],
	 "outputs":[
		{"name":"amountOut","type":"uint256"},
		{"name":"sqrtPriceX96After","type":"uint160"},
		{"name":"initializedTicksCrossed","type":"uint32"},
		{"name":"gasEstimate","type":"uint256"}]}
]`

const swapRouter02ABIJSON = `[
	{"name":"exactInputSingle","type":"function","stateMutability":"payable",
	 "inputs":[{"name":"params","type":"tuple","components":[
		{"name":"tokenIn","type":"address"},
		{"name":"tokenOut","type":"address"},
		{"name":"fee","type":"uint24"},
		{"name":"recipient","type":"address"},
		{"name":"amountIn","type":"uint256"},
		{"name":"amountOutMinimum","type":"uint256"},
		{"name":"sqrtPriceLimitX96","type":"uint160"}]}],
	 "outputs":[{"name":"amountOut","type":"uint256"}]},
	{"name":"multicall","type":"function","stateMutability":"payable",
	 "inputs":[{"name":"deadline","type":"uint256"},{"name":"data","type":"bytes[]"}],
	 "outputs":[{"name":"results","type":"bytes[]"}]},
	{"name":"unwrapWETH9","type":"function","stateMutability":"payable",
	 "inputs":[{"name":"amountMinimum","type":"uint256"},{"name":"recipient","type":"address"}],
	 "outputs":[]}
]`

const v2RouterABIJSON = `[
	{"name":"getAmountsOut","type":"function","stateMutability":"view",
	 "inputs":[{"name":"amountIn","type":"uint256"},{"name":"path","type":"address[]"}],
	 "outputs":[{"name":"amounts","type":"uint256[]"}]},
	{"name":"swapExactETHForTokens","type":"function","stateMutability":"payable",
	 "inputs":[{"name":"amountOutMin","type":"uint256"},{"name":"path","type":"address[]"},{"name":"to","type":"address"},{"name":"deadline","type":"uint256"}],
	 "outputs":[{"name":"amounts","type":"uint256[]"}]},
	{"name":"swapExactTokensForETH","type":"function","stateMutability":"nonpayable",
	 "inputs":[{"name":"amountIn","type":"uint256"},{"name":"amountOutMin","type":"uint256"},{"name":"path","type":"address[]"},{"name":"to","type":"address"},{"name":"deadline","type":"uint256"}],
	 "outputs":[{"name":"amounts","type":"uint256[]"}]},
	{"name":"swapExactTokensForTokens","type":"function","stateMutability":"nonpayable",
	 "inputs":[{"name":"amountIn","type":"uint256"},{"name":"amountOutMin","type":"uint256"},{"name":"path","type":"address[]"},{"name":"to","type":"address"},{"name":"deadline","type":"uint256"}],
	 "outputs":[{"name":"amounts","type":"uint256[]"}]}
]`

const ensRegistryABIJSON = `[
	{"name":"resolver","type":"function","stateMutability":"view",
	 "inputs":[{"name":"node","type":"bytes32"}],
	 "outputs":[{"name":"","type":"address"}]}
]`

const ensResolverABIJSON = `[
	{"name":"addr","type":"function","stateMutability":"view",
	 "inputs":[{"name":"node","type":"bytes32"}],
	 "outputs":[{"name":"","type":"address"}]}
]`

var (
	ERC20ABI        abi.ABI
	QuoterV2ABI     abi.ABI
	SwapRouter02ABI abi.ABI
	V2RouterABI     abi.ABI
	ENSRegistryABI  abi.ABI
	ENSResolverABI  abi.ABI
)

func init() {
	ERC20ABI = mustParse("erc20", erc20ABIJSON)
	QuoterV2ABI = mustParse("quoterV2", quoterV2ABIJSON)
	SwapRouter02ABI = mustParse("swapRouter02", swapRouter02ABIJSON)
	V2RouterABI = mustParse("v2Router", v2RouterABIJSON)
	ENSRegistryABI = mustParse("ensRegistry", ensRegistryABIJSON)
	ENSResolverABI = mustParse("ensResolver", ensResolverABIJSON)
}

func mustParse(name, abiJSON string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		panic(fmt.Sprintf("invalid %s ABI: %v", name, err))
	}
	return parsed
}
