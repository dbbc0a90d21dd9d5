package utils

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/chainchat-labs/txengine/internal/contracts"
)

// EncodeTransfer encodes an ERC-20 transfer(to, amount) call.
func EncodeTransfer(to common.Address, amount *big.Int) (string, error) {
	data, err := contracts.ERC20ABI.Pack("transfer", to, amount)
	if err != nil {
		return "", fmt.Errorf("failed to encode transfer: %w", err)
	}
	return hexutil.Encode(data), nil
}

// EncodeApprove encodes an ERC-20 approve(spender, amount) call.
func EncodeApprove(spender common.Address, amount *big.Int) (string, error) {
	data, err := contracts.ERC20ABI.Pack("approve", spender, amount)
	if err != nil {
		return "", fmt.Errorf("failed to encode approve: %w", err)
	}
	return hexutil.Encode(data), nil
}

// v3SwapParams mirrors the SwapRouter02 ExactInputSingleParams tuple.
type v3SwapParams struct {
	TokenIn           common.Address
	TokenOut          common.Address
	Fee               *big.Int
	Recipient         common.Address
	AmountIn          *big.Int
	AmountOutMinimum  *big.Int
	SqrtPriceLimitX96 *big.Int
}

// EncodeV3ExactInputSingle encodes an exactInputSingle call wrapped in the
// router02 multicall envelope that carries the deadline. When the output side
// is native the recipient must be the zero address, which tells the router to
// unwrap to the caller.
func EncodeV3ExactInputSingle(tokenIn, tokenOut common.Address, feeTier int64, recipient common.Address, amountIn, amountOutMin, deadline *big.Int) (string, error) {
	inner, err := contracts.SwapRouter02ABI.Pack("exactInputSingle", v3SwapParams{
		TokenIn:           tokenIn,
		TokenOut:          tokenOut,
		Fee:               big.NewInt(feeTier),
		Recipient:         recipient,
		AmountIn:          amountIn,
		AmountOutMinimum:  amountOutMin,
		SqrtPriceLimitX96: big.NewInt(0),
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode exactInputSingle: %w", err)
	}
	data, err := contracts.SwapRouter02ABI.Pack("multicall", deadline, [][]byte{inner})
	if err != nil {
		return "", fmt.Errorf("failed to encode multicall: %w", err)
	}
	return hexutil.Encode(data), nil
}

// EncodeV2SwapNativeIn encodes swapExactETHForTokens; the native amount rides
// in the transaction value.
func EncodeV2SwapNativeIn(amountOutMin *big.Int, path []common.Address, recipient common.Address, deadline *big.Int) (string, error) {
	data, err := contracts.V2RouterABI.Pack("swapExactETHForTokens", amountOutMin, path, recipient, deadline)
	if err != nil {
		return "", fmt.Errorf("failed to encode swapExactETHForTokens: %w", err)
	}
	return hexutil.Encode(data), nil
}

// EncodeV2SwapNativeOut encodes swapExactTokensForETH.
func EncodeV2SwapNativeOut(amountIn, amountOutMin *big.Int, path []common.Address, recipient common.Address, deadline *big.Int) (string, error) {
	data, err := contracts.V2RouterABI.Pack("swapExactTokensForETH", amountIn, amountOutMin, path, recipient, deadline)
	if err != nil {
		return "", fmt.Errorf("failed to encode swapExactTokensForETH: %w", err)
	}
	return hexutil.Encode(data), nil
}

// EncodeV2SwapTokens encodes swapExactTokensForTokens.
func EncodeV2SwapTokens(amountIn, amountOutMin *big.Int, path []common.Address, recipient common.Address, deadline *big.Int) (string, error) {
	data, err := contracts.V2RouterABI.Pack("swapExactTokensForTokens", amountIn, amountOutMin, path, recipient, deadline)
	if err != nil {
		return "", fmt.Errorf("failed to encode swapExactTokensForTokens: %w", err)
	}
	return hexutil.Encode(data), nil
}
