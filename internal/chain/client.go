package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Client is the read-only chain data provider. Every call is bounded by the
// caller's context plus the client's own per-call timeout; failures are
// handled per call, never globally.
type Client interface {
	// NativeBalance returns the native asset balance in wei.
	NativeBalance(ctx context.Context, chainID int64, account common.Address) (*big.Int, error)
	// TokenBalance returns an ERC-20 balance in the token's smallest unit.
	TokenBalance(ctx context.Context, chainID int64, token, account common.Address) (*big.Int, error)
	// Allowance returns the ERC-20 allowance granted by owner to spender.
	Allowance(ctx context.Context, chainID int64, token, owner, spender common.Address) (*big.Int, error)
	// TokenDecimals introspects an ERC-20 token's decimals.
	TokenDecimals(ctx context.Context, chainID int64, token common.Address) (uint8, error)
	// TokenSymbol introspects an ERC-20 token's symbol.
	TokenSymbol(ctx context.Context, chainID int64, token common.Address) (string, error)
	// QuoteV3 asks a QuoterV2 contract for a single-hop exact-input quote at
	// one fee tier.
	QuoteV3(ctx context.Context, chainID int64, quoter, tokenIn, tokenOut common.Address, feeTier int64, amountIn *big.Int) (*big.Int, error)
	// QuoteV2 asks a V2 router for the output of an exact-input path swap.
	QuoteV2(ctx context.Context, chainID int64, router common.Address, amountIn *big.Int, path []common.Address) (*big.Int, error)
	// ResolveName resolves an ENS name to an address on chains that support
	// name service resolution.
	ResolveName(ctx context.Context, chainID int64, name string) (common.Address, error)
}
