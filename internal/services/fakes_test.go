package services_test

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/chainchat-labs/txengine/internal/notify"
)

// fakeChainClient implements chain.Client with overridable function fields.
// Unset fields fail, so each test states exactly the chain data it needs.
type fakeChainClient struct {
	nativeBalance func(chainID int64, account common.Address) (*big.Int, error)
	tokenBalance  func(chainID int64, token, account common.Address) (*big.Int, error)
	allowance     func(chainID int64, token, owner, spender common.Address) (*big.Int, error)
	tokenDecimals func(chainID int64, token common.Address) (uint8, error)
	tokenSymbol   func(chainID int64, token common.Address) (string, error)
	quoteV3       func(chainID int64, quoter, tokenIn, tokenOut common.Address, feeTier int64, amountIn *big.Int) (*big.Int, error)
	quoteV2       func(chainID int64, router common.Address, amountIn *big.Int, path []common.Address) (*big.Int, error)
	resolveName   func(chainID int64, name string) (common.Address, error)
}

func (f *fakeChainClient) NativeBalance(_ context.Context, chainID int64, account common.Address) (*big.Int, error) {
	if f.nativeBalance == nil {
		return nil, fmt.Errorf("unexpected NativeBalance call")
	}
	return f.nativeBalance(chainID, account)
}

func (f *fakeChainClient) TokenBalance(_ context.Context, chainID int64, token, account common.Address) (*big.Int, error) {
	if f.tokenBalance == nil {
		return nil, fmt.Errorf("unexpected TokenBalance call")
	}
	return f.tokenBalance(chainID, token, account)
}

func (f *fakeChainClient) Allowance(_ context.Context, chainID int64, token, owner, spender common.Address) (*big.Int, error) {
	if f.allowance == nil {
		return nil, fmt.Errorf("unexpected Allowance call")
	}
	return f.allowance(chainID, token, owner, spender)
}

func (f *fakeChainClient) TokenDecimals(_ context.Context, chainID int64, token common.Address) (uint8, error) {
	if f.tokenDecimals == nil {
		return 0, fmt.Errorf("unexpected TokenDecimals call")
	}
	return f.tokenDecimals(chainID, token)
}

func (f *fakeChainClient) TokenSymbol(_ context.Context, chainID int64, token common.Address) (string, error) {
	if f.tokenSymbol == nil {
		return "", fmt.Errorf("unexpected TokenSymbol call")
	}
	return f.tokenSymbol(chainID, token)
}

func (f *fakeChainClient) QuoteV3(_ context.Context, chainID int64, quoter, tokenIn, tokenOut common.Address, feeTier int64, amountIn *big.Int) (*big.Int, error) {
	if f.quoteV3 == nil {
		return nil, fmt.Errorf("unexpected QuoteV3 call")
	}
	return f.quoteV3(chainID, quoter, tokenIn, tokenOut, feeTier, amountIn)
}

func (f *fakeChainClient) QuoteV2(_ context.Context, chainID int64, router common.Address, amountIn *big.Int, path []common.Address) (*big.Int, error) {
	if f.quoteV2 == nil {
		return nil, fmt.Errorf("unexpected QuoteV2 call")
	}
	return f.quoteV2(chainID, router, amountIn, path)
}

func (f *fakeChainClient) ResolveName(_ context.Context, chainID int64, name string) (common.Address, error) {
	if f.resolveName == nil {
		return common.Address{}, fmt.Errorf("unexpected ResolveName call")
	}
	return f.resolveName(chainID, name)
}

// fakePublisher records published notices and optionally fails.
type fakePublisher struct {
	mu      sync.Mutex
	err     error
	notices []notify.TransactionNotice
}

func (f *fakePublisher) Publish(_ context.Context, _ string, _ string, notice notify.TransactionNotice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.notices = append(f.notices, notice)
	return nil
}

func (f *fakePublisher) published() []notify.TransactionNotice {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]notify.TransactionNotice, len(f.notices))
	copy(out, f.notices)
	return out
}
