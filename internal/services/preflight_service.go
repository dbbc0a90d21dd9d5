package services

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/chainchat-labs/txengine/internal/apperrors"
	"github.com/chainchat-labs/txengine/internal/chain"
)

type PreflightService interface {
	// CheckBalance verifies the holder can cover the amount about to move.
	// It rejects only when balance < required; exact equality passes.
	CheckBalance(ctx context.Context, chainID int64, holder common.Address, token *ResolvedToken, required *big.Int) error
	// CheckAllowance reports whether a swap needs a prior approval. It never
	// blocks the flow; the caller surfaces the boolean as an approval hint.
	CheckAllowance(ctx context.Context, chainID int64, holder common.Address, token *ResolvedToken, spender common.Address, required *big.Int) (bool, error)
}

type preflightService struct {
	chainClient chain.Client
}

func NewPreflightService(chainClient chain.Client) PreflightService {
	return &preflightService{chainClient: chainClient}
}

func (s *preflightService) CheckBalance(ctx context.Context, chainID int64, holder common.Address, token *ResolvedToken, required *big.Int) error {
	var balance *big.Int
	var err error
	if token.IsNative() {
		balance, err = s.chainClient.NativeBalance(ctx, chainID, holder)
	} else {
		balance, err = s.chainClient.TokenBalance(ctx, chainID, *token.Address, holder)
	}
	if err != nil {
		return fmt.Errorf("balance check failed: %w", err)
	}
	if balance.Cmp(required) < 0 {
		return &apperrors.InsufficientBalanceError{Symbol: token.Symbol, Balance: balance, Required: required}
	}
	return nil
}

func (s *preflightService) CheckAllowance(ctx context.Context, chainID int64, holder common.Address, token *ResolvedToken, spender common.Address, required *big.Int) (bool, error) {
	// The native asset needs no allowance.
	if token.IsNative() {
		return false, nil
	}
	allowance, err := s.chainClient.Allowance(ctx, chainID, *token.Address, holder, spender)
	if err != nil {
		return false, fmt.Errorf("allowance check failed: %w", err)
	}
	return allowance.Cmp(required) < 0, nil
}
