package services_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"

	"github.com/chainchat-labs/txengine/internal/apperrors"
	"github.com/chainchat-labs/txengine/internal/services"
)

type PreflightServiceTestSuite struct {
	suite.Suite
	holder common.Address
}

func (suite *PreflightServiceTestSuite) SetupTest() {
	suite.holder = common.HexToAddress("0x742d35Cc6634C0532925a3b844Bc454e4438f44e")
}

func erc20Token(symbol string, decimals uint8) *services.ResolvedToken {
	address := common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	return &services.ResolvedToken{Symbol: symbol, Name: symbol, Address: &address, Decimals: decimals}
}

func nativeToken() *services.ResolvedToken {
	return &services.ResolvedToken{Symbol: "ETH", Name: "ETH", Decimals: 18}
}

func daiToken() *services.ResolvedToken {
	address := common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")
	return &services.ResolvedToken{Symbol: "DAI", Name: "DAI", Address: &address, Decimals: 18}
}

func (suite *PreflightServiceTestSuite) TestCheckBalanceSufficient() {
	client := &fakeChainClient{
		tokenBalance: func(int64, common.Address, common.Address) (*big.Int, error) {
			return big.NewInt(200), nil
		},
	}
	preflight := services.NewPreflightService(client)

	err := preflight.CheckBalance(context.Background(), 1, suite.holder, erc20Token("USDC", 6), big.NewInt(100))
	suite.NoError(err)
}

func (suite *PreflightServiceTestSuite) TestCheckBalanceExactEqualityPasses() {
	client := &fakeChainClient{
		tokenBalance: func(int64, common.Address, common.Address) (*big.Int, error) {
			return big.NewInt(100), nil
		},
	}
	preflight := services.NewPreflightService(client)

	err := preflight.CheckBalance(context.Background(), 1, suite.holder, erc20Token("USDC", 6), big.NewInt(100))
	suite.NoError(err)
}

func (suite *PreflightServiceTestSuite) TestCheckBalanceInsufficient() {
	client := &fakeChainClient{
		tokenBalance: func(int64, common.Address, common.Address) (*big.Int, error) {
			return big.NewInt(99), nil
		},
	}
	preflight := services.NewPreflightService(client)

	err := preflight.CheckBalance(context.Background(), 1, suite.holder, erc20Token("USDC", 6), big.NewInt(100))
	suite.Error(err)

	var balanceErr *apperrors.InsufficientBalanceError
	suite.True(errors.As(err, &balanceErr))
	suite.Equal("USDC", balanceErr.Symbol)
	suite.Zero(balanceErr.Balance.Cmp(big.NewInt(99)))
	suite.Zero(balanceErr.Required.Cmp(big.NewInt(100)))
}

func (suite *PreflightServiceTestSuite) TestCheckBalanceNativeUsesNativePath() {
	nativeCalled := false
	client := &fakeChainClient{
		nativeBalance: func(int64, common.Address) (*big.Int, error) {
			nativeCalled = true
			return big.NewInt(1000), nil
		},
	}
	preflight := services.NewPreflightService(client)

	err := preflight.CheckBalance(context.Background(), 1, suite.holder, nativeToken(), big.NewInt(500))
	suite.NoError(err)
	suite.True(nativeCalled)
}

func (suite *PreflightServiceTestSuite) TestCheckBalanceChainError() {
	client := &fakeChainClient{
		tokenBalance: func(int64, common.Address, common.Address) (*big.Int, error) {
			return nil, errors.New("rpc down")
		},
	}
	preflight := services.NewPreflightService(client)

	err := preflight.CheckBalance(context.Background(), 1, suite.holder, erc20Token("USDC", 6), big.NewInt(100))
	suite.Error(err)
	var balanceErr *apperrors.InsufficientBalanceError
	suite.False(errors.As(err, &balanceErr))
}

func (suite *PreflightServiceTestSuite) TestCheckAllowanceNeedsApproval() {
	client := &fakeChainClient{
		allowance: func(int64, common.Address, common.Address, common.Address) (*big.Int, error) {
			return big.NewInt(50), nil
		},
	}
	preflight := services.NewPreflightService(client)

	needs, err := preflight.CheckAllowance(context.Background(), 1, suite.holder, erc20Token("USDC", 6), suite.holder, big.NewInt(100))
	suite.NoError(err)
	suite.True(needs)
}

func (suite *PreflightServiceTestSuite) TestCheckAllowanceExactEqualitySuffices() {
	client := &fakeChainClient{
		allowance: func(int64, common.Address, common.Address, common.Address) (*big.Int, error) {
			return big.NewInt(100), nil
		},
	}
	preflight := services.NewPreflightService(client)

	needs, err := preflight.CheckAllowance(context.Background(), 1, suite.holder, erc20Token("USDC", 6), suite.holder, big.NewInt(100))
	suite.NoError(err)
	suite.False(needs)
}

func (suite *PreflightServiceTestSuite) TestCheckAllowanceNativeNeverNeedsApproval() {
	preflight := services.NewPreflightService(&fakeChainClient{})

	needs, err := preflight.CheckAllowance(context.Background(), 1, suite.holder, nativeToken(), suite.holder, big.NewInt(100))
	suite.NoError(err)
	suite.False(needs)
}

func TestPreflightServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PreflightServiceTestSuite))
}
