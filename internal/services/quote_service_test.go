package services_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/chainchat-labs/txengine/internal/apperrors"
	"github.com/chainchat-labs/txengine/internal/registry"
	"github.com/chainchat-labs/txengine/internal/services"
)

type QuoteServiceTestSuite struct {
	suite.Suite
	tokenIn  *services.ResolvedToken
	tokenOut *services.ResolvedToken
	amountIn *big.Int
}

func (suite *QuoteServiceTestSuite) SetupTest() {
	weth, ok := registry.GetToken(1, "WETH")
	suite.Require().True(ok)
	usdc, ok := registry.GetToken(1, "USDC")
	suite.Require().True(ok)

	suite.tokenIn = &services.ResolvedToken{Symbol: weth.Symbol, Name: weth.Name, Address: weth.Address, Decimals: weth.Decimals}
	suite.tokenOut = &services.ResolvedToken{Symbol: usdc.Symbol, Name: usdc.Name, Address: usdc.Address, Decimals: usdc.Decimals}
	suite.amountIn = big.NewInt(1_000_000)
}

func (suite *QuoteServiceTestSuite) TestBestQuoteWins() {
	client := &fakeChainClient{
		quoteV3: func(_ int64, _, _, _ common.Address, feeTier int64, _ *big.Int) (*big.Int, error) {
			if feeTier != 500 {
				return nil, errors.New("no pool")
			}
			return big.NewInt(3000), nil
		},
		quoteV2: func(int64, common.Address, *big.Int, []common.Address) (*big.Int, error) {
			return big.NewInt(3100), nil
		},
	}
	quotes := services.NewQuoteService(client, zap.NewNop())

	result, err := quotes.GetAllQuotes(context.Background(), 1, suite.tokenIn, suite.tokenOut, suite.amountIn)
	suite.Require().NoError(err)
	suite.Require().Len(result, 2)
	suite.Equal("sushiswap", result[0].Venue.Slug)
	suite.Zero(result[0].AmountOut.Cmp(big.NewInt(3100)))
	suite.Equal("uniswap", result[1].Venue.Slug)
	suite.Equal(int64(500), result[1].FeeTier)
}

func (suite *QuoteServiceTestSuite) TestTieBreaksByRegistrationOrder() {
	client := &fakeChainClient{
		quoteV3: func(_ int64, _, _, _ common.Address, feeTier int64, _ *big.Int) (*big.Int, error) {
			return big.NewInt(3000), nil
		},
		quoteV2: func(int64, common.Address, *big.Int, []common.Address) (*big.Int, error) {
			return big.NewInt(3000), nil
		},
	}
	quotes := services.NewQuoteService(client, zap.NewNop())

	result, err := quotes.GetAllQuotes(context.Background(), 1, suite.tokenIn, suite.tokenOut, suite.amountIn)
	suite.Require().NoError(err)
	suite.Require().Len(result, 2)
	// Equal amounts keep registration order: uniswap first.
	suite.Equal("uniswap", result[0].Venue.Slug)
	suite.Equal("sushiswap", result[1].Venue.Slug)
}

func (suite *QuoteServiceTestSuite) TestFirstViableFeeTierWins() {
	var probed []int64
	client := &fakeChainClient{
		quoteV3: func(_ int64, _, _, _ common.Address, feeTier int64, _ *big.Int) (*big.Int, error) {
			probed = append(probed, feeTier)
			if feeTier == 500 {
				return nil, errors.New("no pool")
			}
			return big.NewInt(2900), nil
		},
		quoteV2: func(int64, common.Address, *big.Int, []common.Address) (*big.Int, error) {
			return nil, errors.New("no pair")
		},
	}
	quotes := services.NewQuoteService(client, zap.NewNop())

	result, err := quotes.GetAllQuotes(context.Background(), 1, suite.tokenIn, suite.tokenOut, suite.amountIn)
	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.Equal(int64(3000), result[0].FeeTier)
	// 10000 is never probed after 3000 succeeds.
	suite.Equal([]int64{500, 3000}, probed)
}

func (suite *QuoteServiceTestSuite) TestZeroQuoteTreatedAsNoLiquidity() {
	client := &fakeChainClient{
		quoteV3: func(_ int64, _, _, _ common.Address, feeTier int64, _ *big.Int) (*big.Int, error) {
			return big.NewInt(0), nil
		},
		quoteV2: func(int64, common.Address, *big.Int, []common.Address) (*big.Int, error) {
			return big.NewInt(2800), nil
		},
	}
	quotes := services.NewQuoteService(client, zap.NewNop())

	result, err := quotes.GetAllQuotes(context.Background(), 1, suite.tokenIn, suite.tokenOut, suite.amountIn)
	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.Equal("sushiswap", result[0].Venue.Slug)
}

func (suite *QuoteServiceTestSuite) TestPartialVenueFailureTolerated() {
	client := &fakeChainClient{
		quoteV3: func(_ int64, _, _, _ common.Address, _ int64, _ *big.Int) (*big.Int, error) {
			return nil, errors.New("rpc down")
		},
		quoteV2: func(int64, common.Address, *big.Int, []common.Address) (*big.Int, error) {
			return big.NewInt(2800), nil
		},
	}
	quotes := services.NewQuoteService(client, zap.NewNop())

	result, err := quotes.GetAllQuotes(context.Background(), 1, suite.tokenIn, suite.tokenOut, suite.amountIn)
	suite.Require().NoError(err)
	suite.Len(result, 1)
}

func (suite *QuoteServiceTestSuite) TestAllVenuesFailing() {
	client := &fakeChainClient{
		quoteV3: func(_ int64, _, _, _ common.Address, _ int64, _ *big.Int) (*big.Int, error) {
			return nil, errors.New("rpc down")
		},
		quoteV2: func(int64, common.Address, *big.Int, []common.Address) (*big.Int, error) {
			return nil, errors.New("rpc down")
		},
	}
	quotes := services.NewQuoteService(client, zap.NewNop())

	_, err := quotes.GetAllQuotes(context.Background(), 1, suite.tokenIn, suite.tokenOut, suite.amountIn)
	suite.Error(err)

	var liqErr *apperrors.InsufficientLiquidityError
	suite.True(errors.As(err, &liqErr))
	suite.Equal("WETH", liqErr.TokenIn)
	suite.Equal("USDC", liqErr.TokenOut)
}

func (suite *QuoteServiceTestSuite) TestNativeInputQuotedViaWrappedToken() {
	network, ok := registry.GetNetwork(1)
	suite.Require().True(ok)

	var seenIn common.Address
	client := &fakeChainClient{
		quoteV3: func(_ int64, _, tokenIn, _ common.Address, feeTier int64, _ *big.Int) (*big.Int, error) {
			seenIn = tokenIn
			if feeTier != 500 {
				return nil, errors.New("no pool")
			}
			return big.NewInt(3000), nil
		},
		quoteV2: func(int64, common.Address, *big.Int, []common.Address) (*big.Int, error) {
			return nil, errors.New("no pair")
		},
	}
	quotes := services.NewQuoteService(client, zap.NewNop())

	native := &services.ResolvedToken{Symbol: "ETH", Name: "ETH", Decimals: 18}
	_, err := quotes.GetAllQuotes(context.Background(), 1, native, suite.tokenOut, suite.amountIn)
	suite.Require().NoError(err)
	suite.Equal(network.WrappedNative, seenIn)
}

func (suite *QuoteServiceTestSuite) TestFilterByVenue() {
	uniswap, _ := registry.GetVenue("uniswap")
	sushi, _ := registry.GetVenue("sushiswap")
	quotes := []services.Quote{
		{Venue: sushi, AmountOut: big.NewInt(3100)},
		{Venue: uniswap, AmountOut: big.NewInt(3000), FeeTier: 500},
	}

	filtered := services.FilterByVenue(quotes, "uniswap")
	suite.Require().Len(filtered, 1)
	suite.Equal("uniswap", filtered[0].Venue.Slug)

	suite.Empty(services.FilterByVenue(quotes, "curve"))
}

func TestQuoteServiceTestSuite(t *testing.T) {
	suite.Run(t, new(QuoteServiceTestSuite))
}
