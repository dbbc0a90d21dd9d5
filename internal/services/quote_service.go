package services

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/chainchat-labs/txengine/internal/apperrors"
	"github.com/chainchat-labs/txengine/internal/chain"
	"github.com/chainchat-labs/txengine/internal/registry"
)

// venueQuoteTimeout bounds one venue's whole quoting attempt, fee-tier
// probing included.
const venueQuoteTimeout = 8 * time.Second

// feeTierTimeout bounds a single fee-tier probe within a V3 venue.
const feeTierTimeout = 3 * time.Second

// Quote is one venue's priced answer for an exact-input swap. FeeTier is zero
// for V2 venues.
type Quote struct {
	Venue     *registry.Venue
	AmountOut *big.Int
	FeeTier   int64
}

type QuoteService interface {
	// GetAllQuotes queries every venue available on the chain concurrently
	// and returns viable quotes best price first. Venue failures are
	// absorbed; only an empty result is an error.
	GetAllQuotes(ctx context.Context, chainID int64, tokenIn, tokenOut *ResolvedToken, amountIn *big.Int) ([]Quote, error)
}

type quoteService struct {
	chainClient chain.Client
	logger      *zap.Logger
}

func NewQuoteService(chainClient chain.Client, logger *zap.Logger) QuoteService {
	return &quoteService{chainClient: chainClient, logger: logger}
}

func (s *quoteService) GetAllQuotes(ctx context.Context, chainID int64, tokenIn, tokenOut *ResolvedToken, amountIn *big.Int) ([]Quote, error) {
	venues := registry.VenuesForChain(chainID)

	inAddr := tokenIn.AddressOrWrapped(chainID)
	outAddr := tokenOut.AddressOrWrapped(chainID)

	// Fan out one goroutine per venue; results stay slotted by registration
	// index so the later stable sort breaks ties by registration order.
	results := make([]*Quote, len(venues))
	var wg sync.WaitGroup
	for i, venue := range venues {
		wg.Add(1)
		go func(slot int, venue *registry.Venue) {
			defer wg.Done()
			venueCtx, cancel := context.WithTimeout(ctx, venueQuoteTimeout)
			defer cancel()

			quote, err := s.quoteVenue(venueCtx, chainID, venue, inAddr, outAddr, amountIn)
			if err != nil {
				s.logger.Debug("venue quote failed",
					zap.String("venue", venue.Slug),
					zap.Int64("chain_id", chainID),
					zap.Error(err))
				return
			}
			results[slot] = quote
		}(i, venue)
	}
	wg.Wait()

	var quotes []Quote
	for _, quote := range results {
		if quote != nil {
			quotes = append(quotes, *quote)
		}
	}
	if len(quotes) == 0 {
		return nil, &apperrors.InsufficientLiquidityError{TokenIn: tokenIn.Symbol, TokenOut: tokenOut.Symbol}
	}

	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].AmountOut.Cmp(quotes[j].AmountOut) > 0
	})
	return quotes, nil
}

func (s *quoteService) quoteVenue(ctx context.Context, chainID int64, venue *registry.Venue, tokenIn, tokenOut common.Address, amountIn *big.Int) (*Quote, error) {
	switch venue.Family {
	case registry.ProtocolV3SingleHop:
		quoter, ok := venue.Quoter(chainID)
		if !ok {
			return nil, fmt.Errorf("venue %s has no quoter on chain %d", venue.Slug, chainID)
		}
		// First tier with a positive amount wins; later tiers are not tried.
		amountOut, tierIndex, err := chain.FirstSuccess(ctx, registry.V3FeeTiers, feeTierTimeout, func(ctx context.Context, feeTier int64) (*big.Int, error) {
			out, err := s.chainClient.QuoteV3(ctx, chainID, quoter, tokenIn, tokenOut, feeTier, amountIn)
			if err != nil {
				return nil, err
			}
			if out == nil || out.Sign() <= 0 {
				return nil, fmt.Errorf("tier %d quoted zero", feeTier)
			}
			return out, nil
		})
		if err != nil {
			return nil, err
		}
		return &Quote{Venue: venue, AmountOut: amountOut, FeeTier: registry.V3FeeTiers[tierIndex]}, nil

	case registry.ProtocolV2Path:
		router, ok := venue.Router(chainID)
		if !ok {
			return nil, fmt.Errorf("venue %s has no router on chain %d", venue.Slug, chainID)
		}
		amountOut, err := s.chainClient.QuoteV2(ctx, chainID, router, amountIn, []common.Address{tokenIn, tokenOut})
		if err != nil {
			return nil, err
		}
		if amountOut == nil || amountOut.Sign() <= 0 {
			return nil, fmt.Errorf("path quoted zero")
		}
		return &Quote{Venue: venue, AmountOut: amountOut}, nil

	default:
		return nil, fmt.Errorf("unknown protocol family %q", venue.Family)
	}
}

// FilterByVenue narrows a ranked quote list to one venue, preserving order.
// Filtering happens after aggregation so the aggregation pass stays uniform.
func FilterByVenue(quotes []Quote, slug string) []Quote {
	var out []Quote
	for _, quote := range quotes {
		if quote.Venue.Slug == slug {
			out = append(out, quote)
		}
	}
	return out
}
