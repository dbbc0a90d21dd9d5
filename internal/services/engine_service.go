package services

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/chainchat-labs/txengine/internal/apperrors"
	"github.com/chainchat-labs/txengine/internal/models"
	"github.com/chainchat-labs/txengine/internal/notify"
	"github.com/chainchat-labs/txengine/internal/registry"
	"github.com/chainchat-labs/txengine/internal/utils"
)

// DefaultSlippageBps applies when a swap request does not name a slippage
// tolerance.
const DefaultSlippageBps int64 = 50

type TransferRequest struct {
	ChainID     int64  `json:"chain_id" validate:"required"`
	Recipient   string `json:"recipient" validate:"required"`
	Token       string `json:"token" validate:"required"`
	Amount      string `json:"amount" validate:"required"`
	UserAddress string `json:"user_address" validate:"required,eth_addr"`
	UserID      string `json:"user_id" validate:"required"`
	ChatID      string `json:"chat_id" validate:"required"`
}

type ApproveRequest struct {
	ChainID     int64  `json:"chain_id" validate:"required"`
	Token       string `json:"token" validate:"required"`
	Spender     string `json:"spender" validate:"required"`
	Amount      string `json:"amount" validate:"required"`
	UserAddress string `json:"user_address" validate:"required,eth_addr"`
	UserID      string `json:"user_id" validate:"required"`
	ChatID      string `json:"chat_id" validate:"required"`
}

type SwapRequest struct {
	ChainID     int64  `json:"chain_id" validate:"required"`
	TokenIn     string `json:"token_in" validate:"required"`
	TokenOut    string `json:"token_out" validate:"required"`
	Amount      string `json:"amount" validate:"required"`
	Venue       string `json:"venue"`                  // optional: restrict to one venue
	SlippageBps *int64 `json:"slippage_bps,omitempty"` // nil means the engine default; 0 is a valid explicit tolerance
	UserAddress string `json:"user_address" validate:"required,eth_addr"`
	UserID      string `json:"user_id" validate:"required"`
	ChatID      string `json:"chat_id" validate:"required"`
}

type QuoteRequest struct {
	ChainID  int64  `json:"chain_id" validate:"required"`
	TokenIn  string `json:"token_in" validate:"required"`
	TokenOut string `json:"token_out" validate:"required"`
	Amount   string `json:"amount" validate:"required"`
	Venue    string `json:"venue"` // optional
}

// QuoteSummary is one venue's quote rendered for display.
type QuoteSummary struct {
	Venue        string `json:"venue"`
	FeeTier      int64  `json:"fee_tier,omitempty"`
	AmountOut    string `json:"amount_out"`
	AmountOutRaw string `json:"amount_out_raw"`
}

// PrepareResult is the success payload of a preparation pipeline.
type PrepareResult struct {
	Message       string                     `json:"message"`
	Transaction   *models.PendingTransaction `json:"transaction"`
	NeedsApproval bool                       `json:"needs_approval,omitempty"`
	Approval      *notify.ApprovalHint       `json:"approval,omitempty"`
	BestQuote     *QuoteSummary              `json:"best_quote,omitempty"`
	AmountOutMin  string                     `json:"amount_out_min,omitempty"`
}

// QuoteResult is the read-only quote surface's payload.
type QuoteResult struct {
	TokenIn         string         `json:"token_in"`
	TokenOut        string         `json:"token_out"`
	AmountIn        string         `json:"amount_in"`
	Quotes          []QuoteSummary `json:"quotes"`
	SuggestedMinOut string         `json:"suggested_min_out"`
	SlippageBps     int64          `json:"slippage_bps"`
}

// EngineService runs the preparation pipelines. Each call is one stateless,
// independent request; venue quoting is the only concurrent sub-operation.
type EngineService interface {
	PrepareTransfer(ctx context.Context, req TransferRequest) (*PrepareResult, error)
	PrepareApprove(ctx context.Context, req ApproveRequest) (*PrepareResult, error)
	PrepareSwap(ctx context.Context, req SwapRequest) (*PrepareResult, error)
	GetQuotes(ctx context.Context, req QuoteRequest) (*QuoteResult, error)
}

type engineService struct {
	validator          *validator.Validate
	resolver           ResolverService
	quotes             QuoteService
	builder            BuilderService
	preflight          PreflightService
	tx                 TransactionService
	defaultSlippageBps int64
	logger             *zap.Logger
}

// NewEngineService wires the pipeline stages. defaultSlippageBps applies to
// swaps that name no tolerance; 0 falls back to DefaultSlippageBps.
func NewEngineService(resolver ResolverService, quotes QuoteService, builder BuilderService, preflight PreflightService, tx TransactionService, defaultSlippageBps int64, logger *zap.Logger) EngineService {
	if defaultSlippageBps <= 0 {
		defaultSlippageBps = DefaultSlippageBps
	}
	return &engineService{
		validator:          validator.New(),
		resolver:           resolver,
		quotes:             quotes,
		builder:            builder,
		preflight:          preflight,
		tx:                 tx,
		defaultSlippageBps: defaultSlippageBps,
		logger:             logger,
	}
}

func (s *engineService) PrepareTransfer(ctx context.Context, req TransferRequest) (*PrepareResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	if _, ok := registry.GetNetwork(req.ChainID); !ok {
		return nil, fmt.Errorf("chain %d is not supported", req.ChainID)
	}

	recipient, err := s.resolver.ResolveRecipient(ctx, req.Recipient, req.UserID, req.ChainID)
	if err != nil {
		return nil, err
	}
	token, err := s.resolver.ResolveToken(ctx, req.Token, req.ChainID)
	if err != nil {
		return nil, err
	}
	amount, err := utils.ParseAmount(req.Amount, token.Decimals)
	if err != nil {
		return nil, err
	}

	holder := common.HexToAddress(req.UserAddress)
	if err := s.preflight.CheckBalance(ctx, req.ChainID, holder, token, amount); err != nil {
		return nil, err
	}

	built, err := s.builder.BuildTransfer(token, recipient.Address, amount)
	if err != nil {
		return nil, err
	}

	displayAmount := utils.FormatAmount(amount, token.Decimals)
	details := map[string]string{
		"token":     token.Symbol,
		"amount":    displayAmount,
		"recipient": recipient.Address.Hex(),
	}
	if recipient.ResolvedFrom != "" {
		details["recipient_resolved_from"] = recipient.ResolvedFrom
		details["recipient_input"] = req.Recipient
	}

	record, err := s.tx.PrepareAndPublish(ctx, CreatePendingTransactionArgs{
		OperationType: models.OperationTransfer,
		ChainID:       req.ChainID,
		To:            built.To,
		Value:         built.Value,
		Data:          built.Data,
		ButtonText:    fmt.Sprintf("Send %s %s", displayAmount, token.Symbol),
		Details:       details,
		ChatID:        req.ChatID,
		UserID:        req.UserID,
		UserAddress:   req.UserAddress,
	})
	if err != nil {
		return nil, err
	}

	return &PrepareResult{
		Message:     fmt.Sprintf("Transfer of %s %s to %s is ready to sign.", displayAmount, token.Symbol, recipient.Address.Hex()),
		Transaction: record,
	}, nil
}

func (s *engineService) PrepareApprove(ctx context.Context, req ApproveRequest) (*PrepareResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	if _, ok := registry.GetNetwork(req.ChainID); !ok {
		return nil, fmt.Errorf("chain %d is not supported", req.ChainID)
	}

	token, err := s.resolver.ResolveToken(ctx, req.Token, req.ChainID)
	if err != nil {
		return nil, err
	}
	spender, err := s.resolver.ResolveSpender(req.Spender, req.ChainID)
	if err != nil {
		return nil, err
	}
	amount, displayAmount, revoke, err := parseApprovalAmount(req.Amount, token.Decimals)
	if err != nil {
		return nil, err
	}

	built, err := s.builder.BuildApprove(token, spender.Address, amount)
	if err != nil {
		return nil, err
	}

	buttonText := fmt.Sprintf("Approve %s %s for %s", displayAmount, token.Symbol, spender.Name)
	message := fmt.Sprintf("Approval of %s %s for %s is ready to sign.", displayAmount, token.Symbol, spender.Name)
	if revoke {
		buttonText = fmt.Sprintf("Revoke %s approval for %s", token.Symbol, spender.Name)
		message = fmt.Sprintf("Revocation of the %s approval for %s is ready to sign.", token.Symbol, spender.Name)
	}

	record, err := s.tx.PrepareAndPublish(ctx, CreatePendingTransactionArgs{
		OperationType: models.OperationApprove,
		ChainID:       req.ChainID,
		To:            built.To,
		Value:         built.Value,
		Data:          built.Data,
		ButtonText:    buttonText,
		Details: map[string]string{
			"token":        token.Symbol,
			"amount":       displayAmount,
			"spender":      spender.Address.Hex(),
			"spender_name": spender.Name,
		},
		ChatID:      req.ChatID,
		UserID:      req.UserID,
		UserAddress: req.UserAddress,
	})
	if err != nil {
		return nil, err
	}

	return &PrepareResult{Message: message, Transaction: record}, nil
}

func (s *engineService) PrepareSwap(ctx context.Context, req SwapRequest) (*PrepareResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	if _, ok := registry.GetNetwork(req.ChainID); !ok {
		return nil, fmt.Errorf("chain %d is not supported", req.ChainID)
	}

	tokenIn, err := s.resolver.ResolveToken(ctx, req.TokenIn, req.ChainID)
	if err != nil {
		return nil, err
	}
	tokenOut, err := s.resolver.ResolveToken(ctx, req.TokenOut, req.ChainID)
	if err != nil {
		return nil, err
	}
	if tokenIn.AddressOrWrapped(req.ChainID) == tokenOut.AddressOrWrapped(req.ChainID) {
		return nil, fmt.Errorf("cannot swap %s to itself", tokenIn.Symbol)
	}

	// The requested venue is rejected before any quote call goes out.
	requestedVenue, err := checkRequestedVenue(req.Venue, req.ChainID)
	if err != nil {
		return nil, err
	}

	amountIn, err := utils.ParseAmount(req.Amount, tokenIn.Decimals)
	if err != nil {
		return nil, err
	}

	holder := common.HexToAddress(req.UserAddress)
	if err := s.preflight.CheckBalance(ctx, req.ChainID, holder, tokenIn, amountIn); err != nil {
		return nil, err
	}

	quotes, err := s.quotes.GetAllQuotes(ctx, req.ChainID, tokenIn, tokenOut, amountIn)
	if err != nil {
		return nil, err
	}
	if requestedVenue != nil {
		quotes = FilterByVenue(quotes, requestedVenue.Slug)
		if len(quotes) == 0 {
			return nil, &apperrors.InsufficientLiquidityError{TokenIn: tokenIn.Symbol, TokenOut: tokenOut.Symbol}
		}
	}
	best := quotes[0]

	slippageBps := s.defaultSlippageBps
	if req.SlippageBps != nil {
		slippageBps = *req.SlippageBps
	}
	amountOutMin, err := utils.ApplySlippage(best.AmountOut, slippageBps)
	if err != nil {
		return nil, err
	}

	deadline := SwapDeadline()
	built, err := s.builder.BuildSwap(BuildSwapArgs{
		Venue:        best.Venue,
		ChainID:      req.ChainID,
		TokenIn:      tokenIn,
		TokenOut:     tokenOut,
		AmountIn:     amountIn,
		AmountOutMin: amountOutMin,
		Recipient:    holder,
		FeeTier:      best.FeeTier,
		Deadline:     deadline,
	})
	if err != nil {
		return nil, err
	}

	router, _ := best.Venue.Router(req.ChainID)
	needsApproval := false
	if !tokenIn.IsNative() {
		needsApproval, err = s.preflight.CheckAllowance(ctx, req.ChainID, holder, tokenIn, router, amountIn)
		if err != nil {
			// An unreadable allowance never blocks the flow; prompting for
			// an approval that may already exist is harmless.
			s.logger.Warn("allowance check failed", zap.String("token", tokenIn.Symbol), zap.Error(err))
			needsApproval = true
		}
	}

	var approval *notify.ApprovalHint
	if needsApproval {
		approval = &notify.ApprovalHint{
			Token:          tokenIn.Address.Hex(),
			Spender:        router.Hex(),
			SpenderName:    best.Venue.Name + " Router",
			RequiredAmount: utils.FormatAmount(amountIn, tokenIn.Decimals),
		}
	}

	displayIn := utils.FormatAmount(amountIn, tokenIn.Decimals)
	displayOut := utils.FormatAmount(best.AmountOut, tokenOut.Decimals)
	displayMinOut := utils.FormatAmount(amountOutMin, tokenOut.Decimals)

	details := map[string]string{
		"token_in":       tokenIn.Symbol,
		"token_out":      tokenOut.Symbol,
		"amount_in":      displayIn,
		"amount_out_est": displayOut,
		"amount_out_min": displayMinOut,
		"venue":          best.Venue.Name,
		"slippage_bps":   fmt.Sprintf("%d", slippageBps),
		"deadline":       deadline.String(),
	}
	if best.FeeTier != 0 {
		details["fee_tier"] = fmt.Sprintf("%d", best.FeeTier)
	}

	record, err := s.tx.PrepareAndPublish(ctx, CreatePendingTransactionArgs{
		OperationType: models.OperationSwap,
		ChainID:       req.ChainID,
		To:            built.To,
		Value:         built.Value,
		Data:          built.Data,
		ButtonText:    fmt.Sprintf("Swap %s %s for %s", displayIn, tokenIn.Symbol, tokenOut.Symbol),
		Details:       details,
		ChatID:        req.ChatID,
		UserID:        req.UserID,
		UserAddress:   req.UserAddress,
		Approval:      approval,
	})
	if err != nil {
		return nil, err
	}

	return &PrepareResult{
		Message:       fmt.Sprintf("Swap of %s %s for ~%s %s via %s is ready to sign.", displayIn, tokenIn.Symbol, displayOut, tokenOut.Symbol, best.Venue.Name),
		Transaction:   record,
		NeedsApproval: needsApproval,
		Approval:      approval,
		BestQuote: &QuoteSummary{
			Venue:        best.Venue.Slug,
			FeeTier:      best.FeeTier,
			AmountOut:    displayOut,
			AmountOutRaw: best.AmountOut.String(),
		},
		AmountOutMin: displayMinOut,
	}, nil
}

func (s *engineService) GetQuotes(ctx context.Context, req QuoteRequest) (*QuoteResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	if _, ok := registry.GetNetwork(req.ChainID); !ok {
		return nil, fmt.Errorf("chain %d is not supported", req.ChainID)
	}

	tokenIn, err := s.resolver.ResolveToken(ctx, req.TokenIn, req.ChainID)
	if err != nil {
		return nil, err
	}
	tokenOut, err := s.resolver.ResolveToken(ctx, req.TokenOut, req.ChainID)
	if err != nil {
		return nil, err
	}
	requestedVenue, err := checkRequestedVenue(req.Venue, req.ChainID)
	if err != nil {
		return nil, err
	}
	amountIn, err := utils.ParseAmount(req.Amount, tokenIn.Decimals)
	if err != nil {
		return nil, err
	}

	quotes, err := s.quotes.GetAllQuotes(ctx, req.ChainID, tokenIn, tokenOut, amountIn)
	if err != nil {
		return nil, err
	}
	if requestedVenue != nil {
		quotes = FilterByVenue(quotes, requestedVenue.Slug)
		if len(quotes) == 0 {
			return nil, &apperrors.InsufficientLiquidityError{TokenIn: tokenIn.Symbol, TokenOut: tokenOut.Symbol}
		}
	}

	summaries := make([]QuoteSummary, 0, len(quotes))
	for _, quote := range quotes {
		summaries = append(summaries, QuoteSummary{
			Venue:        quote.Venue.Slug,
			FeeTier:      quote.FeeTier,
			AmountOut:    utils.FormatAmount(quote.AmountOut, tokenOut.Decimals),
			AmountOutRaw: quote.AmountOut.String(),
		})
	}

	suggestedMinOut, err := utils.ApplySlippage(quotes[0].AmountOut, s.defaultSlippageBps)
	if err != nil {
		return nil, err
	}

	return &QuoteResult{
		TokenIn:         tokenIn.Symbol,
		TokenOut:        tokenOut.Symbol,
		AmountIn:        utils.FormatAmount(amountIn, tokenIn.Decimals),
		Quotes:          summaries,
		SuggestedMinOut: utils.FormatAmount(suggestedMinOut, tokenOut.Decimals),
		SlippageBps:     s.defaultSlippageBps,
	}, nil
}

// checkRequestedVenue validates an optional venue restriction up front.
func checkRequestedVenue(venueName string, chainID int64) (*registry.Venue, error) {
	if venueName == "" {
		return nil, nil
	}
	venue, ok := registry.GetVenue(venueName)
	if !ok {
		return nil, &apperrors.UnsupportedVenueOrChainError{Venue: venueName, ChainID: chainID}
	}
	if !venue.SupportsChain(chainID) {
		return nil, &apperrors.UnsupportedVenueOrChainError{Venue: venue.Slug, ChainID: chainID}
	}
	return venue, nil
}

// parseApprovalAmount handles the three symbolic approval forms: "unlimited"
// for the maximum uint256, "0"/"revoke" for revocation, otherwise a decimal
// amount in the token's precision.
func parseApprovalAmount(input string, decimals uint8) (amount *big.Int, display string, revoke bool, err error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "unlimited", "max", "infinite":
		return utils.MaxUint256, "Unlimited", false, nil
	case "0", "revoke", "none":
		return big.NewInt(0), "0", true, nil
	}
	amount, err = utils.ParseAmount(input, decimals)
	if err != nil {
		return nil, "", false, err
	}
	return amount, utils.FormatAmount(amount, decimals), false, nil
}
