package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/chainchat-labs/txengine/internal/services"
)

func NewSwapTokensTool(engine services.EngineService, sessions *SessionStore) (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("swap_tokens",
		mcp.WithDescription("Prepare an unsigned token swap. Quotes are gathered from all venues on the chain and the best output wins; the prepared calldata includes a slippage-protected minimum output. If the input token needs an approval first, the result says so."),
		mcp.WithString("user_address",
			mcp.Required(),
			mcp.Description("Wallet address of the swapper"),
		),
		mcp.WithString("token_in",
			mcp.Required(),
			mcp.Description("Token to sell: symbol, common alias, or contract address"),
		),
		mcp.WithString("token_out",
			mcp.Required(),
			mcp.Description("Token to buy: symbol, common alias, or contract address"),
		),
		mcp.WithString("amount",
			mcp.Required(),
			mcp.Description("Human-readable amount of token_in to sell"),
		),
		mcp.WithString("chain_id",
			mcp.Required(),
			mcp.Description("Chain ID: 1 (Ethereum), 42161 (Arbitrum), 8453 (Base), 137 (Polygon)"),
		),
		mcp.WithString("venue",
			mcp.Description("Restrict the swap to one venue ('uniswap' or 'sushiswap'). Default is best price across venues."),
		),
		mcp.WithString("slippage_bps",
			mcp.Description("Slippage tolerance in basis points (default 50 = 0.5%)"),
		),
		mcp.WithString("chat_id",
			mcp.Description("Conversation handle for the signing notification. Optional when a previous call already established one for this wallet."),
		),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userAddress, err := request.RequireString("user_address")
		if err != nil {
			return nil, fmt.Errorf("user_address parameter is required: %w", err)
		}
		tokenIn, err := request.RequireString("token_in")
		if err != nil {
			return nil, fmt.Errorf("token_in parameter is required: %w", err)
		}
		tokenOut, err := request.RequireString("token_out")
		if err != nil {
			return nil, fmt.Errorf("token_out parameter is required: %w", err)
		}
		amount, err := request.RequireString("amount")
		if err != nil {
			return nil, fmt.Errorf("amount parameter is required: %w", err)
		}
		chainIDStr, err := request.RequireString("chain_id")
		if err != nil {
			return nil, fmt.Errorf("chain_id parameter is required: %w", err)
		}
		chainID, err := strconv.ParseInt(chainIDStr, 10, 64)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid chain_id %q", chainIDStr)), nil
		}

		var slippageBps *int64
		if raw := request.GetString("slippage_bps", ""); raw != "" {
			parsed, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("invalid slippage_bps %q", raw)), nil
			}
			slippageBps = &parsed
		}

		chatID := request.GetString("chat_id", "")
		if chatID == "" {
			cached, ok := sessions.ChatFor(ctx, userAddress)
			if !ok {
				return mcp.NewToolResultError("chat_id is required for the first call from this wallet"), nil
			}
			chatID = cached
		}

		result, err := engine.PrepareSwap(ctx, services.SwapRequest{
			ChainID:     chainID,
			TokenIn:     tokenIn,
			TokenOut:    tokenOut,
			Amount:      amount,
			Venue:       request.GetString("venue", ""),
			SlippageBps: slippageBps,
			UserAddress: userAddress,
			UserID:      userAddress,
			ChatID:      chatID,
		})
		if err != nil {
			return mcp.NewToolResultError(services.NewErrorResponse(err).Error), nil
		}
		sessions.Remember(ctx, userAddress, chatID)

		resultJSON, _ := json.Marshal(result)
		return mcp.NewToolResultText(string(resultJSON)), nil
	}

	return tool, handler
}
