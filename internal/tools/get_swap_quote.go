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

func NewGetSwapQuoteTool(engine services.EngineService) (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("get_swap_quote",
		mcp.WithDescription("Get swap quotes from every venue on a chain, best output first. This is a read-only operation: nothing is prepared, persisted, or sent for signing."),
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
			mcp.Description("Restrict quotes to one venue ('uniswap' or 'sushiswap')"),
		),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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

		result, err := engine.GetQuotes(ctx, services.QuoteRequest{
			ChainID:  chainID,
			TokenIn:  tokenIn,
			TokenOut: tokenOut,
			Amount:   amount,
			Venue:    request.GetString("venue", ""),
		})
		if err != nil {
			return mcp.NewToolResultError(services.NewErrorResponse(err).Error), nil
		}

		resultJSON, _ := json.Marshal(result)
		return mcp.NewToolResultText(string(resultJSON)), nil
	}

	return tool, handler
}
