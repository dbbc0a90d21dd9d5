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

func NewApproveTokenTool(engine services.EngineService, sessions *SessionStore) (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("approve_token",
		mcp.WithDescription("Prepare an unsigned ERC-20 approval. The spender can be a hex address or a venue name (e.g. 'uniswap'). Amount accepts a number, 'unlimited', or '0'/'revoke' to clear an existing approval."),
		mcp.WithString("user_address",
			mcp.Required(),
			mcp.Description("Wallet address of the token owner"),
		),
		mcp.WithString("token",
			mcp.Required(),
			mcp.Description("Token to approve: symbol, common alias, or contract address. Native currency cannot be approved."),
		),
		mcp.WithString("spender",
			mcp.Required(),
			mcp.Description("Spender: hex address or venue name ('uniswap', 'sushiswap')"),
		),
		mcp.WithString("amount",
			mcp.Required(),
			mcp.Description("Amount to approve: a human-readable number, 'unlimited', or '0'/'revoke'"),
		),
		mcp.WithString("chain_id",
			mcp.Required(),
			mcp.Description("Chain ID: 1 (Ethereum), 42161 (Arbitrum), 8453 (Base), 137 (Polygon)"),
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
		token, err := request.RequireString("token")
		if err != nil {
			return nil, fmt.Errorf("token parameter is required: %w", err)
		}
		spender, err := request.RequireString("spender")
		if err != nil {
			return nil, fmt.Errorf("spender parameter is required: %w", err)
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

		chatID := request.GetString("chat_id", "")
		if chatID == "" {
			cached, ok := sessions.ChatFor(ctx, userAddress)
			if !ok {
				return mcp.NewToolResultError("chat_id is required for the first call from this wallet"), nil
			}
			chatID = cached
		}

		result, err := engine.PrepareApprove(ctx, services.ApproveRequest{
			ChainID:     chainID,
			Token:       token,
			Spender:     spender,
			Amount:      amount,
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
