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

func NewSendTokenTool(engine services.EngineService, sessions *SessionStore) (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("send_token",
		mcp.WithDescription("Prepare an unsigned transfer of native currency or an ERC-20 token. The recipient can be a hex address, a saved contact name, or an ENS name. Returns a pending transaction for the user's wallet to sign."),
		mcp.WithString("user_address",
			mcp.Required(),
			mcp.Description("Wallet address of the sender"),
		),
		mcp.WithString("recipient",
			mcp.Required(),
			mcp.Description("Recipient: hex address, contact name, or ENS name (e.g. 'alice.eth')"),
		),
		mcp.WithString("token",
			mcp.Required(),
			mcp.Description("Token to send: symbol (e.g. 'ETH', 'USDC'), common alias, or contract address"),
		),
		mcp.WithString("amount",
			mcp.Required(),
			mcp.Description("Human-readable amount to send (e.g. '0.5')"),
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
		recipient, err := request.RequireString("recipient")
		if err != nil {
			return nil, fmt.Errorf("recipient parameter is required: %w", err)
		}
		token, err := request.RequireString("token")
		if err != nil {
			return nil, fmt.Errorf("token parameter is required: %w", err)
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

		result, err := engine.PrepareTransfer(ctx, services.TransferRequest{
			ChainID:     chainID,
			Recipient:   recipient,
			Token:       token,
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
