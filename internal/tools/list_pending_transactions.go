package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/chainchat-labs/txengine/internal/services"
)

func NewListPendingTransactionsTool(tx services.TransactionService) (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("list_pending_transactions",
		mcp.WithDescription("List prepared transactions that are still awaiting a signature from the user's wallet, most recent first."),
		mcp.WithString("user_address",
			mcp.Required(),
			mcp.Description("Wallet address whose pending transactions to list"),
		),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userAddress, err := request.RequireString("user_address")
		if err != nil {
			return nil, fmt.Errorf("user_address parameter is required: %w", err)
		}

		records, err := tx.ListPendingByUser(userAddress)
		if err != nil {
			return mcp.NewToolResultError("failed to list pending transactions"), nil
		}

		result := map[string]interface{}{
			"count":        len(records),
			"transactions": records,
		}
		resultJSON, _ := json.Marshal(result)
		return mcp.NewToolResultText(string(resultJSON)), nil
	}

	return tool, handler
}
