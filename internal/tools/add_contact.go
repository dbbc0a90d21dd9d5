package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/chainchat-labs/txengine/internal/services"
)

func NewAddContactTool(contacts services.ContactService) (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("add_contact",
		mcp.WithDescription("Save a named contact for a wallet. Saved contact names can then be used as transfer recipients and take precedence over ENS resolution."),
		mcp.WithString("user_address",
			mcp.Required(),
			mcp.Description("Wallet address that owns the contact list"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Contact name, matched case-insensitively when resolving recipients"),
		),
		mcp.WithString("address",
			mcp.Required(),
			mcp.Description("Hex address of the contact"),
		),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userAddress, err := request.RequireString("user_address")
		if err != nil {
			return nil, fmt.Errorf("user_address parameter is required: %w", err)
		}
		name, err := request.RequireString("name")
		if err != nil {
			return nil, fmt.Errorf("name parameter is required: %w", err)
		}
		address, err := request.RequireString("address")
		if err != nil {
			return nil, fmt.Errorf("address parameter is required: %w", err)
		}

		contact, err := contacts.CreateContact(userAddress, name, address)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		resultJSON, _ := json.Marshal(contact)
		return mcp.NewToolResultText(string(resultJSON)), nil
	}

	return tool, handler
}

func NewListContactsTool(contacts services.ContactService) (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("list_contacts",
		mcp.WithDescription("List the saved contacts for a wallet."),
		mcp.WithString("user_address",
			mcp.Required(),
			mcp.Description("Wallet address that owns the contact list"),
		),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userAddress, err := request.RequireString("user_address")
		if err != nil {
			return nil, fmt.Errorf("user_address parameter is required: %w", err)
		}

		list, err := contacts.ListContacts(userAddress)
		if err != nil {
			return mcp.NewToolResultError("failed to list contacts"), nil
		}

		result := map[string]interface{}{
			"count":    len(list),
			"contacts": list,
		}
		resultJSON, _ := json.Marshal(result)
		return mcp.NewToolResultText(string(resultJSON)), nil
	}

	return tool, handler
}
