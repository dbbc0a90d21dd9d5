package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/chainchat-labs/txengine/internal/cache"
	"github.com/chainchat-labs/txengine/internal/services"
	"github.com/chainchat-labs/txengine/internal/tools"
)

type MCPServer struct {
	server *server.MCPServer
}

func NewMCPServer(engine services.EngineService, tx services.TransactionService, contacts services.ContactService, sessionCache cache.Cache) *MCPServer {
	srv := server.NewMCPServer(
		"Transaction Engine MCP Server",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	sessions := tools.NewSessionStore(sessionCache)

	// Preparation tools
	sendTokenTool, sendTokenHandler := tools.NewSendTokenTool(engine, sessions)
	srv.AddTool(sendTokenTool, sendTokenHandler)

	approveTokenTool, approveTokenHandler := tools.NewApproveTokenTool(engine, sessions)
	srv.AddTool(approveTokenTool, approveTokenHandler)

	swapTokensTool, swapTokensHandler := tools.NewSwapTokensTool(engine, sessions)
	srv.AddTool(swapTokensTool, swapTokensHandler)

	// Read-only tools
	getSwapQuoteTool, getSwapQuoteHandler := tools.NewGetSwapQuoteTool(engine)
	srv.AddTool(getSwapQuoteTool, getSwapQuoteHandler)

	listPendingTool, listPendingHandler := tools.NewListPendingTransactionsTool(tx)
	srv.AddTool(listPendingTool, listPendingHandler)

	// Contact management
	addContactTool, addContactHandler := tools.NewAddContactTool(contacts)
	srv.AddTool(addContactTool, addContactHandler)

	listContactsTool, listContactsHandler := tools.NewListContactsTool(contacts)
	srv.AddTool(listContactsTool, listContactsHandler)

	return &MCPServer{server: srv}
}

func (s *MCPServer) Start() error {
	return server.ServeStdio(s.server)
}
