package api

import (
	"fmt"
	"net"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/chainchat-labs/txengine/internal/services"
)

// APIServer exposes the engine and the pending-transaction record store to
// clients. Conversational routing and session authentication live outside
// this process.
type APIServer struct {
	app    *fiber.App
	engine services.EngineService
	tx     services.TransactionService
	logger *zap.Logger
	port   int
}

func NewAPIServer(engine services.EngineService, tx services.TransactionService, logger *zap.Logger) *APIServer {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	server := &APIServer{
		app:    app,
		engine: engine,
		tx:     tx,
		logger: logger,
	}
	server.setupRoutes()
	return server
}

func (s *APIServer) setupRoutes() {
	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Preparation pipelines
	s.app.Post("/api/transfer", s.handleTransfer)
	s.app.Post("/api/approve", s.handleApprove)
	s.app.Post("/api/swap", s.handleSwap)
	s.app.Post("/api/quote", s.handleQuote)

	// Pending-record retrieval and the external confirmation path
	s.app.Get("/api/tx/:id", s.handleGetTransaction)
	s.app.Get("/api/users/:user_id/transactions/pending", s.handleListPending)
	s.app.Post("/api/tx/:id/confirm", s.handleConfirmTransaction)
}

// Start listens on the configured port, or a random free one when port is 0,
// and returns the bound port.
func (s *APIServer) Start(port int) (int, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return 0, fmt.Errorf("failed to bind API port: %w", err)
	}
	s.port = listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	go func() {
		if err := s.app.Listen(fmt.Sprintf(":%d", s.port)); err != nil {
			s.logger.Error("API server stopped", zap.Error(err))
		}
	}()
	return s.port, nil
}

func (s *APIServer) Shutdown() error {
	return s.app.Shutdown()
}

func (s *APIServer) GetPort() int {
	return s.port
}
