package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/chainchat-labs/txengine/internal/api"
	"github.com/chainchat-labs/txengine/internal/cache"
	"github.com/chainchat-labs/txengine/internal/chain"
	"github.com/chainchat-labs/txengine/internal/config"
	"github.com/chainchat-labs/txengine/internal/database"
	"github.com/chainchat-labs/txengine/internal/mcp"
	"github.com/chainchat-labs/txengine/internal/notify"
	"github.com/chainchat-labs/txengine/internal/services"
)

// Build information (set via ldflags)
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildTime  = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to YAML config file")
	var showVersion = flag.Bool("version", false, "Show version information")
	var enableStdio = flag.Bool("stdio", false, "Serve MCP tools over stdio")
	flag.Parse()

	if *showVersion {
		fmt.Printf("Transaction Engine\nVersion: %s\nCommit: %s\nBuilt: %s\n", Version, CommitHash, BuildTime)
		return
	}

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	db, err := database.NewDatabase(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Websocket hub runs on its own listener; signing clients subscribe by
	// wallet address or chat handle.
	hub := notify.NewHub(logger)
	notifySrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.NotifyPort),
		Handler: hub,
	}
	go func() {
		if err := notifySrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("notification server stopped", zap.Error(err))
		}
	}()

	var sessionCache cache.Cache
	if cfg.RedisAddr != "" {
		sessionCache = cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, "txengine")
	} else {
		sessionCache = cache.NewMemoryCache()
	}

	chainClient := chain.NewRPCClient(logger, cfg.RPCOverrides)

	resolver := services.NewResolverService(db.DB, chainClient, logger)
	quotes := services.NewQuoteService(chainClient, logger)
	builder := services.NewBuilderService()
	preflight := services.NewPreflightService(chainClient)
	txService := services.NewTransactionService(db.DB, hub, logger)
	contactService := services.NewContactService(db.DB)
	engine := services.NewEngineService(resolver, quotes, builder, preflight, txService, cfg.DefaultSlippageBps, logger)

	apiServer := api.NewAPIServer(engine, txService, logger)
	port, err := apiServer.Start(cfg.APIPort)
	if err != nil {
		logger.Fatal("failed to start API server", zap.Error(err))
	}
	logger.Info("API server started", zap.Int("port", port))

	if *enableStdio {
		mcpServer := mcp.NewMCPServer(engine, txService, contactService, sessionCache)
		go func() {
			if err := mcpServer.Start(); err != nil {
				logger.Fatal("MCP server stopped", zap.Error(err))
			}
		}()
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	logger.Info("shutting down")
	if err := apiServer.Shutdown(); err != nil {
		logger.Error("API server shutdown failed", zap.Error(err))
	}
	if err := notifySrv.Close(); err != nil {
		logger.Error("notification server shutdown failed", zap.Error(err))
	}
}
