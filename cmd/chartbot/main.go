// Chart Bot server: the role-aware HR assistant behind the chat endpoint.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hrkit/chartbot/pkg/agent"
	"github.com/hrkit/chartbot/pkg/analyzer"
	"github.com/hrkit/chartbot/pkg/api"
	"github.com/hrkit/chartbot/pkg/cache"
	"github.com/hrkit/chartbot/pkg/config"
	"github.com/hrkit/chartbot/pkg/fetcher"
	"github.com/hrkit/chartbot/pkg/llm"
	"github.com/hrkit/chartbot/pkg/security"
	"github.com/hrkit/chartbot/pkg/services"
	"github.com/hrkit/chartbot/pkg/store"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	configPath := flag.String("config",
		getEnv("CHARTBOT_CONFIG", "./config.yaml"),
		"Path to the YAML configuration file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, continuing with existing environment", "error", err)
	}

	httpPort := getEnv("HTTP_PORT", "8080")

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		os.Exit(1)
	}

	slog.Info("Starting Chart Bot",
		"http_port", httpPort,
		"bot_name", cfg.BotName,
		"enabled", cfg.Enabled)

	ctx := context.Background()

	// Database connection and migrations.
	dbConfig, err := store.LoadConfigFromEnv()
	if err != nil {
		slog.Error("Failed to load database config", "error", err)
		os.Exit(1)
	}

	client, err := store.NewClient(ctx, dbConfig)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := client.Close(); err != nil {
			slog.Error("Error closing database client", "error", err)
		}
	}()
	slog.Info("Connected to PostgreSQL database")

	// LLM client. A down LLM is not fatal; the chain degrades to templates.
	llmClient, err := llm.NewClient(cfg.LLM)
	if err != nil {
		slog.Error("Failed to create LLM client", "endpoint", cfg.LLM.Endpoint, "error", err)
		os.Exit(1)
	}

	// Pipeline components.
	resolver := security.NewResolver(store.NewDirectory(client))
	history := cache.NewHistoryStore(cfg.History.MaxTurns)

	chain, err := agent.Build(ctx, agent.ChainConfig{
		Deps: agent.Deps{
			Analyzer: analyzer.New(),
			Resolver: resolver,
			Fetcher:  fetcher.New(store.NewHRStore(client), cache.NewDataCache(), cfg.Cache),
			History:  history,
		},
		LLM:     llmClient,
		BotName: cfg.BotName,
	})
	if err != nil {
		slog.Error("Failed to build agent chain", "error", err)
		os.Exit(1)
	}

	chatService := services.NewChatService(chain, resolver, history, cfg)

	healthCheck := func(ctx context.Context) error {
		_, err := client.Health(ctx)
		return err
	}
	server := api.NewServer(chatService, ":"+httpPort, healthCheck)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigCh:
		slog.Info("Shutdown signal received", "signal", sig)
	case err := <-errCh:
		slog.Error("Server error triggered shutdown", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
