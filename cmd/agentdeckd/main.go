// agentdeckd is the HTTP API server for the observability and extension
// platform: trace ingestion, run/evaluation queries, the extension
// lifecycle manager, and the MCP-over-SSE tool surface.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/agentdeck/agentdeck/pkg/api"
	"github.com/agentdeck/agentdeck/pkg/database"
	"github.com/agentdeck/agentdeck/pkg/extensions"
	"github.com/agentdeck/agentdeck/pkg/mcpsurface"
	"github.com/agentdeck/agentdeck/pkg/services"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	httpPort := getEnv("HTTP_PORT", "8080")
	extensionsDir := getEnv("EXTENSIONS_DIR", "extensions")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbConfig, err := database.LoadConfigFromEnv()
	if err != nil {
		log.Fatalf("failed to load database config: %v", err)
	}

	dbClient, err := database.NewClient(ctx, dbConfig)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			log.Printf("error closing database client: %v", err)
		}
	}()
	log.Println("connected to PostgreSQL database")

	mounter := extensions.NewMounter()
	extMgr, err := extensions.NewManager(dbClient.Client, mounter, extensionsDir)
	if err != nil {
		log.Fatalf("failed to initialize extension manager: %v", err)
	}
	extStorage := extensions.NewStorage(dbClient.Client)

	ingestionService := services.NewIngestionService(dbClient.Client)
	runService := services.NewRunService(dbClient.Client)
	evaluationService := services.NewEvaluationService(dbClient.Client)
	auditService := services.NewAuditService(dbClient.Client)

	dispatcher := mcpsurface.NewDispatcher(ingestionService, runService)

	server := api.NewServer(
		dbClient,
		ingestionService,
		runService,
		evaluationService,
		auditService,
		extMgr,
		extStorage,
		mounter,
		dispatcher,
	)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("HTTP server listening on :%s", httpPort)
		if err := server.Start(":" + httpPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Println("shutdown signal received")
	case err := <-errCh:
		log.Fatalf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
