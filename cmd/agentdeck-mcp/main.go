// agentdeck-mcp is the stdio transport for the MCP tool surface: a
// thin process wrapper that lets an MCP-speaking agent client invoke
// ingest_trace, list_runs, and get_run over stdin/stdout.
package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/agentdeck/agentdeck/pkg/database"
	"github.com/agentdeck/agentdeck/pkg/mcpsurface"
	"github.com/agentdeck/agentdeck/pkg/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	ctx := context.Background()

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

	dispatcher := mcpsurface.NewDispatcher(
		services.NewIngestionService(dbClient.Client),
		services.NewRunService(dbClient.Client),
	)

	if err := mcpsurface.RunStdio(ctx, os.Stdin, os.Stdout, os.Stderr, dispatcher); err != nil {
		log.Fatalf("mcp stdio server exited with error: %v", err)
	}
}
