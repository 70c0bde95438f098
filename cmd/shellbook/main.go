package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/shellbook-mcp/internal/config"
	"github.com/dshills/shellbook-mcp/internal/mcp"
	"github.com/dshills/shellbook-mcp/internal/storage"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("Shellbook MCP Server\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		fmt.Printf("Build Mode: %s\n", storage.BuildMode)
		fmt.Printf("SQLite Driver: %s\n", storage.DriverName)
		os.Exit(0)
	}

	// Log startup info to stderr (stdout reserved for MCP protocol)
	log.SetOutput(os.Stderr)
	log.Printf("Shellbook MCP Server v%s starting...", version)
	log.Printf("Build Mode: %s, Driver: %s", storage.BuildMode, storage.DriverName)

	// Settings are re-read whenever the config file changes
	cfg, err := config.NewFileProvider(config.DefaultConfigPath())
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	log.Printf("Config: %s", cfg.Path())

	settings, err := cfg.Settings()
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}

	// Create MCP server
	server, err := mcp.NewServer(settings.DBPath, cfg, log.Default())
	if err != nil {
		log.Fatalf("Failed to create MCP server: %v", err)
	}

	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in a goroutine
	errChan := make(chan error, 1)
	go func() {
		log.Println("MCP server ready, listening on stdio...")
		errChan <- server.Serve(ctx)
	}()

	// Wait for shutdown signal or error
	select {
	case sig := <-sigChan:
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
		// Serve closes the index once the listener returns
		if err := <-errChan; err != nil && err != context.Canceled {
			log.Printf("Server error during shutdown: %v", err)
		}
	case err := <-errChan:
		if err != nil && err != context.Canceled {
			log.Fatalf("Server error: %v", err)
		}
	}

	log.Println("Server stopped")
}
