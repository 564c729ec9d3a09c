package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cexll/trk/internal/config"
	"github.com/cexll/trk/internal/tracker"
)

func main() {
	// Load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[MCP Thread Server] Failed to load configuration: %v", err)
	}

	log.Println("[MCP Thread Server] Starting Tracker Thread MCP Server v1.0.0")
	log.Printf("[MCP Thread Server] Endpoint: %s", cfg.Endpoint)

	var auth tracker.AuthProvider
	if cfg.UseAppAuth() {
		auth = &tracker.AppAuth{AppID: cfg.AppID, PrivateKey: cfg.PrivateKey, TokenURL: cfg.TokenURL}
	} else {
		auth = &tracker.TokenAuth{Key: cfg.APIKey}
	}
	handler := NewHandler(tracker.NewClient(cfg.Endpoint, auth), cfg.EmbeddedCommentLimit)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "tracker-thread-server",
		Version: "v1.0.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_threads",
		Description: "List the comment threads on a tracker issue as an ordered tree",
	}, handler.HandleListThreads)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_comment",
		Description: "Add a comment to a tracker issue, optionally as a reply to an existing thread",
	}, handler.HandleAddComment)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "resolve_thread",
		Description: "Mark a tracker comment thread as resolved",
	}, handler.HandleResolveThread)
	log.Println("[MCP Thread Server] Registered tools: list_threads, add_comment, resolve_thread")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("[MCP Thread Server] Received shutdown signal")
		cancel()
	}()

	log.Println("[MCP Thread Server] Starting on stdio transport...")
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatalf("[MCP Thread Server] Server error: %v", err)
	}
	log.Println("[MCP Thread Server] Server stopped gracefully")
}
