package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sabio/pubchem-mcp-go/pkg/pubchem"
	mcpserver "github.com/sabio/pubchem-mcp-go/pkg/server"
)

var (
	transport = flag.String("transport", getEnv("MCP_TRANSPORT", "stdio"), "Transport mode: stdio or sse")
	host      = flag.String("host", getEnv("MCP_HOST", "0.0.0.0"), "Host to bind to (for SSE mode)")
	port      = flag.Int("port", getEnvInt("MCP_PORT", 8000), "Port to listen on (for SSE mode)")
)

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func setupEnvironment() (*pubchem.Client, error) {
	cfg := pubchem.DefaultConfig()
	cfg.BaseURL = getEnv("PUBCHEM_BASE_URL", cfg.BaseURL)
	cfg.CallsPerSecond = getEnvFloat("PUBCHEM_RATE_LIMIT", cfg.CallsPerSecond)
	cfg.CacheTTL = time.Duration(getEnvInt("PUBCHEM_CACHE_TTL", int(cfg.CacheTTL.Seconds()))) * time.Second
	cfg.Timeout = time.Duration(getEnvInt("PUBCHEM_TIMEOUT", int(cfg.Timeout.Seconds()))) * time.Second

	log.Println("PubChem configuration:")
	log.Printf("  API URL: %s", cfg.BaseURL)
	log.Printf("  Rate limit: %g requests/second", cfg.CallsPerSecond)
	log.Printf("  Cache TTL: %s", cfg.CacheTTL)
	log.Printf("  Request timeout: %s", cfg.Timeout)

	return pubchem.NewClient(cfg)
}

func runStdio(mcpServer *mcpserver.MCPServer) error {
	log.Println("Running server with stdio transport (default)")
	log.Println("This mode communicates through standard input/output")

	// Setup signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Println("Shutting down server...")
		cancel()
	}()

	stdioServer := server.NewStdioServer(mcpServer.GetServer())
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}

func runSSE(mcpServer *mcpserver.MCPServer, addr string) error {
	log.Printf("Running server with SSE transport at %s", addr)
	log.Printf("SSE endpoint: http://%s/sse", addr)

	sseServer := server.NewSSEServer(mcpServer.GetServer(), "/sse")

	// Setup graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Println("Shutting down server...")
		if err := sseServer.Shutdown(context.Background()); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	log.Printf("Server listening on %s", addr)
	if err := sseServer.Start(addr); err != nil {
		return err
	}

	return nil
}

func main() {
	// Optional .env for local development; environment variables win.
	_ = godotenv.Load()

	flag.Parse()

	log.Println("Starting PubChem MCP Server...")

	client, err := setupEnvironment()
	if err != nil {
		log.Fatalf("Failed to setup environment: %v", err)
	}

	// Create MCP server
	mcpServer := mcpserver.NewMCPServer(client)
	mcpServer.RegisterTools()

	// Run with selected transport
	addr := fmt.Sprintf("%s:%d", *host, *port)

	switch *transport {
	case "stdio":
		if err := runStdio(mcpServer); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case "sse":
		if err := runSSE(mcpServer, addr); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	default:
		log.Fatalf("Unknown transport mode: %s (must be stdio or sse)", *transport)
	}

	log.Println("Server stopped")
}
