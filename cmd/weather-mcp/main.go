// Command weather-mcp serves the gateway's tools over the Model Context
// Protocol on stdio, for agent frameworks that speak MCP directly.
package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/agrofleet/weather-gateway/internal/config"
	"github.com/agrofleet/weather-gateway/internal/mcpserver"
	"github.com/agrofleet/weather-gateway/internal/openmeteo"
	"github.com/agrofleet/weather-gateway/internal/weather"
)

const version = "v1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	client := openmeteo.NewClient(httpClient, cfg.Upstream())
	service := weather.NewService(client, cfg.AgroProfile())
	server := mcpserver.New(service, version)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatalf("mcp server stopped: %v", err)
	}
}
