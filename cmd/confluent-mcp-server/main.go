// Copyright 2024 OnChain Media Corporation
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/onchain-media/confluent-mcp-server/internal/confluent"
	"github.com/onchain-media/confluent-mcp-server/internal/mcp"
	"github.com/onchain-media/confluent-mcp-server/pkg/config"
)

var (
	version   = "0.1.0"
	buildTime = "unknown"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to configuration file")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("confluent-mcp-server version %s (built %s)\n", version, buildTime)
		os.Exit(0)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Shutdown signal received, closing connections...")
		cancel()
	}()

	// Initialize Confluent Cloud client
	client, err := confluent.NewClient(cfg)
	if err != nil {
		log.Fatalf("Failed to create Confluent Cloud client: %v", err)
	}

	log.Printf("Confluent Cloud client ready (role: %s)", cfg.Role)

	// Create and run MCP server
	server := mcp.NewServer(client, cfg)
	if err := server.Run(ctx); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
}
