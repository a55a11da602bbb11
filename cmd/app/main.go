package main

import (
	"flag"
	"log"
	"os"

	"github.com/NeuralG/coin-trading-ai/internal/di"
	"github.com/NeuralG/coin-trading-ai/pkg/config"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	// Load config
	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s symbols=%v interval=%s", cfg.Environment, cfg.MarketData.Symbols, cfg.MarketData.Interval)

	// Wire DI: Initialize all dependencies. A missing or invalid model
	// bundle fails here, before anything is scheduled or served.
	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	// Run application (blocks until signal)
	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
