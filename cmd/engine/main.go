package main

import (
	"flag"
	"log"
	"os"

	"SigFlow/internal/di"
	"SigFlow/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s bus=%s topic=%s symbol=%s", cfg.Environment, cfg.Bus.Backend, cfg.Bus.Topic, cfg.Engine.Symbol)

	app, err := di.InitializeEngine(cfg)
	if err != nil {
		log.Fatalf("engine initialization failed: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Printf("engine error: %v", err)
		os.Exit(1)
	}
}
