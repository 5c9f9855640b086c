package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/agenthands/topicscan/internal/config"
	"github.com/agenthands/topicscan/internal/llm"
	"github.com/agenthands/topicscan/internal/logger"
	"github.com/agenthands/topicscan/internal/server"
	"github.com/agenthands/topicscan/internal/triage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found, using environment")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	client, err := llm.NewFromConfig(context.Background(), cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize LLM client", zap.Error(err))
	}

	pipeline := triage.NewPipeline(client, cfg, log)
	srv := server.NewServer(pipeline, cfg.Corpus, log)
	r := srv.SetupRouter()

	log.Info("Starting server", zap.String("port", cfg.Server.Port), zap.String("provider", cfg.LLM.Provider))
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal("Server stopped", zap.Error(err))
	}
}
