package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/scrypster/showscout/internal/cache"
	"github.com/scrypster/showscout/internal/config"
	"github.com/scrypster/showscout/internal/llm"
	"github.com/scrypster/showscout/internal/research"
	"github.com/scrypster/showscout/internal/server"
	"github.com/scrypster/showscout/internal/tools"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (default: env only)")
	flag.Parse()

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadConfigFromFile(*configPath)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	store, err := cache.NewStore(cfg.Cache)
	if err != nil {
		log.Fatalf("Failed to initialize cache store: %v", err)
	}
	defer store.Close()

	model, err := llm.NewBackend(cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to initialize reasoning backend: %v", err)
	}
	quickModel, err := llm.NewQuickBackend(cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to initialize quick backend: %v", err)
	}

	registry := tools.NewRegistry(cfg.Search)
	if !registry.HasSearch() {
		log.Println("WARNING: no Serper API key configured, web search disabled")
	}

	exec := llm.NewExecutor(model, cfg.LLM)
	quickExec := llm.NewExecutor(quickModel, cfg.LLM)

	orchCfg := research.DefaultConfig()
	orchCfg.FieldTimeout = cfg.Research.FieldTimeout
	orch := research.New(exec, quickExec, registry, store, orchCfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr, err := server.Start(ctx, cfg, orch)
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
	log.Printf("ShowScout research API running at http://%s", addr)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down gracefully...")
	cancel()
	time.Sleep(1 * time.Second) // Give time for in-flight streams to close
}
