package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tagrag/internal/api"
	"tagrag/internal/config"
	"tagrag/internal/mdparse"
	"tagrag/internal/pipeline"
	"tagrag/internal/store"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Optional .env for local development; missing file is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	opts, err := cfg.ParserOptions()
	if err != nil {
		log.Error("invalid parser options", "error", err)
		os.Exit(1)
	}
	parser, err := mdparse.New(opts)
	if err != nil {
		log.Error("failed to build parser", "error", err)
		os.Exit(1)
	}

	writer, err := store.NewWriter(cfg.OutputDir)
	if err != nil {
		log.Error("failed to open output directory", "error", err)
		os.Exit(1)
	}

	// Vector indexing is optional: without an embedding key, ingestion
	// still parses and serializes but skips the index phase.
	var vectors *store.VectorStore
	if cfg.EmbeddingAPIKey != "" {
		vectors, err = store.NewVectorStore(store.VectorOptions{
			PersistPath: cfg.ChromaPersistPath,
			Collection:  cfg.ChromaCollection,
			APIBase:     cfg.EmbeddingAPIBase,
			APIKey:      cfg.EmbeddingAPIKey,
			Model:       cfg.EmbeddingModel,
		})
		if err != nil {
			log.Error("failed to open vector store", "error", err)
			os.Exit(1)
		}
	} else {
		log.Warn("EMBEDDING_API_KEY not set, vector indexing disabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	orch := pipeline.NewOrchestrator(cfg, parser, writer, vectors, log)
	orch.Start(ctx)

	srv := api.NewServer(orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting tagrag", "port", cfg.Port, "workers", cfg.WorkerCount)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
