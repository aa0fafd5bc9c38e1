package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/researchd/internal/agent"
	"github.com/dgallion1/researchd/internal/api"
	"github.com/dgallion1/researchd/internal/config"
	"github.com/dgallion1/researchd/internal/deck"
	"github.com/dgallion1/researchd/internal/pipeline"
	"github.com/dgallion1/researchd/internal/report"
	"github.com/dgallion1/researchd/internal/search"
	"github.com/dgallion1/researchd/internal/wiki"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize clients.
	anthropic := agent.NewClient(cfg.AnthropicAPIKey)
	searcher := search.NewClient(cfg.SearchCacheTTL, log)
	wikipedia := wiki.NewClient(cfg.WikiCacheTTL, log)
	researcher := agent.New(anthropic, searcher, wikipedia, log)
	researcher.MaxToolRounds = cfg.MaxToolRounds

	// Initialize artifact writers.
	pdf := report.NewExporter(cfg.OutputDir)
	pdf.Author = cfg.Author
	decks := deck.NewGenerator(cfg.OutputDir, cfg.NodeDir, log)
	decks.Author = cfg.Author
	decks.Timeout = cfg.PPTXTimeout

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg.WorkerCount, cfg.MaxQueueSize, cfg.JobTTL, func() *pipeline.Worker {
		return pipeline.NewWorker(researcher, pdf, decks, cfg.ModelFor, log)
	}, log)
	orch.Start(ctx)

	// Initialize HTTP server.
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

		anthropic.Close()
	}()

	log.Info("starting researchd", "port", cfg.Port, "output_dir", cfg.OutputDir)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
