// Package app initializes and orchestrates the main components of the
// CodeSense application. It wires together the configuration, analyzer,
// GitHub client, job dispatcher, and HTTP server.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amrgaberM/codesense/internal/analyzer"
	"github.com/amrgaberM/codesense/internal/config"
	"github.com/amrgaberM/codesense/internal/core"
	"github.com/amrgaberM/codesense/internal/github"
	"github.com/amrgaberM/codesense/internal/jobs"
	"github.com/amrgaberM/codesense/internal/llm"
	"github.com/amrgaberM/codesense/internal/server"
)

// App holds the main application components.
type App struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Analyzer *analyzer.Analyzer

	server     *server.Server
	dispatcher core.JobDispatcher
}

// NewApp sets up the service with all its dependencies.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if err := cfg.ValidateForServer(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Info("initializing CodeSense",
		"model", cfg.GroqModel,
		"max_workers", cfg.MaxWorkers,
	)

	llmClient, err := llm.NewGroqClient(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}

	codeAnalyzer := analyzer.New(llmClient, logger, cfg.MaxWorkers)
	ghClient := github.NewPATClient(ctx, cfg.GitHubToken, logger)

	reviewJob := jobs.NewReviewJob(cfg, codeAnalyzer, ghClient, logger)
	dispatcher := jobs.NewDispatcher(reviewJob, cfg.MaxWorkers, logger)
	httpServer := server.NewServer(cfg, codeAnalyzer, dispatcher, logger)

	return &App{
		Cfg:        cfg,
		Logger:     logger,
		Analyzer:   codeAnalyzer,
		server:     httpServer,
		dispatcher: dispatcher,
	}, nil
}

// Start runs the HTTP server and blocks until shutdown or error.
func (a *App) Start() error {
	a.Logger.Info("starting CodeSense", "server_port", a.Cfg.ServerPort)
	return a.server.Start()
}

// Stop shuts down the application cleanly: the HTTP server first so no new
// requests arrive, then the dispatcher so in-flight reviews finish.
func (a *App) Stop() error {
	a.Logger.Info("shutting down CodeSense services")

	serverErr := a.server.Stop()
	if serverErr != nil {
		a.Logger.Error("error during HTTP server shutdown", "error", serverErr)
	}

	a.dispatcher.Stop()
	return serverErr
}
