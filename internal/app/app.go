// Copyright 2026 © The Stratus Authors
// SPDX-License-Identifier: Apache-2.0

// Package app wires together all Stratus components.
// This is the "composition root" - all dependencies are created and connected here.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/stratus-agent/stratus/internal/agent"
	"github.com/stratus-agent/stratus/internal/agentcard"
	"github.com/stratus-agent/stratus/internal/config"
	"github.com/stratus-agent/stratus/internal/llm"
	"github.com/stratus-agent/stratus/internal/mcpserver"
	"github.com/stratus-agent/stratus/internal/protocol"
	"github.com/stratus-agent/stratus/internal/telemetry"
	"github.com/stratus-agent/stratus/internal/weather"
)

// Version is the agent version advertised in the card.
const Version = "1.0.0"

// App holds the application state and components.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
}

// New creates a new application with all components wired.
func New(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := telemetry.ConfigureSlog(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	return &App{cfg: cfg, logger: logger}, nil
}

// Run starts the RPC server and blocks until ctx is cancelled or the
// listener fails.
func (a *App) Run(ctx context.Context) error {
	shutdown, err := telemetry.Init("stratus", Version, telemetry.Config{
		Exporter:     a.cfg.Telemetry.Exporter,
		OTLPEndpoint: a.cfg.Telemetry.OTLPEndpoint,
		OTLPInsecure: a.cfg.Telemetry.OTLPInsecure,
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer shutdown(context.Background())

	weatherClient, err := weather.NewClient(a.cfg.Weather.APIKey,
		weather.WithBaseURL(a.cfg.Weather.BaseURL),
		weather.WithGeoURL(a.cfg.Weather.GeoURL),
		weather.WithUnits(a.cfg.Weather.Units),
	)
	if err != nil {
		return fmt.Errorf("create weather client: %w", err)
	}

	provider, err := a.createLLMProvider(ctx)
	if err != nil {
		return fmt.Errorf("create llm provider: %w", err)
	}

	weatherAgent := agent.New(weatherClient, provider, a.cfg.LLM.Model)

	metrics, err := telemetry.NewRequestMetrics()
	if err != nil {
		return fmt.Errorf("create metrics: %w", err)
	}

	executor := agent.NewExecutor(weatherAgent,
		agent.WithLogger(a.logger),
		agent.WithMetrics(metrics),
	)

	handler := protocol.NewHandler(executor,
		protocol.WithStore(protocol.NewTaskStore()),
		protocol.WithLogger(a.logger),
		protocol.WithMetrics(metrics),
		protocol.WithAuthToken(a.cfg.Server.AuthToken),
	)

	card, err := agentcard.New(a.cfg.CardURL(), Version)
	if err != nil {
		return fmt.Errorf("build agent card: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("POST /", handler)
	mux.Handle("GET /.well-known/agent.json", card.Handler())
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok", "agent": card.Name})
	})

	srv := &http.Server{
		Addr:              a.cfg.ListenAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var mcpSrv *mcpserver.Server
	if a.cfg.MCP.Enabled {
		mcpSrv = mcpserver.New(weatherAgent, "stratus-weather", Version, a.logger)
		go func() {
			if err := mcpSrv.Start(a.cfg.MCP.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("mcp server failed", "error", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("agent listening",
			"addr", srv.Addr,
			"card_url", card.URL,
			"llm_provider", a.cfg.LLM.Provider,
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if mcpSrv != nil {
			_ = mcpSrv.Shutdown(shutdownCtx)
		}
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (a *App) createLLMProvider(ctx context.Context) (llm.Provider, error) {
	switch a.cfg.LLM.Provider {
	case "gemini":
		return llm.NewGemini(ctx, a.cfg.LLM.APIKey, a.cfg.LLM.Model)
	case "ollama":
		return llm.NewOllama(a.cfg.LLM.BaseURL), nil
	case "mock":
		return &llm.MockProvider{Response: "Mock response from the weather agent"}, nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", a.cfg.LLM.Provider)
	}
}
