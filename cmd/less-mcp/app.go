package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/chuva-io/less-mcp/internal/version"
	"github.com/chuva-io/less-mcp/pkg/config"
	"github.com/chuva-io/less-mcp/pkg/less"
	"github.com/chuva-io/less-mcp/pkg/logger"
	"github.com/chuva-io/less-mcp/pkg/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

// App owns everything a running server needs. It is built once by NewApp
// and torn down when Run returns.
type App struct {
	cfg      *config.Config
	mcp      *server.MCPServer
	registry *prometheus.Registry
	tools    []string
}

// NewApp builds the MCP server and registers the configured tools.
func NewApp(cfg *config.Config) (*App, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder, err := metrics.NewRecorder(registry)
	if err != nil {
		return nil, fmt.Errorf("error registering metrics: %w", err)
	}

	s := server.NewMCPServer(
		version.Name,
		version.Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	dispatcher := less.NewDispatcher(cfg.DispatcherOptions(), recorder)
	tools := less.RegisterLessTools(s, dispatcher, cfg.Tools)

	return &App{
		cfg:      cfg,
		mcp:      s,
		registry: registry,
		tools:    tools,
	}, nil
}

// Tools returns the names of the registered tools.
func (a *App) Tools() []string {
	return a.tools
}

// Run serves on the configured transport until ctx is cancelled or, for
// stdio, the input stream ends.
func (a *App) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	if a.cfg.Transport == config.TransportSSE {
		return a.serveSSE(ctx)
	}
	return a.serveStdio(ctx, in, out)
}

func (a *App) serveStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	logger.Get().Info("Running Less MCP server on stdio", "tools", len(a.tools))
	stdioServer := server.NewStdioServer(a.mcp)
	if err := stdioServer.Listen(ctx, in, out); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server stopped: %w", err)
	}
	return nil
}

func (a *App) serveSSE(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}
	sseServer := server.NewSSEServer(a.mcp, server.WithHTTPServer(httpServer))
	httpServer.Handler = a.Router(sseServer)

	errCh := make(chan error, 1)
	go func() {
		logger.Get().Info("Running Less MCP server", "addr", httpServer.Addr, "tools", len(a.tools))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := sseServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server gracefully: %w", err)
	}
	logger.Get().Info("SSE server closed gracefully.")
	return nil
}

// Router mounts the SSE transport next to the health and metrics endpoints.
func (a *App) Router(sse http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", a.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	r.Handle("/sse", sse)
	r.Handle("/message", sse)
	return r
}

func (a *App) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"version": version.Version,
		"tools":   len(a.tools),
	})
}
