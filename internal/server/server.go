// Package server composes the HTTP API and the MCP tool endpoint into one
// process handler.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/alexanderramin/tempo/internal/server/mcpapi"
)

const (
	defaultBindAddress     = "127.0.0.1:8420"
	defaultShutdownTimeout = 5 * time.Second
)

// Config defines serve-mode endpoint configuration.
type Config struct {
	Addr          string
	BasePath      string
	MCPPath       string
	ServerName    string
	ServerVersion string
	// Location interprets date-only query parameters.
	Location *time.Location
	Clock    func() time.Time
}

// NewHandler builds one router carrying health, the REST API and MCP.
func NewHandler(cfg Config, svcs Services, logger *slog.Logger) (http.Handler, Config, error) {
	cfg, err := normalizeConfig(cfg)
	if err != nil {
		return nil, Config{}, err
	}

	mcpHandler, err := mcpapi.NewHandler(mcpapi.Config{
		ServerName:    cfg.ServerName,
		ServerVersion: cfg.ServerVersion,
		EndpointPath:  cfg.MCPPath,
		Location:      cfg.Location,
		Clock:         cfg.Clock,
	}, mcpapi.Services{
		Scheduler: svcs.Scheduler,
		Weights:   svcs.Weights,
		Schedule:  svcs.Schedule,
		DayTypes:  svcs.DayTypes,
		Ops:       svcs.Ops,
	})
	if err != nil {
		return nil, Config{}, fmt.Errorf("configure mcp handler: %w", err)
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	if logger != nil {
		router.Use(accessLog(logger))
	}
	router.Get("/healthz", writeHealthStatus)
	router.Get("/readyz", writeHealthStatus)
	router.Handle(cfg.MCPPath, mcpHandler)
	mountAPI(router, apiConfig{
		BasePath: cfg.BasePath,
		Version:  cfg.ServerVersion,
		Location: cfg.Location,
		Clock:    cfg.Clock,
	}, svcs)
	return router, cfg, nil
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, cfg Config, svcs Services, logger *slog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	handler, cfg, err := NewHandler(cfg, svcs, logger)
	if err != nil {
		return fmt.Errorf("build server handler: %w", err)
	}
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErrCh := make(chan error, 1)
	go func() {
		serveErrCh <- httpServer.ListenAndServe()
	}()
	if logger != nil {
		logger.Info("serving", "addr", cfg.Addr, "api", cfg.BasePath, "mcp", cfg.MCPPath)
	}

	select {
	case err := <-serveErrCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen and serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()

		shutdownErr := httpServer.Shutdown(shutdownCtx)
		serveErr := <-serveErrCh
		if shutdownErr != nil && !errors.Is(shutdownErr, context.Canceled) {
			return fmt.Errorf("shutdown server: %w", shutdownErr)
		}
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			return fmt.Errorf("serve after shutdown: %w", serveErr)
		}
		return nil
	}
}

func accessLog(logger *slog.Logger) func(http.Handler) http.Handler {
	logger = logger.With("component", "http")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.DebugContext(r.Context(), "http_request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

func writeHealthStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func normalizeConfig(cfg Config) (Config, error) {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	if cfg.Addr == "" {
		cfg.Addr = defaultBindAddress
	}
	cfg.BasePath = normalizeEndpoint(cfg.BasePath, "/v1")
	cfg.MCPPath = normalizeEndpoint(cfg.MCPPath, "/mcp")
	if cfg.BasePath == cfg.MCPPath {
		return Config{}, fmt.Errorf("api and mcp endpoints must differ")
	}
	if strings.HasPrefix(cfg.MCPPath, cfg.BasePath+"/") {
		return Config{}, fmt.Errorf("mcp endpoint %q must not live under the api base path %q", cfg.MCPPath, cfg.BasePath)
	}
	cfg.ServerName = strings.TrimSpace(cfg.ServerName)
	if cfg.ServerName == "" {
		cfg.ServerName = "tempo"
	}
	cfg.ServerVersion = strings.TrimSpace(cfg.ServerVersion)
	if cfg.ServerVersion == "" {
		cfg.ServerVersion = "dev"
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return cfg, nil
}

func normalizeEndpoint(path, fallback string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return fallback
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	if path == "/" {
		return fallback
	}
	return path
}
