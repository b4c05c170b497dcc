package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/madstone-tech/ducksearch/internal/api/middleware"
	"github.com/madstone-tech/ducksearch/internal/core/usecases"
)

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Host         string
	Port         int
	Root         string
	APIKey       string // Optional API key for authentication
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns a default server configuration.
func DefaultConfig() ServerConfig {
	return ServerConfig{
		Host:         "localhost",
		Port:         8080,
		Root:         ".",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
}

// Server is ducksearch's HTTP API server: GET /health and GET /report.
type Server struct {
	config     ServerConfig
	executor   *usecases.ExecuteReport
	httpServer *http.Server
	startTime  time.Time
}

// NewServer creates a new API server.
func NewServer(config ServerConfig, executor *usecases.ExecuteReport) *Server {
	return &Server{
		config:    config,
		executor:  executor,
		startTime: time.Now(),
	}
}

// Start starts the HTTP server and blocks until ctx is cancelled or the
// server fails to serve.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()

	h := NewHandlers(s.config.Root, s.executor)

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /report", h.GetReport)

	var handler http.Handler = mux

	if s.config.APIKey != "" {
		handler = middleware.Auth(s.config.APIKey)(handler)
	}

	handler = middleware.Logger(handler)
	handler = middleware.CORS(handler)
	handler = middleware.Recovery(handler)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.Host, s.config.Port),
		Handler:      handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown()
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}

// HealthResponse is the payload GET /health returns.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		Version: "0.1.0",
		Uptime:  time.Since(s.startTime).Round(time.Second).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
