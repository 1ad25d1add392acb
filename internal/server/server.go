// Package server provides HTTP server initialization and lifecycle management
// for the ShowScout research API.
package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/scrypster/showscout/internal/config"
)

// Start initializes and starts the HTTP server.
// Returns the actual address being listened on (useful for testing with port 0).
func Start(ctx context.Context, cfg *config.Config, research Researcher) (string, error) {
	mux := http.NewServeMux()

	handler := NewResearchHandler(research, wsOriginPatterns(cfg.Server.CORSOrigins))
	mux.HandleFunc("/api/research", handler.ServeSSE)
	mux.HandleFunc("/api/research/ws", handler.ServeWS)

	// Health endpoint, used by the frontend and monitoring.
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	rateLimiter := NewRateLimiter(float64(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)
	wrapped := RateLimitMiddleware(mux, rateLimiter)
	wrapped = corsMiddleware(wrapped, cfg.Server.CORSOrigins)
	wrapped = securityHeadersMiddleware(wrapped)

	// No WriteTimeout: research streams legitimately stay open for minutes.
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:        addr,
		Handler:     wrapped,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	actualAddr := listener.Addr().String()

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Printf("server error: %v", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("server shutdown error: %v", err)
		}
	}()

	return actualAddr, nil
}

// wsOriginPatterns strips schemes from the CORS origins so they can double as
// websocket origin patterns, which match on host only.
func wsOriginPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, o := range origins {
		for _, prefix := range []string{"https://", "http://"} {
			if len(o) > len(prefix) && o[:len(prefix)] == prefix {
				o = o[len(prefix):]
				break
			}
		}
		patterns = append(patterns, o)
	}
	return patterns
}
