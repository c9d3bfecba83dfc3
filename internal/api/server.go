// Package api provides a read-only HTTP API over stored runs.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/talgya/groupsim/internal/chart"
	"github.com/talgya/groupsim/internal/persistence"
)

// Server serves stored runs over HTTP.
type Server struct {
	DB   *persistence.DB
	Port int

	// Chart rendering is the only costly endpoint; it is rate limited per client.
	ChartLimit  int
	ChartWindow time.Duration
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	limit, window := s.ChartLimit, s.ChartWindow
	if limit <= 0 {
		limit = 60
	}
	if window <= 0 {
		window = time.Minute
	}
	chartLimiter := NewRateLimiter(limit, window)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/runs", s.handleRuns)
	mux.HandleFunc("/api/v1/run/", s.handleRunRoutes(chartLimiter))
	return corsMiddleware(mux)
}

// ListenAndServe serves the API until the listener fails.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS to a comma-separated list of extra allowed origins.
// Localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 1000 {
			limit = v
		}
	}
	runs, err := s.DB.ListRuns(limit)
	if err != nil {
		slog.Error("list runs failed", "error", err)
		http.Error(w, "query failed", http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []persistence.RunRow{}
	}
	writeJSON(w, runs)
}

// handleRunRoutes dispatches /api/v1/run/:id[/series|/ticks|/chart.png].
func (s *Server) handleRunRoutes(chartLimiter *RateLimiter) http.HandlerFunc {
	chartHandler := RateLimitMiddleware(chartLimiter, s.handleChart)

	return func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/v1/run/"), "/")
		id := parts[0]
		if id == "" {
			http.Error(w, "missing run id", http.StatusBadRequest)
			return
		}

		sub := ""
		if len(parts) > 1 {
			sub = parts[1]
		}
		switch sub {
		case "":
			s.handleRun(w, id)
		case "series":
			s.handleSeries(w, id)
		case "ticks":
			s.handleTicks(w, id)
		case "chart.png":
			chartHandler(w, r)
		default:
			http.NotFound(w, r)
		}
	}
}

func (s *Server) handleRun(w http.ResponseWriter, id string) {
	run, err := s.DB.LoadRun(id)
	if err != nil {
		writeLoadError(w, err)
		return
	}
	cfg, err := run.Config()
	if err != nil {
		slog.Error("decode run config failed", "id", id, "error", err)
		http.Error(w, "corrupt run", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{
		"run":    run,
		"config": cfg,
	})
}

func (s *Server) handleSeries(w http.ResponseWriter, id string) {
	series, err := s.DB.LoadSeries(id)
	if err != nil {
		writeLoadError(w, err)
		return
	}
	writeJSON(w, series)
}

func (s *Server) handleTicks(w http.ResponseWriter, id string) {
	rows, err := s.DB.LoadTickReports(id)
	if err != nil {
		writeLoadError(w, err)
		return
	}
	writeJSON(w, rows)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	id := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/v1/run/"), "/")[0]
	series, err := s.DB.LoadSeries(id)
	if err != nil {
		writeLoadError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := chart.Render(w, "Contributors", chart.Line{Name: id, Samples: series}); err != nil {
		slog.Error("chart render failed", "id", id, "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
	}
}

func writeLoadError(w http.ResponseWriter, err error) {
	if errors.Is(err, persistence.ErrRunNotFound) {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}
	slog.Error("run query failed", "error", err)
	http.Error(w, "query failed", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
