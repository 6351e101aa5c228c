// Package api serves a read-only HTTP view over an analyzed table and its
// rendered reports.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/IshaanNene/forumpulse/internal/analysis"
	"github.com/IshaanNene/forumpulse/internal/config"
	"github.com/IshaanNene/forumpulse/internal/observability"
	"github.com/IshaanNene/forumpulse/internal/types"
)

// Dataset is the analyzed table the server exposes.
type Dataset struct {
	Items []*types.AnalyzedItem
	Stats *analysis.Stats
	// Source names the file the items were loaded from.
	Source string
}

// Server provides the REST view.
type Server struct {
	mux       *http.ServeMux
	port      int
	data      Dataset
	reportDir string
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// Post is the JSON shape of one analyzed row.
type Post struct {
	ID            string  `json:"id,omitempty"`
	Subreddit     string  `json:"subreddit"`
	Title         string  `json:"title"`
	Votes         *string `json:"votes"`
	Comments      *string `json:"comments"`
	PostTime      *string `json:"post_time"`
	CleanTitle    string  `json:"clean_title"`
	Polarity      float64 `json:"polarity"`
	Subjectivity  float64 `json:"subjectivity"`
	VaderPolarity float64 `json:"vader_polarity"`
}

// NewServer creates a new API server.
func NewServer(port int, data Dataset, reportDir string, metrics *observability.Metrics, logger *slog.Logger) *Server {
	s := &Server{
		mux:       http.NewServeMux(),
		port:      port,
		data:      data,
		reportDir: reportDir,
		metrics:   metrics,
		logger:    logger.With("component", "api_server"),
	}

	s.registerRoutes()
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler { return s.mux }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("API server starting", "addr", srv.Addr, "items", len(s.data.Items))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		s.logger.Info("API server stopped")
		return nil
	}
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/items", s.handleItems)
	s.mux.HandleFunc("GET /api/groups", s.handleGroups)
	s.mux.HandleFunc("GET /api/stats", s.handleStats)

	if s.reportDir != "" {
		s.mux.Handle("GET /reports/", http.StripPrefix("/reports/", http.FileServer(http.Dir(s.reportDir))))
	}
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": config.Version,
		"items":   len(s.data.Items),
	})
}

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	group := q.Get("group")

	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	posts := make([]Post, 0)
	for _, it := range s.data.Items {
		if group != "" && it.Group != group {
			continue
		}
		posts = append(posts, toPost(it))
		if limit > 0 && len(posts) == limit {
			break
		}
	}
	s.jsonResponse(w, http.StatusOK, posts)
}

func (s *Server) handleGroups(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, analysis.GroupFrequencies(s.data.Items))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.data.Stats == nil {
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"error": "statistics not available"})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"source": s.data.Source,
		"stats":  s.data.Stats,
	})
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("encode response", "error", err)
	}
}

func toPost(it *types.AnalyzedItem) Post {
	return Post{
		ID:            it.ID,
		Subreddit:     it.Group,
		Title:         it.Title,
		Votes:         fieldPtr(it.Votes),
		Comments:      fieldPtr(it.Comments),
		PostTime:      fieldPtr(it.PostTime),
		CleanTitle:    it.CleanTitle,
		Polarity:      it.Polarity,
		Subjectivity:  it.Subjectivity,
		VaderPolarity: it.VaderPolarity,
	}
}

func fieldPtr(f types.Field) *string {
	v, ok := f.Value()
	if !ok {
		return nil
	}
	return &v
}
