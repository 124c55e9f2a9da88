package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/interview-feedback/internal/config"
	"github.com/jonathan/interview-feedback/internal/editor"
	"github.com/jonathan/interview-feedback/internal/server/middleware"
	"github.com/jonathan/interview-feedback/internal/server/ratelimit"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	router      chi.Router
	editor      *editor.Service
	logger      *zap.Logger
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	validate    *validator.Validate
}

// Rate limit of unlisted endpoints when Config leaves it unset.
const (
	defaultRateLimit = 10
	defaultRateBurst = 20
)

// Config holds server configuration
type Config struct {
	Port           int
	AllowedOrigins []string
	RateLimit      float64 // Requests per second per client on unlisted endpoints
	RateBurst      int
	JWT            *config.JWTConfig // Nil leaves the session routes open
}

// New creates a new server instance
func New(cfg Config, svc *editor.Service, logger *zap.Logger) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("server: editor service is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.RateLimit <= 0 {
		cfg.RateLimit = defaultRateLimit
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = defaultRateBurst
	}

	s := &Server{
		editor:      svc,
		logger:      logger,
		rateLimiter: ratelimit.NewLimiter(ratelimit.LoadConfig(cfg.RateLimit, cfg.RateBurst)),
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
	if cfg.JWT != nil {
		s.jwtService = NewJWTService(cfg.JWT)
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(s.withRateLimit)

	r.Get("/health", s.handleHealth)
	r.Post("/convert/ordered", s.handleConvertOrdered)
	r.Post("/convert/plain", s.handleConvertPlain)
	r.Post("/validate/{kind}", s.handleValidate)

	r.Group(func(r chi.Router) {
		if s.jwtService != nil {
			r.Use(middleware.AuthMiddleware(s.jwtService.AsTokenValidator()))
		}
		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)

			r.Post("/upload", s.handleUpload)
			r.Post("/feedback", s.handleLoadFeedback)
			r.Post("/report", s.handleGenerateReport)
			r.Post("/report/stream", s.handleGenerateReportStream)
			r.Post("/evidence", s.handleLoadEvidence)
			r.Post("/path", s.handleChoosePath)
			r.Put("/tab", s.handleSelectTab)
			r.Post("/wizard", s.handleWizard)
			r.Post("/edits", s.handleEdit)
			r.Post("/sections/{section}/items/{item}/generate", s.handleRegenerateItem)
			r.Post("/sections/{section}/sort", s.handleSortEvidence)
			r.Post("/next-steps/generate", s.handleGenerateNextSteps)
			r.Get("/export", s.handleExport)
			r.Post("/import", s.handleImport)

			r.Post("/snapshots", s.handleSaveSnapshot)
			r.Get("/snapshots", s.handleSnapshotHistory)
			r.Post("/snapshots/latest", s.handleLoadLatestSnapshot)
			r.Post("/snapshots/{snapshot}/load", s.handleLoadSnapshot)
			r.Put("/snapshots/{snapshot}/current", s.handleSetCurrentSnapshot)
			r.Delete("/snapshots/{snapshot}", s.handleDeleteSnapshot)
		})
	})
	s.router = r

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Report generation can be slow
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully and
// flushes every open session.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		s.Stop()
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.editor.Close(shutdownCtx)
	s.Stop()
	s.logger.Info("Server stopped")
	return nil
}

// Stop releases the rate limiter's cleanup goroutine.
func (s *Server) Stop() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// extractClientID uses the IP address from RemoteAddr.
func extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}
	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Round(time.Second) / time.Second)
		if seconds < 1 {
			seconds = 1
		}
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.logger.Warn("Rate limit exceeded",
		zap.String("client", extractClientID(r)),
		zap.String("path", r.URL.Path),
		zap.Int("limit", info.Limit))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
