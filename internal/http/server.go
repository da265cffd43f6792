package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"finsight/internal/assistant"
	"finsight/internal/bank"
	"finsight/internal/core"
	"finsight/internal/feed"
	"finsight/internal/log"
)

// SummaryProvider supplies the aggregated dashboard data.
type SummaryProvider interface {
	Summary(ctx context.Context, w core.Window, ref core.Date) (core.FinancialSummary, error)
}

// ChatService is the slice of the assistant the API exposes.
type ChatService interface {
	NewSession() string
	History(sessionID string) []assistant.ChatMessage
	Ask(ctx context.Context, sessionID, message string, w core.Window, ref core.Date) assistant.ChatMessage
}

// Exporter accepts statement export requests for the async pipeline.
type Exporter interface {
	RequestExport(ctx context.Context, year, month int) error
}

// Deps wires the server's collaborators. Exporter may be nil when the
// export pipeline is not configured; the endpoint then reports 503.
type Deps struct {
	Summaries  SummaryProvider
	Chat       ChatService
	Reader     bank.StatementReader
	Exporter   Exporter
	Feed       *feed.Store
	DefaultRef func() core.Date
	Logger     *log.Logger
}

type Server struct {
	http.Server
	summaries   SummaryProvider
	chat        ChatService
	reader      bank.StatementReader
	exporter    Exporter
	feed        *feed.Store
	defaultRef  func() core.Date
	logger      *log.Logger
	rateLimiter *rateLimiter

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	defaultRef := deps.DefaultRef
	if defaultRef == nil {
		defaultRef = func() core.Date { return core.DateOf(time.Now()) }
	}

	s := &Server{
		summaries:   deps.Summaries,
		chat:        deps.Chat,
		reader:      deps.Reader,
		exporter:    deps.Exporter,
		feed:        deps.Feed,
		defaultRef:  defaultRef,
		logger:      logger.WithComponent(log.ComponentHTTP),
		rateLimiter: newRateLimiter(),
	}

	r := chi.NewRouter()
	r.Use(s.withObservability)

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Get("/summary", s.handleSummary)
		r.Get("/charts/balance", s.handleBalanceChart)
		r.Get("/charts/categories", s.handleCategoryChart)
		r.Get("/merchants/top", s.handleTopMerchants)
		r.Get("/transactions", s.handleTransactions)
		r.Post("/chat", s.handleChat)
		r.Post("/export", s.handleExport)

		r.Route("/feed", func(r chi.Router) {
			r.Get("/posts", s.handleFeedPosts)
			r.Post("/posts/{id}/vote", s.handleFeedVote)
			r.Get("/communities", s.handleFeedCommunities)
			r.Post("/communities/{id}/membership", s.handleFeedMembership)
		})
	})

	s.Server = http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withObservability adds request-ID tracing, security headers, rate
// limiting on POST requests, and request logging.
func (s *Server) withObservability(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		s.logger.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			s.logger.WarnContext(ctx, "Rate limit exceeded",
				"client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		s.logger.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", clientIP)
	})
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.reader != nil {
		if _, err := s.reader.ReadStatement(r.Context()); err != nil {
			s.logger.WarnContext(r.Context(), "Readiness check failed", "error", err)
			writeError(w, http.StatusServiceUnavailable, "statement store not ready")
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
