// Package http exposes the JSON API over the ledger and the insight engine.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"grana/internal/core"
	"grana/internal/ledger"
	"grana/internal/middleware/ratelimit"
	"grana/internal/middleware/security"
	"grana/internal/middleware/trace"
)

// Ledger is the write/read surface the API needs from the backend.
type Ledger interface {
	ledger.TransactionReader
	ledger.TransactionWriter
	ledger.ConfigStore
}

// Insights is the slice of the insight service the API exposes.
type Insights interface {
	HealthScore(ctx context.Context, now time.Time) (core.HealthScoreResult, error)
	Summary(ctx context.Context, now time.Time) (core.FinancialHealthSummary, error)
	PaceAlerts(ctx context.Context, now time.Time) ([]core.PaceAlert, error)
	Projection(ctx context.Context, now time.Time, horizon int) ([]core.ProjectionPoint, error)
	MonthOverview(ctx context.Context, month string) (core.MonthOverview, error)
	NetWorth(ctx context.Context) (core.Money, error)
}

// AdvisorContext renders the advisory text block.
type AdvisorContext interface {
	Build(ctx context.Context, now time.Time) (string, error)
}

// Options carries the server's collaborators. Advisor and RequestReport are
// optional; their endpoints answer 503 when absent.
type Options struct {
	Ledger        Ledger
	Insights      Insights
	Advisor       AdvisorContext
	RequestReport func(ctx context.Context, month string) error

	// DefaultHorizon is used when /api/projection gets no months parameter.
	DefaultHorizon int

	// Now overrides the clock, for tests. Defaults to time.Now.
	Now func() time.Time
}

type Server struct {
	http.Server

	ledger        Ledger
	insights      Insights
	advisor       AdvisorContext
	requestReport func(ctx context.Context, month string) error
	horizon       int
	now           func() time.Time

	detector     *security.Detector
	limiter      *ratelimit.Limiter
	headers      *security.HeadersMiddleware
	tracer       *trace.Middleware
	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(addr string, opts Options) *Server {
	s := &Server{
		ledger:        opts.Ledger,
		insights:      opts.Insights,
		advisor:       opts.Advisor,
		requestReport: opts.RequestReport,
		horizon:       opts.DefaultHorizon,
		now:           opts.Now,
	}
	if s.horizon <= 0 {
		s.horizon = core.DefaultProjectionHorizon
	}
	if s.now == nil {
		s.now = time.Now
	}

	s.detector = security.NewDetector()
	s.limiter = ratelimit.NewLimiter(ratelimit.DefaultConfig())
	s.headers = security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	s.tracer = trace.NewMiddleware(s.detector.ExtractClientIP, nil)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.tracer.Middleware(s.headers.Middleware(s.withScreening(s.withRateLimit(s.routes())))),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /api/health", s.handleHealth)

	mux.HandleFunc("GET /api/score", s.handleScore)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/alerts", s.handleAlerts)
	mux.HandleFunc("GET /api/projection", s.handleProjection)
	mux.HandleFunc("GET /api/networth", s.handleNetWorth)
	mux.HandleFunc("GET /api/overview", s.handleOverview)
	mux.HandleFunc("GET /api/advisor/context", s.handleAdvisorContext)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/config", s.handleGetConfig)
	mux.HandleFunc("PUT /api/config", s.handlePutConfig)

	mux.HandleFunc("POST /api/reports/{month}", s.handleRequestReport)

	return mux
}

// withScreening counts suspicious requests without blocking them; the
// detector's heuristics are too coarse to reject on.
func (s *Server) withScreening(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.detector.DetectSuspiciousRequest(r)
		next.ServeHTTP(w, r)
	})
}

// withRateLimit throttles mutating requests per client IP.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
			if !s.limiter.Allow(s.detector.ExtractClientIP(r)) {
				w.Header().Set("Retry-After", "60")
				writeError(w, http.StatusTooManyRequests, "Limite de requisições excedido")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	// Readiness means the ledger answers; an empty ledger is still ready.
	if _, err := s.ledger.ListTransactions(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "armazenamento indisponível")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// Shutdown stops the background goroutines and the HTTP listener.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
