// Package http exposes the JSON API: authentication, reference data,
// bookkeeping entries, reports and reimbursement signals.
package http

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"praktijk/internal/auth"
	"praktijk/internal/cache"
	"praktijk/internal/export"
	"praktijk/internal/files"
	"praktijk/internal/metrics"
	"praktijk/internal/middleware/ratelimit"
	"praktijk/internal/middleware/security"
	"praktijk/internal/middleware/trace"
	"praktijk/internal/services"
	"praktijk/internal/storage"
)

// signalCacheTTL bounds how stale a cached signal evaluation can get even
// without write invalidation.
const signalCacheTTL = 15 * time.Minute

type Server struct {
	http.Server

	repo     *storage.Repository
	auth     *auth.Manager
	booking  *services.BookingService
	signals  *services.SignalService
	exporter *export.Exporter
	docs     *files.Store

	signalCache  *cache.SignalCache
	cacheManager *cache.Manager
	limiter      *ratelimit.Limiter
}

// Options carries the server's dependencies.
type Options struct {
	Addr           string
	Repo           *storage.Repository
	Auth           *auth.Manager
	Booking        *services.BookingService
	Signals        *services.SignalService
	Exporter       *export.Exporter
	Docs           *files.Store
	MetricsEnabled bool
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(opts Options) *Server {
	mux := http.NewServeMux()

	s := &Server{
		repo:        opts.Repo,
		auth:        opts.Auth,
		booking:     opts.Booking,
		signals:     opts.Signals,
		exporter:    opts.Exporter,
		docs:        opts.Docs,
		signalCache: cache.NewSignalCache(256, signalCacheTTL),
		limiter:     ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}

	s.cacheManager = cache.NewManager()
	s.cacheManager.Register(s.signalCache)
	s.cacheManager.StartCleanup(time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	if opts.MetricsEnabled {
		mux.Handle("GET /metrics", metrics.Handler())
	}

	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("GET /api/verify-token", s.requireAuth(s.handleVerifyToken))

	mux.HandleFunc("GET /api/consulttypes", s.requireAuth(s.handleListConsultTypes))
	mux.HandleFunc("POST /api/consulttypes", s.requireAuth(s.handleCreateConsultType))
	mux.HandleFunc("PUT /api/consulttypes/{id}", s.requireAuth(s.handleUpdateConsultType))

	mux.HandleFunc("GET /api/mutualiteiten", s.requireAuth(s.handleListFunds))
	mux.HandleFunc("POST /api/mutualiteiten", s.requireAuth(s.handleCreateFund))
	mux.HandleFunc("PUT /api/mutualiteiten/{id}", s.requireAuth(s.handleUpdateFund))

	mux.HandleFunc("GET /api/categorieen", s.requireAuth(s.handleListCategories))
	mux.HandleFunc("POST /api/categorieen", s.requireAuth(s.handleCreateCategory))
	mux.HandleFunc("PUT /api/categorieen/{id}", s.requireAuth(s.handleUpdateCategory))

	mux.HandleFunc("GET /api/klanten", s.requireAuth(s.handleListClients))
	mux.HandleFunc("POST /api/klanten", s.requireAuth(s.handleCreateClient))
	mux.HandleFunc("PUT /api/klanten/{id}", s.requireAuth(s.handleUpdateClient))

	mux.HandleFunc("GET /api/afspraken", s.requireAuth(s.handleListAppointments))
	mux.HandleFunc("POST /api/afspraken", s.requireAuth(s.handleCreateAppointment))
	mux.HandleFunc("GET /api/afspraken/{id}/document", s.requireAuth(s.handleGetDocument))

	mux.HandleFunc("GET /api/uitgaven", s.requireAuth(s.handleListExpenses))
	mux.HandleFunc("POST /api/uitgaven", s.requireAuth(s.handleCreateExpense))

	mux.HandleFunc("GET /api/dashboard", s.requireAuth(s.handleDashboard))
	mux.HandleFunc("GET /api/maandoverzicht", s.requireAuth(s.handleMonthOverview))
	mux.HandleFunc("GET /api/terugbetaling-signalen", s.requireAuth(s.handleSignals))
	mux.HandleFunc("GET /api/export", s.requireAuth(s.handleExport))

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(clientIP)
	limited := s.limiter.Middleware(clientIP, nil)

	handler := tracer.Middleware(headers.Middleware(limited(mux)))

	s.Server = http.Server{
		Addr:           opts.Addr,
		Handler:        handler,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	return s
}

// Shutdown stops background workers before draining connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	s.cacheManager.Stop()
	return s.Server.Shutdown(ctx)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.Ping(r.Context()); err != nil {
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// clientIP extracts the caller's IP, preferring proxy headers.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.Index(fwd, ","); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
