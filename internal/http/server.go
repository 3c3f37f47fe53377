// Package http exposes the JSON API: authentication, categories, income
// sources, transactions, and reports.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"tally/internal/auth"
	"tally/internal/log"
	"tally/internal/middleware/ratelimit"
	"tally/internal/middleware/security"
	"tally/internal/middleware/trace"
	"tally/internal/services"
	"tally/internal/storage"
)

// Options configures a Server.
type Options struct {
	Addr   string
	Repo   *storage.SQLiteRepository
	Tokens *auth.TokenIssuer
	Logger *log.Logger

	// SecureCookies marks the session cookie Secure; enabled in production.
	SecureCookies bool
	BcryptCost    int

	// RateLimitPerMinute caps mutating requests per client IP.
	RateLimitPerMinute int
}

type Server struct {
	http.Server

	repo    *storage.SQLiteRepository
	reports *services.ReportService
	tokens  *auth.TokenIssuer
	logger  *log.Logger

	limiter      *ratelimit.Limiter
	resolver     *security.ClientIPResolver
	shutdownOnce sync.Once

	secureCookies bool
	bcryptCost    int
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(opts Options) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              opts.Addr,
			ReadHeaderTimeout: 10 * time.Second,
		},
		repo:          opts.Repo,
		reports:       services.NewReportService(opts.Repo),
		tokens:        opts.Tokens,
		logger:        opts.Logger.WithComponent(log.ComponentHTTP),
		limiter:       ratelimit.New(opts.RateLimitPerMinute),
		resolver:      security.NewClientIPResolver(),
		secureCookies: opts.SecureCookies,
		bcryptCost:    opts.BcryptCost,
	}

	mux.HandleFunc("GET /api/health", s.handleHealth)

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", s.handleLogout)
	mux.HandleFunc("GET /api/auth/me", s.requireAuth(s.handleMe))

	mux.HandleFunc("GET /api/categories", s.requireAuth(s.handleListCategories))
	mux.HandleFunc("POST /api/categories", s.requireAuth(s.handleCreateCategory))
	mux.HandleFunc("PUT /api/categories/{id}", s.requireAuth(s.handleUpdateCategory))
	mux.HandleFunc("DELETE /api/categories/{id}", s.requireAuth(s.handleDeleteCategory))

	mux.HandleFunc("GET /api/income-sources", s.requireAuth(s.handleListSources))
	mux.HandleFunc("POST /api/income-sources", s.requireAuth(s.handleCreateSource))
	mux.HandleFunc("PUT /api/income-sources/{id}", s.requireAuth(s.handleUpdateSource))
	mux.HandleFunc("DELETE /api/income-sources/{id}", s.requireAuth(s.handleDeleteSource))

	mux.HandleFunc("GET /api/transactions", s.requireAuth(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.requireAuth(s.handleCreateTransaction))
	mux.HandleFunc("PUT /api/transactions/{id}", s.requireAuth(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.requireAuth(s.handleDeleteTransaction))

	mux.HandleFunc("GET /api/reports/summary", s.requireAuth(s.handleSummary))
	mux.HandleFunc("GET /api/reports/category-breakdown", s.requireAuth(s.handleCategoryBreakdown))
	mux.HandleFunc("GET /api/reports/trends", s.requireAuth(s.handleTrends))
	mux.HandleFunc("GET /api/reports/export-csv", s.requireAuth(s.handleExportCSV))

	chain := security.Headers(security.DefaultHeadersConfig())(
		trace.Middleware(s.logger, s.resolver.Resolve)(
			log.Middleware(s.logger)(
				s.limitMutations(mux))))
	s.Server.Handler = chain

	return s
}

// limitMutations rate limits only state-changing methods; reads stay cheap
// and unthrottled.
func (s *Server) limitMutations(next http.Handler) http.Handler {
	limited := s.limiter.Middleware(s.resolver.Resolve, func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
	})(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
			limited.ServeHTTP(w, r)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// Shutdown stops the rate limiter and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
