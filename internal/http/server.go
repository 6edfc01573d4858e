// Package http serves the dashboard UI: monthly charts, summary cards and
// the itemized receipt view.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"bonnetje/internal/cache"
	"bonnetje/internal/core"
	"bonnetje/internal/middleware/security"
	"bonnetje/internal/middleware/trace"
	"bonnetje/internal/session"
	appweb "bonnetje/web"
)

// DetailSource fetches the itemized receipt for one transaction.
type DetailSource interface {
	ReceiptDetail(ctx context.Context, transactionID string) (*core.DetailedReceipt, error)
}

// LoginRunner drives the browser login flow.
type LoginRunner interface {
	Login(ctx context.Context, username, password string) (*core.TokenPair, error)
}

// Server is the dashboard HTTP server.
type Server struct {
	http.Server
	templates *template.Template
	session   *session.Service
	details   DetailSource
	login     LoginRunner

	// Detail fetches are triggered one at a time from the UI; the cache
	// keeps recently opened receipts so reopening a modal is instant.
	detailCache  *cache.LRUCache[*core.DetailedReceipt]
	cacheManager *cache.Manager
	tracer       *trace.Middleware

	shutdownOnce sync.Once
}

// Options tune server construction.
type Options struct {
	DetailCacheSize int
	DetailCacheTTL  time.Duration
}

// DefaultOptions returns the cache sizing used when no config is present.
func DefaultOptions() Options {
	return Options{DetailCacheSize: 100, DetailCacheTTL: 30 * time.Minute}
}

// NewServer builds the dashboard server and wires all routes.
func NewServer(addr string, sess *session.Service, details DetailSource, login LoginRunner, opts Options) *Server {
	if opts.DetailCacheSize <= 0 {
		opts = DefaultOptions()
	}

	s := &Server{
		session:      sess,
		details:      details,
		login:        login,
		detailCache:  cache.NewLRUCache[*core.DetailedReceipt](opts.DetailCacheSize, opts.DetailCacheTTL),
		cacheManager: cache.NewManager(),
	}
	s.Addr = addr
	s.templates = loadTemplates()

	s.cacheManager.Register(s.detailCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleDashboard)
	mux.HandleFunc("/login", s.handleLogin)
	mux.HandleFunc("/logout", s.handleLogout)
	mux.HandleFunc("/receipts", s.handleReceipts)
	mux.HandleFunc("/receipts/", s.handleReceiptDetail)
	mux.HandleFunc("/api/summaries", s.handleSummaries)
	mux.HandleFunc("/healthz", s.handleHealth)

	static, err := fs.Sub(appweb.StaticFS, "static")
	if err == nil {
		mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	}

	s.tracer = trace.NewMiddleware(clientIP)
	traced := s.tracer.Middleware(mux)
	s.Handler = security.Headers(security.DefaultHeadersConfig())(traced)

	return s
}

func loadTemplates() *template.Template {
	t := template.New("").Funcs(template.FuncMap{
		"euros": core.FormatEuros,
		"date":  core.FormatDate,
	})
	return template.Must(t.ParseFS(appweb.TemplatesFS, "templates/*.html"))
}

// Shutdown stops the cleanup goroutine and the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
		slog.InfoContext(ctx, "HTTP server stopped",
			"requests_served", s.tracer.TotalRequests())
	})
	return shutdownErr
}
