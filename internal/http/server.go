package http

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/services"
	appweb "fintrack/web"
)

const (
	reportCacheSize = 32
	reportCacheTTL  = 10 * time.Minute
)

// Options tunes NewServer. Zero values pick defaults.
type Options struct {
	Logger         *log.Logger
	PostRateLimit  int
	TrustedProxies []string
	Clock          func() time.Time
}

type Server struct {
	http.Server
	templates *template.Template
	tracker   *services.Tracker
	logger    *log.Logger
	limiter   *ratelimit.Limiter
	detector  *security.Detector
	tracer    *trace.Middleware
	now       func() time.Time

	// reports holds rendered reports of saved months, keyed by format and
	// month. Anything that writes snapshots purges it.
	reports *cache.LRUCache[[]byte]
	caches  *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes, middleware and templates, returning a
// ready-to-run http.Server.
func NewServer(addr string, tracker *services.Tracker, opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	logger := opts.Logger.WithComponent(log.ComponentHTTP)

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	detector := security.NewDetector()
	for _, cidr := range opts.TrustedProxies {
		if err := detector.AddTrustedProxy(cidr); err != nil {
			return nil, err
		}
	}

	s := &Server{
		templates: t,
		tracker:   tracker,
		logger:    logger,
		limiter:   ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.PostRateLimit}),
		detector:  detector,
		tracer:    trace.NewMiddleware(detector.ExtractClientIP, opts.Logger),
		now:       opts.Clock,
		reports:   cache.NewLRUCache[[]byte](reportCacheSize, reportCacheTTL),
	}
	s.caches = cache.NewManager(func(removed int) {
		logger.Debug("Expired cached reports", "removed", removed)
	})
	s.caches.Register(s.reports)
	s.caches.StartCleanup(reportCacheTTL)

	mux := http.NewServeMux()

	static, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("mount static assets: %w", err)
	}
	mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(
		http.StripPrefix("/static/", http.FileServer(http.FS(static)))))

	mux.Handle("GET /{$}", security.NoStore(http.HandlerFunc(s.handleIndex)))
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /months/prev", s.handlePrevMonth)
	mux.HandleFunc("POST /months/next", s.handleNextMonth)
	mux.HandleFunc("POST /months/goto", s.handleGotoMonth)
	mux.HandleFunc("POST /months/save", s.handleSaveMonth)
	mux.HandleFunc("POST /months/delete", s.handleDeleteMonth)

	mux.HandleFunc("POST /ledger/entry", s.handleSetEntry)
	mux.HandleFunc("POST /ledger/deduction", s.handleSetDeduction)
	mux.HandleFunc("POST /ledger/profile", s.handleApplyProfile)

	mux.HandleFunc("POST /expenses", s.handleAddExpense)
	mux.HandleFunc("POST /expenses/{id}", s.handleUpdateExpense)
	mux.HandleFunc("POST /expenses/{id}/delete", s.handleRemoveExpense)

	mux.HandleFunc("GET /backup/export", s.handleExport)
	mux.HandleFunc("POST /backup/import", s.handleImport)
	mux.HandleFunc("GET /report.pdf", s.handleReport)

	mux.HandleFunc("GET /api/totals", s.handleAPITotals)
	mux.HandleFunc("GET /api/months", s.handleAPIMonths)
	mux.HandleFunc("GET /api/months/{month}", s.handleAPIMonth)
	mux.HandleFunc("GET /api/metrics", s.handleAPIMetrics)

	var handler http.Handler = mux
	handler = s.limiter.Middleware(detector.ExtractClientIP, s.onRateLimited, http.MethodPost)(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = log.RequestIDMiddleware(trace.RequestIDFromRequest)(handler)
	handler = log.Middleware(logger)(handler)
	handler = s.tracer.Middleware(handler)
	handler = detector.Middleware(opts.Logger)(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s, nil
}

// Shutdown stops background cleanup and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		s.caches.Stop(true)
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.detector.ExtractClientIP(r),
		log.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.").
		TriggerErrorNotification("Too many requests, slow down").
		Write(w)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	NewHTMXResponse().
		Header("Content-Type", "text/plain; charset=utf-8").
		BodyString("ok").
		Write(w)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil || s.tracker == nil {
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	NewHTMXResponse().
		Header("Content-Type", "text/plain; charset=utf-8").
		BodyString("ready").
		Write(w)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "index.html", buildPage(s.tracker)); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed",
			log.FieldOperation, log.OpRender, log.FieldError, err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// respond finishes a successful action. htmx gets the re-rendered tracker
// with the builder's triggers; a plain form post is sent back to the page.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, b *HTMXResponseBuilder) {
	if !isHTMX(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "tracker", buildPage(s.tracker)); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed",
			log.FieldOperation, log.OpRender, log.FieldError, err)
		InternalServerError("template error").Write(w)
		return
	}
	b.Header("Cache-Control", "no-store").BodyHTML(buf.String()).Write(w)
}

// fail maps err to a status and reports it as an HTML fragment plus a
// notification.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := statusFor(err)
	msg := userMessage(err, status)
	logger := log.FromContext(r.Context())
	if status >= 500 {
		logger.ErrorContext(r.Context(), "Request failed", log.FieldOperation, op, log.FieldError, err)
	} else {
		logger.InfoContext(r.Context(), "Request rejected", log.FieldOperation, op, log.FieldError, err)
	}
	errorResponseFor(status, msg).TriggerErrorNotification(msg).Write(w)
}
