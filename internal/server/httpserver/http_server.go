// Package httpserver wires the public site server and the admin server,
// binding their ports up front so startup failures surface immediately.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nordvang/presskit/internal/metrics"
	"github.com/nordvang/presskit/internal/server/handlers"
	smw "github.com/nordvang/presskit/internal/server/middleware"
	"github.com/nordvang/presskit/internal/views"
)

// Options carries the server's presentation and observability dependencies.
type Options struct {
	Views    *views.Views
	Recorder metrics.Recorder
	Registry *prometheus.Registry // nil disables the /metrics endpoint
}

// Server manages the site and admin HTTP endpoints.
type Server struct {
	runtime handlers.Runtime
	opts    Options

	siteHandlers  *handlers.SiteHandlers
	adminHandlers *handlers.AdminHandlers
	mchain        func(http.Handler) http.Handler

	siteServer  *http.Server
	adminServer *http.Server
	siteAddr    net.Addr
	adminAddr   net.Addr
}

// New constructs the HTTP server wiring.
func New(runtime handlers.Runtime, opts Options) *Server {
	return &Server{
		runtime:       runtime,
		opts:          opts,
		siteHandlers:  handlers.NewSiteHandlers(runtime, opts.Views, opts.Recorder),
		adminHandlers: handlers.NewAdminHandlers(runtime),
		mchain:        smw.Chain(slog.Default()),
	}
}

// Start binds both ports and begins serving. Binding happens before any
// server starts so a taken port fails the whole startup with one error.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.runtime.Config()

	type preBind struct {
		name string
		port int
		ln   net.Listener
	}
	binds := []preBind{
		{name: "site", port: cfg.Server.SitePort},
		{name: "admin", port: cfg.Server.AdminPort},
	}
	var bindErrs []error
	lc := net.ListenConfig{}
	for i := range binds {
		ln, err := lc.Listen(ctx, "tcp", fmt.Sprintf(":%d", binds[i].port))
		if err != nil {
			bindErrs = append(bindErrs, fmt.Errorf("%s port %d: %w", binds[i].name, binds[i].port, err))
			continue
		}
		binds[i].ln = ln
	}
	if len(bindErrs) > 0 {
		for _, b := range binds {
			if b.ln != nil {
				_ = b.ln.Close()
			}
		}
		return fmt.Errorf("http startup failed: %w", errors.Join(bindErrs...))
	}

	s.siteAddr = binds[0].ln.Addr()
	s.adminAddr = binds[1].ln.Addr()

	s.siteServer = &http.Server{
		Handler:      s.mchain(s.siteMux()),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	s.adminServer = &http.Server{
		Handler:      s.mchain(s.adminMux()),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	s.serve("site", s.siteServer, binds[0].ln)
	s.serve("admin", s.adminServer, binds[1].ln)

	slog.Info("HTTP servers started",
		slog.String("site_addr", s.siteAddr.String()),
		slog.String("admin_addr", s.adminAddr.String()))
	return nil
}

// Stop gracefully shuts down both servers.
func (s *Server) Stop(ctx context.Context) error {
	var errs []error
	if s.adminServer != nil {
		if err := s.adminServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("admin server shutdown: %w", err))
		}
	}
	if s.siteServer != nil {
		if err := s.siteServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("site server shutdown: %w", err))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	slog.Info("HTTP servers stopped")
	return nil
}

// SiteAddr returns the bound site address after Start.
func (s *Server) SiteAddr() string { return addrString(s.siteAddr) }

// AdminAddr returns the bound admin address after Start.
func (s *Server) AdminAddr() string { return addrString(s.adminAddr) }

func addrString(a net.Addr) string {
	if a == nil {
		return ""
	}
	return a.String()
}

func (s *Server) serve(kind string, srv *http.Server, ln net.Listener) {
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			slog.Error(fmt.Sprintf("%s server error", kind), "error", err)
		}
	}()
}

// siteMux routes the public pages. Literal routes win over the {cpt}
// wildcards, so custom post types cannot shadow built-in sections; unknown
// single-segment paths reach TypeArchive, which falls through to the 404 page
// when the segment is not a configured type.
func (s *Server) siteMux() *http.ServeMux {
	mux := http.NewServeMux()
	sh := s.siteHandlers
	mux.HandleFunc("GET /{$}", sh.Home)
	mux.HandleFunc("GET /posts", sh.PostsArchive)
	mux.HandleFunc("GET /posts/{slug}", sh.PostSingle)
	mux.HandleFunc("GET /pages/{slug}", sh.Page)
	mux.HandleFunc("GET /category/{slug}", sh.CategoryArchive)
	mux.HandleFunc("GET /tag/{slug}", sh.TagArchive)
	mux.HandleFunc("GET /static/site.css", sh.Stylesheet)
	mux.HandleFunc("GET /{cpt}", sh.TypeArchive)
	mux.HandleFunc("GET /{cpt}/{slug}", sh.TypeSingle)
	mux.HandleFunc("/", sh.NotFound)
	return mux
}

func (s *Server) adminMux() *http.ServeMux {
	mux := http.NewServeMux()
	ah := s.adminHandlers
	mux.HandleFunc("GET /healthz", ah.HandleHealthz)
	mux.HandleFunc("GET /status", ah.HandleStatus)
	mux.HandleFunc("POST /cache/flush", ah.HandleCacheFlush)
	if s.opts.Registry != nil {
		mux.Handle("GET /metrics", metrics.HTTPHandler(s.opts.Registry))
	}
	return mux
}
