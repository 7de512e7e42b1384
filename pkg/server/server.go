// Package server exposes a local Maven repository over HTTP. Every request
// under /maven2/ is answered by a [Resolver], which produces the requested
// file in the repository directory before it is served.
//
// Routes:
//
//	GET  /maven2/*   resolve and serve a repository file
//	HEAD /maven2/*   ask the feed whether the file can be produced
//	PUT  /maven2/*   rejected, the feed is read-only
//	GET  /health     liveness check
package server

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/nugetbridge/pkg/errors"
)

// RoutePrefix is the path prefix of the repository layout.
const RoutePrefix = "/maven2"

// Resolver produces repository files. *bridge.Engine implements it.
type Resolver interface {
	Get(ctx context.Context, resource, destination string) error
	ResourceExists(ctx context.Context, resource string) (bool, error)
	Put(ctx context.Context, source, resource string) error
}

// Options configures a [Server].
type Options struct {
	Resolver   Resolver
	Repository string // Directory files are produced in
	Logger     *log.Logger
}

// Server serves resolved files. Create with [New].
type Server struct {
	resolver   Resolver
	repository string
	logger     *log.Logger
	router     chi.Router
}

// New creates a server and its routes.
func New(opts Options) *Server {
	s := &Server{
		resolver:   opts.Resolver,
		repository: opts.Repository,
		logger:     opts.Logger,
	}
	if s.logger == nil {
		s.logger = log.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", s.handleHealth)
	r.Route(RoutePrefix, func(r chi.Router) {
		r.Get("/*", s.handleGet)
		r.Head("/*", s.handleHead)
		r.Put("/*", s.handlePut)
	})
	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Minute, // First requests download whole packages
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving repository", "addr", addr, "repository", s.repository)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	resource := chi.URLParam(r, "*")
	if err := errors.ValidateResourcePath(resource); err != nil {
		s.writeError(w, r, err)
		return
	}
	dest := filepath.Join(s.repository, filepath.FromSlash(resource))

	if err := s.resolver.Get(r.Context(), resource, dest); err != nil {
		s.writeError(w, r, err)
		return
	}

	f, err := os.Open(dest)
	if os.IsNotExist(err) {
		// Resolved, but the request kind produces no file (e.g. a jar).
		s.writeError(w, r, errors.New(errors.ErrCodeArtifactNotFound, "nothing to serve for %s", resource))
		return
	}
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "open %s", dest))
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "stat %s", dest))
		return
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

func (s *Server) handleHead(w http.ResponseWriter, r *http.Request) {
	ok, err := s.resolver.ResourceExists(r.Context(), chi.URLParam(r, "*"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, r, s.resolver.Put(r.Context(), "", chi.URLParam(r, "*")))
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "status", status, "error", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "status", status, "error", err)
	}
	http.Error(w, errors.UserMessage(err), status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// StatusFor maps an error code to an HTTP status.
func StatusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeMalformedResource, errors.ErrCodeInvalidPath, errors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case errors.ErrCodeArtifactNotFound, errors.ErrCodeResourceNotFound, errors.ErrCodeChecksumUnsupported:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusMethodNotAllowed
	case errors.ErrCodeTransfer, errors.ErrCodeNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
