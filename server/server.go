// Package server exposes a todo.Store over HTTP: a JSON API under /api and
// the HTML client under /web.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/amonks/todolist/internal/logging"
	"github.com/amonks/todolist/todo"
	"github.com/amonks/todolist/web"
	"github.com/go-chi/chi/v5"
)

const (
	shutdownTimeout = 5 * time.Second

	// DefaultMaxUploadBytes caps a multipart request body.
	DefaultMaxUploadBytes = 64 << 20
)

// Options configures a Server.
type Options struct {
	Store  *todo.Store
	Logger *slog.Logger

	// Theme and DarkMode seed the web client's appearance.
	Theme    string
	DarkMode bool

	// MaxUploadBytes caps multipart request bodies. Defaults to
	// DefaultMaxUploadBytes.
	MaxUploadBytes int64
}

// Server handles API and web requests against one store.
type Server struct {
	store          *todo.Store
	logger         *slog.Logger
	web            *web.Handler
	maxUploadBytes int64
}

// New creates a server.
func New(opts Options) (*Server, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	maxUpload := opts.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUploadBytes
	}
	webHandler, err := web.NewHandler(web.Options{
		Store:          opts.Store,
		Logger:         logger,
		Theme:          opts.Theme,
		DarkMode:       opts.DarkMode,
		MaxUploadBytes: maxUpload,
	})
	if err != nil {
		return nil, err
	}
	return &Server{
		store:          opts.Store,
		logger:         logger,
		web:            webHandler,
		maxUploadBytes: maxUpload,
	}, nil
}

// Handler returns the HTTP handler for the API and web client.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.recoverHandler, s.logRequests)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Put("/draft", s.handleDraftUpdate)
		r.Post("/draft/image", s.handleDraftImageStage)
		r.Delete("/draft/image", s.handleDraftImageClear)
		r.Post("/todos", s.handleTodosCreate)
		r.Route("/todos/{id}", func(r chi.Router) {
			r.Delete("/", s.handleTodoDelete)
			r.Post("/toggle", s.handleTodoToggle)
			r.Post("/media", s.handleMediaAttach)
			r.Delete("/media/{index}", s.handleMediaRemove)
			r.Delete("/attachments/{attachmentID}", s.handleAttachmentRemove)
		})
	})

	r.Mount("/web", s.web)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/web/", http.StatusFound)
	})
	return r
}

// Serve runs the server on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.ServeListener(ctx, listener)
}

// ServeListener is Serve on an existing listener.
func (s *Server) ServeListener(ctx context.Context, listener net.Listener) error {
	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
	}

	s.logger.Info("listening", "addr", listener.Addr().String())
	listenErrs := make(chan error, 1)
	go func() {
		listenErrs <- server.Serve(listener)
	}()

	select {
	case err := <-listenErrs:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server stopped", "err", err)
			return err
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		shutdownErr := server.Shutdown(shutdownCtx)
		cancel()
		listenErr := <-listenErrs
		if errors.Is(listenErr, http.ErrServerClosed) {
			listenErr = nil
		}
		return errors.Join(shutdownErr, listenErr)
	}
}

func (s *Server) recoverHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writer := &responseTracker{ResponseWriter: w}
		defer func() {
			if recovered := recover(); recovered != nil {
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}
				s.logger.Error("panic handling request", "method", r.Method, "path", r.URL.Path, "panic", recovered, "stack", string(debug.Stack()))
				if writer.wroteHeader {
					return
				}
				writeJSON(writer, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
			}
		}()
		next.ServeHTTP(writer, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		writer := &responseTracker{ResponseWriter: w}
		next.ServeHTTP(writer, r)
		status := writer.status
		if status == 0 {
			status = http.StatusOK
		}
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", status, "duration", time.Since(start))
	})
}

type responseTracker struct {
	http.ResponseWriter
	wroteHeader bool
	status      int
}

func (w *responseTracker) WriteHeader(status int) {
	if !w.wroteHeader {
		w.wroteHeader = true
		w.status = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseTracker) Write(data []byte) (int, error) {
	if !w.wroteHeader {
		w.wroteHeader = true
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(data)
}

func (w *responseTracker) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
