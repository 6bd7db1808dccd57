package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	applog "my/internal/log"
	"my/internal/middleware/ratelimit"
	"my/internal/middleware/security"
	"my/internal/middleware/trace"
)

// Options configures the static file server.
type Options struct {
	Addr            string
	Dir             string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	RateLimit       int // requests per minute per client, 0 for none
	Headers         security.HeadersConfig
}

// Server serves the files of one directory.
type Server struct {
	http.Server
	dir             string
	shutdownTimeout time.Duration
	logger          *applog.Logger
	tracer          *trace.Middleware
	limiter         *ratelimit.Limiter
	shutdownOnce    sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
// The directory must exist.
func NewServer(opts Options, logger *applog.Logger) (*Server, error) {
	info, err := os.Stat(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("serve directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("serve directory: %s is not a directory", opts.Dir)
	}
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentServe)
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	clientIP := security.NewClientIP()
	s := &Server{
		dir:             opts.Dir,
		shutdownTimeout: opts.ShutdownTimeout,
		logger:          logger,
		tracer:          trace.NewMiddleware(logger, clientIP.Extract),
		limiter:         ratelimit.NewLimiter(opts.RateLimit),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", handleHealth)
	mux.Handle("/", http.FileServer(http.Dir(opts.Dir)))

	var handler http.Handler = mux
	handler = s.limiter.Middleware(clientIP.Extract)(handler)
	handler = security.NewHeadersMiddleware(opts.Headers).Middleware(handler)
	handler = s.tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: opts.ReadTimeout,
		WriteTimeout:      opts.WriteTimeout,
		IdleTimeout:       opts.IdleTimeout,
		MaxHeaderBytes:    1 << 16, // 64KB
	}
	return s, nil
}

// Run listens on the configured address and serves until ctx is cancelled,
// then shuts down within the shutdown timeout. ready, if non-nil, receives
// the bound address once the listener is open.
func (s *Server) Run(ctx context.Context, ready func(addr net.Addr)) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.Addr, err)
	}

	s.logger.InfoContext(ctx, "Serving directory",
		applog.FieldOperation, applog.OpServe,
		applog.FieldDirectory, s.dir,
		applog.FieldAddr, ln.Addr().String())
	if ready != nil {
		ready(ln.Addr())
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		s.logExit(ctx, err)
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server", applog.FieldOperation, applog.OpShutdown)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	err = s.Shutdown(shutdownCtx)
	if serveErr := <-errCh; err == nil && !errors.Is(serveErr, http.ErrServerClosed) {
		err = serveErr
	}
	s.logExit(ctx, err)
	return err
}

// Shutdown gracefully stops the server once.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// Served returns how many requests have completed.
func (s *Server) Served() int64 {
	return s.tracer.Served()
}

func (s *Server) logExit(ctx context.Context, err error) {
	code := 0
	if err != nil {
		code = 1
	}
	s.logger.InfoContext(context.WithoutCancel(ctx), fmt.Sprintf("HTTP server exited with code %d", code),
		applog.FieldExitCode, code,
		"requests", s.Served(),
		"rate_limited", s.limiter.GetMetrics().Rejected)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).DebugContext(r.Context(), "Health check")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
