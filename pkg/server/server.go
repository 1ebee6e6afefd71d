package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"mercator-hq/solace/pkg/config"
	"mercator-hq/solace/pkg/proxy"
	"mercator-hq/solace/pkg/proxy/handlers"
	"mercator-hq/solace/pkg/proxy/middleware"
	"mercator-hq/solace/pkg/proxy/types"
	"mercator-hq/solace/pkg/telemetry/health"
	"mercator-hq/solace/pkg/telemetry/metrics"
)

// Options carries the components the server routes requests to.
type Options struct {
	// Conversation handles /chat and /clear. Required.
	Conversation handlers.Conversation

	// Checker backs /health and /ready. A checker with no checks is used
	// when nil.
	Checker *health.Checker

	// Metrics records HTTP metrics and serves MetricsPath. Nil disables both.
	Metrics     *metrics.Collector
	MetricsPath string

	AuthHeader string
	Disclaimer string

	Version   string
	Commit    string
	BuildDate string

	Logger *slog.Logger
}

// Server is the HTTP front of the chat proxy.
type Server struct {
	config     *config.ServerConfig
	opts       Options
	logger     *slog.Logger
	httpServer *http.Server

	ready        chan struct{}
	readyOnce    sync.Once
	shutdownOnce sync.Once

	mu        sync.RWMutex
	isRunning bool
	addr      net.Addr
}

// New creates a server. It does not start listening.
func New(cfg *config.ServerConfig, opts Options) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("server config is required")
	}
	if opts.Conversation == nil {
		return nil, errors.New("conversation is required")
	}
	if opts.Checker == nil {
		opts.Checker = health.New(0)
	}
	if opts.AuthHeader == "" {
		opts.AuthHeader = config.DefaultAuthHeader
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = config.DefaultMetricsPath
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		config: cfg,
		opts:   opts,
		logger: logger,
		ready:  make(chan struct{}),
	}, nil
}

// Start listens on the configured address and serves until ctx is
// cancelled, then shuts down gracefully. It returns nil after a clean
// shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}

	ln, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddress, err)
	}

	s.httpServer = &http.Server{
		Handler:        s.setupRoutes(),
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}
	s.addr = ln.Addr()
	s.isRunning = true
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting chat proxy", "address", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()
	s.readyOnce.Do(func() { close(s.ready) })

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		return err
	}
}

// Ready is closed once the server is accepting connections.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the bound address, or "" before Start.
// It resolves ":0" to the port actually chosen.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.addr == nil {
		return ""
	}
	return s.addr.String()
}

// Shutdown gracefully shuts down the server, waiting up to the configured
// shutdown timeout for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.RLock()
		running := s.isRunning
		s.mu.RUnlock()
		if !running {
			return
		}

		s.logger.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx := ctx
		if s.config.ShutdownTimeout > 0 {
			var cancel context.CancelFunc
			shutdownCtx, cancel = context.WithTimeout(ctx, s.config.ShutdownTimeout)
			defer cancel()
		}

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("chat proxy stopped")
	})

	return shutdownErr
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the routed handler with the full middleware chain,
// for use with httptest.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

// setupRoutes configures HTTP routes and the middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	handlerOpts := handlers.Options{
		AuthHeader:   s.opts.AuthHeader,
		Disclaimer:   s.opts.Disclaimer,
		MaxBodyBytes: s.config.MaxBodyBytes,
		Logger:       s.logger,
	}

	mux.Handle("/chat", handlers.NewChatHandler(s.opts.Conversation, handlerOpts))
	mux.Handle("/clear", handlers.NewClearHandler(s.opts.Conversation, handlerOpts))
	mux.Handle("/health", handlers.NewHealthHandler(s.opts.Checker))
	mux.Handle("/ready", handlers.NewReadyHandler(s.opts.Checker))
	mux.Handle("/version", handlers.NewVersionHandler(s.opts.Version, s.opts.Commit, s.opts.BuildDate))
	mux.HandleFunc("/", notFound)

	// A nil *Collector must not reach the interface
	var recorder middleware.HTTPRecorder
	if s.opts.Metrics != nil {
		mux.Handle("GET "+s.opts.MetricsPath, s.opts.Metrics.Handler())
		recorder = s.opts.Metrics
	}

	return middleware.Chain(mux,
		middleware.RequestIDMiddleware,
		middleware.RecoveryMiddleware,
		middleware.LoggingMiddleware(s.logger),
		middleware.CORSMiddleware(middleware.CORSFromConfig(s.config.CORS, s.opts.AuthHeader)),
		middleware.MetricsMiddleware(recorder),
	)
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	_ = proxy.WriteErrorResponse(w, types.NewAPIError(http.StatusNotFound, types.MessageNotFound))
}
