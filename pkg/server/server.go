package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/mchmarny/menuview/pkg/metric"
)

const (
	// DefaultHost is the default interface the server binds to.
	DefaultHost = "0.0.0.0"

	// DefaultPort is the default HTTP server port.
	DefaultPort = 5001

	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 10 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled.
	DefaultIdleTimeout = 60 * time.Second

	// DefaultShutdownTimeout is the maximum duration to wait for active connections
	// to close during shutdown.
	DefaultShutdownTimeout = 5 * time.Second

	// DefaultMaxHeaderBytes caps the size of request headers.
	DefaultMaxHeaderBytes = 1 << 20 // 1 MB

	// RequestIDHeader carries the per-request id, echoed back when provided by the caller.
	RequestIDHeader = "X-Request-ID"

	// RequestsMetricName is the name of the request counter exposed on /metrics.
	RequestsMetricName = "menuview_http_requests_total"

	unmatchedPattern   = "unmatched"
	rateLimitedPattern = "ratelimited"
)

// Server defines the interface of the HTTP server publishing the menu.
type Server interface {
	// Serve starts the HTTP server and blocks until the context is canceled.
	// Returns nil on graceful shutdown.
	Serve(ctx context.Context) error

	// IsRunning returns true once the socket is bound and until the server stops.
	IsRunning() bool

	// Addr returns the bound address, or an empty string before the server is bound.
	Addr() string
}

type server struct {
	mux             *http.ServeMux
	host            string
	port            int
	readTimeout     time.Duration
	writeTimeout    time.Duration
	idleTimeout     time.Duration
	shutdownTimeout time.Duration
	maxHeaderBytes  int
	errLog          *log.Logger
	limiter         *rate.Limiter
	registry        *prometheus.Registry
	requests        metric.IncrementalCounter

	mu      sync.RWMutex // protects running and addr
	running bool
	addr    string
}

// Option is a functional option for configuring the Server.
type Option func(*server)

// WithHost sets the interface the server binds to.
func WithHost(host string) Option {
	return func(s *server) { s.host = host }
}

// WithPort sets the port number for the HTTP server. Port 0 picks a free port,
// use Addr to discover it.
func WithPort(port int) Option {
	return func(s *server) { s.port = port }
}

// WithReadTimeout sets the maximum duration for reading the entire request.
func WithReadTimeout(d time.Duration) Option {
	return func(s *server) { s.readTimeout = d }
}

// WithWriteTimeout sets the maximum duration before timing out writes of the response.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *server) { s.writeTimeout = d }
}

// WithIdleTimeout sets the keep-alive idle timeout.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *server) { s.idleTimeout = d }
}

// WithShutdownTimeout sets the maximum duration to wait for graceful shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *server) { s.shutdownTimeout = d }
}

// WithMaxHeaderBytes sets the maximum number of bytes to read from request headers.
func WithMaxHeaderBytes(n int) Option {
	return func(s *server) { s.maxHeaderBytes = n }
}

// WithHandler registers an HTTP handler for the specified pattern.
// Patterns follow http.ServeMux syntax, including method prefixes ("GET /menu").
func WithHandler(pattern string, handler http.Handler) Option {
	return func(s *server) {
		s.mux.Handle(pattern, handler)
	}
}

// WithSimpleHealth adds a health endpoint at /healthz that always returns 200 "ok".
func WithSimpleHealth() Option {
	return func(s *server) {
		s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
	}
}

// WithMetrics exposes the server's Prometheus registry at /metrics.
func WithMetrics() Option {
	return func(s *server) {
		s.mux.Handle("GET /metrics", metric.GetHandlerForRegistry(s.registry))
	}
}

// WithRateLimit limits the server to r requests per second with the given burst.
// Requests over the limit are rejected with 429. A non-positive r disables limiting.
func WithRateLimit(r float64, burst int) Option {
	return func(s *server) {
		if r <= 0 {
			s.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(r), burst)
	}
}

// New creates a new HTTP server with the provided options.
//
// Default configuration:
//   - Host: 0.0.0.0
//   - Port: 5001
//   - ReadTimeout: 10s
//   - WriteTimeout: 10s
//   - IdleTimeout: 60s
//   - ShutdownTimeout: 5s
//   - MaxHeaderBytes: 1 MB
//
// Every server owns its Prometheus registry so several instances can coexist in tests.
func New(opts ...Option) Server {
	reg := prometheus.NewRegistry()

	s := &server{
		host:            DefaultHost,
		port:            DefaultPort,
		readTimeout:     DefaultReadTimeout,
		writeTimeout:    DefaultWriteTimeout,
		idleTimeout:     DefaultIdleTimeout,
		shutdownTimeout: DefaultShutdownTimeout,
		maxHeaderBytes:  DefaultMaxHeaderBytes,
		mux:             http.NewServeMux(),
		registry:        reg,
		errLog:          log.Default(),
		requests: metric.NewCounterWithRegistry(reg, RequestsMetricName,
			"Number of HTTP requests served, by route pattern, method and status code.",
			"pattern", "method", "code"),
	}

	for _, opt := range opts {
		opt(s)
	}

	slog.Info("server initialized",
		"host", s.host,
		"port", s.port,
		"rate_limited", s.limiter != nil,
		"read_timeout", s.readTimeout,
		"write_timeout", s.writeTimeout)

	return s
}

// IsRunning returns true if the server is currently accepting connections.
func (s *server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.running
}

// Addr returns the address the server is bound to.
func (s *server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.addr
}

// Serve binds the listener, serves until the context is canceled and then shuts
// down gracefully within the shutdown timeout. http.ErrServerClosed is not an error.
func (s *server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:           net.JoinHostPort(s.host, strconv.Itoa(s.port)),
		Handler:        s.handler(),
		ReadTimeout:    s.readTimeout,
		WriteTimeout:   s.writeTimeout,
		IdleTimeout:    s.idleTimeout,
		MaxHeaderBytes: s.maxHeaderBytes,
		ErrorLog:       s.errLog,
	}

	// Bind first so running is only reported once the socket exists.
	listener, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	s.mu.Lock()
	s.addr = listener.Addr().String()
	s.running = true
	s.mu.Unlock()

	slog.Info("starting server", "addr", listener.Addr().String())

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer func() {
			s.mu.Lock()
			s.running = false
			s.mu.Unlock()
		}()

		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		slog.Info("shutting down server", "grace_period", s.shutdownTimeout)

		start := time.Now()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}

		slog.Info("server shutdown complete", "duration", time.Since(start))

		return nil
	})

	return g.Wait()
}

// handler wraps the mux with request id, rate limiting and request counting.
func (s *server) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		var pattern string
		if s.limiter != nil && !s.limiter.Allow() {
			// Rejected before routing, so it is counted under its own pattern.
			slog.Warn("rate limit exceeded", "request_id", id, "url", r.URL.Path)
			http.Error(rec, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			pattern = rateLimitedPattern
		} else {
			s.mux.ServeHTTP(rec, r)
			pattern = r.Pattern
			if pattern == "" {
				pattern = unmatchedPattern
			}
		}
		s.requests.Increment(pattern, r.Method, strconv.Itoa(rec.status))

		slog.Debug("request completed",
			"request_id", id,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rec.status)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
