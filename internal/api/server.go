package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/san-kum/sailsim/internal/polar"
	"github.com/san-kum/sailsim/internal/sim"
)

const shutdownTimeout = 5 * time.Second

// Server exposes one shared simulation.
type Server struct {
	sim      *sim.Guarded
	target   *polar.Interpolator
	tables   map[string]*polar.Table
	logger   *slog.Logger
	validate *validator.Validate
}

type Option func(*Server)

// WithPolar reports target speeds from ip in state responses and makes its
// table available for lookups.
func WithPolar(ip *polar.Interpolator) Option {
	return func(s *Server) {
		s.target = ip
		s.tables[ip.Table().Name()] = ip.Table()
	}
}

// WithTable adds or replaces a lookup table by its name.
func WithTable(t *polar.Table) Option {
	return func(s *Server) { s.tables[t.Name()] = t }
}

// New serves g. The built-in polar tables are always available.
func New(g *sim.Guarded, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		sim:      g,
		tables:   make(map[string]*polar.Table),
		logger:   logger,
		validate: newValidator(),
	}
	for _, name := range polar.BuiltinNames() {
		t, err := polar.Builtin(name)
		if err == nil {
			s.tables[name] = t
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (s *Server) tableNames() []string {
	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Route("/polar", func(r chi.Router) {
			r.Get("/tables", s.handleTables)
			r.Get("/speed", s.handleSpeed)
		})
		r.Route("/sim", func(r chi.Router) {
			r.Get("/state", s.handleState)
			r.Put("/controls", s.handleControls)
			r.Post("/reset", s.handleReset)
		})
	})
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// Drive ticks the simulation every interval until ctx is done.
func (s *Server) Drive(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Duration(s.sim.Constants().DT * float64(time.Second))
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sim.Tick()
		}
	}
}

// ListenAndServe drives the simulation and serves on addr until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.Drive(ctx, 0)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	return srv.Shutdown(shutdownCtx)
}
