// Package api exposes the simulator and the roster over a JSON HTTP API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/MJE43/tennis-sim-go/internal/montecarlo"
	"github.com/MJE43/tennis-sim-go/internal/roster"
	"github.com/MJE43/tennis-sim-go/internal/tennis"
)

// Options holds request defaults
type Options struct {
	DefaultTrials  int
	TimeoutMs      int
	Format         string
	Model          string
	TiePolicy      string
	RequestTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.DefaultTrials <= 0 {
		o.DefaultTrials = 1000
	}
	if o.Format == "" {
		o.Format = tennis.FormatClassic
	}
	if o.Model == "" {
		o.Model = tennis.ModelTight
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 60 * time.Second
	}
	return o
}

// Server handles HTTP requests
type Server struct {
	driver       *montecarlo.Driver
	roster       *roster.Store
	opts         Options
	errorHandler *ErrorHandler
	log          zerolog.Logger
	startTime    time.Time
}

// NewServer creates a new API server. store may be nil, in which case the
// roster routes answer 503 and players must be given inline.
func NewServer(driver *montecarlo.Driver, store *roster.Store, opts Options, log zerolog.Logger) *Server {
	log = log.With().Str("component", "api").Logger()
	return &Server{
		driver:       driver,
		roster:       store,
		opts:         opts.withDefaults(),
		errorHandler: NewErrorHandler(log),
		log:          log,
		startTime:    time.Now(),
	}
}

// Routes sets up the HTTP routes with proper middleware
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.RequestLoggingMiddleware)
	r.Use(s.errorHandler.RecoveryHandler)
	r.Use(middleware.Timeout(s.opts.RequestTimeout))
	r.Use(s.CORSMiddleware)

	r.Get("/health", s.handleHealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/version", s.handleVersion)
		r.Get("/presets", s.handlePresets)
		r.Post("/simulations/match", s.handleMatchSimulation)
		r.Post("/simulations/points", s.handlePointSimulation)
		r.Post("/matches", s.handleMatchReplay)

		r.Route("/players", func(r chi.Router) {
			r.Use(s.requireRoster)
			r.Get("/", s.handleListPlayers)
			r.Get("/{name}", s.handleGetPlayer)
			r.Put("/{name}", s.handlePutPlayer)
			r.Delete("/{name}", s.handleDeletePlayer)
		})
		r.Route("/formats", func(r chi.Router) {
			r.Use(s.requireRoster)
			r.Get("/", s.handleListFormats)
			r.Get("/{name}", s.handleGetFormat)
			r.Put("/{name}", s.handlePutFormat)
			r.Delete("/{name}", s.handleDeleteFormat)
		})
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Str("engine_version", EngineVersion).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info().Msg("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// writeJSON writes a JSON response with proper headers
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Engine-Version", EngineVersion)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("encode response")
	}
}

// decodeJSON reads a strict JSON body
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
