// internal/httpserver/server.go
//
// HTTP server wiring for the Letter Wheel backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Game endpoints: mounted under /game (see routes_game.go).
//   - Daily puzzle endpoint: mounted under /daily (see routes_daily.go).
//   - Mapping of domain errors to JSON error bodies.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled.
//   - Generation endpoints are rate limited per client IP.
//   - The websocket event stream is mounted outside the handler timeout.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/coder/quartz"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/letterwheel/internal/daily"
	"github.com/robalobadob/letterwheel/internal/game"
	"github.com/robalobadob/letterwheel/internal/letters"
	"github.com/robalobadob/letterwheel/internal/puzzle"
	"github.com/robalobadob/letterwheel/internal/store"
	"github.com/robalobadob/letterwheel/internal/words"
)

const handlerTimeout = 10 * time.Second

// Config carries the tunables the server needs from the environment.
type Config struct {
	ShareSecret    []byte
	DailySalt      string
	DailyRange     puzzle.Range // answer-count range for daily puzzles
	DefaultRange   puzzle.Range // used when /game/new names no range
	MaxAttempts    int
	RateLimitRPS   int
	RateLimitBurst int
}

// Server bundles router, session registry, generator and dictionary.
type Server struct {
	r      *chi.Mux
	store  store.Store
	gen    game.Generator
	dict   words.Store
	daily  *daily.Store // nil disables /daily
	clock  quartz.Clock
	cfg    Config
	share  shareCodec
	limits *limiterSet
}

// Option configures New.
type Option func(*Server)

// WithClock sets the clock passed to sessions and used for share codes,
// daily dates and rate-limiter bookkeeping.
func WithClock(c quartz.Clock) Option {
	return func(s *Server) { s.clock = c }
}

// WithDaily enables the /daily endpoints backed by ds.
func WithDaily(ds *daily.Store) Option {
	return func(s *Server) { s.daily = ds }
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, gen game.Generator, dict words.Store, cfg Config, opts ...Option) *Server {
	s := &Server{r: chi.NewRouter(), store: st, gen: gen, dict: dict, cfg: cfg, clock: quartz.NewReal()}
	for _, o := range opts {
		o(s)
	}
	s.share = shareCodec{secret: cfg.ShareSecret, clock: s.clock}
	s.limits = newLimiterSet(cfg.RateLimitRPS, cfg.RateLimitBurst, s.clock)

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(jsonContentType) // default JSON responses
	s.r.Use(corsFromEnv)     // credentials-friendly CORS

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(handlerTimeout)) // bound handler time

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"service":"letterwheel","endpoints":["/health","/debug/words","POST /game/new","/game/{id}/*","POST /daily/new"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"ok":true}`))
		})
		r.Get("/debug/words", s.handleWordStats)

		s.mountDaily(r)
	})
	s.mountGame(s.r)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Start begins serving HTTP on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 5 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Sweep drops sessions and rate limiters idle since before cutoff.
func (s *Server) Sweep(cutoff time.Time) (sessions, limiters int) {
	return s.store.Sweep(cutoff), s.limits.sweep(cutoff)
}

// handleWordStats reports dictionary counts.
func (s *Server) handleWordStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.dict.Stats(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	_ = json.NewEncoder(w).Encode(st)
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := clientOrigin()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientOrigin() string {
	if v := os.Getenv("CLIENT_ORIGIN"); v != "" {
		return v
	}
	return "http://localhost:5173"
}

// ------------------------------ helpers ------------------------------------

// decodeBody reads an optional JSON body into v. An empty body is not an error.
func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

// writeError writes {"error": code} with status.
func writeError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}

// writeDomainError maps engine errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := http.StatusInternalServerError, "internal"
	switch {
	case errors.Is(err, store.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, errInvalidShare):
		status, code = http.StatusBadRequest, "invalid_share"
	case errors.Is(err, letters.ErrInvalidLayout):
		status, code = http.StatusBadRequest, "invalid_letters"
	case errors.Is(err, puzzle.ErrInvalidRange):
		status, code = http.StatusBadRequest, "invalid_range"
	case errors.Is(err, game.ErrInvalidPosition):
		status, code = http.StatusBadRequest, "invalid_position"
	case errors.Is(err, game.ErrAlreadySelected):
		status, code = http.StatusBadRequest, "already_selected"
	case errors.Is(err, game.ErrNotReady):
		status, code = http.StatusConflict, "not_ready"
	case errors.Is(err, game.ErrSuperseded):
		status, code = http.StatusConflict, "superseded"
	case errors.Is(err, context.DeadlineExceeded):
		status, code = http.StatusGatewayTimeout, "timeout"
	case errors.Is(err, context.Canceled):
		status, code = http.StatusRequestTimeout, "canceled"
	case errors.Is(err, puzzle.ErrNoSuitablePool):
		status, code = http.StatusUnprocessableEntity, "no_suitable_pool"
	case errors.Is(err, puzzle.ErrNoSeedWords):
		status, code = http.StatusServiceUnavailable, "no_seed_words"
	case errors.Is(err, words.ErrStoreUnavailable):
		status, code = http.StatusServiceUnavailable, "dictionary_unavailable"
	}
	ev := log.Debug()
	if status >= http.StatusInternalServerError {
		ev = log.Warn()
	}
	ev.Err(err).Str("path", r.URL.Path).Int("status", status).Msg("request failed")
	writeError(w, status, code)
}
