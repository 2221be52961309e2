// main.go
//
// Entry point for the Letter Wheel puzzle server.
// Startup:
//   - Load .env and configuration, set up zerolog.
//   - Open SQLite, apply embedded migrations, load the dictionary.
//   - Build the puzzle generator, session registry and HTTP server.
//
// Runtime (one errgroup, cancelled on SIGINT/SIGTERM or the first failure):
//   - HTTP server with graceful shutdown.
//   - Countdown ticker: ticks every timed session once per second.
//   - Sweeper: drops idle sessions and rate limiters.

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/quartz"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/letterwheel/assets"
	"github.com/robalobadob/letterwheel/internal/daily"
	"github.com/robalobadob/letterwheel/internal/game"
	"github.com/robalobadob/letterwheel/internal/httpserver"
	"github.com/robalobadob/letterwheel/internal/puzzle"
	"github.com/robalobadob/letterwheel/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, quartz.NewReal()); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("shutdown complete")
}

func setupLogging(cfg Config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func run(ctx context.Context, cfg Config, clock quartz.Clock) error {
	db, err := openDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := migrate(db, assets.Migrations()); err != nil {
		return err
	}

	dict, err := openDictionary(ctx, cfg, db)
	if err != nil {
		return err
	}
	defer dict.Close()
	if st, err := dict.Stats(ctx); err == nil {
		log.Info().Str("backend", cfg.DictBackend).Int("words", st.Words).Int("nine", st.Nine).Msg("dictionary ready")
	}

	// Both were validated by LoadConfig.
	dailyRange, _ := puzzle.Difficulty(cfg.DailyDifficulty)
	defaultRange, _ := puzzle.Difficulty(cfg.DefaultDiff)

	sessions := store.NewMemoryStore()
	srv := httpserver.New(sessions,
		puzzle.NewGenerator(dict, puzzle.WithMaxAttempts(cfg.MaxAttempts)),
		dict,
		httpserver.Config{
			ShareSecret:    []byte(cfg.ShareSecret),
			DailySalt:      cfg.DailySalt,
			DailyRange:     dailyRange,
			DefaultRange:   defaultRange,
			MaxAttempts:    cfg.MaxAttempts,
			RateLimitRPS:   cfg.RateLimitRPS,
			RateLimitBurst: cfg.RateLimitBurst,
		},
		httpserver.WithClock(clock),
		httpserver.WithDaily(daily.NewStore(db)),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Msg("starting letterwheel server")
		return srv.Start(ctx, ":"+cfg.Port)
	})
	countdowns := startCountdowns(ctx, clock, sessions)
	sweep := startSweeper(ctx, clock, srv, cfg.SessionTTL, cfg.SweepEvery)
	g.Go(func() error { return ignoreCancel(countdowns.Wait()) })
	g.Go(func() error { return ignoreCancel(sweep.Wait()) })
	return g.Wait()
}

// startCountdowns ticks every session once per second until ctx is done.
func startCountdowns(ctx context.Context, clock quartz.Clock, st store.Store) quartz.Waiter {
	return clock.TickerFunc(ctx, time.Second, func() error {
		st.Each(func(s *game.Session) {
			if left, ok := s.Tick(); ok && left == 0 {
				log.Debug().Str("session", s.ID()).Msg("countdown finished")
			}
		})
		return nil
	}, "countdown")
}

type sweeper interface {
	Sweep(cutoff time.Time) (sessions, limiters int)
}

// startSweeper drops state idle for longer than ttl, checking every period.
func startSweeper(ctx context.Context, clock quartz.Clock, sw sweeper, ttl, every time.Duration) quartz.Waiter {
	return clock.TickerFunc(ctx, every, func() error {
		sessions, limiters := sw.Sweep(clock.Now().Add(-ttl))
		if sessions+limiters > 0 {
			log.Info().Int("sessions", sessions).Int("limiters", limiters).Msg("swept idle state")
		}
		return nil
	}, "sweep")
}

func ignoreCancel(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
