// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily puzzle.
//   - POST /daily/new → start a session on today's puzzle
//
// Every player gets the same layout for a UTC date. The layout is generated
// once from a salted date seed and cached in the daily store, so it stays
// stable across restarts and dictionary reloads. Sessions themselves are
// ordinary game sessions and are played through /game/{id}/*.

package httpserver

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/letterwheel/internal/daily"
	"github.com/robalobadob/letterwheel/internal/game"
	"github.com/robalobadob/letterwheel/internal/letters"
	"github.com/robalobadob/letterwheel/internal/puzzle"
)

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.With(s.limits.middleware).Post("/new", s.handleDailyNew)
	})
}

// dailyNewReq is the optional payload for /daily/new.
type dailyNewReq struct {
	Timer *int         `json:"timer"`
	Tried []game.Tried `json:"tried"` // resume a saved daily session
}

// dailyNewRes is returned by /daily/new.
type dailyNewRes struct {
	Date     string        `json:"date"`
	Snapshot game.Snapshot `json:"snapshot"`
}

// handleDailyNew creates a session on today's puzzle.
func (s *Server) handleDailyNew(w http.ResponseWriter, r *http.Request) {
	if s.daily == nil {
		writeError(w, http.StatusServiceUnavailable, "daily_disabled")
		return
	}
	var req dailyNewReq
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	p, err := s.dailyPuzzle(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	layout, err := letters.ParseLayout(p.Letters)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	opts, err := s.gameOptions(newGameReq{Timer: req.Timer, Tried: req.Tried})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	opts.Letters = &layout

	sess := game.NewSession(s.gen, game.WithClock(s.clock))
	if err := sess.NewGame(r.Context(), opts); err != nil {
		writeDomainError(w, r, err)
		return
	}
	if err := s.store.Save(r.Context(), sess); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, dailyNewRes{Date: p.Date, Snapshot: sess.Snapshot()})
}

// dailyPuzzle returns today's cached puzzle, generating and storing it on
// the first request of the day.
func (s *Server) dailyPuzzle(ctx context.Context) (daily.Puzzle, error) {
	now := s.clock.Now()
	date := daily.DateKey(now)

	if p, ok, err := s.daily.Get(ctx, date); err != nil || ok {
		return p, err
	}

	gen := puzzle.NewGenerator(s.dict,
		puzzle.WithSeed(daily.Seed(now, s.cfg.DailySalt)),
		puzzle.WithMaxAttempts(s.cfg.MaxAttempts),
	)
	pz, err := gen.Generate(ctx, puzzle.Options{WordsMin: s.cfg.DailyRange.Min, WordsMax: s.cfg.DailyRange.Max})
	if err != nil {
		return daily.Puzzle{}, err
	}
	p, err := s.daily.Put(ctx, daily.Puzzle{
		Date:      date,
		Letters:   pz.Layout.String(),
		WordsMin:  s.cfg.DailyRange.Min,
		WordsMax:  s.cfg.DailyRange.Max,
		WordCount: len(pz.Words),
	})
	if err != nil {
		return daily.Puzzle{}, err
	}
	log.Info().Str("date", date).Str("letters", p.Letters).Int("words", p.WordCount).Msg("daily puzzle created")
	return p, nil
}
