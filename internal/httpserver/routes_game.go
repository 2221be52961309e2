// internal/httpserver/routes_game.go
//
// HTTP routes for playing a session.
//   - POST /game/new            → create a session (or restart one) and generate a puzzle
//   - GET  /game/{id}           → snapshot
//   - POST /game/{id}/select    → add a tile to the selection
//   - POST /game/{id}/deselect  → remove a tile from the selection
//   - POST /game/{id}/clear     → clear the selection
//   - POST /game/{id}/submit    → submit the selection as a word
//   - GET  /game/{id}/tried     → tried words sorted alphabetically
//   - GET  /game/{id}/share     → signed share code for the layout
//   - GET  /game/{id}/events    → websocket event stream (events.go)
//
// Answers never leave the server; snapshots carry only the answer count.

package httpserver

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/samber/lo"

	"github.com/robalobadob/letterwheel/internal/game"
	"github.com/robalobadob/letterwheel/internal/letters"
	"github.com/robalobadob/letterwheel/internal/puzzle"
)

func (s *Server) mountGame(r chi.Router) {
	r.Route("/game", func(r chi.Router) {
		// Event streams hold the connection open, so no handler timeout.
		r.Get("/{id}/events", s.handleEvents)

		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(handlerTimeout))
			r.With(s.limits.middleware).Post("/new", s.handleNewGame)
			r.Get("/{id}", s.handleSnapshot)
			r.Post("/{id}/select", s.handleSelect)
			r.Post("/{id}/deselect", s.handleDeselect)
			r.Post("/{id}/clear", s.handleClear)
			r.Post("/{id}/submit", s.handleSubmit)
			r.Get("/{id}/tried", s.handleTried)
			r.Get("/{id}/share", s.handleShare)
		})
	})
}

// newGameReq is the payload for POST /game/new. Every field is optional.
type newGameReq struct {
	GameID     string       `json:"gameId"`     // restart this session instead of creating one
	Letters    string       `json:"letters"`    // fixed 9-letter layout, center at position 5
	Share      string       `json:"share"`      // share code; takes precedence over letters
	Difficulty string       `json:"difficulty"` // easy | medium | hard
	WordsMin   int          `json:"wordsMin"`
	WordsMax   int          `json:"wordsMax"`
	Timer      *int         `json:"timer"` // seconds; absent or negative means untimed
	Tried      []game.Tried `json:"tried"` // continuation list
}

// gameOptions resolves a request into session options.
func (s *Server) gameOptions(req newGameReq) (game.Options, error) {
	var opts game.Options

	switch {
	case req.Share != "":
		l, err := s.share.Parse(req.Share)
		if err != nil {
			return opts, err
		}
		opts.Letters = &l
	case req.Letters != "":
		l, err := letters.ParseLayout(req.Letters)
		if err != nil {
			return opts, err
		}
		opts.Letters = &l
	}

	rng := s.cfg.DefaultRange
	switch {
	case req.Difficulty != "":
		var err error
		if rng, err = puzzle.Difficulty(req.Difficulty); err != nil {
			return opts, err
		}
	case req.WordsMin != 0 || req.WordsMax != 0:
		rng = puzzle.Range{Min: req.WordsMin, Max: req.WordsMax}
	}
	opts.WordsMin, opts.WordsMax = rng.Min, rng.Max

	if req.Timer != nil && *req.Timer >= 0 {
		t := *req.Timer
		opts.Timer = &t
	}
	// Continuation entries that are not words are dropped; repeats keep the first.
	tried := lo.FilterMap(req.Tried, func(t game.Tried, _ int) (game.Tried, bool) {
		t.Word = strings.ToLower(strings.TrimSpace(t.Word))
		return t, t.Word != "" && letters.IsAlpha(t.Word)
	})
	opts.Tried = lo.UniqBy(tried, func(t game.Tried) string { return t.Word })
	return opts, nil
}

// handleNewGame generates a puzzle for a new or existing session.
// New sessions are registered only once their first puzzle is ready.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	opts, err := s.gameOptions(req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	var sess *game.Session
	isNew := req.GameID == ""
	if isNew {
		sess = game.NewSession(s.gen, game.WithClock(s.clock))
	} else if sess, err = s.store.Get(r.Context(), req.GameID); err != nil {
		writeDomainError(w, r, err)
		return
	}

	if err := sess.NewGame(r.Context(), opts); err != nil {
		writeDomainError(w, r, err)
		return
	}
	if isNew {
		if err := s.store.Save(r.Context(), sess); err != nil {
			writeDomainError(w, r, err)
			return
		}
	}
	writeJSON(w, sess.Snapshot())
}

// session loads the {id} session or writes the error response.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*game.Session, bool) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if sess, ok := s.session(w, r); ok {
		writeJSON(w, sess.Snapshot())
	}
}

// positionReq is the payload for select/deselect.
type positionReq struct {
	Position int `json:"position"`
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	s.withPosition(w, r, (*game.Session).Select)
}

func (s *Server) handleDeselect(w http.ResponseWriter, r *http.Request) {
	s.withPosition(w, r, (*game.Session).Deselect)
}

func (s *Server) withPosition(w http.ResponseWriter, r *http.Request, apply func(*game.Session, int) error) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req positionReq
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if err := apply(sess, req.Position); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, sess.Snapshot())
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := sess.ClearSelection(); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, sess.Snapshot())
}

// submitRes is returned by POST /game/{id}/submit.
type submitRes struct {
	Correct  bool          `json:"correct"`
	Snapshot game.Snapshot `json:"snapshot"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	correct, err := sess.Submit()
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, submitRes{Correct: correct, Snapshot: sess.Snapshot()})
}

// handleTried returns the scoreboard: tried words in alphabetical order.
func (s *Server) handleTried(w http.ResponseWriter, r *http.Request) {
	if sess, ok := s.session(w, r); ok {
		writeJSON(w, sess.TriedSorted())
	}
}

// shareRes is returned by GET /game/{id}/share.
type shareRes struct {
	Letters string `json:"letters"`
	Code    string `json:"code"`
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	layout := sess.Layout()
	if layout.IsZero() {
		writeDomainError(w, r, game.ErrNotReady)
		return
	}
	code, err := s.share.Sign(layout)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, shareRes{Letters: layout.String(), Code: code})
}
