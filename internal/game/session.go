// internal/game/session.go
//
// Player-facing state machine for one Letter Wheel session.
// Responsibilities:
//   - Start games through a Generator (sampled or fixed letters).
//   - Track the tile selection, submitted words and their correctness.
//   - Show transient status messages that clear after StatusTTL.
//   - Publish an Event to subscribers after every change.
//
// Notes:
//   - Generation runs without holding the session lock; an epoch counter
//     discards results from a NewGame call that a later call superseded.
//   - Status expiry and the countdown run on an injected quartz.Clock so
//     tests can drive time explicitly.
package game

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/robalobadob/letterwheel/internal/letters"
	"github.com/robalobadob/letterwheel/internal/puzzle"
)

// StatusTTL is how long a status message stays visible.
const StatusTTL = 3000 * time.Millisecond

const subscriberBuffer = 16

var (
	ErrNotReady        = errors.New("game not ready")
	ErrInvalidPosition = errors.New("position must be between 1 and 9")
	ErrAlreadySelected = errors.New("position already selected")
	ErrSuperseded      = errors.New("superseded by a newer game")
)

// Generator produces puzzles. *puzzle.Generator satisfies it.
type Generator interface {
	Generate(ctx context.Context, opts puzzle.Options) (puzzle.Puzzle, error)
}

// Session holds the state of a single player's game.
type Session struct {
	id    string
	gen   Generator
	clock quartz.Clock

	mu         sync.Mutex
	state      State
	epoch      uint64 // bumped by every NewGame call
	layout     letters.Layout
	answers    map[string]struct{}
	selected   []int
	tried      []Tried
	status     string
	statusSeq  uint64 // bumped by every status change
	timer      int
	lastAccess time.Time
	subs       map[int]chan Event
	nextSub    int
}

// Option configures NewSession.
type Option func(*Session)

// WithClock sets the clock used for status expiry and access times.
func WithClock(c quartz.Clock) Option {
	return func(s *Session) { s.clock = c }
}

// WithID sets the session identifier (default: random UUID).
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// NewSession returns an Idle session that generates puzzles with gen.
func NewSession(gen Generator, opts ...Option) *Session {
	s := &Session{
		gen:   gen,
		clock: quartz.NewReal(),
		timer: Untimed,
		subs:  make(map[int]chan Event),
	}
	for _, o := range opts {
		o(s)
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}
	s.lastAccess = s.clock.Now()
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// NewGame generates a puzzle and resets the session onto it.
//
// The session is Loading while the generator runs. If another NewGame starts
// before this one finishes, this call's result is dropped and ErrSuperseded
// is returned. On a generation error the session goes back to Ready (if it
// already had a puzzle) or Idle.
func (s *Session) NewGame(ctx context.Context, opts Options) error {
	s.mu.Lock()
	s.epoch++
	epoch := s.epoch
	s.state = StateLoading
	s.lastAccess = s.clock.Now()
	s.publishLocked(EventState)
	s.mu.Unlock()

	p, err := s.gen.Generate(ctx, puzzle.Options{
		Letters:  opts.Letters,
		WordsMin: opts.WordsMin,
		WordsMax: opts.WordsMax,
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.epoch {
		log.Debug().Str("session", s.id).Uint64("epoch", epoch).Msg("discarding superseded game")
		return ErrSuperseded
	}
	if err != nil {
		s.state = StateIdle
		if !s.layout.IsZero() {
			s.state = StateReady
		}
		s.publishLocked(EventState)
		return err
	}

	s.layout = p.Layout
	s.answers = make(map[string]struct{}, len(p.Words))
	for _, w := range p.Words {
		s.answers[w] = struct{}{}
	}
	s.selected = nil
	s.tried = append([]Tried{}, opts.Tried...)
	s.timer = Untimed
	if opts.Timer != nil {
		s.timer = *opts.Timer
	}
	s.state = StateReady
	s.publishLocked(EventState)
	return nil
}

// Select appends a tile position to the current selection.
func (s *Session) Select(pos int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady {
		return ErrNotReady
	}
	if pos < 1 || pos > letters.Size {
		return ErrInvalidPosition
	}
	if lo.Contains(s.selected, pos) {
		return ErrAlreadySelected
	}
	s.selected = append(s.selected, pos)
	s.lastAccess = s.clock.Now()
	s.publishLocked(EventSelection)
	return nil
}

// Deselect removes a tile position from the selection. Unselected
// positions are ignored.
func (s *Session) Deselect(pos int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady {
		return ErrNotReady
	}
	if pos < 1 || pos > letters.Size {
		return ErrInvalidPosition
	}
	if !lo.Contains(s.selected, pos) {
		return nil
	}
	s.selected = lo.Without(s.selected, pos)
	s.lastAccess = s.clock.Now()
	s.publishLocked(EventSelection)
	return nil
}

// ClearSelection empties the selection.
func (s *Session) ClearSelection() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady {
		return ErrNotReady
	}
	s.selected = nil
	s.lastAccess = s.clock.Now()
	s.publishLocked(EventSelection)
	return nil
}

// Submit checks the selected letters as a word.
//
// Rules, in order:
//   - fewer than 4 letters → "Too short", selection kept;
//   - center tile not selected → "Missing middle letter", selection kept;
//   - word already tried → "Already tried", selection kept;
//   - otherwise the word is recorded, the selection cleared, and the status
//     set to "Nice!" or "Please try again.".
//
// Returns whether the word was a new correct answer.
func (s *Session) Submit() (bool, error) {
	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return false, ErrNotReady
	}
	s.lastAccess = s.clock.Now()
	correct, msg := s.submitLocked()
	seq := s.setStatusLocked(msg)
	s.mu.Unlock()

	s.expireStatus(seq)
	return correct, nil
}

func (s *Session) submitLocked() (bool, string) {
	if len(s.selected) < letters.MinWordLen {
		return false, StatusTooShort
	}
	if !lo.Contains(s.selected, letters.CenterPos) {
		return false, StatusMissingMiddle
	}
	word := s.currentWordLocked()
	if lo.ContainsBy(s.tried, func(t Tried) bool { return t.Word == word }) {
		return false, StatusAlreadyTried
	}

	_, correct := s.answers[word]
	s.tried = append(s.tried, Tried{Word: word, Correct: correct})
	s.selected = nil
	s.publishLocked(EventTried)
	if correct {
		return true, StatusCorrect
	}
	return false, StatusIncorrect
}

// currentWordLocked spells the selection in entry order.
func (s *Session) currentWordLocked() string {
	b := make([]byte, len(s.selected))
	for i, pos := range s.selected {
		b[i] = s.layout.At(pos)
	}
	return string(b)
}

// setStatusLocked replaces the status and returns its sequence number.
func (s *Session) setStatusLocked(msg string) uint64 {
	s.status = msg
	s.statusSeq++
	s.publishLocked(EventStatus)
	return s.statusSeq
}

// expireStatus clears the status after StatusTTL unless a newer message
// replaced it in the meantime. Must be called without s.mu held.
func (s *Session) expireStatus(seq uint64) {
	s.clock.AfterFunc(StatusTTL, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.statusSeq != seq {
			return
		}
		s.status = ""
		s.publishLocked(EventStatus)
	})
}

// Tick decrements a running countdown by one second. It returns the
// remaining time and whether anything changed.
func (s *Session) Tick() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady || s.timer <= 0 {
		return s.timer, false
	}
	s.timer--
	s.publishLocked(EventTimer)
	return s.timer, true
}

// State returns the lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Layout returns the current letters.
func (s *Session) Layout() letters.Layout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layout
}

// Selection returns a copy of the selected positions in entry order.
func (s *Session) Selection() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int{}, s.selected...)
}

// Tried returns a copy of the submission history in submission order.
func (s *Session) Tried() []Tried {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Tried{}, s.tried...)
}

// TriedSorted returns the submission history sorted by word.
func (s *Session) TriedSorted() []Tried {
	out := s.Tried()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Word < out[j].Word })
	return out
}

// Status returns the visible status message ("" when none).
func (s *Session) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Timer returns the countdown in seconds, or Untimed.
func (s *Session) Timer() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer
}

// WordCount returns the size of the answer key.
func (s *Session) WordCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.answers)
}

// LastAccess reports when the session was last started, played or watched.
// A session with live subscribers counts as accessed now.
func (s *Session) LastAccess() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.subs) > 0 {
		return s.clock.Now()
	}
	return s.lastAccess
}

// Snapshot returns a spoiler-free view of the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		ID:        s.id,
		State:     s.state,
		WordCount: len(s.answers),
		Found:     lo.CountBy(s.tried, func(t Tried) bool { return t.Correct }),
		Selected:  append([]int{}, s.selected...),
		Tried:     append([]Tried{}, s.tried...),
		Status:    s.status,
		Timer:     s.timer,
	}
	if !s.layout.IsZero() {
		snap.Letters = s.layout.String()
		snap.Center = letters.CenterPos
		snap.Current = s.currentWordLocked()
	}
	return snap
}

// Subscribe registers for change events. Events are dropped for a
// subscriber whose buffer is full. The returned func unsubscribes and
// closes the channel.
func (s *Session) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.lastAccess = s.clock.Now()
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			close(ch)
			s.lastAccess = s.clock.Now()
			s.mu.Unlock()
		})
	}
}

func (s *Session) publishLocked(kind EventKind) {
	if len(s.subs) == 0 {
		return
	}
	ev := Event{Kind: kind, Snapshot: s.snapshotLocked()}
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
