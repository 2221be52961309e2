// internal/game/types.go
//
// Core type definitions for the game session.
// Defines:
//   - State:    Idle → Loading → Ready lifecycle.
//   - Tried:    one submitted word and whether it was an answer.
//   - Options:  inputs to NewGame (fixed letters, range, timer, continuation).
//   - Snapshot: spoiler-free view of a session for presentation layers.
//   - Event:    change notification published to subscribers.

package game

import (
	"fmt"

	"github.com/robalobadob/letterwheel/internal/letters"
)

// State is the session lifecycle state.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
)

// String returns the JSON/display value for the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	}
	return "unknown"
}

// MarshalText lets State encode as its name.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText parses a state name written by MarshalText.
func (s *State) UnmarshalText(b []byte) error {
	switch string(b) {
	case "idle":
		*s = StateIdle
	case "loading":
		*s = StateLoading
	case "ready":
		*s = StateReady
	default:
		return fmt.Errorf("unknown state %q", b)
	}
	return nil
}

// Status messages shown to the player.
const (
	StatusTooShort      = "Too short"
	StatusMissingMiddle = "Missing middle letter"
	StatusAlreadyTried  = "Already tried"
	StatusCorrect       = "Nice!"
	StatusIncorrect     = "Please try again."
)

// Untimed is the Timer value for games without a countdown.
const Untimed = -1

// Tried is one submitted word.
type Tried struct {
	Word    string `json:"word"`
	Correct bool   `json:"correct"`
}

// Options configures NewGame.
type Options struct {
	Letters  *letters.Layout // fixed puzzle; nil samples a new one
	WordsMin int
	WordsMax int
	Timer    *int    // seconds; nil means Untimed
	Tried    []Tried // continuation list
}

// Snapshot is a read-only view of a session. It carries the answer count
// but never the answers.
type Snapshot struct {
	ID        string  `json:"id"`
	State     State   `json:"state"`
	Letters   string  `json:"letters"`
	Center    int     `json:"center"` // 1-based position of the center letter
	WordCount int     `json:"wordCount"`
	Found     int     `json:"found"`
	Selected  []int   `json:"selected"`
	Current   string  `json:"current"` // letters of the current selection
	Tried     []Tried `json:"tried"`
	Status    string  `json:"status"`
	Timer     int     `json:"timer"`
}

// EventKind names what changed.
type EventKind string

const (
	EventState     EventKind = "state"
	EventSelection EventKind = "selection"
	EventTried     EventKind = "tried"
	EventStatus    EventKind = "status"
	EventTimer     EventKind = "timer"
)

// Event is published after every session mutation.
type Event struct {
	Kind     EventKind `json:"kind"`
	Snapshot Snapshot  `json:"snapshot"`
}
