package puzzle

import (
	"fmt"
	"strings"
)

// Range is an inclusive answer-count range.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Difficulty presets offered on the new-game screen.
var difficulties = map[string]Range{
	"easy":   {Min: 1, Max: 49},
	"medium": {Min: 50, Max: 99},
	"hard":   {Min: 100, Max: 999},
}

// Difficulty looks up a preset by name (case-insensitive).
func Difficulty(name string) (Range, error) {
	r, ok := difficulties[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Range{}, fmt.Errorf("%w: unknown difficulty %q", ErrInvalidRange, name)
	}
	return r, nil
}
