// internal/letters/letters.go
//
// Letter pool primitives shared by the puzzle generator and the game session.
// Defines:
//   - Layout:   nine letters assigned to positions 1–9 (position 5 is the center).
//   - Multiset: per-letter counts (a–z) used for sub-permutation matching.
//
// All words handled here are lowercase ASCII a–z; callers normalise input
// before it reaches this package.
package letters

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// Size is the number of letters in a pool.
	Size = 9
	// CenterPos is the 1-based position of the center letter.
	CenterPos = 5
	// MinWordLen and MaxWordLen bound every playable word.
	MinWordLen = 4
	MaxWordLen = Size
)

// ErrInvalidLayout is returned when a layout is not exactly nine a–z letters.
var ErrInvalidLayout = errors.New("layout must be 9 letters a-z")

// Layout holds the pool letters by position. Index 0 is position 1.
type Layout [Size]byte

// ParseLayout validates and lowercases a 9-letter string into a Layout.
func ParseLayout(s string) (Layout, error) {
	var l Layout
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != Size || !IsAlpha(s) {
		return l, fmt.Errorf("%w: %q", ErrInvalidLayout, s)
	}
	copy(l[:], s)
	return l, nil
}

// At returns the letter at a 1-based position.
func (l Layout) At(pos int) byte { return l[pos-1] }

// Center returns the letter at CenterPos.
func (l Layout) Center() byte { return l[CenterPos-1] }

// String returns the letters in position order.
func (l Layout) String() string { return string(l[:]) }

// IsZero reports whether the layout was never filled.
func (l Layout) IsZero() bool { return l == Layout{} }

// Multiset counts the layout's letters.
func (l Layout) Multiset() Multiset { return Count(l.String()) }

// Unique returns each distinct letter once, in order of first appearance.
func (l Layout) Unique() []byte {
	var seen [26]bool
	out := make([]byte, 0, Size)
	for _, c := range l {
		if seen[idx(c)] {
			continue
		}
		seen[idx(c)] = true
		out = append(out, c)
	}
	return out
}

// Index returns the 1-based position of the first occurrence of c, or 0.
func (l Layout) Index(c byte) int {
	for i, x := range l {
		if x == c {
			return i + 1
		}
	}
	return 0
}

// Multiset maps each letter a–z to the number of times it is available.
type Multiset [26]int

// Count builds the multiset of a lowercase word. Non a–z bytes are ignored.
func Count(word string) Multiset {
	var m Multiset
	for i := 0; i < len(word); i++ {
		if c := word[i]; c >= 'a' && c <= 'z' {
			m[idx(c)]++
		}
	}
	return m
}

// Contains reports whether word can be spelled from m: every letter of word
// occurs in word no more often than in m.
func (m Multiset) Contains(word string) bool {
	var used [26]int
	for i := 0; i < len(word); i++ {
		c := word[i]
		if c < 'a' || c > 'z' {
			return false
		}
		j := idx(c)
		used[j]++
		if used[j] > m[j] {
			return false
		}
	}
	return true
}

// Of returns the count for letter c.
func (m Multiset) Of(c byte) int {
	if c < 'a' || c > 'z' {
		return 0
	}
	return m[idx(c)]
}

// Letters returns the distinct letters present in m, alphabetically.
func (m Multiset) Letters() []byte {
	var out []byte
	for i, n := range m {
		if n > 0 {
			out = append(out, byte('a'+i))
		}
	}
	return out
}

// Playable reports whether word's length lies in [MinWordLen, MaxWordLen].
func Playable(word string) bool {
	return len(word) >= MinWordLen && len(word) <= MaxWordLen
}

// IsAlpha reports whether s consists only of lowercase a–z.
func IsAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// idx maps a lowercase ASCII letter to 0..25.
func idx(c byte) int { return int(c - 'a') }
