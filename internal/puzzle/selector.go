package puzzle

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/letterwheel/internal/letters"
)

// DefaultMaxAttempts bounds how many pools SelectCenter samples.
const DefaultMaxAttempts = 1000

var (
	// ErrNoSuitablePool is returned when no sampled pool had a center letter
	// whose word count fell in range within the attempt budget.
	ErrNoSuitablePool = errors.New("no suitable pool found")

	// ErrInvalidRange is returned for a negative or inverted word-count range.
	ErrInvalidRange = errors.New("invalid word count range")

	errNoQualifyingCenter = errors.New("no qualifying center letter")
)

// Selector picks a pool and center letter that satisfy a word-count range.
type Selector struct {
	sampler     *Sampler
	matcher     *Matcher
	maxAttempts int
}

// NewSelector returns a Selector. maxAttempts <= 0 means DefaultMaxAttempts.
func NewSelector(sampler *Sampler, matcher *Matcher, maxAttempts int) *Selector {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Selector{sampler: sampler, matcher: matcher, maxAttempts: maxAttempts}
}

// SelectCenter samples pools until one has a center letter whose matching
// word count lies in [wordsMin, wordsMax]. It returns the pool as sampled
// (center not yet moved), the center, and the words containing the center.
func (s *Selector) SelectCenter(ctx context.Context, wordsMin, wordsMax int) (letters.Layout, byte, []string, error) {
	if wordsMin < 0 || wordsMin > wordsMax {
		return letters.Layout{}, 0, nil, fmt.Errorf("%w: [%d, %d]", ErrInvalidRange, wordsMin, wordsMax)
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return letters.Layout{}, 0, nil, err
		}
		pool, err := s.sampler.SamplePool(ctx)
		if err != nil {
			return letters.Layout{}, 0, nil, err
		}
		matched, err := s.matcher.Match(ctx, pool.Multiset())
		if err != nil {
			return letters.Layout{}, 0, nil, err
		}
		center, err := chooseCenter(pool, matched, wordsMin, wordsMax)
		if errors.Is(err, errNoQualifyingCenter) {
			log.Debug().Int("attempt", attempt).Str("pool", pool.String()).Int("matched", len(matched)).Msg("resampling pool")
			continue
		}
		answers := containing(matched, center)
		log.Debug().Int("attempts", attempt).Str("pool", pool.String()).Str("center", string(center)).
			Int("words", len(answers)).Msg("center selected")
		return pool, center, answers, nil
	}
	return letters.Layout{}, 0, nil, fmt.Errorf("%w after %d attempts for [%d, %d]",
		ErrNoSuitablePool, s.maxAttempts, wordsMin, wordsMax)
}

// chooseCenter scans unique letters in first-appearance order and returns
// the last one whose count of containing words is within range.
func chooseCenter(pool letters.Layout, matched []string, wordsMin, wordsMax int) (byte, error) {
	var center byte
	for _, c := range pool.Unique() {
		n := len(containing(matched, c))
		if n >= wordsMin && n <= wordsMax {
			center = c
		}
	}
	if center == 0 {
		return 0, errNoQualifyingCenter
	}
	return center, nil
}
