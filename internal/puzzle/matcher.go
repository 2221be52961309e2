// internal/puzzle/matcher.go
//
// Puzzle generation pipeline:
//   Sampler  → draws a random 9-letter word and shuffles it into a pool.
//   Matcher  → finds every dictionary word spellable from a pool.
//   Selector → picks the center letter so the answer count lands in range,
//              resampling pools until one qualifies.
//   Build    → moves the center letter to position 5.
//   Generator ties the four together for the game session.
package puzzle

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/robalobadob/letterwheel/internal/letters"
	"github.com/robalobadob/letterwheel/internal/words"
)

// Matcher computes the valid words for a letter pool.
type Matcher struct {
	store words.Store
}

// NewMatcher returns a Matcher backed by store.
func NewMatcher(store words.Store) *Matcher {
	return &Matcher{store: store}
}

// Match returns, sorted and unique, every dictionary word of playable length
// that is multiset-contained in pool. The store's candidate list is only a
// prefilter; each candidate is re-checked here.
func (m *Matcher) Match(ctx context.Context, pool letters.Multiset) ([]string, error) {
	cands, err := m.store.Candidates(ctx, pool, letters.MinWordLen, letters.MaxWordLen)
	if err != nil {
		if errors.Is(err, words.ErrStoreUnavailable) ||
			errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", words.ErrStoreUnavailable, err)
	}
	out := lo.Uniq(lo.Filter(cands, func(w string, _ int) bool {
		return letters.Playable(w) && pool.Contains(w)
	}))
	sort.Strings(out)
	return out, nil
}

// containing returns the words that include c at least once.
func containing(list []string, c byte) []string {
	return lo.Filter(list, func(w string, _ int) bool {
		return strings.IndexByte(w, c) >= 0
	})
}
