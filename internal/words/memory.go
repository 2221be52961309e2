// internal/words/memory.go
//
// In-memory implementation of Store.
// Keeps the normalised word list sorted, plus the 9-letter subset, so that
// NineAt is stable for a given list. Candidates applies the exact
// multiset test, so it never over-approximates.

package words

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/samber/lo"

	"github.com/robalobadob/letterwheel/internal/letters"
)

// MemoryStore serves a fixed word list from memory.
type MemoryStore struct {
	mu     sync.RWMutex // guards closed
	all    []string     // sorted playable words
	nine   []string     // sorted 9-letter words
	closed bool
}

// NewMemoryStore normalises list and builds a MemoryStore from it.
func NewMemoryStore(list []string) *MemoryStore {
	all := Normalize(list)
	sort.Strings(all)
	nine := lo.Filter(all, func(w string, _ int) bool { return len(w) == letters.Size })
	return &MemoryStore{all: all, nine: nine}
}

func (m *MemoryStore) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return fmt.Errorf("%w: memory store closed", ErrStoreUnavailable)
	}
	return nil
}

// CountNine implements Store.
func (m *MemoryStore) CountNine(ctx context.Context) (int, error) {
	if err := m.check(ctx); err != nil {
		return 0, err
	}
	return len(m.nine), nil
}

// NineAt implements Store.
func (m *MemoryStore) NineAt(ctx context.Context, n int) (string, error) {
	if err := m.check(ctx); err != nil {
		return "", err
	}
	if n < 0 || n >= len(m.nine) {
		return "", fmt.Errorf("words: nine-letter index %d out of range [0,%d)", n, len(m.nine))
	}
	return m.nine[n], nil
}

// Candidates implements Store.
func (m *MemoryStore) Candidates(ctx context.Context, pool letters.Multiset, minLen, maxLen int) ([]string, error) {
	if err := m.check(ctx); err != nil {
		return nil, err
	}
	return lo.Filter(m.all, func(w string, _ int) bool {
		return len(w) >= minLen && len(w) <= maxLen && pool.Contains(w)
	}), nil
}

// Stats implements Store.
func (m *MemoryStore) Stats(ctx context.Context) (Stats, error) {
	if err := m.check(ctx); err != nil {
		return Stats{}, err
	}
	return Stats{Words: len(m.all), Nine: len(m.nine)}, nil
}

// Close marks the store unavailable; further calls fail with ErrStoreUnavailable.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}
