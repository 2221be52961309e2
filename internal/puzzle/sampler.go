package puzzle

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"

	"github.com/robalobadob/letterwheel/internal/letters"
	"github.com/robalobadob/letterwheel/internal/words"
)

// ErrNoSeedWords is returned when the dictionary has no 9-letter words.
var ErrNoSeedWords = errors.New("dictionary has no 9-letter words")

// Sampler draws shuffled 9-letter pools from the dictionary.
// A seeded *rand.Rand makes the sequence of pools reproducible.
type Sampler struct {
	store words.Store

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// NewSampler returns a Sampler using rng for every random choice.
func NewSampler(store words.Store, rng *rand.Rand) *Sampler {
	return &Sampler{store: store, rng: rng}
}

// SamplePool picks a uniformly random 9-letter word and returns its letters
// in a uniformly random order.
func (s *Sampler) SamplePool(ctx context.Context) (letters.Layout, error) {
	var l letters.Layout

	n, err := s.store.CountNine(ctx)
	if err != nil {
		return l, err
	}
	if n == 0 {
		return l, ErrNoSeedWords
	}

	s.mu.Lock()
	pick := s.rng.IntN(n)
	s.mu.Unlock()

	word, err := s.store.NineAt(ctx, pick)
	if err != nil {
		return l, err
	}
	if l, err = letters.ParseLayout(word); err != nil {
		return l, err
	}

	s.mu.Lock()
	shuffle(s.rng, &l)
	s.mu.Unlock()
	return l, nil
}

// shuffle is a Fisher–Yates shuffle: walk from the last index down to 1,
// swapping each slot with a uniformly chosen index in [0, i].
func shuffle(rng *rand.Rand, l *letters.Layout) {
	for i := len(l) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		l[i], l[j] = l[j], l[i]
	}
}
