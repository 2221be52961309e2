package puzzle

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/letterwheel/internal/letters"
	"github.com/robalobadob/letterwheel/internal/words"
)

// Options controls a single generation.
type Options struct {
	// Letters, when set, fixes the layout; sampling is skipped and the answer
	// key is computed for the letter at position 5.
	Letters *letters.Layout
	// WordsMin and WordsMax bound the answer count for sampled puzzles.
	WordsMin int
	WordsMax int
}

// Puzzle is a finished layout with its answer key.
type Puzzle struct {
	Layout letters.Layout
	Words  []string // sorted; every word contains Layout.Center()
}

// Generator runs the full pipeline against one dictionary.
type Generator struct {
	matcher  *Matcher
	selector *Selector
}

type genConfig struct {
	rng         *rand.Rand
	maxAttempts int
}

// GenOption configures NewGenerator.
type GenOption func(*genConfig)

// WithRand sets the random source used for sampling.
func WithRand(rng *rand.Rand) GenOption {
	return func(c *genConfig) { c.rng = rng }
}

// WithSeed seeds a PCG source; equal seeds give equal puzzles for the same
// dictionary.
func WithSeed(seed uint64) GenOption {
	return WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// WithMaxAttempts caps the number of pools sampled per generation.
func WithMaxAttempts(n int) GenOption {
	return func(c *genConfig) { c.maxAttempts = n }
}

// NewGenerator wires Sampler, Matcher and Selector over store.
func NewGenerator(store words.Store, opts ...GenOption) *Generator {
	cfg := genConfig{}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.rng == nil {
		cfg.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	matcher := NewMatcher(store)
	return &Generator{
		matcher:  matcher,
		selector: NewSelector(NewSampler(store, cfg.rng), matcher, cfg.maxAttempts),
	}
}

// Generate produces a puzzle for opts.
func (g *Generator) Generate(ctx context.Context, opts Options) (Puzzle, error) {
	start := time.Now()

	if opts.Letters != nil {
		layout := *opts.Letters
		matched, err := g.matcher.Match(ctx, layout.Multiset())
		if err != nil {
			return Puzzle{}, err
		}
		p := Puzzle{Layout: layout, Words: containing(matched, layout.Center())}
		log.Info().Str("letters", layout.String()).Int("words", len(p.Words)).
			Int64("elapsedMs", time.Since(start).Milliseconds()).Msg("fixed puzzle loaded")
		return p, nil
	}

	pool, center, answers, err := g.selector.SelectCenter(ctx, opts.WordsMin, opts.WordsMax)
	if err != nil {
		return Puzzle{}, err
	}
	layout, err := Build(pool, center)
	if err != nil {
		return Puzzle{}, err
	}
	log.Info().Str("letters", layout.String()).Int("words", len(answers)).
		Int64("elapsedMs", time.Since(start).Milliseconds()).Msg("puzzle generated")
	return Puzzle{Layout: layout, Words: answers}, nil
}
