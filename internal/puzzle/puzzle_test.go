package puzzle

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/letterwheel/internal/letters"
	"github.com/robalobadob/letterwheel/internal/words"
)

// dict: "triangles" plus words spellable from it and a few that are not.
// Containing-word counts for the triangles pool:
//
//	t:10 r:6 i:4 a:13 n:8 g:7 l:9 e:10 s:8
var dict = []string{
	"triangles", "tangle", "angle", "glean", "slant", "train", "grain", "sting",
	"least", "steal", "tales", "large", "rates", "stare", "zebra", "apple", "gin",
}

// countingStore wraps a MemoryStore, counting calls and injecting failures.
type countingStore struct {
	*words.MemoryStore
	countCalls atomic.Int32
	failWith   error
	extra      []string // returned by Candidates on top of the real list
}

func (c *countingStore) CountNine(ctx context.Context) (int, error) {
	c.countCalls.Add(1)
	if c.failWith != nil {
		return 0, c.failWith
	}
	return c.MemoryStore.CountNine(ctx)
}

func (c *countingStore) Candidates(ctx context.Context, pool letters.Multiset, minLen, maxLen int) ([]string, error) {
	if c.failWith != nil {
		return nil, c.failWith
	}
	out, err := c.MemoryStore.Candidates(ctx, pool, minLen, maxLen)
	return append(out, c.extra...), err
}

func newStore(list ...string) *countingStore {
	if len(list) == 0 {
		list = dict
	}
	return &countingStore{MemoryStore: words.NewMemoryStore(list)}
}

func mustLayout(t *testing.T, s string) letters.Layout {
	t.Helper()
	l, err := letters.ParseLayout(s)
	require.NoError(t, err)
	return l
}

func TestMatchIsExactEvenWhenStoreOverApproximates(t *testing.T) {
	s := newStore()
	s.extra = []string{"tattle", "gin", "strangles", "slant"}
	m := NewMatcher(s)

	got, err := m.Match(context.Background(), letters.Count("triangles"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"angle", "glean", "grain", "large", "least", "rates", "slant",
		"stare", "steal", "sting", "tales", "tangle", "train", "triangles",
	}, got)

	pool := letters.Count("triangles")
	for _, w := range got {
		assert.True(t, letters.Playable(w), w)
		assert.True(t, pool.Contains(w), w)
	}
}

func TestMatchStoreUnavailable(t *testing.T) {
	s := newStore()
	s.failWith = errors.New("disk gone")

	_, err := NewMatcher(s).Match(context.Background(), letters.Count("triangles"))
	assert.ErrorIs(t, err, words.ErrStoreUnavailable)
}

func TestMatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMatcher(newStore()).Match(ctx, letters.Count("triangles"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, words.ErrStoreUnavailable)

	s := newStore()
	s.failWith = fmt.Errorf("query: %w", context.DeadlineExceeded)
	_, err = NewMatcher(s).Match(context.Background(), letters.Count("triangles"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, words.ErrStoreUnavailable)
}

func TestSamplePoolPermutesSeedWord(t *testing.T) {
	s := newStore()
	sampler := NewSampler(s, rand.New(rand.NewPCG(1, 2)))

	for i := 0; i < 20; i++ {
		pool, err := sampler.SamplePool(context.Background())
		require.NoError(t, err)
		assert.Equal(t, letters.Count("triangles"), pool.Multiset())
	}
}

func TestSamplePoolIsDeterministicForSeed(t *testing.T) {
	s := newStore("triangles", "integrals", "education", "breakfast")
	a := NewSampler(s, rand.New(rand.NewPCG(42, 7)))
	b := NewSampler(s, rand.New(rand.NewPCG(42, 7)))

	for i := 0; i < 10; i++ {
		pa, err := a.SamplePool(context.Background())
		require.NoError(t, err)
		pb, err := b.SamplePool(context.Background())
		require.NoError(t, err)
		assert.Equal(t, pa, pb)
	}
}

func TestSamplePoolNoSeedWords(t *testing.T) {
	s := newStore("angle", "train")
	_, err := NewSampler(s, rand.New(rand.NewPCG(1, 1))).SamplePool(context.Background())
	assert.ErrorIs(t, err, ErrNoSeedWords)
}

func TestShuffleCoversPermutations(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	seen := map[letters.Layout]bool{}
	base := mustLayout(t, "abcdefghi")
	for i := 0; i < 200; i++ {
		l := base
		shuffle(rng, &l)
		assert.Equal(t, base.Multiset(), l.Multiset())
		seen[l] = true
	}
	assert.Greater(t, len(seen), 150)
}

func TestChooseCenterPrefersLastQualifyingLetter(t *testing.T) {
	pool := mustLayout(t, "triangles")
	matched, err := NewMatcher(newStore()).Match(context.Background(), pool.Multiset())
	require.NoError(t, err)

	cases := []struct {
		name     string
		min, max int
		want     byte
		wantErr  error
	}{
		{"only i", 4, 4, 'i', nil},
		{"n and s tie, s appears later", 8, 8, 's', nil},
		{"everything qualifies", 0, 100, 's', nil},
		{"t and e at ten", 10, 10, 'e', nil},
		{"nothing qualifies", 100, 200, 0, errNoQualifyingCenter},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := chooseCenter(pool, matched, c.min, c.max)
			if c.wantErr != nil {
				assert.ErrorIs(t, err, c.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, string(c.want), string(got))
		})
	}
}

func TestSelectCenter(t *testing.T) {
	s := newStore()
	sel := NewSelector(NewSampler(s, rand.New(rand.NewPCG(5, 5))), NewMatcher(s), 10)

	pool, center, answers, err := sel.SelectCenter(context.Background(), 4, 4)
	require.NoError(t, err)
	assert.Equal(t, byte('i'), center)
	assert.Equal(t, letters.Count("triangles"), pool.Multiset())
	assert.Equal(t, []string{"grain", "sting", "train", "triangles"}, answers)
}

func TestSelectCenterGivesUpAfterMaxAttempts(t *testing.T) {
	s := newStore()
	sel := NewSelector(NewSampler(s, rand.New(rand.NewPCG(5, 5))), NewMatcher(s), 5)

	_, _, _, err := sel.SelectCenter(context.Background(), 50, 60)
	assert.ErrorIs(t, err, ErrNoSuitablePool)
	assert.EqualValues(t, 5, s.countCalls.Load())
}

func TestSelectCenterRejectsBadRange(t *testing.T) {
	s := newStore()
	sel := NewSelector(NewSampler(s, rand.New(rand.NewPCG(5, 5))), NewMatcher(s), 5)

	_, _, _, err := sel.SelectCenter(context.Background(), 10, 5)
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, _, _, err = sel.SelectCenter(context.Background(), -1, 5)
	assert.ErrorIs(t, err, ErrInvalidRange)
	assert.Zero(t, s.countCalls.Load())
}

func TestSelectCenterStopsOnCancel(t *testing.T) {
	s := newStore()
	sel := NewSelector(NewSampler(s, rand.New(rand.NewPCG(5, 5))), NewMatcher(s), 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, _, err := sel.SelectCenter(ctx, 50, 60)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSelectCenterStoreFailureIsNotRetried(t *testing.T) {
	s := newStore()
	s.failWith = words.ErrStoreUnavailable
	sel := NewSelector(NewSampler(s, rand.New(rand.NewPCG(5, 5))), NewMatcher(s), 50)

	_, _, _, err := sel.SelectCenter(context.Background(), 1, 10)
	assert.ErrorIs(t, err, words.ErrStoreUnavailable)
	assert.EqualValues(t, 1, s.countCalls.Load())
}

func TestBuild(t *testing.T) {
	pool := mustLayout(t, "triangles")

	got, err := Build(pool, 'i')
	require.NoError(t, err)
	assert.Equal(t, "trnaigles", got.String())

	got, err = Build(pool, 'n')
	require.NoError(t, err)
	assert.Equal(t, "triangles", got.String())

	got, err = Build(mustLayout(t, "bananaxyz"), 'a')
	require.NoError(t, err)
	assert.Equal(t, "bnnaaaxyz", got.String())

	_, err = Build(pool, 'q')
	assert.Error(t, err)
}

func TestGenerateFixedLetters(t *testing.T) {
	g := NewGenerator(newStore(), WithSeed(1))
	layout := mustLayout(t, "trnaigles")

	p, err := g.Generate(context.Background(), Options{Letters: &layout})
	require.NoError(t, err)
	assert.Equal(t, layout, p.Layout)
	assert.Equal(t, []string{"grain", "sting", "train", "triangles"}, p.Words)
}

func TestGenerateProperties(t *testing.T) {
	store := newStore()
	ranges := []Range{{1, 49}, {4, 4}, {8, 8}, {6, 9}, {13, 13}}

	for seed := uint64(0); seed < 20; seed++ {
		g := NewGenerator(store, WithSeed(seed), WithMaxAttempts(3))
		for _, r := range ranges {
			p, err := g.Generate(context.Background(), Options{WordsMin: r.Min, WordsMax: r.Max})
			require.NoError(t, err)

			center := p.Layout.Center()
			assert.Equal(t, letters.Count("triangles"), p.Layout.Multiset())
			assert.GreaterOrEqual(t, len(p.Words), r.Min)
			assert.LessOrEqual(t, len(p.Words), r.Max)
			pool := p.Layout.Multiset()
			for _, w := range p.Words {
				assert.True(t, letters.Playable(w), w)
				assert.True(t, pool.Contains(w), w)
				assert.True(t, strings.IndexByte(w, center) >= 0, w)
			}
		}
	}
}

func TestGenerateSameSeedSamePuzzle(t *testing.T) {
	store := newStore(append([]string{"integrals", "education", "breakfast"}, dict...)...)

	a, err := NewGenerator(store, WithSeed(99)).Generate(context.Background(), Options{WordsMin: 1, WordsMax: 49})
	require.NoError(t, err)
	b, err := NewGenerator(store, WithSeed(99)).Generate(context.Background(), Options{WordsMin: 1, WordsMax: 49})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDifficulty(t *testing.T) {
	r, err := Difficulty("Medium")
	require.NoError(t, err)
	assert.Equal(t, Range{Min: 50, Max: 99}, r)

	_, err = Difficulty("nightmare")
	assert.ErrorIs(t, err, ErrInvalidRange)
}
