package store

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/letterwheel/internal/game"
	"github.com/robalobadob/letterwheel/internal/puzzle"
)

type noGen struct{}

func (noGen) Generate(context.Context, puzzle.Options) (puzzle.Puzzle, error) {
	return puzzle.Puzzle{}, nil
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	_, err := st.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	s := game.NewSession(noGen{}, game.WithID("a"))
	require.NoError(t, st.Save(ctx, s))

	got, err := st.Get(ctx, "a")
	require.NoError(t, err)
	assert.Same(t, s, got)

	n := 0
	st.Each(func(*game.Session) { n++ })
	assert.Equal(t, 1, n)
}

func TestMemoryStoreSweep(t *testing.T) {
	ctx := context.Background()
	clock := quartz.NewMock(t)
	st := NewMemoryStore()

	old := game.NewSession(noGen{}, game.WithID("old"), game.WithClock(clock))
	require.NoError(t, st.Save(ctx, old))

	clock.Advance(time.Hour)
	fresh := game.NewSession(noGen{}, game.WithID("fresh"), game.WithClock(clock))
	require.NoError(t, st.Save(ctx, fresh))

	assert.Equal(t, 1, st.Sweep(clock.Now().Add(-30*time.Minute)))
	_, err := st.Get(ctx, "old")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = st.Get(ctx, "fresh")
	assert.NoError(t, err)
}

func TestMemoryStoreSweepKeepsWatchedSessions(t *testing.T) {
	ctx := context.Background()
	clock := quartz.NewMock(t)
	st := NewMemoryStore()

	watched := game.NewSession(noGen{}, game.WithID("watched"), game.WithClock(clock))
	require.NoError(t, st.Save(ctx, watched))
	_, unsubscribe := watched.Subscribe()
	defer unsubscribe()

	clock.Advance(time.Hour)
	assert.Zero(t, st.Sweep(clock.Now().Add(-30*time.Minute)))
	_, err := st.Get(ctx, "watched")
	assert.NoError(t, err)
}
