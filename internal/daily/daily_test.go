package daily

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateKeyUsesUTC(t *testing.T) {
	nz := time.FixedZone("NZDT", 13*3600)
	// 09:00 on the 2nd in Auckland is still the 1st in UTC.
	at := time.Date(2026, 3, 2, 9, 0, 0, 0, nz)
	assert.Equal(t, "2026-03-01", DateKey(at))
}

func TestSeed(t *testing.T) {
	day := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, Seed(day, "salt"), Seed(day.Add(23*time.Hour), "salt"), "same day")
	assert.NotEqual(t, Seed(day, "salt"), Seed(day.AddDate(0, 0, 1), "salt"), "next day")
	assert.NotEqual(t, Seed(day, "salt"), Seed(day, "pepper"), "different salt")

	// Empty and oversized keys are both accepted.
	assert.NotPanics(t, func() { Seed(day, "") })
	assert.NotPanics(t, func() { Seed(day, strings.Repeat("k", 100)) })
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "daily.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE daily_puzzles (
  date TEXT PRIMARY KEY,
  letters TEXT NOT NULL,
  words_min INTEGER NOT NULL,
  words_max INTEGER NOT NULL,
  word_count INTEGER NOT NULL,
  created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
)`)
	require.NoError(t, err)
	return db
}

func TestStoreGetPut(t *testing.T) {
	ctx := context.Background()
	st := NewStore(openTestDB(t))

	_, ok, err := st.Get(ctx, "2026-10-19")
	require.NoError(t, err)
	assert.False(t, ok)

	first := Puzzle{Date: "2026-10-19", Letters: "trnaigles", WordsMin: 50, WordsMax: 99, WordCount: 61}
	got, err := st.Put(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	// A second writer for the same date gets the stored row back.
	got, err = st.Put(ctx, Puzzle{Date: "2026-10-19", Letters: "eduncatio", WordsMin: 1, WordsMax: 49, WordCount: 3})
	require.NoError(t, err)
	assert.Equal(t, first, got)

	got, ok, err = st.Get(ctx, "2026-10-19")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, first, got)
}
