package main

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/letterwheel/assets"
	"github.com/robalobadob/letterwheel/internal/words"
)

func TestMigrateIsIdempotent(t *testing.T) {
	db, err := openDB(filepath.Join(t.TempDir(), "nested", "app.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, migrate(db, assets.Migrations()))
	require.NoError(t, migrate(db, assets.Migrations()))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&n))
	assert.Equal(t, 2, n)
	for _, table := range []string{"words", "daily_puzzles"} {
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n), table)
	}
}

func TestMigrateOrderAndFailure(t *testing.T) {
	db, err := openDB(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	defer db.Close()

	fsys := fstest.MapFS{
		"002_fill.sql":  {Data: []byte(`INSERT INTO t(v) VALUES ('x');`)},
		"001_table.sql": {Data: []byte(`CREATE TABLE t (v TEXT);`)},
		"notes.txt":     {Data: []byte(`ignored`)},
	}
	require.NoError(t, migrate(db, fsys))

	var v string
	require.NoError(t, db.QueryRow(`SELECT v FROM t`).Scan(&v))
	assert.Equal(t, "x", v)

	fsys["003_bad.sql"] = &fstest.MapFile{Data: []byte(`NOT SQL;`)}
	assert.Error(t, migrate(db, fsys))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM _migrations WHERE name='003_bad.sql'`).Scan(&n))
	assert.Zero(t, n, "failed migration must not be recorded")
}

func TestMigrateSelfManagedTransaction(t *testing.T) {
	db, err := openDB(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	defer db.Close()

	rebuild := `PRAGMA foreign_keys=OFF;
BEGIN TRANSACTION;
CREATE TABLE t_new (v TEXT NOT NULL, n INTEGER NOT NULL DEFAULT 1);
INSERT INTO t_new(v) SELECT v FROM t;
DROP TABLE t;
ALTER TABLE t_new RENAME TO t;
COMMIT;
PRAGMA foreign_keys=ON;`
	fsys := fstest.MapFS{
		"001_table.sql":   {Data: []byte(`CREATE TABLE t (v TEXT); INSERT INTO t(v) VALUES ('x');`)},
		"002_rebuild.sql": {Data: []byte(rebuild)},
	}
	require.NoError(t, migrate(db, fsys))
	require.NoError(t, migrate(db, fsys))

	var (
		v string
		n int
	)
	require.NoError(t, db.QueryRow(`SELECT v, n FROM t`).Scan(&v, &n))
	assert.Equal(t, "x", v)
	assert.Equal(t, 1, n)

	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM _migrations WHERE name='002_rebuild.sql'`).Scan(&n))
	assert.Equal(t, 1, n)

	fsys["003_bad.sql"] = &fstest.MapFile{Data: []byte("BEGIN TRANSACTION;\nINSERT INTO t(v) VALUES ('half');\nNOT SQL;\nCOMMIT;")}
	assert.Error(t, migrate(db, fsys))
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM _migrations WHERE name='003_bad.sql'`).Scan(&n))
	assert.Zero(t, n, "failed migration must not be recorded")

	// The partial insert was rolled back and the database still accepts writes.
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM t WHERE v='half'`).Scan(&n))
	assert.Zero(t, n)
	_, err = db.Exec(`INSERT INTO t(v) VALUES ('y')`)
	require.NoError(t, err)
}

func TestOpenDictionary(t *testing.T) {
	ctx := context.Background()
	db, err := openDB(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, migrate(db, assets.Migrations()))

	mem, err := openDictionary(ctx, Config{DictBackend: "memory"}, db)
	require.NoError(t, err)
	assert.IsType(t, &words.MemoryStore{}, mem)
	want, err := mem.Stats(ctx)
	require.NoError(t, err)

	sq, err := openDictionary(ctx, Config{DictBackend: "sqlite"}, db)
	require.NoError(t, err)
	assert.IsType(t, &words.SQLiteStore{}, sq)
	got, err := sq.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Re-opening imports nothing new.
	_, err = openDictionary(ctx, Config{DictBackend: "sqlite"}, db)
	require.NoError(t, err)
	got, err = sq.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = openDictionary(ctx, Config{DictBackend: "memory", WordsFile: filepath.Join(t.TempDir(), "missing.txt")}, db)
	assert.Error(t, err)
}
