// db.go
//
// Database helpers for the Letter Wheel server.
// Responsibilities:
//   - Opening SQLite database with safe defaults (WAL, busy timeout, foreign keys).
//   - Applying the embedded migrations (idempotent, recorded in _migrations).
//   - Seeding the words table from the configured word list.
//
// Note: This file assumes SQLite but can be adapted for other backends.

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/letterwheel/internal/words"
)

/**
 * openDB opens (and creates if missing) a SQLite database file.
 *
 * - Ensures parent directory exists for relative DSNs (e.g. ./data/app.db).
 * - Configures busy timeout and WAL journaling mode.
 * - Enforces foreign keys.
 */
func openDB(dsn string) (*sql.DB, error) {
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return db, nil
}

/**
 * migrate applies *.sql files from fsys in lexical order.
 *
 * - Uses a _migrations table to track applied files.
 * - Skips files already applied.
 * - Scripts that manage their own transaction (BEGIN TRANSACTION or
 *   PRAGMA FOREIGN_KEYS=OFF) run outside of an outer transaction.
 */
func migrate(db *sql.DB, fsys fs.FS) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	files, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		var done int
		err := db.QueryRow(`SELECT 1 FROM _migrations WHERE name=?`, f).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", f).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		sqlBytes, err := fs.ReadFile(fsys, f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}
		sqlText := string(sqlBytes)

		upper := strings.ToUpper(sqlText)
		selfManaged := strings.Contains(upper, "BEGIN TRANSACTION") ||
			strings.Contains(upper, "PRAGMA FOREIGN_KEYS=OFF") ||
			strings.Contains(upper, "PRAGMA FOREIGN_KEYS = OFF")

		if selfManaged {
			if err := applySelfManaged(db, f, sqlText); err != nil {
				return err
			}
			log.Info().Str("migration", f).Msg("applied (self-managed)")
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(sqlText); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", f, err)
		}
		if _, err := tx.Exec(`INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f, err)
		}
		log.Info().Str("migration", f).Msg("applied")
	}
	return nil
}

// applySelfManaged runs a migration that opens its own transaction. The script
// and any rollback after a partial failure share one pinned connection.
func applySelfManaged(db *sql.DB, name, sqlText string) error {
	ctx := context.Background()
	conn, err := db.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, sqlText); err != nil {
		_, _ = conn.ExecContext(ctx, `ROLLBACK`) // fails harmlessly if no transaction is open
		_, _ = conn.ExecContext(ctx, `PRAGMA foreign_keys = ON`)
		return fmt.Errorf("apply %s: %w", name, err)
	}
	if _, err := conn.ExecContext(ctx, `INSERT INTO _migrations(name) VALUES (?)`, name); err != nil {
		return fmt.Errorf("record %s: %w", name, err)
	}
	return nil
}

/**
 * openDictionary builds the words.Store selected by DICT_BACKEND.
 *
 * - memory: serves the list straight from memory.
 * - sqlite: imports the list into the words table (new words only) and
 *   serves queries from SQLite.
 */
func openDictionary(ctx context.Context, cfg Config, db *sql.DB) (words.Store, error) {
	list, err := words.Load(cfg.WordsFile)
	if err != nil {
		return nil, fmt.Errorf("load word list: %w", err)
	}
	if cfg.DictBackend == "memory" {
		return words.NewMemoryStore(list), nil
	}
	st, err := words.NewSQLiteStore(ctx, db)
	if err != nil {
		return nil, err
	}
	if _, err := st.Import(ctx, list); err != nil {
		return nil, fmt.Errorf("import word list: %w", err)
	}
	return st, nil
}
