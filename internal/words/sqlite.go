// internal/words/sqlite.go
//
// SQLite implementation of Store.
//
// The words table (see assets/sql) holds one row per playable word along
// with its length. Candidates narrows the table with a coarse LIKE filter:
//   - the word contains at least one pool letter, and
//   - for every letter a–z, the word does NOT contain that letter more
//     times than the pool has it ("%a%a%" excludes two a's when the pool
//     has one).
// LIKE is only a prefilter; the matcher re-checks every result exactly.
//
// The *sql.DB is owned by the caller (opened in main); Close only marks the
// store unusable.

package words

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/letterwheel/internal/letters"
)

// SQLiteStore serves the dictionary from a SQLite words table.
type SQLiteStore struct {
	db     *sql.DB
	closed atomic.Bool
}

// NewSQLiteStore wraps db and verifies it is reachable.
func NewSQLiteStore(ctx context.Context, db *sql.DB) (*SQLiteStore, error) {
	if err := db.PingContext(ctx); err != nil {
		return nil, unavailable(err)
	}
	return &SQLiteStore{db: db}, nil
}

// unavailable marks err as a store failure. Cancellation and deadline
// errors belong to the caller and are returned as is.
func unavailable(err error) error {
	if isContextErr(err) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}

func (s *SQLiteStore) check() error {
	if s.closed.Load() {
		return fmt.Errorf("%w: sqlite store closed", ErrStoreUnavailable)
	}
	return nil
}

// Import inserts the normalised list, ignoring words already present.
// Returns the number of new rows.
func (s *SQLiteStore) Import(ctx context.Context, list []string) (int, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	list = Normalize(list)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, unavailable(err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO words (word, len) VALUES (?, ?)`)
	if err != nil {
		return 0, unavailable(err)
	}
	defer stmt.Close()

	added := 0
	for _, w := range list {
		res, err := stmt.ExecContext(ctx, w, len(w))
		if err != nil {
			return 0, fmt.Errorf("insert %q: %w", w, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			added++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, unavailable(err)
	}
	log.Info().Int("added", added).Int("total", len(list)).Msg("dictionary import")
	return added, nil
}

// CountNine implements Store.
func (s *SQLiteStore) CountNine(ctx context.Context) (int, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM words WHERE len = ?`, letters.Size,
	).Scan(&n); err != nil {
		return 0, unavailable(err)
	}
	return n, nil
}

// NineAt implements Store. Rows are ordered by word so n is stable.
func (s *SQLiteStore) NineAt(ctx context.Context, n int) (string, error) {
	if err := s.check(); err != nil {
		return "", err
	}
	var w string
	err := s.db.QueryRowContext(ctx,
		`SELECT word FROM words WHERE len = ? ORDER BY word LIMIT 1 OFFSET ?`, letters.Size, n,
	).Scan(&w)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("words: nine-letter index %d out of range", n)
	}
	if err != nil {
		return "", unavailable(err)
	}
	return w, nil
}

// Candidates implements Store using the LIKE/NOT LIKE prefilter.
func (s *SQLiteStore) Candidates(ctx context.Context, pool letters.Multiset, minLen, maxLen int) ([]string, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	query, args := candidateQuery(pool, minLen, maxLen)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, unavailable(err)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err)
	}
	return out, nil
}

// candidateQuery builds the prefilter SQL and its arguments.
func candidateQuery(pool letters.Multiset, minLen, maxLen int) (string, []any) {
	var b strings.Builder
	args := []any{minLen, maxLen}
	b.WriteString(`SELECT word FROM words WHERE len >= ? AND len <= ?`)

	present := pool.Letters()
	if len(present) == 0 {
		// Nothing can be spelled from an empty pool.
		b.WriteString(` AND 0`)
		return b.String(), args
	}
	b.WriteString(` AND (`)
	for i, c := range present {
		if i > 0 {
			b.WriteString(` OR `)
		}
		b.WriteString(`word LIKE ?`)
		args = append(args, "%"+string(c)+"%")
	}
	b.WriteString(`)`)

	for c := byte('a'); c <= 'z'; c++ {
		b.WriteString(` AND word NOT LIKE ?`)
		args = append(args, "%"+strings.Repeat(string(c)+"%", pool.Of(c)+1))
	}
	return b.String(), args
}

// Stats implements Store.
func (s *SQLiteStore) Stats(ctx context.Context) (Stats, error) {
	if err := s.check(); err != nil {
		return Stats{}, err
	}
	var st Stats
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1), COALESCE(SUM(len = ?), 0) FROM words`, letters.Size,
	).Scan(&st.Words, &st.Nine); err != nil {
		return Stats{}, unavailable(err)
	}
	return st, nil
}

// Close implements Store. The underlying *sql.DB stays open.
func (s *SQLiteStore) Close() error {
	s.closed.Store(true)
	return nil
}
