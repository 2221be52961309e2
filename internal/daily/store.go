package daily

import (
	"context"
	"database/sql"
	"errors"
)

// Puzzle is the cached layout for one date.
type Puzzle struct {
	Date      string `json:"date"`
	Letters   string `json:"letters"`
	WordsMin  int    `json:"wordsMin"`
	WordsMax  int    `json:"wordsMax"`
	WordCount int    `json:"wordCount"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Get returns the cached puzzle for date; ok is false when none exists.
func (s *Store) Get(ctx context.Context, date string) (p Puzzle, ok bool, err error) {
	err = s.db.QueryRowContext(ctx,
		`SELECT date, letters, words_min, words_max, word_count FROM daily_puzzles WHERE date=?`, date,
	).Scan(&p.Date, &p.Letters, &p.WordsMin, &p.WordsMax, &p.WordCount)
	if errors.Is(err, sql.ErrNoRows) {
		return Puzzle{}, false, nil
	}
	if err != nil {
		return Puzzle{}, false, err
	}
	return p, true, nil
}

// Put stores p unless a puzzle for the same date already exists; the
// stored row wins so concurrent first requests agree.
func (s *Store) Put(ctx context.Context, p Puzzle) (Puzzle, error) {
	if _, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_puzzles(date, letters, words_min, words_max, word_count)
VALUES(?,?,?,?,?)`, p.Date, p.Letters, p.WordsMin, p.WordsMax, p.WordCount,
	); err != nil {
		return Puzzle{}, err
	}
	stored, _, err := s.Get(ctx, p.Date)
	return stored, err
}
