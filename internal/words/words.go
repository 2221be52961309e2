// internal/words/words.go
//
// Dictionary access for the puzzle generator.
//
// Responsibilities:
//   - Define the Store contract the generator depends on.
//   - Load the raw word list from a file (WORDS_FILE) or the embedded default.
//   - Normalise words: lowercase, a–z only, playable length (4–9).
//
// Two Store implementations live alongside this file:
//   - MemoryStore: in-process sorted list (tests, DICT_BACKEND=memory).
//   - SQLiteStore: words table queried with a LIKE/NOT LIKE prefilter.
package words

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/samber/lo"

	"github.com/robalobadob/letterwheel/assets"
	"github.com/robalobadob/letterwheel/internal/letters"
)

// ErrStoreUnavailable wraps every failure to reach the underlying dictionary.
var ErrStoreUnavailable = errors.New("dictionary store unavailable")

// Store is the dictionary as seen by the generator.
type Store interface {
	// CountNine returns how many 9-letter words exist.
	CountNine(ctx context.Context) (int, error)

	// NineAt returns the n-th 9-letter word (0-based, stable order).
	NineAt(ctx context.Context, n int) (string, error)

	// Candidates returns words with length in [minLen, maxLen] that may be
	// spelled from pool. Implementations may over-approximate.
	Candidates(ctx context.Context, pool letters.Multiset, minLen, maxLen int) ([]string, error)

	// Stats reports dictionary size.
	Stats(ctx context.Context) (Stats, error)

	// Close releases the store.
	Close() error
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Stats summarises a dictionary.
type Stats struct {
	Words int `json:"words"` // playable words (length 4–9)
	Nine  int `json:"nine"`  // 9-letter seed words
}

// Load reads the word list from path, or from the embedded default when path
// is empty. Returns an error if no playable words remain.
func Load(path string) ([]string, error) {
	var (
		list []string
		err  error
	)
	if path != "" {
		list, err = readWordFile(path)
	} else {
		list, err = assets.DefaultWords()
	}
	if err != nil {
		return nil, err
	}
	list = Normalize(list)
	if len(list) == 0 {
		return nil, errors.New("words: word list is empty")
	}
	return list, nil
}

// readWordFile loads one word per line from a file.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readWords(f)
}

func readWords(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		out = append(out, sc.Text())
	}
	return out, sc.Err()
}

// Normalize lowercases and trims every entry and keeps only unique,
// alphabetic words of playable length.
func Normalize(list []string) []string {
	cleaned := lo.FilterMap(list, func(s string, _ int) (string, bool) {
		w := strings.ToLower(strings.TrimSpace(s))
		return w, letters.Playable(w) && letters.IsAlpha(w)
	})
	return lo.Uniq(cleaned)
}
