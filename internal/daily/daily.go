// internal/daily/daily.go
//
// Daily puzzle helpers. Every player gets the same layout on a given UTC
// date: the generator is seeded from a keyed hash of the date, and the
// resulting letters are cached in daily_puzzles (see store.go) so the
// puzzle survives restarts and dictionary reloads.
package daily

import (
	"encoding/binary"
	"time"

	"golang.org/x/crypto/blake2b"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed derives a generator seed from the date key using BLAKE2b keyed by salt.
func Seed(date time.Time, salt string) uint64 {
	key := []byte(salt)
	if len(key) > blake2b.Size {
		sum := blake2b.Sum256(key)
		key = sum[:]
	}
	h, err := blake2b.New256(key)
	if err != nil {
		// Only reachable with an oversized key, which is reduced above.
		panic(err)
	}
	h.Write([]byte(DateKey(date)))
	return binary.BigEndian.Uint64(h.Sum(nil)[:8])
}
