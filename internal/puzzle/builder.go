package puzzle

import (
	"fmt"

	"github.com/robalobadob/letterwheel/internal/letters"
)

// Build places center at position 5. If it is not already there, the letter
// at position 5 swaps with the first occurrence of center; all other
// letters keep their slots.
func Build(pool letters.Layout, center byte) (letters.Layout, error) {
	if pool.Center() == center {
		return pool, nil
	}
	i := pool.Index(center)
	if i == 0 {
		return pool, fmt.Errorf("center %q not in pool %q", center, pool.String())
	}
	pool[i-1], pool[letters.CenterPos-1] = pool[letters.CenterPos-1], pool[i-1]
	return pool, nil
}
