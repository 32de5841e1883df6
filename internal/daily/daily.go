// internal/daily/daily.go
//
// Daily puzzle selection for the dev backend.
//   - DateKey:   the UTC calendar day a play belongs to.
//   - GameIndex: deterministic pick of the day's game, HMAC(salt, YYYY-MM-DD) % n.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/guessityet/guessityet/internal/catalog"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// GameIndex returns a deterministic index for a date using HMAC(salt, YYYY-MM-DD) % n.
func GameIndex(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for modulus distribution
	return int(binary.BigEndian.Uint64(sum[:8]) % uint64(n))
}

// Pick returns the game of the day among the catalog's playable games.
func Pick(c *catalog.Catalog, date time.Time, salt string) catalog.Game {
	games := c.Playable()
	return games[GameIndex(date, salt, len(games))]
}
