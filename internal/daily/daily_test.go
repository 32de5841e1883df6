package daily

import (
	"testing"
	"time"

	"github.com/guessityet/guessityet/internal/catalog"
)

func TestDateKeyIsUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	if got := DateKey(time.Date(2026, 3, 2, 5, 0, 0, 0, loc)); got != "2026-03-01" {
		t.Fatalf("got %s", got)
	}
}

func TestGameIndexDeterministic(t *testing.T) {
	d := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	a := GameIndex(d, "salt", 36)
	if b := GameIndex(d.Add(23*time.Hour), "salt", 36); a != b {
		t.Fatalf("same day gave %d and %d", a, b)
	}
	if a < 0 || a >= 36 {
		t.Fatalf("index %d out of range", a)
	}
	if GameIndex(d, "salt", 0) != 0 {
		t.Fatal("empty list should give 0")
	}

	seen := map[int]bool{}
	for i := 0; i < 30; i++ {
		seen[GameIndex(d.AddDate(0, 0, i), "salt", 36)] = true
	}
	if len(seen) < 10 {
		t.Fatalf("poor spread over a month: %d distinct", len(seen))
	}
}

func TestPickReturnsPlayableGame(t *testing.T) {
	c, err := catalog.New([]catalog.Game{
		{ID: 1, Name: "No shots"},
		{ID: 2, Name: "Has shots", Screenshots: []string{"/a.jpg"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		if g := Pick(c, time.Now().AddDate(0, 0, i), "x"); g.ID != 2 {
			t.Fatalf("picked %+v", g)
		}
	}
}
