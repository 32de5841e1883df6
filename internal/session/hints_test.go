package session

import (
	"reflect"
	"testing"
)

func TestHintForUsesClipOnLastAttempt(t *testing.T) {
	hints := sixShots()
	hints.ClipPath = "clips/portal2.mp4"
	s := mustNew(t, &Snapshot{CurrentAttempt: 1}, hints)

	if h := s.HintFor(6); !h.IsClip || h.URL != "clips/portal2.mp4" {
		t.Fatalf("attempt 6: %+v", h)
	}
	if h := s.HintFor(3); h.IsClip || h.URL != "shot-3" {
		t.Fatalf("attempt 3: %+v", h)
	}
}

func TestHintForMissingDifficulty(t *testing.T) {
	hints := &HintBundle{Screenshots: []Screenshot{{1, "a"}, {3, "c"}}}
	s := mustNew(t, &Snapshot{CurrentAttempt: 1}, hints)
	if h := s.HintFor(2); h.URL != "" {
		t.Fatalf("attempt 2: %+v", h)
	}
}

func TestMetadataFor(t *testing.T) {
	s := mustNew(t, &Snapshot{CurrentAttempt: 1}, sixShots())
	cases := []struct {
		n    int
		want []MetaLine
	}{
		{1, nil},
		{2, []MetaLine{{"Genres", "Puzzle"}}},
		{3, []MetaLine{{"Platforms", "PC"}}},
		{4, []MetaLine{{"Review score", "95/100"}}},
		{5, []MetaLine{{"Release year", "2011"}}},
		{6, []MetaLine{{"Developer", "Valve"}}},
	}
	for _, tc := range cases {
		if got := s.MetadataFor(tc.n); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("MetadataFor(%d) = %v, want %v", tc.n, got, tc.want)
		}
	}
}

func TestMetadataForClipShowsDeveloperAndFranchise(t *testing.T) {
	hints := &HintBundle{
		Screenshots: []Screenshot{{1, "a"}, {2, "b"}, {3, "c"}},
		ClipPath:    "clip.mp4",
		Meta:        Metadata{Developer: "Valve", FranchiseName: "Portal", Genres: "Puzzle"},
	}
	s := mustNew(t, &Snapshot{CurrentAttempt: 1}, hints)
	want := []MetaLine{{"Developer", "Valve"}, {"Franchise", "Portal"}}
	if got := s.MetadataFor(6); !reflect.DeepEqual(got, want) {
		t.Fatalf("MetadataFor(6) = %v", got)
	}
}

func TestMetadataForEmptyField(t *testing.T) {
	hints := &HintBundle{Screenshots: []Screenshot{{1, "a"}, {2, "b"}}}
	s := mustNew(t, &Snapshot{CurrentAttempt: 1}, hints)
	if got := s.MetadataFor(2); got != nil {
		t.Fatalf("MetadataFor(2) = %v, want nil", got)
	}
}
