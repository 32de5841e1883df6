package session

import "strconv"

// Hint is what the hint panel shows for one attempt.
type Hint struct {
	Attempt int
	URL     string // empty when no screenshot exists for that difficulty
	IsClip  bool   // bonus clip instead of a screenshot
}

// MetaLine is one labelled fact in the metadata panel.
type MetaLine struct {
	Label string
	Value string
}

// HintFor picks the screenshot (or the bonus clip on the last attempt)
// for attempt n.
func (s Session) HintFor(n int) Hint {
	h := Hint{Attempt: n}
	if n == s.MaxAttempts && s.Hints.HasClip() {
		h.URL = trimmed(s.Hints.ClipPath)
		h.IsClip = true
		return h
	}
	for _, sc := range s.Hints.Screenshots {
		if sc.Difficulty == n {
			h.URL = sc.URL
			break
		}
	}
	return h
}

// ViewingHint is HintFor(CurrentViewingAttempt).
func (s Session) ViewingHint() Hint { return s.HintFor(s.CurrentViewingAttempt) }

// MetadataFor returns the facts revealed at attempt n.
//
// Attempt 1 reveals nothing; 2..6 map to genres, platforms, review score,
// release year and developer. The last attempt of a game with a bonus clip
// shows developer and franchise instead of its slot's field.
func (s Session) MetadataFor(n int) []MetaLine {
	m := s.Hints.Meta
	if n <= 1 {
		return nil
	}
	if n == s.MaxAttempts && s.Hints.HasClip() {
		var out []MetaLine
		if m.Developer != "" {
			out = append(out, MetaLine{"Developer", m.Developer})
		}
		if m.FranchiseName != "" {
			out = append(out, MetaLine{"Franchise", m.FranchiseName})
		}
		return out
	}
	switch n {
	case 2:
		if m.Genres != "" {
			return []MetaLine{{"Genres", m.Genres}}
		}
	case 3:
		if m.Platforms != "" {
			return []MetaLine{{"Platforms", m.Platforms}}
		}
	case 4:
		if m.ReviewScore > 0 {
			return []MetaLine{{"Review score", strconv.Itoa(m.ReviewScore) + "/100"}}
		}
	case 5:
		if m.ReleaseYear > 0 {
			return []MetaLine{{"Release year", strconv.Itoa(m.ReleaseYear)}}
		}
	case 6:
		if m.Developer != "" {
			return []MetaLine{{"Developer", m.Developer}}
		}
	}
	return nil
}
