package session

// Indicators computes the decoration of all six attempt slots.
// It is a pure function of s and is re-run after every mutation.
//
// Rules, in priority order:
//   - slots beyond MaxAttempts are hidden;
//   - a recorded round shows its outcome (correct, franchise, skipped, wrong);
//   - once won, unplayed slots render correct; once lost, unplayed slots render wrong;
//   - in progress, CurrentAttempt is current, earlier slots clickable, later disabled.
func (s Session) Indicators() [MaxSlots]Indicator {
	var out [MaxSlots]Indicator
	recorded := make(map[int]AttemptRecord, len(s.History))
	for _, r := range s.History {
		recorded[r.Number] = r
	}
	maxAvail := s.MaxAvailable()

	for i := range out {
		slot := i + 1
		ind := Indicator{Slot: slot}
		if slot > s.MaxAttempts {
			ind.Kind = IndicatorHidden
			out[i] = ind
			continue
		}
		ind.Navigable = slot <= maxAvail
		ind.Viewing = slot == s.CurrentViewingAttempt

		if r, ok := recorded[slot]; ok {
			ind.Kind = outcomeKind(r)
		} else {
			switch {
			case s.Outcome == Won:
				ind.Kind = IndicatorCorrect
			case s.Outcome == Lost:
				ind.Kind = IndicatorWrong
			case slot == s.CurrentAttempt:
				ind.Kind = IndicatorCurrent
			case ind.Navigable:
				ind.Kind = IndicatorClickable
			default:
				ind.Kind = IndicatorDisabled
			}
		}
		out[i] = ind
	}
	return out
}

func outcomeKind(r AttemptRecord) IndicatorKind {
	switch {
	case r.Correct:
		return IndicatorCorrect
	case r.FranchiseMatch:
		return IndicatorFranchise
	case r.Type == AttemptSkipped:
		return IndicatorSkipped
	default:
		return IndicatorWrong
	}
}
