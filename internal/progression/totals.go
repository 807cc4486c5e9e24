package progression

// Totals is the cumulative level state. A settled Totals always satisfies
// Level >= 1 and CurrentExp < ExpRequired(Level).
type Totals struct {
	Level      uint32 `json:"level"`
	CurrentExp uint64 `json:"current_exp"`
	TotalExp   uint64 `json:"total_exp"`
}

// NewTotals returns the starting totals: level 1, no experience.
func NewTotals() Totals {
	return Totals{Level: 1}
}

// ExpToNext returns the experience still needed to reach the next level.
func (t Totals) ExpToNext() uint64 {
	need := ExpRequired(t.Level)
	if t.CurrentExp >= need {
		return 0
	}
	return need - t.CurrentExp
}

// Settled reports whether t satisfies the level invariant.
func (t Totals) Settled() bool {
	return t.Level >= 1 && t.CurrentExp < ExpRequired(t.Level)
}

// ApplyExp adds delta to t and performs every level-up the result earns,
// returning the settled totals and the number of levels gained. A zero delta
// on settled totals returns them unchanged.
func ApplyExp(t Totals, delta uint64) (Totals, int) {
	if t.Level == 0 {
		t.Level = 1
	}
	t.CurrentExp += delta
	t.TotalExp += delta

	gained := 0
	for {
		need := ExpRequired(t.Level)
		if t.CurrentExp < need {
			break
		}
		t.CurrentExp -= need
		t.Level++
		gained++
	}
	return t, gained
}
