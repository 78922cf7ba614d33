package constants

// Flag is the tri-state-plus-unknown outcome of a criterion evaluation.
type Flag string

// Stable values (store these exact strings in DB and reports).
const (
	FlagGreen   Flag = "GREEN"   // acceptable
	FlagYellow  Flag = "YELLOW"  // needs sign-off
	FlagRed     Flag = "RED"     // not acceptable
	FlagUnknown Flag = "UNKNOWN" // insufficient evidence, never a silent pass
)

// flagRank is the single total order used for fuzzy tier tie-breaks and for
// worst-flag-wins aggregation. Higher is worse. UNKNOWN sits between GREEN
// and YELLOW so any non-green outcome beats GREEN, and aggregates as YELLOW
// via Effective.
var flagRank = map[Flag]int{
	FlagGreen:   0,
	FlagUnknown: 1,
	FlagYellow:  2,
	FlagRed:     3,
}

func (f Flag) Rank() int {
	return flagRank[f]
}

// WorseThan reports whether f is strictly worse than o.
func (f Flag) WorseThan(o Flag) bool {
	return f.Rank() > o.Rank()
}

// Worst returns the worst flag of the set, FlagGreen for an empty set.
func Worst(flags ...Flag) Flag {
	worst := FlagGreen
	for _, f := range flags {
		if f.WorseThan(worst) {
			worst = f
		}
	}
	return worst
}

// Effective maps UNKNOWN to YELLOW: missing evidence requires human
// attention and must not pass as GREEN. All other flags map to themselves.
func (f Flag) Effective() Flag {
	if f == FlagUnknown {
		return FlagYellow
	}
	return f
}

// Weight is the flag's contribution to review-order ranking.
func (f Flag) Weight() int {
	switch f {
	case FlagRed:
		return 3
	case FlagYellow, FlagUnknown:
		return 2
	default:
		return 0
	}
}

// Valid reports whether f is one of the four known flag values.
func (f Flag) Valid() bool {
	_, ok := flagRank[f]
	return ok
}
