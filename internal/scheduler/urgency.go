package scheduler

import (
	"math"
	"time"
)

// UrgencyParams shapes DueDateUrgencyBoost. Windows are in whole days.
type UrgencyParams struct {
	LinearWindowDays   int     `toml:"linear_window_days" json:"linearWindowDays"`
	LinearMax          float64 `toml:"linear_max" json:"linearMax"`
	SurgeWindowDays    int     `toml:"surge_window_days" json:"surgeWindowDays"`
	SurgeMax           float64 `toml:"surge_max" json:"surgeMax"`
	OverdueBonusPerDay float64 `toml:"overdue_bonus_per_day" json:"overdueBonusPerDay"`
	OverdueMax         float64 `toml:"overdue_max" json:"overdueMax"`
}

func DefaultGoalUrgency() UrgencyParams {
	return UrgencyParams{
		LinearWindowDays:   30,
		LinearMax:          100,
		SurgeWindowDays:    7,
		SurgeMax:           400,
		OverdueBonusPerDay: 50,
		OverdueMax:         500,
	}
}

func DefaultProjectUrgency() UrgencyParams {
	return UrgencyParams{
		LinearWindowDays:   21,
		LinearMax:          60,
		SurgeWindowDays:    5,
		SurgeMax:           240,
		OverdueBonusPerDay: 30,
		OverdueMax:         300,
	}
}

// normalized repairs params so the boost stays monotone and bounded.
func (u UrgencyParams) normalized() UrgencyParams {
	u.LinearWindowDays = max(u.LinearWindowDays, 0)
	u.SurgeWindowDays = max(u.SurgeWindowDays, 0)
	if u.SurgeWindowDays > u.LinearWindowDays {
		u.LinearWindowDays = u.SurgeWindowDays
	}
	u.LinearMax = nonNegative(u.LinearMax)
	u.SurgeMax = math.Max(nonNegative(u.SurgeMax), u.LinearMax)
	u.OverdueBonusPerDay = nonNegative(u.OverdueBonusPerDay)
	u.OverdueMax = nonNegative(u.OverdueMax)
	return u
}

// DueDateUrgencyBoost converts a due date into a bounded weight bonus:
//
//	dormant  days-until > LinearWindowDays                 -> 0
//	linear   SurgeWindowDays < days-until <= LinearWindow   -> 0 .. LinearMax
//	surge    0 <= days-until <= SurgeWindowDays             -> LinearMax .. SurgeMax
//	overdue  days-until < 0                                 -> SurgeMax + min(days*perDay, OverdueMax)
//
// Days are counted between calendar dates in now's location.
func DueDateUrgencyBoost(due *time.Time, now time.Time, params UrgencyParams) float64 {
	if due == nil {
		return 0
	}
	u := params.normalized()
	d := daysBetween(now, due.In(now.Location()))

	switch {
	case d > u.LinearWindowDays:
		return 0
	case d > u.SurgeWindowDays:
		span := float64(u.LinearWindowDays - u.SurgeWindowDays)
		return u.LinearMax * float64(u.LinearWindowDays-d) / span
	case d >= 0:
		if u.SurgeWindowDays == 0 {
			return u.SurgeMax
		}
		frac := float64(u.SurgeWindowDays-d) / float64(u.SurgeWindowDays)
		return u.LinearMax + (u.SurgeMax-u.LinearMax)*frac
	default:
		overdue := math.Min(float64(-d)*u.OverdueBonusPerDay, u.OverdueMax)
		return u.SurgeMax + overdue
	}
}

// daysBetween returns the number of calendar days from a to b (negative when
// b is earlier). Saturates instead of overflowing on absurd dates.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	days := db.Sub(da).Hours() / 24
	switch {
	case days > math.MaxInt32:
		return math.MaxInt32
	case days < math.MinInt32:
		return math.MinInt32
	}
	return int(math.Round(days))
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}
