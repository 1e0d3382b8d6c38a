package scheduler

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDueDateUrgencyBoost_Regimes(t *testing.T) {
	u := DefaultGoalUrgency()

	tests := []struct {
		name string
		due  *time.Time
		want float64
	}{
		{"no due date", nil, 0},
		{"far future", daysFrom(weightNow, 365), 0},
		{"edge of linear window", daysFrom(weightNow, 30), 0},
		{"middle of linear window", daysFrom(weightNow, 18), u.LinearMax * 12 / 23},
		{"surge boundary", daysFrom(weightNow, 7), u.LinearMax},
		{"due today", daysFrom(weightNow, 0), u.SurgeMax},
		{"one day overdue", daysFrom(weightNow, -1), u.SurgeMax + u.OverdueBonusPerDay},
		{"capped overdue", daysFrom(weightNow, -1000), u.SurgeMax + u.OverdueMax},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, DueDateUrgencyBoost(tc.due, weightNow, u), 1e-9)
		})
	}
}

func TestDueDateUrgencyBoost_NonDecreasingTowardsDue(t *testing.T) {
	for _, u := range []UrgencyParams{DefaultGoalUrgency(), DefaultProjectUrgency()} {
		prev := -1.0
		for d := 60; d >= 0; d-- {
			got := DueDateUrgencyBoost(daysFrom(weightNow, d), weightNow, u)
			assert.GreaterOrEqual(t, got, prev, "boost dropped at %d days out", d)
			prev = got
		}
	}
}

func TestDueDateUrgencyBoost_StrictlyIncreasingWhileOverdue(t *testing.T) {
	u := DefaultGoalUrgency()
	capDays := int(u.OverdueMax / u.OverdueBonusPerDay)

	prev := DueDateUrgencyBoost(daysFrom(weightNow, 0), weightNow, u)
	for d := 1; d <= capDays; d++ {
		got := DueDateUrgencyBoost(daysFrom(weightNow, -d), weightNow, u)
		assert.Greater(t, got, prev, "overdue day %d", d)
		prev = got
	}
	after := DueDateUrgencyBoost(daysFrom(weightNow, -(capDays + 10)), weightNow, u)
	assert.Equal(t, prev, after, "boost is capped once OverdueMax is reached")
}

func TestDueDateUrgencyBoost_BoundedForRandomParams(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 200; trial++ {
		u := UrgencyParams{
			LinearWindowDays:   rng.Intn(60) - 10,
			LinearMax:          float64(rng.Intn(500) - 100),
			SurgeWindowDays:    rng.Intn(30) - 5,
			SurgeMax:           float64(rng.Intn(800) - 100),
			OverdueBonusPerDay: float64(rng.Intn(100) - 10),
			OverdueMax:         float64(rng.Intn(1000) - 50),
		}
		n := u.normalized()
		upper := n.SurgeMax + n.OverdueMax

		prev := -1.0
		for d := 120; d >= -120; d-- {
			got := DueDateUrgencyBoost(daysFrom(weightNow, d), weightNow, u)
			assert.GreaterOrEqual(t, got, 0.0, "trial %d day %d", trial, d)
			assert.LessOrEqual(t, got, upper, "trial %d day %d", trial, d)
			assert.GreaterOrEqual(t, got, prev, "trial %d: boost must not drop approaching day %d", trial, d)
			prev = got
		}
	}
}

func TestDueDateUrgencyBoost_UsesCalendarDays(t *testing.T) {
	u := DefaultGoalUrgency()
	lateNight := time.Date(2025, 3, 15, 23, 30, 0, 0, time.UTC)
	tomorrowMorning := time.Date(2025, 3, 16, 0, 30, 0, 0, time.UTC)

	got := DueDateUrgencyBoost(&tomorrowMorning, lateNight, u)
	want := DueDateUrgencyBoost(daysFrom(weightNow, 1), weightNow, u)

	assert.Equal(t, want, got)
}
