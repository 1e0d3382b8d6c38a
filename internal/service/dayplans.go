package service

import (
	"fmt"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/scheduler"
)

// horizonDates returns local midnights for base and the following days.
func horizonDates(base time.Time, days int, loc *time.Location) []time.Time {
	y, m, d := base.In(loc).Date()
	out := make([]time.Time, days)
	for i := range out {
		out[i] = time.Date(y, m, d+i, 0, 0, 0, 0, loc)
	}
	return out
}

// resolveDayType picks the assigned day type, then the profile default.
// A nil result means the day has no template.
func resolveDayType(snap *snapshot, date time.Time) *domain.DayType {
	if a, ok := snap.assignments[date.Format(domain.DateLayout)]; ok {
		if dt := snap.dayTypes[a.DayTypeID]; dt != nil {
			return dt
		}
	}
	if snap.profile.DefaultDayType != "" {
		return snap.dayTypeByName(snap.profile.DefaultDayType)
	}
	return nil
}

// composeDayType composes the blocks of dt that run on weekday. A nil day
// type composes to a single filler.
func composeDayType(dt *domain.DayType, weekday time.Weekday, opts scheduler.ComposeOptions) []domain.Segment {
	var specs []scheduler.BlockSpec
	if dt != nil {
		for _, b := range dt.Blocks {
			if b.Days.Has(weekday) {
				specs = append(specs, scheduler.SpecFromTimeBlock(b))
			}
		}
	}
	return scheduler.Compose(specs, opts)
}

func buildDayPlans(snap *snapshot, dates []time.Time, loc *time.Location, opts scheduler.ComposeOptions, display map[string]string) []scheduler.DayPlan {
	plans := make([]scheduler.DayPlan, 0, len(dates))
	for _, date := range dates {
		dt := resolveDayType(snap, date)
		name := ""
		if dt != nil {
			name = dt.Name
		}
		plan := scheduler.NewDayPlan(date, name, composeDayType(dt, date.Weekday(), opts), loc)
		for _, b := range plan.Blocks {
			display[b.ID] = fmt.Sprintf("%s %s %s-%s", b.Label, plan.DateKey(),
				scheduler.FormatClock(b.StartMin), scheduler.FormatClock(b.EndMin))
		}
		plans = append(plans, plan)
	}
	return plans
}

// composeOptions derives composer options from the profile's sleep start.
func composeOptions(minFiller int, profile domain.SchedulerProfile) scheduler.ComposeOptions {
	opts := scheduler.ComposeOptions{MinFillerMinutes: minFiller}
	if m, ok := scheduler.ParseClock(profile.SleepStartLocal); ok {
		opts.SleepStart = &m
	}
	return opts
}
