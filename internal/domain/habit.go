package domain

import (
	"fmt"
	"strings"
	"time"
)

type Habit struct {
	ID          string
	Name        string
	Priority    Priority
	DurationMin int
	Energy      Energy
	Location    string
	Days        Weekdays
	Active      bool
	CreatedAt   time.Time
}

// OccursOn reports whether the habit recurs on the given date.
func (h *Habit) OccursOn(date time.Time) bool {
	return h.Active && h.Days.Has(date.Weekday())
}

// Weekdays is a day-of-week bitmask. The zero value means every day.
type Weekdays uint8

const AllWeekdays Weekdays = 0x7f

var weekdayNames = [7]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

// Has reports whether d is in the mask. An empty mask matches every day.
func (w Weekdays) Has(d time.Weekday) bool {
	if w == 0 {
		return true
	}
	return w&(1<<uint(d)) != 0
}

// With returns the mask with d added.
func (w Weekdays) With(d time.Weekday) Weekdays {
	return w | 1<<uint(d)
}

func (w Weekdays) String() string {
	if w == 0 || w&AllWeekdays == AllWeekdays {
		return "daily"
	}
	var parts []string
	for i, name := range weekdayNames {
		if w&(1<<uint(i)) != 0 {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, ",")
}

// ParseWeekdays accepts "daily", "weekdays", "weekends" or a comma list of
// three-letter day names.
func ParseWeekdays(s string) (Weekdays, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "daily", "all":
		return 0, nil
	case "weekdays":
		return 0x3e, nil
	case "weekends":
		return 0x41, nil
	}
	var w Weekdays
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		found := false
		for i, name := range weekdayNames {
			if part == name || (len(part) > 3 && strings.HasPrefix(part, name)) {
				w = w.With(time.Weekday(i))
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("%w: unknown weekday %q", ErrInvalidInput, part)
		}
	}
	return w, nil
}
