package scheduler

import (
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
)

// Item is one schedulable unit handed to the placement engine.
type Item struct {
	ID          string
	Source      domain.ItemSource
	Label       string
	Weight      float64
	DurationMin int
	Energy      domain.Energy
	Location    string
	// OnlyDate pins the item to one calendar date (habit occurrences).
	OnlyDate *time.Time
}

// Kind is the item's kind code, or "" when the item has no source.
func (it Item) Kind() domain.ItemKindCode {
	if it.Source == nil {
		return ""
	}
	return it.Source.Kind()
}

// SortByWeight orders items by weight, highest first. Equal weights keep
// their input order.
func SortByWeight(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Weight > items[j].Weight
	})
}

// DescribeSource renders a short human label for an item source.
func DescribeSource(src domain.ItemSource) string {
	switch s := src.(type) {
	case domain.ProjectRef:
		return "project " + s.ProjectID
	case domain.TaskRef:
		return "task " + s.TaskID
	case domain.HabitRef:
		return "habit " + s.HabitID
	default:
		panic(fmt.Sprintf("unhandled item source %T", src))
	}
}
