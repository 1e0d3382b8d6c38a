package scheduler

import (
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
)

// Block is one placeable stretch of a concrete day.
type Block struct {
	ID        string           `json:"id"`
	Label     string           `json:"label"`
	StartMin  int              `json:"startMin"`
	EndMin    int              `json:"endMin"`
	BlockType domain.BlockType `json:"blockType"`
	Energy    domain.Energy    `json:"energy"`
	Location  string           `json:"location,omitempty"`
	Filler    bool             `json:"filler"`
	Start     time.Time        `json:"start"`
	End       time.Time        `json:"end"`
}

func (b Block) Minutes() int { return b.EndMin - b.StartMin }

// DayPlan is the ordered set of blocks available on one calendar date.
type DayPlan struct {
	Date    time.Time
	DayType string
	Blocks  []Block
}

// DateKey formats the plan's date as YYYY-MM-DD.
func (d DayPlan) DateKey() string {
	return d.Date.Format(domain.DateLayout)
}

// BlockID is stable across runs: date, wall-clock bounds and label.
func BlockID(date time.Time, startMin, endMin int, label string) string {
	return fmt.Sprintf("%s@%s-%s#%s", date.Format(domain.DateLayout), FormatClock(startMin), FormatClock(endMin), label)
}

// NewDayPlan anchors composed segments to a date in loc.
func NewDayPlan(date time.Time, dayType string, segments []domain.Segment, loc *time.Location) DayPlan {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := date.In(loc).Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, loc)
	plan := DayPlan{Date: midnight, DayType: dayType}
	for _, s := range segments {
		plan.Blocks = append(plan.Blocks, Block{
			ID:        BlockID(midnight, s.StartMin, s.EndMin, s.Label),
			Label:     s.Label,
			StartMin:  s.StartMin,
			EndMin:    s.EndMin,
			BlockType: s.BlockType,
			Energy:    s.Energy,
			Location:  s.Location,
			Filler:    s.Filler,
			Start:     time.Date(y, m, d, 0, s.StartMin, 0, 0, loc),
			End:       time.Date(y, m, d, 0, s.EndMin, 0, 0, loc),
		})
	}
	return plan
}

// NewWindowDayPlan builds a plan straight from raw windows without composing
// a full-day partition. Unparsable windows are skipped and overnight windows
// keep only their part inside the date.
func NewWindowDayPlan(date time.Time, windows []domain.TimeBlock, loc *time.Location) DayPlan {
	var segs []domain.Segment
	for _, w := range windows {
		if !w.Days.Has(date.In(locOrUTC(loc)).Weekday()) {
			continue
		}
		start, ok1 := ParseClock(w.StartLocal)
		end, ok2 := ParseClock(w.EndLocal)
		if !ok1 || !ok2 {
			continue
		}
		if end <= start {
			end = domain.MinutesPerDay
		}
		segs = append(segs, domain.Segment{
			Label:     w.Label,
			StartMin:  start,
			EndMin:    end,
			BlockType: w.BlockType,
			Energy:    w.Energy,
			Location:  w.Location,
		})
	}
	sort.SliceStable(segs, func(i, j int) bool { return segs[i].StartMin < segs[j].StartMin })
	clamped := segs[:0]
	prevEnd := 0
	for _, s := range segs {
		s.StartMin = max(s.StartMin, prevEnd)
		if s.EndMin <= s.StartMin {
			continue
		}
		clamped = append(clamped, s)
		prevEnd = s.EndMin
	}
	return NewDayPlan(date, "", clamped, loc)
}

// validate reports an invariant violation in the plan's blocks.
func (d DayPlan) validate() error {
	prevEnd := 0
	for i, b := range d.Blocks {
		if b.StartMin < 0 || b.EndMin > domain.MinutesPerDay || b.EndMin <= b.StartMin {
			return fmt.Errorf("day %s block %d %q has invalid bounds [%d,%d)", d.DateKey(), i, b.Label, b.StartMin, b.EndMin)
		}
		if b.StartMin < prevEnd {
			return fmt.Errorf("day %s block %d %q overlaps the previous block", d.DateKey(), i, b.Label)
		}
		prevEnd = b.EndMin
	}
	return nil
}

func locOrUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}
