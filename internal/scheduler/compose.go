package scheduler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/tempo/internal/domain"
)

const (
	LabelWindDown = "WIND DOWN"
	LabelFlex     = "FLEX"

	DefaultMinFillerMinutes = 15
)

// BlockSpec is one user-declared interval before composition.
type BlockSpec struct {
	Label     string
	Start     string
	End       string
	BlockType domain.BlockType
	Energy    domain.Energy
	Location  string
}

// SpecFromTimeBlock adapts a stored time block.
func SpecFromTimeBlock(b domain.TimeBlock) BlockSpec {
	return BlockSpec{
		Label:     b.Label,
		Start:     b.StartLocal,
		End:       b.EndLocal,
		BlockType: b.BlockType,
		Energy:    b.Energy,
		Location:  b.Location,
	}
}

// Gap is an uncovered stretch of the day, [Start, End) in minutes.
type Gap struct {
	Start int
	End   int
}

// FillerLabeler names a synthesized filler segment.
type FillerLabeler func(gap Gap, sleepStart *int) string

// DefaultFillerLabeler calls a gap "WIND DOWN" when it opens the day and the
// sleep window starts inside it (start exclusive, end inclusive). Everything
// else is "FLEX".
func DefaultFillerLabeler(gap Gap, sleepStart *int) string {
	if gap.Start == 0 && sleepStart != nil && *sleepStart > gap.Start && *sleepStart <= gap.End {
		return LabelWindDown
	}
	return LabelFlex
}

// ComposeOptions tunes Compose. Zero values fall back to
// DefaultMinFillerMinutes and DefaultFillerLabeler.
type ComposeOptions struct {
	// Fillers shorter than this are folded into a neighbouring segment.
	MinFillerMinutes int
	Labeler          FillerLabeler
	// SleepStart overrides the sleep boundary inferred from a SLEEP block.
	SleepStart *int
}

func (o ComposeOptions) withDefaults() ComposeOptions {
	if o.MinFillerMinutes <= 0 {
		o.MinFillerMinutes = DefaultMinFillerMinutes
	}
	if o.Labeler == nil {
		o.Labeler = DefaultFillerLabeler
	}
	return o
}

// Compose normalizes a sparse set of wall-clock intervals into an ordered,
// gap-free, overlap-free partition of [0, 1440):
//
//  1. parse HH:MM[:SS] bounds, skipping anything unparsable
//  2. split intervals with end <= start at midnight
//  3. sort by start, then end
//  4. sweep with a cursor, filling gaps and clamping overlaps
//  5. fill the tail up to 1440 (or the whole day when nothing parsed)
//  6. merge adjacent fillers
//  7. absorb fillers shorter than MinFillerMinutes into a neighbour
func Compose(specs []BlockSpec, opts ComposeOptions) []domain.Segment {
	opts = opts.withDefaults()

	pieces, inferredSleep := splitSpecs(specs)
	sleepStart := opts.SleepStart
	if sleepStart == nil {
		sleepStart = inferredSleep
	}

	sort.SliceStable(pieces, func(i, j int) bool {
		if pieces[i].StartMin != pieces[j].StartMin {
			return pieces[i].StartMin < pieces[j].StartMin
		}
		return pieces[i].EndMin < pieces[j].EndMin
	})

	filler := func(start, end int) domain.Segment {
		label := opts.Labeler(Gap{Start: start, End: end}, sleepStart)
		energy := domain.EnergyLow
		if label == LabelWindDown {
			energy = domain.EnergyNo
		}
		return domain.Segment{
			Label:     label,
			StartMin:  start,
			EndMin:    end,
			BlockType: domain.BlockBreak,
			Energy:    energy,
			Filler:    true,
		}
	}

	var out []domain.Segment
	cursor := 0
	for _, p := range pieces {
		if p.EndMin <= cursor {
			continue
		}
		if p.StartMin > cursor {
			out = append(out, filler(cursor, p.StartMin))
		} else {
			p.StartMin = cursor
		}
		out = append(out, p)
		cursor = p.EndMin
	}
	if cursor < domain.MinutesPerDay {
		out = append(out, filler(cursor, domain.MinutesPerDay))
	}

	out = mergeFillers(out)
	return absorbSlivers(out, opts.MinFillerMinutes)
}

// splitSpecs parses specs into in-day pieces and reports the first SLEEP
// start it sees.
func splitSpecs(specs []BlockSpec) ([]domain.Segment, *int) {
	var pieces []domain.Segment
	var sleepStart *int
	for _, s := range specs {
		start, okStart := ParseClock(s.Start)
		end, okEnd := ParseClock(s.End)
		if !okStart || !okEnd {
			continue
		}
		bt := s.BlockType
		if bt == "" {
			bt = domain.BlockFocus
		}
		base := domain.Segment{
			Label:     s.Label,
			BlockType: bt,
			Energy:    domain.ParseEnergy(string(s.Energy)),
			Location:  s.Location,
		}
		if sleepStart == nil && strings.Contains(strings.ToUpper(s.Label), "SLEEP") {
			v := start
			sleepStart = &v
		}
		if end <= start {
			pieces = appendPiece(pieces, base, start, domain.MinutesPerDay)
			pieces = appendPiece(pieces, base, 0, end)
			continue
		}
		pieces = appendPiece(pieces, base, start, end)
	}
	return pieces, sleepStart
}

func appendPiece(pieces []domain.Segment, base domain.Segment, start, end int) []domain.Segment {
	if end <= start {
		return pieces
	}
	base.StartMin = start
	base.EndMin = end
	return append(pieces, base)
}

func mergeFillers(segs []domain.Segment) []domain.Segment {
	out := make([]domain.Segment, 0, len(segs))
	for _, s := range segs {
		if n := len(out); n > 0 && s.Filler && out[n-1].Filler {
			out[n-1].EndMin = s.EndMin
			continue
		}
		out = append(out, s)
	}
	return out
}

// absorbSlivers folds short fillers into the preceding segment, or the
// following one when the sliver opens the day.
func absorbSlivers(segs []domain.Segment, minMinutes int) []domain.Segment {
	if len(segs) < 2 {
		return segs
	}
	out := make([]domain.Segment, 0, len(segs))
	for i := 0; i < len(segs); i++ {
		s := segs[i]
		if !s.Filler || s.Minutes() >= minMinutes {
			out = append(out, s)
			continue
		}
		if n := len(out); n > 0 {
			out[n-1].EndMin = s.EndMin
			continue
		}
		if i+1 < len(segs) {
			segs[i+1].StartMin = s.StartMin
			continue
		}
		out = append(out, s)
	}
	return out
}

// VerifyPartition checks that segs exactly tile [0, 1440) in order.
func VerifyPartition(segs []domain.Segment) error {
	if len(segs) == 0 {
		return fmt.Errorf("empty partition")
	}
	cursor := 0
	for i, s := range segs {
		if s.StartMin != cursor {
			return fmt.Errorf("segment %d %q starts at %d, expected %d", i, s.Label, s.StartMin, cursor)
		}
		if s.EndMin <= s.StartMin {
			return fmt.Errorf("segment %d %q has non-positive length [%d,%d)", i, s.Label, s.StartMin, s.EndMin)
		}
		cursor = s.EndMin
	}
	if cursor != domain.MinutesPerDay {
		return fmt.Errorf("partition ends at %d, expected %d", cursor, domain.MinutesPerDay)
	}
	return nil
}
