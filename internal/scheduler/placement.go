package scheduler

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/tempo/internal/domain"
)

// Horizon caps the work one run may do.
type Horizon struct {
	MaxDays         int
	MaxBlocksPerDay int
}

// Policy holds the pluggable decisions and sampling bounds of a run.
type Policy struct {
	Energy            EnergyPolicy
	Eligible          EligibilityPolicy
	SampleCap         int
	ClosestCap        int
	TopReasonCap      int
	ExamplesPerReason int
}

// DefaultPolicy ranks energy NO through EXTREME, lets BREAK blocks take only
// habits and keeps a handful of samples per item.
func DefaultPolicy() Policy {
	return Policy{
		Energy:            DefaultEnergyPolicy,
		Eligible:          DefaultEligibility,
		SampleCap:         8,
		ClosestCap:        3,
		TopReasonCap:      3,
		ExamplesPerReason: 2,
	}
}

func (p Policy) withDefaults() Policy {
	d := DefaultPolicy()
	if p.Energy == nil {
		p.Energy = d.Energy
	}
	if p.Eligible == nil {
		p.Eligible = d.Eligible
	}
	if p.SampleCap <= 0 {
		p.SampleCap = d.SampleCap
	}
	if p.ClosestCap <= 0 {
		p.ClosestCap = d.ClosestCap
	}
	if p.TopReasonCap <= 0 {
		p.TopReasonCap = d.TopReasonCap
	}
	if p.ExamplesPerReason <= 0 {
		p.ExamplesPerReason = d.ExamplesPerReason
	}
	return p
}

type PlacementInput struct {
	RunID    string
	Location *time.Location
	BaseDate time.Time
	// Now keeps placements out of the past. Zero disables the clamp.
	Now      time.Time
	Items    []Item
	Days     []DayPlan
	Existing []domain.ScheduleInstance
	Horizon  Horizon
	Policy   Policy
}

// ItemOutcome pairs an item with its terminal state.
type ItemOutcome struct {
	Item     Item
	State    ItemState
	Instance *domain.ScheduleInstance
	Reason   string
}

type PlacementResult struct {
	Instances []domain.ScheduleInstance
	Placed    []ItemOutcome
	Unplaced  []ItemOutcome
	Trace     *PlacementTrace
}

// invariantError is raised inside the scan and recovered into Trace.Fatal.
type invariantError struct{ err error }

// Place runs the weight-ordered greedy first-fit pass: items are taken in
// descending weight and each lands in the first block, scanning days then
// blocks in time order, that passes every gate. A higher-weight item holds
// its slot; later items see it as an occupant. Nothing is retried.
//
// Place never returns an error. An internal invariant violation stops the
// scan and is reported in Trace.Fatal together with the partial result.
func Place(in PlacementInput) (result PlacementResult) {
	loc := locOrUTC(in.Location)
	policy := in.Policy.withDefaults()
	trace := NewPlacementTrace(in.RunID, loc, in.BaseDate)
	result.Trace = trace

	ledger := NewOccupancyLedger()
	defer func() {
		trace.Ledger = ledger.Snapshot()
		if rec := recover(); rec != nil {
			switch e := rec.(type) {
			case invariantError:
				trace.SetFatal(e.err)
			case error:
				trace.SetFatal(fmt.Errorf("placement aborted: %w", e))
			default:
				trace.SetFatal(fmt.Errorf("placement aborted: %v", e))
			}
		}
	}()

	days := horizonDays(in.Days, in.BaseDate, loc, in.Horizon)
	for _, day := range days {
		if err := day.validate(); err != nil {
			panic(invariantError{err})
		}
		for _, b := range day.Blocks {
			for _, inst := range in.Existing {
				if inst.Source != nil && inst.Overlaps(b.Start, b.End) {
					ledger.seed(b, inst)
				}
			}
		}
	}

	items := append([]Item(nil), in.Items...)
	SortByWeight(items)
	for range items {
		trace.queue()
	}

	notBefore := ceilMinute(in.Now)
	maxBlocks := in.Horizon.MaxBlocksPerDay

	for _, item := range items {
		rec := newItemRecorder(item, policy)
		rec.trace.State = StateScanning

		if item.DurationMin <= 0 {
			rec.trace.Reason = ReasonInvalidDuration
			outcome := rec.finish(StateUnplaced, policy.TopReasonCap)
			trace.unplaced(outcome)
			result.Unplaced = append(result.Unplaced, ItemOutcome{Item: item, State: StateUnplaced, Reason: outcome.Reason})
			continue
		}

		var placed *domain.ScheduleInstance
	scan:
		for _, day := range days {
			if item.OnlyDate != nil && item.OnlyDate.In(loc).Format(domain.DateLayout) != day.DateKey() {
				continue
			}
			rec.trace.DaysScanned++
			for bi, b := range day.Blocks {
				if maxBlocks > 0 && bi >= maxBlocks {
					break
				}
				rec.trace.BlocksScanned++
				if !policy.Eligible(item, b) {
					continue
				}
				rec.trace.CandidatesGenerated++

				window := interval{b.Start, b.End}
				if !notBefore.IsZero() && notBefore.After(window.start) {
					window.start = notBefore.In(b.Start.Location())
				}
				if !window.end.After(window.start) {
					continue
				}

				occupants := ledger.Entries(b.ID)
				attempt := evaluateGates(item, b, window, occupants, policy.Energy)
				rec.attempt(b, attempt, occupants)
				if !attempt.Passed() {
					continue
				}

				placed = commit(ledger, in.RunID, item, b, attempt)
				rec.trace.PlacedBlockID = b.ID
				break scan
			}
		}

		if placed != nil {
			trace.placed(rec.finish(StatePlaced, policy.TopReasonCap))
			result.Instances = append(result.Instances, *placed)
			result.Placed = append(result.Placed, ItemOutcome{Item: item, State: StatePlaced, Instance: placed})
			continue
		}
		outcome := rec.finish(StateUnplaced, policy.TopReasonCap)
		trace.unplaced(outcome)
		result.Unplaced = append(result.Unplaced, ItemOutcome{Item: item, State: StateUnplaced, Reason: outcome.Reason})
	}
	return result
}

func commit(ledger *OccupancyLedger, runID string, item Item, b Block, a PlacementAttempt) *domain.ScheduleInstance {
	start, end := a.slot.start.UTC(), a.slot.end.UTC()
	if !end.After(start) {
		panic(invariantError{fmt.Errorf("item %s: chosen slot in %s has non-positive length", item.ID, b.ID)})
	}
	err := ledger.Insert(b.ID, LedgerEntry{
		ItemID: item.ID,
		Kind:   item.Kind(),
		Start:  start,
		End:    end,
		Pass:   PassGreedyFirstFit,
	})
	if err != nil {
		panic(invariantError{err})
	}
	label := item.Label
	if label == "" {
		label = DescribeSource(item.Source)
	}
	return &domain.ScheduleInstance{
		ID:          instanceID(item.ID, start),
		RunID:       runID,
		Source:      item.Source,
		Label:       label,
		BlockID:     b.ID,
		StartUTC:    start,
		EndUTC:      end,
		DurationMin: item.DurationMin,
		Energy:      b.Energy,
	}
}

// instanceID is derived from the item and its start so identical snapshots
// yield identical instances.
func instanceID(itemID string, start time.Time) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(itemID+"|"+start.Format(time.RFC3339))).String()
}

// horizonDays keeps days on or after the base date, in date order, capped
// at MaxDays (at least one).
func horizonDays(days []DayPlan, base time.Time, loc *time.Location, h Horizon) []DayPlan {
	maxDays := max(h.MaxDays, 1)
	baseKey := base.In(loc).Format(domain.DateLayout)
	out := make([]DayPlan, 0, min(len(days), maxDays))
	for _, d := range days {
		if d.DateKey() < baseKey {
			continue
		}
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DateKey() < out[j].DateKey() })
	if len(out) > maxDays {
		out = out[:maxDays]
	}
	return out
}

func ceilMinute(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	tr := t.Truncate(time.Minute)
	if tr.Equal(t) {
		return t
	}
	return tr.Add(time.Minute)
}
