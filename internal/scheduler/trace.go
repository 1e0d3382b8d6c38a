package scheduler

import (
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
)

// Waterfall reasons.
const (
	ReasonNoFreeSlot        = "no_free_slot"
	ReasonNoMatchingEnergy  = "no_matching_energy"
	ReasonLocationMismatch  = "location_mismatch"
	ReasonSlotCollision     = "slot_collision"
	ReasonNoCandidateBlocks = "no_candidate_blocks"
	ReasonInvalidDuration   = "invalid_duration"
)

type ItemState string

const (
	StateQueued   ItemState = "queued"
	StateScanning ItemState = "scanning"
	StatePlaced   ItemState = "placed"
	StateUnplaced ItemState = "unplaced"
)

// Candidate is the best attempt seen for one block.
type Candidate struct {
	BlockID          string     `json:"blockId"`
	Label            string     `json:"label"`
	FailingGates     int        `json:"failingGates"`
	FirstFailingGate GateName   `json:"firstFailingGate"`
	Failed           []GateName `json:"failed"`
	FreeSegmentMin   int        `json:"freeSegmentMin"`
	CollisionCount   int        `json:"collisionCount"`
}

// closerThan ranks candidates: fewest failing gates, then largest free
// segment, then fewest collisions.
func (c Candidate) closerThan(o Candidate) bool {
	if c.FailingGates != o.FailingGates {
		return c.FailingGates < o.FailingGates
	}
	if c.FreeSegmentMin != o.FreeSegmentMin {
		return c.FreeSegmentMin > o.FreeSegmentMin
	}
	return c.CollisionCount < o.CollisionCount
}

type ReasonExample struct {
	BlockID string `json:"blockId"`
	Detail  string `json:"detail"`
}

type ReasonSummary struct {
	Gate     GateName        `json:"gate"`
	Reason   string          `json:"reason"`
	Count    int             `json:"count"`
	Examples []ReasonExample `json:"examples"`
}

// NoSlotDetails names the roomiest block seen for an unplaced item.
type NoSlotDetails struct {
	BlockID        string       `json:"blockId"`
	LargestFreeMin int          `json:"largestFreeMin"`
	FirstOccupant  *LedgerEntry `json:"firstOccupant,omitempty"`
}

// ItemTrace is the forensic record for one item.
type ItemTrace struct {
	ItemID              string              `json:"itemId"`
	Kind                domain.ItemKindCode `json:"kind"`
	Label               string              `json:"label"`
	Weight              float64             `json:"weight"`
	DurationMin         int                 `json:"durationMin"`
	Energy              domain.Energy       `json:"energy"`
	State               ItemState           `json:"state"`
	Reason              string              `json:"reason,omitempty"`
	DaysScanned         int                 `json:"daysScanned"`
	BlocksScanned       int                 `json:"blocksScanned"`
	CandidatesGenerated int                 `json:"candidatesGenerated"`
	PlacementAttempts   int                 `json:"placementAttempts"`
	AttemptedBlocks     []string            `json:"attemptedBlocks"`
	AttemptedDropped    int                 `json:"attemptedBlocksDropped"`
	GateTraces          []PlacementAttempt  `json:"gateTraces"`
	GateTracesDropped   int                 `json:"gateTracesDropped"`
	ClosestCandidates   []Candidate         `json:"closestCandidates"`
	TopReasons          []ReasonSummary     `json:"topReasons"`
	NoSlotDetails       *NoSlotDetails      `json:"noSlotDetails,omitempty"`
	PlacedBlockID       string              `json:"placedBlockId,omitempty"`
}

// PlacementTrace accumulates everything one run decided. It is owned by the
// run and discarded after reporting.
type PlacementTrace struct {
	RunID         string                   `json:"runId"`
	Timezone      string                   `json:"timezone"`
	BaseDate      string                   `json:"baseDate"`
	QueuedCount   int                      `json:"queuedCount"`
	PlacedCount   int                      `json:"placedCount"`
	UnplacedCount int                      `json:"unplacedCount"`
	Waterfall     map[string]int           `json:"waterfall"`
	Ledger        map[string][]LedgerEntry `json:"occupancyLedger"`
	Items         []ItemTrace              `json:"items"`
	Fatal         string                   `json:"fatal,omitempty"`
}

func NewPlacementTrace(runID string, loc *time.Location, baseDate time.Time) *PlacementTrace {
	loc = locOrUTC(loc)
	return &PlacementTrace{
		RunID:     runID,
		Timezone:  loc.String(),
		BaseDate:  baseDate.In(loc).Format(domain.DateLayout),
		Waterfall: make(map[string]int),
		Ledger:    make(map[string][]LedgerEntry),
	}
}

// SetFatal records a catastrophic engine error. The first one wins.
func (t *PlacementTrace) SetFatal(err error) {
	if err == nil || t.Fatal != "" {
		return
	}
	t.Fatal = err.Error()
}

func (t *PlacementTrace) queue() { t.QueuedCount++ }

func (t *PlacementTrace) placed(it ItemTrace) {
	t.PlacedCount++
	t.Items = append(t.Items, it)
}

func (t *PlacementTrace) unplaced(it ItemTrace) {
	t.UnplacedCount++
	t.Waterfall[it.Reason]++
	t.Items = append(t.Items, it)
}

// Unplaced returns the traces of items that found no block, in scan order.
func (t *PlacementTrace) Unplaced() []ItemTrace {
	var out []ItemTrace
	for _, it := range t.Items {
		if it.State == StateUnplaced {
			out = append(out, it)
		}
	}
	return out
}

type TraceSummary struct {
	RunID         string         `json:"runId"`
	Queued        int            `json:"queued"`
	Placed        int            `json:"placed"`
	Unplaced      int            `json:"unplaced"`
	Waterfall     map[string]int `json:"waterfall"`
	TopReason     string         `json:"topReason,omitempty"`
	LedgerBlocks  int            `json:"ledgerBlocks"`
	LedgerEntries int            `json:"ledgerEntries"`
	Fatal         string         `json:"fatal,omitempty"`
}

// Summary aggregates the trace into counters.
func (t *PlacementTrace) Summary() TraceSummary {
	s := TraceSummary{
		RunID:     t.RunID,
		Queued:    t.QueuedCount,
		Placed:    t.PlacedCount,
		Unplaced:  t.UnplacedCount,
		Waterfall: make(map[string]int, len(t.Waterfall)),
		Fatal:     t.Fatal,
	}
	for _, r := range t.WaterfallReasons() {
		s.Waterfall[r] = t.Waterfall[r]
		if s.TopReason == "" {
			s.TopReason = r
		}
	}
	for _, entries := range t.Ledger {
		if len(entries) > 0 {
			s.LedgerBlocks++
		}
		s.LedgerEntries += len(entries)
	}
	return s
}

// WaterfallReasons lists waterfall keys by count desc, then name.
func (t *PlacementTrace) WaterfallReasons() []string {
	keys := make([]string, 0, len(t.Waterfall))
	for k := range t.Waterfall {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ci, cj := t.Waterfall[keys[i]], t.Waterfall[keys[j]]
		if ci != cj {
			return ci > cj
		}
		return keys[i] < keys[j]
	})
	return keys
}

type Failure struct {
	ItemID string `json:"itemId"`
	Reason string `json:"reason"`
	Detail string `json:"detail"`
}

// Failures flattens unplaced items into one line each.
func (t *PlacementTrace) Failures() []Failure {
	unplaced := t.Unplaced()
	out := make([]Failure, 0, len(unplaced))
	for _, it := range unplaced {
		out = append(out, Failure{ItemID: it.ItemID, Reason: it.Reason, Detail: it.failureDetail()})
	}
	return out
}

func (it ItemTrace) failureDetail() string {
	if len(it.ClosestCandidates) == 0 {
		return fmt.Sprintf("no eligible block in %d day(s), %d block(s) scanned", it.DaysScanned, it.BlocksScanned)
	}
	best := it.ClosestCandidates[0]
	return fmt.Sprintf("closest %s failed %v (free %dm, need %dm)", best.BlockID, best.Failed, best.FreeSegmentMin, it.DurationMin)
}

// itemRecorder collects bounded evidence while one item is scanned.
type itemRecorder struct {
	trace     ItemTrace
	attempted *Ring[string]
	gates     *Ring[PlacementAttempt]
	closest   []Candidate
	closeCap  int
	reasons   map[GateName]*ReasonSummary
	examples  int
	noSlot    *NoSlotDetails
}

func newItemRecorder(item Item, p Policy) *itemRecorder {
	return &itemRecorder{
		trace: ItemTrace{
			ItemID:      item.ID,
			Kind:        item.Kind(),
			Label:       item.Label,
			Weight:      item.Weight,
			DurationMin: item.DurationMin,
			Energy:      item.Energy,
			State:       StateQueued,
		},
		attempted: NewRing[string](p.SampleCap),
		gates:     NewRing[PlacementAttempt](p.SampleCap),
		closeCap:  p.ClosestCap,
		reasons:   make(map[GateName]*ReasonSummary),
		examples:  p.ExamplesPerReason,
	}
}

func (r *itemRecorder) attempt(b Block, a PlacementAttempt, occupants []LedgerEntry) {
	r.trace.PlacementAttempts++
	r.attempted.Push(b.ID)
	r.gates.Push(a)
	if a.Passed() {
		return
	}

	cand := Candidate{
		BlockID:          b.ID,
		Label:            b.Label,
		FailingGates:     a.FailingGates,
		FirstFailingGate: a.FirstFailingGate,
		FreeSegmentMin:   a.FreeSegmentMin,
		CollisionCount:   a.CollisionCount,
	}
	for _, g := range a.Gates {
		if g.Passed {
			continue
		}
		cand.Failed = append(cand.Failed, g.Gate)
		rs, ok := r.reasons[g.Gate]
		if !ok {
			rs = &ReasonSummary{Gate: g.Gate, Reason: g.Gate.Reason()}
			r.reasons[g.Gate] = rs
		}
		rs.Count++
		if len(rs.Examples) < r.examples {
			rs.Examples = append(rs.Examples, ReasonExample{BlockID: b.ID, Detail: g.Detail})
		}
	}
	r.offerClosest(cand)

	if r.noSlot == nil || a.FreeSegmentMin > r.noSlot.LargestFreeMin {
		ns := &NoSlotDetails{BlockID: b.ID, LargestFreeMin: a.FreeSegmentMin}
		for _, e := range occupants {
			if e.overlaps(a.slot.start, a.slot.end) {
				first := e
				ns.FirstOccupant = &first
				break
			}
		}
		r.noSlot = ns
	}
}

// offerClosest keeps the best candidate per block and at most closeCap
// blocks overall, ordered closest first.
func (r *itemRecorder) offerClosest(c Candidate) {
	for i, existing := range r.closest {
		if existing.BlockID != c.BlockID {
			continue
		}
		if !c.closerThan(existing) {
			return
		}
		r.closest = append(r.closest[:i], r.closest[i+1:]...)
		break
	}
	idx := sort.Search(len(r.closest), func(i int) bool { return c.closerThan(r.closest[i]) })
	r.closest = append(r.closest, Candidate{})
	copy(r.closest[idx+1:], r.closest[idx:])
	r.closest[idx] = c
	if r.closeCap >= 0 && len(r.closest) > r.closeCap {
		r.closest = r.closest[:r.closeCap]
	}
}

func (r *itemRecorder) finish(state ItemState, topCap int) ItemTrace {
	t := r.trace
	t.State = state
	t.AttemptedBlocks = r.attempted.Items()
	t.AttemptedDropped = r.attempted.Dropped()
	t.GateTraces = r.gates.Items()
	t.GateTracesDropped = r.gates.Dropped()
	t.ClosestCandidates = r.closest
	t.NoSlotDetails = r.noSlot

	for _, g := range GateOrder {
		if rs, ok := r.reasons[g]; ok {
			t.TopReasons = append(t.TopReasons, *rs)
		}
	}
	sort.SliceStable(t.TopReasons, func(i, j int) bool {
		return t.TopReasons[i].Count > t.TopReasons[j].Count
	})
	if topCap >= 0 && len(t.TopReasons) > topCap {
		t.TopReasons = t.TopReasons[:topCap]
	}

	if state == StateUnplaced && t.Reason == "" {
		if len(r.closest) > 0 {
			t.Reason = r.closest[0].FirstFailingGate.Reason()
		} else {
			t.Reason = ReasonNoCandidateBlocks
		}
	}
	return t
}
