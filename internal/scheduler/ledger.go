package scheduler

import (
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
)

const (
	PassGreedyFirstFit = "weight-ordered greedy first-fit"
	PassExisting       = "existing"
)

// LedgerEntry records one occupant of a block.
type LedgerEntry struct {
	Order  int                 `json:"order"`
	ItemID string              `json:"itemId"`
	Kind   domain.ItemKindCode `json:"kind"`
	Start  time.Time           `json:"start"`
	End    time.Time           `json:"end"`
	Pass   string              `json:"pass"`
}

func (e LedgerEntry) overlaps(start, end time.Time) bool {
	return e.Start.Before(end) && start.Before(e.End)
}

// OccupancyLedger maps block ids to their time-ordered, non-overlapping
// occupants. It belongs to exactly one run.
type OccupancyLedger struct {
	blocks map[string][]LedgerEntry
	order  int
}

// NewOccupancyLedger returns an empty ledger.
func NewOccupancyLedger() *OccupancyLedger {
	return &OccupancyLedger{blocks: make(map[string][]LedgerEntry)}
}

// Entries returns the occupants of a block in time order.
func (l *OccupancyLedger) Entries(blockID string) []LedgerEntry {
	return l.blocks[blockID]
}

// Insert adds an occupant, keeping the block time-ordered. Overlapping an
// existing occupant is an invariant violation.
func (l *OccupancyLedger) Insert(blockID string, e LedgerEntry) error {
	if !e.End.After(e.Start) {
		return fmt.Errorf("ledger entry %s in %s has non-positive length", e.ItemID, blockID)
	}
	entries := l.blocks[blockID]
	idx := sort.Search(len(entries), func(i int) bool { return !entries[i].Start.Before(e.Start) })
	if idx > 0 && entries[idx-1].overlaps(e.Start, e.End) {
		return fmt.Errorf("ledger entry %s overlaps %s in %s", e.ItemID, entries[idx-1].ItemID, blockID)
	}
	if idx < len(entries) && entries[idx].overlaps(e.Start, e.End) {
		return fmt.Errorf("ledger entry %s overlaps %s in %s", e.ItemID, entries[idx].ItemID, blockID)
	}
	l.order++
	e.Order = l.order
	entries = append(entries, LedgerEntry{})
	copy(entries[idx+1:], entries[idx:])
	entries[idx] = e
	l.blocks[blockID] = entries
	return nil
}

// seed records an existing occupant clipped to the block. Existing
// instances may overlap each other; the later one is trimmed. A rejected
// insert means the ledger is corrupt and panics with an invariantError.
func (l *OccupancyLedger) seed(b Block, inst domain.ScheduleInstance) {
	start := maxTime(inst.StartUTC, b.Start)
	end := minTime(inst.EndUTC, b.End)
	for _, free := range freeIntervals(interval{start, end}, l.blocks[b.ID]) {
		err := l.Insert(b.ID, LedgerEntry{
			ItemID: inst.Source.SourceID(),
			Kind:   inst.Source.Kind(),
			Start:  free.start,
			End:    free.end,
			Pass:   PassExisting,
		})
		if err != nil {
			panic(invariantError{fmt.Errorf("seeding existing instance %s: %w", inst.ID, err)})
		}
	}
}

// Snapshot copies the ledger for the trace.
func (l *OccupancyLedger) Snapshot() map[string][]LedgerEntry {
	out := make(map[string][]LedgerEntry, len(l.blocks))
	for k, v := range l.blocks {
		out[k] = append([]LedgerEntry(nil), v...)
	}
	return out
}

type interval struct {
	start time.Time
	end   time.Time
}

func (iv interval) minutes() int {
	if !iv.end.After(iv.start) {
		return 0
	}
	return int(iv.end.Sub(iv.start) / time.Minute)
}

// freeIntervals subtracts time-ordered occupants from a window.
func freeIntervals(window interval, occupants []LedgerEntry) []interval {
	var out []interval
	cursor := window.start
	for _, e := range occupants {
		if !e.End.After(cursor) {
			continue
		}
		if !e.Start.Before(window.end) {
			break
		}
		if e.Start.After(cursor) {
			out = append(out, interval{cursor, e.Start})
		}
		cursor = e.End
	}
	if window.end.After(cursor) {
		out = append(out, interval{cursor, window.end})
	}
	return out
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
