package scheduler

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
)

type GateName string

const (
	GateDuration  GateName = "duration"
	GateEnergy    GateName = "energy"
	GateLocation  GateName = "location"
	GateCollision GateName = "collision"
)

// GateOrder is the fixed evaluation order of the placement pipeline.
var GateOrder = []GateName{GateDuration, GateEnergy, GateLocation, GateCollision}

// Reason is the waterfall key for a gate failure.
func (g GateName) Reason() string {
	switch g {
	case GateDuration:
		return ReasonNoFreeSlot
	case GateEnergy:
		return ReasonNoMatchingEnergy
	case GateLocation:
		return ReasonLocationMismatch
	case GateCollision:
		return ReasonSlotCollision
	default:
		return ReasonNoCandidateBlocks
	}
}

func gateRank(g GateName) int {
	for i, n := range GateOrder {
		if n == g {
			return i
		}
	}
	return len(GateOrder)
}

// EnergyPolicy decides whether an item's energy requirement fits a block.
type EnergyPolicy func(item, block domain.Energy) bool

// DefaultEnergyPolicy admits an item when its energy rank does not exceed
// the block's. Unknown tags rank as NO.
func DefaultEnergyPolicy(item, block domain.Energy) bool {
	return item.Rank() <= block.Rank()
}

// EligibilityPolicy decides whether a block is a candidate for an item at all.
type EligibilityPolicy func(item Item, block Block) bool

// DefaultEligibility skips filler segments and keeps BREAK blocks for habits.
func DefaultEligibility(item Item, block Block) bool {
	if block.Filler {
		return false
	}
	if block.BlockType != domain.BlockBreak {
		return true
	}
	switch item.Source.(type) {
	case domain.HabitRef:
		return true
	case domain.ProjectRef, domain.TaskRef:
		return false
	default:
		panic(fmt.Sprintf("unhandled item source %T", item.Source))
	}
}

type GateResult struct {
	Gate   GateName `json:"gate"`
	Passed bool     `json:"passed"`
	// AfterFailure marks gates evaluated only for diagnostics, after an
	// earlier gate already rejected the candidate.
	AfterFailure bool   `json:"afterFailure,omitempty"`
	Detail       string `json:"detail"`
}

// PlacementAttempt is the outcome of running the gate pipeline for one
// (item, block) pair. It only ever lives inside a trace.
type PlacementAttempt struct {
	ItemID           string       `json:"itemId"`
	BlockID          string       `json:"blockId"`
	Gates            []GateResult `json:"gates"`
	FreeSegmentMin   int          `json:"freeSegmentMin"`
	RequiredMin      int          `json:"requiredMin"`
	CollisionCount   int          `json:"collisionCount"`
	FirstFailingGate GateName     `json:"firstFailingGate,omitempty"`
	FailingGates     int          `json:"failingGates"`

	slot interval
}

func (a PlacementAttempt) Passed() bool { return a.FirstFailingGate == "" }

// evaluateGates runs duration, energy, location and collision against a
// block. The first failure decides; later gates are still recorded.
func evaluateGates(item Item, block Block, window interval, occupants []LedgerEntry, energy EnergyPolicy) PlacementAttempt {
	free := freeIntervals(window, occupants)
	required := time.Duration(item.DurationMin) * time.Minute

	largest := interval{window.start, window.start}
	var fit *interval
	for i, f := range free {
		if f.minutes() > largest.minutes() {
			largest = f
		}
		if fit == nil && f.minutes() >= item.DurationMin {
			fit = &free[i]
		}
	}
	slot := interval{largest.start, largest.start.Add(required)}
	if fit != nil {
		slot = interval{fit.start, fit.start.Add(required)}
	}
	collisions := 0
	for _, e := range occupants {
		if e.overlaps(slot.start, slot.end) {
			collisions++
		}
	}

	attempt := PlacementAttempt{
		ItemID:         item.ID,
		BlockID:        block.ID,
		FreeSegmentMin: largest.minutes(),
		RequiredMin:    item.DurationMin,
		CollisionCount: collisions,
		slot:           slot,
	}

	record := func(g GateName, passed bool, detail string) {
		res := GateResult{Gate: g, Passed: passed, Detail: detail}
		if attempt.FirstFailingGate != "" {
			res.AfterFailure = true
		}
		if !passed {
			attempt.FailingGates++
			if attempt.FirstFailingGate == "" {
				attempt.FirstFailingGate = g
			}
		}
		attempt.Gates = append(attempt.Gates, res)
	}

	record(GateDuration, attempt.FreeSegmentMin >= item.DurationMin,
		fmt.Sprintf("largest free %dm, required %dm", attempt.FreeSegmentMin, item.DurationMin))

	itemEnergy := domain.ParseEnergy(string(item.Energy))
	record(GateEnergy, energy(itemEnergy, block.Energy),
		fmt.Sprintf("item %s, block %s", itemEnergy, block.Energy))

	locOK := item.Location == "" || block.Location == "" || strings.EqualFold(item.Location, block.Location)
	record(GateLocation, locOK,
		fmt.Sprintf("item %q, block %q", item.Location, block.Location))

	record(GateCollision, collisions == 0,
		fmt.Sprintf("%d occupant(s) overlap %s-%s", collisions, slot.start.Format("15:04"), slot.end.Format("15:04")))

	return attempt
}
