package scheduler

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlacementTrace_SummaryAndFailures(t *testing.T) {
	days := singleDay(seg("SLOT", 600, 660, domain.EnergyLow))
	items := []Item{
		taskItem("fits", 30, 60, domain.EnergyLow),
		taskItem("too-long", 20, 120, domain.EnergyLow),
		taskItem("too-intense", 10, 30, domain.EnergyExtreme),
		taskItem("also-long", 5, 90, domain.EnergyLow),
	}

	res := Place(input(items, days))
	sum := res.Trace.Summary()

	assert.Equal(t, 4, sum.Queued)
	assert.Equal(t, 1, sum.Placed)
	assert.Equal(t, 3, sum.Unplaced)
	assert.Equal(t, map[string]int{ReasonNoFreeSlot: 3}, sum.Waterfall)
	assert.Equal(t, ReasonNoFreeSlot, sum.TopReason)
	assert.Equal(t, 1, sum.LedgerBlocks)
	assert.Equal(t, 1, sum.LedgerEntries)

	require.Len(t, res.Trace.Items, 4, "placed items are traced too")
	assert.Equal(t, StatePlaced, res.Trace.Items[0].State)
	assert.NotEmpty(t, res.Trace.Items[0].PlacedBlockID)
	assert.Len(t, res.Trace.Unplaced(), 3)

	failures := res.Trace.Failures()
	require.Len(t, failures, 3)
	assert.Equal(t, "too-long", failures[0].ItemID)
	assert.Contains(t, failures[0].Detail, "closest")
}

func TestPlacementTrace_WaterfallReasonsOrder(t *testing.T) {
	tr := NewPlacementTrace("r", time.UTC, baseDay)
	tr.Waterfall[ReasonLocationMismatch] = 2
	tr.Waterfall[ReasonNoFreeSlot] = 5
	tr.Waterfall[ReasonNoMatchingEnergy] = 2

	assert.Equal(t, []string{ReasonNoFreeSlot, ReasonLocationMismatch, ReasonNoMatchingEnergy}, tr.WaterfallReasons())
}

func TestPlacementTrace_SetFatalKeepsFirst(t *testing.T) {
	tr := NewPlacementTrace("r", time.UTC, baseDay)
	tr.SetFatal(nil)
	assert.Empty(t, tr.Fatal)

	tr.SetFatal(errors.New("first"))
	tr.SetFatal(errors.New("second"))
	assert.Equal(t, "first", tr.Fatal)
}

func TestPlacementTrace_JSONShape(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	tr := NewPlacementTrace("run-9", loc, time.Date(2025, 3, 14, 23, 30, 0, 0, time.UTC))

	raw, err := json.Marshal(tr)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "run-9", decoded["runId"])
	assert.Equal(t, "Europe/Berlin", decoded["timezone"])
	assert.Equal(t, "2025-03-15", decoded["baseDate"])
	assert.Contains(t, decoded, "waterfall")
	assert.Contains(t, decoded, "occupancyLedger")
	assert.NotContains(t, decoded, "fatal")
}

func TestCandidate_Ranking(t *testing.T) {
	a := Candidate{FailingGates: 1, FreeSegmentMin: 10, CollisionCount: 3}
	b := Candidate{FailingGates: 2, FreeSegmentMin: 500}
	c := Candidate{FailingGates: 1, FreeSegmentMin: 30, CollisionCount: 5}
	d := Candidate{FailingGates: 1, FreeSegmentMin: 30, CollisionCount: 1}

	assert.True(t, a.closerThan(b), "fewer failing gates first")
	assert.True(t, c.closerThan(a), "then larger free segment")
	assert.True(t, d.closerThan(c), "then fewer collisions")
	assert.False(t, d.closerThan(d))
}
