package app

import (
	"time"

	"github.com/alexanderramin/tempo/internal/scheduler"
)

type RunSchedulerRequest struct {
	WriteThroughDays int        `json:"writeThroughDays"`
	Debug            bool       `json:"debug"`
	DryRun           bool       `json:"dryRun"`
	Now              *time.Time `json:"-"`
}

func NewRunSchedulerRequest(days int) RunSchedulerRequest {
	return RunSchedulerRequest{WriteThroughDays: days}
}

// DebugSummary extends the trace counters with run context.
type DebugSummary struct {
	scheduler.TraceSummary
	Timezone         string `json:"timezone"`
	BaseDate         string `json:"baseDate"`
	WriteThroughDays int    `json:"writeThroughDays"`
	ItemsBuilt       int    `json:"itemsBuilt"`
	BlocksAvailable  int    `json:"blocksAvailable"`
	DurationMs       int64  `json:"durationMs"`
}

// DebugPayload carries the raw trace plus labels for rendering opaque ids.
type DebugPayload struct {
	PlacementTrace *scheduler.PlacementTrace `json:"placementTrace"`
	Display        map[string]string         `json:"display"`
	Fatal          string                    `json:"fatal,omitempty"`
}

type RunSchedulerResponse struct {
	RunID         string              `json:"runId"`
	BaseDate      string              `json:"baseDate"`
	Timezone      string              `json:"timezone"`
	Instances     []InstanceView      `json:"instances"`
	PlacedCount   int                 `json:"placedCount"`
	UnplacedCount int                 `json:"unplacedCount"`
	Persisted     bool                `json:"persisted"`
	DebugSummary  *DebugSummary       `json:"debugSummary,omitempty"`
	Failures      []scheduler.Failure `json:"failures,omitempty"`
	Debug         *DebugPayload       `json:"debug,omitempty"`
}

// WeightRow is one line of the weight report.
type WeightRow struct {
	Kind     string  `json:"kind"`
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ParentID string  `json:"parentId,omitempty"`
	Priority string  `json:"priority"`
	Weight   float64 `json:"weight"`
}
