package app

import (
	"context"
	"time"

	"github.com/alexanderramin/tempo/internal/importer"
	"github.com/alexanderramin/tempo/internal/ops"
)

type RunSchedulerUseCase interface {
	Run(ctx context.Context, req RunSchedulerRequest) (*RunSchedulerResponse, error)
}

type WeightReportUseCase interface {
	Weights(ctx context.Context, now time.Time) ([]WeightRow, error)
}

type DayTypeUseCase interface {
	CreateDayType(ctx context.Context, name string) (*DayTypeView, error)
	AddTimeBlock(ctx context.Context, req AddTimeBlockRequest) (*TimeBlockView, error)
	AssignDate(ctx context.Context, date, dayTypeName string) error
	Compose(ctx context.Context, name string) (*DayTypeView, error)
	List(ctx context.Context) ([]DayTypeView, error)
}

type OpsUseCase interface {
	Apply(ctx context.Context, batch []ops.Op) (*ApplyOpsResult, error)
	Export(ctx context.Context, dayTypeName string) ([]ops.Op, error)
}

type ScheduleUseCase interface {
	ListInstances(ctx context.Context, from, to time.Time) ([]InstanceView, error)
	Complete(ctx context.Context, instanceID string, at time.Time) error
}

type ImportSnapshotUseCase interface {
	ImportFile(ctx context.Context, path string) (*ImportResult, error)
	ImportSnapshot(ctx context.Context, snap *importer.Snapshot) (*ImportResult, error)
}
