package service

import (
	"context"
	"time"

	"github.com/alexanderramin/tempo/internal/app"
	"github.com/alexanderramin/tempo/internal/db"
	"github.com/alexanderramin/tempo/internal/ops"
	"github.com/alexanderramin/tempo/internal/repository"
)

// OpsService applies and exports batches of day type ops.
type OpsService struct {
	dayTypes repository.DayTypeRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

var _ app.OpsUseCase = (*OpsService)(nil)

func NewOpsService(dayTypes repository.DayTypeRepo, uow db.UnitOfWork, observers ...UseCaseObserver) *OpsService {
	return &OpsService{
		dayTypes: dayTypes,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Apply validates the whole batch, then applies it in one transaction. Any
// failing op rolls back the ops before it.
func (s *OpsService) Apply(ctx context.Context, batch []ops.Op) (result *app.ApplyOpsResult, err error) {
	fields := map[string]any{"ops": len(batch)}
	done := track(ctx, s.observer, "apply-ops", fields)
	defer func() { done(err) }()

	if errs := ops.Validate(batch); len(errs) > 0 {
		fields["validation_errors"] = len(errs)
		return nil, validationFailed(errs)
	}

	var applier *opApplier
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		applier = newOpApplier(repository.NewSQLiteDayTypeRepo(tx), time.Now())
		return applier.apply(ctx, batch)
	})
	if err != nil {
		return nil, classify(err, app.ErrPersistFailed, "applying ops")
	}
	result = &applier.result
	fields["applied"] = result.Applied
	return result, nil
}

// Export serializes one day type, or every day type when name is empty.
func (s *OpsService) Export(ctx context.Context, dayTypeName string) ([]ops.Op, error) {
	assignments, err := s.dayTypes.ListAssignments(ctx, "", "")
	if err != nil {
		return nil, classify(err, app.ErrSnapshotLoadFailed, "listing assignments")
	}
	if dayTypeName != "" {
		d, err := s.dayTypes.GetByName(ctx, dayTypeName)
		if err != nil {
			return nil, classify(err, app.ErrSnapshotLoadFailed, "loading day type %q", dayTypeName)
		}
		return ops.Export(*d, assignments), nil
	}

	list, err := s.dayTypes.List(ctx)
	if err != nil {
		return nil, classify(err, app.ErrSnapshotLoadFailed, "listing day types")
	}
	var out []ops.Op
	for _, d := range list {
		out = append(out, ops.Export(*d, assignments)...)
	}
	return out, nil
}
