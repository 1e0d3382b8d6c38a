package service

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/tempo/internal/app"
	"github.com/alexanderramin/tempo/internal/db"
	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/ops"
	"github.com/alexanderramin/tempo/internal/repository"
	"github.com/alexanderramin/tempo/internal/scheduler"
)

// DayTypeService edits day types one op at a time. Every write goes through
// the same applier as an ops batch so both paths validate identically.
type DayTypeService struct {
	dayTypes         repository.DayTypeRepo
	profile          repository.ProfileRepo
	uow              db.UnitOfWork
	minFillerMinutes int
	observer         UseCaseObserver
}

var _ app.DayTypeUseCase = (*DayTypeService)(nil)

func NewDayTypeService(
	dayTypes repository.DayTypeRepo,
	profile repository.ProfileRepo,
	uow db.UnitOfWork,
	minFillerMinutes int,
	observers ...UseCaseObserver,
) *DayTypeService {
	return &DayTypeService{
		dayTypes:         dayTypes,
		profile:          profile,
		uow:              uow,
		minFillerMinutes: minFillerMinutes,
		observer:         useCaseObserverOrNoop(observers),
	}
}

func (s *DayTypeService) applyOne(ctx context.Context, name string, op ops.Op) (applier *opApplier, err error) {
	done := track(ctx, s.observer, name, map[string]any{"day_type": op.TargetDayType()})
	defer func() { done(err) }()

	if errs := ops.Validate([]ops.Op{op}); len(errs) > 0 {
		return nil, validationFailed(errs)
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		applier = newOpApplier(repository.NewSQLiteDayTypeRepo(tx), time.Now())
		return applier.apply(ctx, []ops.Op{op})
	})
	if err != nil {
		return nil, classify(err, app.ErrPersistFailed, "%s", name)
	}
	return applier, nil
}

func (s *DayTypeService) CreateDayType(ctx context.Context, name string) (*app.DayTypeView, error) {
	applier, err := s.applyOne(ctx, "create-day-type", ops.Op{Type: ops.OpCreateDayType, Name: name})
	if err != nil {
		return nil, err
	}
	d := applier.created[strings.ToLower(strings.TrimSpace(name))]
	return s.view(ctx, d)
}

func (s *DayTypeService) AddTimeBlock(ctx context.Context, req app.AddTimeBlockRequest) (*app.TimeBlockView, error) {
	applier, err := s.applyOne(ctx, "add-time-block", ops.Op{
		Type:        ops.OpCreateTimeBlock,
		DayTypeName: req.DayTypeName,
		Label:       req.Label,
		StartLocal:  req.StartLocal,
		EndLocal:    req.EndLocal,
		BlockType:   domain.Coalesce(req.BlockType, string(domain.BlockFocus)),
		Energy:      req.Energy,
		Location:    req.Location,
		Days:        req.Days,
	})
	if err != nil {
		return nil, err
	}
	v := app.NewTimeBlockView(applier.blocks[0])
	return &v, nil
}

func (s *DayTypeService) AssignDate(ctx context.Context, date, dayTypeName string) error {
	_, err := s.applyOne(ctx, "assign-day-type", ops.Op{
		Type:        ops.OpSetDayTypeAssignment,
		DayTypeName: dayTypeName,
		Date:        strings.TrimSpace(date),
	})
	return err
}

// Compose returns the day type with its composed 24h partition.
func (s *DayTypeService) Compose(ctx context.Context, name string) (*app.DayTypeView, error) {
	d, err := s.dayTypes.GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, classify(err, app.ErrSnapshotLoadFailed, "loading day type %q", name)
	}
	return s.view(ctx, d)
}

func (s *DayTypeService) List(ctx context.Context) ([]app.DayTypeView, error) {
	list, err := s.dayTypes.List(ctx)
	if err != nil {
		return nil, classify(err, app.ErrSnapshotLoadFailed, "listing day types")
	}
	out := make([]app.DayTypeView, 0, len(list))
	for _, d := range list {
		v, err := s.view(ctx, d)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

// view composes every block regardless of its weekday mask.
func (s *DayTypeService) view(ctx context.Context, d *domain.DayType) (*app.DayTypeView, error) {
	profile, err := s.profile.Get(ctx)
	if err != nil {
		profile = &domain.SchedulerProfile{}
	}
	specs := make([]scheduler.BlockSpec, 0, len(d.Blocks))
	blocks := make([]app.TimeBlockView, 0, len(d.Blocks))
	for _, b := range d.Blocks {
		specs = append(specs, scheduler.SpecFromTimeBlock(b))
		blocks = append(blocks, app.NewTimeBlockView(b))
	}
	return &app.DayTypeView{
		ID:       d.ID,
		Name:     d.Name,
		Blocks:   blocks,
		Segments: scheduler.Compose(specs, composeOptions(s.minFillerMinutes, *profile)),
	}, nil
}
