package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/tempo/internal/app"
	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/ops"
	"github.com/alexanderramin/tempo/internal/repository"
)

// opApplier executes validated ops against tx-scoped repositories. Day types
// created earlier in the same batch resolve without another read.
type opApplier struct {
	dayTypes repository.DayTypeRepo
	now      time.Time
	created  map[string]*domain.DayType
	result   app.ApplyOpsResult
	affected map[string]bool
	blocks   []domain.TimeBlock
}

func newOpApplier(dayTypes repository.DayTypeRepo, now time.Time) *opApplier {
	return &opApplier{
		dayTypes: dayTypes,
		now:      now.UTC().Truncate(time.Second),
		created:  make(map[string]*domain.DayType),
		affected: make(map[string]bool),
	}
}

func (a *opApplier) apply(ctx context.Context, list []ops.Op) error {
	for i, op := range list {
		var err error
		switch op.Type {
		case ops.OpCreateDayType:
			err = a.createDayType(ctx, op)
		case ops.OpCreateTimeBlock:
			err = a.createBlock(ctx, op)
		case ops.OpSetDayTypeAssignment:
			err = a.assign(ctx, op)
		default:
			err = fmt.Errorf("%w: unknown op %q", domain.ErrInvalidInput, op.Type)
		}
		if err != nil {
			return fmt.Errorf("ops[%d] %s: %w", i, op.Type, err)
		}
		a.result.Applied++
		a.touch(op.TargetDayType())
	}
	return nil
}

func (a *opApplier) touch(name string) {
	key := strings.ToLower(name)
	if a.affected[key] {
		return
	}
	a.affected[key] = true
	a.result.DayTypesAffected = append(a.result.DayTypesAffected, name)
}

func (a *opApplier) createDayType(ctx context.Context, op ops.Op) error {
	d := &domain.DayType{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(op.Name),
		CreatedAt: a.now,
	}
	if err := a.dayTypes.Create(ctx, d); err != nil {
		return err
	}
	a.created[strings.ToLower(d.Name)] = d
	a.result.DayTypesCreated = append(a.result.DayTypesCreated, d.Name)
	return nil
}

func (a *opApplier) lookup(ctx context.Context, name string) (*domain.DayType, error) {
	name = strings.TrimSpace(name)
	if d, ok := a.created[strings.ToLower(name)]; ok {
		return d, nil
	}
	d, err := a.dayTypes.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("day type %q: %w", name, err)
	}
	return d, nil
}

func (a *opApplier) createBlock(ctx context.Context, op ops.Op) error {
	d, err := a.lookup(ctx, op.DayTypeName)
	if err != nil {
		return err
	}
	bt, _ := domain.ParseBlockType(op.BlockType)
	days, err := domain.ParseWeekdays(op.Days)
	if err != nil {
		return err
	}
	b := domain.TimeBlock{
		ID:         uuid.New().String(),
		DayTypeID:  d.ID,
		Label:      strings.TrimSpace(op.Label),
		StartLocal: strings.TrimSpace(op.StartLocal),
		EndLocal:   strings.TrimSpace(op.EndLocal),
		BlockType:  bt,
		Energy:     domain.ParseEnergy(op.Energy),
		Location:   strings.TrimSpace(op.Location),
		Days:       days,
		CreatedAt:  a.now,
	}
	if err := a.dayTypes.AddBlock(ctx, &b); err != nil {
		return err
	}
	a.blocks = append(a.blocks, b)
	a.result.BlocksCreated++
	return nil
}

func (a *opApplier) assign(ctx context.Context, op ops.Op) error {
	d, err := a.lookup(ctx, op.DayTypeName)
	if err != nil {
		return err
	}
	if err := a.dayTypes.SetAssignment(ctx, op.Date, d.ID); err != nil {
		return err
	}
	a.result.AssignmentsSet++
	return nil
}
