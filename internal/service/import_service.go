package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/tempo/internal/app"
	"github.com/alexanderramin/tempo/internal/db"
	"github.com/alexanderramin/tempo/internal/importer"
	"github.com/alexanderramin/tempo/internal/repository"
)

// ImportService loads a whole snapshot file into the store.
type ImportService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

var _ app.ImportSnapshotUseCase = (*ImportService)(nil)

func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) *ImportService {
	return &ImportService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *ImportService) ImportFile(ctx context.Context, path string) (*app.ImportResult, error) {
	snap, err := importer.LoadSnapshot(path)
	if err != nil {
		return nil, app.NewSchedulerError(app.ErrInvalidRequest, err, "loading import file: %v", err)
	}
	return s.ImportSnapshot(ctx, snap)
}

// ImportSnapshot validates everything first and writes nothing unless the
// whole snapshot is valid. All rows land in one transaction.
func (s *ImportService) ImportSnapshot(ctx context.Context, snap *importer.Snapshot) (result *app.ImportResult, err error) {
	fields := map[string]any{}
	done := track(ctx, s.observer, "import-snapshot", fields)
	defer func() { done(err) }()

	if errs := importer.ValidateSnapshot(snap); len(errs) > 0 {
		fields["validation_errors"] = len(errs)
		return nil, validationFailed(errs)
	}
	converted, err := importer.Convert(snap, time.Now())
	if err != nil {
		return nil, app.NewSchedulerError(app.ErrInvalidRequest, err, "converting snapshot: %v", err)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return writeConverted(ctx, repository.NewSQLiteRepos(tx), converted)
	})
	if err != nil {
		return nil, classify(err, app.ErrPersistFailed, "importing snapshot")
	}

	goals, projects, tasks, habits, dayTypes, blocks := converted.Counts()
	result = &app.ImportResult{
		Goals:       goals,
		Projects:    projects,
		Tasks:       tasks,
		Habits:      habits,
		DayTypes:    dayTypes,
		Blocks:      blocks,
		Assignments: len(converted.Assignments),
	}
	fields["goals"] = goals
	fields["day_types"] = dayTypes
	return result, nil
}

func writeConverted(ctx context.Context, r repository.Repos, c *importer.Converted) error {
	for _, d := range c.DayTypes {
		if err := r.DayTypes.Create(ctx, d); err != nil {
			return fmt.Errorf("creating day type %q: %w", d.Name, err)
		}
		for i := range d.Blocks {
			if err := r.DayTypes.AddBlock(ctx, &d.Blocks[i]); err != nil {
				return fmt.Errorf("creating block %q: %w", d.Blocks[i].Label, err)
			}
		}
	}
	for _, a := range c.Assignments {
		if err := r.DayTypes.SetAssignment(ctx, a.Date, a.DayTypeID); err != nil {
			return fmt.Errorf("assigning %s: %w", a.Date, err)
		}
	}
	if c.Profile != nil {
		if err := r.Profile.Upsert(ctx, c.Profile); err != nil {
			return err
		}
	}
	for _, g := range c.Goals {
		if err := r.Goals.Create(ctx, g); err != nil {
			return fmt.Errorf("creating goal %q: %w", g.Name, err)
		}
		for i := range g.Projects {
			p := &g.Projects[i]
			if err := r.Projects.Create(ctx, p); err != nil {
				return fmt.Errorf("creating project %q: %w", p.Name, err)
			}
			for j := range p.Tasks {
				if err := r.Tasks.Create(ctx, &p.Tasks[j]); err != nil {
					return fmt.Errorf("creating task %q: %w", p.Tasks[j].Name, err)
				}
			}
		}
	}
	for _, h := range c.Habits {
		if err := r.Habits.Create(ctx, h); err != nil {
			return fmt.Errorf("creating habit %q: %w", h.Name, err)
		}
	}
	return nil
}
