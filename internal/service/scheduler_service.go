package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/tempo/internal/app"
	"github.com/alexanderramin/tempo/internal/config"
	"github.com/alexanderramin/tempo/internal/db"
	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/repository"
	"github.com/alexanderramin/tempo/internal/scheduler"
)

// SchedulerService runs placement against the stored snapshot and owns the
// write-through of its result.
type SchedulerService struct {
	repos    repository.Repos
	uow      db.UnitOfWork
	cfg      config.SchedulerConfig
	clock    func() time.Time
	observer UseCaseObserver
}

var (
	_ app.RunSchedulerUseCase = (*SchedulerService)(nil)
	_ app.WeightReportUseCase = (*SchedulerService)(nil)
	_ app.ScheduleUseCase     = (*SchedulerService)(nil)
)

func NewSchedulerService(
	repos repository.Repos,
	uow db.UnitOfWork,
	cfg config.SchedulerConfig,
	observers ...UseCaseObserver,
) *SchedulerService {
	return &SchedulerService{
		repos:    repos,
		uow:      uow,
		cfg:      cfg,
		clock:    time.Now,
		observer: useCaseObserverOrNoop(observers),
	}
}

// WithClock replaces the wall clock used when a request carries no Now.
func (s *SchedulerService) WithClock(clock func() time.Time) *SchedulerService {
	s.clock = clock
	return s
}

// location resolves the profile timezone, then the configured one, then UTC.
func (s *SchedulerService) location(profile domain.SchedulerProfile) *time.Location {
	for _, name := range []string{profile.Timezone, s.cfg.Timezone} {
		if name == "" {
			continue
		}
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	return time.UTC
}

func (s *SchedulerService) Run(ctx context.Context, req app.RunSchedulerRequest) (resp *app.RunSchedulerResponse, err error) {
	fields := map[string]any{"dry_run": req.DryRun, "debug": req.Debug}
	startedAt := time.Now()
	done := track(ctx, s.observer, "scheduler-run", fields)
	defer func() { done(err) }()

	if req.WriteThroughDays < 0 {
		return nil, invalidRequest("writeThroughDays must not be negative, got %d", req.WriteThroughDays)
	}
	days := s.cfg.ClampDays(req.WriteThroughDays)
	fields["days"] = days

	now := s.clock()
	if req.Now != nil {
		now = *req.Now
	}
	now = now.Truncate(time.Second)

	// The profile decides the timezone, so it is read before the horizon.
	profile, err := loadProfile(ctx, s.repos.Profile)
	if err != nil {
		return nil, app.NewSchedulerError(app.ErrSnapshotLoadFailed, err, "loading snapshot: %v", err)
	}
	loc := s.location(profile)
	dates := horizonDates(now, days, loc)
	from, to := dates[0], dates[len(dates)-1].AddDate(0, 0, 1)

	snap, err := loadSnapshot(ctx, s.repos, profile, from.UTC(), to.UTC(),
		dates[0].Format(domain.DateLayout), dates[len(dates)-1].Format(domain.DateLayout))
	if err != nil {
		return nil, app.NewSchedulerError(app.ErrSnapshotLoadFailed, err, "loading snapshot: %v", err)
	}

	runID := uuid.New().String()
	fields["run_id"] = runID
	display := make(map[string]string)

	// Open instances that have not started yet are replaced by this run.
	var kept []domain.ScheduleInstance
	for _, inst := range snap.existing {
		if inst.CompletedAt != nil || inst.StartUTC.Before(now) {
			kept = append(kept, inst)
		}
	}

	builder := &itemBuilder{
		now:                   now,
		loc:                   loc,
		params:                s.cfg.WeightParams(),
		defaultTaskMinutes:    s.cfg.DefaultTaskMinutes,
		defaultProjectMinutes: s.cfg.DefaultProjectMinutes,
		display:               display,
	}
	items := builder.build(snap, dates, kept)
	plans := buildDayPlans(snap, dates, loc, composeOptions(s.cfg.MinFillerMinutes, snap.profile), display)

	result := scheduler.Place(scheduler.PlacementInput{
		RunID:    runID,
		Location: loc,
		BaseDate: dates[0],
		Now:      now,
		Items:    items,
		Days:     plans,
		Existing: kept,
		Horizon:  s.cfg.Horizon(days),
		Policy:   s.cfg.Policy(),
	})
	fields["items"] = len(items)
	fields["placed"] = len(result.Placed)
	fields["unplaced"] = len(result.Unplaced)
	if result.Trace.Fatal != "" {
		fields["fatal"] = result.Trace.Fatal
	}

	persisted := false
	if !req.DryRun && result.Trace.Fatal == "" {
		if err = s.persist(ctx, now, to.UTC(), result.Instances); err != nil {
			return nil, err
		}
		persisted = true
	}

	resp = &app.RunSchedulerResponse{
		RunID:         runID,
		BaseDate:      dates[0].Format(domain.DateLayout),
		Timezone:      loc.String(),
		Instances:     make([]app.InstanceView, 0, len(result.Instances)),
		PlacedCount:   len(result.Placed),
		UnplacedCount: len(result.Unplaced),
		Persisted:     persisted,
	}
	for _, inst := range result.Instances {
		resp.Instances = append(resp.Instances, app.NewInstanceView(inst))
	}

	if req.Debug {
		blocks := 0
		for _, p := range plans {
			blocks += len(p.Blocks)
		}
		resp.DebugSummary = &app.DebugSummary{
			TraceSummary:     result.Trace.Summary(),
			Timezone:         loc.String(),
			BaseDate:         resp.BaseDate,
			WriteThroughDays: days,
			ItemsBuilt:       len(items),
			BlocksAvailable:  blocks,
			DurationMs:       time.Since(startedAt).Milliseconds(),
		}
		resp.Failures = result.Trace.Failures()
		resp.Debug = &app.DebugPayload{
			PlacementTrace: result.Trace,
			Display:        display,
			Fatal:          result.Trace.Fatal,
		}
	}
	return resp, nil
}

// persist swaps the open, not-yet-started instances in [from, to) for the
// new placements in one transaction.
func (s *SchedulerService) persist(ctx context.Context, from, to time.Time, instances []domain.ScheduleInstance) error {
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txInstances := repository.NewSQLiteInstanceRepo(tx)
		if _, err := txInstances.DeleteOpenInRange(ctx, from, to); err != nil {
			return err
		}
		for i := range instances {
			instances[i].CreatedAt = from
			if err := txInstances.Create(ctx, &instances[i]); err != nil {
				return fmt.Errorf("creating instance %s: %w", instances[i].ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return app.NewSchedulerError(app.ErrPersistFailed, err, "persisting placements: %v", err)
	}
	return nil
}

// Weights reports the derived weight of every goal, project, task and habit.
func (s *SchedulerService) Weights(ctx context.Context, now time.Time) ([]app.WeightRow, error) {
	profile, err := loadProfile(ctx, s.repos.Profile)
	if err != nil {
		return nil, app.NewSchedulerError(app.ErrSnapshotLoadFailed, err, "loading snapshot: %v", err)
	}
	snap, err := loadSnapshot(ctx, s.repos, profile, now, now, "", "")
	if err != nil {
		return nil, app.NewSchedulerError(app.ErrSnapshotLoadFailed, err, "loading snapshot: %v", err)
	}
	params := s.cfg.WeightParams()

	var rows []app.WeightRow
	for _, g := range snap.goals {
		rows = append(rows, app.WeightRow{
			Kind:     "goal",
			ID:       g.ID,
			Name:     g.Name,
			Priority: string(g.Priority),
			Weight:   scheduler.GoalWeight(g, now, params),
		})
		for _, p := range g.Projects {
			rows = append(rows, app.WeightRow{
				Kind:     string(domain.KindProject),
				ID:       p.ID,
				Name:     p.Name,
				ParentID: g.ID,
				Priority: string(p.Priority),
				Weight:   scheduler.ProjectWeightWithTasks(p, now, params),
			})
			for _, t := range p.OpenTasks() {
				rows = append(rows, app.WeightRow{
					Kind:     string(domain.KindTask),
					ID:       t.ID,
					Name:     t.Name,
					ParentID: p.ID,
					Priority: string(t.Priority),
					Weight:   scheduler.TaskWeight(t),
				})
			}
		}
	}
	for _, h := range snap.habits {
		rows = append(rows, app.WeightRow{
			Kind:     string(domain.KindHabit),
			ID:       h.ID,
			Name:     h.Name,
			Priority: string(h.Priority),
			Weight:   scheduler.HabitWeight(h),
		})
	}
	return rows, nil
}

func (s *SchedulerService) ListInstances(ctx context.Context, from, to time.Time) ([]app.InstanceView, error) {
	if !to.After(from) {
		return nil, invalidRequest("range end %s must be after start %s", to.Format(time.RFC3339), from.Format(time.RFC3339))
	}
	instances, err := s.repos.Instances.ListRange(ctx, from.UTC(), to.UTC())
	if err != nil {
		return nil, classify(err, app.ErrSnapshotLoadFailed, "listing instances")
	}
	sort.SliceStable(instances, func(i, j int) bool { return instances[i].StartUTC.Before(instances[j].StartUTC) })
	out := make([]app.InstanceView, 0, len(instances))
	for _, inst := range instances {
		out = append(out, app.NewInstanceView(inst))
	}
	return out, nil
}

// Complete marks an instance done. A task instance also completes its task.
func (s *SchedulerService) Complete(ctx context.Context, instanceID string, at time.Time) (err error) {
	done := track(ctx, s.observer, "complete-instance", map[string]any{"instance_id": instanceID})
	defer func() { done(err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := repository.NewSQLiteRepos(tx)
		inst, err := repos.Instances.GetByID(ctx, instanceID)
		if err != nil {
			return err
		}
		if inst.CompletedAt != nil {
			return fmt.Errorf("instance %s already completed: %w", instanceID, domain.ErrDuplicate)
		}
		if err := repos.Instances.Complete(ctx, instanceID, at); err != nil {
			return err
		}
		if ref, ok := inst.Source.(domain.TaskRef); ok {
			return repos.Tasks.Complete(ctx, ref.TaskID, at)
		}
		return nil
	})
	return classify(err, app.ErrPersistFailed, "completing instance %s", instanceID)
}
