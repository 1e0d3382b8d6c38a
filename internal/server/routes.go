package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/alexanderramin/tempo/internal/app"
	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/ops"
)

type handlers struct {
	svcs Services
	loc  *time.Location
	now  func() time.Time
}

func (h *handlers) clock() time.Time {
	if h.now != nil {
		return h.now()
	}
	return time.Now()
}

func (h *handlers) location() *time.Location {
	if h.loc != nil {
		return h.loc
	}
	return time.UTC
}

var commonErrors = []int{
	http.StatusBadRequest,
	http.StatusNotFound,
	http.StatusConflict,
	http.StatusInternalServerError,
}

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body map[string]string `json:"body"`
	}, error) {
		return &struct {
			Body map[string]string `json:"body"`
		}{Body: map[string]string{"status": "ok"}}, nil
	})
}

// RunRequest is the HTTP body of a scheduler run. Every field is optional.
type RunRequest struct {
	WriteThroughDays int  `json:"writeThroughDays,omitempty" doc:"Horizon in days; 0 uses the configured default"`
	Debug            bool `json:"debug,omitempty" doc:"Attach the placement trace to the response"`
	DryRun           bool `json:"dryRun,omitempty" doc:"Place without persisting"`
}

func (h *handlers) registerRun(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "run-scheduler",
		Method:      http.MethodPost,
		Path:        "/scheduler/run",
		Summary:     "Run placement over the horizon",
		Errors:      commonErrors,
	}, func(ctx context.Context, input *struct {
		Body RunRequest `json:"body"`
	}) (*struct {
		Body app.RunSchedulerResponse `json:"body"`
	}, error) {
		resp, err := h.svcs.Scheduler.Run(ctx, app.RunSchedulerRequest{
			WriteThroughDays: input.Body.WriteThroughDays,
			Debug:            input.Body.Debug,
			DryRun:           input.Body.DryRun,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body app.RunSchedulerResponse `json:"body"`
		}{Body: *resp}, nil
	})
}

func (h *handlers) registerWeights(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-weights",
		Method:      http.MethodGet,
		Path:        "/weights",
		Summary:     "Derived weights of goals, projects, tasks and habits",
		Errors:      []int{http.StatusInternalServerError},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []app.WeightRow `json:"body"`
	}, error) {
		rows, err := h.svcs.Weights.Weights(ctx, h.clock())
		if err != nil {
			return nil, handleError(err)
		}
		if rows == nil {
			rows = []app.WeightRow{}
		}
		return &struct {
			Body []app.WeightRow `json:"body"`
		}{Body: rows}, nil
	})
}

func (h *handlers) registerSchedule(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-schedule",
		Method:      http.MethodGet,
		Path:        "/schedule",
		Summary:     "Scheduled instances in a date range",
		Errors:      commonErrors,
	}, func(ctx context.Context, input *struct {
		From string `query:"from" doc:"First local date (YYYY-MM-DD); defaults to today"`
		Days int    `query:"days" default:"7" minimum:"1" maximum:"366"`
	}) (*struct {
		Body []app.InstanceView `json:"body"`
	}, error) {
		loc := h.location()
		var from time.Time
		if strings.TrimSpace(input.From) == "" {
			y, m, d := h.clock().In(loc).Date()
			from = time.Date(y, m, d, 0, 0, 0, 0, loc)
		} else {
			parsed, err := time.ParseInLocation(domain.DateLayout, input.From, loc)
			if err != nil {
				return nil, newAPIError(http.StatusBadRequest, "", "from must be YYYY-MM-DD", map[string]any{"from": input.From})
			}
			from = parsed
		}
		list, err := h.svcs.Schedule.ListInstances(ctx, from, from.AddDate(0, 0, input.Days))
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []app.InstanceView `json:"body"`
		}{Body: list}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "complete-instance",
		Method:        http.MethodPost,
		Path:          "/instances/{id}/complete",
		Summary:       "Mark a scheduled instance done",
		DefaultStatus: http.StatusNoContent,
		Errors:        commonErrors,
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct{}, error) {
		if err := h.svcs.Schedule.Complete(ctx, input.ID, h.clock().UTC()); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})
}

type CreateDayTypeRequest struct {
	Name string `json:"name" minLength:"1"`
}

type AddBlockRequest struct {
	Label      string `json:"label" minLength:"1"`
	StartLocal string `json:"startLocal" example:"09:00"`
	EndLocal   string `json:"endLocal" example:"12:00"`
	BlockType  string `json:"blockType,omitempty" example:"FOCUS"`
	Energy     string `json:"energy,omitempty" example:"HIGH"`
	Location   string `json:"location,omitempty"`
	Days       string `json:"days,omitempty" example:"weekdays"`
}

type AssignRequest struct {
	DayTypeName string `json:"dayTypeName" minLength:"1"`
}

func (h *handlers) registerDayTypes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-day-types",
		Method:      http.MethodGet,
		Path:        "/day-types",
		Summary:     "List day types with their composed segments",
		Errors:      []int{http.StatusInternalServerError},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []app.DayTypeView `json:"body"`
	}, error) {
		list, err := h.svcs.DayTypes.List(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []app.DayTypeView `json:"body"`
		}{Body: list}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-day-type",
		Method:        http.MethodPost,
		Path:          "/day-types",
		Summary:       "Create day type",
		DefaultStatus: http.StatusCreated,
		Errors:        commonErrors,
	}, func(ctx context.Context, input *struct {
		Body CreateDayTypeRequest `json:"body"`
	}) (*struct {
		Body app.DayTypeView `json:"body"`
	}, error) {
		v, err := h.svcs.DayTypes.CreateDayType(ctx, input.Body.Name)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body app.DayTypeView `json:"body"`
		}{Body: *v}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "compose-day-type",
		Method:      http.MethodGet,
		Path:        "/day-types/{name}",
		Summary:     "Day type with its composed 24h partition",
		Errors:      commonErrors,
	}, func(ctx context.Context, input *struct {
		Name string `path:"name"`
	}) (*struct {
		Body app.DayTypeView `json:"body"`
	}, error) {
		v, err := h.svcs.DayTypes.Compose(ctx, input.Name)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body app.DayTypeView `json:"body"`
		}{Body: *v}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "add-time-block",
		Method:        http.MethodPost,
		Path:          "/day-types/{name}/blocks",
		Summary:       "Add a raw time block to a day type",
		DefaultStatus: http.StatusCreated,
		Errors:        commonErrors,
	}, func(ctx context.Context, input *struct {
		Name string          `path:"name"`
		Body AddBlockRequest `json:"body"`
	}) (*struct {
		Body app.TimeBlockView `json:"body"`
	}, error) {
		v, err := h.svcs.DayTypes.AddTimeBlock(ctx, app.AddTimeBlockRequest{
			DayTypeName: input.Name,
			Label:       input.Body.Label,
			StartLocal:  input.Body.StartLocal,
			EndLocal:    input.Body.EndLocal,
			BlockType:   input.Body.BlockType,
			Energy:      input.Body.Energy,
			Location:    input.Body.Location,
			Days:        input.Body.Days,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body app.TimeBlockView `json:"body"`
		}{Body: *v}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "assign-day-type",
		Method:        http.MethodPut,
		Path:          "/assignments/{date}",
		Summary:       "Bind a calendar date to a day type",
		DefaultStatus: http.StatusNoContent,
		Errors:        commonErrors,
	}, func(ctx context.Context, input *struct {
		Date string        `path:"date" example:"2026-03-02"`
		Body AssignRequest `json:"body"`
	}) (*struct{}, error) {
		if err := h.svcs.DayTypes.AssignDate(ctx, input.Date, input.Body.DayTypeName); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})
}

func (h *handlers) registerOps(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "apply-ops",
		Method:      http.MethodPost,
		Path:        "/ops",
		Summary:     "Apply a batch of day type ops atomically",
		Errors:      commonErrors,
	}, func(ctx context.Context, input *struct {
		Body ops.Batch `json:"body"`
	}) (*struct {
		Body app.ApplyOpsResult `json:"body"`
	}, error) {
		res, err := h.svcs.Ops.Apply(ctx, input.Body.Ops)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body app.ApplyOpsResult `json:"body"`
		}{Body: *res}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "export-ops",
		Method:      http.MethodGet,
		Path:        "/ops/export",
		Summary:     "Export day types as an ops batch",
		Errors:      commonErrors,
	}, func(ctx context.Context, input *struct {
		DayType string `query:"dayType" doc:"Limit the export to one day type"`
	}) (*struct {
		Body ops.Batch `json:"body"`
	}, error) {
		list, err := h.svcs.Ops.Export(ctx, input.DayType)
		if err != nil {
			return nil, handleError(err)
		}
		if list == nil {
			list = []ops.Op{}
		}
		return &struct {
			Body ops.Batch `json:"body"`
		}{Body: ops.Batch{Ops: list}}, nil
	})
}
