// Package mcpapi exposes the scheduler to assistants as stateless MCP tools
// over streamable HTTP.
package mcpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/alexanderramin/tempo/internal/app"
	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/ops"
)

type Config struct {
	ServerName    string
	ServerVersion string
	EndpointPath  string
	Location      *time.Location
	Clock         func() time.Time
}

// Services are the use cases backing the tools. A nil service hides its tools.
type Services struct {
	Scheduler app.RunSchedulerUseCase
	Weights   app.WeightReportUseCase
	Schedule  app.ScheduleUseCase
	DayTypes  app.DayTypeUseCase
	Ops       app.OpsUseCase
}

// Handler wraps one stateless MCP streamable HTTP handler.
type Handler struct {
	httpHandler http.Handler
}

func NewHandler(cfg Config, svcs Services) (*Handler, error) {
	if svcs.Scheduler == nil && svcs.DayTypes == nil && svcs.Ops == nil {
		return nil, fmt.Errorf("at least one of scheduler, day type or ops service is required")
	}
	cfg = normalizeConfig(cfg)

	mcpSrv := mcpserver.NewMCPServer(
		cfg.ServerName,
		cfg.ServerVersion,
		mcpserver.WithToolCapabilities(false),
	)
	if svcs.Scheduler != nil {
		registerRunTool(mcpSrv, svcs.Scheduler)
	}
	if svcs.Weights != nil {
		registerWeightsTool(mcpSrv, svcs.Weights, cfg.Clock)
	}
	if svcs.Schedule != nil {
		registerScheduleTools(mcpSrv, svcs.Schedule, cfg)
	}
	if svcs.DayTypes != nil {
		registerDayTypeTools(mcpSrv, svcs.DayTypes)
	}
	if svcs.Ops != nil {
		registerOpsTools(mcpSrv, svcs.Ops)
	}

	streamable := mcpserver.NewStreamableHTTPServer(
		mcpSrv,
		mcpserver.WithEndpointPath(cfg.EndpointPath),
		mcpserver.WithStateLess(true),
	)
	return &Handler{httpHandler: streamable}, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.httpHandler == nil {
		http.Error(w, "mcp handler unavailable", http.StatusServiceUnavailable)
		return
	}
	h.httpHandler.ServeHTTP(w, r)
}

func normalizeConfig(cfg Config) Config {
	cfg.ServerName = strings.TrimSpace(cfg.ServerName)
	if cfg.ServerName == "" {
		cfg.ServerName = "tempo"
	}
	cfg.ServerVersion = strings.TrimSpace(cfg.ServerVersion)
	if cfg.ServerVersion == "" {
		cfg.ServerVersion = "dev"
	}
	cfg.EndpointPath = strings.TrimSpace(cfg.EndpointPath)
	if cfg.EndpointPath == "" {
		cfg.EndpointPath = "/mcp"
	}
	if !strings.HasPrefix(cfg.EndpointPath, "/") {
		cfg.EndpointPath = "/" + cfg.EndpointPath
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return cfg
}

func registerRunTool(srv *mcpserver.MCPServer, scheduler app.RunSchedulerUseCase) {
	srv.AddTool(
		mcp.NewTool(
			"tempo.run_scheduler",
			mcp.WithDescription("Place goals, projects, tasks and habits into day type blocks over the horizon and write the result through."),
			mcp.WithNumber("write_through_days", mcp.Description("Horizon in days; 0 uses the configured default")),
			mcp.WithBoolean("debug", mcp.Description("Attach the placement trace")),
			mcp.WithBoolean("dry_run", mcp.Description("Place without persisting")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			resp, err := scheduler.Run(ctx, app.RunSchedulerRequest{
				WriteThroughDays: req.GetInt("write_through_days", 0),
				Debug:            req.GetBool("debug", false),
				DryRun:           req.GetBool("dry_run", false),
			})
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(resp)
			if err != nil {
				return nil, fmt.Errorf("encode run_scheduler result: %w", err)
			}
			return result, nil
		},
	)
}

func registerWeightsTool(srv *mcpserver.MCPServer, weights app.WeightReportUseCase, clock func() time.Time) {
	srv.AddTool(
		mcp.NewTool(
			"tempo.weights",
			mcp.WithDescription("List the derived placement weight of every goal, project, open task and habit."),
		),
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			rows, err := weights.Weights(ctx, clock())
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(map[string]any{"weights": rows})
			if err != nil {
				return nil, fmt.Errorf("encode weights result: %w", err)
			}
			return result, nil
		},
	)
}

func registerScheduleTools(srv *mcpserver.MCPServer, schedule app.ScheduleUseCase, cfg Config) {
	srv.AddTool(
		mcp.NewTool(
			"tempo.list_schedule",
			mcp.WithDescription("List scheduled instances starting on a local date."),
			mcp.WithString("from", mcp.Description("First local date, YYYY-MM-DD; defaults to today")),
			mcp.WithNumber("days", mcp.Description("Number of days to list (default 7)")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			from, err := parseFrom(req.GetString("from", ""), cfg)
			if err != nil {
				return mcp.NewToolResultError("invalid_request: " + err.Error()), nil
			}
			days := req.GetInt("days", 7)
			if days < 1 {
				return mcp.NewToolResultError("invalid_request: days must be positive"), nil
			}
			list, err := schedule.ListInstances(ctx, from, from.AddDate(0, 0, days))
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(map[string]any{"instances": list})
			if err != nil {
				return nil, fmt.Errorf("encode list_schedule result: %w", err)
			}
			return result, nil
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"tempo.complete_instance",
			mcp.WithDescription("Mark one scheduled instance done. A task instance also completes its task."),
			mcp.WithString("instance_id", mcp.Required(), mcp.Description("Instance identifier")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			id, err := req.RequireString("instance_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if err := schedule.Complete(ctx, id, cfg.Clock().UTC()); err != nil {
				return toolResultFromError(err), nil
			}
			return mcp.NewToolResultText("completed " + id), nil
		},
	)
}

func parseFrom(raw string, cfg Config) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		y, m, d := cfg.Clock().In(cfg.Location).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, cfg.Location), nil
	}
	t, err := time.ParseInLocation(domain.DateLayout, raw, cfg.Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("from must be YYYY-MM-DD, got %q", raw)
	}
	return t, nil
}

func registerDayTypeTools(srv *mcpserver.MCPServer, dayTypes app.DayTypeUseCase) {
	srv.AddTool(
		mcp.NewTool(
			"tempo.list_day_types",
			mcp.WithDescription("List day types with their raw blocks and composed 24h segments."),
		),
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			list, err := dayTypes.List(ctx)
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(map[string]any{"dayTypes": list})
			if err != nil {
				return nil, fmt.Errorf("encode list_day_types result: %w", err)
			}
			return result, nil
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"tempo.compose_day_type",
			mcp.WithDescription("Compose one day type into a gap-free 24h partition of labelled segments."),
			mcp.WithString("name", mcp.Required(), mcp.Description("Day type name (case-insensitive)")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			name, err := req.RequireString("name")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			view, err := dayTypes.Compose(ctx, name)
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(view)
			if err != nil {
				return nil, fmt.Errorf("encode compose_day_type result: %w", err)
			}
			return result, nil
		},
	)
}

func registerOpsTools(srv *mcpserver.MCPServer, svc app.OpsUseCase) {
	srv.AddTool(
		mcp.NewTool(
			"tempo.apply_ops",
			mcp.WithDescription("Apply a batch of CREATE_DAY_TYPE, CREATE_DAY_TYPE_TIME_BLOCK and SET_DAY_TYPE_ASSIGNMENT ops atomically."),
			mcp.WithString("ops", mcp.Required(), mcp.Description("YAML or JSON document: a list of ops or {ops: [...]}")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			doc, err := req.RequireString("ops")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			batch, err := ops.Decode(strings.NewReader(doc))
			if err != nil {
				return toolResultFromError(err), nil
			}
			res, err := svc.Apply(ctx, batch)
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(res)
			if err != nil {
				return nil, fmt.Errorf("encode apply_ops result: %w", err)
			}
			return result, nil
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"tempo.export_ops",
			mcp.WithDescription("Export day types, their blocks and date assignments as an ops batch."),
			mcp.WithString("day_type", mcp.Description("Limit the export to one day type")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			list, err := svc.Export(ctx, req.GetString("day_type", ""))
			if err != nil {
				return toolResultFromError(err), nil
			}
			if list == nil {
				list = []ops.Op{}
			}
			result, err := mcp.NewToolResultJSON(ops.Batch{Ops: list})
			if err != nil {
				return nil, fmt.Errorf("encode export_ops result: %w", err)
			}
			return result, nil
		},
	)
}

// toolResultFromError maps service errors into MCP-visible tool errors.
func toolResultFromError(err error) *mcp.CallToolResult {
	if err == nil {
		return mcp.NewToolResultError("unknown error")
	}
	var se *app.SchedulerError
	if errors.As(err, &se) {
		return mcp.NewToolResultError(strings.ToLower(string(se.Code)) + ": " + se.Message)
	}
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return mcp.NewToolResultError("invalid_request: " + err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return mcp.NewToolResultError("not_found: " + err.Error())
	case errors.Is(err, domain.ErrDuplicate):
		return mcp.NewToolResultError("conflict: " + err.Error())
	default:
		return mcp.NewToolResultError("internal_error: " + err.Error())
	}
}
