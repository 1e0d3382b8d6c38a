package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	"github.com/alexanderramin/tempo/internal/app"
	"github.com/alexanderramin/tempo/internal/domain"
)

// Services are the use cases the API exposes. Nil services leave their
// routes unregistered.
type Services struct {
	Scheduler app.RunSchedulerUseCase
	Weights   app.WeightReportUseCase
	Schedule  app.ScheduleUseCase
	DayTypes  app.DayTypeUseCase
	Ops       app.OpsUseCase
}

type apiErrorBody struct {
	Code    string         `json:"code" example:"INVALID_REQUEST"`
	Message string         `json:"message" example:"writeThroughDays must not be negative, got -1"`
	Details map[string]any `json:"details,omitempty" jsonschema:"type=object,additionalProperties=true"`
}

// apiError is the error envelope every route returns.
type apiError struct {
	status int
	Body   apiErrorBody `json:"error"`
}

func (e *apiError) GetStatus() int { return e.status }
func (e *apiError) Error() string  { return e.Body.Message }

type apiConfig struct {
	BasePath string
	Version  string
	Location *time.Location
	Clock    func() time.Time
}

// mountAPI registers the huma operations on router under basePath.
func mountAPI(router chi.Router, cfg apiConfig, svcs Services) huma.API {
	huma.DefaultArrayNullable = false
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		return newAPIError(status, "", msg, nil)
	}
	huma.NewErrorWithContext = func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
		if status == http.StatusUnprocessableEntity {
			// Request schema failures are the caller's fault, same as INVALID_REQUEST.
			status = http.StatusBadRequest
		}
		var details map[string]any
		if len(errs) > 0 {
			messages := make([]string, 0, len(errs))
			for _, e := range errs {
				messages = append(messages, e.Error())
			}
			details = map[string]any{"errors": messages}
		}
		return newAPIError(status, "", msg, details)
	}

	hcfg := huma.DefaultConfig("Tempo API", cfg.Version)
	hcfg.OpenAPIPath = cfg.BasePath + "/openapi"
	hcfg.DocsPath = ""
	hcfg.SchemasPath = cfg.BasePath + "/schemas"
	api := humachi.New(router, hcfg)
	group := huma.NewGroup(api, cfg.BasePath)

	h := &handlers{svcs: svcs, loc: cfg.Location, now: cfg.Clock}
	registerHealth(group)
	if svcs.Scheduler != nil {
		h.registerRun(group)
	}
	if svcs.Weights != nil {
		h.registerWeights(group)
	}
	if svcs.Schedule != nil {
		h.registerSchedule(group)
	}
	if svcs.DayTypes != nil {
		h.registerDayTypes(group)
	}
	if svcs.Ops != nil {
		h.registerOps(group)
	}
	return api
}

func newAPIError(status int, code, message string, details map[string]any) huma.StatusError {
	if code == "" {
		code = defaultCodeForStatus(status)
	}
	return &apiError{
		status: status,
		Body: apiErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// handleError maps use-case failures onto the envelope. Typed scheduler
// errors keep their code; bare sentinels are classified by kind.
func handleError(err error) huma.StatusError {
	if err == nil {
		return nil
	}
	var se *app.SchedulerError
	if errors.As(err, &se) {
		status := statusForCode(se.Code)
		msg := se.Message
		if status == http.StatusInternalServerError {
			return newAPIError(status, string(se.Code), msg, map[string]any{"error": err.Error()})
		}
		return newAPIError(status, string(se.Code), msg, nil)
	}
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return newAPIError(http.StatusBadRequest, string(app.ErrInvalidRequest), err.Error(), nil)
	case errors.Is(err, domain.ErrNotFound):
		return newAPIError(http.StatusNotFound, string(app.ErrNotFound), err.Error(), nil)
	case errors.Is(err, domain.ErrDuplicate):
		return newAPIError(http.StatusConflict, string(app.ErrConflict), err.Error(), nil)
	default:
		return newAPIError(http.StatusInternalServerError, "", "internal error", map[string]any{"error": err.Error()})
	}
}

func statusForCode(code app.SchedulerErrorCode) int {
	switch code {
	case app.ErrInvalidRequest:
		return http.StatusBadRequest
	case app.ErrNotFound:
		return http.StatusNotFound
	case app.ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func defaultCodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return string(app.ErrInvalidRequest)
	case http.StatusNotFound:
		return string(app.ErrNotFound)
	case http.StatusConflict:
		return string(app.ErrConflict)
	case http.StatusInternalServerError:
		return "INTERNAL_ERROR"
	default:
		return strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	}
}
