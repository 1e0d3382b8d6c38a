package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/tempo/internal/app"
	"github.com/alexanderramin/tempo/internal/domain"
)

func formatValidationErrors(errs []error) error {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("%w: validation failed (%d errors):\n  - %s",
		domain.ErrInvalidInput, len(errs), strings.Join(msgs, "\n  - "))
}

// classify turns a repository or validation error into a SchedulerError,
// using fallback when no sentinel matches.
func classify(err error, fallback app.SchedulerErrorCode, format string, args ...any) error {
	if err == nil {
		return nil
	}
	var se *app.SchedulerError
	if errors.As(err, &se) {
		return se
	}
	code := fallback
	switch {
	case errors.Is(err, domain.ErrNotFound):
		code = app.ErrNotFound
	case errors.Is(err, domain.ErrDuplicate):
		code = app.ErrConflict
	case errors.Is(err, domain.ErrInvalidInput):
		code = app.ErrInvalidRequest
	}
	msg := fmt.Sprintf(format, args...)
	return app.NewSchedulerError(code, err, "%s: %v", msg, err)
}

func invalidRequest(format string, args ...any) error {
	return app.NewSchedulerError(app.ErrInvalidRequest, domain.ErrInvalidInput, format, args...)
}

func validationFailed(errs []error) error {
	err := formatValidationErrors(errs)
	return app.NewSchedulerError(app.ErrInvalidRequest, err, "%s", err.Error())
}
