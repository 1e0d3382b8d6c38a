package app

import (
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
)

type SchedulerErrorCode string

const (
	ErrInvalidRequest     SchedulerErrorCode = "INVALID_REQUEST"
	ErrSnapshotLoadFailed SchedulerErrorCode = "SNAPSHOT_LOAD_FAILED"
	ErrPersistFailed      SchedulerErrorCode = "PERSIST_FAILED"
	ErrNotFound           SchedulerErrorCode = "NOT_FOUND"
	ErrConflict           SchedulerErrorCode = "CONFLICT"
)

// SchedulerError is the typed failure returned by use cases. Gate failures
// and unplaced items are never errors; they live in the trace.
type SchedulerError struct {
	Code    SchedulerErrorCode
	Message string
	Err     error
}

func (e *SchedulerError) Error() string {
	return string(e.Code) + ": " + e.Message
}

func (e *SchedulerError) Unwrap() error { return e.Err }

func NewSchedulerError(code SchedulerErrorCode, err error, format string, args ...any) *SchedulerError {
	return &SchedulerError{Code: code, Message: sprintf(format, args...), Err: err}
}

// InstanceView is the wire form of a scheduled instance.
type InstanceView struct {
	ID          string     `json:"id"`
	Kind        string     `json:"kind"`
	SourceID    string     `json:"sourceId"`
	Label       string     `json:"label"`
	BlockID     string     `json:"blockId"`
	Start       time.Time  `json:"start"`
	End         time.Time  `json:"end"`
	DurationMin int        `json:"durationMin"`
	Energy      string     `json:"energy"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func NewInstanceView(inst domain.ScheduleInstance) InstanceView {
	v := InstanceView{
		ID:          inst.ID,
		Label:       inst.Label,
		BlockID:     inst.BlockID,
		Start:       inst.StartUTC.UTC(),
		End:         inst.EndUTC.UTC(),
		DurationMin: inst.DurationMin,
		Energy:      string(inst.Energy),
		CompletedAt: inst.CompletedAt,
	}
	if inst.Source != nil {
		v.Kind = string(inst.Source.Kind())
		v.SourceID = inst.Source.SourceID()
	}
	return v
}
