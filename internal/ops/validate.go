package ops

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/scheduler"
)

// Validate checks every op and returns all problems found. Whether a
// referenced day type exists is decided at apply time.
func Validate(list []Op) []error {
	var errs []error
	if len(list) == 0 {
		return []error{fmt.Errorf("ops: at least one op is required")}
	}

	created := make(map[string]int)
	for i, op := range list {
		prefix := fmt.Sprintf("ops[%d]", i)
		switch op.Type {
		case OpCreateDayType:
			name := strings.TrimSpace(op.Name)
			if name == "" {
				errs = append(errs, fmt.Errorf("%s.name is required", prefix))
				continue
			}
			key := strings.ToLower(name)
			if first, dup := created[key]; dup {
				errs = append(errs, fmt.Errorf("%s: day type %q already created by ops[%d]", prefix, name, first))
			} else {
				created[key] = i
			}
		case OpCreateTimeBlock:
			errs = append(errs, validateTimeBlock(prefix, op)...)
		case OpSetDayTypeAssignment:
			if strings.TrimSpace(op.DayTypeName) == "" {
				errs = append(errs, fmt.Errorf("%s.day_type_name is required", prefix))
			}
			if _, err := time.Parse(domain.DateLayout, op.Date); err != nil {
				errs = append(errs, fmt.Errorf("%s.date: invalid date %q (expected YYYY-MM-DD)", prefix, op.Date))
			}
		case "":
			errs = append(errs, fmt.Errorf("%s.type is required", prefix))
		default:
			errs = append(errs, fmt.Errorf("%s.type: unknown op %q", prefix, op.Type))
		}
	}
	return errs
}

func validateTimeBlock(prefix string, op Op) []error {
	var errs []error
	if strings.TrimSpace(op.DayTypeName) == "" {
		errs = append(errs, fmt.Errorf("%s.day_type_name is required", prefix))
	}
	if strings.TrimSpace(op.Label) == "" {
		errs = append(errs, fmt.Errorf("%s.label is required", prefix))
	}
	start, okStart := scheduler.ParseClock(op.StartLocal)
	if !okStart {
		errs = append(errs, fmt.Errorf("%s.start_local: invalid time %q (expected HH:MM)", prefix, op.StartLocal))
	}
	end, okEnd := scheduler.ParseClock(op.EndLocal)
	if !okEnd {
		errs = append(errs, fmt.Errorf("%s.end_local: invalid time %q (expected HH:MM)", prefix, op.EndLocal))
	}
	if okStart && okEnd && start%domain.MinutesPerDay == end%domain.MinutesPerDay {
		errs = append(errs, fmt.Errorf("%s: start_local and end_local must differ", prefix))
	}
	if _, ok := domain.ParseBlockType(op.BlockType); !ok {
		errs = append(errs, fmt.Errorf("%s.block_type: unknown block type %q", prefix, op.BlockType))
	}
	if op.Energy != "" && !domain.Energy(strings.ToUpper(strings.TrimSpace(op.Energy))).Valid() {
		errs = append(errs, fmt.Errorf("%s.energy: unknown energy %q", prefix, op.Energy))
	}
	if _, err := domain.ParseWeekdays(op.Days); err != nil {
		errs = append(errs, fmt.Errorf("%s.days: %v", prefix, err))
	}
	return errs
}
