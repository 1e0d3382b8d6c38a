package ops

import (
	"github.com/alexanderramin/tempo/internal/domain"
)

// Export renders a stored day type back into the ops that would recreate it.
// Assignments for other day types are skipped.
func Export(dt domain.DayType, assignments []domain.DayTypeAssignment) []Op {
	out := []Op{{Type: OpCreateDayType, Name: dt.Name}}
	for _, b := range dt.Blocks {
		op := Op{
			Type:        OpCreateTimeBlock,
			DayTypeName: dt.Name,
			Label:       b.Label,
			StartLocal:  b.StartLocal,
			EndLocal:    b.EndLocal,
			BlockType:   string(b.BlockType),
			Energy:      string(b.Energy),
			Location:    b.Location,
		}
		if b.Days != 0 {
			op.Days = b.Days.String()
		}
		out = append(out, op)
	}
	for _, a := range assignments {
		if a.DayTypeID != dt.ID {
			continue
		}
		out = append(out, Op{Type: OpSetDayTypeAssignment, DayTypeName: dt.Name, Date: a.Date})
	}
	return out
}
