package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/tempo/internal/app"
)

// FormatSchedule groups instances by local day.
func FormatSchedule(instances []app.InstanceView, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	if len(instances) == 0 {
		return Dim("Nothing scheduled. Run: tempo run") + "\n"
	}

	var b strings.Builder
	day := ""
	var group []app.InstanceView
	flush := func() {
		if len(group) == 0 {
			return
		}
		b.WriteString(Header(day) + "\n")
		for _, inst := range group {
			start, end := inst.Start.In(loc), inst.End.In(loc)
			mark := " "
			label := inst.Label
			if inst.CompletedAt != nil {
				mark = StyleGreen.Render("✔")
				label = Dim(label)
			}
			fmt.Fprintf(&b, "  %s %s-%s  %-7s %s %s\n",
				mark, start.Format("15:04"), end.Format("15:04"), inst.Kind, label, TruncID(inst.ID))
		}
		b.WriteString("\n")
		group = group[:0]
	}
	for _, inst := range instances {
		d := inst.Start.In(loc).Format("Monday 2006-01-02")
		if d != day {
			flush()
			day = d
		}
		group = append(group, inst)
	}
	flush()
	return strings.TrimSuffix(b.String(), "\n")
}
