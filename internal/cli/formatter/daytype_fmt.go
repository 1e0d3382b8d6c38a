package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/tempo/internal/app"
	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/scheduler"
)

// FormatDayType renders the composed 24h partition of one day type.
// Fillers are dimmed so the authored blocks stand out.
func FormatDayType(v *app.DayTypeView) string {
	var b strings.Builder
	b.WriteString(FormatSegments(v.Segments))
	b.WriteString("\n")
	b.WriteString(Dim(fmt.Sprintf("%d blocks, %s scheduled", len(v.Blocks), FormatMinutes(blockMinutes(v.Segments)))) + "\n")
	return RenderBox(v.Name, b.String())
}

func FormatSegments(segments []domain.Segment) string {
	headers := []string{"TIME", "LABEL", "TYPE", "ENERGY", "LENGTH"}
	rows := make([][]string, 0, len(segments))
	for _, s := range segments {
		span := fmt.Sprintf("%s-%s", scheduler.FormatClock(s.StartMin), scheduler.FormatClock(s.EndMin))
		if s.Filler {
			rows = append(rows, []string{Dim(span), Dim(s.Label), Dim("filler"), Dim("--"), Dim(FormatMinutes(s.Minutes()))})
			continue
		}
		label := Bold(s.Label)
		if s.Location != "" {
			label += " " + Dim("@"+s.Location)
		}
		rows = append(rows, []string{
			span,
			label,
			BlockTypeBadge(s.BlockType),
			EnergyBadge(s.Energy),
			FormatMinutes(s.Minutes()),
		})
	}
	return RenderTable(headers, rows)
}

// FormatDayTypeList renders one line per day type.
func FormatDayTypeList(list []app.DayTypeView) string {
	if len(list) == 0 {
		return Dim("No day types. Create one with: tempo daytype create NAME") + "\n"
	}
	headers := []string{"NAME", "BLOCKS", "SCHEDULED", "FIRST", "LAST"}
	rows := make([][]string, 0, len(list))
	for _, v := range list {
		first, last := Dim("--"), Dim("--")
		if len(v.Blocks) > 0 {
			first = v.Blocks[0].StartLocal
			last = v.Blocks[len(v.Blocks)-1].EndLocal
		}
		rows = append(rows, []string{
			Bold(v.Name),
			fmt.Sprintf("%d", len(v.Blocks)),
			FormatMinutes(blockMinutes(v.Segments)),
			first,
			last,
		})
	}
	return RenderTable(headers, rows)
}

func FormatBlockCreated(dayType string, v *app.TimeBlockView) string {
	return fmt.Sprintf("Added %s %s-%s to %s (%s, %s)\n",
		Bold(v.Label), v.StartLocal, v.EndLocal, dayType, v.BlockType, v.Energy)
}

// FormatApplyResult summarizes an applied ops batch.
func FormatApplyResult(res *app.ApplyOpsResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Applied %s ops\n", StyleGreen.Render(fmt.Sprintf("%d", res.Applied)))
	if len(res.DayTypesCreated) > 0 {
		fmt.Fprintf(&b, "  day types created: %s\n", strings.Join(res.DayTypesCreated, ", "))
	}
	fmt.Fprintf(&b, "  blocks created:    %d\n", res.BlocksCreated)
	fmt.Fprintf(&b, "  assignments set:   %d\n", res.AssignmentsSet)
	if len(res.DayTypesAffected) > 0 {
		fmt.Fprintf(&b, "  affected:          %s\n", strings.Join(res.DayTypesAffected, ", "))
	}
	return b.String()
}

func FormatImportResult(res *app.ImportResult) string {
	rows := [][]string{
		{"goals", fmt.Sprintf("%d", res.Goals)},
		{"projects", fmt.Sprintf("%d", res.Projects)},
		{"tasks", fmt.Sprintf("%d", res.Tasks)},
		{"habits", fmt.Sprintf("%d", res.Habits)},
		{"day types", fmt.Sprintf("%d", res.DayTypes)},
		{"blocks", fmt.Sprintf("%d", res.Blocks)},
		{"assignments", fmt.Sprintf("%d", res.Assignments)},
	}
	return RenderBox("Imported", RenderTable([]string{"ENTITY", "COUNT"}, rows))
}

func blockMinutes(segments []domain.Segment) int {
	total := 0
	for _, s := range segments {
		if !s.Filler {
			total += s.Minutes()
		}
	}
	return total
}
