package formatter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/tempo/internal/app"
	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/scheduler"
)

const waterfallBarWidth = 12

// FormatRun renders a scheduler run: the placed instances, a count line and,
// for debug runs, the unplaced waterfall.
func FormatRun(resp *app.RunSchedulerResponse, loc *time.Location) string {
	var b strings.Builder

	if len(resp.Instances) == 0 {
		b.WriteString(Dim("Nothing placed.") + "\n")
	} else {
		b.WriteString(renderInstances(resp.Instances, loc))
	}

	b.WriteString("\n")
	placed := StyleGreen.Render(fmt.Sprintf("%d placed", resp.PlacedCount))
	unplaced := Dim("0 unplaced")
	if resp.UnplacedCount > 0 {
		unplaced = StyleYellow.Render(fmt.Sprintf("%d unplaced", resp.UnplacedCount))
	}
	state := Dim("dry run, nothing written")
	if resp.Persisted {
		state = Dim("written through")
	}
	fmt.Fprintf(&b, "%s, %s (%s)\n", placed, unplaced, state)
	b.WriteString(Dim(fmt.Sprintf("base %s, %s, run %s", resp.BaseDate, resp.Timezone, shortRun(resp.RunID))) + "\n")

	if resp.Debug != nil {
		if resp.Debug.Fatal != "" {
			b.WriteString("\n" + StyleRed.Render("FATAL: "+resp.Debug.Fatal) + "\n")
		}
		if resp.DebugSummary != nil && len(resp.DebugSummary.Waterfall) > 0 {
			b.WriteString("\n" + FormatWaterfall(resp.DebugSummary.Waterfall, resp.DebugSummary.Unplaced))
		}
		if len(resp.Failures) > 0 {
			b.WriteString("\n" + FormatFailures(resp.Failures, resp.Debug.Display))
		}
	}

	return RenderBox("Schedule Run", b.String())
}

func renderInstances(instances []app.InstanceView, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	headers := []string{"DAY", "TIME", "KIND", "LABEL", "ENERGY", "ID"}
	rows := make([][]string, 0, len(instances))
	for _, inst := range instances {
		start, end := inst.Start.In(loc), inst.End.In(loc)
		label := Bold(inst.Label)
		if inst.CompletedAt != nil {
			label = StyleDim.Render("✔ " + inst.Label)
		}
		rows = append(rows, []string{
			start.Format("Mon 01-02"),
			fmt.Sprintf("%s-%s", start.Format("15:04"), end.Format("15:04")),
			KindBadge(inst.Kind),
			label,
			EnergyBadge(domain.Energy(inst.Energy)),
			TruncID(inst.ID),
		})
	}
	return RenderTable(headers, rows)
}

// FormatWaterfall renders unplaced counts per reason, largest first.
func FormatWaterfall(waterfall map[string]int, total int) string {
	reasons := make([]string, 0, len(waterfall))
	width := 0
	for r := range waterfall {
		reasons = append(reasons, r)
		width = max(width, len(r))
	}
	sort.Slice(reasons, func(i, j int) bool {
		if waterfall[reasons[i]] != waterfall[reasons[j]] {
			return waterfall[reasons[i]] > waterfall[reasons[j]]
		}
		return reasons[i] < reasons[j]
	})

	var b strings.Builder
	b.WriteString(Header("Unplaced") + "\n")
	for _, r := range reasons {
		n := waterfall[r]
		fmt.Fprintf(&b, "  %-*s  %s %d\n", width, r, RenderBar(n, total, waterfallBarWidth, reasonStyle(r)), n)
	}
	return b.String()
}

// FormatFailures lists one line per unplaced item, labelled when possible.
func FormatFailures(failures []scheduler.Failure, display map[string]string) string {
	var b strings.Builder
	b.WriteString(Header("Failures") + "\n")
	for _, f := range failures {
		name := f.ItemID
		if label, ok := display[f.ItemID]; ok && label != "" {
			name = label
		}
		line := fmt.Sprintf("  • %s  %s", Bold(name), reasonStyle(f.Reason).Render(f.Reason))
		if f.Detail != "" {
			line += "  " + Dim(f.Detail)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func reasonStyle(reason string) lipgloss.Style {
	switch reason {
	case scheduler.ReasonNoFreeSlot, scheduler.ReasonSlotCollision:
		return StyleYellow
	case scheduler.ReasonNoMatchingEnergy, scheduler.ReasonLocationMismatch:
		return StyleBlue
	case scheduler.ReasonInvalidDuration:
		return StyleRed
	default:
		return StyleDim
	}
}

func shortRun(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
