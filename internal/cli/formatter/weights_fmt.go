package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/tempo/internal/app"
)

// FormatWeights renders the goal > project > task hierarchy with each
// node's weight, then habits as a flat list.
func FormatWeights(rows []app.WeightRow) string {
	if len(rows) == 0 {
		return Dim("Nothing to weigh: no active goals or habits.") + "\n"
	}

	var tree, habits []TreeItem
	for _, r := range rows {
		item := TreeItem{
			Title:  r.Name + " " + Dim(strings.ToLower(r.Priority)),
			Detail: fmt.Sprintf("%.0f", r.Weight),
		}
		switch r.Kind {
		case "goal":
			tree = append(tree, item)
		case "project":
			item.Level = 1
			tree = append(tree, item)
		case "task":
			item.Level = 2
			tree = append(tree, item)
		case "habit":
			habits = append(habits, item)
		}
	}

	var b strings.Builder
	if len(tree) > 0 {
		b.WriteString(Header("Goals") + "\n")
		b.WriteString(RenderTree(tree))
	}
	if len(habits) > 0 {
		if len(tree) > 0 {
			b.WriteString("\n")
		}
		b.WriteString(Header("Habits") + "\n")
		b.WriteString(RenderTree(habits))
	}
	return RenderBox("Weights", strings.TrimSuffix(b.String(), "\n"))
}
