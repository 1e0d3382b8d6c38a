package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TreeItem is one node of an indented tree. Level 0 is a root.
type TreeItem struct {
	Title  string
	Level  int
	Detail string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeBlank  = "   "
)

// RenderTree draws items with box-drawing connectors and right-aligns their
// detail badges. Items must be in depth-first order.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	last := make([]bool, len(items))
	for i, it := range items {
		last[i] = true
		for j := i + 1; j < len(items); j++ {
			if items[j].Level < it.Level {
				break
			}
			if items[j].Level == it.Level {
				last[i] = false
				break
			}
		}
	}

	contents := make([]string, len(items))
	width := 0
	// open[l] reports whether an ancestor at level l still has siblings below.
	open := make([]bool, 0, 4)
	for i, it := range items {
		var prefix strings.Builder
		for l := 1; l < it.Level && l < len(open); l++ {
			if open[l] {
				prefix.WriteString(treePipe)
			} else {
				prefix.WriteString(treeBlank)
			}
		}
		if it.Level > 0 {
			if last[i] {
				prefix.WriteString(treeCorner)
			} else {
				prefix.WriteString(treeBranch)
			}
		}
		for len(open) <= it.Level {
			open = append(open, false)
		}
		open[it.Level] = !last[i]

		title := it.Title
		if it.Level == 0 {
			title = Bold(title)
		}
		contents[i] = StyleDim.Render(prefix.String()) + title
		width = max(width, lipgloss.Width(contents[i]))
	}

	var b strings.Builder
	for i, it := range items {
		b.WriteString(contents[i])
		if it.Detail != "" {
			b.WriteString(strings.Repeat(" ", width-lipgloss.Width(contents[i])+colGap))
			b.WriteString(StyleBlue.Render(it.Detail))
		}
		b.WriteString("\n")
	}
	return b.String()
}
