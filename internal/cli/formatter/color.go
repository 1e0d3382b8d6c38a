package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/tempo/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// EnergyStyle colors an energy level from cool (NO) to hot (EXTREME).
func EnergyStyle(e domain.Energy) lipgloss.Style {
	switch e {
	case domain.EnergyLow:
		return StyleBlue
	case domain.EnergyMedium:
		return StyleGreen
	case domain.EnergyHigh:
		return StyleYellow
	case domain.EnergyUltra, domain.EnergyExtreme:
		return StyleRed
	default:
		return StyleDim
	}
}

// EnergyBadge renders an energy level in its color, or a dim "--" when unset.
func EnergyBadge(e domain.Energy) string {
	if e == "" {
		return StyleDim.Render("--")
	}
	return EnergyStyle(e).Render(string(e))
}

// BlockTypeBadge renders a block type with its glyph. Unknown types render dim.
func BlockTypeBadge(t domain.BlockType) string {
	switch t {
	case domain.BlockFocus:
		return StyleBlue.Render("● FOCUS")
	case domain.BlockPractice:
		return StylePurple.Render("◆ PRACTICE")
	case domain.BlockBreak:
		return StyleDim.Render("○ BREAK")
	default:
		return StyleDim.Render(string(t))
	}
}

// KindBadge renders an item kind (task, project or habit).
func KindBadge(kind string) string {
	switch domain.ItemKindCode(kind) {
	case domain.KindTask:
		return StyleFg.Render("task")
	case domain.KindProject:
		return StyleBlue.Render("project")
	case domain.KindHabit:
		return StylePurple.Render("habit")
	default:
		return StyleDim.Render(kind)
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len([]rune(upper)))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
