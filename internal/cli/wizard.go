package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/tempo/internal/app"
	"github.com/alexanderramin/tempo/internal/cli/formatter"
	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/scheduler"
)

// tempoHuhTheme returns a huh theme matching the formatter palette.
func tempoHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// timeBlockForm asks for the fields of req that are still empty.
func timeBlockForm(req *app.AddTimeBlockRequest) *huh.Form {
	energies := []domain.Energy{
		domain.EnergyNo, domain.EnergyLow, domain.EnergyMedium,
		domain.EnergyHigh, domain.EnergyUltra, domain.EnergyExtreme,
	}
	energyOpts := make([]huh.Option[string], 0, len(energies))
	for _, e := range energies {
		energyOpts = append(energyOpts, huh.NewOption(formatter.EnergyBadge(e), string(e)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Label").
				Placeholder("Deep Work").
				Value(&req.Label).
				Validate(validateRequired),
			huh.NewInput().
				Title("Start (HH:MM)").
				Placeholder("09:00").
				Value(&req.StartLocal).
				Validate(validateClock),
			huh.NewInput().
				Title("End (HH:MM)").
				Placeholder("12:00").
				Value(&req.EndLocal).
				Validate(validateClock),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Block Type").
				Options(
					huh.NewOption(formatter.BlockTypeBadge(domain.BlockFocus), string(domain.BlockFocus)),
					huh.NewOption(formatter.BlockTypeBadge(domain.BlockPractice), string(domain.BlockPractice)),
					huh.NewOption(formatter.BlockTypeBadge(domain.BlockBreak), string(domain.BlockBreak)),
				).
				Value(&req.BlockType),
			huh.NewSelect[string]().
				Title("Energy").
				Options(energyOpts...).
				Value(&req.Energy),
			huh.NewInput().
				Title("Location (blank for anywhere)").
				Value(&req.Location),
		),
	).WithTheme(tempoHuhTheme()).WithShowHelp(false)
}

func validateRequired(s string) error {
	if s == "" {
		return fmt.Errorf("required")
	}
	return nil
}

func validateClock(s string) error {
	if _, ok := scheduler.ParseClock(s); !ok {
		return fmt.Errorf("use HH:MM format")
	}
	return nil
}

func validateOptionalDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse(domain.DateLayout, s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}
