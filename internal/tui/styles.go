package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Base styles
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#60a0e0")).
			Bold(true)

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	searchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#60a0e0")).
			Bold(true)

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3ecce4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06060"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#34d474"))

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#606878"))

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#3ecce4")).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#343c4a"))

	// Asset status colors
	statusColors = map[string]lipgloss.Color{
		"Active":       lipgloss.Color("#34d474"),
		"Inactive":     lipgloss.Color("#8890a0"),
		"Under Repair": lipgloss.Color("#f0944a"),
		"Disposed":     lipgloss.Color("#b45555"),
	}

	categoryColors = map[string]lipgloss.Color{
		"Computer": lipgloss.Color("#60a0e0"),
		"Monitor":  lipgloss.Color("#b080d0"),
		"Printer":  lipgloss.Color("#d4a844"),
		"Network":  lipgloss.Color("#3ecce4"),
	}
)

// StatusStyle returns a style colored for an asset status.
func StatusStyle(status string) lipgloss.Style {
	if c, ok := statusColors[status]; ok {
		return lipgloss.NewStyle().Foreground(c)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#606878"))
}

// CategoryStyle returns a bold style colored for an asset category.
func CategoryStyle(category string) lipgloss.Style {
	if c, ok := categoryColors[category]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#8890a0")).Bold(true)
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

func helpBar(entries ...[2]string) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, helpEntry(e[0], e[1]))
	}
	return " " + strings.Join(parts, "  ")
}

// header renders the title line with the signed-in user on the right.
func header(user string, width int) string {
	left := " " + titleStyle.Render("U-ITAM") + " " + metaStyle.Render("asset inventory")
	if user == "" {
		return left
	}
	right := dimStyle.Render(user) + " "
	pad := width - lipgloss.Width(left) - lipgloss.Width(right)
	if pad < 1 {
		pad = 1
	}
	return left + strings.Repeat(" ", pad) + right
}

// statusLine renders a transient message, red for errors.
func statusLine(msg string, isErr bool) string {
	if msg == "" {
		return ""
	}
	if isErr {
		return " " + errorStyle.Render(fmt.Sprintf("error: %s", msg))
	}
	return " " + okStyle.Render(msg)
}
