package output

import "github.com/charmbracelet/lipgloss"

// Styles is the shared lipgloss style set for text-mode output.
type Styles struct {
	Header1  lipgloss.Style
	Header2  lipgloss.Style
	Bold     lipgloss.Style
	Muted    lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Warning  lipgloss.Style
	Info     lipgloss.Style
	Critical lipgloss.Style
}

// NewStyles builds the default style set.
func NewStyles() *Styles {
	return &Styles{
		Header1:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Header2:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		Bold:     lipgloss.NewStyle().Bold(true),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Info:     lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Critical: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	}
}

// SeverityStyle maps a severity string to its display style.
func (s *Styles) SeverityStyle(severity string) lipgloss.Style {
	switch severity {
	case "critical":
		return s.Critical
	case "high":
		return s.Error
	case "medium":
		return s.Warning
	case "low":
		return s.Info
	default:
		return s.Muted
	}
}
