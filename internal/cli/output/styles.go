package output

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/leapstack-labs/dbprime/pkg/core"
)

// Styles holds the lipgloss styles used for status lines.
type Styles struct {
	Created lipgloss.Style
	Existed lipgloss.Style
	Failed  lipgloss.Style
	Skipped lipgloss.Style
	Header  lipgloss.Style
}

// DefaultStyles returns the standard color scheme.
func DefaultStyles() *Styles {
	return &Styles{
		Created: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),  // green
		Existed: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),  // cyan
		Failed:  lipgloss.NewStyle().Foreground(lipgloss.Color("1")),  // red
		Skipped: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),  // gray
		Header:  lipgloss.NewStyle().Bold(true),
	}
}

// PlainStyles returns styles that render without color, for NO_COLOR
// environments.
func PlainStyles() *Styles {
	return &Styles{
		Created: lipgloss.NewStyle(),
		Existed: lipgloss.NewStyle(),
		Failed:  lipgloss.NewStyle(),
		Skipped: lipgloss.NewStyle(),
		Header:  lipgloss.NewStyle(),
	}
}

// ForStatus returns the style for a provisioning status.
func (s *Styles) ForStatus(status core.Status) lipgloss.Style {
	switch status {
	case core.StatusCreated:
		return s.Created
	case core.StatusExisted:
		return s.Existed
	case core.StatusFailed:
		return s.Failed
	case core.StatusSkipped:
		return s.Skipped
	default:
		return lipgloss.NewStyle()
	}
}
