// Package styles holds the lipgloss styles vibews renders text output with.
//
// Rendering is plain text until [SetEnabled] turns colors on, so output that
// is piped or redirected never carries escape sequences.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/toolprint/vibews/internal/cleanup"
	"github.com/toolprint/vibews/internal/status"
)

// Palette
var (
	Primary lipgloss.TerminalColor = lipgloss.Color("62")  // cyan/teal
	Success lipgloss.TerminalColor = lipgloss.Color("82")  // green
	Warn    lipgloss.TerminalColor = lipgloss.Color("214") // orange
	Error   lipgloss.TerminalColor = lipgloss.Color("196") // red
	Muted   lipgloss.TerminalColor = lipgloss.Color("240") // gray
	Info    lipgloss.TerminalColor = lipgloss.Color("244") // light gray
)

var (
	Bold         = lipgloss.NewStyle().Bold(true)
	PrimaryStyle = lipgloss.NewStyle().Foreground(Primary)
	SuccessStyle = lipgloss.NewStyle().Foreground(Success)
	WarnStyle    = lipgloss.NewStyle().Foreground(Warn)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Error).Bold(true)
	MutedStyle   = lipgloss.NewStyle().Foreground(Muted)
	InfoStyle    = lipgloss.NewStyle().Foreground(Info).Italic(true)
)

var enabled bool

// SetEnabled turns styled rendering on or off.
func SetEnabled(on bool) { enabled = on }

// Enabled reports whether styled rendering is on.
func Enabled() bool { return enabled }

// Render applies style to s when styling is enabled.
func Render(style lipgloss.Style, s string) string {
	if !enabled {
		return s
	}
	return style.Render(s)
}

// Severity symbols, one per tier.
const (
	SymbolClean        = "✓"
	SymbolLightWarning = "~"
	SymbolWarning      = "!"
)

// SeverityStyle returns the style for a status severity.
func SeverityStyle(s status.Severity) lipgloss.Style {
	switch s {
	case status.Warning:
		return ErrorStyle
	case status.LightWarning:
		return WarnStyle
	default:
		return SuccessStyle
	}
}

// SeveritySymbol returns the one-character marker for s.
func SeveritySymbol(s status.Severity) string {
	switch s {
	case status.Warning:
		return SymbolWarning
	case status.LightWarning:
		return SymbolLightWarning
	default:
		return SymbolClean
	}
}

// Severity renders the marker for s in its color.
func Severity(s status.Severity) string {
	return Render(SeverityStyle(s), SeveritySymbol(s))
}

// Action renders a cleanup action name in its color.
func Action(a cleanup.Action) string {
	var style lipgloss.Style
	switch {
	case a.Removed():
		style = SuccessStyle
	case a == cleanup.Failed:
		style = ErrorStyle
	default:
		style = MutedStyle
	}
	return Render(style, string(a))
}

// Level renders a violation level in its color.
func Level(l cleanup.Level) string {
	if l == cleanup.Critical {
		return Render(ErrorStyle, string(l))
	}
	return Render(WarnStyle, string(l))
}
