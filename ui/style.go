package ui

import (
	"github.com/charmbracelet/lipgloss"

	"totalwar-mod-launcher/pack"
)

// ANSI 256 palette shared by the list output and the TUIs.
const (
	ColorAccent = "12"
	ColorOK     = "10"
	ColorWarn   = "11"
	ColorError  = "9"
	ColorMuted  = "8"
	ColorMovie  = "13"
	ColorPlain  = "7"
)

// Colorize applies the given color to the text using lipgloss.
func Colorize(text, color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(text)
}

// PackTypeColor picks the color a pack type is shown with.
func PackTypeColor(t pack.Type) string {
	switch t {
	case pack.Movie:
		return ColorMovie
	case pack.Mod:
		return ColorAccent
	default:
		return ColorPlain
	}
}

// Status labels.
const (
	StatusEnabled  = "enabled"
	StatusDisabled = "disabled"
	StatusForced   = "always on"
	StatusMissing  = "missing"
)

// ModStatus returns the label and color for a mod in the given state. A mod
// that is enabled but can't be toggled is one the game loads on its own.
func ModStatus(installed, enabled, toggleable bool) (string, string) {
	switch {
	case !installed:
		return StatusMissing, ColorError
	case enabled && !toggleable:
		return StatusForced, ColorMovie
	case enabled:
		return StatusEnabled, ColorOK
	default:
		return StatusDisabled, ColorMuted
	}
}
