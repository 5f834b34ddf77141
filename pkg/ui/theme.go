package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

// Theme holds the colors and pre-computed styles of the grid.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor

	Checked lipgloss.AdaptiveColor
	Mixed   lipgloss.AdaptiveColor
	Error   lipgloss.AdaptiveColor

	Base     lipgloss.Style
	Selected lipgloss.Style
	Header   lipgloss.Style
	Fixed    lipgloss.Style

	// Created once at startup instead of per row per frame
	Guide      lipgloss.Style
	Glyph      lipgloss.Style
	BoldText   lipgloss.Style
	CheckedBox lipgloss.Style
	MixedBox   lipgloss.Style
	EmptyBox   lipgloss.Style
	Status     lipgloss.Style
	StatusErr  lipgloss.Style
	Separator  lipgloss.Style
}

// DefaultTheme returns the standard Dracula-inspired theme (adaptive)
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"},
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"},
		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},

		Checked: lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"},
		Mixed:   lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"},
		Error:   lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})

	t.Selected = r.NewStyle().
		Background(t.Highlight).
		Bold(true)

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	t.Fixed = r.NewStyle().Foreground(t.Primary)

	t.Guide = r.NewStyle().Foreground(t.Border)
	t.Glyph = r.NewStyle().Foreground(t.Secondary)
	t.BoldText = r.NewStyle().Bold(true)
	t.CheckedBox = r.NewStyle().Foreground(t.Checked).Bold(true)
	t.MixedBox = r.NewStyle().Foreground(t.Mixed).Bold(true)
	t.EmptyBox = r.NewStyle().Foreground(t.Subtext)
	t.Status = r.NewStyle().Foreground(t.Subtext)
	t.StatusErr = r.NewStyle().Foreground(t.Error).Bold(true)
	t.Separator = r.NewStyle().Foreground(t.Border)

	return t
}

// TestTheme returns a theme suitable for use in tests.
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
