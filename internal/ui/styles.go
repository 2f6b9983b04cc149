package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette
var (
	PrimaryColor = lipgloss.Color("#7D56F4") // Purple - headers, borders, addresses
	SuccessColor = lipgloss.Color("#43BF6D") // Green - vendor labels
	ErrorColor   = lipgloss.Color("#FF5555") // Red - decode errors
	WarningColor = lipgloss.Color("#FFA500") // Orange - spinner, warnings
	MutedColor   = lipgloss.Color("#626262") // Gray - field names, legends
	TextColor    = lipgloss.Color("#FFFFFF") // White - values
)

// Layout constants
const (
	MinTerminalWidth = 60  // Minimum supported terminal width
	MaxContentWidth  = 100 // Maximum content width before capping
)

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// GetTerminalWidth returns the current terminal width, with fallback
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	return ClampWidth(width, err)
}

// ClampWidth bounds a measured width to the supported range. A
// measurement error yields MinTerminalWidth.
func ClampWidth(width int, err error) int {
	if err != nil || width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}
