// Package ui holds the terminal pieces shared by findradio commands:
// the command banner, notice boxes, the scan spinner and the color
// palette.
//
// Everything here renders once and exits. Components that print into a
// report take a *lipgloss.Renderer so color detection follows the
// destination writer instead of stdout.
//
// The spinner only runs when its output is a terminal; otherwise
// RunWithSpinner prints the label as a plain line and runs the work
// directly, which keeps piped output clean.
package ui
