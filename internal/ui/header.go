package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Param is one "Key: Value" line in a header. Params render in order.
type Param struct {
	Key   string
	Value string
}

// Header is a bordered command banner with title, command and parameters
type Header struct {
	Title   string  // e.g., "VITA-49 DISCOVERY"
	Command string  // e.g., "findradio scan"
	Params  []Param // e.g., {"Bind", "0.0.0.0:4992"}
	Width   int     // Terminal width for responsive rendering
}

// NewHeader creates a new header with the given values
func NewHeader(title, command string, params ...Param) *Header {
	return &Header{
		Title:   title,
		Command: command,
		Params:  params,
		Width:   GetTerminalWidth(),
	}
}

// SetWidth sets the terminal width for responsive rendering
func (h *Header) SetWidth(width int) *Header {
	h.Width = width
	return h
}

// Render returns the styled header using the default renderer
func (h *Header) Render() string {
	return h.RenderWith(lipgloss.DefaultRenderer())
}

// RenderWith returns the styled header using r, so color output follows
// the destination writer rather than stdout.
func (h *Header) RenderWith(r *lipgloss.Renderer) string {
	width := h.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	titleLine := r.NewStyle().Foreground(TextColor).Bold(true).PaddingLeft(2).
		Render(strings.ToUpper(h.Title))
	commandLine := r.NewStyle().Foreground(MutedColor).PaddingLeft(2).
		Render(h.Command)
	topSection := lipgloss.JoinVertical(lipgloss.Left, titleLine, commandLine)

	if len(h.Params) == 0 {
		return h.border(r, width).Render(topSection)
	}

	dividerWidth := width - 6 // Account for border and padding
	if dividerWidth < 10 {
		dividerWidth = 10
	}
	divider := r.NewStyle().Foreground(PrimaryColor).Render(strings.Repeat("─", dividerWidth))

	keyWidth := 0
	for _, p := range h.Params {
		if len(p.Key) > keyWidth {
			keyWidth = len(p.Key)
		}
	}
	keyStyle := r.NewStyle().Foreground(MutedColor).PaddingLeft(2).Width(keyWidth + 4)
	valueStyle := r.NewStyle().Foreground(TextColor)

	// Values stay on one line so the key column keeps its padding.
	valueWidth := dividerWidth + 2 - (keyWidth + 4)
	paramLines := make([]string, 0, len(h.Params))
	for _, p := range h.Params {
		paramLines = append(paramLines, keyStyle.Render(p.Key+":")+valueStyle.Render(truncateLeft(p.Value, valueWidth)))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, topSection, divider, strings.Join(paramLines, "\n"))
	return h.border(r, width).Render(content)
}

func (h *Header) border(r *lipgloss.Renderer, width int) lipgloss.Style {
	return r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Width(width - 2) // Account for border characters
}

// truncateLeft shortens s to at most width cells, keeping the tail. The
// end of a path or address is the part that tells values apart.
func truncateLeft(s string, width int) string {
	if width < 1 {
		width = 1
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[1:]
	}
	return "…" + string(runes)
}

// String implements fmt.Stringer
func (h *Header) String() string {
	return h.Render()
}
