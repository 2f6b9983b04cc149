package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// NoticeKind selects the border and marker of a notice box
type NoticeKind int

const (
	NoticeWarning NoticeKind = iota
	NoticeFailure
)

// Notice is a bordered box with a title, optional details and a
// troubleshooting list.
type Notice struct {
	Kind    NoticeKind
	Title   string   // e.g., "No radios answered"
	Details []Param  // Rendered in order
	Hints   []string // Troubleshooting tips
	Width   int      // Terminal width
}

// NewWarningNotice creates a warning box
func NewWarningNotice(title string, hints ...string) *Notice {
	return &Notice{Kind: NoticeWarning, Title: title, Hints: hints, Width: GetTerminalWidth()}
}

// NewFailureNotice creates a failure box
func NewFailureNotice(title string, hints ...string) *Notice {
	return &Notice{Kind: NoticeFailure, Title: title, Hints: hints, Width: GetTerminalWidth()}
}

// SetWidth sets the terminal width for responsive rendering
func (n *Notice) SetWidth(width int) *Notice {
	n.Width = width
	return n
}

// AddDetail appends a key-value line
func (n *Notice) AddDetail(key, value string) *Notice {
	n.Details = append(n.Details, Param{Key: key, Value: value})
	return n
}

// Render returns the box using the default renderer
func (n *Notice) Render() string {
	return n.RenderWith(lipgloss.DefaultRenderer())
}

// RenderWith returns the box using r
func (n *Notice) RenderWith(r *lipgloss.Renderer) string {
	width := n.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}
	if width > MaxContentWidth {
		width = MaxContentWidth
	}

	color, marker, label := WarningColor, "!", "WARNING"
	if n.Kind == NoticeFailure {
		color, marker, label = ErrorColor, "✗", "FAILED"
	}

	title := r.NewStyle().Bold(true).Foreground(color)
	key := r.NewStyle().Foreground(MutedColor)
	value := r.NewStyle().Foreground(TextColor)
	hint := r.NewStyle().Foreground(MutedColor)

	lines := []string{"", title.Render("   " + marker + "  " + label + "  ─  " + n.Title), ""}

	for _, d := range n.Details {
		lines = append(lines, key.Render("   "+d.Key+":")+" "+value.Render(d.Value))
	}
	if len(n.Details) > 0 {
		lines = append(lines, "")
	}

	if len(n.Hints) > 0 {
		lines = append(lines, n.renderHints(r, hint, width), "")
	}

	return r.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(color).
		Width(width-2).
		Padding(0, 2).
		Render(strings.Join(lines, "\n"))
}

// renderHints renders the inner troubleshooting box
func (n *Notice) renderHints(r *lipgloss.Renderer, style lipgloss.Style, width int) string {
	lines := []string{r.NewStyle().Bold(true).Render("Troubleshooting:"), ""}
	for _, h := range n.Hints {
		lines = append(lines, style.Render("  • "+h))
	}

	return r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(MutedColor).
		Width(max(40, width-12)).
		Padding(0, 1).
		MarginLeft(3).
		Render(strings.Join(lines, "\n"))
}

// String implements fmt.Stringer
func (n *Notice) String() string {
	return n.Render()
}
