package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/findradio/internal/discovery"
	"github.com/muurk/findradio/internal/ui"
	"github.com/muurk/findradio/internal/vita"
)

const (
	fieldIndent   = "                  " // 18 spaces
	payloadIndent = "                    "
)

// textStyles are bound to the destination renderer so color output
// follows w rather than stdout.
type textStyles struct {
	address lipgloss.Style
	field   lipgloss.Style
	vendor  lipgloss.Style
	err     lipgloss.Style
	legend  lipgloss.Style
}

func newTextStyles(r *lipgloss.Renderer) textStyles {
	return textStyles{
		address: r.NewStyle().Foreground(ui.PrimaryColor).Bold(true),
		field:   r.NewStyle().Foreground(ui.MutedColor),
		vendor:  r.NewStyle().Foreground(ui.SuccessColor),
		err:     r.NewStyle().Foreground(ui.ErrorColor).Bold(true),
		legend:  r.NewStyle().Foreground(ui.MutedColor),
	}
}

// RenderText writes the human-readable report
func RenderText(w io.Writer, r *Report, opts Options) error {
	renderer := lipgloss.NewRenderer(w)
	st := newTextStyles(renderer)

	var b strings.Builder

	if r.Command != "" {
		h := ui.NewHeader("VITA-49 DISCOVERY", r.Command,
			ui.Param{Key: "Source", Value: r.Source},
			ui.Param{Key: "Scan ID", Value: r.ScanID},
			ui.Param{Key: "Window", Value: r.Duration.Round(time.Millisecond).String()},
		)
		if opts.Width > 0 {
			h.SetWidth(opts.Width)
		}
		b.WriteString(h.RenderWith(renderer))
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "There are %d radios on this network.\n\n", len(r.Results))

	for i := range r.Results {
		writeResult(&b, &r.Results[i], opts.Debug, st)
		b.WriteString("\n")
	}

	b.WriteString("done.\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func writeResult(b *strings.Builder, res *discovery.Result, debug int, st textStyles) {
	if debug >= 3 {
		fmt.Fprintf(b, "  payload len = %d\n", len(res.Device.Packet))
	}

	h := res.Header
	if h == nil {
		fmt.Fprintf(b, " > %s\n", st.address.Render(fmt.Sprintf("%-15s", res.Device.IP)))
		writeError(b, res.Err, st)
		return
	}

	if debug >= 2 {
		fmt.Fprintf(b, "%s %#x %#x %#x %#x %d %d %d\n", res.Device.Address(),
			h.Word, h.StreamID, h.ClassIDHigh, h.ClassIDLow,
			h.TimestampInt, h.TimestampFracHigh, h.TimestampFracLow)
	}

	fmt.Fprintf(b, " > %s  pkt_header 0x%08x\n\n",
		st.address.Render(fmt.Sprintf("%-15s", res.Device.IP)), h.Word)

	if debug >= 1 {
		writeBitDiagram(b, h, st)
	}

	fmt.Fprintf(b, "%s %s   0x%04x\n", fieldIndent, st.field.Render("stream_id"), h.StreamID)
	if res.Vendor != nil {
		fmt.Fprintf(b, "%s %s     0x%06x %s\n", fieldIndent, st.field.Render("manufacturer_oui"),
			res.Vendor.OUI, st.vendor.Render(res.Vendor.Label))
	}
	if res.Class != nil {
		fmt.Fprintf(b, "%s %s   0x%08x\n", fieldIndent, st.field.Render("information_code"), res.Class.InformationCode)
		fmt.Fprintf(b, "%s %s        0x%08x\n", fieldIndent, st.field.Render("packet_code"), res.Class.PacketCode)
	}

	ts := h.Timestamp().Format(time.ANSIC)
	if debug >= 1 {
		ts = fmt.Sprintf("%s (%d)", ts, h.TimestampInt)
	}
	fmt.Fprintf(b, "%s %s  %s\n\n", fieldIndent, st.field.Render("timestamp"), ts)

	for _, e := range res.Payload {
		fmt.Fprintf(b, "%s%-28s %s\n", payloadIndent, e.Key, e.Value)
	}

	writeError(b, res.Err, st)
}

func writeError(b *strings.Builder, err error, st textStyles) {
	if err == nil {
		return
	}
	fmt.Fprintf(b, "%s %s\n", fieldIndent, st.err.Render("error: "+err.Error()))
}

// writeBitDiagram draws the header word split into its bitfields under
// a legend naming each one.
func writeBitDiagram(b *strings.Builder, h *vita.Header, st textStyles) {
	legend := []string{
		"      pkt type " + h.PacketType.Label(),
		"     /  C (has_classID)",
		"    |  /  T (has_trailer)",
		"    | |  /   RR (reserved)",
		"    | | |   /   TSI (0: no_TS, 1: UTC, 2: GPS, 3: Other)",
		"    | | |  |   /   TSF (0: no_fracTS, 1: #samp_ctr, 2: RT, 3: freerun_ctr)",
		"    | | |  |  |   /   pkt ctr [decimal] (modulo 16)",
		"    | | |  |  |  |   /           pkt size [decimal] (32-bit words)",
		"    | | |  |  |  |  |           /",
		"    | | |  |  |  |  |          |",
	}
	for _, line := range legend {
		b.WriteString("  ")
		b.WriteString(st.legend.Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	fmt.Fprintf(b, "   %04b %01b %01b %02b %02b %02b %2d      %05d\n\n",
		uint8(h.PacketType), boolBit(h.HasClassID), boolBit(h.HasTrailer),
		h.Reserved, uint8(h.TSI), uint8(h.TSF), h.PacketCount, h.PacketSize)
}

func boolBit(v bool) uint8 {
	if v {
		return 1
	}
	return 0
}
