// Package report renders the results of a discovery sweep for people
// (styled text) and for scripts (json, yaml).
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/muurk/findradio/internal/discovery"
)

// Format selects the output encoding
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the accepted format names
var Formats = []Format{FormatText, FormatJSON, FormatYAML}

// ParseFormat validates a format name (case-insensitive)
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
}

// Report is one sweep: where the announcements came from and what they
// decoded to.
type Report struct {
	ScanID    string        // Unique identifier of this sweep
	Command   string        // e.g., "findradio scan"
	Source    string        // e.g., "udp://0.0.0.0:4992" or a pcap path
	StartedAt time.Time     // When collection began
	Duration  time.Duration // Length of the collection
	Results   []discovery.Result
}

// Options control rendering
type Options struct {
	Format Format
	Debug  int // Text only: 1 adds the header bit diagram, 3 adds lengths
	Width  int // Text only: banner width, 0 for the terminal width
}

// Render writes r to w in the selected format
func Render(w io.Writer, r *Report, opts Options) error {
	switch opts.Format {
	case FormatText, "":
		return RenderText(w, r, opts)
	case FormatJSON:
		return RenderJSON(w, r)
	case FormatYAML:
		return RenderYAML(w, r)
	default:
		return fmt.Errorf("unknown output format %q", opts.Format)
	}
}
