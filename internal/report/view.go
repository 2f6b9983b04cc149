package report

import (
	"fmt"
	"io"
	"time"

	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"

	"github.com/muurk/findradio/internal/discovery"
	"github.com/muurk/findradio/internal/vita"
)

// reportView is the machine-readable shape shared by json and yaml
type reportView struct {
	ScanID     string      `json:"scan_id" yaml:"scan_id"`
	Source     string      `json:"source" yaml:"source"`
	StartedAt  time.Time   `json:"started_at" yaml:"started_at"`
	DurationMS int64       `json:"duration_ms" yaml:"duration_ms"`
	Count      int         `json:"count" yaml:"count"`
	Radios     []radioView `json:"radios" yaml:"radios"`
}

type radioView struct {
	Address      string       `json:"address" yaml:"address"`
	Port         int          `json:"port" yaml:"port"`
	Length       int          `json:"length" yaml:"length"`
	DiscoveredAt time.Time    `json:"discovered_at" yaml:"discovered_at"`
	Error        string       `json:"error,omitempty" yaml:"error,omitempty"`
	Header       *headerView  `json:"header,omitempty" yaml:"header,omitempty"`
	Vendor       *vendorView  `json:"vendor,omitempty" yaml:"vendor,omitempty"`
	Class        *classView   `json:"class,omitempty" yaml:"class,omitempty"`
	Payload      []vita.Entry `json:"payload,omitempty" yaml:"payload,omitempty"`
}

type headerView struct {
	Word            string    `json:"word" yaml:"word"`
	PacketType      uint8     `json:"packet_type" yaml:"packet_type"`
	PacketTypeLabel string    `json:"packet_type_label" yaml:"packet_type_label"`
	HasClassID      bool      `json:"has_class_id" yaml:"has_class_id"`
	HasTrailer      bool      `json:"has_trailer" yaml:"has_trailer"`
	TSI             string    `json:"tsi" yaml:"tsi"`
	TSF             string    `json:"tsf" yaml:"tsf"`
	PacketCount     uint8     `json:"packet_count" yaml:"packet_count"`
	PacketSize      uint16    `json:"packet_size_words" yaml:"packet_size_words"`
	PacketBytes     int       `json:"packet_size_bytes" yaml:"packet_size_bytes"`
	StreamID        uint32    `json:"stream_id" yaml:"stream_id"`
	Timestamp       time.Time `json:"timestamp" yaml:"timestamp"`
	TimestampInt    uint32    `json:"timestamp_int" yaml:"timestamp_int"`
	TimestampFrac   uint64    `json:"timestamp_frac" yaml:"timestamp_frac"`
}

type vendorView struct {
	OUI   string `json:"oui" yaml:"oui"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

type classView struct {
	InformationCode uint32 `json:"information_code" yaml:"information_code"`
	PacketCode      uint32 `json:"packet_code" yaml:"packet_code"`
}

func newReportView(r *Report) reportView {
	v := reportView{
		ScanID:     r.ScanID,
		Source:     r.Source,
		StartedAt:  r.StartedAt.UTC(),
		DurationMS: r.Duration.Milliseconds(),
		Count:      len(r.Results),
		Radios:     make([]radioView, 0, len(r.Results)),
	}
	for i := range r.Results {
		v.Radios = append(v.Radios, newRadioView(&r.Results[i]))
	}
	return v
}

func newRadioView(res *discovery.Result) radioView {
	rv := radioView{
		Address:      res.Device.IP,
		Port:         res.Device.Port,
		Length:       len(res.Device.Packet),
		DiscoveredAt: res.Device.DiscoveredAt.UTC(),
		Payload:      res.Payload,
	}
	if res.Err != nil {
		rv.Error = res.Err.Error()
	}

	if h := res.Header; h != nil {
		rv.Header = &headerView{
			Word:            fmt.Sprintf("0x%08x", h.Word),
			PacketType:      uint8(h.PacketType),
			PacketTypeLabel: h.PacketType.String(),
			HasClassID:      h.HasClassID,
			HasTrailer:      h.HasTrailer,
			TSI:             h.TSI.String(),
			TSF:             h.TSF.String(),
			PacketCount:     h.PacketCount,
			PacketSize:      h.PacketSize,
			PacketBytes:     h.PacketBytes(),
			StreamID:        h.StreamID,
			Timestamp:       h.Timestamp().UTC(),
			TimestampInt:    h.TimestampInt,
			TimestampFrac:   h.FractionalTimestamp(),
		}
	}
	if res.Vendor != nil {
		rv.Vendor = &vendorView{
			OUI:   fmt.Sprintf("0x%06x", res.Vendor.OUI),
			Label: res.Vendor.Label,
		}
	}
	if res.Class != nil {
		rv.Class = &classView{
			InformationCode: res.Class.InformationCode,
			PacketCode:      res.Class.PacketCode,
		}
	}
	return rv
}

// RenderJSON writes the report as indented JSON
func RenderJSON(w io.Writer, r *Report) error {
	data, err := sonic.ConfigStd.MarshalIndent(newReportView(r), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// RenderYAML writes the report as YAML
func RenderYAML(w io.Writer, r *Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(newReportView(r)); err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return enc.Close()
}
