package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/muurk/findradio/internal/discovery"
	"github.com/muurk/findradio/internal/oui"
	"github.com/muurk/findradio/internal/vita"
)

func testReport(t *testing.T) *Report {
	t.Helper()
	pkt, err := vita.BuildPacket(vita.Header{
		PacketType:   vita.PacketTypeIFContext,
		HasClassID:   true,
		TSI:          vita.TSIUTC,
		TSF:          vita.TSFRealTime,
		PacketCount:  5,
		StreamID:     0x800,
		ClassIDHigh:  0x00001C2D,
		ClassIDLow:   0x534CFFFF,
		TimestampInt: 1700000000,
	}, []byte("model=FLEX-6600 serial=1234-5678 nickname=Shack"))
	if err != nil {
		t.Fatalf("BuildPacket() error = %v", err)
	}

	devices := []discovery.Device{
		{IP: "192.168.1.42", Port: 4992, Packet: pkt, DiscoveredAt: time.Unix(1700000001, 0)},
		{IP: "192.168.1.77", Port: 4992, Packet: []byte{0x01, 0x02}},
	}

	return &Report{
		ScanID:    "0b8f4c1e-8d4f-4e43-9a55-0f1f3a6a2b11",
		Source:    "udp://0.0.0.0:4992",
		StartedAt: time.Unix(1700000000, 0),
		Duration:  2 * time.Second,
		Results:   discovery.DecodeAll(devices, oui.NewRegistry()),
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{" yaml ", FormatYAML, false},
		{"xml", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRenderText(t *testing.T) {
	r := testReport(t)

	var buf bytes.Buffer
	if err := Render(&buf, r, Options{Format: FormatText}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := buf.String()

	wants := []string{
		"There are 2 radios on this network.",
		" > 192.168.1.42     pkt_header 0x48650013",
		"stream_id   0x0800",
		"manufacturer_oui     0x001c2d (Flexradio)",
		"information_code   0x534c0000",
		"packet_code        0x0000ffff",
		"timestamp  " + time.Unix(1700000000, 0).Format(time.ANSIC),
		fmt.Sprintf("%s%-28s %s", payloadIndent, "model", "FLEX-6600"),
		fmt.Sprintf("%s%-28s %s", payloadIndent, "nickname", "Shack"),
		" > 192.168.1.77",
		"error: ",
		"done.",
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}

	unwanted := []string{"pkt type", "payload len", "(1700000000)"}
	for _, s := range unwanted {
		if strings.Contains(out, s) {
			t.Errorf("output contains debug text %q at level 0", s)
		}
	}

	if !strings.HasSuffix(out, "done.\n") {
		t.Errorf("output does not end with done.: %q", out[max(0, len(out)-20):])
	}
}

func TestRenderText_DebugLevels(t *testing.T) {
	tests := []struct {
		debug  int
		wants  []string
		absent []string
	}{
		{
			debug:  1,
			wants:  []string{"pkt type  4: IF context", "TSI (0: no_TS", "   0100 1 0 00 01 10  5      00019", "(1700000000)"},
			absent: []string{"payload len"},
		},
		{
			debug:  2,
			wants:  []string{"192.168.1.42:4992 0x48650013 0x800 0x1c2d 0x534cffff 1700000000 0 0"},
			absent: []string{"payload len"},
		},
		{
			debug: 3,
			wants: []string{"payload len = 75", "payload len = 2"},
		},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("debug=%d", tt.debug), func(t *testing.T) {
			var buf bytes.Buffer
			if err := RenderText(&buf, testReport(t), Options{Debug: tt.debug}); err != nil {
				t.Fatalf("RenderText() error = %v", err)
			}
			out := buf.String()
			for _, want := range tt.wants {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q\n%s", want, out)
				}
			}
			for _, s := range tt.absent {
				if strings.Contains(out, s) {
					t.Errorf("output contains %q", s)
				}
			}
		})
	}
}

func TestRenderText_Banner(t *testing.T) {
	r := testReport(t)
	r.Command = "findradio scan"

	var buf bytes.Buffer
	if err := RenderText(&buf, r, Options{Width: 80}); err != nil {
		t.Fatalf("RenderText() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{"VITA-49 DISCOVERY", "findradio scan", r.ScanID, "udp://0.0.0.0:4992"} {
		if !strings.Contains(out, want) {
			t.Errorf("banner missing %q\n%s", want, out)
		}
	}
}

func TestRenderText_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderText(&buf, &Report{}, Options{}); err != nil {
		t.Fatalf("RenderText() error = %v", err)
	}
	want := "There are 0 radios on this network.\n\ndone.\n"
	if got := buf.String(); got != want {
		t.Errorf("RenderText() = %q, want %q", got, want)
	}
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, testReport(t), Options{Format: FormatJSON}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	var got reportView
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}

	if got.Count != 2 || len(got.Radios) != 2 {
		t.Fatalf("count = %d, radios = %d, want 2", got.Count, len(got.Radios))
	}
	if got.DurationMS != 2000 {
		t.Errorf("duration_ms = %d, want 2000", got.DurationMS)
	}

	first := got.Radios[0]
	if first.Header == nil || first.Header.Word != "0x48650013" {
		t.Errorf("header = %+v, want word 0x48650013", first.Header)
	}
	if first.Header != nil && (first.Header.PacketSize != 19 || first.Header.PacketBytes != 76) {
		t.Errorf("packet size = %d words / %d bytes, want 19 / 76", first.Header.PacketSize, first.Header.PacketBytes)
	}
	if first.Vendor == nil || first.Vendor.OUI != "0x001c2d" || first.Vendor.Label != "(Flexradio)" {
		t.Errorf("vendor = %+v, want (Flexradio)", first.Vendor)
	}
	if first.Class == nil || first.Class.PacketCode != 0xFFFF {
		t.Errorf("class = %+v, want packet_code 0xffff", first.Class)
	}
	if len(first.Payload) != 3 || first.Payload[2].Value != "Shack" {
		t.Errorf("payload = %+v", first.Payload)
	}
	if first.Error != "" {
		t.Errorf("error = %q, want empty", first.Error)
	}

	second := got.Radios[1]
	if second.Header != nil {
		t.Errorf("truncated packet has header %+v", second.Header)
	}
	if second.Error == "" {
		t.Error("truncated packet has no error")
	}
}

func TestRenderYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, testReport(t), Options{Format: FormatYAML}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	var got reportView
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid YAML: %v\n%s", err, buf.String())
	}
	if got.ScanID != "0b8f4c1e-8d4f-4e43-9a55-0f1f3a6a2b11" {
		t.Errorf("scan_id = %q", got.ScanID)
	}
	if len(got.Radios) != 2 || got.Radios[0].Vendor == nil || got.Radios[0].Vendor.OUI != "0x001c2d" {
		t.Errorf("radios = %+v", got.Radios)
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRender_WriteError(t *testing.T) {
	for _, f := range Formats {
		t.Run(string(f), func(t *testing.T) {
			if err := Render(failWriter{}, testReport(t), Options{Format: f}); err == nil {
				t.Error("Render() error = nil, want write failure")
			}
		})
	}
}
