// Package capture extracts VITA-49 discovery announcements from pcap
// captures, so a sweep recorded with tcpdump or Wireshark can be decoded
// offline exactly like a live one.
package capture

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"go.uber.org/zap"

	"github.com/muurk/findradio/internal/discovery"
	"github.com/muurk/findradio/internal/logging"
)

// Stats summarizes one capture read
type Stats struct {
	Packets    int // Records read from the capture
	Datagrams  int // IPv4/UDP datagrams addressed to the discovery port
	Duplicates int // Datagrams dropped by per-IP dedup
}

// ReadFile reads announcements addressed to port from a pcap file
func ReadFile(path string, port int) ([]discovery.Device, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("failed to open capture: %w", err)
	}
	defer f.Close()

	return Read(f, port)
}

// Read extracts announcements addressed to port from a pcap stream.
//
// The same rules as a live collection apply: the first datagram from
// each source IP wins, and a zero-length datagram aborts the read with a
// *discovery.ProtocolError (devices read so far are returned with it).
// Datagrams whose capture was cut short by the snap length are marked
// Truncated.
func Read(r io.Reader, port int) ([]discovery.Device, Stats, error) {
	var stats Stats

	reader, err := pcapgo.NewReader(r)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to read pcap header: %w", err)
	}

	collector := discovery.NewCollector()
	for {
		data, ci, err := reader.ReadPacketData()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return collector.Devices(), stats, fmt.Errorf("failed to read packet %d: %w", stats.Packets+1, err)
		}
		stats.Packets++

		packet := gopacket.NewPacket(data, reader.LinkType(), gopacket.DecodeOptions{Lazy: true, NoCopy: true})

		ipLayer, ok := packet.Layer(layers.LayerTypeIPv4).(*layers.IPv4)
		if !ok {
			continue
		}
		udp, ok := packet.Layer(layers.LayerTypeUDP).(*layers.UDP)
		if !ok || int(udp.DstPort) != port {
			continue
		}
		stats.Datagrams++

		ip := ipLayer.SrcIP.String()
		remote := net.JoinHostPort(ip, strconv.Itoa(int(udp.SrcPort)))

		if len(udp.Payload) == 0 {
			return collector.Devices(), stats, &discovery.ProtocolError{
				RemoteAddr: remote,
				Err:        discovery.ErrEmptyPacket,
			}
		}

		if collector.Seen(ip) {
			stats.Duplicates++
			logging.LogDatagram(remote, len(udp.Payload), true)
			continue
		}

		pkt := make([]byte, len(udp.Payload))
		copy(pkt, udp.Payload)
		collector.Add(discovery.Device{
			IP:           ip,
			Port:         int(udp.SrcPort),
			Packet:       pkt,
			Truncated:    ci.CaptureLength < ci.Length,
			DiscoveredAt: ci.Timestamp,
		})
		logging.LogDatagram(remote, len(pkt), false)
	}

	logging.Info("Capture read",
		zap.Int("packets", stats.Packets),
		zap.Int("datagrams", stats.Datagrams),
		zap.Int("devices", collector.Len()),
	)

	return collector.Devices(), stats, nil
}
