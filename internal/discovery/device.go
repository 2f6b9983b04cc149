package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Device is one announcing radio: the first datagram received from its
// address during a collection run.
type Device struct {
	// IP is the sender address (e.g., "192.168.1.42"); the dedup key
	IP string

	// Port is the sender's UDP source port
	Port int

	// Packet is the raw datagram. Owned by the Device.
	Packet []byte

	// Truncated is set when the transport reported that the datagram
	// did not fit the receive buffer
	Truncated bool

	// DiscoveredAt is when the datagram was received (or captured)
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the device
func (d *Device) String() string {
	return fmt.Sprintf("Radio at %s (%d bytes)", d.Address(), len(d.Packet))
}

// Address returns "ip:port"
func (d *Device) Address() string {
	return net.JoinHostPort(d.IP, strconv.Itoa(d.Port))
}

// Collector accumulates unique devices in arrival order. The first
// datagram from an IP wins; later ones are discarded.
type Collector struct {
	seen    map[string]struct{}
	devices []Device
}

// NewCollector returns an empty collector. Each collection run must use
// its own collector.
func NewCollector() *Collector {
	return &Collector{
		seen:    make(map[string]struct{}),
		devices: make([]Device, 0),
	}
}

// Add records d if its IP has not been seen. Returns false for duplicates.
func (c *Collector) Add(d Device) bool {
	if _, dup := c.seen[d.IP]; dup {
		return false
	}
	c.seen[d.IP] = struct{}{}
	c.devices = append(c.devices, d)
	return true
}

// Seen reports whether ip already has a device
func (c *Collector) Seen(ip string) bool {
	_, ok := c.seen[ip]
	return ok
}

// Len returns the number of unique devices
func (c *Collector) Len() int {
	return len(c.devices)
}

// Devices returns the unique devices in arrival order
func (c *Collector) Devices() []Device {
	return c.devices
}
