package discovery

import (
	"context"
	"time"
)

// Scanner runs a single discovery sweep on a socket it opens and closes
// itself.
type Scanner struct {
	// BindAddress is the local IPv4 address to bind ("" for all interfaces)
	BindAddress string

	// Port is the discovery broadcast port
	Port int

	// Timeout is the collection window
	Timeout time.Duration

	// BufferSize is the requested receive buffer size
	BufferSize int
}

// NewScanner creates a scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Port:       DefaultPort,
		Timeout:    DefaultTimeout,
		BufferSize: DefaultBufferSize,
	}
}

// ScanForDevicesWithContext binds, collects one window and closes the
// socket on every exit path. See Listener.Collect for the partial
// results returned with a *ProtocolError.
func (s *Scanner) ScanForDevicesWithContext(ctx context.Context) ([]Device, error) {
	l, err := Open(ctx, s.BindAddress, s.Port)
	if err != nil {
		return nil, err
	}
	defer l.Close()

	return l.Collect(ctx, s.Timeout, s.BufferSize)
}
