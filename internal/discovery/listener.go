package discovery

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/findradio/internal/logging"
)

const (
	// DefaultPort is the VITA-49 discovery broadcast port
	DefaultPort = 4992

	// DefaultTimeout is the length of one collection window
	DefaultTimeout = 2 * time.Second

	// DefaultBufferSize is the usual announcement datagram size
	DefaultBufferSize = 612

	// MinBufferSize is the smallest receive buffer Collect will use
	MinBufferSize = 1024
)

// Listener owns a receive socket for discovery broadcasts and runs
// bounded collection windows on it.
//
// A Listener created by Open owns its socket and closes it in Close.
// A Listener wrapping a caller's connection (NewListener) never closes
// that connection.
//
// Collect must not be called concurrently on one Listener; a second
// concurrent call fails with ErrCollectInProgress.
type Listener struct {
	conn  net.PacketConn
	owned bool

	collecting atomic.Bool
	closed     atomic.Bool
	closeOnce  sync.Once
	closeErr   error
}

// Open binds a UDP/IPv4 socket with address reuse and broadcast enabled.
// An empty bindAddress listens on all interfaces. Failures are returned
// as *BindError.
func Open(ctx context.Context, bindAddress string, port int) (*Listener, error) {
	if port < 0 || port > 65535 {
		return nil, &BindError{Address: bindAddress, Port: port, Err: fmt.Errorf("invalid port %d", port)}
	}
	if bindAddress != "" {
		if ip := net.ParseIP(bindAddress); ip == nil || ip.To4() == nil {
			return nil, &BindError{Address: bindAddress, Port: port, Err: fmt.Errorf("invalid IPv4 address %q", bindAddress)}
		}
	}

	lc := net.ListenConfig{Control: controlSocket}
	conn, err := lc.ListenPacket(ctx, "udp4", net.JoinHostPort(bindAddress, strconv.Itoa(port)))
	if err != nil {
		return nil, &BindError{Address: bindAddress, Port: port, Err: err}
	}

	logging.Info("Discovery socket bound",
		zap.String("local_addr", conn.LocalAddr().String()),
	)

	return &Listener{conn: conn, owned: true}, nil
}

// NewListener wraps an existing packet connection. The caller keeps
// ownership: Close on the Listener leaves conn open.
func NewListener(conn net.PacketConn) *Listener {
	return &Listener{conn: conn}
}

// LocalAddr returns the bound socket address
func (l *Listener) LocalAddr() net.Addr {
	return l.conn.LocalAddr()
}

// Close releases the socket if the Listener owns it. Safe to call more
// than once.
func (l *Listener) Close() error {
	l.closeOnce.Do(func() {
		l.closed.Store(true)
		if l.owned {
			l.closeErr = l.conn.Close()
		}
	})
	return l.closeErr
}

// Collect receives datagrams until timeout has elapsed since the call
// started and returns the first datagram from each distinct sender IP,
// in arrival order.
//
// The window is a hard deadline enforced on the socket, not an
// inactivity timeout. Each receive uses a buffer of
// max(MinBufferSize, bufferSize) bytes. A non-positive timeout selects
// DefaultTimeout.
//
// A zero-length datagram aborts the run with a *ProtocolError; the
// devices collected before it are returned alongside the error. Receive
// errors abort the run the same way. Cancelling ctx interrupts a
// pending receive and returns ctx.Err().
func (l *Listener) Collect(ctx context.Context, timeout time.Duration, bufferSize int) ([]Device, error) {
	if l.closed.Load() {
		return nil, ErrClosed
	}
	if !l.collecting.CompareAndSwap(false, true) {
		return nil, ErrCollectInProgress
	}
	defer l.collecting.Store(false)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	buf := make([]byte, max(MinBufferSize, bufferSize))
	collector := NewCollector()

	start := time.Now()
	deadline := start.Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := l.conn.SetReadDeadline(deadline); err != nil {
		return nil, fmt.Errorf("failed to set read deadline: %w", err)
	}
	defer func() { _ = l.conn.SetReadDeadline(time.Time{}) }()

	// Cancellation unblocks the pending read by moving the deadline.
	stop := context.AfterFunc(ctx, func() {
		_ = l.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	logging.Debug("Collection started",
		zap.Duration("timeout", timeout),
		zap.Int("buffer_size", len(buf)),
	)

	for {
		n, addr, truncated, err := l.readDatagram(buf)
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return collector.Devices(), ctxErr
				}
				break
			}
			return collector.Devices(), fmt.Errorf("receive failed: %w", err)
		}

		ip, port := splitAddr(addr)
		if n == 0 {
			logging.Warn("Zero-length datagram",
				zap.String("remote_addr", net.JoinHostPort(ip, strconv.Itoa(port))),
			)
			return collector.Devices(), &ProtocolError{
				RemoteAddr: net.JoinHostPort(ip, strconv.Itoa(port)),
				Err:        ErrEmptyPacket,
			}
		}

		duplicate := collector.Seen(ip)
		if !duplicate {
			pkt := make([]byte, n)
			copy(pkt, buf[:n])
			collector.Add(Device{
				IP:           ip,
				Port:         port,
				Packet:       pkt,
				Truncated:    truncated,
				DiscoveredAt: time.Now(),
			})
			logging.LogRawBytes("Announcement", pkt)
		}
		logging.LogDatagram(net.JoinHostPort(ip, strconv.Itoa(port)), n, duplicate)

		if truncated {
			logging.Warn("Datagram truncated by receive buffer",
				zap.String("remote_addr", ip),
				zap.Int("buffer_size", len(buf)),
			)
		}

		if time.Since(start) > timeout {
			break
		}
	}

	logging.Info("Collection window closed",
		zap.Int("devices", collector.Len()),
		zap.Duration("elapsed", time.Since(start)),
	)

	return collector.Devices(), nil
}

// readDatagram reads one datagram. Truncation is only detectable on a
// *net.UDPConn.
func (l *Listener) readDatagram(buf []byte) (int, net.Addr, bool, error) {
	if uc, ok := l.conn.(*net.UDPConn); ok {
		n, _, flags, addr, err := uc.ReadMsgUDP(buf, nil)
		if addr == nil {
			return n, nil, false, err
		}
		return n, addr, flags&msgTrunc != 0, err
	}

	n, addr, err := l.conn.ReadFrom(buf)
	return n, addr, false, err
}

// splitAddr returns the IP and port of a datagram sender
func splitAddr(addr net.Addr) (string, int) {
	if addr == nil {
		return "", 0
	}
	if udp, ok := addr.(*net.UDPAddr); ok {
		return udp.IP.String(), udp.Port
	}

	host, portStr, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String(), 0
	}
	port, _ := strconv.Atoi(portStr)
	return host, port
}
