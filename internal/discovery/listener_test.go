package discovery

import (
	"context"
	"errors"
	"net"
	"runtime"
	"testing"
	"time"
)

// newLoopbackListener wraps a caller-owned loopback socket
func newLoopbackListener(t *testing.T) (*Listener, net.PacketConn) {
	t.Helper()
	conn, err := net.ListenPacket("udp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenPacket() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return NewListener(conn), conn
}

func newSender(t *testing.T, ip string) net.PacketConn {
	t.Helper()
	conn, err := net.ListenPacket("udp4", net.JoinHostPort(ip, "0"))
	if err != nil {
		t.Skipf("cannot bind sender on %s: %v", ip, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, from net.PacketConn, to net.Addr, data []byte) {
	t.Helper()
	if _, err := from.WriteTo(data, to); err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
}

func TestListener_CollectDedup(t *testing.T) {
	l, conn := newLoopbackListener(t)

	a := newSender(t, "127.0.0.1")
	b := newSender(t, "127.0.0.1") // same IP, different port

	send(t, a, conn.LocalAddr(), []byte("first"))
	send(t, a, conn.LocalAddr(), []byte("second"))
	send(t, b, conn.LocalAddr(), []byte("third"))

	devices, err := l.Collect(context.Background(), 300*time.Millisecond, 0)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	if len(devices) != 1 {
		t.Fatalf("Collect() returned %d devices, want 1", len(devices))
	}
	if string(devices[0].Packet) != "first" {
		t.Errorf("kept packet = %q, want first", devices[0].Packet)
	}
	if devices[0].IP != "127.0.0.1" {
		t.Errorf("IP = %q, want 127.0.0.1", devices[0].IP)
	}
	if devices[0].Port != a.LocalAddr().(*net.UDPAddr).Port {
		t.Errorf("Port = %d, want sender port", devices[0].Port)
	}
	if devices[0].DiscoveredAt.IsZero() {
		t.Error("DiscoveredAt not set")
	}
}

func TestListener_CollectDistinctSenders(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("127.0.0.0/8 aliases are only routable by default on linux")
	}
	l, conn := newLoopbackListener(t)

	a := newSender(t, "127.0.0.1")
	b := newSender(t, "127.0.0.2")

	send(t, a, conn.LocalAddr(), []byte("radio=a"))
	send(t, b, conn.LocalAddr(), []byte("radio=b"))

	devices, err := l.Collect(context.Background(), 300*time.Millisecond, 0)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(devices) != 2 {
		t.Fatalf("Collect() returned %d devices, want 2", len(devices))
	}
	if devices[0].IP != "127.0.0.1" || devices[1].IP != "127.0.0.2" {
		t.Errorf("arrival order not preserved: %s, %s", devices[0].IP, devices[1].IP)
	}
}

func TestListener_CollectEmptyDatagram(t *testing.T) {
	l, conn := newLoopbackListener(t)
	s := newSender(t, "127.0.0.1")

	send(t, s, conn.LocalAddr(), []byte("before=1"))
	send(t, s, conn.LocalAddr(), []byte{})
	send(t, s, conn.LocalAddr(), []byte("after=1"))

	start := time.Now()
	devices, err := l.Collect(context.Background(), 2*time.Second, 0)
	if err == nil {
		t.Fatal("Collect() error = nil, want ProtocolError")
	}

	var pe *ProtocolError
	if !errors.As(err, &pe) {
		t.Fatalf("error type = %T, want *ProtocolError", err)
	}
	if !errors.Is(err, ErrEmptyPacket) {
		t.Error("errors.Is(err, ErrEmptyPacket) = false")
	}

	// Collection halts immediately and keeps what was gathered before
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Collect() took %v, want immediate abort", elapsed)
	}
	if len(devices) != 1 || string(devices[0].Packet) != "before=1" {
		t.Errorf("partial results = %v, want the one device before the empty datagram", devices)
	}
}

func TestListener_CollectDeadline(t *testing.T) {
	l, _ := newLoopbackListener(t)

	start := time.Now()
	devices, err := l.Collect(context.Background(), 200*time.Millisecond, 0)
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(devices) != 0 {
		t.Errorf("Collect() = %v, want no devices", devices)
	}
	if elapsed < 200*time.Millisecond {
		t.Errorf("Collect() returned after %v, before the window closed", elapsed)
	}
	if elapsed > time.Second {
		t.Errorf("Collect() overran the window: %v", elapsed)
	}
}

func TestListener_CollectFreshResultsPerCall(t *testing.T) {
	l, conn := newLoopbackListener(t)
	s := newSender(t, "127.0.0.1")

	send(t, s, conn.LocalAddr(), []byte("a=1"))
	first, err := l.Collect(context.Background(), 100*time.Millisecond, 0)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	second, err := l.Collect(context.Background(), 100*time.Millisecond, 0)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	if len(first) != 1 {
		t.Errorf("first run = %d devices, want 1", len(first))
	}
	if len(second) != 0 {
		t.Errorf("second run = %d devices, want 0 (no state carried over)", len(second))
	}
}

func TestListener_CollectTruncated(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("MSG_TRUNC reporting is checked on linux only")
	}
	l, conn := newLoopbackListener(t)
	s := newSender(t, "127.0.0.1")

	send(t, s, conn.LocalAddr(), make([]byte, MinBufferSize+200))

	devices, err := l.Collect(context.Background(), 200*time.Millisecond, 10)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(devices) != 1 {
		t.Fatalf("got %d devices, want 1", len(devices))
	}
	if !devices[0].Truncated {
		t.Error("Truncated = false, want true")
	}
	if len(devices[0].Packet) != MinBufferSize {
		t.Errorf("len(Packet) = %d, want %d (buffer floor)", len(devices[0].Packet), MinBufferSize)
	}
}

func TestListener_CollectContextCancel(t *testing.T) {
	l, _ := newLoopbackListener(t)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	start := time.Now()
	_, err := l.Collect(ctx, 5*time.Second, 0)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Collect() error = %v, want context.Canceled", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("cancel did not interrupt the receive: %v", elapsed)
	}
}

func TestListener_CollectInProgress(t *testing.T) {
	l, _ := newLoopbackListener(t)

	done := make(chan error, 1)
	go func() {
		_, err := l.Collect(context.Background(), 500*time.Millisecond, 0)
		done <- err
	}()

	waitUntil := time.Now().Add(time.Second)
	for !l.collecting.Load() {
		if time.Now().After(waitUntil) {
			t.Fatal("first Collect never started")
		}
		time.Sleep(time.Millisecond)
	}

	if _, err := l.Collect(context.Background(), 100*time.Millisecond, 0); !errors.Is(err, ErrCollectInProgress) {
		t.Errorf("concurrent Collect() error = %v, want ErrCollectInProgress", err)
	}

	if err := <-done; err != nil {
		t.Errorf("first Collect() error = %v", err)
	}
}

func TestListener_CloseInjectedConn(t *testing.T) {
	l, conn := newLoopbackListener(t)

	if err := l.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Caller-owned connection must still be usable
	if _, err := conn.WriteTo([]byte("x"), conn.LocalAddr()); err != nil {
		t.Errorf("injected conn closed by listener: %v", err)
	}

	if _, err := l.Collect(context.Background(), 50*time.Millisecond, 0); !errors.Is(err, ErrClosed) {
		t.Errorf("Collect() after Close error = %v, want ErrClosed", err)
	}
}

func TestOpen(t *testing.T) {
	l, err := Open(context.Background(), "127.0.0.1", 0)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	addr, ok := l.LocalAddr().(*net.UDPAddr)
	if !ok || addr.Port == 0 {
		t.Errorf("LocalAddr() = %v, want bound UDP address", l.LocalAddr())
	}

	if err := l.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := l.Close(); err != nil {
		t.Errorf("second Close() error = %v, want nil", err)
	}

	// Owned socket is released
	if _, err := l.conn.WriteTo([]byte("x"), addr); err == nil {
		t.Error("owned socket still open after Close")
	}
}

func TestOpen_BindErrors(t *testing.T) {
	tests := []struct {
		name    string
		address string
		port    int
	}{
		{"invalid address", "not-an-ip", DefaultPort},
		{"ipv6 address", "::1", DefaultPort},
		{"negative port", "127.0.0.1", -1},
		{"port out of range", "127.0.0.1", 70000},
		{"address not local", "192.0.2.123", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := Open(context.Background(), tt.address, tt.port)
			if err == nil {
				l.Close()
				t.Fatal("Open() error = nil, want BindError")
			}
			var be *BindError
			if !errors.As(err, &be) {
				t.Fatalf("error type = %T, want *BindError", err)
			}
			if be.Port != tt.port {
				t.Errorf("BindError.Port = %d, want %d", be.Port, tt.port)
			}
		})
	}
}

func TestScanner(t *testing.T) {
	scanner := NewScanner()
	if scanner.Port != DefaultPort || scanner.Timeout != DefaultTimeout || scanner.BufferSize != DefaultBufferSize {
		t.Errorf("NewScanner() = %+v, want defaults", scanner)
	}

	scanner.BindAddress = "127.0.0.1"
	scanner.Port = 0
	scanner.Timeout = 100 * time.Millisecond

	devices, err := scanner.ScanForDevicesWithContext(context.Background())
	if err != nil {
		t.Fatalf("ScanForDevicesWithContext() error = %v", err)
	}
	if len(devices) != 0 {
		t.Errorf("got %d devices on an idle loopback port", len(devices))
	}
}

func TestSplitAddr(t *testing.T) {
	ip, port := splitAddr(&net.UDPAddr{IP: net.IPv4(10, 1, 2, 3), Port: 4992})
	if ip != "10.1.2.3" || port != 4992 {
		t.Errorf("splitAddr() = %s, %d", ip, port)
	}

	if ip, port := splitAddr(nil); ip != "" || port != 0 {
		t.Errorf("splitAddr(nil) = %q, %d", ip, port)
	}
}
