package discovery

import (
	"errors"
	"fmt"
	"net"
	"strconv"
)

// Sentinel errors
var (
	// ErrEmptyPacket is wrapped by ProtocolError for zero-length datagrams
	ErrEmptyPacket = errors.New("empty packet")
	// ErrCollectInProgress is returned when Collect is called re-entrantly
	ErrCollectInProgress = errors.New("collect already in progress on this listener")
	// ErrClosed is returned by Collect after Close
	ErrClosed = errors.New("listener closed")
)

// BindError represents a failure to create or bind the discovery socket.
// Fatal for the whole run.
type BindError struct {
	Address string
	Port    int
	Err     error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("failed to bind discovery socket on %s: %v",
		net.JoinHostPort(e.Address, strconv.Itoa(e.Port)), e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

// ProtocolError represents a datagram that violates the announcement
// protocol at the transport level. It aborts the collection run.
type ProtocolError struct {
	// RemoteAddr is the sender of the offending datagram
	RemoteAddr string
	Err        error
}

func (e *ProtocolError) Error() string {
	if e.RemoteAddr == "" {
		return fmt.Sprintf("protocol error: %v", e.Err)
	}
	return fmt.Sprintf("protocol error from %s: %v", e.RemoteAddr, e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}
