package vita

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is matching
var (
	ErrTruncatedPacket = errors.New("truncated packet")
	ErrPayloadDecode   = errors.New("payload decode error")
	ErrPacketTooLarge  = errors.New("packet too large")
)

// TruncatedPacketError is returned when a packet is shorter than the
// fixed seven word header.
type TruncatedPacketError struct {
	// Length is the number of bytes actually available
	Length int
}

func (e *TruncatedPacketError) Error() string {
	return fmt.Sprintf("truncated packet: %d bytes (minimum %d)", e.Length, HeaderSize)
}

func (e *TruncatedPacketError) Unwrap() error {
	return ErrTruncatedPacket
}

// PayloadDecodeError is returned when the payload region is not valid
// UTF-8 or holds a token without '='.
type PayloadDecodeError struct {
	// Index is the zero-based token position, or -1 for encoding errors
	Index int
	// Token is the offending token (empty for encoding errors)
	Token string
	// Reason describes the failure
	Reason string
}

func (e *PayloadDecodeError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("payload decode error: %s", e.Reason)
	}
	return fmt.Sprintf("payload decode error: token %d %q: %s", e.Index, e.Token, e.Reason)
}

func (e *PayloadDecodeError) Unwrap() error {
	return ErrPayloadDecode
}

// PacketTooLargeError is returned for datagrams the transport truncated
// because they did not fit the receive buffer.
type PacketTooLargeError struct {
	// Received is the number of bytes kept from the datagram
	Received int
}

func (e *PacketTooLargeError) Error() string {
	return fmt.Sprintf("packet too large: datagram truncated to %d bytes by receive buffer", e.Received)
}

func (e *PacketTooLargeError) Unwrap() error {
	return ErrPacketTooLarge
}
