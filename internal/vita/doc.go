// Package vita decodes VITA-49 (VRT) discovery announcement packets.
//
// Radios that speak a VITA-49 derived discovery protocol periodically
// broadcast a UDP datagram made of a fixed binary prefix followed by a
// textual key=value payload. This package turns those bytes into typed
// values; it performs no I/O.
//
// # Packet Layout
//
// Every announcement starts with seven big-endian 32-bit words:
//
//	word 0  header           packet type and flag bitfields
//	word 1  stream_id
//	word 2  class_id (high)  low 24 bits are the vendor OUI
//	word 3  class_id (low)   information code | packet code
//	word 4  timestamp        integer seconds (Unix time)
//	word 5  timestamp frac   high word
//	word 6  timestamp frac   low word
//
// The rest of the datagram is UTF-8 text of whitespace separated
// key=value tokens.
//
// # Header Word
//
// Bit layout of word 0, most significant bit first:
//
//	31-28  packet type
//	27     C   class ID present
//	26     T   trailer present
//	25-24  RR  reserved
//	23-22  TSI integer timestamp mode
//	21-20  TSF fractional timestamp mode
//	19-16  packet counter (modulo 16)
//	15-0   packet size in 32-bit words
//
// # Usage Example
//
//	hdr, err := vita.DecodeHeader(pkt)
//	if err != nil {
//	    return err // *vita.TruncatedPacketError
//	}
//
//	if hdr.HasClassID {
//	    vendor := vita.DecodeVendor(hdr.ClassIDHigh, registry)
//	    class := vita.DecodeClass(hdr.ClassIDLow)
//	    fmt.Println(vendor.Label, class.PacketCode)
//	}
//
//	entries, err := vita.DecodePayload(vita.PayloadBytes(pkt))
//
// # Error Handling
//
// Decode failures are per-packet and typed: *TruncatedPacketError,
// *PayloadDecodeError and *PacketTooLargeError. Each unwraps to a
// sentinel (ErrTruncatedPacket, ErrPayloadDecode, ErrPacketTooLarge) for
// errors.Is. Unknown packet types and unknown OUIs are not errors.
//
// # Thread Safety
//
// All functions are pure and safe for concurrent use.
package vita
