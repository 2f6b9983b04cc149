package vita

import (
	"encoding/binary"
	"fmt"
	"time"
)

// Header layout constants
const (
	HeaderWords = 7
	HeaderSize  = HeaderWords * 4 // 28 bytes
)

// Header word bit masks (word 0)
const (
	maskPacketType  = 0xF0000000
	maskHasClassID  = 0x08000000
	maskHasTrailer  = 0x04000000
	maskReserved    = 0x03000000
	maskTSI         = 0x00C00000
	maskTSF         = 0x00300000
	maskPacketCount = 0x000F0000
	maskPacketSize  = 0x0000FFFF

	shiftPacketType  = 28
	shiftHasClassID  = 27
	shiftHasTrailer  = 26
	shiftReserved    = 24
	shiftTSI         = 22
	shiftTSF         = 20
	shiftPacketCount = 16
)

// PacketType is the 4-bit VRT packet type
type PacketType uint8

// VRT packet types
const (
	PacketTypeIFData            PacketType = 0x0
	PacketTypeIFDataStream      PacketType = 0x1
	PacketTypeExtensionData     PacketType = 0x2
	PacketTypeExtensionDataStrm PacketType = 0x3
	PacketTypeIFContext         PacketType = 0x4
	PacketTypeExtensionContext  PacketType = 0x5
)

// ReservedPacketTypeLabel is the label shared by packet types 6-15
const ReservedPacketTypeLabel = "Reserved for future VRT types"

var packetTypeLabels = [...]string{
	PacketTypeIFData:            "IF data w/o streamID",
	PacketTypeIFDataStream:      "IF data w/ streamID",
	PacketTypeExtensionData:     "Extension data w/o streamID",
	PacketTypeExtensionDataStrm: "Extension data w/ streamID",
	PacketTypeIFContext:         "IF context",
	PacketTypeExtensionContext:  "Extension context",
}

// String returns the human-readable packet type. Defined for all 16 values.
func (p PacketType) String() string {
	if int(p) < len(packetTypeLabels) {
		return packetTypeLabels[p]
	}
	return ReservedPacketTypeLabel
}

// Label returns the numbered form used in reports, e.g. " 4: IF context"
func (p PacketType) Label() string {
	return fmt.Sprintf("%2d: %s", uint8(p), p.String())
}

// Reserved reports whether the type is outside the defined table
func (p PacketType) Reserved() bool {
	return int(p) >= len(packetTypeLabels)
}

// TSIMode is the integer timestamp mode
type TSIMode uint8

const (
	TSINone  TSIMode = 0
	TSIUTC   TSIMode = 1
	TSIGPS   TSIMode = 2
	TSIOther TSIMode = 3
)

func (m TSIMode) String() string {
	switch m {
	case TSINone:
		return "none"
	case TSIUTC:
		return "UTC"
	case TSIGPS:
		return "GPS"
	case TSIOther:
		return "other"
	default:
		return fmt.Sprintf("TSIMode(%d)", uint8(m))
	}
}

// TSFMode is the fractional timestamp mode
type TSFMode uint8

const (
	TSFNone             TSFMode = 0
	TSFSampleCount      TSFMode = 1
	TSFRealTime         TSFMode = 2
	TSFFreeRunningCount TSFMode = 3
)

func (m TSFMode) String() string {
	switch m {
	case TSFNone:
		return "none"
	case TSFSampleCount:
		return "sample-count"
	case TSFRealTime:
		return "real-time"
	case TSFFreeRunningCount:
		return "free-running-count"
	default:
		return fmt.Sprintf("TSFMode(%d)", uint8(m))
	}
}

// Header is the decoded 28-byte announcement prefix
type Header struct {
	Word uint32 // Raw header word (word 0)

	PacketType  PacketType
	HasClassID  bool
	HasTrailer  bool
	Reserved    uint8 // 2 bits, ignored
	TSI         TSIMode
	TSF         TSFMode
	PacketCount uint8  // Modulo-16 counter
	PacketSize  uint16 // Packet length in 32-bit words

	StreamID    uint32
	ClassIDHigh uint32 // Meaningful only when HasClassID
	ClassIDLow  uint32 // Meaningful only when HasClassID

	TimestampInt      uint32 // Integer seconds
	TimestampFracHigh uint32
	TimestampFracLow  uint32
}

// DecodeHeader parses the fixed seven word prefix of an announcement.
// Bytes past HeaderSize are ignored.
func DecodeHeader(data []byte) (*Header, error) {
	if len(data) < HeaderSize {
		return nil, &TruncatedPacketError{Length: len(data)}
	}

	var words [HeaderWords]uint32
	for i := range words {
		words[i] = binary.BigEndian.Uint32(data[i*4 : i*4+4])
	}

	h := &Header{
		StreamID:          words[1],
		ClassIDHigh:       words[2],
		ClassIDLow:        words[3],
		TimestampInt:      words[4],
		TimestampFracHigh: words[5],
		TimestampFracLow:  words[6],
	}
	h.setWord(words[0])

	return h, nil
}

// setWord unpacks the header word bitfields
func (h *Header) setWord(w uint32) {
	h.Word = w
	h.PacketType = PacketType((w & maskPacketType) >> shiftPacketType)
	h.HasClassID = w&maskHasClassID != 0
	h.HasTrailer = w&maskHasTrailer != 0
	h.Reserved = uint8((w & maskReserved) >> shiftReserved)
	h.TSI = TSIMode((w & maskTSI) >> shiftTSI)
	h.TSF = TSFMode((w & maskTSF) >> shiftTSF)
	h.PacketCount = uint8((w & maskPacketCount) >> shiftPacketCount)
	h.PacketSize = uint16(w & maskPacketSize)
}

// Timestamp returns the integer timestamp as Unix time
func (h *Header) Timestamp() time.Time {
	return time.Unix(int64(h.TimestampInt), 0)
}

// FractionalTimestamp joins the two fractional words
func (h *Header) FractionalTimestamp() uint64 {
	return uint64(h.TimestampFracHigh)<<32 | uint64(h.TimestampFracLow)
}

// PacketBytes returns the packet size field converted to bytes
func (h *Header) PacketBytes() int {
	return int(h.PacketSize) * 4
}

// String returns a debug representation of the header
func (h *Header) String() string {
	return fmt.Sprintf("Header{type=%s, C=%v, T=%v, TSI=%s, TSF=%s, count=%d, size=%d, stream=0x%08x}",
		h.PacketType, h.HasClassID, h.HasTrailer, h.TSI, h.TSF, h.PacketCount, h.PacketSize, h.StreamID)
}

// PayloadBytes returns the region following the header, or nil when the
// packet is not longer than the header.
func PayloadBytes(data []byte) []byte {
	if len(data) <= HeaderSize {
		return nil
	}
	return data[HeaderSize:]
}
