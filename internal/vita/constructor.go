package vita

import (
	"encoding/binary"
	"fmt"
)

// PackWord builds header word 0 from the bitfield members of h.
// Returns an error when a field does not fit its bit width.
func (h *Header) PackWord() (uint32, error) {
	switch {
	case h.PacketType > 0xF:
		return 0, fmt.Errorf("packet type %d exceeds 4 bits", h.PacketType)
	case h.Reserved > 0x3:
		return 0, fmt.Errorf("reserved bits %d exceed 2 bits", h.Reserved)
	case h.TSI > 0x3:
		return 0, fmt.Errorf("TSI mode %d exceeds 2 bits", h.TSI)
	case h.TSF > 0x3:
		return 0, fmt.Errorf("TSF mode %d exceeds 2 bits", h.TSF)
	case h.PacketCount > 0xF:
		return 0, fmt.Errorf("packet count %d exceeds 4 bits", h.PacketCount)
	}

	w := uint32(h.PacketType) << shiftPacketType
	if h.HasClassID {
		w |= 1 << shiftHasClassID
	}
	if h.HasTrailer {
		w |= 1 << shiftHasTrailer
	}
	w |= uint32(h.Reserved) << shiftReserved
	w |= uint32(h.TSI) << shiftTSI
	w |= uint32(h.TSF) << shiftTSF
	w |= uint32(h.PacketCount) << shiftPacketCount
	w |= uint32(h.PacketSize)

	return w, nil
}

// MarshalBinary encodes the header as 28 big-endian bytes. The Word
// member is ignored; word 0 is always rebuilt from the bitfields.
func (h *Header) MarshalBinary() ([]byte, error) {
	w, err := h.PackWord()
	if err != nil {
		return nil, err
	}

	buf := make([]byte, HeaderSize)
	words := [HeaderWords]uint32{
		w,
		h.StreamID,
		h.ClassIDHigh,
		h.ClassIDLow,
		h.TimestampInt,
		h.TimestampFracHigh,
		h.TimestampFracLow,
	}
	for i, v := range words {
		binary.BigEndian.PutUint32(buf[i*4:], v)
	}
	return buf, nil
}

// BuildPacket encodes h followed by payload. PacketSize is filled in
// from the total length rounded up to whole words when it is zero.
func BuildPacket(h Header, payload []byte) ([]byte, error) {
	total := HeaderSize + len(payload)
	if h.PacketSize == 0 {
		words := (total + 3) / 4
		if words > maskPacketSize {
			return nil, fmt.Errorf("packet too large: %d bytes", total)
		}
		h.PacketSize = uint16(words)
	}

	hdr, err := h.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return append(hdr, payload...), nil
}
