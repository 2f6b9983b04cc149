package discovery

import (
	"go.uber.org/zap"

	"github.com/muurk/findradio/internal/logging"
	"github.com/muurk/findradio/internal/vita"
)

// Result is the decoded view of one device's announcement.
// When Err is set the fields decoded before the failure are kept:
// a payload error still leaves Header (and Vendor/Class) populated.
type Result struct {
	Device Device

	Header  *vita.Header
	Vendor  *vita.VendorIdentity // nil unless Header.HasClassID
	Class   *vita.ClassCode      // nil unless Header.HasClassID
	Payload vita.Payload

	// Err is the per-packet decode failure, if any
	Err error
}

// OK reports whether the packet decoded completely
func (r *Result) OK() bool {
	return r.Err == nil
}

// Decode runs the header, vendor/class and payload decoders over one
// device's packet. It never panics on malformed input; failures are
// reported in Result.Err.
func Decode(d Device, resolver vita.VendorResolver) Result {
	res := Result{Device: d}

	if d.Truncated {
		res.Err = &vita.PacketTooLargeError{Received: len(d.Packet)}
		logDecodeError(d, res.Err)
		return res
	}

	hdr, err := vita.DecodeHeader(d.Packet)
	if err != nil {
		res.Err = err
		logDecodeError(d, err)
		return res
	}
	res.Header = hdr

	// The size field counts whole words, so up to three pad bytes may be missing.
	if size := hdr.PacketBytes(); size < len(d.Packet) || size-len(d.Packet) > 3 {
		logging.Debug("Packet size field disagrees with datagram length",
			zap.String("remote_addr", d.IP),
			zap.Int("size_field_bytes", size),
			zap.Int("length", len(d.Packet)),
		)
	}

	if hdr.HasClassID {
		vendor := vita.DecodeVendor(hdr.ClassIDHigh, resolver)
		class := vita.DecodeClass(hdr.ClassIDLow)
		res.Vendor = &vendor
		res.Class = &class
	}

	payload, err := vita.DecodePayload(vita.PayloadBytes(d.Packet))
	if err != nil {
		res.Err = err
		logDecodeError(d, err)
		return res
	}
	res.Payload = payload

	logging.Debug("Announcement decoded",
		zap.String("remote_addr", d.IP),
		zap.Stringer("header", hdr),
		zap.Strings("keys", payload.Keys()),
	)

	return res
}

// DecodeAll decodes every device. A failure in one packet does not
// affect the others.
func DecodeAll(devices []Device, resolver vita.VendorResolver) []Result {
	results := make([]Result, 0, len(devices))
	for _, d := range devices {
		results = append(results, Decode(d, resolver))
	}
	return results
}

func logDecodeError(d Device, err error) {
	logging.Info("Skipping undecodable announcement",
		zap.String("remote_addr", d.IP),
		zap.Int("length", len(d.Packet)),
		zap.Error(err),
	)
}
