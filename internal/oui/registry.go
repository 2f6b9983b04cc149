// Package oui maps 24-bit organizationally unique identifiers found in
// VITA-49 class IDs to vendor labels.
//
// The registry holds a small local table of radio vendors and can
// optionally fall back to the compiled-in IEEE database from
// github.com/endobit/oui for OUIs it does not know.
package oui

import (
	"fmt"
	"sync"

	ieee "github.com/endobit/oui"
)

// Mask limits an identifier to 24 bits
const Mask = 0x00FFFFFF

// Known radio vendors
const (
	Flexradio uint32 = 0x001C2D
)

// defaultVendors is the built-in table. Labels keep the parenthesized
// form used in reports.
var defaultVendors = map[uint32]string{
	Flexradio: "(Flexradio)",
}

// Option configures a Registry
type Option func(*Registry)

// WithIEEEFallback resolves OUIs missing from the local table through the
// IEEE database.
func WithIEEEFallback() Option {
	return func(r *Registry) {
		r.fallback = ieee.Vendor
	}
}

// Registry resolves OUIs to vendor labels. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	vendors  map[uint32]string
	fallback func(mac string) string
}

// NewRegistry creates a registry seeded with the built-in vendors
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		vendors: make(map[uint32]string, len(defaultVendors)),
	}
	for k, v := range defaultVendors {
		r.vendors[k] = v
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds or replaces a vendor label
func (r *Registry) Register(oui uint32, label string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vendors[oui&Mask] = label
}

// Lookup returns the label for oui, masked to 24 bits.
// Unknown identifiers resolve to "".
func (r *Registry) Lookup(oui uint32) string {
	oui &= Mask

	r.mu.RLock()
	label, ok := r.vendors[oui]
	r.mu.RUnlock()
	if ok {
		return label
	}

	if r.fallback != nil {
		if vendor := r.fallback(MACPrefix(oui)); vendor != "" {
			return "(" + vendor + ")"
		}
	}
	return ""
}

// MACPrefix formats oui as the first three octets of a MAC address with
// the remaining octets zeroed, e.g. "00:1c:2d:00:00:00".
func MACPrefix(oui uint32) string {
	oui &= Mask
	return fmt.Sprintf("%02x:%02x:%02x:00:00:00", byte(oui>>16), byte(oui>>8), byte(oui))
}
