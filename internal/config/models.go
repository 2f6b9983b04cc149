package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CurrentVersion is the only file version this build understands
const CurrentVersion = 1

// Config is the whole configuration file
type Config struct {
	Version int               `yaml:"version"`
	Scan    *ScanDefaults     `yaml:"scan,omitempty"`
	Vendors map[string]string `yaml:"vendors,omitempty"` // OUI (hex) -> label
}

// ScanDefaults replace flag defaults. Zero values leave the built-in
// default in place.
type ScanDefaults struct {
	Bind    string        `yaml:"bind,omitempty"`    // Local IPv4 address
	Port    int           `yaml:"port,omitempty"`    // Discovery UDP port
	Timeout time.Duration `yaml:"timeout,omitempty"` // Collection window, e.g. "5s"
	Buffer  int           `yaml:"buffer,omitempty"`  // Receive buffer size
	Format  string        `yaml:"format,omitempty"`  // text, json or yaml
	IEEE    bool          `yaml:"ieee,omitempty"`    // IEEE registry fallback
}

// New returns an empty configuration
func New() *Config {
	return &Config{
		Version: CurrentVersion,
		Scan:    &ScanDefaults{},
		Vendors: make(map[string]string),
	}
}

// Validate checks the version and vendor keys
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("unsupported config version: %d (expected %d)", c.Version, CurrentVersion)
	}
	if _, err := c.VendorTable(); err != nil {
		return err
	}
	if c.Scan != nil && (c.Scan.Port < 0 || c.Scan.Port > 65535) {
		return fmt.Errorf("invalid scan.port %d", c.Scan.Port)
	}
	return nil
}

// VendorTable parses the vendor keys. Keys are hex with or without a
// 0x prefix and must fit in 24 bits.
func (c *Config) VendorTable() (map[uint32]string, error) {
	table := make(map[uint32]string, len(c.Vendors))
	for key, label := range c.Vendors {
		oui, err := ParseOUI(key)
		if err != nil {
			return nil, fmt.Errorf("vendors: %w", err)
		}
		table[oui] = label
	}
	return table, nil
}

// SetVendor records a label for oui
func (c *Config) SetVendor(oui uint32, label string) {
	if c.Vendors == nil {
		c.Vendors = make(map[string]string)
	}
	c.Vendors[fmt.Sprintf("0x%06X", oui&0x00FFFFFF)] = label
}

// ParseOUI parses "0x001C2D", "001c2d" or "00:1c:2d"
func ParseOUI(s string) (uint32, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), ":", "")
	clean = strings.TrimPrefix(strings.TrimPrefix(clean, "0x"), "0X")
	v, err := strconv.ParseUint(clean, 16, 32)
	if err != nil || clean == "" {
		return 0, fmt.Errorf("invalid OUI %q", s)
	}
	if v > 0x00FFFFFF {
		return 0, fmt.Errorf("OUI %q exceeds 24 bits", s)
	}
	return uint32(v), nil
}
