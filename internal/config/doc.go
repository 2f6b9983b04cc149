// Package config manages the optional findradio user configuration file.
//
// The file holds defaults for scan flags and extra manufacturer labels
// keyed by OUI. Command-line flags always win over the file; a missing
// file is the same as an empty one.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/findradio/config.yaml or $HOME/.config/findradio/config.yaml
//   - macOS: $HOME/.config/findradio/config.yaml
//   - Windows: %LOCALAPPDATA%\findradio\config.yaml
//
// # Example
//
//	version: 1
//	scan:
//	  bind: 192.168.1.10
//	  timeout: 5s
//	  format: text
//	vendors:
//	  "0x00A0B1": "(Shack Labs)"
package config
