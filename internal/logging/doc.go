// Package logging provides structured logging for findradio.
//
// This package wraps a zap logger with convenience functions used by the
// discovery listener, the decode pipeline and the CLI.
//
// # Verbosity
//
// The CLI debug level selects the log level:
//   - 0: silent (no-op logger, the report is the only output)
//   - 1: Info (bind address, collection summary, per-packet decode errors)
//   - 2 and above: Debug (every datagram, duplicates, hex dumps, timing)
//
// # Structured Logging
//
//	logging.Info("Collection finished",
//	    zap.Int("devices", len(devices)),
//	    zap.Duration("elapsed", elapsed),
//	)
//
// # Configuration
//
//	if err := logging.Initialize(debugLevel); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// Logs are written to stderr in console format so that json and yaml
// reports on stdout can be piped safely.
package logging
