package logging

import (
	"encoding/hex"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// LevelForVerbosity maps the CLI debug level to a zap level.
// ok is false for verbosity 0, which means silent.
func LevelForVerbosity(verbosity int) (level zapcore.Level, ok bool) {
	switch {
	case verbosity <= 0:
		return zapcore.InfoLevel, false
	case verbosity == 1:
		return zapcore.InfoLevel, true
	default:
		return zapcore.DebugLevel, true
	}
}

// Initialize creates the logger for the given debug verbosity.
// Verbosity 0 installs a no-op logger; the report is the only output.
// Log output goes to stderr so stdout stays clean for reports.
func Initialize(verbosity int) error {
	zapLevel, ok := LevelForVerbosity(verbosity)
	if !ok {
		logger = zap.NewNop()
		return nil
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	var err error
	logger, err = config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	return nil
}

// SetLogger replaces the global logger (used by tests)
func SetLogger(l *zap.Logger) {
	logger = l
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// DebugEnabled reports whether debug entries will be written
func DebugEnabled() bool {
	return GetLogger().Core().Enabled(zapcore.DebugLevel)
}

// LogDatagram logs one received announcement datagram
func LogDatagram(remoteAddr string, length int, duplicate bool) {
	Debug("Datagram received",
		zap.String("remote_addr", remoteAddr),
		zap.Int("length", length),
		zap.Bool("duplicate", duplicate),
	)
}

// LogRawBytes logs raw bytes (useful for debugging protocol issues)
func LogRawBytes(label string, data []byte) {
	if !DebugEnabled() {
		return
	}
	Debug(label,
		zap.Int("length", len(data)),
		zap.String("hex", hexDump(data)),
		zap.String("ascii", asciiDump(data)),
	)
}

func hexDump(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	// Limit to first 256 bytes for logging
	if len(data) > 256 {
		return hex.EncodeToString(data[:256]) + "..."
	}
	return hex.EncodeToString(data)
}

func asciiDump(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	if len(data) > 256 {
		data = data[:256]
	}

	result := make([]byte, len(data))
	for i, b := range data {
		if b >= 32 && b <= 126 {
			result[i] = b
		} else {
			result[i] = '.'
		}
	}
	return string(result)
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
