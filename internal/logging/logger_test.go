package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLevelForVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		wantLevel zapcore.Level
		wantOK    bool
	}{
		{-1, zapcore.InfoLevel, false},
		{0, zapcore.InfoLevel, false},
		{1, zapcore.InfoLevel, true},
		{2, zapcore.DebugLevel, true},
		{5, zapcore.DebugLevel, true},
	}

	for _, tt := range tests {
		level, ok := LevelForVerbosity(tt.verbosity)
		if ok != tt.wantOK || (ok && level != tt.wantLevel) {
			t.Errorf("LevelForVerbosity(%d) = %v, %v; want %v, %v",
				tt.verbosity, level, ok, tt.wantLevel, tt.wantOK)
		}
	}
}

func TestInitialize_Silent(t *testing.T) {
	if err := Initialize(0); err != nil {
		t.Fatalf("Initialize(0) error = %v", err)
	}
	if DebugEnabled() {
		t.Error("DebugEnabled() = true for silent logger")
	}
}

func TestLogRawBytes(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	LogRawBytes("packet", []byte{'a', 0x00, 'b'})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["hex"] != "610062" {
		t.Errorf("hex = %v, want 610062", fields["hex"])
	}
	if fields["ascii"] != "a.b" {
		t.Errorf("ascii = %v, want a.b", fields["ascii"])
	}
}

func TestHexDump_Limit(t *testing.T) {
	data := make([]byte, 300)
	got := hexDump(data)
	if len(got) != 512+3 {
		t.Errorf("len(hexDump) = %d, want %d", len(got), 515)
	}
}
