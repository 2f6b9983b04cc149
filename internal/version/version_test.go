package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestApplyVCS(t *testing.T) {
	tests := []struct {
		name        string
		settings    []debug.BuildSetting
		wantVersion string
		wantCommit  string
	}{
		{
			name: "clean checkout",
			settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "0123456789abcdef"},
				{Key: "vcs.time", Value: "2026-03-14T09:26:53Z"},
				{Key: "vcs.modified", Value: "false"},
			},
			wantVersion: "dev-20260314",
			wantCommit:  "0123456",
		},
		{
			name: "dirty tree",
			settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "abc"},
				{Key: "vcs.modified", Value: "true"},
			},
			wantVersion: "",
			wantCommit:  "abc-dirty",
		},
		{
			name:        "no vcs stamp",
			settings:    []debug.BuildSetting{{Key: "-trimpath", Value: "true"}},
			wantVersion: "",
			wantCommit:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldVersion, oldCommit := Version, Commit
			t.Cleanup(func() { Version, Commit = oldVersion, oldCommit })

			Version, Commit = "", ""
			applyVCS(tt.settings)

			if Version != tt.wantVersion {
				t.Errorf("Version = %q, want %q", Version, tt.wantVersion)
			}
			if Commit != tt.wantCommit {
				t.Errorf("Commit = %q, want %q", Commit, tt.wantCommit)
			}
		})
	}
}

func TestApplyVCS_KeepsLinkerValues(t *testing.T) {
	oldVersion, oldCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = oldVersion, oldCommit })

	Version, Commit = "v1.0.0", "feedbee"
	applyVCS([]debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789abcdef"},
		{Key: "vcs.time", Value: "2026-03-14T09:26:53Z"},
	})

	if Version != "v1.0.0" || Commit != "feedbee" {
		t.Errorf("applyVCS overwrote linker values: %q %q", Version, Commit)
	}
}

func TestFull(t *testing.T) {
	got := Full()
	if !strings.Contains(got, Version) || !strings.Contains(got, "commit: "+Commit) {
		t.Errorf("Full() = %q", got)
	}
}
