// Package version reports the findradio build identity.
package version

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"
)

// Set at link time:
//
//	go build -ldflags="-X github.com/muurk/findradio/internal/version.Version=v0.3.0 \
//	                   -X github.com/muurk/findradio/internal/version.Commit=abc1234"
//
// Unset values are filled from the embedded VCS stamp, then "dev"/"unknown".
var (
	Version = ""
	Commit  = ""
)

// GoVersion is the toolchain the binary was built with
var GoVersion = "unknown"

func init() {
	info, ok := debug.ReadBuildInfo()
	if ok {
		GoVersion = info.GoVersion
		applyVCS(info.Settings)
	}

	if Version == "" {
		Version = "dev"
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// applyVCS fills Version and Commit from -buildvcs settings
func applyVCS(settings []debug.BuildSetting) {
	vcs := make(map[string]string, len(settings))
	for _, s := range settings {
		if strings.HasPrefix(s.Key, "vcs.") {
			vcs[s.Key] = s.Value
		}
	}

	if Commit == "" {
		if rev := vcs["vcs.revision"]; rev != "" {
			Commit = rev[:min(7, len(rev))]
			if vcs["vcs.modified"] == "true" {
				Commit += "-dirty"
			}
		}
	}

	if Version == "" {
		if t, err := time.Parse(time.RFC3339, vcs["vcs.time"]); err == nil {
			Version = "dev-" + t.UTC().Format("20060102")
		}
	}
}

// Full returns the version with commit and toolchain
func Full() string {
	return fmt.Sprintf("%s (commit: %s, %s)", Version, Commit, GoVersion)
}
