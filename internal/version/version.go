// Package version exposes build identity for logs and the liveness endpoint.
package version

import (
	"fmt"
	"runtime/debug"
)

var (
	// Version is the release tag, overridable via ldflags.
	Version = "dev"
	// CommitHash is the git revision, filled from build info when not
	// provided via ldflags.
	CommitHash = ""
)

// GetInfo returns "version (shorthash)" for startup logging.
func GetInfo() string {
	if CommitHash == "" {
		if info, ok := debug.ReadBuildInfo(); ok {
			for _, setting := range info.Settings {
				if setting.Key == "vcs.revision" {
					CommitHash = setting.Value
				}
			}
		}
	}

	res := Version
	if CommitHash != "" {
		short := CommitHash
		if len(short) > 7 {
			short = short[:7]
		}
		res += fmt.Sprintf(" (%s)", short)
	}
	return res
}
