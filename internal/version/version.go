// Package version reports the build the binary came from.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set at build time via ldflags. Unset values fall back to the VCS stamp
// the go toolchain embeds in the binary.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// readBuildInfo is swapped in tests.
var readBuildInfo = debug.ReadBuildInfo

// String returns "geoanchor <version> (commit: <short>, built: <time>)".
func String() string {
	version, commit, built := Version, Commit, BuildTime
	dirty := false
	if info, ok := readBuildInfo(); ok {
		if version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			version = info.Main.Version
		}
		for _, s := range info.Settings {
			switch {
			case s.Key == "vcs.revision" && commit == "unknown":
				commit = s.Value
			case s.Key == "vcs.time" && built == "unknown":
				built = s.Value
			case s.Key == "vcs.modified" && s.Value == "true":
				dirty = true
			}
		}
	}
	commit = short(commit)
	if dirty {
		commit += "-dirty"
	}
	return fmt.Sprintf("geoanchor %s (commit: %s, built: %s)", version, commit, built)
}

func short(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
