// Package version reports build information set at link time or read from
// the embedded module build info.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	Version   string // Set via ldflags.
	Branch    string
	BuildUser string
	BuildDate string

	Revision  = ParseRevision(buildInfo())
	GoVersion = runtime.Version()
	GoOS      = runtime.GOOS
	GoArch    = runtime.GOARCH
)

// GetVersion returns the release version, or the VCS revision for
// development builds.
func GetVersion() string {
	if Version != "" {
		return Version
	}

	return Revision
}

// String returns a one-line build summary.
func String() string {
	return fmt.Sprintf("netsense %s (%s, %s/%s)", GetVersion(), GoVersion, GoOS, GoArch)
}

const shortRevision = 7

func buildInfo() *debug.BuildInfo {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}

	return info
}

// ParseRevision returns the short VCS revision recorded in info, with a
// "-dirty" suffix for builds from a modified tree.
func ParseRevision(info *debug.BuildInfo) string {
	if info == nil {
		return "unknown"
	}

	rev, dirty := "unknown", false

	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value[:min(len(s.Value), shortRevision)]
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}

	if dirty {
		rev += "-dirty"
	}

	return rev
}
