// Package version reports build information for kbatch.
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

	Revision  = getRevision()
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

// Info returns a one-line summary of the build, suitable for debug logs.
func Info() string {
	s := fmt.Sprintf("kbatch %s (revision: %s, go: %s, platform: %s/%s)",
		GetVersion(), Revision, GoVersion, GoOS, GoArch)

	if BuildDate != "" {
		s += fmt.Sprintf(" built %s", BuildDate)
		if BuildUser != "" {
			s += fmt.Sprintf(" by %s", BuildUser)
		}
	}

	return s
}

func getRevision() string {
	return revisionFromSettings(readSettings())
}

func readSettings() []debug.BuildSetting {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}

	return buildInfo.Settings
}

func revisionFromSettings(settings []debug.BuildSetting) string {
	rev := "unknown"
	modified := false

	for _, v := range settings {
		switch v.Key {
		case "vcs.revision":
			if len(v.Value) > 7 {
				rev = v.Value[:7]
			} else {
				rev = v.Value
			}

		case "vcs.modified":
			if v.Value == "true" {
				modified = true
			}
		}
	}

	if modified {
		return rev + "-dirty"
	}

	return rev
}
