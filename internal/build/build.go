// Package build provides build-time information for the CLI application.
// Values are set via ldflags during build, with the module build info as a
// fallback for `go install` builds.
package build

import (
	"runtime/debug"
)

// These can be overridden via ldflags:
// -X github.com/tacogips/qgen/internal/build.version=x.y.z
var (
	version   string
	gitCommit string
	buildDate string
)

const unknown = "unknown"

// Version returns the application version.
// Priority: ldflags > module version > "dev"
func Version() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return "dev"
}

// GitCommit returns the commit the binary was built from.
func GitCommit() string {
	if gitCommit != "" {
		return gitCommit
	}
	if v := setting("vcs.revision"); v != "" {
		return v
	}
	return unknown
}

// BuildDate returns the build date.
func BuildDate() string {
	if buildDate != "" {
		return buildDate
	}
	if v := setting("vcs.time"); v != "" {
		return v
	}
	return unknown
}

func setting(key string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}
