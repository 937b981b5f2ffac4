package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/tacogips/qgen/internal/build"
)

// VersionInfo contains version information
type VersionInfo struct {
	Version   string
	GoVersion string
	Commit    string
	BuildDate string
	OS        string
	Arch      string
}

func currentVersion() VersionInfo {
	return VersionInfo{
		Version:   build.Version(),
		GoVersion: runtime.Version(),
		Commit:    build.GitCommit(),
		BuildDate: build.BuildDate(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

func printVersion(w io.Writer) {
	info := currentVersion()
	fmt.Fprintf(w, "qgen version %s\n", info.Version)
	fmt.Fprintf(w, "Built with: %s\n", info.GoVersion)
	fmt.Fprintf(w, "Commit: %s\n", info.Commit)
	fmt.Fprintf(w, "Build date: %s\n", info.BuildDate)
	fmt.Fprintf(w, "OS/Arch: %s/%s\n", info.OS, info.Arch)
}
