package version

import (
	"fmt"
	"runtime"
)

// These variables are set via ldflags during build
var (
	// Version is the semantic version (e.g., v0.1.0)
	Version = "dev"

	// Commit is the git commit hash
	Commit = "unknown"

	// Date is the build date
	Date = "unknown"
)

// BuildInfo is the machine readable form of Info
type BuildInfo struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
	Go      string `json:"go" yaml:"go"`
	OSArch  string `json:"os_arch" yaml:"os_arch"`
}

// Build returns the build metadata of the running binary
func Build() BuildInfo {
	return BuildInfo{
		Version: Version,
		Commit:  Commit,
		Date:    Date,
		Go:      runtime.Version(),
		OSArch:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// Info returns version information as a formatted string
func Info() string {
	b := Build()
	return fmt.Sprintf(
		"pyplag %s\nCommit: %s\nBuilt: %s\nGo: %s\nOS/Arch: %s",
		b.Version,
		b.Commit,
		b.Date,
		b.Go,
		b.OSArch,
	)
}

// Short returns just the version string
func Short() string {
	return Version
}
