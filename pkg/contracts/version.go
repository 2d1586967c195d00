// Package contracts carries the version and build identity shared across
// the module boundary.
package contracts

import (
	"fmt"
	"runtime"
)

// Version is the release of the connectivity ETL. DataFormatVersion names
// the exported CSV column layout and changes only when a column is added,
// removed, or renamed.
const (
	Version           = "1.0.0"
	DataFormatVersion = "v1"
)

// Build metadata, injected with -ldflags at release time.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
	GitBranch = "unknown"
)

// VersionInfo describes one binary: release, build inputs, and platform.
type VersionInfo struct {
	Version      string `json:"version"`
	BuildTime    string `json:"build_time"`
	GitCommit    string `json:"git_commit"`
	GitBranch    string `json:"git_branch"`
	GoVersion    string `json:"go_version"`
	OS           string `json:"os"`
	Architecture string `json:"architecture"`
	DataFormat   string `json:"data_format"`
}

// GetVersionInfo collects the version info of the running binary.
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:      Version,
		BuildTime:    BuildTime,
		GitCommit:    GitCommit,
		GitBranch:    GitBranch,
		GoVersion:    runtime.Version(),
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
		DataFormat:   DataFormatVersion,
	}
}

// GetVersionString returns the one-line product banner.
func GetVersionString() string {
	return fmt.Sprintf("Conex Connectivity ETL v%s", Version)
}

// GetFullVersionString extends the banner with build and platform details.
func GetFullVersionString() string {
	return fmt.Sprintf(
		"%s (built: %s, commit: %s, go: %s, os: %s/%s)",
		GetVersionString(), BuildTime, GitCommit,
		runtime.Version(), runtime.GOOS, runtime.GOARCH,
	)
}
