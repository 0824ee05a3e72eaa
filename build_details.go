// Package semanticmerge is the root of the semantic-merge engine: an
// operation-log based three-way merge for source trees, keyed by
// logical symbol identity rather than line position.
package semanticmerge

import (
	"fmt"
	"runtime"
)

var (
	// version is set via ldflags during build by GoReleaser.
	// For development builds, this will show "dev".
	version = "dev"
	// commit is set via ldflags during build.
	commit = "unknown"
	// buildTime is set via ldflags during build, RFC3339 format.
	buildTime = "unknown"
)

// Version returns the compiled version or 'dev' if run from source.
func Version() string {
	return version
}

// Commit returns the git commit the binary was built from, or
// 'unknown' if run from source.
func Commit() string {
	return commit
}

// BuildTime returns the RFC3339 build timestamp, or 'unknown' if run
// from source.
func BuildTime() string {
	return buildTime
}

// GoVersion returns the Go runtime version used to build the binary.
func GoVersion() string {
	return runtime.Version()
}

// UserAgent returns the User-Agent string to use for any outbound
// requests the engine makes.
func UserAgent() string {
	return fmt.Sprintf("semmerge/%s", version)
}

// BuildInfo returns a human-readable summary of all build metadata, the
// shape the CLI's version command prints.
func BuildInfo() string {
	return fmt.Sprintf("Version: %s\nCommit: %s\nBuild Time: %s\nGo Version: %s",
		Version(), Commit(), BuildTime(), GoVersion())
}
