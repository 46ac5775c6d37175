// Package version exposes the build identity stamped in at link time.
package version

//nolint:revive // Overwritten by -ldflags at release builds.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
