// Package version holds the carpages build metadata, overridden via ldflags
// by the release build.
package version

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
