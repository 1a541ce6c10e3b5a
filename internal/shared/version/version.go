// Package version carries build metadata injected with -ldflags.
package version

var (
	Current   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)
