// Package version holds build metadata, set at build time via -ldflags.
package version

var (
	Version   = "dev"
	GitCommit = "unknown"
)
