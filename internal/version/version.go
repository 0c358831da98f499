// Package version holds build metadata, overridable with -ldflags "-X".
package version

var (
	Version   = "1.01"
	Commit    = ""
	BuildDate = ""
)
