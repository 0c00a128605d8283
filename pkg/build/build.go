package build

import (
	"github.com/prometheus/common/version"
)

// Version information passed to the Prometheus version package at link time.
var (
	Version   string
	Revision  string
	Branch    string
	BuildUser string
	BuildDate string
)

func init() {
	version.Version = Version
	version.Revision = Revision
	version.Branch = Branch
	version.BuildUser = BuildUser
	version.BuildDate = BuildDate
}

// Print returns version information for the named program.
func Print(program string) string {
	return version.Print(program)
}
