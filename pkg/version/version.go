// Package version reports the treegrid build.
package version

import (
	"fmt"
	"runtime/debug"
)

// Version is the current application version.
// This is a var (not const) so it can be overridden at build time via:
//
//	go build -ldflags "-X github.com/vanderheijden86/treegrid/pkg/version.Version=v1.2.3"
var Version = "dev"

// Build returns the version with the VCS revision and time. When Version
// was not set through ldflags, the module version recorded by `go install`
// is used instead.
func Build() string {
	v, commit, date := Version, "HEAD", "now"
	if info, ok := debug.ReadBuildInfo(); ok {
		if v == "dev" {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				commit = s.Value
			case "vcs.time":
				date = s.Value
			}
		}
	}
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf("%s (%s) %s", v, commit, date)
}
