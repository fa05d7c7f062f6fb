// Package misc carries build identity helpers used by logging and the
// CLI.
package misc

import "runtime/debug"

const appName = "mcnbt"

// set by the build system via -ldflags when releasing
var (
	version = "dev"
	gitHash = ""
)

// GetAppName returns the program name used for log files and reports.
func GetAppName() string {
	return appName
}

// GetVersion returns the release version, falling back to module build
// info for plain "go install" builds.
func GetVersion() string {
	if version != "dev" {
		return version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}
	return version
}

// GetGitHash returns the vcs revision the binary was built from.
func GetGitHash() string {
	if gitHash != "" {
		return gitHash
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
