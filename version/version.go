// Package version holds build-time version information.
package version

import "runtime"

// Set via ldflags at build time:
//
//	go build -ldflags "-X github.com/rulekb/rulekb/version.GitRelease=v0.2.0"
var (
	// GitRelease is the release tag or "dev" for local builds.
	GitRelease = "dev"

	// GitCommit is the short commit hash.
	GitCommit = ""

	// GitCommitDate is the commit date of the build.
	GitCommitDate = ""
)

// GoInfo reports the Go toolchain the binary was built with.
var GoInfo = runtime.Version()
