// Package version reports the release this binary was built from.
package version

import "fmt"

const (
	Major   = 1
	Minor   = 1
	Patch   = 1
	Release = "beta"
)

// Build is set at link time, e.g. -ldflags "-X ingrediguard/internal/version.Build=abc123".
var Build = ""

// String returns vX.Y.Z[-release][+build].
func String() string {
	v := "v" + Short()
	if Release != "" {
		v += "-" + Release
	}
	if Build != "" {
		v += "+" + Build
	}
	return v
}

// Short returns X.Y.Z.
func Short() string {
	return fmt.Sprintf("%d.%d.%d", Major, Minor, Patch)
}
