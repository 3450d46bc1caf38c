// Package version exposes the build version of gemrelay.
package version

// Version is overridden at build time:
//
//	go build -ldflags "-X github.com/mandalnilabja/gemrelay/internal/version.Version=v1.2.0"
var Version = "dev"
