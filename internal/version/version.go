// Package version holds build identification for the binary.
package version

// Version is overridden at build time:
//
//	go build -ldflags "-X github.com/niveshak/niveshak/internal/version.Version=v1.2.3"
var Version = "dev"
