// Package version reports the diallog build.
//
// Version, commit and build time are set at link time:
//
//	go build -ldflags "-X github.com/2mushr00m/dialLog/version.Version=1.2.0" ./cmd/diallog
package version
