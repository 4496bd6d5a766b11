// Package version reports the llmstream build version.
//
// Version, git commit, branch, and build time are set at compile time
// via -ldflags and fall back to the Go toolchain's embedded VCS stamp:
//
//	go build -ldflags "-X github.com/kbukum/llmstream/version.Version=1.2.0" ./cmd/llmstream
package version
