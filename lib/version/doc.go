// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information for sanelens.
//
// Three package-level variables are injected at build time via
// -ldflags -X:
//
//   - [GitCommit] -- short git SHA of the build
//   - [BuildTime] -- UTC timestamp of the build
//   - [Version] -- semantic version string (set manually for releases)
//
// When GitCommit is not injected, the VCS stamp the Go toolchain
// embeds in the binary is used instead, if present.
//
//	go build -ldflags "-X github.com/sanelens/sanelens/lib/version.GitCommit=$(git rev-parse --short HEAD)" ./cmd/sanelens
package version
