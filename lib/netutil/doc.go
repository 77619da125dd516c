// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil classifies stream I/O errors. Followers of log
// streams and access logs use [IsExpectedCloseError] to tell a stream
// that ended normally from one that failed.
package netutil
