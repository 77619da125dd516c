// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides channel helpers shared by sanelens tests.
//
// [RequireReceive], [RequireClosed], and [RequireNoReceive] wrap the
// select-with-timeout pattern so that tests exercising hub clients,
// stream workers, and the exporter never call time.After themselves.
// They are the only place tests touch the wall clock; everything else
// runs on clock.Fake.
//
// Helpers call t.Fatalf on failure.
package testutil
