// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the sanelens configuration file.
//
// Configuration comes from exactly one file, named by the --config flag
// or the SANELENS_CONFIG environment variable. There is no discovery
// and no layering of multiple files: what is in the named file, on top
// of [Default], is what runs.
//
// Files ending in .json or .jsonc are accepted as JSON with comments
// and trailing commas; everything else is parsed as YAML. Path-valued
// fields expand ${VAR} and ${VAR:-default}.
//
//	logs:
//	  history_size: 2000
//	  max_gap: 1.5s
//	traffic:
//	  service: api
//	registry:
//	  workloads:
//	    - name: db
//	      instance: db-1
//	      addresses: ["10.0.0.2:5432"]
//	export:
//	  path: ${XDG_STATE_HOME:-/tmp}/sanelens/observations.frames
package config
