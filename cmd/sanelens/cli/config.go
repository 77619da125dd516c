// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"

	"github.com/sanelens/sanelens/lib/config"
)

// LoadConfig loads path, or the file named by SANELENS_CONFIG when path
// is empty, and validates the result. With neither set it returns
// config.Default().
func LoadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
		if errors.Is(err, config.ErrNoConfig) {
			cfg, err = config.Default(), nil
		}
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
