// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

package logs

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/sanelens/sanelens/lib/loghub"
	"github.com/sanelens/sanelens/lib/logworker"
)

// renderer prints one hub event.
type renderer func(event loghub.LogEvent) error

func newConsoleRenderer(out io.Writer, options logworker.ConsoleOptions) renderer {
	console := logworker.NewConsole(out, options)
	return func(event loghub.LogEvent) error {
		return console.Print(event.Service, event.Line, event.ContainerTS)
	}
}

func newJSONRenderer(out io.Writer) renderer {
	encoder := json.NewEncoder(out)
	return func(event loghub.LogEvent) error {
		if err := encoder.Encode(event); err != nil {
			return fmt.Errorf("writing event %d: %w", event.Seq, err)
		}
		return nil
	}
}
