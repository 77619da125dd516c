// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

package traffic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/sanelens/sanelens/cmd/sanelens/cli"
	"github.com/sanelens/sanelens/lib/obsexport"
)

// DecodeCommand returns the "decode" command.
func DecodeCommand() *cli.Command {
	var batches bool

	return &cli.Command{
		Name:    "decode",
		Summary: "Print the observations in an export file as JSON lines",
		Description: `Read the compressed frames written by "sanelens traffic --export" and
print every observation as one JSON document per line. With --batches
each frame is printed whole, including its sequence number.

A gap in the sequence numbers is logged as a warning.`,
		Usage: "sanelens decode [flags] frames-file",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("decode", pflag.ContinueOnError)
			flagSet.BoolVar(&batches, "batches", false, "print one JSON document per frame")
			return flagSet
		},
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one frames file")
			}
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()
			_, err = decode(file, os.Stdout, batches, logger)
			return err
		},
	}
}

// decode copies frames from r to w as JSON and returns the number of
// frames read.
func decode(r io.Reader, w io.Writer, wholeBatches bool, logger *slog.Logger) (int, error) {
	encoder := json.NewEncoder(w)
	frames := 0
	var expected uint64
	for {
		batch, err := obsexport.ReadFrame(r)
		if errors.Is(err, io.EOF) {
			return frames, nil
		}
		if err != nil {
			return frames, fmt.Errorf("frame %d: %w", frames, err)
		}
		if frames > 0 && batch.Sequence != expected {
			logger.Warn("export sequence gap", "expected", expected, "got", batch.Sequence)
		}
		expected = batch.Sequence + 1
		frames++

		if wholeBatches {
			if err := encoder.Encode(batch); err != nil {
				return frames, err
			}
			continue
		}
		for _, observation := range batch.Observations {
			if err := encoder.Encode(observation); err != nil {
				return frames, err
			}
		}
	}
}
