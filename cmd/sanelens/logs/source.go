// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

package logs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// stdinPath selects standard input as a source.
const stdinPath = "-"

// source is one "name=path" argument.
type source struct {
	name string
	path string
}

// parseSources parses the positional arguments. Names must be unique
// and at most one source may read standard input.
func parseSources(args []string) ([]source, error) {
	sources := make([]source, 0, len(args))
	seen := make(map[string]bool, len(args))
	stdinUsed := false

	for _, arg := range args {
		src, err := parseSource(arg)
		if err != nil {
			return nil, err
		}
		if seen[src.name] {
			return nil, fmt.Errorf("duplicate source name %q", src.name)
		}
		seen[src.name] = true
		if src.path == stdinPath {
			if stdinUsed {
				return nil, fmt.Errorf("only one source may read standard input")
			}
			stdinUsed = true
		}
		sources = append(sources, src)
	}
	return sources, nil
}

func parseSource(arg string) (source, error) {
	name, path, found := strings.Cut(arg, "=")
	if !found {
		path = arg
		if path == stdinPath {
			return source{}, fmt.Errorf("standard input needs a name (name=-)")
		}
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return source{}, fmt.Errorf("source %q: empty service name", arg)
	}
	if path == "" {
		return source{}, fmt.Errorf("source %q: empty path", arg)
	}
	return source{name: name, path: path}, nil
}

// open returns the stream for the source. Standard input is wrapped so
// the worker group does not close it.
func (s source) open() (io.Reader, error) {
	if s.path == stdinPath {
		return struct{ io.Reader }{os.Stdin}, nil
	}
	file, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	return file, nil
}
