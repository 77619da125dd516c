// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

package logworker

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ColorMode selects whether Console colours service prefixes.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// palette is cycled in order of first appearance so that the same
// service keeps its colour for the life of the console.
var palette = []lipgloss.Color{"6", "3", "2", "5", "4", "1", "14", "11", "10", "13", "12", "9"}

// ConsoleOptions configures a Console.
type ConsoleOptions struct {
	Color ColorMode

	// Timestamps keeps the container timestamp at the front of each
	// entry. When false it is removed from the first line.
	Timestamps bool

	// PrefixWidth pads service names to a common width. Zero means no
	// padding.
	PrefixWidth int
}

// Console writes entries one physical line at a time as
// "prefix | line". It is safe for concurrent use; lines of one entry
// are never interleaved with another's.
type Console struct {
	out        io.Writer
	renderer   *lipgloss.Renderer
	timestamps bool
	width      int

	mu     sync.Mutex
	colors map[string]lipgloss.Color
}

// NewConsole returns a Console writing to out.
func NewConsole(out io.Writer, options ConsoleOptions) *Console {
	profile := colorProfile(out, options.Color)
	renderer := lipgloss.NewRenderer(out, termenv.WithProfile(profile))
	renderer.SetColorProfile(profile)
	return &Console{
		out:        out,
		renderer:   renderer,
		timestamps: options.Timestamps,
		width:      options.PrefixWidth,
		colors:     make(map[string]lipgloss.Color),
	}
}

func colorProfile(out io.Writer, mode ColorMode) termenv.Profile {
	switch mode {
	case ColorAlways:
		return termenv.ANSI256
	case ColorNever:
		return termenv.Ascii
	}
	file, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return termenv.Ascii
	}
	if _, noColor := os.LookupEnv("NO_COLOR"); noColor {
		return termenv.Ascii
	}
	return termenv.NewOutput(file).EnvColorProfile()
}

// Print renders one entry. Write errors are returned but leave the
// console usable.
func (c *Console) Print(service, line, containerTS string) error {
	if !c.timestamps && containerTS != "" {
		if rest, ok := strings.CutPrefix(line, containerTS); ok {
			line = strings.TrimLeft(rest, " \t")
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	prefix := c.prefixLocked(service)
	var builder strings.Builder
	for _, physical := range strings.Split(line, "\n") {
		builder.WriteString(prefix)
		builder.WriteString(" | ")
		builder.WriteString(physical)
		builder.WriteByte('\n')
	}
	if _, err := io.WriteString(c.out, builder.String()); err != nil {
		return fmt.Errorf("writing %s entry: %w", service, err)
	}
	return nil
}

func (c *Console) prefixLocked(service string) string {
	color, ok := c.colors[service]
	if !ok {
		color = palette[len(c.colors)%len(palette)]
		c.colors[service] = color
	}
	style := c.renderer.NewStyle().Foreground(color)
	if c.width > 0 {
		style = style.Width(c.width)
	}
	return style.Render(service)
}
