// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

package traffic

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/sanelens/sanelens/lib/trafficgraph"
)

// writeGraph renders the edge table.
func writeGraph(w io.Writer, edges []trafficgraph.Edge) error {
	if len(edges) == 0 {
		_, err := fmt.Fprintln(w, "no traffic observed")
		return err
	}
	writer := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
	fmt.Fprintf(writer, "KIND\tFROM\tTO\tDETAIL\tCOUNT\tERRORS\tIN\tOUT\tP50\tP95\tVISIBILITY\n")
	for _, edge := range edges {
		stats := edge.Stats
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\t%s\t%s\n",
			edge.Key.Kind,
			edge.Key.From,
			edge.Key.To,
			edgeDetail(edge.Key),
			stats.Count,
			stats.Errors,
			stats.BytesIn,
			stats.BytesOut,
			formatMillis(stats.P50MS),
			formatMillis(stats.P95MS),
			stats.Visibility,
		)
	}
	return writer.Flush()
}

func edgeDetail(key trafficgraph.EdgeKey) string {
	if key.Kind == trafficgraph.EdgeFlow {
		return string(key.Transport) + "/" + strconv.Itoa(int(key.Port))
	}
	method, route := key.Method, key.Route
	if method == "" {
		method = "-"
	}
	if route == "" {
		route = "-"
	}
	return method + " " + route
}

func formatMillis(value *uint64) string {
	if value == nil {
		return "-"
	}
	return strconv.FormatUint(*value, 10) + "ms"
}
