package console

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// printTable writes a header line and tab-aligned rows and returns the number
// of rows written.
func printTable(w io.Writer, header []string, rows [][]string) int {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()
	fmt.Fprintln(w)
	return len(rows)
}
