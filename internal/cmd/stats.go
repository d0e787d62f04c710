package cmd

import (
	"io"

	"github.com/ezerfernandes/blockfmt/internal/scan"
	"github.com/ezerfernandes/blockfmt/internal/ui"
	"github.com/rodaine/table"
)

func printStats(w io.Writer, palette ui.Palette, results []fileResult) {
	tbl := table.New("File", "Found", "OK", "Err", "Differing", "Formatted", "Flagged").
		WithWriter(w).
		WithHeaderFormatter(palette.Header)

	var total scan.Counters

	for _, res := range results {
		c := res.counters
		total.Add(c)

		tbl.AddRow(res.source.Name(), c.Found, c.OK, c.Err, c.Differing, c.Formatted, c.Flagged)
	}

	if len(results) > 1 {
		tbl.AddRow("total", total.Found, total.OK, total.Err, total.Differing, total.Formatted, total.Flagged)
	}

	tbl.Print()
}
