package report

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/brackwater-io/depsentry/pkg/depmodel"
)

// TableWriter echoes the same rows CSVWriter persists to an interactive
// terminal, for `scan` runs invoked directly by a user.
type TableWriter struct {
	Output io.Writer
}

// WriteResults implements Writer.
func (w TableWriter) WriteResults(evaluations []depmodel.Evaluation) error {
	t := buildTable(evaluations)

	tw := table.NewWriter()
	tw.SetOutputMirror(w.Output)

	headerRow := make(table.Row, len(t.headers()))
	for i, h := range t.headers() {
		headerRow[i] = h
	}

	tw.AppendHeader(headerRow)

	for _, r := range t.rows {
		values := r.values(t.policyNames)

		dataRow := make(table.Row, len(values))
		for i, v := range values {
			dataRow[i] = v
		}

		tw.AppendRow(dataRow)
	}

	tw.Render()

	return nil
}
