package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/brackwater-io/depsentry/pkg/depmodel"
	"github.com/brackwater-io/depsentry/pkg/iox"
)

// CSVWriter renders evaluations as a CSV file, written atomically via a
// temp file in the destination directory followed by os.Rename.
type CSVWriter struct {
	Path string
}

// WriteResults implements Writer.
func (w CSVWriter) WriteResults(evaluations []depmodel.Evaluation) error {
	t := buildTable(evaluations)

	dir := filepath.Dir(w.Path)

	tmp, err := os.CreateTemp(dir, ".result-*.csv.tmp")
	if err != nil {
		return fmt.Errorf("create temp result file: %w", err)
	}
	defer iox.DiscardClose(tmp)

	tmpPath := tmp.Name()

	writer := csv.NewWriter(tmp)

	if err := writer.Write(t.headers()); err != nil {
		os.Remove(tmpPath)

		return fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range t.rows {
		if err := writer.Write(r.values(t.policyNames)); err != nil {
			os.Remove(tmpPath)

			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()

	if err := writer.Error(); err != nil {
		os.Remove(tmpPath)

		return fmt.Errorf("flush csv: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		os.Remove(tmpPath)

		return fmt.Errorf("sync temp result file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)

		return fmt.Errorf("close temp result file: %w", err)
	}

	if err := os.Rename(tmpPath, w.Path); err != nil {
		os.Remove(tmpPath)

		return fmt.Errorf("rename result file into place: %w", err)
	}

	return nil
}
