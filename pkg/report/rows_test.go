package report_test

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brackwater-io/depsentry/pkg/depmodel"
	"github.com/brackwater-io/depsentry/pkg/report"
)

func TestCSVWriterRendersOnePassTwoFails(t *testing.T) {
	depA := depmodel.Dependency{Name: "a", Version: "1.0.0"}
	depB := depmodel.Dependency{Name: "b", Version: "2.0.0"}

	evaluations := []depmodel.Evaluation{
		depmodel.Pass("policy1", depA),
		depmodel.Fail("policy1", depB, "too old", 1.0),
		depmodel.Fail("policy2", depB, "too concentrated", 0.5),
	}

	path := filepath.Join(t.TempDir(), "result.csv")
	writer := report.CSVWriter{Path: path}

	require.NoError(t, writer.WriteResults(evaluations))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3) // header + 2 dependency rows

	require.Equal(t, []string{"name", "version", "latest_version", "repository", "score", "policy1", "policy2"}, records[0])

	require.Equal(t, "a", records[1][0])
	require.Equal(t, "OK", records[1][5])
	require.Equal(t, "Not evaluated", records[1][6])

	require.Equal(t, "b", records[2][0])
	require.Equal(t, "1.5", records[2][4])
	require.Equal(t, "too old", records[2][5])
	require.Equal(t, "too concentrated", records[2][6])
}
