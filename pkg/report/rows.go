// Package report renders a set of policy evaluations into tabular output,
// either as a CSV file or an interactive terminal table.
package report

import (
	"fmt"

	"github.com/brackwater-io/depsentry/pkg/depmodel"
)

const (
	cellOK           = "OK"
	cellNotEvaluated = "Not evaluated"
)

// Writer renders evaluations to the destination held by the implementation.
type Writer interface {
	WriteResults(evaluations []depmodel.Evaluation) error
}

// table is the dependency-ordered, policy-column-ordered view of a set of
// evaluations, built once and shared by both writer implementations.
type table struct {
	policyNames []string
	rows        []row
}

type row struct {
	dependency depmodel.Dependency
	score      float64
	cells      map[string]string // policy name -> cell text
}

// buildTable groups evaluations by dependency, in first-seen order, and
// collects policy names in first-seen order for the column headers.
func buildTable(evaluations []depmodel.Evaluation) table {
	var (
		policyNames []string
		seenPolicy  = make(map[string]struct{})
		order       []depmodel.Dependency
		byDep       = make(map[depmodel.Dependency]*row)
	)

	for _, eval := range evaluations {
		if _, ok := seenPolicy[eval.PolicyName]; !ok {
			seenPolicy[eval.PolicyName] = struct{}{}
			policyNames = append(policyNames, eval.PolicyName)
		}

		r, ok := byDep[eval.Dependency]
		if !ok {
			r = &row{dependency: eval.Dependency, cells: make(map[string]string)}
			byDep[eval.Dependency] = r
			order = append(order, eval.Dependency)
		}

		switch eval.Kind {
		case depmodel.EvaluationPass:
			r.cells[eval.PolicyName] = cellOK
		case depmodel.EvaluationFail:
			r.cells[eval.PolicyName] = eval.Reason
			r.score += eval.FailScore
		}
	}

	rows := make([]row, 0, len(order))
	for _, dep := range order {
		rows = append(rows, *byDep[dep])
	}

	return table{policyNames: policyNames, rows: rows}
}

func (t table) headers() []string {
	headers := []string{"name", "version", "latest_version", "repository", "score"}

	return append(headers, t.policyNames...)
}

func (r row) values(policyNames []string) []string {
	repository := "unknown"
	if url, ok := r.dependency.Repository.URL(); ok {
		repository = url
	}

	values := []string{
		r.dependency.Name,
		r.dependency.Version,
		r.dependency.LatestVersion,
		repository,
		fmt.Sprintf("%g", r.score),
	}

	for _, name := range policyNames {
		cell, ok := r.cells[name]
		if !ok {
			cell = cellNotEvaluated
		}

		values = append(values, cell)
	}

	return values
}
