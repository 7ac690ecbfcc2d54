package engine_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brackwater-io/depsentry/pkg/depmodel"
	"github.com/brackwater-io/depsentry/pkg/engine"
)

type stubPolicy struct {
	name string
	pass bool
}

func (s stubPolicy) Evaluate(context.Context, depmodel.Dependency) (depmodel.Evaluation, error) {
	dep := depmodel.Dependency{Name: "x"}
	if s.pass {
		return depmodel.Pass(s.name, dep), nil
	}

	return depmodel.Fail(s.name, dep, "failed", 1.0), nil
}

func TestEvaluateRunsOnlyMatchingPatternedConfig(t *testing.T) {
	configs := []depmodel.ExecutionConfig{
		{NamePattern: regexp.MustCompile(`^foo$`), Policies: []depmodel.Policy{stubPolicy{name: "p1", pass: true}}},
		{NamePattern: nil, Policies: []depmodel.Policy{stubPolicy{name: "default", pass: true}}},
	}

	results, err := engine.New(configs).Evaluate(context.Background(), depmodel.Dependency{Name: "foo"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "p1", results[0].PolicyName)
}

func TestEvaluateFallsBackToDefaultWhenNoPatternMatches(t *testing.T) {
	configs := []depmodel.ExecutionConfig{
		{NamePattern: regexp.MustCompile(`^foo$`), Policies: []depmodel.Policy{stubPolicy{name: "p1", pass: true}}},
		{NamePattern: nil, Policies: []depmodel.Policy{stubPolicy{name: "default", pass: true}}},
	}

	results, err := engine.New(configs).Evaluate(context.Background(), depmodel.Dependency{Name: "bar"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "default", results[0].PolicyName)
}

func TestEvaluatePreservesScheduleOrder(t *testing.T) {
	configs := []depmodel.ExecutionConfig{
		{
			NamePattern: regexp.MustCompile(`^foo$`),
			Policies: []depmodel.Policy{
				stubPolicy{name: "first", pass: true},
				stubPolicy{name: "second", pass: false},
			},
		},
	}

	results, err := engine.New(configs).Evaluate(context.Background(), depmodel.Dependency{Name: "foo"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "first", results[0].PolicyName)
	require.Equal(t, "second", results[1].PolicyName)
}
