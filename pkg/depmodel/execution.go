package depmodel

import "context"

// Policy evaluates a single dependency and produces an Evaluation.
// Implementations must be safe to call concurrently against distinct
// dependencies.
type Policy interface {
	Evaluate(ctx context.Context, dep Dependency) (Evaluation, error)
}

// ExecutionConfig binds a set of policies to the dependencies whose name
// matches NamePattern. A nil NamePattern marks the default group, which
// the engine runs only when no pattern matched.
type ExecutionConfig struct {
	NamePattern NameMatcher // nil means "default".
	Policies    []Policy
}

// NameMatcher matches a dependency name against a configured pattern.
type NameMatcher interface {
	MatchString(name string) bool
}
