package depmodel

// EvaluationKind tags whether an Evaluation passed or failed.
type EvaluationKind int

// Evaluation outcomes.
const (
	EvaluationPass EvaluationKind = iota
	EvaluationFail
)

// Evaluation is the outcome of running one policy against one dependency.
// FailScore is only meaningful when Kind is EvaluationFail; it is always
// nonnegative (1.0 = exactly at threshold, >1.0 = worse).
type Evaluation struct {
	Kind       EvaluationKind
	PolicyName string
	Dependency Dependency
	Reason     string
	FailScore  float64
}

// Pass constructs a passing Evaluation.
func Pass(policyName string, dep Dependency) Evaluation {
	return Evaluation{Kind: EvaluationPass, PolicyName: policyName, Dependency: dep}
}

// Fail constructs a failing Evaluation. failScore is clamped to 0 if negative.
func Fail(policyName string, dep Dependency, reason string, failScore float64) Evaluation {
	if failScore < 0 {
		failScore = 0
	}

	return Evaluation{
		Kind:       EvaluationFail,
		PolicyName: policyName,
		Dependency: dep,
		Reason:     reason,
		FailScore:  failScore,
	}
}
