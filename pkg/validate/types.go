package validate

import "github.com/rbignon/speedfog/pkg/balance"

// Constraint names the rule a ConstraintResult reports on, mirroring the
// teacher's {name, rule} constraint identity pair.
type Constraint struct {
	Name string
	Rule string
}

// ConstraintResult is the outcome of checking one constraint. Score is
// 1.0 when the constraint is satisfied and 0.0 when it is not, for hard
// and soft constraints alike.
type ConstraintResult struct {
	Constraint Constraint
	Satisfied  bool
	Score      float64
	Details    string
}

// Requirements are the minimum layer-type counts a valid DAG must
// contain (spec.md §4.7, mirrors pkg/layer.Requirements).
type Requirements struct {
	LegacyDungeons int
	MiniDungeons   int
	Bosses         int
}

// Params are Validate's configuration inputs.
type Params struct {
	Requirements Requirements
	MinLayers    int
	Budget       balance.Budget
}

// Report is the validator's output (spec.md §4.7 "{is_valid, errors,
// warnings}"; Passed names the same notion as is_valid).
type Report struct {
	Passed      bool
	Errors      []string
	Warnings    []string
	HardResults []ConstraintResult
	SoftResults []ConstraintResult
}
