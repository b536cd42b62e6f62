package validate

import (
	"github.com/rbignon/speedfog/pkg/balance"
	"github.com/rbignon/speedfog/pkg/dag"
)

// Validate runs every structural, requirement, path-count, weight, and
// layer-count check against d and returns the combined report
// (spec.md §4.7).
func Validate(d *dag.Dag, params Params) *Report {
	report := &Report{Passed: true}

	addHard := func(r ConstraintResult) {
		report.HardResults = append(report.HardResults, r)
		if !r.Satisfied {
			report.Passed = false
			report.Errors = append(report.Errors, r.Details)
		}
	}
	addSoft := func(r ConstraintResult) {
		report.SoftResults = append(report.SoftResults, r)
		if !r.Satisfied {
			report.Warnings = append(report.Warnings, r.Details)
		}
	}

	addHard(checkStructural(d))
	addHard(checkRequirements(d, params.Requirements))

	balanceReport := balance.Analyze(d, params.Budget)

	addHard(checkNonEmptyPaths(balanceReport))
	addSoft(checkSinglePath(balanceReport))
	addSoft(checkWeight(balanceReport))
	addSoft(checkLayerCount(d, params.MinLayers))

	return report
}
