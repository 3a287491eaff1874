package pathfinder

import "errors"

var (
	// errNoConvergence marks a search that hit its global iteration bound
	// before settling the opposing zone. The query is answered as no-path.
	errNoConvergence = errors.New("pathfinder: label search did not converge")

	// errStepBudget marks a path assembly that exceeded MaxPathLength.
	errStepBudget = errors.New("pathfinder: path exceeded step budget")
)
