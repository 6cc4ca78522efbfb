package calculator

import "sort"

// VisibleSteps returns the steps of calc whose condition holds for sel,
// stably sorted by Order. It never returns nil.
func VisibleSteps(calc *Calculator, sel Selections) []Step {
	out := make([]Step, 0, len(calc.Steps))
	for _, step := range calc.Steps {
		if step.Condition.Holds(sel) {
			out = append(out, step)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}
