package domain

// Solution is the solved problem for one period. It is read-only once built.
type Solution struct {
	CFunc PolicyFunction
	// MNrmMin is the lowest normalized market resources at which consumption
	// is defined.
	MNrmMin float64
	// HNrm is normalized human wealth, the present value of future income.
	HNrm   float64
	MPCMin float64
	MPCMax float64
}

// TerminalSolution is the consume-everything rule of the last period.
func TerminalSolution() Solution {
	cFunc, _ := NewLinearInterp([]float64{0, 1}, []float64{0, 1})
	return Solution{
		CFunc:   cFunc,
		MNrmMin: 0,
		HNrm:    0,
		MPCMin:  1,
		MPCMax:  1,
	}
}
