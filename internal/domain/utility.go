package domain

import "math"

// Utility is CRRA utility. Rho == 1 uses the log branch.
type Utility struct {
	Rho float64
}

func (u Utility) isLog() bool {
	return u.Rho == 1
}

func (u Utility) U(c float64) float64 {
	if u.isLog() {
		return math.Log(c)
	}
	return math.Pow(c, 1-u.Rho) / (1 - u.Rho)
}

// P is marginal utility.
func (u Utility) P(c float64) float64 {
	if u.isLog() {
		return 1 / c
	}
	return math.Pow(c, -u.Rho)
}

// PInv inverts marginal utility.
func (u Utility) PInv(vp float64) float64 {
	if u.isLog() {
		return 1 / vp
	}
	return math.Pow(vp, -1/u.Rho)
}

// PP is the second derivative.
func (u Utility) PP(c float64) float64 {
	if u.isLog() {
		return -1 / (c * c)
	}
	return -u.Rho * math.Pow(c, -u.Rho-1)
}
