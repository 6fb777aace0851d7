package domain

import "errors"

var (
	ErrInvalidParameters   = errors.New("invalid parameters")
	ErrInvalidInput        = errors.New("invalid input")
	ErrNonConvergence      = errors.New("solver did not converge")
	ErrNoSolution          = errors.New("no solution exists for parameters")
	ErrDataUnavailable     = errors.New("reference data unavailable")
	ErrCalibrationNotFound = errors.New("calibration not found")
	ErrRunNotFound         = errors.New("run not found")
)
