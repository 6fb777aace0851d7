package domain

import (
	"fmt"
	"strings"
	"time"
)

// Calibration is a named, stored ParameterSet.
type Calibration struct {
	Name        string
	Description string
	// Base names the calibration this one was derived from, if any.
	Base      string
	Params    ParameterSet
	BuiltIn   bool
	UpdatedAt time.Time
}

func (c Calibration) Validate() error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return fmt.Errorf("%w: calibration name is required", ErrInvalidInput)
	}
	if strings.ContainsAny(name, " \t\n/") {
		return fmt.Errorf("%w: calibration name %q must not contain whitespace or slashes", ErrInvalidInput, name)
	}
	if err := c.Params.Validate(); err != nil {
		return fmt.Errorf("calibration %q: %w", name, err)
	}

	return nil
}

// BuiltInCalibrations lists the presets as calibrations.
func BuiltInCalibrations() []Calibration {
	descriptions := map[string]string{
		PresetPerfForesight: "perfect foresight consumer, infinite horizon",
		PresetIndShock:      "idiosyncratic permanent and transitory shocks with unemployment",
		PresetCSTW:          "quarterly perpetual-youth calibration for discount factor heterogeneity",
	}

	names := PresetNames()
	out := make([]Calibration, 0, len(names))
	for _, name := range names {
		params, _ := Preset(name)
		out = append(out, Calibration{
			Name:        name,
			Description: descriptions[name],
			Params:      params,
			BuiltIn:     true,
		})
	}
	return out
}
