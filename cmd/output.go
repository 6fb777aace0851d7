package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bnema/bufferstock/internal/application"
	"github.com/bnema/bufferstock/internal/domain"
	"github.com/spf13/cobra"
)

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeRendered(cmd *cobra.Command, rendered string, err error) error {
	if err != nil {
		return fmt.Errorf("render output: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

// parseOverrides turns repeated Field=Value flags into overrides, in order.
func parseOverrides(raw []string) ([]application.Override, error) {
	overrides := make([]application.Override, 0, len(raw))
	for _, item := range raw {
		field, value, ok := strings.Cut(item, "=")
		field = strings.TrimSpace(field)
		if !ok || field == "" {
			return nil, fmt.Errorf("%w: --set expects Field=Value, got %q", domain.ErrInvalidInput, item)
		}
		overrides = append(overrides, application.Override{Field: field, Value: strings.TrimSpace(value)})
	}
	return overrides, nil
}

type solutionJSON struct {
	Period  int     `json:"period"`
	MNrmMin float64 `json:"m_nrm_min"`
	HNrm    float64 `json:"h_nrm"`
	MPCMin  float64 `json:"mpc_min"`
	MPCMax  float64 `json:"mpc_max"`
}

type conditionJSON struct {
	Name      string  `json:"name"`
	Factor    float64 `json:"factor"`
	Satisfied bool    `json:"satisfied"`
}

type solveJSON struct {
	Calibration string          `json:"calibration"`
	Iterations  int             `json:"iterations"`
	Distance    float64         `json:"distance"`
	Thorn       float64         `json:"thorn"`
	Conditions  []conditionJSON `json:"conditions"`
	Solutions   []solutionJSON  `json:"solutions"`
}

func toConditionsJSON(c domain.Conditions) []conditionJSON {
	out := make([]conditionJSON, 0, len(c.Items))
	for _, item := range c.Items {
		out = append(out, conditionJSON{Name: string(item.Name), Factor: item.Factor, Satisfied: item.Satisfied})
	}
	return out
}

func toSolveJSON(r application.SolveReport) solveJSON {
	out := solveJSON{
		Calibration: r.Calibration,
		Iterations:  r.Iterations,
		Distance:    r.Distance,
		Thorn:       r.Conditions.Thorn,
		Conditions:  toConditionsJSON(r.Conditions),
		Solutions:   make([]solutionJSON, 0, len(r.Solutions)),
	}
	for i, s := range r.Solutions {
		out.Solutions = append(out.Solutions, solutionJSON{Period: i, MNrmMin: s.MNrmMin, HNrm: s.HNrm, MPCMin: s.MPCMin, MPCMax: s.MPCMax})
	}
	return out
}
