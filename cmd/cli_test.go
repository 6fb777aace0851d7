package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionPrintsVersion(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", stdout)

	stdout, _, err = executeCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "bufferstock dev ("))
}

func TestParamsListShowsBuiltIns(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "params", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "calibrations: 3")
	assert.Contains(t, stdout, "perf-foresight (built-in)")
	assert.Contains(t, stdout, "cstw (built-in)")
}

func TestParamsShowJSONOutput(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "params", "show", "ind-shock", "--json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)))
	assert.Contains(t, stdout, "\"CRRA\": 2.5")
	assert.Contains(t, stdout, "\"BuiltIn\": true")
}

func TestParamsShowUnknownCalibration(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "params", "show", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "calibration not found")
}

func TestParamsDeriveThenList(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home,
		"params", "derive", "impatient",
		"--from", "ind-shock",
		"--set", "DiscFac=0.9",
		"--set", "BoroCnstArt=none",
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Saved calibration impatient (from ind-shock)")

	stdout, _, err = executeCLI(t, home, "params", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "impatient (stored)")

	stdout, _, err = executeCLI(t, home, "params", "show", "impatient", "--json")
	require.NoError(t, err)
	assert.Contains(t, stdout, "\"DiscFac\": 0.9")
	assert.Contains(t, stdout, "\"BoroCnstArt\": null")

	_, err = os.Stat(filepath.Join(home, ".bufferstock", "calibrations.toml"))
	require.NoError(t, err)
}

func TestParamsDeriveRequiresFrom(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "params", "derive", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag(s) \"from\" not set")
}

func TestParamsDeriveRejectsMalformedSet(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "params", "derive", "x", "--from", "ind-shock", "--set", "DiscFac")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--set expects Field=Value")
}

func TestParamsDeriveRejectsBuiltInName(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "params", "derive", "cstw", "--from", "ind-shock")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "built-in")
}

func TestSolvePerfectForesightJSON(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "solve", "perf-foresight", "--json")
	require.NoError(t, err)

	var got solveJSON
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	require.Len(t, got.Solutions, 1)
	assert.InDelta(t, 50.5, got.Solutions[0].HNrm, 1e-3)
	assert.NotEmpty(t, got.Conditions)
}

func TestSolveRendersConditions(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "solve", "perf-foresight")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Solution perf-foresight")
	assert.Contains(t, stdout, "FHWC")
}

func TestSolveReportsNoSolution(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "solve", "perf-foresight", "--set", "PermGroFac=1.05")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no solution exists")
}

func TestCFuncJSONRows(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "cfunc", "perf-foresight", "--points", "5", "--mmax", "4", "--json")
	require.NoError(t, err)

	var table struct {
		Rows []struct {
			M   float64 `json:"m"`
			C   float64 `json:"c"`
			MPC float64 `json:"mpc"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &table))
	require.Len(t, table.Rows, 5)
	assert.InDelta(t, 4, table.Rows[4].M, 1e-12)
	assert.InDelta(t, 2.08, table.Rows[0].C, 0.01)
}

func TestSimulateSaveThenRunsList(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home,
		"simulate", "ind-shock",
		"--agents", "100",
		"--periods", "20",
		"--seed", "3",
		"--save",
		"--json",
	)
	require.NoError(t, err)

	var sim struct {
		Run struct {
			ID   string
			Seed uint64
		} `json:"run"`
		Saved bool `json:"saved"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &sim))
	assert.True(t, sim.Saved)
	assert.Equal(t, uint64(3), sim.Run.Seed)
	require.NotEmpty(t, sim.Run.ID)

	stdout, _, err = executeCLI(t, home, "runs", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "runs: 1")
	assert.Contains(t, stdout, sim.Run.ID)

	stdout, _, err = executeCLI(t, home, "runs", "show", sim.Run.ID)
	require.NoError(t, err)
	assert.Contains(t, stdout, "\"Calibration\": \"ind-shock\"")
}

func TestSimulateRendersSummary(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(),
		"simulate", "ind-shock",
		"--agents", "50",
		"--periods", "10",
		"--seed", "1",
		"--track",
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Simulation ind-shock")
	assert.Contains(t, stdout, "agents: 50  periods: 10  seed: 1")
	assert.Contains(t, stdout, "over 10 periods")
}

func TestSimulateSurfacesFailedGrowthCondition(t *testing.T) {
	args := []string{
		"simulate", "ind-shock",
		"--set", "PermGroFac=0.95",
		"--agents", "50",
		"--periods", "5",
		"--seed", "1",
	}

	stdout, stderr, err := executeCLI(t, t.TempDir(), append(args, "--json")...)
	require.NoError(t, err)

	var sim simulateJSON
	require.NoError(t, json.Unmarshal([]byte(stdout), &sim))
	require.NotEmpty(t, sim.Conditions)
	var gic *conditionJSON
	for i := range sim.Conditions {
		if sim.Conditions[i].Name == "GIC" {
			gic = &sim.Conditions[i]
		}
	}
	require.NotNil(t, gic)
	assert.False(t, gic.Satisfied)
	assert.Greater(t, gic.Factor, 1.0)
	assert.Contains(t, stderr, "parameter condition violated")

	stdout, _, err = executeCLI(t, t.TempDir(), args...)
	require.NoError(t, err)
	assert.Regexp(t, `GIC\s+fails`, stdout)
	assert.Regexp(t, `AIC\s+holds`, stdout)
}

func TestSimulateUsesConfiguredSeed(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeConfig(home, "[simulation]\nseed = 42\n"))

	stdout, _, err := executeCLI(t, home, "simulate", "ind-shock", "--agents", "20", "--periods", "2", "--json")
	require.NoError(t, err)
	assert.Contains(t, stdout, "\"Seed\": 42")
}

func TestRunsShowUnknown(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "runs", "show", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
}

func TestMPCAnnualize(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "mpc", "annualize", "0", "1", "0.5")
	require.NoError(t, err)
	assert.Equal(t, "0\t0\n1\t1\n0.5\t0.9375\n", stdout)
}

func TestMPCAnnualizeJSON(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "mpc", "annualize", "0.5", "0.1", "--periods-per-year", "2", "--json")
	require.NoError(t, err)

	var pairs []annualMPCJSON
	require.NoError(t, json.Unmarshal([]byte(stdout), &pairs))
	require.Len(t, pairs, 2)
	assert.Equal(t, annualMPCJSON{MPC: 0.5, Annual: 0.75}, pairs[0])
	assert.Equal(t, 0.1, pairs[1].MPC)
	assert.InDelta(t, 0.19, pairs[1].Annual, 1e-12)
	assert.Contains(t, stdout, "\"annual\": 0.75")
}

func TestMPCAnnualizeRejectsOutOfRange(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "mpc", "annualize", "1.2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MPC must be in [0,1]")
}

func TestCSTWMissingReference(t *testing.T) {
	home := t.TempDir()
	t.Setenv("BUFFERSTOCK_REFERENCE_PATH", t.TempDir())

	_, _, err := executeCLI(t, home, "cstw", "--types", "2", "--agents", "10", "--periods", "2", "--json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reference data unavailable")
}

func TestCSTWSmallPopulationJSON(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(),
		"cstw", "ind-shock",
		"--center", "0.94",
		"--spread", "0.01",
		"--types", "2",
		"--agents", "40",
		"--periods", "15",
		"--seed", "8",
		"--json",
	)
	require.NoError(t, err)

	var report heterogeneityJSON
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Len(t, report.Types, 2)
	assert.Equal(t, 80, report.Pooled.Agents)
	require.NotNil(t, report.Reference)
	assert.Equal(t, "scf", report.Reference.Name)
	assert.Len(t, report.SimulatedShares, 4)
	for _, typ := range report.Types {
		assert.NotEmpty(t, typ.Conditions)
	}
}

func TestInvalidLogLevelInConfig(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeConfig(home, "[log]\nlevel = \"loud\"\n"))

	_, _, err := executeCLI(t, home, "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
}

func TestVerboseLogsToStderr(t *testing.T) {
	_, stderr, err := executeCLI(t, t.TempDir(), "--verbose", "solve", "perf-foresight", "--json")
	require.NoError(t, err)
	assert.Contains(t, stderr, "model solved")
}

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeConfig(home, content string) error {
	configDir := filepath.Join(home, ".bufferstock")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(content), 0o644)
}
