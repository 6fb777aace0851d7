// Package report renders solver, simulation and run summaries for the
// terminal.
package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/bufferstock/internal/application"
	"github.com/bnema/bufferstock/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const barWidth = 24

func RenderCalibrations(calibrations []domain.Calibration) (string, error) {
	return run(func(s styles) string {
		lines := []string{
			s.title.Render("Calibrations"),
			s.header.Render(fmt.Sprintf("calibrations: %d", len(calibrations))),
		}
		if len(calibrations) == 0 {
			lines = append(lines, s.empty.Render("No calibrations available."))
			return lipgloss.JoinVertical(lipgloss.Left, lines...)
		}

		for _, c := range calibrations {
			kind := "stored"
			if c.BuiltIn {
				kind = "built-in"
			}
			line := s.name.Render(c.Name) + " " + s.meta.Render("("+kind+")")
			if c.Description != "" {
				line += " " + s.detail.Render(c.Description)
			}
			lines = append(lines, line)
		}
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	})
}

func RenderCalibration(c domain.Calibration) (string, error) {
	return run(func(s styles) string {
		lines := []string{s.title.Render("Calibration " + c.Name)}
		if c.Description != "" {
			lines = append(lines, s.header.Render(c.Description))
		}
		if c.Base != "" {
			lines = append(lines, s.header.Render("base: "+c.Base))
		}
		lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, paramLines(c.Params, s)...)))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	})
}

func paramLines(p domain.ParameterSet, s styles) []string {
	boro := "none"
	if p.BoroCnstArt != nil {
		boro = formatFloat(*p.BoroCnstArt)
	}
	horizon := "infinite"
	if !p.InfiniteHorizon() {
		horizon = fmt.Sprintf("%d cycles", p.Cycles)
	}

	rows := [][2]string{
		{"CRRA", formatFloat(p.CRRA)},
		{"DiscFac", formatFloat(p.DiscFac)},
		{"Rfree", formatFloat(p.Rfree)},
		{"LivPrb", formatFloats(p.LivPrb)},
		{"PermGroFac", formatFloats(p.PermGroFac)},
		{"PermShkStd", formatFloats(p.PermShkStd)},
		{"TranShkStd", formatFloats(p.TranShkStd)},
		{"PermShkCount", strconv.Itoa(p.PermShkCount)},
		{"TranShkCount", strconv.Itoa(p.TranShkCount)},
		{"UnempPrb", formatFloat(p.UnempPrb)},
		{"IncUnemp", formatFloat(p.IncUnemp)},
		{"BoroCnstArt", boro},
		{"aXtra grid", fmt.Sprintf("%s..%s, %d points, nest %d", formatFloat(p.AXtraMin), formatFloat(p.AXtraMax), p.AXtraCount, p.AXtraNestFac)},
		{"TCycle", strconv.Itoa(p.TCycle)},
		{"horizon", horizon},
		{"AgentCount", strconv.Itoa(p.AgentCount)},
		{"aNrmInit", fmt.Sprintf("lognormal(%s, %s)", formatFloat(p.ANrmInitMean), formatFloat(p.ANrmInitStd))},
		{"pLvlInit", fmt.Sprintf("lognormal(%s, %s)", formatFloat(p.PLvlInitMean), formatFloat(p.PLvlInitStd))},
		{"PermGroFacAgg", formatFloat(p.PermGroFacAgg)},
		{"TAge", strconv.Itoa(p.TAge)},
		{"Tolerance", formatFloat(p.Tolerance)},
		{"MaxIterations", strconv.Itoa(p.MaxIterations)},
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, s.key.Render(fmt.Sprintf("%-14s", row[0]))+" "+s.detail.Render(row[1]))
	}
	return lines
}

func RenderSolve(r application.SolveReport) (string, error) {
	return run(func(s styles) string {
		lines := []string{
			s.title.Render("Solution " + r.Calibration),
			s.header.Render(fmt.Sprintf("periods: %d  iterations: %d", len(r.Solutions), r.Iterations)),
		}
		if r.Params.InfiniteHorizon() {
			lines = append(lines, s.header.Render("distance: "+formatFloat(r.Distance)))
		}

		lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, conditionLines(r.Conditions, s)...)))

		if len(r.Solutions) > 0 {
			first := r.Solutions[0]
			detail := []string{
				s.key.Render("mNrmMin ") + s.detail.Render(formatFloat(first.MNrmMin)),
				s.key.Render("hNrm    ") + s.detail.Render(formatFloat(first.HNrm)),
				s.key.Render("MPC     ") + s.detail.Render(fmt.Sprintf("%s..%s", formatFloat(first.MPCMin), formatFloat(first.MPCMax))),
				s.key.Render("c(1)    ") + s.detail.Render(formatFloat(first.CFunc.Eval(1))),
			}
			lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, detail...)))
		}

		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	})
}

func conditionLines(c domain.Conditions, s styles) []string {
	if len(c.Items) == 0 {
		return []string{s.empty.Render("conditions: n/a")}
	}

	lines := []string{s.key.Render("conditions") + " " + s.meta.Render("thorn = "+formatFloat(c.Thorn))}
	for _, item := range c.Items {
		mark := s.ok.Render("holds")
		if !item.Satisfied {
			mark = s.warning.Render("fails")
		}
		lines = append(lines, fmt.Sprintf("  %-7s %s %s", item.Name, mark, s.meta.Render(item.Description)))
	}
	return lines
}

// failedConditions names the violated conditions, or says they all hold.
func failedConditions(c domain.Conditions, s styles) string {
	violations := c.Violations()
	if len(violations) == 0 {
		return s.ok.Render("all hold")
	}
	names := make([]string, 0, len(violations))
	for _, v := range violations {
		names = append(names, string(v.Name))
	}
	return s.warning.Render(strings.Join(names, ",") + " fail")
}

func RenderTable(t application.ConsumptionTable) (string, error) {
	return run(func(s styles) string {
		lines := []string{
			s.title.Render(fmt.Sprintf("Consumption function %s, period %d", t.Calibration, t.Period)),
			s.header.Render(fmt.Sprintf("mNrmMin: %s  hNrm: %s", formatFloat(t.MNrmMin), formatFloat(t.HNrm))),
			s.key.Render(fmt.Sprintf("%12s %12s %12s", "m", "c", "MPC")),
		}
		for _, row := range t.Rows {
			lines = append(lines, s.detail.Render(fmt.Sprintf("%12.4f %12.4f %12.4f", row.M, row.C, row.MPC)))
		}
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	})
}

func RenderSimulation(r application.SimulationReport) (string, error) {
	return run(func(s styles) string {
		record := r.Run
		lines := []string{
			s.title.Render("Simulation " + record.Calibration),
			s.header.Render(fmt.Sprintf("agents: %d  periods: %d  seed: %d", record.Agents, record.Periods, record.Seed)),
		}
		if r.Saved {
			lines = append(lines, s.header.Render("run: "+record.ID))
		}

		lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, summaryLines(record.Summary, nil, s)...)))
		lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, conditionLines(r.Conditions, s)...)))

		if n := len(r.MeanAssetPath); n > 0 {
			lines = append(lines, s.section.Render(
				s.key.Render("mean aLvl path ")+s.meta.Render(fmt.Sprintf("%s -> %s over %d periods",
					formatFloat(r.MeanAssetPath[0]), formatFloat(r.MeanAssetPath[n-1]), n))))
		}

		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	})
}

// summaryLines lists the headline statistics; target, when given, holds
// reference shares aligned with the summary's Lorenz fractions.
func summaryLines(sum domain.SummaryStatistics, target []float64, s styles) []string {
	lines := []string{
		s.key.Render("mean aLvl        ") + s.detail.Render(formatFloat(sum.MeanALvl)),
		s.key.Render("mean pLvl        ") + s.detail.Render(formatFloat(sum.MeanPLvl)),
		s.key.Render("K/Y              ") + s.detail.Render(formatFloat(sum.CapitalToIncome)),
		s.key.Render("mean MPC         ") + s.detail.Render(formatFloat(sum.MeanMPC)),
		s.key.Render("mean annual MPC  ") + s.detail.Render(formatFloat(sum.MeanAnnualMPC)),
		s.key.Render("unemployment     ") + s.detail.Render(fmt.Sprintf("%.1f%%", sum.UnemploymentPct)),
	}

	for i, f := range sum.WealthFractions {
		if i < len(sum.WealthLevels) {
			lines = append(lines, s.key.Render(fmt.Sprintf("wealth p%-8s ", percentLabel(f)))+s.detail.Render(formatFloat(sum.WealthLevels[i])))
		}
	}
	for i, f := range sum.MPCFractions {
		if i < len(sum.MPCPercentiles) {
			lines = append(lines, s.key.Render(fmt.Sprintf("annual MPC p%-4s ", percentLabel(f)))+s.detail.Render(formatFloat(sum.MPCPercentiles[i])))
		}
	}
	for i, f := range sum.LorenzFractions {
		if i >= len(sum.LorenzShares) {
			break
		}
		var tgt *float64
		if i < len(target) {
			tgt = &target[i]
		}
		lines = append(lines, lorenzLine(f, sum.LorenzShares[i], tgt, s))
	}

	return lines
}

func lorenzLine(fraction, share float64, target *float64, s styles) string {
	label := s.key.Render(fmt.Sprintf("bottom %3s%%     ", percentLabel(fraction)))
	percentStyle := lipgloss.NewStyle().Foreground(interpolateColor(share, 0, 1))
	meta := percentStyle.Render(fmt.Sprintf("%6.2f%%", 100*share))

	line := lipgloss.JoinHorizontal(lipgloss.Top, label, renderShareBar(share, target, barWidth, s), " ", meta)
	if target != nil {
		line += " " + s.barTarget.Render(fmt.Sprintf("(target %.2f%%)", 100**target))
	}
	return line
}

// renderShareBar draws share on [0,1]; the target position, if any, is
// marked with |.
func renderShareBar(share float64, target *float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	filled := int(math.Round(float64(width) * clampUnit(share)))
	mark := -1
	if target != nil {
		mark = int(math.Round(float64(width) * clampUnit(*target)))
		if mark >= width {
			mark = width - 1
		}
	}

	var b strings.Builder
	for i := 0; i < width; i++ {
		switch {
		case i == mark:
			b.WriteString(s.barTarget.Render("|"))
		case i < filled:
			b.WriteString(s.barFill.Render("="))
		default:
			b.WriteString(s.barEmpty.Render("-"))
		}
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		b.String(),
		s.barBracket.Render("]"),
	)
}

func RenderHeterogeneity(r application.HeterogeneityReport) (string, error) {
	return run(func(s styles) string {
		lines := []string{
			s.title.Render("Discount factor distribution " + r.Calibration),
			s.header.Render(fmt.Sprintf("types: %d  center: %s  spread: %s  seed: %d",
				len(r.Types), formatFloat(r.Center), formatFloat(r.Spread), r.Seed)),
		}

		types := []string{s.key.Render(fmt.Sprintf("%-10s %10s %12s %10s  %s", "DiscFac", "iterations", "mean aLvl", "mean MPC", "conditions"))}
		for _, typ := range r.Types {
			row := s.detail.Render(fmt.Sprintf("%-10.5f %10d %12.4f %10.4f  ",
				typ.DiscFac, typ.Iterations, typ.Summary.MeanALvl, typ.Summary.MeanMPC))
			types = append(types, row+failedConditions(typ.Conditions, s))
		}
		lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, types...)))

		var target []float64
		if r.Reference != nil {
			target = r.Reference.Shares
		}
		pooled := append([]string{s.name.Render("pooled population")}, summaryLines(r.Pooled, target, s)...)
		lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, pooled...)))

		if r.Reference != nil {
			lines = append(lines, s.section.Render(
				s.key.Render("Lorenz distance to "+r.Reference.Name+" ")+s.detail.Render(formatFloat(r.LorenzDistance))))
		}

		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	})
}

func RenderRuns(runs []domain.RunRecord) (string, error) {
	return run(func(s styles) string {
		lines := []string{
			s.title.Render("Runs"),
			s.header.Render(fmt.Sprintf("runs: %d", len(runs))),
		}
		if len(runs) == 0 {
			lines = append(lines, s.empty.Render("No saved runs."))
			return lipgloss.JoinVertical(lipgloss.Left, lines...)
		}

		for _, record := range runs {
			lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
				s.name.Render(record.ID),
				" ",
				s.detail.Render(fmt.Sprintf("%s agents=%d periods=%d seed=%d mean aLvl=%s",
					record.Calibration, record.Agents, record.Periods, record.Seed, formatFloat(record.Summary.MeanALvl))),
				" ",
				s.meta.Render(formatCreatedAt(record.CreatedAt)),
			))
		}
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	})
}

func formatCreatedAt(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.Format("2006-01-02 15:04")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func formatFloats(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = formatFloat(v)
	}
	return strings.Join(parts, ", ")
}

func percentLabel(f float64) string {
	return strconv.FormatFloat(100*f, 'g', 4, 64)
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func interpolateColor(value, min, max float64) lipgloss.Color {
	if max == min {
		return lipgloss.Color("255")
	}

	normalized := (value - min) / (max - min)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}

	// greyscale ramp from 240 (faded) to 255 (bright)
	colorCode := int(240 + 15*normalized)

	return lipgloss.Color(strconv.Itoa(colorCode))
}
