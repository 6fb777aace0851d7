package domain

// AgentState is one simulated consumer. Normalized quantities are ratios to
// permanent income.
type AgentState struct {
	ANrm     float64
	PLvl     float64
	MNrm     float64
	CNrm     float64
	MPC      float64
	PermShk  float64
	TranShk  float64
	Employed bool
	// TCycle is the agent's position in the policy sequence.
	TCycle int
	TAge   int
	// Deaths counts replacements of this slot.
	Deaths int
}

func (a AgentState) ALvl() float64 {
	return a.ANrm * a.PLvl
}

func (a AgentState) MLvl() float64 {
	return a.MNrm * a.PLvl
}

func (a AgentState) CLvl() float64 {
	return a.CNrm * a.PLvl
}

// IncomeLvl is this period's labor income.
func (a AgentState) IncomeLvl() float64 {
	return a.TranShk * a.PLvl
}

// Panel is a fixed-size population. Slice position is agent identity and is
// stable across periods.
type Panel struct {
	Agents []AgentState
	// Period counts simulated periods since initialization.
	Period int
}

func (p *Panel) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Agents)
}

func (p *Panel) column(f func(AgentState) float64) []float64 {
	out := make([]float64, len(p.Agents))
	for i, a := range p.Agents {
		out[i] = f(a)
	}
	return out
}

func (p *Panel) ALvls() []float64 { return p.column(AgentState.ALvl) }

func (p *Panel) ANrms() []float64 {
	return p.column(func(a AgentState) float64 { return a.ANrm })
}

func (p *Panel) PLvls() []float64 {
	return p.column(func(a AgentState) float64 { return a.PLvl })
}

func (p *Panel) MNrms() []float64 {
	return p.column(func(a AgentState) float64 { return a.MNrm })
}

func (p *Panel) MPCs() []float64 {
	return p.column(func(a AgentState) float64 { return a.MPC })
}

func (p *Panel) IncomeLvls() []float64 { return p.column(AgentState.IncomeLvl) }

// Snapshot returns an independent copy.
func (p *Panel) Snapshot() *Panel {
	agents := make([]AgentState, len(p.Agents))
	copy(agents, p.Agents)
	return &Panel{Agents: agents, Period: p.Period}
}
