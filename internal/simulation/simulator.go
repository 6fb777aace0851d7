// Package simulation advances a panel of consumers through time under a
// solved consumption policy, drawing income and mortality shocks from an
// explicit random source.
package simulation

import (
	"context"
	"fmt"

	"github.com/bnema/bufferstock/internal/domain"
	"go.uber.org/zap"
)

// PeriodHook observes the panel after each simulated period. It must not
// modify the panel.
type PeriodHook func(period int, panel *domain.Panel)

type Simulator struct {
	params   domain.ParameterSet
	policies []domain.Solution
	shocks   []domain.IncomeShocks
	src      *Source
	logger   *zap.Logger
	hook     PeriodHook
}

type Option func(*Simulator)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Simulator) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithPeriodHook(hook PeriodHook) Option {
	return func(s *Simulator) {
		s.hook = hook
	}
}

func New(p domain.ParameterSet, policies []domain.Solution, src *Source, opts ...Option) (*Simulator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, fmt.Errorf("%w: simulation needs a random source", domain.ErrInvalidInput)
	}

	want := p.TCycle
	if !p.InfiniteHorizon() {
		want = p.Cycles*p.TCycle + 1
	}
	if len(policies) != want {
		return nil, fmt.Errorf("%w: expected %d policy functions, got %d", domain.ErrInvalidInput, want, len(policies))
	}

	shocks := make([]domain.IncomeShocks, p.TCycle)
	for t := range shocks {
		s, err := domain.IncomeProcess(p, t)
		if err != nil {
			return nil, err
		}
		shocks[t] = s
	}

	sim := &Simulator{
		params:   p,
		policies: policies,
		shocks:   shocks,
		src:      src,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(sim)
	}

	return sim, nil
}

// InitializeSim draws a fresh panel of AgentCount newborns.
func InitializeSim(p domain.ParameterSet, src *Source) (*domain.Panel, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, fmt.Errorf("%w: simulation needs a random source", domain.ErrInvalidInput)
	}

	panel := &domain.Panel{Agents: make([]domain.AgentState, p.AgentCount)}
	for i := range panel.Agents {
		panel.Agents[i] = newborn(p, src)
	}
	return panel, nil
}

// Simulate advances panel by periods under policies.
func Simulate(ctx context.Context, panel *domain.Panel, policies []domain.Solution, p domain.ParameterSet, src *Source, periods int) error {
	sim, err := New(p, policies, src)
	if err != nil {
		return err
	}
	return sim.Simulate(ctx, panel, periods)
}

func (s *Simulator) Initialize() (*domain.Panel, error) {
	return InitializeSim(s.params, s.src)
}

// Simulate advances the panel in place. Periods run strictly in sequence;
// ctx is checked between periods.
func (s *Simulator) Simulate(ctx context.Context, panel *domain.Panel, periods int) error {
	if panel == nil {
		return fmt.Errorf("%w: nil panel", domain.ErrInvalidInput)
	}
	if periods < 0 {
		return fmt.Errorf("%w: periods must be non-negative, got %d", domain.ErrInvalidInput, periods)
	}

	for t := 0; t < periods; t++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for i := range panel.Agents {
			s.step(&panel.Agents[i])
		}
		panel.Period++
		if s.hook != nil {
			s.hook(panel.Period, panel)
		}
	}

	s.logger.Debug("simulation advanced",
		zap.Int("periods", periods),
		zap.Int("agents", panel.Len()),
		zap.Int("panel_period", panel.Period))

	return nil
}

func newborn(p domain.ParameterSet, src *Source) domain.AgentState {
	return domain.AgentState{
		ANrm:     src.LogNormalLevel(p.ANrmInitMean, p.ANrmInitStd),
		PLvl:     src.LogNormalLevel(p.PLvlInitMean, p.PLvlInitStd),
		Employed: true,
	}
}

// previousIndex is the cycle period whose parameters govern the transition
// into the agent's current period.
func (s *Simulator) previousIndex(agent *domain.AgentState) int {
	return s.params.PeriodIndex(agent.TCycle - 1)
}

func (s *Simulator) dies(agent *domain.AgentState) bool {
	if agent.TAge == 0 {
		return false
	}
	if !s.params.InfiniteHorizon() && agent.TCycle >= len(s.policies) {
		return true
	}
	if s.params.TAge > 0 && agent.TAge >= s.params.TAge {
		return true
	}
	return s.src.Float64() >= s.params.LivPrb[s.previousIndex(agent)]
}

func (s *Simulator) step(agent *domain.AgentState) {
	if s.dies(agent) {
		deaths := agent.Deaths + 1
		*agent = newborn(s.params, s.src)
		agent.Deaths = deaths
	}

	aPrev := agent.ANrm
	// growth is the full change in the permanent income level, so that
	// mLvl = Rfree*aLvlPrev + TranShk*pLvl holds in levels.
	growth := 1.0
	if agent.TAge == 0 {
		agent.PermShk = 1
		agent.TranShk = 1
		agent.Employed = true
	} else {
		idx := s.previousIndex(agent)
		shocks := s.shocks[idx]
		psi := shocks.Perm.Atoms[shocks.Perm.Draw(s.src)]
		tranIdx := shocks.Tran.Draw(s.src)
		agent.PermShk = s.params.PermGroFac[idx] * psi
		agent.TranShk = shocks.Tran.Atoms[tranIdx]
		agent.Employed = tranIdx != shocks.UnempIndex
		growth = agent.PermShk * s.params.PermGroFacAgg
		agent.PLvl *= growth
	}

	agent.MNrm = s.params.Rfree/growth*aPrev + agent.TranShk

	policy := s.policies[agent.TCycle]
	agent.CNrm = policy.CFunc.Eval(agent.MNrm)
	agent.MPC = policy.CFunc.Derivative(agent.MNrm)
	agent.ANrm = agent.MNrm - agent.CNrm

	agent.TAge++
	agent.TCycle++
	if s.params.InfiniteHorizon() {
		agent.TCycle = s.params.PeriodIndex(agent.TCycle)
	}
}
