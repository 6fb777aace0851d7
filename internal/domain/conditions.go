package domain

import (
	"fmt"
	"math"
)

type ConditionName string

const (
	ConditionAIC    ConditionName = "AIC"
	ConditionRIC    ConditionName = "RIC"
	ConditionGIC    ConditionName = "GIC"
	ConditionGICInd ConditionName = "GICInd"
	ConditionGICLiv ConditionName = "GICLiv"
	ConditionFHWC   ConditionName = "FHWC"
)

// Condition is one impatience or human-wealth check. It holds when Factor < 1.
type Condition struct {
	Name        ConditionName
	Factor      float64
	Satisfied   bool
	Description string
}

type Conditions struct {
	Thorn float64
	Items []Condition
}

// CheckConditions evaluates the conditions for the first period of the
// cycle. Results are advisory: a failed condition does not stop solving.
func CheckConditions(p ParameterSet) Conditions {
	if len(p.LivPrb) == 0 || len(p.PermGroFac) == 0 || p.CRRA <= 0 {
		return Conditions{}
	}

	livPrb := p.LivPrb[0]
	gro := p.PermGroFac[0]
	thorn := math.Pow(p.Rfree*p.DiscFac*livPrb, 1/p.CRRA)

	items := []Condition{
		newCondition(ConditionAIC, thorn, "absolute patience factor"),
		newCondition(ConditionRIC, thorn/p.Rfree, "return patience factor"),
		newCondition(ConditionGIC, thorn/gro, "growth patience factor"),
		newCondition(ConditionGICLiv, livPrb*thorn/gro, "mortality-adjusted growth patience factor"),
		newCondition(ConditionFHWC, gro/p.Rfree, "finite human wealth factor"),
	}

	if shocks, err := IncomeProcess(p, 0); err == nil && shocks.Perm.Len() > 1 {
		items = append(items, newCondition(ConditionGICInd, thorn*shocks.Perm.Moment(-1)/gro, "individual growth patience factor"))
	}

	return Conditions{Thorn: thorn, Items: items}
}

func newCondition(name ConditionName, factor float64, label string) Condition {
	return Condition{
		Name:        name,
		Factor:      factor,
		Satisfied:   factor < 1,
		Description: fmt.Sprintf("%s = %.6f", label, factor),
	}
}

func (c Conditions) Violations() []Condition {
	var out []Condition
	for _, item := range c.Items {
		if !item.Satisfied {
			out = append(out, item)
		}
	}
	return out
}

func (c Conditions) Get(name ConditionName) (Condition, bool) {
	for _, item := range c.Items {
		if item.Name == name {
			return item, true
		}
	}
	return Condition{}, false
}
