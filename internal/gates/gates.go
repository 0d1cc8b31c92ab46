// Package gates evaluates the fixed engineering pass/fail/warn gates of a
// single evidence pack. Gates are recomputed in full on every call and
// never read comparator output; both are parallel consumers of the
// resolved metrics.
package gates

import (
	"fmt"

	"packsight/internal/pack"
)

// Status is a gate verdict.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	StatusWarn Status = "warn"
)

// Gate names. The set is fixed; there is no rule engine behind it.
const (
	GateExactness    = "exactness"
	GateUtilization  = "utilization"
	GatePower        = "power"
	GateMemoization  = "memoization"
)

// Engineering thresholds. All comparisons are closed/inclusive: a value
// exactly at the threshold passes.
const (
	ExactnessMin     = 1.0
	UtilMinPct       = 70.0
	PowerHeadroomMax = 0.85
)

// Gate is one named verdict with a human-readable detail line.
type Gate struct {
	Name   string
	Status Status
	Detail string
}

// Names lists the gates in their fixed display order.
var Names = []string{GateExactness, GateUtilization, GatePower, GateMemoization}

// Evaluate computes every gate against the pack. A gate whose required
// metric is absent reports fail/warn with an explicit missing detail,
// never a silent pass.
func Evaluate(p *pack.Pack) map[string]Gate {
	return map[string]Gate{
		GateExactness:   evalExactness(p),
		GateUtilization: evalUtilization(p),
		GatePower:       evalPower(p),
		GateMemoization: evalMemoization(p),
	}
}

func evalExactness(p *pack.Pack) Gate {
	g := Gate{Name: GateExactness}
	baseline, baseOK := p.Resolve(pack.VariantBaseline, pack.MetricTop1Acc)
	omega, omegaOK := p.Resolve(pack.VariantOmega, pack.MetricTop1Acc)
	switch {
	case !baseOK || !omegaOK:
		g.Status = StatusFail
		g.Detail = fmt.Sprintf("top1_accuracy missing (baseline: %s, omega: %s)",
			presence(baseOK), presence(omegaOK))
	case baseline >= ExactnessMin && omega >= ExactnessMin:
		g.Status = StatusPass
		g.Detail = fmt.Sprintf("baseline %.4f, omega %.4f", baseline, omega)
	default:
		g.Status = StatusFail
		g.Detail = fmt.Sprintf("baseline %.4f, omega %.4f (need >= %.1f)",
			baseline, omega, ExactnessMin)
	}
	return g
}

func evalUtilization(p *pack.Pack) Gate {
	g := Gate{Name: GateUtilization}
	util, ok := p.Resolve(pack.VariantOmega, pack.MetricUtilAvg)
	switch {
	case !ok:
		g.Status = StatusFail
		g.Detail = "gpu_util_pct_avg missing for omega"
	case util >= UtilMinPct:
		g.Status = StatusPass
		g.Detail = fmt.Sprintf("%.1f%% >= %.1f%%", util, UtilMinPct)
	default:
		g.Status = StatusFail
		g.Detail = fmt.Sprintf("%.1f%% < %.1f%%", util, UtilMinPct)
	}
	return g
}

func evalPower(p *pack.Pack) Gate {
	g := Gate{Name: GatePower}
	power, ok := p.Resolve(pack.VariantOmega, pack.MetricPowerAvg)
	if !ok {
		g.Status = StatusWarn
		g.Detail = "power_w_avg missing for omega"
		return g
	}
	limit := p.PowerLimit()
	ratio := power / limit
	if ratio <= PowerHeadroomMax {
		g.Status = StatusPass
	} else {
		g.Status = StatusWarn
	}
	g.Detail = fmt.Sprintf("%.1f W / %.1f W = %.2f (limit %.2f)", power, limit, ratio, PowerHeadroomMax)
	return g
}

func evalMemoization(p *pack.Pack) Gate {
	g := Gate{Name: GateMemoization}
	ratio, minRatio, ok := p.MemoizationTrack()
	switch {
	case !ok:
		g.Status = StatusWarn
		g.Detail = "memoization track not present"
	case ratio >= minRatio:
		g.Status = StatusPass
		g.Detail = fmt.Sprintf("energy ratio %.1fx >= %.1fx", ratio, minRatio)
	default:
		g.Status = StatusFail
		g.Detail = fmt.Sprintf("energy ratio %.1fx < %.1fx", ratio, minRatio)
	}
	return g
}

func presence(ok bool) string {
	if ok {
		return "present"
	}
	return "missing"
}
