package pack

// legacyBlock maps a variant onto its block name in the legacy layout.
var legacyBlock = map[Variant]string{
	VariantBaseline: "baseline_vector_scan",
	VariantOmega:    "ctdr",
}

// legacyPath enumerates the supported legacy metric locations beneath
// measured.<block>. The set is closed: a metric without an entry never
// resolves on a legacy pack, and no free-form path strings exist.
var legacyPath = map[Metric][]string{
	MetricQPS:      {"qps"},
	MetricLatP95:   {"latency_ms", "p95"},
	MetricJoules:   {"energy", "joules_per_query"},
	MetricPowerAvg: {"energy", "power_w_avg"},
	MetricUtilAvg:  {"energy", "gpu_util_pct_avg"},
	MetricTempAvg:  {"energy", "temp_c_avg"},
	MetricTop1Acc:  {"accuracy", "top1_accuracy"},
}

// Resolve returns the value of a logical metric for a variant, or absent.
//
// A versioned pack answers from metrics.<variant>.<metric>; when that slot
// is missing or non-numeric the resolver falls through to the legacy
// layout, so a mixed-generation pack still renders. A legacy pack only
// ever consults the measured tree.
func (p *Pack) Resolve(variant Variant, metric Metric) (float64, bool) {
	switch p.Shape() {
	case ShapeVersioned:
		if block, ok := p.Metrics[string(variant)]; ok {
			if v, ok := Number(block[string(metric)]); ok {
				return v, true
			}
		}
		return p.resolveLegacy(variant, metric)
	default:
		return p.resolveLegacy(variant, metric)
	}
}

func (p *Pack) resolveLegacy(variant Variant, metric Metric) (float64, bool) {
	suffix, ok := legacyPath[metric]
	if !ok {
		return 0, false
	}
	block, ok := legacyBlock[variant]
	if !ok {
		return 0, false
	}
	keys := make([]string, 0, len(suffix)+1)
	keys = append(keys, block)
	keys = append(keys, suffix...)
	v, found := Lookup(p.Measured, keys...)
	if !found {
		return 0, false
	}
	return Number(v)
}
