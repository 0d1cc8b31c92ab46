// Package compare builds the A/B comparison view of two evidence packs:
// a fixed, ordered catalog of metric rows with signed deltas and a
// win/lose/tie verdict per row.
package compare

import (
	"fmt"

	"packsight/internal/pack"
)

// Direction is the improvement policy of a metric.
type Direction int

const (
	// DirectionNone marks display-only metrics that are never classified.
	DirectionNone Direction = iota
	// LowerIsBetter: latency, energy, power.
	LowerIsBetter
	// HigherIsBetter: throughput, utilization, accuracy.
	HigherIsBetter
)

// Class is the verdict for one comparison row.
type Class int

const (
	ClassNone Class = iota
	ClassWin
	ClassLose
	ClassTie
)

func (c Class) String() string {
	switch c {
	case ClassWin:
		return "win"
	case ClassLose:
		return "lose"
	case ClassTie:
		return "tie"
	default:
		return ""
	}
}

// ExactnessThreshold is the accuracy level below which a side earns an
// exactness hint. Exact >= 1.0, no epsilon.
const ExactnessThreshold = 1.0

// Row is one line of the comparison table. Value and delta fields are
// nil when the underlying metric is absent on that side; display-only
// rows carry text instead.
type Row struct {
	Label       string
	Unit        string
	Direction   Direction
	DisplayOnly bool

	TextA, TextB   string
	ValueA, ValueB *float64
	Delta          *float64
	Class          Class
}

// ExactnessHint flags a side whose candidate accuracy fell below exact.
type ExactnessHint struct {
	Side     string // "A" or "B"
	Accuracy float64
}

// Result is one comparator invocation: rows in fixed catalog order plus
// any exactness hints. It is rebuilt from scratch on every call.
type Result struct {
	Rows  []Row
	Hints []ExactnessHint
}

type metricDef struct {
	metric    pack.Metric
	label     string
	unit      string
	direction Direction
}

// catalog fixes the row order. It is not derived from pack content, so
// two renders of the same inputs are byte-identical.
var catalog = []metricDef{
	{pack.MetricQPS, "QPS", "q/s", HigherIsBetter},
	{pack.MetricLatP95, "p95 latency", "ms", LowerIsBetter},
	{pack.MetricJoules, "J/query", "J", LowerIsBetter},
	{pack.MetricPowerAvg, "avg power", "W", LowerIsBetter},
	{pack.MetricUtilAvg, "avg GPU util", "%", HigherIsBetter},
	{pack.MetricTempAvg, "avg temp", "C", DirectionNone},
	{pack.MetricTop1Acc, "top-1 accuracy", "", HigherIsBetter},
}

// Compare resolves every catalog metric on both packs and produces the
// ordered rows. Neither pack is mutated; gates are not consulted.
func Compare(a, b *pack.Pack) Result {
	res := Result{Rows: make([]Row, 0, 1+len(pack.Variants)*len(catalog))}

	res.Rows = append(res.Rows, Row{
		Label:       "GPU",
		DisplayOnly: true,
		TextA:       a.GPUName(),
		TextB:       b.GPUName(),
	})

	for _, variant := range pack.Variants {
		for _, def := range catalog {
			row := Row{
				Label:     fmt.Sprintf("%s %s", variant, def.label),
				Unit:      def.unit,
				Direction: def.direction,
			}
			if v, ok := a.Resolve(variant, def.metric); ok {
				row.ValueA = ptr(v)
			}
			if v, ok := b.Resolve(variant, def.metric); ok {
				row.ValueB = ptr(v)
			}
			if row.ValueA != nil && row.ValueB != nil {
				d := *row.ValueB - *row.ValueA
				row.Delta = ptr(d)
				row.Class = Classify(d, def.direction)
			}
			res.Rows = append(res.Rows, row)
		}
	}

	for side, p := range map[string]*pack.Pack{"A": a, "B": b} {
		if acc, ok := p.Resolve(pack.VariantOmega, pack.MetricTop1Acc); ok && acc < ExactnessThreshold {
			res.Hints = append(res.Hints, ExactnessHint{Side: side, Accuracy: acc})
		}
	}
	sortHints(res.Hints)

	return res
}

// Classify maps a signed delta and a direction policy onto a verdict.
// Pure: zero deltas tie regardless of direction, undirected metrics are
// never classified.
func Classify(delta float64, dir Direction) Class {
	if dir == DirectionNone {
		return ClassNone
	}
	if delta == 0 {
		return ClassTie
	}
	improved := delta < 0
	if dir == HigherIsBetter {
		improved = delta > 0
	}
	if improved {
		return ClassWin
	}
	return ClassLose
}

func sortHints(hints []ExactnessHint) {
	// Two entries at most; keep A before B for deterministic output.
	if len(hints) == 2 && hints[0].Side == "B" {
		hints[0], hints[1] = hints[1], hints[0]
	}
}

func ptr(f float64) *float64 { return &f }
