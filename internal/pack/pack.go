// Package pack models Pack Standard v1 evidence bundles and resolves
// metrics across the two supported schema generations: the versioned
// "sigma_summary_public_v1" shape and the older nested "measured" layout.
// Resolution is defensive throughout: a metric is either a finite number
// or absent, never a propagated placeholder.
package pack

import (
	"encoding/json"
	"fmt"
	"os"
)

// SchemaV1 is the schema tag of the versioned public summary shape.
const SchemaV1 = "sigma_summary_public_v1"

// DefaultPowerLimitW is used when a pack carries no gpu.power_limit_w.
const DefaultPowerLimitW = 350.0

// Shape discriminates the two supported pack generations.
type Shape int

const (
	// ShapeLegacy is the pre-versioning nested layout under "measured".
	ShapeLegacy Shape = iota
	// ShapeVersioned is the tagged sigma_summary_public_v1 layout.
	ShapeVersioned
)

// Variant names a measured run within a pack.
type Variant string

const (
	VariantBaseline Variant = "baseline"
	VariantOmega    Variant = "omega"
)

// Variants is the fixed evaluation order: baseline first, then candidate.
var Variants = []Variant{VariantBaseline, VariantOmega}

// Metric is a logical metric identifier, shared by both schema shapes.
type Metric string

const (
	MetricQPS       Metric = "qps"
	MetricLatP95    Metric = "lat_p95_ms"
	MetricJoules    Metric = "joules_per_query"
	MetricPowerAvg  Metric = "power_w_avg"
	MetricUtilAvg   Metric = "gpu_util_pct_avg"
	MetricTempAvg   Metric = "temp_c_avg"
	MetricTop1Acc   Metric = "top1_accuracy"
)

// GPUInfo is the device block of a versioned pack.
type GPUInfo struct {
	Name        string `json:"name"`
	PowerLimitW any    `json:"power_limit_w"`
}

// TelemetrySeries holds the parallel time-series arrays for one track.
// Elements stay untyped so that individual non-numeric samples degrade
// to absent points instead of failing the whole decode.
type TelemetrySeries struct {
	TS      []any `json:"t_s"`
	PowerW  []any `json:"power_w"`
	UtilPct []any `json:"gpu_util_pct"`
	TempC   []any `json:"temp_c"`
}

// TelemetryBlock groups the per-device series of a telemetry track.
type TelemetryBlock struct {
	GPU *TelemetrySeries `json:"gpu"`
}

// Track is a secondary evidence artifact attached to a pack, such as the
// memoization prefix-range track.
type Track struct {
	Schema string         `json:"schema"`
	Data   map[string]any `json:"data"`
}

// Pack is one loaded evidence bundle. It is immutable after Parse:
// comparators, gates and the telemetry normalizer only ever read it.
type Pack struct {
	Schema      string                    `json:"schema"`
	GPU         GPUInfo                   `json:"gpu"`
	Metrics     map[string]map[string]any `json:"metrics"`
	Measured    map[string]any            `json:"measured"`
	Telemetry   map[string]TelemetryBlock `json:"telemetry"`
	Tracks      map[string]Track          `json:"tracks"`
	Analytic    map[string]any            `json:"analytic"`
	Disclaimers []string                  `json:"disclaimers"`

	raw []byte
}

// Parse decodes a pack from JSON text, keeping the original bytes for
// verbatim export. A decode failure reports the pack as unusable; the
// caller keeps whatever pack it held before.
func Parse(data []byte) (*Pack, error) {
	var p Pack
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse pack: %w", err)
	}
	p.raw = append([]byte(nil), data...)
	return &p, nil
}

// Load reads and parses a pack file.
func Load(path string) (*Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pack: %w", err)
	}
	return Parse(data)
}

// Shape reports which schema generation this pack uses.
func (p *Pack) Shape() Shape {
	if p.Schema == SchemaV1 {
		return ShapeVersioned
	}
	return ShapeLegacy
}

// Raw returns the original JSON bytes the pack was parsed from.
func (p *Pack) Raw() []byte { return p.raw }

// ExportJSON renders the pack as a pretty-printed verbatim echo of its
// source bytes. No field is added, stripped or reordered.
func (p *Pack) ExportJSON() ([]byte, error) {
	if len(p.raw) == 0 {
		// Packs built in code (tests) have no source bytes; serialize the struct.
		return json.MarshalIndent(p, "", "  ")
	}
	out, err := indentJSON(p.raw)
	if err != nil {
		return nil, fmt.Errorf("export pack: %w", err)
	}
	return out, nil
}

func indentJSON(data []byte) ([]byte, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return json.MarshalIndent(v, "", "  ")
}

// PowerLimit returns gpu.power_limit_w, or DefaultPowerLimitW when the
// field is absent or non-numeric.
func (p *Pack) PowerLimit() float64 {
	if v, ok := Number(p.GPU.PowerLimitW); ok && v > 0 {
		return v
	}
	return DefaultPowerLimitW
}

// GPUName returns the device name, falling back to the legacy metadata
// location and finally to "UNKNOWN", mirroring the pack builder.
func (p *Pack) GPUName() string {
	if p.GPU.Name != "" {
		return p.GPU.Name
	}
	for _, block := range []string{"ctdr", "baseline_vector_scan"} {
		if v, ok := Lookup(p.Measured, block, "energy", "metadata", "name"); ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return "UNKNOWN"
}

// OOMWallN returns the analytic OOM-wall boundary if the pack carries one.
// Display-only; never used in gates or comparisons.
func (p *Pack) OOMWallN() (float64, bool) {
	if v, ok := Lookup(p.Analytic, "oom_wall", "n_at_h100_80gb"); ok {
		if n, ok := Number(v); ok {
			return n, true
		}
	}
	if feas, ok := p.Metrics["feasibility"]; ok {
		if n, ok := Number(feas["oom_wall_n_at_80gb_fp16_nxn"]); ok {
			return n, true
		}
	}
	return 0, false
}

// MemoizationTrack extracts the optional prefix-range artifact: the
// measured full-over-range energy ratio and the pass criterion it must
// meet (defaulting to 100.0 when the artifact omits it).
func (p *Pack) MemoizationTrack() (ratio, minRatio float64, ok bool) {
	const defaultMinEnergyRatio = 100.0
	track, found := p.Tracks["memoization_prefix_range"]
	if !found || track.Data == nil {
		return 0, 0, false
	}
	v, found := Lookup(track.Data, "delta", "energy_per_query_ratio_full_over_range")
	if !found {
		return 0, 0, false
	}
	ratio, numOK := Number(v)
	if !numOK {
		return 0, 0, false
	}
	minRatio = defaultMinEnergyRatio
	if mv, found := Lookup(track.Data, "config", "pass_criteria", "min_energy_ratio"); found {
		if m, numOK := Number(mv); numOK {
			minRatio = m
		}
	}
	return ratio, minRatio, true
}

// Lookup walks a decoded JSON object by successive keys, returning absent
// the moment any intermediate node is not an object or lacks the key.
func Lookup(root map[string]any, keys ...string) (any, bool) {
	var cur any = root
	for _, key := range keys {
		obj, isMap := cur.(map[string]any)
		if !isMap {
			return nil, false
		}
		next, found := obj[key]
		if !found {
			return nil, false
		}
		cur = next
	}
	return cur, true
}
