// Package telemetry normalizes a pack's time-series GPU telemetry into
// screen-space series with threshold flagging. Normalization is pure: the
// same pack and track always yield the same points, and switching tracks
// re-runs it from the in-memory pack without touching the file again.
package telemetry

import (
	"errors"
	"fmt"
	"sort"

	"packsight/internal/pack"
)

// Flagging thresholds, shared with the utilization/power gates.
const (
	UtilFloorPct = 70.0
	PowerCeilPct = 85.0
)

// Temperature is mapped from a fixed band rather than pack-derived
// min/max so charts stay visually comparable across packs.
const (
	TempDomainMinC = 20.0
	TempDomainMaxC = 90.0
)

// minSpan floors the interpolation denominator when the first and last
// timestamps coincide.
const minSpan = 1e-9

// ErrInvalidTrack reports missing or length-mismatched telemetry. The
// caller must show an explicit invalid state, not a partial chart.
var ErrInvalidTrack = errors.New("missing or invalid telemetry")

// Dims is the plotting surface in chart cells.
type Dims struct {
	Width  int
	Height int
}

// Sample is one normalized telemetry point. X is screen-space; the
// normalized values are percentages in [0, 100] (utilization taken as
// reported, power clamped, temperature mapped from the fixed band).
// A nil value is an absent sample and breaks the drawn line.
type Sample struct {
	X float64

	UtilPct  *float64
	PowerPct *float64
	TempPct  *float64

	UtilFail  bool
	PowerWarn bool
	Flagged   bool
}

// Plot is the result of normalizing one track.
type Plot struct {
	Track        string
	Dims         Dims
	Points       []Sample
	FlaggedCount int
	SpanSeconds  float64
}

// Status renders the chart status line: point count, time window, flags.
func (p *Plot) Status() string {
	return fmt.Sprintf("%d points | %.1fs window | %d flagged", len(p.Points), p.SpanSeconds, p.FlaggedCount)
}

// Y maps a normalized percentage onto a chart row, row 0 at the top
// (100%).
func (p *Plot) Y(pct float64) int {
	if p.Dims.Height <= 1 {
		return 0
	}
	row := int((1 - pct/100) * float64(p.Dims.Height-1))
	if row < 0 {
		row = 0
	}
	if row > p.Dims.Height-1 {
		row = p.Dims.Height - 1
	}
	return row
}

// Normalize validates the selected track and produces its normalized
// series. The gpu.t_s and gpu.power_w sequences must exist, be non-empty
// and agree in length; anything else is ErrInvalidTrack.
func Normalize(p *pack.Pack, track string, dims Dims) (*Plot, error) {
	block, ok := p.Telemetry[track]
	if !ok || block.GPU == nil {
		return nil, fmt.Errorf("track %q: %w", track, ErrInvalidTrack)
	}
	series := block.GPU
	if len(series.TS) == 0 || len(series.PowerW) == 0 {
		return nil, fmt.Errorf("track %q: empty series: %w", track, ErrInvalidTrack)
	}
	if len(series.TS) != len(series.PowerW) {
		return nil, fmt.Errorf("track %q: t_s/power_w length mismatch (%d vs %d): %w",
			track, len(series.TS), len(series.PowerW), ErrInvalidTrack)
	}

	t0, ok0 := pack.Number(series.TS[0])
	tN, okN := pack.Number(series.TS[len(series.TS)-1])
	if !ok0 || !okN {
		return nil, fmt.Errorf("track %q: non-numeric time bounds: %w", track, ErrInvalidTrack)
	}
	span := tN - t0
	denom := span
	if denom < minSpan {
		denom = minSpan
	}

	limit := p.PowerLimit()
	plot := &Plot{Track: track, Dims: dims, SpanSeconds: span, Points: make([]Sample, 0, len(series.TS))}

	for i := range series.TS {
		ti, ok := pack.Number(series.TS[i])
		if !ok {
			// A sample without a timestamp has no x position at all.
			continue
		}
		s := Sample{X: (ti - t0) / denom * float64(dims.Width-1)}

		if u, ok := sampleAt(series.UtilPct, i); ok {
			s.UtilPct = &u
			if u < UtilFloorPct {
				s.UtilFail = true
			}
		}
		if w, ok := sampleAt(series.PowerW, i); ok {
			pct := w / limit * 100
			if pct > PowerCeilPct {
				s.PowerWarn = true
			}
			clamped := clamp(pct, 0, 100)
			s.PowerPct = &clamped
		}
		if c, ok := sampleAt(series.TempC, i); ok {
			mapped := clamp((c-TempDomainMinC)/(TempDomainMaxC-TempDomainMinC)*100, 0, 100)
			s.TempPct = &mapped
		}

		s.Flagged = s.UtilFail || s.PowerWarn
		if s.Flagged {
			plot.FlaggedCount++
		}
		plot.Points = append(plot.Points, s)
	}

	return plot, nil
}

// TrackNames lists the pack's telemetry tracks in lexical order for the
// track selector.
func TrackNames(p *pack.Pack) []string {
	names := make([]string, 0, len(p.Telemetry))
	for name := range p.Telemetry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// sampleAt reads series[i], absent when the series is shorter than i+1
// or the element is non-numeric.
func sampleAt(series []any, i int) (float64, bool) {
	if i >= len(series) {
		return 0, false
	}
	return pack.Number(series[i])
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
