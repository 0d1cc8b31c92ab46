package gates

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"packsight/internal/pack"
)

func auditPack(t *testing.T, util, power, limit float64) *pack.Pack {
	t.Helper()
	src := fmt.Sprintf(`{
		"schema": "sigma_summary_public_v1",
		"gpu": {"name": "H100", "power_limit_w": %g},
		"metrics": {
			"omega": {
				"top1_accuracy": 1.0,
				"gpu_util_pct_avg": %g,
				"power_w_avg": %g
			},
			"baseline": {"top1_accuracy": 1.0}
		}
	}`, limit, util, power)
	p, err := pack.Parse([]byte(src))
	require.NoError(t, err)
	return p
}

func TestEvaluate_HealthyPack(t *testing.T) {
	p := auditPack(t, 90.4, 280, 350)
	result := Evaluate(p)

	assert.Equal(t, StatusPass, result[GateExactness].Status)
	assert.Equal(t, StatusPass, result[GateUtilization].Status)
	assert.Equal(t, StatusPass, result[GatePower].Status)
	// No memoization artifact attached.
	assert.Equal(t, StatusWarn, result[GateMemoization].Status)
}

func TestUtilizationGate(t *testing.T) {
	t.Run("below threshold fails with the value in the detail", func(t *testing.T) {
		p := auditPack(t, 65.0, 280, 350)
		g := Evaluate(p)[GateUtilization]
		assert.Equal(t, StatusFail, g.Status)
		assert.Contains(t, g.Detail, "65.0%")
	})

	t.Run("exactly 70.0 passes", func(t *testing.T) {
		p := auditPack(t, 70.0, 280, 350)
		assert.Equal(t, StatusPass, Evaluate(p)[GateUtilization].Status)
	})

	t.Run("missing metric fails with missing detail", func(t *testing.T) {
		p, err := pack.Parse([]byte(`{"schema":"sigma_summary_public_v1","metrics":{"omega":{}}}`))
		require.NoError(t, err)
		g := Evaluate(p)[GateUtilization]
		assert.Equal(t, StatusFail, g.Status)
		assert.Contains(t, g.Detail, "missing")
	})
}

func TestPowerGate(t *testing.T) {
	t.Run("ratio at 0.85 exactly passes", func(t *testing.T) {
		p := auditPack(t, 90, 297.5, 350) // 297.5/350 == 0.85
		assert.Equal(t, StatusPass, Evaluate(p)[GatePower].Status)
	})

	t.Run("over headroom warns", func(t *testing.T) {
		p := auditPack(t, 90, 340, 350)
		assert.Equal(t, StatusWarn, Evaluate(p)[GatePower].Status)
	})

	t.Run("missing limit defaults to 350", func(t *testing.T) {
		p, err := pack.Parse([]byte(`{
			"schema": "sigma_summary_public_v1",
			"metrics": {"omega": {"power_w_avg": 280, "top1_accuracy": 1, "gpu_util_pct_avg": 90},
			            "baseline": {"top1_accuracy": 1}}
		}`))
		require.NoError(t, err)
		g := Evaluate(p)[GatePower]
		assert.Equal(t, StatusPass, g.Status) // 280/350 = 0.8
		assert.Contains(t, g.Detail, "350.0 W")
	})

	t.Run("missing power warns with missing detail", func(t *testing.T) {
		p, err := pack.Parse([]byte(`{"schema":"sigma_summary_public_v1","metrics":{}}`))
		require.NoError(t, err)
		g := Evaluate(p)[GatePower]
		assert.Equal(t, StatusWarn, g.Status)
		assert.Contains(t, g.Detail, "missing")
	})
}

func TestExactnessGate(t *testing.T) {
	t.Run("accuracy exactly 1.0 passes", func(t *testing.T) {
		p := auditPack(t, 90, 280, 350)
		assert.Equal(t, StatusPass, Evaluate(p)[GateExactness].Status)
	})

	t.Run("candidate below 1.0 fails", func(t *testing.T) {
		p, err := pack.Parse([]byte(`{
			"schema": "sigma_summary_public_v1",
			"metrics": {"omega": {"top1_accuracy": 0.999}, "baseline": {"top1_accuracy": 1.0}}
		}`))
		require.NoError(t, err)
		g := Evaluate(p)[GateExactness]
		assert.Equal(t, StatusFail, g.Status)
		assert.Contains(t, g.Detail, "0.9990")
	})

	t.Run("missing side fails with missing detail", func(t *testing.T) {
		p, err := pack.Parse([]byte(`{
			"schema": "sigma_summary_public_v1",
			"metrics": {"omega": {"top1_accuracy": 1.0}}
		}`))
		require.NoError(t, err)
		g := Evaluate(p)[GateExactness]
		assert.Equal(t, StatusFail, g.Status)
		assert.Contains(t, g.Detail, "missing")
	})
}

func TestMemoizationGate(t *testing.T) {
	withTrack := func(t *testing.T, ratio, min float64) *pack.Pack {
		t.Helper()
		p, err := pack.Parse([]byte(fmt.Sprintf(`{
			"schema": "sigma_summary_public_v1",
			"metrics": {},
			"tracks": {"memoization_prefix_range": {"data": {
				"delta": {"energy_per_query_ratio_full_over_range": %g},
				"config": {"pass_criteria": {"min_energy_ratio": %g}}
			}}}
		}`, ratio, min)))
		require.NoError(t, err)
		return p
	}

	t.Run("ratio meeting the criterion passes", func(t *testing.T) {
		g := Evaluate(withTrack(t, 640, 100))[GateMemoization]
		assert.Equal(t, StatusPass, g.Status)
		assert.Contains(t, g.Detail, "640.0x")
	})

	t.Run("ratio exactly at the criterion passes", func(t *testing.T) {
		g := Evaluate(withTrack(t, 100, 100))[GateMemoization]
		assert.Equal(t, StatusPass, g.Status)
	})

	t.Run("insufficient ratio fails", func(t *testing.T) {
		g := Evaluate(withTrack(t, 42, 100))[GateMemoization]
		assert.Equal(t, StatusFail, g.Status)
	})

	t.Run("absent track warns", func(t *testing.T) {
		p, err := pack.Parse([]byte(`{"schema":"sigma_summary_public_v1","metrics":{}}`))
		require.NoError(t, err)
		g := Evaluate(p)[GateMemoization]
		assert.Equal(t, StatusWarn, g.Status)
		assert.Contains(t, g.Detail, "not present")
	})
}

func TestEvaluate_LegacyPack(t *testing.T) {
	p, err := pack.Parse([]byte(`{
		"measured": {
			"ctdr": {
				"energy": {"gpu_util_pct_avg": 91.0, "power_w_avg": 300},
				"accuracy": {"top1_accuracy": 1.0}
			},
			"baseline_vector_scan": {"accuracy": {"top1_accuracy": 1.0}}
		}
	}`))
	require.NoError(t, err)

	result := Evaluate(p)
	assert.Equal(t, StatusPass, result[GateExactness].Status)
	assert.Equal(t, StatusPass, result[GateUtilization].Status)
	// 300/350 default limit ≈ 0.857 > 0.85
	assert.Equal(t, StatusWarn, result[GatePower].Status)
}
