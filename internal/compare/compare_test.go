package compare

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"packsight/internal/pack"
)

func mustPack(t *testing.T, src string) *pack.Pack {
	t.Helper()
	p, err := pack.Parse([]byte(src))
	require.NoError(t, err)
	return p
}

func packWithOmega(t *testing.T, fields string) *pack.Pack {
	t.Helper()
	return mustPack(t, `{
		"schema": "sigma_summary_public_v1",
		"gpu": {"name": "H100"},
		"metrics": {"omega": {`+fields+`}, "baseline": {}}
	}`)
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name  string
		delta float64
		dir   Direction
		want  Class
	}{
		{"lower better, negative delta wins", -1.5, LowerIsBetter, ClassWin},
		{"lower better, positive delta loses", 2.0, LowerIsBetter, ClassLose},
		{"higher better, positive delta wins", 50.0, HigherIsBetter, ClassWin},
		{"higher better, negative delta loses", -0.1, HigherIsBetter, ClassLose},
		{"zero ties lower", 0, LowerIsBetter, ClassTie},
		{"zero ties higher", 0, HigherIsBetter, ClassTie},
		{"no direction never classified", -10, DirectionNone, ClassNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.delta, tc.dir))
		})
	}
}

func TestCompare_DeltaAndClassification(t *testing.T) {
	a := packWithOmega(t, `"qps": 100`)
	b := packWithOmega(t, `"qps": 150`)

	res := Compare(a, b)
	row := findRow(t, res, "omega QPS")
	require.NotNil(t, row.Delta)
	assert.Equal(t, 50.0, *row.Delta)
	assert.Equal(t, ClassWin, row.Class)
}

func TestCompare_AbsentOperandMeansAbsentDelta(t *testing.T) {
	a := packWithOmega(t, `"qps": 100`)
	b := packWithOmega(t, `"lat_p95_ms": 4.0`)

	res := Compare(a, b)

	row := findRow(t, res, "omega QPS")
	require.NotNil(t, row.ValueA)
	assert.Nil(t, row.ValueB)
	assert.Nil(t, row.Delta)
	assert.Equal(t, ClassNone, row.Class)
}

func TestCompare_GPURowIsDisplayOnly(t *testing.T) {
	a := packWithOmega(t, `"qps": 1`)
	b := packWithOmega(t, `"qps": 1`)

	res := Compare(a, b)
	require.NotEmpty(t, res.Rows)
	gpu := res.Rows[0]
	assert.Equal(t, "GPU", gpu.Label)
	assert.True(t, gpu.DisplayOnly)
	assert.Equal(t, "H100", gpu.TextA)
	assert.Nil(t, gpu.Delta)
	assert.Equal(t, ClassNone, gpu.Class)
}

func TestCompare_TempRowNeverClassified(t *testing.T) {
	a := packWithOmega(t, `"temp_c_avg": 60`)
	b := packWithOmega(t, `"temp_c_avg": 70`)

	res := Compare(a, b)
	row := findRow(t, res, "omega avg temp")
	require.NotNil(t, row.Delta)
	assert.Equal(t, 10.0, *row.Delta)
	assert.Equal(t, ClassNone, row.Class)
}

func TestCompare_DeterministicOrder(t *testing.T) {
	a := packWithOmega(t, `"qps": 100, "lat_p95_ms": 5`)
	b := packWithOmega(t, `"qps": 150, "lat_p95_ms": 4`)

	first := Compare(a, b)
	second := Compare(a, b)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("comparator output not deterministic (-first +second):\n%s", diff)
	}

	// Row order is fixed by the catalog, baseline block before omega.
	assert.Equal(t, "GPU", first.Rows[0].Label)
	assert.Equal(t, "baseline QPS", first.Rows[1].Label)
	assert.Equal(t, "omega QPS", first.Rows[8].Label)
	assert.Len(t, first.Rows, 15)
}

func TestCompare_ExactnessHints(t *testing.T) {
	t.Run("side below threshold flagged", func(t *testing.T) {
		a := packWithOmega(t, `"top1_accuracy": 0.993`)
		b := packWithOmega(t, `"top1_accuracy": 1.0`)

		res := Compare(a, b)
		require.Len(t, res.Hints, 1)
		assert.Equal(t, "A", res.Hints[0].Side)
		assert.Equal(t, 0.993, res.Hints[0].Accuracy)
	})

	t.Run("exactly 1.0 earns no hint", func(t *testing.T) {
		a := packWithOmega(t, `"top1_accuracy": 1.0`)
		b := packWithOmega(t, `"top1_accuracy": 1.0`)
		assert.Empty(t, Compare(a, b).Hints)
	})

	t.Run("both sides, A listed first", func(t *testing.T) {
		a := packWithOmega(t, `"top1_accuracy": 0.9`)
		b := packWithOmega(t, `"top1_accuracy": 0.8`)
		res := Compare(a, b)
		require.Len(t, res.Hints, 2)
		assert.Equal(t, "A", res.Hints[0].Side)
		assert.Equal(t, "B", res.Hints[1].Side)
	})

	t.Run("absent accuracy is not a hint", func(t *testing.T) {
		a := packWithOmega(t, `"qps": 1`)
		b := packWithOmega(t, `"qps": 1`)
		assert.Empty(t, Compare(a, b).Hints)
	})
}

func TestCompare_LegacyAgainstVersioned(t *testing.T) {
	a := mustPack(t, `{"measured": {"ctdr": {"qps": 100}}}`)
	b := packWithOmega(t, `"qps": 150`)

	res := Compare(a, b)
	row := findRow(t, res, "omega QPS")
	require.NotNil(t, row.Delta)
	assert.Equal(t, 50.0, *row.Delta)
	assert.Equal(t, ClassWin, row.Class)
}

func findRow(t *testing.T, res Result, label string) Row {
	t.Helper()
	for _, r := range res.Rows {
		if r.Label == label {
			return r
		}
	}
	t.Fatalf("row %q not found", label)
	return Row{}
}
