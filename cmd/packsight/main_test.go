package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"packsight/internal/compare"
	"packsight/internal/config"
)

func TestTrimFloat(t *testing.T) {
	cases := map[float64]string{
		1512.0:  "1512.0",
		9.8:     "9.8",
		0.99:    "0.99",
		1.0:     "1.0",
		280.125: "280.13",
	}
	for in, want := range cases {
		assert.Equal(t, want, trimFloat(in), "trimFloat(%v)", in)
	}
}

func TestOperandText(t *testing.T) {
	v := 42.5
	assert.Equal(t, "H100", operandText("H100", nil), "display text wins")
	assert.Equal(t, "42.5", operandText("", &v))
	assert.Equal(t, "-", operandText("", nil), "absent metric renders a dash")
}

func TestSignedDelta(t *testing.T) {
	up, down := 50.0, -3.25
	assert.Equal(t, "+50.00", signedDelta(&up))
	assert.Equal(t, "-3.25", signedDelta(&down))
	assert.Equal(t, "", signedDelta(nil))
}

func TestLabelWithUnit(t *testing.T) {
	assert.Equal(t, "omega QPS (q/s)", labelWithUnit(compare.Row{Label: "omega QPS", Unit: "q/s"}))
	assert.Equal(t, "GPU", labelWithUnit(compare.Row{Label: "GPU"}))
}

func TestRunInit(t *testing.T) {
	old := workspace
	workspace = t.TempDir()
	t.Cleanup(func() { workspace = old })

	require.NoError(t, runInit(nil, nil))

	path := config.DefaultPath(workspace)
	_, err := os.Stat(path)
	require.NoError(t, err)

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "omega", loaded.Plot.DefaultTrack)

	// Re-running against an initialized workspace is a no-op.
	require.NoError(t, runInit(nil, nil))
}
