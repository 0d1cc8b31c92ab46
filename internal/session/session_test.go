package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"packsight/internal/logging"
)

const packA = `{"schema":"sigma_summary_public_v1","gpu":{"name":"H100"},"metrics":{"omega":{"qps":100}}}`
const packB = `{"schema":"sigma_summary_public_v1","gpu":{"name":"A100"},"metrics":{"omega":{"qps":150}}}`

func writePack(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSession_SlotsAreIndependent(t *testing.T) {
	dir := t.TempDir()
	s := New()
	require.NotEmpty(t, s.ID)

	_, err := s.Load(SlotA, writePack(t, dir, "a.json", packA))
	require.NoError(t, err)
	assert.False(t, s.Ready(), "comparison needs both slots")

	_, err = s.Load(SlotB, writePack(t, dir, "b.json", packB))
	require.NoError(t, err)
	assert.True(t, s.Ready())

	// Loading B again must not clear A.
	a, ok := s.Get(SlotA)
	require.True(t, ok)
	assert.Equal(t, "H100", a.GPUName())
}

func TestSession_ParseFailureKeepsPriorPack(t *testing.T) {
	dir := t.TempDir()
	s := New()

	_, err := s.Load(SlotCurrent, writePack(t, dir, "good.json", packA))
	require.NoError(t, err)

	_, err = s.Load(SlotCurrent, writePack(t, dir, "bad.json", "{broken"))
	require.Error(t, err)

	p, ok := s.Get(SlotCurrent)
	require.True(t, ok, "prior pack must remain visible")
	assert.Equal(t, "H100", p.GPUName())
}

func TestSession_StaleReadIsDropped(t *testing.T) {
	dir := t.TempDir()
	s := New()

	pathA := writePack(t, dir, "a.json", packA)
	pathB := writePack(t, dir, "b.json", packB)

	// A slow read begins first but completes after a faster second read
	// into the same slot; last writer wins.
	slowGen := s.Begin(SlotCurrent)
	fastGen := s.Begin(SlotCurrent)

	fast := Read(SlotCurrent, fastGen, pathB)
	require.True(t, s.Complete(fast))

	slow := Read(SlotCurrent, slowGen, pathA)
	assert.False(t, s.Complete(slow), "superseded read must be dropped")

	p, ok := s.Get(SlotCurrent)
	require.True(t, ok)
	assert.Equal(t, "A100", p.GPUName())
}

func TestSession_Export(t *testing.T) {
	dir := t.TempDir()
	s := New()
	_, err := s.Load(SlotCurrent, writePack(t, dir, "a.json", packA))
	require.NoError(t, err)

	now := time.Date(2026, 8, 27, 10, 30, 0, 0, time.UTC)
	out, err := s.Export(SlotCurrent, filepath.Join(dir, "exports"), now)
	require.NoError(t, err)
	assert.Equal(t, "pack_audit_2026-08-27.json", filepath.Base(out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var got, want any
	require.NoError(t, json.Unmarshal(data, &got))
	require.NoError(t, json.Unmarshal([]byte(packA), &want))
	assert.Equal(t, want, got, "export is a verbatim echo")
}

func TestSession_LogsCarryCorrelationID(t *testing.T) {
	ws := t.TempDir()
	require.NoError(t, logging.Initialize(ws, logging.Options{DebugMode: true}))
	t.Cleanup(func() {
		logging.CloseAll()
		_ = logging.Initialize(ws, logging.Options{})
	})

	s := New()
	_, err := s.Load(SlotCurrent, writePack(t, ws, "a.json", packA))
	require.NoError(t, err)
	logging.CloseAll()

	logsDir := filepath.Join(ws, ".packsight", "logs")
	entries, err := os.ReadDir(logsDir)
	require.NoError(t, err)

	var found bool
	for _, e := range entries {
		if !strings.Contains(e.Name(), "session") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(logsDir, e.Name()))
		require.NoError(t, err)
		if strings.Contains(string(data), s.ID) {
			found = true
		}
	}
	assert.True(t, found, "slot install must log the session id")
}

func TestSession_ExportEmptySlot(t *testing.T) {
	s := New()
	_, err := s.Export(SlotCurrent, t.TempDir(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no pack loaded")
}
