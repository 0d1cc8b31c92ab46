package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	s := New()
	path := writePack(t, dir, "a.json", packA)
	_, err := s.Load(SlotCurrent, path)
	require.NoError(t, err)

	reloaded := make(chan LoadResult, 4)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Watch(ctx, SlotCurrent, func(res LoadResult) { reloaded <- res })
	}()

	// Give the watcher a moment to register before mutating the file.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(packB), 0o644))

	select {
	case res := <-reloaded:
		require.NoError(t, res.Err)
		p, ok := s.Get(SlotCurrent)
		require.True(t, ok)
		assert.Equal(t, "A100", p.GPUName())
	case <-time.After(5 * time.Second):
		t.Fatal("watcher never reported a reload")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop on cancel")
	}
}

func TestWatch_RequiresLoadedSlot(t *testing.T) {
	s := New()
	err := s.Watch(context.Background(), SlotA, func(LoadResult) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no pack loaded")
}
