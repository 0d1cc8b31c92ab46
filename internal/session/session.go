// Package session owns the currently loaded pack state: one slot for the
// single-pack audit view and two named slots for the A/B comparison view.
// There is no ambient global; renderers receive the session by reference.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"packsight/internal/logging"
	"packsight/internal/pack"
)

// Slot names one pack holder within the session.
type Slot string

const (
	SlotA       Slot = "A"
	SlotB       Slot = "B"
	SlotCurrent Slot = "current"
)

// LoadResult reports one completed load attempt. Gen ties the result to
// the Begin call that started it so a stale read can be dropped.
type LoadResult struct {
	Slot Slot
	Gen  uint64
	Path string
	Pack *pack.Pack
	Err  error
}

type entry struct {
	pack *pack.Pack
	path string
}

// Session holds the loaded packs. Loading a file replaces only the slot
// it targets; a parse failure leaves the previous pack in place. Slot
// installs are last-writer-wins, keyed by a per-slot generation counter:
// a slow read that completes after a newer load into the same slot is
// discarded.
type Session struct {
	ID string

	mu    sync.Mutex
	slots map[Slot]entry
	gens  map[Slot]uint64
}

// New creates an empty session with a fresh correlation id.
func New() *Session {
	return &Session{
		ID:    uuid.NewString(),
		slots: make(map[Slot]entry),
		gens:  make(map[Slot]uint64),
	}
}

// Begin registers a new load attempt for a slot and returns its
// generation token. Any earlier in-flight load of the slot is
// superseded from this point on.
func (s *Session) Begin(slot Slot) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gens[slot]++
	return s.gens[slot]
}

// Complete installs a finished load if it is still the newest one for
// its slot. Returns false when the result was stale or failed; a failed
// result never clears the previously loaded pack.
func (s *Session) Complete(res LoadResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if res.Gen != s.gens[res.Slot] {
		logging.Session("[%s] slot %s: dropped superseded load of %s", s.ID, res.Slot, res.Path)
		return false
	}
	if res.Err != nil || res.Pack == nil {
		return false
	}
	s.slots[res.Slot] = entry{pack: res.Pack, path: res.Path}
	logging.Session("[%s] slot %s <- %s", s.ID, res.Slot, res.Path)
	return true
}

// Load reads, parses and installs a pack synchronously.
func (s *Session) Load(slot Slot, path string) (*pack.Pack, error) {
	gen := s.Begin(slot)
	p, err := pack.Load(path)
	s.Complete(LoadResult{Slot: slot, Gen: gen, Path: path, Pack: p, Err: err})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Read performs the I/O half of an asynchronous load; the caller passes
// the result back through Complete.
func Read(slot Slot, gen uint64, path string) LoadResult {
	p, err := pack.Load(path)
	return LoadResult{Slot: slot, Gen: gen, Path: path, Pack: p, Err: err}
}

// Get returns the pack held by a slot.
func (s *Session) Get(slot Slot) (*pack.Pack, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.slots[slot]
	return e.pack, ok
}

// Path returns the file a slot was loaded from.
func (s *Session) Path(slot Slot) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.slots[slot]
	return e.path, ok
}

// Ready reports whether the comparison view can render: both A and B
// populated.
func (s *Session) Ready() bool {
	_, a := s.Get(SlotA)
	_, b := s.Get(SlotB)
	return a && b
}

// ExportFilename is the dated name of an exported audit artifact.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("pack_audit_%s.json", now.Format("2006-01-02"))
}

// Export writes the slot's pack as a pretty-printed verbatim echo into
// dir, under a filename embedding the current date. The pack is never
// mutated or stripped; the export is a receipt of what was audited.
func (s *Session) Export(slot Slot, dir string, now time.Time) (string, error) {
	p, ok := s.Get(slot)
	if !ok {
		return "", fmt.Errorf("export: no pack loaded in slot %s", slot)
	}
	data, err := p.ExportJSON()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	path := filepath.Join(dir, ExportFilename(now))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	logging.Session("[%s] exported slot %s to %s", s.ID, slot, path)
	return path, nil
}
