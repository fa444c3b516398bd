// ABOUTME: Focus mode store with a two-phase (pending then confirm) change protocol
// ABOUTME: Derives the themed color palette and notifies observers on commits

package focus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Lz027/palette/internal/kv"
	"github.com/Lz027/palette/internal/schema"
)

// storageKey is the durable-storage key holding the committed mode.
const storageKey = "palette.focus_mode"

// Mode is one of the three global UI personas. Exactly one is committed
// at a time.
type Mode string

const (
	ModeTech       Mode = "tech"
	ModeProductive Mode = "productive"
	ModeDesign     Mode = "design"
)

// DefaultMode is used when storage holds nothing usable.
const DefaultMode = ModeProductive

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeTech, ModeProductive, ModeDesign:
		return true
	}
	return false
}

// Palette is the themed color set derived from the committed mode. It is
// a pure function of the mode; see PaletteFor.
type Palette struct {
	Primary     string `json:"primary"`
	Secondary   string `json:"secondary"`
	Accent      string `json:"accent"`
	Name        string `json:"name"`
	CreateLabel string `json:"createLabel"`
}

// PaletteFor derives the palette for a mode.
func PaletteFor(m Mode) Palette {
	switch m {
	case ModeTech:
		return Palette{
			Primary:     "#0ea5e9",
			Secondary:   "#0f172a",
			Accent:      "#22d3ee",
			Name:        "Tech",
			CreateLabel: "New project",
		}
	case ModeDesign:
		return Palette{
			Primary:     "#ec4899",
			Secondary:   "#581c87",
			Accent:      "#f59e0b",
			Name:        "Design",
			CreateLabel: "New canvas",
		}
	default:
		return Palette{
			Primary:     "#10b981",
			Secondary:   "#064e3b",
			Accent:      "#a3e635",
			Name:        "Productive",
			CreateLabel: "New board",
		}
	}
}

// Store holds the committed focus mode and mediates changes through a
// two-phase protocol: Set records a pending target without touching the
// committed mode, and Commit applies it. The gap lets a caller play a
// transition effect before the new mode's styling takes permanent
// effect. The store never times the commit itself; if Commit is never
// called the pending target simply stays pending.
type Store struct {
	mu        sync.Mutex
	kv        *kv.Store
	logger    *slog.Logger
	mode      Mode
	pending   *Mode
	onPalette []func(Palette)
	onPending []func(Mode)
}

// NewStore creates a focus store committed to the default mode.
func NewStore(store *kv.Store) *Store {
	return &Store{
		kv:     store,
		logger: slog.Default().With("component", "focus"),
		mode:   DefaultMode,
	}
}

// Load initializes the committed mode from durable storage and pushes
// the derived palette to observers.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	var stored Mode
	if s.kv.Load(ctx, storageKey, modeSchema(), &stored) && stored.Valid() {
		s.mode = stored
	}
	palette := PaletteFor(s.mode)
	fns := append([]func(Palette){}, s.onPalette...)
	s.mu.Unlock()

	for _, fn := range fns {
		fn(palette)
	}
}

// Mode returns the committed mode.
func (s *Store) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Pending returns the pending target mode, if any.
func (s *Store) Pending() (Mode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return "", false
	}
	return *s.pending, true
}

// Palette returns the palette derived from the committed mode.
func (s *Store) Palette() Palette {
	s.mu.Lock()
	defer s.mu.Unlock()
	return PaletteFor(s.mode)
}

// OnPaletteChange registers an observer invoked whenever the committed
// mode (and therefore the palette) changes.
func (s *Store) OnPaletteChange(fn func(Palette)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onPalette = append(s.onPalette, fn)
}

// OnPendingChange registers an observer invoked when a pending target is
// recorded. Callers drive their transition effect from this signal and
// are responsible for eventually calling Commit.
func (s *Store) OnPendingChange(fn func(Mode)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onPending = append(s.onPending, fn)
}

// Set records target as the pending mode change. Setting the committed
// mode again is a no-op. The committed mode is left untouched; only
// Commit transitions out of the pending state.
func (s *Store) Set(target Mode) error {
	if !target.Valid() {
		return fmt.Errorf("unknown focus mode %q", target)
	}

	s.mu.Lock()
	if target == s.mode {
		s.mu.Unlock()
		return nil
	}
	s.pending = &target
	fns := append([]func(Mode){}, s.onPending...)
	s.mu.Unlock()

	for _, fn := range fns {
		fn(target)
	}
	return nil
}

// Commit applies the pending mode change: the pending target becomes the
// committed mode, the pending state is cleared, the mode is persisted,
// and the recomputed palette is pushed to observers. With nothing
// pending, Commit is a no-op; it is always safe to call.
func (s *Store) Commit(ctx context.Context) {
	s.mu.Lock()
	if s.pending == nil {
		s.mu.Unlock()
		return
	}
	s.mode = *s.pending
	s.pending = nil
	s.kv.Save(ctx, storageKey, s.mode)
	palette := PaletteFor(s.mode)
	fns := append([]func(Palette){}, s.onPalette...)
	s.mu.Unlock()

	for _, fn := range fns {
		fn(palette)
	}
}

func modeSchema() schema.Schema {
	return schema.Enum(string(ModeTech), string(ModeProductive), string(ModeDesign))
}
