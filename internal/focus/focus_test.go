// ABOUTME: Tests for the two-phase focus mode change protocol
// ABOUTME: Covers pending state, idempotent commits, persistence, and observers

package focus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lz027/palette/internal/kv"
)

func newTestKV(t *testing.T) *kv.Store {
	t.Helper()
	s, err := kv.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestTwoPhaseModeChange(t *testing.T) {
	s := NewStore(newTestKV(t))
	ctx := context.Background()
	s.Load(ctx)

	require.Equal(t, ModeProductive, s.Mode())

	// Phase one: the committed mode is untouched, the target is pending.
	require.NoError(t, s.Set(ModeDesign))
	assert.Equal(t, ModeProductive, s.Mode())
	pending, ok := s.Pending()
	require.True(t, ok)
	assert.Equal(t, ModeDesign, pending)

	// Phase two: commit applies and clears.
	s.Commit(ctx)
	assert.Equal(t, ModeDesign, s.Mode())
	_, ok = s.Pending()
	assert.False(t, ok)

	// Commit with nothing pending is a no-op.
	s.Commit(ctx)
	assert.Equal(t, ModeDesign, s.Mode())
}

func TestSetCurrentModeIsNoOp(t *testing.T) {
	s := NewStore(newTestKV(t))
	s.Load(context.Background())

	require.NoError(t, s.Set(ModeProductive))
	_, ok := s.Pending()
	assert.False(t, ok)
}

func TestSetCurrentModeKeepsPendingChange(t *testing.T) {
	s := NewStore(newTestKV(t))
	ctx := context.Background()
	s.Load(ctx)

	require.NoError(t, s.Set(ModeDesign))

	// Re-setting the committed mode does not cancel the pending change;
	// only Commit transitions out of the pending state.
	require.NoError(t, s.Set(ModeProductive))
	pending, ok := s.Pending()
	require.True(t, ok)
	assert.Equal(t, ModeDesign, pending)

	s.Commit(ctx)
	assert.Equal(t, ModeDesign, s.Mode())
}

func TestSetRejectsUnknownMode(t *testing.T) {
	s := NewStore(newTestKV(t))
	s.Load(context.Background())

	assert.Error(t, s.Set(Mode("gaming")))
}

func TestUncommittedChangeStaysPending(t *testing.T) {
	s := NewStore(newTestKV(t))
	ctx := context.Background()
	s.Load(ctx)

	require.NoError(t, s.Set(ModeTech))

	// No timeout commits on the store's behalf: the old mode stays
	// active until the caller confirms.
	assert.Equal(t, ModeProductive, s.Mode())
	pending, ok := s.Pending()
	require.True(t, ok)
	assert.Equal(t, ModeTech, pending)
}

func TestCommittedModePersists(t *testing.T) {
	store := newTestKV(t)
	ctx := context.Background()

	s1 := NewStore(store)
	s1.Load(ctx)
	require.NoError(t, s1.Set(ModeTech))
	s1.Commit(ctx)

	s2 := NewStore(store)
	s2.Load(ctx)
	assert.Equal(t, ModeTech, s2.Mode())
}

func TestCorruptModeFallsBackToDefault(t *testing.T) {
	store := newTestKV(t)
	ctx := context.Background()

	store.Save(ctx, "palette.focus_mode", "midnight")

	s := NewStore(store)
	s.Load(ctx)
	assert.Equal(t, DefaultMode, s.Mode())
}

func TestObservers(t *testing.T) {
	s := NewStore(newTestKV(t))
	ctx := context.Background()

	var palettes []Palette
	var pendings []Mode
	s.OnPaletteChange(func(p Palette) { palettes = append(palettes, p) })
	s.OnPendingChange(func(m Mode) { pendings = append(pendings, m) })

	s.Load(ctx)
	require.Len(t, palettes, 1)
	assert.Equal(t, "Productive", palettes[0].Name)

	require.NoError(t, s.Set(ModeDesign))
	require.Len(t, pendings, 1)
	assert.Equal(t, ModeDesign, pendings[0])
	// Palette observers fire only on commit, not on pending.
	assert.Len(t, palettes, 1)

	s.Commit(ctx)
	require.Len(t, palettes, 2)
	assert.Equal(t, "Design", palettes[1].Name)
	assert.Equal(t, "New canvas", palettes[1].CreateLabel)
}

func TestPaletteIsPureFunctionOfMode(t *testing.T) {
	assert.Equal(t, PaletteFor(ModeTech), PaletteFor(ModeTech))
	assert.NotEqual(t, PaletteFor(ModeTech), PaletteFor(ModeDesign))
}
