package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decker502/timeline/pkg/ids"
	"github.com/decker502/timeline/pkg/timecode"
)

func fixedClock(t *testing.T) {
	t.Helper()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	old := nowFunc
	nowFunc = func() time.Time { return at }
	t.Cleanup(func() { nowFunc = old })
}

func TestNewProject(t *testing.T) {
	p := NewProject(timecode.Film)
	require.Equal(t, 1, p.SceneCount())
	assert.Equal(t, "Scene 1", p.Active().Name)
	assert.Equal(t, p.Active().ID, p.ActiveID())
	assert.NoError(t, p.Validate())
}

func TestRemoveLastSceneIsRejected(t *testing.T) {
	p := NewProject(timecode.Film)
	_, err := p.RemoveScene(p.ActiveID())
	assert.ErrorIs(t, err, ErrConstraintViolation)
	assert.Equal(t, 1, p.SceneCount())

	_, err = p.RemoveScene(ids.SceneID("missing"))
	assert.ErrorIs(t, err, ErrSceneNotFound)
}

func TestRemoveActiveScene(t *testing.T) {
	p := NewProject(timecode.Film)
	first := p.ActiveID()
	second := p.CreateScene("")
	require.NoError(t, p.SwitchScene(second))
	assert.Equal(t, []ids.SceneID{first}, p.Recent())

	idx, err := p.RemoveScene(second)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, first, p.ActiveID())
}

func TestSwitchSceneRecentList(t *testing.T) {
	p := NewProject(timecode.Web)
	var all []ids.SceneID
	all = append(all, p.ActiveID())
	for i := 0; i < MaxRecentScenes+3; i++ {
		all = append(all, p.CreateScene(""))
	}
	for _, id := range all[1:] {
		require.NoError(t, p.SwitchScene(id))
	}
	recent := p.Recent()
	assert.Len(t, recent, MaxRecentScenes)
	assert.Equal(t, all[len(all)-2], recent[0], "most recent first")

	require.NoError(t, p.SwitchScene(p.ActiveID()))
	assert.Len(t, p.Recent(), MaxRecentScenes)
	assert.ErrorIs(t, p.SwitchScene("nope"), ErrSceneNotFound)
}

func TestDuplicateScene(t *testing.T) {
	fixedClock(t)
	p := NewProject(timecode.Film)
	src := p.Active()
	l, err := src.Timeline.AddLayer("L", LayerNormal)
	require.NoError(t, err)
	_, err = src.Timeline.InsertKeyframe(l, 3)
	require.NoError(t, err)

	dupID, err := p.DuplicateScene(src.ID, "")
	require.NoError(t, err)
	dup, err := p.Scene(dupID)
	require.NoError(t, err)

	assert.Equal(t, 1, p.SceneIndex(dupID))
	assert.Equal(t, "Scene 1 copy", dup.Name)
	assert.True(t, dup.Modified)
	assert.Equal(t, "Scene 1 copy*", dup.DisplayName())
	assert.Equal(t, 1, dup.Timeline.LayerCount())
	assert.False(t, dup.Timeline.HasLayer(l), "layer ids are regenerated")
	assert.NoError(t, p.Validate())
}

func TestRenameMoveScene(t *testing.T) {
	fixedClock(t)
	p := NewProject(timecode.Film)
	a := p.ActiveID()
	b := p.CreateScene("B")
	c := p.CreateScene("C")

	require.NoError(t, p.MoveScene(c, 0))
	assert.Equal(t, 0, p.SceneIndex(c))
	assert.Equal(t, 1, p.SceneIndex(a))
	assert.Equal(t, 2, p.SceneIndex(b))

	assert.ErrorIs(t, p.RenameScene(b, ""), ErrConstraintViolation)
	require.NoError(t, p.RenameScene(b, "Intro"))
	assert.True(t, p.HasUnsavedChanges())
	p.MarkAllSaved()
	assert.False(t, p.HasUnsavedChanges())

	sums := p.Summaries()
	require.Len(t, sums, 3)
	assert.Equal(t, "Intro", sums[2].Name)
	assert.Equal(t, uint32(DefaultFrameCount), sums[2].FrameCount)
}

func TestSceneEffectiveFPS(t *testing.T) {
	s := NewScene("s", timecode.Film)
	assert.Equal(t, float32(24), s.EffectiveFPS())
	ntsc := timecode.NTSC
	s.FPSOverride = &ntsc
	assert.InDelta(t, 29.97, s.EffectiveFPS(), 1e-3)
}

func TestRestoreProject(t *testing.T) {
	s1 := NewScene("one", timecode.Film)
	s2 := NewScene("two", timecode.Film)

	p, err := Restore(timecode.Film, []*Scene{s1, s2}, s2.ID, []ids.SceneID{s1.ID})
	require.NoError(t, err)
	assert.Equal(t, s2.ID, p.ActiveID())

	_, err = Restore(timecode.Film, []*Scene{s1}, "ghost", nil)
	assert.Error(t, err)
	_, err = Restore(timecode.Film, nil, "", nil)
	assert.Error(t, err)
}
