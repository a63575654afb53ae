package storage

import (
	"errors"
	"testing"

	"github.com/quasilyte/gdata/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decker502/timeline/pkg/config"
	"github.com/decker502/timeline/pkg/engine"
	"github.com/decker502/timeline/pkg/model"
	"github.com/decker502/timeline/pkg/timecode"
	"github.com/decker502/timeline/pkg/timeline"
)

// openManager 使用临时目录创建 gdata manager
func openManager(t *testing.T) *gdata.Manager {
	t.Helper()
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", tempDir)

	m, err := gdata.Open(gdata.Config{AppName: "timeline_storage_test"})
	require.NoError(t, err)
	return m
}

func sampleProject(t *testing.T) *model.Project {
	t.Helper()
	p := model.NewProject(timecode.PAL)
	tl := p.Active().Timeline
	id, err := tl.AddLayer("Layer 1", model.LayerNormal)
	require.NoError(t, err)
	_, err = tl.InsertKeyframe(id, 3)
	require.NoError(t, err)
	p.Active().MarkModified()
	return p
}

func TestProjectStore(t *testing.T) {
	tests := []struct {
		name    string
		manager func(t *testing.T) *gdata.Manager
	}{
		{"gdata", openManager},
		{"memory", func(*testing.T) *gdata.Manager { return nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewProjectStore(tt.manager(t))
			p := sampleProject(t)
			require.True(t, p.HasUnsavedChanges())

			assert.False(t, store.Exists("walk-cycle"))
			require.NoError(t, store.Save("walk-cycle", p))
			assert.False(t, p.HasUnsavedChanges())
			assert.True(t, store.Exists("walk-cycle"))

			require.NoError(t, store.Save("intro", p))
			require.NoError(t, store.Save("intro", p))
			names, err := store.List()
			require.NoError(t, err)
			assert.Equal(t, []string{"intro", "walk-cycle"}, names)

			got, err := store.Load("walk-cycle")
			require.NoError(t, err)
			assert.Equal(t, p.ActiveID(), got.ActiveID())
			assert.Equal(t, p.Active().Timeline.LayerIDs(), got.Active().Timeline.LayerIDs())
			assert.Equal(t, float32(25), got.FPS.FPS())

			_, err = store.Load("missing")
			assert.True(t, errors.Is(err, ErrProjectNotFound))
		})
	}
}

func TestValidName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"walk-cycle_2.v1", true},
		{"", false},
		{".hidden", false},
		{"a/b", false},
		{"has space", false},
		{indexProperty, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidName(tt.name))
		})
	}

	store := NewProjectStore(nil)
	assert.Error(t, store.Save("../etc", model.NewProject(timecode.Film)))
}

func TestPreferencesPersist(t *testing.T) {
	m := openManager(t)

	pm := NewPreferencesManager(m)
	assert.Equal(t, DefaultPreferences(), pm.Get())

	pm.Get().Zoom = 2.5
	pm.Get().Display = timecode.DisplayTimecode
	pm.Get().Snap.Threshold = 4
	pm.AddRecentProject("a")
	pm.AddRecentProject("b")
	pm.AddRecentProject("a")
	require.NoError(t, pm.Save())

	again := NewPreferencesManager(m)
	assert.Equal(t, 2.5, again.Get().Zoom)
	assert.Equal(t, timecode.DisplayTimecode, again.Get().Display)
	assert.Equal(t, 4.0, again.Get().Snap.Threshold)
	assert.Equal(t, []string{"a", "b"}, again.Get().RecentProjects)
}

func TestPreferencesFallback(t *testing.T) {
	m := openManager(t)
	require.NoError(t, m.SaveObjectProp(preferencesObject, preferencesProperty, []byte("zoom: 99\n")))

	pm := NewPreferencesManager(m)
	assert.Equal(t, DefaultPreferences(), pm.Get(), "invalid file falls back to defaults")

	mem := NewPreferencesManager(nil)
	mem.Get().Zoom = 3
	assert.NoError(t, mem.Save())
}

func TestRecentProjectsCapped(t *testing.T) {
	pm := NewPreferencesManager(nil)
	for _, n := range []string{"p0", "p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8", "p9", "p10", "p11"} {
		pm.AddRecentProject(n)
	}
	recent := pm.Get().RecentProjects
	require.Len(t, recent, MaxRecentProjects)
	assert.Equal(t, "p11", recent[0])
	assert.Equal(t, "p2", recent[MaxRecentProjects-1])
}

func TestApplyAndCapture(t *testing.T) {
	eng := engine.NewMemory(model.NewProject(timecode.Film))
	tl, err := timeline.New(eng, config.Default(), timeline.Hooks{})
	require.NoError(t, err)

	pm := NewPreferencesManager(nil)
	p := pm.Get()
	p.Zoom = 2
	p.Looping = false
	p.Onion.Enabled = true
	p.Display = timecode.DisplaySeconds
	p.Snap.Enabled = false
	pm.Apply(tl)

	assert.Equal(t, 2.0, tl.Viewport().Zoom())
	assert.False(t, tl.Playback().Looping())
	assert.True(t, tl.State().Onion.Enabled)
	assert.Equal(t, timecode.DisplaySeconds, tl.State().Display)
	assert.False(t, tl.Machine().SnapConfig().Enabled)

	tl.Viewport().SetZoom(0.5)
	pm.Capture(tl)
	assert.Equal(t, 0.5, p.Zoom)
}
