package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decker502/timeline/pkg/render"
	"github.com/decker502/timeline/pkg/timecode"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "timeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 200.0, cfg.Layout.LayerPanelWidth)
	assert.Equal(t, 8.0, cfg.Snap.Threshold)
	assert.Equal(t, 200, cfg.History.Limit)
	assert.Equal(t, timecode.Film, cfg.FPS)
	assert.Equal(t, "en", cfg.Language)
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
fps:
  preset: pal
frame_count: 250
zoom: 2
layout:
  frame_width: 12
snap:
  threshold_pixels: 4
style:
  playhead: "#00ff00"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, timecode.PAL, cfg.FPS)
	assert.Equal(t, uint32(250), cfg.FrameCount)
	assert.Equal(t, 2.0, cfg.Zoom)
	assert.Equal(t, 12.0, cfg.Layout.FrameWidth)
	assert.Equal(t, 30.0, cfg.Layout.TrackHeight, "unset fields keep defaults")
	assert.Equal(t, 4.0, cfg.Snap.Threshold)
	assert.True(t, cfg.Snap.Enabled)

	style, err := cfg.Style.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "#00ff00", render.Hex(style.Playhead))
	assert.Equal(t, render.DefaultStyle().Grid, style.Grid)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad yaml", "zoom: [1"},
		{"zoom too small", "zoom: 0.01"},
		{"zoom too large", "zoom: 9"},
		{"zero frame width", "layout:\n  frame_width: 0"},
		{"zero frames", "frame_count: 0"},
		{"negative threshold", "snap:\n  threshold_pixels: -1"},
		{"opacity above one", "onion_skin:\n  opacity: 1.5"},
		{"bad color", "style:\n  grid: \"#12\""},
		{"bad window", "window:\n  width: 0"},
		{"unknown language", "language: klingon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.FPS = timecode.Custom(48)
	cfg.Author = "anim"
	cfg.Style.Keyframe = "#102030"
	cfg.Language = "ja"

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestMetrics(t *testing.T) {
	m := Default().Layout.Metrics()
	assert.Equal(t, 10.0, m.FrameWidth)
	assert.Equal(t, 40.0, m.ControlsHeight)
}

func TestStrings(t *testing.T) {
	cfg, err := Load(writeFile(t, "language: zh"))
	require.NoError(t, err)
	s, err := cfg.Strings()
	require.NoError(t, err)
	assert.Equal(t, "zh", s.Lang())
	assert.Equal(t, "插入帧", s.Get("menu.insert_frame"))

	override := filepath.Join(t.TempDir(), "strings.yaml")
	require.NoError(t, os.WriteFile(override, []byte("menu:\n  insert_frame: 加帧\n"), 0o644))
	cfg.StringsFile = override
	s, err = cfg.Strings()
	require.NoError(t, err)
	assert.Equal(t, "加帧", s.Get("menu.insert_frame"))
	assert.Equal(t, "删除帧", s.Get("menu.remove_frame"))

	cfg.StringsFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = cfg.Strings()
	assert.Error(t, err)
}
