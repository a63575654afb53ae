package snap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func frameTargets() Targets {
	return Targets{FramePixels: 10, TotalFrames: 100}
}

func TestSnapToFrameGrid(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name    string
		x       float64
		bypass  bool
		wantX   float64
		snapped bool
		guides  []float64
	}{
		{"near frame 5", 52, false, 50, true, []float64{50}},
		{"bypass keeps raw position", 52, true, 52, false, nil},
		{"exactly between frames ties", 55, false, 50, true, []float64{50, 60}},
		{"right edge of grid", 1003, false, 1000, true, []float64{1000}},
		{"left of origin", -3, false, 0, true, []float64{0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Snap(tt.x, frameTargets(), cfg, tt.bypass)
			assert.Equal(t, tt.wantX, r.X)
			assert.Equal(t, tt.snapped, r.Snapped)
			assert.Equal(t, tt.guides, r.Guides)
		})
	}
}

func TestSnapThreshold(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ToFrames = false
	targets := Targets{FramePixels: 10, TotalFrames: 100, Keyframes: []uint32{20}}

	r := Snap(208, targets, cfg, false)
	assert.True(t, r.Snapped)
	assert.Equal(t, 200.0, r.X)
	assert.Equal(t, KindKeyframe, r.Kind)

	r = Snap(209, targets, cfg, false)
	assert.False(t, r.Snapped)
	assert.Equal(t, 209.0, r.X)
	assert.Empty(t, r.Guides)
}

func TestZeroThresholdDisablesSnapping(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Threshold = 0
	targets := Targets{FramePixels: 10, TotalFrames: 100, Keyframes: []uint32{5}, Markers: []uint32{5}}

	r := Snap(50, targets, cfg, false)
	assert.False(t, r.Snapped)
	assert.Equal(t, 50.0, r.X)
	assert.Empty(t, r.Guides)
}

func TestDisabledCategories(t *testing.T) {
	targets := Targets{FramePixels: 10, TotalFrames: 100, Markers: []uint32{7}}

	cfg := DefaultConfig()
	cfg.ToFrames, cfg.ToKeyframes = false, false
	r := Snap(73, targets, cfg, false)
	assert.Equal(t, 70.0, r.X)
	assert.Equal(t, KindMarker, r.Kind)

	cfg.ToMarkers = false
	r = Snap(73, targets, cfg, false)
	assert.False(t, r.Snapped)

	cfg = DefaultConfig()
	cfg.Enabled = false
	assert.False(t, Snap(73, targets, cfg, false).Snapped)
}

func TestTiePrefersKeyframeAndHidesGuides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ShowGuides = false
	targets := Targets{FramePixels: 10, TotalFrames: 100, Keyframes: []uint32{3}, Markers: []uint32{3}}

	r := Snap(31, targets, cfg, false)
	assert.Equal(t, 30.0, r.X)
	assert.Equal(t, KindKeyframe, r.Kind)
	assert.Nil(t, r.Guides)
}

func TestSnapIsPure(t *testing.T) {
	cfg := DefaultConfig()
	targets := Targets{FramePixels: 12.5, TotalFrames: 40, Keyframes: []uint32{4, 9}}
	a := Snap(61, targets, cfg, false)
	b := Snap(61, targets, cfg, false)
	assert.Equal(t, a, b)
	assert.Equal(t, []uint32{4, 9}, targets.Keyframes)
}
