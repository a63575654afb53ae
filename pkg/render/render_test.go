package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decker502/timeline/pkg/easing"
	"github.com/decker502/timeline/pkg/engine"
	"github.com/decker502/timeline/pkg/ids"
	"github.com/decker502/timeline/pkg/interaction"
	"github.com/decker502/timeline/pkg/layout"
	"github.com/decker502/timeline/pkg/model"
	"github.com/decker502/timeline/pkg/selection"
	"github.com/decker502/timeline/pkg/snap"
	"github.com/decker502/timeline/pkg/surface"
	"github.com/decker502/timeline/pkg/timecode"
)

// countingEngine 统计 FrameData 查询
type countingEngine struct {
	*engine.Memory
	calls  int
	frames map[uint32]bool
}

func (c *countingEngine) FrameData(layer ids.LayerID, frame uint32) (engine.FrameData, error) {
	c.calls++
	c.frames[frame] = true
	return c.Memory.FrameData(layer, frame)
}

type fixture struct {
	e     *countingEngine
	vp    *layout.Viewport
	m     *interaction.Machine
	l1    ids.LayerID
	style Style
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := engine.NewMemory(model.NewProject(timecode.Film))
	l1, err := mem.AddLayer("L1", model.LayerNormal)
	require.NoError(t, err)
	vp := layout.New(layout.DefaultMetrics(), 800, 400)
	m := interaction.NewMachine(interaction.Deps{Engine: mem, Viewport: vp}, snap.DefaultConfig(), interaction.DefaultOnionSkin(), interaction.Hooks{})
	return &fixture{
		e:     &countingEngine{Memory: mem, frames: map[uint32]bool{}},
		vp:    vp,
		m:     m,
		l1:    l1,
		style: DefaultStyle(),
	}
}

func (f *fixture) draw() *surface.Recorder {
	rec := surface.NewRecorder()
	New(f.style).Draw(rec, Frame{
		Engine:   f.e,
		Viewport: f.vp,
		Rows:     f.m.Rows(),
		State:    &f.m.State,
	})
	return rec
}

func TestDrawCullsInvisibleFrames(t *testing.T) {
	f := newFixture(t)
	f.draw()
	// 网格宽 600，帧宽 10：可见 0..60
	assert.Equal(t, 61, f.e.calls)
	assert.False(t, f.e.frames[61])

	f.vp.SetScroll(500, 0)
	f.e.calls, f.e.frames = 0, map[uint32]bool{}
	f.draw()
	assert.False(t, f.e.frames[49])
	assert.True(t, f.e.frames[50])
	assert.True(t, f.e.frames[99])
}

func TestDrawBalancesClips(t *testing.T) {
	f := newFixture(t)
	_, err := f.e.InsertKeyframe(f.l1, 3)
	require.NoError(t, err)
	f.m.State.Menu = &interaction.ContextMenu{
		X:     300,
		Y:     100,
		Hover: -1,
		Items: []interaction.MenuItem{{Label: "Insert Frame", Action: interaction.ActionInsertFrame, Enabled: true}},
	}
	rec := f.draw()
	assert.Zero(t, rec.ClipDepth())
	assert.Equal(t, rec.Count(surface.OpPushClip), rec.Count(surface.OpPopClip))
	assert.True(t, rec.HasText("Insert Frame"))
	assert.True(t, rec.HasText("L1"))
}

func TestSelectedKeyframeUsesSelectionColor(t *testing.T) {
	f := newFixture(t)
	id, err := f.e.InsertKeyframe(f.l1, 3)
	require.NoError(t, err)
	require.NoError(t, f.e.SetProperty(f.l1, 3, model.PropAlpha, model.FloatValue(0.5)))

	polys := func(rec *surface.Recorder, c color.RGBA) int {
		return len(rec.Filter(func(op surface.Op) bool {
			return op.Kind == surface.OpPolygon && op.Color == c
		}))
	}
	assert.Equal(t, 1, polys(f.draw(), f.style.Keyframe))

	f.m.State.Selection.SetKeyframes([]selection.KeyframeRef{{ID: id, Layer: f.l1, Frame: 3}}, false)
	rec := f.draw()
	assert.Zero(t, polys(rec, f.style.Keyframe))
	assert.Equal(t, 1, polys(rec, f.style.Selected))
}

func TestPlayheadAndGuides(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.e.Seek(5))
	f.m.State.Guides = []float64{50}
	rec := f.draw()

	lines := func(c color.RGBA) []surface.Op {
		return rec.Filter(func(op surface.Op) bool { return op.Kind == surface.OpLine && op.Color == c })
	}
	ph := lines(f.style.Playhead)
	require.Len(t, ph, 1)
	assert.InDelta(t, f.vp.FrameCenterX(5), ph[0].Points[0].X, 1e-9)

	g := lines(f.style.SnapGuide)
	require.Len(t, g, 1)
	assert.InDelta(t, 250, g[0].Points[0].X, 1e-9)
}

func TestTimeReadoutFollowsDisplayMode(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.e.Seek(36))
	assert.True(t, f.draw().HasText("Frame 36"))
	f.m.State.Display = timecode.DisplayTimecode
	assert.True(t, f.draw().HasText("00:00:01:12"))
}

func TestHiddenLayerNameDimmed(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.e.SetLayerVisible(f.l1, false))
	rec := f.draw()
	texts := rec.Filter(func(op surface.Op) bool { return op.Kind == surface.OpText && op.Text == "L1" })
	require.Len(t, texts, 1)
	assert.Equal(t, f.style.TextDisabled, texts[0].Color)
}

func TestDrawCurveSamples(t *testing.T) {
	rec := surface.NewRecorder()
	DrawCurve(rec, layout.Rect{X: 0, Y: 0, W: 200, H: 100}, easing.PresetEaseInOut.Curve(), 0, DefaultStyle())
	curves := rec.Filter(func(op surface.Op) bool { return op.Kind == surface.OpPolyline && op.Width == 2 })
	require.Len(t, curves, 1)
	pts := curves[0].Points
	assert.GreaterOrEqual(t, len(pts), easing.MinSamples)
	assert.InDelta(t, 100, pts[0].Y, 1e-6, "v=0 at the bottom")
	assert.InDelta(t, 0, pts[len(pts)-1].Y, 1e-6, "v=1 at the top")
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"#464646", color.RGBA{R: 70, G: 70, B: 70, A: 255}, false},
		{"4682b4", color.RGBA{R: 70, G: 130, B: 180, A: 255}, false},
		{"#ff000080", color.RGBA{R: 255, A: 128}, false},
		{"#fff", color.RGBA{}, true},
		{"#zzzzzz", color.RGBA{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHex(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			again, err := ParseHex(Hex(got))
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestDrawControlsAndTooltip(t *testing.T) {
	f := newFixture(t)
	rec := f.draw()
	assert.True(t, rec.HasText("|<"))
	assert.False(t, rec.HasText("First Frame (Home)"))

	btn := interaction.ControlButtons(f.vp)[0]
	f.m.State.Tooltip = &interaction.Tooltip{Control: btn.Control, Text: "First Frame (Home)", X: btn.Rect.X, Y: btn.Rect.Y}
	rec = f.draw()
	assert.True(t, rec.HasText("First Frame (Home)"))
	assert.Zero(t, rec.ClipDepth())
}
