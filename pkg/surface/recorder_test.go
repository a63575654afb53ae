package surface

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decker502/timeline/pkg/layout"
)

var red = color.RGBA{R: 255, A: 255}

func TestRecorderClipNesting(t *testing.T) {
	r := NewRecorder()
	r.PushClip(layout.Rect{X: 0, Y: 0, W: 100, H: 100})
	r.PushClip(layout.Rect{X: 50, Y: 50, W: 100, H: 100})
	r.FillRect(layout.Rect{X: 60, Y: 60, W: 5, H: 5}, red)
	r.PopClip()
	r.FillRect(layout.Rect{X: 1, Y: 1, W: 5, H: 5}, red)
	r.PopClip()

	assert.Equal(t, 0, r.ClipDepth())
	rects := r.Filter(func(op Op) bool { return op.Kind == OpFillRect })
	require.Len(t, rects, 2)
	assert.Equal(t, layout.Rect{X: 50, Y: 50, W: 50, H: 50}, rects[0].Clip)
	assert.Equal(t, layout.Rect{X: 0, Y: 0, W: 100, H: 100}, rects[1].Clip)
}

func TestRecorderQueries(t *testing.T) {
	r := NewRecorder()
	r.Text(0, 0, "Frame 12", FontNormal, AlignLeft, red)
	StrokeRect(r, layout.Rect{W: 10, H: 10}, 1, red)
	FillCircle(r, 5, 5, 3, red)

	assert.True(t, r.HasText("Frame"))
	assert.False(t, r.HasText("Layer"))
	assert.Equal(t, 1, r.Count(OpPolyline))
	assert.Equal(t, 1, r.Count(OpPolygon))

	w, h := r.MeasureText("abcd", Font{Size: 10})
	assert.Equal(t, 24.0, w)
	assert.Equal(t, 10.0, h)

	r.Reset()
	assert.Empty(t, r.Ops)
}

func TestDim(t *testing.T) {
	c := Dim(color.RGBA{R: 200, G: 100, B: 50, A: 255}, 0.5)
	assert.Equal(t, color.RGBA{R: 100, G: 50, B: 25, A: 127}, c)
	assert.Equal(t, color.RGBA{}, Dim(red, -1))
}

func TestCirclePoints(t *testing.T) {
	pts := CirclePoints(0, 0, 2, 1)
	require.Len(t, pts, 3)
	assert.InDelta(t, 2.0, pts[0].X, 1e-9)
}
