package layout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decker502/timeline/pkg/ids"
)

func newTestViewport() *Viewport {
	return New(DefaultMetrics(), 800, 400)
}

func TestFrameMapping(t *testing.T) {
	v := newTestViewport()

	tests := []struct {
		name    string
		zoom    float64
		scrollX float64
		x       float64
		want    int
	}{
		{"origin", 1, 0, 200, 0},
		{"inside frame 5", 1, 0, 252, 5},
		{"frame boundary", 1, 0, 250, 5},
		{"left of grid", 1, 0, 190, -1},
		{"zoomed in", 2, 0, 252, 2},
		{"scrolled", 1, 100, 252, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v.SetZoom(tt.zoom)
			v.SetScroll(tt.scrollX, 0)
			assert.Equal(t, tt.want, v.XToFrame(tt.x))
		})
	}

	v.SetZoom(1)
	v.SetScroll(0, 0)
	for f := uint32(0); f < 50; f++ {
		assert.Equal(t, int(f), v.XToFrame(v.FrameToX(f)), "frame %d", f)
	}
}

func TestZoomClamp(t *testing.T) {
	v := newTestViewport()
	v.SetZoom(0.01)
	assert.Equal(t, MinZoom, v.Zoom())
	v.SetZoom(99)
	assert.Equal(t, MaxZoom, v.Zoom())
	v.SetZoom(2.5)
	assert.Equal(t, 2.5, v.Zoom())

	v.SetZoom(math.NaN())
	assert.Equal(t, 2.5, v.Zoom(), "NaN keeps the current zoom")
	v.SetZoom(math.Inf(1))
	assert.Equal(t, MaxZoom, v.Zoom())
	v.ZoomAt(math.NaN(), 300)
	assert.Equal(t, MaxZoom, v.Zoom())
}

func TestZoomKeepsFrameUnderCursor(t *testing.T) {
	v := newTestViewport()
	v.SetScroll(40, 0)
	cursor := 437.0
	before := v.ScreenToContent(cursor) / v.FramePixels()

	v.ZoomAt(3, cursor)
	after := v.ScreenToContent(cursor) / v.FramePixels()
	assert.InDelta(t, before, after, 1e-9)

	v.ZoomBy(0.5, cursor)
	assert.Equal(t, 1.5, v.Zoom())
	assert.InDelta(t, before, v.ScreenToContent(cursor)/v.FramePixels(), 1e-9)
}

func TestZoomAtNearOriginDoesNotScrollNegative(t *testing.T) {
	v := newTestViewport()
	v.ZoomAt(0.5, 600)
	assert.GreaterOrEqual(t, v.ScrollX(), 0.0)
}

func TestVisibleFrames(t *testing.T) {
	v := newTestViewport()
	first, last, ok := v.VisibleFrames(1000)
	require.True(t, ok)
	assert.Equal(t, uint32(0), first)
	assert.Equal(t, uint32(60), last)

	v.SetScroll(105, 0)
	first, last, ok = v.VisibleFrames(1000)
	require.True(t, ok)
	assert.Equal(t, uint32(10), first)
	assert.Equal(t, uint32(70), last)

	first, last, ok = v.VisibleFrames(30)
	require.True(t, ok)
	assert.Equal(t, uint32(10), first)
	assert.Equal(t, uint32(29), last)

	v.SetScroll(5000, 0)
	_, _, ok = v.VisibleFrames(30)
	assert.False(t, ok)
}

func TestRowsPlacement(t *testing.T) {
	v := newTestViewport()
	a, b, c := ids.LayerID("a"), ids.LayerID("b"), ids.LayerID("c")
	rows := []Row{{ID: a}, {ID: b}, {ID: c}}
	v.SetTrackHeight(b, 60)

	placed := v.PlaceRows(rows)
	require.Len(t, placed, 3)
	assert.Equal(t, 30.0, placed[0].Top)
	assert.Equal(t, 60.0, placed[1].Top)
	assert.Equal(t, 120.0, placed[2].Top)

	v.SetScroll(0, 45)
	placed = v.PlaceRows(rows)
	assert.Equal(t, -15.0, placed[0].Top)

	row, ok := v.RowAt(rows, 40)
	require.True(t, ok)
	assert.Equal(t, b, row.ID)

	_, ok = v.RowAt(rows, 10)
	assert.False(t, ok, "ruler is not a row")

	v.SetTrackHeight(b, 0)
	assert.Equal(t, 30.0, v.TrackHeightOf(b))
	assert.Equal(t, 90.0, v.ContentHeight(rows))
}

func TestCollapseRows(t *testing.T) {
	rows := []Row{
		{ID: "folder", Depth: 0},
		{ID: "child", Depth: 1},
		{ID: "grandchild", Depth: 2},
		{ID: "sibling", Depth: 0},
		{ID: "inner", Depth: 1},
	}
	got := CollapseRows(rows, func(id ids.LayerID) bool { return id == "folder" })
	require.Len(t, got, 3)
	assert.Equal(t, ids.LayerID("sibling"), got[1].ID)
	assert.Equal(t, ids.LayerID("inner"), got[2].ID)

	assert.Len(t, CollapseRows(rows, nil), 5)
}

func TestHitTest(t *testing.T) {
	v := newTestViewport()
	rows := []Row{{ID: "a"}, {ID: "b"}}

	tests := []struct {
		name   string
		x, y   float64
		region Region
		row    ids.LayerID
		frame  int
	}{
		{"ruler", 255, 10, RegionRuler, "", 5},
		{"corner", 50, 10, RegionCorner, "", 0},
		{"panel", 50, 70, RegionLayerPanel, "b", 0},
		{"grid", 305, 35, RegionGrid, "a", 10},
		{"controls", 400, 380, RegionControls, "", 0},
		{"outside", -5, 10, RegionNone, "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := v.HitTest(rows, tt.x, tt.y)
			assert.Equal(t, tt.region, h.Region)
			if tt.row != "" {
				require.True(t, h.HasRow)
				assert.Equal(t, tt.row, h.Row.ID)
			}
			if tt.region == RegionRuler || tt.region == RegionGrid {
				assert.Equal(t, tt.frame, h.Frame)
			}
		})
	}

	h := v.HitTest(rows, 300, 200)
	assert.Equal(t, RegionGrid, h.Region)
	assert.False(t, h.HasRow, "below the last row")
}

func TestRangesForMarquee(t *testing.T) {
	v := newTestViewport()
	rows := []Row{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	hit := v.RowsInRange(rows, 75, 35)
	require.Len(t, hit, 2)
	assert.Equal(t, ids.LayerID("a"), hit[0].ID)
	assert.Equal(t, ids.LayerID("b"), hit[1].ID)

	first, last, ok := v.FramesInRange(265, 215, 100)
	require.True(t, ok)
	assert.Equal(t, uint32(1), first)
	assert.Equal(t, uint32(6), last)

	_, _, ok = v.FramesInRange(100, 150, 100)
	assert.False(t, ok)
}

func TestClampScroll(t *testing.T) {
	v := newTestViewport()
	rows := []Row{{ID: "a"}}
	v.SetScroll(1e6, 1e6)
	v.ClampScroll(100, rows)
	assert.Equal(t, 400.0, v.ScrollX())
	assert.Equal(t, 0.0, v.ScrollY())

	v.SetScroll(-5, -5)
	assert.Equal(t, 0.0, v.ScrollX())
}

func TestRectHelpers(t *testing.T) {
	r := RectFromPoints(10, 20, 0, 5)
	assert.Equal(t, Rect{X: 0, Y: 5, W: 10, H: 15}, r)
	assert.True(t, r.Contains(0, 5))
	assert.False(t, r.Contains(10, 5))
	assert.Equal(t, 5.0, r.Intersect(Rect{X: 5, Y: 0, W: 100, H: 100}).W)
	assert.False(t, r.Overlaps(Rect{X: 50, Y: 50, W: 1, H: 1}))
}
