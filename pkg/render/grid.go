package render

import (
	"image/color"
	"math"

	"github.com/decker502/timeline/pkg/engine"
	"github.com/decker502/timeline/pkg/ids"
	"github.com/decker502/timeline/pkg/interaction"
	"github.com/decker502/timeline/pkg/layout"
	"github.com/decker502/timeline/pkg/model"
	"github.com/decker502/timeline/pkg/selection"
	"github.com/decker502/timeline/pkg/surface"
)

// 帧宽小于该值时不画逐帧竖线
const minFrameLinePixels = 4.0

func (c *ctx) drawGrid() {
	grid := c.vp.GridRect()
	if grid.Empty() {
		return
	}
	c.p.PushClip(grid)
	defer c.p.PopClip()

	first, last, ok := c.vp.VisibleFrames(c.total)
	for _, row := range c.placed {
		bg := c.st.LayerBG
		if c.selectedLayer(row.ID) {
			bg = surface.Dim(c.st.Selected, 0.5)
		}
		c.p.FillRect(layout.Rect{X: grid.X, Y: row.Top, W: grid.W, H: row.Height}, bg)
		if !ok {
			continue
		}
		info := c.layers[row.ID]
		switch {
		case info.Type == model.LayerAudio:
			c.drawAudioRow(row, first, last)
		case info.Type.HasFrames():
			c.drawCells(row, first, last)
		}
		c.p.Line(surface.Point{X: grid.X, Y: row.Bottom()}, surface.Point{X: grid.Right(), Y: row.Bottom()}, 1, c.st.Grid)
	}
	if ok {
		c.drawOnion(grid)
		c.drawFrameLines(grid, first, last)
		c.drawGridSelection()
		c.drawDragGhost()
	}
	c.drawMarquee()
}

// drawCells 只查询可见范围 [first, last] 内的帧
func (c *ctx) drawCells(row layout.PlacedRow, first, last uint32) {
	dim := c.contentFor(row.ID)
	var dragging *interaction.DragState
	if c.f.State != nil {
		dragging = c.f.State.Drag
	}
	var tweens []engine.FrameData
	seen := make(map[ids.TweenID]bool)
	defer func() {
		for _, d := range tweens {
			c.drawTweenArrow(row, d)
		}
	}()
	for f := first; f <= last; f++ {
		d, err := c.f.Engine.FrameData(row.ID, f)
		if err != nil {
			return
		}
		if d.HasTween() && !seen[d.Tween] {
			seen[d.Tween] = true
			tweens = append(tweens, d)
		}
		cell := c.vp.CellRect(row, f)
		switch d.Type {
		case engine.FrameTween:
			c.p.FillRect(inset(cell, 0, 2), surface.Dim(c.st.Tween, dim))
		case engine.FrameKeyframe:
			if d.HasTween() {
				c.p.FillRect(inset(layout.Rect{X: cell.X + cell.W/2, Y: cell.Y, W: cell.W / 2, H: cell.H}, 0, 2), surface.Dim(c.st.Tween, dim))
			}
			col := surface.Dim(c.st.Keyframe, dim)
			if c.f.State != nil && c.f.State.Selection.HasKeyframe(d.Keyframe) {
				col = c.st.Selected
			}
			if dragging != nil && dragging.Moving(d.Keyframe) && dragging.FrameOffset != 0 {
				col = surface.Dim(col, 0.5)
			}
			c.drawKeyframe(cell, d.HasContent, col)
		}
	}
}

// drawKeyframe 实心圆表示有内容的关键帧，空心圆表示空白关键帧
func (c *ctx) drawKeyframe(cell layout.Rect, filled bool, col color.RGBA) {
	cx, cy := cell.X+cell.W/2, cell.Y+cell.H/2
	radius := math.Min(cell.W, cell.H) * 0.3
	if radius < 1.5 {
		radius = 1.5
	}
	if filled {
		surface.FillCircle(c.p, cx, cy, radius, col)
		return
	}
	pts := surface.CirclePoints(cx, cy, radius, 16)
	c.p.Polyline(append(pts, pts[0]), 1, col)
}

// drawTweenArrow 在补间区间上画一条带箭头的中线
func (c *ctx) drawTweenArrow(row layout.PlacedRow, d engine.FrameData) {
	fp := c.vp.FramePixels()
	if fp < minFrameLinePixels {
		return
	}
	y := row.Top + row.Height/2
	x0 := c.vp.FrameCenterX(d.TweenStart) + fp*0.3
	x1 := c.vp.FrameCenterX(d.TweenEnd) - fp*0.3
	if x1 <= x0 {
		return
	}
	col := surface.Dim(c.st.Text, 0.6)
	c.p.Line(surface.Point{X: x0, Y: y}, surface.Point{X: x1, Y: y}, 1, col)
	head := math.Min(4, fp*0.3)
	c.p.FillPolygon(surface.Triangle(
		surface.Point{X: x1, Y: y},
		surface.Point{X: x1 - head, Y: y - head},
		surface.Point{X: x1 - head, Y: y + head},
	), col)
}

// drawAudioRow 音频图层：剪辑区间背景、波形峰值与音量包络
func (c *ctx) drawAudioRow(row layout.PlacedRow, first, last uint32) {
	var track *model.AudioTrack
	for _, a := range c.f.Engine.AudioLayers() {
		if a.Layer == row.ID {
			t := a.Track
			track = &t
			break
		}
	}
	if track == nil {
		return
	}
	dim := c.contentFor(row.ID)
	start, end := track.FrameRange(c.f.Engine.FPS())
	if end < first || start > last || end < start {
		return
	}
	lo, hi := max(start, first), min(end, last)
	x0 := c.vp.FrameToX(lo)
	x1 := c.vp.FrameToX(hi) + c.vp.FramePixels()
	c.p.FillRect(layout.Rect{X: x0, Y: row.Top + 1, W: x1 - x0, H: row.Height - 2}, c.st.FrameEmpty)

	mid := row.Top + row.Height/2
	half := row.Height/2 - 2
	if wf := c.f.Waveforms[track.Source.ID]; wf != nil {
		peaks := wf.PeaksForRange(lo-start, hi-start+1)
		col := surface.Dim(c.st.Waveform, dim)
		fp := c.vp.FramePixels()
		for i, pk := range peaks {
			x := c.vp.FrameToX(lo+uint32(i)) + fp/2
			c.p.Line(
				surface.Point{X: x, Y: mid - float64(pk[1])*half},
				surface.Point{X: x, Y: mid - float64(pk[0])*half},
				math.Max(1, fp*0.6), col)
		}
	}

	// 包络：0 在行底，1 在行顶
	pts := make([]surface.Point, 0, hi-lo+1)
	for f := lo; f <= hi; f++ {
		v := float64(track.EffectiveVolume(f))
		pts = append(pts, surface.Point{
			X: c.vp.FrameCenterX(f),
			Y: row.Bottom() - 2 - v*(row.Height-4),
		})
	}
	if len(pts) > 1 {
		c.p.Polyline(pts, 1.5, surface.Dim(c.st.Envelope, dim))
	}
	name := track.Source.DisplayName()
	c.p.Text(x0+3, row.Top+2, name, surface.FontSmall, surface.AlignLeft, surface.Dim(c.st.Text, dim))
}

// drawOnion 在播放头前后的洋葱皮范围上画半透明色带
func (c *ctx) drawOnion(grid layout.Rect) {
	st := c.f.State
	if st == nil || !st.Onion.Enabled {
		return
	}
	first, last := st.Onion.Range(c.f.Engine.CurrentFrame(), c.total)
	x0 := c.vp.FrameToX(first)
	x1 := c.vp.FrameToX(last) + c.vp.FramePixels()
	c.p.FillRect(layout.Rect{X: x0, Y: grid.Y, W: x1 - x0, H: grid.H}, surface.Dim(c.st.Onion, float64(st.Onion.Opacity)))
}

func (c *ctx) drawFrameLines(grid layout.Rect, first, last uint32) {
	fp := c.vp.FramePixels()
	bottom := grid.Y
	if n := len(c.placed); n > 0 {
		bottom = math.Min(grid.Bottom(), c.placed[n-1].Bottom())
	}
	for f := first; f <= last+1 && f <= c.total; f++ {
		major := f%5 == 0
		if !major && fp < minFrameLinePixels {
			continue
		}
		x := c.vp.FrameToX(f)
		col := c.st.Grid
		if major {
			col = c.st.Border
		}
		c.p.Line(surface.Point{X: x, Y: grid.Y}, surface.Point{X: x, Y: bottom}, 1, col)
	}
}

// drawGridSelection 选中帧与区间选择高亮
func (c *ctx) drawGridSelection() {
	st := c.f.State
	if st == nil {
		return
	}
	rows := c.rowIndex()
	hl := surface.Dim(c.st.Selected, 0.45)
	mark := func(refs []selection.FrameRef) {
		for _, ref := range refs {
			row, ok := rows[ref.Layer]
			if !ok {
				continue
			}
			c.p.FillRect(c.vp.CellRect(row, ref.Frame), hl)
		}
	}
	mark(st.Selection.Frames())
	if st.Marquee != nil {
		mark(st.Marquee.Cells)
	}
	if st.Range != nil {
		a, b := st.Range.Span()
		x0 := c.vp.FrameToX(a)
		x1 := c.vp.FrameToX(b) + c.vp.FramePixels()
		grid := c.vp.GridRect()
		c.p.FillRect(layout.Rect{X: x0, Y: grid.Y, W: x1 - x0, H: grid.H}, hl)
	}
}

// drawDragGhost 拖拽预览：在目标位置画关键帧轮廓
func (c *ctx) drawDragGhost() {
	st := c.f.State
	if st == nil || st.Drag == nil || st.Drag.FrameOffset == 0 {
		return
	}
	rows := c.rowIndex()
	for id, ref := range st.Drag.Origins {
		if !st.Drag.Moving(id) {
			continue
		}
		row, ok := rows[ref.Layer]
		if !ok {
			continue
		}
		to := int(ref.Frame) + st.Drag.FrameOffset
		if to < 0 || to >= int(c.total) {
			continue
		}
		cell := c.vp.CellRect(row, uint32(to))
		surface.StrokeRect(c.p, inset(cell, 1, 1), 1, c.st.Selected)
		c.drawKeyframe(cell, true, surface.Dim(c.st.Selected, 0.7))
	}
}

func (c *ctx) drawMarquee() {
	st := c.f.State
	if st == nil || st.Marquee == nil {
		return
	}
	r := st.Marquee.Rect()
	c.p.FillRect(r, surface.Dim(c.st.Selected, 0.2))
	surface.StrokeRect(c.p, r, 1, c.st.Selected)
}

func inset(r layout.Rect, dx, dy float64) layout.Rect {
	return layout.Rect{X: r.X + dx, Y: r.Y + dy, W: math.Max(0, r.W-2*dx), H: math.Max(0, r.H-2*dy)}
}

func (c *ctx) rowIndex() map[ids.LayerID]layout.PlacedRow {
	out := make(map[ids.LayerID]layout.PlacedRow, len(c.placed))
	for _, r := range c.placed {
		out[r.ID] = r
	}
	return out
}
