package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/decker502/timeline/pkg/interaction"
	"github.com/decker502/timeline/pkg/layout"
	"github.com/decker502/timeline/pkg/model"
	"github.com/decker502/timeline/pkg/surface"
)

// typeBadges 图层名前的类型标记
var typeBadges = map[model.LayerType]string{
	model.LayerGuide:       "G",
	model.LayerMotionGuide: "MG",
	model.LayerMask:        "M",
	model.LayerAudio:       "A",
}

func (c *ctx) drawPanel() {
	panel := c.vp.PanelRect()
	if panel.Empty() {
		return
	}
	c.p.PushClip(panel)
	defer c.p.PopClip()
	c.p.FillRect(panel, c.st.LayerBG)

	st := c.f.State
	for _, row := range c.placed {
		info, ok := c.layers[row.ID]
		if !ok {
			continue
		}
		rect := layout.Rect{X: panel.X, Y: row.Top, W: panel.W, H: row.Height}
		if c.selectedLayer(row.ID) {
			c.p.FillRect(rect, c.st.Selected)
		} else if st != nil && st.ActiveLayer == row.ID {
			c.p.FillRect(rect, surface.Dim(c.st.Selected, 0.4))
		}
		icons := interaction.RowIcons(c.vp, row, info.Type == model.LayerFolder)
		if info.Type == model.LayerFolder {
			c.drawFolderToggle(icons.Toggle, st != nil && st.Panel.IsCollapsed(row.ID))
		}

		name := info.Name
		if b, ok := typeBadges[info.Type]; ok {
			name = fmt.Sprintf("[%s] %s", b, name)
		}
		textCol := c.st.Text
		if !info.Visible {
			textCol = c.st.TextDisabled
		}
		_, th := c.p.MeasureText(name, surface.FontNormal)
		ty := row.Top + (row.Height-th)/2
		if st != nil && st.Edit != nil && st.Edit.Purpose == interaction.EditLayerName && st.Edit.Layer == row.ID {
			c.drawEditBox(icons.Name, st.Edit.Text)
		} else {
			c.p.PushClip(icons.Name)
			c.p.Text(icons.Name.X, ty, name, surface.FontNormal, surface.AlignLeft, textCol)
			c.p.PopClip()
		}

		c.drawEye(icons.Eye, info.Visible)
		c.drawLock(icons.Lock, info.Locked)
		outline := st != nil && st.Panel.Outline[row.ID]
		c.drawOutlineSwatch(icons.Outline, outline)
		c.p.Line(surface.Point{X: panel.X, Y: row.Bottom()}, surface.Point{X: panel.Right(), Y: row.Bottom()}, 1, c.st.Border)
	}
	c.drawDropIndicator()
	c.p.Line(surface.Point{X: panel.Right(), Y: panel.Y}, surface.Point{X: panel.Right(), Y: panel.Bottom()}, 1, c.st.Border)
}

func (c *ctx) drawFolderToggle(r layout.Rect, collapsed bool) {
	cx, cy := r.X+r.W/2, r.Y+r.H/2
	h := r.W * 0.35
	var tri []surface.Point
	if collapsed {
		tri = surface.Triangle(
			surface.Point{X: cx - h/2, Y: cy - h},
			surface.Point{X: cx + h, Y: cy},
			surface.Point{X: cx - h/2, Y: cy + h},
		)
	} else {
		tri = surface.Triangle(
			surface.Point{X: cx - h, Y: cy - h/2},
			surface.Point{X: cx + h, Y: cy - h/2},
			surface.Point{X: cx, Y: cy + h},
		)
	}
	c.p.FillPolygon(tri, c.st.Text)
}

func (c *ctx) drawEye(r layout.Rect, visible bool) {
	cx, cy := r.X+r.W/2, r.Y+r.H/2
	if visible {
		surface.FillCircle(c.p, cx, cy, r.W*0.3, c.st.Text)
		return
	}
	c.p.Line(surface.Point{X: r.X + 2, Y: r.Y + 2}, surface.Point{X: r.Right() - 2, Y: r.Bottom() - 2}, 1.5, c.st.Playhead)
	c.p.Line(surface.Point{X: r.Right() - 2, Y: r.Y + 2}, surface.Point{X: r.X + 2, Y: r.Bottom() - 2}, 1.5, c.st.Playhead)
}

func (c *ctx) drawLock(r layout.Rect, locked bool) {
	col := c.st.TextDisabled
	if locked {
		col = c.st.Text
	}
	body := layout.Rect{X: r.X + 2, Y: r.Y + r.H*0.45, W: r.W - 4, H: r.H * 0.5}
	if locked {
		c.p.FillRect(body, col)
	} else {
		surface.StrokeRect(c.p, body, 1, col)
	}
	c.p.Polyline([]surface.Point{
		{X: body.X + 2, Y: body.Y},
		{X: body.X + 2, Y: r.Y + 2},
		{X: body.Right() - 2, Y: r.Y + 2},
		{X: body.Right() - 2, Y: body.Y},
	}, 1, col)
}

func (c *ctx) drawOutlineSwatch(r layout.Rect, outline bool) {
	box := inset(r, 2, 2)
	if outline {
		surface.StrokeRect(c.p, box, 1, c.st.Selected)
		return
	}
	c.p.FillRect(box, c.st.Selected)
}

func (c *ctx) drawEditBox(r layout.Rect, text string) {
	box := inset(r, 0, 3)
	c.p.FillRect(box, c.st.Background)
	surface.StrokeRect(c.p, box, 1, c.st.Selected)
	_, th := c.p.MeasureText(text, surface.FontNormal)
	tw, _ := c.p.MeasureText(text, surface.FontNormal)
	ty := box.Y + (box.H-th)/2
	c.p.Text(box.X+2, ty, text, surface.FontNormal, surface.AlignLeft, c.st.Text)
	caret := math.Min(box.Right()-2, box.X+3+tw)
	c.p.Line(surface.Point{X: caret, Y: box.Y + 2}, surface.Point{X: caret, Y: box.Bottom() - 2}, 1, c.st.Text)
}

// drawDropIndicator 图层拖动时的插入位置指示线
func (c *ctx) drawDropIndicator() {
	st := c.f.State
	if st == nil || st.Panel.Reorder == nil || !st.Panel.Reorder.Active {
		return
	}
	r := st.Panel.Reorder
	col := c.st.Selected
	if !r.Valid {
		col = c.st.TextDisabled
	}
	y := r.Y
	if row, ok := c.vp.RowAt(c.f.Rows, r.Y); ok {
		frac := (r.Y - row.Top) / row.Height
		switch {
		case frac < 1.0/3:
			y = row.Top
		case frac > 2.0/3:
			y = row.Bottom()
		default:
			surface.StrokeRect(c.p, inset(layout.Rect{X: 0, Y: row.Top, W: c.vp.LayerPanelWidth, H: row.Height}, 1, 1), 2, col)
			return
		}
	}
	c.p.Line(surface.Point{X: 0, Y: y}, surface.Point{X: c.vp.LayerPanelWidth, Y: y}, 2, col)
}

// rulerStep 选择标尺刻度间隔，使相邻数字至少相隔 minPx 像素
func rulerStep(framePixels, minPx float64) uint32 {
	for _, s := range []uint32{1, 2, 5, 10, 20, 50, 100, 200, 500, 1000} {
		if float64(s)*framePixels >= minPx {
			return s
		}
	}
	return 1000
}

func (c *ctx) drawRuler() {
	ruler := c.vp.RulerRect()
	corner := layout.Rect{X: 0, Y: 0, W: c.vp.LayerPanelWidth, H: c.vp.RulerHeight}
	c.p.FillRect(corner, c.st.LayerBG)
	if ruler.Empty() {
		return
	}
	c.p.PushClip(ruler)
	defer c.p.PopClip()
	c.p.FillRect(ruler, c.st.LayerBG)

	if lr := c.f.Loop; lr != nil {
		x0 := c.vp.FrameToX(lr.In)
		x1 := c.vp.FrameToX(lr.Out) + c.vp.FramePixels()
		col := c.st.LoopRegion
		if !c.f.Looping {
			col = surface.Dim(col, 0.5)
		}
		c.p.FillRect(layout.Rect{X: x0, Y: ruler.Bottom() - 6, W: x1 - x0, H: 6}, col)
	}

	first, last, ok := c.vp.VisibleFrames(c.total)
	if ok {
		fp := c.vp.FramePixels()
		step := rulerStep(fp, 40)
		for f := first; f <= last; f++ {
			x := c.vp.FrameToX(f)
			switch {
			case f%step == 0:
				c.p.Line(surface.Point{X: x, Y: ruler.Bottom() - 10}, surface.Point{X: x, Y: ruler.Bottom()}, 1, c.st.Text)
				c.p.Text(x+2, ruler.Y+2, fmt.Sprintf("%d", f), surface.FontSmall, surface.AlignLeft, c.st.Text)
			case fp >= minFrameLinePixels:
				c.p.Line(surface.Point{X: x, Y: ruler.Bottom() - 4}, surface.Point{X: x, Y: ruler.Bottom()}, 1, c.st.Border)
			}
		}
	}

	for _, l := range c.f.Engine.Labels() {
		col := c.st.Label
		if l.Color != nil {
			col = *l.Color
		}
		c.drawMarker(ruler, l.Frame, l.Text, col)
	}
	for _, cm := range c.f.Engine.Comments() {
		col := model.DefaultCommentColor
		if cm.Color != nil {
			col = *cm.Color
		}
		c.drawMarker(ruler, cm.Frame, "// "+cm.Text, col)
	}

	if st := c.f.State; st != nil && st.Edit != nil && st.Edit.Purpose != interaction.EditLayerName {
		x := c.vp.FrameToX(st.Edit.Frame)
		c.drawEditBox(layout.Rect{X: x, Y: ruler.Y, W: 140, H: ruler.H}, st.Edit.Text)
	}
	c.p.Line(surface.Point{X: ruler.X, Y: ruler.Bottom()}, surface.Point{X: ruler.Right(), Y: ruler.Bottom()}, 1, c.st.Border)
}

// drawMarker 标签或注释：帧左侧的小旗与文字
func (c *ctx) drawMarker(ruler layout.Rect, frame uint32, text string, col color.RGBA) {
	x := c.vp.FrameToX(frame)
	c.p.FillPolygon(surface.Triangle(
		surface.Point{X: x, Y: ruler.Y + 12},
		surface.Point{X: x + 6, Y: ruler.Y + 15},
		surface.Point{X: x, Y: ruler.Y + 18},
	), col)
	c.p.Text(x+8, ruler.Y+12, text, surface.FontSmall, surface.AlignLeft, col)
}

// drawPlayhead 吸附参考线与播放头（标尺把手加贯穿网格的竖线）
func (c *ctx) drawPlayhead() {
	grid := c.vp.GridRect()
	ruler := c.vp.RulerRect()
	clip := layout.Rect{X: grid.X, Y: 0, W: grid.W, H: grid.Bottom()}
	c.p.PushClip(clip)
	defer c.p.PopClip()

	if st := c.f.State; st != nil {
		for _, g := range st.Guides {
			gx := c.vp.ContentToScreen(g)
			c.p.Line(surface.Point{X: gx, Y: ruler.Y}, surface.Point{X: gx, Y: grid.Bottom()}, 1, c.st.SnapGuide)
		}
	}
	if c.total == 0 {
		return
	}
	x := c.vp.FrameCenterX(c.f.Engine.CurrentFrame())
	if x < grid.X || x > grid.Right() {
		return
	}
	c.p.Line(surface.Point{X: x, Y: ruler.Y}, surface.Point{X: x, Y: grid.Bottom()}, 1, c.st.Playhead)
	h := math.Min(6, c.vp.RulerHeight/3)
	c.p.FillPolygon(surface.Triangle(
		surface.Point{X: x - h, Y: ruler.Bottom() - 2*h},
		surface.Point{X: x + h, Y: ruler.Bottom() - 2*h},
		surface.Point{X: x, Y: ruler.Bottom()},
	), c.st.Playhead)
}
