package render

import (
	"github.com/decker502/timeline/pkg/easing"
	"github.com/decker502/timeline/pkg/interaction"
	"github.com/decker502/timeline/pkg/layout"
	"github.com/decker502/timeline/pkg/surface"
	"github.com/decker502/timeline/pkg/timecode"
)

// CurveSamples 缓动曲线预览的采样点数
const CurveSamples = 128

func (c *ctx) drawControls() {
	bar := c.vp.ControlsRect()
	if bar.Empty() {
		return
	}
	c.p.FillRect(bar, c.st.LayerBG)
	c.p.Line(surface.Point{X: bar.X, Y: bar.Y}, surface.Point{X: bar.Right(), Y: bar.Y}, 1, c.st.Border)

	st := c.f.State
	playing := c.f.Engine.IsPlaying()
	for _, b := range interaction.ControlButtons(c.vp) {
		label, _ := interaction.ControlText(c.f.Strings, b.Control, playing)
		active := false
		switch b.Control {
		case interaction.ControlPlay:
			active = playing
		case interaction.ControlLoop:
			active = c.f.Looping
		case interaction.ControlOnion:
			active = st != nil && st.Onion.Enabled
		case interaction.ControlTimeDisplay:
			if st != nil {
				label = st.Display.Short()
			}
		}
		bg := c.st.Background
		if active {
			bg = c.st.Selected
		}
		c.p.FillRect(b.Rect, bg)
		surface.StrokeRect(c.p, b.Rect, 1, c.st.Border)
		_, th := c.p.MeasureText(label, surface.FontSmall)
		c.p.Text(b.Rect.X+b.Rect.W/2, b.Rect.Y+(b.Rect.H-th)/2, label, surface.FontSmall, surface.AlignCenter, c.st.Text)
	}

	mode := timecode.DisplayFrames
	if st != nil {
		mode = st.Display
	}
	ft := timecode.New(c.f.Engine.CurrentFrame(), c.f.Engine.FPS())
	readout := mode.Format(ft)
	_, th := c.p.MeasureText(readout, surface.FontMono)
	ty := bar.Y + (bar.H-th)/2
	c.p.Text(interaction.ControlsTextX(c.vp), ty, readout, surface.FontMono, surface.AlignLeft, c.st.Text)

	status := c.f.Status
	col := c.st.TextDisabled
	if st != nil && st.Message != "" {
		status, col = st.Message, c.st.Label
	}
	if status != "" {
		c.p.Text(bar.Right()-8, ty, status, surface.FontSmall, surface.AlignRight, col)
	}
}

func (c *ctx) drawMenu(m *interaction.ContextMenu) {
	b := m.Bounds()
	c.p.FillRect(b, c.st.MenuBG)
	surface.StrokeRect(c.p, b, 1, c.st.Border)
	for i, it := range m.Items {
		r := m.ItemRect(i)
		if it.Separator() {
			y := r.Y + r.H/2
			c.p.Line(surface.Point{X: r.X + 4, Y: y}, surface.Point{X: r.Right() - 4, Y: y}, 1, c.st.Border)
			continue
		}
		col := c.st.Text
		if !it.Enabled {
			col = c.st.TextDisabled
		} else if i == m.Hover {
			c.p.FillRect(r, c.st.MenuHover)
		}
		_, th := c.p.MeasureText(it.Label, surface.FontNormal)
		c.p.Text(r.X+10, r.Y+(r.H-th)/2, it.Label, surface.FontNormal, surface.AlignLeft, col)
	}
}

// tooltipPad 提示框内边距
const tooltipPad = 4.0

// drawTooltip 在按钮上方绘制提示；放不下时画在按钮下方
func (c *ctx) drawTooltip(tip *interaction.Tooltip) {
	tw, th := c.p.MeasureText(tip.Text, surface.FontSmall)
	r := layout.Rect{X: tip.X, Y: tip.Y - th - 2*tooltipPad - 2, W: tw + 2*tooltipPad, H: th + 2*tooltipPad}
	if r.Y < 0 {
		r.Y = tip.Y + c.vp.ControlsRect().H
	}
	if r.Right() > c.vp.Width {
		r.X = c.vp.Width - r.W
	}
	c.p.FillRect(r, c.st.MenuBG)
	surface.StrokeRect(c.p, r, 1, c.st.Border)
	c.p.Text(r.X+tooltipPad, r.Y+tooltipPad, tip.Text, surface.FontSmall, surface.AlignLeft, c.st.Text)
}

// DrawCurve 在 r 中绘制缓动曲线预览：网格、对角参考线、采样折线与控制点
//
// 参数：
//   - p: 绘制目标
//   - r: 预览区域，t 向右增大、v 向上增大
//   - curve: 要预览的曲线
//   - selected: 高亮的控制点下标，-1 表示无
//   - s: 配色
func DrawCurve(p surface.Painter, r layout.Rect, curve easing.BezierCurve, selected int, s Style) {
	if r.Empty() {
		return
	}
	p.FillRect(r, s.Background)
	for i := 1; i < 4; i++ {
		fx := r.X + r.W*float64(i)/4
		fy := r.Y + r.H*float64(i)/4
		p.Line(surface.Point{X: fx, Y: r.Y}, surface.Point{X: fx, Y: r.Bottom()}, 1, s.Grid)
		p.Line(surface.Point{X: r.X, Y: fy}, surface.Point{X: r.Right(), Y: fy}, 1, s.Grid)
	}
	p.Line(surface.Point{X: r.X, Y: r.Bottom()}, surface.Point{X: r.Right(), Y: r.Y}, 1, s.Border)

	toScreen := func(t, v float64) surface.Point {
		return surface.Point{X: r.X + t*r.W, Y: r.Bottom() - v*r.H}
	}
	samples := curve.Sample(CurveSamples)
	pts := make([]surface.Point, len(samples))
	for i, v := range samples {
		pts[i] = toScreen(float64(v.X), float64(v.Y))
	}
	p.PushClip(r)
	p.Polyline(pts, 2, s.Envelope)
	p.PopClip()

	for i, cp := range curve.Points {
		pos := toScreen(float64(cp.Pos.X), float64(cp.Pos.Y))
		in := toScreen(float64(cp.Pos.X+cp.In.X), float64(cp.Pos.Y+cp.In.Y))
		out := toScreen(float64(cp.Pos.X+cp.Out.X), float64(cp.Pos.Y+cp.Out.Y))
		p.Line(pos, in, 1, s.TextDisabled)
		p.Line(pos, out, 1, s.TextDisabled)
		surface.FillCircle(p, in.X, in.Y, 2.5, s.TextDisabled)
		surface.FillCircle(p, out.X, out.Y, 2.5, s.TextDisabled)
		col := s.Text
		if i == selected {
			col = s.Selected
		}
		surface.FillCircle(p, pos.X, pos.Y, 4, col)
	}
	surface.StrokeRect(p, r, 1, s.Border)
}
