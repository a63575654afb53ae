package interaction

import (
	"github.com/decker502/timeline/pkg/i18n"
	"github.com/decker502/timeline/pkg/layout"
)

// 图层面板与控制栏的布局常量
const (
	panelIconSize   = 14.0
	panelIndent     = 12.0
	controlButtonW  = 28.0
	controlButtonH  = 24.0
	controlSpacing  = 4.0
	reorderDeadZone = 4.0
)

// Control 控制栏按钮
type Control int

const (
	ControlFirst Control = iota
	ControlPrev
	ControlPlay
	ControlNext
	ControlLast
	ControlLoop
	ControlOnion
	ControlTimeDisplay
	ControlZoomOut
	ControlZoomIn
)

// controlPause 播放中的播放按钮；不占控制栏位置
const controlPause Control = -1

var controlKeys = map[Control]string{
	ControlFirst:       "first_frame",
	ControlPrev:        "prev_frame",
	ControlPlay:        "play",
	controlPause:       "pause",
	ControlNext:        "next_frame",
	ControlLast:        "last_frame",
	ControlLoop:        "loop",
	ControlOnion:       "onion",
	ControlTimeDisplay: "time_display",
	ControlZoomOut:     "zoom_out",
	ControlZoomIn:      "zoom_in",
}

// ControlText 按钮的文字与悬停提示
//
// 参数：
//   - s: 字符串表，nil 时使用 i18n.Default()
//   - c: 按钮
//   - playing: 正在播放时播放按钮显示为暂停
func ControlText(s *i18n.Strings, c Control, playing bool) (label, tooltip string) {
	if c == ControlPlay && playing {
		c = controlPause
	}
	k := "controls." + controlKeys[c]
	return s.Get(k + ".label"), s.Get(k + ".tooltip")
}

// ControlButton 控制栏中的一个按钮
type ControlButton struct {
	Control Control
	Rect    layout.Rect
}

// ControlButtons 按从左到右的顺序返回控制栏按钮
func ControlButtons(vp *layout.Viewport) []ControlButton {
	bar := vp.ControlsRect()
	y := bar.Y + (bar.H-controlButtonH)/2
	x := bar.X + 8
	out := make([]ControlButton, 0, int(ControlZoomIn)+1)
	for c := ControlFirst; c <= ControlZoomIn; c++ {
		out = append(out, ControlButton{Control: c, Rect: layout.Rect{X: x, Y: y, W: controlButtonW, H: controlButtonH}})
		x += controlButtonW + controlSpacing
	}
	return out
}

// ControlsTextX 控制栏中时间读数的起始横坐标
func ControlsTextX(vp *layout.Viewport) float64 {
	btns := ControlButtons(vp)
	return btns[len(btns)-1].Rect.Right() + 12
}

// PanelIcons 图层行内的可点击区域
type PanelIcons struct {
	Toggle  layout.Rect // 文件夹展开/折叠三角；非文件夹为空矩形
	Name    layout.Rect
	Eye     layout.Rect
	Lock    layout.Rect
	Outline layout.Rect
}

// RowIcons 计算图层行的图标位置
func RowIcons(vp *layout.Viewport, row layout.PlacedRow, folder bool) PanelIcons {
	w := vp.LayerPanelWidth
	cy := row.Top + (row.Height-panelIconSize)/2
	icon := func(x float64) layout.Rect {
		return layout.Rect{X: x, Y: cy, W: panelIconSize, H: panelIconSize}
	}
	indent := 4 + float64(row.Depth)*panelIndent
	p := PanelIcons{
		Outline: icon(w - 4 - panelIconSize),
		Lock:    icon(w - 8 - 2*panelIconSize),
		Eye:     icon(w - 12 - 3*panelIconSize),
	}
	nameX := indent
	if folder {
		p.Toggle = icon(indent)
		nameX += panelIconSize + 4
	}
	p.Name = layout.Rect{X: nameX, Y: row.Top, W: p.Eye.X - 4 - nameX, H: row.Height}
	return p
}
