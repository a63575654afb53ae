// Package render 把时间轴状态翻译成 surface.Painter 绘制指令
//
// 渲染是纯函数式的：同样的 Frame 输入总是产生同样的指令序列，
// 只有可见区域内的帧会向引擎查询 FrameData。
package render

import (
	"fmt"
	"image/color"
	"strings"
)

// Style 时间轴配色
type Style struct {
	Background   color.RGBA
	Grid         color.RGBA
	LayerBG      color.RGBA
	Selected     color.RGBA
	FrameEmpty   color.RGBA
	Keyframe     color.RGBA
	Tween        color.RGBA
	Playhead     color.RGBA
	Border       color.RGBA
	Text         color.RGBA
	SnapGuide    color.RGBA
	Onion        color.RGBA
	Label        color.RGBA
	LoopRegion   color.RGBA
	Waveform     color.RGBA
	Envelope     color.RGBA
	MenuBG       color.RGBA
	MenuHover    color.RGBA
	TextDisabled color.RGBA
}

func gray(v uint8) color.RGBA { return color.RGBA{R: v, G: v, B: v, A: 255} }

// DefaultStyle 默认深色主题
func DefaultStyle() Style {
	return Style{
		Background:   gray(40),
		Grid:         gray(60),
		LayerBG:      gray(50),
		Selected:     color.RGBA{R: 70, G: 130, B: 180, A: 255},
		FrameEmpty:   gray(45),
		Keyframe:     gray(20),
		Tween:        color.RGBA{R: 100, G: 100, B: 150, A: 255},
		Playhead:     color.RGBA{R: 255, A: 255},
		Border:       gray(80),
		Text:         gray(220),
		SnapGuide:    color.RGBA{R: 255, G: 255, A: 255},
		Onion:        color.RGBA{R: 120, G: 160, B: 90, A: 255},
		Label:        color.RGBA{R: 255, G: 80, B: 80, A: 255},
		LoopRegion:   color.RGBA{R: 90, G: 140, B: 90, A: 255},
		Waveform:     color.RGBA{R: 100, G: 200, B: 120, A: 255},
		Envelope:     color.RGBA{R: 255, G: 200, B: 60, A: 255},
		MenuBG:       gray(55),
		MenuHover:    color.RGBA{R: 70, G: 130, B: 180, A: 255},
		TextDisabled: gray(120),
	}
}

// ParseHex 解析 "#rrggbb" 或 "#rrggbbaa"
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	var c color.RGBA
	switch len(h) {
	case 6:
		if _, err := fmt.Sscanf(h, "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
			return c, fmt.Errorf("parse color %q: %w", s, err)
		}
		c.A = 255
	case 8:
		if _, err := fmt.Sscanf(h, "%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A); err != nil {
			return c, fmt.Errorf("parse color %q: %w", s, err)
		}
	default:
		return c, fmt.Errorf("parse color %q: expected #rrggbb or #rrggbbaa", s)
	}
	return c, nil
}

// Hex 格式化为 "#rrggbb"（不透明时）或 "#rrggbbaa"
func Hex(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
