// Package surface 宿主绘制表面（HostSurface）的抽象
//
// 时间轴只通过 Painter 输出绘制指令，不关心控件语义。
package surface

import (
	"image/color"
	"math"

	"github.com/decker502/timeline/pkg/layout"
)

// Point 像素坐标点
type Point struct {
	X, Y float64
}

// Align 文本对齐
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Font 字体描述
type Font struct {
	Size float64
	Mono bool
}

// 常用字号
var (
	FontSmall  = Font{Size: 10}
	FontNormal = Font{Size: 12}
	FontMono   = Font{Size: 12, Mono: true}
)

// Painter 宿主提供的绘制接口
//
// Text 的 (x, y) 是文本框顶边上的对齐点：AlignLeft 为左上角，AlignCenter 为顶边中点。
// PushClip 与 PopClip 必须成对调用，裁剪区域取嵌套的交集。
type Painter interface {
	FillRect(r layout.Rect, c color.RGBA)
	Line(from, to Point, width float64, c color.RGBA)
	Polyline(points []Point, width float64, c color.RGBA)
	Text(x, y float64, s string, font Font, align Align, c color.RGBA)
	FillPolygon(points []Point, c color.RGBA)
	MeasureText(s string, font Font) (w, h float64)
	PushClip(r layout.Rect)
	PopClip()
}

// StrokeRect 用四条线段描边矩形
func StrokeRect(p Painter, r layout.Rect, width float64, c color.RGBA) {
	tl, tr := Point{r.X, r.Y}, Point{r.Right(), r.Y}
	br, bl := Point{r.Right(), r.Bottom()}, Point{r.X, r.Bottom()}
	p.Polyline([]Point{tl, tr, br, bl, tl}, width, c)
}

// FillCircle 用正多边形近似填充圆
func FillCircle(p Painter, cx, cy, radius float64, c color.RGBA) {
	p.FillPolygon(CirclePoints(cx, cy, radius, 16), c)
}

// CirclePoints 返回圆周上均匀分布的 n 个点
func CirclePoints(cx, cy, radius float64, n int) []Point {
	if n < 3 {
		n = 3
	}
	pts := make([]Point, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = Point{X: cx + radius*math.Cos(a), Y: cy + radius*math.Sin(a)}
	}
	return pts
}

// Triangle 返回三角形顶点（用于播放头把手与折叠箭头）
func Triangle(a, b, c Point) []Point { return []Point{a, b, c} }

// Dim 把颜色的 alpha 乘以 factor（隐藏图层的内容变暗绘制）
func Dim(c color.RGBA, factor float64) color.RGBA {
	if factor < 0 {
		factor = 0
	}
	if factor > 1 {
		factor = 1
	}
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: uint8(float64(c.A) * factor),
	}
}
