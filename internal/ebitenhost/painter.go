// Package ebitenhost 用 Ebitengine 实现时间轴的宿主接口：绘制表面、输入轮询与系统剪贴板
package ebitenhost

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/decker502/timeline/pkg/layout"
	"github.com/decker502/timeline/pkg/surface"
)

// Fonts 文本绘制使用的字体源
type Fonts struct {
	Regular *text.GoTextFaceSource
	Mono    *text.GoTextFaceSource
}

// LoadFonts 加载内置的 Go 字体
func LoadFonts() (*Fonts, error) {
	regular, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("failed to load regular font: %w", err)
	}
	mono, err := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))
	if err != nil {
		return nil, fmt.Errorf("failed to load mono font: %w", err)
	}
	return &Fonts{Regular: regular, Mono: mono}, nil
}

// whitePixel DrawTriangles 的纹理源
var whitePixel = func() *ebiten.Image {
	img := ebiten.NewImage(3, 3)
	img.Fill(color.White)
	return img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}()

// Painter 在 ebiten.Image 上实现 surface.Painter
//
// 裁剪通过子图像实现：ebiten 的子图像与父图像共享坐标系。
type Painter struct {
	root  *ebiten.Image
	clips []*ebiten.Image
	fonts *Fonts
	faces map[surface.Font]*text.GoTextFace
}

// NewPainter 创建绘制器；每帧调用 Begin 绑定屏幕
func NewPainter(fonts *Fonts) *Painter {
	return &Painter{fonts: fonts, faces: make(map[surface.Font]*text.GoTextFace)}
}

// Begin 绑定本帧的目标图像并清空裁剪栈
func (p *Painter) Begin(dst *ebiten.Image) {
	p.root = dst
	p.clips = p.clips[:0]
}

func (p *Painter) dst() *ebiten.Image {
	if n := len(p.clips); n > 0 {
		return p.clips[n-1]
	}
	return p.root
}

func (p *Painter) face(f surface.Font) *text.GoTextFace {
	if face, ok := p.faces[f]; ok {
		return face
	}
	src := p.fonts.Regular
	if f.Mono {
		src = p.fonts.Mono
	}
	face := &text.GoTextFace{Source: src, Size: f.Size}
	p.faces[f] = face
	return face
}

// FillRect 填充矩形
func (p *Painter) FillRect(r layout.Rect, c color.RGBA) {
	if r.Empty() {
		return
	}
	vector.DrawFilledRect(p.dst(), float32(r.X), float32(r.Y), float32(r.W), float32(r.H), c, false)
}

// Line 绘制线段
func (p *Painter) Line(from, to surface.Point, width float64, c color.RGBA) {
	vector.StrokeLine(p.dst(), float32(from.X), float32(from.Y), float32(to.X), float32(to.Y), float32(width), c, true)
}

// Polyline 绘制折线
func (p *Painter) Polyline(points []surface.Point, width float64, c color.RGBA) {
	for i := 1; i < len(points); i++ {
		p.Line(points[i-1], points[i], width, c)
	}
}

// FillPolygon 以扇形三角化填充凸多边形
func (p *Painter) FillPolygon(points []surface.Point, c color.RGBA) {
	if len(points) < 3 {
		return
	}
	r, g, b, a := float32(c.R)/255, float32(c.G)/255, float32(c.B)/255, float32(c.A)/255
	vs := make([]ebiten.Vertex, len(points))
	for i, pt := range points {
		vs[i] = ebiten.Vertex{
			DstX:   float32(pt.X),
			DstY:   float32(pt.Y),
			SrcX:   1,
			SrcY:   1,
			ColorR: r,
			ColorG: g,
			ColorB: b,
			ColorA: a,
		}
	}
	is := make([]uint16, 0, 3*(len(points)-2))
	for i := 1; i < len(points)-1; i++ {
		is = append(is, 0, uint16(i), uint16(i+1))
	}
	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	p.dst().DrawTriangles(vs, is, whitePixel, op)
}

// Text 绘制文本；(x, y) 是文本框顶边上的对齐点
func (p *Painter) Text(x, y float64, s string, f surface.Font, align surface.Align, c color.RGBA) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	switch align {
	case surface.AlignCenter:
		op.PrimaryAlign = text.AlignCenter
	case surface.AlignRight:
		op.PrimaryAlign = text.AlignEnd
	}
	text.Draw(p.dst(), s, p.face(f), op)
}

// MeasureText 测量文本尺寸
func (p *Painter) MeasureText(s string, f surface.Font) (float64, float64) {
	face := p.face(f)
	return text.Measure(s, face, face.Size*1.2)
}

// PushClip 压入裁剪矩形，与当前裁剪区域取交集
func (p *Painter) PushClip(r layout.Rect) {
	cur := p.dst()
	rect := image.Rect(int(r.X), int(r.Y), int(r.Right()+0.5), int(r.Bottom()+0.5)).Intersect(cur.Bounds())
	p.clips = append(p.clips, cur.SubImage(rect).(*ebiten.Image))
}

// PopClip 弹出裁剪矩形
func (p *Painter) PopClip() {
	if n := len(p.clips); n > 0 {
		p.clips = p.clips[:n-1]
	}
}

var _ surface.Painter = (*Painter)(nil)
