package surface

import (
	"image/color"
	"strings"

	"github.com/decker502/timeline/pkg/layout"
)

// OpKind 记录的绘制指令类型
type OpKind int

const (
	OpFillRect OpKind = iota
	OpLine
	OpPolyline
	OpText
	OpPolygon
	OpPushClip
	OpPopClip
)

// Op 一条绘制指令
type Op struct {
	Kind   OpKind
	Rect   layout.Rect
	Points []Point
	Width  float64
	Text   string
	Font   Font
	Align  Align
	Color  color.RGBA
	Clip   layout.Rect // 指令发出时生效的裁剪区域；零值表示无裁剪
}

// Recorder 记录所有绘制指令的 Painter，用于测试与无界面运行
//
// MeasureText 按等宽近似：每个字符 0.6 * Size 宽，高度为 Size。
type Recorder struct {
	Ops   []Op
	clips []layout.Rect
}

// NewRecorder 创建空记录器
func NewRecorder() *Recorder { return &Recorder{} }

// Reset 清空记录
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
	r.clips = r.clips[:0]
}

func (r *Recorder) clip() layout.Rect {
	if len(r.clips) == 0 {
		return layout.Rect{}
	}
	return r.clips[len(r.clips)-1]
}

func (r *Recorder) add(op Op) {
	op.Clip = r.clip()
	r.Ops = append(r.Ops, op)
}

func (r *Recorder) FillRect(rect layout.Rect, c color.RGBA) {
	r.add(Op{Kind: OpFillRect, Rect: rect, Color: c})
}

func (r *Recorder) Line(from, to Point, width float64, c color.RGBA) {
	r.add(Op{Kind: OpLine, Points: []Point{from, to}, Width: width, Color: c})
}

func (r *Recorder) Polyline(points []Point, width float64, c color.RGBA) {
	r.add(Op{Kind: OpPolyline, Points: append([]Point(nil), points...), Width: width, Color: c})
}

func (r *Recorder) Text(x, y float64, s string, font Font, align Align, c color.RGBA) {
	r.add(Op{Kind: OpText, Points: []Point{{x, y}}, Text: s, Font: font, Align: align, Color: c})
}

func (r *Recorder) FillPolygon(points []Point, c color.RGBA) {
	r.add(Op{Kind: OpPolygon, Points: append([]Point(nil), points...), Color: c})
}

func (r *Recorder) MeasureText(s string, font Font) (float64, float64) {
	return float64(len([]rune(s))) * font.Size * 0.6, font.Size
}

func (r *Recorder) PushClip(rect layout.Rect) {
	if cur := r.clip(); !cur.Empty() {
		rect = rect.Intersect(cur)
	}
	r.clips = append(r.clips, rect)
	r.add(Op{Kind: OpPushClip, Rect: rect})
}

func (r *Recorder) PopClip() {
	if len(r.clips) > 0 {
		r.clips = r.clips[:len(r.clips)-1]
	}
	r.add(Op{Kind: OpPopClip})
}

// ClipDepth 当前裁剪栈深度；一帧绘制结束后应为 0
func (r *Recorder) ClipDepth() int { return len(r.clips) }

// Count 统计某类指令数量
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Texts 返回所有文本指令的内容
func (r *Recorder) Texts() []string {
	var out []string
	for _, op := range r.Ops {
		if op.Kind == OpText {
			out = append(out, op.Text)
		}
	}
	return out
}

// HasText 报告是否绘制过包含 substr 的文本
func (r *Recorder) HasText(substr string) bool {
	for _, s := range r.Texts() {
		if strings.Contains(s, substr) {
			return true
		}
	}
	return false
}

// ColoredRects 返回某颜色的全部填充矩形
func (r *Recorder) ColoredRects(c color.RGBA) []layout.Rect {
	var out []layout.Rect
	for _, op := range r.Ops {
		if op.Kind == OpFillRect && op.Color == c {
			out = append(out, op.Rect)
		}
	}
	return out
}

// Filter 返回满足条件的指令
func (r *Recorder) Filter(keep func(Op) bool) []Op {
	var out []Op
	for _, op := range r.Ops {
		if keep(op) {
			out = append(out, op)
		}
	}
	return out
}
