// Package easing 实现补间属性插值使用的分段三次贝塞尔缓动曲线
//
// 曲线定义在归一化空间 (t, v) ∈ [0,1]² 中：t 为补间进度，v 为缓动后的进度。
// 每个控制点携带入切线和出切线手柄（相对于控制点位置）。
// 相邻两点与它们的手柄组成一段三次贝塞尔；求值时先按 t 二分查找所在段，
// 再在该段内求解 x(s) = t 得到参数 s，最后返回 y(s) 并截断到 [0,1]。
package easing

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// MinSamples 预览绘制的最少采样数
const MinSamples = 100

// pointEpsilon 拖动控制点时与相邻点保持的最小间距
const pointEpsilon = 1e-4

// 编辑错误
var (
	ErrTooFewPoints  = errors.New("curve must keep at least two points")
	ErrEndpoint      = errors.New("curve endpoints cannot be removed")
	ErrPointIndex    = errors.New("control point index out of range")
	ErrPointOccupied = errors.New("a control point already exists at this position")
)

// Vec2 归一化空间中的二维向量
type Vec2 struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
}

// Add 向量加法
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// BezierPoint 曲线控制点
type BezierPoint struct {
	Pos Vec2 `yaml:"pos"` // 位置 (t, v)
	In  Vec2 `yaml:"in"`  // 入切线手柄（相对位置）
	Out Vec2 `yaml:"out"` // 出切线手柄（相对位置）
}

// BezierCurve 分段三次贝塞尔缓动曲线
//
// 不变量：
//   - 至少两个控制点
//   - 首点 t=0，末点 t=1
//   - 控制点 t 严格递增
type BezierCurve struct {
	Points []BezierPoint `yaml:"points"`
}

// Clone 深拷贝曲线
func (c BezierCurve) Clone() BezierCurve {
	out := BezierCurve{Points: make([]BezierPoint, len(c.Points))}
	copy(out.Points, c.Points)
	return out
}

// Equal 报告两条曲线的控制点是否完全一致
func (c BezierCurve) Equal(o BezierCurve) bool {
	if len(c.Points) != len(o.Points) {
		return false
	}
	for i := range c.Points {
		if c.Points[i] != o.Points[i] {
			return false
		}
	}
	return true
}

// Validate 检查曲线不变量
func (c BezierCurve) Validate() error {
	if len(c.Points) < 2 {
		return ErrTooFewPoints
	}
	if c.Points[0].Pos.X != 0 {
		return fmt.Errorf("first point must have t=0, got %v", c.Points[0].Pos.X)
	}
	if last := c.Points[len(c.Points)-1].Pos.X; last != 1 {
		return fmt.Errorf("last point must have t=1, got %v", last)
	}
	for i := 1; i < len(c.Points); i++ {
		if c.Points[i].Pos.X <= c.Points[i-1].Pos.X {
			return fmt.Errorf("point %d: t=%v not greater than previous t=%v", i, c.Points[i].Pos.X, c.Points[i-1].Pos.X)
		}
	}
	for i, p := range c.Points {
		if p.Pos.Y < 0 || p.Pos.Y > 1 {
			return fmt.Errorf("point %d: v=%v outside [0,1]", i, p.Pos.Y)
		}
	}
	return nil
}

// Evaluate 在进度 t 处求值
//
// 参数：
//   - t: 补间进度，超出 [0,1] 时截断
//
// 返回：
//   - float32: 缓动后的进度，截断到 [0,1]
func (c BezierCurve) Evaluate(t float32) float32 {
	if len(c.Points) < 2 {
		return clamp01(t)
	}
	t = clamp01(t)
	i := c.segmentAt(t)
	return clamp01(float32(evalSegment(c.Points[i], c.Points[i+1], float64(t))))
}

// segmentAt 二分查找包含 t 的段，返回段起点索引
func (c BezierCurve) segmentAt(t float32) int {
	n := len(c.Points)
	// 第一个 Pos.X > t 的点，其前一个点即为段起点
	j := sort.Search(n, func(k int) bool { return c.Points[k].Pos.X > t })
	i := j - 1
	if i < 0 {
		i = 0
	}
	if i > n-2 {
		i = n - 2
	}
	return i
}

// Sample 在 [0,1] 上等间距采样，用于预览折线
//
// 采样数少于 MinSamples 时按 MinSamples 处理；返回 n+1 个点（含两端）。
func (c BezierCurve) Sample(n int) []Vec2 {
	if n < MinSamples {
		n = MinSamples
	}
	out := make([]Vec2, 0, n+1)
	for i := 0; i <= n; i++ {
		t := float32(i) / float32(n)
		out = append(out, Vec2{X: t, Y: c.Evaluate(t)})
	}
	return out
}

// evalSegment 在 a→b 段上求解 x(s)=t 并返回 y(s)
func evalSegment(a, b BezierPoint, t float64) float64 {
	x0, y0 := float64(a.Pos.X), float64(a.Pos.Y)
	x1, y1 := x0+float64(a.Out.X), y0+float64(a.Out.Y)
	x3, y3 := float64(b.Pos.X), float64(b.Pos.Y)
	x2, y2 := x3+float64(b.In.X), y3+float64(b.In.Y)

	if t <= x0 {
		return y0
	}
	if t >= x3 {
		return y3
	}

	// 初始猜测：段内线性位置
	s := (t - x0) / (x3 - x0)
	solved := false
	for i := 0; i < 8; i++ {
		dx := cubic(x0, x1, x2, x3, s) - t
		if math.Abs(dx) < 1e-7 {
			solved = true
			break
		}
		d := cubicDerivative(x0, x1, x2, x3, s)
		if math.Abs(d) < 1e-7 {
			break
		}
		s -= dx / d
		if s < 0 || s > 1 {
			break
		}
	}

	if !solved {
		// 退化为二分，保证稳定收敛
		lo, hi := 0.0, 1.0
		s = 0.5
		for i := 0; i < 40; i++ {
			dx := cubic(x0, x1, x2, x3, s) - t
			if math.Abs(dx) < 1e-9 {
				break
			}
			if dx > 0 {
				hi = s
			} else {
				lo = s
			}
			s = (lo + hi) * 0.5
		}
	}

	return cubic(y0, y1, y2, y3, s)
}

// cubic B(s) = (1-s)³P₀ + 3(1-s)²sP₁ + 3(1-s)s²P₂ + s³P₃
func cubic(p0, p1, p2, p3, s float64) float64 {
	u := 1 - s
	return u*u*u*p0 + 3*u*u*s*p1 + 3*u*s*s*p2 + s*s*s*p3
}

func cubicDerivative(p0, p1, p2, p3, s float64) float64 {
	u := 1 - s
	return 3*u*u*(p1-p0) + 6*u*s*(p2-p1) + 3*s*s*(p3-p2)
}

// clamp01 把 v 截断到 [0,1]；NaN 视为 0
func clamp01(v float32) float32 {
	if v < 0 || math.IsNaN(float64(v)) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
