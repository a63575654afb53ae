package easing

import "math"

// Handle 手柄选择
type Handle int

const (
	HandleIn Handle = iota
	HandleOut
)

// AddPoint 在 (t, v) 处插入控制点，保持 t 有序
//
// t 必须严格位于 (0,1) 内且不与已有控制点重合。
// 新点的手柄沿曲线在该处的切线方向，长度为相邻间距的三分之一。
//
// 返回：
//   - int: 新控制点的索引
//   - error: t 越界或位置已被占用
func (c *BezierCurve) AddPoint(t, v float32) (int, error) {
	if len(c.Points) < 2 {
		return 0, ErrTooFewPoints
	}
	if t <= 0 || t >= 1 {
		return 0, ErrPointIndex
	}
	i := c.segmentAt(t)
	prev, next := c.Points[i], c.Points[i+1]
	if t-prev.Pos.X < pointEpsilon || next.Pos.X-t < pointEpsilon {
		return 0, ErrPointOccupied
	}

	const h = 1e-3
	slope := (c.Evaluate(t+h) - c.Evaluate(t-h)) / (2 * h)
	left := (t - prev.Pos.X) / 3
	right := (next.Pos.X - t) / 3

	p := BezierPoint{
		Pos: Vec2{X: t, Y: clamp01(v)},
		In:  Vec2{X: -left, Y: -left * slope},
		Out: Vec2{X: right, Y: right * slope},
	}

	idx := i + 1
	c.Points = append(c.Points, BezierPoint{})
	copy(c.Points[idx+1:], c.Points[idx:])
	c.Points[idx] = p
	return idx, nil
}

// DeletePoint 删除内部控制点
//
// 端点不可删除，曲线永远保留至少两个点。
func (c *BezierCurve) DeletePoint(i int) error {
	if len(c.Points) <= 2 {
		return ErrTooFewPoints
	}
	if i < 0 || i >= len(c.Points) {
		return ErrPointIndex
	}
	if i == 0 || i == len(c.Points)-1 {
		return ErrEndpoint
	}
	c.Points = append(c.Points[:i], c.Points[i+1:]...)
	return nil
}

// MovePoint 拖动控制点到 (t, v)
//
// 内部点的 t 截断在 (t_prev, t_next) 开区间内；端点的 t 固定为 0 或 1。
// v 截断到 [0,1]。
func (c *BezierCurve) MovePoint(i int, t, v float32) error {
	if i < 0 || i >= len(c.Points) {
		return ErrPointIndex
	}
	switch {
	case i == 0:
		t = 0
	case i == len(c.Points)-1:
		t = 1
	default:
		lo := c.Points[i-1].Pos.X + pointEpsilon
		hi := c.Points[i+1].Pos.X - pointEpsilon
		if lo > hi {
			t = (lo + hi) / 2
			break
		}
		if t < lo || math.IsNaN(float64(t)) {
			t = lo
		}
		if t > hi {
			t = hi
		}
	}
	c.Points[i].Pos = Vec2{X: t, Y: clamp01(v)}
	return nil
}

// MoveHandle 设置控制点的手柄（相对位置，不做截断）
func (c *BezierCurve) MoveHandle(i int, which Handle, rel Vec2) error {
	if i < 0 || i >= len(c.Points) {
		return ErrPointIndex
	}
	if which == HandleIn {
		c.Points[i].In = rel
	} else {
		c.Points[i].Out = rel
	}
	return nil
}

// NearestPoint 返回与 (t, v) 距离最近的控制点索引及距离平方
func (c BezierCurve) NearestPoint(t, v float32) (int, float32) {
	best, bestD := -1, float32(0)
	for i, p := range c.Points {
		dx, dy := p.Pos.X-t, p.Pos.Y-v
		d := dx*dx + dy*dy
		if best < 0 || d < bestD {
			best, bestD = i, d
		}
	}
	return best, bestD
}
