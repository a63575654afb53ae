package layout

// Rect 轴对齐矩形（像素）
type Rect struct {
	X, Y, W, H float64
}

// Right 右边界
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom 下边界
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Empty 报告矩形是否没有面积
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Contains 报告点是否位于矩形内（左上闭、右下开）
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Intersect 返回两个矩形的交集；不相交时返回零值
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := maxf(r.X, o.X), maxf(r.Y, o.Y)
	x1, y1 := minf(r.Right(), o.Right()), minf(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Overlaps 报告两个矩形是否有公共面积
func (r Rect) Overlaps(o Rect) bool { return !r.Intersect(o).Empty() }

// RectFromPoints 由任意两个对角点构造矩形（用于框选）
func RectFromPoints(x0, y0, x1, y1 float64) Rect {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
