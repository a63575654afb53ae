package layout

import (
	"github.com/decker502/timeline/pkg/ids"
)

// Row 一行图层轨道：图层 ID 与嵌套深度（深度优先显示顺序）
type Row struct {
	ID    ids.LayerID
	Depth int
}

// CollapseRows 去掉折叠文件夹下的所有后代行
//
// rows 必须是深度优先顺序；collapsed 报告某行是否处于折叠状态。
func CollapseRows(rows []Row, collapsed func(ids.LayerID) bool) []Row {
	out := make([]Row, 0, len(rows))
	hideBelow := -1
	for _, r := range rows {
		if hideBelow >= 0 {
			if r.Depth > hideBelow {
				continue
			}
			hideBelow = -1
		}
		out = append(out, r)
		if collapsed != nil && collapsed(r.ID) {
			hideBelow = r.Depth
		}
	}
	return out
}

// PlacedRow 带屏幕纵向位置的行
type PlacedRow struct {
	Row
	Index  int
	Top    float64
	Height float64
}

// Bottom 行的下边界
func (p PlacedRow) Bottom() float64 { return p.Top + p.Height }

// PlaceRows 计算每一行的屏幕纵坐标：top(i) = 标尺高度 + 前 i 行高度之和 − scrollY
func (v *Viewport) PlaceRows(rows []Row) []PlacedRow {
	out := make([]PlacedRow, len(rows))
	y := v.RulerHeight - v.scrollY
	for i, r := range rows {
		h := v.TrackHeightOf(r.ID)
		out[i] = PlacedRow{Row: r, Index: i, Top: y, Height: h}
		y += h
	}
	return out
}

// VisibleRows 只保留与轨道区域有交集的行
func (v *Viewport) VisibleRows(rows []Row) []PlacedRow {
	grid := v.GridRect()
	placed := v.PlaceRows(rows)
	out := placed[:0]
	for _, p := range placed {
		if p.Bottom() > grid.Y && p.Top < grid.Bottom() {
			out = append(out, p)
		}
	}
	return out
}

// RowAt 返回屏幕纵坐标 y 所在的行
func (v *Viewport) RowAt(rows []Row, y float64) (PlacedRow, bool) {
	grid := v.GridRect()
	if y < grid.Y || y >= grid.Bottom() {
		return PlacedRow{}, false
	}
	for _, p := range v.PlaceRows(rows) {
		if y >= p.Top && y < p.Bottom() {
			return p, true
		}
	}
	return PlacedRow{}, false
}

// CellRect 单元格的屏幕矩形
func (v *Viewport) CellRect(row PlacedRow, frame uint32) Rect {
	return Rect{X: v.FrameToX(frame), Y: row.Top, W: v.FramePixels(), H: row.Height}
}

// Region 控件内的区域
type Region int

const (
	RegionNone Region = iota
	RegionRuler
	RegionLayerPanel
	RegionGrid
	RegionControls
	RegionCorner // 标尺左侧、面板上方的空角
)

// String 返回区域名称
func (r Region) String() string {
	switch r {
	case RegionRuler:
		return "Ruler"
	case RegionLayerPanel:
		return "LayerPanel"
	case RegionGrid:
		return "Grid"
	case RegionControls:
		return "Controls"
	case RegionCorner:
		return "Corner"
	default:
		return "None"
	}
}

// Hit 点击命中的位置
type Hit struct {
	Region Region
	Row    PlacedRow
	HasRow bool
	Frame  int // 未截断的帧号，可能越界
}

// HitTest 对屏幕坐标做区域命中测试
func (v *Viewport) HitTest(rows []Row, x, y float64) Hit {
	if x < 0 || y < 0 || x >= v.Width || y >= v.Height {
		return Hit{Region: RegionNone}
	}
	if v.ControlsRect().Contains(x, y) {
		return Hit{Region: RegionControls}
	}
	h := Hit{Frame: v.XToFrame(x)}
	switch {
	case y < v.RulerHeight && x < v.LayerPanelWidth:
		h.Region = RegionCorner
		return h
	case y < v.RulerHeight:
		h.Region = RegionRuler
		return h
	case x < v.LayerPanelWidth:
		h.Region = RegionLayerPanel
	default:
		h.Region = RegionGrid
	}
	h.Row, h.HasRow = v.RowAt(rows, y)
	return h
}

// RowsInRange 返回与纵向区间 [y0, y1] 相交的行
func (v *Viewport) RowsInRange(rows []Row, y0, y1 float64) []PlacedRow {
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	var out []PlacedRow
	for _, p := range v.PlaceRows(rows) {
		if p.Bottom() > y0 && p.Top <= y1 {
			out = append(out, p)
		}
	}
	return out
}

// FramesInRange 返回与横向区间 [x0, x1] 相交的帧范围，截断到 [0, total)
func (v *Viewport) FramesInRange(x0, x1 float64, total uint32) (first, last uint32, ok bool) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	f0, f1 := v.XToFrame(x0), v.XToFrame(x1)
	if f1 < 0 || total == 0 || f0 >= int(total) {
		return 0, 0, false
	}
	return ClampFrame(f0, total), ClampFrame(f1, total), true
}
