// Package layout 时间轴视口：缩放与滚动状态、(帧, 图层) 与像素之间的映射、可见范围裁剪
//
// 坐标系：
//   - 屏幕坐标：相对于时间轴控件左上角
//   - 内容坐标：帧网格内容的横向坐标，frame * frameWidth * zoom，不含面板宽度与滚动
//
// 控件自上而下分为标尺、图层轨道、控制栏三段；左侧是图层面板。
package layout

import (
	"math"

	"github.com/decker502/timeline/pkg/ids"
)

// 缩放范围
const (
	MinZoom = 0.1
	MaxZoom = 5.0
)

// Metrics 视口的固定尺寸参数
type Metrics struct {
	LayerPanelWidth float64
	RulerHeight     float64
	ControlsHeight  float64
	TrackHeight     float64 // 默认轨道高度
	FrameWidth      float64 // zoom = 1 时每帧宽度
}

// DefaultMetrics 返回默认尺寸：面板 200、标尺 30、控制栏 40、轨道 30、帧宽 10
func DefaultMetrics() Metrics {
	return Metrics{
		LayerPanelWidth: 200,
		RulerHeight:     30,
		ControlsHeight:  40,
		TrackHeight:     30,
		FrameWidth:      10,
	}
}

// Viewport 缩放、滚动与轨道高度状态
type Viewport struct {
	Metrics

	// Width, Height 控件在屏幕上的尺寸
	Width, Height float64

	zoom    float64
	scrollX float64
	scrollY float64
	heights map[ids.LayerID]float64
}

// New 创建 zoom = 1、无滚动的视口
func New(m Metrics, width, height float64) *Viewport {
	return &Viewport{
		Metrics: m,
		Width:   width,
		Height:  height,
		zoom:    1,
		heights: make(map[ids.LayerID]float64),
	}
}

// Resize 更新控件尺寸
func (v *Viewport) Resize(width, height float64) {
	v.Width, v.Height = width, height
}

// Zoom 当前缩放
func (v *Viewport) Zoom() float64 { return v.zoom }

// ScrollX 横向滚动量
func (v *Viewport) ScrollX() float64 { return v.scrollX }

// ScrollY 纵向滚动量
func (v *Viewport) ScrollY() float64 { return v.scrollY }

// SetZoom 设置缩放，超出 [MinZoom, MaxZoom] 时饱和
func (v *Viewport) SetZoom(z float64) {
	v.zoom = clampZoom(z, v.zoom)
}

// ZoomAt 以屏幕横坐标 cursorX 为锚点缩放：缩放前后光标下的帧位置不变
func (v *Viewport) ZoomAt(z, cursorX float64) {
	local := cursorX - v.LayerPanelWidth
	frame := (local + v.scrollX) / v.FramePixels()
	v.zoom = clampZoom(z, v.zoom)
	v.scrollX = math.Max(0, frame*v.FramePixels()-local)
}

// clampZoom 把 z 限制在 [MinZoom, MaxZoom]；NaN 保持 cur 不变
func clampZoom(z, cur float64) float64 {
	if math.IsNaN(z) {
		return cur
	}
	return math.Min(MaxZoom, math.Max(MinZoom, z))
}

// ZoomBy 按倍数缩放（滚轮缩放使用）
func (v *Viewport) ZoomBy(factor, cursorX float64) {
	v.ZoomAt(v.zoom*factor, cursorX)
}

// SetScroll 设置滚动量，负数截断为 0
func (v *Viewport) SetScroll(x, y float64) {
	v.scrollX = math.Max(0, x)
	v.scrollY = math.Max(0, y)
}

// ScrollBy 相对滚动
func (v *Viewport) ScrollBy(dx, dy float64) {
	v.SetScroll(v.scrollX+dx, v.scrollY+dy)
}

// ClampScroll 把滚动量限制在内容范围内
//
// 参数：
//   - totalFrames: 场景帧数
//   - rows: 当前显示的图层行
func (v *Viewport) ClampScroll(totalFrames uint32, rows []Row) {
	maxX := math.Max(0, v.ContentWidth(totalFrames)-v.GridRect().W)
	maxY := math.Max(0, v.ContentHeight(rows)-v.GridRect().H)
	v.scrollX = math.Min(v.scrollX, maxX)
	v.scrollY = math.Min(v.scrollY, maxY)
}

// FramePixels 当前缩放下每帧的像素宽度
func (v *Viewport) FramePixels() float64 { return v.FrameWidth * v.zoom }

// FrameToX 帧左边缘的屏幕横坐标
func (v *Viewport) FrameToX(frame uint32) float64 {
	return v.LayerPanelWidth + float64(frame)*v.FramePixels() - v.scrollX
}

// FrameCenterX 帧中心的屏幕横坐标
func (v *Viewport) FrameCenterX(frame uint32) float64 {
	return v.FrameToX(frame) + v.FramePixels()/2
}

// ContentX 帧在内容坐标系中的横坐标
func (v *Viewport) ContentX(frame uint32) float64 {
	return float64(frame) * v.FramePixels()
}

// ScreenToContent 屏幕横坐标转内容坐标
func (v *Viewport) ScreenToContent(x float64) float64 {
	return x - v.LayerPanelWidth + v.scrollX
}

// ContentToScreen 内容坐标转屏幕横坐标
func (v *Viewport) ContentToScreen(cx float64) float64 {
	return cx + v.LayerPanelWidth - v.scrollX
}

// XToFrame 屏幕横坐标对应的帧号（向下取整，可能为负）
func (v *Viewport) XToFrame(x float64) int {
	return ContentToFrame(v.ScreenToContent(x), v.FramePixels())
}

// ContentToFrame 内容坐标转帧号：floor(cx / framePixels)，带 1e-4 容差
//
// 容差保证吸附到帧边缘的坐标不会因浮点误差落入前一帧。
func ContentToFrame(cx, framePixels float64) int {
	if framePixels <= 0 {
		return 0
	}
	return int(math.Floor(cx/framePixels + 1e-4))
}

// ClampFrame 把可能为负或越界的帧号截断到 [0, total)
func ClampFrame(frame int, total uint32) uint32 {
	if frame < 0 || total == 0 {
		return 0
	}
	if uint32(frame) >= total {
		return total - 1
	}
	return uint32(frame)
}

// TrackHeightOf 图层的轨道高度（有覆盖时使用覆盖值）
func (v *Viewport) TrackHeightOf(id ids.LayerID) float64 {
	if h, ok := v.heights[id]; ok {
		return h
	}
	return v.TrackHeight
}

// SetTrackHeight 为图层设置轨道高度覆盖；h ≤ 0 时清除覆盖
func (v *Viewport) SetTrackHeight(id ids.LayerID, h float64) {
	if h <= 0 {
		delete(v.heights, id)
		return
	}
	v.heights[id] = h
}

// PruneTrackHeights 删除不再存在的图层的高度覆盖
func (v *Viewport) PruneTrackHeights(live func(ids.LayerID) bool) {
	for id := range v.heights {
		if !live(id) {
			delete(v.heights, id)
		}
	}
}

// RulerRect 标尺区域（不含图层面板部分）
func (v *Viewport) RulerRect() Rect {
	return Rect{X: v.LayerPanelWidth, Y: 0, W: math.Max(0, v.Width-v.LayerPanelWidth), H: v.RulerHeight}
}

// PanelRect 图层面板区域
func (v *Viewport) PanelRect() Rect {
	return Rect{X: 0, Y: v.RulerHeight, W: v.LayerPanelWidth, H: v.tracksHeight()}
}

// GridRect 帧网格区域
func (v *Viewport) GridRect() Rect {
	return Rect{X: v.LayerPanelWidth, Y: v.RulerHeight, W: math.Max(0, v.Width-v.LayerPanelWidth), H: v.tracksHeight()}
}

// ControlsRect 底部控制栏区域
func (v *Viewport) ControlsRect() Rect {
	return Rect{X: 0, Y: v.Height - v.ControlsHeight, W: v.Width, H: v.ControlsHeight}
}

func (v *Viewport) tracksHeight() float64 {
	return math.Max(0, v.Height-v.RulerHeight-v.ControlsHeight)
}

// ContentWidth 全部帧的内容宽度
func (v *Viewport) ContentWidth(totalFrames uint32) float64 {
	return float64(totalFrames) * v.FramePixels()
}

// ContentHeight 全部图层行的总高度
func (v *Viewport) ContentHeight(rows []Row) float64 {
	var h float64
	for _, r := range rows {
		h += v.TrackHeightOf(r.ID)
	}
	return h
}

// VisibleFrames 返回帧网格中可见的帧范围 [first, last]
//
// 只有这个范围内的单元需要查询帧数据。totalFrames 为 0 或网格没有宽度时 ok 为 false。
func (v *Viewport) VisibleFrames(totalFrames uint32) (first, last uint32, ok bool) {
	grid := v.GridRect()
	if totalFrames == 0 || grid.W <= 0 || v.FramePixels() <= 0 {
		return 0, 0, false
	}
	f0 := int(math.Floor(v.scrollX / v.FramePixels()))
	f1 := int(math.Floor((v.scrollX + grid.W) / v.FramePixels()))
	if f0 >= int(totalFrames) {
		return 0, 0, false
	}
	return ClampFrame(f0, totalFrames), ClampFrame(f1, totalFrames), true
}
