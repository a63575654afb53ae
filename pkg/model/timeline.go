package model

import (
	"fmt"

	"github.com/decker502/timeline/pkg/ids"
	"github.com/decker502/timeline/pkg/selection"
	"github.com/decker502/timeline/pkg/timecode"
)

// DefaultFrameCount 新场景的默认帧数
const DefaultFrameCount = 100

// Timeline 一个场景的时间轴：图层森林、帧数据、标签与注释
//
// 所有导出的变更操作都是原子的：先完成全部校验，校验通过后才修改数据。
// 失败时返回 errors.go 中定义的错误种类，模型保持不变。
type Timeline struct {
	FrameCount uint32
	FPS        timecode.FPSPreset

	layers map[ids.LayerID]*Layer
	roots  []ids.LayerID // 顶层图层，自上而下
	marks  markers
}

// NewTimeline 创建空时间轴
func NewTimeline(frameCount uint32, fps timecode.FPSPreset) *Timeline {
	if frameCount == 0 {
		frameCount = DefaultFrameCount
	}
	return &Timeline{
		FrameCount: frameCount,
		FPS:        fps,
		layers:     make(map[ids.LayerID]*Layer),
	}
}

// MaxFrame 最大合法帧号
func (tl *Timeline) MaxFrame() uint32 {
	if tl.FrameCount == 0 {
		return 0
	}
	return tl.FrameCount - 1
}

// CheckFrame 校验帧号位于 [0, FrameCount)
func (tl *Timeline) CheckFrame(frame uint32) error {
	if frame >= tl.FrameCount {
		return &FrameOutOfRangeError{Given: frame, Max: tl.MaxFrame()}
	}
	return nil
}

// SetFrameCount 调整场景帧数；不能小于已使用的最大帧 + 1
func (tl *Timeline) SetFrameCount(n uint32) error {
	if n == 0 {
		return violation("frame count must be positive")
	}
	if used, ok := tl.HighestUsedFrame(); ok && used >= n {
		return violation("frame %d is in use, frame count must exceed it", used)
	}
	tl.FrameCount = n
	tl.afterMutation()
	return nil
}

// HighestUsedFrame 返回所有图层中最大的关键帧帧号
func (tl *Timeline) HighestUsedFrame() (uint32, bool) {
	var max uint32
	found := false
	for _, l := range tl.layers {
		if f, ok := l.LastFrame(); ok && (!found || f > max) {
			max, found = f, true
		}
	}
	return max, found
}

// Layer 查找图层
func (tl *Timeline) Layer(id ids.LayerID) (*Layer, error) {
	l, ok := tl.layers[id]
	if !ok {
		return nil, fmt.Errorf("layer %s: %w", id, ErrLayerNotFound)
	}
	return l, nil
}

// HasLayer 报告图层是否存在
func (tl *Timeline) HasLayer(id ids.LayerID) bool {
	_, ok := tl.layers[id]
	return ok
}

// LayerCount 图层总数
func (tl *Timeline) LayerCount() int { return len(tl.layers) }

// editable 返回可编辑帧内容的图层：存在、未锁定、拥有帧
func (tl *Timeline) editable(id ids.LayerID) (*Layer, error) {
	l, err := tl.Layer(id)
	if err != nil {
		return nil, err
	}
	if l.Locked {
		return nil, fmt.Errorf("layer %q: %w", l.Name, ErrLocked)
	}
	if !l.Type.HasFrames() {
		return nil, violation("layer %q is a folder and has no frames", l.Name)
	}
	return l, nil
}

// CellKind 帧单元类型
type CellKind int

const (
	CellEmpty CellKind = iota
	CellKeyframe
	CellTween
)

// String 返回名称
func (k CellKind) String() string {
	switch k {
	case CellKeyframe:
		return "Keyframe"
	case CellTween:
		return "Tween"
	default:
		return "Empty"
	}
}

// Cell (图层, 帧) 处的帧单元
//
// Keyframe 单元若同时是补间起点，Tween 字段给出该补间（HasTween）。
// Tween 单元的 TweenStart/TweenEnd 给出包围它的关键帧对。
type Cell struct {
	Kind       CellKind
	Keyframe   ids.KeyframeID
	Blank      bool
	Tween      ids.TweenID
	TweenKind  TweenKind
	TweenStart uint32
	TweenEnd   uint32
}

// HasTween 报告单元是否属于某个补间（补间帧或补间起点关键帧）
func (c Cell) HasTween() bool { return c.Tween != "" }

// Cell 查询帧单元
func (tl *Timeline) Cell(layer ids.LayerID, frame uint32) (Cell, error) {
	l, err := tl.Layer(layer)
	if err != nil {
		return Cell{}, err
	}
	if err := tl.CheckFrame(frame); err != nil {
		return Cell{}, err
	}
	return l.cellAt(frame), nil
}

func (l *Layer) cellAt(frame uint32) Cell {
	if k, ok := l.keyframes[frame]; ok {
		c := Cell{Kind: CellKeyframe, Keyframe: k.ID, Blank: k.IsBlank()}
		if t := l.tweenStartingAt(frame); t != nil {
			c.Tween, c.TweenKind, c.TweenStart, c.TweenEnd = t.ID, t.Kind, t.Start, t.End
		}
		return c
	}
	if t := l.tweenContaining(frame); t != nil {
		return Cell{Kind: CellTween, Tween: t.ID, TweenKind: t.Kind, TweenStart: t.Start, TweenEnd: t.End}
	}
	return Cell{Kind: CellEmpty}
}

// LocateKeyframe 按 ID 查找关键帧位置，实现 selection.Liveness
func (tl *Timeline) LocateKeyframe(id ids.KeyframeID) (ids.LayerID, uint32, bool) {
	for _, l := range tl.layers {
		for f, k := range l.keyframes {
			if k.ID == id {
				return l.ID, f, true
			}
		}
	}
	return "", 0, false
}

// FrameInRange 实现 selection.Liveness
func (tl *Timeline) FrameInRange(layer ids.LayerID, frame uint32) bool {
	return tl.HasLayer(layer) && frame < tl.FrameCount
}

// KeyframesBetween 返回图层上 [from, to] 内的关键帧引用，按帧升序
func (tl *Timeline) KeyframesBetween(layer ids.LayerID, from, to uint32) []selection.KeyframeRef {
	l, ok := tl.layers[layer]
	if !ok {
		return nil
	}
	var out []selection.KeyframeRef
	for _, f := range l.KeyframeFrames() {
		if f >= from && f <= to {
			out = append(out, selection.KeyframeRef{ID: l.keyframes[f].ID, Layer: layer, Frame: f})
		}
	}
	return out
}

// PropertyAt 计算属性在某帧的取值
//
// 关键帧上直接取值；补间内部按补间缓动在两端关键帧之间插值；
// 其他位置保持前一个关键帧的值。没有可用关键帧或属性缺失时 ok 为 false。
func (tl *Timeline) PropertyAt(layer ids.LayerID, frame uint32, prop PropertyID) (Value, bool, error) {
	l, err := tl.Layer(layer)
	if err != nil {
		return Value{}, false, err
	}
	if err := tl.CheckFrame(frame); err != nil {
		return Value{}, false, err
	}
	v, ok := l.propertyAt(frame, prop)
	return v, ok, nil
}

func (l *Layer) propertyAt(frame uint32, prop PropertyID) (Value, bool) {
	if k, ok := l.keyframes[frame]; ok {
		v, has := k.Props[prop]
		return v, has
	}
	if t := l.tweenContaining(frame); t != nil {
		a, b := l.keyframes[t.Start], l.keyframes[t.End]
		va, okA := a.Props[prop]
		vb, okB := b.Props[prop]
		switch {
		case okA && okB:
			eased := t.CurveFor(prop).Evaluate(t.Progress(frame))
			return Interpolate(va, vb, float64(eased)), true
		case okA:
			return va, true
		default:
			return Value{}, false
		}
	}
	if k, ok := l.prevKeyframe(frame); ok {
		v, has := k.Props[prop]
		return v, has
	}
	return Value{}, false
}

// propertiesAt 计算某帧上所有属性的取值（用于在补间内插入关键帧）
func (l *Layer) propertiesAt(frame uint32) Properties {
	if t := l.tweenContaining(frame); t != nil {
		out := make(Properties)
		for id := range l.keyframes[t.Start].Props {
			if v, ok := l.propertyAt(frame, id); ok {
				out[id] = v
			}
		}
		return out
	}
	if k, ok := l.prevKeyframe(frame); ok {
		return k.Props.Clone()
	}
	return make(Properties)
}

// Labels 返回按帧排序的标签副本
func (tl *Timeline) Labels() []Label { return append([]Label(nil), tl.marks.labels...) }

// Comments 返回按帧排序的注释副本
func (tl *Timeline) Comments() []Comment { return append([]Comment(nil), tl.marks.comments...) }

// SetLabel 添加或替换某帧的标签
func (tl *Timeline) SetLabel(l Label) error {
	if err := tl.CheckFrame(l.Frame); err != nil {
		return err
	}
	if l.Text == "" {
		return violation("label text must not be empty")
	}
	tl.marks.setLabel(l)
	tl.afterMutation()
	return nil
}

// RemoveLabel 删除某帧的标签
func (tl *Timeline) RemoveLabel(frame uint32) error {
	if !tl.marks.removeLabel(frame) {
		return violation("no label at frame %d", frame)
	}
	tl.afterMutation()
	return nil
}

// SetComment 添加或替换某帧的注释
func (tl *Timeline) SetComment(c Comment) error {
	if err := tl.CheckFrame(c.Frame); err != nil {
		return err
	}
	tl.marks.setComment(c)
	tl.afterMutation()
	return nil
}

// RemoveComment 删除某帧的注释
func (tl *Timeline) RemoveComment(frame uint32) error {
	if !tl.marks.removeComment(frame) {
		return violation("no comment at frame %d", frame)
	}
	tl.afterMutation()
	return nil
}

// Clone 深拷贝整条时间轴（保留所有 ID）
func (tl *Timeline) Clone() *Timeline {
	out := &Timeline{
		FrameCount: tl.FrameCount,
		FPS:        tl.FPS,
		layers:     make(map[ids.LayerID]*Layer, len(tl.layers)),
		roots:      append([]ids.LayerID(nil), tl.roots...),
		marks:      tl.marks.clone(),
	}
	for id, l := range tl.layers {
		out.layers[id] = l.clone()
	}
	return out
}

// Restore 用快照内容原地替换时间轴
func (tl *Timeline) Restore(from *Timeline) {
	c := from.Clone()
	tl.FrameCount = c.FrameCount
	tl.FPS = c.FPS
	tl.layers = c.layers
	tl.roots = c.roots
	tl.marks = c.marks
	tl.afterMutation()
}

// LayerContent 单个图层帧内容的不透明快照
type LayerContent struct {
	layer ids.LayerID
	c     content
}

// SnapshotLayer 捕获图层的帧内容
func (tl *Timeline) SnapshotLayer(id ids.LayerID) (LayerContent, error) {
	l, err := tl.Layer(id)
	if err != nil {
		return LayerContent{}, err
	}
	return LayerContent{layer: id, c: l.snapshotContent()}, nil
}

// RestoreLayer 恢复图层的帧内容
func (tl *Timeline) RestoreLayer(snap LayerContent) error {
	l, err := tl.Layer(snap.layer)
	if err != nil {
		return err
	}
	l.restoreContent(snap.c)
	tl.afterMutation()
	return nil
}
