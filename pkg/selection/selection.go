// Package selection 实现时间轴的选择模型
//
// 三个互不相交的选择集合：
//   - 选中图层（有序集合）
//   - 选中帧（(图层, 帧) 有序集合，用于框选）
//   - 选中关键帧（按关键帧 ID 索引）
//
// 点击修饰键语义：普通点击替换、附加修饰键切换、范围修饰键从锚点扩展。
// 模型变更后调用 Prune 清除悬空条目。
package selection

import "github.com/decker502/timeline/pkg/ids"

// Mode 点击选择模式
type Mode int

const (
	Replace Mode = iota // 替换为命中目标
	Toggle              // 切换成员资格
	Extend              // 从锚点扩展到命中目标
)

// ModeFor 根据修饰键返回选择模式；范围修饰键优先
func ModeFor(additive, extend bool) Mode {
	switch {
	case extend:
		return Extend
	case additive:
		return Toggle
	default:
		return Replace
	}
}

// FrameRef (图层, 帧) 引用
type FrameRef struct {
	Layer ids.LayerID
	Frame uint32
}

// KeyframeRef 关键帧引用，位置随 Prune 刷新
type KeyframeRef struct {
	ID    ids.KeyframeID
	Layer ids.LayerID
	Frame uint32
}

// Liveness 由模型提供的存活性查询
type Liveness interface {
	HasLayer(id ids.LayerID) bool
	FrameInRange(layer ids.LayerID, frame uint32) bool
	LocateKeyframe(id ids.KeyframeID) (ids.LayerID, uint32, bool)
}

// KeyframeFinder 返回图层上 [from, to] 闭区间内的关键帧，按帧升序
type KeyframeFinder func(layer ids.LayerID, from, to uint32) []KeyframeRef

// Set 选择状态
type Set struct {
	layers    orderedSet[ids.LayerID]
	frames    orderedSet[FrameRef]
	keyframes orderedSet[ids.KeyframeID]
	kfRefs    map[ids.KeyframeID]KeyframeRef

	layerAnchor ids.LayerID
	frameAnchor *FrameRef
}

// New 创建空的选择状态
func New() *Set {
	return &Set{
		layers:    newOrderedSet[ids.LayerID](),
		frames:    newOrderedSet[FrameRef](),
		keyframes: newOrderedSet[ids.KeyframeID](),
		kfRefs:    make(map[ids.KeyframeID]KeyframeRef),
	}
}

// Layers 返回选中图层（选择顺序）
func (s *Set) Layers() []ids.LayerID { return s.layers.values() }

// Frames 返回选中帧（选择顺序）
func (s *Set) Frames() []FrameRef { return s.frames.values() }

// Keyframes 返回选中关键帧（选择顺序）
func (s *Set) Keyframes() []KeyframeRef {
	out := make([]KeyframeRef, 0, s.keyframes.len())
	for _, id := range s.keyframes.items {
		out = append(out, s.kfRefs[id])
	}
	return out
}

// HasLayer 报告图层是否被选中
func (s *Set) HasLayer(id ids.LayerID) bool { return s.layers.has(id) }

// HasFrame 报告帧是否被选中
func (s *Set) HasFrame(ref FrameRef) bool { return s.frames.has(ref) }

// HasKeyframe 报告关键帧是否被选中
func (s *Set) HasKeyframe(id ids.KeyframeID) bool { return s.keyframes.has(id) }

// IsEmpty 报告三个集合是否都为空
func (s *Set) IsEmpty() bool {
	return s.layers.len() == 0 && s.frames.len() == 0 && s.keyframes.len() == 0
}

// Clear 清空全部选择
func (s *Set) Clear() {
	s.layers.clear()
	s.ClearGrid()
	s.layerAnchor = ""
}

// ClearGrid 清空帧与关键帧选择，保留图层选择
func (s *Set) ClearGrid() {
	s.frames.clear()
	s.keyframes.clear()
	s.kfRefs = make(map[ids.KeyframeID]KeyframeRef)
	s.frameAnchor = nil
}

// ClickLayer 按模式选择图层
//
// 参数：
//   - id: 命中的图层
//   - mode: 选择模式
//   - order: 当前显示顺序，Extend 模式下用于计算锚点到目标的连续区间
func (s *Set) ClickLayer(id ids.LayerID, mode Mode, order []ids.LayerID) {
	switch mode {
	case Toggle:
		s.layers.toggle(id)
		s.layerAnchor = id
	case Extend:
		from, to := indexOf(order, s.layerAnchor), indexOf(order, id)
		if from < 0 || to < 0 {
			s.layers.clear()
			s.layers.add(id)
			s.layerAnchor = id
			return
		}
		if from > to {
			from, to = to, from
		}
		for i := from; i <= to; i++ {
			s.layers.add(order[i])
		}
	default:
		s.layers.clear()
		s.layers.add(id)
		s.layerAnchor = id
	}
}

// ClickFrame 按模式选择帧；Extend 在目标图层上选中锚点帧到目标帧的连续区间
func (s *Set) ClickFrame(ref FrameRef, mode Mode) {
	switch mode {
	case Toggle:
		s.frames.toggle(ref)
		s.setFrameAnchor(ref)
	case Extend:
		if s.frameAnchor == nil {
			s.frames.clear()
			s.frames.add(ref)
			s.setFrameAnchor(ref)
			return
		}
		from, to := s.frameAnchor.Frame, ref.Frame
		if from > to {
			from, to = to, from
		}
		for f := from; f <= to; f++ {
			s.frames.add(FrameRef{Layer: ref.Layer, Frame: f})
		}
	default:
		s.frames.clear()
		s.frames.add(ref)
		s.setFrameAnchor(ref)
	}
}

// ClickKeyframe 按模式选择关键帧
//
// Extend 模式通过 find 取得目标图层上锚点帧到目标帧之间的所有关键帧。
func (s *Set) ClickKeyframe(ref KeyframeRef, mode Mode, find KeyframeFinder) {
	switch mode {
	case Toggle:
		if s.keyframes.has(ref.ID) {
			s.removeKeyframe(ref.ID)
		} else {
			s.addKeyframe(ref)
		}
		s.setFrameAnchor(FrameRef{Layer: ref.Layer, Frame: ref.Frame})
	case Extend:
		if s.frameAnchor == nil || find == nil {
			s.replaceKeyframes([]KeyframeRef{ref})
			s.setFrameAnchor(FrameRef{Layer: ref.Layer, Frame: ref.Frame})
			return
		}
		from, to := s.frameAnchor.Frame, ref.Frame
		if from > to {
			from, to = to, from
		}
		for _, k := range find(ref.Layer, from, to) {
			s.addKeyframe(k)
		}
		s.addKeyframe(ref)
	default:
		s.replaceKeyframes([]KeyframeRef{ref})
		s.setFrameAnchor(FrameRef{Layer: ref.Layer, Frame: ref.Frame})
	}
}

// SetFrames 提交框选结果；additive 为 true 时并入现有选择
func (s *Set) SetFrames(refs []FrameRef, additive bool) {
	if !additive {
		s.frames.clear()
	}
	for _, r := range refs {
		s.frames.add(r)
	}
}

// SetKeyframes 批量选择关键帧；additive 为 true 时并入现有选择
func (s *Set) SetKeyframes(refs []KeyframeRef, additive bool) {
	if !additive {
		s.keyframes.clear()
		s.kfRefs = make(map[ids.KeyframeID]KeyframeRef)
	}
	for _, r := range refs {
		s.addKeyframe(r)
	}
}

// Prune 删除引用不存在实体的条目，并刷新关键帧位置
func (s *Set) Prune(live Liveness) {
	s.layers.retain(live.HasLayer)
	s.frames.retain(func(r FrameRef) bool {
		return live.HasLayer(r.Layer) && live.FrameInRange(r.Layer, r.Frame)
	})
	s.keyframes.retain(func(id ids.KeyframeID) bool {
		layer, frame, ok := live.LocateKeyframe(id)
		if !ok {
			delete(s.kfRefs, id)
			return false
		}
		s.kfRefs[id] = KeyframeRef{ID: id, Layer: layer, Frame: frame}
		return true
	})
	if s.layerAnchor != "" && !live.HasLayer(s.layerAnchor) {
		s.layerAnchor = ""
	}
	if s.frameAnchor != nil && !live.HasLayer(s.frameAnchor.Layer) {
		s.frameAnchor = nil
	}
}

func (s *Set) setFrameAnchor(ref FrameRef) {
	r := ref
	s.frameAnchor = &r
}

func (s *Set) addKeyframe(ref KeyframeRef) {
	s.keyframes.add(ref.ID)
	s.kfRefs[ref.ID] = ref
}

func (s *Set) removeKeyframe(id ids.KeyframeID) {
	s.keyframes.remove(id)
	delete(s.kfRefs, id)
}

func (s *Set) replaceKeyframes(refs []KeyframeRef) {
	s.keyframes.clear()
	s.kfRefs = make(map[ids.KeyframeID]KeyframeRef)
	for _, r := range refs {
		s.addKeyframe(r)
	}
}

func indexOf(order []ids.LayerID, id ids.LayerID) int {
	if id == "" {
		return -1
	}
	for i, o := range order {
		if o == id {
			return i
		}
	}
	return -1
}
