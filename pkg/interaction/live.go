package interaction

import (
	"github.com/decker502/timeline/pkg/engine"
	"github.com/decker502/timeline/pkg/ids"
	"github.com/decker502/timeline/pkg/layout"
	"github.com/decker502/timeline/pkg/selection"
	"github.com/decker502/timeline/pkg/snap"
)

// liveness 基于引擎当前状态的存活性查询，构造时一次性建立索引
type liveness struct {
	total     uint32
	layers    map[ids.LayerID]engine.LayerInfo
	keyframes map[ids.KeyframeID]selection.KeyframeRef
}

func newLiveness(e engine.AnimationEngine) *liveness {
	l := &liveness{
		total:     e.TotalFrames(),
		layers:    make(map[ids.LayerID]engine.LayerInfo),
		keyframes: make(map[ids.KeyframeID]selection.KeyframeRef),
	}
	for _, info := range e.Layers() {
		l.layers[info.ID] = info
		kfs, err := e.Keyframes(info.ID)
		if err != nil {
			continue
		}
		for _, k := range kfs {
			l.keyframes[k.ID] = selection.KeyframeRef{ID: k.ID, Layer: k.Layer, Frame: k.Frame}
		}
	}
	return l
}

func (l *liveness) HasLayer(id ids.LayerID) bool {
	_, ok := l.layers[id]
	return ok
}

func (l *liveness) FrameInRange(layer ids.LayerID, frame uint32) bool {
	info, ok := l.layers[layer]
	return ok && info.Type.HasFrames() && frame < l.total
}

func (l *liveness) LocateKeyframe(id ids.KeyframeID) (ids.LayerID, uint32, bool) {
	ref, ok := l.keyframes[id]
	return ref.Layer, ref.Frame, ok
}

// keyframesBetween 图层上 [from, to] 内的关键帧，按帧升序
func (m *Machine) keyframesBetween(layer ids.LayerID, from, to uint32) []selection.KeyframeRef {
	kfs, err := m.d.Engine.Keyframes(layer)
	if err != nil {
		return nil
	}
	var out []selection.KeyframeRef
	for _, k := range kfs {
		if k.Frame >= from && k.Frame <= to {
			out = append(out, selection.KeyframeRef{ID: k.ID, Layer: layer, Frame: k.Frame})
		}
	}
	return out
}

// snapAt 在内容坐标 cx 处吸附；exclude 中的关键帧不作为候选
func (m *Machine) snapAt(cx float64, bypass bool, exclude map[ids.KeyframeID]selection.KeyframeRef) snap.Result {
	e := m.d.Engine
	t := snap.Targets{
		FramePixels: m.d.Viewport.FramePixels(),
		TotalFrames: e.TotalFrames(),
	}
	if m.snap.Active() && !bypass {
		for _, l := range e.Layers() {
			kfs, err := e.Keyframes(l.ID)
			if err != nil {
				continue
			}
			for _, k := range kfs {
				if _, skip := exclude[k.ID]; !skip {
					t.Keyframes = append(t.Keyframes, k.Frame)
				}
			}
		}
		for _, lb := range e.Labels() {
			t.Markers = append(t.Markers, lb.Frame)
		}
		for _, c := range e.Comments() {
			t.Markers = append(t.Markers, c.Frame)
		}
	}
	res := snap.Snap(cx, t, m.snap, bypass)
	if !m.snap.ShowGuides {
		res.Guides = nil
	}
	return res
}

// layer 按 ID 查找图层描述
func (m *Machine) layer(id ids.LayerID) (engine.LayerInfo, bool) {
	for _, l := range m.d.Engine.Layers() {
		if l.ID == id {
			return l, true
		}
	}
	return engine.LayerInfo{}, false
}

// layerOrder 全部图层 ID（显示顺序，包括折叠的）
func (m *Machine) layerOrder() []ids.LayerID {
	layers := m.d.Engine.Layers()
	out := make([]ids.LayerID, len(layers))
	for i, l := range layers {
		out[i] = l.ID
	}
	return out
}

// activeLayer 键盘命令的目标图层：当前图层、首个选中图层或首个可编辑帧的图层
func (m *Machine) activeLayer() ids.LayerID {
	if m.State.ActiveLayer != "" {
		if _, ok := m.layer(m.State.ActiveLayer); ok {
			return m.State.ActiveLayer
		}
	}
	if sel := m.State.Selection.Layers(); len(sel) > 0 {
		return sel[0]
	}
	for _, l := range m.d.Engine.Layers() {
		if l.Type.HasFrames() {
			return l.ID
		}
	}
	return ""
}

func rowIDs(rows []layout.Row) []ids.LayerID {
	out := make([]ids.LayerID, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}
