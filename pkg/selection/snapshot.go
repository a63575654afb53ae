package selection

import "github.com/decker502/timeline/pkg/ids"

// Snapshot 选择状态的值拷贝，用于场景切换与测试检查
type Snapshot struct {
	Layers    []ids.LayerID
	Frames    []FrameRef
	Keyframes []KeyframeRef
}

// Snapshot 导出当前选择
func (s *Set) Snapshot() Snapshot {
	return Snapshot{
		Layers:    s.Layers(),
		Frames:    s.Frames(),
		Keyframes: s.Keyframes(),
	}
}

// Restore 用快照替换当前选择，锚点被清除
func (s *Set) Restore(snap Snapshot) {
	s.Clear()
	for _, l := range snap.Layers {
		s.layers.add(l)
	}
	for _, f := range snap.Frames {
		s.frames.add(f)
	}
	for _, k := range snap.Keyframes {
		s.addKeyframe(k)
	}
}

// IsEmpty 报告快照是否为空
func (snap Snapshot) IsEmpty() bool {
	return len(snap.Layers) == 0 && len(snap.Frames) == 0 && len(snap.Keyframes) == 0
}
