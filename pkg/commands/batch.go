package commands

import (
	"sort"

	"github.com/decker502/timeline/pkg/ids"
	"github.com/decker502/timeline/pkg/selection"
)

// Move 一次关键帧移动
type Move struct {
	Layer    ids.LayerID
	From, To uint32
}

// MoveKeyframes 构造拖拽提交的命令组
//
// 同一图层内的移动按方向排序（向右移动时从右向左处理），使被拖拽的关键帧
// 不会与尚未移动的同伴冲突。目标帧被非拖拽关键帧占用时整个组被拒绝并回滚。
func MoveKeyframes(moves []Move) *Group {
	ms := append([]Move(nil), moves...)
	sort.SliceStable(ms, func(a, b int) bool {
		if ms[a].Layer != ms[b].Layer {
			return ms[a].Layer < ms[b].Layer
		}
		if ms[a].To > ms[a].From {
			return ms[a].From > ms[b].From
		}
		return ms[a].From < ms[b].From
	})
	name := "Move Keyframe"
	if len(ms) > 1 {
		name = "Move Keyframes"
	}
	g := NewGroup(name)
	for _, m := range ms {
		if m.From == m.To {
			continue
		}
		g.Add(MoveKeyframe(m.Layer, m.From, m.To, false))
	}
	return g
}

// OffsetMoves 把选中关键帧整体偏移 delta 帧；结果超出 [0, maxFrame] 时返回 false
func OffsetMoves(refs []selection.KeyframeRef, delta int, maxFrame uint32) ([]Move, bool) {
	out := make([]Move, 0, len(refs))
	for _, r := range refs {
		to := int(r.Frame) + delta
		if to < 0 || to > int(maxFrame) {
			return nil, false
		}
		out = append(out, Move{Layer: r.Layer, From: r.Frame, To: uint32(to)})
	}
	return out, true
}

// DeleteKeyframes 删除多个关键帧
func DeleteKeyframes(refs []selection.KeyframeRef) *Group {
	g := NewGroup("Delete Keyframes")
	for _, r := range sortedDesc(refs) {
		g.Add(DeleteKeyframe(r.Layer, r.Frame))
	}
	return g
}

// ClearKeyframes 清除多个关键帧
func ClearKeyframes(refs []selection.KeyframeRef) *Group {
	g := NewGroup("Clear Keyframes")
	for _, r := range sortedDesc(refs) {
		g.Add(ClearKeyframe(r.Layer, r.Frame))
	}
	return g
}

func sortedDesc(refs []selection.KeyframeRef) []selection.KeyframeRef {
	out := append([]selection.KeyframeRef(nil), refs...)
	sort.Slice(out, func(a, b int) bool {
		if out[a].Layer != out[b].Layer {
			return out[a].Layer < out[b].Layer
		}
		return out[a].Frame > out[b].Frame
	})
	return out
}
