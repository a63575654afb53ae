package interaction

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/decker502/timeline/pkg/commands"
	"github.com/decker502/timeline/pkg/easing"
	"github.com/decker502/timeline/pkg/ids"
	"github.com/decker502/timeline/pkg/model"
	"github.com/decker502/timeline/pkg/selection"
)

// Perform 执行一个动作，供宿主的菜单栏或脚本调用
func (m *Machine) Perform(a Action, t Target) {
	m.perform(a, t)
}

func (m *Machine) perform(a Action, t Target) {
	e := m.d.Engine
	switch a {
	case ActionNone:

	// 帧
	case ActionInsertFrame:
		m.Dispatch(commands.InsertFrame(t.Layer, t.Frame))
	case ActionRemoveFrame:
		m.Dispatch(commands.RemoveFrame(t.Layer, t.Frame))
	case ActionInsertKeyframe:
		m.Dispatch(commands.InsertKeyframe(t.Layer, t.Frame))
	case ActionInsertBlankKeyframe:
		m.Dispatch(commands.InsertBlankKeyframe(t.Layer, t.Frame))
	case ActionClearKeyframe:
		m.Dispatch(commands.ClearKeyframe(t.Layer, t.Frame))
	case ActionDeleteKeyframes:
		m.dispatchSelected(t, commands.DeleteKeyframes, commands.DeleteKeyframe)
	case ActionClearFrames:
		m.dispatchSelected(t, commands.ClearKeyframes, commands.ClearKeyframe)

	// 补间
	case ActionCreateMotionTween:
		m.Dispatch(commands.CreateTween(t.Layer, t.Frame, model.TweenMotion))
	case ActionCreateShapeTween:
		m.Dispatch(commands.CreateTween(t.Layer, t.Frame, model.TweenShape))
	case ActionRemoveTween:
		m.Dispatch(commands.RemoveTween(t.Layer, t.Frame))
	case ActionEaseLinear:
		m.Dispatch(commands.SetEasing(t.Layer, t.Frame, nil, easing.PresetLinear.Curve()))
	case ActionEaseIn:
		m.Dispatch(commands.SetEasing(t.Layer, t.Frame, nil, easing.PresetEaseIn.Curve()))
	case ActionEaseOut:
		m.Dispatch(commands.SetEasing(t.Layer, t.Frame, nil, easing.PresetEaseOut.Curve()))
	case ActionEaseInOut:
		m.Dispatch(commands.SetEasing(t.Layer, t.Frame, nil, easing.PresetEaseInOut.Curve()))

	// 剪贴板与选择
	case ActionCopy:
		m.copySelection(t)
	case ActionCut:
		if m.copySelection(t) > 0 {
			m.dispatchSelected(t, commands.DeleteKeyframes, commands.DeleteKeyframe)
		}
	case ActionPaste:
		m.paste(t)
	case ActionSelectAllFrames:
		m.selectAll()

	// 图层
	case ActionInsertLayer:
		m.insertLayer(t, model.LayerNormal)
	case ActionInsertFolder:
		m.insertLayer(t, model.LayerFolder)
	case ActionAddMotionGuide:
		m.Dispatch(commands.AddMotionGuide(t.Layer))
	case ActionDeleteLayer:
		m.Dispatch(commands.DeleteLayer(t.Layer))
	case ActionDuplicateLayer:
		if c := commands.DuplicateLayer(t.Layer); m.Dispatch(c).OK() {
			m.State.ActiveLayer = c.ID
		}
	case ActionRenameLayer:
		if info, ok := m.layer(t.Layer); ok {
			m.beginEdit(TextEdit{Purpose: EditLayerName, Layer: t.Layer, Text: info.Name})
		}
	case ActionToggleVisible:
		if info, ok := m.layer(t.Layer); ok {
			m.Dispatch(commands.SetLayerVisible(t.Layer, !info.Visible))
		}
	case ActionToggleLock:
		if info, ok := m.layer(t.Layer); ok {
			m.Dispatch(commands.SetLayerLocked(t.Layer, !info.Locked))
		}
	case ActionToggleOutline:
		m.State.Panel.Outline[t.Layer] = !m.State.Panel.Outline[t.Layer]
	case ActionConvertNormal:
		m.Dispatch(commands.SetLayerType(t.Layer, model.LayerNormal))
	case ActionConvertGuide:
		m.Dispatch(commands.SetLayerType(t.Layer, model.LayerGuide))
	case ActionConvertMask:
		m.Dispatch(commands.SetLayerType(t.Layer, model.LayerMask))
	case ActionConvertFolder:
		m.Dispatch(commands.SetLayerType(t.Layer, model.LayerFolder))

	// 标记与循环区间
	case ActionAddLabel:
		old, _ := m.labelAt(t.Frame)
		m.beginEdit(TextEdit{Purpose: EditLabel, Frame: t.Frame, Text: old.Text})
	case ActionRemoveLabel:
		m.Dispatch(commands.RemoveLabel(t.Frame))
	case ActionAddComment:
		old, _ := m.commentAt(t.Frame)
		m.beginEdit(TextEdit{Purpose: EditComment, Frame: t.Frame, Text: old.Text})
	case ActionRemoveComment:
		m.Dispatch(commands.RemoveComment(t.Frame))
	case ActionSetLoopIn, ActionSetLoopOut:
		m.setLoop(a, t.Frame)
	case ActionClearLoop:
		if m.d.Playback != nil {
			m.d.Playback.ClearLoopRegion()
		}

	// 历史
	case ActionUndo:
		m.afterCommand(m.d.History.Undo(e))
	case ActionRedo:
		m.afterCommand(m.d.History.Redo(e))

	// 播放
	case ActionTogglePlay:
		if m.d.Playback != nil {
			m.d.Playback.Toggle()
		} else if e.IsPlaying() {
			e.Pause()
		} else {
			e.Play()
		}
	case ActionFirstFrame:
		m.seek(0)
	case ActionLastFrame:
		if total := e.TotalFrames(); total > 0 {
			m.seek(total - 1)
		}
	case ActionPrevFrame:
		if f := e.CurrentFrame(); f > 0 {
			m.seek(f - 1)
		}
	case ActionNextFrame:
		if f := e.CurrentFrame(); f+1 < e.TotalFrames() {
			m.seek(f + 1)
		}
	case ActionSelectLayerAbove:
		m.stepLayer(-1)
	case ActionSelectLayerBelow:
		m.stepLayer(1)

	default:
		if m.hooks.HostAction != nil {
			m.hooks.HostAction(a, t)
			return
		}
		log.Debug().Str("component", "Machine").Int("action", int(a)).Msg("action not handled")
	}
}

// dispatchSelected 对选中的关键帧批量执行；没有选中时作用于目标帧
func (m *Machine) dispatchSelected(t Target, batch func([]selection.KeyframeRef) *commands.Group, single func(ids.LayerID, uint32) commands.Command) {
	refs := m.State.Selection.Keyframes()
	if len(refs) > 0 {
		m.Dispatch(batch(refs))
		return
	}
	if t.Layer != "" {
		m.Dispatch(single(t.Layer, t.Frame))
	}
}

// copySelection 复制选中的关键帧（没有选中时复制目标关键帧），返回复制的数量
func (m *Machine) copySelection(t Target) int {
	refs := m.State.Selection.Keyframes()
	if len(refs) == 0 && t.Kind == TargetKeyframe {
		refs = []selection.KeyframeRef{{ID: t.Keyframe, Layer: t.Layer, Frame: t.Frame}}
	}
	if len(refs) == 0 {
		return 0
	}
	n, err := m.d.Clipboard.Copy(m.d.Engine, refs, m.layerOrder())
	if err != nil {
		m.State.Message = err.Error()
		log.Warn().Str("component", "Machine").Err(err).Msg("copy failed")
		return 0
	}
	if m.hooks.ClipboardCopied != nil {
		m.hooks.ClipboardCopied(m.d.Clipboard.Entries())
	}
	return n
}

func (m *Machine) paste(t Target) {
	if m.hooks.ClipboardFetch != nil {
		if entries, ok := m.hooks.ClipboardFetch(); ok {
			m.d.Clipboard.Set(entries)
		}
	}
	layer := t.Layer
	if layer == "" {
		layer = m.activeLayer()
	}
	g := m.d.Clipboard.Paste(m.layerOrder(), layer, t.Frame)
	if g == nil {
		return
	}
	m.Dispatch(g)
}

// selectAll 选中所有可编辑图层上的全部帧与关键帧
func (m *Machine) selectAll() {
	total := m.d.Engine.TotalFrames()
	var cells []selection.FrameRef
	var kfs []selection.KeyframeRef
	for _, l := range m.d.Engine.Layers() {
		if !l.Type.HasFrames() {
			continue
		}
		for f := uint32(0); f < total; f++ {
			cells = append(cells, selection.FrameRef{Layer: l.ID, Frame: f})
		}
		if total > 0 {
			kfs = append(kfs, m.keyframesBetween(l.ID, 0, total-1)...)
		}
	}
	m.State.Selection.SetFrames(cells, false)
	m.State.Selection.SetKeyframes(kfs, false)
}

// insertLayer 在目标图层之上插入；没有目标时追加到顶层
func (m *Machine) insertLayer(t Target, typ model.LayerType) {
	n := len(m.d.Engine.Layers()) + 1
	var c *commands.LayerCommand
	name := fmt.Sprintf("Layer %d", n)
	if typ == model.LayerFolder {
		name = fmt.Sprintf("Folder %d", n)
	}
	if parent, idx, err := m.d.Engine.LayerPosition(t.Layer); t.Layer != "" && err == nil {
		c = commands.InsertLayer(name, typ, parent, idx)
	} else if typ == model.LayerFolder {
		c = commands.AddFolder(name)
	} else {
		c = commands.AddLayer(name, typ)
	}
	if m.Dispatch(c).OK() {
		m.State.ActiveLayer = c.ID
		m.State.Selection.ClickLayer(c.ID, selection.Replace, nil)
	}
}

// setLoop 设置循环区间的入点或出点，另一端保持不变（没有区间时取时间轴端点）
func (m *Machine) setLoop(a Action, frame uint32) {
	pc := m.d.Playback
	if pc == nil {
		return
	}
	total := m.d.Engine.TotalFrames()
	if total == 0 {
		return
	}
	in, out := uint32(0), total-1
	if r, ok := pc.LoopRegion(); ok {
		in, out = r.In, r.Out
	}
	if a == ActionSetLoopIn {
		in = frame
		if out < in {
			out = total - 1
		}
	} else {
		out = frame
		if in > out {
			in = 0
		}
	}
	if err := pc.SetLoopRegion(in, out); err != nil {
		m.State.Message = err.Error()
	}
}

// stepLayer 在可见行中上下移动当前图层
func (m *Machine) stepLayer(delta int) {
	rows := m.Rows()
	if len(rows) == 0 {
		return
	}
	cur := m.activeLayer()
	idx := -1
	for i, r := range rows {
		if r.ID == cur {
			idx = i
			break
		}
	}
	next := idx + delta
	if idx < 0 {
		next = 0
	}
	if next < 0 || next >= len(rows) {
		return
	}
	id := rows[next].ID
	m.State.ActiveLayer = id
	m.State.Selection.ClickLayer(id, selection.Replace, rowIDs(rows))
}

func (m *Machine) labelAt(frame uint32) (model.Label, bool) {
	for _, l := range m.d.Engine.Labels() {
		if l.Frame == frame {
			return l, true
		}
	}
	return model.Label{Frame: frame}, false
}

func (m *Machine) commentAt(frame uint32) (model.Comment, bool) {
	for _, c := range m.d.Engine.Comments() {
		if c.Frame == frame {
			return c, true
		}
	}
	return model.Comment{Frame: frame}, false
}
