package interaction

import (
	"time"

	"github.com/decker502/timeline/pkg/commands"
	"github.com/decker502/timeline/pkg/input"
)

// keyActions 无修饰键时的快捷键
var keyActions = map[input.Key]Action{
	input.KeySpace:     ActionTogglePlay,
	input.KeyHome:      ActionFirstFrame,
	input.KeyEnd:       ActionLastFrame,
	input.KeyLeft:      ActionPrevFrame,
	input.KeyRight:     ActionNextFrame,
	input.KeyUp:        ActionSelectLayerAbove,
	input.KeyDown:      ActionSelectLayerBelow,
	input.KeyF5:        ActionInsertFrame,
	input.KeyF6:        ActionInsertKeyframe,
	input.KeyF7:        ActionInsertBlankKeyframe,
	input.KeyDelete:    ActionDeleteKeyframes,
	input.KeyBackspace: ActionDeleteKeyframes,
	input.KeyEnter:     ActionRenameLayer,
}

// shiftActions Shift 组合
var shiftActions = map[input.Key]Action{
	input.KeyF5: ActionRemoveFrame,
	input.KeyF6: ActionClearKeyframe,
}

// commandActions Ctrl/Cmd 组合
var commandActions = map[input.Key]Action{
	input.KeyC: ActionCopy,
	input.KeyV: ActionPaste,
	input.KeyX: ActionCut,
	input.KeyZ: ActionUndo,
	input.KeyY: ActionRedo,
	input.KeyA: ActionSelectAllFrames,
	input.KeyD: ActionDuplicateLayer,
}

// KeyAction 把按键映射为动作；没有绑定时返回 ActionNone
func KeyAction(k input.Key, mods input.Modifiers) Action {
	switch {
	case mods.Command():
		if k == input.KeyZ && mods.Has(input.ModShift) {
			return ActionRedo
		}
		return commandActions[k]
	case mods.Has(input.ModShift):
		if a, ok := shiftActions[k]; ok {
			return a
		}
	}
	return keyActions[k]
}

func (m *Machine) handleKey(ev input.Event) bool {
	if m.State.Mode == ModeTextEdit {
		return m.editKey(ev.Key)
	}
	if ev.Key == input.KeyEscape {
		if m.Cancel() {
			return true
		}
		if !m.State.Selection.IsEmpty() {
			m.State.Selection.Clear()
			return true
		}
		return false
	}
	if m.busy() {
		return false
	}
	a := KeyAction(ev.Key, ev.Mods)
	if a == ActionNone {
		return false
	}
	if m.State.Mode == ModeContextMenu {
		m.State.reset()
	}
	m.perform(a, m.keyboardTarget())
	return true
}

// keyboardTarget 当前图层上的播放头位置
func (m *Machine) keyboardTarget() Target {
	t := Target{Kind: TargetFrame, Layer: m.activeLayer(), Frame: m.d.Engine.CurrentFrame()}
	if t.Layer == "" {
		return Target{Kind: TargetEmptyStage}
	}
	if d, err := m.d.Engine.FrameData(t.Layer, t.Frame); err == nil {
		t.HasTween = d.HasTween()
		if d.Keyframe != "" {
			t.Kind, t.Keyframe = TargetKeyframe, d.Keyframe
		}
	}
	return t
}

// ---- 文本编辑 ----

func (m *Machine) beginEdit(e TextEdit) {
	m.State.reset()
	m.State.Mode = ModeTextEdit
	m.State.Edit = &e
}

func (m *Machine) handleText(s string) bool {
	if m.State.Mode != ModeTextEdit || s == "" {
		return false
	}
	m.State.Edit.Text += s
	return true
}

func (m *Machine) editKey(k input.Key) bool {
	switch k {
	case input.KeyEnter:
		m.commitEdit()
	case input.KeyEscape:
		m.State.reset()
	case input.KeyBackspace:
		r := []rune(m.State.Edit.Text)
		if len(r) > 0 {
			m.State.Edit.Text = string(r[:len(r)-1])
		}
	default:
		return false
	}
	return true
}

// commitEdit 提交文本编辑；空标签或空注释表示删除
func (m *Machine) commitEdit() {
	ed := m.State.Edit
	m.State.reset()
	if ed == nil {
		return
	}
	switch ed.Purpose {
	case EditLayerName:
		info, ok := m.layer(ed.Layer)
		if !ok || ed.Text == "" || ed.Text == info.Name {
			return
		}
		m.Dispatch(commands.RenameLayer(ed.Layer, ed.Text))
	case EditLabel:
		old, had := m.labelAt(ed.Frame)
		switch {
		case ed.Text == "" && had:
			m.Dispatch(commands.RemoveLabel(ed.Frame))
		case ed.Text != "" && ed.Text != old.Text:
			old.Frame, old.Text = ed.Frame, ed.Text
			m.Dispatch(commands.SetLabel(old))
		}
	case EditComment:
		old, had := m.commentAt(ed.Frame)
		switch {
		case ed.Text == "" && had:
			m.Dispatch(commands.RemoveComment(ed.Frame))
		case ed.Text != "" && ed.Text != old.Text:
			old.Frame, old.Text, old.Timestamp = ed.Frame, ed.Text, time.Now()
			if old.Author == "" {
				old.Author = m.Author
			}
			m.Dispatch(commands.SetComment(old))
		}
	}
}
