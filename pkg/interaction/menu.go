package interaction

import (
	"github.com/decker502/timeline/pkg/i18n"
	"github.com/decker502/timeline/pkg/ids"
	"github.com/decker502/timeline/pkg/layout"
	"github.com/decker502/timeline/pkg/model"
)

// TargetKind 右键菜单的目标类别
type TargetKind int

const (
	TargetEmptyStage TargetKind = iota
	TargetLayer
	TargetFrame
	TargetKeyframe
	TargetRuler
)

func (k TargetKind) String() string {
	switch k {
	case TargetLayer:
		return "Layer"
	case TargetFrame:
		return "Frame"
	case TargetKeyframe:
		return "Keyframe"
	case TargetRuler:
		return "Ruler"
	default:
		return "EmptyStage"
	}
}

// Target 右键菜单目标
type Target struct {
	Kind     TargetKind
	Layer    ids.LayerID
	Frame    uint32
	Keyframe ids.KeyframeID
	HasTween bool
}

// Action 菜单项或快捷键触发的动作
type Action int

const (
	ActionNone Action = iota
	ActionInsertFrame
	ActionRemoveFrame
	ActionInsertKeyframe
	ActionInsertBlankKeyframe
	ActionClearKeyframe
	ActionDeleteKeyframes
	ActionClearFrames
	ActionCreateMotionTween
	ActionCreateShapeTween
	ActionRemoveTween
	ActionEaseLinear
	ActionEaseIn
	ActionEaseOut
	ActionEaseInOut
	ActionCopy
	ActionCut
	ActionPaste
	ActionSelectAllFrames
	ActionInsertLayer
	ActionInsertFolder
	ActionAddMotionGuide
	ActionAddAudioLayer // 需要宿主选择文件
	ActionDeleteLayer
	ActionDuplicateLayer
	ActionRenameLayer
	ActionToggleVisible
	ActionToggleLock
	ActionToggleOutline
	ActionConvertNormal
	ActionConvertGuide
	ActionConvertMask
	ActionConvertFolder
	ActionAddLabel
	ActionRemoveLabel
	ActionAddComment
	ActionRemoveComment
	ActionSetLoopIn
	ActionSetLoopOut
	ActionClearLoop
	ActionUndo
	ActionRedo
	ActionTogglePlay
	ActionFirstFrame
	ActionLastFrame
	ActionPrevFrame
	ActionNextFrame
	ActionSelectLayerAbove
	ActionSelectLayerBelow
)

// MenuItem 菜单项；Action 为 ActionNone 的项是分隔线
type MenuItem struct {
	Key     string // 字符串表中的键，Label 由它解析
	Label   string
	Action  Action
	Enabled bool
}

// Separator 报告是否为分隔线
func (i MenuItem) Separator() bool { return i.Action == ActionNone }

// ContextMenu 打开的右键菜单
type ContextMenu struct {
	Target Target
	X, Y   float64
	Items  []MenuItem
	Hover  int // -1 表示没有悬停项
}

// 菜单尺寸
const (
	MenuWidth      = 180.0
	MenuItemHeight = 22.0
	MenuSepHeight  = 8.0
)

// ItemRect 第 i 项的屏幕矩形
func (m *ContextMenu) ItemRect(i int) layout.Rect {
	y := m.Y
	for j := 0; j < i; j++ {
		y += itemHeight(m.Items[j])
	}
	return layout.Rect{X: m.X, Y: y, W: MenuWidth, H: itemHeight(m.Items[i])}
}

// Bounds 整个菜单的矩形
func (m *ContextMenu) Bounds() layout.Rect {
	h := 0.0
	for _, it := range m.Items {
		h += itemHeight(it)
	}
	return layout.Rect{X: m.X, Y: m.Y, W: MenuWidth, H: h}
}

// ItemAt 返回坐标处的可用菜单项下标
func (m *ContextMenu) ItemAt(x, y float64) int {
	for i, it := range m.Items {
		if it.Separator() {
			continue
		}
		if m.ItemRect(i).Contains(x, y) {
			return i
		}
	}
	return -1
}

func itemHeight(it MenuItem) float64 {
	if it.Separator() {
		return MenuSepHeight
	}
	return MenuItemHeight
}

// fit 把菜单移入视口
func (m *ContextMenu) fit(w, h float64) {
	b := m.Bounds()
	if b.Right() > w {
		m.X = w - b.W
	}
	if b.Bottom() > h {
		m.Y = h - b.H
	}
	if m.X < 0 {
		m.X = 0
	}
	if m.Y < 0 {
		m.Y = 0
	}
}

// menuContext 构造菜单时需要的环境
type menuContext struct {
	strings    *i18n.Strings
	canPaste   bool
	canUndo    bool
	canRedo    bool
	layer      *engineLayer
	hasLabel   bool
	hasComment bool
	hasLoop    bool
}

// engineLayer 菜单关心的图层属性
type engineLayer struct {
	Type    model.LayerType
	Visible bool
	Locked  bool
	Outline bool
}

// item 以 "menu." 下的键构造菜单项
func (c menuContext) item(key string, a Action, enabled bool) MenuItem {
	key = "menu." + key
	return MenuItem{Key: key, Label: c.strings.Get(key), Action: a, Enabled: enabled}
}

var separator = MenuItem{}

// buildMenu 按目标类别生成菜单项
func buildMenu(t Target, c menuContext) []MenuItem {
	editable := c.layer != nil && !c.layer.Locked
	hasFrames := c.layer != nil && c.layer.Type.HasFrames()
	switch t.Kind {
	case TargetKeyframe:
		return []MenuItem{
			c.item("create_motion_tween", ActionCreateMotionTween, editable),
			c.item("create_shape_tween", ActionCreateShapeTween, editable),
			c.item("remove_tween", ActionRemoveTween, editable && t.HasTween),
			separator,
			c.item("ease_linear", ActionEaseLinear, editable && t.HasTween),
			c.item("ease_in", ActionEaseIn, editable && t.HasTween),
			c.item("ease_out", ActionEaseOut, editable && t.HasTween),
			c.item("ease_in_out", ActionEaseInOut, editable && t.HasTween),
			separator,
			c.item("clear_keyframe", ActionClearKeyframe, editable),
			c.item("delete_keyframes", ActionDeleteKeyframes, editable),
			separator,
			c.item("cut", ActionCut, editable),
			c.item("copy", ActionCopy, true),
			c.item("paste", ActionPaste, editable && c.canPaste),
		}
	case TargetFrame:
		return []MenuItem{
			c.item("insert_frame", ActionInsertFrame, editable && hasFrames),
			c.item("remove_frame", ActionRemoveFrame, editable && hasFrames),
			separator,
			c.item("insert_keyframe", ActionInsertKeyframe, editable && hasFrames),
			c.item("insert_blank_keyframe", ActionInsertBlankKeyframe, editable && hasFrames),
			c.item("clear_frames", ActionClearFrames, editable),
			c.item("remove_tween", ActionRemoveTween, editable && t.HasTween),
			separator,
			c.item("select_all_frames", ActionSelectAllFrames, c.layer != nil),
			c.item("paste", ActionPaste, editable && c.canPaste),
		}
	case TargetLayer:
		l := c.layer
		if l == nil {
			return nil
		}
		visible := "hide_layer"
		if !l.Visible {
			visible = "show_layer"
		}
		lock := "lock_layer"
		if l.Locked {
			lock = "unlock_layer"
		}
		outline := "show_outline"
		if l.Outline {
			outline = "show_filled"
		}
		return []MenuItem{
			c.item("insert_layer", ActionInsertLayer, true),
			c.item("insert_folder", ActionInsertFolder, true),
			c.item("add_motion_guide", ActionAddMotionGuide, l.Type == model.LayerNormal),
			c.item("add_audio_layer", ActionAddAudioLayer, true),
			separator,
			c.item("rename_layer", ActionRenameLayer, true),
			c.item("duplicate_layer", ActionDuplicateLayer, true),
			c.item("delete_layer", ActionDeleteLayer, true),
			separator,
			c.item(visible, ActionToggleVisible, true),
			c.item(lock, ActionToggleLock, true),
			c.item(outline, ActionToggleOutline, true),
			separator,
			c.item("convert_normal", ActionConvertNormal, l.Type != model.LayerNormal && l.Type != model.LayerAudio),
			c.item("convert_guide", ActionConvertGuide, l.Type != model.LayerGuide && l.Type != model.LayerAudio),
			c.item("convert_mask", ActionConvertMask, l.Type != model.LayerMask && l.Type != model.LayerAudio),
			c.item("convert_folder", ActionConvertFolder, l.Type != model.LayerFolder && l.Type != model.LayerAudio),
		}
	case TargetRuler:
		return []MenuItem{
			c.item("set_loop_in", ActionSetLoopIn, true),
			c.item("set_loop_out", ActionSetLoopOut, true),
			c.item("clear_loop", ActionClearLoop, c.hasLoop),
			separator,
			c.item("add_label", ActionAddLabel, true),
			c.item("remove_label", ActionRemoveLabel, c.hasLabel),
			c.item("add_comment", ActionAddComment, true),
			c.item("remove_comment", ActionRemoveComment, c.hasComment),
		}
	default:
		return []MenuItem{
			c.item("insert_layer", ActionInsertLayer, true),
			c.item("insert_folder", ActionInsertFolder, true),
			c.item("add_audio_layer", ActionAddAudioLayer, true),
			separator,
			c.item("undo", ActionUndo, c.canUndo),
			c.item("redo", ActionRedo, c.canRedo),
		}
	}
}
