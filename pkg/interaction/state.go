// Package interaction 时间轴交互状态机
//
// Machine 消费宿主的输入事件，在 State 上做状态转换，并把所有修改翻译成
// commands 包中的命令。拖拽预览只修改 State，松开时才提交到模型。
package interaction

import (
	"github.com/decker502/timeline/pkg/ids"
	"github.com/decker502/timeline/pkg/layout"
	"github.com/decker502/timeline/pkg/selection"
	"github.com/decker502/timeline/pkg/timecode"
)

// Mode 交互状态
type Mode int

const (
	ModeIdle Mode = iota
	ModeHoverRuler
	ModeScrubPlayhead
	ModeMarqueeSelect
	ModeDragKeyframes
	ModeContextMenu
	ModeRangeSelect  // 在标尺上按住 Alt 拖动，选择所有图层上的帧区间
	ModeReorderLayer // 在图层面板中拖动图层
	ModeTextEdit     // 重命名图层或编辑标签/注释
)

var modeNames = map[Mode]string{
	ModeIdle:          "Idle",
	ModeHoverRuler:    "HoverRuler",
	ModeScrubPlayhead: "ScrubPlayhead",
	ModeMarqueeSelect: "MarqueeSelect",
	ModeDragKeyframes: "DragKeyframes",
	ModeContextMenu:   "ContextMenuOpen",
	ModeRangeSelect:   "RangeSelect",
	ModeReorderLayer:  "ReorderLayer",
	ModeTextEdit:      "TextEdit",
}

func (m Mode) String() string {
	if n, ok := modeNames[m]; ok {
		return n
	}
	return "Unknown"
}

// DragState 关键帧拖拽
//
// Origins 记录拖拽开始时每个关键帧的位置；取消时据此恢复，模型在松开前不被修改。
type DragState struct {
	Origins     map[ids.KeyframeID]selection.KeyframeRef
	Locked      map[ids.LayerID]bool // 锁定的图层在提交时被跳过
	AnchorX     float64              // 按下时的屏幕横坐标
	AnchorFrame uint32               // 被按下的关键帧所在帧
	FrameOffset int

	anchorSnap int // 按下位置吸附后的帧号
}

// Moving 报告关键帧是否参与本次拖拽（锁定图层上的不参与）
func (d *DragState) Moving(id ids.KeyframeID) bool {
	ref, ok := d.Origins[id]
	return ok && !d.Locked[ref.Layer]
}

// span 参与移动的关键帧的最小与最大原始帧
func (d *DragState) span() (lo, hi uint32, ok bool) {
	for id, ref := range d.Origins {
		if !d.Moving(id) {
			continue
		}
		if !ok || ref.Frame < lo {
			lo = ref.Frame
		}
		if !ok || ref.Frame > hi {
			hi = ref.Frame
		}
		ok = true
	}
	return lo, hi, ok
}

// MarqueeState 框选矩形（屏幕坐标）与实时命中的帧
type MarqueeState struct {
	X0, Y0, X1, Y1 float64
	Additive       bool
	Cells          []selection.FrameRef
}

// Rect 规范化后的矩形
func (m *MarqueeState) Rect() layout.Rect { return layout.RectFromPoints(m.X0, m.Y0, m.X1, m.Y1) }

// RangeState 标尺区间选择
type RangeState struct {
	Start, End uint32
}

// Span 升序返回区间
func (r RangeState) Span() (uint32, uint32) {
	if r.Start > r.End {
		return r.End, r.Start
	}
	return r.Start, r.End
}

// ReorderState 图层拖动
type ReorderState struct {
	Layer  ids.LayerID
	StartY float64
	Y      float64
	Active bool // 移动超过阈值后才真正开始拖动
	Parent ids.LayerID
	Index  int
	Valid  bool
}

// EditPurpose 文本编辑的用途
type EditPurpose int

const (
	EditLayerName EditPurpose = iota
	EditLabel
	EditComment
)

// TextEdit 正在进行的文本编辑
type TextEdit struct {
	Purpose EditPurpose
	Layer   ids.LayerID
	Frame   uint32
	Text    string
}

// OnionSkin 洋葱皮设置
type OnionSkin struct {
	Enabled bool    `yaml:"enabled"`
	Before  uint32  `yaml:"frames_before"`
	After   uint32  `yaml:"frames_after"`
	Opacity float32 `yaml:"opacity"`
	Outline bool    `yaml:"outline"`
}

// DefaultOnionSkin 前后各 3 帧，不透明度 0.3
func DefaultOnionSkin() OnionSkin {
	return OnionSkin{Before: 3, After: 3, Opacity: 0.3}
}

// Range 以 playhead 为中心的洋葱皮帧区间，截断到 [0, total)
func (o OnionSkin) Range(playhead, total uint32) (uint32, uint32) {
	first := uint32(0)
	if playhead > o.Before {
		first = playhead - o.Before
	}
	last := playhead + o.After
	if total > 0 && last >= total {
		last = total - 1
	}
	return first, last
}

// LayerPanel 图层面板状态
type LayerPanel struct {
	Collapsed map[ids.LayerID]bool
	Outline   map[ids.LayerID]bool
	Reorder   *ReorderState
}

// IsCollapsed 文件夹是否折叠
func (p *LayerPanel) IsCollapsed(id ids.LayerID) bool { return p.Collapsed[id] }

// State 交互状态记录
type State struct {
	Mode      Mode
	Hover     layout.Hit
	Tooltip   *Tooltip // 悬停的控制栏按钮提示
	Drag      *DragState
	Marquee   *MarqueeState
	Range     *RangeState
	Menu      *ContextMenu
	Edit      *TextEdit
	Guides    []float64 // 吸附参考线（内容坐标）
	Selection *selection.Set
	Panel     LayerPanel
	Onion     OnionSkin
	Display   timecode.DisplayMode

	// ActiveLayer 键盘命令作用的图层
	ActiveLayer ids.LayerID
	// Message 最近一次被拒绝或失败的命令说明，供状态栏显示
	Message string

	scrubFrom uint32 // 拖动播放头前的帧，取消时恢复
}

// Tooltip 控制栏按钮的悬停提示
type Tooltip struct {
	Control Control
	Text    string
	X, Y    float64 // 按钮左上角
}

func (t *Tooltip) same(o *Tooltip) bool {
	if t == nil || o == nil {
		return t == o
	}
	return *t == *o
}

func newState(onion OnionSkin) State {
	return State{
		Selection: selection.New(),
		Panel: LayerPanel{
			Collapsed: make(map[ids.LayerID]bool),
			Outline:   make(map[ids.LayerID]bool),
		},
		Onion: onion,
	}
}

// reset 回到 Idle 并丢弃所有进行中的交互
func (s *State) reset() {
	s.Mode = ModeIdle
	s.Drag = nil
	s.Marquee = nil
	s.Range = nil
	s.Menu = nil
	s.Edit = nil
	s.Guides = nil
	s.Panel.Reorder = nil
	s.Tooltip = nil
}
