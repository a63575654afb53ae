// Package input 宿主无关的输入事件
//
// 宿主每帧把原生输入翻译成 Event 序列，按发生顺序交给时间轴处理。
package input

import "strings"

// Modifiers 修饰键集合
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta // macOS Command
)

// Has 报告是否包含全部给定修饰键
func (m Modifiers) Has(o Modifiers) bool { return m&o == o }

// Command 报告是否按下了平台命令键（Ctrl 或 Cmd）
func (m Modifiers) Command() bool { return m&(ModCtrl|ModMeta) != 0 }

// Additive 追加选择修饰键（Ctrl/Cmd）
func (m Modifiers) Additive() bool { return m.Command() }

// Extend 范围选择修饰键（Shift）
func (m Modifiers) Extend() bool { return m.Has(ModShift) }

// BypassSnap 临时关闭吸附的修饰键（Shift）
func (m Modifiers) BypassSnap() bool { return m.Has(ModShift) }

// String 返回 "Ctrl+Shift" 形式的名称
func (m Modifiers) String() string {
	var parts []string
	if m.Has(ModCtrl) {
		parts = append(parts, "Ctrl")
	}
	if m.Has(ModMeta) {
		parts = append(parts, "Cmd")
	}
	if m.Has(ModAlt) {
		parts = append(parts, "Alt")
	}
	if m.Has(ModShift) {
		parts = append(parts, "Shift")
	}
	return strings.Join(parts, "+")
}

// Button 指针按键
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonMiddle
)

// Key 时间轴关心的按键
type Key int

const (
	KeyUnknown Key = iota
	KeySpace
	KeyHome
	KeyEnd
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyF5
	KeyF6
	KeyF7
	KeyC
	KeyV
	KeyX
	KeyZ
	KeyY
	KeyA
	KeyD
	KeyDelete
	KeyBackspace
	KeyEscape
	KeyEnter
)

var keyNames = map[Key]string{
	KeySpace:     "Space",
	KeyHome:      "Home",
	KeyEnd:       "End",
	KeyLeft:      "ArrowLeft",
	KeyRight:     "ArrowRight",
	KeyUp:        "ArrowUp",
	KeyDown:      "ArrowDown",
	KeyF5:        "F5",
	KeyF6:        "F6",
	KeyF7:        "F7",
	KeyC:         "C",
	KeyV:         "V",
	KeyX:         "X",
	KeyZ:         "Z",
	KeyY:         "Y",
	KeyA:         "A",
	KeyD:         "D",
	KeyDelete:    "Delete",
	KeyBackspace: "Backspace",
	KeyEscape:    "Esc",
	KeyEnter:     "Enter",
}

// String 返回按键名称
func (k Key) String() string {
	if n, ok := keyNames[k]; ok {
		return n
	}
	return "Unknown"
}

// Kind 事件类型
type Kind int

const (
	PointerPress Kind = iota
	PointerMove
	PointerRelease
	Wheel
	KeyPress
	CaptureLost // 宿主失去指针捕获（窗口失焦等），进行中的交互应取消
	TextInput   // 重命名编辑框的文本输入
)

// String 返回事件类型名称
func (k Kind) String() string {
	switch k {
	case PointerPress:
		return "PointerPress"
	case PointerMove:
		return "PointerMove"
	case PointerRelease:
		return "PointerRelease"
	case Wheel:
		return "Wheel"
	case KeyPress:
		return "KeyPress"
	case CaptureLost:
		return "CaptureLost"
	case TextInput:
		return "TextInput"
	default:
		return "Unknown"
	}
}

// Event 一个输入事件
//
// 坐标相对于时间轴控件左上角。Wheel 事件的 DX/DY 为滚动量（行），
// Text 只用于 TextInput。
type Event struct {
	Kind   Kind
	X, Y   float64
	Button Button
	Mods   Modifiers
	DX, DY float64
	Key    Key
	Text   string
}

// Press 构造指针按下事件
func Press(x, y float64, b Button, mods Modifiers) Event {
	return Event{Kind: PointerPress, X: x, Y: y, Button: b, Mods: mods}
}

// Move 构造指针移动事件
func Move(x, y float64, mods Modifiers) Event {
	return Event{Kind: PointerMove, X: x, Y: y, Mods: mods}
}

// Release 构造指针释放事件
func Release(x, y float64, b Button, mods Modifiers) Event {
	return Event{Kind: PointerRelease, X: x, Y: y, Button: b, Mods: mods}
}

// WheelAt 构造滚轮事件
func WheelAt(x, y, dx, dy float64, mods Modifiers) Event {
	return Event{Kind: Wheel, X: x, Y: y, DX: dx, DY: dy, Mods: mods}
}

// Keystroke 构造按键事件
func Keystroke(k Key, mods Modifiers) Event {
	return Event{Kind: KeyPress, Key: k, Mods: mods}
}

// Lost 构造失去捕获事件
func Lost() Event { return Event{Kind: CaptureLost} }

// Typed 构造文本输入事件
func Typed(s string) Event { return Event{Kind: TextInput, Text: s} }
