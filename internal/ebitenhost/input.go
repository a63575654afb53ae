package ebitenhost

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/decker502/timeline/pkg/input"
)

// 按住方向键后的重复节奏（tick）
const (
	repeatDelay    = 30
	repeatInterval = 4
)

var keyMap = map[ebiten.Key]input.Key{
	ebiten.KeySpace:       input.KeySpace,
	ebiten.KeyHome:        input.KeyHome,
	ebiten.KeyEnd:         input.KeyEnd,
	ebiten.KeyArrowLeft:   input.KeyLeft,
	ebiten.KeyArrowRight:  input.KeyRight,
	ebiten.KeyArrowUp:     input.KeyUp,
	ebiten.KeyArrowDown:   input.KeyDown,
	ebiten.KeyF5:          input.KeyF5,
	ebiten.KeyF6:          input.KeyF6,
	ebiten.KeyF7:          input.KeyF7,
	ebiten.KeyC:           input.KeyC,
	ebiten.KeyV:           input.KeyV,
	ebiten.KeyX:           input.KeyX,
	ebiten.KeyZ:           input.KeyZ,
	ebiten.KeyY:           input.KeyY,
	ebiten.KeyA:           input.KeyA,
	ebiten.KeyD:           input.KeyD,
	ebiten.KeyDelete:      input.KeyDelete,
	ebiten.KeyBackspace:   input.KeyBackspace,
	ebiten.KeyEscape:      input.KeyEscape,
	ebiten.KeyEnter:       input.KeyEnter,
	ebiten.KeyNumpadEnter: input.KeyEnter,
}

// 可按住重复的键
var repeatable = map[ebiten.Key]bool{
	ebiten.KeyArrowLeft:  true,
	ebiten.KeyArrowRight: true,
	ebiten.KeyArrowUp:    true,
	ebiten.KeyArrowDown:  true,
	ebiten.KeyBackspace:  true,
}

var buttonMap = []struct {
	mouse  ebiten.MouseButton
	button input.Button
}{
	{ebiten.MouseButtonLeft, input.ButtonPrimary},
	{ebiten.MouseButtonRight, input.ButtonSecondary},
	{ebiten.MouseButtonMiddle, input.ButtonMiddle},
}

// Poller 把 ebiten 的输入状态转换为时间轴事件
//
// 每个 Update 调用一次 Poll。
type Poller struct {
	x, y     int
	primed   bool
	focused  bool
	keys     []ebiten.Key
	chars    []rune
	touches  []ebiten.TouchID
	touch    ebiten.TouchID
	touching bool
}

// NewPoller 创建输入轮询器
func NewPoller() *Poller {
	return &Poller{focused: true}
}

// Poll 返回本帧的输入事件
func (p *Poller) Poll() []input.Event {
	var events []input.Event
	mods := modifiers(ebiten.IsKeyPressed)

	// 1. 焦点
	focused := ebiten.IsFocused()
	if p.focused && !focused {
		events = append(events, input.Lost())
	}
	p.focused = focused
	if !focused {
		p.touching = false
		return events
	}

	// 2. 指针：触摸优先，第一个手指作为主按钮
	if touched := p.pollTouch(mods, &events); !touched {
		events = p.pollMouse(mods, events)
	}

	// 3. 按键
	p.keys = inpututil.AppendPressedKeys(p.keys[:0])
	for _, k := range p.keys {
		mapped, ok := keyMap[k]
		if !ok {
			continue
		}
		if fires(k, inpututil.KeyPressDuration(k)) {
			events = append(events, input.Keystroke(mapped, mods))
		}
	}

	// 4. 文本
	p.chars = ebiten.AppendInputChars(p.chars[:0])
	if len(p.chars) > 0 && !mods.Command() {
		events = append(events, input.Typed(string(p.chars)))
	}
	return events
}

func (p *Poller) pollTouch(mods input.Modifiers, events *[]input.Event) bool {
	if p.touching {
		if inpututil.IsTouchJustReleased(p.touch) {
			x, y := inpututil.TouchPositionInPreviousTick(p.touch)
			*events = append(*events, input.Release(float64(x), float64(y), input.ButtonPrimary, mods))
			p.touching = false
			return true
		}
		x, y := ebiten.TouchPosition(p.touch)
		if x != p.x || y != p.y {
			*events = append(*events, input.Move(float64(x), float64(y), mods))
			p.x, p.y = x, y
		}
		return true
	}
	p.touches = inpututil.AppendJustPressedTouchIDs(p.touches[:0])
	if len(p.touches) == 0 {
		return false
	}
	p.touch, p.touching = p.touches[0], true
	x, y := ebiten.TouchPosition(p.touch)
	p.x, p.y, p.primed = x, y, true
	fx, fy := float64(x), float64(y)
	*events = append(*events, input.Move(fx, fy, mods), input.Press(fx, fy, input.ButtonPrimary, mods))
	return true
}

func (p *Poller) pollMouse(mods input.Modifiers, events []input.Event) []input.Event {
	x, y := ebiten.CursorPosition()
	fx, fy := float64(x), float64(y)
	if !p.primed || x != p.x || y != p.y {
		events = append(events, input.Move(fx, fy, mods))
		p.x, p.y, p.primed = x, y, true
	}
	for _, b := range buttonMap {
		if inpututil.IsMouseButtonJustPressed(b.mouse) {
			events = append(events, input.Press(fx, fy, b.button, mods))
		}
		if inpututil.IsMouseButtonJustReleased(b.mouse) {
			events = append(events, input.Release(fx, fy, b.button, mods))
		}
	}
	if dx, dy := ebiten.Wheel(); dx != 0 || dy != 0 {
		events = append(events, input.WheelAt(fx, fy, dx, dy, mods))
	}
	return events
}

// modifiers 读取修饰键状态
func modifiers(pressed func(ebiten.Key) bool) input.Modifiers {
	var m input.Modifiers
	if pressed(ebiten.KeyShift) {
		m |= input.ModShift
	}
	if pressed(ebiten.KeyControl) {
		m |= input.ModCtrl
	}
	if pressed(ebiten.KeyAlt) {
		m |= input.ModAlt
	}
	if pressed(ebiten.KeyMeta) {
		m |= input.ModMeta
	}
	return m
}

// fires 按键在按住第 d 个 tick 时是否产生事件
func fires(k ebiten.Key, d int) bool {
	if d == 1 {
		return true
	}
	return repeatable[k] && d >= repeatDelay && (d-repeatDelay)%repeatInterval == 0
}
