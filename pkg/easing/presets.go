package easing

// Preset 缓动预设
type Preset int

const (
	PresetLinear Preset = iota
	PresetEaseIn
	PresetEaseOut
	PresetEaseInOut
	PresetEaseInQuad
	PresetEaseOutQuad
	PresetEaseInOutQuad
	PresetEaseInCubic
	PresetEaseOutCubic
	PresetEaseInOutCubic
	PresetEaseInElastic
	PresetEaseOutElastic
	PresetEaseInOutElastic
	PresetEaseInBounce
	PresetEaseOutBounce
	PresetEaseInOutBounce
	PresetCustom
)

// sampledSegments 弹性/弹跳预设的采样段数
const sampledSegments = 32

var presetNames = map[Preset]string{
	PresetLinear:           "Linear",
	PresetEaseIn:           "Ease In",
	PresetEaseOut:          "Ease Out",
	PresetEaseInOut:        "Ease In-Out",
	PresetEaseInQuad:       "Ease In Quad",
	PresetEaseOutQuad:      "Ease Out Quad",
	PresetEaseInOutQuad:    "Ease In-Out Quad",
	PresetEaseInCubic:      "Ease In Cubic",
	PresetEaseOutCubic:     "Ease Out Cubic",
	PresetEaseInOutCubic:   "Ease In-Out Cubic",
	PresetEaseInElastic:    "Ease In Elastic",
	PresetEaseOutElastic:   "Ease Out Elastic",
	PresetEaseInOutElastic: "Ease In-Out Elastic",
	PresetEaseInBounce:     "Ease In Bounce",
	PresetEaseOutBounce:    "Ease Out Bounce",
	PresetEaseInOutBounce:  "Ease In-Out Bounce",
	PresetCustom:           "Custom",
}

// AllPresets 返回所有内置预设（不含 Custom）
func AllPresets() []Preset {
	out := make([]Preset, 0, int(PresetCustom))
	for p := PresetLinear; p < PresetCustom; p++ {
		out = append(out, p)
	}
	return out
}

// Name 返回预设的显示名称
func (p Preset) Name() string {
	if n, ok := presetNames[p]; ok {
		return n
	}
	return "Unknown"
}

// Curve 构造预设对应的规范曲线；Custom 返回 Linear
func (p Preset) Curve() BezierCurve {
	switch p {
	case PresetEaseIn:
		return twoPoint(0.42, 0, 1, 1)
	case PresetEaseOut:
		return twoPoint(0, 0, 0.58, 1)
	case PresetEaseInOut:
		return twoPoint(0.42, 0, 0.58, 1)
	case PresetEaseInQuad:
		return twoPoint(0.55, 0.085, 0.68, 0.53)
	case PresetEaseOutQuad:
		return twoPoint(0.25, 0.46, 0.45, 0.94)
	case PresetEaseInOutQuad:
		return twoPoint(0.455, 0.03, 0.515, 0.955)
	case PresetEaseInCubic:
		return twoPoint(0.55, 0.055, 0.675, 0.19)
	case PresetEaseOutCubic:
		return twoPoint(0.215, 0.61, 0.355, 1)
	case PresetEaseInOutCubic:
		return twoPoint(0.645, 0.045, 0.355, 1)
	case PresetEaseInElastic:
		return FromFunc(EaseInElastic, sampledSegments)
	case PresetEaseOutElastic:
		return FromFunc(EaseOutElastic, sampledSegments)
	case PresetEaseInOutElastic:
		return FromFunc(EaseInOutElastic, sampledSegments)
	case PresetEaseInBounce:
		return FromFunc(EaseInBounce, sampledSegments)
	case PresetEaseOutBounce:
		return FromFunc(EaseOutBounce, sampledSegments)
	case PresetEaseInOutBounce:
		return FromFunc(EaseInOutBounce, sampledSegments)
	default:
		return Linear()
	}
}

// Identify 返回与曲线完全一致的预设，否则返回 PresetCustom
func Identify(c BezierCurve) Preset {
	for _, p := range AllPresets() {
		if p.Curve().Equal(c) {
			return p
		}
	}
	return PresetCustom
}

// Linear 线性曲线：手柄沿对角线，f(t) = t
func Linear() BezierCurve {
	const third = float32(1.0 / 3.0)
	return BezierCurve{Points: []BezierPoint{
		{Pos: Vec2{0, 0}, Out: Vec2{third, third}},
		{Pos: Vec2{1, 1}, In: Vec2{-third, -third}},
	}}
}

// twoPoint 用 CSS cubic-bezier(x1,y1,x2,y2) 形式构造两点曲线
func twoPoint(x1, y1, x2, y2 float32) BezierCurve {
	return BezierCurve{Points: []BezierPoint{
		{Pos: Vec2{0, 0}, Out: Vec2{x1, y1}},
		{Pos: Vec2{1, 1}, In: Vec2{x2 - 1, y2 - 1}},
	}}
}
