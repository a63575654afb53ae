package model

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strings"
)

// PropertyKind 可动画属性种类
type PropertyKind uint8

const (
	PositionX PropertyKind = iota + 1
	PositionY
	Rotation
	ScaleX
	ScaleY
	Alpha
	ColorR
	ColorG
	ColorB
	CustomProperty
)

// PropertyID 属性标识：枚举属性或自定义名称
type PropertyID struct {
	Kind PropertyKind
	Name string // 仅 CustomProperty 使用
}

// 内置属性
var (
	PropPositionX = PropertyID{Kind: PositionX}
	PropPositionY = PropertyID{Kind: PositionY}
	PropRotation  = PropertyID{Kind: Rotation}
	PropScaleX    = PropertyID{Kind: ScaleX}
	PropScaleY    = PropertyID{Kind: ScaleY}
	PropAlpha     = PropertyID{Kind: Alpha}
	PropColorR    = PropertyID{Kind: ColorR}
	PropColorG    = PropertyID{Kind: ColorG}
	PropColorB    = PropertyID{Kind: ColorB}
)

// Custom 构造自定义属性 ID
func Custom(name string) PropertyID {
	return PropertyID{Kind: CustomProperty, Name: name}
}

// BuiltinProperties 返回全部内置可动画属性
func BuiltinProperties() []PropertyID {
	return []PropertyID{
		PropPositionX, PropPositionY, PropRotation, PropScaleX, PropScaleY,
		PropAlpha, PropColorR, PropColorG, PropColorB,
	}
}

var propertyKeys = map[PropertyKind]string{
	PositionX: "position_x",
	PositionY: "position_y",
	Rotation:  "rotation",
	ScaleX:    "scale_x",
	ScaleY:    "scale_y",
	Alpha:     "alpha",
	ColorR:    "color_r",
	ColorG:    "color_g",
	ColorB:    "color_b",
}

var propertyNames = map[PropertyKind]string{
	PositionX: "Position X",
	PositionY: "Position Y",
	Rotation:  "Rotation",
	ScaleX:    "Scale X",
	ScaleY:    "Scale Y",
	Alpha:     "Alpha",
	ColorR:    "Color Red",
	ColorG:    "Color Green",
	ColorB:    "Color Blue",
}

const customPrefix = "custom:"

// Key 返回稳定的序列化键，例如 "position_x" 或 "custom:glow"
func (p PropertyID) Key() string {
	if p.Kind == CustomProperty {
		return customPrefix + p.Name
	}
	return propertyKeys[p.Kind]
}

// String 返回显示名称
func (p PropertyID) String() string {
	if p.Kind == CustomProperty {
		return p.Name
	}
	return propertyNames[p.Kind]
}

// ParsePropertyID 解析 Key 生成的字符串
func ParsePropertyID(key string) (PropertyID, error) {
	if name, ok := strings.CutPrefix(key, customPrefix); ok {
		if name == "" {
			return PropertyID{}, fmt.Errorf("empty custom property name")
		}
		return Custom(name), nil
	}
	for kind, k := range propertyKeys {
		if k == key {
			return PropertyID{Kind: kind}, nil
		}
	}
	return PropertyID{}, fmt.Errorf("unknown property %q", key)
}

// ValueKind 属性值类型
type ValueKind uint8

const (
	KindBool ValueKind = iota + 1
	KindInt
	KindFloat
	KindString
	KindColor
	KindTransform
)

// Transform 二维变换
type Transform struct {
	X, Y           float64
	Rotation       float64
	ScaleX, ScaleY float64
	SkewX, SkewY   float64
}

// IdentityTransform 单位变换
func IdentityTransform() Transform {
	return Transform{ScaleX: 1, ScaleY: 1}
}

// Value 静态类型的属性值（带标签联合）
type Value struct {
	Kind      ValueKind
	Bool      bool
	Int       int64
	Float     float64
	Str       string
	Color     color.RGBA
	Transform Transform
}

// 值构造函数
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }
func IntValue(i int64) Value { return Value{Kind: KindInt, Int: i} }
func FloatValue(f float64) Value { return Value{Kind: KindFloat, Float: f} }
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }
func ColorValue(c color.RGBA) Value { return Value{Kind: KindColor, Color: c} }
func TransformValue(t Transform) Value { return Value{Kind: KindTransform, Transform: t} }

// String 调试输出
func (v Value) String() string {
	switch v.Kind {
	case KindBool:
		return fmt.Sprintf("%t", v.Bool)
	case KindInt:
		return fmt.Sprintf("%d", v.Int)
	case KindFloat:
		return fmt.Sprintf("%g", v.Float)
	case KindString:
		return fmt.Sprintf("%q", v.Str)
	case KindColor:
		return fmt.Sprintf("rgba(%d,%d,%d,%d)", v.Color.R, v.Color.G, v.Color.B, v.Color.A)
	case KindTransform:
		return fmt.Sprintf("%+v", v.Transform)
	default:
		return "<invalid>"
	}
}

// Interpolate 在 a 与 b 之间按进度 t 插值
//
// 数值、颜色与变换逐分量线性插值；布尔和字符串保持 a 直到 t ≥ 1。
// 类型不同时保持 a。
func Interpolate(a, b Value, t float64) Value {
	if a.Kind != b.Kind {
		return a
	}
	switch a.Kind {
	case KindInt:
		return IntValue(int64(math.Round(lerp(float64(a.Int), float64(b.Int), t))))
	case KindFloat:
		return FloatValue(lerp(a.Float, b.Float, t))
	case KindColor:
		return ColorValue(color.RGBA{
			R: lerpByte(a.Color.R, b.Color.R, t),
			G: lerpByte(a.Color.G, b.Color.G, t),
			B: lerpByte(a.Color.B, b.Color.B, t),
			A: lerpByte(a.Color.A, b.Color.A, t),
		})
	case KindTransform:
		x, y := a.Transform, b.Transform
		return TransformValue(Transform{
			X:        lerp(x.X, y.X, t),
			Y:        lerp(x.Y, y.Y, t),
			Rotation: lerp(x.Rotation, y.Rotation, t),
			ScaleX:   lerp(x.ScaleX, y.ScaleX, t),
			ScaleY:   lerp(x.ScaleY, y.ScaleY, t),
			SkewX:    lerp(x.SkewX, y.SkewX, t),
			SkewY:    lerp(x.SkewY, y.SkewY, t),
		})
	default:
		if t >= 1 {
			return b
		}
		return a
	}
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

func lerpByte(a, b uint8, t float64) uint8 {
	v := math.Round(lerp(float64(a), float64(b), t))
	return uint8(math.Max(0, math.Min(255, v)))
}

// Properties 关键帧属性表
type Properties map[PropertyID]Value

// Clone 拷贝属性表
func (p Properties) Clone() Properties {
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Equal 报告两个属性表是否完全一致
func (p Properties) Equal(o Properties) bool {
	if len(p) != len(o) {
		return false
	}
	for k, v := range p {
		if ov, ok := o[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// SortedIDs 按 Key 排序的属性 ID，用于稳定输出
func (p Properties) SortedIDs() []PropertyID {
	out := make([]PropertyID, 0, len(p))
	for k := range p {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}
