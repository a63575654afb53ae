package record

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/decker502/timeline/pkg/easing"
	"github.com/decker502/timeline/pkg/model"
)

var valueTypes = map[model.ValueKind]string{
	model.KindBool:      "bool",
	model.KindInt:       "int",
	model.KindFloat:     "float",
	model.KindString:    "string",
	model.KindColor:     "color",
	model.KindTransform: "transform",
}

func fromColor(c color.RGBA) *ColorRecord {
	return &ColorRecord{R: c.R, G: c.G, B: c.B, A: c.A}
}

func fromColorPtr(c *color.RGBA) *ColorRecord {
	if c == nil {
		return nil
	}
	return fromColor(*c)
}

func (c *ColorRecord) rgba() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func toColorPtr(c *ColorRecord) *color.RGBA {
	if c == nil {
		return nil
	}
	out := c.rgba()
	return &out
}

// FromValue 转换属性值
func FromValue(v model.Value) ValueRecord {
	r := ValueRecord{Type: valueTypes[v.Kind]}
	switch v.Kind {
	case model.KindBool:
		r.Bool = v.Bool
	case model.KindInt:
		r.Int = v.Int
	case model.KindFloat:
		r.Float = v.Float
	case model.KindString:
		r.String = v.Str
	case model.KindColor:
		r.Color = fromColor(v.Color)
	case model.KindTransform:
		t := v.Transform
		r.Transform = &TransformRecord{
			X:        t.X,
			Y:        t.Y,
			Rotation: t.Rotation,
			ScaleX:   t.ScaleX,
			ScaleY:   t.ScaleY,
			SkewX:    t.SkewX,
			SkewY:    t.SkewY,
		}
	}
	return r
}

// ToValue 还原属性值
func ToValue(r ValueRecord) (model.Value, error) {
	switch r.Type {
	case "bool":
		return model.BoolValue(r.Bool), nil
	case "int":
		return model.IntValue(r.Int), nil
	case "float":
		return model.FloatValue(r.Float), nil
	case "string":
		return model.StringValue(r.String), nil
	case "color":
		if r.Color == nil {
			return model.Value{}, fmt.Errorf("color value without color")
		}
		return model.ColorValue(r.Color.rgba()), nil
	case "transform":
		if r.Transform == nil {
			return model.Value{}, fmt.Errorf("transform value without transform")
		}
		t := r.Transform
		return model.TransformValue(model.Transform{
			X:        t.X,
			Y:        t.Y,
			Rotation: t.Rotation,
			ScaleX:   t.ScaleX,
			ScaleY:   t.ScaleY,
			SkewX:    t.SkewX,
			SkewY:    t.SkewY,
		}), nil
	}
	return model.Value{}, fmt.Errorf("unknown value type %q", r.Type)
}

// FromProperties 按属性键排序转换属性表
func FromProperties(p model.Properties) []PropertyRecord {
	if len(p) == 0 {
		return nil
	}
	out := make([]PropertyRecord, 0, len(p))
	for _, id := range p.SortedIDs() {
		out = append(out, PropertyRecord{Property: id.Key(), Value: FromValue(p[id])})
	}
	return out
}

// ToProperties 还原属性表；重复的属性键被拒绝
func ToProperties(recs []PropertyRecord) (model.Properties, error) {
	out := make(model.Properties, len(recs))
	for _, r := range recs {
		id, err := model.ParsePropertyID(r.Property)
		if err != nil {
			return nil, err
		}
		if _, dup := out[id]; dup {
			return nil, fmt.Errorf("duplicate property %q", r.Property)
		}
		v, err := ToValue(r.Value)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", r.Property, err)
		}
		out[id] = v
	}
	return out, nil
}

func fromCurves(m map[model.PropertyID]easing.BezierCurve) []CurveRecord {
	if len(m) == 0 {
		return nil
	}
	out := make([]CurveRecord, 0, len(m))
	for id, c := range m {
		out = append(out, CurveRecord{Property: id.Key(), Curve: c.Clone()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Property < out[j].Property })
	return out
}

func toCurves(recs []CurveRecord) (map[model.PropertyID]easing.BezierCurve, error) {
	if len(recs) == 0 {
		return nil, nil
	}
	out := make(map[model.PropertyID]easing.BezierCurve, len(recs))
	for _, r := range recs {
		id, err := model.ParsePropertyID(r.Property)
		if err != nil {
			return nil, err
		}
		if err := r.Curve.Validate(); err != nil {
			return nil, fmt.Errorf("easing for %q: %w", r.Property, err)
		}
		out[id] = r.Curve.Clone()
	}
	return out, nil
}
