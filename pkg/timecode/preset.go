package timecode

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// PresetKind FPS 预设种类
type PresetKind int

const (
	PresetFilm PresetKind = iota
	PresetPAL
	PresetNTSC
	PresetWeb
	PresetHigh
	PresetCustom
)

// FPSPreset FPS 预设
//
// Custom 预设携带自定义帧率，其他预设忽略 Custom 字段。
// 序列化为带标签的值：{preset: film} 或 {preset: custom, fps: 12.5}。
type FPSPreset struct {
	Kind   PresetKind
	Custom float32
}

// 预设常量
var (
	Film = FPSPreset{Kind: PresetFilm}
	PAL  = FPSPreset{Kind: PresetPAL}
	NTSC = FPSPreset{Kind: PresetNTSC}
	Web  = FPSPreset{Kind: PresetWeb}
	High = FPSPreset{Kind: PresetHigh}
)

// Custom 创建自定义帧率预设
func Custom(fps float32) FPSPreset {
	return FPSPreset{Kind: PresetCustom, Custom: fps}
}

// AllPresets 返回内置预设（不含 Custom）
func AllPresets() []FPSPreset {
	return []FPSPreset{Film, PAL, NTSC, Web, High}
}

// FPS 返回预设的帧率数值
func (p FPSPreset) FPS() float32 {
	switch p.Kind {
	case PresetFilm:
		return 24
	case PresetPAL:
		return 25
	case PresetNTSC:
		return 29.97
	case PresetWeb:
		return 30
	case PresetHigh:
		return 60
	default:
		return p.Custom
	}
}

// Label 返回展示用标签
func (p FPSPreset) Label() string {
	switch p.Kind {
	case PresetFilm:
		return "24 fps (Film)"
	case PresetPAL:
		return "25 fps (PAL)"
	case PresetNTSC:
		return "29.97 fps (NTSC)"
	case PresetWeb:
		return "30 fps (Web)"
	case PresetHigh:
		return "60 fps (High)"
	default:
		return strconv.FormatFloat(float64(p.Custom), 'f', -1, 32) + " fps (Custom)"
	}
}

var presetTags = map[PresetKind]string{
	PresetFilm:   "film",
	PresetPAL:    "pal",
	PresetNTSC:   "ntsc",
	PresetWeb:    "web",
	PresetHigh:   "high",
	PresetCustom: "custom",
}

// Tag 返回序列化标签
func (p FPSPreset) Tag() string {
	return presetTags[p.Kind]
}

// ParsePreset 根据标签解析预设；custom 使用给定帧率
func ParsePreset(tag string, fps float32) (FPSPreset, error) {
	for kind, t := range presetTags {
		if t == tag {
			if kind == PresetCustom {
				if fps <= 0 {
					return FPSPreset{}, fmt.Errorf("custom fps must be positive, got %v", fps)
				}
				return Custom(fps), nil
			}
			return FPSPreset{Kind: kind}, nil
		}
	}
	return FPSPreset{}, fmt.Errorf("unknown fps preset %q", tag)
}

type presetRecord struct {
	Preset string  `yaml:"preset"`
	FPS    float32 `yaml:"fps,omitempty"`
}

// MarshalYAML 实现 yaml.Marshaler
func (p FPSPreset) MarshalYAML() (interface{}, error) {
	rec := presetRecord{Preset: p.Tag()}
	if p.Kind == PresetCustom {
		rec.FPS = p.Custom
	}
	return rec, nil
}

// UnmarshalYAML 实现 yaml.Unmarshaler
func (p *FPSPreset) UnmarshalYAML(value *yaml.Node) error {
	var rec presetRecord
	if err := value.Decode(&rec); err != nil {
		return fmt.Errorf("failed to decode fps preset: %w", err)
	}
	parsed, err := ParsePreset(rec.Preset, rec.FPS)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
