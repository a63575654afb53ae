// Package record 在内存模型与字段命名稳定的持久化记录之间转换
//
// 记录只包含基本类型、字符串枚举与 YAML 标签，可安全地交给任何存储。
// 读取方向（To*）会重建模型并校验全部不变量，非法记录整体拒绝。
package record

import (
	"time"

	"github.com/decker502/timeline/pkg/easing"
	"github.com/decker502/timeline/pkg/ids"
	"github.com/decker502/timeline/pkg/timecode"
)

// Version 当前记录格式版本
const Version = 1

// ProjectRecord 项目
type ProjectRecord struct {
	Version int                `yaml:"version"`
	FPS     timecode.FPSPreset `yaml:"fps"`
	Active  ids.SceneID        `yaml:"active_scene"`
	Recent  []ids.SceneID      `yaml:"recent_scenes,omitempty"`
	Scenes  []SceneRecord      `yaml:"scenes"`
}

// SceneRecord 场景
type SceneRecord struct {
	ID           ids.SceneID         `yaml:"id"`
	Name         string              `yaml:"name"`
	Description  string              `yaml:"description,omitempty"`
	Assets       []string            `yaml:"assets,omitempty"`
	CurrentFrame uint32              `yaml:"current_frame"`
	FPSOverride  *timecode.FPSPreset `yaml:"fps_override,omitempty"`
	Stage        *StageRecord        `yaml:"stage,omitempty"`
	Background   *ColorRecord        `yaml:"background,omitempty"`
	CreatedAt    time.Time           `yaml:"created_at"`
	ModifiedAt   time.Time           `yaml:"modified_at"`
	Timeline     TimelineRecord      `yaml:"timeline"`
}

// StageRecord 舞台尺寸
type StageRecord struct {
	Width  uint32 `yaml:"width"`
	Height uint32 `yaml:"height"`
}

// ColorRecord RGBA 颜色
type ColorRecord struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
	A uint8 `yaml:"a"`
}

// TimelineRecord 时间轴
type TimelineRecord struct {
	FrameCount uint32             `yaml:"frame_count"`
	FPS        timecode.FPSPreset `yaml:"fps"`
	Roots      []ids.LayerID      `yaml:"roots"`
	Layers     []LayerRecord      `yaml:"layers"`
	Labels     []LabelRecord      `yaml:"labels,omitempty"`
	Comments   []CommentRecord    `yaml:"comments,omitempty"`
}

// LayerRecord 图层；Type 为 normal、folder、guide、motion_guide、mask 或 audio
type LayerRecord struct {
	ID        ids.LayerID      `yaml:"id"`
	Name      string           `yaml:"name"`
	Type      string           `yaml:"type"`
	Visible   bool             `yaml:"visible"`
	Locked    bool             `yaml:"locked"`
	Parent    ids.LayerID      `yaml:"parent,omitempty"`
	Children  []ids.LayerID    `yaml:"children,omitempty"`
	Keyframes []KeyframeRecord `yaml:"keyframes,omitempty"`
	Tweens    []TweenRecord    `yaml:"tweens,omitempty"`
	Audio     *AudioRecord     `yaml:"audio,omitempty"`
}

// KeyframeRecord 关键帧；属性按键排序
type KeyframeRecord struct {
	ID         ids.KeyframeID   `yaml:"id"`
	Frame      uint32           `yaml:"frame"`
	Properties []PropertyRecord `yaml:"properties,omitempty"`
	Blank      bool             `yaml:"blank,omitempty"`
}

// PropertyRecord 单个属性值
type PropertyRecord struct {
	Property string      `yaml:"property"`
	Value    ValueRecord `yaml:"value"`
}

// ValueRecord 带类型标签的属性值；只有与 Type 对应的字段有意义
type ValueRecord struct {
	Type      string           `yaml:"type"`
	Bool      bool             `yaml:"bool,omitempty"`
	Int       int64            `yaml:"int,omitempty"`
	Float     float64          `yaml:"float,omitempty"`
	String    string           `yaml:"string,omitempty"`
	Color     *ColorRecord     `yaml:"color,omitempty"`
	Transform *TransformRecord `yaml:"transform,omitempty"`
}

// TransformRecord 二维变换
type TransformRecord struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Rotation float64 `yaml:"rotation"`
	ScaleX   float64 `yaml:"scale_x"`
	ScaleY   float64 `yaml:"scale_y"`
	SkewX    float64 `yaml:"skew_x"`
	SkewY    float64 `yaml:"skew_y"`
}

// TweenRecord 补间；Kind 为 motion、shape 或 classic
type TweenRecord struct {
	ID             ids.TweenID        `yaml:"id"`
	Start          uint32             `yaml:"start"`
	End            uint32             `yaml:"end"`
	Kind           string             `yaml:"kind"`
	Easing         easing.BezierCurve `yaml:"easing"`
	PropertyEasing []CurveRecord      `yaml:"property_easing,omitempty"`
}

// CurveRecord 单个属性的缓动覆盖
type CurveRecord struct {
	Property string             `yaml:"property"`
	Curve    easing.BezierCurve `yaml:"curve"`
}

// AudioRecord 音频轨道；Sync 为 event、start、stop 或 stream
type AudioRecord struct {
	Source     AudioSourceRecord `yaml:"source"`
	Sync       string            `yaml:"sync"`
	Volume     float32           `yaml:"volume"`
	StartFrame uint32            `yaml:"start_frame"`
	TrimStart  float32           `yaml:"trim_start,omitempty"`
	TrimEnd    float32           `yaml:"trim_end,omitempty"`
	Loop       bool              `yaml:"loop,omitempty"`
	Envelope   []EnvelopeRecord  `yaml:"envelope"`
}

// AudioSourceRecord 音频源元数据
type AudioSourceRecord struct {
	ID         ids.AudioID `yaml:"id"`
	Path       string      `yaml:"path"`
	Duration   float32     `yaml:"duration"`
	SampleRate uint32      `yaml:"sample_rate"`
	Channels   uint32      `yaml:"channels"`
	Loaded     bool        `yaml:"loaded"`
}

// EnvelopeRecord 音量包络点
type EnvelopeRecord struct {
	Frame  uint32  `yaml:"frame"`
	Volume float32 `yaml:"volume"`
}

// LabelRecord 帧标签
type LabelRecord struct {
	Frame uint32       `yaml:"frame"`
	Text  string       `yaml:"text"`
	Color *ColorRecord `yaml:"color,omitempty"`
}

// CommentRecord 帧注释
type CommentRecord struct {
	Frame     uint32       `yaml:"frame"`
	Text      string       `yaml:"text"`
	Author    string       `yaml:"author,omitempty"`
	Timestamp time.Time    `yaml:"timestamp"`
	Color     *ColorRecord `yaml:"color,omitempty"`
}
