// Package ids 提供时间轴核心使用的稳定标识符。
//
// 所有 ID 都是带类型前缀的 UUID 字符串（例如 "layer_5f0c..."），
// 可跨会话持久化，在同一项目内唯一。零值表示"未设置"。
package ids

import "github.com/google/uuid"

// LayerID 图层标识符
type LayerID string

// KeyframeID 关键帧标识符
type KeyframeID string

// TweenID 补间标识符
type TweenID string

// AudioID 音频源标识符
type AudioID string

// SceneID 场景标识符
type SceneID string

// ID 前缀常量
const (
	layerPrefix    = "layer_"
	keyframePrefix = "kf_"
	tweenPrefix    = "tween_"
	audioPrefix    = "audio_"
	scenePrefix    = "scene_"
)

// NewLayerID 生成新的图层 ID
func NewLayerID() LayerID { return LayerID(layerPrefix + uuid.NewString()) }

// NewKeyframeID 生成新的关键帧 ID
func NewKeyframeID() KeyframeID { return KeyframeID(keyframePrefix + uuid.NewString()) }

// NewTweenID 生成新的补间 ID
func NewTweenID() TweenID { return TweenID(tweenPrefix + uuid.NewString()) }

// NewAudioID 生成新的音频源 ID
func NewAudioID() AudioID { return AudioID(audioPrefix + uuid.NewString()) }

// NewSceneID 生成新的场景 ID
func NewSceneID() SceneID { return SceneID(scenePrefix + uuid.NewString()) }

func (id LayerID) String() string { return string(id) }
func (id KeyframeID) String() string { return string(id) }
func (id TweenID) String() string { return string(id) }
func (id AudioID) String() string { return string(id) }
func (id SceneID) String() string { return string(id) }

// IsZero 报告 ID 是否未设置
func (id LayerID) IsZero() bool { return id == "" }

// IsZero 报告 ID 是否未设置
func (id KeyframeID) IsZero() bool { return id == "" }

// IsZero 报告 ID 是否未设置
func (id TweenID) IsZero() bool { return id == "" }

// IsZero 报告 ID 是否未设置
func (id SceneID) IsZero() bool { return id == "" }
