// Package engine 时间轴驱动的动画引擎契约
//
// AnimationEngine 是时间轴核心依赖的能力集合：图层枚举、帧数据查询、播放控制、
// 全部帧与图层编辑操作。所有方法都是同步的，只在 UI 线程调用。
// Memory 是基于 pkg/model 的参考实现。
package engine

import (
	"github.com/decker502/timeline/pkg/easing"
	"github.com/decker502/timeline/pkg/ids"
	"github.com/decker502/timeline/pkg/model"
)

// FrameType 帧单元类型（补间是独立的单元类型）
type FrameType int

const (
	FrameEmpty FrameType = iota
	FrameKeyframe
	FrameTween
)

// String 返回名称
func (t FrameType) String() string {
	switch t {
	case FrameKeyframe:
		return "Keyframe"
	case FrameTween:
		return "Tween"
	default:
		return "Empty"
	}
}

// KeyframeType 集成层的关键帧类型
//
// 集成层没有补间类型：补间帧映射为 KeyframeEmpty 并通过 HasTween 标记，
// 没有任何属性的关键帧映射为 KeyframeBlank。
type KeyframeType int

const (
	KeyframeEmpty KeyframeType = iota
	KeyframeKey
	KeyframeBlank
)

// String 返回名称
func (t KeyframeType) String() string {
	switch t {
	case KeyframeKey:
		return "Keyframe"
	case KeyframeBlank:
		return "BlankKeyframe"
	default:
		return "Empty"
	}
}

// FrameData (图层, 帧) 的帧数据
type FrameData struct {
	Layer      ids.LayerID
	Frame      uint32
	Type       FrameType
	HasContent bool
	Keyframe   ids.KeyframeID // Type == FrameKeyframe 时有效
	Tween      ids.TweenID    // 补间帧，或作为补间起点的关键帧
	TweenKind  model.TweenKind
	TweenStart uint32
	TweenEnd   uint32
}

// HasTween 报告帧是否属于某个补间
func (d FrameData) HasTween() bool { return d.Tween != "" }

// KeyframeType 返回集成层映射
func (d FrameData) KeyframeType() KeyframeType {
	switch {
	case d.Type == FrameKeyframe && !d.HasContent:
		return KeyframeBlank
	case d.Type == FrameKeyframe:
		return KeyframeKey
	default:
		return KeyframeEmpty
	}
}

// LayerInfo 图层描述（显示顺序）
type LayerInfo struct {
	ID       ids.LayerID
	Name     string
	Type     model.LayerType
	Visible  bool
	Locked   bool
	Parent   ids.LayerID
	Children []ids.LayerID
	Depth    int
}

// KeyframeInfo 关键帧枚举项
type KeyframeInfo struct {
	ID       ids.KeyframeID
	Layer    ids.LayerID
	Frame    uint32
	Type     KeyframeType
	HasTween bool
}

// AudioLayerInfo 音频图层及其轨道快照
type AudioLayerInfo struct {
	Layer   ids.LayerID
	Name    string
	Visible bool
	Track   model.AudioTrack
}

// Transport 播放控制
type Transport interface {
	Play()
	Pause()
	IsPlaying() bool
	Seek(frame uint32) error
	CurrentFrame() uint32
	TotalFrames() uint32
	FPS() float32
}

// Reader 只读查询
type Reader interface {
	Layers() []LayerInfo
	FrameData(layer ids.LayerID, frame uint32) (FrameData, error)
	Keyframes(layer ids.LayerID) ([]KeyframeInfo, error)
	Property(layer ids.LayerID, frame uint32, prop model.PropertyID) (model.Value, bool, error)
	Tween(layer ids.LayerID, frame uint32) (model.Tween, bool, error)
	Labels() []model.Label
	Comments() []model.Comment
	AudioLayers() []AudioLayerInfo
	LayerPosition(layer ids.LayerID) (ids.LayerID, int, error)
}

// FrameEditor 帧与关键帧编辑
type FrameEditor interface {
	InsertFrame(layer ids.LayerID, frame uint32) error
	RemoveFrame(layer ids.LayerID, frame uint32) error
	InsertKeyframe(layer ids.LayerID, frame uint32) (ids.KeyframeID, error)
	InsertBlankKeyframe(layer ids.LayerID, frame uint32) (ids.KeyframeID, error)
	ClearKeyframe(layer ids.LayerID, frame uint32) error
	DeleteKeyframe(layer ids.LayerID, frame uint32) error
	MoveKeyframe(layer ids.LayerID, from, to uint32) error
	CreateMotionTween(layer ids.LayerID, frame uint32) (ids.TweenID, error)
	CreateShapeTween(layer ids.LayerID, frame uint32) (ids.TweenID, error)
	RemoveTween(layer ids.LayerID, frame uint32) error
	SetTweenEasing(layer ids.LayerID, frame uint32, prop *model.PropertyID, curve easing.BezierCurve) error
	CopyKeyframe(layer ids.LayerID, frame uint32) (model.Payload, error)
	PasteKeyframe(layer ids.LayerID, frame uint32, payload model.Payload) (ids.KeyframeID, error)
	SetProperty(layer ids.LayerID, frame uint32, prop model.PropertyID, value model.Value) error
	UnsetProperty(layer ids.LayerID, frame uint32, prop model.PropertyID) error
}

// LayerEditor 图层增删改
type LayerEditor interface {
	AddLayer(name string, typ model.LayerType) (ids.LayerID, error)
	InsertLayer(name string, typ model.LayerType, parent ids.LayerID, index int) (ids.LayerID, error)
	AddFolderLayer(name string) (ids.LayerID, error)
	AddMotionGuideLayer(target ids.LayerID) (ids.LayerID, error)
	AddAudioLayer(name string, source model.AudioSource, startFrame uint32) (ids.LayerID, error)
	DeleteLayer(layer ids.LayerID) error
	DuplicateLayer(layer ids.LayerID) (ids.LayerID, error)
	RenameLayer(layer ids.LayerID, name string) error
	SetLayerVisible(layer ids.LayerID, visible bool) error
	SetLayerLocked(layer ids.LayerID, locked bool) error
	SetLayerType(layer ids.LayerID, typ model.LayerType) error
	MoveLayer(layer, parent ids.LayerID, index int) error
	EditAudio(layer ids.LayerID, edit func(a *model.AudioTrack) error) error
}

// MarkerEditor 标签与注释
type MarkerEditor interface {
	SetLabel(l model.Label) error
	RemoveLabel(frame uint32) error
	SetComment(c model.Comment) error
	RemoveComment(frame uint32) error
}

// Snapshotter 撤销所需的状态快照
type Snapshotter interface {
	SnapshotLayer(layer ids.LayerID) (model.LayerContent, error)
	RestoreLayer(snap model.LayerContent) error
	SnapshotTimeline() (*model.Timeline, error)
	RestoreTimeline(tl *model.Timeline) error
}

// AnimationEngine 时间轴驱动的完整引擎能力
type AnimationEngine interface {
	Transport
	Reader
	FrameEditor
	LayerEditor
	MarkerEditor
	Snapshotter
}

// AudioSourceUpdater 换入宿主解码的音频元数据（Memory 实现；其他引擎可选）
//
// 作用于所有场景，忽略图层锁定，不标记场景修改。
type AudioSourceUpdater interface {
	UpdateAudioSource(src model.AudioSource) int
}

// SceneHost 多场景管理能力（Memory 实现；其他引擎可选）
type SceneHost interface {
	Project() *model.Project
	ActiveScene() (*model.Scene, error)
	CreateScene(name string) (ids.SceneID, error)
	DuplicateScene(id ids.SceneID, name string) (ids.SceneID, error)
	RemoveScene(id ids.SceneID) (int, error)
	RestoreScene(s *model.Scene, index int) error
	SwitchScene(id ids.SceneID) error
	RenameScene(id ids.SceneID, name string) error
	MoveScene(id ids.SceneID, index int) error
}
