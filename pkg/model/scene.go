package model

import (
	"image/color"
	"time"

	"github.com/decker502/timeline/pkg/ids"
	"github.com/decker502/timeline/pkg/selection"
	"github.com/decker502/timeline/pkg/timecode"
)

// nowFunc 时间源，测试中可替换
var nowFunc = time.Now

// StageSize 舞台尺寸（像素）
type StageSize struct {
	Width, Height uint32
}

// Scene 场景：一条独立的时间轴及其元数据
type Scene struct {
	ID           ids.SceneID
	Name         string
	Description  string
	Timeline     *Timeline
	Assets       []string // 场景本地资源 ID
	CurrentFrame uint32
	Selection    selection.Snapshot

	FPSOverride *timecode.FPSPreset
	Stage       *StageSize
	Background  *color.RGBA

	CreatedAt  time.Time
	ModifiedAt time.Time
	Modified   bool
}

// NewScene 创建空场景（默认 100 帧）
func NewScene(name string, fps timecode.FPSPreset) *Scene {
	now := nowFunc()
	return &Scene{
		ID:         ids.NewSceneID(),
		Name:       name,
		Timeline:   NewTimeline(DefaultFrameCount, fps),
		CreatedAt:  now,
		ModifiedAt: now,
	}
}

// EffectiveFPS 返回场景帧率：有覆盖时使用覆盖值
func (s *Scene) EffectiveFPS() float32 {
	if s.FPSOverride != nil {
		return s.FPSOverride.FPS()
	}
	return s.Timeline.FPS.FPS()
}

// MarkModified 标记场景有未保存修改
func (s *Scene) MarkModified() {
	s.Modified = true
	s.ModifiedAt = nowFunc()
}

// MarkSaved 清除未保存标记
func (s *Scene) MarkSaved() { s.Modified = false }

// DisplayName 显示名称，有未保存修改时追加 "*"
func (s *Scene) DisplayName() string {
	if s.Modified {
		return s.Name + "*"
	}
	return s.Name
}

// duplicate 深拷贝场景：新场景 ID、新图层/关键帧/补间 ID，选择清空，标记为已修改
func (s *Scene) duplicate(name string) *Scene {
	now := nowFunc()
	out := &Scene{
		ID:           ids.NewSceneID(),
		Name:         name,
		Description:  s.Description,
		Timeline:     s.Timeline.cloneWithFreshIDs(),
		Assets:       append([]string(nil), s.Assets...),
		CurrentFrame: s.CurrentFrame,
		CreatedAt:    now,
		ModifiedAt:   now,
		Modified:     true,
	}
	if s.FPSOverride != nil {
		f := *s.FPSOverride
		out.FPSOverride = &f
	}
	if s.Stage != nil {
		st := *s.Stage
		out.Stage = &st
	}
	if s.Background != nil {
		bg := *s.Background
		out.Background = &bg
	}
	return out
}

// SceneSummary 场景摘要
type SceneSummary struct {
	ID         ids.SceneID
	Name       string
	LayerCount int
	FrameCount uint32
	Modified   bool
}

// Summary 返回场景摘要
func (s *Scene) Summary() SceneSummary {
	return SceneSummary{
		ID:         s.ID,
		Name:       s.Name,
		LayerCount: s.Timeline.LayerCount(),
		FrameCount: s.Timeline.FrameCount,
		Modified:   s.Modified,
	}
}

// cloneWithFreshIDs 拷贝时间轴并为所有图层、关键帧、补间分配新 ID
func (tl *Timeline) cloneWithFreshIDs() *Timeline {
	out := NewTimeline(tl.FrameCount, tl.FPS)
	out.marks = tl.marks.clone()
	for _, root := range tl.roots {
		id := tl.copySubtreeInto(out, root, "")
		out.roots = append(out.roots, id)
	}
	return out
}

func (tl *Timeline) copySubtreeInto(dst *Timeline, id, parent ids.LayerID) ids.LayerID {
	src := tl.layers[id]
	dup := src.clone()
	dup.ID = ids.NewLayerID()
	dup.Parent = parent
	dup.Children = nil
	dup.refreshIDs()
	dst.layers[dup.ID] = dup
	for _, c := range src.Children {
		dup.Children = append(dup.Children, tl.copySubtreeInto(dst, c, dup.ID))
	}
	return dup.ID
}
