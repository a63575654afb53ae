package model

import (
	"fmt"

	"github.com/decker502/timeline/pkg/ids"
	"github.com/decker502/timeline/pkg/timecode"
)

// MaxRecentScenes 最近场景列表的容量
const MaxRecentScenes = 10

// Project 项目：有序场景列表，恰有一个活动场景
type Project struct {
	FPS    timecode.FPSPreset
	scenes []*Scene
	active ids.SceneID
	recent []ids.SceneID
}

// NewProject 创建包含一个 "Scene 1" 的项目
func NewProject(fps timecode.FPSPreset) *Project {
	p := &Project{FPS: fps}
	p.AddScene(NewScene("Scene 1", fps))
	return p
}

// Scenes 返回有序场景列表
func (p *Project) Scenes() []*Scene { return append([]*Scene(nil), p.scenes...) }

// SceneCount 场景数量
func (p *Project) SceneCount() int { return len(p.scenes) }

// Active 返回活动场景
func (p *Project) Active() *Scene {
	s, _ := p.Scene(p.active)
	return s
}

// ActiveID 返回活动场景 ID
func (p *Project) ActiveID() ids.SceneID { return p.active }

// Recent 返回最近切换离开的场景（最新在前）
func (p *Project) Recent() []ids.SceneID { return append([]ids.SceneID(nil), p.recent...) }

// Scene 按 ID 查找场景
func (p *Project) Scene(id ids.SceneID) (*Scene, error) {
	for _, s := range p.scenes {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, fmt.Errorf("scene %s: %w", id, ErrSceneNotFound)
}

func (p *Project) indexOf(id ids.SceneID) int {
	for i, s := range p.scenes {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// AddScene 追加场景；第一个场景自动成为活动场景
func (p *Project) AddScene(s *Scene) ids.SceneID {
	return p.InsertScene(s, len(p.scenes))
}

// InsertScene 在 index 处插入场景
func (p *Project) InsertScene(s *Scene, index int) ids.SceneID {
	if index < 0 {
		index = 0
	}
	if index > len(p.scenes) {
		index = len(p.scenes)
	}
	p.scenes = append(p.scenes, nil)
	copy(p.scenes[index+1:], p.scenes[index:])
	p.scenes[index] = s
	if p.active == "" {
		p.active = s.ID
	}
	return s.ID
}

// CreateScene 创建并追加新场景
func (p *Project) CreateScene(name string) ids.SceneID {
	if name == "" {
		name = fmt.Sprintf("Scene %d", len(p.scenes)+1)
	}
	return p.AddScene(NewScene(name, p.FPS))
}

// RemoveScene 删除场景；不能删除最后一个场景
//
// 删除活动场景时第一个剩余场景成为活动场景。
//
// 返回：
//   - int: 被删除场景原来的位置（用于撤销）
func (p *Project) RemoveScene(id ids.SceneID) (int, error) {
	idx := p.indexOf(id)
	if idx < 0 {
		return 0, fmt.Errorf("scene %s: %w", id, ErrSceneNotFound)
	}
	if len(p.scenes) <= 1 {
		return 0, violation("cannot delete the last scene")
	}
	p.scenes = append(p.scenes[:idx], p.scenes[idx+1:]...)
	if p.active == id {
		p.active = p.scenes[0].ID
	}
	p.dropRecent(id)
	return idx, nil
}

// DuplicateScene 复制场景并插入在原场景之后
func (p *Project) DuplicateScene(id ids.SceneID, name string) (ids.SceneID, error) {
	idx := p.indexOf(id)
	if idx < 0 {
		return "", fmt.Errorf("scene %s: %w", id, ErrSceneNotFound)
	}
	src := p.scenes[idx]
	if name == "" {
		name = src.Name + " copy"
	}
	return p.InsertScene(src.duplicate(name), idx+1), nil
}

// SwitchScene 切换活动场景，原活动场景进入最近列表
func (p *Project) SwitchScene(id ids.SceneID) error {
	if p.indexOf(id) < 0 {
		return fmt.Errorf("scene %s: %w", id, ErrSceneNotFound)
	}
	if p.active == id {
		return nil
	}
	if p.active != "" {
		p.dropRecent(p.active)
		p.recent = append([]ids.SceneID{p.active}, p.recent...)
		if len(p.recent) > MaxRecentScenes {
			p.recent = p.recent[:MaxRecentScenes]
		}
	}
	p.active = id
	return nil
}

// RenameScene 重命名场景
func (p *Project) RenameScene(id ids.SceneID, name string) error {
	s, err := p.Scene(id)
	if err != nil {
		return err
	}
	if name == "" {
		return violation("scene name must not be empty")
	}
	s.Name = name
	s.MarkModified()
	return nil
}

// MoveScene 将场景移动到 index
func (p *Project) MoveScene(id ids.SceneID, index int) error {
	idx := p.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("scene %s: %w", id, ErrSceneNotFound)
	}
	s := p.scenes[idx]
	p.scenes = append(p.scenes[:idx], p.scenes[idx+1:]...)
	if index > len(p.scenes) {
		index = len(p.scenes)
	}
	if index < 0 {
		index = 0
	}
	p.scenes = append(p.scenes, nil)
	copy(p.scenes[index+1:], p.scenes[index:])
	p.scenes[index] = s
	return nil
}

// UpdateAudioSource 在全部场景中换入音频元数据，返回被更新的轨道数
func (p *Project) UpdateAudioSource(src AudioSource) int {
	n := 0
	for _, s := range p.scenes {
		n += s.Timeline.UpdateAudioSource(src)
	}
	return n
}

// SceneIndex 返回场景位置
func (p *Project) SceneIndex(id ids.SceneID) int { return p.indexOf(id) }

// HasUnsavedChanges 报告是否有场景未保存
func (p *Project) HasUnsavedChanges() bool {
	for _, s := range p.scenes {
		if s.Modified {
			return true
		}
	}
	return false
}

// MarkAllSaved 清除所有场景的未保存标记
func (p *Project) MarkAllSaved() {
	for _, s := range p.scenes {
		s.MarkSaved()
	}
}

// Summaries 返回按顺序排列的场景摘要
func (p *Project) Summaries() []SceneSummary {
	out := make([]SceneSummary, 0, len(p.scenes))
	for _, s := range p.scenes {
		out = append(out, s.Summary())
	}
	return out
}

// Validate 检查项目不变量与所有场景时间轴
func (p *Project) Validate() error {
	if len(p.scenes) == 0 {
		return fmt.Errorf("project has no scenes")
	}
	if p.indexOf(p.active) < 0 {
		return fmt.Errorf("active scene %s does not exist", p.active)
	}
	for _, s := range p.scenes {
		if err := s.Timeline.Validate(); err != nil {
			return fmt.Errorf("scene %q: %w", s.Name, err)
		}
	}
	return nil
}

// setState 替换项目结构（用于导入）
func (p *Project) setState(scenes []*Scene, active ids.SceneID, recent []ids.SceneID) {
	p.scenes = scenes
	p.active = active
	p.recent = recent
}

// Restore 用记录重建项目结构；active 必须存在
func Restore(fps timecode.FPSPreset, scenes []*Scene, active ids.SceneID, recent []ids.SceneID) (*Project, error) {
	p := &Project{FPS: fps}
	p.setState(scenes, active, recent)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Project) dropRecent(id ids.SceneID) {
	kept := p.recent[:0]
	for _, r := range p.recent {
		if r != id {
			kept = append(kept, r)
		}
	}
	p.recent = kept
}
