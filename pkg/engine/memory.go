package engine

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/decker502/timeline/pkg/easing"
	"github.com/decker502/timeline/pkg/ids"
	"github.com/decker502/timeline/pkg/model"
)

// Memory 基于内存项目模型的 AnimationEngine 实现
//
// 所有编辑作用于活动场景的时间轴；成功的编辑把活动场景标记为已修改。
// 零值 Memory 没有项目，所有操作返回 model.ErrNotInitialized。
type Memory struct {
	project *model.Project
	playing bool
	current uint32
}

var (
	_ AnimationEngine    = (*Memory)(nil)
	_ SceneHost          = (*Memory)(nil)
	_ AudioSourceUpdater = (*Memory)(nil)
)

// NewMemory 创建驱动 project 的引擎
func NewMemory(project *model.Project) *Memory {
	m := &Memory{project: project}
	if s := m.scene(); s != nil {
		m.current = s.CurrentFrame
	}
	return m
}

// SetProject 替换项目（加载文件后调用），播放停止
func (m *Memory) SetProject(p *model.Project) {
	m.project = p
	m.playing = false
	m.current = 0
	if s := m.scene(); s != nil {
		m.current = s.CurrentFrame
	}
	log.Info().Str("component", "Engine").Int("scenes", p.SceneCount()).Msg("project attached")
}

// Project 返回驱动的项目
func (m *Memory) Project() *model.Project { return m.project }

func (m *Memory) scene() *model.Scene {
	if m.project == nil {
		return nil
	}
	return m.project.Active()
}

// ActiveScene 返回活动场景
func (m *Memory) ActiveScene() (*model.Scene, error) {
	s := m.scene()
	if s == nil {
		return nil, model.ErrNotInitialized
	}
	return s, nil
}

func (m *Memory) timeline() (*model.Timeline, error) {
	s, err := m.ActiveScene()
	if err != nil {
		return nil, err
	}
	return s.Timeline, nil
}

// edit 在活动时间轴上执行编辑，成功时标记场景已修改
func (m *Memory) edit(fn func(tl *model.Timeline) error) error {
	s, err := m.ActiveScene()
	if err != nil {
		return err
	}
	if err := fn(s.Timeline); err != nil {
		return err
	}
	s.MarkModified()
	return nil
}

// ---- Transport ----

func (m *Memory) Play()           { m.playing = true }
func (m *Memory) Pause()          { m.playing = false }
func (m *Memory) IsPlaying() bool { return m.playing }

// Seek 移动播放头
func (m *Memory) Seek(frame uint32) error {
	tl, err := m.timeline()
	if err != nil {
		return err
	}
	if err := tl.CheckFrame(frame); err != nil {
		return err
	}
	m.current = frame
	m.scene().CurrentFrame = frame
	return nil
}

func (m *Memory) CurrentFrame() uint32 { return m.current }

func (m *Memory) TotalFrames() uint32 {
	tl, err := m.timeline()
	if err != nil {
		return 0
	}
	return tl.FrameCount
}

func (m *Memory) FPS() float32 {
	s := m.scene()
	if s == nil {
		return 0
	}
	return s.EffectiveFPS()
}

// ---- Reader ----

// Layers 按显示顺序返回图层
func (m *Memory) Layers() []LayerInfo {
	tl, err := m.timeline()
	if err != nil {
		return nil
	}
	order := tl.Order()
	out := make([]LayerInfo, 0, len(order))
	for _, r := range order {
		l, _ := tl.Layer(r.ID)
		out = append(out, LayerInfo{
			ID:       l.ID,
			Name:     l.Name,
			Type:     l.Type,
			Visible:  l.Visible,
			Locked:   l.Locked,
			Parent:   l.Parent,
			Children: append([]ids.LayerID(nil), l.Children...),
			Depth:    r.Depth,
		})
	}
	return out
}

// FrameData 查询帧数据
func (m *Memory) FrameData(layer ids.LayerID, frame uint32) (FrameData, error) {
	tl, err := m.timeline()
	if err != nil {
		return FrameData{}, err
	}
	c, err := tl.Cell(layer, frame)
	if err != nil {
		return FrameData{}, err
	}
	return frameDataOf(layer, frame, c), nil
}

func frameDataOf(layer ids.LayerID, frame uint32, c model.Cell) FrameData {
	d := FrameData{
		Layer:      layer,
		Frame:      frame,
		Keyframe:   c.Keyframe,
		Tween:      c.Tween,
		TweenKind:  c.TweenKind,
		TweenStart: c.TweenStart,
		TweenEnd:   c.TweenEnd,
	}
	switch c.Kind {
	case model.CellKeyframe:
		d.Type = FrameKeyframe
		d.HasContent = !c.Blank
	case model.CellTween:
		d.Type = FrameTween
		d.HasContent = true
	}
	return d
}

// Keyframes 枚举图层上的关键帧，按帧升序
func (m *Memory) Keyframes(layer ids.LayerID) ([]KeyframeInfo, error) {
	tl, err := m.timeline()
	if err != nil {
		return nil, err
	}
	l, err := tl.Layer(layer)
	if err != nil {
		return nil, err
	}
	var out []KeyframeInfo
	for _, f := range l.KeyframeFrames() {
		c, _ := tl.Cell(layer, f)
		d := frameDataOf(layer, f, c)
		out = append(out, KeyframeInfo{
			ID:       c.Keyframe,
			Layer:    layer,
			Frame:    f,
			Type:     d.KeyframeType(),
			HasTween: d.HasTween(),
		})
	}
	return out, nil
}

// Property 属性在某帧的求值结果
func (m *Memory) Property(layer ids.LayerID, frame uint32, prop model.PropertyID) (model.Value, bool, error) {
	tl, err := m.timeline()
	if err != nil {
		return model.Value{}, false, err
	}
	return tl.PropertyAt(layer, frame, prop)
}

// Tween 返回覆盖 frame 的补间
func (m *Memory) Tween(layer ids.LayerID, frame uint32) (model.Tween, bool, error) {
	tl, err := m.timeline()
	if err != nil {
		return model.Tween{}, false, err
	}
	l, err := tl.Layer(layer)
	if err != nil {
		return model.Tween{}, false, err
	}
	t, ok := l.TweenCovering(frame)
	return t, ok, nil
}

func (m *Memory) Labels() []model.Label {
	tl, err := m.timeline()
	if err != nil {
		return nil
	}
	return tl.Labels()
}

func (m *Memory) Comments() []model.Comment {
	tl, err := m.timeline()
	if err != nil {
		return nil
	}
	return tl.Comments()
}

// AudioLayers 返回所有音频图层的轨道快照（显示顺序）
func (m *Memory) AudioLayers() []AudioLayerInfo {
	tl, err := m.timeline()
	if err != nil {
		return nil
	}
	var out []AudioLayerInfo
	for _, r := range tl.Order() {
		l, _ := tl.Layer(r.ID)
		if a := l.Audio(); a != nil {
			out = append(out, AudioLayerInfo{Layer: l.ID, Name: l.Name, Visible: l.Visible, Track: *a.Clone()})
		}
	}
	return out
}

func (m *Memory) LayerPosition(layer ids.LayerID) (ids.LayerID, int, error) {
	tl, err := m.timeline()
	if err != nil {
		return "", 0, err
	}
	return tl.LayerPosition(layer)
}

// ---- FrameEditor ----

func (m *Memory) InsertFrame(layer ids.LayerID, frame uint32) error {
	return m.edit(func(tl *model.Timeline) error { return tl.InsertFrame(layer, frame) })
}

func (m *Memory) RemoveFrame(layer ids.LayerID, frame uint32) error {
	return m.edit(func(tl *model.Timeline) error { return tl.RemoveFrame(layer, frame) })
}

func (m *Memory) InsertKeyframe(layer ids.LayerID, frame uint32) (id ids.KeyframeID, err error) {
	err = m.edit(func(tl *model.Timeline) error {
		id, err = tl.InsertKeyframe(layer, frame)
		return err
	})
	return id, err
}

func (m *Memory) InsertBlankKeyframe(layer ids.LayerID, frame uint32) (id ids.KeyframeID, err error) {
	err = m.edit(func(tl *model.Timeline) error {
		id, err = tl.InsertBlankKeyframe(layer, frame)
		return err
	})
	return id, err
}

func (m *Memory) ClearKeyframe(layer ids.LayerID, frame uint32) error {
	return m.edit(func(tl *model.Timeline) error { return tl.ClearKeyframe(layer, frame) })
}

func (m *Memory) DeleteKeyframe(layer ids.LayerID, frame uint32) error {
	return m.edit(func(tl *model.Timeline) error { return tl.DeleteKeyframe(layer, frame) })
}

func (m *Memory) MoveKeyframe(layer ids.LayerID, from, to uint32) error {
	if from == to {
		tl, err := m.timeline()
		if err != nil {
			return err
		}
		return tl.MoveKeyframe(layer, from, to)
	}
	return m.edit(func(tl *model.Timeline) error { return tl.MoveKeyframe(layer, from, to) })
}

func (m *Memory) CreateMotionTween(layer ids.LayerID, frame uint32) (id ids.TweenID, err error) {
	err = m.edit(func(tl *model.Timeline) error {
		id, err = tl.CreateMotionTween(layer, frame)
		return err
	})
	return id, err
}

func (m *Memory) CreateShapeTween(layer ids.LayerID, frame uint32) (id ids.TweenID, err error) {
	err = m.edit(func(tl *model.Timeline) error {
		id, err = tl.CreateShapeTween(layer, frame)
		return err
	})
	return id, err
}

func (m *Memory) RemoveTween(layer ids.LayerID, frame uint32) error {
	return m.edit(func(tl *model.Timeline) error { return tl.RemoveTween(layer, frame) })
}

func (m *Memory) SetTweenEasing(layer ids.LayerID, frame uint32, prop *model.PropertyID, curve easing.BezierCurve) error {
	return m.edit(func(tl *model.Timeline) error { return tl.SetTweenEasing(layer, frame, prop, curve) })
}

// CopyKeyframe 不修改模型
func (m *Memory) CopyKeyframe(layer ids.LayerID, frame uint32) (model.Payload, error) {
	tl, err := m.timeline()
	if err != nil {
		return model.Payload{}, err
	}
	return tl.CopyKeyframe(layer, frame)
}

func (m *Memory) PasteKeyframe(layer ids.LayerID, frame uint32, payload model.Payload) (id ids.KeyframeID, err error) {
	err = m.edit(func(tl *model.Timeline) error {
		id, err = tl.PasteKeyframe(layer, frame, payload)
		return err
	})
	return id, err
}

func (m *Memory) SetProperty(layer ids.LayerID, frame uint32, prop model.PropertyID, value model.Value) error {
	return m.edit(func(tl *model.Timeline) error { return tl.SetProperty(layer, frame, prop, value) })
}

func (m *Memory) UnsetProperty(layer ids.LayerID, frame uint32, prop model.PropertyID) error {
	return m.edit(func(tl *model.Timeline) error { return tl.UnsetProperty(layer, frame, prop) })
}

// ---- LayerEditor ----

func (m *Memory) AddLayer(name string, typ model.LayerType) (id ids.LayerID, err error) {
	err = m.edit(func(tl *model.Timeline) error {
		id, err = tl.AddLayer(name, typ)
		return err
	})
	return id, err
}

func (m *Memory) InsertLayer(name string, typ model.LayerType, parent ids.LayerID, index int) (id ids.LayerID, err error) {
	err = m.edit(func(tl *model.Timeline) error {
		id, err = tl.InsertLayer(name, typ, parent, index)
		return err
	})
	return id, err
}

func (m *Memory) AddFolderLayer(name string) (id ids.LayerID, err error) {
	err = m.edit(func(tl *model.Timeline) error {
		id, err = tl.AddFolderLayer(name)
		return err
	})
	return id, err
}

func (m *Memory) AddMotionGuideLayer(target ids.LayerID) (id ids.LayerID, err error) {
	err = m.edit(func(tl *model.Timeline) error {
		id, err = tl.AddMotionGuideLayer(target)
		return err
	})
	return id, err
}

func (m *Memory) AddAudioLayer(name string, source model.AudioSource, startFrame uint32) (id ids.LayerID, err error) {
	err = m.edit(func(tl *model.Timeline) error {
		id, err = tl.AddAudioLayer(name, source, startFrame)
		return err
	})
	return id, err
}

func (m *Memory) DeleteLayer(layer ids.LayerID) error {
	return m.edit(func(tl *model.Timeline) error { return tl.DeleteLayer(layer) })
}

func (m *Memory) DuplicateLayer(layer ids.LayerID) (id ids.LayerID, err error) {
	err = m.edit(func(tl *model.Timeline) error {
		id, err = tl.DuplicateLayer(layer)
		return err
	})
	return id, err
}

func (m *Memory) RenameLayer(layer ids.LayerID, name string) error {
	return m.edit(func(tl *model.Timeline) error { return tl.RenameLayer(layer, name) })
}

func (m *Memory) SetLayerVisible(layer ids.LayerID, visible bool) error {
	return m.edit(func(tl *model.Timeline) error { return tl.SetLayerVisible(layer, visible) })
}

func (m *Memory) SetLayerLocked(layer ids.LayerID, locked bool) error {
	return m.edit(func(tl *model.Timeline) error { return tl.SetLayerLocked(layer, locked) })
}

func (m *Memory) SetLayerType(layer ids.LayerID, typ model.LayerType) error {
	return m.edit(func(tl *model.Timeline) error { return tl.SetLayerType(layer, typ) })
}

func (m *Memory) MoveLayer(layer, parent ids.LayerID, index int) error {
	return m.edit(func(tl *model.Timeline) error { return tl.MoveLayer(layer, parent, index) })
}

func (m *Memory) EditAudio(layer ids.LayerID, fn func(a *model.AudioTrack) error) error {
	return m.edit(func(tl *model.Timeline) error { return tl.EditAudio(layer, fn) })
}

// UpdateAudioSource 见 AudioSourceUpdater
func (m *Memory) UpdateAudioSource(src model.AudioSource) int {
	return m.project.UpdateAudioSource(src)
}

// ---- MarkerEditor ----

func (m *Memory) SetLabel(l model.Label) error {
	return m.edit(func(tl *model.Timeline) error { return tl.SetLabel(l) })
}

func (m *Memory) RemoveLabel(frame uint32) error {
	return m.edit(func(tl *model.Timeline) error { return tl.RemoveLabel(frame) })
}

func (m *Memory) SetComment(c model.Comment) error {
	return m.edit(func(tl *model.Timeline) error { return tl.SetComment(c) })
}

func (m *Memory) RemoveComment(frame uint32) error {
	return m.edit(func(tl *model.Timeline) error { return tl.RemoveComment(frame) })
}

// ---- Snapshotter ----

func (m *Memory) SnapshotLayer(layer ids.LayerID) (model.LayerContent, error) {
	tl, err := m.timeline()
	if err != nil {
		return model.LayerContent{}, err
	}
	return tl.SnapshotLayer(layer)
}

func (m *Memory) RestoreLayer(snap model.LayerContent) error {
	return m.edit(func(tl *model.Timeline) error { return tl.RestoreLayer(snap) })
}

func (m *Memory) SnapshotTimeline() (*model.Timeline, error) {
	tl, err := m.timeline()
	if err != nil {
		return nil, err
	}
	return tl.Clone(), nil
}

// RestoreTimeline 原地恢复活动场景的时间轴；播放头超出新范围时截断
func (m *Memory) RestoreTimeline(snap *model.Timeline) error {
	err := m.edit(func(tl *model.Timeline) error {
		tl.Restore(snap)
		return nil
	})
	if err != nil {
		return err
	}
	if last := snap.MaxFrame(); m.current > last {
		m.current = last
	}
	return nil
}

// ---- SceneHost ----

func (m *Memory) CreateScene(name string) (ids.SceneID, error) {
	if m.project == nil {
		return "", model.ErrNotInitialized
	}
	return m.project.CreateScene(name), nil
}

func (m *Memory) DuplicateScene(id ids.SceneID, name string) (ids.SceneID, error) {
	if m.project == nil {
		return "", model.ErrNotInitialized
	}
	return m.project.DuplicateScene(id, name)
}

// RemoveScene 删除场景；删除活动场景时播放头切换到新的活动场景
func (m *Memory) RemoveScene(id ids.SceneID) (int, error) {
	if m.project == nil {
		return 0, model.ErrNotInitialized
	}
	wasActive := m.project.ActiveID() == id
	idx, err := m.project.RemoveScene(id)
	if err != nil {
		return 0, err
	}
	if wasActive {
		m.playing = false
		m.current = m.scene().CurrentFrame
	}
	return idx, nil
}

// RestoreScene 把场景放回 index（撤销删除）
func (m *Memory) RestoreScene(s *model.Scene, index int) error {
	if m.project == nil {
		return model.ErrNotInitialized
	}
	if s == nil {
		return fmt.Errorf("restore scene: %w", model.ErrSceneNotFound)
	}
	if _, err := m.project.Scene(s.ID); err == nil {
		return &model.ConstraintViolationError{Reason: fmt.Sprintf("scene %s already present", s.ID)}
	}
	m.project.InsertScene(s, index)
	return nil
}

// SwitchScene 切换活动场景：保存当前播放头，载入目标场景的播放头，停止播放
func (m *Memory) SwitchScene(id ids.SceneID) error {
	if m.project == nil {
		return model.ErrNotInitialized
	}
	if cur := m.scene(); cur != nil {
		cur.CurrentFrame = m.current
	}
	if err := m.project.SwitchScene(id); err != nil {
		return err
	}
	m.playing = false
	m.current = m.scene().CurrentFrame
	log.Debug().Str("component", "Engine").Str("scene", string(id)).Msg("switched scene")
	return nil
}

func (m *Memory) RenameScene(id ids.SceneID, name string) error {
	if m.project == nil {
		return model.ErrNotInitialized
	}
	return m.project.RenameScene(id, name)
}

func (m *Memory) MoveScene(id ids.SceneID, index int) error {
	if m.project == nil {
		return model.ErrNotInitialized
	}
	return m.project.MoveScene(id, index)
}
