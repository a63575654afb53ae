package record

import (
	"fmt"

	"github.com/decker502/timeline/pkg/ids"
	"github.com/decker502/timeline/pkg/model"
)

// FromProject 把项目转换为记录
func FromProject(p *model.Project) ProjectRecord {
	r := ProjectRecord{
		Version: Version,
		FPS:     p.FPS,
		Active:  p.ActiveID(),
		Recent:  p.Recent(),
	}
	for _, s := range p.Scenes() {
		r.Scenes = append(r.Scenes, FromScene(s))
	}
	return r
}

// ToProject 由记录重建项目
//
// 返回：
//   - *model.Project: 重建的项目，所有场景时间轴已通过不变量校验
//   - error: 版本不支持、枚举名未知、ID 重复或不变量被破坏
func ToProject(r ProjectRecord) (*model.Project, error) {
	// 1. 版本
	if r.Version != Version {
		return nil, fmt.Errorf("unsupported record version %d", r.Version)
	}

	// 2. 场景
	scenes := make([]*model.Scene, 0, len(r.Scenes))
	seen := make(map[ids.SceneID]bool, len(r.Scenes))
	for i := range r.Scenes {
		sr := &r.Scenes[i]
		if seen[sr.ID] {
			return nil, fmt.Errorf("duplicate scene id %s", sr.ID)
		}
		seen[sr.ID] = true
		s, err := ToScene(*sr)
		if err != nil {
			return nil, fmt.Errorf("scene %q: %w", sr.Name, err)
		}
		scenes = append(scenes, s)
	}

	// 3. 最近场景
	if len(r.Recent) > model.MaxRecentScenes {
		return nil, fmt.Errorf("recent scene list holds %d entries, max %d", len(r.Recent), model.MaxRecentScenes)
	}
	for _, id := range r.Recent {
		if !seen[id] {
			return nil, fmt.Errorf("recent scene %s does not exist", id)
		}
	}

	// 4. 项目不变量
	p, err := model.Restore(r.FPS, scenes, r.Active, append([]ids.SceneID(nil), r.Recent...))
	if err != nil {
		return nil, fmt.Errorf("invalid project: %w", err)
	}
	return p, nil
}

// FromScene 转换场景
func FromScene(s *model.Scene) SceneRecord {
	r := SceneRecord{
		ID:           s.ID,
		Name:         s.Name,
		Description:  s.Description,
		Assets:       append([]string(nil), s.Assets...),
		CurrentFrame: s.CurrentFrame,
		FPSOverride:  s.FPSOverride,
		Background:   fromColorPtr(s.Background),
		CreatedAt:    s.CreatedAt,
		ModifiedAt:   s.ModifiedAt,
		Timeline:     FromTimeline(s.Timeline),
	}
	if s.Stage != nil {
		r.Stage = &StageRecord{Width: s.Stage.Width, Height: s.Stage.Height}
	}
	return r
}

// ToScene 还原场景；还原后的场景视为已保存
func ToScene(r SceneRecord) (*model.Scene, error) {
	if r.ID == "" {
		return nil, fmt.Errorf("scene without id")
	}
	tl, err := ToTimeline(r.Timeline)
	if err != nil {
		return nil, err
	}
	if r.CurrentFrame >= tl.FrameCount {
		return nil, &model.FrameOutOfRangeError{Given: r.CurrentFrame, Max: tl.FrameCount - 1}
	}
	s := &model.Scene{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		Timeline:     tl,
		Assets:       append([]string(nil), r.Assets...),
		CurrentFrame: r.CurrentFrame,
		FPSOverride:  r.FPSOverride,
		Background:   toColorPtr(r.Background),
		CreatedAt:    r.CreatedAt,
		ModifiedAt:   r.ModifiedAt,
	}
	if r.Stage != nil {
		s.Stage = &model.StageSize{Width: r.Stage.Width, Height: r.Stage.Height}
	}
	return s, nil
}

// FromTimeline 转换时间轴
func FromTimeline(tl *model.Timeline) TimelineRecord {
	st := tl.Export()
	r := TimelineRecord{
		FrameCount: st.FrameCount,
		FPS:        st.FPS,
		Roots:      st.Roots,
	}
	for _, ls := range st.Layers {
		r.Layers = append(r.Layers, fromLayer(ls))
	}
	for _, lb := range st.Labels {
		r.Labels = append(r.Labels, LabelRecord{Frame: lb.Frame, Text: lb.Text, Color: fromColorPtr(lb.Color)})
	}
	for _, c := range st.Comments {
		r.Comments = append(r.Comments, CommentRecord{
			Frame:     c.Frame,
			Text:      c.Text,
			Author:    c.Author,
			Timestamp: c.Timestamp,
			Color:     fromColorPtr(c.Color),
		})
	}
	return r
}

// ToTimeline 还原时间轴并校验不变量
func ToTimeline(r TimelineRecord) (*model.Timeline, error) {
	if r.FrameCount == 0 {
		return nil, fmt.Errorf("timeline has no frames")
	}
	st := model.TimelineState{
		FrameCount: r.FrameCount,
		FPS:        r.FPS,
		Roots:      append([]ids.LayerID(nil), r.Roots...),
	}
	for i := range r.Layers {
		ls, err := toLayer(r.Layers[i])
		if err != nil {
			return nil, fmt.Errorf("layer %q: %w", r.Layers[i].Name, err)
		}
		st.Layers = append(st.Layers, ls)
	}
	for _, lb := range r.Labels {
		st.Labels = append(st.Labels, model.Label{Frame: lb.Frame, Text: lb.Text, Color: toColorPtr(lb.Color)})
	}
	for _, c := range r.Comments {
		st.Comments = append(st.Comments, model.Comment{
			Frame:     c.Frame,
			Text:      c.Text,
			Author:    c.Author,
			Timestamp: c.Timestamp,
			Color:     toColorPtr(c.Color),
		})
	}
	return model.BuildTimeline(st)
}

func fromLayer(ls model.LayerState) LayerRecord {
	r := LayerRecord{
		ID:       ls.ID,
		Name:     ls.Name,
		Type:     ls.Type.String(),
		Visible:  ls.Visible,
		Locked:   ls.Locked,
		Parent:   ls.Parent,
		Children: ls.Children,
	}
	for _, k := range ls.Keyframes {
		r.Keyframes = append(r.Keyframes, KeyframeRecord{
			ID:         k.ID,
			Frame:      k.Frame,
			Properties: FromProperties(k.Props),
			Blank:      k.Blank,
		})
	}
	for _, t := range ls.Tweens {
		r.Tweens = append(r.Tweens, TweenRecord{
			ID:             t.ID,
			Start:          t.Start,
			End:            t.End,
			Kind:           t.Kind.String(),
			Easing:         t.Easing.Clone(),
			PropertyEasing: fromCurves(t.PropertyEasing),
		})
	}
	if ls.Audio != nil {
		r.Audio = fromAudio(ls.Audio)
	}
	return r
}

func toLayer(r LayerRecord) (model.LayerState, error) {
	typ, err := model.ParseLayerType(r.Type)
	if err != nil {
		return model.LayerState{}, err
	}
	ls := model.LayerState{
		ID:       r.ID,
		Name:     r.Name,
		Type:     typ,
		Visible:  r.Visible,
		Locked:   r.Locked,
		Parent:   r.Parent,
		Children: append([]ids.LayerID(nil), r.Children...),
	}
	for _, k := range r.Keyframes {
		props, err := ToProperties(k.Properties)
		if err != nil {
			return ls, fmt.Errorf("keyframe at %d: %w", k.Frame, err)
		}
		ls.Keyframes = append(ls.Keyframes, model.Keyframe{ID: k.ID, Frame: k.Frame, Props: props, Blank: k.Blank})
	}
	for _, t := range r.Tweens {
		kind, err := model.ParseTweenKind(t.Kind)
		if err != nil {
			return ls, err
		}
		if err := t.Easing.Validate(); err != nil {
			return ls, fmt.Errorf("tween %s easing: %w", t.ID, err)
		}
		curves, err := toCurves(t.PropertyEasing)
		if err != nil {
			return ls, fmt.Errorf("tween %s: %w", t.ID, err)
		}
		ls.Tweens = append(ls.Tweens, model.Tween{
			ID:             t.ID,
			Start:          t.Start,
			End:            t.End,
			Kind:           kind,
			Easing:         t.Easing.Clone(),
			PropertyEasing: curves,
		})
	}
	if r.Audio != nil {
		a, err := toAudio(*r.Audio)
		if err != nil {
			return ls, err
		}
		ls.Audio = a
	}
	return ls, nil
}

func fromAudio(a *model.AudioTrack) *AudioRecord {
	src := a.Source
	r := &AudioRecord{
		Source: AudioSourceRecord{
			ID:         src.ID,
			Path:       src.Path,
			Duration:   src.Duration,
			SampleRate: src.SampleRate,
			Channels:   src.Channels,
			Loaded:     src.Loaded,
		},
		Sync:       a.Sync.String(),
		Volume:     a.Volume,
		StartFrame: a.StartFrame,
		TrimStart:  a.TrimStart,
		TrimEnd:    a.TrimEnd,
		Loop:       a.Loop,
	}
	for _, p := range a.Envelope.Points() {
		r.Envelope = append(r.Envelope, EnvelopeRecord{Frame: p.Frame, Volume: p.Volume})
	}
	return r
}

func toAudio(r AudioRecord) (*model.AudioTrack, error) {
	sync, err := model.ParseSyncMode(r.Sync)
	if err != nil {
		return nil, err
	}
	if r.Volume < 0 || r.Volume > 1 {
		return nil, &model.ConstraintViolationError{Reason: fmt.Sprintf("volume %v outside [0, 1]", r.Volume)}
	}
	points := make([]model.EnvelopePoint, 0, len(r.Envelope))
	for _, p := range r.Envelope {
		points = append(points, model.EnvelopePoint{Frame: p.Frame, Volume: p.Volume})
	}
	return &model.AudioTrack{
		Source: model.AudioSource{
			ID:         r.Source.ID,
			Path:       r.Source.Path,
			Duration:   r.Source.Duration,
			SampleRate: r.Source.SampleRate,
			Channels:   r.Source.Channels,
			Loaded:     r.Source.Loaded,
		},
		Sync:       sync,
		Volume:     r.Volume,
		StartFrame: r.StartFrame,
		TrimStart:  r.TrimStart,
		TrimEnd:    r.TrimEnd,
		Loop:       r.Loop,
		Envelope:   model.EnvelopeFromPoints(points),
	}, nil
}
