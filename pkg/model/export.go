package model

import (
	"fmt"

	"github.com/decker502/timeline/pkg/ids"
	"github.com/decker502/timeline/pkg/timecode"
)

// LayerState 图层的完整值表示，用于持久化转换
type LayerState struct {
	ID        ids.LayerID
	Name      string
	Type      LayerType
	Visible   bool
	Locked    bool
	Parent    ids.LayerID
	Children  []ids.LayerID
	Keyframes []Keyframe
	Tweens    []Tween
	Audio     *AudioTrack
}

// ExportLayers 按显示顺序导出全部图层
func (tl *Timeline) ExportLayers() []LayerState {
	order := tl.Order()
	out := make([]LayerState, 0, len(order))
	for _, r := range order {
		l := tl.layers[r.ID]
		st := LayerState{
			ID:        l.ID,
			Name:      l.Name,
			Type:      l.Type,
			Visible:   l.Visible,
			Locked:    l.Locked,
			Parent:    l.Parent,
			Children:  append([]ids.LayerID(nil), l.Children...),
			Keyframes: l.Keyframes(),
			Tweens:    l.Tweens(),
		}
		if l.audio != nil {
			st.Audio = l.audio.Clone()
		}
		out = append(out, st)
	}
	return out
}

// TimelineState 时间轴的完整值表示
type TimelineState struct {
	FrameCount uint32
	FPS        timecode.FPSPreset
	Roots      []ids.LayerID
	Layers     []LayerState
	Labels     []Label
	Comments   []Comment
}

// Export 导出时间轴
func (tl *Timeline) Export() TimelineState {
	return TimelineState{
		FrameCount: tl.FrameCount,
		FPS:        tl.FPS,
		Roots:      tl.Roots(),
		Layers:     tl.ExportLayers(),
		Labels:     tl.Labels(),
		Comments:   tl.Comments(),
	}
}

// BuildTimeline 由值表示重建时间轴并校验全部不变量
func BuildTimeline(st TimelineState) (*Timeline, error) {
	tl := NewTimeline(st.FrameCount, st.FPS)
	for _, ls := range st.Layers {
		if _, dup := tl.layers[ls.ID]; dup {
			return nil, fmt.Errorf("duplicate layer id %s", ls.ID)
		}
		l := &Layer{
			ID:        ls.ID,
			Name:      ls.Name,
			Type:      ls.Type,
			Visible:   ls.Visible,
			Locked:    ls.Locked,
			Parent:    ls.Parent,
			Children:  append([]ids.LayerID(nil), ls.Children...),
			keyframes: make(map[uint32]*Keyframe, len(ls.Keyframes)),
		}
		for i := range ls.Keyframes {
			k := ls.Keyframes[i].clone()
			if _, dup := l.keyframes[k.Frame]; dup {
				return nil, fmt.Errorf("layer %q: two keyframes at frame %d", ls.Name, k.Frame)
			}
			l.keyframes[k.Frame] = k
		}
		for i := range ls.Tweens {
			l.tweens = append(l.tweens, ls.Tweens[i].clone())
		}
		l.sortTweens()
		if ls.Audio != nil {
			l.audio = ls.Audio.Clone()
		}
		tl.layers[l.ID] = l
	}
	tl.roots = append([]ids.LayerID(nil), st.Roots...)
	for _, lb := range st.Labels {
		tl.marks.setLabel(lb)
	}
	for _, c := range st.Comments {
		tl.marks.setComment(c)
	}
	if err := tl.Validate(); err != nil {
		return nil, fmt.Errorf("invalid timeline: %w", err)
	}
	return tl, nil
}
