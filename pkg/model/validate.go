package model

import (
	"fmt"

	"github.com/decker502/timeline/pkg/ids"
)

// invariantChecks 为 true 时每次变更后校验不变量，违反即 panic
var invariantChecks = debugBuild

// SetInvariantChecks 开关变更后的不变量校验（测试中开启）
func SetInvariantChecks(on bool) { invariantChecks = on }

// InvariantChecksEnabled 报告不变量校验是否开启
func InvariantChecksEnabled() bool { return invariantChecks }

func (tl *Timeline) afterMutation() {
	if !invariantChecks {
		return
	}
	if err := tl.Validate(); err != nil {
		panic(fmt.Sprintf("timeline invariant violated: %v", err))
	}
}

// Validate 检查时间轴的全部不变量
//
//   - 每个图层每帧至多一个关键帧，帧号在场景范围内
//   - 补间两端是关键帧，Start < End，中间没有其他关键帧，补间互不重叠
//   - 图层父子关系构成森林
//   - 音量包络非空、按帧严格递增、音量位于 [0,1]
func (tl *Timeline) Validate() error {
	if err := tl.validateForest(); err != nil {
		return err
	}
	for _, l := range tl.layers {
		if err := tl.validateLayer(l); err != nil {
			return fmt.Errorf("layer %q: %w", l.Name, err)
		}
	}
	for _, lb := range tl.marks.labels {
		if lb.Frame >= tl.FrameCount {
			return fmt.Errorf("label at frame %d beyond frame count %d", lb.Frame, tl.FrameCount)
		}
	}
	return nil
}

func (tl *Timeline) validateLayer(l *Layer) error {
	seen := make(map[ids.KeyframeID]bool)
	for f, k := range l.keyframes {
		if k.Frame != f {
			return fmt.Errorf("keyframe %s stored at %d reports frame %d", k.ID, f, k.Frame)
		}
		if f >= tl.FrameCount {
			return fmt.Errorf("keyframe at frame %d beyond frame count %d", f, tl.FrameCount)
		}
		if seen[k.ID] {
			return fmt.Errorf("duplicate keyframe id %s", k.ID)
		}
		seen[k.ID] = true
	}
	if !l.Type.HasFrames() && (len(l.keyframes) > 0 || len(l.tweens) > 0) {
		return fmt.Errorf("%s layer holds frames", l.Type)
	}
	for i, t := range l.tweens {
		if t.Start >= t.End {
			return fmt.Errorf("tween %s has empty range [%d,%d]", t.ID, t.Start, t.End)
		}
		if _, ok := l.keyframes[t.Start]; !ok {
			return fmt.Errorf("tween %s start %d is not a keyframe", t.ID, t.Start)
		}
		if _, ok := l.keyframes[t.End]; !ok {
			return fmt.Errorf("tween %s end %d is not a keyframe", t.ID, t.End)
		}
		if l.hasKeyframeInside(t.Start, t.End) {
			return fmt.Errorf("tween %s [%d,%d] encloses another keyframe", t.ID, t.Start, t.End)
		}
		if i > 0 && l.tweens[i-1].End > t.Start {
			return fmt.Errorf("tweens %s and %s overlap", l.tweens[i-1].ID, t.ID)
		}
		if err := t.Easing.Validate(); err != nil {
			return fmt.Errorf("tween %s easing: %w", t.ID, err)
		}
	}
	if (l.Type == LayerAudio) != (l.audio != nil) {
		return fmt.Errorf("audio track presence does not match layer type %s", l.Type)
	}
	if l.audio != nil {
		if err := l.audio.Envelope.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (tl *Timeline) validateForest() error {
	visited := make(map[ids.LayerID]bool, len(tl.layers))
	var walk func(list []ids.LayerID, parent ids.LayerID) error
	walk = func(list []ids.LayerID, parent ids.LayerID) error {
		for _, id := range list {
			l, ok := tl.layers[id]
			if !ok {
				return fmt.Errorf("dangling layer reference %s", id)
			}
			if visited[id] {
				return fmt.Errorf("layer %s reachable twice", id)
			}
			visited[id] = true
			if l.Parent != parent {
				return fmt.Errorf("layer %s parent %q, listed under %q", id, l.Parent, parent)
			}
			if len(l.Children) > 0 && !l.Type.CanHaveChildren() {
				return fmt.Errorf("%s layer %s has children", l.Type, id)
			}
			if err := walk(l.Children, id); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(tl.roots, ""); err != nil {
		return err
	}
	if len(visited) != len(tl.layers) {
		return fmt.Errorf("%d layers unreachable from roots", len(tl.layers)-len(visited))
	}
	return nil
}
