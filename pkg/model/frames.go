package model

import "github.com/decker502/timeline/pkg/ids"

// InsertFrame 在 frame 处插入一帧：该图层上所有 ≥ frame 的关键帧与补间端点后移一帧
//
// 跨越 frame 的补间随之延长。若后移会把关键帧推出场景范围，返回 FrameOutOfRange。
func (tl *Timeline) InsertFrame(layer ids.LayerID, frame uint32) error {
	l, err := tl.editable(layer)
	if err != nil {
		return err
	}
	if err := tl.CheckFrame(frame); err != nil {
		return err
	}
	if last, ok := l.LastFrame(); ok && last >= frame {
		if err := tl.CheckFrame(last + 1); err != nil {
			return err
		}
	}

	shifted := make(map[uint32]*Keyframe, len(l.keyframes))
	for f, k := range l.keyframes {
		if f >= frame {
			f++
			k.Frame = f
		}
		shifted[f] = k
	}
	l.keyframes = shifted
	for _, t := range l.tweens {
		if t.Start >= frame {
			t.Start++
		}
		if t.End >= frame {
			t.End++
		}
	}
	if l.audio != nil && l.audio.StartFrame >= frame {
		l.audio.StartFrame++
	}
	tl.afterMutation()
	return nil
}

// RemoveFrame 删除 frame 处的一帧：该图层上所有 > frame 的关键帧与补间端点前移一帧
//
// frame 处是关键帧时返回 ConstraintViolation（需要先清除关键帧）。
// 跨越 frame 的补间随之缩短。
func (tl *Timeline) RemoveFrame(layer ids.LayerID, frame uint32) error {
	l, err := tl.editable(layer)
	if err != nil {
		return err
	}
	if err := tl.CheckFrame(frame); err != nil {
		return err
	}
	if _, ok := l.keyframes[frame]; ok {
		return violation("frame %d holds a keyframe; clear it before removing the frame", frame)
	}

	shifted := make(map[uint32]*Keyframe, len(l.keyframes))
	for f, k := range l.keyframes {
		if f > frame {
			f--
			k.Frame = f
		}
		shifted[f] = k
	}
	l.keyframes = shifted
	for _, t := range l.tweens {
		if t.Start > frame {
			t.Start--
		}
		if t.End > frame {
			t.End--
		}
	}
	if l.audio != nil && l.audio.StartFrame > frame {
		l.audio.StartFrame--
	}
	tl.afterMutation()
	return nil
}
