package model

import (
	"fmt"

	"github.com/decker502/timeline/pkg/easing"
	"github.com/decker502/timeline/pkg/ids"
)

// InsertKeyframe 在 (layer, frame) 创建关键帧
//
// 新关键帧的属性取该帧当前的求值结果（补间内为插值，否则沿用前一关键帧）。
// 若该帧位于补间内部，补间在此拆分为两段：原补间保留 ID 覆盖 [a, frame]，
// 新补间覆盖 [frame, b]，两段各持有一份原缓动曲线的拷贝。
//
// 返回：
//   - ids.KeyframeID: 新关键帧 ID
//   - error: LayerNotFound / Locked / FrameOutOfRange / ConstraintViolation（已有关键帧）
func (tl *Timeline) InsertKeyframe(layer ids.LayerID, frame uint32) (ids.KeyframeID, error) {
	l, err := tl.editable(layer)
	if err != nil {
		return "", err
	}
	if err := tl.CheckFrame(frame); err != nil {
		return "", err
	}
	if _, ok := l.keyframes[frame]; ok {
		return "", violation("keyframe already exists at frame %d", frame)
	}
	k := &Keyframe{ID: ids.NewKeyframeID(), Frame: frame, Props: l.propertiesAt(frame)}
	l.placeKeyframe(k)
	tl.afterMutation()
	return k.ID, nil
}

// InsertBlankKeyframe 在 (layer, frame) 创建没有属性的空白关键帧
func (tl *Timeline) InsertBlankKeyframe(layer ids.LayerID, frame uint32) (ids.KeyframeID, error) {
	l, err := tl.editable(layer)
	if err != nil {
		return "", err
	}
	if err := tl.CheckFrame(frame); err != nil {
		return "", err
	}
	if _, ok := l.keyframes[frame]; ok {
		return "", violation("keyframe already exists at frame %d", frame)
	}
	k := &Keyframe{ID: ids.NewKeyframeID(), Frame: frame, Props: make(Properties), Blank: true}
	l.placeKeyframe(k)
	tl.afterMutation()
	return k.ID, nil
}

// placeKeyframe 放置关键帧，必要时拆分所在补间
func (l *Layer) placeKeyframe(k *Keyframe) {
	if t := l.tweenContaining(k.Frame); t != nil {
		second := t.clone()
		second.ID = ids.NewTweenID()
		second.Start = k.Frame
		t.End = k.Frame
		l.addTween(second)
	}
	l.keyframes[k.Frame] = k
}

// ClearKeyframe 将关键帧所在单元恢复为空
//
// 以该关键帧为终点的补间 T1 与为起点的补间 T2 同时存在时，二者合并回 T1
// （保留 T1 的 ID、类型与缓动），因此 InsertKeyframe 后立即 ClearKeyframe 可精确还原。
// 只有一侧存在补间时，该补间失去端点而被删除。
func (tl *Timeline) ClearKeyframe(layer ids.LayerID, frame uint32) error {
	l, err := tl.editable(layer)
	if err != nil {
		return err
	}
	if err := tl.CheckFrame(frame); err != nil {
		return err
	}
	if _, ok := l.keyframes[frame]; !ok {
		return fmt.Errorf("frame %d: %w", frame, ErrKeyframeNotFound)
	}
	in, out := l.tweenEndingAt(frame), l.tweenStartingAt(frame)
	switch {
	case in != nil && out != nil:
		in.End = out.End
		l.removeTween(out.ID)
	case in != nil:
		l.removeTween(in.ID)
	case out != nil:
		l.removeTween(out.ID)
	}
	delete(l.keyframes, frame)
	tl.afterMutation()
	return nil
}

// DeleteKeyframe 删除关键帧以及所有以它为端点的补间（不合并）
func (tl *Timeline) DeleteKeyframe(layer ids.LayerID, frame uint32) error {
	l, err := tl.editable(layer)
	if err != nil {
		return err
	}
	if err := tl.CheckFrame(frame); err != nil {
		return err
	}
	if _, ok := l.keyframes[frame]; !ok {
		return fmt.Errorf("frame %d: %w", frame, ErrKeyframeNotFound)
	}
	if t := l.tweenEndingAt(frame); t != nil {
		l.removeTween(t.ID)
	}
	if t := l.tweenStartingAt(frame); t != nil {
		l.removeTween(t.ID)
	}
	delete(l.keyframes, frame)
	tl.afterMutation()
	return nil
}

// MoveKeyframe 将关键帧从 from 移动到 to，保留 ID 与属性
//
// from == to 时不做任何事。目标帧已有关键帧时返回 ConstraintViolation，
// 覆盖策略由命令层决定。以该关键帧为端点的补间随之调整范围；
// 范围变空或中间夹入其他关键帧的补间被解除。落点位于其他补间内部时该补间被拆分。
func (tl *Timeline) MoveKeyframe(layer ids.LayerID, from, to uint32) error {
	l, err := tl.editable(layer)
	if err != nil {
		return err
	}
	if err := tl.CheckFrame(from); err != nil {
		return err
	}
	if err := tl.CheckFrame(to); err != nil {
		return err
	}
	k, ok := l.keyframes[from]
	if !ok {
		return fmt.Errorf("frame %d: %w", from, ErrKeyframeNotFound)
	}
	if from == to {
		return nil
	}
	if _, occupied := l.keyframes[to]; occupied {
		return violation("keyframe already exists at frame %d", to)
	}

	touching := make(map[ids.TweenID]bool)
	for _, t := range l.tweens {
		if t.Start == from {
			t.Start = to
			touching[t.ID] = true
		}
		if t.End == from {
			t.End = to
			touching[t.ID] = true
		}
	}
	delete(l.keyframes, from)
	k.Frame = to
	l.keyframes[to] = k

	for id := range touching {
		t := l.findTween(id)
		if t.Start >= t.End || l.hasKeyframeInside(t.Start, t.End) {
			l.removeTween(id)
		}
	}
	for _, t := range l.tweens {
		if !touching[t.ID] && t.Contains(to) {
			second := t.clone()
			second.ID = ids.NewTweenID()
			second.Start = to
			t.End = to
			l.tweens = append(l.tweens, second)
			break
		}
	}
	l.sortTweens()
	tl.afterMutation()
	return nil
}

func (l *Layer) hasKeyframeInside(a, b uint32) bool {
	for f := range l.keyframes {
		if f > a && f < b {
			return true
		}
	}
	return false
}

// CreateTween 从 frame 处的关键帧到下一个关键帧创建补间
//
// 已有从该帧开始的补间时改变其类型并返回其 ID。
//
// 返回：
//   - error: KeyframeNotFound（该帧不是关键帧）/ ConstraintViolation（后面没有关键帧）
func (tl *Timeline) CreateTween(layer ids.LayerID, frame uint32, kind TweenKind) (ids.TweenID, error) {
	l, err := tl.editable(layer)
	if err != nil {
		return "", err
	}
	if err := tl.CheckFrame(frame); err != nil {
		return "", err
	}
	if _, ok := l.keyframes[frame]; !ok {
		return "", fmt.Errorf("frame %d: %w", frame, ErrKeyframeNotFound)
	}
	if t := l.tweenStartingAt(frame); t != nil {
		t.Kind = kind
		tl.afterMutation()
		return t.ID, nil
	}
	next, ok := l.nextKeyframe(frame)
	if !ok {
		return "", violation("no keyframe after frame %d to end the tween", frame)
	}
	t := &Tween{ID: ids.NewTweenID(), Start: frame, End: next.Frame, Kind: kind, Easing: easing.Linear()}
	l.addTween(t)
	tl.afterMutation()
	return t.ID, nil
}

// CreateMotionTween 创建动作补间
func (tl *Timeline) CreateMotionTween(layer ids.LayerID, frame uint32) (ids.TweenID, error) {
	return tl.CreateTween(layer, frame, TweenMotion)
}

// CreateShapeTween 创建形状补间
func (tl *Timeline) CreateShapeTween(layer ids.LayerID, frame uint32) (ids.TweenID, error) {
	return tl.CreateTween(layer, frame, TweenShape)
}

// RemoveTween 删除覆盖 frame 的补间，两端关键帧保留
func (tl *Timeline) RemoveTween(layer ids.LayerID, frame uint32) error {
	l, err := tl.editable(layer)
	if err != nil {
		return err
	}
	if err := tl.CheckFrame(frame); err != nil {
		return err
	}
	for _, t := range l.tweens {
		if t.Covers(frame) {
			l.removeTween(t.ID)
			tl.afterMutation()
			return nil
		}
	}
	return violation("no tween at frame %d", frame)
}

// SetTweenEasing 设置覆盖 frame 的补间的缓动曲线
//
// prop 为 nil 时设置补间整体缓动，否则为该属性单独设置。
func (tl *Timeline) SetTweenEasing(layer ids.LayerID, frame uint32, prop *PropertyID, curve easing.BezierCurve) error {
	l, err := tl.editable(layer)
	if err != nil {
		return err
	}
	if err := tl.CheckFrame(frame); err != nil {
		return err
	}
	if err := curve.Validate(); err != nil {
		return violation("invalid easing curve: %v", err)
	}
	for _, t := range l.tweens {
		if !t.Covers(frame) {
			continue
		}
		if prop == nil {
			t.Easing = curve.Clone()
		} else {
			if t.PropertyEasing == nil {
				t.PropertyEasing = make(map[PropertyID]easing.BezierCurve)
			}
			t.PropertyEasing[*prop] = curve.Clone()
		}
		tl.afterMutation()
		return nil
	}
	return violation("no tween at frame %d", frame)
}

// TweenDescriptor 剪贴板中携带的出补间描述
type TweenDescriptor struct {
	Kind           TweenKind
	Easing         easing.BezierCurve
	PropertyEasing map[PropertyID]easing.BezierCurve
}

func (d TweenDescriptor) clone() TweenDescriptor {
	t := (&Tween{Kind: d.Kind, Easing: d.Easing, PropertyEasing: d.PropertyEasing}).clone()
	return TweenDescriptor{Kind: t.Kind, Easing: t.Easing, PropertyEasing: t.PropertyEasing}
}

// Equal 报告两个描述是否一致
func (d TweenDescriptor) Equal(o TweenDescriptor) bool {
	if d.Kind != o.Kind || !d.Easing.Equal(o.Easing) || len(d.PropertyEasing) != len(o.PropertyEasing) {
		return false
	}
	for k, c := range d.PropertyEasing {
		oc, ok := o.PropertyEasing[k]
		if !ok || !c.Equal(oc) {
			return false
		}
	}
	return true
}

// Payload 关键帧剪贴板内容：完整属性表与可选的出补间描述
type Payload struct {
	Props Properties
	Tween *TweenDescriptor
	Blank bool
}

// Equal 报告两个载荷是否一致
func (p Payload) Equal(o Payload) bool {
	if p.Blank != o.Blank || !p.Props.Equal(o.Props) {
		return false
	}
	if (p.Tween == nil) != (o.Tween == nil) {
		return false
	}
	return p.Tween == nil || p.Tween.Equal(*o.Tween)
}

// Clone 深拷贝载荷
func (p Payload) Clone() Payload {
	out := Payload{Props: p.Props.Clone(), Blank: p.Blank}
	if p.Tween != nil {
		d := p.Tween.clone()
		out.Tween = &d
	}
	return out
}

// CopyKeyframe 复制关键帧的属性与出补间描述；锁定图层也可复制
func (tl *Timeline) CopyKeyframe(layer ids.LayerID, frame uint32) (Payload, error) {
	l, err := tl.Layer(layer)
	if err != nil {
		return Payload{}, err
	}
	if err := tl.CheckFrame(frame); err != nil {
		return Payload{}, err
	}
	k, ok := l.keyframes[frame]
	if !ok {
		return Payload{}, fmt.Errorf("frame %d: %w", frame, ErrKeyframeNotFound)
	}
	p := Payload{Props: k.Props.Clone(), Blank: k.Blank}
	if t := l.tweenStartingAt(frame); t != nil {
		d := TweenDescriptor{Kind: t.Kind, Easing: t.Easing, PropertyEasing: t.PropertyEasing}.clone()
		p.Tween = &d
	}
	return p, nil
}

// PasteKeyframe 在 (layer, frame) 粘贴关键帧
//
// 目标已是关键帧时保留其 ID 并替换属性表；否则插入新关键帧（必要时拆分补间）。
// 载荷携带出补间时：已有出补间则采用载荷的类型与缓动，
// 否则在存在后续关键帧时重建补间。
func (tl *Timeline) PasteKeyframe(layer ids.LayerID, frame uint32, payload Payload) (ids.KeyframeID, error) {
	l, err := tl.editable(layer)
	if err != nil {
		return "", err
	}
	if err := tl.CheckFrame(frame); err != nil {
		return "", err
	}
	if payload.Tween != nil {
		if err := payload.Tween.Easing.Validate(); err != nil {
			return "", violation("invalid easing in payload: %v", err)
		}
	}

	p := payload.Clone()
	k, exists := l.keyframes[frame]
	if exists {
		k.Props, k.Blank = p.Props, p.Blank
	} else {
		k = &Keyframe{ID: ids.NewKeyframeID(), Frame: frame, Props: p.Props, Blank: p.Blank}
		l.placeKeyframe(k)
	}

	if p.Tween != nil {
		if t := l.tweenStartingAt(frame); t != nil {
			t.Kind, t.Easing, t.PropertyEasing = p.Tween.Kind, p.Tween.Easing, p.Tween.PropertyEasing
		} else if next, ok := l.nextKeyframe(frame); ok {
			l.addTween(&Tween{
				ID:             ids.NewTweenID(),
				Start:          frame,
				End:            next.Frame,
				Kind:           p.Tween.Kind,
				Easing:         p.Tween.Easing,
				PropertyEasing: p.Tween.PropertyEasing,
			})
		}
	}
	tl.afterMutation()
	return k.ID, nil
}

// SetProperty 设置 frame 处关键帧的属性
func (tl *Timeline) SetProperty(layer ids.LayerID, frame uint32, prop PropertyID, value Value) error {
	l, err := tl.editable(layer)
	if err != nil {
		return err
	}
	if err := tl.CheckFrame(frame); err != nil {
		return err
	}
	k, ok := l.keyframes[frame]
	if !ok {
		return fmt.Errorf("frame %d: %w", frame, ErrKeyframeNotFound)
	}
	if prop.Kind == 0 || (prop.Kind == CustomProperty && prop.Name == "") {
		return violation("invalid property id")
	}
	if value.Kind == 0 {
		return violation("property %s: value has no type", prop)
	}
	k.Props[prop] = value
	k.Blank = false
	tl.afterMutation()
	return nil
}

// UnsetProperty 删除 frame 处关键帧的属性
func (tl *Timeline) UnsetProperty(layer ids.LayerID, frame uint32, prop PropertyID) error {
	l, err := tl.editable(layer)
	if err != nil {
		return err
	}
	if err := tl.CheckFrame(frame); err != nil {
		return err
	}
	k, ok := l.keyframes[frame]
	if !ok {
		return fmt.Errorf("frame %d: %w", frame, ErrKeyframeNotFound)
	}
	delete(k.Props, prop)
	tl.afterMutation()
	return nil
}
