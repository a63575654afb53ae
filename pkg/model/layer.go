package model

import (
	"fmt"
	"sort"

	"github.com/decker502/timeline/pkg/easing"
	"github.com/decker502/timeline/pkg/ids"
)

// LayerType 图层类型
type LayerType int

const (
	LayerNormal LayerType = iota
	LayerFolder
	LayerGuide
	LayerMotionGuide
	LayerMask
	LayerAudio
)

var layerTypeNames = map[LayerType]string{
	LayerNormal:      "normal",
	LayerFolder:      "folder",
	LayerGuide:       "guide",
	LayerMotionGuide: "motion_guide",
	LayerMask:        "mask",
	LayerAudio:       "audio",
}

// String 返回类型的序列化名称
func (t LayerType) String() string {
	if n, ok := layerTypeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("LayerType(%d)", int(t))
}

// ParseLayerType 解析 String 生成的名称
func ParseLayerType(s string) (LayerType, error) {
	for t, n := range layerTypeNames {
		if n == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown layer type %q", s)
}

// CanHaveChildren 报告该类型能否容纳子图层
//
// 文件夹容纳任意图层；运动引导层容纳被引导层；遮罩层容纳被遮罩层。
func (t LayerType) CanHaveChildren() bool {
	return t == LayerFolder || t == LayerMotionGuide || t == LayerMask
}

// HasFrames 报告该类型是否拥有帧（文件夹没有帧）
func (t LayerType) HasFrames() bool {
	return t != LayerFolder
}

// TweenKind 补间类型
type TweenKind int

const (
	TweenMotion TweenKind = iota
	TweenShape
	TweenClassic
)

var tweenKindNames = map[TweenKind]string{
	TweenMotion:  "motion",
	TweenShape:   "shape",
	TweenClassic: "classic",
}

// String 返回序列化名称
func (k TweenKind) String() string {
	if n, ok := tweenKindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("TweenKind(%d)", int(k))
}

// ParseTweenKind 解析 String 生成的名称
func ParseTweenKind(s string) (TweenKind, error) {
	for k, n := range tweenKindNames {
		if n == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown tween kind %q", s)
}

// Keyframe 关键帧：持有属性快照
//
// Blank 只由 InsertBlankKeyframe 设置；之后写入任何属性即变为普通关键帧。
type Keyframe struct {
	ID    ids.KeyframeID
	Frame uint32
	Props Properties
	Blank bool
}

// IsBlank 报告是否为空白关键帧
func (k *Keyframe) IsBlank() bool { return k.Blank }

func (k *Keyframe) clone() *Keyframe {
	return &Keyframe{ID: k.ID, Frame: k.Frame, Props: k.Props.Clone(), Blank: k.Blank}
}

// Tween 两个关键帧之间的插值段
//
// Start 与 End 都是关键帧所在帧，Start < End，中间没有其他关键帧。
// Easing 作用于归一化的 [Start, End]；PropertyEasing 可为单个属性覆盖缓动。
type Tween struct {
	ID             ids.TweenID
	Start, End     uint32
	Kind           TweenKind
	Easing         easing.BezierCurve
	PropertyEasing map[PropertyID]easing.BezierCurve
}

// Contains 报告帧是否是该补间的内部补间帧（不含端点）
func (t *Tween) Contains(frame uint32) bool {
	return frame > t.Start && frame < t.End
}

// Covers 报告帧是否落在 [Start, End) 内
func (t *Tween) Covers(frame uint32) bool {
	return frame >= t.Start && frame < t.End
}

// Progress 返回帧在补间内的归一化进度
func (t *Tween) Progress(frame uint32) float32 {
	if t.End <= t.Start {
		return 0
	}
	return float32(frame-t.Start) / float32(t.End-t.Start)
}

// CurveFor 返回属性使用的缓动曲线
func (t *Tween) CurveFor(prop PropertyID) easing.BezierCurve {
	if c, ok := t.PropertyEasing[prop]; ok {
		return c
	}
	return t.Easing
}

func (t *Tween) clone() *Tween {
	out := *t
	out.Easing = t.Easing.Clone()
	if t.PropertyEasing != nil {
		out.PropertyEasing = make(map[PropertyID]easing.BezierCurve, len(t.PropertyEasing))
		for k, c := range t.PropertyEasing {
			out.PropertyEasing[k] = c.Clone()
		}
	}
	return &out
}

// Layer 图层
//
// Parent 为空表示顶层图层。Children 按显示顺序（自上而下）排列。
// 帧数据按稀疏方式存储：没有关键帧、也不在补间内的帧即为空帧。
type Layer struct {
	ID       ids.LayerID
	Name     string
	Type     LayerType
	Visible  bool
	Locked   bool
	Parent   ids.LayerID
	Children []ids.LayerID

	keyframes map[uint32]*Keyframe
	tweens    []*Tween // 按 Start 升序
	audio     *AudioTrack
}

func newLayer(name string, typ LayerType) *Layer {
	return &Layer{
		ID:        ids.NewLayerID(),
		Name:      name,
		Type:      typ,
		Visible:   true,
		keyframes: make(map[uint32]*Keyframe),
	}
}

// Audio 返回音频轨道（非音频图层为 nil）
func (l *Layer) Audio() *AudioTrack { return l.audio }

// KeyframeAt 返回指定帧上的关键帧
func (l *Layer) KeyframeAt(frame uint32) (*Keyframe, bool) {
	k, ok := l.keyframes[frame]
	return k, ok
}

// KeyframeFrames 返回所有关键帧所在帧，升序
func (l *Layer) KeyframeFrames() []uint32 {
	out := make([]uint32, 0, len(l.keyframes))
	for f := range l.keyframes {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Keyframes 返回关键帧副本，按帧升序
func (l *Layer) Keyframes() []Keyframe {
	frames := l.KeyframeFrames()
	out := make([]Keyframe, 0, len(frames))
	for _, f := range frames {
		out = append(out, *l.keyframes[f].clone())
	}
	return out
}

// Tweens 返回补间副本，按 Start 升序
func (l *Layer) Tweens() []Tween {
	out := make([]Tween, 0, len(l.tweens))
	for _, t := range l.tweens {
		out = append(out, *t.clone())
	}
	return out
}

// LastFrame 返回最大的关键帧帧号；没有关键帧时 ok 为 false
func (l *Layer) LastFrame() (uint32, bool) {
	var last uint32
	found := false
	for f := range l.keyframes {
		if !found || f > last {
			last, found = f, true
		}
	}
	return last, found
}

// prevKeyframe 返回严格早于 frame 的最近关键帧
func (l *Layer) prevKeyframe(frame uint32) (*Keyframe, bool) {
	var best *Keyframe
	for f, k := range l.keyframes {
		if f < frame && (best == nil || f > best.Frame) {
			best = k
		}
	}
	return best, best != nil
}

// nextKeyframe 返回严格晚于 frame 的最近关键帧
func (l *Layer) nextKeyframe(frame uint32) (*Keyframe, bool) {
	var best *Keyframe
	for f, k := range l.keyframes {
		if f > frame && (best == nil || f < best.Frame) {
			best = k
		}
	}
	return best, best != nil
}

// tweenStartingAt 返回从 frame 开始的补间
func (l *Layer) tweenStartingAt(frame uint32) *Tween {
	for _, t := range l.tweens {
		if t.Start == frame {
			return t
		}
	}
	return nil
}

// tweenEndingAt 返回在 frame 结束的补间
func (l *Layer) tweenEndingAt(frame uint32) *Tween {
	for _, t := range l.tweens {
		if t.End == frame {
			return t
		}
	}
	return nil
}

// tweenContaining 返回以 frame 为内部帧的补间
func (l *Layer) tweenContaining(frame uint32) *Tween {
	for _, t := range l.tweens {
		if t.Contains(frame) {
			return t
		}
	}
	return nil
}

// TweenCovering 返回覆盖 [Start, End) 中 frame 的补间副本
func (l *Layer) TweenCovering(frame uint32) (Tween, bool) {
	for _, t := range l.tweens {
		if t.Covers(frame) {
			return *t.clone(), true
		}
	}
	return Tween{}, false
}

func (l *Layer) addTween(t *Tween) {
	l.tweens = append(l.tweens, t)
	l.sortTweens()
}

func (l *Layer) removeTween(id ids.TweenID) {
	for i, t := range l.tweens {
		if t.ID == id {
			l.tweens = append(l.tweens[:i], l.tweens[i+1:]...)
			return
		}
	}
}

func (l *Layer) sortTweens() {
	sort.Slice(l.tweens, func(i, j int) bool { return l.tweens[i].Start < l.tweens[j].Start })
}

// findTween 按 ID 查找补间
func (l *Layer) findTween(id ids.TweenID) *Tween {
	for _, t := range l.tweens {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// content 图层的帧内容（关键帧、补间、音频），用于快照与恢复
type content struct {
	keyframes map[uint32]*Keyframe
	tweens    []*Tween
	audio     *AudioTrack
}

func (l *Layer) snapshotContent() content {
	c := content{keyframes: make(map[uint32]*Keyframe, len(l.keyframes))}
	for f, k := range l.keyframes {
		c.keyframes[f] = k.clone()
	}
	for _, t := range l.tweens {
		c.tweens = append(c.tweens, t.clone())
	}
	if l.audio != nil {
		c.audio = l.audio.Clone()
	}
	return c
}

func (l *Layer) restoreContent(c content) {
	l.keyframes = make(map[uint32]*Keyframe, len(c.keyframes))
	for f, k := range c.keyframes {
		l.keyframes[f] = k.clone()
	}
	l.tweens = nil
	for _, t := range c.tweens {
		l.tweens = append(l.tweens, t.clone())
	}
	l.audio = nil
	if c.audio != nil {
		l.audio = c.audio.Clone()
	}
}

// clone 深拷贝图层（保留 ID）
func (l *Layer) clone() *Layer {
	out := &Layer{
		ID:       l.ID,
		Name:     l.Name,
		Type:     l.Type,
		Visible:  l.Visible,
		Locked:   l.Locked,
		Parent:   l.Parent,
		Children: append([]ids.LayerID(nil), l.Children...),
	}
	out.restoreContent(l.snapshotContent())
	return out
}
