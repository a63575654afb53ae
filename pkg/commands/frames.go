package commands

import (
	"github.com/decker502/timeline/pkg/easing"
	"github.com/decker502/timeline/pkg/engine"
	"github.com/decker502/timeline/pkg/ids"
	"github.com/decker502/timeline/pkg/model"
)

// layerEdit 以图层快照撤销的通用帧编辑命令
type layerEdit struct {
	base
	Layer ids.LayerID
	Frame uint32
	apply func(e engine.AnimationEngine) error
	snap  layerSnap
}

func (c *layerEdit) Execute(e engine.AnimationEngine) error {
	return c.snap.run(e, c.Layer, func() error { return c.apply(e) })
}

func (c *layerEdit) Undo(e engine.AnimationEngine) error { return c.snap.undo(e) }

// KeyframeCommand 插入关键帧类命令，执行后 ID 返回新关键帧
type KeyframeCommand struct {
	layerEdit
	ID ids.KeyframeID
}

// InsertKeyframe 插入关键帧（复制左侧属性，可能拆分补间）
func InsertKeyframe(layer ids.LayerID, frame uint32) *KeyframeCommand {
	c := &KeyframeCommand{}
	c.layerEdit = layerEdit{base: base{kind: KindInsertKeyframe}, Layer: layer, Frame: frame}
	c.apply = func(e engine.AnimationEngine) (err error) {
		c.ID, err = e.InsertKeyframe(layer, frame)
		return err
	}
	return c
}

// InsertBlankKeyframe 插入空白关键帧
func InsertBlankKeyframe(layer ids.LayerID, frame uint32) *KeyframeCommand {
	c := &KeyframeCommand{}
	c.layerEdit = layerEdit{base: base{kind: KindInsertBlankKeyframe}, Layer: layer, Frame: frame}
	c.apply = func(e engine.AnimationEngine) (err error) {
		c.ID, err = e.InsertBlankKeyframe(layer, frame)
		return err
	}
	return c
}

// PasteKeyframe 把剪贴板载荷粘贴到 (layer, frame)
func PasteKeyframe(layer ids.LayerID, frame uint32, payload model.Payload) *KeyframeCommand {
	p := payload.Clone()
	c := &KeyframeCommand{}
	c.layerEdit = layerEdit{base: base{kind: KindPasteKeyframe}, Layer: layer, Frame: frame}
	c.apply = func(e engine.AnimationEngine) (err error) {
		c.ID, err = e.PasteKeyframe(layer, frame, p)
		return err
	}
	return c
}

// ClearKeyframe 把关键帧降级为普通帧
func ClearKeyframe(layer ids.LayerID, frame uint32) Command {
	return &layerEdit{
		base:  base{kind: KindClearKeyframe},
		Layer: layer,
		Frame: frame,
		apply: func(e engine.AnimationEngine) error { return e.ClearKeyframe(layer, frame) },
	}
}

// DeleteKeyframe 删除关键帧
func DeleteKeyframe(layer ids.LayerID, frame uint32) Command {
	return &layerEdit{
		base:  base{kind: KindDeleteKeyframe},
		Layer: layer,
		Frame: frame,
		apply: func(e engine.AnimationEngine) error { return e.DeleteKeyframe(layer, frame) },
	}
}

// MoveKeyframeCommand 移动关键帧
//
// Overwrite 为 true 时先删除目标帧上已有的关键帧；否则目标被占用时命令被拒绝。
type MoveKeyframeCommand struct {
	layerEdit
	From, To  uint32
	Overwrite bool
}

// MoveKeyframe 创建移动命令
func MoveKeyframe(layer ids.LayerID, from, to uint32, overwrite bool) *MoveKeyframeCommand {
	c := &MoveKeyframeCommand{From: from, To: to, Overwrite: overwrite}
	c.layerEdit = layerEdit{base: base{kind: KindMoveKeyframe}, Layer: layer, Frame: from}
	c.apply = func(e engine.AnimationEngine) error {
		if c.Overwrite && from != to {
			d, err := e.FrameData(layer, to)
			if err != nil {
				return err
			}
			if d.Type == engine.FrameKeyframe {
				if err := e.DeleteKeyframe(layer, to); err != nil {
					return err
				}
			}
		}
		return e.MoveKeyframe(layer, from, to)
	}
	return c
}

// insertFrame 插入普通帧；逆操作是在同一位置移除帧
type insertFrame struct {
	base
	Layer ids.LayerID
	Frame uint32
}

// InsertFrame 创建插入帧命令
func InsertFrame(layer ids.LayerID, frame uint32) Command {
	return &insertFrame{base: base{kind: KindInsertFrame}, Layer: layer, Frame: frame}
}

func (c *insertFrame) Execute(e engine.AnimationEngine) error { return e.InsertFrame(c.Layer, c.Frame) }
func (c *insertFrame) Undo(e engine.AnimationEngine) error { return e.RemoveFrame(c.Layer, c.Frame) }

// RemoveFrame 移除普通帧，后续内容左移
func RemoveFrame(layer ids.LayerID, frame uint32) Command {
	return &layerEdit{
		base:  base{kind: KindRemoveFrame},
		Layer: layer,
		Frame: frame,
		apply: func(e engine.AnimationEngine) error { return e.RemoveFrame(layer, frame) },
	}
}

// TweenCommand 创建补间，执行后 ID 返回补间
type TweenCommand struct {
	layerEdit
	Tween model.TweenKind
	ID    ids.TweenID
}

// CreateTween 从 frame 所在关键帧创建补间
func CreateTween(layer ids.LayerID, frame uint32, kind model.TweenKind) *TweenCommand {
	c := &TweenCommand{Tween: kind}
	c.layerEdit = layerEdit{base: base{kind: KindCreateTween}, Layer: layer, Frame: frame}
	if kind == model.TweenShape {
		c.name = "Create Shape Tween"
	} else {
		c.name = "Create Motion Tween"
	}
	c.apply = func(e engine.AnimationEngine) (err error) {
		if kind == model.TweenShape {
			c.ID, err = e.CreateShapeTween(layer, frame)
		} else {
			c.ID, err = e.CreateMotionTween(layer, frame)
		}
		return err
	}
	return c
}

// RemoveTween 移除覆盖 frame 的补间
func RemoveTween(layer ids.LayerID, frame uint32) Command {
	return &layerEdit{
		base:  base{kind: KindRemoveTween},
		Layer: layer,
		Frame: frame,
		apply: func(e engine.AnimationEngine) error { return e.RemoveTween(layer, frame) },
	}
}

// SetEasing 设置补间缓动；prop 为 nil 时设置默认曲线
func SetEasing(layer ids.LayerID, frame uint32, prop *model.PropertyID, curve easing.BezierCurve) Command {
	var p *model.PropertyID
	if prop != nil {
		v := *prop
		p = &v
	}
	return &layerEdit{
		base:  base{kind: KindSetEasing},
		Layer: layer,
		Frame: frame,
		apply: func(e engine.AnimationEngine) error { return e.SetTweenEasing(layer, frame, p, curve) },
	}
}

// EditAudio 编辑音频图层的轨道参数
func EditAudio(layer ids.LayerID, edit func(a *model.AudioTrack) error) Command {
	return &layerEdit{
		base:  base{kind: KindEditAudio},
		Layer: layer,
		apply: func(e engine.AnimationEngine) error { return e.EditAudio(layer, edit) },
	}
}

// setProperty 设置关键帧属性；逆操作恢复关键帧自身原值或移除该属性
type setProperty struct {
	base
	Layer ids.LayerID
	Frame uint32
	Prop  model.PropertyID
	Value model.Value

	prev    model.Value
	hadPrev bool
	done    bool
}

// SetProperty 创建设置属性命令（frame 必须是关键帧）
func SetProperty(layer ids.LayerID, frame uint32, prop model.PropertyID, v model.Value) Command {
	return &setProperty{base: base{kind: KindSetProperty}, Layer: layer, Frame: frame, Prop: prop, Value: v}
}

func (c *setProperty) Execute(e engine.AnimationEngine) error {
	if !c.done {
		payload, err := e.CopyKeyframe(c.Layer, c.Frame)
		if err != nil {
			return err
		}
		c.prev, c.hadPrev = payload.Props[c.Prop]
	}
	if err := e.SetProperty(c.Layer, c.Frame, c.Prop, c.Value); err != nil {
		return err
	}
	c.done = true
	return nil
}

func (c *setProperty) Undo(e engine.AnimationEngine) error {
	if !c.done {
		return ErrNotExecuted
	}
	if c.hadPrev {
		return e.SetProperty(c.Layer, c.Frame, c.Prop, c.prev)
	}
	return e.UnsetProperty(c.Layer, c.Frame, c.Prop)
}
