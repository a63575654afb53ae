package commands

import (
	"github.com/decker502/timeline/pkg/engine"
	"github.com/decker502/timeline/pkg/model"
)

// markerEdit 标签/注释修改：记录同一帧上的旧标记，撤销时恢复或移除
type markerEdit struct {
	base
	Frame uint32
	set   func(e engine.AnimationEngine) error
	find  func(e engine.AnimationEngine) (restore func(e engine.AnimationEngine) error)
	undo  func(e engine.AnimationEngine) error
}

func (c *markerEdit) Execute(e engine.AnimationEngine) error {
	if c.undo == nil {
		c.undo = c.find(e)
	}
	if err := c.set(e); err != nil {
		c.undo = nil
		return err
	}
	return nil
}

func (c *markerEdit) Undo(e engine.AnimationEngine) error {
	if c.undo == nil {
		return ErrNotExecuted
	}
	return c.undo(e)
}

func labelRestorer(frame uint32) func(e engine.AnimationEngine) func(engine.AnimationEngine) error {
	return func(e engine.AnimationEngine) func(engine.AnimationEngine) error {
		for _, l := range e.Labels() {
			if l.Frame == frame {
				prev := l
				return func(e engine.AnimationEngine) error { return e.SetLabel(prev) }
			}
		}
		return func(e engine.AnimationEngine) error { return e.RemoveLabel(frame) }
	}
}

func commentRestorer(frame uint32) func(e engine.AnimationEngine) func(engine.AnimationEngine) error {
	return func(e engine.AnimationEngine) func(engine.AnimationEngine) error {
		for _, c := range e.Comments() {
			if c.Frame == frame {
				prev := c
				return func(e engine.AnimationEngine) error { return e.SetComment(prev) }
			}
		}
		return func(e engine.AnimationEngine) error { return e.RemoveComment(frame) }
	}
}

// SetLabel 设置帧标签（同帧已有标签时替换）
func SetLabel(l model.Label) Command {
	return &markerEdit{
		base:  base{kind: KindLabel, name: "Set Label"},
		Frame: l.Frame,
		set:   func(e engine.AnimationEngine) error { return e.SetLabel(l) },
		find:  labelRestorer(l.Frame),
	}
}

// RemoveLabel 移除帧标签
func RemoveLabel(frame uint32) Command {
	return &markerEdit{
		base:  base{kind: KindLabel, name: "Remove Label"},
		Frame: frame,
		set:   func(e engine.AnimationEngine) error { return e.RemoveLabel(frame) },
		find:  labelRestorer(frame),
	}
}

// SetComment 设置帧注释
func SetComment(c model.Comment) Command {
	return &markerEdit{
		base:  base{kind: KindComment, name: "Set Comment"},
		Frame: c.Frame,
		set:   func(e engine.AnimationEngine) error { return e.SetComment(c) },
		find:  commentRestorer(c.Frame),
	}
}

// RemoveComment 移除帧注释
func RemoveComment(frame uint32) Command {
	return &markerEdit{
		base:  base{kind: KindComment, name: "Remove Comment"},
		Frame: frame,
		set:   func(e engine.AnimationEngine) error { return e.RemoveComment(frame) },
		find:  commentRestorer(frame),
	}
}
