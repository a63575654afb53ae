// Package commands 命令层：交互到模型与引擎的唯一通道
//
// 每个修改都是一个 Command 记录（类型 + 参数 + 逆操作）。History 维护撤销/重做栈；
// 被拒绝的命令不会入栈。一次拖拽产生一个 Group，使一次撤销恢复拖拽前的状态。
package commands

import (
	"errors"
	"fmt"

	"github.com/decker502/timeline/pkg/engine"
	"github.com/decker502/timeline/pkg/ids"
	"github.com/decker502/timeline/pkg/model"
)

// Kind 命令类型
type Kind string

const (
	KindInsertKeyframe      Kind = "Insert Keyframe"
	KindInsertBlankKeyframe Kind = "Insert Blank Keyframe"
	KindClearKeyframe       Kind = "Clear Keyframe"
	KindDeleteKeyframe      Kind = "Delete Keyframe"
	KindMoveKeyframe        Kind = "Move Keyframe"
	KindPasteKeyframe       Kind = "Paste Keyframe"
	KindInsertFrame         Kind = "Insert Frame"
	KindRemoveFrame         Kind = "Remove Frame"
	KindCreateTween         Kind = "Create Tween"
	KindRemoveTween         Kind = "Remove Tween"
	KindSetEasing           Kind = "Set Easing"
	KindSetProperty         Kind = "Set Property"
	KindAddLayer            Kind = "Add Layer"
	KindDeleteLayer         Kind = "Delete Layer"
	KindDuplicateLayer      Kind = "Duplicate Layer"
	KindRenameLayer         Kind = "Rename Layer"
	KindLayerVisibility     Kind = "Toggle Visibility"
	KindLayerLock           Kind = "Toggle Lock"
	KindLayerType           Kind = "Change Layer Type"
	KindMoveLayer           Kind = "Move Layer"
	KindEditAudio           Kind = "Edit Audio"
	KindLabel               Kind = "Edit Label"
	KindComment             Kind = "Edit Comment"
	KindScene               Kind = "Edit Scene"
	KindGroup               Kind = "Group"
)

// ErrNotExecuted 撤销一个从未成功执行的命令
var ErrNotExecuted = errors.New("command was not executed")

// Command 可撤销的修改
//
// Execute 在首次执行时调用引擎操作，重做时再次调用；实现必须保证重做后的状态
// （包括新建实体的 ID）与首次执行后一致。Undo 只在 Execute 成功后调用。
type Command interface {
	Kind() Kind
	Name() string
	Execute(e engine.AnimationEngine) error
	Undo(e engine.AnimationEngine) error
}

// ProjectScoped 由作用于项目结构（而非活动场景时间轴）的命令实现
type ProjectScoped interface {
	ProjectScoped() bool
}

func isProjectScoped(c Command) bool {
	p, ok := c.(ProjectScoped)
	return ok && p.ProjectScoped()
}

// base 为命令提供 Kind/Name
type base struct {
	kind Kind
	name string
}

func (b base) Kind() Kind { return b.kind }

func (b base) Name() string {
	if b.name != "" {
		return b.name
	}
	return string(b.kind)
}

// layerSnap 以图层帧内容快照实现撤销/重做
type layerSnap struct {
	before, after model.LayerContent
	done          bool
}

func (s *layerSnap) run(e engine.AnimationEngine, layer ids.LayerID, apply func() error) error {
	if s.done {
		return e.RestoreLayer(s.after)
	}
	before, err := e.SnapshotLayer(layer)
	if err != nil {
		return err
	}
	// 失败时恢复 before：apply 可能已部分修改图层
	if err := apply(); err != nil {
		if rerr := e.RestoreLayer(before); rerr != nil {
			return errors.Join(err, rerr)
		}
		return err
	}
	after, err := e.SnapshotLayer(layer)
	if err != nil {
		if rerr := e.RestoreLayer(before); rerr != nil {
			return errors.Join(err, rerr)
		}
		return err
	}
	s.before, s.after, s.done = before, after, true
	return nil
}

func (s *layerSnap) undo(e engine.AnimationEngine) error {
	if !s.done {
		return ErrNotExecuted
	}
	return e.RestoreLayer(s.before)
}

// timelineSnap 以整条时间轴快照实现撤销/重做（图层结构变化使用）
type timelineSnap struct {
	before, after *model.Timeline
}

func (s *timelineSnap) run(e engine.AnimationEngine, apply func() error) error {
	if s.after != nil {
		return e.RestoreTimeline(s.after)
	}
	before, err := e.SnapshotTimeline()
	if err != nil {
		return err
	}
	if err := apply(); err != nil {
		if rerr := e.RestoreTimeline(before); rerr != nil {
			return errors.Join(err, rerr)
		}
		return err
	}
	after, err := e.SnapshotTimeline()
	if err != nil {
		if rerr := e.RestoreTimeline(before); rerr != nil {
			return errors.Join(err, rerr)
		}
		return err
	}
	s.before, s.after = before, after
	return nil
}

func (s *timelineSnap) undo(e engine.AnimationEngine) error {
	if s.before == nil {
		return ErrNotExecuted
	}
	return e.RestoreTimeline(s.before)
}

// Group 复合命令：按顺序执行子命令，任一失败时逆序回滚已执行的部分
type Group struct {
	base
	Commands []Command
	executed int
}

// NewGroup 创建复合命令
func NewGroup(name string, cmds ...Command) *Group {
	return &Group{base: base{kind: KindGroup, name: name}, Commands: cmds}
}

// Add 追加子命令（执行前）
func (g *Group) Add(c Command) { g.Commands = append(g.Commands, c) }

// Len 子命令数量
func (g *Group) Len() int { return len(g.Commands) }

func (g *Group) Execute(e engine.AnimationEngine) error {
	g.executed = 0
	for i, c := range g.Commands {
		if err := c.Execute(e); err != nil {
			if rerr := g.rollback(e, i); rerr != nil {
				return fmt.Errorf("%s: %w (rollback failed: %v)", c.Name(), err, rerr)
			}
			return fmt.Errorf("%s: %w", c.Name(), err)
		}
		g.executed = i + 1
	}
	return nil
}

func (g *Group) rollback(e engine.AnimationEngine, n int) error {
	for i := n - 1; i >= 0; i-- {
		if err := g.Commands[i].Undo(e); err != nil {
			return err
		}
	}
	return nil
}

func (g *Group) Undo(e engine.AnimationEngine) error {
	if g.executed != len(g.Commands) {
		return ErrNotExecuted
	}
	return g.rollback(e, len(g.Commands))
}

// ProjectScoped 组内全部为项目级命令时整个组是项目级
func (g *Group) ProjectScoped() bool {
	if len(g.Commands) == 0 {
		return false
	}
	for _, c := range g.Commands {
		if !isProjectScoped(c) {
			return false
		}
	}
	return true
}
