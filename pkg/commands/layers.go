package commands

import (
	"fmt"

	"github.com/decker502/timeline/pkg/engine"
	"github.com/decker502/timeline/pkg/ids"
	"github.com/decker502/timeline/pkg/model"
)

// LayerCommand 改变图层结构的命令，以整条时间轴快照撤销
//
// ID 为执行后新建（或被操作）的图层。
type LayerCommand struct {
	base
	ID    ids.LayerID
	apply func(e engine.AnimationEngine) (ids.LayerID, error)
	snap  timelineSnap
}

func (c *LayerCommand) Execute(e engine.AnimationEngine) error {
	return c.snap.run(e, func() error {
		id, err := c.apply(e)
		if err != nil {
			return err
		}
		c.ID = id
		return nil
	})
}

func (c *LayerCommand) Undo(e engine.AnimationEngine) error { return c.snap.undo(e) }

func layerCommand(kind Kind, name string, apply func(e engine.AnimationEngine) (ids.LayerID, error)) *LayerCommand {
	return &LayerCommand{base: base{kind: kind, name: name}, apply: apply}
}

// AddLayer 在顶部添加图层
func AddLayer(name string, typ model.LayerType) *LayerCommand {
	return layerCommand(KindAddLayer, "", func(e engine.AnimationEngine) (ids.LayerID, error) {
		return e.AddLayer(name, typ)
	})
}

// InsertLayer 在 parent 的 index 位置插入图层
func InsertLayer(name string, typ model.LayerType, parent ids.LayerID, index int) *LayerCommand {
	return layerCommand(KindAddLayer, "", func(e engine.AnimationEngine) (ids.LayerID, error) {
		return e.InsertLayer(name, typ, parent, index)
	})
}

// AddFolder 添加文件夹图层
func AddFolder(name string) *LayerCommand {
	return layerCommand(KindAddLayer, "Add Folder", func(e engine.AnimationEngine) (ids.LayerID, error) {
		return e.AddFolderLayer(name)
	})
}

// AddMotionGuide 为 target 添加运动引导层
func AddMotionGuide(target ids.LayerID) *LayerCommand {
	return layerCommand(KindAddLayer, "Add Motion Guide", func(e engine.AnimationEngine) (ids.LayerID, error) {
		return e.AddMotionGuideLayer(target)
	})
}

// AddAudioLayer 添加音频图层
func AddAudioLayer(name string, source model.AudioSource, startFrame uint32) *LayerCommand {
	return layerCommand(KindAddLayer, "Add Audio Layer", func(e engine.AnimationEngine) (ids.LayerID, error) {
		return e.AddAudioLayer(name, source, startFrame)
	})
}

// DeleteLayer 删除图层及其子树
func DeleteLayer(layer ids.LayerID) *LayerCommand {
	return layerCommand(KindDeleteLayer, "", func(e engine.AnimationEngine) (ids.LayerID, error) {
		return layer, e.DeleteLayer(layer)
	})
}

// DuplicateLayer 复制图层，副本位于原图层之上
func DuplicateLayer(layer ids.LayerID) *LayerCommand {
	return layerCommand(KindDuplicateLayer, "", func(e engine.AnimationEngine) (ids.LayerID, error) {
		return e.DuplicateLayer(layer)
	})
}

func layerInfo(e engine.AnimationEngine, id ids.LayerID) (engine.LayerInfo, error) {
	for _, l := range e.Layers() {
		if l.ID == id {
			return l, nil
		}
	}
	return engine.LayerInfo{}, fmt.Errorf("layer %s: %w", id, model.ErrLayerNotFound)
}

// layerAttr 单个图层属性的可逆修改：首次执行时记录旧值
type layerAttr struct {
	base
	Layer ids.LayerID
	read  func(l engine.LayerInfo) any
	write func(e engine.AnimationEngine, v any) error
	next  any
	prev  any
	done  bool
}

func (c *layerAttr) Execute(e engine.AnimationEngine) error {
	if !c.done {
		info, err := layerInfo(e, c.Layer)
		if err != nil {
			return err
		}
		c.prev = c.read(info)
	}
	if err := c.write(e, c.next); err != nil {
		return err
	}
	c.done = true
	return nil
}

func (c *layerAttr) Undo(e engine.AnimationEngine) error {
	if !c.done {
		return ErrNotExecuted
	}
	return c.write(e, c.prev)
}

// RenameLayer 重命名图层
func RenameLayer(layer ids.LayerID, name string) Command {
	return &layerAttr{
		base:  base{kind: KindRenameLayer},
		Layer: layer,
		next:  name,
		read:  func(l engine.LayerInfo) any { return l.Name },
		write: func(e engine.AnimationEngine, v any) error { return e.RenameLayer(layer, v.(string)) },
	}
}

// SetLayerVisible 显示/隐藏图层
func SetLayerVisible(layer ids.LayerID, visible bool) Command {
	return &layerAttr{
		base:  base{kind: KindLayerVisibility},
		Layer: layer,
		next:  visible,
		read:  func(l engine.LayerInfo) any { return l.Visible },
		write: func(e engine.AnimationEngine, v any) error { return e.SetLayerVisible(layer, v.(bool)) },
	}
}

// SetLayerLocked 锁定/解锁图层
func SetLayerLocked(layer ids.LayerID, locked bool) Command {
	return &layerAttr{
		base:  base{kind: KindLayerLock},
		Layer: layer,
		next:  locked,
		read:  func(l engine.LayerInfo) any { return l.Locked },
		write: func(e engine.AnimationEngine, v any) error { return e.SetLayerLocked(layer, v.(bool)) },
	}
}

// SetLayerType 修改图层类型
func SetLayerType(layer ids.LayerID, typ model.LayerType) Command {
	return &layerAttr{
		base:  base{kind: KindLayerType},
		Layer: layer,
		next:  typ,
		read:  func(l engine.LayerInfo) any { return l.Type },
		write: func(e engine.AnimationEngine, v any) error { return e.SetLayerType(layer, v.(model.LayerType)) },
	}
}

// moveLayer 移动图层；逆操作移回原父级与原位置
type moveLayer struct {
	base
	Layer  ids.LayerID
	Parent ids.LayerID
	Index  int

	prevParent ids.LayerID
	prevIndex  int
	done       bool
}

// MoveLayer 把图层移动到 parent 下的 index 位置（parent 为空表示顶层）
func MoveLayer(layer, parent ids.LayerID, index int) Command {
	return &moveLayer{base: base{kind: KindMoveLayer}, Layer: layer, Parent: parent, Index: index}
}

func (c *moveLayer) Execute(e engine.AnimationEngine) error {
	if !c.done {
		parent, index, err := e.LayerPosition(c.Layer)
		if err != nil {
			return err
		}
		c.prevParent, c.prevIndex = parent, index
	}
	if err := e.MoveLayer(c.Layer, c.Parent, c.Index); err != nil {
		return err
	}
	c.done = true
	return nil
}

func (c *moveLayer) Undo(e engine.AnimationEngine) error {
	if !c.done {
		return ErrNotExecuted
	}
	return e.MoveLayer(c.Layer, c.prevParent, c.prevIndex)
}
