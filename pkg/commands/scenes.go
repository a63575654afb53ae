package commands

import (
	"fmt"

	"github.com/decker502/timeline/pkg/engine"
	"github.com/decker502/timeline/pkg/ids"
	"github.com/decker502/timeline/pkg/model"
)

// ErrNoSceneHost 引擎不支持多场景
var ErrNoSceneHost = fmt.Errorf("engine does not host scenes: %w", model.ErrConstraintViolation)

func sceneHost(e engine.AnimationEngine) (engine.SceneHost, error) {
	h, ok := e.(engine.SceneHost)
	if !ok {
		return nil, ErrNoSceneHost
	}
	return h, nil
}

// sceneCommand 项目结构命令的公共部分
type sceneCommand struct {
	base
}

func (sceneCommand) ProjectScoped() bool { return true }

// AddSceneCommand 新建或复制场景；撤销时移除，重做时放回同一个场景对象
type AddSceneCommand struct {
	sceneCommand
	ID     ids.SceneID
	create func(h engine.SceneHost) (ids.SceneID, error)

	scene *model.Scene
	index int
}

// CreateScene 新建场景
func CreateScene(name string) *AddSceneCommand {
	return &AddSceneCommand{
		sceneCommand: sceneCommand{base{kind: KindScene, name: "Create Scene"}},
		create:       func(h engine.SceneHost) (ids.SceneID, error) { return h.CreateScene(name) },
	}
}

// DuplicateScene 复制场景
func DuplicateScene(id ids.SceneID, name string) *AddSceneCommand {
	return &AddSceneCommand{
		sceneCommand: sceneCommand{base{kind: KindScene, name: "Duplicate Scene"}},
		create:       func(h engine.SceneHost) (ids.SceneID, error) { return h.DuplicateScene(id, name) },
	}
}

func (c *AddSceneCommand) Execute(e engine.AnimationEngine) error {
	h, err := sceneHost(e)
	if err != nil {
		return err
	}
	if c.scene != nil {
		return h.RestoreScene(c.scene, c.index)
	}
	id, err := c.create(h)
	if err != nil {
		return err
	}
	s, err := h.Project().Scene(id)
	if err != nil {
		return err
	}
	c.ID, c.scene, c.index = id, s, h.Project().SceneIndex(id)
	return nil
}

func (c *AddSceneCommand) Undo(e engine.AnimationEngine) error {
	if c.scene == nil {
		return ErrNotExecuted
	}
	h, err := sceneHost(e)
	if err != nil {
		return err
	}
	_, err = h.RemoveScene(c.ID)
	return err
}

// removeScene 删除场景；撤销时把原场景对象放回原位置，原为活动场景时重新激活
type removeScene struct {
	sceneCommand
	ID ids.SceneID

	scene     *model.Scene
	index     int
	wasActive bool
}

// RemoveScene 删除场景（不能删除最后一个场景）
func RemoveScene(id ids.SceneID) Command {
	return &removeScene{sceneCommand: sceneCommand{base{kind: KindScene, name: "Delete Scene"}}, ID: id}
}

func (c *removeScene) Execute(e engine.AnimationEngine) error {
	h, err := sceneHost(e)
	if err != nil {
		return err
	}
	s, err := h.Project().Scene(c.ID)
	if err != nil {
		return err
	}
	wasActive := h.Project().ActiveID() == c.ID
	idx, err := h.RemoveScene(c.ID)
	if err != nil {
		return err
	}
	c.scene, c.index, c.wasActive = s, idx, wasActive
	return nil
}

func (c *removeScene) Undo(e engine.AnimationEngine) error {
	if c.scene == nil {
		return ErrNotExecuted
	}
	h, err := sceneHost(e)
	if err != nil {
		return err
	}
	if err := h.RestoreScene(c.scene, c.index); err != nil {
		return err
	}
	if c.wasActive {
		return h.SwitchScene(c.ID)
	}
	return nil
}

// renameScene 重命名场景
type renameScene struct {
	sceneCommand
	ID      ids.SceneID
	NewName string
	prev    *string
}

// RenameScene 重命名场景
func RenameScene(id ids.SceneID, name string) Command {
	return &renameScene{sceneCommand: sceneCommand{base{kind: KindScene, name: "Rename Scene"}}, ID: id, NewName: name}
}

func (c *renameScene) Execute(e engine.AnimationEngine) error {
	h, err := sceneHost(e)
	if err != nil {
		return err
	}
	s, err := h.Project().Scene(c.ID)
	if err != nil {
		return err
	}
	prev := s.Name
	if err := h.RenameScene(c.ID, c.NewName); err != nil {
		return err
	}
	if c.prev == nil {
		c.prev = &prev
	}
	return nil
}

func (c *renameScene) Undo(e engine.AnimationEngine) error {
	if c.prev == nil {
		return ErrNotExecuted
	}
	h, err := sceneHost(e)
	if err != nil {
		return err
	}
	return h.RenameScene(c.ID, *c.prev)
}

// moveScene 调整场景顺序
type moveScene struct {
	sceneCommand
	ID    ids.SceneID
	Index int
	prev  int
	done  bool
}

// MoveScene 把场景移动到 index
func MoveScene(id ids.SceneID, index int) Command {
	return &moveScene{sceneCommand: sceneCommand{base{kind: KindScene, name: "Move Scene"}}, ID: id, Index: index}
}

func (c *moveScene) Execute(e engine.AnimationEngine) error {
	h, err := sceneHost(e)
	if err != nil {
		return err
	}
	prev := h.Project().SceneIndex(c.ID)
	if err := h.MoveScene(c.ID, c.Index); err != nil {
		return err
	}
	if !c.done {
		c.prev, c.done = prev, true
	}
	return nil
}

func (c *moveScene) Undo(e engine.AnimationEngine) error {
	if !c.done {
		return ErrNotExecuted
	}
	h, err := sceneHost(e)
	if err != nil {
		return err
	}
	return h.MoveScene(c.ID, c.prev)
}
