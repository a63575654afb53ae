package commands

import (
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/decker502/timeline/pkg/engine"
	"github.com/decker502/timeline/pkg/ids"
	"github.com/decker502/timeline/pkg/model"
)

// DefaultLimit 默认撤销深度
const DefaultLimit = 200

// Status 命令执行结果
type Status int

const (
	StatusOK       Status = iota
	StatusRejected        // 违反约束，模型未改变
	StatusFailed          // 引擎错误
	StatusNoop            // 没有可撤销/重做的命令
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusRejected:
		return "rejected"
	case StatusFailed:
		return "failed"
	default:
		return "noop"
	}
}

// Outcome 命令执行（或撤销/重做）的结果
type Outcome struct {
	Status  Status
	Command string
	Err     error
}

// OK 报告是否成功
func (o Outcome) OK() bool { return o.Status == StatusOK }

// Message 面向用户的简短说明；成功时为空
func (o Outcome) Message() string {
	if o.Err == nil {
		return ""
	}
	if o.Command == "" {
		return o.Err.Error()
	}
	return o.Command + ": " + o.Err.Error()
}

// Classify 把引擎返回的错误归类为结果
func Classify(name string, err error) Outcome {
	switch {
	case err == nil:
		return Outcome{Status: StatusOK, Command: name}
	case model.IsRejection(err), errors.Is(err, ErrNotExecuted):
		return Outcome{Status: StatusRejected, Command: name, Err: err}
	default:
		return Outcome{Status: StatusFailed, Command: name, Err: err}
	}
}

type entry struct {
	cmd   Command
	scene ids.SceneID
}

// History 撤销/重做栈
//
// 成功的命令入撤销栈并清空重做栈；被拒绝或失败的命令不入栈。
// 时间轴命令记录执行时的活动场景，撤销/重做前若活动场景不同则先切换回去。
type History struct {
	limit    int
	undo     []entry
	redo     []entry
	onChange func()
}

// NewHistory 创建撤销栈
//
// 参数：
//   - limit: 最大撤销深度，<= 0 时使用 DefaultLimit
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &History{limit: limit}
}

// OnChange 注册栈变化回调（用于刷新菜单状态）
func (h *History) OnChange(fn func()) { h.onChange = fn }

func (h *History) changed() {
	if h.onChange != nil {
		h.onChange()
	}
}

// Execute 执行命令并在成功时入栈
func (h *History) Execute(e engine.AnimationEngine, c Command) Outcome {
	scene := activeScene(e)
	out := Classify(c.Name(), c.Execute(e))
	switch out.Status {
	case StatusOK:
		if isProjectScoped(c) {
			scene = ""
		}
		h.undo = append(h.undo, entry{cmd: c, scene: scene})
		if over := len(h.undo) - h.limit; over > 0 {
			h.undo = append(h.undo[:0:0], h.undo[over:]...)
		}
		h.redo = nil
		log.Debug().Str("component", "History").Str("command", c.Name()).Int("depth", len(h.undo)).Msg("executed")
		h.changed()
	case StatusRejected:
		log.Debug().Str("component", "History").Str("command", c.Name()).Err(out.Err).Msg("rejected")
	default:
		log.Error().Str("component", "History").Str("command", c.Name()).Err(out.Err).Msg("command failed")
	}
	return out
}

// Undo 撤销最近的命令
func (h *History) Undo(e engine.AnimationEngine) Outcome {
	if len(h.undo) == 0 {
		return Outcome{Status: StatusNoop}
	}
	top := h.undo[len(h.undo)-1]
	if err := focus(e, top.scene); err != nil {
		return Classify(top.cmd.Name(), err)
	}
	out := Classify(top.cmd.Name(), top.cmd.Undo(e))
	if !out.OK() {
		log.Error().Str("component", "History").Str("command", top.cmd.Name()).Err(out.Err).Msg("undo failed")
		return out
	}
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, top)
	log.Debug().Str("component", "History").Str("command", top.cmd.Name()).Msg("undone")
	h.changed()
	return out
}

// Redo 重做最近撤销的命令
func (h *History) Redo(e engine.AnimationEngine) Outcome {
	if len(h.redo) == 0 {
		return Outcome{Status: StatusNoop}
	}
	top := h.redo[len(h.redo)-1]
	if err := focus(e, top.scene); err != nil {
		return Classify(top.cmd.Name(), err)
	}
	out := Classify(top.cmd.Name(), top.cmd.Execute(e))
	if !out.OK() {
		log.Error().Str("component", "History").Str("command", top.cmd.Name()).Err(out.Err).Msg("redo failed")
		return out
	}
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, top)
	log.Debug().Str("component", "History").Str("command", top.cmd.Name()).Msg("redone")
	h.changed()
	return out
}

// CanUndo 是否有可撤销的命令
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo 是否有可重做的命令
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// UndoName 下一个撤销命令的名称（菜单显示）
func (h *History) UndoName() string {
	if len(h.undo) == 0 {
		return ""
	}
	return h.undo[len(h.undo)-1].cmd.Name()
}

// RedoName 下一个重做命令的名称
func (h *History) RedoName() string {
	if len(h.redo) == 0 {
		return ""
	}
	return h.redo[len(h.redo)-1].cmd.Name()
}

// Len 撤销栈深度
func (h *History) Len() int { return len(h.undo) }

// Limit 最大撤销深度
func (h *History) Limit() int { return h.limit }

// Clear 清空两个栈（载入新项目时）
func (h *History) Clear() {
	h.undo, h.redo = nil, nil
	h.changed()
}

func activeScene(e engine.AnimationEngine) ids.SceneID {
	host, ok := e.(engine.SceneHost)
	if !ok || host.Project() == nil {
		return ""
	}
	return host.Project().ActiveID()
}

func focus(e engine.AnimationEngine, scene ids.SceneID) error {
	if scene == "" || activeScene(e) == scene {
		return nil
	}
	host, ok := e.(engine.SceneHost)
	if !ok {
		return nil
	}
	return host.SwitchScene(scene)
}
