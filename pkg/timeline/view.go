package timeline

import (
	"github.com/decker502/timeline/pkg/engine"
	"github.com/decker502/timeline/pkg/selection"
)

// View 外部协作者（脚本、面板）使用的只读视图
//
// 只能在 UI 线程的帧边界之间使用；修改请通过 Timeline.Submit。
type View interface {
	engine.Reader

	CurrentFrame() uint32
	TotalFrames() uint32
	FPS() float32
	IsPlaying() bool

	// Selection 当前选择的值拷贝
	Selection() selection.Snapshot
	// Message 最近一次被拒绝或失败的命令说明
	Message() string
	CanUndo() bool
	CanRedo() bool
}

type view struct {
	engine.Reader
	t *Timeline
}

// View 返回只读视图
func (t *Timeline) View() View {
	return view{Reader: t.eng, t: t}
}

func (v view) CurrentFrame() uint32 { return v.t.eng.CurrentFrame() }
func (v view) TotalFrames() uint32  { return v.t.eng.TotalFrames() }
func (v view) FPS() float32         { return v.t.eng.FPS() }
func (v view) IsPlaying() bool      { return v.t.eng.IsPlaying() }
func (v view) Message() string      { return v.t.machine.State.Message }
func (v view) CanUndo() bool        { return v.t.history.CanUndo() }
func (v view) CanRedo() bool        { return v.t.history.CanRedo() }

func (v view) Selection() selection.Snapshot {
	return v.t.machine.State.Selection.Snapshot()
}
