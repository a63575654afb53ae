// Package timeline 把时间轴核心组装成宿主可嵌入的控件
//
// 宿主每帧按顺序调用 Update（输入、命令、播放推进）与 Draw。后台线程
// 产生的音频元数据与波形通过 Publish* 投递，在下一帧开始时整体换入；
// 外部协作者只能通过 View 读取状态、通过 Submit 投递命令。
package timeline

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/decker502/timeline/pkg/commands"
	"github.com/decker502/timeline/pkg/config"
	"github.com/decker502/timeline/pkg/engine"
	"github.com/decker502/timeline/pkg/i18n"
	"github.com/decker502/timeline/pkg/ids"
	"github.com/decker502/timeline/pkg/input"
	"github.com/decker502/timeline/pkg/interaction"
	"github.com/decker502/timeline/pkg/layout"
	"github.com/decker502/timeline/pkg/model"
	"github.com/decker502/timeline/pkg/playback"
	"github.com/decker502/timeline/pkg/render"
	"github.com/decker502/timeline/pkg/surface"
)

// Hooks 宿主回调，均可为 nil
type Hooks struct {
	Interaction interaction.Hooks

	// Audio 音频输出
	Audio playback.AudioSink
	// FrameChanged 播放推进后播放头所在帧
	FrameChanged func(frame uint32)
	// PlayStateChanged 播放/暂停切换
	PlayStateChanged func(playing bool)
	// Submitted 通过 Submit 投递的命令执行完毕
	Submitted func(cmd commands.Command, out commands.Outcome)
}

// Timeline 时间轴控件
type Timeline struct {
	eng      engine.AnimationEngine
	vp       *layout.Viewport
	player   *playback.Controller
	history  *commands.History
	machine  *interaction.Machine
	renderer *render.Renderer
	hooks    Hooks

	waveforms map[ids.AudioID]*model.Waveform

	mu      sync.Mutex
	waves   map[ids.AudioID]*model.Waveform
	sources map[ids.AudioID]model.AudioSource
	queue   []commands.Command
}

// New 按配置组装时间轴控件
//
// 参数：
//   - eng: 动画引擎
//   - cfg: 配置；nil 时使用 config.Default()
//   - h: 宿主回调
//
// 返回：
//   - *Timeline: 控件
//   - error: 配置无效
func New(eng engine.AnimationEngine, cfg *config.Config, h Hooks) (*Timeline, error) {
	if eng == nil {
		return nil, fmt.Errorf("timeline: %w", model.ErrNotInitialized)
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	style, err := cfg.Style.Resolve()
	if err != nil {
		return nil, err
	}
	strs, err := cfg.Strings()
	if err != nil {
		return nil, err
	}

	t := &Timeline{
		eng:       eng,
		vp:        layout.New(cfg.Layout.Metrics(), float64(cfg.Window.Width), float64(cfg.Window.Height)),
		history:   commands.NewHistory(cfg.History.Limit),
		renderer:  render.New(style),
		hooks:     h,
		waveforms: make(map[ids.AudioID]*model.Waveform),
		waves:     make(map[ids.AudioID]*model.Waveform),
		sources:   make(map[ids.AudioID]model.AudioSource),
	}
	t.vp.SetZoom(cfg.Zoom)
	t.player = playback.New(eng, playback.Hooks{
		FrameChanged:     h.FrameChanged,
		PlayStateChanged: h.PlayStateChanged,
		Audio:            h.Audio,
	})
	t.machine = interaction.NewMachine(interaction.Deps{
		Engine:    eng,
		Viewport:  t.vp,
		Playback:  t.player,
		History:   t.history,
		Clipboard: &commands.Clipboard{},
		Strings:   strs,
	}, cfg.Snap, cfg.Onion, h.Interaction)
	t.machine.Author = cfg.Author

	log.Debug().Str("component", "Timeline").
		Float64("width", t.vp.Width).
		Float64("height", t.vp.Height).
		Int("history_limit", cfg.History.Limit).
		Str("language", strs.Lang()).
		Msg("timeline created")
	return t, nil
}

// Engine 返回动画引擎
func (t *Timeline) Engine() engine.AnimationEngine { return t.eng }

// Viewport 返回视口
func (t *Timeline) Viewport() *layout.Viewport { return t.vp }

// Playback 返回播放控制器
func (t *Timeline) Playback() *playback.Controller { return t.player }

// History 返回撤销栈
func (t *Timeline) History() *commands.History { return t.history }

// Machine 返回交互状态机
func (t *Timeline) Machine() *interaction.Machine { return t.machine }

// State 返回交互状态
func (t *Timeline) State() *interaction.State { return &t.machine.State }

// SetLanguage 切换界面语言
func (t *Timeline) SetLanguage(lang string) error {
	s, err := i18n.New(lang)
	if err != nil {
		return err
	}
	t.machine.SetStrings(s)
	return nil
}

// Resize 控件尺寸变化
func (t *Timeline) Resize(width, height float64) {
	t.vp.Resize(width, height)
	t.vp.ClampScroll(t.eng.TotalFrames(), t.machine.Rows())
}

// Update 推进一帧
//
// 顺序固定：换入已发布的快照，执行投递的命令，按宿主顺序处理输入事件，
// 最后按 dt 推进播放。本帧的模型修改都在 Draw 之前生效。
//
// 返回：
//   - bool: 状态有变化，需要重绘
func (t *Timeline) Update(events []input.Event, dt time.Duration) bool {
	dirty := t.applyPublished()

	// 1. 外部命令
	for _, c := range t.drain() {
		out := t.machine.Dispatch(c)
		if t.hooks.Submitted != nil {
			t.hooks.Submitted(c, out)
		}
		dirty = true
	}

	// 2. 输入
	for _, ev := range events {
		if t.machine.Handle(ev) {
			dirty = true
		}
	}

	// 3. 播放
	if t.player.Tick(dt) > 0 {
		dirty = true
	}

	t.vp.ClampScroll(t.eng.TotalFrames(), t.machine.Rows())
	return dirty
}

// Draw 把当前状态绘制到 p
func (t *Timeline) Draw(p surface.Painter) {
	f := render.Frame{
		Engine:    t.eng,
		Viewport:  t.vp,
		Rows:      t.machine.Rows(),
		State:     &t.machine.State,
		Looping:   t.player.Looping(),
		Waveforms: t.waveforms,
		Status:    t.status(),
		Strings:   t.machine.Strings(),
	}
	if r, ok := t.player.LoopRegion(); ok {
		f.Loop = &r
	}
	t.renderer.Draw(p, f)
}

func (t *Timeline) status() string {
	if name := t.history.UndoName(); name != "" {
		return "Undo " + name
	}
	return ""
}

// Execute 在 UI 线程上立即执行命令并记入撤销栈
func (t *Timeline) Execute(c commands.Command) commands.Outcome {
	return t.machine.Dispatch(c)
}

// Undo 撤销
func (t *Timeline) Undo() { t.machine.Perform(interaction.ActionUndo, interaction.Target{}) }

// Redo 重做
func (t *Timeline) Redo() { t.machine.Perform(interaction.ActionRedo, interaction.Target{}) }

// AddAudioLayer 添加音频图层（宿主选好文件后调用）
//
// 返回：
//   - ids.LayerID: 新图层；命令被拒绝时为空
//   - commands.Outcome: 执行结果
func (t *Timeline) AddAudioLayer(name string, src model.AudioSource, startFrame uint32) (ids.LayerID, commands.Outcome) {
	c := commands.AddAudioLayer(name, src, startFrame)
	out := t.machine.Dispatch(c)
	if out.OK() {
		t.machine.State.ActiveLayer = c.ID
	}
	return c.ID, out
}

// SwitchScene 切换场景；进行中的交互被取消，选择清空
func (t *Timeline) SwitchScene(id ids.SceneID) error {
	host, ok := t.eng.(engine.SceneHost)
	if !ok {
		return fmt.Errorf("engine does not support scenes: %w", model.ErrNotInitialized)
	}
	t.machine.Cancel()
	if err := host.SwitchScene(id); err != nil {
		return fmt.Errorf("switch scene: %w", err)
	}
	t.machine.State.Selection.Clear()
	t.machine.State.ActiveLayer = ""
	t.player.ClearLoopRegion()
	t.vp.SetScroll(0, 0)
	t.machine.Prune()
	return nil
}
