// Package app 把时间轴控件包装成 ebiten.Game
//
// 桌面端通过 cmd/timeline 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"context"
	"fmt"
	"image/color"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
	"github.com/rs/zerolog/log"

	tlaudio "github.com/decker502/timeline/internal/audio"
	"github.com/decker502/timeline/internal/ebitenhost"
	"github.com/decker502/timeline/internal/reanim"
	"github.com/decker502/timeline/pkg/config"
	"github.com/decker502/timeline/pkg/engine"
	"github.com/decker502/timeline/pkg/interaction"
	"github.com/decker502/timeline/pkg/model"
	"github.com/decker502/timeline/pkg/storage"
	"github.com/decker502/timeline/pkg/timeline"
)

// 音频设备采样率
const sampleRate = 48000

// Config 应用启动配置
type Config struct {
	// ConfigPath 时间轴配置文件，为空或不存在时使用默认配置
	ConfigPath string
	// AppName 存档目录名
	AppName string
	// Project 打开或新建的项目名
	Project string
	// AudioFile "添加音频图层" 使用的文件
	AudioFile string
	// Reanim 启动时导入为新场景的动画文件
	Reanim string
}

// App 时间轴应用，实现 ebiten.Game 接口
type App struct {
	cfg     *config.Config
	eng     *engine.Memory
	tl      *timeline.Timeline
	store   *storage.ProjectStore
	prefs   *storage.PreferencesManager
	sink    *tlaudio.Sink
	loader  *tlaudio.Loader
	painter *ebitenhost.Painter
	poller  *ebitenhost.Poller
	ctx     context.Context
	cancel  context.CancelFunc
	project string
	audio   string
	last    time.Time
	width   int
	height  int
	closed  bool

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化应用
func NewApp(c Config) (*App, error) {
	// 1. 配置
	cfg := config.Default()
	if c.ConfigPath != "" {
		loaded, err := config.Load(c.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("config load failed: %w", err)
		}
		cfg = loaded
	}
	if isMobile() {
		cfg.Layout = touchLayout(cfg.Layout)
	}
	if c.AppName == "" {
		c.AppName = "timeline"
	}
	if c.Project == "" {
		c.Project = "untitled"
	}
	if !storage.ValidName(c.Project) {
		return nil, fmt.Errorf("invalid project name %q", c.Project)
	}

	// 2. 存档
	if err := storage.EnsureDir(); err != nil {
		log.Warn().Str("component", "App").Err(err).Msg("save directory unavailable")
	}
	var manager *gdata.Manager
	if m, err := gdata.Open(gdata.Config{AppName: c.AppName}); err != nil {
		log.Warn().Str("component", "App").Err(err).Msg("save storage unavailable, projects will not persist")
	} else {
		manager = m
	}
	a := &App{
		cfg:     cfg,
		store:   storage.NewProjectStore(manager),
		prefs:   storage.NewPreferencesManager(manager),
		project: c.Project,
		audio:   c.AudioFile,
		width:   cfg.Window.Width,
		height:  cfg.Window.Height,
	}
	a.ctx, a.cancel = context.WithCancel(context.Background())

	// 3. 项目
	project, err := a.openProject(c.Project)
	if err != nil {
		return nil, err
	}
	if c.Reanim != "" {
		if err := importReanim(project, c.Reanim); err != nil {
			return nil, err
		}
	}
	a.eng = engine.NewMemory(project)

	// 4. 音频和剪贴板
	a.sink = tlaudio.NewSink(audio.NewContext(sampleRate))
	clip := ebitenhost.NewClipboardBridge()

	// 5. 时间轴
	a.tl, err = timeline.New(a.eng, cfg, timeline.Hooks{
		Interaction: interaction.Hooks{
			HostAction:      a.hostAction,
			ClipboardCopied: clip.Copied,
			ClipboardFetch:  clip.Fetch,
		},
		Audio: a.sink,
	})
	if err != nil {
		return nil, err
	}
	a.loader = tlaudio.NewLoader(a.tl, a.sink, a.eng.FPS())
	a.prefs.Apply(a.tl)
	a.loadAudio(project)

	// 6. 绘制和输入
	fonts, err := ebitenhost.LoadFonts()
	if err != nil {
		return nil, fmt.Errorf("font load failed: %w", err)
	}
	a.painter = ebitenhost.NewPainter(fonts)
	a.poller = ebitenhost.NewPoller()

	log.Info().Str("component", "App").
		Str("project", c.Project).
		Int("scenes", project.SceneCount()).
		Msg("timeline app ready")
	return a, nil
}

func (a *App) openProject(name string) (*model.Project, error) {
	if !a.store.Exists(name) {
		log.Info().Str("component", "App").Str("project", name).Msg("creating new project")
		return model.NewProject(a.cfg.FPS), nil
	}
	p, err := a.store.Load(name)
	if err != nil {
		return nil, fmt.Errorf("project load failed: %w", err)
	}
	return p, nil
}

func importReanim(p *model.Project, path string) error {
	r, err := reanim.ParseFile(path)
	if err != nil {
		return err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	id, res, err := reanim.ImportScene(p, name, r)
	if err != nil {
		return fmt.Errorf("reanim import failed: %w", err)
	}
	if err := p.SwitchScene(id); err != nil {
		return err
	}
	log.Info().Str("component", "App").
		Str("path", path).
		Int("layers", res.Layers).
		Int("keyframes", res.Keyframes).
		Msg("reanim imported")
	return nil
}

// loadAudio 在后台解码项目中引用的全部音频
func (a *App) loadAudio(p *model.Project) {
	seen := make(map[string]bool)
	for _, s := range p.Scenes() {
		for _, st := range s.Timeline.ExportLayers() {
			if st.Audio == nil || st.Audio.Source.Path == "" {
				continue
			}
			src := st.Audio.Source
			if seen[string(src.ID)] {
				continue
			}
			seen[string(src.ID)] = true
			a.loader.LoadAsync(a.ctx, src)
		}
	}
}

// hostAction 处理状态机交给宿主的菜单动作
func (a *App) hostAction(act interaction.Action, t interaction.Target) {
	switch act {
	case interaction.ActionAddAudioLayer:
		if a.audio == "" {
			log.Warn().Str("component", "App").Msg("no audio file configured")
			return
		}
		src := model.NewAudioSource(a.audio)
		name := strings.TrimSuffix(src.DisplayName(), filepath.Ext(src.DisplayName()))
		if _, out := a.tl.AddAudioLayer(name, src, t.Frame); !out.OK() {
			log.Warn().Str("component", "App").Str("reason", out.Message()).Msg("add audio layer failed")
			return
		}
		a.loader.LoadAsync(a.ctx, src)
	default:
		log.Debug().Str("component", "App").Int("action", int(act)).Msg("host action ignored")
	}
}

// Update 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	if ebiten.IsWindowBeingClosed() {
		a.Close()
		return ebiten.Termination
	}

	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(a.cfg.Window.Width, a.cfg.Window.Height)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
		} else {
			ebiten.SetFullscreen(true)
		}
	}

	// Ctrl/Cmd+S 保存
	if inpututil.IsKeyJustPressed(ebiten.KeyS) &&
		(ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)) {
		if err := a.Save(); err != nil {
			log.Error().Str("component", "App").Err(err).Msg("save failed")
		}
	}

	now := time.Now()
	dt := time.Duration(0)
	if !a.last.IsZero() {
		dt = now.Sub(a.last)
	}
	a.last = now
	a.tl.Update(a.poller.Poll(), dt)
	return nil
}

// Draw 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.painter.Begin(screen)
	a.tl.Draw(a.painter)
}

// DrawFinalScreen 全屏时使用黑色 letterbox 和线性滤波
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 逻辑尺寸跟随窗口，时间轴按新尺寸重新布局
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != a.width || outsideHeight != a.height {
		a.width, a.height = outsideWidth, outsideHeight
		a.tl.Resize(float64(outsideWidth), float64(outsideHeight))
	}
	return outsideWidth, outsideHeight
}

// Save 保存项目和偏好设置
func (a *App) Save() error {
	if err := a.store.Save(a.project, a.eng.Project()); err != nil {
		return err
	}
	a.prefs.AddRecentProject(a.project)
	a.prefs.Capture(a.tl)
	if err := a.prefs.Save(); err != nil {
		return fmt.Errorf("preferences save failed: %w", err)
	}
	return nil
}

// Close 保存并释放音频；可重复调用
func (a *App) Close() {
	if a.closed {
		return
	}
	a.closed = true
	if err := a.Save(); err != nil {
		log.Error().Str("component", "App").Err(err).Msg("save on close failed")
	}
	a.cancel()
	a.sink.Close()
}

// Timeline 返回时间轴控件
func (a *App) Timeline() *timeline.Timeline {
	return a.tl
}

// WindowSize 返回配置的初始窗口尺寸
func (a *App) WindowSize() (int, int) {
	return a.cfg.Window.Width, a.cfg.Window.Height
}

// WindowTitle 返回窗口标题
func (a *App) WindowTitle() string {
	return a.cfg.Window.Title + " - " + a.project
}
