package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/decker502/timeline/pkg/i18n"
	"github.com/decker502/timeline/pkg/interaction"
	"github.com/decker502/timeline/pkg/layout"
	"github.com/decker502/timeline/pkg/model"
	"github.com/decker502/timeline/pkg/render"
	"github.com/decker502/timeline/pkg/snap"
	"github.com/decker502/timeline/pkg/timecode"
)

// Config 时间轴编辑器的顶层配置
type Config struct {
	// Window 宿主窗口
	Window WindowConfig `yaml:"window"`

	// Layout 视口固定尺寸
	Layout LayoutConfig `yaml:"layout"`

	// FPS 新项目的帧率预设
	FPS timecode.FPSPreset `yaml:"fps"`

	// FrameCount 新场景的帧数
	FrameCount uint32 `yaml:"frame_count"`

	// Zoom 初始缩放（必须在 [0.1, 5.0] 内）
	Zoom float64 `yaml:"zoom"`

	Snap    snap.Config           `yaml:"snap"`
	History HistoryConfig         `yaml:"history"`
	Onion   interaction.OnionSkin `yaml:"onion_skin"`
	Style   StyleConfig           `yaml:"style"`

	// Author 新注释的作者名
	Author string `yaml:"author,omitempty"`

	// Language 界面语言（en、es、ja、zh）
	Language string `yaml:"language"`
	// StringsFile 可选的 YAML 字符串表，覆盖 Language 中的条目
	StringsFile string `yaml:"strings_file,omitempty"`
}

// WindowConfig 宿主窗口尺寸与标题
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// LayoutConfig 视口尺寸参数
type LayoutConfig struct {
	LayerPanelWidth float64 `yaml:"layer_panel_width"`
	RulerHeight     float64 `yaml:"ruler_height"`
	ControlsHeight  float64 `yaml:"controls_height"`
	TrackHeight     float64 `yaml:"track_height"`
	FrameWidth      float64 `yaml:"frame_width"`
}

// Metrics 转换为视口参数
func (l LayoutConfig) Metrics() layout.Metrics {
	return layout.Metrics{
		LayerPanelWidth: l.LayerPanelWidth,
		RulerHeight:     l.RulerHeight,
		ControlsHeight:  l.ControlsHeight,
		TrackHeight:     l.TrackHeight,
		FrameWidth:      l.FrameWidth,
	}
}

// HistoryConfig 撤销栈
type HistoryConfig struct {
	Limit int `yaml:"limit"`
}

// StyleConfig 配色，颜色写作 "#rrggbb" 或 "#rrggbbaa"；留空的字段使用默认值
type StyleConfig struct {
	Background   string `yaml:"background,omitempty"`
	Grid         string `yaml:"grid,omitempty"`
	LayerBG      string `yaml:"layer_bg,omitempty"`
	Selected     string `yaml:"selected,omitempty"`
	FrameEmpty   string `yaml:"frame_empty,omitempty"`
	Keyframe     string `yaml:"keyframe,omitempty"`
	Tween        string `yaml:"tween,omitempty"`
	Playhead     string `yaml:"playhead,omitempty"`
	Border       string `yaml:"border,omitempty"`
	Text         string `yaml:"text,omitempty"`
	SnapGuide    string `yaml:"snap_guide,omitempty"`
	Onion        string `yaml:"onion,omitempty"`
	Label        string `yaml:"label,omitempty"`
	LoopRegion   string `yaml:"loop_region,omitempty"`
	Waveform     string `yaml:"waveform,omitempty"`
	Envelope     string `yaml:"envelope,omitempty"`
	MenuBG       string `yaml:"menu_bg,omitempty"`
	MenuHover    string `yaml:"menu_hover,omitempty"`
	TextDisabled string `yaml:"text_disabled,omitempty"`
}

// Resolve 解析为渲染配色
//
// 返回：
//   - render.Style: 未设置的字段取 render.DefaultStyle()
//   - error: 第一个无法解析的颜色
func (s StyleConfig) Resolve() (render.Style, error) {
	out := render.DefaultStyle()
	fields := []struct {
		name string
		hex  string
		dst  *color.RGBA
	}{
		{"background", s.Background, &out.Background},
		{"grid", s.Grid, &out.Grid},
		{"layer_bg", s.LayerBG, &out.LayerBG},
		{"selected", s.Selected, &out.Selected},
		{"frame_empty", s.FrameEmpty, &out.FrameEmpty},
		{"keyframe", s.Keyframe, &out.Keyframe},
		{"tween", s.Tween, &out.Tween},
		{"playhead", s.Playhead, &out.Playhead},
		{"border", s.Border, &out.Border},
		{"text", s.Text, &out.Text},
		{"snap_guide", s.SnapGuide, &out.SnapGuide},
		{"onion", s.Onion, &out.Onion},
		{"label", s.Label, &out.Label},
		{"loop_region", s.LoopRegion, &out.LoopRegion},
		{"waveform", s.Waveform, &out.Waveform},
		{"envelope", s.Envelope, &out.Envelope},
		{"menu_bg", s.MenuBG, &out.MenuBG},
		{"menu_hover", s.MenuHover, &out.MenuHover},
		{"text_disabled", s.TextDisabled, &out.TextDisabled},
	}
	for _, f := range fields {
		if f.hex == "" {
			continue
		}
		c, err := render.ParseHex(f.hex)
		if err != nil {
			return out, fmt.Errorf("style.%s: %w", f.name, err)
		}
		*f.dst = c
	}
	return out, nil
}

// Default 返回默认配置
func Default() *Config {
	m := layout.DefaultMetrics()
	return &Config{
		Window: WindowConfig{
			Width:  1280,
			Height: 480,
			Title:  "Timeline",
		},
		Layout: LayoutConfig{
			LayerPanelWidth: m.LayerPanelWidth,
			RulerHeight:     m.RulerHeight,
			ControlsHeight:  m.ControlsHeight,
			TrackHeight:     m.TrackHeight,
			FrameWidth:      m.FrameWidth,
		},
		FPS:        timecode.Film,
		FrameCount: model.DefaultFrameCount,
		Zoom:       1,
		Snap:       snap.DefaultConfig(),
		History:    HistoryConfig{Limit: 200},
		Onion:      interaction.DefaultOnionSkin(),
		Language:   i18n.DefaultLanguage,
	}
}

// Load 从 YAML 文件加载配置
//
// 文件中缺失的字段保留默认值；文件不存在时返回 Default()。
//
// 参数：
//   - path: 配置文件路径
//
// 返回：
//   - *Config: 解析并验证后的配置
//   - error: 读取、解析或验证错误
func Load(path string) (*Config, error) {
	cfg := Default()

	// 1. 读取文件
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	// 2. 解析 YAML（覆盖默认值）
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	// 3. 验证配置
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config %s: %w", path, err)
	}
	return cfg, nil
}

// Save 把配置写为 YAML
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// Validate 检查配置的取值范围
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	l := c.Layout
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"layer_panel_width", l.LayerPanelWidth},
		{"ruler_height", l.RulerHeight},
		{"controls_height", l.ControlsHeight},
		{"track_height", l.TrackHeight},
		{"frame_width", l.FrameWidth},
	} {
		if f.v <= 0 {
			return fmt.Errorf("layout.%s must be positive, got %v", f.name, f.v)
		}
	}
	if fps := c.FPS.FPS(); fps <= 0 {
		return fmt.Errorf("fps must be positive, got %v", fps)
	}
	if c.FrameCount == 0 {
		return fmt.Errorf("frame_count must be at least 1")
	}
	if c.Zoom < layout.MinZoom || c.Zoom > layout.MaxZoom {
		return fmt.Errorf("zoom %v outside [%v, %v]", c.Zoom, layout.MinZoom, layout.MaxZoom)
	}
	if c.Snap.Threshold < 0 {
		return fmt.Errorf("snap.threshold_pixels must not be negative, got %v", c.Snap.Threshold)
	}
	if c.History.Limit < 0 {
		return fmt.Errorf("history.limit must not be negative, got %d", c.History.Limit)
	}
	if c.Onion.Opacity < 0 || c.Onion.Opacity > 1 {
		return fmt.Errorf("onion_skin.opacity %v outside [0, 1]", c.Onion.Opacity)
	}
	if _, err := c.Style.Resolve(); err != nil {
		return err
	}
	if !i18n.Supported(c.Language) {
		return fmt.Errorf("language %q is not supported", c.Language)
	}
	return nil
}

// Strings 加载 Language 的字符串表并应用 StringsFile
func (c *Config) Strings() (*i18n.Strings, error) {
	s, err := i18n.New(c.Language)
	if err != nil {
		return nil, err
	}
	if c.StringsFile != "" {
		if err := s.LoadFile(c.StringsFile); err != nil {
			return nil, err
		}
	}
	return s, nil
}
