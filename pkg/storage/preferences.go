package storage

import (
	"fmt"

	"github.com/quasilyte/gdata/v2"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/decker502/timeline/pkg/interaction"
	"github.com/decker502/timeline/pkg/layout"
	"github.com/decker502/timeline/pkg/snap"
	"github.com/decker502/timeline/pkg/timecode"
	"github.com/decker502/timeline/pkg/timeline"
)

// MaxRecentProjects 最近项目列表的容量
const MaxRecentProjects = 10

// Preferences 跨会话保留的编辑器偏好
type Preferences struct {
	Snap    snap.Config           `yaml:"snap"`
	Onion   interaction.OnionSkin `yaml:"onion_skin"`
	Display timecode.DisplayMode  `yaml:"display_mode"`
	Zoom    float64               `yaml:"zoom"`
	Looping bool                  `yaml:"looping"`

	// RecentProjects 最近打开的项目，最新的在前
	RecentProjects []string `yaml:"recent_projects,omitempty"`
}

// DefaultPreferences 返回默认偏好
func DefaultPreferences() *Preferences {
	return &Preferences{
		Snap:    snap.DefaultConfig(),
		Onion:   interaction.DefaultOnionSkin(),
		Display: timecode.DisplayFrames,
		Zoom:    1,
		Looping: true,
	}
}

// 存储路径常量
const (
	preferencesObject   = "preferences"
	preferencesProperty = "editor"
)

// PreferencesManager 偏好管理器
type PreferencesManager struct {
	gdataManager *gdata.Manager // 可为 nil（降级模式）
	prefs        *Preferences
}

// NewPreferencesManager 创建偏好管理器并尝试加载已保存的偏好
//
// 加载失败不是致命错误：记录警告并使用默认偏好。
func NewPreferencesManager(gdataManager *gdata.Manager) *PreferencesManager {
	pm := &PreferencesManager{
		gdataManager: gdataManager,
		prefs:        DefaultPreferences(),
	}
	if err := pm.Load(); err != nil {
		log.Warn().Str("component", "Preferences").Err(err).Msg("failed to load preferences, using defaults")
	}
	return pm
}

// Load 从 gdata 加载偏好；不存在时使用默认值
func (pm *PreferencesManager) Load() error {
	if pm.gdataManager == nil {
		pm.prefs = DefaultPreferences()
		return nil
	}
	if !pm.gdataManager.ObjectPropExists(preferencesObject, preferencesProperty) {
		pm.prefs = DefaultPreferences()
		return nil
	}

	data, err := pm.gdataManager.LoadObjectProp(preferencesObject, preferencesProperty)
	if err != nil {
		pm.prefs = DefaultPreferences()
		return fmt.Errorf("failed to load preferences: %w", err)
	}

	// 文件中缺失的字段保留默认值
	loaded := DefaultPreferences()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		pm.prefs = DefaultPreferences()
		return fmt.Errorf("failed to unmarshal preferences: %w", err)
	}
	if err := loaded.validate(); err != nil {
		pm.prefs = DefaultPreferences()
		return err
	}

	pm.prefs = loaded
	log.Debug().Str("component", "Preferences").Msg("preferences loaded")
	return nil
}

// Save 保存偏好；降级模式下不报错
func (pm *PreferencesManager) Save() error {
	if pm.gdataManager == nil {
		return nil
	}
	data, err := yaml.Marshal(pm.prefs)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}
	if err := pm.gdataManager.SaveObjectProp(preferencesObject, preferencesProperty, data); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	log.Debug().Str("component", "Preferences").Msg("preferences saved")
	return nil
}

// Get 返回当前偏好
func (pm *PreferencesManager) Get() *Preferences {
	return pm.prefs
}

// AddRecentProject 把项目移到最近列表最前面，超出容量的旧项被丢弃
//
// 注意：仅修改内存中的偏好，需调用 Save() 持久化
func (pm *PreferencesManager) AddRecentProject(name string) {
	list := []string{name}
	for _, n := range pm.prefs.RecentProjects {
		if n != name && len(list) < MaxRecentProjects {
			list = append(list, n)
		}
	}
	pm.prefs.RecentProjects = list
}

// Apply 把偏好应用到时间轴控件
func (pm *PreferencesManager) Apply(t *timeline.Timeline) {
	p := pm.prefs
	t.Machine().SetSnapConfig(p.Snap)
	st := t.State()
	st.Onion = p.Onion
	st.Display = p.Display
	t.Viewport().SetZoom(p.Zoom)
	t.Playback().SetLooping(p.Looping)
}

// Capture 从时间轴控件读取当前偏好
func (pm *PreferencesManager) Capture(t *timeline.Timeline) {
	p := pm.prefs
	p.Snap = t.Machine().SnapConfig()
	st := t.State()
	p.Onion = st.Onion
	p.Display = st.Display
	p.Zoom = t.Viewport().Zoom()
	p.Looping = t.Playback().Looping()
}

func (p *Preferences) validate() error {
	if p.Zoom < layout.MinZoom || p.Zoom > layout.MaxZoom {
		return fmt.Errorf("preferences zoom %v outside [%v, %v]", p.Zoom, layout.MinZoom, layout.MaxZoom)
	}
	if p.Display < timecode.DisplayFrames || p.Display > timecode.DisplayTimecode {
		return fmt.Errorf("unknown display mode %d", int(p.Display))
	}
	if p.Snap.Threshold < 0 {
		return fmt.Errorf("negative snap threshold %v", p.Snap.Threshold)
	}
	return nil
}
