// Package snap 吸附引擎：把光标横坐标吸附到最近的帧、关键帧或标记位置
//
// 所有坐标均为帧网格的内容坐标（frame * framePixels），与滚动无关。
package snap

import (
	"math"
	"sort"
)

// Config 吸附配置
type Config struct {
	Enabled     bool    `yaml:"enabled"`
	ToFrames    bool    `yaml:"snap_to_frames"`
	ToKeyframes bool    `yaml:"snap_to_keyframes"`
	ToMarkers   bool    `yaml:"snap_to_markers"`
	Threshold   float64 `yaml:"threshold_pixels"`
	ShowGuides  bool    `yaml:"show_guides"`
}

// DefaultConfig 全部类别开启，阈值 8 像素，显示参考线
func DefaultConfig() Config {
	return Config{
		Enabled:     true,
		ToFrames:    true,
		ToKeyframes: true,
		ToMarkers:   true,
		Threshold:   8,
		ShowGuides:  true,
	}
}

// Active 报告配置是否可能产生吸附；阈值为 0 时总是关闭
func (c Config) Active() bool {
	return c.Enabled && c.Threshold > 0 && (c.ToFrames || c.ToKeyframes || c.ToMarkers)
}

// Kind 吸附目标类别
type Kind int

const (
	KindNone Kind = iota
	KindFrame
	KindKeyframe
	KindMarker
)

// String 返回类别名称
func (k Kind) String() string {
	switch k {
	case KindFrame:
		return "Frame"
	case KindKeyframe:
		return "Keyframe"
	case KindMarker:
		return "Marker"
	default:
		return "None"
	}
}

// Targets 吸附候选来源
type Targets struct {
	FramePixels float64  // 当前缩放下每帧宽度
	TotalFrames uint32   // 帧网格候选限制在 [0, TotalFrames]
	Keyframes   []uint32 // 关键帧所在帧
	Markers     []uint32 // 标签与注释所在帧
}

// Result 吸附结果
type Result struct {
	X       float64   // 吸附后的坐标；未吸附时等于输入
	Snapped bool      // 是否发生吸附
	Kind    Kind      // 胜出候选的类别（并列时取优先级最高者：关键帧 > 标记 > 帧）
	Guides  []float64 // 与最小距离并列的候选位置，升序去重
}

type candidate struct {
	x    float64
	kind Kind
}

// Snap 对内容坐标 x 做吸附
//
// bypass 为 true（通常是按住 Shift）时跳过吸附。选择距离最小的候选，
// 最小距离超过阈值时返回原坐标。纯函数，不修改任何状态。
func Snap(x float64, targets Targets, cfg Config, bypass bool) Result {
	unchanged := Result{X: x}
	if bypass || !cfg.Active() || targets.FramePixels <= 0 {
		return unchanged
	}

	cands := collect(x, targets, cfg)
	if len(cands) == 0 {
		return unchanged
	}

	best := math.Inf(1)
	for _, c := range cands {
		if d := math.Abs(x - c.x); d < best {
			best = d
		}
	}
	if best > cfg.Threshold {
		return unchanged
	}

	const tie = 1e-9
	res := Result{Snapped: true}
	seen := make(map[float64]bool)
	for _, c := range cands {
		if math.Abs(math.Abs(x-c.x)-best) > tie {
			continue
		}
		if priority(c.kind) > priority(res.Kind) {
			res.X, res.Kind = c.x, c.kind
		}
		if cfg.ShowGuides && !seen[c.x] {
			seen[c.x] = true
			res.Guides = append(res.Guides, c.x)
		}
	}
	sort.Float64s(res.Guides)
	return res
}

func priority(k Kind) int {
	switch k {
	case KindKeyframe:
		return 3
	case KindMarker:
		return 2
	case KindFrame:
		return 1
	default:
		return 0
	}
}

// collect 收集已启用类别的候选位置
//
// 帧网格是无限序列，只取 x 两侧最近的两个网格位置。
func collect(x float64, t Targets, cfg Config) []candidate {
	var out []candidate
	if cfg.ToFrames {
		lo := math.Floor(x / t.FramePixels)
		for _, f := range []float64{lo, lo + 1} {
			if f < 0 || f > float64(t.TotalFrames) {
				continue
			}
			out = append(out, candidate{x: f * t.FramePixels, kind: KindFrame})
		}
	}
	if cfg.ToKeyframes {
		for _, f := range t.Keyframes {
			out = append(out, candidate{x: float64(f) * t.FramePixels, kind: KindKeyframe})
		}
	}
	if cfg.ToMarkers {
		for _, f := range t.Markers {
			out = append(out, candidate{x: float64(f) * t.FramePixels, kind: KindMarker})
		}
	}
	return out
}
