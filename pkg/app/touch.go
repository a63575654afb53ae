package app

import "github.com/decker502/timeline/pkg/config"

// 触屏下的最小轨道高度和帧宽
const (
	touchTrackHeight = 44
	touchFrameWidth  = 16
)

// touchLayout 放大行高和帧宽，便于手指点选
func touchLayout(l config.LayoutConfig) config.LayoutConfig {
	l.TrackHeight = max(l.TrackHeight, touchTrackHeight)
	l.FrameWidth = max(l.FrameWidth, touchFrameWidth)
	l.RulerHeight = max(l.RulerHeight, touchTrackHeight)
	return l
}
