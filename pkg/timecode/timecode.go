// Package timecode 实现基于帧的时间系统
//
// 时间轴以整数帧为最小单位。FrameTime 在帧号、秒和 HH:MM:SS:FF
// 时间码之间转换；所有运算使用 float32，与播放引擎保持一致。
package timecode

import (
	"fmt"
	"math"
)

// FrameTime 基于帧的时间表示
type FrameTime struct {
	Frame uint32  // 帧号（从 0 开始）
	FPS   float32 // 每秒帧数
}

// New 创建 FrameTime
func New(frame uint32, fps float32) FrameTime {
	return FrameTime{Frame: frame, FPS: fps}
}

// ToSeconds 转换为秒：frame / fps
func (ft FrameTime) ToSeconds() float32 {
	if ft.FPS <= 0 {
		return 0
	}
	return float32(ft.Frame) / ft.FPS
}

// FromSeconds 由秒数构造 FrameTime，帧号 = round(seconds * fps)
// 负数结果截断为 0
func FromSeconds(seconds, fps float32) FrameTime {
	v := math.Round(float64(seconds * fps))
	if v < 0 {
		v = 0
	}
	return FrameTime{Frame: uint32(v), FPS: fps}
}

// FramesPerTimecodeSecond 返回时间码帧字段的模数：round-half-even(fps)
func FramesPerTimecodeSecond(fps float32) uint32 {
	n := math.RoundToEven(float64(fps))
	if n < 1 {
		return 1
	}
	return uint32(n)
}

// Timecode 格式化为 HH:MM:SS:FF
//
// FF = frame mod round(fps)，round 采用四舍六入五成双。
func (ft FrameTime) Timecode() string {
	total := ft.ToSeconds()
	hours := uint32(math.Floor(float64(total / 3600)))
	minutes := uint32(math.Floor(math.Mod(float64(total), 3600) / 60))
	seconds := uint32(math.Floor(math.Mod(float64(total), 60)))
	frames := ft.Frame % FramesPerTimecodeSecond(ft.FPS)
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hours, minutes, seconds, frames)
}

// SecondsString 格式化为 "1.500s"
func (ft FrameTime) SecondsString() string {
	return fmt.Sprintf("%.3fs", ft.ToSeconds())
}

// FrameString 格式化为 "Frame 12"
func (ft FrameTime) FrameString() string {
	return fmt.Sprintf("Frame %d", ft.Frame)
}

// DisplayMode 控制栏的时间显示方式
type DisplayMode int

const (
	DisplayFrames DisplayMode = iota
	DisplaySeconds
	DisplayTimecode
)

// Format 按显示方式格式化
func (m DisplayMode) Format(ft FrameTime) string {
	switch m {
	case DisplaySeconds:
		return ft.SecondsString()
	case DisplayTimecode:
		return ft.Timecode()
	default:
		return ft.FrameString()
	}
}

// Next 循环切换到下一种显示方式
func (m DisplayMode) Next() DisplayMode {
	return (m + 1) % 3
}

// Short 控制栏按钮上的简写
func (m DisplayMode) Short() string {
	switch m {
	case DisplaySeconds:
		return "S"
	case DisplayTimecode:
		return "TC"
	default:
		return "F"
	}
}
