package model

import (
	"fmt"
	"math"
	"path/filepath"
	"sort"

	"github.com/decker502/timeline/pkg/ids"
)

// SyncMode 音频与时间轴的同步方式
type SyncMode int

const (
	SyncEvent  SyncMode = iota // 到达起始帧时播放一次
	SyncStart                  // 未在播放时开始播放
	SyncStop                   // 停止播放
	SyncStream                 // 音频位置跟随播放头
)

var syncModeNames = map[SyncMode]string{
	SyncEvent:  "event",
	SyncStart:  "start",
	SyncStop:   "stop",
	SyncStream: "stream",
}

// String 返回序列化名称
func (m SyncMode) String() string {
	if n, ok := syncModeNames[m]; ok {
		return n
	}
	return fmt.Sprintf("SyncMode(%d)", int(m))
}

// ParseSyncMode 解析 String 生成的名称
func ParseSyncMode(s string) (SyncMode, error) {
	for m, n := range syncModeNames {
		if n == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown sync mode %q", s)
}

// AudioSource 音频源元数据（由宿主解码后提供）
type AudioSource struct {
	ID         ids.AudioID
	Path       string
	Duration   float32 // 秒
	SampleRate uint32
	Channels   uint32
	Loaded     bool
}

// NewAudioSource 创建未加载的音频源，默认 44100Hz 立体声
func NewAudioSource(path string) AudioSource {
	return AudioSource{
		ID:         ids.NewAudioID(),
		Path:       path,
		SampleRate: 44100,
		Channels:   2,
	}
}

// DisplayName 返回文件名
func (s AudioSource) DisplayName() string {
	if s.Path == "" {
		return "Unknown"
	}
	return filepath.Base(s.Path)
}

// EnvelopePoint 音量包络控制点
type EnvelopePoint struct {
	Frame  uint32
	Volume float32
}

// VolumeEnvelope 分段线性的音量包络
//
// 不变量：至少一个点；按帧严格递增；音量位于 [0,1]。
type VolumeEnvelope struct {
	points []EnvelopePoint
}

// NewVolumeEnvelope 创建默认包络 [(0, 1.0)]
func NewVolumeEnvelope() VolumeEnvelope {
	return VolumeEnvelope{points: []EnvelopePoint{{Frame: 0, Volume: 1}}}
}

// EnvelopeFromPoints 由任意点集构造包络：排序、按帧去重（后者覆盖）、截断音量
func EnvelopeFromPoints(points []EnvelopePoint) VolumeEnvelope {
	env := VolumeEnvelope{}
	for _, p := range points {
		env.SetPoint(p.Frame, p.Volume)
	}
	if len(env.points) == 0 {
		return NewVolumeEnvelope()
	}
	return env
}

// Points 返回控制点副本
func (e VolumeEnvelope) Points() []EnvelopePoint {
	return append([]EnvelopePoint(nil), e.points...)
}

// SetPoint 添加或更新控制点，音量截断到 [0,1]
func (e *VolumeEnvelope) SetPoint(frame uint32, volume float32) {
	volume = clampUnit(volume)
	i := sort.Search(len(e.points), func(k int) bool { return e.points[k].Frame >= frame })
	if i < len(e.points) && e.points[i].Frame == frame {
		e.points[i].Volume = volume
		return
	}
	e.points = append(e.points, EnvelopePoint{})
	copy(e.points[i+1:], e.points[i:])
	e.points[i] = EnvelopePoint{Frame: frame, Volume: volume}
}

// RemovePoint 删除控制点；删空时恢复默认点 (0, 1.0)
func (e *VolumeEnvelope) RemovePoint(frame uint32) {
	kept := e.points[:0]
	for _, p := range e.points {
		if p.Frame != frame {
			kept = append(kept, p)
		}
	}
	e.points = kept
	if len(e.points) == 0 {
		e.points = []EnvelopePoint{{Frame: 0, Volume: 1}}
	}
}

// VolumeAt 计算任意帧的音量：两端外保持端点值，中间线性插值
func (e VolumeEnvelope) VolumeAt(frame uint32) float32 {
	if len(e.points) == 0 {
		return 1
	}
	i := sort.Search(len(e.points), func(k int) bool { return e.points[k].Frame >= frame })
	switch {
	case i < len(e.points) && e.points[i].Frame == frame:
		return e.points[i].Volume
	case i == 0:
		return e.points[0].Volume
	case i >= len(e.points):
		return e.points[len(e.points)-1].Volume
	}
	a, b := e.points[i-1], e.points[i]
	t := float32(frame-a.Frame) / float32(b.Frame-a.Frame)
	return a.Volume + (b.Volume-a.Volume)*t
}

// Validate 检查包络不变量
func (e VolumeEnvelope) Validate() error {
	if len(e.points) == 0 {
		return fmt.Errorf("volume envelope is empty")
	}
	for i, p := range e.points {
		if !(p.Volume >= 0 && p.Volume <= 1) {
			return fmt.Errorf("envelope point %d: volume %v outside [0,1]", i, p.Volume)
		}
		if i > 0 && p.Frame <= e.points[i-1].Frame {
			return fmt.Errorf("envelope point %d: frame %d not after %d", i, p.Frame, e.points[i-1].Frame)
		}
	}
	return nil
}

// AudioTrack 音频图层的附加数据
type AudioTrack struct {
	Source     AudioSource
	Sync       SyncMode
	Volume     float32
	StartFrame uint32
	TrimStart  float32 // 秒
	TrimEnd    float32 // 秒
	Loop       bool
	Envelope   VolumeEnvelope
}

// NewAudioTrack 创建从 startFrame 开始的音频轨道
func NewAudioTrack(source AudioSource, startFrame uint32) *AudioTrack {
	return &AudioTrack{
		Source:     source,
		Sync:       SyncEvent,
		Volume:     1,
		StartFrame: startFrame,
		Envelope:   NewVolumeEnvelope(),
	}
}

// Clone 深拷贝
func (a *AudioTrack) Clone() *AudioTrack {
	out := *a
	out.Envelope = VolumeEnvelope{points: a.Envelope.Points()}
	return &out
}

// EffectiveDuration 裁剪后的时长：max(0, duration - trimStart - trimEnd)
func (a *AudioTrack) EffectiveDuration() float32 {
	d := a.Source.Duration - a.TrimStart - a.TrimEnd
	if d < 0 {
		return 0
	}
	return d
}

// FrameRange 返回音频覆盖的帧区间 [start, end)
func (a *AudioTrack) FrameRange(fps float32) (uint32, uint32) {
	n := uint32(a.EffectiveDuration() * fps)
	return a.StartFrame, a.StartFrame + n
}

// AudioTimeAt 返回帧对应的音频时间（秒）
//
// 起始帧之前或超出裁剪后的结尾时 ok 为 false。
func (a *AudioTrack) AudioTimeAt(frame uint32, fps float32) (float32, bool) {
	if frame < a.StartFrame || fps <= 0 {
		return 0, false
	}
	t := a.TrimStart + float32(frame-a.StartFrame)/fps
	if t > a.Source.Duration-a.TrimEnd {
		return 0, false
	}
	return t, true
}

// EffectiveVolume 音量与包络在该帧的乘积
func (a *AudioTrack) EffectiveVolume(frame uint32) float32 {
	return a.Volume * a.Envelope.VolumeAt(frame)
}

// SetVolume 设置音量，截断到 [0,1]
func (a *AudioTrack) SetVolume(v float32) { a.Volume = clampUnit(v) }

// SetTrim 设置首尾裁剪（秒），负数截断为 0
func (a *AudioTrack) SetTrim(start, end float32) {
	if start < 0 {
		start = 0
	}
	if end < 0 {
		end = 0
	}
	a.TrimStart, a.TrimEnd = start, end
}

// Waveform 波形峰值快照（每帧一个 (min, max)）
type Waveform struct {
	Audio    ids.AudioID
	Peaks    [][2]float32
	FPS      float32
	Complete bool
}

// PeaksForRange 返回 [start, end) 帧范围的峰值
func (w *Waveform) PeaksForRange(start, end uint32) [][2]float32 {
	if w == nil {
		return nil
	}
	s, e := int(start), int(end)
	if e > len(w.Peaks) {
		e = len(w.Peaks)
	}
	if s >= len(w.Peaks) || s >= e {
		return nil
	}
	return w.Peaks[s:e]
}

// clampUnit 把 v 截断到 [0,1]；NaN 视为 0
func clampUnit(v float32) float32 {
	if v < 0 || math.IsNaN(float64(v)) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
