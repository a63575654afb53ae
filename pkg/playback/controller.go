// Package playback 播放控制器
//
// 控制器不持有线程：宿主每帧调用 Tick 传入真实经过的时间，控制器按 FPS
// 累积并逐帧推进播放头，在循环区间（或整条时间轴）末尾回绕。
package playback

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/decker502/timeline/pkg/engine"
	"github.com/decker502/timeline/pkg/model"
)

// Engine 控制器驱动的引擎能力
type Engine interface {
	engine.Transport
	AudioLayers() []engine.AudioLayerInfo
}

// Hooks 播放事件回调，均可为 nil
type Hooks struct {
	// FrameChanged 播放头移动后调用一次（一次 Tick 推进多帧时只调用一次）
	FrameChanged func(frame uint32)
	// PlayStateChanged 播放/暂停状态改变
	PlayStateChanged func(playing bool)
	// Audio 音频输出；nil 时不做音频同步
	Audio AudioSink
}

// LoopRegion 循环区间 [In, Out]（含两端）
type LoopRegion struct {
	In, Out uint32
}

// Len 区间包含的帧数
func (r LoopRegion) Len() uint32 { return r.Out - r.In + 1 }

// Contains 帧是否在区间内
func (r LoopRegion) Contains(frame uint32) bool { return frame >= r.In && frame <= r.Out }

// Controller 播放控制器
type Controller struct {
	eng   Engine
	hooks Hooks

	acc     float64
	loop    *LoopRegion
	looping bool
	audio   audioSync
}

// New 创建控制器；默认开启循环播放
func New(e Engine, h Hooks) *Controller {
	return &Controller{eng: e, hooks: h, looping: true}
}

// IsPlaying 是否正在播放
func (c *Controller) IsPlaying() bool { return c.eng.IsPlaying() }

// CurrentFrame 当前帧
func (c *Controller) CurrentFrame() uint32 { return c.eng.CurrentFrame() }

// Accumulator 尚未推进的帧小数部分
func (c *Controller) Accumulator() float64 { return c.acc }

// Play 开始播放
func (c *Controller) Play() {
	if c.eng.IsPlaying() {
		return
	}
	if r := c.loop; r != nil && !r.Contains(c.eng.CurrentFrame()) {
		c.seek(r.In)
	}
	c.eng.Play()
	log.Debug().Str("component", "Playback").Uint32("frame", c.eng.CurrentFrame()).Msg("play")
	if c.hooks.PlayStateChanged != nil {
		c.hooks.PlayStateChanged(true)
	}
	c.syncAudio(c.eng.CurrentFrame(), true)
}

// Pause 暂停播放，累积时间清零
func (c *Controller) Pause() {
	c.acc = 0
	if !c.eng.IsPlaying() {
		return
	}
	c.eng.Pause()
	c.stopStreams()
	log.Debug().Str("component", "Playback").Uint32("frame", c.eng.CurrentFrame()).Msg("pause")
	if c.hooks.PlayStateChanged != nil {
		c.hooks.PlayStateChanged(false)
	}
}

// Toggle 切换播放/暂停
func (c *Controller) Toggle() {
	if c.eng.IsPlaying() {
		c.Pause()
	} else {
		c.Play()
	}
}

// Seek 跳转到 frame（截断到有效范围），清空累积时间
func (c *Controller) Seek(frame uint32) error {
	total := c.eng.TotalFrames()
	if total == 0 {
		return model.ErrNotInitialized
	}
	if frame >= total {
		frame = total - 1
	}
	c.acc = 0
	if err := c.seek(frame); err != nil {
		return err
	}
	if c.eng.IsPlaying() {
		c.syncAudio(frame, true)
	}
	return nil
}

func (c *Controller) seek(frame uint32) error {
	prev := c.eng.CurrentFrame()
	if err := c.eng.Seek(frame); err != nil {
		return fmt.Errorf("seek %d: %w", frame, err)
	}
	if frame != prev && c.hooks.FrameChanged != nil {
		c.hooks.FrameChanged(frame)
	}
	return nil
}

// Step 相对移动 delta 帧（截断，不回绕）
func (c *Controller) Step(delta int) error {
	f := int(c.eng.CurrentFrame()) + delta
	if f < 0 {
		f = 0
	}
	return c.Seek(uint32(f))
}

// First 跳到第一帧
func (c *Controller) First() error { return c.Seek(0) }

// Last 跳到最后一帧
func (c *Controller) Last() error {
	total := c.eng.TotalFrames()
	if total == 0 {
		return model.ErrNotInitialized
	}
	return c.Seek(total - 1)
}

// SetLooping 设置到达末尾时是否回绕；关闭时播放到末尾后暂停
func (c *Controller) SetLooping(on bool) { c.looping = on }

// Looping 是否回绕
func (c *Controller) Looping() bool { return c.looping }

// SetLoopRegion 设置循环区间
func (c *Controller) SetLoopRegion(in, out uint32) error {
	if in > out {
		in, out = out, in
	}
	if total := c.eng.TotalFrames(); out >= total {
		return &model.FrameOutOfRangeError{Given: out, Max: total - 1}
	}
	c.loop = &LoopRegion{In: in, Out: out}
	return nil
}

// ClearLoopRegion 取消循环区间
func (c *Controller) ClearLoopRegion() { c.loop = nil }

// LoopRegion 返回当前循环区间
func (c *Controller) LoopRegion() (LoopRegion, bool) {
	if c.loop == nil {
		return LoopRegion{}, false
	}
	return *c.loop, true
}

// bounds 当前播放范围 [first, last]
func (c *Controller) bounds() (uint32, uint32) {
	if r := c.loop; r != nil {
		return r.In, r.Out
	}
	return 0, c.eng.TotalFrames() - 1
}

// Tick 按真实经过时间推进播放头
//
// 参数：
//   - dt: 自上次调用以来经过的时间
//
// 返回：
//   - int: 本次推进的帧数
func (c *Controller) Tick(dt time.Duration) int {
	if !c.eng.IsPlaying() || dt <= 0 || c.eng.TotalFrames() == 0 {
		return 0
	}
	c.acc += dt.Seconds() * float64(c.eng.FPS())
	first, last := c.bounds()
	frame := c.eng.CurrentFrame()
	steps := 0
	for c.acc >= 1 {
		c.acc--
		next, wrapped := frame+1, false
		if frame >= last || frame < first {
			if !c.looping && frame >= last {
				c.acc = 0
				break
			}
			next, wrapped = first, true
		}
		frame = next
		steps++
		c.syncAudio(frame, wrapped)
	}
	if steps == 0 {
		if !c.looping && frame >= last {
			c.Pause()
		}
		return 0
	}
	if err := c.seek(frame); err != nil {
		log.Error().Str("component", "Playback").Err(err).Msg("advance failed")
		c.Pause()
		return 0
	}
	if !c.looping && frame >= last {
		c.Pause()
	}
	return steps
}
