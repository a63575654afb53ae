package playback

import (
	"github.com/rs/zerolog/log"

	"github.com/decker502/timeline/pkg/engine"
	"github.com/decker502/timeline/pkg/ids"
	"github.com/decker502/timeline/pkg/model"
)

// AudioSink 宿主提供的音频输出
type AudioSink interface {
	// Play 从 offset 秒处开始播放（已在播放时重新定位）
	Play(id ids.AudioID, offset, volume float32, loop bool) error
	Stop(id ids.AudioID) error
	IsPlaying(id ids.AudioID) bool
	SetVolume(id ids.AudioID, volume float32)
}

// audioSync 流式音频的播放状态
type audioSync struct {
	streaming map[ids.AudioID]bool
}

// syncAudio 播放头到达 frame 时按各音频图层的同步方式驱动输出
//
// jump 表示播放头不连续（开始播放、跳转、回绕），流式音频需要重新定位。
// 隐藏的音频图层视为静音。
func (c *Controller) syncAudio(frame uint32, jump bool) {
	sink := c.hooks.Audio
	if sink == nil {
		return
	}
	if c.audio.streaming == nil {
		c.audio.streaming = make(map[ids.AudioID]bool)
	}
	fps := c.eng.FPS()
	for _, a := range c.eng.AudioLayers() {
		tr := a.Track
		id := tr.Source.ID
		if !a.Visible {
			if c.audio.streaming[id] {
				c.stopAudio(sink, id)
			}
			continue
		}
		vol := tr.EffectiveVolume(frame)
		switch tr.Sync {
		case model.SyncEvent:
			if frame == tr.StartFrame {
				c.playAudio(sink, id, tr.TrimStart, vol, tr.Loop)
			}
		case model.SyncStart:
			if frame == tr.StartFrame && !sink.IsPlaying(id) {
				c.playAudio(sink, id, tr.TrimStart, vol, tr.Loop)
			}
		case model.SyncStop:
			if frame == tr.StartFrame {
				c.stopAudio(sink, id)
			}
		case model.SyncStream:
			t, ok := tr.AudioTimeAt(frame, fps)
			switch {
			case !ok:
				if c.audio.streaming[id] {
					c.stopAudio(sink, id)
				}
			case jump || !c.audio.streaming[id] || !sink.IsPlaying(id):
				c.playAudio(sink, id, t, vol, false)
				c.audio.streaming[id] = true
			default:
				sink.SetVolume(id, vol)
			}
		}
	}
}

func (c *Controller) playAudio(sink AudioSink, id ids.AudioID, offset, vol float32, loop bool) {
	if err := sink.Play(id, offset, vol, loop); err != nil {
		log.Warn().Str("component", "Playback").Str("audio", string(id)).Err(err).Msg("audio play failed")
	}
}

func (c *Controller) stopAudio(sink AudioSink, id ids.AudioID) {
	delete(c.audio.streaming, id)
	if err := sink.Stop(id); err != nil {
		log.Warn().Str("component", "Playback").Str("audio", string(id)).Err(err).Msg("audio stop failed")
	}
}

// stopStreams 暂停时停止全部流式音频
func (c *Controller) stopStreams() {
	sink := c.hooks.Audio
	if sink == nil {
		return
	}
	for id := range c.audio.streaming {
		c.stopAudio(sink, id)
	}
}

// AudioLayersAt 返回在 frame 处可听见的音频图层（绘制与调试使用）
func AudioLayersAt(layers []engine.AudioLayerInfo, frame uint32, fps float32) []engine.AudioLayerInfo {
	var out []engine.AudioLayerInfo
	for _, a := range layers {
		if _, ok := a.Track.AudioTimeAt(frame, fps); ok && a.Visible {
			out = append(out, a)
		}
	}
	return out
}
