package audio

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/rs/zerolog/log"

	"github.com/decker502/timeline/pkg/ids"
	"github.com/decker502/timeline/pkg/playback"
)

// Sink 基于 ebiten audio.Context 的播放端
type Sink struct {
	ctx *audio.Context

	mu      sync.Mutex
	pcm     map[ids.AudioID]*PCM
	players map[ids.AudioID]*audio.Player
}

var _ playback.AudioSink = (*Sink)(nil)

// NewSink 创建播放端
func NewSink(ctx *audio.Context) *Sink {
	return &Sink{
		ctx:     ctx,
		pcm:     make(map[ids.AudioID]*PCM),
		players: make(map[ids.AudioID]*audio.Player),
	}
}

// Register 保存解码后的 PCM（可在任意 goroutine 调用）
func (s *Sink) Register(id ids.AudioID, pcm *PCM) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pcm[id] = pcm
}

// Play 从 offset 秒处开始播放，已在播放时重新定位
func (s *Sink) Play(id ids.AudioID, offset, volume float32, loop bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pcm, ok := s.pcm[id]
	if !ok {
		return fmt.Errorf("audio %s not loaded", id)
	}
	s.closeLocked(id)

	// 1. 准备数据流（必要时重采样到设备采样率）
	var stream io.ReadSeeker = bytes.NewReader(pcm.Data)
	size := int64(len(pcm.Data))
	if rate := s.ctx.SampleRate(); rate != pcm.SampleRate {
		stream = audio.Resample(stream, size, pcm.SampleRate, rate)
		size = size * int64(rate) / int64(pcm.SampleRate)
		size -= size % bytesPerFrame
	}
	if loop {
		stream = audio.NewInfiniteLoop(stream, size)
	}

	// 2. 创建播放器
	player, err := s.ctx.NewPlayer(stream)
	if err != nil {
		return fmt.Errorf("failed to create audio player: %w", err)
	}
	if offset > 0 {
		if err := player.SetPosition(time.Duration(float64(offset) * float64(time.Second))); err != nil {
			_ = player.Close()
			return fmt.Errorf("failed to seek audio %s: %w", id, err)
		}
	}
	player.SetVolume(float64(volume))
	player.Play()
	s.players[id] = player

	log.Debug().Str("component", "AudioSink").Str("audio", string(id)).Float32("offset", offset).Bool("loop", loop).Msg("audio playing")
	return nil
}

// Stop 停止并释放播放器
func (s *Sink) Stop(id ids.AudioID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeLocked(id)
}

// IsPlaying 查询播放状态
func (s *Sink) IsPlaying(id ids.AudioID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	return ok && p.IsPlaying()
}

// SetVolume 调整正在播放的音量
func (s *Sink) SetVolume(id ids.AudioID, volume float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.players[id]; ok {
		p.SetVolume(float64(volume))
	}
}

// Close 停止全部播放
func (s *Sink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.players {
		_ = s.closeLocked(id)
	}
}

func (s *Sink) closeLocked(id ids.AudioID) error {
	p, ok := s.players[id]
	if !ok {
		return nil
	}
	delete(s.players, id)
	p.Pause()
	if err := p.Close(); err != nil {
		return fmt.Errorf("failed to close audio player %s: %w", id, err)
	}
	return nil
}
