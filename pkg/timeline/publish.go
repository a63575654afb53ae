package timeline

import (
	"github.com/rs/zerolog/log"

	"github.com/decker502/timeline/pkg/commands"
	"github.com/decker502/timeline/pkg/engine"
	"github.com/decker502/timeline/pkg/ids"
	"github.com/decker502/timeline/pkg/model"
)

// PublishWaveform 投递波形快照，可在任意 goroutine 调用
//
// 快照在下一次 Update 开始时整体替换同一音频的旧波形；调用方之后不得再修改 w。
func (t *Timeline) PublishWaveform(w *model.Waveform) {
	if w == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.waves[w.Audio] = w
}

// PublishAudioSource 投递解码后的音频元数据，可在任意 goroutine 调用
//
// 下一次 Update 时写入所有引用该音频的轨道；该写入不进入撤销栈。
func (t *Timeline) PublishAudioSource(src model.AudioSource) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sources[src.ID] = src
}

// Submit 投递命令，可在任意 goroutine 调用；命令在下一次 Update 中按投递顺序执行
func (t *Timeline) Submit(c commands.Command) {
	if c == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.queue = append(t.queue, c)
}

// Waveform 返回已换入的波形
func (t *Timeline) Waveform(id ids.AudioID) (*model.Waveform, bool) {
	w, ok := t.waveforms[id]
	return w, ok
}

func (t *Timeline) drain() []commands.Command {
	t.mu.Lock()
	defer t.mu.Unlock()
	q := t.queue
	t.queue = nil
	return q
}

// applyPublished 在帧边界换入快照
func (t *Timeline) applyPublished() bool {
	t.mu.Lock()
	waves, sources := t.waves, t.sources
	if len(waves) == 0 && len(sources) == 0 {
		t.mu.Unlock()
		return false
	}
	t.waves = make(map[ids.AudioID]*model.Waveform)
	t.sources = make(map[ids.AudioID]model.AudioSource)
	t.mu.Unlock()

	for id, w := range waves {
		t.waveforms[id] = w
	}
	if len(sources) == 0 {
		return true
	}
	if u, ok := t.eng.(engine.AudioSourceUpdater); ok {
		for _, src := range sources {
			if n := u.UpdateAudioSource(src); n == 0 {
				log.Debug().Str("component", "Timeline").Str("audio", string(src.ID)).Msg("no track references audio source")
			}
		}
		return true
	}

	// 引擎不支持直接换入时退回到普通编辑（锁定图层会拒绝）
	for _, a := range t.eng.AudioLayers() {
		src, ok := sources[a.Track.Source.ID]
		if !ok {
			continue
		}
		err := t.eng.EditAudio(a.Layer, func(tr *model.AudioTrack) error {
			tr.Source = src
			return nil
		})
		if err != nil {
			log.Warn().Str("component", "Timeline").
				Str("layer", string(a.Layer)).
				Str("audio", string(src.ID)).
				Err(err).
				Msg("audio metadata not applied")
		}
	}
	return true
}
