package audio

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/decker502/timeline/pkg/ids"
	"github.com/decker502/timeline/pkg/model"
)

// Publisher 接收解码结果的一方（通常是 *timeline.Timeline）
type Publisher interface {
	PublishAudioSource(src model.AudioSource)
	PublishWaveform(w *model.Waveform)
}

// Registrar 保存 PCM 以供播放
type Registrar interface {
	Register(id ids.AudioID, pcm *PCM)
}

// Loader 在后台解码音频文件并发布元数据和波形
type Loader struct {
	pub  Publisher
	sink Registrar
	fps  float32

	mu      sync.Mutex
	gen     uint64
	pending map[ids.AudioID]pendingLoad
}

type pendingLoad struct {
	gen    uint64
	cancel context.CancelFunc
}

// NewLoader 创建加载器
//
// 参数：
//   - pub: 结果接收方
//   - sink: 播放端，可为 nil
//   - fps: 波形峰值的帧率
func NewLoader(pub Publisher, sink Registrar, fps float32) *Loader {
	return &Loader{
		pub:     pub,
		sink:    sink,
		fps:     fps,
		pending: make(map[ids.AudioID]pendingLoad),
	}
}

// Load 同步加载一个音频源
//
// 返回：
//   - model.AudioSource: 填好采样率、声道和时长的元数据（Loaded=true）
//   - error: 读取或解码失败
func (l *Loader) Load(ctx context.Context, src model.AudioSource) (model.AudioSource, error) {
	// 1. 读取文件
	data, err := os.ReadFile(src.Path)
	if err != nil {
		return src, fmt.Errorf("failed to read audio file %s: %w", src.Path, err)
	}

	// 2. 解码
	pcm, err := Decode(src.Path, data)
	if err != nil {
		return src, err
	}
	if err := ctx.Err(); err != nil {
		return src, err
	}
	src.SampleRate = uint32(pcm.SampleRate)
	src.Channels = uint32(pcm.Channels)
	src.Duration = pcm.Duration()
	src.Loaded = true
	if l.sink != nil {
		l.sink.Register(src.ID, pcm)
	}
	l.pub.PublishAudioSource(src)

	// 3. 波形
	w, err := Peaks(ctx, src.ID, pcm, l.fps)
	if err != nil {
		return src, fmt.Errorf("failed to build waveform for %s: %w", src.Path, err)
	}
	l.pub.PublishWaveform(w)

	log.Debug().Str("component", "AudioLoader").
		Str("path", src.Path).
		Int("sampleRate", pcm.SampleRate).
		Int("channels", pcm.Channels).
		Float32("duration", src.Duration).
		Msg("audio loaded")
	return src, nil
}

// LoadAsync 在后台加载，同一音频源的旧任务会被取消
func (l *Loader) LoadAsync(ctx context.Context, src model.AudioSource) {
	ctx, cancel := context.WithCancel(ctx)
	l.mu.Lock()
	if prev, ok := l.pending[src.ID]; ok {
		prev.cancel()
	}
	l.gen++
	gen := l.gen
	l.pending[src.ID] = pendingLoad{gen: gen, cancel: cancel}
	l.mu.Unlock()

	go func() {
		defer l.finish(src.ID, gen, cancel)
		if _, err := l.Load(ctx, src); err != nil && ctx.Err() == nil {
			log.Warn().Str("component", "AudioLoader").Str("path", src.Path).Err(err).Msg("audio load failed")
		}
	}()
}

func (l *Loader) finish(id ids.AudioID, gen uint64, cancel context.CancelFunc) {
	cancel()
	l.mu.Lock()
	defer l.mu.Unlock()
	// 只清理自己的条目
	if cur, ok := l.pending[id]; ok && cur.gen == gen {
		delete(l.pending, id)
	}
}

// LoadAll 并行加载多个音频源，返回第一个错误
func (l *Loader) LoadAll(ctx context.Context, sources []model.AudioSource) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, src := range sources {
		g.Go(func() error {
			_, err := l.Load(gctx, src)
			return err
		})
	}
	return g.Wait()
}

// Pending 返回未完成的后台任务数
func (l *Loader) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}
