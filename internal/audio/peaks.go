package audio

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/decker502/timeline/pkg/ids"
	"github.com/decker502/timeline/pkg/model"
)

// peakBlock 每个任务处理的时间轴帧数
const peakBlock = 256

// Peaks 按时间轴帧计算波形峰值
//
// 每帧一个 (min, max)，取值归一化到 [-1, 1]，左右声道合并。
// 计算按块并行，ctx 取消时返回 ctx.Err()。
func Peaks(ctx context.Context, id ids.AudioID, pcm *PCM, fps float32) (*model.Waveform, error) {
	if pcm == nil || pcm.SampleRate <= 0 {
		return nil, fmt.Errorf("peaks: invalid pcm")
	}
	if fps <= 0 {
		return nil, fmt.Errorf("peaks: invalid fps %v", fps)
	}

	rate := float64(pcm.SampleRate)
	total := int(math.Ceil(float64(pcm.Frames()) * float64(fps) / rate))
	peaks := make([][2]float32, total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for start := 0; start < total; start += peakBlock {
		end := min(start+peakBlock, total)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// 各块写入互不重叠的区间
			for f := start; f < end; f++ {
				peaks[f] = framePeak(pcm, int(float64(f)*rate/float64(fps)), int(float64(f+1)*rate/float64(fps)))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &model.Waveform{
		Audio:    id,
		Peaks:    peaks,
		FPS:      fps,
		Complete: true,
	}, nil
}

func framePeak(pcm *PCM, from, to int) [2]float32 {
	to = min(to, pcm.Frames())
	if from >= to {
		return [2]float32{}
	}
	lo, hi := int16(math.MaxInt16), int16(math.MinInt16)
	for i := from; i < to; i++ {
		l, r := pcm.sample(i)
		lo = min(lo, l, r)
		hi = max(hi, l, r)
	}
	return [2]float32{float32(lo) / 32768, float32(hi) / 32768}
}
