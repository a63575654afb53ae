package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decker502/timeline/pkg/timecode"
)

func TestVolumeEnvelopeInterpolation(t *testing.T) {
	env := EnvelopeFromPoints([]EnvelopePoint{{0, 1}, {10, 0}, {20, 0.5}})

	tests := []struct {
		frame uint32
		want  float32
	}{
		{0, 1},
		{5, 0.5},
		{10, 0},
		{15, 0.25},
		{20, 0.5},
		{25, 0.5},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, env.VolumeAt(tt.frame), 1e-6, "frame %d", tt.frame)
	}
}

func TestVolumeEnvelopeEdits(t *testing.T) {
	env := EnvelopeFromPoints([]EnvelopePoint{{10, 2}, {0, -1}, {10, 0.4}})
	assert.Equal(t, []EnvelopePoint{{0, 0}, {10, 0.4}}, env.Points())
	require.NoError(t, env.Validate())

	env.RemovePoint(0)
	env.RemovePoint(10)
	assert.Equal(t, []EnvelopePoint{{0, 1}}, env.Points())

	assert.Error(t, VolumeEnvelope{}.Validate())
}

func TestVolumeEnvelopeNaN(t *testing.T) {
	nan := float32(math.NaN())
	env := EnvelopeFromPoints([]EnvelopePoint{{0, nan}, {10, 0.5}})
	assert.Equal(t, []EnvelopePoint{{0, 0}, {10, 0.5}}, env.Points())

	env.SetPoint(10, nan)
	assert.Equal(t, float32(0), env.VolumeAt(10))
	require.NoError(t, env.Validate())

	bad := VolumeEnvelope{points: []EnvelopePoint{{0, nan}}}
	assert.Error(t, bad.Validate())
}

func TestAudioTrackTiming(t *testing.T) {
	src := NewAudioSource("music/theme.wav")
	src.Duration = 4
	track := NewAudioTrack(src, 24)
	track.SetTrim(1, 1)

	assert.Equal(t, float32(2), track.EffectiveDuration())
	start, end := track.FrameRange(24)
	assert.Equal(t, uint32(24), start)
	assert.Equal(t, uint32(72), end)

	_, ok := track.AudioTimeAt(10, 24)
	assert.False(t, ok, "before start frame")

	at, ok := track.AudioTimeAt(36, 24)
	require.True(t, ok)
	assert.InDelta(t, 1.5, at, 1e-6)

	_, ok = track.AudioTimeAt(80, 24)
	assert.False(t, ok, "beyond trimmed end")

	track.SetVolume(1.7)
	assert.Equal(t, float32(1), track.Volume)
	assert.Equal(t, "theme.wav", src.DisplayName())
}

func TestEditAudio(t *testing.T) {
	tl := NewTimeline(100, timecode.Film)
	src := NewAudioSource("a.wav")
	id, err := tl.AddAudioLayer("", src, 0)
	require.NoError(t, err)

	require.NoError(t, tl.EditAudio(id, func(a *AudioTrack) error {
		a.Envelope.SetPoint(10, 0)
		a.Sync = SyncStream
		return nil
	}))
	l, _ := tl.Layer(id)
	assert.Equal(t, SyncStream, l.Audio().Sync)
	assert.Equal(t, float32(0), l.Audio().EffectiveVolume(10))

	normal, _ := tl.AddLayer("n", LayerNormal)
	assert.ErrorIs(t, tl.EditAudio(normal, func(*AudioTrack) error { return nil }), ErrConstraintViolation)

	// 音频起始帧随插入帧后移
	require.NoError(t, tl.EditAudio(id, func(a *AudioTrack) error { a.StartFrame = 5; return nil }))
	require.NoError(t, tl.InsertFrame(id, 2))
	assert.Equal(t, uint32(6), l.Audio().StartFrame)
}

func TestWaveformPeaksForRange(t *testing.T) {
	w := &Waveform{Peaks: [][2]float32{{-1, 1}, {-0.5, 0.5}, {0, 0}}}
	assert.Len(t, w.PeaksForRange(1, 10), 2)
	assert.Nil(t, w.PeaksForRange(5, 10))
	var nilWave *Waveform
	assert.Nil(t, nilWave.PeaksForRange(0, 1))
}
