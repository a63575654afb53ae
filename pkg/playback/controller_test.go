package playback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decker502/timeline/pkg/engine"
	"github.com/decker502/timeline/pkg/ids"
	"github.com/decker502/timeline/pkg/model"
	"github.com/decker502/timeline/pkg/timecode"
)

func newController(t *testing.T, h Hooks) (*Controller, *engine.Memory) {
	t.Helper()
	e := engine.NewMemory(model.NewProject(timecode.Film))
	_, err := e.AddLayer("L1", model.LayerNormal)
	require.NoError(t, err)
	return New(e, h), e
}

func TestPlaySeekConsistency(t *testing.T) {
	c, e := newController(t, Hooks{})
	require.Equal(t, uint32(100), e.TotalFrames())

	c.Play()
	assert.True(t, c.IsPlaying())
	assert.Equal(t, 24, c.Tick(time.Second))
	c.Pause()
	assert.Equal(t, uint32(24), c.CurrentFrame())
	assert.Zero(t, c.Accumulator())

	c.Play()
	c.Tick(10 * time.Millisecond)
	assert.Greater(t, c.Accumulator(), 0.0)
	require.NoError(t, c.Seek(50))
	assert.Equal(t, uint32(50), c.CurrentFrame())
	assert.Zero(t, c.Accumulator(), "seek clears the accumulator")
}

func TestTickAccumulatesSmallSteps(t *testing.T) {
	c, _ := newController(t, Hooks{})
	c.Play()
	for i := 0; i < 60; i++ {
		c.Tick(time.Second / 60)
	}
	assert.InDelta(t, 24, float64(c.CurrentFrame()), 1)
}

func TestTickWhilePausedDoesNothing(t *testing.T) {
	c, _ := newController(t, Hooks{})
	assert.Equal(t, 0, c.Tick(time.Second))
	assert.Equal(t, uint32(0), c.CurrentFrame())
}

func TestWrapAtEnd(t *testing.T) {
	tests := []struct {
		name    string
		looping bool
		region  *LoopRegion
		start   uint32
		ticks   time.Duration
		want    uint32
		playing bool
	}{
		{"wraps to zero", true, nil, 98, time.Second / 8, 1, true},
		{"stops at end", false, nil, 98, time.Second / 8, 99, false},
		{"loop region", true, &LoopRegion{In: 10, Out: 12}, 10, time.Second / 8, 10, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newController(t, Hooks{})
			c.SetLooping(tt.looping)
			if tt.region != nil {
				require.NoError(t, c.SetLoopRegion(tt.region.In, tt.region.Out))
			}
			require.NoError(t, c.Seek(tt.start))
			c.Play()
			c.Tick(tt.ticks)
			assert.Equal(t, tt.want, c.CurrentFrame())
			assert.Equal(t, tt.playing, c.IsPlaying())
		})
	}
}

func TestPlayEntersLoopRegion(t *testing.T) {
	c, _ := newController(t, Hooks{})
	require.NoError(t, c.SetLoopRegion(40, 20))
	r, ok := c.LoopRegion()
	require.True(t, ok)
	assert.Equal(t, LoopRegion{In: 20, Out: 40}, r)
	assert.Equal(t, uint32(21), r.Len())

	c.Play()
	assert.Equal(t, uint32(20), c.CurrentFrame())

	var oor *model.FrameOutOfRangeError
	assert.ErrorAs(t, c.SetLoopRegion(0, 100), &oor)

	c.ClearLoopRegion()
	_, ok = c.LoopRegion()
	assert.False(t, ok)
}

func TestHooks(t *testing.T) {
	var frames []uint32
	var states []bool
	c, _ := newController(t, Hooks{
		FrameChanged:     func(f uint32) { frames = append(frames, f) },
		PlayStateChanged: func(p bool) { states = append(states, p) },
	})
	c.Toggle()
	c.Tick(time.Second / 4)
	c.Tick(time.Second / 4)
	c.Toggle()
	require.NoError(t, c.Seek(12))
	require.NoError(t, c.Step(-20))
	require.NoError(t, c.Last())

	assert.Equal(t, []uint32{6, 12, 0, 99}, frames, "no event for a seek onto the current frame")
	assert.Equal(t, []bool{true, false}, states)
}

func TestSeekClamps(t *testing.T) {
	c, _ := newController(t, Hooks{})
	require.NoError(t, c.Seek(1000))
	assert.Equal(t, uint32(99), c.CurrentFrame())
	require.NoError(t, c.Step(5))
	assert.Equal(t, uint32(99), c.CurrentFrame())
	require.NoError(t, c.First())
	assert.Equal(t, uint32(0), c.CurrentFrame())

	var zero engine.Memory
	assert.ErrorIs(t, New(&zero, Hooks{}).Seek(3), model.ErrNotInitialized)
}

type fakeSink struct {
	playing map[ids.AudioID]float32
	calls   []string
	volume  float32
}

func newFakeSink() *fakeSink { return &fakeSink{playing: map[ids.AudioID]float32{}} }

func (s *fakeSink) Play(id ids.AudioID, offset, volume float32, loop bool) error {
	s.playing[id] = offset
	s.volume = volume
	s.calls = append(s.calls, "play")
	return nil
}

func (s *fakeSink) Stop(id ids.AudioID) error {
	delete(s.playing, id)
	s.calls = append(s.calls, "stop")
	return nil
}

func (s *fakeSink) IsPlaying(id ids.AudioID) bool {
	_, ok := s.playing[id]
	return ok
}

func (s *fakeSink) SetVolume(id ids.AudioID, volume float32) { s.volume = volume }

func addAudio(t *testing.T, e *engine.Memory, start uint32, mode model.SyncMode) ids.AudioID {
	t.Helper()
	src := model.NewAudioSource("voice.wav")
	src.Duration = 2
	src.Loaded = true
	l, err := e.AddAudioLayer("Voice", src, start)
	require.NoError(t, err)
	require.NoError(t, e.EditAudio(l, func(a *model.AudioTrack) error {
		a.Sync = mode
		a.Envelope.SetPoint(24, 0.5)
		return nil
	}))
	return src.ID
}

func TestEventAudioFiresAtStartFrame(t *testing.T) {
	sink := newFakeSink()
	c, e := newController(t, Hooks{Audio: sink})
	id := addAudio(t, e, 6, model.SyncEvent)

	c.Play()
	c.Tick(time.Second / 4)
	assert.Equal(t, []string{"play"}, sink.calls)
	assert.Equal(t, float32(0), sink.playing[id])
	c.Tick(time.Second / 4)
	assert.Len(t, sink.calls, 1)
}

func TestStreamAudioFollowsPlayhead(t *testing.T) {
	sink := newFakeSink()
	c, e := newController(t, Hooks{Audio: sink})
	id := addAudio(t, e, 24, model.SyncStream)

	require.NoError(t, c.Seek(36))
	assert.Empty(t, sink.calls, "paused seeks do not start streams")

	c.Play()
	require.Contains(t, sink.playing, id)
	assert.InDelta(t, 0.5, sink.playing[id], 1e-6)

	require.NoError(t, c.Seek(48))
	assert.InDelta(t, 1.0, sink.playing[id], 1e-6)
	assert.InDelta(t, 0.5, sink.volume, 1e-6)

	c.Tick(time.Second / 12)
	assert.Equal(t, []string{"play", "play"}, sink.calls, "continuous playback only adjusts volume")

	c.Pause()
	assert.NotContains(t, sink.playing, id)

	require.NoError(t, c.Seek(90))
	c.Play()
	assert.NotContains(t, sink.playing, id, "past the end of the clip")
}

func TestStopAndStartSync(t *testing.T) {
	sink := newFakeSink()
	c, e := newController(t, Hooks{Audio: sink})
	id := addAudio(t, e, 2, model.SyncStart)
	c.Play()
	c.Tick(time.Second / 8)
	assert.True(t, sink.IsPlaying(id))

	stopID := addAudio(t, e, 4, model.SyncStop)
	sink.playing[stopID] = 0
	c.Tick(time.Second / 8)
	assert.False(t, sink.IsPlaying(stopID))
	assert.True(t, sink.IsPlaying(id))

	layers := AudioLayersAt(e.AudioLayers(), 30, 24)
	assert.Len(t, layers, 2)
}
