package timecode

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestFrameTimeConversion(t *testing.T) {
	assert.Equal(t, float32(1.0), New(24, 24).ToSeconds())
	assert.Equal(t, uint32(60), FromSeconds(2.5, 24).Frame)
	assert.Equal(t, uint32(0), FromSeconds(-1, 24).Frame)
	assert.Equal(t, float32(0), New(10, 0).ToSeconds())
}

func TestFromSecondsRoundTrip(t *testing.T) {
	for _, preset := range append(AllPresets(), Custom(12.5)) {
		fps := preset.FPS()
		t.Run(preset.Label(), func(t *testing.T) {
			for frame := uint32(0); frame < 2000; frame += 7 {
				ft := New(frame, fps)
				got := FromSeconds(ft.ToSeconds(), fps)
				if got.Frame != frame {
					t.Fatalf("round trip frame %d at %v fps: got %d", frame, fps, got.Frame)
				}
			}
		})
	}
}

func TestTimecode(t *testing.T) {
	tests := []struct {
		name  string
		frame uint32
		fps   float32
		want  string
	}{
		{"zero", 0, 24, "00:00:00:00"},
		{"one second", 24, 24, "00:00:01:00"},
		{"frames field", 37, 24, "00:00:01:13"},
		{"minutes", 3661, 24, "00:02:32:13"},
		{"ntsc rounds to 30", 45, 29.97, "00:00:01:15"},
		{"hour", 90000, 25, "01:00:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.frame, tt.fps).Timecode()
			if got != tt.want {
				t.Errorf("Timecode(%d @ %v): got %s, want %s", tt.frame, tt.fps, got, tt.want)
			}
		})
	}
}

func TestFramesPerTimecodeSecondHalfEven(t *testing.T) {
	assert.Equal(t, uint32(24), FramesPerTimecodeSecond(24.5))
	assert.Equal(t, uint32(26), FramesPerTimecodeSecond(25.5))
	assert.Equal(t, uint32(1), FramesPerTimecodeSecond(0))
}

func TestDisplayMode(t *testing.T) {
	ft := New(36, 24)
	assert.Equal(t, "Frame 36", DisplayFrames.Format(ft))
	assert.Equal(t, "1.500s", DisplaySeconds.Format(ft))
	assert.Equal(t, "00:00:01:12", DisplayTimecode.Format(ft))
	assert.Equal(t, DisplayFrames, DisplayTimecode.Next())
}

func TestPresets(t *testing.T) {
	assert.Equal(t, float32(24), Film.FPS())
	assert.Equal(t, float32(29.97), NTSC.FPS())
	assert.Equal(t, float32(12), Custom(12).FPS())
	assert.Equal(t, "24 fps (Film)", Film.Label())
	assert.Equal(t, "12.5 fps (Custom)", Custom(12.5).Label())
	assert.Len(t, AllPresets(), 5)
}

func TestPresetYAML(t *testing.T) {
	type holder struct {
		FPS FPSPreset `yaml:"fps"`
	}

	out, err := yaml.Marshal(holder{FPS: Custom(12.5)})
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(out), "preset: custom"))

	var back holder
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, PresetCustom, back.FPS.Kind)
	assert.True(t, math.Abs(float64(back.FPS.Custom-12.5)) < 1e-6)

	require.NoError(t, yaml.Unmarshal([]byte("fps:\n  preset: ntsc\n"), &back))
	assert.Equal(t, NTSC, back.FPS)

	assert.Error(t, yaml.Unmarshal([]byte("fps:\n  preset: bogus\n"), &back))
	assert.Error(t, yaml.Unmarshal([]byte("fps:\n  preset: custom\n"), &back))
}
