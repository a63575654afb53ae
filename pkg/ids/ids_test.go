package ids

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIDsArePrefixedAndUnique(t *testing.T) {
	tests := []struct {
		name   string
		gen    func() string
		prefix string
	}{
		{"layer", func() string { return NewLayerID().String() }, "layer_"},
		{"keyframe", func() string { return NewKeyframeID().String() }, "kf_"},
		{"tween", func() string { return NewTweenID().String() }, "tween_"},
		{"audio", func() string { return NewAudioID().String() }, "audio_"},
		{"scene", func() string { return NewSceneID().String() }, "scene_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen := make(map[string]bool)
			for i := 0; i < 100; i++ {
				id := tt.gen()
				assert.True(t, strings.HasPrefix(id, tt.prefix), "id %q missing prefix %q", id, tt.prefix)
				assert.False(t, seen[id], "duplicate id %q", id)
				seen[id] = true
			}
		})
	}
}

func TestZeroIDs(t *testing.T) {
	var l LayerID
	var k KeyframeID
	assert.True(t, l.IsZero())
	assert.True(t, k.IsZero())
	assert.False(t, NewLayerID().IsZero())
}
