package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/decker502/timeline/pkg/ids"
)

type fakeLive struct {
	layers    map[ids.LayerID]bool
	maxFrame  uint32
	keyframes map[ids.KeyframeID]KeyframeRef
}

func (f fakeLive) HasLayer(id ids.LayerID) bool { return f.layers[id] }
func (f fakeLive) FrameInRange(_ ids.LayerID, frame uint32) bool {
	return frame <= f.maxFrame
}
func (f fakeLive) LocateKeyframe(id ids.KeyframeID) (ids.LayerID, uint32, bool) {
	k, ok := f.keyframes[id]
	return k.Layer, k.Frame, ok
}

func TestModeFor(t *testing.T) {
	assert.Equal(t, Replace, ModeFor(false, false))
	assert.Equal(t, Toggle, ModeFor(true, false))
	assert.Equal(t, Extend, ModeFor(true, true))
	assert.Equal(t, Extend, ModeFor(false, true))
}

func TestClickLayer(t *testing.T) {
	order := []ids.LayerID{"a", "b", "c", "d"}
	s := New()

	s.ClickLayer("b", Replace, order)
	assert.Equal(t, []ids.LayerID{"b"}, s.Layers())

	s.ClickLayer("d", Extend, order)
	assert.Equal(t, []ids.LayerID{"b", "c", "d"}, s.Layers())

	s.ClickLayer("c", Toggle, order)
	assert.Equal(t, []ids.LayerID{"b", "d"}, s.Layers())

	s.ClickLayer("a", Replace, order)
	assert.Equal(t, []ids.LayerID{"a"}, s.Layers())
}

func TestClickFrame(t *testing.T) {
	s := New()
	s.ClickFrame(FrameRef{"L1", 3}, Replace)
	s.ClickFrame(FrameRef{"L1", 6}, Extend)
	assert.Len(t, s.Frames(), 4)
	assert.True(t, s.HasFrame(FrameRef{"L1", 5}))

	// 扩展到另一图层时只在目标图层上取区间
	s.ClickFrame(FrameRef{"L2", 4}, Extend)
	assert.True(t, s.HasFrame(FrameRef{"L2", 3}))
	assert.True(t, s.HasFrame(FrameRef{"L2", 4}))
	assert.False(t, s.HasFrame(FrameRef{"L2", 5}))

	s.ClickFrame(FrameRef{"L1", 3}, Toggle)
	assert.False(t, s.HasFrame(FrameRef{"L1", 3}))

	s.ClickFrame(FrameRef{"L9", 0}, Replace)
	assert.Equal(t, []FrameRef{{"L9", 0}}, s.Frames())
}

func TestClickKeyframe(t *testing.T) {
	k1 := KeyframeRef{ID: "k1", Layer: "L1", Frame: 5}
	k2 := KeyframeRef{ID: "k2", Layer: "L1", Frame: 10}
	k3 := KeyframeRef{ID: "k3", Layer: "L1", Frame: 15}
	find := func(layer ids.LayerID, from, to uint32) []KeyframeRef {
		var out []KeyframeRef
		for _, k := range []KeyframeRef{k1, k2, k3} {
			if k.Layer == layer && k.Frame >= from && k.Frame <= to {
				out = append(out, k)
			}
		}
		return out
	}

	s := New()
	s.ClickKeyframe(k1, Replace, find)
	assert.True(t, s.HasKeyframe("k1"))

	s.ClickKeyframe(k3, Extend, find)
	assert.Len(t, s.Keyframes(), 3)

	s.ClickKeyframe(k2, Toggle, find)
	assert.False(t, s.HasKeyframe("k2"))
	assert.Len(t, s.Keyframes(), 2)

	s.ClickKeyframe(k2, Replace, find)
	assert.Equal(t, []KeyframeRef{k2}, s.Keyframes())
}

func TestSetFramesAndKeyframes(t *testing.T) {
	s := New()
	s.SetFrames([]FrameRef{{"L1", 1}, {"L1", 2}}, false)
	s.SetFrames([]FrameRef{{"L1", 2}, {"L2", 2}}, true)
	assert.Len(t, s.Frames(), 3)
	s.SetFrames([]FrameRef{{"L3", 0}}, false)
	assert.Len(t, s.Frames(), 1)

	s.SetKeyframes([]KeyframeRef{{ID: "a"}, {ID: "b"}}, false)
	s.SetKeyframes([]KeyframeRef{{ID: "c"}}, true)
	assert.Len(t, s.Keyframes(), 3)
}

func TestPruneRemovesDanglingEntries(t *testing.T) {
	s := New()
	order := []ids.LayerID{"L1", "L2"}
	s.ClickLayer("L1", Replace, order)
	s.ClickLayer("L2", Toggle, order)
	s.SetFrames([]FrameRef{{"L1", 1}, {"L2", 1}, {"L1", 200}}, false)
	s.SetKeyframes([]KeyframeRef{{ID: "k1", Layer: "L1", Frame: 5}, {ID: "k2", Layer: "L2", Frame: 7}}, false)

	live := fakeLive{
		layers:    map[ids.LayerID]bool{"L1": true},
		maxFrame:  99,
		keyframes: map[ids.KeyframeID]KeyframeRef{"k1": {ID: "k1", Layer: "L1", Frame: 8}},
	}
	s.Prune(live)

	assert.Equal(t, []ids.LayerID{"L1"}, s.Layers())
	assert.Equal(t, []FrameRef{{"L1", 1}}, s.Frames())
	assert.Equal(t, []KeyframeRef{{ID: "k1", Layer: "L1", Frame: 8}}, s.Keyframes())
}

func TestSnapshotRestore(t *testing.T) {
	s := New()
	s.ClickLayer("L1", Replace, nil)
	s.SetKeyframes([]KeyframeRef{{ID: "k", Layer: "L1", Frame: 2}}, false)
	snap := s.Snapshot()

	s.Clear()
	assert.True(t, s.IsEmpty())
	assert.False(t, snap.IsEmpty())

	s.Restore(snap)
	assert.Equal(t, snap, s.Snapshot())
}
