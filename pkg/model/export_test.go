package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decker502/timeline/pkg/easing"
)

func TestExportBuildRoundTrip(t *testing.T) {
	tl, l1 := newTestTimeline(t)
	withTween(t, tl, l1, 0, 20)
	prop := PropAlpha
	require.NoError(t, tl.SetTweenEasing(l1, 0, &prop, easing.PresetEaseOut.Curve()))
	folder, _ := tl.AddFolderLayer("F")
	_, err := tl.InsertLayer("inside", LayerMask, folder, 0)
	require.NoError(t, err)
	_, err = tl.AddAudioLayer("music", NewAudioSource("m.wav"), 4)
	require.NoError(t, err)
	require.NoError(t, tl.SetLabel(Label{Frame: 5, Text: "intro"}))
	require.NoError(t, tl.SetComment(Comment{Frame: 6, Text: "fix timing"}))

	st := tl.Export()
	rebuilt, err := BuildTimeline(st)
	require.NoError(t, err)
	assert.Equal(t, st, rebuilt.Export())
	assert.Equal(t, tl.LayerIDs(), rebuilt.LayerIDs())
}

func TestBuildTimelineRejectsBrokenState(t *testing.T) {
	tl, l1 := newTestTimeline(t)
	withTween(t, tl, l1, 0, 20)

	t.Run("tween enclosing keyframe", func(t *testing.T) {
		st := tl.Export()
		st.Layers[0].Keyframes = append(st.Layers[0].Keyframes, Keyframe{ID: "kf_x", Frame: 10, Props: Properties{}})
		_, err := BuildTimeline(st)
		assert.Error(t, err)
	})

	t.Run("dangling root", func(t *testing.T) {
		st := tl.Export()
		st.Roots = append(st.Roots, "layer_ghost")
		_, err := BuildTimeline(st)
		assert.Error(t, err)
	})

	t.Run("duplicate layer", func(t *testing.T) {
		st := tl.Export()
		st.Layers = append(st.Layers, st.Layers[0])
		_, err := BuildTimeline(st)
		assert.Error(t, err)
	})
}

func TestSnapshotRestoreLayer(t *testing.T) {
	tl, l1 := newTestTimeline(t)
	withTween(t, tl, l1, 0, 20)
	snap, err := tl.SnapshotLayer(l1)
	require.NoError(t, err)
	before := tl.Export()

	_, err = tl.InsertKeyframe(l1, 10)
	require.NoError(t, err)
	require.NoError(t, tl.DeleteKeyframe(l1, 0))

	require.NoError(t, tl.RestoreLayer(snap))
	assert.Equal(t, before, tl.Export())

	whole := tl.Clone()
	require.NoError(t, tl.DeleteLayer(l1))
	tl.Restore(whole)
	assert.Equal(t, before, tl.Export())
}

func TestLabelsAndComments(t *testing.T) {
	tl, _ := newTestTimeline(t)
	require.NoError(t, tl.SetLabel(Label{Frame: 10, Text: "b"}))
	require.NoError(t, tl.SetLabel(Label{Frame: 2, Text: "a"}))
	require.NoError(t, tl.SetLabel(Label{Frame: 10, Text: "c"}))
	labels := tl.Labels()
	require.Len(t, labels, 2)
	assert.Equal(t, "a", labels[0].Text)
	assert.Equal(t, "c", labels[1].Text)

	assert.ErrorIs(t, tl.SetLabel(Label{Frame: 3}), ErrConstraintViolation)
	assert.ErrorIs(t, tl.SetLabel(Label{Frame: 300, Text: "x"}), ErrFrameOutOfRange)
	require.NoError(t, tl.RemoveLabel(2))
	assert.ErrorIs(t, tl.RemoveLabel(2), ErrConstraintViolation)

	require.NoError(t, tl.SetComment(Comment{Frame: 4, Text: "note"}))
	cs := tl.Comments()
	require.Len(t, cs, 1)
	require.NotNil(t, cs[0].Color)
	assert.Equal(t, DefaultCommentColor, *cs[0].Color)
}
