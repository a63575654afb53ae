package model

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/decker502/timeline/pkg/ids"
	"github.com/decker502/timeline/pkg/timecode"
)

// newTestTimeline 100 帧、24fps、一个普通图层 L1
func newTestTimeline(t *testing.T) (*Timeline, ids.LayerID) {
	t.Helper()
	tl := NewTimeline(100, timecode.Film)
	l1, err := tl.AddLayer("L1", LayerNormal)
	require.NoError(t, err)
	return tl, l1
}

// withTween 在 L1 的 a、b 处放置关键帧并创建动作补间，PositionX 从 0 到 1
func withTween(t *testing.T, tl *Timeline, layer ids.LayerID, a, b uint32) ids.TweenID {
	t.Helper()
	_, err := tl.InsertKeyframe(layer, a)
	require.NoError(t, err)
	require.NoError(t, tl.SetProperty(layer, a, PropPositionX, FloatValue(0)))
	_, err = tl.InsertKeyframe(layer, b)
	require.NoError(t, err)
	require.NoError(t, tl.SetProperty(layer, b, PropPositionX, FloatValue(1)))
	id, err := tl.CreateMotionTween(layer, a)
	require.NoError(t, err)
	return id
}

func cellKind(t *testing.T, tl *Timeline, layer ids.LayerID, frame uint32) CellKind {
	t.Helper()
	c, err := tl.Cell(layer, frame)
	require.NoError(t, err)
	return c.Kind
}
