package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertFrameShiftsContent(t *testing.T) {
	tl, l1 := newTestTimeline(t)
	withTween(t, tl, l1, 10, 20)

	require.NoError(t, tl.InsertFrame(l1, 15))
	l, _ := tl.Layer(l1)
	assert.Equal(t, []uint32{10, 21}, l.KeyframeFrames())
	tw := l.Tweens()
	require.Len(t, tw, 1)
	assert.Equal(t, uint32(10), tw[0].Start)
	assert.Equal(t, uint32(21), tw[0].End)

	require.NoError(t, tl.InsertFrame(l1, 0))
	assert.Equal(t, []uint32{11, 22}, l.KeyframeFrames())
}

func TestInsertFrameOverflow(t *testing.T) {
	tl, l1 := newTestTimeline(t)
	_, err := tl.InsertKeyframe(l1, 99)
	require.NoError(t, err)

	before := tl.Export()
	assert.ErrorIs(t, tl.InsertFrame(l1, 50), ErrFrameOutOfRange)
	assert.Equal(t, before, tl.Export())

	// 插入点在最后一个关键帧之后时不移动任何内容
	tl2, l2 := newTestTimeline(t)
	_, err = tl2.InsertKeyframe(l2, 10)
	require.NoError(t, err)
	require.NoError(t, tl2.InsertFrame(l2, 50))
}

func TestRemoveFrame(t *testing.T) {
	tl, l1 := newTestTimeline(t)
	withTween(t, tl, l1, 10, 20)

	assert.ErrorIs(t, tl.RemoveFrame(l1, 10), ErrConstraintViolation)

	require.NoError(t, tl.RemoveFrame(l1, 15))
	l, _ := tl.Layer(l1)
	assert.Equal(t, []uint32{10, 19}, l.KeyframeFrames())

	require.NoError(t, tl.RemoveFrame(l1, 0))
	assert.Equal(t, []uint32{9, 18}, l.KeyframeFrames())
}

func TestInsertRemoveFrameRoundTrip(t *testing.T) {
	tl, l1 := newTestTimeline(t)
	withTween(t, tl, l1, 10, 20)
	before := tl.Export()

	require.NoError(t, tl.InsertFrame(l1, 12))
	require.NoError(t, tl.RemoveFrame(l1, 12))
	assert.Equal(t, before, tl.Export())
}

func TestSetFrameCount(t *testing.T) {
	tl, l1 := newTestTimeline(t)
	_, err := tl.InsertKeyframe(l1, 40)
	require.NoError(t, err)

	assert.ErrorIs(t, tl.SetFrameCount(40), ErrConstraintViolation)
	assert.ErrorIs(t, tl.SetFrameCount(0), ErrConstraintViolation)
	require.NoError(t, tl.SetFrameCount(41))
	assert.Equal(t, uint32(40), tl.MaxFrame())
}
