package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decker502/timeline/pkg/easing"
	"github.com/decker502/timeline/pkg/ids"
)

func idOf(s string) ids.LayerID { return ids.LayerID(s) }

func TestInsertKeyframeCreatesKeyframe(t *testing.T) {
	tl, l1 := newTestTimeline(t)

	id, err := tl.InsertKeyframe(l1, 10)
	require.NoError(t, err)

	c, err := tl.Cell(l1, 10)
	require.NoError(t, err)
	assert.Equal(t, CellKeyframe, c.Kind)
	assert.Equal(t, id, c.Keyframe)

	refs := tl.KeyframesBetween(l1, 0, 99)
	require.Len(t, refs, 1)
	assert.Equal(t, uint32(10), refs[0].Frame)
}

func TestInsertKeyframeErrors(t *testing.T) {
	tl, l1 := newTestTimeline(t)
	_, err := tl.InsertKeyframe(l1, 5)
	require.NoError(t, err)

	var fr *FrameOutOfRangeError
	_, err = tl.InsertKeyframe(l1, 250)
	require.True(t, errors.As(err, &fr))
	assert.Equal(t, uint32(250), fr.Given)
	assert.Equal(t, uint32(99), fr.Max)
	assert.True(t, IsRejection(err))

	tests := []struct {
		name  string
		setup func()
		layer func() string
		frame uint32
		want  error
	}{
		{"unknown layer", func() {}, func() string { return "nope" }, 1, ErrLayerNotFound},
		{"out of range", func() {}, func() string { return string(l1) }, 100, ErrFrameOutOfRange},
		{"existing keyframe", func() {}, func() string { return string(l1) }, 5, ErrConstraintViolation},
		{"locked", func() { require.NoError(t, tl.SetLayerLocked(l1, true)) }, func() string { return string(l1) }, 6, ErrLocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			before := tl.Export()
			_, err := tl.InsertKeyframe(idOf(tt.layer()), tt.frame)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, before, tl.Export(), "rejected operation must not mutate")
		})
	}

}

func TestInsertKeyframeSplitsTween(t *testing.T) {
	tl, l1 := newTestTimeline(t)
	original := withTween(t, tl, l1, 0, 20)

	before, ok, err := tl.PropertyAt(l1, 10, PropPositionX)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 0.5, before.Float, 1e-6)

	_, err = tl.InsertKeyframe(l1, 10)
	require.NoError(t, err)

	l, _ := tl.Layer(l1)
	tweens := l.Tweens()
	require.Len(t, tweens, 2)
	assert.Equal(t, original, tweens[0].ID)
	assert.Equal(t, [2]uint32{0, 10}, [2]uint32{tweens[0].Start, tweens[0].End})
	assert.Equal(t, [2]uint32{10, 20}, [2]uint32{tweens[1].Start, tweens[1].End})
	assert.NotEqual(t, tweens[0].ID, tweens[1].ID)
	for _, tw := range tweens {
		assert.True(t, tw.Easing.Equal(easing.Linear()))
		assert.Equal(t, TweenMotion, tw.Kind)
	}

	after, ok, err := tl.PropertyAt(l1, 10, PropPositionX)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 0.5, after.Float, 1e-6)

	// 拆分后两段各自在自己的 [0,1] 上求值
	mid, _, _ := tl.PropertyAt(l1, 15, PropPositionX)
	assert.InDelta(t, 0.75, mid.Float, 1e-6)
}

func TestInsertThenClearRestoresCell(t *testing.T) {
	tl, l1 := newTestTimeline(t)
	withTween(t, tl, l1, 0, 20)
	require.NoError(t, tl.SetTweenEasing(l1, 0, nil, easing.PresetEaseIn.Curve()))

	before := tl.Export()
	_, err := tl.InsertKeyframe(l1, 7)
	require.NoError(t, err)
	require.NoError(t, tl.ClearKeyframe(l1, 7))
	assert.Equal(t, before, tl.Export())

	// 空白区域上的插入与清除同样可逆
	_, err = tl.InsertKeyframe(l1, 50)
	require.NoError(t, err)
	require.NoError(t, tl.ClearKeyframe(l1, 50))
	assert.Equal(t, before, tl.Export())
}

func TestClearKeyframeDeletesOrphanTween(t *testing.T) {
	tl, l1 := newTestTimeline(t)
	withTween(t, tl, l1, 0, 20)

	require.NoError(t, tl.ClearKeyframe(l1, 20))
	l, _ := tl.Layer(l1)
	assert.Empty(t, l.Tweens())
	assert.Equal(t, CellEmpty, cellKind(t, tl, l1, 10))
	assert.ErrorIs(t, tl.ClearKeyframe(l1, 20), ErrKeyframeNotFound)
}

func TestDeleteKeyframeDissolvesTouchingTweens(t *testing.T) {
	tl, l1 := newTestTimeline(t)
	withTween(t, tl, l1, 0, 20)
	_, err := tl.InsertKeyframe(l1, 10)
	require.NoError(t, err)

	require.NoError(t, tl.DeleteKeyframe(l1, 10))
	l, _ := tl.Layer(l1)
	assert.Empty(t, l.Tweens())
	assert.Equal(t, []uint32{0, 20}, l.KeyframeFrames())
}

func TestMoveKeyframe(t *testing.T) {
	t.Run("preserves id and payload", func(t *testing.T) {
		tl, l1 := newTestTimeline(t)
		id, err := tl.InsertKeyframe(l1, 5)
		require.NoError(t, err)
		require.NoError(t, tl.SetProperty(l1, 5, PropAlpha, FloatValue(0.3)))

		require.NoError(t, tl.MoveKeyframe(l1, 5, 8))
		c, _ := tl.Cell(l1, 8)
		assert.Equal(t, id, c.Keyframe)
		v, ok, _ := tl.PropertyAt(l1, 8, PropAlpha)
		assert.True(t, ok)
		assert.Equal(t, 0.3, v.Float)
		assert.Equal(t, CellEmpty, cellKind(t, tl, l1, 5))
	})

	t.Run("same frame twice is a no-op", func(t *testing.T) {
		tl, l1 := newTestTimeline(t)
		withTween(t, tl, l1, 0, 20)
		before := tl.Export()
		require.NoError(t, tl.MoveKeyframe(l1, 20, 20))
		require.NoError(t, tl.MoveKeyframe(l1, 20, 20))
		assert.Equal(t, before, tl.Export())
	})

	t.Run("occupied target is a constraint violation", func(t *testing.T) {
		tl, l1 := newTestTimeline(t)
		withTween(t, tl, l1, 0, 20)
		before := tl.Export()
		err := tl.MoveKeyframe(l1, 0, 20)
		assert.ErrorIs(t, err, ErrConstraintViolation)
		assert.Equal(t, before, tl.Export())
	})

	t.Run("tween follows endpoint", func(t *testing.T) {
		tl, l1 := newTestTimeline(t)
		withTween(t, tl, l1, 0, 20)
		require.NoError(t, tl.MoveKeyframe(l1, 20, 30))
		l, _ := tl.Layer(l1)
		tw := l.Tweens()
		require.Len(t, tw, 1)
		assert.Equal(t, uint32(30), tw[0].End)
		assert.Equal(t, CellTween, cellKind(t, tl, l1, 25))
	})

	t.Run("crossing the other endpoint dissolves the tween", func(t *testing.T) {
		tl, l1 := newTestTimeline(t)
		withTween(t, tl, l1, 10, 20)
		require.NoError(t, tl.MoveKeyframe(l1, 10, 30))
		l, _ := tl.Layer(l1)
		assert.Empty(t, l.Tweens())
	})

	t.Run("landing inside a foreign tween splits it", func(t *testing.T) {
		tl, l1 := newTestTimeline(t)
		withTween(t, tl, l1, 10, 20)
		_, err := tl.InsertKeyframe(l1, 40)
		require.NoError(t, err)
		require.NoError(t, tl.MoveKeyframe(l1, 40, 15))
		l, _ := tl.Layer(l1)
		tw := l.Tweens()
		require.Len(t, tw, 2)
		assert.Equal(t, uint32(15), tw[0].End)
		assert.Equal(t, uint32(15), tw[1].Start)
	})

	t.Run("missing keyframe", func(t *testing.T) {
		tl, l1 := newTestTimeline(t)
		assert.ErrorIs(t, tl.MoveKeyframe(l1, 3, 4), ErrKeyframeNotFound)
	})
}

func TestCreateTween(t *testing.T) {
	tl, l1 := newTestTimeline(t)

	_, err := tl.CreateMotionTween(l1, 0)
	assert.ErrorIs(t, err, ErrKeyframeNotFound)

	_, err = tl.InsertKeyframe(l1, 0)
	require.NoError(t, err)
	_, err = tl.CreateShapeTween(l1, 0)
	assert.ErrorIs(t, err, ErrConstraintViolation)

	_, err = tl.InsertKeyframe(l1, 12)
	require.NoError(t, err)
	id, err := tl.CreateShapeTween(l1, 0)
	require.NoError(t, err)

	c, _ := tl.Cell(l1, 6)
	assert.Equal(t, CellTween, c.Kind)
	assert.Equal(t, id, c.Tween)
	assert.Equal(t, TweenShape, c.TweenKind)

	again, err := tl.CreateMotionTween(l1, 0)
	require.NoError(t, err)
	assert.Equal(t, id, again)
	c, _ = tl.Cell(l1, 6)
	assert.Equal(t, TweenMotion, c.TweenKind)

	require.NoError(t, tl.RemoveTween(l1, 6))
	assert.Equal(t, CellEmpty, cellKind(t, tl, l1, 6))
	assert.ErrorIs(t, tl.RemoveTween(l1, 6), ErrConstraintViolation)
}

func TestCopyPasteKeyframe(t *testing.T) {
	t.Run("copy then paste in place is a no-op", func(t *testing.T) {
		tl, l1 := newTestTimeline(t)
		withTween(t, tl, l1, 0, 20)
		before := tl.Export()

		p, err := tl.CopyKeyframe(l1, 0)
		require.NoError(t, err)
		require.NotNil(t, p.Tween)
		_, err = tl.PasteKeyframe(l1, 0, p)
		require.NoError(t, err)
		assert.Equal(t, before, tl.Export())

		again, err := tl.CopyKeyframe(l1, 0)
		require.NoError(t, err)
		assert.True(t, p.Equal(again))
	})

	t.Run("paste reconstructs outgoing tween", func(t *testing.T) {
		tl, l1 := newTestTimeline(t)
		withTween(t, tl, l1, 0, 20)
		p, err := tl.CopyKeyframe(l1, 0)
		require.NoError(t, err)

		_, err = tl.InsertKeyframe(l1, 60)
		require.NoError(t, err)
		_, err = tl.PasteKeyframe(l1, 40, p)
		require.NoError(t, err)

		c, _ := tl.Cell(l1, 50)
		assert.Equal(t, CellTween, c.Kind)
		assert.Equal(t, uint32(40), c.TweenStart)
		assert.Equal(t, uint32(60), c.TweenEnd)
		v, _, _ := tl.PropertyAt(l1, 40, PropPositionX)
		assert.Equal(t, 0.0, v.Float)
	})

	t.Run("paste without end keyframe keeps only the keyframe", func(t *testing.T) {
		tl, l1 := newTestTimeline(t)
		withTween(t, tl, l1, 0, 20)
		p, _ := tl.CopyKeyframe(l1, 0)
		_, err := tl.PasteKeyframe(l1, 70, p)
		require.NoError(t, err)
		assert.Equal(t, CellEmpty, cellKind(t, tl, l1, 71))
	})

	t.Run("payload is independent of the source", func(t *testing.T) {
		tl, l1 := newTestTimeline(t)
		withTween(t, tl, l1, 0, 20)
		p, _ := tl.CopyKeyframe(l1, 0)
		require.NoError(t, tl.SetProperty(l1, 0, PropPositionX, FloatValue(9)))
		assert.Equal(t, 0.0, p.Props[PropPositionX].Float)
	})

	t.Run("locked layer can be copied but not pasted", func(t *testing.T) {
		tl, l1 := newTestTimeline(t)
		_, err := tl.InsertKeyframe(l1, 0)
		require.NoError(t, err)
		require.NoError(t, tl.SetLayerLocked(l1, true))
		p, err := tl.CopyKeyframe(l1, 0)
		require.NoError(t, err)
		_, err = tl.PasteKeyframe(l1, 3, p)
		assert.ErrorIs(t, err, ErrLocked)
	})
}

func TestPropertyEvaluation(t *testing.T) {
	tl, l1 := newTestTimeline(t)
	withTween(t, tl, l1, 10, 20)
	prop := PropPositionX
	require.NoError(t, tl.SetTweenEasing(l1, 10, &prop, easing.PresetEaseIn.Curve()))

	_, ok, err := tl.PropertyAt(l1, 5, PropPositionX)
	require.NoError(t, err)
	assert.False(t, ok, "nothing before the first keyframe")

	v, ok, _ := tl.PropertyAt(l1, 15, PropPositionX)
	require.True(t, ok)
	assert.Less(t, v.Float, 0.5, "ease-in override slows the first half")

	v, _, _ = tl.PropertyAt(l1, 50, PropPositionX)
	assert.Equal(t, 1.0, v.Float, "held after the last keyframe")

	assert.ErrorIs(t, tl.SetProperty(l1, 12, PropAlpha, FloatValue(1)), ErrKeyframeNotFound)
	assert.ErrorIs(t, tl.SetProperty(l1, 10, PropertyID{}, FloatValue(1)), ErrConstraintViolation)
	require.NoError(t, tl.UnsetProperty(l1, 10, PropPositionX))
	v, ok, _ = tl.PropertyAt(l1, 15, PropPositionX)
	assert.False(t, ok)
}

func TestBlankKeyframe(t *testing.T) {
	tl, l1 := newTestTimeline(t)
	_, err := tl.InsertKeyframe(l1, 0)
	require.NoError(t, err)
	require.NoError(t, tl.SetProperty(l1, 0, PropAlpha, FloatValue(1)))

	_, err = tl.InsertKeyframe(l1, 5)
	require.NoError(t, err)
	c, _ := tl.Cell(l1, 5)
	assert.False(t, c.Blank, "inserted keyframe inherits previous content")

	_, err = tl.InsertBlankKeyframe(l1, 9)
	require.NoError(t, err)
	c, _ = tl.Cell(l1, 9)
	assert.True(t, c.Blank)

	p, err := tl.CopyKeyframe(l1, 9)
	require.NoError(t, err)
	assert.True(t, p.Blank)
	_, err = tl.PasteKeyframe(l1, 20, p)
	require.NoError(t, err)
	c, _ = tl.Cell(l1, 20)
	assert.True(t, c.Blank, "pasting a blank keyframe keeps it blank")

	require.NoError(t, tl.SetProperty(l1, 9, PropAlpha, FloatValue(0.5)))
	c, _ = tl.Cell(l1, 9)
	assert.False(t, c.Blank, "setting a property gives the keyframe content")
}

func TestInsertKeyframeOnEmptyLayerIsNotBlank(t *testing.T) {
	tl, l1 := newTestTimeline(t)
	_, err := tl.InsertKeyframe(l1, 10)
	require.NoError(t, err)
	c, _ := tl.Cell(l1, 10)
	assert.Equal(t, CellKeyframe, c.Kind)
	assert.False(t, c.Blank)
}
