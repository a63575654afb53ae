package easing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearIsIdentity(t *testing.T) {
	c := Linear()
	for i := 0; i <= 1000; i++ {
		x := float32(i) / 1000
		got := c.Evaluate(x)
		if math.Abs(float64(got-x)) > 1e-6 {
			t.Fatalf("Linear.Evaluate(%v): got %v, want %v", x, got, x)
		}
	}
}

func TestEvaluateClampsInput(t *testing.T) {
	c := PresetEaseInOut.Curve()
	assert.Equal(t, float32(0), c.Evaluate(-1))
	assert.Equal(t, float32(1), c.Evaluate(2))
}

func TestEvaluateTwoPointMatchesCubicBezier(t *testing.T) {
	// ease-in-out 在中点对称
	c := PresetEaseInOut.Curve()
	assert.InDelta(t, 0.5, c.Evaluate(0.5), 1e-5)

	// ease-in 在前半段慢于线性，ease-out 快于线性
	for _, x := range []float32{0.1, 0.25, 0.4} {
		assert.Less(t, PresetEaseIn.Curve().Evaluate(x), x)
		assert.Greater(t, PresetEaseOut.Curve().Evaluate(x), x)
	}
}

func TestEvaluateOutputClamped(t *testing.T) {
	// 手柄把曲线推到 [0,1] 之外
	c := BezierCurve{Points: []BezierPoint{
		{Pos: Vec2{0, 0}, Out: Vec2{0.3, 2}},
		{Pos: Vec2{1, 1}, In: Vec2{-0.3, 2}},
	}}
	for _, s := range c.Sample(200) {
		assert.GreaterOrEqual(t, s.Y, float32(0))
		assert.LessOrEqual(t, s.Y, float32(1))
	}
}

func TestMultiPointCurve(t *testing.T) {
	c := Linear()
	idx, err := c.AddPoint(0.5, 0.8)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	require.NoError(t, c.Validate())

	assert.InDelta(t, 0.8, c.Evaluate(0.5), 1e-5)
	assert.InDelta(t, 0, c.Evaluate(0), 1e-6)
	assert.InDelta(t, 1, c.Evaluate(1), 1e-6)

	first := c.Evaluate(0.25)
	assert.Greater(t, first, float32(0))
	assert.Less(t, first, float32(0.8))
}

func TestSampleDensity(t *testing.T) {
	assert.Len(t, Linear().Sample(10), MinSamples+1)
	assert.Len(t, Linear().Sample(250), 251)
}

func TestAddPointRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		t    float32
		want error
	}{
		{"at start", 0, ErrPointIndex},
		{"at end", 1, ErrPointIndex},
		{"outside", 1.5, ErrPointIndex},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Linear()
			_, err := c.AddPoint(tt.t, 0.5)
			assert.ErrorIs(t, err, tt.want)
			assert.Len(t, c.Points, 2)
		})
	}

	c := Linear()
	_, err := c.AddPoint(0.5, 0.5)
	require.NoError(t, err)
	_, err = c.AddPoint(0.5, 0.2)
	assert.ErrorIs(t, err, ErrPointOccupied)
}

func TestDeletePoint(t *testing.T) {
	c := Linear()
	assert.ErrorIs(t, c.DeletePoint(0), ErrTooFewPoints)

	_, err := c.AddPoint(0.3, 0.3)
	require.NoError(t, err)
	_, err = c.AddPoint(0.6, 0.6)
	require.NoError(t, err)

	assert.ErrorIs(t, c.DeletePoint(0), ErrEndpoint)
	assert.ErrorIs(t, c.DeletePoint(3), ErrEndpoint)
	assert.ErrorIs(t, c.DeletePoint(7), ErrPointIndex)
	require.NoError(t, c.DeletePoint(1))
	assert.Len(t, c.Points, 3)
	assert.InDelta(t, 0.6, c.Points[1].Pos.X, 1e-6)
}

func TestMovePointClampsT(t *testing.T) {
	c := Linear()
	_, err := c.AddPoint(0.3, 0.3)
	require.NoError(t, err)
	_, err = c.AddPoint(0.6, 0.6)
	require.NoError(t, err)

	require.NoError(t, c.MovePoint(1, 0.9, 1.4))
	assert.Less(t, c.Points[1].Pos.X, c.Points[2].Pos.X)
	assert.Equal(t, float32(1), c.Points[1].Pos.Y)

	require.NoError(t, c.MovePoint(2, -3, 0.5))
	assert.Greater(t, c.Points[2].Pos.X, c.Points[1].Pos.X)

	require.NoError(t, c.MovePoint(0, 0.5, 0.2))
	assert.Equal(t, float32(0), c.Points[0].Pos.X)
	require.NoError(t, c.MovePoint(3, 0.5, 0.9))
	assert.Equal(t, float32(1), c.Points[3].Pos.X)

	require.NoError(t, c.Validate())
	assert.ErrorIs(t, c.MovePoint(9, 0, 0), ErrPointIndex)
}

func TestMovePointNaNAndCrowdedNeighbours(t *testing.T) {
	c := Linear()
	_, err := c.AddPoint(0.5, 0.5)
	require.NoError(t, err)
	nan := float32(math.NaN())

	require.NoError(t, c.MovePoint(1, nan, nan))
	assert.False(t, math.IsNaN(float64(c.Points[1].Pos.X)))
	assert.Equal(t, float32(0), c.Points[1].Pos.Y)
	require.NoError(t, c.Validate())

	// 两个邻点之间容不下 pointEpsilon 间隔时取中点
	c.Points = []BezierPoint{
		{Pos: Vec2{X: 0, Y: 0}},
		{Pos: Vec2{X: 0.5, Y: 0.5}},
		{Pos: Vec2{X: 0.50005, Y: 0.5}},
		{Pos: Vec2{X: 0.5001, Y: 0.5}},
		{Pos: Vec2{X: 1, Y: 1}},
	}
	require.NoError(t, c.MovePoint(2, 0.9, 0.3))
	assert.InDelta(t, 0.50005, c.Points[2].Pos.X, 1e-6)
	assert.Equal(t, float32(0.3), c.Points[2].Pos.Y)
	require.NoError(t, c.Validate())
}

func TestMoveHandleUnbounded(t *testing.T) {
	c := Linear()
	require.NoError(t, c.MoveHandle(0, HandleOut, Vec2{0.5, 3}))
	assert.Equal(t, Vec2{0.5, 3}, c.Points[0].Out)
	require.NoError(t, c.MoveHandle(1, HandleIn, Vec2{-2, -2}))
	assert.Equal(t, Vec2{-2, -2}, c.Points[1].In)
	assert.ErrorIs(t, c.MoveHandle(5, HandleIn, Vec2{}), ErrPointIndex)
}

func TestCloneIsIndependent(t *testing.T) {
	c := Linear()
	d := c.Clone()
	require.NoError(t, d.MoveHandle(0, HandleOut, Vec2{0.1, 0.9}))
	assert.False(t, c.Equal(d))
	assert.True(t, c.Equal(Linear()))
}

func TestNearestPoint(t *testing.T) {
	c := Linear()
	i, _ := c.NearestPoint(0.9, 0.95)
	assert.Equal(t, 1, i)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Linear().Validate())
	assert.Error(t, BezierCurve{}.Validate())
	bad := Linear()
	bad.Points[0].Pos.X = 0.1
	assert.Error(t, bad.Validate())
}
