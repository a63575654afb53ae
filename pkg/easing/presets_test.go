package easing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPresetsAreValidCurves(t *testing.T) {
	for _, p := range AllPresets() {
		t.Run(p.Name(), func(t *testing.T) {
			c := p.Curve()
			if err := c.Validate(); err != nil {
				t.Fatalf("preset %s invalid: %v", p.Name(), err)
			}
			assert.InDelta(t, 0, c.Evaluate(0), 1e-4)
			assert.InDelta(t, 1, c.Evaluate(1), 1e-4)
		})
	}
}

func TestPresetCurvesApproximateFunctions(t *testing.T) {
	tests := []struct {
		preset Preset
		f      Func
		tol    float64
	}{
		{PresetEaseInQuad, EaseInQuad, 0.05},
		{PresetEaseOutQuad, EaseOutQuad, 0.05},
		{PresetEaseInCubic, EaseInCubic, 0.05},
		{PresetEaseOutCubic, EaseOutCubic, 0.05},
		{PresetEaseInOutCubic, EaseInOutCubic, 0.05},
		{PresetEaseOutBounce, EaseOutBounce, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.preset.Name(), func(t *testing.T) {
			c := tt.preset.Curve()
			for i := 0; i <= 20; i++ {
				x := float64(i) / 20
				want := math.Max(0, math.Min(1, tt.f(x)))
				got := float64(c.Evaluate(float32(x)))
				if math.Abs(got-want) > tt.tol {
					t.Errorf("%s at %v: got %v, want %v", tt.preset.Name(), x, got, want)
				}
			}
		})
	}
}

func TestPresetNamesAndIdentify(t *testing.T) {
	assert.Len(t, AllPresets(), 16)
	assert.Equal(t, "Ease In-Out Bounce", PresetEaseInOutBounce.Name())
	assert.Equal(t, "Custom", PresetCustom.Name())
	assert.Equal(t, PresetEaseOutQuad, Identify(PresetEaseOutQuad.Curve()))

	c := Linear()
	_, _ = c.AddPoint(0.5, 0.1)
	assert.Equal(t, PresetCustom, Identify(c))
	assert.True(t, PresetCustom.Curve().Equal(Linear()))
}

func TestAnalyticFunctionsEndpoints(t *testing.T) {
	funcs := map[string]Func{
		"InQuad": EaseInQuad, "OutQuad": EaseOutQuad, "InCubic": EaseInCubic,
		"OutCubic": EaseOutCubic, "InOutCubic": EaseInOutCubic,
		"InElastic": EaseInElastic, "OutElastic": EaseOutElastic, "InOutElastic": EaseInOutElastic,
		"InBounce": EaseInBounce, "OutBounce": EaseOutBounce, "InOutBounce": EaseInOutBounce,
	}
	for name, f := range funcs {
		t.Run(name, func(t *testing.T) {
			assert.InDelta(t, 0, f(0), 1e-3)
			assert.InDelta(t, 1, f(1), 1e-3)
		})
	}
	assert.Equal(t, 5.0, Lerp(0, 10, 0.5))
}
