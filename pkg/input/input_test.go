package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModifiers(t *testing.T) {
	tests := []struct {
		name     string
		mods     Modifiers
		command  bool
		extend   bool
		bypass   bool
		rendered string
	}{
		{"none", 0, false, false, false, ""},
		{"ctrl", ModCtrl, true, false, false, "Ctrl"},
		{"cmd", ModMeta, true, false, false, "Cmd"},
		{"shift", ModShift, false, true, true, "Shift"},
		{"ctrl shift", ModCtrl | ModShift, true, true, true, "Ctrl+Shift"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.command, tt.mods.Command())
			assert.Equal(t, tt.command, tt.mods.Additive())
			assert.Equal(t, tt.extend, tt.mods.Extend())
			assert.Equal(t, tt.bypass, tt.mods.BypassSnap())
			assert.Equal(t, tt.rendered, tt.mods.String())
		})
	}
}

func TestConstructors(t *testing.T) {
	e := Press(10, 20, ButtonSecondary, ModAlt)
	assert.Equal(t, PointerPress, e.Kind)
	assert.Equal(t, ButtonSecondary, e.Button)
	assert.True(t, e.Mods.Has(ModAlt))

	w := WheelAt(1, 2, 0, -3, ModCtrl)
	assert.Equal(t, Wheel, w.Kind)
	assert.Equal(t, -3.0, w.DY)

	k := Keystroke(KeyF6, ModShift)
	assert.Equal(t, "F6", k.Key.String())
	assert.Equal(t, "KeyPress", k.Kind.String())
	assert.Equal(t, CaptureLost, Lost().Kind)
	assert.Equal(t, "abc", Typed("abc").Text)
}
