package ebitenhost

import (
	"errors"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decker502/timeline/pkg/commands"
	"github.com/decker502/timeline/pkg/input"
	"github.com/decker502/timeline/pkg/model"
)

func TestModifiers(t *testing.T) {
	tests := []struct {
		name    string
		pressed []ebiten.Key
		want    input.Modifiers
	}{
		{"none", nil, 0},
		{"shift", []ebiten.Key{ebiten.KeyShift}, input.ModShift},
		{"ctrl alt", []ebiten.Key{ebiten.KeyControl, ebiten.KeyAlt}, input.ModCtrl | input.ModAlt},
		{"meta", []ebiten.Key{ebiten.KeyMeta}, input.ModMeta},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := modifiers(func(k ebiten.Key) bool {
				for _, p := range tt.pressed {
					if p == k {
						return true
					}
				}
				return false
			})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFires(t *testing.T) {
	assert.True(t, fires(ebiten.KeyZ, 1))
	assert.False(t, fires(ebiten.KeyZ, repeatDelay))
	assert.False(t, fires(ebiten.KeyArrowRight, 2))
	assert.True(t, fires(ebiten.KeyArrowRight, repeatDelay))
	assert.False(t, fires(ebiten.KeyArrowRight, repeatDelay+1))
	assert.True(t, fires(ebiten.KeyArrowRight, repeatDelay+repeatInterval))
}

func TestKeyMapCoversInputKeys(t *testing.T) {
	mapped := map[input.Key]bool{}
	for _, k := range keyMap {
		mapped[k] = true
	}
	for k := input.KeySpace; k <= input.KeyEnter; k++ {
		assert.True(t, mapped[k], "key %s has no ebiten binding", k)
	}
}

type fakeClipboard struct {
	text string
	err  error
}

func (f *fakeClipboard) ReadAll() (string, error) { return f.text, f.err }

func (f *fakeClipboard) WriteAll(text string) error {
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}

func TestClipboardBridge(t *testing.T) {
	fake := &fakeClipboard{}
	b := &ClipboardBridge{cb: fake}

	entries := []commands.ClipEntry{
		{
			Row:     0,
			Offset:  2,
			Payload: model.Payload{Props: model.Properties{model.PropAlpha: model.FloatValue(0.25)}},
		},
	}
	b.Copied(entries)
	require.NotEmpty(t, fake.text)

	got, ok := b.Fetch()
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, uint32(2), got[0].Offset)
	assert.True(t, entries[0].Payload.Equal(got[0].Payload))
}

func TestClipboardBridgeForeignText(t *testing.T) {
	b := &ClipboardBridge{cb: &fakeClipboard{text: "hello"}}
	_, ok := b.Fetch()
	assert.False(t, ok)

	b = &ClipboardBridge{cb: &fakeClipboard{err: errors.New("no clipboard")}}
	_, ok = b.Fetch()
	assert.False(t, ok)
	b.Copied(nil)
}

func TestClipboardBridgeUnavailable(t *testing.T) {
	b := &ClipboardBridge{}
	b.Copied([]commands.ClipEntry{{}})
	_, ok := b.Fetch()
	assert.False(t, ok)
}
