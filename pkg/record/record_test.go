package record

import (
	"errors"
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decker502/timeline/pkg/commands"
	"github.com/decker502/timeline/pkg/easing"
	"github.com/decker502/timeline/pkg/model"
	"github.com/decker502/timeline/pkg/timecode"
)

func TestMain(m *testing.M) {
	model.SetInvariantChecks(true)
	m.Run()
}

// sampleProject 两个场景：文件夹、带补间的图层、音频图层、标签与注释
func sampleProject(t *testing.T) *model.Project {
	t.Helper()
	p := model.NewProject(timecode.Custom(12.5))
	tl := p.Active().Timeline

	folder, err := tl.AddFolderLayer("Characters")
	require.NoError(t, err)
	hero, err := tl.InsertLayer("Hero", model.LayerNormal, folder, 0)
	require.NoError(t, err)

	_, err = tl.InsertKeyframe(hero, 0)
	require.NoError(t, err)
	_, err = tl.InsertKeyframe(hero, 10)
	require.NoError(t, err)
	require.NoError(t, tl.SetProperty(hero, 0, model.PropPositionX, model.FloatValue(12.5)))
	require.NoError(t, tl.SetProperty(hero, 0, model.Custom("glow"), model.ColorValue(color.RGBA{R: 255, A: 128})))
	require.NoError(t, tl.SetProperty(hero, 10, model.Custom("tag"), model.StringValue("end")))
	require.NoError(t, tl.SetProperty(hero, 10, model.Custom("xf"), model.TransformValue(model.IdentityTransform())))
	_, err = tl.CreateMotionTween(hero, 0)
	require.NoError(t, err)
	_, err = tl.InsertBlankKeyframe(hero, 30)
	require.NoError(t, err)
	prop := model.PropAlpha
	require.NoError(t, tl.SetTweenEasing(hero, 0, &prop, easing.PresetEaseIn.Curve()))

	src := model.NewAudioSource("sfx/step.wav")
	music, err := tl.AddAudioLayer("Steps", src, 4)
	require.NoError(t, err)
	require.NoError(t, tl.EditAudio(music, func(a *model.AudioTrack) error {
		a.Sync = model.SyncStream
		a.Envelope.SetPoint(20, 0.5)
		return nil
	}))

	require.NoError(t, tl.SetLabel(model.Label{Frame: 0, Text: "intro"}))
	require.NoError(t, tl.SetComment(model.Comment{
		Frame:     5,
		Text:      "tighten timing",
		Author:    "anim",
		Timestamp: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Color:     &model.DefaultCommentColor,
	}))

	second := p.CreateScene("Outro")
	s2, err := p.Scene(second)
	require.NoError(t, err)
	s2.Stage = &model.StageSize{Width: 640, Height: 480}
	return p
}

func layerNamed(r *ProjectRecord, name string) *LayerRecord {
	layers := r.Scenes[0].Timeline.Layers
	for i := range layers {
		if layers[i].Name == name {
			return &layers[i]
		}
	}
	panic("no layer " + name)
}

func TestProjectRoundTrip(t *testing.T) {
	p := sampleProject(t)

	data, err := Marshal(p)
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)

	again, err := Marshal(got)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))

	assert.Equal(t, p.ActiveID(), got.ActiveID())
	assert.Equal(t, p.Recent(), got.Recent())
	require.Equal(t, p.SceneCount(), got.SceneCount())
	assert.Equal(t, p.Active().Timeline.Export().Layers, got.Active().Timeline.Export().Layers)
}

func TestRecordFieldNames(t *testing.T) {
	data, err := Marshal(sampleProject(t))
	require.NoError(t, err)
	text := string(data)

	for _, want := range []string{
		"version: 1",
		"preset: custom",
		"fps: 12.5",
		"type: folder",
		"type: audio",
		"kind: motion",
		"sync: stream",
		"property: position_x",
		"property: custom:glow",
		"start_frame: 4",
		"blank: true",
	} {
		assert.Contains(t, text, want)
	}
}

func TestToProjectRejectsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *ProjectRecord)
	}{
		{"version", func(r *ProjectRecord) { r.Version = 99 }},
		{"missing active scene", func(r *ProjectRecord) { r.Active = "scene_missing" }},
		{"duplicate scene", func(r *ProjectRecord) { r.Scenes = append(r.Scenes, r.Scenes[0]) }},
		{"unknown recent", func(r *ProjectRecord) { r.Recent = append(r.Recent, "scene_missing") }},
		{"unknown layer type", func(r *ProjectRecord) { layerNamed(r, "Hero").Type = "bitmap" }},
		{"unknown tween kind", func(r *ProjectRecord) { layerNamed(r, "Hero").Tweens[0].Kind = "warp" }},
		{"unknown property", func(r *ProjectRecord) {
			layerNamed(r, "Hero").Keyframes[0].Properties[0].Property = "sparkle"
		}},
		{"tween end without keyframe", func(r *ProjectRecord) { layerNamed(r, "Hero").Tweens[0].End = 30 }},
		{"keyframe past end", func(r *ProjectRecord) { layerNamed(r, "Hero").Keyframes[1].Frame = 500 }},
		{"current frame past end", func(r *ProjectRecord) { r.Scenes[0].CurrentFrame = 100 }},
		{"bad sync", func(r *ProjectRecord) { layerNamed(r, "Steps").Audio.Sync = "loop" }},
		{"volume above one", func(r *ProjectRecord) { layerNamed(r, "Steps").Audio.Volume = 2 }},
		{"zero frames", func(r *ProjectRecord) { r.Scenes[1].Timeline.FrameCount = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromProject(sampleProject(t))
			tt.mutate(&r)
			_, err := ToProject(r)
			assert.Error(t, err)
		})
	}
}

func TestCurrentFrameErrorKind(t *testing.T) {
	r := FromProject(sampleProject(t))
	r.Scenes[0].CurrentFrame = 100
	_, err := ToProject(r)
	var oor *model.FrameOutOfRangeError
	require.True(t, errors.As(err, &oor))
	assert.Equal(t, uint32(99), oor.Max)
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := Decode([]byte("version: 1\nbogus: true\n"))
	assert.Error(t, err)
}

func TestValueRecords(t *testing.T) {
	values := []model.Value{
		model.BoolValue(true),
		model.IntValue(-7),
		model.FloatValue(0.25),
		model.StringValue("walk"),
		model.ColorValue(color.RGBA{R: 1, G: 2, B: 3, A: 4}),
		model.TransformValue(model.Transform{X: 1, Y: 2, Rotation: 90, ScaleX: 2, ScaleY: 3, SkewX: 0.1}),
	}
	for _, v := range values {
		t.Run(v.String(), func(t *testing.T) {
			got, err := ToValue(FromValue(v))
			require.NoError(t, err)
			assert.Equal(t, v, got)
		})
	}

	_, err := ToValue(ValueRecord{Type: "color"})
	assert.Error(t, err)
	_, err = ToValue(ValueRecord{Type: "matrix"})
	assert.Error(t, err)
}

func TestClipText(t *testing.T) {
	curve := easing.PresetEaseOut.Curve()
	entries := []commands.ClipEntry{
		{
			Row:    0,
			Offset: 0,
			Payload: model.Payload{
				Props: model.Properties{model.PropAlpha: model.FloatValue(0.5)},
				Tween: &model.TweenDescriptor{Kind: model.TweenShape, Easing: curve},
			},
		},
		{
			Row:     1,
			Offset:  3,
			Payload: model.Payload{Props: model.Properties{}, Blank: true},
		},
	}

	data, err := EncodeClip(entries)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "format: "+ClipFormat))

	got, err := DecodeClip(data)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[1].Row)
	assert.Equal(t, uint32(3), got[1].Offset)
	assert.True(t, entries[0].Payload.Equal(got[0].Payload))
	assert.True(t, entries[1].Payload.Equal(got[1].Payload))
	assert.True(t, got[1].Payload.Blank)

	_, err = DecodeClip([]byte("hello world"))
	assert.Error(t, err)
	_, err = DecodeClip([]byte("format: other\n"))
	assert.Error(t, err)
}

func TestFromProjectKeepsIDs(t *testing.T) {
	p := sampleProject(t)
	r := FromProject(p)
	got, err := ToProject(r)
	require.NoError(t, err)

	want := p.Active().Timeline.LayerIDs()
	assert.Equal(t, want, got.Active().Timeline.LayerIDs())
	for _, id := range want {
		assert.True(t, strings.HasPrefix(string(id), "layer_"))
	}
	assert.Equal(t, r.Active, got.ActiveID())
}
