package reanim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/decker502/timeline/pkg/model"
	"github.com/decker502/timeline/pkg/timecode"
)

const sample = `<fps>12</fps>
<track><name>anim_idle</name>
<t><f>0</f></t><t></t><t></t><t><f>-1</f></t><t></t><t></t>
</track>
<track><name>anim_blink</name>
<t><f>-1</f></t><t></t><t></t><t><f>0</f></t><t></t><t></t>
</track>
<track><name>body</name>
<t><x>10</x><y>20</y><sx>1</sx><sy>1</sy><kx>0</kx><ky>0</ky><f>0</f><i>IMAGE_BODY</i></t>
<t></t>
<t><x>12</x></t>
<t></t><t></t>
<t><f>-1</f></t>
</track>
<track><name>head</name>
<t><x>5</x><kx>10</kx><ky>15</ky></t>
</track>
`

func TestParse(t *testing.T) {
	r, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if r.FPS != 12 {
		t.Errorf("Expected FPS=12, got %d", r.FPS)
	}
	if len(r.Tracks) != 4 {
		t.Fatalf("Expected 4 tracks, got %d", len(r.Tracks))
	}
	if !r.Tracks[0].IsClip() || r.Tracks[2].IsClip() {
		t.Errorf("Clip detection wrong: %v %v", r.Tracks[0].IsClip(), r.Tracks[2].IsClip())
	}
	if r.FrameCount() != 6 {
		t.Errorf("Expected 6 frames, got %d", r.FrameCount())
	}

	body := r.Tracks[2]
	if body.Frames[0].X == nil || *body.Frames[0].X != 10 {
		t.Errorf("Expected body x=10 at frame 0")
	}
	if !body.Frames[1].Empty() {
		t.Errorf("Expected frame 1 to be empty")
	}
	if body.Frames[0].Image != "IMAGE_BODY" {
		t.Errorf("Expected image IMAGE_BODY, got %q", body.Frames[0].Image)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"broken xml", "<track><name>a</name>"},
		{"negative fps", "<fps>-1</fps>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Errorf("Expected error for %s", tt.name)
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Hero.reanim")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if len(r.Tracks) != 4 {
		t.Errorf("Expected 4 tracks, got %d", len(r.Tracks))
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.reanim")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func layerByName(t *testing.T, tl *model.Timeline, name string) *model.Layer {
	t.Helper()
	for _, id := range tl.LayerIDs() {
		l, err := tl.Layer(id)
		if err != nil {
			t.Fatal(err)
		}
		if l.Name == name {
			return l
		}
	}
	t.Fatalf("layer %q not found", name)
	return nil
}

func TestImportScene(t *testing.T) {
	r, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	p := model.NewProject(timecode.Film)

	id, res, err := ImportScene(p, "Hero", r)
	if err != nil {
		t.Fatalf("ImportScene failed: %v", err)
	}
	if res.Layers != 2 || res.Labels != 2 || res.Keyframes != 4 {
		t.Errorf("Unexpected result %+v", res)
	}

	s, err := p.Scene(id)
	if err != nil {
		t.Fatal(err)
	}
	if s.EffectiveFPS() != 12 {
		t.Errorf("Expected scene fps 12, got %v", s.EffectiveFPS())
	}
	if !s.Modified {
		t.Error("Expected imported scene to be modified")
	}

	labels := s.Timeline.Labels()
	if len(labels) != 2 || labels[0].Text != "idle" || labels[0].Frame != 0 || labels[1].Text != "blink" || labels[1].Frame != 3 {
		t.Errorf("Unexpected labels %+v", labels)
	}

	body := layerByName(t, s.Timeline, "body")
	if got := body.KeyframeFrames(); len(got) != 3 || got[0] != 0 || got[1] != 2 || got[2] != 5 {
		t.Errorf("Unexpected body keyframes %v", got)
	}

	tl := s.Timeline
	x, ok, err := tl.PropertyAt(body.ID, 2, model.PropPositionX)
	if err != nil || !ok || x.Float != 12 {
		t.Errorf("Expected x=12 at frame 2, got %v (%v, %v)", x, ok, err)
	}
	y, ok, _ := tl.PropertyAt(body.ID, 2, model.PropPositionY)
	if !ok || y.Float != 20 {
		t.Errorf("Expected inherited y=20 at frame 2, got %v", y)
	}
	a, ok, _ := tl.PropertyAt(body.ID, 5, model.PropAlpha)
	if !ok || a.Float != 0 {
		t.Errorf("Expected alpha=0 at frame 5, got %v", a)
	}
	img, ok, _ := tl.PropertyAt(body.ID, 5, PropImage)
	if !ok || img.Str != "IMAGE_BODY" {
		t.Errorf("Expected inherited image, got %v", img)
	}

	head := layerByName(t, tl, "head")
	rot, _, _ := tl.PropertyAt(head.ID, 0, model.PropRotation)
	skew, ok, _ := tl.PropertyAt(head.ID, 0, PropSkewY)
	if rot.Float != 10 || !ok || skew.Float != 15 {
		t.Errorf("Expected rotation 10 and skew_y 15, got %v %v", rot, skew)
	}
}

func TestImportEmpty(t *testing.T) {
	p := model.NewProject(timecode.Film)
	before := p.SceneCount()
	if _, _, err := ImportScene(p, "Empty", &Reanim{FPS: 12}); err == nil {
		t.Error("Expected error for empty reanim")
	}
	if p.SceneCount() != before {
		t.Errorf("Expected partial scene to be removed, have %d scenes", p.SceneCount())
	}
}
