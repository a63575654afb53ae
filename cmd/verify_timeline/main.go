// verify_timeline 无窗口运行时间轴端到端场景并输出 PASS/FAIL 报告
//
// 用法：
//
//	go run ./cmd/verify_timeline [-verbose]
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/decker502/timeline/pkg/commands"
	"github.com/decker502/timeline/pkg/engine"
	"github.com/decker502/timeline/pkg/ids"
	"github.com/decker502/timeline/pkg/input"
	"github.com/decker502/timeline/pkg/model"
	"github.com/decker502/timeline/pkg/timecode"
	"github.com/decker502/timeline/pkg/timeline"
)

// ValidationReport 单个场景的结果
type ValidationReport struct {
	TestName string
	Passed   bool
	Message  string
}

var validationReports []ValidationReport

func addReport(testName string, passed bool, message string) {
	validationReports = append(validationReports, ValidationReport{
		TestName: testName,
		Passed:   passed,
		Message:  message,
	})
	ev := log.Info()
	status := "✓ PASS"
	if !passed {
		ev = log.Error()
		status = "✗ FAIL"
	}
	ev.Str("component", "Verify").Msg(fmt.Sprintf("%s | %-28s | %s", status, testName, message))
}

// fixture 100 帧 24fps 的单图层场景
type fixture struct {
	eng   *engine.Memory
	tl    *timeline.Timeline
	layer ids.LayerID
}

func newFixture() (*fixture, error) {
	p := model.NewProject(timecode.Film)
	if err := p.Active().Timeline.SetFrameCount(100); err != nil {
		return nil, err
	}
	eng := engine.NewMemory(p)
	tl, err := timeline.New(eng, nil, timeline.Hooks{})
	if err != nil {
		return nil, err
	}
	layer, err := eng.AddLayer("L1", model.LayerNormal)
	if err != nil {
		return nil, err
	}
	return &fixture{eng: eng, tl: tl, layer: layer}, nil
}

// cell 图层第一行 frame 帧中心的屏幕坐标
func (f *fixture) cell(frame uint32) (float64, float64) {
	m := f.tl.Viewport().Metrics
	return m.LayerPanelWidth + (float64(frame)+0.5)*m.FrameWidth, m.RulerHeight + m.TrackHeight/2
}

func (f *fixture) frameOf(id ids.KeyframeID) (uint32, bool) {
	kfs, err := f.eng.Keyframes(f.layer)
	if err != nil {
		return 0, false
	}
	for _, k := range kfs {
		if k.ID == id {
			return k.Frame, true
		}
	}
	return 0, false
}

func main() {
	_ = godotenv.Load()
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	scenarios := []struct {
		name string
		run  func(f *fixture) (bool, string)
	}{
		{"S1 创建关键帧", verifyCreateKeyframe},
		{"S2 补间拆分", verifyTweenSplit},
		{"S3 播放头吸附", verifyScrubSnap},
		{"S4 多选拖动", verifyMultiDrag},
		{"S5 音量包络", verifyEnvelope},
		{"S6 播放与定位", verifyPlaySeek},
	}
	for _, s := range scenarios {
		f, err := newFixture()
		if err != nil {
			addReport(s.name, false, "fixture: "+err.Error())
			continue
		}
		passed, msg := s.run(f)
		addReport(s.name, passed, msg)
	}

	failed := 0
	for _, r := range validationReports {
		if !r.Passed {
			failed++
		}
	}
	log.Info().Str("component", "Verify").
		Int("total", len(validationReports)).
		Int("failed", failed).
		Msg("verification finished")
	if failed > 0 {
		os.Exit(1)
	}
}

func verifyCreateKeyframe(f *fixture) (bool, string) {
	out := f.tl.Execute(commands.InsertKeyframe(f.layer, 10))
	if !out.OK() {
		return false, "command failed: " + out.Message()
	}
	fd, err := f.eng.FrameData(f.layer, 10)
	if err != nil || fd.Type != engine.FrameKeyframe {
		return false, fmt.Sprintf("frame 10 type %v, err %v", fd.Type, err)
	}
	kfs, _ := f.eng.Keyframes(f.layer)
	for _, k := range kfs {
		if k.Frame == 10 && k.Type == engine.KeyframeKey {
			return true, "keyframe at (L1, 10)"
		}
	}
	return false, "keyframe missing from enumeration"
}

func verifyTweenSplit(f *fixture) (bool, string) {
	// 1. 0 和 20 两个关键帧，x 从 0 到 1
	for _, fr := range []uint32{0, 20} {
		if _, err := f.eng.InsertKeyframe(f.layer, fr); err != nil {
			return false, err.Error()
		}
		if err := f.eng.SetProperty(f.layer, fr, model.PropPositionX, model.FloatValue(float64(fr)/20)); err != nil {
			return false, err.Error()
		}
	}
	if out := f.tl.Execute(commands.CreateTween(f.layer, 0, model.TweenMotion)); !out.OK() {
		return false, "create tween: " + out.Message()
	}
	before, _, _ := f.eng.Property(f.layer, 10, model.PropPositionX)

	// 2. 在中点插入关键帧
	if out := f.tl.Execute(commands.InsertKeyframe(f.layer, 10)); !out.OK() {
		return false, "insert keyframe: " + out.Message()
	}
	left, ok1, _ := f.eng.Tween(f.layer, 5)
	right, ok2, _ := f.eng.Tween(f.layer, 15)
	if !ok1 || !ok2 || left.Start != 0 || left.End != 10 || right.Start != 10 || right.End != 20 {
		return false, fmt.Sprintf("tweens [%d,%d] [%d,%d]", left.Start, left.End, right.Start, right.End)
	}
	if left.ID == right.ID {
		return false, "split tweens share an id"
	}
	after, _, _ := f.eng.Property(f.layer, 10, model.PropPositionX)
	if math.Abs(before.Float-0.5) > 1e-6 || math.Abs(after.Float-0.5) > 1e-6 {
		return false, fmt.Sprintf("value at frame 10: before %v after %v", before.Float, after.Float)
	}
	return true, "[0,10] + [10,20], value 0.5 preserved"
}

func verifyScrubSnap(f *fixture) (bool, string) {
	m := f.tl.Viewport().Metrics
	x, y := m.LayerPanelWidth+52, m.RulerHeight/2

	f.tl.Update([]input.Event{input.Press(x, y, input.ButtonPrimary, 0)}, 0)
	guides := append([]float64(nil), f.tl.State().Guides...)
	if f.eng.CurrentFrame() != 5 || len(guides) != 1 || guides[0] != 50 {
		return false, fmt.Sprintf("frame %d guides %v", f.eng.CurrentFrame(), guides)
	}

	f.tl.Update([]input.Event{
		input.Move(x, y, input.ModShift),
		input.Release(x, y, input.ButtonPrimary, input.ModShift),
	}, 0)
	if f.eng.CurrentFrame() != 5 || len(f.tl.State().Guides) != 0 {
		return false, fmt.Sprintf("shift: frame %d guides %v", f.eng.CurrentFrame(), f.tl.State().Guides)
	}
	return true, "frame 5, guide [50]; shift bypasses guides"
}

func verifyMultiDrag(f *fixture) (bool, string) {
	k5, err := f.eng.InsertKeyframe(f.layer, 5)
	if err != nil {
		return false, err.Error()
	}
	k10, err := f.eng.InsertKeyframe(f.layer, 10)
	if err != nil {
		return false, err.Error()
	}

	// 1. 点击 + Ctrl 点击选中两个关键帧
	x5, y := f.cell(5)
	x10, _ := f.cell(10)
	x8, _ := f.cell(8)
	f.tl.Update([]input.Event{
		input.Press(x5, y, input.ButtonPrimary, 0),
		input.Release(x5, y, input.ButtonPrimary, 0),
		input.Press(x10, y, input.ButtonPrimary, input.ModCtrl),
		input.Release(x10, y, input.ButtonPrimary, input.ModCtrl),
	}, 0)
	if n := len(f.tl.State().Selection.Keyframes()); n != 2 {
		return false, fmt.Sprintf("selected %d keyframes", n)
	}

	// 2. 拖动锚点 5 → 8
	f.tl.Update([]input.Event{
		input.Press(x5, y, input.ButtonPrimary, 0),
		input.Move(x8, y, 0),
		input.Release(x8, y, input.ButtonPrimary, 0),
	}, 0)
	a, _ := f.frameOf(k5)
	b, _ := f.frameOf(k10)
	if a != 8 || b != 13 {
		return false, fmt.Sprintf("after drag: %d, %d", a, b)
	}

	// 3. 一次撤销
	f.tl.Undo()
	a, _ = f.frameOf(k5)
	b, _ = f.frameOf(k10)
	if a != 5 || b != 10 {
		return false, fmt.Sprintf("after undo: %d, %d", a, b)
	}
	return true, "(5,10) → (8,13), undo restores"
}

func verifyEnvelope(_ *fixture) (bool, string) {
	env := model.EnvelopeFromPoints([]model.EnvelopePoint{
		{Frame: 0, Volume: 1.0},
		{Frame: 10, Volume: 0.0},
		{Frame: 20, Volume: 0.5},
	})
	want := map[uint32]float32{0: 1.0, 5: 0.5, 10: 0.0, 15: 0.25, 20: 0.5, 25: 0.5}
	for _, fr := range []uint32{0, 5, 10, 15, 20, 25} {
		if got := env.VolumeAt(fr); math.Abs(float64(got-want[fr])) > 1e-6 {
			return false, fmt.Sprintf("frame %d: got %v want %v", fr, got, want[fr])
		}
	}
	return true, "1.0 0.5 0.0 0.25 0.5 0.5"
}

func verifyPlaySeek(f *fixture) (bool, string) {
	pc := f.tl.Playback()
	pc.Play()
	f.tl.Update(nil, time.Second)
	pc.Pause()
	if fr := f.eng.CurrentFrame(); fr < 23 || fr > 25 {
		return false, fmt.Sprintf("after 1s at 24fps: frame %d", fr)
	}
	if err := pc.Seek(50); err != nil {
		return false, err.Error()
	}
	if f.eng.CurrentFrame() != 50 || pc.Accumulator() != 0 {
		return false, fmt.Sprintf("seek: frame %d acc %v", f.eng.CurrentFrame(), pc.Accumulator())
	}
	return true, "frame 24 after 1s, seek 50 clears accumulator"
}
