package reanim

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/decker502/timeline/pkg/ids"
	"github.com/decker502/timeline/pkg/model"
	"github.com/decker502/timeline/pkg/timecode"
)

// 部件轨道导入后使用的自定义属性
var (
	PropImage = model.Custom("image")
	PropSkewY = model.Custom("skew_y")
)

// Result 导入统计
type Result struct {
	Layers    int
	Keyframes int
	Labels    int
}

// ImportScene 把动画导入为项目中的新场景
//
// 参数：
//   - p: 目标项目
//   - name: 场景名称
//   - r: 已解析的动画
//
// 返回：
//   - ids.SceneID: 新场景 ID
//   - Result: 导入统计
//   - error: 导入失败时新场景会被移除
func ImportScene(p *model.Project, name string, r *Reanim) (ids.SceneID, Result, error) {
	id := p.CreateScene(name)
	s, err := p.Scene(id)
	if err != nil {
		return "", Result{}, err
	}
	if r.FPS > 0 && float32(r.FPS) != s.EffectiveFPS() {
		fps := timecode.Custom(float32(r.FPS))
		s.FPSOverride = &fps
	}

	res, err := Import(s.Timeline, r)
	if err != nil {
		if _, rmErr := p.RemoveScene(id); rmErr != nil {
			log.Warn().Str("component", "Reanim").Err(rmErr).Msg("failed to remove partial scene")
		}
		return "", Result{}, err
	}
	s.MarkModified()
	return id, res, nil
}

// Import 把动画写入时间轴
//
// 部件轨道按文件顺序自下而上成为普通图层，每个有数据的帧成为关键帧；
// 片段轨道在其开始显示的帧上成为标签。
func Import(tl *model.Timeline, r *Reanim) (Result, error) {
	var res Result

	// 1. 帧数
	n := r.FrameCount()
	if n == 0 {
		return res, fmt.Errorf("reanim has no frames")
	}
	if uint32(n) > tl.FrameCount {
		if err := tl.SetFrameCount(uint32(n)); err != nil {
			return res, fmt.Errorf("failed to extend timeline: %w", err)
		}
	}

	// 2. 片段标签
	for _, t := range r.Tracks {
		if !t.IsClip() {
			continue
		}
		for _, f := range clipStarts(t) {
			if err := tl.SetLabel(model.Label{Frame: f, Text: t.Name[len(clipPrefix):]}); err != nil {
				return res, fmt.Errorf("failed to label clip %s: %w", t.Name, err)
			}
			res.Labels++
		}
	}

	// 3. 部件图层
	for _, t := range r.Tracks {
		if t.IsClip() || t.Name == "" {
			continue
		}
		layer, err := tl.AddLayer(t.Name, model.LayerNormal)
		if err != nil {
			return res, fmt.Errorf("failed to add layer %s: %w", t.Name, err)
		}
		res.Layers++
		count, err := importTrack(tl, layer, t)
		if err != nil {
			return res, fmt.Errorf("failed to import track %s: %w", t.Name, err)
		}
		res.Keyframes += count
	}

	log.Debug().Str("component", "Reanim").
		Int("frames", n).
		Int("layers", res.Layers).
		Int("keyframes", res.Keyframes).
		Int("labels", res.Labels).
		Msg("reanim imported")
	return res, nil
}

// clipStarts 返回片段由隐藏变为显示的帧
func clipStarts(t Track) []uint32 {
	var starts []uint32
	visible := false
	for i, f := range t.Frames {
		if f.FrameNum == nil {
			continue
		}
		now := *f.FrameNum >= 0
		if now && !visible {
			starts = append(starts, uint32(i))
		}
		visible = now
	}
	return starts
}

func importTrack(tl *model.Timeline, layer ids.LayerID, t Track) (int, error) {
	count := 0
	for i, f := range t.Frames {
		if f.Empty() && i > 0 {
			continue
		}
		frame := uint32(i)
		if _, err := tl.InsertKeyframe(layer, frame); err != nil {
			return count, err
		}
		count++
		for prop, v := range frameProperties(f) {
			if err := tl.SetProperty(layer, frame, prop, v); err != nil {
				return count, err
			}
		}
	}
	return count, nil
}

// frameProperties 把帧字段转换为属性；未出现的字段沿用上一关键帧
func frameProperties(f Frame) model.Properties {
	props := model.Properties{}
	setFloat := func(id model.PropertyID, v *float64) {
		if v != nil {
			props[id] = model.FloatValue(*v)
		}
	}
	setFloat(model.PropPositionX, f.X)
	setFloat(model.PropPositionY, f.Y)
	setFloat(model.PropScaleX, f.ScaleX)
	setFloat(model.PropScaleY, f.ScaleY)
	setFloat(model.PropRotation, f.SkewX)
	if f.SkewY != nil && (f.SkewX == nil || *f.SkewY != *f.SkewX) {
		props[PropSkewY] = model.FloatValue(*f.SkewY)
	}
	if f.FrameNum != nil {
		alpha := 1.0
		if *f.FrameNum < 0 {
			alpha = 0
		}
		props[model.PropAlpha] = model.FloatValue(alpha)
	}
	if f.Image != "" {
		props[PropImage] = model.StringValue(f.Image)
	}
	return props
}
