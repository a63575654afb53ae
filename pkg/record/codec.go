package record

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/decker502/timeline/pkg/commands"
	"github.com/decker502/timeline/pkg/easing"
	"github.com/decker502/timeline/pkg/model"
)

// Encode 把记录编码为 YAML
func Encode(r ProjectRecord) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return nil, fmt.Errorf("encode project: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode project: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode 解析 YAML 记录；未知字段被拒绝
func Decode(data []byte) (ProjectRecord, error) {
	var r ProjectRecord
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&r); err != nil {
		return ProjectRecord{}, fmt.Errorf("decode project: %w", err)
	}
	return r, nil
}

// Marshal 项目 → YAML
func Marshal(p *model.Project) ([]byte, error) {
	return Encode(FromProject(p))
}

// Unmarshal YAML → 项目
func Unmarshal(data []byte) (*model.Project, error) {
	r, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return ToProject(r)
}

// ClipRecord 关键帧剪贴板的文本格式，用于与系统剪贴板交换
type ClipRecord struct {
	Format  string            `yaml:"format"`
	Entries []ClipEntryRecord `yaml:"entries"`
}

// ClipEntryRecord 剪贴板中的一个关键帧
type ClipEntryRecord struct {
	Row        int              `yaml:"row"`
	Offset     uint32           `yaml:"offset"`
	Properties []PropertyRecord `yaml:"properties,omitempty"`
	Tween      *ClipTweenRecord `yaml:"tween,omitempty"`
	Blank      bool             `yaml:"blank,omitempty"`
}

// ClipTweenRecord 关键帧的出补间描述
type ClipTweenRecord struct {
	Kind           string             `yaml:"kind"`
	Easing         easing.BezierCurve `yaml:"easing"`
	PropertyEasing []CurveRecord      `yaml:"property_easing,omitempty"`
}

// ClipFormat 剪贴板文本的格式标识
const ClipFormat = "timeline/keyframes.v1"

// EncodeClip 把剪贴板内容编码为文本
func EncodeClip(entries []commands.ClipEntry) ([]byte, error) {
	r := ClipRecord{Format: ClipFormat}
	for _, e := range entries {
		er := ClipEntryRecord{Row: e.Row, Offset: e.Offset, Properties: FromProperties(e.Payload.Props), Blank: e.Payload.Blank}
		if t := e.Payload.Tween; t != nil {
			er.Tween = &ClipTweenRecord{
				Kind:           t.Kind.String(),
				Easing:         t.Easing.Clone(),
				PropertyEasing: fromCurves(t.PropertyEasing),
			}
		}
		r.Entries = append(r.Entries, er)
	}
	data, err := yaml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode clipboard: %w", err)
	}
	return data, nil
}

// DecodeClip 解析剪贴板文本
//
// 返回：
//   - []commands.ClipEntry: 关键帧
//   - error: 文本不是关键帧剪贴板格式
func DecodeClip(data []byte) ([]commands.ClipEntry, error) {
	var r ClipRecord
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode clipboard: %w", err)
	}
	if r.Format != ClipFormat {
		return nil, fmt.Errorf("clipboard format %q is not %q", r.Format, ClipFormat)
	}
	out := make([]commands.ClipEntry, 0, len(r.Entries))
	for i, er := range r.Entries {
		if er.Row < 0 {
			return nil, fmt.Errorf("clipboard entry %d: negative row", i)
		}
		props, err := ToProperties(er.Properties)
		if err != nil {
			return nil, fmt.Errorf("clipboard entry %d: %w", i, err)
		}
		p := model.Payload{Props: props, Blank: er.Blank}
		if er.Tween != nil {
			kind, err := model.ParseTweenKind(er.Tween.Kind)
			if err != nil {
				return nil, fmt.Errorf("clipboard entry %d: %w", i, err)
			}
			if err := er.Tween.Easing.Validate(); err != nil {
				return nil, fmt.Errorf("clipboard entry %d: %w", i, err)
			}
			curves, err := toCurves(er.Tween.PropertyEasing)
			if err != nil {
				return nil, fmt.Errorf("clipboard entry %d: %w", i, err)
			}
			p.Tween = &model.TweenDescriptor{Kind: kind, Easing: er.Tween.Easing.Clone(), PropertyEasing: curves}
		}
		out = append(out, commands.ClipEntry{Row: er.Row, Offset: er.Offset, Payload: p})
	}
	return out, nil
}
