package commands

import (
	"sort"

	"github.com/decker502/timeline/pkg/engine"
	"github.com/decker502/timeline/pkg/ids"
	"github.com/decker502/timeline/pkg/model"
	"github.com/decker502/timeline/pkg/selection"
)

// ClipEntry 剪贴板中的一个关键帧，位置相对于复制区域的左上角
type ClipEntry struct {
	Row     int
	Offset  uint32
	Payload model.Payload
}

// Clipboard 进程内关键帧剪贴板
type Clipboard struct {
	entries []ClipEntry
}

// Empty 剪贴板是否为空
func (c *Clipboard) Empty() bool { return len(c.entries) == 0 }

// Entries 返回内容副本
func (c *Clipboard) Entries() []ClipEntry {
	out := make([]ClipEntry, len(c.entries))
	for i, e := range c.entries {
		out[i] = ClipEntry{Row: e.Row, Offset: e.Offset, Payload: e.Payload.Clone()}
	}
	return out
}

// Set 直接替换内容（从系统剪贴板载入时）
func (c *Clipboard) Set(entries []ClipEntry) {
	c.entries = nil
	for _, e := range entries {
		c.entries = append(c.entries, ClipEntry{Row: e.Row, Offset: e.Offset, Payload: e.Payload.Clone()})
	}
}

// Copy 复制选中的关键帧
//
// 参数：
//   - e: 引擎
//   - refs: 选中的关键帧
//   - order: 图层显示顺序，用于计算相对行号
//
// 返回：
//   - int: 复制的关键帧数量
//   - error: 读取失败
func (c *Clipboard) Copy(e engine.AnimationEngine, refs []selection.KeyframeRef, order []ids.LayerID) (int, error) {
	if len(refs) == 0 {
		return 0, nil
	}
	row := make(map[ids.LayerID]int, len(order))
	for i, id := range order {
		row[id] = i
	}
	minRow, minFrame := -1, refs[0].Frame
	for _, r := range refs {
		if i, ok := row[r.Layer]; ok && (minRow < 0 || i < minRow) {
			minRow = i
		}
		if r.Frame < minFrame {
			minFrame = r.Frame
		}
	}
	var out []ClipEntry
	for _, r := range refs {
		i, ok := row[r.Layer]
		if !ok {
			continue
		}
		p, err := e.CopyKeyframe(r.Layer, r.Frame)
		if err != nil {
			return 0, err
		}
		out = append(out, ClipEntry{Row: i - minRow, Offset: r.Frame - minFrame, Payload: p})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Row != out[b].Row {
			return out[a].Row < out[b].Row
		}
		return out[a].Offset < out[b].Offset
	})
	c.entries = out
	return len(out), nil
}

// Paste 构造粘贴命令组：第 0 行落在 anchor 图层，偏移 0 落在 frame
//
// 超出图层列表的行被忽略。没有可粘贴内容时返回 nil。
func (c *Clipboard) Paste(order []ids.LayerID, anchor ids.LayerID, frame uint32) *Group {
	start := -1
	for i, id := range order {
		if id == anchor {
			start = i
			break
		}
	}
	if start < 0 || len(c.entries) == 0 {
		return nil
	}
	g := NewGroup("Paste Keyframes")
	for _, e := range c.entries {
		r := start + e.Row
		if r >= len(order) {
			continue
		}
		g.Add(PasteKeyframe(order[r], frame+e.Offset, e.Payload))
	}
	if g.Len() == 0 {
		return nil
	}
	return g
}
