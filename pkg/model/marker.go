package model

import (
	"image/color"
	"sort"
	"time"
)

// DefaultCommentColor 注释默认颜色（浅蓝）
var DefaultCommentColor = color.RGBA{R: 100, G: 150, B: 255, A: 255}

// Label 帧标签
type Label struct {
	Frame uint32
	Text  string
	Color *color.RGBA
}

// Comment 帧注释，不影响播放
type Comment struct {
	Frame     uint32
	Text      string
	Author    string
	Timestamp time.Time
	Color     *color.RGBA
}

// markers 按帧排序的标签与注释；每帧最多一个标签和一个注释
type markers struct {
	labels   []Label
	comments []Comment
}

func (m *markers) setLabel(l Label) {
	for i := range m.labels {
		if m.labels[i].Frame == l.Frame {
			m.labels[i] = l
			return
		}
	}
	m.labels = append(m.labels, l)
	sort.SliceStable(m.labels, func(i, j int) bool { return m.labels[i].Frame < m.labels[j].Frame })
}

func (m *markers) removeLabel(frame uint32) bool {
	for i := range m.labels {
		if m.labels[i].Frame == frame {
			m.labels = append(m.labels[:i], m.labels[i+1:]...)
			return true
		}
	}
	return false
}

func (m *markers) setComment(c Comment) {
	if c.Color == nil {
		col := DefaultCommentColor
		c.Color = &col
	}
	for i := range m.comments {
		if m.comments[i].Frame == c.Frame {
			m.comments[i] = c
			return
		}
	}
	m.comments = append(m.comments, c)
	sort.SliceStable(m.comments, func(i, j int) bool { return m.comments[i].Frame < m.comments[j].Frame })
}

func (m *markers) removeComment(frame uint32) bool {
	for i := range m.comments {
		if m.comments[i].Frame == frame {
			m.comments = append(m.comments[:i], m.comments[i+1:]...)
			return true
		}
	}
	return false
}

func (m markers) clone() markers {
	out := markers{
		labels:   append([]Label(nil), m.labels...),
		comments: append([]Comment(nil), m.comments...),
	}
	return out
}
