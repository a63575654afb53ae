// Package reanim 导入 Flash 导出的 Reanim 动画
//
// Reanim 文件由若干轨道组成：以 "anim_" 开头的轨道定义动画片段，
// 其余轨道是部件的逐帧变换。导入时部件轨道变成图层，片段轨道变成帧标签。
package reanim

// Reanim 文件根结构
type Reanim struct {
	FPS    int     `xml:"fps"`
	Tracks []Track `xml:"track"`
}

// Track 一条轨道
type Track struct {
	Name   string  `xml:"name"`
	Frames []Frame `xml:"t"`
}

// Frame 一帧；nil 字段沿用上一帧的值
type Frame struct {
	// FrameNum -1 隐藏，0 及以上显示
	FrameNum *int     `xml:"f,omitempty"`
	X        *float64 `xml:"x,omitempty"`
	Y        *float64 `xml:"y,omitempty"`
	ScaleX   *float64 `xml:"sx,omitempty"`
	ScaleY   *float64 `xml:"sy,omitempty"`
	// SkewX/SkewY 单位为度；两者相等时即旋转
	SkewX    *float64 `xml:"kx,omitempty"`
	SkewY    *float64 `xml:"ky,omitempty"`
	Image    string   `xml:"i,omitempty"`
}

// Empty 报告该帧是否没有任何字段
func (f Frame) Empty() bool {
	return f.FrameNum == nil && f.X == nil && f.Y == nil &&
		f.ScaleX == nil && f.ScaleY == nil &&
		f.SkewX == nil && f.SkewY == nil && f.Image == ""
}

// IsClip 报告轨道是否为动画片段定义
func (t Track) IsClip() bool {
	return len(t.Name) > len(clipPrefix) && t.Name[:len(clipPrefix)] == clipPrefix
}

const clipPrefix = "anim_"

// FrameCount 返回最长轨道的帧数
func (r *Reanim) FrameCount() int {
	n := 0
	for _, t := range r.Tracks {
		n = max(n, len(t.Frames))
	}
	return n
}
