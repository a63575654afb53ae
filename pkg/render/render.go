package render

import (
	"github.com/decker502/timeline/pkg/engine"
	"github.com/decker502/timeline/pkg/i18n"
	"github.com/decker502/timeline/pkg/ids"
	"github.com/decker502/timeline/pkg/interaction"
	"github.com/decker502/timeline/pkg/layout"
	"github.com/decker502/timeline/pkg/model"
	"github.com/decker502/timeline/pkg/playback"
	"github.com/decker502/timeline/pkg/surface"
)

// Source 渲染需要的只读引擎能力
type Source interface {
	engine.Transport
	engine.Reader
}

// Frame 一次绘制的全部输入
type Frame struct {
	Engine   Source
	Viewport *layout.Viewport
	Rows     []layout.Row // 折叠后的显示行
	State    *interaction.State

	Loop      *playback.LoopRegion
	Looping   bool
	Waveforms map[ids.AudioID]*model.Waveform
	// Status 控制栏右侧的状态文字（例如撤销栈顶命令名）
	Status string
	// Strings 控制栏按钮文字；nil 时使用 i18n.Default()
	Strings *i18n.Strings
}

// Renderer 时间轴渲染器
type Renderer struct {
	Style Style
}

// New 创建渲染器
func New(s Style) *Renderer {
	return &Renderer{Style: s}
}

// ctx 单次绘制共享的派生数据
type ctx struct {
	p      surface.Painter
	f      Frame
	st     Style
	vp     *layout.Viewport
	total  uint32
	layers map[ids.LayerID]engine.LayerInfo
	placed []layout.PlacedRow
}

// Draw 按从底到顶的顺序绘制整个时间轴
//
// 绘制顺序：背景、帧网格、图层面板、标尺、播放头与参考线、控制栏、右键菜单。
func (r *Renderer) Draw(p surface.Painter, f Frame) {
	c := &ctx{
		p:      p,
		f:      f,
		st:     r.Style,
		vp:     f.Viewport,
		total:  f.Engine.TotalFrames(),
		layers: make(map[ids.LayerID]engine.LayerInfo),
	}
	for _, l := range f.Engine.Layers() {
		c.layers[l.ID] = l
	}
	c.placed = c.vp.VisibleRows(f.Rows)

	p.FillRect(layout.Rect{X: 0, Y: 0, W: c.vp.Width, H: c.vp.Height}, c.st.Background)
	c.drawGrid()
	c.drawPanel()
	c.drawRuler()
	c.drawPlayhead()
	c.drawControls()
	if f.State != nil && f.State.Menu != nil {
		c.drawMenu(f.State.Menu)
	} else if f.State != nil && f.State.Tooltip != nil {
		c.drawTooltip(f.State.Tooltip)
	}
}

func (c *ctx) selectedLayer(id ids.LayerID) bool {
	return c.f.State != nil && c.f.State.Selection.HasLayer(id)
}

// contentFor 隐藏图层的内容变暗绘制
func (c *ctx) contentFor(id ids.LayerID) float64 {
	if l, ok := c.layers[id]; ok && !l.Visible {
		return 0.4
	}
	return 1
}
