package interaction

import (
	"math"

	"github.com/rs/zerolog/log"

	"github.com/decker502/timeline/pkg/commands"
	"github.com/decker502/timeline/pkg/engine"
	"github.com/decker502/timeline/pkg/i18n"
	"github.com/decker502/timeline/pkg/ids"
	"github.com/decker502/timeline/pkg/input"
	"github.com/decker502/timeline/pkg/layout"
	"github.com/decker502/timeline/pkg/model"
	"github.com/decker502/timeline/pkg/playback"
	"github.com/decker502/timeline/pkg/selection"
	"github.com/decker502/timeline/pkg/snap"
)

const (
	wheelScrollStep = 30.0
	wheelZoomBase   = 1.1
	clickSlop       = 3.0
)

// Deps 状态机依赖的协作者
type Deps struct {
	Engine    engine.AnimationEngine
	Viewport  *layout.Viewport
	Playback  *playback.Controller
	History   *commands.History
	Clipboard *commands.Clipboard

	// Strings 菜单与控制栏文字；nil 时使用 i18n.Default()
	Strings *i18n.Strings
}

// Hooks 需要宿主参与的动作，均可为 nil
type Hooks struct {
	// HostAction 状态机自身无法完成的菜单动作（例如选择音频文件）
	HostAction func(a Action, t Target)
	// ClipboardCopied 关键帧复制后调用，用于同步系统剪贴板
	ClipboardCopied func(entries []commands.ClipEntry)
	// ClipboardFetch 粘贴前调用，返回系统剪贴板中的关键帧
	ClipboardFetch func() ([]commands.ClipEntry, bool)
}

// Machine 交互状态机
type Machine struct {
	State State
	// Author 新注释的作者
	Author string

	d     Deps
	snap  snap.Config
	hooks Hooks
}

// NewMachine 创建状态机
//
// 参数：
//   - d: 引擎、视口、播放控制器、撤销栈与剪贴板
//   - cfg: 吸附配置
//   - onion: 洋葱皮初始设置
//   - h: 宿主回调
func NewMachine(d Deps, cfg snap.Config, onion OnionSkin, h Hooks) *Machine {
	if d.History == nil {
		d.History = commands.NewHistory(0)
	}
	if d.Clipboard == nil {
		d.Clipboard = &commands.Clipboard{}
	}
	if d.Strings == nil {
		d.Strings = i18n.Default()
	}
	return &Machine{State: newState(onion), d: d, snap: cfg, hooks: h}
}

// Viewport 返回视口
func (m *Machine) Viewport() *layout.Viewport { return m.d.Viewport }

// History 返回撤销栈
func (m *Machine) History() *commands.History { return m.d.History }

// Strings 返回界面字符串表
func (m *Machine) Strings() *i18n.Strings { return m.d.Strings }

// SetStrings 切换界面语言；已打开的菜单保持原文字
func (m *Machine) SetStrings(s *i18n.Strings) {
	if s == nil {
		s = i18n.Default()
	}
	m.d.Strings = s
}

// SnapConfig 当前吸附配置
func (m *Machine) SnapConfig() snap.Config { return m.snap }

// SetSnapConfig 替换吸附配置
func (m *Machine) SetSnapConfig(cfg snap.Config) { m.snap = cfg }

// Rows 当前显示的图层行；折叠文件夹的后代被隐藏
func (m *Machine) Rows() []layout.Row {
	layers := m.d.Engine.Layers()
	rows := make([]layout.Row, len(layers))
	for i, l := range layers {
		rows[i] = layout.Row{ID: l.ID, Depth: l.Depth}
	}
	return layout.CollapseRows(rows, m.State.Panel.IsCollapsed)
}

// Handle 处理一个输入事件
//
// 返回：
//   - bool: 事件被消费（状态可能改变，需要重绘）
func (m *Machine) Handle(ev input.Event) bool {
	switch ev.Kind {
	case input.CaptureLost:
		return m.Cancel()
	case input.KeyPress:
		return m.handleKey(ev)
	case input.TextInput:
		return m.handleText(ev.Text)
	case input.Wheel:
		return m.handleWheel(ev)
	case input.PointerPress:
		return m.handlePress(ev)
	case input.PointerMove:
		return m.handleMove(ev)
	case input.PointerRelease:
		return m.handleRelease(ev)
	}
	return false
}

// Cancel 取消进行中的交互并回到 Idle
//
// 拖拽预览从未修改模型，因此丢弃状态即恢复原位置；拖动播放头则回到按下前的帧。
func (m *Machine) Cancel() bool {
	if m.State.Mode == ModeIdle || m.State.Mode == ModeHoverRuler {
		return false
	}
	if m.State.Mode == ModeScrubPlayhead {
		m.seek(m.State.scrubFrom)
	}
	log.Debug().Str("component", "Machine").Str("mode", m.State.Mode.String()).Msg("interaction cancelled")
	m.State.reset()
	return true
}

// Dispatch 通过撤销栈执行命令；失败时记录到 State.Message
func (m *Machine) Dispatch(c commands.Command) commands.Outcome {
	out := m.d.History.Execute(m.d.Engine, c)
	m.afterCommand(out)
	return out
}

func (m *Machine) afterCommand(out commands.Outcome) {
	switch out.Status {
	case commands.StatusOK:
		m.State.Message = ""
		m.Prune()
	case commands.StatusNoop:
	default:
		m.State.Message = out.Message()
		log.Warn().Str("component", "Machine").Str("status", out.Status.String()).Msg(out.Message())
	}
}

// Prune 清除引用已不存在实体的选择与面板状态
func (m *Machine) Prune() {
	live := newLiveness(m.d.Engine)
	m.State.Selection.Prune(live)
	for id := range m.State.Panel.Collapsed {
		if !live.HasLayer(id) {
			delete(m.State.Panel.Collapsed, id)
		}
	}
	for id := range m.State.Panel.Outline {
		if !live.HasLayer(id) {
			delete(m.State.Panel.Outline, id)
		}
	}
	if m.State.ActiveLayer != "" && !live.HasLayer(m.State.ActiveLayer) {
		m.State.ActiveLayer = ""
	}
	m.d.Viewport.PruneTrackHeights(live.HasLayer)
}

func (m *Machine) busy() bool {
	switch m.State.Mode {
	case ModeScrubPlayhead, ModeMarqueeSelect, ModeDragKeyframes, ModeRangeSelect, ModeReorderLayer:
		return true
	}
	return false
}

// ---- 指针 ----

func (m *Machine) handlePress(ev input.Event) bool {
	if m.busy() {
		return false
	}
	if m.State.Mode == ModeContextMenu {
		return m.pressInMenu(ev)
	}
	if m.State.Mode == ModeTextEdit {
		m.commitEdit()
	}
	rows := m.Rows()
	hit := m.d.Viewport.HitTest(rows, ev.X, ev.Y)
	if ev.Button == input.ButtonSecondary {
		return m.openMenu(hit, ev)
	}
	if ev.Button != input.ButtonPrimary {
		return false
	}
	switch hit.Region {
	case layout.RegionControls:
		return m.pressControl(ev.X, ev.Y)
	case layout.RegionRuler:
		if ev.Mods.Has(input.ModAlt) {
			return m.beginRange(hit)
		}
		return m.beginScrub(ev)
	case layout.RegionLayerPanel:
		return m.pressPanel(hit, ev, rows)
	case layout.RegionGrid:
		return m.pressGrid(hit, ev)
	}
	return false
}

func (m *Machine) handleMove(ev input.Event) bool {
	switch m.State.Mode {
	case ModeScrubPlayhead:
		m.scrubTo(ev.X, ev.Mods.BypassSnap())
		return true
	case ModeMarqueeSelect:
		mq := m.State.Marquee
		mq.X1, mq.Y1 = ev.X, ev.Y
		mq.Cells = m.marqueeCells(mq)
		return true
	case ModeDragKeyframes:
		m.dragTo(ev.X, ev.Mods.BypassSnap())
		return true
	case ModeRangeSelect:
		f := m.d.Viewport.XToFrame(ev.X)
		m.State.Range.End = layout.ClampFrame(f, m.d.Engine.TotalFrames())
		return true
	case ModeReorderLayer:
		m.reorderTo(ev.Y)
		return true
	case ModeContextMenu:
		h := m.State.Menu.ItemAt(ev.X, ev.Y)
		changed := h != m.State.Menu.Hover
		m.State.Menu.Hover = h
		return changed
	case ModeTextEdit:
		return false
	}
	hit := m.d.Viewport.HitTest(m.Rows(), ev.X, ev.Y)
	prev := m.State.Mode
	prevTip := m.State.Tooltip
	m.State.Hover = hit
	m.State.Tooltip = nil
	if hit.Region == layout.RegionControls {
		m.State.Tooltip = m.tooltipAt(ev.X, ev.Y)
	}
	if hit.Region == layout.RegionRuler {
		m.State.Mode = ModeHoverRuler
	} else {
		m.State.Mode = ModeIdle
	}
	return prev != m.State.Mode || !prevTip.same(m.State.Tooltip)
}

// tooltipAt 返回坐标处控制栏按钮的提示
func (m *Machine) tooltipAt(x, y float64) *Tooltip {
	for _, b := range ControlButtons(m.d.Viewport) {
		if !b.Rect.Contains(x, y) {
			continue
		}
		_, tip := ControlText(m.d.Strings, b.Control, m.d.Engine.IsPlaying())
		return &Tooltip{Control: b.Control, Text: tip, X: b.Rect.X, Y: b.Rect.Y}
	}
	return nil
}

func (m *Machine) handleRelease(ev input.Event) bool {
	switch m.State.Mode {
	case ModeScrubPlayhead:
		m.State.reset()
		return true
	case ModeMarqueeSelect:
		m.commitMarquee(ev)
		return true
	case ModeDragKeyframes:
		m.commitDrag()
		return true
	case ModeRangeSelect:
		m.commitRange(ev.Mods.Additive())
		return true
	case ModeReorderLayer:
		m.commitReorder()
		return true
	}
	return false
}

func (m *Machine) handleWheel(ev input.Event) bool {
	vp := m.d.Viewport
	switch {
	case ev.Mods.Command():
		vp.ZoomBy(math.Pow(wheelZoomBase, ev.DY), ev.X)
	case ev.Mods.Has(input.ModShift):
		vp.ScrollBy(-(ev.DX+ev.DY)*wheelScrollStep, 0)
	default:
		vp.ScrollBy(-ev.DX*wheelScrollStep, -ev.DY*wheelScrollStep)
	}
	vp.ClampScroll(m.d.Engine.TotalFrames(), m.Rows())
	return true
}

// ---- 标尺 ----

func (m *Machine) beginScrub(ev input.Event) bool {
	if m.d.Playback != nil && m.d.Playback.IsPlaying() {
		m.d.Playback.Pause()
	}
	m.State.reset()
	m.State.Mode = ModeScrubPlayhead
	m.State.scrubFrom = m.d.Engine.CurrentFrame()
	m.scrubTo(ev.X, ev.Mods.BypassSnap())
	return true
}

// scrubTo 播放头 = floor(snap(x) / 帧宽)
func (m *Machine) scrubTo(x float64, bypass bool) {
	vp := m.d.Viewport
	res := m.snapAt(vp.ScreenToContent(x), bypass, nil)
	m.State.Guides = res.Guides
	f := layout.ClampFrame(layout.ContentToFrame(res.X, vp.FramePixels()), m.d.Engine.TotalFrames())
	m.seek(f)
}

func (m *Machine) seek(frame uint32) {
	var err error
	if m.d.Playback != nil {
		err = m.d.Playback.Seek(frame)
	} else {
		err = m.d.Engine.Seek(frame)
	}
	if err != nil {
		m.State.Message = err.Error()
	}
}

func (m *Machine) beginRange(hit layout.Hit) bool {
	f := layout.ClampFrame(hit.Frame, m.d.Engine.TotalFrames())
	m.State.reset()
	m.State.Mode = ModeRangeSelect
	m.State.Range = &RangeState{Start: f, End: f}
	return true
}

func (m *Machine) commitRange(additive bool) {
	r := *m.State.Range
	m.State.reset()
	first, last := r.Span()
	var cells []selection.FrameRef
	var kfs []selection.KeyframeRef
	for _, l := range m.d.Engine.Layers() {
		if !l.Type.HasFrames() {
			continue
		}
		for f := first; f <= last; f++ {
			cells = append(cells, selection.FrameRef{Layer: l.ID, Frame: f})
		}
		kfs = append(kfs, m.keyframesBetween(l.ID, first, last)...)
	}
	m.State.Selection.SetFrames(cells, additive)
	m.State.Selection.SetKeyframes(kfs, additive)
}

// ---- 帧网格 ----

func (m *Machine) pressGrid(hit layout.Hit, ev input.Event) bool {
	total := m.d.Engine.TotalFrames()
	if hit.HasRow && hit.Frame >= 0 && hit.Frame < int(total) {
		layer, frame := hit.Row.ID, uint32(hit.Frame)
		m.State.ActiveLayer = layer
		if d, err := m.d.Engine.FrameData(layer, frame); err == nil && d.Type == engine.FrameKeyframe {
			return m.beginDrag(selection.KeyframeRef{ID: d.Keyframe, Layer: layer, Frame: frame}, ev)
		}
	}
	if !ev.Mods.Additive() && !ev.Mods.Extend() {
		m.State.Selection.ClearGrid()
	}
	m.State.Mode = ModeMarqueeSelect
	m.State.Marquee = &MarqueeState{X0: ev.X, Y0: ev.Y, X1: ev.X, Y1: ev.Y, Additive: ev.Mods.Additive()}
	m.State.Marquee.Cells = m.marqueeCells(m.State.Marquee)
	return true
}

func (m *Machine) marqueeCells(mq *MarqueeState) []selection.FrameRef {
	vp := m.d.Viewport
	r := mq.Rect()
	first, last, ok := vp.FramesInRange(r.X, r.Right(), m.d.Engine.TotalFrames())
	if !ok {
		return nil
	}
	var out []selection.FrameRef
	for _, row := range vp.RowsInRange(m.Rows(), r.Y, r.Bottom()) {
		for f := first; f <= last; f++ {
			out = append(out, selection.FrameRef{Layer: row.ID, Frame: f})
		}
	}
	return out
}

func (m *Machine) commitMarquee(ev input.Event) {
	mq := m.State.Marquee
	m.State.reset()
	sel := m.State.Selection
	if math.Abs(mq.X1-mq.X0) < clickSlop && math.Abs(mq.Y1-mq.Y0) < clickSlop {
		if len(mq.Cells) == 1 {
			mode := selection.ModeFor(ev.Mods.Additive(), ev.Mods.Extend())
			sel.ClickFrame(mq.Cells[0], mode)
		}
		return
	}
	sel.SetFrames(mq.Cells, mq.Additive)
	seen := make(map[ids.LayerID]bool)
	var kfs []selection.KeyframeRef
	var lo, hi uint32
	for i, c := range mq.Cells {
		if i == 0 || c.Frame < lo {
			lo = c.Frame
		}
		if i == 0 || c.Frame > hi {
			hi = c.Frame
		}
	}
	for _, c := range mq.Cells {
		if seen[c.Layer] {
			continue
		}
		seen[c.Layer] = true
		kfs = append(kfs, m.keyframesBetween(c.Layer, lo, hi)...)
	}
	sel.SetKeyframes(kfs, mq.Additive)
}

// ---- 关键帧拖拽 ----

func (m *Machine) beginDrag(ref selection.KeyframeRef, ev input.Event) bool {
	sel := m.State.Selection
	mode := selection.ModeFor(ev.Mods.Additive(), ev.Mods.Extend())
	if sel.HasKeyframe(ref.ID) && mode == selection.Toggle {
		sel.ClickKeyframe(ref, mode, nil)
		return true
	}
	if !sel.HasKeyframe(ref.ID) {
		if mode == selection.Replace {
			sel.SetFrames(nil, false)
		}
		sel.ClickKeyframe(ref, mode, m.keyframesBetween)
	}
	locked := make(map[ids.LayerID]bool)
	for _, l := range m.d.Engine.Layers() {
		if l.Locked {
			locked[l.ID] = true
		}
	}
	origins := make(map[ids.KeyframeID]selection.KeyframeRef)
	for _, k := range sel.Keyframes() {
		origins[k.ID] = k
	}
	d := &DragState{Origins: origins, Locked: locked, AnchorX: ev.X, AnchorFrame: ref.Frame}
	vp := m.d.Viewport
	res := m.snapAt(vp.ScreenToContent(ev.X), ev.Mods.BypassSnap(), origins)
	d.anchorSnap = layout.ContentToFrame(res.X, vp.FramePixels())
	m.State.reset()
	m.State.Mode = ModeDragKeyframes
	m.State.Drag = d
	return true
}

// dragTo frame_offset = frame(snap(x)) − frame(snap(anchor))，并限制在有效帧范围内
func (m *Machine) dragTo(x float64, bypass bool) {
	d := m.State.Drag
	vp := m.d.Viewport
	res := m.snapAt(vp.ScreenToContent(x), bypass, d.Origins)
	m.State.Guides = res.Guides
	off := layout.ContentToFrame(res.X, vp.FramePixels()) - d.anchorSnap

	lo, hi, ok := d.span()
	if !ok {
		d.FrameOffset = 0
		return
	}
	maxFrame := int(m.d.Engine.TotalFrames()) - 1
	if off < -int(lo) {
		off = -int(lo)
	}
	if off > maxFrame-int(hi) {
		off = maxFrame - int(hi)
	}
	d.FrameOffset = off
}

func (m *Machine) commitDrag() {
	d := m.State.Drag
	m.State.reset()
	if d.FrameOffset == 0 {
		return
	}
	var refs []selection.KeyframeRef
	skipped := 0
	for _, ref := range d.Origins {
		if d.Locked[ref.Layer] {
			skipped++
			continue
		}
		refs = append(refs, ref)
	}
	if len(refs) == 0 {
		return
	}
	moves, ok := commands.OffsetMoves(refs, d.FrameOffset, m.d.Engine.TotalFrames()-1)
	if !ok {
		m.State.Message = "drag moves keyframes out of range"
		return
	}
	out := m.Dispatch(commands.MoveKeyframes(moves))
	if out.OK() && skipped > 0 {
		log.Debug().Str("component", "Machine").Int("skipped", skipped).Msg("locked layers skipped in drag")
	}
}

// ---- 控制栏 ----

func (m *Machine) pressControl(x, y float64) bool {
	for _, b := range ControlButtons(m.d.Viewport) {
		if b.Rect.Contains(x, y) {
			m.control(b.Control)
			return true
		}
	}
	return false
}

func (m *Machine) control(c Control) {
	vp := m.d.Viewport
	center := vp.GridRect().X + vp.GridRect().W/2
	switch c {
	case ControlFirst:
		m.perform(ActionFirstFrame, Target{})
	case ControlPrev:
		m.perform(ActionPrevFrame, Target{})
	case ControlPlay:
		m.perform(ActionTogglePlay, Target{})
	case ControlNext:
		m.perform(ActionNextFrame, Target{})
	case ControlLast:
		m.perform(ActionLastFrame, Target{})
	case ControlLoop:
		if m.d.Playback != nil {
			m.d.Playback.SetLooping(!m.d.Playback.Looping())
		}
	case ControlOnion:
		m.State.Onion.Enabled = !m.State.Onion.Enabled
	case ControlTimeDisplay:
		m.State.Display = m.State.Display.Next()
	case ControlZoomOut:
		vp.ZoomBy(1/1.25, center)
	case ControlZoomIn:
		vp.ZoomBy(1.25, center)
	}
	vp.ClampScroll(m.d.Engine.TotalFrames(), m.Rows())
}

// ---- 图层面板 ----

func (m *Machine) pressPanel(hit layout.Hit, ev input.Event, rows []layout.Row) bool {
	if !hit.HasRow {
		return false
	}
	id := hit.Row.ID
	info, ok := m.layer(id)
	if !ok {
		return false
	}
	icons := RowIcons(m.d.Viewport, hit.Row, info.Type == model.LayerFolder)
	switch {
	case icons.Toggle.Contains(ev.X, ev.Y):
		m.State.Panel.Collapsed[id] = !m.State.Panel.Collapsed[id]
	case icons.Eye.Contains(ev.X, ev.Y):
		m.Dispatch(commands.SetLayerVisible(id, !info.Visible))
	case icons.Lock.Contains(ev.X, ev.Y):
		m.Dispatch(commands.SetLayerLocked(id, !info.Locked))
	case icons.Outline.Contains(ev.X, ev.Y):
		m.State.Panel.Outline[id] = !m.State.Panel.Outline[id]
	default:
		mode := selection.ModeFor(ev.Mods.Additive(), ev.Mods.Extend())
		m.State.Selection.ClickLayer(id, mode, rowIDs(rows))
		m.State.ActiveLayer = id
		m.State.reset()
		m.State.Mode = ModeReorderLayer
		m.State.Panel.Reorder = &ReorderState{Layer: id, StartY: ev.Y, Y: ev.Y}
	}
	return true
}

func (m *Machine) reorderTo(y float64) {
	r := m.State.Panel.Reorder
	r.Y = y
	if !r.Active && math.Abs(y-r.StartY) < reorderDeadZone {
		return
	}
	r.Active = true
	r.Parent, r.Index, r.Valid = m.dropTarget(r.Layer, y)
}

// dropTarget 计算拖放位置：落在行的上半部插入其前，下半部插入其后，
// 文件夹行的中间三分之一放入文件夹顶部
func (m *Machine) dropTarget(dragged ids.LayerID, y float64) (ids.LayerID, int, bool) {
	vp := m.d.Viewport
	rows := m.Rows()
	row, ok := vp.RowAt(rows, y)
	if !ok {
		return "", 0, false
	}
	if row.ID == dragged {
		return "", 0, false
	}
	info, ok := m.layer(row.ID)
	if !ok {
		return "", 0, false
	}
	frac := (y - row.Top) / row.Height
	var parent ids.LayerID
	var index int
	if info.Type.CanHaveChildren() && frac > 1.0/3 && frac < 2.0/3 {
		parent, index = row.ID, 0
	} else {
		p, idx, err := m.d.Engine.LayerPosition(row.ID)
		if err != nil {
			return "", 0, false
		}
		parent, index = p, idx
		if frac >= 0.5 {
			index++
		}
	}
	for p := parent; p != ""; {
		if p == dragged {
			return "", 0, false
		}
		l, ok := m.layer(p)
		if !ok {
			break
		}
		p = l.Parent
	}
	if cur, idx, err := m.d.Engine.LayerPosition(dragged); err == nil && cur == parent && idx < index {
		index--
	}
	return parent, index, true
}

func (m *Machine) commitReorder() {
	r := m.State.Panel.Reorder
	m.State.reset()
	if r == nil || !r.Active || !r.Valid {
		return
	}
	if cur, idx, err := m.d.Engine.LayerPosition(r.Layer); err == nil && cur == r.Parent && idx == r.Index {
		return
	}
	m.Dispatch(commands.MoveLayer(r.Layer, r.Parent, r.Index))
}

// ---- 右键菜单 ----

func (m *Machine) openMenu(hit layout.Hit, ev input.Event) bool {
	t := m.classify(hit)
	ctx := menuContext{
		strings:  m.d.Strings,
		canPaste: !m.d.Clipboard.Empty() || m.hooks.ClipboardFetch != nil,
		canUndo:  m.d.History.CanUndo(),
		canRedo:  m.d.History.CanRedo(),
	}
	if t.Layer != "" {
		if info, ok := m.layer(t.Layer); ok {
			ctx.layer = &engineLayer{
				Type:    info.Type,
				Visible: info.Visible,
				Locked:  info.Locked,
				Outline: m.State.Panel.Outline[t.Layer],
			}
		}
	}
	if t.Kind == TargetRuler {
		for _, l := range m.d.Engine.Labels() {
			ctx.hasLabel = ctx.hasLabel || l.Frame == t.Frame
		}
		for _, c := range m.d.Engine.Comments() {
			ctx.hasComment = ctx.hasComment || c.Frame == t.Frame
		}
		if m.d.Playback != nil {
			_, ctx.hasLoop = m.d.Playback.LoopRegion()
		}
	}
	items := buildMenu(t, ctx)
	if len(items) == 0 {
		return false
	}
	m.State.reset()
	menu := &ContextMenu{Target: t, X: ev.X, Y: ev.Y, Items: items, Hover: -1}
	menu.fit(m.d.Viewport.Width, m.d.Viewport.Height)
	m.State.Menu = menu
	m.State.Mode = ModeContextMenu
	return true
}

// classify 确定右键目标；右键未选中的帧或关键帧时先选中它
func (m *Machine) classify(hit layout.Hit) Target {
	total := m.d.Engine.TotalFrames()
	switch hit.Region {
	case layout.RegionRuler:
		return Target{Kind: TargetRuler, Frame: layout.ClampFrame(hit.Frame, total)}
	case layout.RegionLayerPanel:
		if hit.HasRow {
			m.State.ActiveLayer = hit.Row.ID
			if !m.State.Selection.HasLayer(hit.Row.ID) {
				m.State.Selection.ClickLayer(hit.Row.ID, selection.Replace, nil)
			}
			return Target{Kind: TargetLayer, Layer: hit.Row.ID}
		}
	case layout.RegionGrid:
		if !hit.HasRow || hit.Frame < 0 || hit.Frame >= int(total) {
			break
		}
		layer, frame := hit.Row.ID, uint32(hit.Frame)
		m.State.ActiveLayer = layer
		d, err := m.d.Engine.FrameData(layer, frame)
		if err != nil {
			break
		}
		t := Target{Kind: TargetFrame, Layer: layer, Frame: frame, HasTween: d.HasTween()}
		sel := m.State.Selection
		if d.Type == engine.FrameKeyframe {
			t.Kind, t.Keyframe = TargetKeyframe, d.Keyframe
			if !sel.HasKeyframe(d.Keyframe) {
				sel.ClickKeyframe(selection.KeyframeRef{ID: d.Keyframe, Layer: layer, Frame: frame}, selection.Replace, nil)
			}
		} else if ref := (selection.FrameRef{Layer: layer, Frame: frame}); !sel.HasFrame(ref) {
			sel.ClickFrame(ref, selection.Replace)
		}
		return t
	}
	return Target{Kind: TargetEmptyStage}
}

func (m *Machine) pressInMenu(ev input.Event) bool {
	menu := m.State.Menu
	i := menu.ItemAt(ev.X, ev.Y)
	m.State.reset()
	if i < 0 || ev.Button != input.ButtonPrimary || !menu.Items[i].Enabled {
		return true
	}
	m.perform(menu.Items[i].Action, menu.Target)
	return true
}
