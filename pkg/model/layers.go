package model

import (
	"fmt"

	"github.com/decker502/timeline/pkg/ids"
)

// LayerRef 图层在显示顺序中的位置
type LayerRef struct {
	ID    ids.LayerID
	Depth int // 嵌套深度，顶层为 0
}

// Order 返回深度优先、自上而下的图层显示顺序
func (tl *Timeline) Order() []LayerRef {
	out := make([]LayerRef, 0, len(tl.layers))
	var walk func(list []ids.LayerID, depth int)
	walk = func(list []ids.LayerID, depth int) {
		for _, id := range list {
			l := tl.layers[id]
			out = append(out, LayerRef{ID: id, Depth: depth})
			walk(l.Children, depth+1)
		}
	}
	walk(tl.roots, 0)
	return out
}

// LayerIDs 返回显示顺序中的图层 ID
func (tl *Timeline) LayerIDs() []ids.LayerID {
	order := tl.Order()
	out := make([]ids.LayerID, len(order))
	for i, r := range order {
		out[i] = r.ID
	}
	return out
}

// Roots 返回顶层图层 ID
func (tl *Timeline) Roots() []ids.LayerID { return append([]ids.LayerID(nil), tl.roots...) }

// siblings 返回 parent 的子图层列表（parent 为空时为顶层列表）
func (tl *Timeline) siblings(parent ids.LayerID) *[]ids.LayerID {
	if parent == "" {
		return &tl.roots
	}
	return &tl.layers[parent].Children
}

// indexIn 返回图层在其兄弟列表中的位置
func (tl *Timeline) indexIn(id ids.LayerID) int {
	for i, s := range *tl.siblings(tl.layers[id].Parent) {
		if s == id {
			return i
		}
	}
	return -1
}

func insertAt(list *[]ids.LayerID, index int, id ids.LayerID) {
	if index < 0 {
		index = 0
	}
	if index > len(*list) {
		index = len(*list)
	}
	*list = append(*list, "")
	copy((*list)[index+1:], (*list)[index:])
	(*list)[index] = id
}

func removeFrom(list *[]ids.LayerID, id ids.LayerID) {
	for i, s := range *list {
		if s == id {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return
		}
	}
}

func (tl *Timeline) checkParent(parent ids.LayerID) error {
	if parent == "" {
		return nil
	}
	p, err := tl.Layer(parent)
	if err != nil {
		return err
	}
	if !p.Type.CanHaveChildren() {
		return violation("layer %q (%s) cannot contain layers", p.Name, p.Type)
	}
	return nil
}

// AddLayer 在顶层最上方添加图层
func (tl *Timeline) AddLayer(name string, typ LayerType) (ids.LayerID, error) {
	return tl.InsertLayer(name, typ, "", 0)
}

// AddFolderLayer 在顶层最上方添加文件夹
func (tl *Timeline) AddFolderLayer(name string) (ids.LayerID, error) {
	return tl.InsertLayer(name, LayerFolder, "", 0)
}

// InsertLayer 在 parent 的子列表 index 处插入新图层
//
// 参数：
//   - name: 图层名称，为空时生成 "Layer N"
//   - typ: 图层类型；音频图层会附带一个未加载的音频轨道
//   - parent: 父图层，为空表示顶层；必须是可容纳子图层的类型
//   - index: 插入位置，越界时截断
func (tl *Timeline) InsertLayer(name string, typ LayerType, parent ids.LayerID, index int) (ids.LayerID, error) {
	if err := tl.checkParent(parent); err != nil {
		return "", err
	}
	if name == "" {
		name = fmt.Sprintf("Layer %d", len(tl.layers)+1)
	}
	l := newLayer(name, typ)
	l.Parent = parent
	if typ == LayerAudio {
		l.audio = NewAudioTrack(NewAudioSource(""), 0)
	}
	tl.layers[l.ID] = l
	insertAt(tl.siblings(parent), index, l.ID)
	tl.afterMutation()
	return l.ID, nil
}

// InsertLayerBeside 在 anchor 的上方或下方插入同级图层
func (tl *Timeline) InsertLayerBeside(name string, typ LayerType, anchor ids.LayerID, above bool) (ids.LayerID, error) {
	a, err := tl.Layer(anchor)
	if err != nil {
		return "", err
	}
	idx := tl.indexIn(anchor)
	if !above {
		idx++
	}
	return tl.InsertLayer(name, typ, a.Parent, idx)
}

// AddMotionGuideLayer 为 target 添加运动引导层
//
// 引导层占据 target 原来的位置，target 成为其子图层。target 为空时在顶层最上方添加。
func (tl *Timeline) AddMotionGuideLayer(target ids.LayerID) (ids.LayerID, error) {
	if target == "" {
		return tl.InsertLayer("Motion Guide", LayerMotionGuide, "", 0)
	}
	t, err := tl.Layer(target)
	if err != nil {
		return "", err
	}
	if t.Type == LayerFolder || t.Type == LayerMotionGuide {
		return "", violation("layer %q (%s) cannot be guided", t.Name, t.Type)
	}
	idx := tl.indexIn(target)
	g := newLayer("Guide: "+t.Name, LayerMotionGuide)
	g.Parent = t.Parent
	tl.layers[g.ID] = g
	sib := tl.siblings(t.Parent)
	(*sib)[idx] = g.ID
	t.Parent = g.ID
	g.Children = []ids.LayerID{target}
	tl.afterMutation()
	return g.ID, nil
}

// AddAudioLayer 添加带音频源的音频图层
func (tl *Timeline) AddAudioLayer(name string, source AudioSource, startFrame uint32) (ids.LayerID, error) {
	if err := tl.CheckFrame(startFrame); err != nil {
		return "", err
	}
	if name == "" {
		name = source.DisplayName()
	}
	l := newLayer(name, LayerAudio)
	l.audio = NewAudioTrack(source, startFrame)
	tl.layers[l.ID] = l
	insertAt(&tl.roots, len(tl.roots), l.ID)
	tl.afterMutation()
	return l.ID, nil
}

// EditAudio 在未锁定的音频图层上执行修改
func (tl *Timeline) EditAudio(layer ids.LayerID, edit func(a *AudioTrack) error) error {
	l, err := tl.editable(layer)
	if err != nil {
		return err
	}
	if l.audio == nil {
		return violation("layer %q is not an audio layer", l.Name)
	}
	work := l.audio.Clone()
	if err := edit(work); err != nil {
		return err
	}
	if err := work.Envelope.Validate(); err != nil {
		return violation("%v", err)
	}
	l.audio = work
	tl.afterMutation()
	return nil
}

// UpdateAudioSource 用宿主解码得到的元数据替换引用同一音频的轨道源
//
// 这是宿主快照而非用户编辑：忽略锁定状态，不进入撤销栈，也不标记修改。
//
// 返回：
//   - int: 被更新的轨道数
func (tl *Timeline) UpdateAudioSource(src AudioSource) int {
	n := 0
	for _, l := range tl.layers {
		if l.audio == nil || l.audio.Source.ID != src.ID {
			continue
		}
		work := l.audio.Clone()
		work.Source = src
		l.audio = work
		n++
	}
	return n
}

// DeleteLayer 删除图层；文件夹连同整个子树一起删除
func (tl *Timeline) DeleteLayer(id ids.LayerID) error {
	l, err := tl.Layer(id)
	if err != nil {
		return err
	}
	removeFrom(tl.siblings(l.Parent), id)
	tl.deleteSubtree(id)
	tl.afterMutation()
	return nil
}

func (tl *Timeline) deleteSubtree(id ids.LayerID) {
	l := tl.layers[id]
	for _, c := range l.Children {
		tl.deleteSubtree(c)
	}
	delete(tl.layers, id)
}

// Subtree 返回图层及其所有后代的 ID（显示顺序）
func (tl *Timeline) Subtree(id ids.LayerID) []ids.LayerID {
	l, ok := tl.layers[id]
	if !ok {
		return nil
	}
	out := []ids.LayerID{id}
	for _, c := range l.Children {
		out = append(out, tl.Subtree(c)...)
	}
	return out
}

// DuplicateLayer 复制图层（含子树），所有 ID 重新生成，副本放在原图层上方
func (tl *Timeline) DuplicateLayer(id ids.LayerID) (ids.LayerID, error) {
	l, err := tl.Layer(id)
	if err != nil {
		return "", err
	}
	idx := tl.indexIn(id)
	copyID := tl.duplicateSubtree(id, l.Parent)
	tl.layers[copyID].Name = l.Name + " copy"
	insertAt(tl.siblings(l.Parent), idx, copyID)
	tl.afterMutation()
	return copyID, nil
}

func (tl *Timeline) duplicateSubtree(id, parent ids.LayerID) ids.LayerID {
	src := tl.layers[id]
	dup := src.clone()
	dup.ID = ids.NewLayerID()
	dup.Parent = parent
	dup.Children = nil
	dup.refreshIDs()
	tl.layers[dup.ID] = dup
	for _, c := range src.Children {
		dup.Children = append(dup.Children, tl.duplicateSubtree(c, dup.ID))
	}
	return dup.ID
}

// refreshIDs 为关键帧与补间分配新 ID
func (l *Layer) refreshIDs() {
	for _, k := range l.keyframes {
		k.ID = ids.NewKeyframeID()
	}
	for _, t := range l.tweens {
		t.ID = ids.NewTweenID()
	}
}

// RenameLayer 重命名图层
func (tl *Timeline) RenameLayer(id ids.LayerID, name string) error {
	l, err := tl.Layer(id)
	if err != nil {
		return err
	}
	if name == "" {
		return violation("layer name must not be empty")
	}
	l.Name = name
	tl.afterMutation()
	return nil
}

// SetLayerVisible 设置可见性（隐藏图层仍参与布局，内容变暗绘制）
func (tl *Timeline) SetLayerVisible(id ids.LayerID, visible bool) error {
	l, err := tl.Layer(id)
	if err != nil {
		return err
	}
	l.Visible = visible
	tl.afterMutation()
	return nil
}

// SetLayerLocked 设置锁定状态
func (tl *Timeline) SetLayerLocked(id ids.LayerID, locked bool) error {
	l, err := tl.Layer(id)
	if err != nil {
		return err
	}
	l.Locked = locked
	tl.afterMutation()
	return nil
}

// SetLayerType 转换图层类型
//
// 有子图层的图层只能转换为可容纳子图层的类型；有关键帧的图层不能转换为文件夹；
// 音频图层不参与类型转换。
func (tl *Timeline) SetLayerType(id ids.LayerID, typ LayerType) error {
	l, err := tl.Layer(id)
	if err != nil {
		return err
	}
	if l.Type == typ {
		return nil
	}
	switch {
	case l.Type == LayerAudio || typ == LayerAudio:
		return violation("audio layers cannot change type")
	case len(l.Children) > 0 && !typ.CanHaveChildren():
		return violation("layer %q has children and cannot become %s", l.Name, typ)
	case !typ.HasFrames() && len(l.keyframes) > 0:
		return violation("layer %q has keyframes and cannot become %s", l.Name, typ)
	}
	l.Type = typ
	tl.afterMutation()
	return nil
}

// MoveLayer 将图层移动到 parent 的子列表 index 处
//
// parent 不能是图层自身或其后代（保持森林无环）。
func (tl *Timeline) MoveLayer(id, parent ids.LayerID, index int) error {
	l, err := tl.Layer(id)
	if err != nil {
		return err
	}
	if err := tl.checkParent(parent); err != nil {
		return err
	}
	for p := parent; p != ""; p = tl.layers[p].Parent {
		if p == id {
			return violation("cannot move layer %q into its own subtree", l.Name)
		}
	}
	removeFrom(tl.siblings(l.Parent), id)
	l.Parent = parent
	insertAt(tl.siblings(parent), index, id)
	tl.afterMutation()
	return nil
}

// LayerPosition 返回图层的父图层与在兄弟列表中的位置
func (tl *Timeline) LayerPosition(id ids.LayerID) (ids.LayerID, int, error) {
	l, err := tl.Layer(id)
	if err != nil {
		return "", 0, err
	}
	return l.Parent, tl.indexIn(id), nil
}
