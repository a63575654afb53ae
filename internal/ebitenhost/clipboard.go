package ebitenhost

import (
	"strings"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog/log"

	"github.com/decker502/timeline/pkg/commands"
	"github.com/decker502/timeline/pkg/record"
)

// textClipboard 系统剪贴板的文本读写
type textClipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) ReadAll() (string, error)   { return clipboard.ReadAll() }
func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// ClipboardBridge 把关键帧剪贴板同步到系统剪贴板
//
// 系统剪贴板不可用时两个方法都静默退化，只使用进程内剪贴板。
type ClipboardBridge struct {
	cb textClipboard
}

// NewClipboardBridge 创建使用系统剪贴板的桥接
func NewClipboardBridge() *ClipboardBridge {
	if clipboard.Unsupported {
		log.Info().Str("component", "Clipboard").Msg("system clipboard unsupported, using in-process clipboard only")
		return &ClipboardBridge{}
	}
	return &ClipboardBridge{cb: systemClipboard{}}
}

// Copied 把复制的关键帧写入系统剪贴板
func (b *ClipboardBridge) Copied(entries []commands.ClipEntry) {
	if b.cb == nil {
		return
	}
	data, err := record.EncodeClip(entries)
	if err != nil {
		log.Warn().Str("component", "Clipboard").Err(err).Msg("failed to encode keyframes")
		return
	}
	if err := b.cb.WriteAll(string(data)); err != nil {
		log.Warn().Str("component", "Clipboard").Err(err).Msg("failed to write system clipboard")
	}
}

// Fetch 读取系统剪贴板中的关键帧
//
// 返回：
//   - []commands.ClipEntry: 解析出的关键帧
//   - bool: 剪贴板中是否有时间轴关键帧
func (b *ClipboardBridge) Fetch() ([]commands.ClipEntry, bool) {
	if b.cb == nil {
		return nil, false
	}
	text, err := b.cb.ReadAll()
	if err != nil || !strings.Contains(text, record.ClipFormat) {
		return nil, false
	}
	entries, err := record.DecodeClip([]byte(text))
	if err != nil {
		log.Debug().Str("component", "Clipboard").Err(err).Msg("clipboard text is not a keyframe clip")
		return nil, false
	}
	return entries, len(entries) > 0
}
