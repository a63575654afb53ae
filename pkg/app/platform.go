//go:build !mobile

package app

import "os"

// isMobile 桌面端返回 false；设置 TIMELINE_MOBILE_EMULATE=1 可在本地模拟移动端布局
func isMobile() bool {
	return os.Getenv("TIMELINE_MOBILE_EMULATE") == "1"
}
