//go:build mobile

// Package mobile 提供 ebitenmobile 绑定入口
//
// 此包用于构建 Android (.aar) 和 iOS (.xcframework) 包，
// 仅在使用 -tags mobile 构建时编译：
//
//	ebitenmobile bind -target android -tags mobile -androidapi 23 -javapkg com.decker.timeline -o build/android/timeline.aar -v ./mobile
//	ebitenmobile bind -target ios -tags mobile -o build/ios/Timeline.xcframework -v ./mobile
package mobile

import (
	"github.com/hajimehoshi/ebiten/v2/mobile"
	"github.com/rs/zerolog/log"

	"github.com/decker502/timeline/pkg/app"
)

func init() {
	// 移动端没有配置文件和命令行参数，使用默认配置
	a, err := app.NewApp(app.Config{
		AppName: "timeline",
		Project: "untitled",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("timeline app init failed")
	}

	// 注册到 ebitenmobile
	mobile.SetGame(a)
}

// Dummy 空导出函数，确保包被 ebitenmobile 正确识别
func Dummy() {}
