// timeline 桌面时间轴编辑器
//
// 用法：
//
//	go run ./cmd/timeline [-config timeline.yaml] [-project name] [-audio file.wav] [-reanim file.reanim] [-verbose]
//
// .env 中的 TIMELINE_CONFIG、TIMELINE_APP_NAME、TIMELINE_VERBOSE 作为默认值，命令行参数优先。
package main

import (
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/decker502/timeline/pkg/app"
)

func main() {
	// 1. 环境变量（.env 可选）
	envErr := godotenv.Load()

	verboseDefault, _ := strconv.ParseBool(os.Getenv("TIMELINE_VERBOSE"))
	var (
		configPath = flag.String("config", envOr("TIMELINE_CONFIG", ""), "path to timeline.yaml")
		appName    = flag.String("app", envOr("TIMELINE_APP_NAME", "timeline"), "save data directory name")
		project    = flag.String("project", "untitled", "project to open or create")
		audioFile  = flag.String("audio", "", "audio file used by \"Add Audio Layer\"")
		reanimFile = flag.String("reanim", "", "reanim file imported as a new scene")
		verbose    = flag.Bool("verbose", verboseDefault, "enable debug logging")
	)
	flag.Parse()

	// 2. 日志
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if envErr != nil {
		log.Debug().Msg("no .env file found, using system environment")
	}

	// 3. 应用
	a, err := app.NewApp(app.Config{
		ConfigPath: *configPath,
		AppName:    *appName,
		Project:    *project,
		AudioFile:  *audioFile,
		Reanim:     *reanimFile,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("timeline init failed")
	}

	// 4. 窗口
	w, h := a.WindowSize()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(a.WindowTitle())
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)

	if err := ebiten.RunGame(a); err != nil {
		log.Fatal().Err(err).Msg("game loop failed")
	}
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
