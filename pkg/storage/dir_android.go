//go:build android

package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir 确保 Android 存档目录存在并可写
//
// gdata 在 Android 上使用 /data/data/{package}/ 作为存储路径，但不会预先
// 创建子目录，需要在 gdata.Open 之前调用。
func EnsureDir() error {
	// 1. 应用包名
	pkg, err := androidPackage()
	if err != nil {
		return fmt.Errorf("failed to detect Android package: %w", err)
	}

	// 2. 创建目录
	dir := filepath.Join("/data/data", pkg, "saves")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create save directory %s: %w", dir, err)
	}

	// 3. 可写检查
	marker := filepath.Join(dir, ".write_test")
	if err := os.WriteFile(marker, []byte("ok"), 0o644); err != nil {
		return fmt.Errorf("save directory %s is not writable: %w", dir, err)
	}
	return os.Remove(marker)
}

// androidPackage 从 /proc/self/cmdline 读取包名
func androidPackage() (string, error) {
	data, err := os.ReadFile("/proc/self/cmdline")
	if err != nil {
		return "", err
	}
	name := make([]byte, 0, len(data))
	for _, ch := range data {
		if ch == 0 || ch == '\n' {
			continue
		}
		name = append(name, ch)
	}
	if len(name) == 0 {
		return "", fmt.Errorf("empty /proc/self/cmdline")
	}
	return string(name), nil
}
