//go:build !android

package storage

// EnsureDir 确保存档目录存在；gdata 在非 Android 平台上会自行创建目录
func EnsureDir() error {
	return nil
}
