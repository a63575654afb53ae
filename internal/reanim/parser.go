package reanim

import (
	"encoding/xml"
	"fmt"
	"os"
)

// ParseFile 读取并解析 Reanim 文件
func ParseFile(path string) (*Reanim, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read reanim file '%s': %w", path, err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse '%s': %w", path, err)
	}
	return r, nil
}

// Parse 解析 Reanim 数据
//
// Reanim 没有根元素，解析前补一个。
func Parse(data []byte) (*Reanim, error) {
	wrapped := make([]byte, 0, len(data)+17)
	wrapped = append(wrapped, "<reanim>"...)
	wrapped = append(wrapped, data...)
	wrapped = append(wrapped, "</reanim>"...)

	var r Reanim
	if err := xml.Unmarshal(wrapped, &r); err != nil {
		return nil, fmt.Errorf("invalid reanim XML: %w", err)
	}
	if r.FPS < 0 {
		return nil, fmt.Errorf("invalid reanim fps %d", r.FPS)
	}
	return &r, nil
}
