// Package storage 通过 gdata 持久化项目与编辑器偏好
//
// gdata 管理器可为 nil：此时进入降级模式，数据只保存在内存中。
package storage

import (
	"errors"
	"fmt"
	"sort"

	"github.com/quasilyte/gdata/v2"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/decker502/timeline/pkg/model"
	"github.com/decker502/timeline/pkg/record"
)

// ErrProjectNotFound 项目不存在
var ErrProjectNotFound = errors.New("project not found")

// 存储路径常量
const (
	projectsObject = "projects"
	indexProperty  = "_index"
)

// ProjectStore 项目存储
type ProjectStore struct {
	gdataManager *gdata.Manager // 可为 nil（降级模式）
	memory       map[string][]byte
}

// NewProjectStore 创建项目存储
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存）
func NewProjectStore(gdataManager *gdata.Manager) *ProjectStore {
	return &ProjectStore{
		gdataManager: gdataManager,
		memory:       make(map[string][]byte),
	}
}

// ValidName 报告名称能否作为项目名（字母、数字、'-'、'_'、'.'，不以 '.' 开头）
func ValidName(name string) bool {
	if name == "" || name[0] == '.' || name == indexProperty {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.':
		default:
			return false
		}
	}
	return true
}

// Save 保存项目，成功后所有场景标记为已保存
//
// 参数：
//   - name: 项目名，见 ValidName
//   - p: 项目
//
// 返回：
//   - error: 名称非法、序列化或写入失败
func (s *ProjectStore) Save(name string, p *model.Project) error {
	if !ValidName(name) {
		return fmt.Errorf("invalid project name %q", name)
	}

	// 1. 序列化
	data, err := record.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode project %s: %w", name, err)
	}

	// 2. 写入
	if err := s.write(name, data); err != nil {
		return fmt.Errorf("failed to save project %s: %w", name, err)
	}

	// 3. 更新索引
	names, err := s.List()
	if err != nil {
		return err
	}
	if !contains(names, name) {
		if err := s.writeIndex(append(names, name)); err != nil {
			return err
		}
	}

	p.MarkAllSaved()
	log.Info().Str("component", "ProjectStore").Str("project", name).Int("bytes", len(data)).Msg("project saved")
	return nil
}

// Load 加载项目
//
// 返回：
//   - *model.Project: 重建并校验过的项目
//   - error: ErrProjectNotFound，或读取、解析、校验错误
func (s *ProjectStore) Load(name string) (*model.Project, error) {
	if !ValidName(name) {
		return nil, fmt.Errorf("invalid project name %q", name)
	}
	data, ok, err := s.read(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load project %s: %w", name, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrProjectNotFound)
	}
	p, err := record.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", name, err)
	}
	log.Info().Str("component", "ProjectStore").Str("project", name).Int("scenes", p.SceneCount()).Msg("project loaded")
	return p, nil
}

// Exists 项目是否已保存
func (s *ProjectStore) Exists(name string) bool {
	if !ValidName(name) {
		return false
	}
	if s.gdataManager == nil {
		_, ok := s.memory[name]
		return ok
	}
	return s.gdataManager.ObjectPropExists(projectsObject, name)
}

// List 按名称排序返回已保存的项目
func (s *ProjectStore) List() ([]string, error) {
	data, ok, err := s.read(indexProperty)
	if err != nil {
		return nil, fmt.Errorf("failed to read project index: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var names []string
	if err := yaml.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("failed to parse project index: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

func (s *ProjectStore) writeIndex(names []string) error {
	sort.Strings(names)
	data, err := yaml.Marshal(names)
	if err != nil {
		return fmt.Errorf("failed to encode project index: %w", err)
	}
	if err := s.write(indexProperty, data); err != nil {
		return fmt.Errorf("failed to save project index: %w", err)
	}
	return nil
}

func (s *ProjectStore) write(prop string, data []byte) error {
	if s.gdataManager == nil {
		s.memory[prop] = append([]byte(nil), data...)
		return nil
	}
	return s.gdataManager.SaveObjectProp(projectsObject, prop, data)
}

func (s *ProjectStore) read(prop string) ([]byte, bool, error) {
	if s.gdataManager == nil {
		data, ok := s.memory[prop]
		return data, ok, nil
	}
	if !s.gdataManager.ObjectPropExists(projectsObject, prop) {
		return nil, false, nil
	}
	data, err := s.gdataManager.LoadObjectProp(projectsObject, prop)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
