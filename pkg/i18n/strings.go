// Package i18n 提供界面文字（菜单、控制栏按钮与提示）的多语言字符串表
package i18n

import (
	"embed"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var locales embed.FS

// DefaultLanguage 缺失键时回退的语言
const DefaultLanguage = "en"

// Language 内置语言
type Language struct {
	Code string
	Name string
}

// Languages 内置语言列表，按界面上的显示顺序
var Languages = []Language{
	{Code: "en", Name: "English"},
	{Code: "es", Name: "Español"},
	{Code: "ja", Name: "日本語"},
	{Code: "zh", Name: "中文"},
}

// Supported 报告 code 是否为内置语言
func Supported(code string) bool {
	for _, l := range Languages {
		if l.Code == code {
			return true
		}
	}
	return false
}

// Strings 界面字符串表
// 从 YAML 加载，嵌套的映射展开为以点分隔的键（例如 "menu.insert_frame"）
type Strings struct {
	lang     string
	strings  map[string]string // 键 -> 文本映射
	fallback map[string]string // DefaultLanguage 的文本
}

// New 加载内置语言的字符串表
//
// 参数：
//   - lang: 语言代码，见 Languages
//
// 返回：
//   - *Strings: 字符串表；lang 中缺失的键回退到 DefaultLanguage
//   - error: 语言不受支持或内置文件解析失败
func New(lang string) (*Strings, error) {
	if !Supported(lang) {
		return nil, fmt.Errorf("unsupported language %q", lang)
	}
	fallback, err := loadEmbedded(DefaultLanguage)
	if err != nil {
		return nil, err
	}
	s := &Strings{lang: lang, strings: fallback, fallback: fallback}
	if lang != DefaultLanguage {
		if s.strings, err = loadEmbedded(lang); err != nil {
			return nil, err
		}
	}
	log.Debug().Str("component", "Strings").
		Str("lang", lang).
		Int("keys", len(s.strings)).
		Msg("strings loaded")
	return s, nil
}

var (
	defaultOnce    sync.Once
	defaultStrings *Strings
)

// Default 返回 DefaultLanguage 的共享字符串表
func Default() *Strings {
	defaultOnce.Do(func() {
		s, err := New(DefaultLanguage)
		if err != nil {
			panic(err)
		}
		defaultStrings = s
	})
	return defaultStrings
}

// LoadFile 从 YAML 文件覆盖当前语言的条目
//
// 文件格式与内置语言文件相同：
//
//	menu:
//	  insert_frame: 插入帧
//
// 参数：
//   - path: YAML 文件路径
func (s *Strings) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read strings %s: %w", path, err)
	}
	m, err := parse(data)
	if err != nil {
		return fmt.Errorf("parse strings %s: %w", path, err)
	}
	merged := make(map[string]string, len(s.strings)+len(m))
	for k, v := range s.strings {
		merged[k] = v
	}
	for k, v := range m {
		merged[k] = v
	}
	s.strings = merged
	return nil
}

// Lang 语言代码
func (s *Strings) Lang() string {
	if s == nil {
		return DefaultLanguage
	}
	return s.lang
}

// Get 根据键获取文本
//
// 参数：
//   - key: 点分隔的键（如 "menu.insert_frame"）
//
// 返回：
//   - string: 当前语言的文本；缺失时取 DefaultLanguage 的文本；
//     两者都没有时返回 "[key]"（调试用）
//
// nil 接收者等同于 Default()。
func (s *Strings) Get(key string) string {
	if s == nil {
		s = Default()
	}
	if text, ok := s.strings[key]; ok {
		return text
	}
	if text, ok := s.fallback[key]; ok {
		return text
	}
	return "[" + key + "]"
}

// Has 报告当前语言是否直接定义了 key（不计回退）
func (s *Strings) Has(key string) bool {
	if s == nil {
		s = Default()
	}
	_, ok := s.strings[key]
	return ok
}

// Keys 当前语言与回退语言中全部键，已排序
func (s *Strings) Keys() []string {
	if s == nil {
		s = Default()
	}
	seen := make(map[string]bool, len(s.fallback))
	out := make([]string, 0, len(s.fallback))
	for _, m := range []map[string]string{s.fallback, s.strings} {
		for k := range m {
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	sort.Strings(out)
	return out
}

func loadEmbedded(lang string) (map[string]string, error) {
	name := "locales/" + lang + ".yaml"
	data, err := locales.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("open strings %s: %w", name, err)
	}
	m, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse strings %s: %w", name, err)
	}
	return m, nil
}

// parse 解析 YAML 并把嵌套映射展开为点分隔的键
func parse(data []byte) (map[string]string, error) {
	var root map[string]any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	out := make(map[string]string)
	if err := flatten("", root, out); err != nil {
		return nil, err
	}
	return out, nil
}

func flatten(prefix string, node map[string]any, out map[string]string) error {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			if err := flatten(key, val, out); err != nil {
				return err
			}
		case string:
			out[key] = val
		case nil:
			return fmt.Errorf("key %s has no value", key)
		case []any:
			return fmt.Errorf("key %s: lists are not supported", key)
		default:
			out[key] = fmt.Sprint(val)
		}
	}
	return nil
}
