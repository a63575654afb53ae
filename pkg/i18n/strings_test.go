package i18n

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEveryLanguageCoversMenu 每种内置语言都翻译了全部菜单项与按钮提示
func TestEveryLanguageCoversMenu(t *testing.T) {
	en, err := New(DefaultLanguage)
	require.NoError(t, err)
	var keys []string
	for _, k := range en.Keys() {
		if !strings.HasSuffix(k, ".label") {
			keys = append(keys, k)
		}
	}
	require.NotEmpty(t, keys)

	for _, l := range Languages {
		s, err := New(l.Code)
		require.NoError(t, err, l.Code)
		assert.Equal(t, l.Code, s.Lang())
		for _, k := range keys {
			assert.True(t, s.Has(k), "%s missing %s", l.Code, k)
		}
	}
}

func TestGet(t *testing.T) {
	s, err := New("es")
	require.NoError(t, err)
	assert.Equal(t, "Primer Fotograma (Inicio)", s.Get("controls.first_frame.tooltip"))
	assert.Equal(t, "Insertar Fotograma", s.Get("menu.insert_frame"))

	// es 没有定义按钮文字，回退到英文
	assert.False(t, s.Has("controls.first_frame.label"))
	assert.Equal(t, "|<", s.Get("controls.first_frame.label"))

	assert.Equal(t, "[menu.no_such_item]", s.Get("menu.no_such_item"))
}

func TestNilStringsUsesDefault(t *testing.T) {
	var s *Strings
	assert.Equal(t, "Insert Frame", s.Get("menu.insert_frame"))
	assert.Equal(t, DefaultLanguage, s.Lang())
	assert.Same(t, Default(), Default())
}

func TestUnsupportedLanguage(t *testing.T) {
	_, err := New("xx")
	require.Error(t, err)
	assert.False(t, Supported("xx"))
	assert.True(t, Supported("zh"))
}

func TestLoadFileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strings.yaml")
	content := `menu:
  insert_frame: Add Frame
  custom:
    extra: Extra
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := New(DefaultLanguage)
	require.NoError(t, err)
	require.NoError(t, s.LoadFile(path))
	assert.Equal(t, "Add Frame", s.Get("menu.insert_frame"))
	assert.Equal(t, "Extra", s.Get("menu.custom.extra"))
	assert.Equal(t, "Remove Frame", s.Get("menu.remove_frame"))

	// 覆盖不影响共享的默认表
	assert.Equal(t, "Insert Frame", Default().Get("menu.insert_frame"))
}

func TestLoadFileErrors(t *testing.T) {
	s, err := New(DefaultLanguage)
	require.NoError(t, err)
	assert.Error(t, s.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")))

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("menu:\n  items:\n    - a\n"), 0o644))
	assert.Error(t, s.LoadFile(path))
}
