//go:build !mobile

package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMobileDesktop(t *testing.T) {
	t.Setenv("TIMELINE_MOBILE_EMULATE", "")
	assert.False(t, isMobile())
	t.Setenv("TIMELINE_MOBILE_EMULATE", "1")
	assert.True(t, isMobile())
}
