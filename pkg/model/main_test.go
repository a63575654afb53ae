package model

import (
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	SetInvariantChecks(true)
	os.Exit(m.Run())
}
