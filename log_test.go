package geoid

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// muteLogger silences the package logger for the duration of a test. Tests
// using it must not run in parallel.
func muteLogger(t *testing.T) {
	t.Helper()
	prev := Logf
	SetLogger(nil)
	t.Cleanup(func() { Logf = prev })
}

func TestSetLogger(t *testing.T) {
	prev := Logf
	t.Cleanup(func() { Logf = prev })

	var lines []string
	SetLogger(func(format string, v ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, v...))
	})
	Logf("loaded %s", "GSIGEO2011")
	assert.Equal(t, []string{"loaded GSIGEO2011"}, lines)

	SetLogger(nil)
	assert.NotPanics(t, func() { Logf("dropped %d", 1) })
	assert.Len(t, lines, 1)
}
