package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEngineWindow_Options(t *testing.T) {
	w := newEngineWindow(
		WithTitle("viewer"),
		WithSize(800, 600),
		WithVSync(false),
	)
	assert.Equal(t, "viewer", w.title)
	assert.Equal(t, 800, w.Width())
	assert.Equal(t, 600, w.Height())
	assert.False(t, w.vsync)
}

func TestNewEngineWindow_ClampsToLimits(t *testing.T) {
	w := newEngineWindow(
		WithSizeLimits(400, 300, 1000, 900),
		WithSize(100, 5000),
	)
	assert.Equal(t, 400, w.Width())
	assert.Equal(t, 900, w.Height())
}

func TestUninitializedWindow(t *testing.T) {
	w := newEngineWindow()
	assert.False(t, w.IsRunning())
	assert.Error(t, w.Close())
	w.PollEvents()
	w.SwapBuffers()
}
