package window

import (
	"fmt"
)

// Window provides a platform window with a current OpenGL context and keyboard input.
// Every method must be called from the goroutine that created the window.
type Window interface {
	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetKeyDownCallback sets the callback for key press and repeat events.
	//
	// Parameters:
	//   - callback: function receiving the key code
	SetKeyDownCallback(callback func(keyCode int))

	// IsRunning reports whether the window is still open.
	//
	// Returns:
	//   - bool: true until the window is closed
	IsRunning() bool

	// PollEvents processes pending input and window events, invoking callbacks.
	PollEvents()

	// SwapBuffers presents the frame just rendered.
	SwapBuffers()

	// Close destroys the window and its context.
	//
	// Returns:
	//   - error: error if the window is not initialized
	Close() error

	// Width returns the framebuffer width in pixels.
	Width() int

	// Height returns the framebuffer height in pixels.
	Height() int
}

// engineWindow holds the platform independent window state.
type engineWindow struct {
	title string

	maxWidth  int
	maxHeight int
	minWidth  int
	minHeight int
	width     int
	height    int
	vsync     bool

	internalWindow any

	onResize  func(width, height int)
	onKeyDown func(keyCode int)
}

var _ Window = &engineWindow{}

// NewWindow creates a window with an OpenGL 4.1 core context made current on the calling thread.
// The calling goroutine is locked to its OS thread.
//
// Parameters:
//   - options: functional options for window configuration
//
// Returns:
//   - Window: the new window
//   - error: error if the platform window or context cannot be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		title:     "oxy-pbr",
		maxWidth:  3840,
		maxHeight: 2160,
		minWidth:  320,
		minHeight: 240,
		width:     1280,
		height:    720,
		vsync:     true,
	}
	for _, opt := range options {
		opt(w)
	}
	w.width = min(max(w.width, w.minWidth), w.maxWidth)
	w.height = min(max(w.height, w.minHeight), w.maxHeight)
	return w
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode int)) {
	w.onKeyDown = callback
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) PollEvents() {
	platformProcessMessages(w)
}

func (w *engineWindow) SwapBuffers() {
	platformSwapBuffers(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}
