package engine

import (
	"github.com/Carmen-Shannon/oxy-pbr/engine/camera"
	"github.com/Carmen-Shannon/oxy-pbr/engine/light"
	"github.com/Carmen-Shannon/oxy-pbr/engine/loader"
	"github.com/Carmen-Shannon/oxy-pbr/engine/profiler"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-pbr/engine/window"
	"github.com/go-gl/mathgl/mgl32"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithRenderer sets the renderer to draw with instead of the default OpenGL renderer.
//
// Parameters:
//   - r: the renderer
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithLoader sets the loader assets and the environment are read through.
//
// Parameters:
//   - l: the loader
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLoader(l loader.Loader) EngineBuilderOption {
	return func(e *engine) {
		e.loader = l
	}
}

// WithTemplates sets where shader templates are read from.
//
// Parameters:
//   - src: the template source
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTemplates(src shader.TemplateSource) EngineBuilderOption {
	return func(e *engine) {
		e.templates = src
	}
}

// WithEnvironmentSource sets the image based lighting inputs. nil disables the environment.
//
// Parameters:
//   - src: the environment file locations, or nil
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithEnvironmentSource(src *light.EnvironmentSource) EngineBuilderOption {
	return func(e *engine) {
		e.envSource = src
	}
}

// WithEye sets the camera position the fixed view looks at the origin from.
//
// Parameters:
//   - eye: the eye position
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithEye(eye mgl32.Vec3) EngineBuilderOption {
	return func(e *engine) {
		e.eye = eye
	}
}

// WithCamera sets the default camera used until a camera node overrides it.
//
// Parameters:
//   - c: the camera
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCamera(c camera.Camera) EngineBuilderOption {
	return func(e *engine) {
		e.camera = c
	}
}

// WithClearColor sets the framebuffer clear color.
//
// Parameters:
//   - c: RGBA clear color
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithClearColor(c [4]float32) EngineBuilderOption {
	return func(e *engine) {
		e.clearColor = c
	}
}

// WithLights sets the configured point lights. Entries past light.MaxLights are dropped.
//
// Parameters:
//   - lights: the lights
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLights(lights ...light.Light) EngineBuilderOption {
	return func(e *engine) {
		e.settings.Lights = lights[:min(len(lights), light.MaxLights)]
	}
}

// WithLightCount sets how many of the configured lights are active, clamped to 0..light.MaxLights.
//
// Parameters:
//   - n: the active light count
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLightCount(n int) EngineBuilderOption {
	return func(e *engine) {
		e.settings.LightCount = min(max(n, 0), light.MaxLights)
	}
}

// WithIBL enables or disables image based lighting.
//
// Parameters:
//   - enabled: true to light with the environment
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithIBL(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.settings.IBL = enabled
	}
}

// WithSpin sets the root rotation rate about +Y. 0 disables the spin.
//
// Parameters:
//   - degreesPerSecond: the spin rate
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSpin(degreesPerSecond float32) EngineBuilderOption {
	return func(e *engine) {
		e.settings.SpinDegreesPerSecond = degreesPerSecond
	}
}

// WithWindow sets the window Run drives. The viewport follows its framebuffer size.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithViewport sets the initial viewport size for engines without a window.
//
// Parameters:
//   - width: viewport width in pixels
//   - height: viewport height in pixels
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithViewport(width, height int) EngineBuilderOption {
	return func(e *engine) {
		e.width, e.height = width, height
	}
}

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler sets the profiler frame stats are reported to.
//
// Parameters:
//   - p: the profiler
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}
