package scene

import (
	"github.com/Carmen-Shannon/oxy-pbr/engine/camera"
	"github.com/Carmen-Shannon/oxy-pbr/engine/light"
	"github.com/go-gl/mathgl/mgl32"
)

// FrameRendererBuilderOption is a functional option for configuring a FrameRenderer.
type FrameRendererBuilderOption func(*frameRenderer)

// WithEye sets the camera position the fixed view looks at the origin from.
//
// Parameters:
//   - eye: the eye position
//
// Returns:
//   - FrameRendererBuilderOption: option function to apply
func WithEye(eye mgl32.Vec3) FrameRendererBuilderOption {
	return func(r *frameRenderer) {
		r.eye = eye
	}
}

// WithDefaultCamera sets the camera whose projection applies until a camera node overrides it.
//
// Parameters:
//   - c: the default camera
//
// Returns:
//   - FrameRendererBuilderOption: option function to apply
func WithDefaultCamera(c camera.Camera) FrameRendererBuilderOption {
	return func(r *frameRenderer) {
		r.defaultCamera = c
	}
}

// WithEnvironment attaches image based lighting inputs.
//
// Parameters:
//   - env: the environment, not owned by the renderer
//
// Returns:
//   - FrameRendererBuilderOption: option function to apply
func WithEnvironment(env *light.Environment) FrameRendererBuilderOption {
	return func(r *frameRenderer) {
		r.environment = env
	}
}

// WithTemplate sets the shader template used for every draw.
//
// Parameters:
//   - name: the template name
//
// Returns:
//   - FrameRendererBuilderOption: option function to apply
func WithTemplate(name string) FrameRendererBuilderOption {
	return func(r *frameRenderer) {
		r.template = name
	}
}
