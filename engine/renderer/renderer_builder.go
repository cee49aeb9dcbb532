package renderer

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithBackend replaces the default OpenGL backend with the given Device. Used to drive the engine
// against a recording fake in tests or an alternate driver.
//
// Parameters:
//   - d: the Device to forward GPU operations to
//
// Returns:
//   - RendererBuilderOption: a function that applies the backend option to a renderer
func WithBackend(d Device) RendererBuilderOption {
	return func(r *renderer) {
		r.Device = d
		r.backendType = BackendTypeCustom
	}
}
