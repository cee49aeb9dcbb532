package model

// MeshBuilderOption is a functional option applied while building a Mesh via Build.
type MeshBuilderOption func(*meshBuilder)

// WithSkippedAttributeHandler sets a callback invoked for every vertex attribute semantic that has
// no fixed location and is therefore not bound.
//
// Parameters:
//   - fn: the callback, receiving the skipped semantic
//
// Returns:
//   - MeshBuilderOption: a function that applies the handler to the builder
func WithSkippedAttributeHandler(fn func(semantic string)) MeshBuilderOption {
	return func(b *meshBuilder) {
		b.onSkip = fn
	}
}
