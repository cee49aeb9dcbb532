package model

import "github.com/Carmen-Shannon/oxy-pbr/engine/renderer"

// Attribute is one recognized vertex attribute of a primitive, bound to a fixed location.
type Attribute struct {
	// Semantic is the glTF attribute name, e.g. POSITION.
	Semantic string
	// Location is the fixed shader attribute location.
	Location uint32
	// Buffer is the uploaded bufferView holding the data. Primitives sharing a bufferView share the handle.
	Buffer *renderer.Buffer

	// Size is the component count per element (1 for SCALAR up to 4 for VEC4).
	Size int
	// ComponentType is the GL component type enum.
	ComponentType int
	Normalized    bool
	// Stride is the bufferView byte stride, 0 for tightly packed data.
	Stride int
	// Offset is the accessor byte offset inside the bufferView.
	Offset int
	// Count is the number of elements.
	Count int
}

// Indices is the index accessor of an indexed primitive.
type Indices struct {
	Buffer        *renderer.Buffer
	ComponentType int
	Count         int
	Offset        int
}

// Primitive is a drawable part of a mesh.
type Primitive struct {
	// Attributes are sorted by location.
	Attributes []Attribute
	// Indices is nil for non-indexed primitives.
	Indices *Indices
	// Material is the document material index, nil to use the default material.
	Material *int
	// Mode is the draw mode; always triangles after a successful build.
	Mode int
}

// Mesh is the renderable form of a document mesh.
type Mesh struct {
	// Index is the mesh's position in the document.
	Index      int
	Name       string
	Primitives []*Primitive
}
