package model

import (
	"maps"
	"slices"

	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/Carmen-Shannon/oxy-pbr/engine/loader"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/shader"
)

// BufferUploader uploads document bufferViews. resource.Manager satisfies it.
type BufferUploader interface {
	// UploadBufferView returns the memoized GPU buffer of a bufferView, uploading it on first use.
	//
	// Parameters:
	//   - index: the bufferView index
	//   - target: the requested bind target, overridden by the bufferView's own target hint
	//
	// Returns:
	//   - *renderer.Buffer: the buffer handle
	//   - error: an error if the bufferView is invalid or the upload fails
	UploadBufferView(index, target int) (*renderer.Buffer, error)
}

type meshBuilder struct {
	doc      *loader.Document
	uploader BufferUploader
	onSkip   func(semantic string)
}

// Build converts a document mesh into a renderable Mesh, uploading every bufferView it references.
// Only triangle lists are accepted, and every used accessor must reference a bufferView directly
// and must not be sparse.
//
// Parameters:
//   - doc: the validated document
//   - index: the mesh index
//   - uploader: uploads the referenced bufferViews
//   - options: functional options for the build
//
// Returns:
//   - *Mesh: the mesh
//   - error: UnsupportedPrimitiveMode, UnsupportedAccessorLayout, or an upload error
func Build(doc *loader.Document, index int, uploader BufferUploader, options ...MeshBuilderOption) (*Mesh, error) {
	b := &meshBuilder{doc: doc, uploader: uploader}
	for _, opt := range options {
		opt(b)
	}

	src := doc.Meshes[index]
	mesh := &Mesh{Index: index, Name: src.Name, Primitives: make([]*Primitive, 0, len(src.Primitives))}
	for i := range src.Primitives {
		p, err := b.primitive(&src.Primitives[i], index)
		if err != nil {
			return nil, err
		}
		mesh.Primitives = append(mesh.Primitives, p)
	}
	return mesh, nil
}

func (b *meshBuilder) primitive(src *loader.Primitive, meshIndex int) (*Primitive, error) {
	if mode := src.DrawMode(); mode != renderer.ModeTriangles {
		return nil, common.NewError(common.KindUnsupportedPrimitiveMode, "meshes.primitives.mode", meshIndex,
			"mode "+modeName(mode))
	}

	p := &Primitive{Material: src.Material, Mode: renderer.ModeTriangles}
	for _, semantic := range slices.Sorted(maps.Keys(src.Attributes)) {
		location, ok := shader.AttribLocation(semantic)
		if !ok {
			if b.onSkip != nil {
				b.onSkip(semantic)
			}
			continue
		}
		accessorIndex := src.Attributes[semantic]
		acc, buf, err := b.accessor(accessorIndex, common.TargetArrayBuffer)
		if err != nil {
			return nil, err
		}
		view := b.doc.BufferViews[*acc.BufferView]
		p.Attributes = append(p.Attributes, Attribute{
			Semantic:      semantic,
			Location:      location,
			Buffer:        buf,
			Size:          loader.ElementComponents(acc.Type),
			ComponentType: acc.ComponentType,
			Normalized:    acc.Normalized,
			Stride:        common.ValueOr(view.ByteStride, 0),
			Offset:        acc.ByteOffset,
			Count:         acc.Count,
		})
	}
	slices.SortFunc(p.Attributes, func(a, c Attribute) int { return int(a.Location) - int(c.Location) })

	if src.Indices != nil {
		acc, buf, err := b.accessor(*src.Indices, common.TargetElementArrayBuffer)
		if err != nil {
			return nil, err
		}
		p.Indices = &Indices{Buffer: buf, ComponentType: acc.ComponentType, Count: acc.Count, Offset: acc.ByteOffset}
	}
	return p, nil
}

// accessor checks that an accessor is directly backed by a bufferView and uploads that bufferView.
func (b *meshBuilder) accessor(index, target int) (*loader.Accessor, *renderer.Buffer, error) {
	acc := &b.doc.Accessors[index]
	if acc.Sparse != nil {
		return nil, nil, common.NewError(common.KindUnsupportedAccessorLayout, "accessors.sparse", index, "")
	}
	if acc.BufferView == nil {
		return nil, nil, common.NewError(common.KindUnsupportedAccessorLayout, "accessors.bufferView", index, "accessor has no bufferView")
	}
	buf, err := b.uploader.UploadBufferView(*acc.BufferView, target)
	if err != nil {
		return nil, nil, err
	}
	return acc, buf, nil
}

func modeName(mode int) string {
	names := [...]string{"POINTS", "LINES", "LINE_LOOP", "LINE_STRIP", "TRIANGLES", "TRIANGLE_STRIP", "TRIANGLE_FAN"}
	if mode >= 0 && mode < len(names) {
		return names[mode]
	}
	return "unknown"
}

// Has reports whether the primitive binds the attribute semantic.
func (p *Primitive) Has(semantic string) bool {
	for _, a := range p.Attributes {
		if a.Semantic == semantic {
			return true
		}
	}
	return false
}

// VertexCount is the element count used by non-indexed draws: the POSITION count, or the first
// attribute's count when there is no POSITION.
func (p *Primitive) VertexCount() int {
	for _, a := range p.Attributes {
		if a.Semantic == shader.AttribPosition {
			return a.Count
		}
	}
	if len(p.Attributes) > 0 {
		return p.Attributes[0].Count
	}
	return 0
}

// BindAttributes points every attribute location at its buffer and enables it, and binds the index
// buffer when present. Each bound semantic is recorded into flags.
//
// Parameters:
//   - device: the device to bind on
//   - flags: the permutation flags receiving the attribute presence
func (p *Primitive) BindAttributes(device renderer.Device, flags *shader.Flags) {
	for _, a := range p.Attributes {
		device.BindBuffer(a.Buffer)
		device.VertexAttribPointer(a.Location, a.Size, a.ComponentType, a.Normalized, a.Stride, a.Offset)
		device.EnableVertexAttrib(a.Location)
		flags.SetAttribute(a.Semantic)
	}
	if p.Indices != nil {
		device.BindBuffer(p.Indices.Buffer)
	}
}

// Draw issues the primitive's draw call: indexed when it has indices, otherwise over VertexCount
// vertices. Attributes must already be bound.
//
// Parameters:
//   - device: the device to draw on
func (p *Primitive) Draw(device renderer.Device) {
	if p.Indices != nil {
		device.DrawElements(p.Mode, p.Indices.Count, p.Indices.ComponentType, p.Indices.Offset)
		return
	}
	device.DrawArrays(p.Mode, 0, p.VertexCount())
}

// UnbindAttributes disables every attribute location enabled by BindAttributes.
//
// Parameters:
//   - device: the device to unbind on
func (p *Primitive) UnbindAttributes(device renderer.Device) {
	for _, a := range p.Attributes {
		device.DisableVertexAttrib(a.Location)
	}
}
