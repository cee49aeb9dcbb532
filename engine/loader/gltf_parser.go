package loader

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/Masterminds/semver/v3"
)

// Accessor component types.
const (
	ComponentTypeByte          = 5120
	ComponentTypeUnsignedByte  = 5121
	ComponentTypeShort         = 5122
	ComponentTypeUnsignedShort = 5123
	ComponentTypeUnsignedInt   = 5125
	ComponentTypeFloat         = 5126
)

// Accessor element types.
const (
	AccessorTypeScalar = "SCALAR"
	AccessorTypeVec2   = "VEC2"
	AccessorTypeVec3   = "VEC3"
	AccessorTypeVec4   = "VEC4"
	AccessorTypeMat2   = "MAT2"
	AccessorTypeMat3   = "MAT3"
	AccessorTypeMat4   = "MAT4"
)

var supportedMajor = semver.MustParse("2.0.0").Major()

// ParseDocument decodes and validates a glTF JSON document. Every index must resolve inside its
// target array and required fields must be present, otherwise a MalformedDocument error naming the
// offending field is returned.
//
// Parameters:
//   - data: the raw .gltf JSON
//
// Returns:
//   - *Document: the validated document
//   - error: a *common.Error of kind MalformedDocument on failure
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, common.WrapError(common.KindMalformedDocument, "document", -1, err)
	}
	if err := validateDocument(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func malformed(feature string, index int, format string, args ...any) error {
	return common.NewError(common.KindMalformedDocument, feature, index, fmt.Sprintf(format, args...))
}

func inRange(i, n int) bool {
	return i >= 0 && i < n
}

func validateDocument(doc *Document) error {
	if doc.Asset.Version == "" {
		return malformed("asset.version", -1, "missing")
	}
	v, err := semver.NewVersion(doc.Asset.Version)
	if err != nil {
		return common.WrapError(common.KindMalformedDocument, "asset.version", -1, err)
	}
	if v.Major() != supportedMajor {
		return malformed("asset.version", -1, "unsupported version %s", doc.Asset.Version)
	}

	for i, b := range doc.Buffers {
		if b.ByteLength < 1 {
			return malformed("buffers", i, "byteLength must be positive")
		}
	}

	for i, bv := range doc.BufferViews {
		if !inRange(bv.Buffer, len(doc.Buffers)) {
			return malformed("bufferViews.buffer", i, "buffer %d out of range", bv.Buffer)
		}
		if bv.ByteLength < 1 || bv.ByteOffset < 0 {
			return malformed("bufferViews", i, "invalid byte range")
		}
		if bv.ByteOffset+bv.ByteLength > doc.Buffers[bv.Buffer].ByteLength {
			return malformed("bufferViews", i, "range %d+%d exceeds buffer length %d",
				bv.ByteOffset, bv.ByteLength, doc.Buffers[bv.Buffer].ByteLength)
		}
		if bv.Target != nil && *bv.Target != common.TargetArrayBuffer && *bv.Target != common.TargetElementArrayBuffer {
			return malformed("bufferViews.target", i, "unknown target %d", *bv.Target)
		}
	}

	for i, a := range doc.Accessors {
		if a.BufferView != nil && !inRange(*a.BufferView, len(doc.BufferViews)) {
			return malformed("accessors.bufferView", i, "bufferView %d out of range", *a.BufferView)
		}
		if ComponentTypeSize(a.ComponentType) == 0 {
			return malformed("accessors.componentType", i, "unknown component type %d", a.ComponentType)
		}
		if ElementComponents(a.Type) == 0 {
			return malformed("accessors.type", i, "unknown element type %q", a.Type)
		}
		if a.Count < 1 {
			return malformed("accessors.count", i, "count must be positive")
		}
		if a.BufferView == nil {
			continue
		}
		bv := doc.BufferViews[*a.BufferView]
		elem := ComponentTypeSize(a.ComponentType) * ElementComponents(a.Type)
		stride := elem
		if bv.ByteStride != nil && *bv.ByteStride > 0 {
			stride = *bv.ByteStride
		}
		if a.ByteOffset < 0 || a.ByteOffset+(a.Count-1)*stride+elem > bv.ByteLength {
			return malformed("accessors", i, "%d elements of %d bytes at offset %d exceed bufferView %d length %d",
				a.Count, elem, a.ByteOffset, *a.BufferView, bv.ByteLength)
		}
	}

	for i, m := range doc.Meshes {
		if len(m.Primitives) == 0 {
			return malformed("meshes.primitives", i, "mesh has no primitives")
		}
		for _, p := range m.Primitives {
			for name, acc := range p.Attributes {
				if !inRange(acc, len(doc.Accessors)) {
					return malformed("meshes.primitives.attributes."+name, i, "accessor %d out of range", acc)
				}
			}
			if p.Indices != nil {
				if !inRange(*p.Indices, len(doc.Accessors)) {
					return malformed("meshes.primitives.indices", i, "accessor %d out of range", *p.Indices)
				}
				switch ct := doc.Accessors[*p.Indices].ComponentType; ct {
				case ComponentTypeUnsignedByte, ComponentTypeUnsignedShort, ComponentTypeUnsignedInt:
				default:
					return malformed("meshes.primitives.indices", i, "index component type %d is not unsigned", ct)
				}
			}
			if p.Material != nil && !inRange(*p.Material, len(doc.Materials)) {
				return malformed("meshes.primitives.material", i, "material %d out of range", *p.Material)
			}
		}
	}

	for i, m := range doc.Materials {
		for slot, info := range materialTextures(&m) {
			if info != nil && !inRange(info.Index, len(doc.Textures)) {
				return malformed("materials."+slot, i, "texture %d out of range", info.Index)
			}
		}
	}

	for i, t := range doc.Textures {
		if t.Source != nil && !inRange(*t.Source, len(doc.Images)) {
			return malformed("textures.source", i, "image %d out of range", *t.Source)
		}
		if t.Sampler != nil && !inRange(*t.Sampler, len(doc.Samplers)) {
			return malformed("textures.sampler", i, "sampler %d out of range", *t.Sampler)
		}
	}

	for i, c := range doc.Cameras {
		switch c.Type {
		case CameraTypePerspective:
			if c.Perspective == nil {
				return malformed("cameras.perspective", i, "missing")
			}
		case CameraTypeOrthographic:
			if c.Orthographic == nil {
				return malformed("cameras.orthographic", i, "missing")
			}
		default:
			return malformed("cameras.type", i, "unknown camera type %q", c.Type)
		}
	}

	if err := validateNodes(doc); err != nil {
		return err
	}

	for i, s := range doc.Scenes {
		for _, n := range s.Nodes {
			if !inRange(n, len(doc.Nodes)) {
				return malformed("scenes.nodes", i, "node %d out of range", n)
			}
		}
	}
	if doc.Scene != nil && !inRange(*doc.Scene, len(doc.Scenes)) {
		return malformed("scene", *doc.Scene, "scene out of range")
	}
	return nil
}

// validateNodes checks node references and that the hierarchy is a forest: no node has two parents
// and no node is its own ancestor.
func validateNodes(doc *Document) error {
	parent := make([]int, len(doc.Nodes))
	for i := range parent {
		parent[i] = -1
	}
	for i, n := range doc.Nodes {
		if n.Mesh != nil && !inRange(*n.Mesh, len(doc.Meshes)) {
			return malformed("nodes.mesh", i, "mesh %d out of range", *n.Mesh)
		}
		if n.Camera != nil && !inRange(*n.Camera, len(doc.Cameras)) {
			return malformed("nodes.camera", i, "camera %d out of range", *n.Camera)
		}
		for _, c := range n.Children {
			if !inRange(c, len(doc.Nodes)) {
				return malformed("nodes.children", i, "node %d out of range", c)
			}
			if c == i || parent[c] != -1 {
				return malformed("nodes.children", i, "node %d has more than one parent", c)
			}
			parent[c] = i
		}
	}
	for i := range doc.Nodes {
		steps := 0
		for p := parent[i]; p != -1; p = parent[p] {
			if steps++; steps > len(doc.Nodes) {
				return malformed("nodes.children", i, "cycle in node hierarchy")
			}
		}
	}
	return nil
}

// materialTextures lists the texture slots of a material by field path.
func materialTextures(m *Material) map[string]*TextureInfo {
	slots := map[string]*TextureInfo{
		"normalTexture":    m.NormalTexture,
		"occlusionTexture": m.OcclusionTexture,
		"emissiveTexture":  m.EmissiveTexture,
	}
	if pbr := m.PbrMetallicRoughness; pbr != nil {
		slots["pbrMetallicRoughness.baseColorTexture"] = pbr.BaseColorTexture
		slots["pbrMetallicRoughness.metallicRoughnessTexture"] = pbr.MetallicRoughnessTexture
	}
	return slots
}

// ComponentTypeSize returns the byte size of a component type, or 0 for unknown types.
func ComponentTypeSize(componentType int) int {
	switch componentType {
	case ComponentTypeByte, ComponentTypeUnsignedByte:
		return 1
	case ComponentTypeShort, ComponentTypeUnsignedShort:
		return 2
	case ComponentTypeUnsignedInt, ComponentTypeFloat:
		return 4
	default:
		return 0
	}
}

// ElementComponents returns the number of components for an accessor type, or 0 for unknown types.
func ElementComponents(accessorType string) int {
	switch accessorType {
	case AccessorTypeScalar:
		return 1
	case AccessorTypeVec2:
		return 2
	case AccessorTypeVec3:
		return 3
	case AccessorTypeVec4, AccessorTypeMat2:
		return 4
	case AccessorTypeMat3:
		return 9
	case AccessorTypeMat4:
		return 16
	default:
		return 0
	}
}
