// gltf_types.go contains the glTF 2.0 data structures decoded from a scene document.
// Optional fields are pointers so absence stays distinguishable from a zero value
// (a node matrix versus TRS, a camera without zfar).
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html
package loader

// --- Root Structure ---

// Document represents the root of a glTF JSON document.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-gltf
type Document struct {
	// Asset contains metadata about the glTF asset.
	Asset Asset `json:"asset"`

	// Scene is the index of the default scene.
	Scene *int `json:"scene,omitempty"`

	// Scenes is an array of scenes.
	Scenes []Scene `json:"scenes,omitempty"`

	// Nodes is an array of nodes (transform hierarchy).
	Nodes []Node `json:"nodes,omitempty"`

	// Meshes is an array of meshes.
	Meshes []Mesh `json:"meshes,omitempty"`

	// Accessors define how to interpret buffer data.
	Accessors []Accessor `json:"accessors,omitempty"`

	// BufferViews define portions of buffers.
	BufferViews []BufferView `json:"bufferViews,omitempty"`

	// Buffers are raw binary data containers.
	Buffers []Buffer `json:"buffers,omitempty"`

	// Materials is an array of materials.
	Materials []Material `json:"materials,omitempty"`

	// Textures is an array of textures.
	Textures []Texture `json:"textures,omitempty"`

	// Images is an array of images.
	Images []Image `json:"images,omitempty"`

	// Samplers define texture sampling parameters.
	Samplers []Sampler `json:"samplers,omitempty"`

	// Cameras is an array of cameras.
	Cameras []Camera `json:"cameras,omitempty"`

	// ExtensionsUsed lists extensions used by this asset.
	ExtensionsUsed []string `json:"extensionsUsed,omitempty"`

	// ExtensionsRequired lists extensions required to load this asset.
	ExtensionsRequired []string `json:"extensionsRequired,omitempty"`
}

// DefaultScene returns the index of the scene to render: the document's scene, or 0 when unset.
func (d *Document) DefaultScene() int {
	if d.Scene != nil {
		return *d.Scene
	}
	return 0
}

// Asset contains metadata about the glTF asset.
type Asset struct {
	// Version is the glTF version (required, major must be 2).
	Version string `json:"version"`

	// MinVersion is the minimum glTF version required.
	MinVersion string `json:"minVersion,omitempty"`

	// Generator is the tool that generated this asset.
	Generator string `json:"generator,omitempty"`

	Copyright string `json:"copyright,omitempty"`
}

// --- Scene Graph ---

// Scene is a set of root nodes.
type Scene struct {
	Name  string `json:"name,omitempty"`
	Nodes []int  `json:"nodes,omitempty"`
}

// Node is a node in the node hierarchy. Matrix, when present, takes precedence over the TRS fields.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-node
type Node struct {
	Name string `json:"name,omitempty"`

	// Children are indices of child nodes.
	Children []int `json:"children,omitempty"`

	// Camera is the index of the camera attached to this node.
	Camera *int `json:"camera,omitempty"`

	// Mesh is the index of the mesh in this node.
	Mesh *int `json:"mesh,omitempty"`

	// Matrix is a 4x4 transformation matrix (column-major).
	Matrix *[16]float32 `json:"matrix,omitempty"`

	// Translation is the node's translation (x, y, z).
	Translation *[3]float32 `json:"translation,omitempty"`

	// Rotation is the node's rotation as a quaternion (x, y, z, w).
	Rotation *[4]float32 `json:"rotation,omitempty"`

	// Scale is the node's scale (x, y, z).
	Scale *[3]float32 `json:"scale,omitempty"`
}

// --- Mesh Data ---

// Mesh is a set of primitives to be rendered.
type Mesh struct {
	Name       string      `json:"name,omitempty"`
	Primitives []Primitive `json:"primitives"`
}

// Primitive defines geometry for rendering.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-mesh-primitive
type Primitive struct {
	// Attributes maps an attribute semantic (POSITION, NORMAL, TEXCOORD_0, ...) to an accessor index.
	Attributes map[string]int `json:"attributes"`

	// Indices is the accessor index for vertex indices.
	Indices *int `json:"indices,omitempty"`

	// Material is the material index.
	Material *int `json:"material,omitempty"`

	// Mode is the primitive topology. Defaults to 4 (triangles).
	Mode *int `json:"mode,omitempty"`
}

// DrawMode returns the primitive topology with the glTF default applied.
func (p *Primitive) DrawMode() int {
	if p.Mode != nil {
		return *p.Mode
	}
	return 4
}

// Accessor describes a typed view into a bufferView.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-accessor
type Accessor struct {
	Name string `json:"name,omitempty"`

	// BufferView is the index of the bufferView. Absent for zero-filled or fully sparse accessors.
	BufferView *int `json:"bufferView,omitempty"`

	// ByteOffset is the offset relative to the start of the bufferView.
	ByteOffset int `json:"byteOffset,omitempty"`

	// ComponentType is the data type of components (5120-5126).
	ComponentType int `json:"componentType"`

	// Normalized specifies whether integer data values are normalized.
	Normalized bool `json:"normalized,omitempty"`

	// Count is the number of elements.
	Count int `json:"count"`

	// Type is the element type (SCALAR, VEC2, VEC3, VEC4, MAT2, MAT3, MAT4).
	Type string `json:"type"`

	Max []float32 `json:"max,omitempty"`
	Min []float32 `json:"min,omitempty"`

	// Sparse is present for sparse accessors, which are not supported for rendering.
	Sparse *AccessorSparse `json:"sparse,omitempty"`
}

// AccessorSparse records only the count; the index and value sub-objects are never read.
type AccessorSparse struct {
	Count int `json:"count"`
}

// BufferView is a byte range of a buffer.
type BufferView struct {
	Name string `json:"name,omitempty"`

	// Buffer is the index of the buffer.
	Buffer int `json:"buffer"`

	ByteOffset int `json:"byteOffset,omitempty"`
	ByteLength int `json:"byteLength"`

	// ByteStride is the stride between vertex attributes, absent for tightly packed data.
	ByteStride *int `json:"byteStride,omitempty"`

	// Target is the intended GPU buffer type (34962 or 34963).
	Target *int `json:"target,omitempty"`
}

// Buffer is an external binary blob.
type Buffer struct {
	Name string `json:"name,omitempty"`

	// URI is the relative path to the .bin file. Absent for GLB-embedded buffers.
	URI string `json:"uri,omitempty"`

	ByteLength int `json:"byteLength"`
}

// --- Materials and Textures ---

// Material describes the PBR appearance of a primitive.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-material
type Material struct {
	Name string `json:"name,omitempty"`

	PbrMetallicRoughness *PbrMetallicRoughness `json:"pbrMetallicRoughness,omitempty"`

	NormalTexture *TextureInfo `json:"normalTexture,omitempty"`

	OcclusionTexture *TextureInfo `json:"occlusionTexture,omitempty"`

	EmissiveTexture *TextureInfo `json:"emissiveTexture,omitempty"`

	// EmissiveFactor defaults to (0, 0, 0).
	EmissiveFactor *[3]float32 `json:"emissiveFactor,omitempty"`
}

// PbrMetallicRoughness holds the metallic-roughness parameters of a material.
type PbrMetallicRoughness struct {
	// BaseColorFactor defaults to (1, 1, 1, 1).
	BaseColorFactor *[4]float32 `json:"baseColorFactor,omitempty"`

	BaseColorTexture *TextureInfo `json:"baseColorTexture,omitempty"`

	// MetallicFactor defaults to 1.
	MetallicFactor *float32 `json:"metallicFactor,omitempty"`

	// RoughnessFactor defaults to 1.
	RoughnessFactor *float32 `json:"roughnessFactor,omitempty"`

	MetallicRoughnessTexture *TextureInfo `json:"metallicRoughnessTexture,omitempty"`
}

// TextureInfo references a texture from a material slot.
type TextureInfo struct {
	// Index is the texture index.
	Index int `json:"index"`

	// TexCoord selects the TEXCOORD_n set. Only set 0 is bound.
	TexCoord int `json:"texCoord,omitempty"`

	// Scale applies to normal textures, Strength to occlusion textures.
	Scale    *float32 `json:"scale,omitempty"`
	Strength *float32 `json:"strength,omitempty"`
}

// Texture pairs an image with a sampler.
type Texture struct {
	Name    string `json:"name,omitempty"`
	Sampler *int   `json:"sampler,omitempty"`
	Source  *int   `json:"source,omitempty"`
}

// Image references an external raster file.
type Image struct {
	Name string `json:"name,omitempty"`

	// URI is the relative path to a .png or .jpg file.
	URI string `json:"uri,omitempty"`

	MimeType string `json:"mimeType,omitempty"`

	// BufferView is set for images embedded in a buffer, which are not supported.
	BufferView *int `json:"bufferView,omitempty"`
}

// Sampler holds GL filter and wrap enums. Absent fields take the defaults applied at bind time.
type Sampler struct {
	Name      string `json:"name,omitempty"`
	MagFilter *int   `json:"magFilter,omitempty"`
	MinFilter *int   `json:"minFilter,omitempty"`
	WrapS     *int   `json:"wrapS,omitempty"`
	WrapT     *int   `json:"wrapT,omitempty"`
}

// --- Cameras ---

// Camera type names.
const (
	CameraTypePerspective  = "perspective"
	CameraTypeOrthographic = "orthographic"
)

// Camera is a projection attached to nodes.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-camera
type Camera struct {
	Name         string             `json:"name,omitempty"`
	Type         string             `json:"type"`
	Perspective  *CameraPerspective `json:"perspective,omitempty"`
	Orthographic *CameraOrtho       `json:"orthographic,omitempty"`
}

// CameraPerspective holds perspective projection parameters. Zfar absent means an infinite projection.
type CameraPerspective struct {
	AspectRatio *float32 `json:"aspectRatio,omitempty"`
	Yfov        float32  `json:"yfov"`
	Zfar        *float32 `json:"zfar,omitempty"`
	Znear       float32  `json:"znear"`
}

// CameraOrtho holds orthographic projection parameters. Parsed only to be rejected.
type CameraOrtho struct {
	Xmag  float32 `json:"xmag"`
	Ymag  float32 `json:"ymag"`
	Zfar  float32 `json:"zfar"`
	Znear float32 `json:"znear"`
}
