package renderer

// Primitive draw modes and component types shared with glTF. The values are the GL enums.
const (
	ModeTriangles = 4

	ComponentByte          = 5120
	ComponentUnsignedByte  = 5121
	ComponentShort         = 5122
	ComponentUnsignedShort = 5123
	ComponentUnsignedInt   = 5125
	ComponentFloat         = 5126
)

// TextureKind distinguishes plain 2D textures from cube maps.
type TextureKind int

const (
	// TextureKind2D is a single 2D image, optionally mipmapped.
	TextureKind2D TextureKind = iota

	// TextureKindCube is a six-face cube map.
	TextureKindCube
)

// Buffer is a GPU buffer handle. Handles are compared by pointer identity.
type Buffer struct {
	// ID is the backend object name.
	ID uint32
	// Target is the bind target the buffer was created for (ARRAY_BUFFER or ELEMENT_ARRAY_BUFFER).
	Target int
	// ByteLength is the number of bytes uploaded.
	ByteLength int
}

// Texture is a GPU texture handle. Handles are compared by pointer identity.
type Texture struct {
	// ID is the backend object name.
	ID uint32
	// Kind is the texture dimensionality.
	Kind TextureKind
	// Width and Height are the size of level zero in pixels.
	Width, Height uint32
	// Levels is the number of uploaded mip levels.
	Levels int
}

// Program is a linked shader program handle.
type Program struct {
	// ID is the backend object name.
	ID uint32
	// Name is the template the program was built from, for diagnostics.
	Name string
}

// AttribBinding fixes a vertex attribute name to a location before link.
type AttribBinding struct {
	Name     string
	Location uint32
}

// Capabilities reports optional GPU features discovered at init.
type Capabilities struct {
	// TextureLOD is true when the shading language supports explicit LOD sampling.
	TextureLOD bool
	// Renderer and Version are the driver identification strings.
	Renderer, Version string
}

// FrameStats counts the GPU work issued since the last reset.
type FrameStats struct {
	DrawCalls      int
	Triangles      int
	ProgramSwitch  int
	BufferUploads  int
	TextureUploads int
	BytesUploaded  int
}
