package renderer

import (
	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/go-gl/mathgl/mgl32"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeGL selects the OpenGL 4.1 core backend.
	BackendTypeGL RendererBackendType = iota

	// BackendTypeCustom marks a backend supplied through WithBackend, such as a recording fake.
	BackendTypeCustom
)

// Device is the set of GPU operations the engine issues. Every method must be called on the
// thread that owns the GPU context.
type Device interface {
	// Init loads the driver entry points and sets the initial frame state: the given clear color,
	// depth testing on and blending off.
	//
	// Parameters:
	//   - clearColor: RGBA clear color
	//
	// Returns:
	//   - error: an error if the driver cannot be initialized
	Init(clearColor [4]float32) error

	// Capabilities returns the optional features discovered by Init.
	//
	// Returns:
	//   - Capabilities: the detected capabilities
	Capabilities() Capabilities

	// Viewport sets the drawable area in pixels.
	//
	// Parameters:
	//   - width: the viewport width
	//   - height: the viewport height
	Viewport(width, height int)

	// Clear clears the color and depth attachments.
	Clear()

	// CreateBuffer uploads data into a new buffer bound to target.
	//
	// Parameters:
	//   - target: ARRAY_BUFFER (34962) or ELEMENT_ARRAY_BUFFER (34963)
	//   - data: the bytes to upload
	//
	// Returns:
	//   - *Buffer: the new buffer handle
	//   - error: an error if the buffer cannot be created
	CreateBuffer(target int, data []byte) (*Buffer, error)

	// BindBuffer binds a buffer to the target it was created for.
	//
	// Parameters:
	//   - b: the buffer to bind
	BindBuffer(b *Buffer)

	// DeleteBuffer frees a buffer.
	//
	// Parameters:
	//   - b: the buffer to delete
	DeleteBuffer(b *Buffer)

	// CreateTexture2D uploads RGBA pixels into a new 2D texture with a full mip chain.
	//
	// Parameters:
	//   - data: the decoded pixels
	//
	// Returns:
	//   - *Texture: the new texture handle
	//   - error: an error if the texture cannot be created
	CreateTexture2D(data common.TextureStagingData) (*Texture, error)

	// CreateCubeTexture uploads a cube map. faces[f][level] is the image for face f (posx, negx, posy,
	// negy, posz, negz) at mip level. When a single level is supplied the remaining levels are generated.
	//
	// Parameters:
	//   - faces: per-face mip chains
	//
	// Returns:
	//   - *Texture: the new texture handle
	//   - error: an error if the face chains are inconsistent or the texture cannot be created
	CreateCubeTexture(faces [6][]common.TextureStagingData) (*Texture, error)

	// BindTexture binds a texture to a texture unit and, when sampler is non-nil, applies its
	// filter and wrap state to the texture.
	//
	// Parameters:
	//   - unit: the texture unit index
	//   - tex: the texture to bind
	//   - sampler: sampler state to apply, or nil to keep the texture's current state
	BindTexture(unit int, tex *Texture, sampler *common.SamplerStagingData)

	// DeleteTexture frees a texture.
	//
	// Parameters:
	//   - tex: the texture to delete
	DeleteTexture(tex *Texture)

	// CreateProgram compiles a vertex and fragment shader, binds the given attribute locations and
	// links them. The returned error carries the driver info log.
	//
	// Parameters:
	//   - name: a diagnostic name for the program
	//   - vertexSource: full vertex shader source
	//   - fragmentSource: full fragment shader source
	//   - attribs: attribute locations to bind before link
	//
	// Returns:
	//   - *Program: the linked program
	//   - error: the compile or link failure
	CreateProgram(name, vertexSource, fragmentSource string, attribs []AttribBinding) (*Program, error)

	// UseProgram makes p the current program. Uniform setters act on the current program.
	//
	// Parameters:
	//   - p: the program to use
	UseProgram(p *Program)

	// DeleteProgram frees a program.
	//
	// Parameters:
	//   - p: the program to delete
	DeleteProgram(p *Program)

	// SetUniformInt sets an int or sampler uniform on the current program. Unknown names are ignored.
	SetUniformInt(name string, v int32)

	// SetUniformFloat sets a float uniform on the current program. Unknown names are ignored.
	SetUniformFloat(name string, v float32)

	// SetUniformVec3 sets a vec3 uniform on the current program. Unknown names are ignored.
	SetUniformVec3(name string, v mgl32.Vec3)

	// SetUniformVec4 sets a vec4 uniform on the current program. Unknown names are ignored.
	SetUniformVec4(name string, v mgl32.Vec4)

	// SetUniformMat4 sets a mat4 uniform on the current program. Unknown names are ignored.
	SetUniformMat4(name string, m mgl32.Mat4)

	// VertexAttribPointer describes the layout of the attribute at location in the bound array buffer.
	//
	// Parameters:
	//   - location: the attribute location
	//   - size: the number of components (1 to 4)
	//   - componentType: the component enum (5120-5126)
	//   - normalized: whether integer data is normalized
	//   - stride: the byte stride, 0 for tightly packed
	//   - offset: the byte offset into the bound buffer
	VertexAttribPointer(location uint32, size int, componentType int, normalized bool, stride, offset int)

	// EnableVertexAttrib enables the attribute array at location.
	EnableVertexAttrib(location uint32)

	// DisableVertexAttrib disables the attribute array at location.
	DisableVertexAttrib(location uint32)

	// DrawElements draws indexed primitives from the bound element buffer.
	//
	// Parameters:
	//   - mode: the primitive mode
	//   - count: the number of indices
	//   - componentType: the index component type
	//   - offset: the byte offset into the element buffer
	DrawElements(mode, count, componentType, offset int)

	// DrawArrays draws non-indexed primitives.
	//
	// Parameters:
	//   - mode: the primitive mode
	//   - first: the first vertex
	//   - count: the number of vertices
	DrawArrays(mode, first, count int)
}
