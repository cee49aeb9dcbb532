package renderer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// glslVersionLine is prepended to every shader source. Templates carry no #version of their own so the
// define header can follow it directly.
const glslVersionLine = "#version 410 core\n"

var errCubeFaces = errors.New("cube faces must all carry the same number of levels")

// glBackend implements Device on top of an OpenGL 4.1 core context.
type glBackend struct {
	caps Capabilities

	vao     uint32
	current *Program

	// uniform locations per program, -1 for names the driver does not know
	uniforms map[uint32]map[string]int32
}

var _ Device = &glBackend{}

func newGLBackend() *glBackend {
	return &glBackend{uniforms: make(map[uint32]map[string]int32)}
}

func (b *glBackend) Init(clearColor [4]float32) error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	b.caps = Capabilities{
		// textureLod is core in GLSL 4.10
		TextureLOD: true,
		Renderer:   gl.GoStr(gl.GetString(gl.RENDERER)),
		Version:    gl.GoStr(gl.GetString(gl.VERSION)),
	}
	common.Logger().Info("OpenGL initialized",
		zap.String("renderer", b.caps.Renderer),
		zap.String("version", b.caps.Version))

	// core profile refuses attribute state without a bound vertex array
	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)

	gl.ClearColor(clearColor[0], clearColor[1], clearColor[2], clearColor[3])
	gl.Enable(gl.DEPTH_TEST)
	gl.Disable(gl.BLEND)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	return nil
}

func (b *glBackend) Capabilities() Capabilities {
	return b.caps
}

func (b *glBackend) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (b *glBackend) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (b *glBackend) CreateBuffer(target int, data []byte) (*Buffer, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("cannot create empty buffer for target %d", target)
	}
	var id uint32
	gl.GenBuffers(1, &id)
	gl.BindBuffer(uint32(target), id)
	gl.BufferData(uint32(target), len(data), gl.Ptr(data), gl.STATIC_DRAW)
	return &Buffer{ID: id, Target: target, ByteLength: len(data)}, nil
}

func (b *glBackend) BindBuffer(buf *Buffer) {
	gl.BindBuffer(uint32(buf.Target), buf.ID)
}

func (b *glBackend) DeleteBuffer(buf *Buffer) {
	gl.DeleteBuffers(1, &buf.ID)
}

func (b *glBackend) CreateTexture2D(data common.TextureStagingData) (*Texture, error) {
	if len(data.Pixels) != int(data.Width*data.Height*4) {
		return nil, fmt.Errorf("texture pixel data has %d bytes, want %d", len(data.Pixels), data.Width*data.Height*4)
	}
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(data.Width), int32(data.Height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(data.Pixels))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	// samplers applied at bind time may ask for mipmapped minification
	gl.GenerateMipmap(gl.TEXTURE_2D)
	return &Texture{ID: id, Kind: TextureKind2D, Width: data.Width, Height: data.Height, Levels: 1}, nil
}

func (b *glBackend) CreateCubeTexture(faces [6][]common.TextureStagingData) (*Texture, error) {
	levels := len(faces[0])
	if levels == 0 {
		return nil, errCubeFaces
	}
	for _, f := range faces {
		if len(f) != levels {
			return nil, errCubeFaces
		}
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, id)
	for face, chain := range faces {
		for level, img := range chain {
			gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(face), int32(level), gl.RGBA,
				int32(img.Width), int32(img.Height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pixels))
		}
	}
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	if levels == 1 {
		gl.GenerateMipmap(gl.TEXTURE_CUBE_MAP)
	} else {
		gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAX_LEVEL, int32(levels-1))
	}
	return &Texture{ID: id, Kind: TextureKindCube, Width: faces[0][0].Width, Height: faces[0][0].Height, Levels: levels}, nil
}

func (b *glBackend) BindTexture(unit int, tex *Texture, sampler *common.SamplerStagingData) {
	target := uint32(gl.TEXTURE_2D)
	if tex.Kind == TextureKindCube {
		target = gl.TEXTURE_CUBE_MAP
	}
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(target, tex.ID)
	if sampler == nil {
		return
	}
	gl.TexParameteri(target, gl.TEXTURE_MAG_FILTER, sampler.MagFilter)
	gl.TexParameteri(target, gl.TEXTURE_MIN_FILTER, sampler.MinFilter)
	gl.TexParameteri(target, gl.TEXTURE_WRAP_S, sampler.WrapS)
	gl.TexParameteri(target, gl.TEXTURE_WRAP_T, sampler.WrapT)
}

func (b *glBackend) DeleteTexture(tex *Texture) {
	gl.DeleteTextures(1, &tex.ID)
}

func (b *glBackend) CreateProgram(name, vertexSource, fragmentSource string, attribs []AttribBinding) (*Program, error) {
	vs, err := compileShader(glslVersionLine+vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return nil, fmt.Errorf("vertex shader %q: %w", name, err)
	}
	defer gl.DeleteShader(vs)
	fs, err := compileShader(glslVersionLine+fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return nil, fmt.Errorf("fragment shader %q: %w", name, err)
	}
	defer gl.DeleteShader(fs)

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vs)
	gl.AttachShader(prog, fs)
	for _, a := range attribs {
		gl.BindAttribLocation(prog, a.Location, gl.Str(a.Name+"\x00"))
	}
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(prog, logLength, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return nil, fmt.Errorf("link program %q: %s", name, strings.TrimRight(log, "\x00"))
	}
	gl.DetachShader(prog, vs)
	gl.DetachShader(prog, fs)
	return &Program{ID: prog, Name: name}, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, errors.New(strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

func (b *glBackend) UseProgram(p *Program) {
	b.current = p
	gl.UseProgram(p.ID)
}

func (b *glBackend) DeleteProgram(p *Program) {
	delete(b.uniforms, p.ID)
	if b.current == p {
		b.current = nil
	}
	gl.DeleteProgram(p.ID)
}

func (b *glBackend) location(name string) int32 {
	if b.current == nil {
		return -1
	}
	locs, ok := b.uniforms[b.current.ID]
	if !ok {
		locs = make(map[string]int32)
		b.uniforms[b.current.ID] = locs
	}
	if loc, ok := locs[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(b.current.ID, gl.Str(name+"\x00"))
	locs[name] = loc
	return loc
}

func (b *glBackend) SetUniformInt(name string, v int32) {
	if loc := b.location(name); loc >= 0 {
		gl.Uniform1i(loc, v)
	}
}

func (b *glBackend) SetUniformFloat(name string, v float32) {
	if loc := b.location(name); loc >= 0 {
		gl.Uniform1f(loc, v)
	}
}

func (b *glBackend) SetUniformVec3(name string, v mgl32.Vec3) {
	if loc := b.location(name); loc >= 0 {
		gl.Uniform3fv(loc, 1, &v[0])
	}
}

func (b *glBackend) SetUniformVec4(name string, v mgl32.Vec4) {
	if loc := b.location(name); loc >= 0 {
		gl.Uniform4fv(loc, 1, &v[0])
	}
}

func (b *glBackend) SetUniformMat4(name string, m mgl32.Mat4) {
	if loc := b.location(name); loc >= 0 {
		gl.UniformMatrix4fv(loc, 1, false, &m[0])
	}
}

func (b *glBackend) VertexAttribPointer(location uint32, size int, componentType int, normalized bool, stride, offset int) {
	gl.VertexAttribPointer(location, int32(size), uint32(componentType), normalized, int32(stride), gl.PtrOffset(offset))
}

func (b *glBackend) EnableVertexAttrib(location uint32) {
	gl.EnableVertexAttribArray(location)
}

func (b *glBackend) DisableVertexAttrib(location uint32) {
	gl.DisableVertexAttribArray(location)
}

func (b *glBackend) DrawElements(mode, count, componentType, offset int) {
	gl.DrawElements(uint32(mode), int32(count), uint32(componentType), gl.PtrOffset(offset))
}

func (b *glBackend) DrawArrays(mode, first, count int) {
	gl.DrawArrays(uint32(mode), int32(first), int32(count))
}
