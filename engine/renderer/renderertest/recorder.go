// Package renderertest provides a recording renderer.Device for tests that exercise GPU code
// paths without a GPU context.
package renderertest

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
)

// Call is one recorded device operation.
type Call struct {
	Op   string
	Args []any
}

// Draw is a recorded draw call together with the state it was issued under.
type Draw struct {
	Indexed       bool
	Mode          int
	Count         int
	ComponentType int
	Program       *renderer.Program
	Uniforms      map[string]any
	Textures      map[int]*renderer.Texture
	Samplers      map[int]common.SamplerStagingData
	ElementBuffer *renderer.Buffer
	Attribs       map[uint32]AttribState
}

// AttribState records the layout set for one attribute location.
type AttribState struct {
	Buffer        *renderer.Buffer
	Size          int
	ComponentType int
	Normalized    bool
	Stride        int
	Offset        int
	Enabled       bool
}

// Recorder implements renderer.Device by recording every call.
type Recorder struct {
	mu sync.Mutex

	// FailCompile makes CreateProgram fail when either source contains this text.
	FailCompile string
	// FailBuffers makes CreateBuffer fail.
	FailBuffers bool

	nextID uint32
	caps   renderer.Capabilities

	Calls    []Call
	Draws    []Draw
	Buffers  map[uint32]*renderer.Buffer
	Textures map[uint32]*renderer.Texture
	Programs map[uint32]*renderer.Program
	Sources  map[uint32][2]string
	Attribs  map[uint32][]renderer.AttribBinding
	Deleted  int

	ClearColor   [4]float32
	ViewportSize [2]int

	current      *renderer.Program
	arrayBuffer  *renderer.Buffer
	elementBuf   *renderer.Buffer
	uniforms     map[uint32]map[string]any
	bound        map[int]*renderer.Texture
	samplers     map[int]common.SamplerStagingData
	attribs      map[uint32]AttribState
	uploadedData map[uint32][]byte
}

var _ renderer.Device = &Recorder{}

// NewRecorder creates an empty Recorder reporting TextureLOD support.
func NewRecorder() *Recorder {
	return &Recorder{
		caps:         renderer.Capabilities{TextureLOD: true, Renderer: "recorder", Version: "test"},
		Buffers:      make(map[uint32]*renderer.Buffer),
		Textures:     make(map[uint32]*renderer.Texture),
		Programs:     make(map[uint32]*renderer.Program),
		Sources:      make(map[uint32][2]string),
		Attribs:      make(map[uint32][]renderer.AttribBinding),
		uniforms:     make(map[uint32]map[string]any),
		bound:        make(map[int]*renderer.Texture),
		samplers:     make(map[int]common.SamplerStagingData),
		attribs:      make(map[uint32]AttribState),
		uploadedData: make(map[uint32][]byte),
	}
}

// SetCapabilities overrides the capabilities reported after Init.
func (r *Recorder) SetCapabilities(c renderer.Capabilities) {
	r.caps = c
}

func (r *Recorder) record(op string, args ...any) {
	r.Calls = append(r.Calls, Call{Op: op, Args: args})
}

func (r *Recorder) id() uint32 {
	r.nextID++
	return r.nextID
}

// Count returns how many times op was recorded.
func (r *Recorder) Count(op string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// BufferData returns the bytes uploaded into the buffer with the given id.
func (r *Recorder) BufferData(id uint32) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.uploadedData[id]
}

// Live reports the number of buffers, textures and programs not yet deleted.
func (r *Recorder) Live() (buffers, textures, programs int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Buffers), len(r.Textures), len(r.Programs)
}

func (r *Recorder) Init(clearColor [4]float32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ClearColor = clearColor
	r.record("Init", clearColor)
	return nil
}

func (r *Recorder) Capabilities() renderer.Capabilities {
	return r.caps
}

func (r *Recorder) Viewport(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ViewportSize = [2]int{width, height}
	r.record("Viewport", width, height)
}

func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("Clear")
}

func (r *Recorder) CreateBuffer(target int, data []byte) (*renderer.Buffer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailBuffers {
		return nil, errors.New("buffer creation disabled")
	}
	b := &renderer.Buffer{ID: r.id(), Target: target, ByteLength: len(data)}
	r.Buffers[b.ID] = b
	r.uploadedData[b.ID] = append([]byte(nil), data...)
	r.setBound(b)
	r.record("CreateBuffer", target, len(data))
	return b, nil
}

func (r *Recorder) setBound(b *renderer.Buffer) {
	if b.Target == common.TargetElementArrayBuffer {
		r.elementBuf = b
	} else {
		r.arrayBuffer = b
	}
}

func (r *Recorder) BindBuffer(b *renderer.Buffer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.setBound(b)
	r.record("BindBuffer", b.ID, b.Target)
}

func (r *Recorder) DeleteBuffer(b *renderer.Buffer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.Buffers, b.ID)
	r.Deleted++
	r.record("DeleteBuffer", b.ID)
}

func (r *Recorder) CreateTexture2D(data common.TextureStagingData) (*renderer.Texture, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := &renderer.Texture{ID: r.id(), Kind: renderer.TextureKind2D, Width: data.Width, Height: data.Height, Levels: 1}
	r.Textures[t.ID] = t
	r.record("CreateTexture2D", data.Width, data.Height)
	return t, nil
}

func (r *Recorder) CreateCubeTexture(faces [6][]common.TextureStagingData) (*renderer.Texture, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	levels := len(faces[0])
	for _, f := range faces {
		if len(f) != levels || levels == 0 {
			return nil, errors.New("inconsistent cube faces")
		}
	}
	t := &renderer.Texture{ID: r.id(), Kind: renderer.TextureKindCube, Width: faces[0][0].Width, Height: faces[0][0].Height, Levels: levels}
	r.Textures[t.ID] = t
	r.record("CreateCubeTexture", levels)
	return t, nil
}

func (r *Recorder) BindTexture(unit int, tex *renderer.Texture, sampler *common.SamplerStagingData) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bound[unit] = tex
	if sampler != nil {
		r.samplers[unit] = *sampler
	} else {
		delete(r.samplers, unit)
	}
	r.record("BindTexture", unit, tex.ID)
}

func (r *Recorder) DeleteTexture(tex *renderer.Texture) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.Textures, tex.ID)
	r.Deleted++
	r.record("DeleteTexture", tex.ID)
}

func (r *Recorder) CreateProgram(name, vertexSource, fragmentSource string, attribs []renderer.AttribBinding) (*renderer.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("CreateProgram", name)
	if r.FailCompile != "" && (strings.Contains(vertexSource, r.FailCompile) || strings.Contains(fragmentSource, r.FailCompile)) {
		return nil, fmt.Errorf("0:1(1): error: syntax error near %q", r.FailCompile)
	}
	p := &renderer.Program{ID: r.id(), Name: name}
	r.Programs[p.ID] = p
	r.Sources[p.ID] = [2]string{vertexSource, fragmentSource}
	r.Attribs[p.ID] = append([]renderer.AttribBinding(nil), attribs...)
	return p, nil
}

func (r *Recorder) UseProgram(p *renderer.Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = p
	r.record("UseProgram", p.ID)
}

func (r *Recorder) DeleteProgram(p *renderer.Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.Programs, p.ID)
	r.Deleted++
	r.record("DeleteProgram", p.ID)
}

func (r *Recorder) setUniform(name string, v any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return
	}
	u, ok := r.uniforms[r.current.ID]
	if !ok {
		u = make(map[string]any)
		r.uniforms[r.current.ID] = u
	}
	u[name] = v
	r.record("SetUniform", name)
}

// Uniform returns the last value set for name on program p, or nil.
func (r *Recorder) Uniform(p *renderer.Program, name string) any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.uniforms[p.ID][name]
}

func (r *Recorder) SetUniformInt(name string, v int32) { r.setUniform(name, v) }
func (r *Recorder) SetUniformFloat(name string, v float32) { r.setUniform(name, v) }
func (r *Recorder) SetUniformVec3(name string, v mgl32.Vec3) { r.setUniform(name, v) }
func (r *Recorder) SetUniformVec4(name string, v mgl32.Vec4) { r.setUniform(name, v) }
func (r *Recorder) SetUniformMat4(name string, m mgl32.Mat4) { r.setUniform(name, m) }

func (r *Recorder) VertexAttribPointer(location uint32, size int, componentType int, normalized bool, stride, offset int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.attribs[location]
	st.Buffer = r.arrayBuffer
	st.Size = size
	st.ComponentType = componentType
	st.Normalized = normalized
	st.Stride = stride
	st.Offset = offset
	r.attribs[location] = st
	r.record("VertexAttribPointer", location, size, componentType, stride, offset)
}

func (r *Recorder) EnableVertexAttrib(location uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.attribs[location]
	st.Enabled = true
	r.attribs[location] = st
	r.record("EnableVertexAttrib", location)
}

func (r *Recorder) DisableVertexAttrib(location uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.attribs[location]
	st.Enabled = false
	r.attribs[location] = st
	r.record("DisableVertexAttrib", location)
}

func (r *Recorder) snapshot(indexed bool, mode, count, componentType int) Draw {
	d := Draw{
		Indexed:       indexed,
		Mode:          mode,
		Count:         count,
		ComponentType: componentType,
		Program:       r.current,
		Uniforms:      make(map[string]any),
		Textures:      make(map[int]*renderer.Texture, len(r.bound)),
		Samplers:      make(map[int]common.SamplerStagingData, len(r.samplers)),
		Attribs:       make(map[uint32]AttribState, len(r.attribs)),
	}
	if r.current != nil {
		for k, v := range r.uniforms[r.current.ID] {
			d.Uniforms[k] = v
		}
	}
	for k, v := range r.bound {
		d.Textures[k] = v
	}
	for k, v := range r.samplers {
		d.Samplers[k] = v
	}
	for k, v := range r.attribs {
		d.Attribs[k] = v
	}
	if indexed {
		d.ElementBuffer = r.elementBuf
	}
	return d
}

func (r *Recorder) DrawElements(mode, count, componentType, offset int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Draws = append(r.Draws, r.snapshot(true, mode, count, componentType))
	r.record("DrawElements", mode, count, componentType, offset)
}

func (r *Recorder) DrawArrays(mode, first, count int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Draws = append(r.Draws, r.snapshot(false, mode, count, 0))
	r.record("DrawArrays", mode, first, count)
}

// Reset drops recorded calls and draws, keeping live objects and bound state.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = nil
	r.Draws = nil
}
