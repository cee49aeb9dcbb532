package renderer

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-pbr/common"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	Device

	mu    *sync.Mutex
	stats FrameStats

	backendType RendererBackendType
}

// Renderer defines the interface for the rendering system.
//
// The Renderer forwards every GPU operation to its backend Device and keeps running counts of the
// work issued so the profiler can report per-frame statistics.
type Renderer interface {
	Device

	// BackendType reports which backend implementation the Renderer drives.
	//
	// Returns:
	//   - RendererBackendType: the backend type
	BackendType() RendererBackendType

	// Stats returns the counts accumulated since the last ResetStats call.
	//
	// Returns:
	//   - FrameStats: a copy of the current counters
	Stats() FrameStats

	// ResetStats zeroes the counters. Called once per frame by the frame loop.
	ResetStats()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer. Without options it drives the OpenGL backend, which requires a
// current context on the calling thread before Init is called.
//
// Parameters:
//   - options: functional options for the renderer
//
// Returns:
//   - Renderer: the new renderer
func NewRenderer(options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: BackendTypeGL,
	}
	for _, opt := range options {
		opt(r)
	}
	if r.Device == nil {
		r.Device = newGLBackend()
	}
	return r
}

func (r *renderer) BackendType() RendererBackendType {
	return r.backendType
}

func (r *renderer) Stats() FrameStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

func (r *renderer) ResetStats() {
	r.mu.Lock()
	r.stats = FrameStats{}
	r.mu.Unlock()
}

func (r *renderer) CreateBuffer(target int, data []byte) (*Buffer, error) {
	b, err := r.Device.CreateBuffer(target, data)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.stats.BufferUploads++
	r.stats.BytesUploaded += len(data)
	r.mu.Unlock()
	return b, nil
}

func (r *renderer) CreateTexture2D(data common.TextureStagingData) (*Texture, error) {
	t, err := r.Device.CreateTexture2D(data)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.stats.TextureUploads++
	r.stats.BytesUploaded += len(data.Pixels)
	r.mu.Unlock()
	return t, nil
}

func (r *renderer) CreateCubeTexture(faces [6][]common.TextureStagingData) (*Texture, error) {
	t, err := r.Device.CreateCubeTexture(faces)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.stats.TextureUploads++
	for _, levels := range faces {
		for _, l := range levels {
			r.stats.BytesUploaded += len(l.Pixels)
		}
	}
	r.mu.Unlock()
	return t, nil
}

func (r *renderer) UseProgram(p *Program) {
	r.Device.UseProgram(p)
	r.mu.Lock()
	r.stats.ProgramSwitch++
	r.mu.Unlock()
}

func (r *renderer) DrawElements(mode, count, componentType, offset int) {
	r.Device.DrawElements(mode, count, componentType, offset)
	r.countDraw(mode, count)
}

func (r *renderer) DrawArrays(mode, first, count int) {
	r.Device.DrawArrays(mode, first, count)
	r.countDraw(mode, count)
}

func (r *renderer) countDraw(mode, count int) {
	r.mu.Lock()
	r.stats.DrawCalls++
	if mode == ModeTriangles {
		r.stats.Triangles += count / 3
	}
	r.mu.Unlock()
}
