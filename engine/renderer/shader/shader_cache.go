package shader

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer"
	"go.uber.org/zap"
)

// Attribute variable names in the templates, bound to the fixed locations before link.
var attribBindings = []renderer.AttribBinding{
	{Name: "position", Location: LocationPosition},
	{Name: "normal", Location: LocationNormal},
	{Name: "texcoord_0", Location: LocationTexCoord0},
}

// cache is the implementation of the Cache interface.
type cache struct {
	mu        sync.Mutex
	device    renderer.Device
	templates TemplateSource
	programs  map[string]*renderer.Program
	sources   map[string]Source
}

// Cache compiles and links shader permutations on demand and keeps every program it built. Each
// distinct key is compiled at most once for the life of the cache.
type Cache interface {
	// Program returns the program for the given template and flags, compiling and linking it on
	// first use. The define header is prepended to both stages and the fixed attribute locations are
	// bound before link.
	//
	// Parameters:
	//   - name: the template name
	//   - flags: the permutation flags
	//
	// Returns:
	//   - *renderer.Program: the linked program
	//   - error: a ShaderCompileError carrying the driver diagnostic, or a template read error
	Program(name string, flags Flags) (*renderer.Program, error)

	// Len reports the number of cached programs.
	//
	// Returns:
	//   - int: the number of distinct permutations compiled
	Len() int

	// Release deletes every cached program and empties the cache.
	Release()
}

var _ Cache = &cache{}

// NewCache creates an empty permutation cache compiling on the given device.
//
// Parameters:
//   - device: the GPU device programs are created on
//   - options: functional options for the cache
//
// Returns:
//   - Cache: the new cache
func NewCache(device renderer.Device, options ...CacheBuilderOption) Cache {
	c := &cache{
		device:    device,
		templates: EmbeddedTemplates(),
		programs:  make(map[string]*renderer.Program),
		sources:   make(map[string]Source),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *cache) Program(name string, flags Flags) (*renderer.Program, error) {
	key := flags.Key(name)

	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.programs[key]; ok {
		return p, nil
	}

	src, ok := c.sources[name]
	if !ok {
		var err error
		if src, err = c.templates.Load(name); err != nil {
			return nil, err
		}
		c.sources[name] = src
	}

	header := flags.Header()
	p, err := c.device.CreateProgram(name, header+"\n"+src.Vertex, header+"\n"+src.Fragment, attribBindings)
	if err != nil {
		return nil, &common.Error{
			Kind:    common.KindShaderCompileError,
			Index:   -1,
			Feature: name,
			Err:     err,
		}
	}
	c.programs[key] = p
	common.Logger().Info("shader permutation compiled", zap.String("key", key), zap.Int("cached", len(c.programs)))
	return p, nil
}

func (c *cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.programs)
}

func (c *cache) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, p := range c.programs {
		c.device.DeleteProgram(p)
		delete(c.programs, key)
	}
}
