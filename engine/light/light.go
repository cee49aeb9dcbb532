package light

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
)

// MaxLights is the largest number of point lights a frame can bind.
const MaxLights = 3

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	mu       *sync.RWMutex
	position mgl32.Vec3
	color    mgl32.Vec3
}

// Light is a point light. Lights are not part of the scene document; they are supplied by
// configuration and may be recolored between frames.
type Light interface {
	// Position returns the world-space position of the light.
	//
	// Returns:
	//   - mgl32.Vec3: position as (x, y, z)
	Position() mgl32.Vec3

	// Color returns the RGB radiance of the light. Values are unbounded; the default light uses 300.
	//
	// Returns:
	//   - mgl32.Vec3: color as (r, g, b)
	Color() mgl32.Vec3

	// SetPosition moves the light.
	//
	// Parameters:
	//   - p: the new position
	SetPosition(p mgl32.Vec3)

	// SetColor recolors the light.
	//
	// Parameters:
	//   - c: the new color
	SetColor(c mgl32.Vec3)
}

var _ Light = &lightImpl{}

// NewLight creates a point light at the origin with the default color, then applies options.
//
// Parameters:
//   - options: a variadic list of LightBuilderOption functions
//
// Returns:
//   - Light: the new light
func NewLight(options ...LightBuilderOption) Light {
	l := &lightImpl{
		mu:    &sync.RWMutex{},
		color: DefaultColor,
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

// DefaultPosition and DefaultColor describe the light used when none are configured.
var (
	DefaultPosition = mgl32.Vec3{0, 5, 0}
	DefaultColor    = mgl32.Vec3{300, 300, 300}
)

// DefaultLight returns a new light at DefaultPosition with DefaultColor.
func DefaultLight() Light {
	return NewLight(WithPosition(DefaultPosition), WithColor(DefaultColor))
}

func (l *lightImpl) Position() mgl32.Vec3 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.position
}

func (l *lightImpl) Color() mgl32.Vec3 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.color
}

func (l *lightImpl) SetPosition(p mgl32.Vec3) {
	l.mu.Lock()
	l.position = p
	l.mu.Unlock()
}

func (l *lightImpl) SetColor(c mgl32.Vec3) {
	l.mu.Lock()
	l.color = c
	l.mu.Unlock()
}

// Bind uploads the first count lights as the lightPositions and lightColors uniform arrays of the
// program currently in use. count is clamped to the number of lights available.
//
// Parameters:
//   - device: the device with the target program in use
//   - lights: the configured lights
//   - count: how many lights to bind
//
// Returns:
//   - int: the number of lights actually bound
func Bind(device renderer.Device, lights []Light, count int) int {
	count = min(count, len(lights), MaxLights)
	for i := range count {
		device.SetUniformVec3(fmt.Sprintf("lightPositions[%d]", i), lights[i].Position())
		device.SetUniformVec3(fmt.Sprintf("lightColors[%d]", i), lights[i].Color())
	}
	return max(count, 0)
}
