package camera

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/Carmen-Shannon/oxy-pbr/engine/loader"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type cameraImpl struct {
	mu *sync.Mutex

	fov  float32
	near float32
	far  float32

	// aspect is the fixed aspect ratio, 0 to follow the viewport
	aspect float32

	cachedAspect     float32
	projectionMatrix mgl32.Mat4
}

// Camera is a perspective projection. A camera with a fixed aspect ratio always returns the same
// matrix; otherwise the matrix follows the viewport aspect passed to Projection.
type Camera interface {
	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// Aspect returns the fixed aspect ratio, or 0 when the camera follows the viewport.
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Projection returns the projection matrix for the given viewport aspect ratio.
	//
	// Parameters:
	//   - viewportAspect: width / height of the viewport, ignored for fixed-aspect cameras
	//
	// Returns:
	//   - mgl32.Mat4: the column-major projection matrix
	Projection(viewportAspect float32) mgl32.Mat4
}

var _ Camera = &cameraImpl{}

// NewCamera creates a perspective camera. Defaults are a 45 degree field of view with clip planes
// at 0.1 and 800, following the viewport aspect.
//
// Parameters:
//   - options: functional options for the camera
//
// Returns:
//   - Camera: the new camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:   &sync.Mutex{},
		fov:  mgl32.DegToRad(DefaultFovDegrees),
		near: DefaultNear,
		far:  DefaultFar,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Default clip and field of view values used when a scene has no camera of its own.
const (
	DefaultFovDegrees = 45
	DefaultNear       = 0.1
	DefaultFar        = 800
)

// FromDocument builds a camera from a glTF camera. Only perspective cameras with a finite far
// plane are supported.
//
// Parameters:
//   - c: the document camera
//   - index: the camera's index in the document, used in errors
//
// Returns:
//   - Camera: the camera
//   - error: UnsupportedCameraMode for orthographic or infinite cameras, MalformedDocument for
//     invalid parameters
func FromDocument(c loader.Camera, index int) (Camera, error) {
	if c.Type != loader.CameraTypePerspective {
		return nil, common.NewError(common.KindUnsupportedCameraMode, "cameras."+c.Type, index, "only perspective cameras are supported")
	}
	p := c.Perspective
	if p == nil {
		return nil, common.NewError(common.KindMalformedDocument, "cameras.perspective", index, "missing")
	}
	if p.Zfar == nil {
		return nil, common.NewError(common.KindUnsupportedCameraMode, "cameras.perspective.zfar", index, "infinite projection")
	}
	if err := validatePerspective(p.Yfov, p.Znear, *p.Zfar); err != nil {
		return nil, common.WrapError(common.KindMalformedDocument, "cameras.perspective", index, err)
	}

	opts := []CameraBuilderOption{WithFov(p.Yfov), WithClip(p.Znear, *p.Zfar)}
	if p.AspectRatio != nil && *p.AspectRatio > 0 {
		opts = append(opts, WithAspect(*p.AspectRatio))
	}
	return NewCamera(opts...), nil
}

func validatePerspective(yfov, znear, zfar float32) error {
	switch {
	case yfov <= 0 || yfov >= math32.Pi || math32.IsNaN(yfov):
		return fmt.Errorf("yfov %v outside (0, pi)", yfov)
	case znear <= 0 || math32.IsInf(znear, 0):
		return fmt.Errorf("znear %v must be positive", znear)
	case zfar <= znear || math32.IsInf(zfar, 0):
		return fmt.Errorf("zfar %v must exceed znear %v", zfar, znear)
	}
	return nil
}

func (c *cameraImpl) Fov() float32 {
	return c.fov
}

func (c *cameraImpl) Near() float32 {
	return c.near
}

func (c *cameraImpl) Far() float32 {
	return c.far
}

func (c *cameraImpl) Aspect() float32 {
	return c.aspect
}

func (c *cameraImpl) Projection(viewportAspect float32) mgl32.Mat4 {
	aspect := c.aspect
	if aspect == 0 {
		aspect = viewportAspect
	}
	if aspect <= 0 {
		aspect = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if aspect != c.cachedAspect {
		c.projectionMatrix = mgl32.Perspective(c.fov, aspect, c.near, c.far)
		c.cachedAspect = aspect
	}
	return c.projectionMatrix
}

// View returns the fixed view used for every draw: a look-at from eye toward the origin with +Y up.
//
// Parameters:
//   - eye: the camera position
//
// Returns:
//   - mgl32.Mat4: the view matrix
func View(eye mgl32.Vec3) mgl32.Mat4 {
	return mgl32.LookAtV(eye, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
}

// AspectOf returns width / height, or 1 for a degenerate viewport.
func AspectOf(width, height int) float32 {
	if width <= 0 || height <= 0 {
		return 1
	}
	return float32(width) / float32(height)
}
