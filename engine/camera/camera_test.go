package camera_test

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/Carmen-Shannon/oxy-pbr/engine/camera"
	"github.com/Carmen-Shannon/oxy-pbr/engine/loader"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromDocument_Perspective(t *testing.T) {
	c, err := camera.FromDocument(loader.Camera{
		Type: loader.CameraTypePerspective,
		Perspective: &loader.CameraPerspective{
			AspectRatio: common.Ptr[float32](1.5),
			Yfov:        0.8,
			Znear:       0.01,
			Zfar:        common.Ptr[float32](100),
		},
	}, 0)
	require.NoError(t, err)

	want := mgl32.Perspective(0.8, 1.5, 0.01, 100)
	assert.True(t, c.Projection(4).ApproxEqual(want))
	assert.Equal(t, float32(1.5), c.Aspect())
	assert.Equal(t, float32(0.8), c.Fov())
}

func TestFromDocument_FollowsViewportWithoutAspect(t *testing.T) {
	c, err := camera.FromDocument(loader.Camera{
		Type:        loader.CameraTypePerspective,
		Perspective: &loader.CameraPerspective{Yfov: 1, Znear: 1, Zfar: common.Ptr[float32](10)},
	}, 0)
	require.NoError(t, err)

	assert.True(t, c.Projection(2).ApproxEqual(mgl32.Perspective(1, 2, 1, 10)))
	assert.True(t, c.Projection(0.5).ApproxEqual(mgl32.Perspective(1, 0.5, 1, 10)))
}

func TestFromDocument_Unsupported(t *testing.T) {
	tests := []struct {
		name    string
		cam     loader.Camera
		kind    common.ErrorKind
		feature string
	}{
		{
			name:    "orthographic",
			cam:     loader.Camera{Type: loader.CameraTypeOrthographic, Orthographic: &loader.CameraOrtho{Xmag: 1, Ymag: 1, Zfar: 10}},
			kind:    common.KindUnsupportedCameraMode,
			feature: "cameras.orthographic",
		},
		{
			name:    "infinite",
			cam:     loader.Camera{Type: loader.CameraTypePerspective, Perspective: &loader.CameraPerspective{Yfov: 1, Znear: 0.1}},
			kind:    common.KindUnsupportedCameraMode,
			feature: "cameras.perspective.zfar",
		},
		{
			name:    "far before near",
			cam:     loader.Camera{Type: loader.CameraTypePerspective, Perspective: &loader.CameraPerspective{Yfov: 1, Znear: 5, Zfar: common.Ptr[float32](1)}},
			kind:    common.KindMalformedDocument,
			feature: "cameras.perspective",
		},
		{
			name:    "fov too wide",
			cam:     loader.Camera{Type: loader.CameraTypePerspective, Perspective: &loader.CameraPerspective{Yfov: 4, Znear: 1, Zfar: common.Ptr[float32](2)}},
			kind:    common.KindMalformedDocument,
			feature: "cameras.perspective",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := camera.FromDocument(tt.cam, 3)
			var e *common.Error
			require.True(t, errors.As(err, &e))
			assert.Equal(t, tt.kind, e.Kind)
			assert.Equal(t, tt.feature, e.Feature)
			assert.Equal(t, 3, e.Index)
		})
	}
}

func TestNewCamera_Defaults(t *testing.T) {
	c := camera.NewCamera()
	want := mgl32.Perspective(mgl32.DegToRad(45), 640.0/480.0, 0.1, 800)
	assert.True(t, c.Projection(camera.AspectOf(640, 480)).ApproxEqual(want))
	assert.Equal(t, float32(0.1), c.Near())
	assert.Equal(t, float32(800), c.Far())
	assert.Equal(t, mgl32.DegToRad(camera.DefaultFovDegrees), c.Fov())
	assert.InDelta(t, mgl32.DegToRad(60), camera.NewCamera(camera.WithFovDegrees(60)).Fov(), 1e-6)
}

func TestView_LooksAtOrigin(t *testing.T) {
	v := camera.View(mgl32.Vec3{0, 0, -5})
	p := v.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, -5, p.Z(), 1e-5)
	assert.InDelta(t, 0, p.X(), 1e-5)
}

func TestAspectOf(t *testing.T) {
	assert.Equal(t, float32(2), camera.AspectOf(200, 100))
	assert.Equal(t, float32(1), camera.AspectOf(200, 0))
}
