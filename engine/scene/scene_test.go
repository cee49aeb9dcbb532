package scene_test

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/Carmen-Shannon/oxy-pbr/engine/loader"
	"github.com/Carmen-Shannon/oxy-pbr/engine/loader/loadertest"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-pbr/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// assetsFor pairs a document with the triangle buffer and one 1x1 white image per document image.
func assetsFor(doc *loader.Document) *loader.ResolvedAssets {
	images := make([]common.TextureStagingData, len(doc.Images))
	for i := range images {
		images[i] = common.TextureStagingData{Pixels: []byte{255, 255, 255, 255}, Width: 1, Height: 1}
	}
	return &loader.ResolvedAssets{
		Name:     "Test",
		Document: doc,
		Buffers:  [][]byte{loadertest.TriangleBin()},
		Images:   images,
	}
}

func TestBuild_Triangle(t *testing.T) {
	rec := renderertest.NewRecorder()
	s, err := scene.Build(rec, assetsFor(loadertest.Triangle()))
	require.NoError(t, err)

	require.Len(t, s.Meshes, 1)
	assert.Empty(t, s.Cameras)
	assert.Empty(t, s.Textures)
	buffers, textures := s.Resources.Counts()
	assert.Equal(t, 2, buffers)
	assert.Zero(t, textures)
	assert.Equal(t, -1, s.Material(nil).Index())
}

func TestBuild_SharedTextureIdentity(t *testing.T) {
	rec := renderertest.NewRecorder()
	s, err := scene.Build(rec, assetsFor(loadertest.Textured()))
	require.NoError(t, err)

	require.Len(t, s.Textures, 1)
	require.Len(t, s.Materials, 2)
	a := s.Materials[0].Texture(material.SlotBaseColor)
	b := s.Materials[1].Texture(material.SlotBaseColor)
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.Same(t, a.Texture, b.Texture)
	assert.Same(t, s.Textures[0], a.Texture)
	assert.Equal(t, 1, rec.Count("CreateTexture2D"))
	assert.Same(t, s.Materials[0], s.Material(common.Ptr(0)))
}

func TestBuild_UnsupportedPrimitiveModeReleasesEverything(t *testing.T) {
	doc := loadertest.Triangle()
	bad := doc.Meshes[0]
	bad.Primitives = []loader.Primitive{bad.Primitives[0]}
	bad.Primitives[0].Mode = common.Ptr(1)
	doc.Meshes = append(doc.Meshes, bad)

	rec := renderertest.NewRecorder()
	_, err := scene.Build(rec, assetsFor(doc))
	require.ErrorIs(t, err, common.ErrUnsupportedPrimitiveMode)

	assert.Equal(t, 2, rec.Count("CreateBuffer"))
	buffers, textures, _ := rec.Live()
	assert.Zero(t, buffers)
	assert.Zero(t, textures)
}

func TestBuild_UnsupportedAccessorLayout(t *testing.T) {
	doc := loadertest.Triangle()
	doc.Accessors[0].Sparse = &loader.AccessorSparse{Count: 1}

	rec := renderertest.NewRecorder()
	_, err := scene.Build(rec, assetsFor(doc))
	require.ErrorIs(t, err, common.ErrUnsupportedAccessorLayout)
	buffers, _, _ := rec.Live()
	assert.Zero(t, buffers)
}

func TestBuild_InfiniteCameraRejected(t *testing.T) {
	doc := loadertest.Textured()
	doc.Cameras = []loader.Camera{{
		Type:        loader.CameraTypePerspective,
		Perspective: &loader.CameraPerspective{Yfov: 1, Znear: 0.1},
	}}

	rec := renderertest.NewRecorder()
	_, err := scene.Build(rec, assetsFor(doc))
	require.ErrorIs(t, err, common.ErrUnsupportedCameraMode)

	var e *common.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, 0, e.Index)
	buffers, textures, _ := rec.Live()
	assert.Zero(t, buffers)
	assert.Zero(t, textures)
}

func TestBuild_SkippedAttributeWarnsOnce(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	common.SetLogger(zap.New(core))
	t.Cleanup(func() { common.SetLogger(nil) })

	doc := loadertest.Triangle()
	doc.Meshes[0].Primitives[0].Attributes["TEXCOORD_1"] = 0
	doc.Meshes = append(doc.Meshes, doc.Meshes[0])

	_, err := scene.Build(renderertest.NewRecorder(), assetsFor(doc))
	require.NoError(t, err)

	entries := logs.FilterField(zap.String("attribute", "TEXCOORD_1")).All()
	assert.Len(t, entries, 1)
}

func TestRelease(t *testing.T) {
	rec := renderertest.NewRecorder()
	s, err := scene.Build(rec, assetsFor(loadertest.Textured()))
	require.NoError(t, err)

	s.Release()
	buffers, textures, _ := rec.Live()
	assert.Zero(t, buffers)
	assert.Zero(t, textures)

	var nilScene *scene.LoadedScene
	nilScene.Release()
}
