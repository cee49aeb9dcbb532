package light_test

import (
	"context"
	"image/color"
	"testing"
	"testing/fstest"

	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/Carmen-Shannon/oxy-pbr/engine/light"
	"github.com/Carmen-Shannon/oxy-pbr/engine/loader"
	"github.com/Carmen-Shannon/oxy-pbr/engine/loader/loadertest"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/renderertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSource() light.EnvironmentSource {
	return light.EnvironmentSource{
		Dir:            "env",
		Skybox:         "skybox",
		Irradiance:     "irradiance",
		Radiance:       "radiance",
		RadianceLevels: 2,
		RadianceSize:   4,
		BRDF:           "brdf.png",
	}
}

// environmentFS encodes every environment image. Radiance faces get a red channel of
// 10*face+level so their placement can be checked after decoding.
func environmentFS(src light.EnvironmentSource) fstest.MapFS {
	fsys := fstest.MapFS{}
	for _, p := range light.CubemapPaths(src.Dir, src.Skybox) {
		fsys[p] = &fstest.MapFile{Data: loadertest.PNG(1, 1, color.RGBA{A: 255})}
	}
	for _, p := range light.CubemapPaths(src.Dir, src.Irradiance) {
		fsys[p] = &fstest.MapFile{Data: loadertest.PNG(1, 1, color.RGBA{A: 255})}
	}
	paths := light.MipCubemapPaths(src.Dir, src.Radiance, src.RadianceLevels, src.RadianceSize)
	for i, p := range paths {
		face, level := i/src.RadianceLevels, i%src.RadianceLevels
		size := src.RadianceSize >> level
		fsys[p] = &fstest.MapFile{Data: loadertest.PNG(size, size, color.RGBA{R: uint8(10*face + level), A: 255})}
	}
	fsys[src.BRDF] = &fstest.MapFile{Data: loadertest.PNG(2, 2, color.RGBA{R: 255, G: 255, A: 255})}
	return fsys
}

func TestCubemapPaths(t *testing.T) {
	assert.Equal(t, []string{
		"env/sky_posx.png", "env/sky_negx.png", "env/sky_posy.png",
		"env/sky_negy.png", "env/sky_posz.png", "env/sky_negz.png",
	}, light.CubemapPaths("env", "sky"))
}

func TestMipCubemapPaths_FaceMajor(t *testing.T) {
	paths := light.MipCubemapPaths("env", "radiance", 3, 4)
	require.Len(t, paths, 18)
	assert.Equal(t, "env/radiance_posx_0_4x4.png", paths[0])
	assert.Equal(t, "env/radiance_posx_1_2x2.png", paths[1])
	assert.Equal(t, "env/radiance_posx_2_1x1.png", paths[2])
	assert.Equal(t, "env/radiance_negx_0_4x4.png", paths[3])
	assert.Equal(t, "env/radiance_negz_2_1x1.png", paths[17])

	assert.Equal(t, "env/radiance_posx_9_1x1.png", light.MipCubemapPaths("env", "radiance", 10, 256)[9])
}

func TestLoadEnvironment(t *testing.T) {
	src := testSource()
	l := loader.NewLoader(loader.WithFS(environmentFS(src)))

	imgs, err := light.LoadEnvironment(context.Background(), l, src)
	require.NoError(t, err)

	for face := range 6 {
		require.Len(t, imgs.Skybox[face], 1)
		require.Len(t, imgs.Irradiance[face], 1)
		require.Len(t, imgs.Radiance[face], 2)
		for level := range 2 {
			img := imgs.Radiance[face][level]
			assert.Equal(t, uint32(4>>level), img.Width)
			assert.Equal(t, byte(10*face+level), img.Pixels[0], "face %d level %d", face, level)
		}
	}
	assert.Equal(t, uint32(2), imgs.BRDF.Width)
}

func TestLoadEnvironment_MissingFace(t *testing.T) {
	src := testSource()
	fsys := environmentFS(src)
	delete(fsys, "env/radiance_negy_1_2x2.png")
	l := loader.NewLoader(loader.WithFS(fsys))

	_, err := light.LoadEnvironment(context.Background(), l, src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "radiance cube map")
}

func TestLoadEnvironment_CorruptBRDF(t *testing.T) {
	src := testSource()
	fsys := environmentFS(src)
	fsys[src.BRDF] = &fstest.MapFile{Data: []byte("not an image")}
	l := loader.NewLoader(loader.WithFS(fsys))

	_, err := light.LoadEnvironment(context.Background(), l, src)
	require.Error(t, err)
	assert.Equal(t, common.KindImageDecodeError, common.KindOf(err))
}

func TestLoadEnvironment_NoRadianceLevels(t *testing.T) {
	src := testSource()
	src.RadianceLevels = 0
	_, err := light.LoadEnvironment(context.Background(), loader.NewLoader(loader.WithFS(fstest.MapFS{})), src)
	assert.Error(t, err)
}

func TestEnvironment_UploadBindRelease(t *testing.T) {
	src := testSource()
	imgs, err := light.LoadEnvironment(context.Background(), loader.NewLoader(loader.WithFS(environmentFS(src))), src)
	require.NoError(t, err)

	rec := renderertest.NewRecorder()
	env, err := imgs.Upload(rec)
	require.NoError(t, err)
	assert.Equal(t, 3, rec.Count("CreateCubeTexture"))
	assert.Equal(t, 1, rec.Count("CreateTexture2D"))
	assert.Equal(t, 2, env.Radiance.Levels)
	assert.Equal(t, renderer.TextureKind2D, env.BRDF.Kind)

	p, err := rec.CreateProgram("lit", "", "", nil)
	require.NoError(t, err)
	rec.UseProgram(p)
	env.Bind(rec)
	assert.Equal(t, int32(0), rec.Uniform(p, "irradianceSampler"))
	assert.Equal(t, int32(1), rec.Uniform(p, "radianceSampler"))
	assert.Equal(t, int32(2), rec.Uniform(p, "brdfSampler"))

	env.Release(rec)
	_, textures, _ := rec.Live()
	assert.Zero(t, textures)
	assert.Nil(t, env.Radiance)
}

func TestEnvironment_UploadFailureReleasesPartial(t *testing.T) {
	imgs := &light.EnvironmentImages{}
	for face := range 6 {
		imgs.Skybox[face] = []common.TextureStagingData{{Width: 1, Height: 1, Pixels: make([]byte, 4)}}
	}
	// irradiance left empty, which the device rejects
	rec := renderertest.NewRecorder()
	_, err := imgs.Upload(rec)
	require.Error(t, err)
	_, textures, _ := rec.Live()
	assert.Zero(t, textures)
}

func TestEnvironment_NilIsNoop(t *testing.T) {
	rec := renderertest.NewRecorder()
	var env *light.Environment
	env.Bind(rec)
	env.Release(rec)
	assert.Empty(t, rec.Calls)
}
