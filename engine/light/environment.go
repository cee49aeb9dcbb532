package light

import (
	"context"
	"fmt"
	"path"

	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/Carmen-Shannon/oxy-pbr/engine/loader"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Fixed texture units and sampler uniforms of the image based lighting inputs. Material textures
// start at FirstMaterialUnit.
const (
	UnitIrradiance    = 0
	UnitRadiance      = 1
	UnitBRDF          = 2
	FirstMaterialUnit = 3
)

// Faces lists the cube map face tokens in GL face order (+X, -X, +Y, -Y, +Z, -Z).
var Faces = [6]string{"posx", "negx", "posy", "negy", "posz", "negz"}

// EnvironmentSource names the image files of an environment. Cube map paths are built as
// Dir/{prefix}_{face}.png, or Dir/{prefix}_{face}_{level}_{size}x{size}.png for the radiance mip chain.
type EnvironmentSource struct {
	Dir            string
	Skybox         string
	Irradiance     string
	Radiance       string
	RadianceLevels int
	RadianceSize   int
	// BRDF is the path of the BRDF lookup image, relative to the asset root rather than Dir.
	BRDF string
}

// DefaultEnvironmentSource returns the layout of the bundled environment: a 256 pixel radiance map
// with 9 mip levels.
func DefaultEnvironmentSource() EnvironmentSource {
	return EnvironmentSource{
		Dir:            "okretnica",
		Skybox:         "skybox",
		Irradiance:     "irradiance",
		Radiance:       "radiance",
		RadianceLevels: 9,
		RadianceSize:   256,
		BRDF:           "brdfLUT.png",
	}
}

// CubemapPaths returns the six single level face paths for prefix.
//
// Parameters:
//   - dir: the directory holding the faces
//   - prefix: the file name prefix
//
// Returns:
//   - []string: the face paths in face order
func CubemapPaths(dir, prefix string) []string {
	out := make([]string, 0, len(Faces))
	for _, f := range Faces {
		out = append(out, path.Join(dir, fmt.Sprintf("%s_%s.png", prefix, f)))
	}
	return out
}

// MipCubemapPaths returns face-major paths for a mip chained cube map: every level of +X, then
// every level of -X, and so on. Level l has size max(size>>l, 1).
//
// Parameters:
//   - dir: the directory holding the faces
//   - prefix: the file name prefix
//   - levels: the number of mip levels
//   - size: the edge length of level 0
//
// Returns:
//   - []string: levels*6 paths; path level+levels*face belongs to that face and level
func MipCubemapPaths(dir, prefix string, levels, size int) []string {
	out := make([]string, 0, levels*len(Faces))
	for _, f := range Faces {
		for level := range levels {
			s := max(size>>level, 1)
			out = append(out, path.Join(dir, fmt.Sprintf("%s_%s_%d_%dx%d.png", prefix, f, level, s, s)))
		}
	}
	return out
}

// EnvironmentImages holds the decoded environment ready for upload. Cube maps are indexed
// [face][level].
type EnvironmentImages struct {
	Skybox     [6][]common.TextureStagingData
	Irradiance [6][]common.TextureStagingData
	Radiance   [6][]common.TextureStagingData
	BRDF       common.TextureStagingData
}

// LoadEnvironment concurrently fetches and decodes the three cube maps and the BRDF lookup image.
// The first failure cancels the rest.
//
// Parameters:
//   - ctx: cancels outstanding fetches
//   - l: the loader used to read and decode images
//   - src: the environment layout
//
// Returns:
//   - *EnvironmentImages: the decoded environment
//   - error: the first read or decode failure
func LoadEnvironment(ctx context.Context, l loader.Loader, src EnvironmentSource) (*EnvironmentImages, error) {
	if src.RadianceLevels < 1 {
		return nil, fmt.Errorf("radiance map needs at least one level, got %d", src.RadianceLevels)
	}

	out := &EnvironmentImages{}
	g, gctx := errgroup.WithContext(ctx)
	cube := func(name string, paths []string, levels int, dst *[6][]common.TextureStagingData) {
		g.Go(func() error {
			images, err := l.FetchImages(gctx, paths)
			if err != nil {
				return fmt.Errorf("failed to load %s cube map: %w", name, err)
			}
			*dst = faceChains(images, levels)
			common.Logger().Debug("cube map loaded", zap.String("cubemap", name), zap.Int("levels", levels))
			return nil
		})
	}
	cube("skybox", CubemapPaths(src.Dir, src.Skybox), 1, &out.Skybox)
	cube("irradiance", CubemapPaths(src.Dir, src.Irradiance), 1, &out.Irradiance)
	cube("radiance", MipCubemapPaths(src.Dir, src.Radiance, src.RadianceLevels, src.RadianceSize), src.RadianceLevels, &out.Radiance)
	g.Go(func() error {
		images, err := l.FetchImages(gctx, []string{src.BRDF})
		if err != nil {
			return fmt.Errorf("failed to load BRDF lookup: %w", err)
		}
		out.BRDF = images[0]
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// faceChains regroups a face-major image list; image level+levels*face goes to [face][level].
func faceChains(images []common.TextureStagingData, levels int) [6][]common.TextureStagingData {
	var out [6][]common.TextureStagingData
	for face := range out {
		out[face] = make([]common.TextureStagingData, levels)
		for level := range levels {
			out[face][level] = images[level+levels*face]
		}
	}
	return out
}

// Environment is the GPU side of the image based lighting inputs. The owner releases it.
type Environment struct {
	Skybox     *renderer.Texture
	Irradiance *renderer.Texture
	Radiance   *renderer.Texture
	BRDF       *renderer.Texture
}

// Upload creates the environment textures. Textures already created are deleted if a later upload fails.
//
// Parameters:
//   - device: the device to upload to
//
// Returns:
//   - *Environment: the uploaded environment
//   - error: the first upload failure
func (imgs *EnvironmentImages) Upload(device renderer.Device) (*Environment, error) {
	env := &Environment{}
	var err error
	if env.Skybox, err = device.CreateCubeTexture(imgs.Skybox); err != nil {
		return nil, fmt.Errorf("failed to upload skybox: %w", err)
	}
	if env.Irradiance, err = device.CreateCubeTexture(imgs.Irradiance); err != nil {
		env.Release(device)
		return nil, fmt.Errorf("failed to upload irradiance map: %w", err)
	}
	if env.Radiance, err = device.CreateCubeTexture(imgs.Radiance); err != nil {
		env.Release(device)
		return nil, fmt.Errorf("failed to upload radiance map: %w", err)
	}
	if env.BRDF, err = device.CreateTexture2D(imgs.BRDF); err != nil {
		env.Release(device)
		return nil, fmt.Errorf("failed to upload BRDF lookup: %w", err)
	}
	return env, nil
}

// Bind binds the irradiance, radiance and BRDF textures at their fixed units and points the
// sampler uniforms of the program in use at them. A nil environment binds nothing.
//
// Parameters:
//   - device: the device with the target program in use
func (e *Environment) Bind(device renderer.Device) {
	if e == nil {
		return
	}
	device.BindTexture(UnitIrradiance, e.Irradiance, nil)
	device.SetUniformInt("irradianceSampler", UnitIrradiance)
	device.BindTexture(UnitRadiance, e.Radiance, nil)
	device.SetUniformInt("radianceSampler", UnitRadiance)
	device.BindTexture(UnitBRDF, e.BRDF, nil)
	device.SetUniformInt("brdfSampler", UnitBRDF)
}

// Release deletes every texture of the environment. Safe on a nil or partially uploaded environment.
//
// Parameters:
//   - device: the device the textures were created on
func (e *Environment) Release(device renderer.Device) {
	if e == nil {
		return
	}
	for _, t := range []**renderer.Texture{&e.Skybox, &e.Irradiance, &e.Radiance, &e.BRDF} {
		if *t != nil {
			device.DeleteTexture(*t)
			*t = nil
		}
	}
}
