package scene

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/Carmen-Shannon/oxy-pbr/engine/camera"
	"github.com/Carmen-Shannon/oxy-pbr/engine/loader"
	"github.com/Carmen-Shannon/oxy-pbr/engine/model"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/resource"
	"go.uber.org/zap"
)

// LoadedScene is one asset built onto the GPU. It owns every buffer and texture created for it;
// nothing is shared with other LoadedScene values.
type LoadedScene struct {
	// Assets is the resolved asset the scene was built from.
	Assets *loader.ResolvedAssets
	// Document is Assets.Document.
	Document *loader.Document
	// Resources holds the scene's uploaded bufferViews and textures.
	Resources resource.Manager

	// Meshes holds one renderable mesh per document mesh.
	Meshes []*model.Mesh
	// Cameras holds one camera per document camera.
	Cameras []camera.Camera
	// Textures holds one uploaded texture per document image.
	Textures []*renderer.Texture
	// Materials holds one resolved material per document material.
	Materials []material.Material

	defaultMaterial material.Material
}

// Build uploads a resolved asset and converts its meshes, cameras, images and materials into
// renderable handles. It must run on the goroutine owning the GPU context. On failure every object
// created so far is deleted and no scene is returned.
//
// Parameters:
//   - device: the device to upload to
//   - assets: the resolved asset
//
// Returns:
//   - *LoadedScene: the built scene
//   - error: UnsupportedPrimitiveMode, UnsupportedAccessorLayout, UnsupportedCameraMode,
//     MalformedDocument, or an upload failure
func Build(device renderer.Device, assets *loader.ResolvedAssets) (*LoadedScene, error) {
	doc := assets.Document
	s := &LoadedScene{
		Assets:          assets,
		Document:        doc,
		Resources:       resource.NewManager(device, assets),
		defaultMaterial: material.Default(),
	}
	if err := s.build(); err != nil {
		s.Release()
		return nil, fmt.Errorf("failed to build scene %s: %w", assets.Name, err)
	}

	buffers, textures := s.Resources.Counts()
	common.Logger().Info("scene built",
		zap.String("asset", assets.Name),
		zap.Int("meshes", len(s.Meshes)),
		zap.Int("cameras", len(s.Cameras)),
		zap.Int("buffers", buffers),
		zap.Int("textures", textures))
	return s, nil
}

func (s *LoadedScene) build() error {
	doc := s.Document

	skipped := make(map[string]bool)
	onSkip := func(semantic string) {
		if skipped[semantic] {
			return
		}
		skipped[semantic] = true
		common.Logger().Warn("vertex attribute not supported, skipping",
			zap.String("asset", s.Assets.Name), zap.String("attribute", semantic))
	}

	s.Meshes = make([]*model.Mesh, len(doc.Meshes))
	for i := range doc.Meshes {
		m, err := model.Build(doc, i, s.Resources, model.WithSkippedAttributeHandler(onSkip))
		if err != nil {
			return err
		}
		s.Meshes[i] = m
	}

	s.Cameras = make([]camera.Camera, len(doc.Cameras))
	for i, c := range doc.Cameras {
		cam, err := camera.FromDocument(c, i)
		if err != nil {
			return err
		}
		s.Cameras[i] = cam
	}

	s.Textures = make([]*renderer.Texture, len(s.Assets.Images))
	for i, img := range s.Assets.Images {
		t, err := s.Resources.UploadImage(img)
		if err != nil {
			return fmt.Errorf("image %d: %w", i, err)
		}
		s.Textures[i] = t
	}

	s.Materials = make([]material.Material, len(doc.Materials))
	for i := range doc.Materials {
		m, err := material.FromDocument(doc, i, s.Textures)
		if err != nil {
			return err
		}
		s.Materials[i] = m
	}
	return nil
}

// Material returns the material at index, or the default material when index is nil.
//
// Parameters:
//   - index: the document material index, or nil
//
// Returns:
//   - material.Material: the material
func (s *LoadedScene) Material(index *int) material.Material {
	if index == nil || *index < 0 || *index >= len(s.Materials) {
		return s.defaultMaterial
	}
	return s.Materials[*index]
}

// Release deletes every GPU object the scene created. The scene must not be rendered afterwards.
func (s *LoadedScene) Release() {
	if s == nil || s.Resources == nil {
		return
	}
	s.Resources.Release()
	s.Meshes = nil
	s.Textures = nil
	s.Materials = nil
}
