package loader_test

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/Carmen-Shannon/oxy-pbr/engine/loader"
	"github.com/Carmen-Shannon/oxy-pbr/engine/loader/loadertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocument_Valid(t *testing.T) {
	doc, err := loader.ParseDocument(mustJSON(t, loadertest.Textured()))
	require.NoError(t, err)

	assert.Equal(t, 0, doc.DefaultScene())
	assert.Equal(t, 4, doc.Meshes[0].Primitives[0].DrawMode())
	require.NotNil(t, doc.Nodes[0].Mesh)
	assert.Nil(t, doc.Nodes[0].Matrix)
}

func TestParseDocument_DefaultSceneWhenUnset(t *testing.T) {
	d := loadertest.Triangle()
	d.Scene = nil
	doc, err := loader.ParseDocument(mustJSON(t, d))
	require.NoError(t, err)
	assert.Equal(t, 0, doc.DefaultScene())
}

func TestParseDocument_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(d *loader.Document)
		feature string
		index   int
	}{
		{
			name:    "missing version",
			mutate:  func(d *loader.Document) { d.Asset.Version = "" },
			feature: "asset.version",
			index:   -1,
		},
		{
			name:    "version one",
			mutate:  func(d *loader.Document) { d.Asset.Version = "1.0" },
			feature: "asset.version",
			index:   -1,
		},
		{
			name:    "bufferView buffer out of range",
			mutate:  func(d *loader.Document) { d.BufferViews[1].Buffer = 3 },
			feature: "bufferViews.buffer",
			index:   1,
		},
		{
			name:    "bufferView past end of buffer",
			mutate:  func(d *loader.Document) { d.BufferViews[1].ByteLength = 100 },
			feature: "bufferViews",
			index:   1,
		},
		{
			name:    "accessor bufferView out of range",
			mutate:  func(d *loader.Document) { d.Accessors[0].BufferView = common.Ptr(9) },
			feature: "accessors.bufferView",
			index:   0,
		},
		{
			name:    "unknown component type",
			mutate:  func(d *loader.Document) { d.Accessors[1].ComponentType = 5124 },
			feature: "accessors.componentType",
			index:   1,
		},
		{
			name:    "accessor past end of bufferView",
			mutate:  func(d *loader.Document) { d.Accessors[0].Count = 4 },
			feature: "accessors",
			index:   0,
		},
		{
			name:    "accessor offset pushes last element out",
			mutate:  func(d *loader.Document) { d.Accessors[1].ByteOffset = 2 },
			feature: "accessors",
			index:   1,
		},
		{
			name: "accessor stride exceeds bufferView",
			mutate: func(d *loader.Document) {
				d.BufferViews[0].ByteStride = common.Ptr(16)
			},
			feature: "accessors",
			index:   0,
		},
		{
			name:    "float indices",
			mutate:  func(d *loader.Document) { d.Meshes[0].Primitives[0].Indices = common.Ptr(0) },
			feature: "meshes.primitives.indices",
			index:   0,
		},
		{
			name:    "signed short indices",
			mutate:  func(d *loader.Document) { d.Accessors[1].ComponentType = loader.ComponentTypeShort },
			feature: "meshes.primitives.indices",
			index:   0,
		},
		{
			name:    "attribute accessor out of range",
			mutate:  func(d *loader.Document) { d.Meshes[0].Primitives[0].Attributes["NORMAL"] = 7 },
			feature: "meshes.primitives.attributes.NORMAL",
			index:   0,
		},
		{
			name:    "material out of range",
			mutate:  func(d *loader.Document) { d.Meshes[0].Primitives[0].Material = common.Ptr(0) },
			feature: "meshes.primitives.material",
			index:   0,
		},
		{
			name:    "node mesh out of range",
			mutate:  func(d *loader.Document) { d.Nodes[0].Mesh = common.Ptr(2) },
			feature: "nodes.mesh",
			index:   0,
		},
		{
			name:    "node camera out of range",
			mutate:  func(d *loader.Document) { d.Nodes[0].Camera = common.Ptr(0) },
			feature: "nodes.camera",
			index:   0,
		},
		{
			name: "node cycle",
			mutate: func(d *loader.Document) {
				d.Nodes = []loader.Node{{Children: []int{1}}, {Children: []int{0}}}
			},
			feature: "nodes.children",
			index:   0,
		},
		{
			name:    "self parent",
			mutate:  func(d *loader.Document) { d.Nodes[0].Children = []int{0} },
			feature: "nodes.children",
			index:   0,
		},
		{
			name:    "scene node out of range",
			mutate:  func(d *loader.Document) { d.Scenes[0].Nodes = []int{4} },
			feature: "scenes.nodes",
			index:   0,
		},
		{
			name:    "default scene out of range",
			mutate:  func(d *loader.Document) { d.Scene = common.Ptr(2) },
			feature: "scene",
			index:   2,
		},
		{
			name:    "unknown camera type",
			mutate:  func(d *loader.Document) { d.Cameras = []loader.Camera{{Type: "fisheye"}} },
			feature: "cameras.type",
			index:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := loadertest.Triangle()
			tt.mutate(d)
			_, err := loader.ParseDocument(mustJSON(t, d))
			require.Error(t, err)

			var e *common.Error
			require.True(t, errors.As(err, &e))
			assert.Equal(t, common.KindMalformedDocument, e.Kind)
			assert.Equal(t, tt.feature, e.Feature)
			assert.Equal(t, tt.index, e.Index)
		})
	}
}

func TestParseDocument_StridedAccessorFits(t *testing.T) {
	d := loadertest.Triangle()
	// two interleaved vec3 per vertex: the last position ends at 2*24+12 = 60
	d.Buffers[0].ByteLength = 100
	d.BufferViews[0].ByteLength = 60
	d.BufferViews[0].ByteStride = common.Ptr(24)
	d.BufferViews[1].ByteOffset = 60
	_, err := loader.ParseDocument(mustJSON(t, d))
	require.NoError(t, err)

	d.BufferViews[0].ByteLength = 59
	_, err = loader.ParseDocument(mustJSON(t, d))
	assert.ErrorIs(t, err, common.ErrMalformedDocument)
}

func TestParseDocument_InvalidJSON(t *testing.T) {
	_, err := loader.ParseDocument([]byte("{not json"))
	assert.True(t, errors.Is(err, common.ErrMalformedDocument))
}

func TestElementComponentsAndSizes(t *testing.T) {
	assert.Equal(t, 3, loader.ElementComponents(loader.AccessorTypeVec3))
	assert.Equal(t, 16, loader.ElementComponents(loader.AccessorTypeMat4))
	assert.Equal(t, 0, loader.ElementComponents("VEC5"))
	assert.Equal(t, 2, loader.ComponentTypeSize(loader.ComponentTypeUnsignedShort))
	assert.Equal(t, 0, loader.ComponentTypeSize(5124))
}
