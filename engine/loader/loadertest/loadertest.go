// Package loadertest builds small in-memory glTF assets for tests.
package loadertest

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"path"
	"strings"
	"testing/fstest"

	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/Carmen-Shannon/oxy-pbr/engine/loader"
)

// PNG encodes a solid w x h image.
func PNG(w, h int, c color.RGBA) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// TriangleBin returns three VEC3 float positions followed by three uint16 indices and two bytes of
// padding: 44 bytes in total. Positions occupy bytes 0-35 and indices bytes 36-41.
func TriangleBin() []byte {
	var buf bytes.Buffer
	buf.Write(common.SliceToBytes([]float32{0, 0, 0, 1, 0, 0, 0, 1, 0}))
	buf.Write(common.SliceToBytes([]uint16{0, 1, 2}))
	buf.Write([]byte{0, 0})
	return buf.Bytes()
}

// Triangle returns a document with one scene, one root node and one indexed triangle mesh that has
// only a POSITION attribute. It references "tri.bin".
func Triangle() *loader.Document {
	return &loader.Document{
		Asset:  loader.Asset{Version: "2.0"},
		Scene:  common.Ptr(0),
		Scenes: []loader.Scene{{Nodes: []int{0}}},
		Nodes:  []loader.Node{{Mesh: common.Ptr(0)}},
		Meshes: []loader.Mesh{{Primitives: []loader.Primitive{{
			Attributes: map[string]int{"POSITION": 0},
			Indices:    common.Ptr(1),
		}}}},
		Accessors: []loader.Accessor{
			{BufferView: common.Ptr(0), ComponentType: loader.ComponentTypeFloat, Count: 3, Type: loader.AccessorTypeVec3},
			{BufferView: common.Ptr(1), ComponentType: loader.ComponentTypeUnsignedShort, Count: 3, Type: loader.AccessorTypeScalar},
		},
		BufferViews: []loader.BufferView{
			{Buffer: 0, ByteOffset: 0, ByteLength: 36, Target: common.Ptr(common.TargetArrayBuffer)},
			{Buffer: 0, ByteOffset: 36, ByteLength: 6, Target: common.Ptr(common.TargetElementArrayBuffer)},
		},
		Buffers: []loader.Buffer{{URI: "tri.bin", ByteLength: 44}},
	}
}

// Textured extends Triangle with a TEXCOORD-less material pair that both reference texture 0,
// backed by "albedo.png", and assigns material 0 to the primitive.
func Textured() *loader.Document {
	doc := Triangle()
	doc.Images = []loader.Image{{URI: "albedo.png"}}
	doc.Samplers = []loader.Sampler{{MagFilter: common.Ptr(common.FilterNearest), WrapS: common.Ptr(common.WrapClampToEdge)}}
	doc.Textures = []loader.Texture{{Source: common.Ptr(0), Sampler: common.Ptr(0)}}
	doc.Materials = []loader.Material{
		{PbrMetallicRoughness: &loader.PbrMetallicRoughness{BaseColorTexture: &loader.TextureInfo{Index: 0}}},
		{PbrMetallicRoughness: &loader.PbrMetallicRoughness{BaseColorTexture: &loader.TextureInfo{Index: 0}}},
	}
	doc.Meshes[0].Primitives[0].Material = common.Ptr(0)
	return doc
}

// FS lays out an asset named name with the default layout: the document plus any extra files placed
// next to it.
func FS(name string, doc *loader.Document, files map[string][]byte) fstest.MapFS {
	docPath := strings.ReplaceAll(loader.DefaultLayout, "{name}", name)
	data, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	fsys := fstest.MapFS{docPath: &fstest.MapFile{Data: data}}
	for p, b := range files {
		fsys[path.Join(path.Dir(docPath), p)] = &fstest.MapFile{Data: b}
	}
	return fsys
}

// TriangleFS is FS for Triangle with its buffer.
func TriangleFS(name string) fstest.MapFS {
	return FS(name, Triangle(), map[string][]byte{"tri.bin": TriangleBin()})
}

// TexturedFS is FS for Textured with its buffer and a 2x2 image.
func TexturedFS(name string) fstest.MapFS {
	return FS(name, Textured(), map[string][]byte{
		"tri.bin":    TriangleBin(),
		"albedo.png": PNG(2, 2, color.RGBA{R: 255, A: 255}),
	})
}
