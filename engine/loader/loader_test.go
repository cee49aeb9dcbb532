package loader_test

import (
	"context"
	"errors"
	"image/color"
	"io/fs"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/Carmen-Shannon/oxy-pbr/engine/loader"
	"github.com/Carmen-Shannon/oxy-pbr/engine/loader/loadertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingFS counts file opens.
type countingFS struct {
	fs.FS
	mu    sync.Mutex
	opens map[string]int
}

func newCountingFS(fsys fs.FS) *countingFS {
	return &countingFS{FS: fsys, opens: make(map[string]int)}
}

func (c *countingFS) Open(name string) (fs.File, error) {
	c.mu.Lock()
	c.opens[name]++
	c.mu.Unlock()
	return c.FS.Open(name)
}

func (c *countingFS) count(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opens[name]
}

// countingDecoder counts Decode calls and delegates to the default decoder.
type countingDecoder struct {
	calls atomic.Int32
	fail  error
}

func (d *countingDecoder) Decode(data []byte) (common.TextureStagingData, error) {
	d.calls.Add(1)
	if d.fail != nil {
		return common.TextureStagingData{}, d.fail
	}
	return loader.NewImageDecoder().Decode(data)
}

func TestResolve_BuffersAndImagesInDocumentOrder(t *testing.T) {
	fsys := loadertest.FS("Two", withTwoImages(), map[string][]byte{
		"tri.bin": loadertest.TriangleBin(),
		"a.png":   loadertest.PNG(2, 1, color.RGBA{R: 255, A: 255}),
		"b.jpg":   jpegFixture(t),
	})
	l := loader.NewLoader(loader.WithFS(fsys))

	res, err := l.Resolve(context.Background(), "Two")
	require.NoError(t, err)

	assert.Equal(t, "Two", res.Name)
	assert.Equal(t, "gltf2/Two/glTF/Two.gltf", res.Path)
	require.Len(t, res.Buffers, 1)
	assert.Equal(t, loadertest.TriangleBin(), res.Buffers[0])
	require.Len(t, res.Images, 2)
	assert.Equal(t, uint32(2), res.Images[0].Width)
	assert.Equal(t, uint32(1), res.Images[0].Height)
	assert.Equal(t, []byte{255, 0, 0, 255, 255, 0, 0, 255}, res.Images[0].Pixels)
	assert.Equal(t, uint32(4), res.Images[1].Width)
	assert.Len(t, res.Images[1].Pixels, 4*4*4)
}

func TestResolve_UnsupportedBufferExtension(t *testing.T) {
	doc := loadertest.Textured()
	doc.Buffers[0].URI = "tri.dat"
	fsys := newCountingFS(loadertest.FS("Bad", doc, map[string][]byte{
		"tri.dat":    loadertest.TriangleBin(),
		"albedo.png": loadertest.PNG(1, 1, color.RGBA{A: 255}),
	}))
	dec := &countingDecoder{}
	l := loader.NewLoader(loader.WithFS(fsys), loader.WithImageDecoder(dec))

	_, err := l.Resolve(context.Background(), "Bad")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUnsupportedBufferEncoding))

	var e *common.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "buffers", e.Feature)
	assert.Equal(t, 0, e.Index)

	assert.Zero(t, fsys.count("gltf2/Bad/glTF/tri.dat"))
	assert.Zero(t, fsys.count("gltf2/Bad/glTF/albedo.png"))
	assert.Zero(t, dec.calls.Load())
}

func TestResolve_EmbeddedBuffer(t *testing.T) {
	doc := loadertest.Triangle()
	doc.Buffers[0].URI = ""
	l := loader.NewLoader(loader.WithFS(loadertest.FS("Glb", doc, nil)))

	_, err := l.Resolve(context.Background(), "Glb")
	assert.Equal(t, common.KindUnsupportedBufferEncoding, common.KindOf(err))
}

func TestResolve_DataURIBufferRejected(t *testing.T) {
	doc := loadertest.Triangle()
	doc.Buffers[0].URI = "data:application/octet-stream;base64,AAAA"
	l := loader.NewLoader(loader.WithFS(loadertest.FS("Data", doc, nil)))

	_, err := l.Resolve(context.Background(), "Data")
	assert.Equal(t, common.KindUnsupportedBufferEncoding, common.KindOf(err))
}

func TestResolve_UnsupportedImageFormat(t *testing.T) {
	doc := loadertest.Textured()
	doc.Images = append(doc.Images, loader.Image{URI: "sky.gif"})
	fsys := newCountingFS(loadertest.FS("Gif", doc, map[string][]byte{
		"tri.bin":    loadertest.TriangleBin(),
		"albedo.png": loadertest.PNG(1, 1, color.RGBA{A: 255}),
		"sky.gif":    []byte("GIF89a"),
	}))
	l := loader.NewLoader(loader.WithFS(fsys))

	_, err := l.Resolve(context.Background(), "Gif")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUnsupportedImageFormat))

	var e *common.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, 1, e.Index)
	assert.Equal(t, "sky.gif", e.Detail)
	assert.Zero(t, fsys.count("gltf2/Gif/glTF/tri.bin"))
}

func TestResolve_ImageDecodeFailureFailsWholeLoad(t *testing.T) {
	fsys := loadertest.FS("Corrupt", loadertest.Textured(), map[string][]byte{
		"tri.bin":    loadertest.TriangleBin(),
		"albedo.png": []byte("definitely not a png"),
	})
	l := loader.NewLoader(loader.WithFS(fsys))

	res, err := l.Resolve(context.Background(), "Corrupt")
	assert.Nil(t, res)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrImageDecode))

	var e *common.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "images", e.Feature)
	assert.Equal(t, 0, e.Index)
}

func TestResolve_DecoderErrorIsWrapped(t *testing.T) {
	cause := errors.New("boom")
	l := loader.NewLoader(
		loader.WithFS(loadertest.TexturedFS("Helmet")),
		loader.WithImageDecoder(&countingDecoder{fail: cause}),
	)

	_, err := l.Resolve(context.Background(), "Helmet")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, common.KindImageDecodeError, common.KindOf(err))
}

func TestResolve_ShortBufferIsMalformed(t *testing.T) {
	fsys := loadertest.FS("Short", loadertest.Triangle(), map[string][]byte{
		"tri.bin": loadertest.TriangleBin()[:20],
	})
	l := loader.NewLoader(loader.WithFS(fsys))

	_, err := l.Resolve(context.Background(), "Short")
	assert.True(t, errors.Is(err, common.ErrMalformedDocument))
}

func TestResolve_MissingDocument(t *testing.T) {
	l := loader.NewLoader(loader.WithFS(fstest.MapFS{}))

	_, err := l.Resolve(context.Background(), "Nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestResolve_NoCachingAcrossCalls(t *testing.T) {
	fsys := newCountingFS(loadertest.TexturedFS("Helmet"))
	l := loader.NewLoader(loader.WithFS(fsys))

	first, err := l.Resolve(context.Background(), "Helmet")
	require.NoError(t, err)
	second, err := l.Resolve(context.Background(), "Helmet")
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, 2, fsys.count("gltf2/Helmet/glTF/Helmet.gltf"))
	assert.Equal(t, 2, fsys.count("gltf2/Helmet/glTF/tri.bin"))
	assert.Equal(t, 2, fsys.count("gltf2/Helmet/glTF/albedo.png"))
}

func TestResolve_ReportsProgress(t *testing.T) {
	var items []string
	var last, total int
	l := loader.NewLoader(
		loader.WithFS(loadertest.TexturedFS("Helmet")),
		loader.WithProgress(func(d, n int, item string) {
			items = append(items, item)
			last, total = d, n
		}),
	)

	_, err := l.Resolve(context.Background(), "Helmet")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"gltf2/Helmet/glTF/tri.bin", "gltf2/Helmet/glTF/albedo.png"}, items)
	assert.Equal(t, 2, last)
	assert.Equal(t, 2, total)
}

func TestResolve_CustomLayoutAndEscapedURI(t *testing.T) {
	doc := loadertest.Triangle()
	doc.Buffers[0].URI = "my%20tri.bin"
	fsys := fstest.MapFS{
		"models/Box.gltf":   &fstest.MapFile{Data: mustJSON(t, doc)},
		"models/my tri.bin": &fstest.MapFile{Data: loadertest.TriangleBin()},
	}
	l := loader.NewLoader(loader.WithFS(fsys), loader.WithLayout("models/{name}.gltf"))

	assert.Equal(t, "models/Box.gltf", l.AssetPath("Box"))
	res, err := l.Resolve(context.Background(), "Box")
	require.NoError(t, err)
	assert.Len(t, res.Buffers[0], 44)
}

func TestFetchImages(t *testing.T) {
	fsys := fstest.MapFS{
		"env/a.png": &fstest.MapFile{Data: loadertest.PNG(1, 1, color.RGBA{G: 255, A: 255})},
		"env/b.png": &fstest.MapFile{Data: loadertest.PNG(2, 2, color.RGBA{B: 255, A: 255})},
	}
	l := loader.NewLoader(loader.WithFS(fsys), loader.WithDecodeWorkers(2))

	imgs, err := l.FetchImages(context.Background(), []string{"env/b.png", "env/a.png"})
	require.NoError(t, err)
	require.Len(t, imgs, 2)
	assert.Equal(t, uint32(2), imgs[0].Width)
	assert.Equal(t, []byte{0, 255, 0, 255}, imgs[1].Pixels)

	_, err = l.FetchImages(context.Background(), []string{"env/missing.png"})
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
