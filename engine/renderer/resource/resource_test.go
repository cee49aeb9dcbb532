package resource_test

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/Carmen-Shannon/oxy-pbr/engine/loader"
	"github.com/Carmen-Shannon/oxy-pbr/engine/loader/loadertest"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangleAssets() *loader.ResolvedAssets {
	return &loader.ResolvedAssets{
		Name:     "Tri",
		Document: loadertest.Triangle(),
		Buffers:  [][]byte{loadertest.TriangleBin()},
	}
}

func TestUploadBufferView_Memoized(t *testing.T) {
	rec := renderertest.NewRecorder()
	m := resource.NewManager(rec, triangleAssets())

	a, err := m.UploadBufferView(0, common.TargetArrayBuffer)
	require.NoError(t, err)
	b, err := m.UploadBufferView(0, common.TargetArrayBuffer)
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Equal(t, 1, rec.Count("CreateBuffer"))

	got, ok := m.BufferView(0)
	assert.True(t, ok)
	assert.Same(t, a, got)
}

func TestUploadBufferView_SlicesByteRange(t *testing.T) {
	rec := renderertest.NewRecorder()
	m := resource.NewManager(rec, triangleAssets())

	b, err := m.UploadBufferView(1, common.TargetElementArrayBuffer)
	require.NoError(t, err)
	assert.Equal(t, 6, b.ByteLength)
	assert.Equal(t, loadertest.TriangleBin()[36:42], rec.BufferData(b.ID))
}

func TestUploadBufferView_TargetHintOverrides(t *testing.T) {
	rec := renderertest.NewRecorder()
	m := resource.NewManager(rec, triangleAssets())

	b, err := m.UploadBufferView(1, common.TargetArrayBuffer)
	require.NoError(t, err)
	assert.Equal(t, common.TargetElementArrayBuffer, b.Target)
}

func TestUploadBufferView_NoHintUsesRequestedTarget(t *testing.T) {
	assets := triangleAssets()
	assets.Document.BufferViews[0].Target = nil
	m := resource.NewManager(renderertest.NewRecorder(), assets)

	b, err := m.UploadBufferView(0, common.TargetElementArrayBuffer)
	require.NoError(t, err)
	assert.Equal(t, common.TargetElementArrayBuffer, b.Target)
}

func TestUploadBufferView_OutOfRange(t *testing.T) {
	m := resource.NewManager(renderertest.NewRecorder(), triangleAssets())

	_, err := m.UploadBufferView(5, common.TargetArrayBuffer)
	assert.True(t, errors.Is(err, common.ErrMalformedDocument))
}

func TestUploadImage_AlwaysCreatesNewTexture(t *testing.T) {
	rec := renderertest.NewRecorder()
	m := resource.NewManager(rec, triangleAssets())
	img := common.TextureStagingData{Pixels: make([]byte, 4), Width: 1, Height: 1}

	a, err := m.UploadImage(img)
	require.NoError(t, err)
	b, err := m.UploadImage(img)
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.Equal(t, 2, rec.Count("CreateTexture2D"))
}

func TestRelease_DeletesEverything(t *testing.T) {
	rec := renderertest.NewRecorder()
	m := resource.NewManager(rec, triangleAssets())

	_, err := m.UploadBufferView(0, common.TargetArrayBuffer)
	require.NoError(t, err)
	_, err = m.UploadBufferView(1, common.TargetElementArrayBuffer)
	require.NoError(t, err)
	_, err = m.UploadImage(common.TextureStagingData{Pixels: make([]byte, 4), Width: 1, Height: 1})
	require.NoError(t, err)

	buffers, textures := m.Counts()
	assert.Equal(t, 2, buffers)
	assert.Equal(t, 1, textures)

	m.Release()
	buffers, textures = m.Counts()
	assert.Zero(t, buffers)
	assert.Zero(t, textures)

	liveBuffers, liveTextures, _ := rec.Live()
	assert.Zero(t, liveBuffers)
	assert.Zero(t, liveTextures)
}
