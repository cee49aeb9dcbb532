// Package resource uploads the byte ranges and images of one resolved asset to the GPU and owns
// the resulting handles until the asset is torn down.
package resource

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/Carmen-Shannon/oxy-pbr/engine/loader"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer"
	"go.uber.org/zap"
)

// manager is the implementation of the Manager interface.
type manager struct {
	device  renderer.Device
	doc     *loader.Document
	buffers [][]byte

	views    map[int]*renderer.Buffer
	textures []*renderer.Texture
}

// Manager memoizes bufferView uploads for a single asset and tracks every GPU object it creates.
// It is not safe for concurrent use; all calls happen on the GPU thread.
type Manager interface {
	// UploadBufferView returns the buffer for a bufferView, uploading it on first request. The
	// bufferView's own target hint, when present, overrides target. Later requests for the same
	// index return the same handle regardless of target.
	//
	// Parameters:
	//   - index: the bufferView index
	//   - target: ARRAY_BUFFER or ELEMENT_ARRAY_BUFFER, used when the bufferView has no hint
	//
	// Returns:
	//   - *renderer.Buffer: the uploaded buffer
	//   - error: a MalformedDocument error for a bad index, or the device error
	UploadBufferView(index, target int) (*renderer.Buffer, error)

	// BufferView returns a previously uploaded bufferView.
	//
	// Parameters:
	//   - index: the bufferView index
	//
	// Returns:
	//   - *renderer.Buffer: the buffer, or nil
	//   - bool: false when the bufferView was never uploaded
	BufferView(index int) (*renderer.Buffer, bool)

	// UploadImage creates a new texture from decoded pixels with linear filtering and repeat
	// wrapping. Every call creates a new texture.
	//
	// Parameters:
	//   - img: the decoded image
	//
	// Returns:
	//   - *renderer.Texture: the new texture
	//   - error: the device error
	UploadImage(img common.TextureStagingData) (*renderer.Texture, error)

	// Counts reports how many buffers and textures are currently held.
	//
	// Returns:
	//   - int: live buffers
	//   - int: live textures
	Counts() (buffers, textures int)

	// Release deletes every buffer and texture created through this manager.
	Release()
}

var _ Manager = &manager{}

// NewManager creates a manager over the resolved buffers of one asset.
//
// Parameters:
//   - device: the GPU device to upload to
//   - assets: the resolved asset whose bufferViews are uploaded
//
// Returns:
//   - Manager: the new manager
func NewManager(device renderer.Device, assets *loader.ResolvedAssets) Manager {
	return &manager{
		device:  device,
		doc:     assets.Document,
		buffers: assets.Buffers,
		views:   make(map[int]*renderer.Buffer),
	}
}

func (m *manager) UploadBufferView(index, target int) (*renderer.Buffer, error) {
	if b, ok := m.views[index]; ok {
		return b, nil
	}
	if index < 0 || index >= len(m.doc.BufferViews) {
		return nil, common.NewError(common.KindMalformedDocument, "bufferViews", index, "index out of range")
	}

	bv := m.doc.BufferViews[index]
	data := m.buffers[bv.Buffer]
	end := bv.ByteOffset + bv.ByteLength
	if end > len(data) {
		return nil, common.NewError(common.KindMalformedDocument, "bufferViews", index,
			fmt.Sprintf("range ends at %d past buffer length %d", end, len(data)))
	}
	if bv.Target != nil {
		target = *bv.Target
	}

	b, err := m.device.CreateBuffer(target, data[bv.ByteOffset:end])
	if err != nil {
		return nil, fmt.Errorf("failed to upload bufferView %d: %w", index, err)
	}
	m.views[index] = b
	common.Logger().Debug("bufferView uploaded",
		zap.Int("bufferView", index),
		zap.Int("target", target),
		zap.Int("bytes", bv.ByteLength))
	return b, nil
}

func (m *manager) BufferView(index int) (*renderer.Buffer, bool) {
	b, ok := m.views[index]
	return b, ok
}

func (m *manager) UploadImage(img common.TextureStagingData) (*renderer.Texture, error) {
	t, err := m.device.CreateTexture2D(img)
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}
	m.textures = append(m.textures, t)
	return t, nil
}

func (m *manager) Counts() (buffers, textures int) {
	return len(m.views), len(m.textures)
}

func (m *manager) Release() {
	for idx, b := range m.views {
		m.device.DeleteBuffer(b)
		delete(m.views, idx)
	}
	for _, t := range m.textures {
		m.device.DeleteTexture(t)
	}
	m.textures = nil
}
