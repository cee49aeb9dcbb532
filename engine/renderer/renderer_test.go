package renderer_test

import (
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/renderertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const modeLines = 1

func newRecorded() (renderer.Renderer, *renderertest.Recorder) {
	rec := renderertest.NewRecorder()
	return renderer.NewRenderer(renderer.WithBackend(rec)), rec
}

func TestNewRenderer_BackendType(t *testing.T) {
	assert.Equal(t, renderer.BackendTypeGL, renderer.NewRenderer().BackendType())

	r, _ := newRecorded()
	assert.Equal(t, renderer.BackendTypeCustom, r.BackendType())
	assert.Equal(t, renderer.FrameStats{}, r.Stats())
}

func TestStats_Uploads(t *testing.T) {
	r, rec := newRecorded()

	_, err := r.CreateBuffer(common.TargetArrayBuffer, make([]byte, 36))
	require.NoError(t, err)
	_, err = r.CreateTexture2D(common.TextureStagingData{Pixels: make([]byte, 16), Width: 2, Height: 2})
	require.NoError(t, err)

	var faces [6][]common.TextureStagingData
	for i := range faces {
		faces[i] = []common.TextureStagingData{
			{Pixels: make([]byte, 16), Width: 2, Height: 2},
			{Pixels: make([]byte, 4), Width: 1, Height: 1},
		}
	}
	_, err = r.CreateCubeTexture(faces)
	require.NoError(t, err)

	st := r.Stats()
	assert.Equal(t, 1, st.BufferUploads)
	assert.Equal(t, 2, st.TextureUploads)
	assert.Equal(t, 36+16+6*(16+4), st.BytesUploaded)
	assert.Equal(t, 1, rec.Count("CreateBuffer"))
	assert.Equal(t, 1, rec.Count("CreateCubeTexture"))
}

func TestStats_FailedUploadNotCounted(t *testing.T) {
	r, rec := newRecorded()
	rec.FailBuffers = true

	_, err := r.CreateBuffer(common.TargetArrayBuffer, make([]byte, 36))
	require.Error(t, err)

	var faces [6][]common.TextureStagingData
	_, err = r.CreateCubeTexture(faces)
	require.Error(t, err)

	assert.Equal(t, renderer.FrameStats{}, r.Stats())
}

func TestStats_DrawsAndPrograms(t *testing.T) {
	r, rec := newRecorded()
	p, err := r.CreateProgram("pbr", "vs", "fs", nil)
	require.NoError(t, err)

	r.UseProgram(p)
	r.DrawElements(renderer.ModeTriangles, 36, renderer.ComponentUnsignedShort, 0)
	r.DrawArrays(renderer.ModeTriangles, 0, 6)
	r.DrawArrays(modeLines, 0, 4)

	st := r.Stats()
	assert.Equal(t, 1, st.ProgramSwitch)
	assert.Equal(t, 3, st.DrawCalls)
	assert.Equal(t, 14, st.Triangles)

	// the wrapped device still sees every call
	require.Len(t, rec.Draws, 3)
	assert.Same(t, p, rec.Draws[0].Program)
	assert.True(t, rec.Draws[0].Indexed)
	assert.Equal(t, modeLines, rec.Draws[2].Mode)
}

func TestResetStats(t *testing.T) {
	r, _ := newRecorded()
	r.DrawArrays(renderer.ModeTriangles, 0, 3)
	require.Equal(t, 1, r.Stats().DrawCalls)

	r.ResetStats()
	assert.Equal(t, renderer.FrameStats{}, r.Stats())

	r.DrawArrays(renderer.ModeTriangles, 0, 3)
	assert.Equal(t, 1, r.Stats().Triangles)
}

func TestStats_ReadWhileDrawing(t *testing.T) {
	r, _ := newRecorded()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for range 100 {
			_ = r.Stats()
		}
	}()
	for range 100 {
		r.DrawArrays(renderer.ModeTriangles, 0, 3)
	}
	wg.Wait()

	assert.Equal(t, 100, r.Stats().DrawCalls)
	assert.Equal(t, 100, r.Stats().Triangles)
}
