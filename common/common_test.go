package common_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesKind(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("failed to load: %w", common.WrapError(common.KindImageDecodeError, "images", 2, cause))

	assert.ErrorIs(t, err, common.ErrImageDecode)
	assert.NotErrorIs(t, err, common.ErrMalformedDocument)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, common.KindImageDecodeError, common.KindOf(err))
	assert.Equal(t, common.ErrorKind(0), common.KindOf(cause))
}

func TestError_Message(t *testing.T) {
	err := common.NewError(common.KindUnsupportedBufferEncoding, "buffers", 0, "scene.glb")
	assert.Equal(t, "UnsupportedBufferEncoding: buffers[0]: scene.glb", err.Error())

	err = common.NewError(common.KindShaderCompileError, "", -1, "syntax error")
	assert.Equal(t, "ShaderCompileError: syntax error", err.Error())
	assert.Equal(t, "ErrorKind(99)", common.ErrorKind(99).String())
}

func TestLocalMatrix_MatrixWinsOverTRS(t *testing.T) {
	m := [16]float32(mgl32.Translate3D(1, 2, 3))
	got := common.LocalMatrix(&m, &[3]float32{9, 9, 9}, nil, nil)
	assert.Equal(t, mgl32.Translate3D(1, 2, 3), got)
}

func TestLocalMatrix_TRSDefaults(t *testing.T) {
	assert.Equal(t, mgl32.Ident4(), common.LocalMatrix(nil, nil, nil, nil))

	s := [3]float32{2, 2, 2}
	tr := [3]float32{1, 0, 0}
	got := common.LocalMatrix(nil, &tr, nil, &s)
	p := got.Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.Equal(t, mgl32.Vec4{3, 0, 0, 1}, p)
}

func TestComposeTRS_RotatesBeforeTranslating(t *testing.T) {
	q := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 0, 1})
	m := common.ComposeTRS([3]float32{0, 0, 5}, [4]float32{q.V[0], q.V[1], q.V[2], q.W}, [3]float32{1, 1, 1})
	p := m.Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	want := mgl32.Vec4{0, 1, 5, 1}
	assert.InDeltaSlice(t, want[:], p[:], 1e-5)
}

func TestSpinMatrix(t *testing.T) {
	still, full, ident := common.SpinMatrix(0, 10), common.SpinMatrix(90, 4), mgl32.Ident4()
	assert.InDeltaSlice(t, ident[:], still[:], 1e-5)
	assert.InDeltaSlice(t, ident[:], full[:], 1e-5)
	quarter, want := common.SpinMatrix(45, 2), mgl32.HomogRotate3DY(mgl32.DegToRad(90))
	assert.InDeltaSlice(t, want[:], quarter[:], 1e-5)
}

func TestSliceToBytes(t *testing.T) {
	assert.Nil(t, common.SliceToBytes([]float32{}))
	assert.Len(t, common.SliceToBytes([]uint16{1, 2, 3}), 6)
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "b", common.Coalesce("", "b", "c"))
	assert.Equal(t, 0, common.Coalesce(0, 0))
}

func TestLightCountForKey(t *testing.T) {
	n, ok := common.LightCountForKey(common.Key2)
	assert.True(t, ok)
	assert.Equal(t, 2, n)
	_, ok = common.LightCountForKey(common.KeyI)
	assert.False(t, ok)
}
