package common

import (
	"unsafe"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// ComposeTRS builds T * R * S from a translation, a unit quaternion in (x, y, z, w) order and a scale.
//
// Parameters:
//   - t: translation
//   - r: rotation quaternion as (x, y, z, w)
//   - s: scale
//
// Returns:
//   - mgl32.Mat4: the composed local matrix
func ComposeTRS(t [3]float32, r [4]float32, s [3]float32) mgl32.Mat4 {
	q := mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}
	return mgl32.Translate3D(t[0], t[1], t[2]).
		Mul4(q.Mat4()).
		Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
}

// LocalMatrix resolves a node's local transform. An explicit matrix wins over TRS; missing TRS
// components default to zero translation, identity rotation and unit scale.
//
// Parameters:
//   - matrix: explicit column-major matrix, or nil
//   - t: translation, or nil
//   - r: rotation quaternion (x, y, z, w), or nil
//   - s: scale, or nil
//
// Returns:
//   - mgl32.Mat4: the local matrix
func LocalMatrix(matrix *[16]float32, t *[3]float32, r *[4]float32, s *[3]float32) mgl32.Mat4 {
	if matrix != nil {
		return mgl32.Mat4(*matrix)
	}
	return ComposeTRS(
		ValueOr(t, [3]float32{0, 0, 0}),
		ValueOr(r, [4]float32{0, 0, 0, 1}),
		ValueOr(s, [3]float32{1, 1, 1}),
	)
}

// SpinMatrix returns the rotation about +Y applied to the scene root at the given time.
//
// Parameters:
//   - degreesPerSecond: spin rate
//   - seconds: elapsed time
//
// Returns:
//   - mgl32.Mat4: the rotation matrix
func SpinMatrix(degreesPerSecond, seconds float32) mgl32.Mat4 {
	angle := math32.Mod(degreesPerSecond*seconds, 360)
	return mgl32.HomogRotate3DY(mgl32.DegToRad(angle))
}
