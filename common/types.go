// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

// GL enum values that appear in glTF documents and in sampler state.
const (
	TargetArrayBuffer        = 34962
	TargetElementArrayBuffer = 34963

	FilterNearest              = 9728
	FilterLinear               = 9729
	FilterNearestMipmapNearest = 9984
	FilterLinearMipmapNearest  = 9985
	FilterNearestMipmapLinear  = 9986
	FilterLinearMipmapLinear   = 9987

	WrapClampToEdge    = 33071
	WrapMirroredRepeat = 33648
	WrapRepeat         = 10497
)

// TextureStagingData holds decoded RGBA pixel data pending GPU upload.
type TextureStagingData struct {
	// Pixels is tightly packed RGBA8 data, 4 bytes per pixel, rows top to bottom.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
}

// SamplerStagingData holds the GL sampler state applied when a texture is bound.
type SamplerStagingData struct {
	// MagFilter and MinFilter are GL filter enums.
	MagFilter, MinFilter int32
	// WrapS and WrapT are GL wrap enums.
	WrapS, WrapT int32
}

// DefaultSampler is the sampler used when a texture has none: linear filtering with repeat wrapping.
var DefaultSampler = SamplerStagingData{
	MagFilter: FilterLinear,
	MinFilter: FilterLinear,
	WrapS:     WrapRepeat,
	WrapT:     WrapRepeat,
}
