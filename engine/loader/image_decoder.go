package loader

import (
	"bytes"
	"errors"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/h2non/filetype"
	"golang.org/x/image/draw"
)

var errNotRaster = errors.New("bytes are not a PNG or JPEG image")

// ImageDecoder turns encoded image bytes into RGBA pixels.
type ImageDecoder interface {
	// Decode decodes PNG or JPEG bytes into tightly packed RGBA8 pixels. Rows are kept in file
	// order (no vertical flip).
	//
	// Parameters:
	//   - data: the encoded image bytes
	//
	// Returns:
	//   - common.TextureStagingData: the decoded pixels and dimensions
	//   - error: an error if the bytes are not a supported raster image or are corrupt
	Decode(data []byte) (common.TextureStagingData, error)
}

// rasterDecoder decodes PNG and JPEG via the standard image codecs after sniffing the magic bytes.
type rasterDecoder struct{}

var _ ImageDecoder = rasterDecoder{}

// NewImageDecoder returns the default PNG/JPEG decoder.
func NewImageDecoder() ImageDecoder {
	return rasterDecoder{}
}

func (rasterDecoder) Decode(data []byte) (common.TextureStagingData, error) {
	if !filetype.Is(data, "png") && !filetype.Is(data, "jpg") {
		return common.TextureStagingData{}, errNotRaster
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return common.TextureStagingData{}, err
	}
	b := src.Bounds()
	rgba, ok := src.(*image.RGBA)
	if !ok || rgba.Stride != b.Dx()*4 || b.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)
	}
	return common.TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(b.Dx()),
		Height: uint32(b.Dy()),
	}, nil
}
