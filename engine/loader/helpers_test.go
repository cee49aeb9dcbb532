package loader_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/jpeg"
	"testing"

	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/Carmen-Shannon/oxy-pbr/engine/loader"
	"github.com/Carmen-Shannon/oxy-pbr/engine/loader/loadertest"
	"github.com/stretchr/testify/require"
)

func withTwoImages() *loader.Document {
	doc := loadertest.Triangle()
	doc.Images = []loader.Image{{URI: "a.png"}, {URI: "b.jpg"}}
	doc.Textures = []loader.Texture{{Source: common.Ptr(0)}, {Source: common.Ptr(1)}}
	return doc
}

func jpegFixture(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4)), nil))
	return buf.Bytes()
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}
