package export

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWritePDF(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 300, 150))
	img.Set(10, 10, color.NRGBA{R: 0xff, A: 0xff})
	var art bytes.Buffer
	require.NoError(t, png.Encode(&art, img))

	var out bytes.Buffer
	require.NoError(t, WritePDF(&out, art.Bytes(), "SPARKLE_1700000000000"))
	assert.True(t, bytes.HasPrefix(out.Bytes(), []byte("%PDF-")))
	assert.Contains(t, out.String(), "%%EOF")
}

func TestWritePDFRejectsBadImage(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, WritePDF(&out, []byte("not a png"), "x"))
	assert.Error(t, WritePDF(&out, nil, "x"))
	assert.Zero(t, out.Len())
}
