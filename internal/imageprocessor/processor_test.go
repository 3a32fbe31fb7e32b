package imageprocessor

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x += 10 {
		img.Set(x, h/2, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestFitDimensions(t *testing.T) {
	cases := []struct {
		name         string
		w, h         int
		maxW, maxH   int
		wantW, wantH int
	}{
		{"landscape thumbnail", 3000, 2000, 150, 150, 150, 100},
		{"landscape medium", 3000, 2000, 400, 400, 400, 267},
		{"portrait", 1000, 2000, 150, 150, 75, 150},
		{"square", 500, 500, 400, 400, 400, 400},
		{"upscale small", 100, 50, 400, 400, 400, 200},
		{"very thin", 10000, 1, 150, 150, 150, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, h := FitDimensions(tc.w, tc.h, tc.maxW, tc.maxH)
			assert.Equal(t, tc.wantW, w)
			assert.Equal(t, tc.wantH, h)
		})
	}
}

func TestResize_JPEGVariants(t *testing.T) {
	// Arrange
	p := NewProcessor(85, true)
	data := encodeJPEG(t, 3000, 2000)

	// Act
	thumb, err := p.Resize(bytes.NewReader(data), SizeThumbnail)
	require.NoError(t, err)
	medium, err := p.Resize(bytes.NewReader(data), SizeMedium)
	require.NoError(t, err)

	// Assert
	w, h, format, err := Dimensions(bytes.NewReader(thumb.Data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 150, w)
	assert.Equal(t, 100, h)

	w, h, _, err = Dimensions(bytes.NewReader(medium.Data))
	require.NoError(t, err)
	assert.Equal(t, 400, w)
	assert.Equal(t, 267, h)
	assert.Equal(t, "image/jpeg", medium.ContentType)
}

func TestResize_PNGKeepsTransparency(t *testing.T) {
	// Arrange: полностью прозрачная картинка
	src := image.NewNRGBA(image.Rect(0, 0, 600, 300))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	// Act
	res, err := NewProcessor(0, true).Resize(&buf, SizeThumbnail)
	require.NoError(t, err)

	// Assert
	out, err := png.Decode(bytes.NewReader(res.Data))
	require.NoError(t, err)
	assert.Equal(t, 150, out.Bounds().Dx())
	assert.Equal(t, 75, out.Bounds().Dy())
	_, _, _, a := out.At(10, 10).RGBA()
	assert.Equal(t, uint32(0), a)
}

func TestResize_Disabled(t *testing.T) {
	p := NewProcessor(85, false)

	_, err := p.Resize(bytes.NewReader(encodeJPEG(t, 10, 10)), SizeThumbnail)
	assert.ErrorIs(t, err, ErrDisabled)
	assert.False(t, p.Enabled())
}

func TestResize_WebPIsDecodeOnly(t *testing.T) {
	data, err := base64.StdEncoding.DecodeString("UklGRhoAAABXRUJQVlA4TA0AAAAvAAAAEAcQERGIiP4HAA==")
	require.NoError(t, err)

	w, h, format, err := Dimensions(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "webp", format)
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, h)

	_, err = NewProcessor(85, true).Resize(bytes.NewReader(data), SizeThumbnail)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestResize_NotAnImage(t *testing.T) {
	_, err := NewProcessor(85, true).Resize(bytes.NewReader([]byte("plain text")), SizeThumbnail)
	assert.Error(t, err)
}

func TestIsImageMime(t *testing.T) {
	assert.True(t, IsImageMime("image/png"))
	assert.False(t, IsImageMime("application/pdf"))
	assert.False(t, IsImageMime("image/"))
}
