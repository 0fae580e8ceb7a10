package converter

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jktools/mediatools/internal/models"
)

func testPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := imaging.New(width, height, color.NRGBA{R: 40, G: 120, B: 200, A: 255})
	buf := &bytes.Buffer{}
	require.NoError(t, imaging.Encode(buf, img, imaging.PNG))
	return buf.Bytes()
}

func testTransparentPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := imaging.New(width, height, color.NRGBA{R: 255, G: 0, B: 0, A: 128})
	buf := &bytes.Buffer{}
	require.NoError(t, imaging.Encode(buf, img, imaging.PNG))
	return buf.Bytes()
}

func TestConvertAllFormats(t *testing.T) {
	c := New(zap.NewNop())
	src := testPNG(t, 64, 48)

	for _, format := range SupportedFormats {
		t.Run(string(format), func(t *testing.T) {
			out, err := c.Convert(src, Options{Format: format, Quality: 85})
			require.NoError(t, err)
			require.NotEmpty(t, out)

			img, name, err := image.Decode(bytes.NewReader(out))
			require.NoError(t, err)
			assert.Equal(t, string(format), name)
			assert.Equal(t, 64, img.Bounds().Dx())
			assert.Equal(t, 48, img.Bounds().Dy())
		})
	}
}

func TestConvertTransparentToJPEG(t *testing.T) {
	c := New(zap.NewNop())
	src := testTransparentPNG(t, 32, 32)

	out, err := c.Convert(src, Options{Format: FormatJPEG, Quality: 90})
	require.NoError(t, err)

	img, name, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", name)

	// Half-transparent red over white must come out pinkish, not black.
	r, g, b, a := img.At(16, 16).RGBA()
	assert.Equal(t, uint32(0xffff), a)
	assert.Greater(t, r, uint32(0x9000))
	assert.Greater(t, g, uint32(0x4000))
	assert.Greater(t, b, uint32(0x4000))
}

func TestConvertRoundTripKeepsDimensions(t *testing.T) {
	c := New(zap.NewNop())
	src := testPNG(t, 123, 77)

	webpBytes, err := c.Convert(src, Options{Format: FormatWEBP, Quality: 80})
	require.NoError(t, err)

	pngBytes, err := c.Convert(webpBytes, Options{Format: FormatPNG})
	require.NoError(t, err)

	img, name, err := image.Decode(bytes.NewReader(pngBytes))
	require.NoError(t, err)
	assert.Equal(t, "png", name)
	assert.Equal(t, 123, img.Bounds().Dx())
	assert.Equal(t, 77, img.Bounds().Dy())
}

func TestConvertInvalidData(t *testing.T) {
	c := New(zap.NewNop())

	_, err := c.Convert([]byte("definitely not an image"), Options{Format: FormatPNG})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrImageProcessing))
}

func TestConvertFile(t *testing.T) {
	c := New(zap.NewNop())
	dir := t.TempDir()

	inPath := filepath.Join(dir, "in.png")
	require.NoError(t, os.WriteFile(inPath, testPNG(t, 20, 20), 0o644))

	outPath := filepath.Join(dir, "nested", "out.jpg")
	require.NoError(t, c.ConvertFile(inPath, outPath, Options{Format: FormatJPEG, Quality: 90}))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	_, name, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", name)
}

func TestConvertFileMissingInput(t *testing.T) {
	c := New(zap.NewNop())

	err := c.ConvertFile(filepath.Join(t.TempDir(), "nope.png"), "out.jpg", Options{Format: FormatJPEG})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrSourceNotFound))
}

func TestInfo(t *testing.T) {
	c := New(zap.NewNop())
	dir := t.TempDir()

	path := filepath.Join(dir, "probe.png")
	require.NoError(t, os.WriteFile(path, testPNG(t, 81, 27), 0o644))

	info, err := c.Info(path)
	require.NoError(t, err)
	assert.Equal(t, "png", info.Format)
	assert.Equal(t, 81, info.Width)
	assert.Equal(t, 27, info.Height)
	assert.Positive(t, info.FileSize)

	_, err = c.Info(filepath.Join(dir, "missing.png"))
	assert.True(t, errors.Is(err, models.ErrSourceNotFound))
}
