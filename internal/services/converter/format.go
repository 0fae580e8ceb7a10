package converter

import (
	"fmt"
	"strings"

	"github.com/jktools/mediatools/internal/models"
)

// Format is a normalized target image format token.
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatWEBP Format = "webp"
	FormatBMP  Format = "bmp"
	FormatGIF  Format = "gif"
	FormatTIFF Format = "tiff"
)

// SupportedFormats lists every format the converter can encode.
var SupportedFormats = []Format{FormatJPEG, FormatPNG, FormatWEBP, FormatBMP, FormatGIF, FormatTIFF}

// ParseFormat normalizes a user-supplied format token. Aliases like "jpg",
// ".JPEG" or "tif" are accepted; anything outside the supported set fails
// with models.ErrUnsupportedFormat.
func ParseFormat(token string) (Format, error) {
	t := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(token, ".")))
	switch t {
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	case "webp":
		return FormatWEBP, nil
	case "bmp":
		return FormatBMP, nil
	case "gif":
		return FormatGIF, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	default:
		return "", fmt.Errorf("%w: %q", models.ErrUnsupportedFormat, token)
	}
}

// Ext returns the canonical file extension including the dot.
func (f Format) Ext() string {
	if f == FormatJPEG {
		return ".jpg"
	}
	return "." + string(f)
}

func (f Format) ContentType() string {
	return "image/" + string(f)
}

// SupportsQuality reports whether the format honors a quality setting.
func (f Format) SupportsQuality() bool {
	return f == FormatJPEG || f == FormatWEBP
}

// ClampQuality forces q into [1,100].
func ClampQuality(q int) int {
	if q < 1 {
		return 1
	}
	if q > 100 {
		return 100
	}
	return q
}
