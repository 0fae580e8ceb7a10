package resizer

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/jktools/mediatools/internal/models"
	"github.com/jktools/mediatools/internal/services/converter"
)

const (
	ThumbnailSize    = 150
	ThumbnailQuality = 80
)

// Resizer rescales images and re-encodes them through the converter.
type Resizer struct {
	logger *zap.Logger
	enc    *converter.Converter
}

func New(logger *zap.Logger, enc *converter.Converter) *Resizer {
	return &Resizer{logger: logger, enc: enc}
}

// Options control a resize. When Percentage is set it wins over the target
// box. Format empty means "keep the source format".
type Options struct {
	Width          int
	Height         int
	Percentage     int
	MaintainAspect bool
	Format         converter.Format
	Quality        int
	Optimize       bool
}

// FitWithin computes the dimensions of (srcW,srcH) scaled to fit inside
// (boxW,boxH) with aspect ratio preserved. Sources already inside the box are
// left unchanged. The binding constraint follows the box shape: a box wider
// than the source aspect ratio binds on height, otherwise on width.
func FitWithin(srcW, srcH, boxW, boxH int) (int, int) {
	if srcW <= boxW && srcH <= boxH {
		return srcW, srcH
	}

	aspect := float64(srcW) / float64(srcH)
	if float64(boxW)/float64(boxH) > aspect {
		return int(float64(boxH) * aspect), boxH
	}
	return boxW, int(float64(boxW) / aspect)
}

// Resize rescales image bytes according to opts and re-encodes them.
func (r *Resizer) Resize(data []byte, opts Options) ([]byte, error) {
	img, src, err := converter.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	format := opts.Format
	if format == "" {
		format = src
	}

	srcW := img.Bounds().Dx()
	srcH := img.Bounds().Dy()

	var dstW, dstH int
	switch {
	case opts.Percentage > 0:
		dstW = srcW * opts.Percentage / 100
		dstH = srcH * opts.Percentage / 100
	case opts.MaintainAspect:
		dstW, dstH = FitWithin(srcW, srcH, opts.Width, opts.Height)
	default:
		dstW, dstH = opts.Width, opts.Height
	}

	if dstW < 1 || dstH < 1 {
		return nil, fmt.Errorf("%w: target dimensions %dx%d", models.ErrImageProcessing, dstW, dstH)
	}

	if dstW != srcW || dstH != srcH {
		// Lanczos, never nearest-neighbor: downscales must not alias.
		img = imaging.Resize(img, dstW, dstH, imaging.Lanczos)
	}

	r.logger.Debug("resized image",
		zap.Int("src_width", srcW), zap.Int("src_height", srcH),
		zap.Int("dst_width", dstW), zap.Int("dst_height", dstH),
		zap.String("format", string(format)))

	buf := &bytes.Buffer{}
	err = r.enc.Encode(buf, img, converter.Options{
		Format:   format,
		Quality:  opts.Quality,
		Optimize: opts.Optimize,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Thumbnail is a fixed-box convenience: 150x150, aspect preserved, lower
// quality than regular resizes.
func (r *Resizer) Thumbnail(data []byte, format converter.Format) ([]byte, error) {
	return r.Resize(data, Options{
		Width:          ThumbnailSize,
		Height:         ThumbnailSize,
		MaintainAspect: true,
		Format:         format,
		Quality:        ThumbnailQuality,
	})
}
