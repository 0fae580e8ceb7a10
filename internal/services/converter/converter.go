package converter

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/jktools/mediatools/internal/models"

	_ "golang.org/x/image/webp" // register WebP decoder
)

// Converter re-encodes images between the supported formats.
type Converter struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Converter {
	return &Converter{logger: logger}
}

// Options control a single conversion. Quality is clamped into [1,100] and
// only honored for JPEG/WEBP; Optimize additionally applies to PNG.
type Options struct {
	Format   Format
	Quality  int
	Optimize bool
}

// Decode reads an image and reports its detected source format.
func Decode(r io.Reader) (image.Image, Format, error) {
	img, name, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("%w: decode: %v", models.ErrImageProcessing, err)
	}
	format, err := ParseFormat(name)
	if err != nil {
		return nil, "", err
	}
	return img, format, nil
}

// Convert re-encodes image bytes into the requested format.
func (c *Converter) Convert(data []byte, opts Options) ([]byte, error) {
	img, src, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	c.logger.Debug("decoded image",
		zap.String("source_format", string(src)),
		zap.String("target_format", string(opts.Format)),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()))

	buf := &bytes.Buffer{}
	if err := c.Encode(buf, img, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ConvertFile converts a file on disk, creating the output directory as
// needed. A missing input fails with models.ErrSourceNotFound.
func (c *Converter) ConvertFile(inPath, outPath string, opts Options) error {
	if _, err := os.Stat(inPath); err != nil {
		return fmt.Errorf("%w: %s", models.ErrSourceNotFound, inPath)
	}

	data, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", models.ErrImageProcessing, inPath, err)
	}

	out, err := c.Convert(data, opts)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: create output dir: %v", models.ErrImageProcessing, err)
		}
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", models.ErrImageProcessing, outPath, err)
	}

	c.logger.Info("converted image",
		zap.String("input", inPath),
		zap.String("output", outPath),
		zap.String("format", string(opts.Format)))
	return nil
}

// Encode writes img in the requested format. JPEG targets are flattened onto
// an opaque white background first since JPEG carries no alpha channel.
func (c *Converter) Encode(w io.Writer, img image.Image, opts Options) error {
	quality := ClampQuality(opts.Quality)

	if opts.Format == FormatJPEG {
		img = Flatten(img)
	}

	var err error
	switch opts.Format {
	case FormatJPEG:
		err = imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
	case FormatPNG:
		if opts.Optimize {
			err = imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
		} else {
			err = imaging.Encode(w, img, imaging.PNG)
		}
	case FormatWEBP:
		err = webp.Encode(w, img, &webp.Options{Quality: float32(quality)})
	case FormatBMP:
		err = imaging.Encode(w, img, imaging.BMP)
	case FormatGIF:
		err = imaging.Encode(w, img, imaging.GIF)
	case FormatTIFF:
		err = imaging.Encode(w, img, imaging.TIFF)
	default:
		return fmt.Errorf("%w: %q", models.ErrUnsupportedFormat, opts.Format)
	}

	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", models.ErrImageProcessing, opts.Format, err)
	}
	return nil
}

// Flatten composites img onto an opaque white background when it may carry
// transparency. Opaque images are returned unchanged.
func Flatten(img image.Image) image.Image {
	if !hasAlpha(img) {
		return img
	}
	bg := imaging.New(img.Bounds().Dx(), img.Bounds().Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}

func hasAlpha(img image.Image) bool {
	switch img.(type) {
	case *image.NRGBA, *image.NRGBA64, *image.RGBA, *image.RGBA64, *image.Paletted:
		return true
	}
	return false
}

// Info probes an image file without converting it.
func (c *Converter) Info(path string) (*models.ImageInfo, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrSourceNotFound, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", models.ErrImageProcessing, path, err)
	}
	defer f.Close()

	cfg, name, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%w: probe %s: %v", models.ErrImageProcessing, path, err)
	}

	return &models.ImageInfo{
		Format:   name,
		Width:    cfg.Width,
		Height:   cfg.Height,
		FileSize: fi.Size(),
	}, nil
}
