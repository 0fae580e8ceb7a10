package pdf

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/phpdave11/gofpdf"
	"go.uber.org/zap"

	"github.com/jktools/mediatools/internal/models"

	_ "golang.org/x/image/webp" // register WebP decoder
)

// Builder assembles and manipulates PDF documents.
type Builder struct {
	logger *zap.Logger
}

func NewBuilder(logger *zap.Logger) *Builder {
	return &Builder{logger: logger}
}

var supportedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
	".webp": true,
}

// ImagesToPDF lays out one image per page, centered and scaled to fill the
// page area minus the margin. Missing or unsupported paths are skipped with a
// log; zero survivors fail with models.ErrNoValidInput. A decode failure on a
// surviving image aborts the whole build, leaving no output file.
func (b *Builder) ImagesToPDF(imagePaths []string, outPath string, layout Layout) error {
	var valid []string
	for _, p := range imagePaths {
		if _, err := os.Stat(p); err != nil {
			b.logger.Warn("image not found, skipping", zap.String("path", p))
			continue
		}
		if !supportedImageExts[strings.ToLower(filepath.Ext(p))] {
			b.logger.Warn("unsupported image extension, skipping", zap.String("path", p))
			continue
		}
		valid = append(valid, p)
	}

	if len(valid) == 0 {
		return fmt.Errorf("%w: no images survived validation", models.ErrNoValidInput)
	}

	doc := gofpdf.New("P", "pt", string(layout.Page), "")
	pageW, pageH := doc.GetPageSize()
	availW := pageW - 2*layout.Margin
	availH := pageH - 2*layout.Margin

	for i, path := range valid {
		reader, imgType, w, h, err := b.prepareImage(path)
		if err != nil {
			return err
		}

		drawW, drawH := fitRect(w, h, availW, availH)
		x := (pageW - drawW) / 2
		y := (pageH - drawH) / 2

		name := fmt.Sprintf("page-image-%04d", i)
		opts := gofpdf.ImageOptions{ImageType: imgType}
		doc.AddPage()
		doc.RegisterImageOptionsReader(name, opts, reader)
		doc.ImageOptions(name, x, y, drawW, drawH, false, opts, 0, "")
		if doc.Err() {
			return fmt.Errorf("%w: embed %s: %v", models.ErrImageProcessing, path, doc.Error())
		}
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("%w: create output dir: %v", models.ErrImageProcessing, err)
	}
	if err := doc.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("%w: write pdf: %v", models.ErrImageProcessing, err)
	}

	b.logger.Info("built pdf from images",
		zap.Int("pages", len(valid)),
		zap.String("output", outPath))
	return nil
}

// prepareImage returns a reader gofpdf can register plus the image type tag
// and pixel dimensions. JPEG and PNG pass through untouched; other formats
// are re-encoded to PNG first since gofpdf only embeds JPG/PNG/GIF streams.
func (b *Builder) prepareImage(path string) (io.Reader, string, float64, float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", 0, 0, fmt.Errorf("%w: read %s: %v", models.ErrImageProcessing, path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, "", 0, 0, fmt.Errorf("%w: decode %s: %v", models.ErrImageProcessing, path, err)
		}
		return bytes.NewReader(data), "JPG", float64(cfg.Width), float64(cfg.Height), nil
	case ".png":
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, "", 0, 0, fmt.Errorf("%w: decode %s: %v", models.ErrImageProcessing, path, err)
		}
		return bytes.NewReader(data), "PNG", float64(cfg.Width), float64(cfg.Height), nil
	default:
		img, err := imaging.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, "", 0, 0, fmt.Errorf("%w: decode %s: %v", models.ErrImageProcessing, path, err)
		}
		buf := &bytes.Buffer{}
		if err := imaging.Encode(buf, img, imaging.PNG); err != nil {
			return nil, "", 0, 0, fmt.Errorf("%w: re-encode %s: %v", models.ErrImageProcessing, path, err)
		}
		bounds := img.Bounds()
		return buf, "PNG", float64(bounds.Dx()), float64(bounds.Dy()), nil
	}
}
