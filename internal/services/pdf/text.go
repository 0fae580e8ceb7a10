package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/phpdave11/gofpdf"
	"go.uber.org/zap"

	"github.com/jktools/mediatools/internal/models"
)

// TextToPDF lays out plain text as left-aligned lines at a fixed left margin
// and line height, starting a new page whenever the next line would fall
// below the bottom margin.
func (b *Builder) TextToPDF(text, outPath string, layout Layout) error {
	if text == "" {
		return fmt.Errorf("%w: no text provided", models.ErrEmptyContent)
	}

	margin := layout.Margin
	if margin <= 0 {
		margin = DefaultTextMargin
	}
	fontName := layout.FontName
	if fontName == "" {
		fontName = DefaultFontName
	}
	fontSize := layout.FontSize
	if fontSize <= 0 {
		fontSize = DefaultFontSize
	}
	lineHeight := fontSize + 4

	doc := gofpdf.New("P", "pt", string(layout.Page), "")
	doc.SetAutoPageBreak(false, 0)
	doc.SetFont(fontName, "", fontSize)
	_, pageH := doc.GetPageSize()

	doc.AddPage()
	y := margin + fontSize

	lines := strings.Split(text, "\n")
	for _, line := range lines {
		if y > pageH-margin {
			doc.AddPage()
			y = margin + fontSize
		}
		doc.Text(margin, y, line)
		y += lineHeight
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("%w: create output dir: %v", models.ErrImageProcessing, err)
	}
	if err := doc.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("%w: write pdf: %v", models.ErrImageProcessing, err)
	}

	b.logger.Info("built pdf from text",
		zap.Int("lines", len(lines)),
		zap.String("output", outPath))
	return nil
}
