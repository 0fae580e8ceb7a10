package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"go.uber.org/zap"

	"github.com/jktools/mediatools/internal/models"
)

// Split extracts the requested 1-indexed pages of a PDF into single-page
// files named page_%04d.pdf under outDir. Out-of-range page numbers are
// silently dropped; an empty filter fails with models.ErrNoValidPages. A nil
// or empty page list means every page.
func (b *Builder) Split(inPath, outDir string, pages []int) ([]string, error) {
	if _, err := os.Stat(inPath); err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrSourceNotFound, inPath)
	}

	total, err := api.PageCountFile(inPath)
	if err != nil {
		return nil, fmt.Errorf("%w: page count: %v", models.ErrImageProcessing, err)
	}

	if len(pages) == 0 {
		pages = make([]int, total)
		for i := range pages {
			pages[i] = i + 1
		}
	}

	var selected []int
	for _, p := range pages {
		if p < 1 || p > total {
			b.logger.Warn("page out of range, dropping",
				zap.Int("page", p), zap.Int("total", total))
			continue
		}
		selected = append(selected, p)
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("%w: all requested pages out of range", models.ErrNoValidPages)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create output dir: %v", models.ErrImageProcessing, err)
	}

	var created []string
	for _, p := range selected {
		outPath := filepath.Join(outDir, fmt.Sprintf("page_%04d.pdf", p))
		if err := api.TrimFile(inPath, outPath, []string{strconv.Itoa(p)}, nil); err != nil {
			return nil, fmt.Errorf("%w: extract page %d: %v", models.ErrImageProcessing, p, err)
		}
		created = append(created, outPath)
	}

	b.logger.Info("split pdf",
		zap.String("input", inPath),
		zap.Int("pages", len(created)))
	return created, nil
}
