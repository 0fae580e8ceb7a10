package pdf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"go.uber.org/zap"

	"github.com/jktools/mediatools/internal/models"
)

// Merge concatenates the pages of the given PDFs, in caller order, into one
// output file. Missing inputs are skipped with a warning; zero survivors fail
// with models.ErrNoValidInput rather than emitting a degenerate document.
func (b *Builder) Merge(pdfPaths []string, outPath string) error {
	var valid []string
	for _, p := range pdfPaths {
		if _, err := os.Stat(p); err != nil {
			b.logger.Warn("pdf not found, skipping", zap.String("path", p))
			continue
		}
		valid = append(valid, p)
	}

	if len(valid) == 0 {
		return fmt.Errorf("%w: no source pdfs survived validation", models.ErrNoValidInput)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("%w: create output dir: %v", models.ErrImageProcessing, err)
	}
	if err := api.MergeCreateFile(valid, outPath, false, nil); err != nil {
		return fmt.Errorf("%w: merge: %v", models.ErrImageProcessing, err)
	}

	b.logger.Info("merged pdfs",
		zap.Int("sources", len(valid)),
		zap.String("output", outPath))
	return nil
}

// Optimize rewrites a PDF with pdfcpu's optimizer, replacing it in place.
func (b *Builder) Optimize(path string) error {
	tmp := path + ".opt"
	if err := api.OptimizeFile(path, tmp, nil); err != nil {
		return fmt.Errorf("%w: optimize: %v", models.ErrImageProcessing, err)
	}
	return os.Rename(tmp, path)
}
