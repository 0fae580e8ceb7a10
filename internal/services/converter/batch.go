package converter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/jktools/mediatools/internal/models"
)

// BatchConvert converts every file in inDir matching pattern, writing results
// to outDir with the target format's extension. Per-file failures are counted
// and logged, never aborting the batch; a missing input directory aborts the
// whole run with models.ErrSourceNotFound.
func (c *Converter) BatchConvert(inDir, outDir, pattern string, opts Options) (models.BatchResult, error) {
	var result models.BatchResult

	if fi, err := os.Stat(inDir); err != nil || !fi.IsDir() {
		return result, fmt.Errorf("%w: input directory %s", models.ErrSourceNotFound, inDir)
	}

	if pattern == "" {
		pattern = "*"
	}
	matches, err := filepath.Glob(filepath.Join(inDir, pattern))
	if err != nil {
		return result, fmt.Errorf("%w: bad pattern %q: %v", models.ErrImageProcessing, pattern, err)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return result, fmt.Errorf("%w: create output dir: %v", models.ErrImageProcessing, err)
	}

	c.logger.Info("starting batch conversion",
		zap.String("input_dir", inDir),
		zap.String("pattern", pattern),
		zap.Int("candidates", len(matches)))

	for _, inPath := range matches {
		if fi, err := os.Stat(inPath); err != nil || fi.IsDir() {
			continue
		}

		base := strings.TrimSuffix(filepath.Base(inPath), filepath.Ext(inPath))
		outPath := filepath.Join(outDir, base+opts.Format.Ext())

		if err := c.ConvertFile(inPath, outPath, opts); err != nil {
			c.logger.Warn("batch item failed", zap.String("file", inPath), zap.Error(err))
			result.Failed++
			continue
		}
		result.Succeeded++
	}

	c.logger.Info("batch conversion complete",
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed))
	return result, nil
}
