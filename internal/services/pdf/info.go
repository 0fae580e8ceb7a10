package pdf

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/jktools/mediatools/internal/models"
)

// Info reports page count and file size for a PDF on disk.
func (b *Builder) Info(path string) (*models.PDFInfo, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrSourceNotFound, path)
	}

	count, err := api.PageCountFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: page count: %v", models.ErrImageProcessing, err)
	}

	return &models.PDFInfo{
		PageCount: count,
		FileSize:  fi.Size(),
		FilePath:  path,
	}, nil
}
