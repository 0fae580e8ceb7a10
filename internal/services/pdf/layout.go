package pdf

import (
	"fmt"
	"strings"

	"github.com/jktools/mediatools/internal/models"
)

// PageSize is a named page preset understood by gofpdf.
type PageSize string

const (
	PageA4     PageSize = "A4"
	PageLetter PageSize = "Letter"
)

const (
	// DefaultImageMargin is applied on all four sides of an image page, in points.
	DefaultImageMargin = 10.0
	// DefaultTextMargin bounds the text layout area, in points.
	DefaultTextMargin = 40.0
	DefaultFontName   = "Helvetica"
	DefaultFontSize   = 12.0
)

func ParsePageSize(token string) (PageSize, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "", "a4":
		return PageA4, nil
	case "letter":
		return PageLetter, nil
	default:
		return "", fmt.Errorf("%w: page size %q", models.ErrUnsupportedFormat, token)
	}
}

// Layout carries page geometry for PDF builds.
type Layout struct {
	Page     PageSize
	Margin   float64
	FontName string
	FontSize float64
}

func DefaultLayout() Layout {
	return Layout{
		Page:     PageA4,
		Margin:   DefaultImageMargin,
		FontName: DefaultFontName,
		FontSize: DefaultFontSize,
	}
}

// fitRect scales (w,h) to fill (boxW,boxH) preserving aspect ratio. Unlike
// the resizer's FitWithin, small images are scaled up so each page is filled.
func fitRect(w, h, boxW, boxH float64) (float64, float64) {
	aspect := w / h
	if boxW/boxH < aspect {
		return boxW, boxW / aspect
	}
	return boxH * aspect, boxH
}
