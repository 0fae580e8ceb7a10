package handlers

import (
	"archive/zip"
	"bytes"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jktools/mediatools/internal/models"
	"github.com/jktools/mediatools/internal/services/pdf"
)

// ImagesToPDF assembles the uploaded images into a single PDF, one image per
// page in upload order.
func (h *MediaHandler) ImagesToPDF(c *gin.Context) {
	pageSize, err := pdf.ParsePageSize(c.PostForm("page_size"))
	if err != nil {
		h.respondFromErr(c, err)
		return
	}

	// dpi and target_size are accepted for contract compatibility; layout is
	// computed in points so dpi does not change the geometry.
	req := models.ImagesToPDFRequest{
		PageSize:         string(pageSize),
		DPI:              h.parseIntDefault(c.PostForm("dpi"), defaultPDFDPI),
		CompressionLevel: h.parseIntDefault(c.PostForm("compression_level"), defaultCompLevel),
		TargetSize:       h.parseInt64Default(c.PostForm("target_size"), 0),
	}
	if req.CompressionLevel < 1 || req.CompressionLevel > 9 {
		h.respondError(c, http.StatusBadRequest, "compression_level must be between 1 and 9")
		return
	}

	dir, err := h.newScratchDir()
	if err != nil {
		h.respondError(c, http.StatusInternalServerError, "Failed to allocate scratch space")
		return
	}
	defer os.RemoveAll(dir)

	paths, err := h.saveUploads(c, filesParamKey, dir)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	layout := pdf.DefaultLayout()
	layout.Page = pageSize

	outPath := filepath.Join(dir, "output.pdf")
	if err := h.pdf.ImagesToPDF(paths, outPath, layout); err != nil {
		h.logger.Error("image-to-pdf failed", zap.Error(err))
		h.respondFromErr(c, err)
		return
	}

	if req.CompressionLevel >= 5 {
		if err := h.pdf.Optimize(outPath); err != nil {
			h.logger.Warn("pdf optimization failed, serving unoptimized output", zap.Error(err))
		}
	}

	h.respondPDF(c, outPath, "converted.pdf")
}

// MergePDFs concatenates the uploaded PDFs in upload order.
func (h *MediaHandler) MergePDFs(c *gin.Context) {
	dir, err := h.newScratchDir()
	if err != nil {
		h.respondError(c, http.StatusInternalServerError, "Failed to allocate scratch space")
		return
	}
	defer os.RemoveAll(dir)

	paths, err := h.saveUploads(c, filesParamKey, dir)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	outPath := filepath.Join(dir, "merged.pdf")
	if err := h.pdf.Merge(paths, outPath); err != nil {
		h.logger.Error("pdf merge failed", zap.Error(err))
		h.respondFromErr(c, err)
		return
	}

	h.respondPDF(c, outPath, "merged.pdf")
}

// SplitPDF extracts the requested pages into single-page PDFs and responds
// with them zipped.
func (h *MediaHandler) SplitPDF(c *gin.Context) {
	fh, err := c.FormFile(fileParamKey)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "No PDF file provided")
		return
	}

	pages, err := parsePages(c.PostForm("pages"))
	if err != nil {
		h.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	dir, err := h.newScratchDir()
	if err != nil {
		h.respondError(c, http.StatusInternalServerError, "Failed to allocate scratch space")
		return
	}
	defer os.RemoveAll(dir)

	inPath := filepath.Join(dir, "input.pdf")
	if err := c.SaveUploadedFile(fh, inPath); err != nil {
		h.respondError(c, http.StatusInternalServerError, "Failed to save upload")
		return
	}

	created, err := h.pdf.Split(inPath, filepath.Join(dir, "pages"), pages)
	if err != nil {
		h.logger.Error("pdf split failed", zap.Error(err))
		h.respondFromErr(c, err)
		return
	}

	archive, err := zipFiles(created)
	if err != nil {
		h.respondError(c, http.StatusInternalServerError, "Failed to package split pages")
		return
	}

	h.respondFile(c, archive, "pages.zip", "application/zip")
}

// TextToPDF renders a plain-text form field as a paginated PDF.
func (h *MediaHandler) TextToPDF(c *gin.Context) {
	text := c.PostForm("text")

	dir, err := h.newScratchDir()
	if err != nil {
		h.respondError(c, http.StatusInternalServerError, "Failed to allocate scratch space")
		return
	}
	defer os.RemoveAll(dir)

	pageSize, err := pdf.ParsePageSize(c.PostForm("page_size"))
	if err != nil {
		h.respondFromErr(c, err)
		return
	}

	layout := pdf.DefaultLayout()
	layout.Page = pageSize
	layout.Margin = pdf.DefaultTextMargin
	layout.FontSize = float64(h.parseIntDefault(c.PostForm("font_size"), int(pdf.DefaultFontSize)))

	outPath := filepath.Join(dir, "text.pdf")
	if err := h.pdf.TextToPDF(text, outPath, layout); err != nil {
		h.respondFromErr(c, err)
		return
	}

	h.respondPDF(c, outPath, "text.pdf")
}

func (h *MediaHandler) respondPDF(c *gin.Context, path, downloadName string) {
	data, err := os.ReadFile(path)
	if err != nil {
		h.respondError(c, http.StatusInternalServerError, "Failed to read generated PDF")
		return
	}
	h.respondFile(c, data, downloadName, "application/pdf")
}

func zipFiles(paths []string) ([]byte, error) {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)

	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		w, err := zw.Create(filepath.Base(p))
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
