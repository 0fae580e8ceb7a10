package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jktools/mediatools/internal/models"
	"github.com/jktools/mediatools/internal/services/converter"
)

// === REQUEST PARSING ===

func (h *MediaHandler) parseIntDefault(value string, defaultVal int) int {
	if value == "" {
		return defaultVal
	}
	num, err := strconv.Atoi(value)
	if err != nil {
		return defaultVal
	}
	return num
}

func (h *MediaHandler) parseInt64Default(value string, defaultVal int64) int64 {
	if value == "" {
		return defaultVal
	}
	num, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultVal
	}
	return num
}

func (h *MediaHandler) parseBoolDefault(value string, defaultVal bool) bool {
	if value == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultVal
	}
	return b
}

func (h *MediaHandler) parseQuality(c *gin.Context) int {
	return converter.ClampQuality(h.parseIntDefault(c.PostForm("quality"), defaultQuality))
}

// parsePages parses a comma-separated list of 1-indexed page numbers.
func parsePages(value string) ([]int, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	var pages []int
	for _, tok := range strings.Split(value, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		p, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("invalid page number %q", tok)
		}
		pages = append(pages, p)
	}
	return pages, nil
}

// === FILE OPERATIONS ===

func (h *MediaHandler) readUpload(fh *multipart.FileHeader) ([]byte, error) {
	if fh.Size > h.config.Storage.MaxFileSize {
		return nil, fmt.Errorf("file size %d exceeds maximum allowed size %d",
			fh.Size, h.config.Storage.MaxFileSize)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}

// newScratchDir creates a per-request directory under the configured scratch
// root. The caller removes it when the request finishes.
func (h *MediaHandler) newScratchDir() (string, error) {
	return os.MkdirTemp(h.config.Storage.ScratchDir, "req-")
}

// saveUploads writes every multipart file under key into dir, preserving the
// original extensions and the upload order.
func (h *MediaHandler) saveUploads(c *gin.Context, key, dir string) ([]string, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("failed to parse form data: %w", err)
	}

	files := form.File[key]
	if len(files) == 0 {
		return nil, fmt.Errorf("no files provided")
	}

	paths := make([]string, 0, len(files))
	for i, fh := range files {
		name := fmt.Sprintf("upload_%03d%s", i, filepath.Ext(fh.Filename))
		dst := filepath.Join(dir, name)
		if err := c.SaveUploadedFile(fh, dst); err != nil {
			return nil, fmt.Errorf("failed to save upload %s: %w", fh.Filename, err)
		}
		paths = append(paths, dst)
	}
	return paths, nil
}

// === RESPONSE HANDLING ===

func (h *MediaHandler) respondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, models.APIResponse{
		Success: false,
		Error:   message,
	})
}

// respondFromErr maps the service error taxonomy onto HTTP statuses.
func (h *MediaHandler) respondFromErr(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrUnsupportedFormat):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrSourceNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrNoValidInput),
		errors.Is(err, models.ErrNoValidPages),
		errors.Is(err, models.ErrEmptyContent),
		errors.Is(err, models.ErrImageProcessing):
		status = http.StatusUnprocessableEntity
	}
	h.respondError(c, status, err.Error())
}

func (h *MediaHandler) respondFile(c *gin.Context, data []byte, filename, contentType string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}

func (h *MediaHandler) outputName(originalFilename string, format converter.Format) string {
	return strings.TrimSuffix(originalFilename, filepath.Ext(originalFilename)) + format.Ext()
}
