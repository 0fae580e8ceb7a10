package handlers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jktools/mediatools/internal/config"
	"github.com/jktools/mediatools/internal/models"
	"github.com/jktools/mediatools/internal/services/converter"
	"github.com/jktools/mediatools/internal/services/pdf"
	"github.com/jktools/mediatools/internal/services/queue"
	"github.com/jktools/mediatools/internal/services/resizer"
	"github.com/jktools/mediatools/internal/services/storage"
)

const (
	defaultQuality    = 90
	defaultResizeDPI  = 72
	defaultPDFDPI     = 300
	defaultCompLevel  = 5
	fileParamKey      = "file"
	filesParamKey     = "files"
)

type MediaHandler struct {
	converter *converter.Converter
	resizer   *resizer.Resizer
	pdf       *pdf.Builder
	storage   *storage.Service
	queue     *queue.Service
	logger    *zap.Logger
	config    *config.Config
}

func NewMediaHandler(
	conv *converter.Converter,
	res *resizer.Resizer,
	builder *pdf.Builder,
	store *storage.Service,
	jobs *queue.Service,
	logger *zap.Logger,
	cfg *config.Config,
) *MediaHandler {
	return &MediaHandler{
		converter: conv,
		resizer:   res,
		pdf:       builder,
		storage:   store,
		queue:     jobs,
		logger:    logger,
		config:    cfg,
	}
}

// ConvertImage re-encodes an uploaded image into the requested format.
// Responds with the converted bytes, or with a JSON status object carrying
// the public URL when store=true and object storage is configured.
func (h *MediaHandler) ConvertImage(c *gin.Context) {
	fh, err := c.FormFile(fileParamKey)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "No image file provided")
		return
	}

	format, err := converter.ParseFormat(c.PostForm("target_format"))
	if err != nil {
		h.respondFromErr(c, err)
		return
	}

	data, err := h.readUpload(fh)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	// Re-encoding never copies source metadata, so remove_metadata is
	// honored implicitly; the flag is accepted for contract compatibility.
	opts := converter.Options{
		Format:   format,
		Quality:  h.parseQuality(c),
		Optimize: h.parseBoolDefault(c.PostForm("optimize"), true),
	}

	out, err := h.converter.Convert(data, opts)
	if err != nil {
		h.logger.Error("conversion failed", zap.String("file", fh.Filename), zap.Error(err))
		h.respondFromErr(c, err)
		return
	}

	if h.parseBoolDefault(c.PostForm("store"), false) && h.storage != nil {
		h.respondStored(c, out, fh.Filename, format)
		return
	}

	h.respondFile(c, out, h.outputName(fh.Filename, format), format.ContentType())
}

// ResizeImage rescales an uploaded image by target box or percentage.
func (h *MediaHandler) ResizeImage(c *gin.Context) {
	fh, err := c.FormFile(fileParamKey)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "No image file provided")
		return
	}

	req := models.ResizeRequest{
		Width:          h.parseIntDefault(c.PostForm("width"), 0),
		Height:         h.parseIntDefault(c.PostForm("height"), 0),
		Percentage:     h.parseIntDefault(c.PostForm("percentage"), 0),
		MaintainAspect: h.parseBoolDefault(c.PostForm("maintain_aspect_ratio"), true),
		TargetFileSize: h.parseInt64Default(c.PostForm("target_file_size"), 0),
		DPI:            h.parseIntDefault(c.PostForm("dpi"), defaultResizeDPI),
		Quality:        h.parseQuality(c),
		Format:         c.PostForm("format"),
	}

	if req.Percentage <= 0 && (req.Width <= 0 || req.Height <= 0) {
		h.respondError(c, http.StatusBadRequest,
			"width and height are required unless percentage is given")
		return
	}

	var format converter.Format
	if req.Format != "" {
		if format, err = converter.ParseFormat(req.Format); err != nil {
			h.respondFromErr(c, err)
			return
		}
	}

	data, err := h.readUpload(fh)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	out, err := h.resizer.Resize(data, resizer.Options{
		Width:          req.Width,
		Height:         req.Height,
		Percentage:     req.Percentage,
		MaintainAspect: req.MaintainAspect,
		Format:         format,
		Quality:        req.Quality,
	})
	if err != nil {
		h.logger.Error("resize failed", zap.String("file", fh.Filename), zap.Error(err))
		h.respondFromErr(c, err)
		return
	}

	if format == "" {
		// Source format kept; reuse the original filename and let the
		// client's type sniffing pick up the payload.
		h.respondFile(c, out, fh.Filename, "application/octet-stream")
		return
	}
	h.respondFile(c, out, h.outputName(fh.Filename, format), format.ContentType())
}

// ThumbnailImage produces a 150x150 aspect-preserving thumbnail.
func (h *MediaHandler) ThumbnailImage(c *gin.Context) {
	fh, err := c.FormFile(fileParamKey)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "No image file provided")
		return
	}

	format := converter.FormatJPEG
	if tok := c.PostForm("target_format"); tok != "" {
		if format, err = converter.ParseFormat(tok); err != nil {
			h.respondFromErr(c, err)
			return
		}
	}

	data, err := h.readUpload(fh)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	out, err := h.resizer.Thumbnail(data, format)
	if err != nil {
		h.respondFromErr(c, err)
		return
	}

	h.respondFile(c, out, h.outputName(fh.Filename, format), format.ContentType())
}

// === STORAGE OPERATIONS ===

func (h *MediaHandler) respondStored(c *gin.Context, data []byte, originalName string, format converter.Format) {
	name := h.outputName(originalName, format)
	url, err := h.storage.Upload(c.Request.Context(), bytes.NewBuffer(data), name, format.ContentType())
	if err != nil {
		h.logger.Warn("failed to upload to storage", zap.Error(err))
		h.respondError(c, http.StatusBadGateway, "Failed to store converted file")
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data: models.ProcessedFile{
			ID:          uuid.New().String(),
			OriginalURL: originalName,
			URL:         url,
			Format:      string(format),
			FileSize:    int64(len(data)),
			ProcessedAt: time.Now(),
		},
	})
}
