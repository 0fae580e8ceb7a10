package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jktools/mediatools/internal/models"
)

// EnqueueConvert schedules an asynchronous conversion of a remote source
// image and returns the job id for polling.
func (h *MediaHandler) EnqueueConvert(c *gin.Context) {
	if h.queue == nil || h.storage == nil {
		h.respondError(c, http.StatusServiceUnavailable, "Async processing is not configured")
		return
	}

	sourceURL := c.PostForm("source_url")
	if sourceURL == "" {
		h.respondError(c, http.StatusBadRequest, "source_url is required")
		return
	}
	targetFormat := c.PostForm("target_format")
	if targetFormat == "" {
		h.respondError(c, http.StatusBadRequest, "target_format is required")
		return
	}

	job := &models.ConversionJob{
		ID:        uuid.New().String(),
		SourceURL: sourceURL,
		Convert: models.ConvertRequest{
			TargetFormat:   targetFormat,
			Quality:        h.parseQuality(c),
			RemoveMetadata: h.parseBoolDefault(c.PostForm("remove_metadata"), false),
			Optimize:       h.parseBoolDefault(c.PostForm("optimize"), true),
		},
		Status:    models.StatusPending,
		CreatedAt: time.Now(),
	}

	if width := h.parseIntDefault(c.PostForm("width"), 0); width > 0 {
		job.Resize = &models.ResizeRequest{
			Width:          width,
			Height:         h.parseIntDefault(c.PostForm("height"), 0),
			Percentage:     h.parseIntDefault(c.PostForm("percentage"), 0),
			MaintainAspect: h.parseBoolDefault(c.PostForm("maintain_aspect_ratio"), true),
		}
	}

	if err := h.storage.SetJob(c.Request.Context(), job); err != nil {
		h.logger.Warn("failed to record job", zap.Error(err))
	}

	if err := h.queue.PublishJob(c.Request.Context(), job); err != nil {
		h.logger.Error("failed to publish job", zap.Error(err))
		h.respondError(c, http.StatusServiceUnavailable, "Failed to enqueue job")
		return
	}

	c.JSON(http.StatusAccepted, models.APIResponse{
		Success: true,
		Data:    job,
	})
}

// GetJob returns the recorded state of an asynchronous job.
func (h *MediaHandler) GetJob(c *gin.Context) {
	if h.storage == nil {
		h.respondError(c, http.StatusServiceUnavailable, "Async processing is not configured")
		return
	}

	job, err := h.storage.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("failed to load job", zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, "Failed to load job")
		return
	}
	if job == nil {
		h.respondError(c, http.StatusNotFound, "Unknown job id")
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    job,
	})
}
