package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jktools/mediatools/internal/models"
	"github.com/jktools/mediatools/internal/services/converter"
	"github.com/jktools/mediatools/internal/services/resizer"
	"github.com/jktools/mediatools/pkg/utils"
)

const maxDownloadSize = 25 * 1024 * 1024

func (q *Service) processJob(ctx context.Context, job *models.ConversionJob) (*models.ProcessedFile, error) {
	cacheKey := q.storage.GenerateCacheKey(job.SourceURL, job.Convert, job.Resize)

	// Identical request already processed?
	cachedData, err := q.storage.GetFromCache(ctx, cacheKey)
	if err == nil && cachedData != nil {
		var cachedResult models.ProcessedFile
		if err := json.Unmarshal(cachedData, &cachedResult); err == nil {
			q.logger.Info("cache hit", zap.String("job_id", job.ID))
			return &cachedResult, nil
		}
	}

	data, _, err := utils.DownloadFile(ctx, job.SourceURL, maxDownloadSize)
	if err != nil {
		return nil, fmt.Errorf("failed to download source: %w", err)
	}

	format, err := converter.ParseFormat(job.Convert.TargetFormat)
	if err != nil {
		return nil, err
	}

	var processed []byte
	if job.Resize != nil {
		processed, err = q.resizer.Resize(data, resizer.Options{
			Width:          job.Resize.Width,
			Height:         job.Resize.Height,
			Percentage:     job.Resize.Percentage,
			MaintainAspect: job.Resize.MaintainAspect,
			Format:         format,
			Quality:        job.Convert.Quality,
			Optimize:       job.Convert.Optimize,
		})
	} else {
		processed, err = q.converter.Convert(data, converter.Options{
			Format:   format,
			Quality:  job.Convert.Quality,
			Optimize: job.Convert.Optimize,
		})
	}
	if err != nil {
		return nil, err
	}

	filename := utils.GenerateFilename(job.ID, string(format))
	url, err := q.storage.SaveFile(ctx, processed, filename, format.ContentType())
	if err != nil {
		return nil, fmt.Errorf("failed to save processed file: %w", err)
	}

	result := &models.ProcessedFile{
		ID:          job.ID,
		OriginalURL: job.SourceURL,
		URL:         url,
		Format:      string(format),
		FileSize:    int64(len(processed)),
		ProcessedAt: time.Now(),
	}

	if resultBytes, err := json.Marshal(result); err == nil {
		if err := q.storage.SetCache(ctx, cacheKey, resultBytes); err != nil {
			q.logger.Warn("failed to cache result", zap.Error(err))
		}
	}

	return result, nil
}
