package models

import "time"

// ConversionJob describes an asynchronous conversion of a remote source image.
type ConversionJob struct {
	ID        string         `json:"id"`
	SourceURL string         `json:"source_url"`
	Convert   ConvertRequest `json:"convert"`
	Resize    *ResizeRequest `json:"resize,omitempty"`
	Status    string         `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	Result    *ProcessedFile `json:"result,omitempty"`
	Error     string         `json:"error,omitempty"`
}

type ProcessedFile struct {
	ID          string    `json:"id"`
	OriginalURL string    `json:"original_url"`
	URL         string    `json:"url"`
	Format      string    `json:"format"`
	FileSize    int64     `json:"file_size"`
	ProcessedAt time.Time `json:"processed_at"`
}

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)
