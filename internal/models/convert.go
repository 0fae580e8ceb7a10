package models

type ConvertRequest struct {
	TargetFormat   string `json:"target_format" binding:"required"`
	Quality        int    `json:"quality" binding:"min=1,max=100"`
	RemoveMetadata bool   `json:"remove_metadata"`
	Optimize       bool   `json:"optimize"`
}

// BatchResult reports per-file outcomes of a directory conversion.
type BatchResult struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

type ImageInfo struct {
	Format   string `json:"format"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	FileSize int64  `json:"file_size"`
}
