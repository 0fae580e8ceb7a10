package models

type ImagesToPDFRequest struct {
	PageSize         string `json:"page_size"`
	DPI              int    `json:"dpi"`
	CompressionLevel int    `json:"compression_level" binding:"min=1,max=9"`
	TargetSize       int64  `json:"target_size"`
}

type PDFInfo struct {
	PageCount int    `json:"page_count"`
	FileSize  int64  `json:"file_size"`
	FilePath  string `json:"file_path"`
}
