package models

type ResizeRequest struct {
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	Percentage     int    `json:"percentage"`
	MaintainAspect bool   `json:"maintain_aspect_ratio"`
	TargetFileSize int64  `json:"target_file_size"`
	DPI            int    `json:"dpi"`
	Quality        int    `json:"quality" binding:"min=1,max=100"`
	Format         string `json:"format"`
}
