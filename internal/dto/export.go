package dto

import "time"

// ExportResult describes a rendered approval report and its download token.
type ExportResult struct {
	ExportID      string    `json:"export_id"`
	Format        string    `json:"format"`
	FileName      string    `json:"file_name"`
	DownloadToken string    `json:"download_token"`
	ExpiresAt     time.Time `json:"expires_at"`
}
