package model

import "gorm.io/gorm"

// Upload session statuses.
const (
	UploadStatusUploading  = "uploading"
	UploadStatusProcessing = "processing"
	UploadStatusCompleted  = "completed"
	UploadStatusFailed     = "failed"
)

// UploadSession tracks one assembly invocation from first byte to terminal
// state. It is created before any store call and never deleted, so failed
// and crashed runs stay inspectable by session id.
type UploadSession struct {
	gorm.Model
	SessionID        string `json:"session_id" gorm:"size:36;uniqueIndex"`
	OriginalFilename string `json:"original_filename" gorm:"size:255"`
	FileSize         int64  `json:"file_size"`
	ContentType      string `json:"content_type" gorm:"size:100"`
	UploadStatus     string `json:"upload_status" gorm:"size:20;default:uploading"`

	BytesUploaded      int64   `json:"bytes_uploaded"`
	ProgressPercentage float64 `json:"progress_percentage"`

	NFTMetadataID *uint        `json:"nft_metadata_id"`
	NFTMetadata   *NFTMetadata `json:"-"`
	ErrorMessage  string       `json:"error_message"`
}

// Terminal reports whether the session reached a final state.
func (s *UploadSession) Terminal() bool {
	return s.UploadStatus == UploadStatusCompleted || s.UploadStatus == UploadStatusFailed
}
