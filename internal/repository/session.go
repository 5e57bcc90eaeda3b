package repository

import (
	"context"

	"nftforge/nft_backend/internal/model"

	"gorm.io/gorm"
)

type SessionRepository interface {
	Create(ctx context.Context, session *model.UploadSession) error
	GetBySessionID(ctx context.Context, sessionID string) (*model.UploadSession, error)
	UpdateProgress(ctx context.Context, sessionID string, status string, bytesUploaded int64, percentage float64) error
	Complete(ctx context.Context, sessionID string, nftID uint) error
	Fail(ctx context.Context, sessionID string, errorMessage string) error
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *model.UploadSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) GetBySessionID(ctx context.Context, sessionID string) (*model.UploadSession, error) {
	var session model.UploadSession

	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&session).Error
	if err != nil {
		return nil, err
	}

	return &session, nil
}

func (r *sessionRepository) UpdateProgress(ctx context.Context, sessionID string, status string, bytesUploaded int64, percentage float64) error {
	return r.db.WithContext(ctx).Model(&model.UploadSession{}).
		Where("session_id = ?", sessionID).
		Updates(map[string]interface{}{
			"upload_status":       status,
			"bytes_uploaded":      bytesUploaded,
			"progress_percentage": percentage,
		}).Error
}

func (r *sessionRepository) Complete(ctx context.Context, sessionID string, nftID uint) error {
	return r.db.WithContext(ctx).Model(&model.UploadSession{}).
		Where("session_id = ?", sessionID).
		Updates(map[string]interface{}{
			"upload_status":       model.UploadStatusCompleted,
			"progress_percentage": 100.0,
			"nft_metadata_id":     nftID,
		}).Error
}

// Fail marks the session terminal with the error detail. The row is kept
// forever as an audit trail of the attempt.
func (r *sessionRepository) Fail(ctx context.Context, sessionID string, errorMessage string) error {
	return r.db.WithContext(ctx).Model(&model.UploadSession{}).
		Where("session_id = ?", sessionID).
		Updates(map[string]interface{}{
			"upload_status": model.UploadStatusFailed,
			"error_message": errorMessage,
		}).Error
}
