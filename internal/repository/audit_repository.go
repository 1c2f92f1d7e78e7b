package repository

import (
	"context"

	"gorm.io/gorm"

	"workreg/internal/model"
)

// AuditLogRepository defines audit log persistence operations.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *model.AuditLog) error
	ListByWorker(ctx context.Context, workerID uint) ([]model.AuditLog, error)
}

type auditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository creates a new audit log repository.
func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

// Create creates a new audit log entry.
func (r *auditLogRepository) Create(ctx context.Context, entry *model.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListByWorker returns all audit entries for a worker, oldest first.
func (r *auditLogRepository) ListByWorker(ctx context.Context, workerID uint) ([]model.AuditLog, error) {
	var entries []model.AuditLog
	if err := r.db.WithContext(ctx).Where("worker_id = ?", workerID).Order("id").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
