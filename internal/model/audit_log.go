package model

import "time"

// Audit actions recorded for worker records.
const (
	AuditActionCreate = "create"
	AuditActionDelete = "delete"
)

// AuditLog records a mutation of the worker registry.
// Entries are written after the fact and never block the mutation itself.
type AuditLog struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	WorkerID  uint      `json:"worker_id" gorm:"not null;index"`
	ActorID   *uint     `json:"actor_id,omitempty" gorm:"index"` // NULL for anonymous import
	Action    string    `json:"action" gorm:"type:varchar(20);not null;index"`
	Detail    string    `json:"detail,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
}
