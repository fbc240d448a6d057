package entities

import "time"

type AuditEventType string

const (
	AuditEventExercise AuditEventType = "exercise"
	AuditEventPurge    AuditEventType = "purge"
)

type AuditAction string

const (
	AuditActionCreate AuditAction = "exercise_create"
	AuditActionUpdate AuditAction = "exercise_update"
	AuditActionDelete AuditAction = "exercise_delete"
	AuditActionPurge  AuditAction = "exercise_purge"
)

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailed  AuditStatus = "failed"
)

// AuditEvent records a change to the catalogue. Events outlive the exercises
// they describe, so the exercise name is copied into Description.
type AuditEvent struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserName    string         `gorm:"index;size:64" json:"user_name"`
	EventType   AuditEventType `gorm:"index;size:50" json:"event_type"`
	Action      AuditAction    `gorm:"size:100" json:"action"`
	Description string         `gorm:"size:500" json:"description"`
	EntityID    string         `gorm:"index;size:20" json:"entity_id,omitempty"`
	Metadata    string         `gorm:"type:text" json:"metadata,omitempty"` // JSON for extra data
	Status      AuditStatus    `gorm:"size:20" json:"status"`
	ErrorMsg    string         `gorm:"size:500" json:"error_msg,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}
