package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// CleanupAuditEventsQueue is the queue name of the audit cleanup task.
const CleanupAuditEventsQueue = "cleanup_audit_events"

// DefaultAuditRetention applies when a cleanup task carries no retention.
const DefaultAuditRetention = 30 * 24 * time.Hour

// AuditEventCleaner removes audit events recorded before the given time.
type AuditEventCleaner interface {
	DeleteOldEvents(ctx context.Context, olderThan time.Time) (int64, error)
}

// CleanupAuditEventsTask removes audit events older than Retention.
type CleanupAuditEventsTask struct {
	Retention time.Duration `json:"retention"`
}

// Config returns the queue configuration for audit cleanup tasks.
func (t CleanupAuditEventsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        CleanupAuditEventsQueue,
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// Cutoff returns the time before which audit events are removed.
func (t CleanupAuditEventsTask) Cutoff(now time.Time) time.Time {
	retention := t.Retention
	if retention <= 0 {
		retention = DefaultAuditRetention
	}
	return now.Add(-retention)
}

// CleanupAuditEvents runs a cleanup synchronously and returns the number of
// events removed.
func CleanupAuditEvents(ctx context.Context, cleaner AuditEventCleaner, task CleanupAuditEventsTask) (int64, error) {
	if cleaner == nil {
		return 0, fmt.Errorf("audit event cleaner not configured")
	}

	cutoff := task.Cutoff(time.Now().UTC())
	deleted, err := cleaner.DeleteOldEvents(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup audit events: %w", err)
	}

	log.Printf("[TASK] Cleaned up %d audit events older than %s", deleted, cutoff.Format(time.RFC3339))
	return deleted, nil
}

// CleanupAuditEventsProcessor creates a processor function for CleanupAuditEventsTask.
func CleanupAuditEventsProcessor(cleaner AuditEventCleaner) backlite.QueueProcessor[CleanupAuditEventsTask] {
	return func(ctx context.Context, task CleanupAuditEventsTask) error {
		_, err := CleanupAuditEvents(ctx, cleaner, task)
		return err
	}
}

// NewCleanupAuditEventsQueue creates a backlite queue for audit cleanup tasks.
func NewCleanupAuditEventsQueue(cleaner AuditEventCleaner) backlite.Queue {
	return backlite.NewQueue(CleanupAuditEventsProcessor(cleaner))
}
