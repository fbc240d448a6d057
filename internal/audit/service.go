package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"
	"unicode/utf8"

	"github.com/mrlokans/gymlife/internal/entities"
)

// EventStore persists audit events.
type EventStore interface {
	LogEvent(ctx context.Context, event *entities.AuditEvent) error
}

// Service provides high-level audit logging functionality.
type Service struct {
	repo EventStore
}

// NewService creates a new audit service.
func NewService(repo EventStore) *Service {
	return &Service{repo: repo}
}

// Log records a generic audit event.
func (s *Service) Log(ctx context.Context, event *entities.AuditEvent) error {
	return s.repo.LogEvent(ctx, event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.repo.LogEvent(ctx, event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// LogExercise records a create, update or delete done through the web UI.
func (s *Service) LogExercise(username string, action entities.AuditAction, exercise *entities.Exercise) {
	event := &entities.AuditEvent{
		UserName:    username,
		EventType:   entities.AuditEventExercise,
		Action:      action,
		Description: truncate(describe(action, exercise.ExerciseName), 500),
		EntityID:    exercise.ID,
		Status:      entities.AuditStatusSuccess,
	}

	s.LogAsync(event)
}

// LogPurge records a purge run, successful or not.
func (s *Service) LogPurge(purged int64, before time.Time, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventPurge,
		Action:      entities.AuditActionPurge,
		Description: fmt.Sprintf("Purged %d deleted exercises", purged),
		Status:      entities.AuditStatusSuccess,
	}

	metadata := map[string]any{
		"purged": purged,
		"before": before.Format(time.RFC3339),
	}
	if mdBytes, e := json.Marshal(metadata); e == nil {
		event.Metadata = string(mdBytes)
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

func describe(action entities.AuditAction, name string) string {
	switch action {
	case entities.AuditActionCreate:
		return "Added exercise: " + name
	case entities.AuditActionUpdate:
		return "Edited exercise: " + name
	case entities.AuditActionDelete:
		return "Deleted exercise: " + name
	default:
		return string(action) + ": " + name
	}
}

// truncate shortens s to at most maxLen bytes without splitting a rune.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
