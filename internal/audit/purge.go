package audit

import (
	"context"
	"time"
)

// Purger hard-deletes exercises soft-deleted before a cutoff.
type Purger interface {
	PurgeDeleted(ctx context.Context, before time.Time) (int64, error)
}

// RecordingPurger wraps a Purger and records every run.
type RecordingPurger struct {
	next    Purger
	service *Service
}

func NewRecordingPurger(next Purger, service *Service) *RecordingPurger {
	return &RecordingPurger{next: next, service: service}
}

func (p *RecordingPurger) PurgeDeleted(ctx context.Context, before time.Time) (int64, error) {
	purged, err := p.next.PurgeDeleted(ctx, before)
	p.service.LogPurge(purged, before, err)
	return purged, err
}
