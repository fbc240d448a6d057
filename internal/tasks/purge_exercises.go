package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// PurgeDeletedExercisesQueue is the queue name of the purge task.
const PurgeDeletedExercisesQueue = "purge_deleted_exercises"

// DeletedExercisesPurger hard-deletes exercises that were soft-deleted before
// the given time, together with their favourites.
type DeletedExercisesPurger interface {
	PurgeDeleted(ctx context.Context, before time.Time) (int64, error)
}

// PurgeDeletedExercisesTask removes exercises that stayed soft-deleted for
// longer than Retention.
type PurgeDeletedExercisesTask struct {
	Retention time.Duration `json:"retention"`
}

// Config returns the queue configuration for purge tasks.
func (t PurgeDeletedExercisesTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        PurgeDeletedExercisesQueue,
		MaxAttempts: 3,
		Backoff:     time.Minute,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// Cutoff returns the soft-delete time before which exercises are purged.
func (t PurgeDeletedExercisesTask) Cutoff(now time.Time) time.Time {
	if t.Retention < 0 {
		return now
	}
	return now.Add(-t.Retention)
}

// PurgeDeletedExercises runs a purge synchronously and returns the number of
// exercises removed.
func PurgeDeletedExercises(ctx context.Context, purger DeletedExercisesPurger, task PurgeDeletedExercisesTask) (int64, error) {
	if purger == nil {
		return 0, fmt.Errorf("exercise purger not configured")
	}

	cutoff := task.Cutoff(time.Now().UTC())
	purged, err := purger.PurgeDeleted(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge deleted exercises: %w", err)
	}

	log.Printf("[TASK] Purged %d exercises deleted before %s", purged, cutoff.Format(time.RFC3339))
	return purged, nil
}

// PurgeDeletedExercisesProcessor creates a processor function for PurgeDeletedExercisesTask.
func PurgeDeletedExercisesProcessor(purger DeletedExercisesPurger) backlite.QueueProcessor[PurgeDeletedExercisesTask] {
	return func(ctx context.Context, task PurgeDeletedExercisesTask) error {
		_, err := PurgeDeletedExercises(ctx, purger, task)
		return err
	}
}

// NewPurgeDeletedExercisesQueue creates a backlite queue for purge tasks.
func NewPurgeDeletedExercisesQueue(purger DeletedExercisesPurger) backlite.Queue {
	return backlite.NewQueue(PurgeDeletedExercisesProcessor(purger))
}
