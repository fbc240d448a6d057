package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/mrlokans/gymlife/internal/tasks"
	"github.com/robfig/cron/v3"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// TaskEnqueuer adds tasks to the background queue.
type TaskEnqueuer interface {
	Enqueue(ctx context.Context, task backlite.Task) (string, error)
}

// ValidateCronSchedule checks a standard 5-field cron expression.
func ValidateCronSchedule(schedule string) error {
	if schedule == "" {
		return fmt.Errorf("schedule is empty")
	}
	_, err := cronParser.Parse(schedule)
	return err
}

// NextRunTime returns the next activation of schedule after from.
func NextRunTime(schedule string, from time.Time) (time.Time, error) {
	sched, err := cronParser.Parse(schedule)
	if err != nil {
		return time.Time{}, err
	}
	return sched.Next(from), nil
}

// PurgeScheduler periodically enqueues the purge of soft-deleted exercises
type PurgeScheduler struct {
	queue     TaskEnqueuer
	schedule  string
	retention time.Duration
	// auditRetention > 0 also enqueues an audit cleanup on every run
	auditRetention time.Duration

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewPurgeScheduler creates a new scheduler instance
func NewPurgeScheduler(queue TaskEnqueuer, schedule string, retention time.Duration) *PurgeScheduler {
	return &PurgeScheduler{
		queue:     queue,
		schedule:  schedule,
		retention: retention,
		cron:      cron.New(cron.WithParser(cronParser)),
	}
}

// SetAuditRetention makes every scheduled run also drop audit events older
// than retention. Zero turns the cleanup off.
func (s *PurgeScheduler) SetAuditRetention(retention time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auditRetention = retention
}

// Start registers the purge job and starts the cron loop. It stops on its own
// when ctx is cancelled.
func (s *PurgeScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.queue == nil {
		log.Printf("Purge scheduler: task queue not configured, skipping")
		return nil
	}

	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.enqueue(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule purge job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := NextRunTime(s.schedule, time.Now())
	log.Printf("Purge scheduler: started with schedule '%s', retention %v. Next run: %v",
		s.schedule, s.retention, nextRun)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler
func (s *PurgeScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	// Stop accepting new jobs and wait for running jobs to complete
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.cron.Remove(s.entryID)
	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Purge scheduler: stopped")
}

// RunNow enqueues a purge immediately and returns the task ID
func (s *PurgeScheduler) RunNow(ctx context.Context) (string, error) {
	if s.queue == nil {
		return "", fmt.Errorf("task queue not configured")
	}
	return s.queue.Enqueue(ctx, tasks.PurgeDeletedExercisesTask{Retention: s.retention})
}

// IsRunning returns whether the scheduler is active
func (s *PurgeScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next purge will occur
func (s *PurgeScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *PurgeScheduler) enqueue(ctx context.Context) {
	id, err := s.RunNow(ctx)
	if err != nil {
		log.Printf("Purge scheduler: failed to enqueue purge: %v", err)
		return
	}
	log.Printf("Purge scheduler: enqueued purge task %s", id)

	s.mu.RLock()
	auditRetention := s.auditRetention
	s.mu.RUnlock()
	if auditRetention <= 0 {
		return
	}

	id, err = s.queue.Enqueue(ctx, tasks.CleanupAuditEventsTask{Retention: auditRetention})
	if err != nil {
		log.Printf("Purge scheduler: failed to enqueue audit cleanup: %v", err)
		return
	}
	log.Printf("Purge scheduler: enqueued audit cleanup task %s", id)
}
