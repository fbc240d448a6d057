package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/mrlokans/gymlife/internal/tasks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingQueue struct {
	mu    sync.Mutex
	tasks []backlite.Task
	err   error
}

func (q *recordingQueue) Enqueue(ctx context.Context, task backlite.Task) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return "", q.err
	}
	q.tasks = append(q.tasks, task)
	return "task-1", nil
}

func TestValidateCronSchedule(t *testing.T) {
	assert.NoError(t, ValidateCronSchedule("0 * * * *"))
	assert.NoError(t, ValidateCronSchedule("*/15 3 * * 1-5"))
	assert.Error(t, ValidateCronSchedule(""))
	assert.Error(t, ValidateCronSchedule("not a schedule"))
	assert.Error(t, ValidateCronSchedule("0 0 * * * *"), "seconds field is not accepted")
}

func TestNextRunTime(t *testing.T) {
	from := time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC)

	next, err := NextRunTime("0 * * * *", from)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC), next)
}

func TestPurgeScheduler_RunNow(t *testing.T) {
	queue := &recordingQueue{}
	s := NewPurgeScheduler(queue, "0 * * * *", 48*time.Hour)

	id, err := s.RunNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "task-1", id)

	require.Len(t, queue.tasks, 1)
	task, ok := queue.tasks[0].(tasks.PurgeDeletedExercisesTask)
	require.True(t, ok)
	assert.Equal(t, 48*time.Hour, task.Retention)
}

func TestPurgeScheduler_RunNowError(t *testing.T) {
	boom := errors.New("queue down")
	s := NewPurgeScheduler(&recordingQueue{err: boom}, "0 * * * *", time.Hour)

	_, err := s.RunNow(context.Background())
	assert.ErrorIs(t, err, boom)

	_, err = NewPurgeScheduler(nil, "0 * * * *", time.Hour).RunNow(context.Background())
	assert.Error(t, err)
}

func TestPurgeScheduler_StartStop(t *testing.T) {
	s := NewPurgeScheduler(&recordingQueue{}, "0 * * * *", time.Hour)

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	next := s.GetNextRunTime()
	require.NotNil(t, next)
	assert.True(t, next.After(time.Now()))

	// Starting twice is a no-op
	require.NoError(t, s.Start(context.Background()))

	s.Stop()
	assert.False(t, s.IsRunning())
	assert.Nil(t, s.GetNextRunTime())
}

func TestPurgeScheduler_InvalidSchedule(t *testing.T) {
	s := NewPurgeScheduler(&recordingQueue{}, "every hour", time.Hour)

	assert.Error(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
}

func TestPurgeScheduler_StopsWithContext(t *testing.T) {
	s := NewPurgeScheduler(&recordingQueue{}, "0 * * * *", time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))
	cancel()

	assert.Eventually(t, func() bool { return !s.IsRunning() }, 2*time.Second, 10*time.Millisecond)
}

func TestPurgeScheduler_ScheduledRunCleansAudit(t *testing.T) {
	queue := &recordingQueue{}
	s := NewPurgeScheduler(queue, "0 * * * *", time.Hour)
	s.SetAuditRetention(720 * time.Hour)

	s.enqueue(context.Background())

	require.Len(t, queue.tasks, 2)
	assert.IsType(t, tasks.PurgeDeletedExercisesTask{}, queue.tasks[0])
	cleanup, ok := queue.tasks[1].(tasks.CleanupAuditEventsTask)
	require.True(t, ok)
	assert.Equal(t, 720*time.Hour, cleanup.Retention)
}

func TestPurgeScheduler_AuditCleanupOff(t *testing.T) {
	queue := &recordingQueue{}
	s := NewPurgeScheduler(queue, "0 * * * *", time.Hour)

	s.enqueue(context.Background())

	require.Len(t, queue.tasks, 1)
	assert.IsType(t, tasks.PurgeDeletedExercisesTask{}, queue.tasks[0])
}
