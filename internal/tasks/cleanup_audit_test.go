package tasks

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cleanerFunc func(ctx context.Context, olderThan time.Time) (int64, error)

func (f cleanerFunc) DeleteOldEvents(ctx context.Context, olderThan time.Time) (int64, error) {
	return f(ctx, olderThan)
}

func TestCleanupAuditEventsTaskConfig(t *testing.T) {
	cfg := CleanupAuditEventsTask{}.Config()

	assert.Equal(t, "cleanup_audit_events", cfg.Name)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 5*time.Minute, cfg.Backoff)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)
	assert.NotNil(t, cfg.Retention)
}

func TestCleanupAuditEventsTask_Cutoff(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, now.Add(-72*time.Hour), CleanupAuditEventsTask{Retention: 72 * time.Hour}.Cutoff(now))
	assert.Equal(t, now.Add(-DefaultAuditRetention), CleanupAuditEventsTask{}.Cutoff(now))
	assert.Equal(t, now.Add(-DefaultAuditRetention), CleanupAuditEventsTask{Retention: -time.Hour}.Cutoff(now))
}

func TestCleanupAuditEvents(t *testing.T) {
	var got []time.Time
	cleaner := cleanerFunc(func(ctx context.Context, olderThan time.Time) (int64, error) {
		got = append(got, olderThan)
		return 7, nil
	})

	deleted, err := CleanupAuditEvents(context.Background(), cleaner, CleanupAuditEventsTask{Retention: time.Hour})
	require.NoError(t, err)
	assert.Equal(t, int64(7), deleted)
	require.Len(t, got, 1)
	assert.WithinDuration(t, time.Now().Add(-time.Hour), got[0], 5*time.Second)
}

func TestCleanupAuditEvents_Errors(t *testing.T) {
	_, err := CleanupAuditEvents(context.Background(), nil, CleanupAuditEventsTask{})
	assert.Error(t, err)

	boom := errors.New("boom")
	_, err = CleanupAuditEvents(context.Background(), cleanerFunc(func(context.Context, time.Time) (int64, error) {
		return 0, boom
	}), CleanupAuditEventsTask{})
	assert.ErrorIs(t, err, boom)
}

func TestCleanupAuditEventsQueue_Runs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(filepath.Join(t.TempDir(), "test.db"), cfg)
	require.NoError(t, err)
	defer client.Close()

	done := make(chan time.Time, 1)
	client.Register(NewCleanupAuditEventsQueue(cleanerFunc(func(ctx context.Context, olderThan time.Time) (int64, error) {
		done <- olderThan
		return 0, nil
	})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	_, err = client.Enqueue(ctx, CleanupAuditEventsTask{Retention: 48 * time.Hour})
	require.NoError(t, err)

	select {
	case olderThan := <-done:
		assert.WithinDuration(t, time.Now().Add(-48*time.Hour), olderThan, 10*time.Second)
	case <-time.After(5 * time.Second):
		t.Fatal("cleanup task was not executed within timeout")
	}
}
