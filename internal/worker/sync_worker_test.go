package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/GTDGit/kicks_api/internal/models"
	"github.com/GTDGit/kicks_api/internal/utils"
)

type countingSyncer struct {
	mu    sync.Mutex
	opts  []models.SyncOptions
	err   error
	calls chan struct{}
}

func (s *countingSyncer) Sync(_ context.Context, opts models.SyncOptions) (*models.SyncReport, error) {
	s.mu.Lock()
	s.opts = append(s.opts, opts)
	s.mu.Unlock()
	select {
	case s.calls <- struct{}{}:
	default:
	}
	if s.err != nil {
		return nil, s.err
	}
	return &models.SyncReport{RunID: "run", Status: models.SyncStatusCompleted}, nil
}

func (s *countingSyncer) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.opts)
}

func TestSyncWorker_RunsOnStartAndTick(t *testing.T) {
	syncer := &countingSyncer{calls: make(chan struct{}, 8)}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		NewSyncWorker(syncer, 20*time.Millisecond).Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return syncer.count() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop on cancel")
	}

	syncer.mu.Lock()
	defer syncer.mu.Unlock()
	for _, o := range syncer.opts {
		assert.True(t, o.Exclusive)
		assert.False(t, o.Force)
		assert.Equal(t, models.SyncTriggerSchedule, o.Trigger)
	}
}

func TestSyncWorker_SurvivesErrors(t *testing.T) {
	syncer := &countingSyncer{calls: make(chan struct{}, 8), err: utils.ErrSyncInProgress}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go NewSyncWorker(syncer, 10*time.Millisecond).Start(ctx)

	assert.Eventually(t, func() bool { return syncer.count() >= 3 }, time.Second, 5*time.Millisecond)
}

func TestSyncWorker_ZeroIntervalDisables(t *testing.T) {
	syncer := &countingSyncer{calls: make(chan struct{}, 1)}

	NewSyncWorker(syncer, 0).Start(context.Background())

	assert.Zero(t, syncer.count())
}
