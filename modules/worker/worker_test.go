package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"art-fusion-server/modules/common/model"
	"art-fusion-server/modules/fusion"
)

func TestWorker_ProcessJob(t *testing.T) {
	ctx := context.Background()

	t.Run("completed with result", func(t *testing.T) {
		store, rdb, _ := newTestStore(t)
		proc := &stubProcessor{result: completedResult()}
		w := NewWorker(rdb, store, proc)

		job, _, err := store.Create(ctx, sampleRequest())
		require.NoError(t, err)
		require.NoError(t, w.ProcessJob(ctx, job.JobID))

		loaded, err := store.Get(ctx, job.JobID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusCompleted, loaded.JobStatus)
		require.NotNil(t, loaded.Result)
		assert.Equal(t, "image/jpeg", loaded.Result.MimeType)
		assert.Equal(t, "local", loaded.Result.Source)
		assert.Equal(t, 640, loaded.Result.Width)
		assert.Equal(t, int64(7), loaded.Result.UsedSeed)
		assert.Nil(t, loaded.ErrorMessage)

		require.Len(t, proc.requests, 1)
		assert.Equal(t, sampleImage, proc.requests[0].PersonImage)
	})

	t.Run("failed with message", func(t *testing.T) {
		store, rdb, _ := newTestStore(t)
		w := NewWorker(rdb, store, &stubProcessor{err: fusion.ErrDecode})

		job, _, err := store.Create(ctx, sampleRequest())
		require.NoError(t, err)
		require.NoError(t, w.ProcessJob(ctx, job.JobID))

		loaded, err := store.Get(ctx, job.JobID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusFailed, loaded.JobStatus)
		require.NotNil(t, loaded.ErrorMessage)
		assert.Equal(t, fusion.ErrDecode.Error(), *loaded.ErrorMessage)
		assert.Nil(t, loaded.Result)
	})

	t.Run("non pending job is skipped", func(t *testing.T) {
		store, rdb, _ := newTestStore(t)
		proc := &stubProcessor{result: completedResult()}
		w := NewWorker(rdb, store, proc)

		job, _, err := store.Create(ctx, sampleRequest())
		require.NoError(t, err)
		require.NoError(t, store.MarkProcessing(ctx, job))

		require.NoError(t, w.ProcessJob(ctx, job.JobID))
		assert.Equal(t, 0, proc.calls())
	})

	t.Run("unknown job", func(t *testing.T) {
		store, rdb, _ := newTestStore(t)
		w := NewWorker(rdb, store, &stubProcessor{})
		assert.ErrorIs(t, w.ProcessJob(ctx, "missing"), ErrJobNotFound)
	})
}

func TestWorker_RunDrainsQueue(t *testing.T) {
	store, rdb, _ := newTestStore(t)
	proc := &stubProcessor{result: completedResult()}
	w := NewWorker(rdb, store, proc)
	w.pollTimeout = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	var ids []string
	for i := 0; i < 3; i++ {
		job, _, err := store.Create(context.Background(), sampleRequest())
		require.NoError(t, err)
		ids = append(ids, job.JobID)
	}

	require.Eventually(t, func() bool {
		for _, id := range ids {
			job, err := store.Get(context.Background(), id)
			if err != nil || job.JobStatus != model.StatusCompleted {
				return false
			}
		}
		return true
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	w.Wait()
	assert.Equal(t, 3, proc.calls())
}

func TestWorker_ShutdownFinishesInFlightJob(t *testing.T) {
	store, rdb, _ := newTestStore(t)
	proc := &stubProcessor{
		result:  completedResult(),
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	w := NewWorker(rdb, store, proc)
	w.pollTimeout = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	job, _, err := store.Create(context.Background(), sampleRequest())
	require.NoError(t, err)

	select {
	case <-proc.started:
	case <-time.After(5 * time.Second):
		t.Fatal("job was never picked up")
	}

	// 종료 신호 후에 처리 완료
	cancel()
	close(proc.release)
	w.Wait()

	loaded, err := store.Get(context.Background(), job.JobID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, loaded.JobStatus)
	require.NotNil(t, loaded.Result)

	proc.mu.Lock()
	defer proc.mu.Unlock()
	require.Len(t, proc.ctxErrs, 1)
	assert.NoError(t, proc.ctxErrs[0])
}
