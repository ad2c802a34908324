package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"art-fusion-server/modules/common/model"
	redisutil "art-fusion-server/modules/common/redis"
	"art-fusion-server/modules/fusion"
)

const (
	defaultPollTimeout = 5 * time.Second
	retryDelay         = 5 * time.Second
)

// Processor runs one fusion request.
type Processor interface {
	Process(ctx context.Context, req fusion.Request) (*fusion.Result, error)
}

type Worker struct {
	rdb         *redis.Client
	store       *JobStore
	processor   Processor
	pollTimeout time.Duration
	wg          sync.WaitGroup
}

func NewWorker(rdb *redis.Client, store *JobStore, processor Processor) *Worker {
	return &Worker{
		rdb:         rdb,
		store:       store,
		processor:   processor,
		pollTimeout: defaultPollTimeout,
	}
}

// Run - Redis Queue 감시 (ctx 취소 시 종료, 진행 중인 job은 Wait로 대기)
func (w *Worker) Run(ctx context.Context) {
	log.Info().Msgf("👀 [Worker] Watching queue: %s", redisutil.JobQueueKey)

	for {
		if ctx.Err() != nil {
			log.Info().Msg("🛑 [Worker] Queue watcher stopped")
			return
		}

		// BRPOP - Blocking Right Pop (타임아웃마다 ctx 확인)
		result, err := w.rdb.BRPop(ctx, w.pollTimeout, redisutil.JobQueueKey).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			log.Error().Msgf("❌ [Worker] Redis BRPOP error: %v", err)
			select {
			case <-ctx.Done():
			case <-time.After(retryDelay):
			}
			continue
		}

		// result[0]은 큐 이름, result[1]이 job_id
		jobID := result[1]
		log.Info().Msgf("🎯 [Worker] Received new job: %s", jobID)

		// 큐에서 꺼낸 job은 종료 신호와 무관하게 끝까지 처리
		jobCtx := context.WithoutCancel(ctx)
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			if err := w.ProcessJob(jobCtx, jobID); err != nil {
				log.Error().Msgf("❌ [Worker] Job %s: %v", jobID, err)
			}
		}()
	}
}

// Wait blocks until every job started by Run has finished.
func (w *Worker) Wait() {
	w.wg.Wait()
}

// ProcessJob moves one job through processing to completed or failed.
// The returned error covers storage failures only; a failed fusion is recorded
// on the job.
func (w *Worker) ProcessJob(ctx context.Context, jobID string) error {
	job, err := w.store.Get(ctx, jobID)
	if err != nil {
		return err
	}
	if job.JobStatus != model.StatusPending {
		log.Warn().Msgf("⚠️  [Worker] Job %s already %s, skipping", jobID, job.JobStatus)
		return nil
	}

	log.Info().Msgf("🚀 [Worker] Processing job: %s", jobID)
	if err := w.store.MarkProcessing(ctx, job); err != nil {
		return err
	}

	req, err := w.store.Request(job)
	if err != nil {
		return w.store.MarkFailed(ctx, job, err)
	}

	startTime := time.Now()
	result, err := w.processor.Process(ctx, req)
	if err != nil {
		log.Warn().Msgf("❌ [Worker] Job %s failed after %s: %v", jobID, time.Since(startTime).Round(time.Millisecond), err)
		return w.store.MarkFailed(ctx, job, err)
	}

	log.Info().Msgf("✅ [Worker] Job %s completed in %s (source: %s)", jobID, time.Since(startTime).Round(time.Millisecond), result.Source)
	return w.store.MarkCompleted(ctx, job, &model.JobResult{
		Image:    result.DataURI,
		MimeType: result.MimeType,
		Source:   string(result.Source),
		Width:    result.Width,
		Height:   result.Height,
		UsedSeed: result.UsedSeed,
	})
}
