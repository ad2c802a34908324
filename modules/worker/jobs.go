package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"art-fusion-server/modules/common/model"
	redisutil "art-fusion-server/modules/common/redis"
	"art-fusion-server/modules/fusion"
)

var ErrJobNotFound = errors.New("job not found")

// JobStore keeps job records as JSON strings with a TTL and publishes every
// status change on the job's event channel.
type JobStore struct {
	rdb *redis.Client
	ttl time.Duration
	now func() time.Time
}

func NewJobStore(rdb *redis.Client, ttl time.Duration) *JobStore {
	return &JobStore{rdb: rdb, ttl: ttl, now: time.Now}
}

// Create - pending 상태로 저장 후 큐에 LPUSH, 큐 길이 반환
func (s *JobStore) Create(ctx context.Context, req fusion.GenerateRequest) (*model.FusionJob, int64, error) {
	input, err := toInputData(req)
	if err != nil {
		return nil, 0, err
	}

	now := s.now()
	job := &model.FusionJob{
		JobID:        uuid.NewString(),
		JobStatus:    model.StatusPending,
		JobInputData: input,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.save(ctx, job); err != nil {
		return nil, 0, err
	}

	queueLen, err := s.rdb.LPush(ctx, redisutil.JobQueueKey, job.JobID).Result()
	if err != nil {
		// 큐에 없는 pending 레코드는 실행되지 않으므로 삭제
		if delErr := s.rdb.Del(ctx, redisutil.JobKey(job.JobID)).Err(); delErr != nil {
			log.Warn().Msgf("⚠️  [Worker] Failed to remove orphaned job %s: %v", job.JobID, delErr)
		}
		return nil, 0, fmt.Errorf("failed to enqueue job: %w", err)
	}

	s.publish(ctx, job)
	return job, queueLen, nil
}

// Get - job 레코드 조회
func (s *JobStore) Get(ctx context.Context, jobID string) (*model.FusionJob, error) {
	raw, err := s.rdb.Get(ctx, redisutil.JobKey(jobID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load job: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var job model.FusionJob
	if err := dec.Decode(&job); err != nil {
		return nil, fmt.Errorf("failed to parse job %s: %w", jobID, err)
	}
	return &job, nil
}

// MarkProcessing - processing 전이
func (s *JobStore) MarkProcessing(ctx context.Context, job *model.FusionJob) error {
	now := s.now()
	job.JobStatus = model.StatusProcessing
	job.StartedAt = &now
	return s.transition(ctx, job)
}

// MarkCompleted - 결과와 함께 completed 전이
func (s *JobStore) MarkCompleted(ctx context.Context, job *model.FusionJob, result *model.JobResult) error {
	now := s.now()
	job.JobStatus = model.StatusCompleted
	job.Result = result
	job.CompletedAt = &now
	return s.transition(ctx, job)
}

// MarkFailed - 에러 메시지와 함께 failed 전이
func (s *JobStore) MarkFailed(ctx context.Context, job *model.FusionJob, cause error) error {
	now := s.now()
	msg := cause.Error()
	job.JobStatus = model.StatusFailed
	job.ErrorMessage = &msg
	job.CompletedAt = &now
	return s.transition(ctx, job)
}

// Request rebuilds the fusion request stored in the job's input data.
func (s *JobStore) Request(job *model.FusionJob) (fusion.Request, error) {
	raw, err := json.Marshal(job.JobInputData)
	if err != nil {
		return fusion.Request{}, fmt.Errorf("failed to read job input: %w", err)
	}
	var req fusion.GenerateRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return fusion.Request{}, fmt.Errorf("failed to parse job input: %w", err)
	}
	return req.ToRequest(), nil
}

func (s *JobStore) transition(ctx context.Context, job *model.FusionJob) error {
	job.UpdatedAt = s.now()
	if err := s.save(ctx, job); err != nil {
		return err
	}
	s.publish(ctx, job)
	return nil
}

func (s *JobStore) save(ctx context.Context, job *model.FusionJob) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	if err := s.rdb.Set(ctx, redisutil.JobKey(job.JobID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save job %s: %w", job.JobID, err)
	}
	return nil
}

// publish is best effort; the stored record stays authoritative.
func (s *JobStore) publish(ctx context.Context, job *model.FusionJob) {
	raw, err := json.Marshal(eventFor(job, s.now()))
	if err != nil {
		return
	}
	if err := s.rdb.Publish(ctx, redisutil.JobEventsChannel(job.JobID), raw).Err(); err != nil {
		log.Warn().Msgf("⚠️  [Worker] Failed to publish event for job %s: %v", job.JobID, err)
	}
}

func eventFor(job *model.FusionJob, at time.Time) model.JobEvent {
	ev := model.JobEvent{
		JobID:     job.JobID,
		JobStatus: job.JobStatus,
		Result:    job.Result,
		Timestamp: at,
	}
	if job.ErrorMessage != nil {
		ev.ErrorMessage = *job.ErrorMessage
	}
	return ev
}

func toInputData(req fusion.GenerateRequest) (map[string]interface{}, error) {
	raw, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job input: %w", err)
	}
	// UseNumber로 seed(int64) 정밀도 유지
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var input map[string]interface{}
	if err := dec.Decode(&input); err != nil {
		return nil, fmt.Errorf("failed to build job input: %w", err)
	}
	return input, nil
}
