package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"art-fusion-server/modules/fusion"
)

const sampleImage = "data:image/png;base64,aGVsbG8="

// stubProcessor - Processor 테스트용 목
type stubProcessor struct {
	mu       sync.Mutex
	requests []fusion.Request
	result   *fusion.Result
	err      error
	started  chan struct{} // Process 진입 시 신호 (nil이면 무시)
	release  chan struct{} // 닫힐 때까지 Process 대기 (nil이면 즉시 반환)
	ctxErrs  []error
}

func (p *stubProcessor) Process(ctx context.Context, req fusion.Request) (*fusion.Result, error) {
	if p.started != nil {
		p.started <- struct{}{}
	}
	if p.release != nil {
		<-p.release
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = append(p.requests, req)
	p.ctxErrs = append(p.ctxErrs, ctx.Err())
	if p.err != nil {
		return nil, p.err
	}
	return p.result, nil
}

func (p *stubProcessor) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.requests)
}

func newTestStore(t *testing.T) (*JobStore, *redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewJobStore(rdb, time.Hour), rdb, mr
}

func sampleRequest() fusion.GenerateRequest {
	return fusion.GenerateRequest{BackgroundImage: sampleImage, PersonImage: sampleImage}
}

func completedResult() *fusion.Result {
	return &fusion.Result{
		DataURI:  "data:image/jpeg;base64,AAAA",
		MimeType: "image/jpeg",
		Width:    640,
		Height:   480,
		Source:   fusion.SourceLocal,
		UsedSeed: 7,
	}
}
