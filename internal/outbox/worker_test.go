package outbox

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"hrdocflow/internal/config"
	"hrdocflow/internal/domain/entity"
)

type fakeListClient struct {
	mu    sync.Mutex
	lists map[string][]string
}

func newFakeListClient() *fakeListClient {
	return &fakeListClient{lists: map[string][]string{}}
}

func (f *fakeListClient) LPush(_ context.Context, key string, value interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists[key] = append([]string{value.(string)}, f.lists[key]...)
	return nil
}

func (f *fakeListClient) BRPopLPush(ctx context.Context, source, destination string, _ time.Duration) (string, error) {
	f.mu.Lock()
	src := f.lists[source]
	if len(src) == 0 {
		f.mu.Unlock()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(10 * time.Millisecond):
			return "", goredis.Nil
		}
	}
	value := src[len(src)-1]
	f.lists[source] = src[:len(src)-1]
	f.lists[destination] = append([]string{value}, f.lists[destination]...)
	f.mu.Unlock()
	return value, nil
}

func (f *fakeListClient) LRem(_ context.Context, key string, _ int64, value interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := f.lists[key]
	for i, v := range list {
		if v == value.(string) {
			f.lists[key] = append(append([]string{}, list[:i]...), list[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeListClient) LRange(_ context.Context, key string, _, _ int64) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.lists[key]...), nil
}

func (f *fakeListClient) len(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.lists[key])
}

func workerCfg() *config.OutboxConfig {
	return &config.OutboxConfig{
		Queue:          "q",
		ProcessingList: "q:processing",
		PollSeconds:    1,
		RetrySeconds:   1,
	}
}

// A job that keeps failing must wait out the retry delay before it is
// requeued, not cycle through the loop as fast as the failure returns.
func TestFailedJobWaitsBeforeRequeue(t *testing.T) {
	dir := &stageDirectory{
		stages:   map[string]string{"emp-1": entity.StageEmployed},
		stageErr: errors.New("directory unavailable"),
	}
	client := newFakeListClient()
	w := &Worker{
		redis:     client,
		directory: dir,
		cfg:       workerCfg(),
		logger:    zap.NewNop(),
		done:      make(chan struct{}),
	}
	if err := client.LPush(context.Background(), w.cfg.Queue, releasePayload(t, "emp-1")); err != nil {
		t.Fatalf("seed queue: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go w.run(ctx)

	// Far shorter than the 1s retry delay. One attempt fits; a hot loop
	// would rack up dozens.
	time.Sleep(300 * time.Millisecond)
	cancel()
	<-w.done

	if dir.setCalls != 1 {
		t.Errorf("failing job attempted %d times within the retry delay, want 1", dir.setCalls)
	}
	// Stopped mid-delay: the job stays parked in the processing list for
	// the re-drain on next start.
	if client.len(w.cfg.ProcessingList) != 1 {
		t.Errorf("processing list holds %d jobs, want the failed one", client.len(w.cfg.ProcessingList))
	}
	if client.len(w.cfg.Queue) != 0 {
		t.Errorf("queue holds %d jobs, want none before the delay elapses", client.len(w.cfg.Queue))
	}
}

func TestSuccessfulJobAckedImmediately(t *testing.T) {
	dir := &stageDirectory{stages: map[string]string{"emp-1": entity.StageEmployed}}
	client := newFakeListClient()
	w := &Worker{
		redis:     client,
		directory: dir,
		cfg:       workerCfg(),
		logger:    zap.NewNop(),
		done:      make(chan struct{}),
	}
	if err := client.LPush(context.Background(), w.cfg.Queue, releasePayload(t, "emp-1")); err != nil {
		t.Fatalf("seed queue: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go w.run(ctx)

	deadline := time.After(2 * time.Second)
	for client.len(w.cfg.Queue)+client.len(w.cfg.ProcessingList) > 0 {
		select {
		case <-deadline:
			t.Fatal("job never processed")
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()
	<-w.done

	if dir.stages["emp-1"] != entity.StageAlumni {
		t.Errorf("stage = %s, want %s", dir.stages["emp-1"], entity.StageAlumni)
	}
	if client.len(w.cfg.Queue) != 0 || client.len(w.cfg.ProcessingList) != 0 {
		t.Errorf("lists not drained: queue=%d processing=%d",
			client.len(w.cfg.Queue), client.len(w.cfg.ProcessingList))
	}
}

func TestRequeueStrandedDrainsProcessingList(t *testing.T) {
	client := newFakeListClient()
	w := &Worker{
		redis:  client,
		cfg:    workerCfg(),
		logger: zap.NewNop(),
	}
	ctx := context.Background()
	for _, payload := range []string{releasePayload(t, "emp-1"), releasePayload(t, "emp-2")} {
		if err := client.LPush(ctx, w.cfg.ProcessingList, payload); err != nil {
			t.Fatalf("seed processing list: %v", err)
		}
	}

	if err := w.requeueStranded(ctx); err != nil {
		t.Fatalf("requeueStranded: %v", err)
	}
	if client.len(w.cfg.ProcessingList) != 0 {
		t.Errorf("processing list holds %d jobs, want none", client.len(w.cfg.ProcessingList))
	}
	if client.len(w.cfg.Queue) != 2 {
		t.Errorf("queue holds %d jobs, want both stranded ones", client.len(w.cfg.Queue))
	}
}
