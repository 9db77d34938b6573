package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/ailit-assessment/internal/model"
	"github.com/stemsi/ailit-assessment/internal/repository"
)

type chanQueue struct {
	items    chan *model.PendingResult
	mu       sync.Mutex
	requeued []*model.PendingResult
}

func (q *chanQueue) Pop(ctx context.Context, timeout time.Duration) (*model.PendingResult, error) {
	select {
	case p := <-q.items:
		return p, nil
	case <-time.After(10 * time.Millisecond):
		return nil, repository.ErrQueueEmpty
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (q *chanQueue) Push(_ context.Context, p *model.PendingResult) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.requeued = append(q.requeued, p)
	return nil
}

type fakeWriter struct {
	mu         sync.Mutex
	failBatch  bool
	failSingle map[uuid.UUID]bool
	stored     []uuid.UUID
}

func (f *fakeWriter) InsertBatch(_ context.Context, batch []*model.PendingResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failBatch {
		return errors.New("batch failed")
	}
	for _, p := range batch {
		f.stored = append(f.stored, p.ID)
	}
	return nil
}

func (f *fakeWriter) Insert(_ context.Context, p *model.PendingResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSingle[p.ID] {
		return errors.New("insert failed")
	}
	f.stored = append(f.stored, p.ID)
	return nil
}

func pending() *model.PendingResult {
	return &model.PendingResult{ID: uuid.New(), ParticipantName: "Ada", Document: []byte(`{}`)}
}

func TestResultWorkerFlushesOnShutdown(t *testing.T) {
	q := &chanQueue{items: make(chan *model.PendingResult, 4)}
	w := &fakeWriter{}
	a, b := pending(), pending()
	q.items <- a
	q.items <- b

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewResultWorker(q, w, zerolog.Nop()).Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return len(q.items) == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	assert.ElementsMatch(t, []uuid.UUID{a.ID, b.ID}, w.stored)
	assert.Empty(t, q.requeued)
}

func TestResultWorkerFallbackAndRequeue(t *testing.T) {
	q := &chanQueue{items: make(chan *model.PendingResult)}
	good, bad := pending(), pending()
	w := &fakeWriter{failBatch: true, failSingle: map[uuid.UUID]bool{bad.ID: true}}

	rw := NewResultWorker(q, w, zerolog.Nop())
	assert.False(t, rw.flushSafe(context.Background(), []*model.PendingResult{good, bad}))

	assert.Equal(t, []uuid.UUID{good.ID}, w.stored)
	require.Len(t, q.requeued, 1)
	assert.Equal(t, bad.ID, q.requeued[0].ID)
}

func TestResultWorkerFlushReportsSuccess(t *testing.T) {
	rw := NewResultWorker(&chanQueue{}, &fakeWriter{}, zerolog.Nop())
	assert.True(t, rw.flushSafe(context.Background(), []*model.PendingResult{pending()}))
	assert.True(t, rw.flushSafe(context.Background(), nil))
}

type downQueue struct {
	pops atomic.Int64
}

func (q *downQueue) Pop(context.Context, time.Duration) (*model.PendingResult, error) {
	q.pops.Add(1)
	return nil, errors.New("dial tcp 127.0.0.1:6379: connection refused")
}

func (q *downQueue) Push(context.Context, *model.PendingResult) error { return nil }

func TestResultWorkerBacksOffWhenQueueIsDown(t *testing.T) {
	q := &downQueue{}
	rw := NewResultWorker(q, &fakeWriter{}, zerolog.Nop())
	rw.popBackoff = 50 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	rw.Start(ctx)

	assert.Less(t, time.Since(start), time.Second, "shutdown must not wait out the backoff")
	assert.LessOrEqual(t, q.pops.Load(), int64(6))
	assert.GreaterOrEqual(t, q.pops.Load(), int64(1))
}
