package worker

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/stemsi/ailit-assessment/internal/model"
	"github.com/stemsi/ailit-assessment/internal/repository"
)

const (
	ResultBatchSize    = 50
	ResultBatchTimeout = 2 * time.Second
	ResultPollTimeout  = 1 * time.Second

	// Pauses after Redis or database failures.
	ResultPopErrorBackoff   = 3 * time.Second
	ResultFlushErrorBackoff = 2 * time.Second
)

// ResultSource yields pending results; ErrQueueEmpty means nothing arrived.
type ResultSource interface {
	Pop(ctx context.Context, timeout time.Duration) (*model.PendingResult, error)
	Push(ctx context.Context, p *model.PendingResult) error
}

// ResultWriter stores results.
type ResultWriter interface {
	InsertBatch(ctx context.Context, batch []*model.PendingResult) error
	Insert(ctx context.Context, p *model.PendingResult) error
}

// ResultWorker drains the results queue into the results database.
type ResultWorker struct {
	queue  ResultSource
	writer ResultWriter
	log    zerolog.Logger

	popBackoff   time.Duration
	flushBackoff time.Duration
}

func NewResultWorker(queue ResultSource, writer ResultWriter, log zerolog.Logger) *ResultWorker {
	return &ResultWorker{
		queue:  queue,
		writer: writer,
		log:    log.With().Str("component", "result_worker").Logger(),

		popBackoff:   ResultPopErrorBackoff,
		flushBackoff: ResultFlushErrorBackoff,
	}
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

func (w *ResultWorker) Start(ctx context.Context) {
	w.log.Info().Msg("ResultWorker started")

	batch := make([]*model.PendingResult, 0, ResultBatchSize)
	lastFlush := time.Now()

	for {
		// Should flush?
		if len(batch) > 0 &&
			(len(batch) >= ResultBatchSize || time.Since(lastFlush) >= ResultBatchTimeout) {

			ok := w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
			if !ok {
				w.pause(ctx, w.flushBackoff)
			}
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			p, err := w.queue.Pop(ctx, ResultPollTimeout)
			if err != nil {
				if !errors.Is(err, repository.ErrQueueEmpty) && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("Queue pop error")
					w.pause(ctx, w.popBackoff)
				}
				continue
			}
			batch = append(batch, p)
		}
	}
}

// ----------------------------------------------------------------
// Batch insert with single-row fallback
// ----------------------------------------------------------------

// flushSafe reports false when any result had to be requeued.
func (w *ResultWorker) flushSafe(ctx context.Context, batch []*model.PendingResult) bool {
	if len(batch) == 0 {
		return true
	}

	if err := w.writer.InsertBatch(ctx, batch); err != nil {
		w.log.Warn().Err(err).Int("size", len(batch)).Msg("Bulk result insert failed, using fallback")

		ok := true
		for _, p := range batch {
			if err := w.writer.Insert(ctx, p); err != nil {
				ok = false
				w.log.Error().Err(err).Str("result_id", p.ID.String()).Msg("Single insert failed, requeueing")
				if err := w.queue.Push(ctx, p); err != nil {
					w.log.Error().Err(err).Str("result_id", p.ID.String()).Msg("Requeue failed, result dropped")
				}
			}
		}
		return ok
	}

	w.log.Debug().Int("size", len(batch)).Msg("Results persisted")
	return true
}

// pause waits for d or until ctx is cancelled.
func (w *ResultWorker) pause(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
