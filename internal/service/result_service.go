package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/stemsi/ailit-assessment/internal/exchange"
	"github.com/stemsi/ailit-assessment/internal/model"
)

// ResultLocationPrefix prefixes the location returned for stored documents.
const ResultLocationPrefix = "results/"

// ResultEnqueuer hands accepted documents to the persistence worker.
type ResultEnqueuer interface {
	Push(ctx context.Context, p *model.PendingResult) error
}

// ResultReader reads persisted documents.
type ResultReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.StoredResult, error)
	List(ctx context.Context, page, perPage int) ([]model.StoredResultSummary, int, error)
}

// ResultService is the server side of the results sink.
type ResultService struct {
	queue  ResultEnqueuer
	reader ResultReader
	now    func() time.Time
	log    zerolog.Logger
}

// NewResultService creates a new ResultService.
func NewResultService(queue ResultEnqueuer, reader ResultReader, log zerolog.Logger) *ResultService {
	return &ResultService{
		queue:  queue,
		reader: reader,
		now:    time.Now,
		log:    log.With().Str("component", "result_service").Logger(),
	}
}

// Submit accepts a result document, queues it for storage and returns the
// location it will be stored under. Documents that do not parse are rejected
// with exchange.ErrParse.
func (s *ResultService) Submit(ctx context.Context, body []byte) (string, error) {
	doc, err := exchange.Parse(body)
	if err != nil {
		return "", err
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, body); err != nil {
		return "", fmt.Errorf("%w: %v", exchange.ErrParse, err)
	}

	p := &model.PendingResult{
		ID:              uuid.New(),
		ParticipantName: doc.Participant.Name,
		SelfAssessment:  doc.Participant.SelfAssessment,
		AverageLevel:    doc.AverageLevel,
		Document:        compact.Bytes(),
		SubmittedAt:     s.now().UTC(),
	}
	if err := s.queue.Push(ctx, p); err != nil {
		return "", fmt.Errorf("enqueue result: %w", err)
	}

	s.log.Info().
		Str("result_id", p.ID.String()).
		Int("dimensions", len(doc.Results)).
		Msg("Result accepted")
	return ResultLocationPrefix + p.ID.String(), nil
}

// Get returns one stored document.
func (s *ResultService) Get(ctx context.Context, id uuid.UUID) (*model.StoredResult, error) {
	return s.reader.GetByID(ctx, id)
}

// List returns a page of stored documents and the total count.
func (s *ResultService) List(ctx context.Context, page, perPage int) ([]model.StoredResultSummary, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return s.reader.List(ctx, page, perPage)
}
