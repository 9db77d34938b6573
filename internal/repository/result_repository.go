package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stemsi/ailit-assessment/internal/model"
)

// ErrResultNotFound is returned when no stored result has the requested id.
var ErrResultNotFound = errors.New("result not found")

// ResultRepository handles persisted result documents.
type ResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

// InsertBatch writes many pending results in one statement. Ids already
// present are skipped, so a requeued item never duplicates.
func (r *ResultRepository) InsertBatch(ctx context.Context, batch []*model.PendingResult) error {
	n := len(batch)
	if n == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, n)
	names := make([]string, 0, n)
	levels := make([]*int32, 0, n)
	averages := make([]string, 0, n)
	docs := make([]string, 0, n)
	submitted := make([]time.Time, 0, n)

	for _, p := range batch {
		ids = append(ids, p.ID)
		names = append(names, p.ParticipantName)
		levels = append(levels, toInt32Ptr(p.SelfAssessment))
		averages = append(averages, p.AverageLevel)
		docs = append(docs, string(p.Document))
		submitted = append(submitted, p.SubmittedAt)
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO assessment_results
			(id, participant_name, self_assessment, average_level, document, submitted_at)
		SELECT u.id, u.participant_name, u.self_assessment, u.average_level, u.document::jsonb, u.submitted_at
		FROM UNNEST(
			$1::uuid[],
			$2::text[],
			$3::int[],
			$4::text[],
			$5::text[],
			$6::timestamptz[]
		) AS u (id, participant_name, self_assessment, average_level, document, submitted_at)
		ON CONFLICT (id) DO NOTHING`,
		ids, names, levels, averages, docs, submitted)
	return err
}

// Insert writes a single pending result.
func (r *ResultRepository) Insert(ctx context.Context, p *model.PendingResult) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO assessment_results
			(id, participant_name, self_assessment, average_level, document, submitted_at)
		 VALUES ($1, $2, $3, $4, $5::jsonb, $6)
		 ON CONFLICT (id) DO NOTHING`,
		p.ID, p.ParticipantName, toInt32Ptr(p.SelfAssessment), p.AverageLevel, string(p.Document), p.SubmittedAt)
	return err
}

// GetByID returns one stored result including its document.
func (r *ResultRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.StoredResult, error) {
	var (
		res   model.StoredResult
		level *int32
		doc   []byte
	)
	err := r.pool.QueryRow(ctx,
		`SELECT id, participant_name, self_assessment, average_level, document, submitted_at, created_at
		 FROM assessment_results
		 WHERE id = $1`, id,
	).Scan(&res.ID, &res.ParticipantName, &level, &res.AverageLevel, &doc, &res.SubmittedAt, &res.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrResultNotFound
	}
	if err != nil {
		return nil, err
	}
	res.SelfAssessment = fromInt32Ptr(level)
	res.Document = doc
	return &res, nil
}

// List returns a page of results, newest first, and the total row count.
func (r *ResultRepository) List(ctx context.Context, page, perPage int) ([]model.StoredResultSummary, int, error) {
	offset := (page - 1) * perPage

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM assessment_results`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, participant_name, self_assessment, average_level, submitted_at, created_at
		 FROM assessment_results
		 ORDER BY submitted_at DESC, id
		 LIMIT $1 OFFSET $2`, perPage, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	results := make([]model.StoredResultSummary, 0, perPage)
	for rows.Next() {
		var (
			s     model.StoredResultSummary
			level *int32
		)
		if err := rows.Scan(&s.ID, &s.ParticipantName, &level, &s.AverageLevel, &s.SubmittedAt, &s.CreatedAt); err != nil {
			return nil, 0, err
		}
		s.SelfAssessment = fromInt32Ptr(level)
		results = append(results, s)
	}
	return results, total, rows.Err()
}

func toInt32Ptr(v *int) *int32 {
	if v == nil {
		return nil
	}
	n := int32(*v)
	return &n
}

func fromInt32Ptr(v *int32) *int {
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}
