package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stemsi/ailit-assessment/internal/model"
)

// DashboardRepository aggregates stored results for the admin dashboard.
type DashboardRepository struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository creates a new DashboardRepository.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{pool: pool}
}

// GetSummaryCounts returns the number of stored results and distinct participants.
func (r *DashboardRepository) GetSummaryCounts(ctx context.Context) (totalResults, totalParticipants int, err error) {
	err = r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT participant_name) FROM assessment_results`,
	).Scan(&totalResults, &totalParticipants)
	return
}

// DimensionLevelCount is how many stored results reached a level in a dimension.
type DimensionLevelCount struct {
	DimensionID string      `json:"dimension_id"`
	Level       model.Level `json:"level"`
	Downgraded  bool        `json:"downgraded"`
	Count       int         `json:"count"`
}

// GetDimensionLevelCounts reads the level distribution per dimension out of
// the stored documents.
func (r *DashboardRepository) GetDimensionLevelCounts(ctx context.Context) ([]DimensionLevelCount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT d.key,
		        COALESCE((d.value->>'level')::int, 0)          AS level,
		        COALESCE((d.value->>'downgraded')::bool, false) AS downgraded,
		        COUNT(*)
		 FROM assessment_results a,
		      jsonb_each(CASE WHEN jsonb_typeof(a.document->'results') = 'object'
		                      THEN a.document->'results' ELSE '{}'::jsonb END) AS d
		 WHERE jsonb_typeof(d.value) = 'object'
		 GROUP BY 1, 2, 3
		 ORDER BY 1, 2, 3`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := []DimensionLevelCount{}
	for rows.Next() {
		var c DimensionLevelCount
		if err := rows.Scan(&c.DimensionID, &c.Level, &c.Downgraded, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// GetAverageLevelCounts returns how many results carry each displayed average.
func (r *DashboardRepository) GetAverageLevelCounts(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT average_level, COUNT(*) FROM assessment_results GROUP BY average_level`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var level string
		var count int
		if err := rows.Scan(&level, &count); err != nil {
			return nil, err
		}
		counts[level] = count
	}
	return counts, rows.Err()
}
