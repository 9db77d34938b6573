package service

import (
	"context"

	"github.com/stemsi/ailit-assessment/internal/model"
	"github.com/stemsi/ailit-assessment/internal/repository"
)

// DashboardData consolidates all metrics for the admin dashboard.
type DashboardData struct {
	TotalResults       int                              `json:"total_results"`
	TotalParticipants  int                              `json:"total_participants"`
	PendingResults     int64                            `json:"pending_results"`
	AverageLevelCounts map[string]int                   `json:"average_level_counts"`
	DimensionLevels    []repository.DimensionLevelCount `json:"dimension_levels"`
	RecentResults      []model.StoredResultSummary      `json:"recent_results"`
}

// DashboardReader aggregates stored results.
type DashboardReader interface {
	GetSummaryCounts(ctx context.Context) (totalResults, totalParticipants int, err error)
	GetDimensionLevelCounts(ctx context.Context) ([]repository.DimensionLevelCount, error)
	GetAverageLevelCounts(ctx context.Context) (map[string]int, error)
}

// QueueLength reports how many accepted documents await persistence.
type QueueLength interface {
	Len(ctx context.Context) (int64, error)
}

// DashboardService handles admin dashboard business logic.
type DashboardService struct {
	repo    DashboardReader
	results ResultReader
	queue   QueueLength
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(repo DashboardReader, results ResultReader, queue QueueLength) *DashboardService {
	return &DashboardService{repo: repo, results: results, queue: queue}
}

// GetDashboardData fetches all dashboard metrics sequentially.
func (s *DashboardService) GetDashboardData(ctx context.Context) (*DashboardData, error) {
	total, participants, err := s.repo.GetSummaryCounts(ctx)
	if err != nil {
		return nil, err
	}

	levels, err := s.repo.GetDimensionLevelCounts(ctx)
	if err != nil {
		return nil, err
	}

	averages, err := s.repo.GetAverageLevelCounts(ctx)
	if err != nil {
		return nil, err
	}

	recent, _, err := s.results.List(ctx, 1, 5)
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []model.StoredResultSummary{}
	}

	pending, err := s.queue.Len(ctx)
	if err != nil {
		return nil, err
	}

	return &DashboardData{
		TotalResults:       total,
		TotalParticipants:  participants,
		PendingResults:     pending,
		AverageLevelCounts: averages,
		DimensionLevels:    levels,
		RecentResults:      recent,
	}, nil
}
