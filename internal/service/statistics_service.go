package service

import (
	"context"
	"fmt"
	"time"

	"vehicle-request-api/internal/approval"
	"vehicle-request-api/internal/model"
	"vehicle-request-api/internal/repository"
)

const topDepartmentsLimit = 5

type StatisticsService interface {
	GetStatistics(ctx context.Context, startDate, endDate time.Time) (*model.VehicleRequestStatistics, error)
}

type statisticsService struct {
	repo repository.StatisticsRepository
}

func NewStatisticsService(repo repository.StatisticsRepository) StatisticsService {
	return &statisticsService{repo: repo}
}

// GetStatistics summarises requests created within [startDate, endDate]
func (s *statisticsService) GetStatistics(ctx context.Context, startDate, endDate time.Time) (*model.VehicleRequestStatistics, error) {
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("%w: end_date is before start_date", ErrInvalidRequest)
	}

	stats := &model.VehicleRequestStatistics{
		TimeRangeStart: startDate,
		TimeRangeEnd:   endDate,
	}

	byStatus, err := s.repo.CountByStatus(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}
	for _, row := range byStatus {
		stats.Total += row.Total
		switch row.Status {
		case model.StatusPending:
			stats.Pending = row.Total
		case model.StatusApproved:
			stats.Approved = row.Total
		case model.StatusRejected:
			stats.Rejected = row.Total
		}
	}

	backlog, err := s.repo.PendingByLevel(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}
	// every level is listed, zero or not, so the dashboard has a stable shape
	for _, b := range approval.Chain {
		stats.PendingByLevel = append(stats.PendingByLevel, model.LevelBacklog{
			Level: b.Level,
			Label: b.Label,
			Total: backlog[b.Level],
		})
	}

	if stats.ByLocation, err = s.repo.CountByLocation(ctx, startDate, endDate); err != nil {
		return nil, err
	}
	if stats.TopDepartments, err = s.repo.TopDepartments(ctx, startDate, endDate, topDepartmentsLimit); err != nil {
		return nil, err
	}

	return stats, nil
}
