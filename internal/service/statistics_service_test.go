package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"vehicle-request-api/internal/model"
)

type fakeStatisticsRepo struct {
	byStatus []model.StatusCount
	backlog  map[int]int64
	err      error
	gotLimit int
}

func (f *fakeStatisticsRepo) CountByStatus(context.Context, time.Time, time.Time) ([]model.StatusCount, error) {
	return f.byStatus, f.err
}

func (f *fakeStatisticsRepo) PendingByLevel(context.Context, time.Time, time.Time) (map[int]int64, error) {
	return f.backlog, nil
}

func (f *fakeStatisticsRepo) CountByLocation(context.Context, time.Time, time.Time) ([]model.LocationCount, error) {
	return []model.LocationCount{{LocationType: model.LocationNonDesaBinaan, Total: 5}}, nil
}

func (f *fakeStatisticsRepo) TopDepartments(_ context.Context, _, _ time.Time, limit int) ([]model.DepartmentRanking, error) {
	f.gotLimit = limit
	return []model.DepartmentRanking{{DepartmentID: 7, DepartmentName: "Produksi", Total: 5, Approved: 1}}, nil
}

func TestGetStatisticsAggregates(t *testing.T) {
	repo := &fakeStatisticsRepo{
		byStatus: []model.StatusCount{
			{Status: model.StatusPending, Total: 3},
			{Status: model.StatusApproved, Total: 1},
			{Status: model.StatusRejected, Total: 1},
		},
		backlog: map[int]int64{1: 2, 4: 1},
	}
	end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	stats, err := NewStatisticsService(repo).GetStatistics(context.Background(), end.AddDate(0, -1, 0), end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Total != 5 || stats.Pending != 3 || stats.Approved != 1 || stats.Rejected != 1 {
		t.Fatalf("unexpected totals: %+v", stats)
	}
	if len(stats.PendingByLevel) != model.MaxApprovalLevels {
		t.Fatalf("expected a backlog row per level, got %+v", stats.PendingByLevel)
	}
	if stats.PendingByLevel[0].Total != 2 || stats.PendingByLevel[1].Total != 0 || stats.PendingByLevel[3].Total != 1 {
		t.Fatalf("unexpected backlog: %+v", stats.PendingByLevel)
	}
	if stats.PendingByLevel[3].Label != "General Service" {
		t.Fatalf("level 4 label = %q", stats.PendingByLevel[3].Label)
	}
	if repo.gotLimit != topDepartmentsLimit || len(stats.TopDepartments) != 1 {
		t.Fatalf("top departments not loaded: limit %d, %+v", repo.gotLimit, stats.TopDepartments)
	}
}

func TestGetStatisticsRejectsInvertedRange(t *testing.T) {
	now := time.Now()
	_, err := NewStatisticsService(&fakeStatisticsRepo{}).GetStatistics(context.Background(), now, now.Add(-time.Hour))
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestGetStatisticsPropagatesRepoError(t *testing.T) {
	boom := errors.New("boom")
	now := time.Now()
	_, err := NewStatisticsService(&fakeStatisticsRepo{err: boom}).GetStatistics(context.Background(), now.Add(-time.Hour), now)
	if !errors.Is(err, boom) {
		t.Fatalf("expected repo error, got %v", err)
	}
}
