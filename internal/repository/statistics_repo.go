package repository

import (
	"context"
	"fmt"
	"time"

	"vehicle-request-api/internal/model"

	"gorm.io/gorm"
)

// awaitingLevelExpr mirrors approval.AwaitingLevel for rows that are still
// pending. A pending row always has a pending slot within its chain.
const awaitingLevelExpr = "CASE WHEN approval1 = 'pending' THEN 1 WHEN approval2 = 'pending' THEN 2 WHEN approval3 = 'pending' THEN 3 ELSE 4 END"

type StatisticsRepository interface {
	CountByStatus(ctx context.Context, start, end time.Time) ([]model.StatusCount, error)
	PendingByLevel(ctx context.Context, start, end time.Time) (map[int]int64, error)
	CountByLocation(ctx context.Context, start, end time.Time) ([]model.LocationCount, error)
	TopDepartments(ctx context.Context, start, end time.Time, limit int) ([]model.DepartmentRanking, error)
}

type statisticsRepository struct {
	db *gorm.DB
}

func NewStatisticsRepository(db *gorm.DB) StatisticsRepository {
	return &statisticsRepository{db: db}
}

func (r *statisticsRepository) inRange(ctx context.Context, start, end time.Time) *gorm.DB {
	return GetDB(ctx, r.db).Table("vehicle_requests").
		Where("vehicle_requests.created_at >= ? AND vehicle_requests.created_at <= ?", start, end)
}

func (r *statisticsRepository) CountByStatus(ctx context.Context, start, end time.Time) ([]model.StatusCount, error) {
	var rows []model.StatusCount
	if err := r.inRange(ctx, start, end).
		Select("status, COUNT(*) as total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count requests by status: %w", err)
	}
	return rows, nil
}

func (r *statisticsRepository) PendingByLevel(ctx context.Context, start, end time.Time) (map[int]int64, error) {
	var rows []struct {
		Level int
		Total int64
	}
	if err := r.inRange(ctx, start, end).
		Select(awaitingLevelExpr+" as level, COUNT(*) as total").
		Where("status = ?", model.StatusPending).
		Group("level").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending requests by level: %w", err)
	}
	out := make(map[int]int64, len(rows))
	for _, row := range rows {
		out[row.Level] = row.Total
	}
	return out, nil
}

func (r *statisticsRepository) CountByLocation(ctx context.Context, start, end time.Time) ([]model.LocationCount, error) {
	var rows []model.LocationCount
	if err := r.inRange(ctx, start, end).
		Select("location_type, COUNT(*) as total").
		Group("location_type").
		Order("total DESC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count requests by location: %w", err)
	}
	return rows, nil
}

func (r *statisticsRepository) TopDepartments(ctx context.Context, start, end time.Time, limit int) ([]model.DepartmentRanking, error) {
	var rankings []model.DepartmentRanking
	if err := r.inRange(ctx, start, end).
		Select("departments.id as department_id, departments.name as department_name, COUNT(*) as total, SUM(CASE WHEN vehicle_requests.status = ? THEN 1 ELSE 0 END) as approved", model.StatusApproved).
		Joins("JOIN departments ON departments.id = vehicle_requests.department_id").
		Group("departments.id, departments.name").
		Order("total DESC").
		Limit(limit).
		Scan(&rankings).Error; err != nil {
		return nil, fmt.Errorf("failed to query top departments: %w", err)
	}
	return rankings, nil
}
