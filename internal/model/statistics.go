package model

import (
	"time"
)

// VehicleRequestStatistics aggregates request counts for the dashboard
type VehicleRequestStatistics struct {
	Total          int64               `json:"total"`
	Pending        int64               `json:"pending"`
	Approved       int64               `json:"approved"`
	Rejected       int64               `json:"rejected"`
	PendingByLevel []LevelBacklog      `json:"pending_by_level"`
	ByLocation     []LocationCount     `json:"by_location"`
	TopDepartments []DepartmentRanking `json:"top_departments"`
	TimeRangeStart time.Time           `json:"time_range_start_date"`
	TimeRangeEnd   time.Time           `json:"time_range_end_date"`
}

// StatusCount is one row of a GROUP BY status query
type StatusCount struct {
	Status string `json:"status"`
	Total  int64  `json:"total"`
}

// LevelBacklog counts pending requests waiting on one approval level
type LevelBacklog struct {
	Level int    `json:"level"`
	Label string `json:"label"`
	Total int64  `json:"total"`
}

type LocationCount struct {
	LocationType string `json:"location_type"`
	Total        int64  `json:"total"`
}

// DepartmentRanking ranks departments by submitted requests
type DepartmentRanking struct {
	DepartmentID   uint   `json:"department_id"`
	DepartmentName string `json:"department_name"`
	Total          int64  `json:"total"`
	Approved       int64  `json:"approved"`
}
