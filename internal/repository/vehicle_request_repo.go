package repository

import (
	"context"

	"vehicle-request-api/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VehicleRequestRepository is the request store used by the approval engine.
type VehicleRequestRepository interface {
	Create(ctx context.Context, req *model.VehicleRequest) error
	FindByID(ctx context.Context, id uint) (*model.VehicleRequest, error)
	FindByTicketNumber(ctx context.Context, ticketNumber string) (*model.VehicleRequest, error)
	List(ctx context.Context, status string, page, limit int) ([]model.VehicleRequest, int64, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, req *model.VehicleRequest) error
	Delete(ctx context.Context, id uint) (bool, error)
}

type vehicleRequestRepository struct {
	db *gorm.DB
}

func NewVehicleRequestRepository(db *gorm.DB) VehicleRequestRepository {
	return &vehicleRequestRepository{db: db}
}

func (r *vehicleRequestRepository) Create(ctx context.Context, req *model.VehicleRequest) error {
	return GetDB(ctx, r.db).Create(req).Error
}

func (r *vehicleRequestRepository) FindByID(ctx context.Context, id uint) (*model.VehicleRequest, error) {
	var req model.VehicleRequest
	if err := GetDB(ctx, r.db).Preload("Department").First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *vehicleRequestRepository) FindByTicketNumber(ctx context.Context, ticketNumber string) (*model.VehicleRequest, error) {
	var req model.VehicleRequest
	if err := GetDB(ctx, r.db).Preload("Department").Where("ticket_number = ?", ticketNumber).First(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *vehicleRequestRepository) List(ctx context.Context, status string, page, limit int) ([]model.VehicleRequest, int64, error) {
	var requests []model.VehicleRequest
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.VehicleRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	fetchQuery := db.Preload("Department")
	if status != "" {
		fetchQuery = fetchQuery.Where("status = ?", status)
	}
	if err := fetchQuery.Order("created_at DESC").Offset(offset).Limit(limit).Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *vehicleRequestRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := GetDB(ctx, r.db).Model(&model.VehicleRequest{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// Update writes the whole row, all four slots included, in one statement.
func (r *vehicleRequestRepository) Update(ctx context.Context, req *model.VehicleRequest) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Save(req).Error
}

func (r *vehicleRequestRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.VehicleRequest{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
