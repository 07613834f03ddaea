package repository

import (
	"context"
	"errors"

	"vehicle-request-api/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TicketCounterRepository stores the last ticket number issued per prefix.
type TicketCounterRepository interface {
	LastNumber(ctx context.Context, prefix string) (int64, error)
	SaveLastNumber(ctx context.Context, prefix string, n int64) error
}

type ticketCounterRepository struct {
	db *gorm.DB
}

func NewTicketCounterRepository(db *gorm.DB) TicketCounterRepository {
	return &ticketCounterRepository{db: db}
}

// LastNumber returns 0 when no ticket was issued for prefix yet.
func (r *ticketCounterRepository) LastNumber(ctx context.Context, prefix string) (int64, error) {
	var counter model.TicketCounter
	err := GetDB(ctx, r.db).First(&counter, "prefix = ?", prefix).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return counter.LastNumber, nil
}

func (r *ticketCounterRepository) SaveLastNumber(ctx context.Context, prefix string, n int64) error {
	counter := model.TicketCounter{Prefix: prefix, LastNumber: n}
	return GetDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "prefix"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_number", "updated_at"}),
	}).Create(&counter).Error
}
