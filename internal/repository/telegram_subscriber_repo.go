package repository

import (
	"context"

	"vehicle-request-api/internal/model"

	"gorm.io/gorm"
)

type TelegramSubscriberRepository interface {
	FindByChatID(ctx context.Context, chatID string) (*model.TelegramSubscriber, error)
	Create(ctx context.Context, sub *model.TelegramSubscriber) error
	LinkNIK(ctx context.Context, chatID, nik string) error
	ListByNIK(ctx context.Context, nik string) ([]model.TelegramSubscriber, error)
}

type telegramSubscriberRepository struct {
	db *gorm.DB
}

func NewTelegramSubscriberRepository(db *gorm.DB) TelegramSubscriberRepository {
	return &telegramSubscriberRepository{db: db}
}

func (r *telegramSubscriberRepository) FindByChatID(ctx context.Context, chatID string) (*model.TelegramSubscriber, error) {
	var sub model.TelegramSubscriber
	if err := GetDB(ctx, r.db).First(&sub, "chat_id = ?", chatID).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *telegramSubscriberRepository) Create(ctx context.Context, sub *model.TelegramSubscriber) error {
	return GetDB(ctx, r.db).Create(sub).Error
}

func (r *telegramSubscriberRepository) LinkNIK(ctx context.Context, chatID, nik string) error {
	return GetDB(ctx, r.db).Model(&model.TelegramSubscriber{}).
		Where("chat_id = ?", chatID).
		Update("nik", nik).Error
}

func (r *telegramSubscriberRepository) ListByNIK(ctx context.Context, nik string) ([]model.TelegramSubscriber, error) {
	var subs []model.TelegramSubscriber
	if err := GetDB(ctx, r.db).Where("nik = ? AND is_active = ?", nik, true).Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}
