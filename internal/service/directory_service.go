package service

import (
	"context"
	"errors"

	"vehicle-request-api/internal/model"
	"vehicle-request-api/internal/repository"

	"gorm.io/gorm"
)

// DirectoryService resolves notification audiences from the user,
// subscriber and department tables.
type DirectoryService struct {
	users       repository.UserRepository
	subscribers repository.TelegramSubscriberRepository
	departments repository.DepartmentRepository
}

func NewDirectoryService(users repository.UserRepository, subscribers repository.TelegramSubscriberRepository, departments repository.DepartmentRepository) *DirectoryService {
	return &DirectoryService{users: users, subscribers: subscribers, departments: departments}
}

func (d *DirectoryService) UsersByRole(ctx context.Context, role string, departmentID *uint) ([]model.User, error) {
	return d.users.ListByRole(ctx, role, departmentID)
}

func (d *DirectoryService) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := d.users.GetByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return user, err
}

func (d *DirectoryService) SubscribersByNIK(ctx context.Context, nik string) ([]model.TelegramSubscriber, error) {
	return d.subscribers.ListByNIK(ctx, nik)
}

func (d *DirectoryService) DepartmentName(ctx context.Context, id uint) (string, error) {
	dept, err := d.departments.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return dept.Name, nil
}
