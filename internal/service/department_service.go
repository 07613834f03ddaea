package service

import (
	"context"
	"errors"
	"fmt"

	"vehicle-request-api/internal/model"
	"vehicle-request-api/internal/repository"

	"gorm.io/gorm"
)

type DepartmentService interface {
	List(ctx context.Context) ([]model.Department, error)
	GetByID(ctx context.Context, id uint) (*model.Department, error)
}

type departmentService struct {
	repo repository.DepartmentRepository
}

func NewDepartmentService(repo repository.DepartmentRepository) DepartmentService {
	return &departmentService{repo: repo}
}

func (s *departmentService) List(ctx context.Context) ([]model.Department, error) {
	departments, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch departments: %w", err)
	}
	return departments, nil
}

func (s *departmentService) GetByID(ctx context.Context, id uint) (*model.Department, error) {
	dept, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDepartmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load department: %w", err)
	}
	return dept, nil
}
