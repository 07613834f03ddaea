package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vehicle-request-api/internal/approval"
	"vehicle-request-api/internal/model"
	"vehicle-request-api/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateUserRequest struct {
	Username       string  `json:"username" binding:"required,min=3,max=50"`
	Password       string  `json:"password" binding:"required,min=8"`
	FullName       string  `json:"full_name" binding:"required"`
	Email          string  `json:"email" binding:"omitempty,email"`
	Phone          string  `json:"phone"`
	Role           string  `json:"role" binding:"required"`
	DepartmentID   *uint   `json:"department_id"`
	TelegramChatID *string `json:"telegram_chat_id"`
}

// UpdateUserRequest changes only the fields that are set. An empty
// telegram_chat_id unlinks the chat.
type UpdateUserRequest struct {
	FullName       *string `json:"full_name"`
	Email          *string `json:"email" binding:"omitempty,email"`
	Phone          *string `json:"phone"`
	Role           *string `json:"role"`
	DepartmentID   *uint   `json:"department_id"`
	TelegramChatID *string `json:"telegram_chat_id"`
	IsActive       *bool   `json:"is_active"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=8"`
}

type RoleResponse struct {
	Name             string `json:"name"`
	Label            string `json:"label"`
	ApprovalLevel    int    `json:"approval_level,omitempty"`
	DepartmentScoped bool   `json:"department_scoped"`
	DecidesAnyLevel  bool   `json:"decides_any_level"`
}

// --- Interface ---

// AccountService manages intranet accounts, approvers included.
type AccountService interface {
	ListRoles(ctx context.Context) []RoleResponse
	ListUsers(ctx context.Context, role string, page, limit int) ([]UserResponse, int64, error)
	CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error)
	UpdateUser(ctx context.Context, id uint, req UpdateUserRequest) (*UserResponse, error)
	ResetPassword(ctx context.Context, id uint, req ResetPasswordRequest) error
	DeleteUser(ctx context.Context, id uint, actor Actor) error
}

type accountService struct {
	users       repository.UserRepository
	departments repository.DepartmentRepository
	log         zerolog.Logger
}

func NewAccountService(users repository.UserRepository, departments repository.DepartmentRepository, log zerolog.Logger) AccountService {
	return &accountService{users: users, departments: departments, log: log.With().Str("component", "accounts").Logger()}
}

// roleCatalogue lists every role a user may hold, chain roles in level order.
func roleCatalogue() []RoleResponse {
	roles := []RoleResponse{
		{Name: model.RoleSuperadmin, Label: "Super Admin", DecidesAnyLevel: true},
		{Name: model.RoleAdmin, Label: "Admin", DecidesAnyLevel: true},
	}
	for _, b := range approval.Chain {
		roles = append(roles, RoleResponse{
			Name:             b.Role,
			Label:            b.Label,
			ApprovalLevel:    b.Level,
			DepartmentScoped: b.DepartmentScoped,
		})
	}
	return append(roles, RoleResponse{Name: model.RoleUser, Label: "User"})
}

func knownRole(role string) (RoleResponse, bool) {
	for _, r := range roleCatalogue() {
		if r.Name == role {
			return r, true
		}
	}
	return RoleResponse{}, false
}

// --- Implementation ---

func (s *accountService) ListRoles(_ context.Context) []RoleResponse {
	return roleCatalogue()
}

func (s *accountService) ListUsers(ctx context.Context, role string, page, limit int) ([]UserResponse, int64, error) {
	if role != "" {
		if _, ok := knownRole(role); !ok {
			return nil, 0, fmt.Errorf("%w: unknown role %q", ErrInvalidAccount, role)
		}
	}
	users, total, err := s.users.List(ctx, role, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	res := make([]UserResponse, 0, len(users))
	for i := range users {
		res = append(res, *mapToResponse(&users[i]))
	}
	return res, total, nil
}

func (s *accountService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	username := strings.TrimSpace(req.Username)
	if err := s.checkRoleAssignment(ctx, req.Role, req.DepartmentID); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up username: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	user := &model.User{
		Username:       username,
		Password:       string(hashedPassword),
		FullName:       req.FullName,
		Email:          strings.TrimSpace(req.Email),
		Phone:          req.Phone,
		Role:           req.Role,
		DepartmentID:   req.DepartmentID,
		TelegramChatID: chatID(req.TelegramChatID),
		IsActive:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info().Uint("user_id", user.ID).Str("role", user.Role).Msg("account created")
	return mapToResponse(user), nil
}

func (s *accountService) UpdateUser(ctx context.Context, id uint, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Email != nil {
		user.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.DepartmentID != nil {
		user.DepartmentID = req.DepartmentID
	}
	if req.TelegramChatID != nil {
		user.TelegramChatID = chatID(req.TelegramChatID)
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if err := s.checkRoleAssignment(ctx, user.Role, user.DepartmentID); err != nil {
		return nil, err
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return mapToResponse(user), nil
}

func (s *accountService) ResetPassword(ctx context.Context, id uint, req ResetPasswordRequest) error {
	user, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return errors.New("failed to hash password")
	}
	user.Password = string(hashedPassword)
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	s.log.Info().Uint("user_id", id).Msg("password reset")
	return nil
}

func (s *accountService) DeleteUser(ctx context.Context, id uint, actor Actor) error {
	if id == actor.ID {
		return ErrCannotDeleteSelf
	}
	deleted, err := s.users.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if !deleted {
		return ErrUserNotFound
	}
	s.log.Info().Uint("user_id", id).Uint("actor_id", actor.ID).Msg("account deleted")
	return nil
}

func (s *accountService) load(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// checkRoleAssignment rejects unknown roles and department scoped roles
// without an existing department. Level 1 approvers are looked up by
// department, so an unscoped one would never be notified.
func (s *accountService) checkRoleAssignment(ctx context.Context, role string, departmentID *uint) error {
	info, ok := knownRole(role)
	if !ok {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidAccount, role)
	}
	if departmentID == nil {
		if info.DepartmentScoped {
			return fmt.Errorf("%w: role %s requires department_id", ErrInvalidAccount, role)
		}
		return nil
	}
	if _, err := s.departments.GetByID(ctx, *departmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: department %d does not exist", ErrInvalidAccount, *departmentID)
		}
		return fmt.Errorf("failed to load department: %w", err)
	}
	return nil
}

func chatID(v *string) *string {
	if v == nil {
		return nil
	}
	id := strings.TrimSpace(*v)
	if id == "" {
		return nil
	}
	return &id
}
