package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vehicle-request-api/internal/middleware"
	"vehicle-request-api/internal/model"
	"vehicle-request-api/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DTOs for Request validation
type LoginUserRequest struct {
	Login    string `json:"login" binding:"required"` // username or email
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// DTO for returning User without exposing sensitive data (e.g. password)
type UserResponse struct {
	ID             uint    `json:"id"`
	Username       string  `json:"username"`
	FullName       string  `json:"full_name"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	Role           string  `json:"role"`
	DepartmentID   *uint   `json:"department_id"`
	TelegramChatID *string `json:"telegram_chat_id"`
	IsActive       bool    `json:"is_active"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

// AdminSeed holds the bootstrap superadmin account.
type AdminSeed struct {
	Username string
	Password string
	Email    string
}

// UserService authenticates intranet users.
type UserService interface {
	Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, error)
	GetUserByID(ctx context.Context, id uint) (*UserResponse, error)
	EnsureAdmin(ctx context.Context, seed AdminSeed) error
}

type userService struct {
	repo   repository.UserRepository
	secret []byte
	log    zerolog.Logger
}

// NewUserService returns a new instance of UserService
func NewUserService(repo repository.UserRepository, secret []byte, log zerolog.Logger) UserService {
	return &userService{repo: repo, secret: secret, log: log.With().Str("component", "auth").Logger()}
}

// Helper: parse model to standard json API response
func mapToResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:             user.ID,
		Username:       user.Username,
		FullName:       user.FullName,
		Email:          user.Email,
		Phone:          user.Phone,
		Role:           user.Role,
		DepartmentID:   user.DepartmentID,
		TelegramChatID: user.TelegramChatID,
		IsActive:       user.IsActive,
		CreatedAt:      user.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:      user.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (s *userService) Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, error) {
	user, err := s.repo.GetByLogin(ctx, strings.TrimSpace(req.Login))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Error().Err(err).Msg("login lookup failed")
		}
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := middleware.IssueToken(s.secret, user.ID, user.Username, user.Role, user.DepartmentID, time.Now())
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	s.log.Info().Uint("user_id", user.ID).Str("role", user.Role).Msg("user logged in")
	return &TokenResponse{Token: token, User: mapToResponse(user)}, nil
}

func (s *userService) GetUserByID(ctx context.Context, id uint) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return mapToResponse(user), nil
}

// EnsureAdmin creates the superadmin account when its username is not taken
// yet. An existing account is left untouched.
func (s *userService) EnsureAdmin(ctx context.Context, seed AdminSeed) error {
	if seed.Username == "" || seed.Password == "" {
		s.log.Warn().Msg("admin seed skipped: ADMIN_USERNAME or ADMIN_PASSWORD not set")
		return nil
	}

	_, err := s.repo.GetByUsername(ctx, seed.Username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
	if err != nil {
		return errors.New("failed to hash password")
	}

	admin := &model.User{
		Username: seed.Username,
		Password: string(hashedPassword),
		FullName: "Super Admin",
		Email:    seed.Email,
		Role:     model.RoleSuperadmin,
		IsActive: true,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	s.log.Info().Str("username", seed.Username).Msg("superadmin account created")
	return nil
}
