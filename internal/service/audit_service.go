package service

import (
	"context"
	"fmt"
	"strconv"

	"vehicle-request-api/internal/model"
	"vehicle-request-api/internal/repository"
)

type AuditLogResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	Username   string `json:"username"`
	Action     string `json:"action"`
	EntityID   string `json:"entity_id"`
	EntityName string `json:"entity_name"`
	Details    string `json:"details"`
	CreatedAt  string `json:"created_at"`
}

// AuditQuery filters the audit trail by action and by vehicle request.
type AuditQuery struct {
	Action    string
	RequestID uint
}

var auditActions = map[string]bool{
	model.ActionCreateVehicleRequest: true,
	model.ActionApproveLevel:         true,
	model.ActionRejectLevel:          true,
	model.ActionDeleteVehicleRequest: true,
}

type AuditService interface {
	GetAuditLogs(ctx context.Context, query AuditQuery, page, limit int) ([]AuditLogResponse, int64, error)
}

type auditService struct {
	repo repository.AuditRepository
}

// NewAuditService creates a new AuditService instance
func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

// GetAuditLogs returns one page of audit entries, newest first. Entries
// without a user were written by the public form and show as "Public".
func (s *auditService) GetAuditLogs(ctx context.Context, query AuditQuery, page, limit int) ([]AuditLogResponse, int64, error) {
	if query.Action != "" && !auditActions[query.Action] {
		return nil, 0, fmt.Errorf("%w: unknown action %q", ErrInvalidAuditFilter, query.Action)
	}
	filter := repository.AuditFilter{Action: query.Action}
	if query.RequestID != 0 {
		filter.EntityID = strconv.FormatUint(uint64(query.RequestID), 10)
	}

	logs, total, err := s.repo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit logs: %w", err)
	}

	res := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		username := "Public"
		userID := ""
		if l.User != nil {
			username = l.User.Username
		}
		if l.UserID != nil {
			userID = strconv.FormatUint(uint64(*l.UserID), 10)
		}

		res = append(res, AuditLogResponse{
			ID:         l.ID.String(),
			UserID:     userID,
			Username:   username,
			Action:     l.Action,
			EntityID:   l.EntityID,
			EntityName: l.EntityName,
			Details:    string(l.Details),
			CreatedAt:  l.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return res, total, nil
}
