package service

import (
	"context"
	"errors"
	"testing"

	"vehicle-request-api/internal/model"
)

func TestGetAuditLogsFiltersByActionAndRequest(t *testing.T) {
	userID := uint(4)
	repo := &fakeAuditRepo{entries: []model.AuditLog{
		{UserID: &userID, User: &model.User{Username: "kadep"}, Action: model.ActionApproveLevel, EntityID: "12"},
		{Action: model.ActionCreateVehicleRequest, EntityID: "12"},
	}}
	svc := NewAuditService(repo)

	logs, total, err := svc.GetAuditLogs(context.Background(), AuditQuery{Action: model.ActionApproveLevel, RequestID: 12}, 1, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.filter.Action != model.ActionApproveLevel || repo.filter.EntityID != "12" {
		t.Fatalf("filter not forwarded: %+v", repo.filter)
	}
	if total != 2 || logs[0].Username != "kadep" || logs[0].UserID != "4" {
		t.Fatalf("unexpected first entry %+v", logs[0])
	}
	if logs[1].Username != "Public" || logs[1].UserID != "" {
		t.Fatalf("public submission should show as Public, got %+v", logs[1])
	}
}

func TestGetAuditLogsRejectsUnknownAction(t *testing.T) {
	svc := NewAuditService(&fakeAuditRepo{})
	_, _, err := svc.GetAuditLogs(context.Background(), AuditQuery{Action: "DROP_TABLE"}, 1, 20)
	if !errors.Is(err, ErrInvalidAuditFilter) {
		t.Fatalf("expected ErrInvalidAuditFilter, got %v", err)
	}
}
