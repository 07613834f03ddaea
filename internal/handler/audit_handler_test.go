package handler

import (
	"context"
	"net/http"
	"testing"

	"vehicle-request-api/internal/model"
	"vehicle-request-api/internal/service"

	"github.com/gin-gonic/gin"
)

type stubAuditService struct {
	query service.AuditQuery
}

func (s *stubAuditService) GetAuditLogs(_ context.Context, query service.AuditQuery, _, _ int) ([]service.AuditLogResponse, int64, error) {
	s.query = query
	if query.Action == "BOGUS" {
		return nil, 0, service.ErrInvalidAuditFilter
	}
	return []service.AuditLogResponse{}, 0, nil
}

func TestAuditLogsFilterQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &stubAuditService{}
	r := gin.New()
	NewAuditHandler(svc, testSecret).RegisterRoutes(r.Group(""))
	admin := bearer(t, 1, model.RoleAdmin, nil)

	w := perform(r, http.MethodGet, "/api/audit-logs?action=REJECT_LEVEL&request_id=12", admin, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if svc.query.Action != model.ActionRejectLevel || svc.query.RequestID != 12 {
		t.Fatalf("unexpected query %+v", svc.query)
	}

	if w := perform(r, http.MethodGet, "/api/audit-logs?request_id=abc", admin, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("bad request_id: status = %d", w.Code)
	}
	if w := perform(r, http.MethodGet, "/api/audit-logs?action=BOGUS", admin, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("unknown action: status = %d", w.Code)
	}
	if w := perform(r, http.MethodGet, "/api/audit-logs", bearer(t, 2, model.RoleGATransport, nil), nil); w.Code != http.StatusForbidden {
		t.Fatalf("non-admin: status = %d", w.Code)
	}
}
