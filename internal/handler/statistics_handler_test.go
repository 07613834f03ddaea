package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"vehicle-request-api/internal/model"

	"github.com/gin-gonic/gin"
)

type stubStatisticsService struct {
	start, end time.Time
}

func (s *stubStatisticsService) GetStatistics(_ context.Context, start, end time.Time) (*model.VehicleRequestStatistics, error) {
	s.start, s.end = start, end
	return &model.VehicleRequestStatistics{Total: 3, TimeRangeStart: start, TimeRangeEnd: end}, nil
}

func TestStatisticsDefaultsToCurrentMonth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &stubStatisticsService{}
	h := NewStatisticsHandler(svc, testSecret)
	h.now = func() time.Time { return time.Date(2026, 3, 18, 10, 0, 0, 0, time.UTC) }
	r := gin.New()
	h.RegisterRoutes(r.Group(""))

	if w := perform(r, http.MethodGet, "/api/statistics/vehicle-requests", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("without token: status = %d", w.Code)
	}

	w := perform(r, http.MethodGet, "/api/statistics/vehicle-requests", bearer(t, 2, model.RoleGATransport, nil), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if !svc.start.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) || !svc.end.Equal(h.now()) {
		t.Fatalf("unexpected range %v - %v", svc.start, svc.end)
	}

	if w := perform(r, http.MethodGet, "/api/statistics/vehicle-requests?start_date=yesterday", bearer(t, 2, model.RoleAdmin, nil), nil); w.Code != http.StatusBadRequest {
		t.Fatalf("bad start_date: status = %d", w.Code)
	}
}
