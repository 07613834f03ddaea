package handler

import (
	"net/http"
	"time"

	"vehicle-request-api/internal/middleware"
	"vehicle-request-api/internal/service"
	"vehicle-request-api/pkg/response"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	statisticsService service.StatisticsService
	secret            []byte
	now               func() time.Time
}

func NewStatisticsHandler(statisticsService service.StatisticsService, secret []byte) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService, secret: secret, now: time.Now}
}

func (h *StatisticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	statsGroup := router.Group("/api/statistics")
	{
		statsGroup.GET("/vehicle-requests", middleware.RequireRole(h.secret, staffRoles...), h.GetStatistics)
	}
}

// GetStatistics returns the dashboard summary
// @Summary      Vehicle request statistics
// @Description  Counts by status, pending backlog per approval level, location split and top departments
// @Tags         statistics
// @Security     BearerAuth
// @Produce      json
// @Param        start_date  query     string  false  "Start Date (RFC3339), default first day of the month"
// @Param        end_date    query     string  false  "End Date (RFC3339), default now"
// @Success      200         {object}  response.Response{data=model.VehicleRequestStatistics}
// @Failure      400         {object}  response.Response
// @Router       /api/statistics/vehicle-requests [get]
func (h *StatisticsHandler) GetStatistics(c *gin.Context) {
	now := h.now()
	startDate := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	endDate := now

	if v := c.Query("start_date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid start_date format, expected RFC3339"))
			return
		}
		startDate = t
	}
	if v := c.Query("end_date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid end_date format, expected RFC3339"))
			return
		}
		endDate = t
	}

	stats, err := h.statisticsService.GetStatistics(c.Request.Context(), startDate, endDate)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}
