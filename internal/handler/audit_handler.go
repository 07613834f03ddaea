package handler

import (
	"net/http"
	"strconv"

	"vehicle-request-api/internal/middleware"
	"vehicle-request-api/internal/service"
	"vehicle-request-api/pkg/pagination"
	"vehicle-request-api/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
	secret       []byte
}

func NewAuditHandler(auditService service.AuditService, secret []byte) *AuditHandler {
	return &AuditHandler{auditService: auditService, secret: secret}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/audit-logs")
	group.Use(middleware.RequireRole(h.secret, adminRoles...))
	{
		group.GET("", h.GetAuditLogs)
	}
}

// GetAuditLogs returns one page of audit entries, newest first
// @Summary      Get audit logs
// @Description  Lists request submissions, approval decisions and deletions
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        page        query     int     false  "Page number (default 1)"
// @Param        limit       query     int     false  "Number of items per page (default 20)"
// @Param        action      query     string  false  "CREATE_VEHICLE_REQUEST, APPROVE_LEVEL, REJECT_LEVEL or DELETE_VEHICLE_REQUEST"
// @Param        request_id  query     int     false  "Only entries for this vehicle request"
// @Success      200         {object}  response.Response{data=[]service.AuditLogResponse}
// @Failure      400         {object}  response.Response
// @Router       /api/audit-logs [get]
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	p := pagination.Parse(c)

	query := service.AuditQuery{Action: c.Query("action")}
	if raw := c.Query("request_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request_id"))
			return
		}
		query.RequestID = uint(id)
	}

	logs, total, err := h.auditService.GetAuditLogs(c.Request.Context(), query, p.Page, p.Limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, logs, p.Meta(total)))
}
