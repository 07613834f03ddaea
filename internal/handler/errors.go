package handler

import (
	"errors"
	"net/http"
	"strconv"

	"vehicle-request-api/internal/approval"
	"vehicle-request-api/internal/model"
	"vehicle-request-api/internal/service"
	"vehicle-request-api/pkg/response"

	"github.com/gin-gonic/gin"
)

// staffRoles may read requests and decide the levels bound to their role.
var staffRoles = []string{
	model.RoleAdmin,
	model.RoleSuperadmin,
	model.RoleHeadDepartemen,
	model.RoleGATransport,
	model.RoleGeneralAffair,
	model.RoleGeneralService,
}

var adminRoles = []string{model.RoleAdmin, model.RoleSuperadmin}

// statusFor maps service and policy errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrVehicleRequestNotFound),
		errors.Is(err, service.ErrDepartmentNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound
	case approval.IsPolicyError(err),
		errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, service.ErrInvalidAccount),
		errors.Is(err, service.ErrCannotDeleteSelf),
		errors.Is(err, service.ErrInvalidAuditFilter):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrLevelForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrTicketConflict), errors.Is(err, service.ErrUsernameTaken):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err in the standard envelope. Internal errors keep
// their detail out of the response body.
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "Internal server error"
	}
	c.JSON(status, response.Error(status, msg))
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid id"))
		return 0, false
	}
	return uint(id), true
}
