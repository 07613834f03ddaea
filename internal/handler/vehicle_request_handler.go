package handler

import (
	"net/http"

	"vehicle-request-api/internal/middleware"
	"vehicle-request-api/internal/service"
	"vehicle-request-api/pkg/pagination"
	"vehicle-request-api/pkg/response"

	"github.com/gin-gonic/gin"
)

type VehicleRequestHandler struct {
	service service.VehicleRequestService
	secret  []byte
}

func NewVehicleRequestHandler(svc service.VehicleRequestService, secret []byte) *VehicleRequestHandler {
	return &VehicleRequestHandler{service: svc, secret: secret}
}

func (h *VehicleRequestHandler) RegisterRoutes(router *gin.RouterGroup) {
	requests := router.Group("/api/vehicle-requests")
	{
		// Public form and ticket lookup
		requests.POST("", h.Create)
		requests.GET("/search/:ticketNumber", h.SearchByTicket)

		requests.GET("", middleware.RequireRole(h.secret, staffRoles...), h.List)
		requests.GET("/:id", middleware.RequireRole(h.secret, staffRoles...), h.GetByID)
		requests.PATCH("/:id/approval", middleware.RequireRole(h.secret, staffRoles...), h.Decide)
		requests.DELETE("/:id", middleware.RequireRole(h.secret, adminRoles...), h.Delete)
	}
}

// Create submits a vehicle request from the public form
// @Summary      Submit a vehicle request
// @Description  Stores the request, issues a ticket number and notifies the level 1 approvers
// @Tags         vehicle-requests
// @Accept       json
// @Produce      json
// @Param        request  body      service.CreateVehicleRequestDTO  true  "Vehicle request"
// @Success      201      {object}  response.Response{data=service.VehicleRequestResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/vehicle-requests [post]
func (h *VehicleRequestHandler) Create(c *gin.Context) {
	var req service.CreateVehicleRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	res, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, res))
}

// SearchByTicket looks a request up by its ticket number
// @Summary      Search by ticket number
// @Tags         vehicle-requests
// @Produce      json
// @Param        ticketNumber  path      string  true  "Ticket number, case insensitive"
// @Success      200           {object}  response.Response{data=service.VehicleRequestResponse}
// @Failure      404           {object}  response.Response
// @Router       /api/vehicle-requests/search/{ticketNumber} [get]
func (h *VehicleRequestHandler) SearchByTicket(c *gin.Context) {
	res, err := h.service.SearchByTicket(c.Request.Context(), c.Param("ticketNumber"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// List returns vehicle requests, newest first
// @Summary      List vehicle requests
// @Tags         vehicle-requests
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "pending, approved or rejected"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Items per page (default 20)"
// @Success      200     {object}  response.Response{data=[]service.VehicleRequestResponse}
// @Router       /api/vehicle-requests [get]
func (h *VehicleRequestHandler) List(c *gin.Context) {
	p := pagination.Parse(c)

	items, total, err := h.service.List(c.Request.Context(), service.VehicleRequestFilter{
		Status: c.Query("status"),
		Page:   p.Page,
		Limit:  p.Limit,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, items, p.Meta(total)))
}

// GetByID returns one vehicle request
// @Summary      Get a vehicle request
// @Tags         vehicle-requests
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Request ID"
// @Success      200  {object}  response.Response{data=service.VehicleRequestResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/vehicle-requests/{id} [get]
func (h *VehicleRequestHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	res, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// Decide records an approval decision for one level
// @Summary      Decide an approval level
// @Description  Level L can only be decided once level L-1 is approved. Rejection ends the chain.
// @Tags         vehicle-requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id        path      int                        true  "Request ID"
// @Param        decision  body      service.DecideApprovalDTO  true  "Decision"
// @Success      200       {object}  response.Response{data=service.VehicleRequestResponse}
// @Failure      400       {object}  response.Response
// @Failure      403       {object}  response.Response
// @Failure      404       {object}  response.Response
// @Router       /api/vehicle-requests/{id}/approval [patch]
func (h *VehicleRequestHandler) Decide(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req service.DecideApprovalDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	res, err := h.service.Decide(c.Request.Context(), id, req, actorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// Delete removes a vehicle request. Its ticket number is never reissued.
// @Summary      Delete a vehicle request
// @Tags         vehicle-requests
// @Security     BearerAuth
// @Param        id   path      int  true  "Request ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/vehicle-requests/{id} [delete]
func (h *VehicleRequestHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, actorFrom(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Vehicle request deleted"}))
}

func actorFrom(c *gin.Context) service.Actor {
	userID, role := middleware.CurrentUser(c)
	actor := service.Actor{ID: userID, Role: role}
	if dept, ok := c.Get(middleware.ContextDepartmentID); ok {
		if id, ok := dept.(uint); ok {
			actor.DepartmentID = &id
		}
	}
	return actor
}
