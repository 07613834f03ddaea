package handler

import (
	"net/http"

	"vehicle-request-api/internal/service"
	"vehicle-request-api/pkg/response"

	"github.com/gin-gonic/gin"
)

type DepartmentHandler struct {
	service service.DepartmentService
}

func NewDepartmentHandler(svc service.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{service: svc}
}

// RegisterRoutes exposes departments publicly; the request form needs them.
func (h *DepartmentHandler) RegisterRoutes(router *gin.RouterGroup) {
	departments := router.Group("/api/departments")
	{
		departments.GET("", h.List)
		departments.GET("/:id", h.GetByID)
	}
}

// List returns all departments ordered by name
// @Summary      List departments
// @Tags         departments
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.Department}
// @Router       /api/departments [get]
func (h *DepartmentHandler) List(c *gin.Context) {
	departments, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, departments))
}

// GetByID returns one department
// @Summary      Get a department
// @Tags         departments
// @Produce      json
// @Param        id   path      int  true  "Department ID"
// @Success      200  {object}  response.Response{data=model.Department}
// @Failure      404  {object}  response.Response
// @Router       /api/departments/{id} [get]
func (h *DepartmentHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	dept, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, dept))
}
