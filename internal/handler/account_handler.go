package handler

import (
	"net/http"

	"vehicle-request-api/internal/middleware"
	"vehicle-request-api/internal/service"
	"vehicle-request-api/pkg/pagination"
	"vehicle-request-api/pkg/response"

	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	accountService service.AccountService
	secret         []byte
}

func NewAccountHandler(accountService service.AccountService, secret []byte) *AccountHandler {
	return &AccountHandler{accountService: accountService, secret: secret}
}

func (h *AccountHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/api/users")
	users.Use(middleware.RequireRole(h.secret, adminRoles...))
	{
		users.GET("", h.ListUsers)
		users.POST("", h.CreateUser)
		users.PUT("/:id", h.UpdateUser)
		users.PUT("/:id/reset-password", h.ResetPassword)
		users.DELETE("/:id", h.DeleteUser)
	}

	roles := router.Group("/api/roles")
	roles.Use(middleware.RequireRole(h.secret, adminRoles...))
	{
		roles.GET("", h.ListRoles)
	}
}

// ListRoles returns every assignable role with its approval level
// @Summary      List roles
// @Tags         accounts
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]service.RoleResponse}
// @Router       /api/roles [get]
func (h *AccountHandler) ListRoles(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.accountService.ListRoles(c.Request.Context())))
}

// ListUsers returns accounts, optionally filtered by role
// @Summary      List users
// @Tags         accounts
// @Security     BearerAuth
// @Produce      json
// @Param        role   query     string  false  "Role name"
// @Param        page   query     int     false  "Page number (default 1)"
// @Param        limit  query     int     false  "Items per page (default 20)"
// @Success      200    {object}  response.Response{data=[]service.UserResponse}
// @Failure      400    {object}  response.Response
// @Router       /api/users [get]
func (h *AccountHandler) ListUsers(c *gin.Context) {
	p := pagination.Parse(c)
	users, total, err := h.accountService.ListUsers(c.Request.Context(), c.Query("role"), p.Page, p.Limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, users, p.Meta(total)))
}

// CreateUser creates an account, typically an approver
// @Summary      Create a user
// @Tags         accounts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        user  body      service.CreateUserRequest  true  "Account"
// @Success      201   {object}  response.Response{data=service.UserResponse}
// @Failure      400   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /api/users [post]
func (h *AccountHandler) CreateUser(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	user, err := h.accountService.CreateUser(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, user))
}

// UpdateUser changes profile, role, department or active flag
// @Summary      Update a user
// @Tags         accounts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path      int                        true  "User ID"
// @Param        user  body      service.UpdateUserRequest  true  "Fields to change"
// @Success      200   {object}  response.Response{data=service.UserResponse}
// @Failure      400   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /api/users/{id} [put]
func (h *AccountHandler) UpdateUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	user, err := h.accountService.UpdateUser(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}

// ResetPassword sets a new password for an account
// @Summary      Reset a password
// @Tags         accounts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id        path      int                           true  "User ID"
// @Param        password  body      service.ResetPasswordRequest  true  "New password"
// @Success      200       {object}  response.Response
// @Failure      404       {object}  response.Response
// @Router       /api/users/{id}/reset-password [put]
func (h *AccountHandler) ResetPassword(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req service.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.accountService.ResetPassword(c.Request.Context(), id, req); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Password reset successfully"}))
}

// DeleteUser removes an account other than the caller's own
// @Summary      Delete a user
// @Tags         accounts
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/users/{id} [delete]
func (h *AccountHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.accountService.DeleteUser(c.Request.Context(), id, actorFrom(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "User deleted successfully"}))
}
