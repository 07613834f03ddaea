package handler

import (
	"net/http"

	"vehicle-request-api/internal/middleware"
	"vehicle-request-api/internal/service"
	"vehicle-request-api/pkg/response"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
	secret      []byte
}

// NewUserHandler sets up the routing dependencies for auth endpoints
func NewUserHandler(userService service.UserService, secret []byte) *UserHandler {
	return &UserHandler{userService: userService, secret: secret}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/api/auth")
	{
		auth.POST("/login", h.Login)
		// any valid token
		auth.GET("/me", middleware.RequireRole(h.secret), h.GetMe)
	}
}

// Login authenticates a user
// @Summary      Log in
// @Description  Accepts a username or an email address and returns a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials  body      service.LoginUserRequest  true  "Credentials"
// @Success      200          {object}  response.Response{data=service.TokenResponse}
// @Failure      400          {object}  response.Response
// @Failure      401          {object}  response.Response
// @Router       /api/auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req service.LoginUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	token, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, token))
}

// GetMe returns the current user
// @Summary      Current user
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.UserResponse}
// @Failure      401  {object}  response.Response
// @Router       /api/auth/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, _ := middleware.CurrentUser(c)

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}
