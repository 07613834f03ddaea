package handler

import (
	"net/http"
	"strings"

	"vehicle-request-api/internal/middleware"
	"vehicle-request-api/internal/service"
	"vehicle-request-api/pkg/response"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// WebhookAdmin manages the bot's webhook registration.
type WebhookAdmin interface {
	SetWebhook(baseURL string) error
	WebhookInfo() (tgbotapi.WebhookInfo, error)
}

type TelegramHandler struct {
	bot    service.TelegramBotService
	admin  WebhookAdmin
	secret []byte
	log    zerolog.Logger
}

// NewTelegramHandler wires the webhook. admin may be nil when no bot token
// is configured.
func NewTelegramHandler(bot service.TelegramBotService, admin WebhookAdmin, secret []byte, log zerolog.Logger) *TelegramHandler {
	return &TelegramHandler{bot: bot, admin: admin, secret: secret, log: log.With().Str("component", "telegram_webhook").Logger()}
}

func (h *TelegramHandler) RegisterRoutes(router *gin.RouterGroup) {
	telegram := router.Group("/api/telegram")
	{
		telegram.POST("/webhook", h.Webhook)
		telegram.GET("/set-webhook", middleware.RequireRole(h.secret, adminRoles...), h.SetWebhook)
		telegram.GET("/webhook-info", middleware.RequireRole(h.secret, adminRoles...), h.WebhookInfo)
	}
}

// Webhook receives bot updates. Telegram retries on non-2xx, so every
// update is acknowledged.
// @Summary      Telegram webhook
// @Tags         telegram
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]bool
// @Router       /api/telegram/webhook [post]
func (h *TelegramHandler) Webhook(c *gin.Context) {
	var update tgbotapi.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		h.log.Warn().Err(err).Msg("invalid telegram update")
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	if err := h.bot.HandleUpdate(c.Request.Context(), update); err != nil {
		h.log.Error().Err(err).Int("update_id", update.UpdateID).Msg("telegram update failed")
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// SetWebhook registers <url>/api/telegram/webhook with Telegram
// @Summary      Set the bot webhook
// @Tags         telegram
// @Security     BearerAuth
// @Produce      json
// @Param        url  query     string  true  "Public base URL of this API"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      503  {object}  response.Response
// @Router       /api/telegram/set-webhook [get]
func (h *TelegramHandler) SetWebhook(c *gin.Context) {
	if h.admin == nil {
		c.JSON(http.StatusServiceUnavailable, response.Error(http.StatusServiceUnavailable, "TELEGRAM_BOT_TOKEN not configured"))
		return
	}
	baseURL := strings.TrimRight(c.Query("url"), "/")
	if baseURL == "" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Missing url parameter"))
		return
	}
	if err := h.admin.SetWebhook(baseURL); err != nil {
		h.log.Error().Err(err).Msg("set webhook failed")
		c.JSON(http.StatusBadGateway, response.Error(http.StatusBadGateway, "Failed to set webhook"))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"webhook": baseURL + "/api/telegram/webhook"}))
}

// WebhookInfo returns Telegram's view of the webhook
// @Summary      Webhook info
// @Tags         telegram
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      503  {object}  response.Response
// @Router       /api/telegram/webhook-info [get]
func (h *TelegramHandler) WebhookInfo(c *gin.Context) {
	if h.admin == nil {
		c.JSON(http.StatusServiceUnavailable, response.Error(http.StatusServiceUnavailable, "TELEGRAM_BOT_TOKEN not configured"))
		return
	}
	info, err := h.admin.WebhookInfo()
	if err != nil {
		h.log.Error().Err(err).Msg("get webhook info failed")
		c.JSON(http.StatusBadGateway, response.Error(http.StatusBadGateway, "Failed to get webhook info"))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, info))
}
