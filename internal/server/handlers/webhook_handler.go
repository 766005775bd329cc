package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/domain/models"
	service "github.com/Mohan-0108/KSM-ENTERPRIES/internal/service/whatsapp"
)

// WebhookHandler exposes the WhatsApp channel: Meta's webhook and manual notifications.
type WebhookHandler struct {
	svc    service.MessagingService
	logger *zap.Logger
}

// NewWebhookHandler constructs the HTTP handler adapter.
func NewWebhookHandler(svc service.MessagingService, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{svc: svc, logger: logger}
}

type verifyQuery struct {
	Mode      string `form:"hub.mode"`
	Token     string `form:"hub.verify_token"`
	Challenge string `form:"hub.challenge"`
}

// Verify echoes hub.challenge when the subscription token matches.
func (h *WebhookHandler) Verify(c *gin.Context) {
	var q verifyQuery
	_ = c.ShouldBindQuery(&q)

	challenge, err := h.svc.VerifyWebhookToken(q.Mode, q.Token, q.Challenge)
	if err != nil {
		h.logger.Warn("webhook verification rejected", zap.String("mode", q.Mode), zap.Error(err))
		c.String(http.StatusForbidden, "verification failed")
		return
	}
	c.String(http.StatusOK, challenge)
}

// Receive answers the chat queries carried by a callback. Reply failures are logged and still
// acknowledged with 200, otherwise Meta redelivers the same messages.
func (h *WebhookHandler) Receive(c *gin.Context) {
	var payload models.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	messages := 0
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			messages += len(change.Value.Messages)
		}
	}
	if messages == 0 {
		// status updates (delivered, read) carry no messages
		c.Status(http.StatusOK)
		return
	}

	if err := h.svc.HandleWebhook(c.Request.Context(), payload); err != nil {
		h.logger.Error("webhook replies failed", zap.Int("messages", messages), zap.Error(err))
	}
	c.Status(http.StatusOK)
}

// Notify pushes a manual message, to the owner unless "to" is given.
func (h *WebhookHandler) Notify(c *gin.Context) {
	var req models.OutboundMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	if err := h.svc.SendOutbound(c.Request.Context(), req); err != nil {
		h.logger.Error("notification not delivered", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to send message"})
		return
	}
	c.Status(http.StatusAccepted)
}
