package handler

import (
	"io"
	"net/http"

	"pixgate/internal/service"
	"pixgate/pkg/pix"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WebhookHandler receives provider callbacks. Providers retry on anything
// but 2xx, so every outcome acks with 200: failures are our problem to log
// and reconcile, not theirs to redeliver forever.
type WebhookHandler struct {
	reconciler *service.Reconciler
	log        *zap.Logger
}

func NewWebhookHandler(reconciler *service.Reconciler, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{reconciler: reconciler, log: log}
}

// Handle processes a callback for the provider named in the route.
func (h *WebhookHandler) Handle(c *gin.Context) {
	provider := c.Param("provider")
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		h.log.Warn("webhook body read failed", zap.String("provider", provider), zap.Error(err))
		ack(c)
		return
	}

	evt := pix.ParseWebhook(provider, body)
	if evt == nil {
		// Unknown provider, malformed payload or an event class we do not
		// track. Acked and dropped.
		h.log.Debug("webhook ignored", zap.String("provider", provider))
		ack(c)
		return
	}

	result, err := h.reconciler.Apply(c.Request.Context(), *evt)
	if err != nil {
		h.log.Warn("webhook reconciliation failed",
			zap.String("provider", provider),
			zap.String("external_id", evt.ExternalID),
			zap.Error(err))
		ack(c)
		return
	}
	if result.Applied {
		h.log.Info("webhook applied",
			zap.String("provider", provider),
			zap.String("transaction_id", result.TransactionID),
			zap.String("status", result.Status))
	}
	ack(c)
}

func ack(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"received": true})
}
