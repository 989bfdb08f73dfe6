package handler

import (
	"errors"
	"net/http"

	"pixgate/internal/middleware"
	"pixgate/internal/repository"
	"pixgate/internal/service"
	"pixgate/pkg/pix"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CheckoutHandler struct {
	checkoutSvc service.CheckoutService
	reconciler  *service.Reconciler
	txRepo      *repository.TransactionRepository
}

func NewCheckoutHandler(checkoutSvc service.CheckoutService, reconciler *service.Reconciler, txRepo *repository.TransactionRepository) *CheckoutHandler {
	return &CheckoutHandler{checkoutSvc: checkoutSvc, reconciler: reconciler, txRepo: txRepo}
}

// Checkout creates a PIX charge for the authenticated tenant and returns the
// renderable payment artifact. Price comes from plan_id when given,
// amount_cents otherwise.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	var req struct {
		PlanID            *uint  `json:"plan_id"`
		AmountCents       int64  `json:"amount_cents"`
		Description       string `json:"description"`
		GatewayID         *uint  `json:"gateway_id"`
		ExpirationMinutes int    `json:"expiration_minutes"`
		CustomerID        string `json:"customer_id"`
		PayerName         string `json:"payer_name"`
		PayerEmail        string `json:"payer_email"`
		PayerDocument     string `json:"payer_document"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := service.CheckoutCommand{
		TenantID:          tenantID,
		CustomerID:        req.CustomerID,
		PlanID:            req.PlanID,
		AmountCents:       req.AmountCents,
		Description:       req.Description,
		GatewayID:         req.GatewayID,
		ExpirationMinutes: req.ExpirationMinutes,
	}
	if req.PayerEmail != "" || req.PayerName != "" || req.PayerDocument != "" {
		cmd.Payer = &pix.Payer{Name: req.PayerName, Email: req.PayerEmail, Document: req.PayerDocument}
	}
	artifact, err := h.checkoutSvc.Checkout(c.Request.Context(), cmd)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, artifact)
}

// Get reads a transaction back for the authenticated tenant.
func (h *CheckoutHandler) Get(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	tx, err := h.txRepo.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": service.ErrCodeTransactionNotFound})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": service.ErrCodeOperationFailed})
		return
	}
	if tx.TenantID != tenantID {
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrCodeTransactionNotFound})
		return
	}
	c.JSON(http.StatusOK, tx)
}

// Refresh polls the provider for the transaction's current status and
// applies it through reconciliation, returning the (possibly advanced)
// normalized status.
func (h *CheckoutHandler) Refresh(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	tx, err := h.txRepo.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": service.ErrCodeTransactionNotFound})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": service.ErrCodeOperationFailed})
		return
	}
	if tx.TenantID != tenantID {
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrCodeTransactionNotFound})
		return
	}
	result, err := h.reconciler.Refresh(c.Request.Context(), tx.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"transaction_id": result.TransactionID,
		"status":         result.Status,
	})
}
