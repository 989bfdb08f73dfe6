package handler

import (
	"net/http"

	"pixgate/internal/middleware"
	"pixgate/internal/models"
	"pixgate/internal/repository"
	"pixgate/internal/service"

	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	planRepo *repository.PlanRepository
}

func NewPlanHandler(planRepo *repository.PlanRepository) *PlanHandler {
	return &PlanHandler{planRepo: planRepo}
}

func (h *PlanHandler) Create(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	var req struct {
		Name       string `json:"name" binding:"required"`
		PriceCents int64  `json:"price_cents" binding:"required"`
		Currency   string `json:"currency"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.PriceCents <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": service.ErrCodeInvalidAmount})
		return
	}
	plan := &models.Plan{
		TenantID:   tenantID,
		Name:       req.Name,
		PriceCents: req.PriceCents,
		Currency:   req.Currency,
		IsActive:   true,
	}
	if err := h.planRepo.Create(plan); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": service.ErrCodeOperationFailed})
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (h *PlanHandler) List(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	plans, err := h.planRepo.ListByTenant(tenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": service.ErrCodeOperationFailed})
		return
	}
	c.JSON(http.StatusOK, plans)
}
