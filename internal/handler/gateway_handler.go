package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"pixgate/internal/middleware"
	"pixgate/internal/models"
	"pixgate/internal/repository"
	"pixgate/internal/service"
	"pixgate/pkg/pix"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type GatewayHandler struct {
	gwRepo *repository.GatewayRepository
}

func NewGatewayHandler(gwRepo *repository.GatewayRepository) *GatewayHandler {
	return &GatewayHandler{gwRepo: gwRepo}
}

type gatewayRequest struct {
	Provider    string            `json:"provider" binding:"required"`
	Name        string            `json:"name"`
	Credentials map[string]string `json:"credentials"`
	IsDefault   bool              `json:"is_default"`
	IsActive    *bool             `json:"is_active"`
}

// Create registers a provider credential set for the tenant.
func (h *GatewayHandler) Create(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	var req gatewayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := pix.ForProvider(req.Provider); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown provider: " + req.Provider})
		return
	}
	creds, _ := json.Marshal(req.Credentials)
	gw := &models.Gateway{
		TenantID:    tenantID,
		Provider:    req.Provider,
		Name:        req.Name,
		Credentials: string(creds),
		IsDefault:   req.IsDefault,
		IsActive:    true,
	}
	if req.IsActive != nil {
		gw.IsActive = *req.IsActive
	}
	if err := h.gwRepo.Create(gw); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": service.ErrCodeOperationFailed})
		return
	}
	c.JSON(http.StatusCreated, gw)
}

// Update changes a gateway's name, credentials or flags.
func (h *GatewayHandler) Update(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid gateway id"})
		return
	}
	gw, err := h.gwRepo.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": service.ErrCodeGatewayNotFound})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": service.ErrCodeOperationFailed})
		return
	}
	if gw.TenantID != tenantID || gw.IsMock {
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrCodeGatewayNotFound})
		return
	}
	var req struct {
		Name        *string           `json:"name"`
		Credentials map[string]string `json:"credentials"`
		IsDefault   *bool             `json:"is_default"`
		IsActive    *bool             `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name != nil {
		gw.Name = *req.Name
	}
	if req.Credentials != nil {
		creds, _ := json.Marshal(req.Credentials)
		gw.Credentials = string(creds)
	}
	if req.IsDefault != nil {
		gw.IsDefault = *req.IsDefault
	}
	if req.IsActive != nil {
		gw.IsActive = *req.IsActive
	}
	if err := h.gwRepo.Update(gw); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": service.ErrCodeOperationFailed})
		return
	}
	c.JSON(http.StatusOK, gw)
}

// List returns the tenant's configured gateways. The provisioned mock
// gateway never shows up here.
func (h *GatewayHandler) List(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	gateways, err := h.gwRepo.ListByTenant(tenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": service.ErrCodeOperationFailed})
		return
	}
	c.JSON(http.StatusOK, gateways)
}
