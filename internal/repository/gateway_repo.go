package repository

import (
	"errors"

	"pixgate/internal/domain"
	"pixgate/internal/models"

	"gorm.io/gorm"
)

type GatewayRepository struct {
	db *gorm.DB
}

func NewGatewayRepository(db *gorm.DB) *GatewayRepository {
	return &GatewayRepository{db: db}
}

// Create stores a gateway. When the new gateway is flagged default, the
// default flag is cleared on every other gateway of the tenant in the same
// transaction (single-default invariant).
func (r *GatewayRepository) Create(g *models.Gateway) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if g.IsDefault {
			if err := tx.Model(&models.Gateway{}).
				Where("tenant_id = ? AND is_default = ?", g.TenantID, true).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(g).Error
	})
}

// Update saves gateway changes, re-asserting the single-default invariant
// when the gateway is (or becomes) the default.
func (r *GatewayRepository) Update(g *models.Gateway) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if g.IsDefault {
			if err := tx.Model(&models.Gateway{}).
				Where("tenant_id = ? AND id <> ? AND is_default = ?", g.TenantID, g.ID, true).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Save(g).Error
	})
}

func (r *GatewayRepository) GetByID(id uint) (*models.Gateway, error) {
	var g models.Gateway
	err := r.db.First(&g, id).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// ListByTenant returns a tenant's gateways, newest last. The provisioned
// mock gateway is internal plumbing and never listed.
func (r *GatewayRepository) ListByTenant(tenantID uint) ([]models.Gateway, error) {
	var gateways []models.Gateway
	err := r.db.Where("tenant_id = ? AND is_mock = ?", tenantID, false).
		Order("id asc").Find(&gateways).Error
	return gateways, err
}

func (r *GatewayRepository) DefaultForTenant(tenantID uint) (*models.Gateway, error) {
	var g models.Gateway
	err := r.db.Where("tenant_id = ? AND is_default = ? AND is_active = ? AND is_mock = ?",
		tenantID, true, true, false).First(&g).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GatewayRepository) FirstActiveForTenant(tenantID uint) (*models.Gateway, error) {
	var g models.Gateway
	err := r.db.Where("tenant_id = ? AND is_active = ? AND is_mock = ?", tenantID, true, false).
		Order("id asc").First(&g).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// EnsureMock returns the tenant's mock gateway, materializing it on first
// use so transaction rows have a gateway to reference. Two callers racing
// here both succeed: the unique mock_key turns the second insert into a
// duplicate-key error and the row is re-read.
func (r *GatewayRepository) EnsureMock(tenantID uint) (*models.Gateway, error) {
	key := models.MockKeyFor(tenantID)
	var g models.Gateway
	err := r.db.Where("mock_key = ?", key).First(&g).Error
	if err == nil {
		return &g, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	g = models.Gateway{
		TenantID: tenantID,
		Provider: domain.ProviderMock,
		Name:     "mock",
		IsActive: true,
		IsMock:   true,
		MockKey:  &key,
	}
	if createErr := r.db.Create(&g).Error; createErr != nil {
		// Lost the provisioning race; the winner's row satisfies us.
		if findErr := r.db.Where("mock_key = ?", key).First(&g).Error; findErr != nil {
			return nil, createErr
		}
	}
	return &g, nil
}
