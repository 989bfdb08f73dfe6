package service

import (
	"time"

	"pixgate/internal/models"
	"pixgate/pkg/pix"
)

// TransactionStore is the persistence boundary for transactions. The gorm
// repository satisfies it in production; tests substitute mocks.
type TransactionStore interface {
	Create(t *models.Transaction) error
	GetByID(id string) (*models.Transaction, error)
	GetByExternalID(externalID string) (*models.Transaction, error)
	UpdateStatusIf(id, from, to string, paidAt *time.Time) (bool, error)
}

// GatewayStore is the read/provision boundary for gateway configuration.
type GatewayStore interface {
	GetByID(id uint) (*models.Gateway, error)
	DefaultForTenant(tenantID uint) (*models.Gateway, error)
	FirstActiveForTenant(tenantID uint) (*models.Gateway, error)
	EnsureMock(tenantID uint) (*models.Gateway, error)
}

// PlanStore is the read boundary for plan pricing.
type PlanStore interface {
	GetByID(tenantID, id uint) (*models.Plan, error)
}

// ProviderFunc resolves a provider identifier to its adapter.
// pix.ForProvider in production; tests inject their own.
type ProviderFunc func(name string) (pix.Provider, error)
