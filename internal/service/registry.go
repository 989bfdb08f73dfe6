package service

import (
	"errors"

	"pixgate/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var errNoGateway = errors.New("no gateway resolvable for tenant")

// GatewayRegistry resolves which gateway a checkout should charge through.
type GatewayRegistry struct {
	gateways GatewayStore
	log      *zap.Logger
}

func NewGatewayRegistry(gateways GatewayStore, log *zap.Logger) *GatewayRegistry {
	return &GatewayRegistry{gateways: gateways, log: log}
}

// Resolve picks a gateway in order: the explicitly requested one, the
// tenant's default, the tenant's first active gateway, and finally the
// lazily provisioned mock gateway so checkout stays testable without a live
// provider. An explicit id that does not resolve to an active gateway of
// this tenant is an error, not a fall-through; the caller asked for that
// gateway specifically.
func (r *GatewayRegistry) Resolve(tenantID uint, explicitID *uint) (*models.Gateway, error) {
	if explicitID != nil {
		g, err := r.gateways.GetByID(*explicitID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, NewServiceError(ErrCodeGatewayNotFound, err)
			}
			return nil, NewServiceError(ErrCodeOperationFailed, err)
		}
		if g.TenantID != tenantID || !g.IsActive {
			return nil, NewServiceError(ErrCodeGatewayNotFound, errNoGateway)
		}
		return g, nil
	}

	g, err := r.gateways.DefaultForTenant(tenantID)
	if err == nil {
		return g, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NewServiceError(ErrCodeOperationFailed, err)
	}

	g, err = r.gateways.FirstActiveForTenant(tenantID)
	if err == nil {
		return g, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NewServiceError(ErrCodeOperationFailed, err)
	}

	g, err = r.gateways.EnsureMock(tenantID)
	if err != nil {
		return nil, NewServiceError(ErrCodeNoGatewayConfigured, err)
	}
	r.log.Info("no gateway configured, using mock gateway",
		zap.Uint("tenant_id", tenantID),
		zap.Uint("gateway_id", g.ID))
	return g, nil
}
