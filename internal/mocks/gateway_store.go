package mocks

import (
	"pixgate/internal/models"

	"github.com/stretchr/testify/mock"
)

type GatewayStore struct {
	mock.Mock
}

func (m *GatewayStore) GetByID(id uint) (*models.Gateway, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Gateway), args.Error(1)
}

func (m *GatewayStore) DefaultForTenant(tenantID uint) (*models.Gateway, error) {
	args := m.Called(tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Gateway), args.Error(1)
}

func (m *GatewayStore) FirstActiveForTenant(tenantID uint) (*models.Gateway, error) {
	args := m.Called(tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Gateway), args.Error(1)
}

func (m *GatewayStore) EnsureMock(tenantID uint) (*models.Gateway, error) {
	args := m.Called(tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Gateway), args.Error(1)
}
