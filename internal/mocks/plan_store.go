package mocks

import (
	"pixgate/internal/models"

	"github.com/stretchr/testify/mock"
)

type PlanStore struct {
	mock.Mock
}

func (m *PlanStore) GetByID(tenantID, id uint) (*models.Plan, error) {
	args := m.Called(tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Plan), args.Error(1)
}
