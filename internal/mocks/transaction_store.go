package mocks

import (
	"time"

	"pixgate/internal/models"

	"github.com/stretchr/testify/mock"
)

type TransactionStore struct {
	mock.Mock
}

func (m *TransactionStore) Create(t *models.Transaction) error {
	args := m.Called(t)
	return args.Error(0)
}

func (m *TransactionStore) GetByID(id string) (*models.Transaction, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *TransactionStore) GetByExternalID(externalID string) (*models.Transaction, error) {
	args := m.Called(externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *TransactionStore) UpdateStatusIf(id, from, to string, paidAt *time.Time) (bool, error) {
	args := m.Called(id, from, to, paidAt)
	return args.Bool(0), args.Error(1)
}
