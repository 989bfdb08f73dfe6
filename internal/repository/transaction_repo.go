package repository

import (
	"time"

	"pixgate/internal/models"

	"gorm.io/gorm"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(t *models.Transaction) error {
	return r.db.Create(t).Error
}

func (r *TransactionRepository) GetByID(id string) (*models.Transaction, error) {
	var t models.Transaction
	err := r.db.Where("id = ?", id).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetByExternalID resolves the single live transaction a provider's external
// id points at. The unique index on external_id guarantees at most one row.
func (r *TransactionRepository) GetByExternalID(externalID string) (*models.Transaction, error) {
	var t models.Transaction
	err := r.db.Where("external_id = ?", externalID).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateStatusIf moves a transaction from one status to another only if it
// is still in the expected status, so concurrent webhook/poll writers cannot
// overwrite each other. Returns false when another writer got there first.
func (r *TransactionRepository) UpdateStatusIf(id, from, to string, paidAt *time.Time) (bool, error) {
	updates := map[string]any{
		"status":     to,
		"updated_at": time.Now(),
	}
	if paidAt != nil {
		updates["paid_at"] = *paidAt
	}
	res := r.db.Model(&models.Transaction{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
