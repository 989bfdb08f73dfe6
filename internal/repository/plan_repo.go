package repository

import (
	"pixgate/internal/models"

	"gorm.io/gorm"
)

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) Create(p *models.Plan) error {
	return r.db.Create(p).Error
}

func (r *PlanRepository) GetByID(tenantID, id uint) (*models.Plan, error) {
	var p models.Plan
	err := r.db.Where("tenant_id = ? AND id = ?", tenantID, id).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PlanRepository) ListByTenant(tenantID uint) ([]models.Plan, error) {
	var plans []models.Plan
	err := r.db.Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Order("id asc").Find(&plans).Error
	return plans, err
}
