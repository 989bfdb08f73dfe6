package models

import "time"

// Plan is a tenant-defined priced offering a checkout can reference instead
// of a raw amount.
type Plan struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TenantID   uint      `gorm:"not null;index" json:"tenant_id"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	PriceCents int64     `gorm:"not null" json:"price_cents"`
	Currency   string    `gorm:"size:3;default:'BRL'" json:"currency"`
	IsActive   bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Plan) TableName() string {
	return "plans"
}
