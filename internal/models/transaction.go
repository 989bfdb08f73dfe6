package models

import (
	"time"
)

// Transaction is the unit of payment intent. The primary key is generated
// before the provider call so it can travel to the provider as the
// idempotency/correlation reference. Amount never changes after creation
// and rows are never deleted; refunds and cancellations are status
// transitions.
type Transaction struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	TenantID    uint       `gorm:"not null;index" json:"tenant_id"`
	CustomerID  string     `gorm:"size:64;index" json:"customer_id,omitempty"`
	GatewayID   uint       `gorm:"not null;index" json:"gateway_id"`
	PlanID      *uint      `json:"plan_id,omitempty"`
	AmountCents int64      `gorm:"not null" json:"amount_cents"`
	Currency    string     `gorm:"size:3;default:'BRL'" json:"currency"`
	Method      string     `gorm:"size:20;not null" json:"method"`
	Status      string     `gorm:"size:20;not null;index" json:"status"`
	ExternalID  string     `gorm:"size:255;uniqueIndex" json:"external_id"`
	PixCode     string     `gorm:"type:text" json:"pix_code"`
	QRImageB64  string     `gorm:"type:mediumtext" json:"qr_image_b64,omitempty"`
	Metadata    string     `gorm:"type:text" json:"metadata,omitempty"` // JSON
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}
