package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Gateway is a tenant's configured credential set for one payment provider.
// At most one gateway per tenant carries IsDefault; the repository enforces
// it on create/update.
//
// The lazily provisioned mock gateway is flagged with IsMock and hidden from
// listings. MockKey is "mock-<tenant>" for mock rows and NULL otherwise, so
// the unique index turns the concurrent provision race into a duplicate-key
// error the repository tolerates.
type Gateway struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TenantID    uint      `gorm:"not null;index" json:"tenant_id"`
	Provider    string    `gorm:"size:50;not null" json:"provider"`
	Name        string    `gorm:"size:100" json:"name"`
	Credentials string    `gorm:"type:text" json:"-"` // JSON map, opaque to everything but the adapter
	IsDefault   bool      `gorm:"not null;default:false" json:"is_default"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	IsMock      bool      `gorm:"not null;default:false" json:"-"`
	MockKey     *string   `gorm:"size:32;uniqueIndex" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Gateway) TableName() string {
	return "gateways"
}

// MockKeyFor builds the unique provisioning key for a tenant's mock gateway.
func MockKeyFor(tenantID uint) string {
	return fmt.Sprintf("mock-%d", tenantID)
}

// CredentialMap decodes the stored credential JSON. A broken or empty blob
// yields an empty map rather than an error; adapters fail with their own
// vocabulary when a required key is missing.
func (g *Gateway) CredentialMap() map[string]string {
	creds := map[string]string{}
	if g.Credentials != "" {
		_ = json.Unmarshal([]byte(g.Credentials), &creds)
	}
	return creds
}
