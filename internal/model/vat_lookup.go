package model

import (
	"time"

	"github.com/google/uuid"
)

// VATLookupCache stores a raw provider response keyed by VAT number so a
// repeated lookup within the TTL never touches the remote SOAP service.
// Expired rows are overwritten in place on the next live lookup.
type VATLookupCache struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CacheKey  string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"cache_key"`
	Provider  string    `gorm:"type:varchar(10);not null" json:"provider"` // aade, vies
	Body      string    `gorm:"type:text;not null" json:"body"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (VATLookupCache) TableName() string {
	return "vat_lookup_cache"
}
