package models

import (
	"time"

	dbtypes "github.com/catalogkit/sku-roundtrip/pkg/db/types"
)

// Listing is the single-entity shape: the SKU value object IS the
// primary key, with no surrogate id in front of it.
type Listing struct {
	SKU       dbtypes.SKU `gorm:"column:sku;type:varchar(255);primaryKey"`
	Name      string      `gorm:"column:name;not null"`
	CreatedAt time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

// NewListing builds a listing keyed by the given SKU.
func NewListing(sku dbtypes.SKU, name string) *Listing {
	return &Listing{SKU: sku, Name: name}
}
