package models

import (
	"time"

	"github.com/google/uuid"
)

// Product owns a collection of purchasable items. Its identity is an
// opaque id; the items carry the SKU-typed part of their key.
type Product struct {
	ID        uuid.UUID     `gorm:"column:id;type:uuid;primaryKey"`
	Name      string        `gorm:"column:name;not null"`
	Items     []ProductItem `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}

// NewProduct builds a product with a fresh identity.
func NewProduct(name string) *Product {
	return &Product{ID: uuid.New(), Name: name}
}

// AddItem appends the item to the owned collection and back-links it.
func (p *Product) AddItem(item ProductItem) {
	item.ProductID = p.ID
	p.Items = append(p.Items, item)
}

// InvalidItemCount counts items whose SKU field no longer holds a
// factory-built value. Non-zero means the round-trip contract was broken
// somewhere between flush and rehydration.
func (p *Product) InvalidItemCount() int {
	count := 0
	for _, item := range p.Items {
		if item.SKU.IsZero() {
			count++
		}
	}
	return count
}
