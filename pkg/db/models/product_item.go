package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dbtypes "github.com/catalogkit/sku-roundtrip/pkg/db/types"
)

// ProductItem is one purchasable variant of a product. Its identity is
// composite: the SKU value object plus the owning product.
type ProductItem struct {
	SKU       dbtypes.SKU     `gorm:"column:sku;type:varchar(255);primaryKey"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;primaryKey"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
	Product   *Product        `gorm:"foreignKey:ProductID"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// NewProductItem builds an item; the owning product is bound when the
// item is added to one.
func NewProductItem(sku dbtypes.SKU, unitPrice decimal.Decimal) ProductItem {
	return ProductItem{SKU: sku, UnitPrice: unitPrice}
}
