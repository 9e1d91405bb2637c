package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/catalogkit/sku-roundtrip/pkg/db"
	"github.com/catalogkit/sku-roundtrip/pkg/db/models"
	dbtypes "github.com/catalogkit/sku-roundtrip/pkg/db/types"
	pkgerrors "github.com/catalogkit/sku-roundtrip/pkg/errors"
)

// Repository wires catalog persistence to the shared GORM connection.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// SaveProduct flushes the product and, through the association cascade,
// its owned items.
func (r *Repository) SaveProduct(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, fmt.Sprintf("product %s already exists", product.ID))
		}
		return err
	}
	return nil
}

// GetProduct loads the product with its owned items.
func (r *Repository) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&product, "id = ?", id).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, fmt.Sprintf("product %s not found", id))
		}
		return nil, err
	}
	return &product, nil
}

// SaveListing flushes the SKU-keyed listing.
func (r *Repository) SaveListing(ctx context.Context, listing *models.Listing) error {
	if err := r.db.WithContext(ctx).Create(listing).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, fmt.Sprintf("listing %s already exists", listing.SKU))
		}
		return err
	}
	return nil
}

// GetListing loads a listing by its SKU primary key.
func (r *Repository) GetListing(ctx context.Context, sku dbtypes.SKU) (*models.Listing, error) {
	var listing models.Listing
	err := r.db.WithContext(ctx).First(&listing, "sku = ?", sku).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, fmt.Sprintf("listing %s not found", sku))
		}
		return nil, err
	}
	return &listing, nil
}

// CountProducts returns the number of stored products.
func (r *Repository) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error
	return count, err
}

// CountItems returns the number of stored product items.
func (r *Repository) CountItems(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProductItem{}).Count(&count).Error
	return count, err
}

// CountListings returns the number of stored listings.
func (r *Repository) CountListings(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Listing{}).Count(&count).Error
	return count, err
}
