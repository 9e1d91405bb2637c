package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/catalogkit/sku-roundtrip/pkg/db/models"
	dbtypes "github.com/catalogkit/sku-roundtrip/pkg/db/types"
	pkgerrors "github.com/catalogkit/sku-roundtrip/pkg/errors"
)

func TestSaveProduct_CascadesToItems(t *testing.T) {
	client := setupCatalogDB(t)
	repo := NewRepository(client.DB())
	ctx := context.Background()

	sku := mustSKU(t, "ABC")
	product := models.NewProduct("bundle")
	product.AddItem(models.NewProductItem(sku, decimal.RequireFromString("9.50")))

	require.NoError(t, repo.SaveProduct(ctx, product))

	products, err := repo.CountProducts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, products)

	items, err := repo.CountItems(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, items, "flush must cascade from product to its items")

	reloaded, err := repo.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 1)
	assert.Equal(t, sku, reloaded.Items[0].SKU)
	assert.True(t, reloaded.Items[0].UnitPrice.Equal(decimal.RequireFromString("9.50")),
		"unit price changed to %s", reloaded.Items[0].UnitPrice)
}

func TestSaveProduct_InMemorySKUSurvivesFlush(t *testing.T) {
	client := setupCatalogDB(t)
	repo := NewRepository(client.DB())
	ctx := context.Background()

	sku := mustSKU(t, "ABC")
	product := models.NewProduct("bundle")
	product.AddItem(models.NewProductItem(sku, decimal.RequireFromString("1.00")))

	require.NoError(t, repo.SaveProduct(ctx, product))

	// The original reference must still hold the value object, not a
	// raw string or a cleared field.
	assert.Zero(t, product.InvalidItemCount())
	assert.Equal(t, sku, product.Items[0].SKU)
	assert.Equal(t, "ABC", product.Items[0].SKU.String())
}

func TestSaveProduct_ZeroSKURejectedAtFlush(t *testing.T) {
	client := setupCatalogDB(t)
	repo := NewRepository(client.DB())
	ctx := context.Background()

	product := models.NewProduct("broken")
	product.AddItem(models.ProductItem{UnitPrice: decimal.Zero}) // bypasses the factory

	err := repo.SaveProduct(ctx, product)
	require.Error(t, err, "flushing a non-factory sku must be rejected")
	require.ErrorContains(t, err, "cannot persist zero-value sku")
}

func TestSaveProduct_DuplicateIsConflict(t *testing.T) {
	client := setupCatalogDB(t)
	repo := NewRepository(client.DB())
	ctx := context.Background()

	product := models.NewProduct("bundle")
	require.NoError(t, repo.SaveProduct(ctx, product))

	dup := models.NewProduct("bundle")
	dup.ID = product.ID
	err := repo.SaveProduct(ctx, dup)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict), "got %v", err)
}

func TestGetProduct_NotFound(t *testing.T) {
	client := setupCatalogDB(t)
	repo := NewRepository(client.DB())

	_, err := repo.GetProduct(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound), "got %v", err)
}

func TestSaveListing_RoundTripsSKUPrimaryKey(t *testing.T) {
	client := setupCatalogDB(t)
	repo := NewRepository(client.DB())
	ctx := context.Background()

	sku := mustSKU(t, "ABC")
	listing := models.NewListing(sku, "single")
	require.NoError(t, repo.SaveListing(ctx, listing))

	assert.Equal(t, sku, listing.SKU, "in-memory sku must survive the flush")

	reloaded, err := repo.GetListing(ctx, sku)
	require.NoError(t, err)
	assert.Equal(t, sku, reloaded.SKU)
	assert.Equal(t, "single", reloaded.Name)
}

func TestSaveListing_CharacterRuleSKURoundTrips(t *testing.T) {
	client := setupCatalogDB(t)
	repo := NewRepository(client.DB())
	ctx := context.Background()

	// Admitted by the character rule only; the read path must still
	// re-wrap it after a successful flush.
	sku, err := dbtypes.NewSKU("ZZB", dbtypes.RuleContainsAny)
	require.NoError(t, err)

	require.NoError(t, repo.SaveListing(ctx, models.NewListing(sku, "character-rule")))

	reloaded, err := repo.GetListing(ctx, sku)
	require.NoError(t, err)
	assert.Equal(t, sku, reloaded.SKU)
	assert.Equal(t, "character-rule", reloaded.Name)
}

func TestSaveListing_DuplicateIsConflict(t *testing.T) {
	client := setupCatalogDB(t)
	repo := NewRepository(client.DB())
	ctx := context.Background()

	sku := mustSKU(t, "ABC")
	require.NoError(t, repo.SaveListing(ctx, models.NewListing(sku, "first")))

	err := repo.SaveListing(ctx, models.NewListing(sku, "second"))
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict), "got %v", err)
}

func TestGetListing_NotFound(t *testing.T) {
	client := setupCatalogDB(t)
	repo := NewRepository(client.DB())

	_, err := repo.GetListing(context.Background(), mustSKU(t, "ABC-MISSING"))
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound), "got %v", err)
}

func TestWithTxBindsRepository(t *testing.T) {
	client := setupCatalogDB(t)
	repo := NewRepository(client.DB())
	ctx := context.Background()

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		return repo.WithTx(tx).SaveListing(ctx, models.NewListing(mustSKU(t, "ABC-TX"), "tx"))
	})
	require.NoError(t, err)

	count, err := repo.CountListings(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
