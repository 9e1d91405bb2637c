package catalog

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/catalogkit/sku-roundtrip/pkg/config"
	"github.com/catalogkit/sku-roundtrip/pkg/db"
	"github.com/catalogkit/sku-roundtrip/pkg/db/models"
	dbtypes "github.com/catalogkit/sku-roundtrip/pkg/db/types"
	"github.com/catalogkit/sku-roundtrip/pkg/logger"
)

// setupCatalogDB opens a client for the configured backend (sqlite unless
// USE_POSTGRES=1) and reconstructs the schema so every test starts from a
// known-empty store.
func setupCatalogDB(t *testing.T) *db.Client {
	t.Helper()

	cfg, err := config.Load()
	require.NoError(t, err)

	logg := testLogger()

	client, err := db.New(context.Background(), cfg.DB, logg)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = client.Close()
	})

	resetSchema(t, client)
	return client
}

func resetSchema(t *testing.T, client *db.Client) {
	t.Helper()
	err := client.Reset(context.Background(), &models.Product{}, &models.ProductItem{}, &models.Listing{})
	require.NoError(t, err)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "catalog-test", Output: io.Discard})
}

func mustSKU(t *testing.T, raw string) dbtypes.SKU {
	t.Helper()
	sku, err := dbtypes.NewSKU(raw, dbtypes.RuleContains)
	require.NoError(t, err)
	return sku
}
