package catalog

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/catalogkit/sku-roundtrip/pkg/db/models"
	dbtypes "github.com/catalogkit/sku-roundtrip/pkg/db/types"
	"github.com/catalogkit/sku-roundtrip/pkg/logger"
)

// Marker code used by every scenario; it satisfies both validation rules.
const checkSKU = "ABC"

// Service runs the SKU round-trip checks against the configured backend.
type Service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService builds the check service.
func NewService(repo *Repository, logg *logger.Logger) *Service {
	return &Service{repo: repo, logg: logg}
}

// Report summarizes one round-trip run. A violation is any point where
// an entity's SKU field stopped holding a factory-built value with the
// original code.
type Report struct {
	GraphFlushed   bool
	GraphIntact    bool
	ListingFlushed bool
	ListingIntact  bool
	Violations     []string
}

// OK reports whether the round-trip property held everywhere.
func (r Report) OK() bool {
	return len(r.Violations) == 0
}

func (r *Report) violate(format string, args ...any) {
	r.Violations = append(r.Violations, fmt.Sprintf(format, args...))
}

// CheckRoundTrip persists the two entity shapes and verifies the SKU
// fields survive the flush and a reload in both of them.
func (s *Service) CheckRoundTrip(ctx context.Context) (Report, error) {
	var report Report

	if err := s.checkGraph(ctx, &report); err != nil {
		return report, err
	}
	if err := s.checkListing(ctx, &report); err != nil {
		return report, err
	}
	return report, nil
}

// checkGraph exercises the two-entity shape: an opaque-id product owning
// an item whose composite key includes the SKU.
func (s *Service) checkGraph(ctx context.Context, report *Report) error {
	ctx = s.logg.WithScenario(ctx, "product-graph")

	sku, err := dbtypes.NewSKU(checkSKU, dbtypes.RuleContains)
	if err != nil {
		return err
	}

	product := models.NewProduct("round-trip bundle")
	product.AddItem(models.NewProductItem(sku, decimal.RequireFromString("9.50")))

	if err := s.repo.SaveProduct(ctx, product); err != nil {
		report.violate("graph: flush rejected: %v", err)
		s.logg.Error(ctx, "flush rejected", err)
		return nil
	}
	report.GraphFlushed = true
	s.logg.Info(ctx, "product graph flushed")

	if product.InvalidItemCount() > 0 {
		report.violate("graph: in-memory item sku lost after flush")
	} else if got := product.Items[0].SKU; got != sku {
		report.violate("graph: in-memory item sku changed to %q", got)
	}

	reloaded, err := s.repo.GetProduct(ctx, product.ID)
	if err != nil {
		return err
	}
	switch {
	case len(reloaded.Items) != 1:
		report.violate("graph: expected 1 reloaded item, got %d", len(reloaded.Items))
	case reloaded.Items[0].SKU != sku:
		report.violate("graph: reloaded item sku is %q", reloaded.Items[0].SKU)
	}

	report.GraphIntact = report.GraphFlushed && len(report.Violations) == 0
	return nil
}

// checkListing exercises the single-entity shape where the SKU itself is
// the primary key.
func (s *Service) checkListing(ctx context.Context, report *Report) error {
	ctx = s.logg.WithScenario(ctx, "listing")

	sku, err := dbtypes.NewSKU(checkSKU, dbtypes.RuleContainsAny)
	if err != nil {
		return err
	}

	listing := models.NewListing(sku, "round-trip listing")
	if err := s.repo.SaveListing(ctx, listing); err != nil {
		report.violate("listing: flush rejected: %v", err)
		s.logg.Error(ctx, "flush rejected", err)
		return nil
	}
	report.ListingFlushed = true
	s.logg.Info(ctx, "listing flushed")

	violationsBefore := len(report.Violations)
	if listing.SKU != sku {
		report.violate("listing: in-memory sku changed to %q", listing.SKU)
	}

	reloaded, err := s.repo.GetListing(ctx, sku)
	if err != nil {
		return err
	}
	if reloaded.SKU != sku {
		report.violate("listing: reloaded sku is %q", reloaded.SKU)
	}

	report.ListingIntact = report.ListingFlushed && len(report.Violations) == violationsBefore
	return nil
}
