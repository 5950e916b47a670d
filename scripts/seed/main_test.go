package main

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meridian-shop/meridian/internal/catalog"
)

func TestSeedCatalogRowsPassDomainRules(t *testing.T) {
	for _, p := range seedCatalog {
		require.Truef(t, slices.Contains(catalog.Categories, p.Category),
			"%s: category %q is not an accepted category", p.Name, p.Category)
		require.Truef(t, p.Status.Valid(), "%s: status %q", p.Name, p.Status)

		// The hand-written status must survive derivation, so a zero-stock row
		// has to be declared Out of Stock up front.
		derived := p
		derived.ApplyDerived()
		require.Equalf(t, p.Status, derived.Status, "%s: stale status", p.Name)
	}
}

func TestSeedDiscountsRoundLikeTheCatalog(t *testing.T) {
	byName := make(map[string]catalog.Product, len(seedCatalog))
	for _, p := range seedCatalog {
		p.ApplyDerived()
		byName[p.Name] = p
	}

	// 120 → 89 is 25.83%, which rounds up; truncation would give 25.
	require.Equal(t, 26, byName["Leather Tote Bag"].Discount)
	require.Equal(t, 20, byName["Ceramic Travel Mug"].Discount)
	require.Equal(t, 0, byName["Canvas Backpack"].Discount)
	require.Equal(t, 0, byName["Desk Lamp"].Discount)
}
