package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feiralens/pkg/contracts/domain"
)

func TestService_ItemRollup(t *testing.T) {
	aug23 := time.Date(2025, 8, 23, 0, 0, 0, 0, time.UTC)
	aug30 := time.Date(2025, 8, 30, 0, 0, 0, 0, time.UTC)

	s := NewService(nil)
	s.SetSales([]domain.Sale{
		saleOn(aug23,
			item("chaveiro tartaruga", "Acessório", "Chaveiro", 2, 20, 40),
			item("kuripe madeira", "Kuripe", "", 1, 100, 100),
		),
		saleOn(aug30,
			item("chaveiro tartaruga", "Acessório", "Chaveiro", 1, 30, 30),
		),
	})

	rollup := s.ItemRollup()
	require.Len(t, rollup, 2)

	// Sorted by revenue descending.
	assert.Equal(t, "kuripe madeira", rollup[0].Name)
	assert.Equal(t, 100.0, rollup[0].Revenue)

	keyring := rollup[1]
	assert.Equal(t, "chaveiro tartaruga", keyring.Name)
	assert.Equal(t, 3.0, keyring.Quantity)
	assert.Equal(t, 70.0, keyring.Revenue)
	assert.Equal(t, 2, keyring.Frequency)
	// Unweighted mean of observed unit prices, not revenue/quantity.
	assert.InDelta(t, 25.0, keyring.AveragePrice, 1e-9)
	assert.InDelta(t, 70.0/170*100, keyring.Share, 1e-9)
}

func TestService_TopCategories(t *testing.T) {
	s := newFixtureService()

	categories := s.TopCategories(5)
	require.Len(t, categories, 3)

	// Caixa 200 > Acessório 180 > Kuripe 120.
	assert.Equal(t, "Caixa", categories[0].Name)
	assert.Equal(t, "Acessório", categories[1].Name)
	assert.Equal(t, "Kuripe", categories[2].Name)

	accessories := categories[1]
	assert.Equal(t, 180.0, accessories.Revenue)
	assert.Equal(t, 3, accessories.Items)
	require.Len(t, accessories.Subcategories, 3)
	assert.Equal(t, "Porta Toalha", accessories.Subcategories[0].Name)
	assert.InDelta(t, 90.0/500*100, accessories.Subcategories[0].Share, 1e-9)
}

func TestService_TopCategories_Truncation(t *testing.T) {
	s := newFixtureService()
	categories := s.TopCategories(2)
	require.Len(t, categories, 2)
	assert.Equal(t, "Caixa", categories[0].Name)
	assert.Equal(t, "Acessório", categories[1].Name)
}

func TestService_TopCategories_NoCategoryFallback(t *testing.T) {
	aug23 := time.Date(2025, 8, 23, 0, 0, 0, 0, time.UTC)
	s := NewService(nil)
	s.SetSales([]domain.Sale{
		saleOn(aug23, item("objeto misterioso", "", "", 1, 30, 30)),
	})

	categories := s.TopCategories(5)
	require.Len(t, categories, 1)
	assert.Equal(t, NoCategoryLabel, categories[0].Name)
	assert.Empty(t, categories[0].Subcategories)
}

func TestService_TopSubcategories(t *testing.T) {
	s := newFixtureService()

	subs := s.TopSubcategories(10)
	// Kuripe and Caixa items carry no category, so only the accessory pairs
	// qualify.
	require.Len(t, subs, 3)
	assert.Equal(t, "Porta Toalha", subs[0].Name)
	assert.Equal(t, "Acessório", subs[0].Category)
	assert.Equal(t, 90.0, subs[0].Revenue)
	assert.Equal(t, 1, subs[0].Frequency)

	// Shares are computed against the pair-level grand total.
	var total float64
	for _, sub := range subs {
		total += sub.Share
	}
	assert.InDelta(t, 100.0, total, 1e-9)
}

// When every item has a non-empty type, category shares sum to 100%.
func TestService_CategorySharesSumToHundred(t *testing.T) {
	s := newFixtureService()

	var total float64
	for _, category := range s.TopCategories(0) {
		total += category.Share
	}
	assert.InDelta(t, 100.0, total, 1e-9)
}

// Revenue conservation: the item rollup totals match the filtered sale
// totals.
func TestService_ItemRollupRevenueConservation(t *testing.T) {
	s := newFixtureService()

	var saleTotal float64
	for _, sale := range s.FilteredSales() {
		saleTotal += sale.TotalValue
	}
	var rollupTotal float64
	for _, entry := range s.ItemRollup() {
		rollupTotal += entry.Revenue
	}
	assert.InDelta(t, saleTotal, rollupTotal, 1e-9)
}

func TestService_RollupsRespectFilter(t *testing.T) {
	s := newFixtureService()
	s.SetFilter(domain.AnalysisFilter{Categories: []string{"Kuripe"}})

	rollup := s.ItemRollup()
	// The whole sale passes the filter, so both of its items roll up.
	require.Len(t, rollup, 2)
	assert.Equal(t, "kuripe madeira", rollup[0].Name)
}
