package postgres

import (
	"context"
	"testing"

	"multiMart/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductRepository_FindAllFiltersAndCounts(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()
	vendor := seedVendor(t, db, "acme")

	for i, name := range []string{"Red Shirt", "Blue Shirt", "Green Hat", "Shirt Deluxe"} {
		seedProduct(t, db, vendor.ID, name, int64(100*(i+1)), 5)
	}
	hidden := seedProduct(t, db, vendor.ID, "Hidden Shirt", 50, 5)
	require.NoError(t, repo.SoftDelete(ctx, hidden.ID, vendor.ID))

	filter := domain.ProductFilter{Search: "SHIRT", Limit: 2, SortBy: "price", SortOrder: domain.SortAsc}
	filter.Normalize()

	products, total, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, products, 2)
	assert.Equal(t, "Red Shirt", products[0].Name)
	assert.Equal(t, "Blue Shirt", products[1].Name)

	filter.Page = 2
	products, total, err = repo.FindAll(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, products, 1)
	assert.Equal(t, "Shirt Deluxe", products[0].Name)
}

func TestProductRepository_SearchMatchesWildcardsLiterally(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	vendor := seedVendor(t, db, "acme")
	seedProduct(t, db, vendor.ID, "100% Cotton Tee", 10, 1)
	seedProduct(t, db, vendor.ID, "100 Cotton Tee", 10, 1)
	seedProduct(t, db, vendor.ID, "snake_case mug", 10, 1)
	seedProduct(t, db, vendor.ID, "snakeXcase mug", 10, 1)
	seedProduct(t, db, vendor.ID, `back\slash`, 10, 1)

	cases := map[string][]string{
		"100%":       {"100% Cotton Tee"},
		"snake_case": {"snake_case mug"},
		"%":          {"100% Cotton Tee"},
		`\`:          {`back\slash`},
	}
	for search, want := range cases {
		filter := domain.ProductFilter{Search: search}
		filter.Normalize()

		products, total, err := repo.FindAll(context.Background(), filter)
		require.NoError(t, err, search)
		assert.Equal(t, int64(len(want)), total, search)
		names := make([]string, 0, len(products))
		for _, p := range products {
			names = append(names, p.Name)
		}
		assert.ElementsMatch(t, want, names, search)
	}
}

func TestProductRepository_FindAllPriceRangeAndUnknownSort(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	vendor := seedVendor(t, db, "acme")
	seedProduct(t, db, vendor.ID, "cheap", 10, 1)
	seedProduct(t, db, vendor.ID, "mid", 50, 1)
	seedProduct(t, db, vendor.ID, "pricey", 90, 1)

	minPrice, maxPrice := 20.0, 60.0
	filter := domain.ProductFilter{MinPrice: &minPrice, MaxPrice: &maxPrice, SortBy: "password"}
	filter.Normalize()

	products, total, err := repo.FindAll(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, products, 1)
	assert.Equal(t, "mid", products[0].Name)
}

func TestProductRepository_FindByIDIncludesVendorAndInactive(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()
	vendor := seedVendor(t, db, "acme")
	p := seedProduct(t, db, vendor.ID, "lamp", 10, 1)
	require.NoError(t, repo.SoftDelete(ctx, p.ID, vendor.ID))

	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	require.NotNil(t, got.Vendor)
	assert.Equal(t, "acme", got.Vendor.BusinessName)

	_, err = repo.FindActiveByID(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestProductRepository_UpdateAndDeleteRequireOwner(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()
	owner := seedVendor(t, db, "owner")
	other := seedVendor(t, db, "other")
	p := seedProduct(t, db, owner.ID, "lamp", 10, 1)

	name := "desk lamp"
	price := decimal.NewFromInt(25)
	_, err := repo.Update(ctx, p.ID, other.ID, domain.ProductChanges{Name: &name})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.ErrorIs(t, repo.SoftDelete(ctx, p.ID, other.ID), domain.ErrProductNotFound)

	updated, err := repo.Update(ctx, p.ID, owner.ID, domain.ProductChanges{Name: &name, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "desk lamp", updated.Name)
	assert.True(t, updated.Price.Equal(price))
}

func TestProductRepository_FindByVendorActiveFilter(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()
	vendor := seedVendor(t, db, "acme")
	other := seedVendor(t, db, "other")
	seedProduct(t, db, vendor.ID, "a", 1, 1)
	b := seedProduct(t, db, vendor.ID, "b", 1, 1)
	seedProduct(t, db, other.ID, "c", 1, 1)
	require.NoError(t, repo.SoftDelete(ctx, b.ID, vendor.ID))

	filter := domain.VendorProductFilter{VendorID: vendor.ID}
	filter.Normalize()
	_, total, err := repo.FindByVendor(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	inactive := false
	filter.IsActive = &inactive
	products, total, err := repo.FindByVendor(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "b", products[0].Name)
}

func TestProductRepository_DecrementStockGuard(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()
	vendor := seedVendor(t, db, "acme")
	p := seedProduct(t, db, vendor.ID, "lamp", 10, 3)

	ok, err := repo.DecrementStock(ctx, p.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DecrementStock(ctx, p.ID, 2)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, stockOf(t, db, p.ID))

	require.NoError(t, repo.IncrementStock(ctx, p.ID, 4))
	assert.Equal(t, 5, stockOf(t, db, p.ID))
}

func TestProductRepository_Categories(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	vendor := seedVendor(t, db, "acme")
	a := seedProduct(t, db, vendor.ID, "a", 1, 1)
	seedProduct(t, db, vendor.ID, "b", 1, 1)
	require.NoError(t, db.Model(&domain.Product{}).Where("id = ?", a.ID).Update("category", "toys").Error)

	categories, err := repo.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"general", "toys"}, categories)
}
