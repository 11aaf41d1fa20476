package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"multiMart/domain"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// productSortColumns whitelists sortBy values against real columns.
var productSortColumns = map[string]string{
	"price":          "price",
	"name":           "name",
	"createdAt":      "created_at",
	"created_at":     "created_at",
	"stockQuantity":  "stock_quantity",
	"stock_quantity": "stock_quantity",
}

// likeEscaper makes LIKE wildcards in a search term match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

type ProductRepository struct {
	DB *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{
		DB: db,
	}
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := conn(ctx, r.DB).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// FindByID returns the product whether active or not, with its vendor summary.
func (r *ProductRepository) FindByID(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("context error: %w", err)
	}

	var product domain.Product

	err := conn(ctx, r.DB).
		Preload("Owner", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "business_name", "description")
		}).
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("failed to find product: %w", err)
	}

	if product.Owner != nil {
		product.Vendor = product.Owner.Summary()
	}

	return product, nil
}

// FindActiveByID is the lookup used when ordering; inactive products are not found.
func (r *ProductRepository) FindActiveByID(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	var product domain.Product

	err := conn(ctx, r.DB).Where("id = ? AND is_active = ?", id, true).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("failed to find product: %w", err)
	}

	return product, nil
}

func (r *ProductRepository) FindAll(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, fmt.Errorf("context error: %w", err)
	}

	q := applyProductFilter(conn(ctx, r.DB).Model(&domain.Product{}), filter).
		Where("is_active = ?", true)

	return r.page(q, filter)
}

func (r *ProductRepository) FindByVendor(ctx context.Context, filter domain.VendorProductFilter) ([]domain.Product, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, fmt.Errorf("context error: %w", err)
	}

	q := applyProductFilter(conn(ctx, r.DB).Model(&domain.Product{}), filter.ProductFilter).
		Where("vendor_id = ?", filter.VendorID)
	if filter.IsActive != nil {
		q = q.Where("is_active = ?", *filter.IsActive)
	}

	return r.page(q, filter.ProductFilter)
}

func (r *ProductRepository) page(q *gorm.DB, filter domain.ProductFilter) ([]domain.Product, int64, error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	column, ok := productSortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}

	products := make([]domain.Product, 0, filter.Limit)
	err := q.
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: filter.SortOrder != domain.SortAsc}).
		Order("id").
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find products: %w", err)
	}

	return products, total, nil
}

func applyProductFilter(q *gorm.DB, filter domain.ProductFilter) *gorm.DB {
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(strings.ToLower(search))+"%")
	}
	if filter.MinPrice != nil {
		q = q.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("price <= ?", *filter.MaxPrice)
	}
	return q
}

func (r *ProductRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string

	err := conn(ctx, r.DB).Model(&domain.Product{}).
		Where("is_active = ? AND category <> ''", true).
		Distinct().
		Order("category").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return categories, nil
}

// Update applies changes to a product owned by vendorID. Ownership is part
// of the predicate, so a foreign product looks the same as a missing one.
func (r *ProductRepository) Update(ctx context.Context, id, vendorID uuid.UUID, changes domain.ProductChanges) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("context error: %w", err)
	}

	updateData := map[string]any{"updated_at": time.Now()}
	if changes.Name != nil {
		updateData["name"] = *changes.Name
	}
	if changes.Description != nil {
		updateData["description"] = *changes.Description
	}
	if changes.Price != nil {
		updateData["price"] = *changes.Price
	}
	if changes.StockQuantity != nil {
		updateData["stock_quantity"] = *changes.StockQuantity
	}
	if changes.Category != nil {
		updateData["category"] = *changes.Category
	}
	if changes.Images != nil {
		updateData["images"] = datatypes.JSONSlice[string](*changes.Images)
	}
	if changes.Variants != nil {
		updateData["variants"] = datatypes.NewJSONType(*changes.Variants)
	}
	if changes.IsActive != nil {
		updateData["is_active"] = *changes.IsActive
	}

	result := conn(ctx, r.DB).Model(&domain.Product{}).
		Where("id = ? AND vendor_id = ?", id, vendorID).
		Updates(updateData)
	if result.Error != nil {
		return domain.Product{}, fmt.Errorf("failed to update product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.Product{}, domain.ErrProductNotFound
	}

	return r.FindByID(ctx, id)
}

// SoftDelete flips is_active off; the row stays for historical order items.
func (r *ProductRepository) SoftDelete(ctx context.Context, id, vendorID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := conn(ctx, r.DB).Model(&domain.Product{}).
		Where("id = ? AND vendor_id = ?", id, vendorID).
		Updates(map[string]any{"is_active": false, "updated_at": time.Now()})
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

// DecrementStock takes qty units if the product is active and has them.
// It reports false when the guard rejected the update.
func (r *ProductRepository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	result := conn(ctx, r.DB).Model(&domain.Product{}).
		Where("id = ? AND is_active = ? AND stock_quantity >= ?", id, true, qty).
		Updates(map[string]any{
			"stock_quantity": gorm.Expr("stock_quantity - ?", qty),
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to decrement stock: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}

func (r *ProductRepository) IncrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	result := conn(ctx, r.DB).Model(&domain.Product{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"stock_quantity": gorm.Expr("stock_quantity + ?", qty),
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to restore stock: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

func (r *ProductRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := conn(ctx, r.DB).Model(&domain.Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check product: %w", err)
	}
	return count > 0, nil
}
