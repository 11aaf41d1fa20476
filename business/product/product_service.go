package product

import (
	"context"
	"fmt"
	"strings"

	"multiMart/domain"
	"multiMart/pkg/apperror"
	"multiMart/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ProductRepository contract interface
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (domain.Product, error)
	FindAll(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int64, error)
	FindByVendor(ctx context.Context, filter domain.VendorProductFilter) ([]domain.Product, int64, error)
	Categories(ctx context.Context) ([]string, error)
	Update(ctx context.Context, id, vendorID uuid.UUID, changes domain.ProductChanges) (domain.Product, error)
	SoftDelete(ctx context.Context, id, vendorID uuid.UUID) error
}

type ProductService struct {
	productRepo ProductRepository
}

func NewProductService(productRepo ProductRepository) *ProductService {
	return &ProductService{
		productRepo: productRepo,
	}
}

// CreateProductInput carries a new listing for the authenticated vendor.
type CreateProductInput struct {
	Name          string
	Description   string
	Price         decimal.Decimal
	StockQuantity int
	Category      string
	Images        []string
	Variants      domain.ProductVariants
}

func (s *ProductService) FindAll(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, domain.Pagination, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Pagination{}, fmt.Errorf("context error: %w", err)
	}

	filter.Normalize()
	if err := validatePriceRange(filter); err != nil {
		return nil, domain.Pagination{}, err
	}

	products, total, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		logger.Error("Failed to find all product", "error", err)
		return nil, domain.Pagination{}, err
	}

	return products, domain.NewPagination(filter.Page, filter.Limit, total), nil
}

func (s *ProductService) FindOne(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if !apperror.IsNotFound(err) {
			logger.Error("Failed to find product by id", "error", err)
		}
		return domain.Product{}, err
	}

	return product, nil
}

func (s *ProductService) FindByVendor(ctx context.Context, filter domain.VendorProductFilter) ([]domain.Product, domain.Pagination, error) {
	filter.Normalize()
	if err := validatePriceRange(filter.ProductFilter); err != nil {
		return nil, domain.Pagination{}, err
	}

	products, total, err := s.productRepo.FindByVendor(ctx, filter)
	if err != nil {
		logger.Error("Failed to find vendor products", "error", err, "vendor_id", filter.VendorID.String())
		return nil, domain.Pagination{}, err
	}

	return products, domain.NewPagination(filter.Page, filter.Limit, total), nil
}

func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.productRepo.Categories(ctx)
	if err != nil {
		logger.Error("Failed to list categories", "error", err)
		return nil, err
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

func (s *ProductService) Create(ctx context.Context, vendorID uuid.UUID, in CreateProductInput) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("context error: %w", err)
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Product{}, apperror.Validation("product name is required")
	}
	if in.Price.IsNegative() {
		return domain.Product{}, apperror.Validation("price cannot be negative")
	}
	if in.StockQuantity < 0 {
		return domain.Product{}, apperror.Validation("stock quantity cannot be negative")
	}

	images := in.Images
	if images == nil {
		images = []string{}
	}
	variants := in.Variants
	if variants == nil {
		variants = domain.ProductVariants{}
	}

	product := domain.Product{
		VendorID:      vendorID,
		Name:          name,
		Description:   in.Description,
		Price:         in.Price,
		StockQuantity: in.StockQuantity,
		Category:      strings.TrimSpace(in.Category),
		Images:        datatypes.JSONSlice[string](images),
		Variants:      datatypes.NewJSONType(variants),
		IsActive:      true,
	}

	if err := s.productRepo.Create(ctx, &product); err != nil {
		logger.Error("Failed to create new product", "error", err)
		return domain.Product{}, err
	}

	logger.Info("Product created", "product_id", product.ID.String(), "vendor_id", vendorID.String())

	return product, nil
}

// Update changes a product the vendor owns. A product of another vendor is
// reported as not found.
func (s *ProductService) Update(ctx context.Context, id, vendorID uuid.UUID, changes domain.ProductChanges) (domain.Product, error) {
	if changes.Empty() {
		return domain.Product{}, apperror.Validation("no fields to update")
	}
	if changes.Name != nil && strings.TrimSpace(*changes.Name) == "" {
		return domain.Product{}, apperror.Validation("product name cannot be empty")
	}
	if changes.Price != nil && changes.Price.IsNegative() {
		return domain.Product{}, apperror.Validation("price cannot be negative")
	}
	if changes.StockQuantity != nil && *changes.StockQuantity < 0 {
		return domain.Product{}, apperror.Validation("stock quantity cannot be negative")
	}

	product, err := s.productRepo.Update(ctx, id, vendorID, changes)
	if err != nil {
		if !apperror.IsNotFound(err) {
			logger.Error("Failed to update product", "error", err)
		}
		return domain.Product{}, err
	}

	logger.Info("Product updated", "product_id", id.String())

	return product, nil
}

// Delete deactivates the product; past order items keep referencing it.
func (s *ProductService) Delete(ctx context.Context, id, vendorID uuid.UUID) error {
	if err := s.productRepo.SoftDelete(ctx, id, vendorID); err != nil {
		if !apperror.IsNotFound(err) {
			logger.Error("Failed to delete product", "error", err)
		}
		return err
	}

	logger.Info("Product deactivated", "product_id", id.String())

	return nil
}

func validatePriceRange(filter domain.ProductFilter) error {
	if filter.MinPrice != nil && *filter.MinPrice < 0 {
		return apperror.Validation("minPrice cannot be negative")
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return apperror.Validation("minPrice cannot exceed maxPrice")
	}
	return nil
}
