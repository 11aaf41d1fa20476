package rest

import (
	"context"
	"strconv"
	"time"

	"multiMart/business/product"
	"multiMart/domain"
	"multiMart/pkg/apperror"
	"multiMart/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type ProductService interface {
	FindAll(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, domain.Pagination, error)
	FindOne(ctx context.Context, id uuid.UUID) (domain.Product, error)
	FindByVendor(ctx context.Context, filter domain.VendorProductFilter) ([]domain.Product, domain.Pagination, error)
	Categories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, vendorID uuid.UUID, in product.CreateProductInput) (domain.Product, error)
	Update(ctx context.Context, id, vendorID uuid.UUID, changes domain.ProductChanges) (domain.Product, error)
	Delete(ctx context.Context, id, vendorID uuid.UUID) error
}

type ProductHandler struct {
	productService ProductService
	validator      *validator.Validate
	timeout        time.Duration
}

func NewProductHandler(productService ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		validator:      validator.New(),
		timeout:        defaultTimeout,
	}
}

type CreateProductRequest struct {
	Name          string                 `json:"name" validate:"required,max=255"`
	Description   string                 `json:"description"`
	Price         decimal.Decimal        `json:"price"`
	StockQuantity int                    `json:"stock_quantity" validate:"gte=0"`
	Category      string                 `json:"category" validate:"max=100"`
	Images        []string               `json:"images" validate:"omitempty,dive,url"`
	Variants      domain.ProductVariants `json:"variants"`
}

type UpdateProductRequest struct {
	Name          *string                 `json:"name" validate:"omitempty,max=255"`
	Description   *string                 `json:"description"`
	Price         *decimal.Decimal        `json:"price"`
	StockQuantity *int                    `json:"stock_quantity" validate:"omitempty,gte=0"`
	Category      *string                 `json:"category" validate:"omitempty,max=100"`
	Images        *[]string               `json:"images"`
	Variants      *domain.ProductVariants `json:"variants"`
	IsActive      *bool                   `json:"is_active"`
}

func (h *ProductHandler) GetAllProducts(c echo.Context) error {
	filter, err := parseProductFilter(c)
	if err != nil {
		return response.Error(c, err)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	products, page, err := h.productService.FindAll(ctx, filter)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, "Products retrieved successfully", products, page)
}

func (h *ProductHandler) GetCategories(c echo.Context) error {
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	categories, err := h.productService.Categories(ctx)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, "Categories retrieved successfully", categories)
}

func (h *ProductHandler) GetProductByID(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	p, err := h.productService.FindOne(ctx, id)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, "Product retrieved successfully", p)
}

func (h *ProductHandler) GetMyProducts(c echo.Context) error {
	vendorID, err := currentVendor(c)
	if err != nil {
		return response.Error(c, err)
	}

	filter, err := parseProductFilter(c)
	if err != nil {
		return response.Error(c, err)
	}

	vf := domain.VendorProductFilter{ProductFilter: filter, VendorID: vendorID}
	if raw := c.QueryParam("isActive"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return response.Error(c, apperror.BadRequest("invalid isActive"))
		}
		vf.IsActive = &active
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	products, page, err := h.productService.FindByVendor(ctx, vf)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, "Vendor products retrieved successfully", products, page)
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	vendorID, err := currentVendor(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req CreateProductRequest
	if err := bindAndValidate(c, h.validator, &req); err != nil {
		return response.Error(c, err)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	p, err := h.productService.Create(ctx, vendorID, product.CreateProductInput{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		Category:      req.Category,
		Images:        req.Images,
		Variants:      req.Variants,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, "Product created successfully", p)
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	vendorID, err := currentVendor(c)
	if err != nil {
		return response.Error(c, err)
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	var req UpdateProductRequest
	if err := bindAndValidate(c, h.validator, &req); err != nil {
		return response.Error(c, err)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	p, err := h.productService.Update(ctx, id, vendorID, domain.ProductChanges{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		Category:      req.Category,
		Images:        req.Images,
		Variants:      req.Variants,
		IsActive:      req.IsActive,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, "Product updated successfully", p)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	vendorID, err := currentVendor(c)
	if err != nil {
		return response.Error(c, err)
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	if err := h.productService.Delete(ctx, id, vendorID); err != nil {
		return response.Error(c, err)
	}

	return okMessage(c, "Product deleted successfully")
}

// parseProductFilter reads page, limit, category, search (or query),
// minPrice, maxPrice, sortBy and sortOrder from the query string.
func parseProductFilter(c echo.Context) (domain.ProductFilter, error) {
	var f domain.ProductFilter
	var err error

	if f.Page, err = intQuery(c, "page"); err != nil {
		return f, err
	}
	if f.Limit, err = intQuery(c, "limit"); err != nil {
		return f, err
	}
	if f.MinPrice, err = floatQuery(c, "minPrice"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = floatQuery(c, "maxPrice"); err != nil {
		return f, err
	}

	f.Category = c.QueryParam("category")
	f.Search = c.QueryParam("search")
	if f.Search == "" {
		f.Search = c.QueryParam("query")
	}
	f.SortBy = c.QueryParam("sortBy")

	switch order := domain.SortOrder(c.QueryParam("sortOrder")); order {
	case "", domain.SortAsc, domain.SortDesc:
		f.SortOrder = order
	default:
		return f, apperror.BadRequest("sortOrder must be asc or desc")
	}

	return f, nil
}

func intQuery(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.BadRequest("invalid " + name)
	}
	return v, nil
}

func floatQuery(c echo.Context, name string) (*float64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperror.BadRequest("invalid " + name)
	}
	return &v, nil
}
