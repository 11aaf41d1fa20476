package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"multiMart/business/storage"
	"multiMart/business/user"
	"multiMart/domain"
	"multiMart/internal/middleware"
	"multiMart/pkg/apperror"
	"multiMart/pkg/response"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status     string             `json:"status"`
	StatusCode int                `json:"statusCode"`
	Message    string             `json:"message"`
	Data       json.RawMessage    `json:"data"`
	Pagination *domain.Pagination `json:"pagination"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func withIdentity(userID, vendorID uuid.UUID) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if userID != uuid.Nil {
				c.Set(middleware.ContextUserID, userID)
			}
			if vendorID != uuid.Nil {
				c.Set(middleware.ContextVendorID, vendorID)
			}
			return next(c)
		}
	}
}

type mockOrdersService struct {
	mock.Mock
}

func (m *mockOrdersService) CreateOrder(ctx context.Context, in domain.CreateOrderInput) (domain.PlacedOrder, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(domain.PlacedOrder), args.Error(1)
}

func (m *mockOrdersService) FindAll(ctx context.Context, userID uuid.UUID) ([]domain.Order, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *mockOrdersService) FindOne(ctx context.Context, id, userID uuid.UUID) (domain.Order, error) {
	args := m.Called(ctx, id, userID)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *mockOrdersService) FindVendorOrders(ctx context.Context, vendorID uuid.UUID) ([]domain.Order, error) {
	args := m.Called(ctx, vendorID)
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *mockOrdersService) UpdateStatus(ctx context.Context, orderID, vendorID uuid.UUID, status domain.OrderStatus) (domain.Order, error) {
	args := m.Called(ctx, orderID, vendorID, status)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *mockOrdersService) CancelOwnOrder(ctx context.Context, orderID, userID uuid.UUID) (domain.Order, error) {
	args := m.Called(ctx, orderID, userID)
	return args.Get(0).(domain.Order), args.Error(1)
}

func TestCreateOrder_PassesIdempotencyKeyAndReturns201(t *testing.T) {
	svc := &mockOrdersService{}
	h := NewOrdersHandler(svc)
	userID, productID := uuid.New(), uuid.New()

	svc.On("CreateOrder", mock.Anything, mock.MatchedBy(func(in domain.CreateOrderInput) bool {
		return in.UserID == userID && in.IdempotencyKey == "abc-123" &&
			len(in.Items) == 1 && in.Items[0].ProductID == productID && in.Items[0].Quantity == 3 &&
			in.ShippingAddress.City == "Almaty"
	})).Return(domain.PlacedOrder{
		Order: domain.Order{Status: domain.OrderStatusPending, TotalAmount: decimal.NewFromInt(3000)},
		Items: []domain.OrderItem{{ProductID: productID, Quantity: 3}},
	}, nil)

	e := echo.New()
	e.POST("/orders", h.CreateOrder, withIdentity(userID, uuid.Nil))

	body := `{"items":[{"product_id":"` + productID.String() + `","quantity":3}],
		"shipping_address":{"street":"1 Main","city":"Almaty","state":"AL","postal_code":"050000","country":"KZ"}}`
	req := jsonRequest(http.MethodPost, "/orders", body)
	req.Header.Set(HeaderIdempotencyKey, "abc-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	env := decodeEnvelope(t, rec)
	assert.Equal(t, response.StatusSuccess, env.Status)
	assert.Equal(t, http.StatusCreated, env.StatusCode)

	var data struct {
		Order map[string]any   `json:"order"`
		Items []map[string]any `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "pending", data.Order["status"])
	assert.Len(t, data.Items, 1)
}

func TestCreateOrder_BodyValidation(t *testing.T) {
	h := NewOrdersHandler(&mockOrdersService{})
	e := echo.New()
	e.POST("/orders", h.CreateOrder, withIdentity(uuid.New(), uuid.Nil))

	cases := map[string]string{
		"no items":   `{"items":[],"shipping_address":{"street":"a","city":"b","state":"c","postal_code":"d","country":"e"}}`,
		"zero qty":   `{"items":[{"product_id":"` + uuid.NewString() + `","quantity":0}],"shipping_address":{"street":"a","city":"b","state":"c","postal_code":"d","country":"e"}}`,
		"no address": `{"items":[{"product_id":"` + uuid.NewString() + `","quantity":1}]}`,
		"malformed":  `{"items":`,
		"bad uuid":   `{"items":[{"product_id":"nope","quantity":1}],"shipping_address":{"street":"a","city":"b","state":"c","postal_code":"d","country":"e"}}`,
	}
	for name, body := range cases {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, jsonRequest(http.MethodPost, "/orders", body))
		assert.Equal(t, http.StatusBadRequest, rec.Code, name)
		assert.Equal(t, response.StatusError, decodeEnvelope(t, rec).Status, name)
	}
}

func TestCreateOrder_InsufficientStockIs400(t *testing.T) {
	svc := &mockOrdersService{}
	h := NewOrdersHandler(svc)
	svc.On("CreateOrder", mock.Anything, mock.Anything).Return(domain.PlacedOrder{}, domain.ErrInsufficientStock)

	e := echo.New()
	e.POST("/orders", h.CreateOrder, withIdentity(uuid.New(), uuid.Nil))
	body := `{"items":[{"product_id":"` + uuid.NewString() + `","quantity":9}],"shipping_address":{"street":"a","city":"b","state":"c","postal_code":"d","country":"e"}}`
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, jsonRequest(http.MethodPost, "/orders", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "insufficient stock", decodeEnvelope(t, rec).Message)
}

func TestCreateOrder_RejectsOversizedIdempotencyKey(t *testing.T) {
	svc := &mockOrdersService{}
	h := NewOrdersHandler(svc)
	svc.On("CreateOrder", mock.Anything, mock.Anything).Return(domain.PlacedOrder{}, nil)

	e := echo.New()
	e.POST("/orders", h.CreateOrder, withIdentity(uuid.New(), uuid.Nil))
	body := `{"items":[{"product_id":"` + uuid.NewString() + `","quantity":1}],"shipping_address":{"street":"a","city":"b","state":"c","postal_code":"d","country":"e"}}`

	req := jsonRequest(http.MethodPost, "/orders", body)
	req.Header.Set(HeaderIdempotencyKey, strings.Repeat("k", maxIdempotencyKeyLength+1))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)

	req = jsonRequest(http.MethodPost, "/orders", body)
	req.Header.Set(HeaderIdempotencyKey, strings.Repeat("k", maxIdempotencyKeyLength))
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestGetOrderByID_NotOwnerIs404(t *testing.T) {
	svc := &mockOrdersService{}
	h := NewOrdersHandler(svc)
	userID, orderID := uuid.New(), uuid.New()
	svc.On("FindOne", mock.Anything, orderID, userID).Return(domain.Order{}, domain.ErrOrderNotFound)

	e := echo.New()
	e.GET("/orders/:id", h.GetOrderByID, withIdentity(userID, uuid.Nil))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/"+orderID.String(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateStatus_UsesResolvedVendor(t *testing.T) {
	svc := &mockOrdersService{}
	h := NewOrdersHandler(svc)
	vendorID, orderID := uuid.New(), uuid.New()
	svc.On("UpdateStatus", mock.Anything, orderID, vendorID, domain.OrderStatusShipped).
		Return(domain.Order{Status: domain.OrderStatusShipped}, nil)

	e := echo.New()
	e.PUT("/orders/:id/status", h.UpdateStatus, withIdentity(uuid.New(), vendorID))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, jsonRequest(http.MethodPut, "/orders/"+orderID.String()+"/status", `{"status":"shipped"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

type mockProductService struct {
	mock.Mock
	ProductService
}

func (m *mockProductService) FindAll(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, domain.Pagination, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Product), args.Get(1).(domain.Pagination), args.Error(2)
}

func (m *mockProductService) FindByVendor(ctx context.Context, filter domain.VendorProductFilter) ([]domain.Product, domain.Pagination, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Product), args.Get(1).(domain.Pagination), args.Error(2)
}

func TestGetAllProducts_ParsesQueryAndReturnsPagination(t *testing.T) {
	svc := &mockProductService{}
	h := NewProductHandler(svc)
	minPrice := 10.0

	svc.On("FindAll", mock.Anything, domain.ProductFilter{
		Page: 2, Limit: 5, Category: "tea", Search: "green", MinPrice: &minPrice, SortBy: "price", SortOrder: domain.SortAsc,
	}).Return([]domain.Product{{Name: "Green tea"}}, domain.NewPagination(2, 5, 11), nil)

	e := echo.New()
	e.GET("/products", h.GetAllProducts)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products?page=2&limit=5&category=tea&query=green&minPrice=10&sortBy=price&sortOrder=asc", nil))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, domain.Pagination{Page: 2, Limit: 5, Total: 11, TotalPages: 3}, *env.Pagination)
}

func TestGetAllProducts_RejectsBadQuery(t *testing.T) {
	h := NewProductHandler(&mockProductService{})
	e := echo.New()
	e.GET("/products", h.GetAllProducts)

	for _, q := range []string{"page=x", "minPrice=cheap", "sortOrder=sideways"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products?"+q, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestGetMyProducts_ActiveFilter(t *testing.T) {
	svc := &mockProductService{}
	h := NewProductHandler(svc)
	vendorID := uuid.New()

	svc.On("FindByVendor", mock.Anything, mock.MatchedBy(func(f domain.VendorProductFilter) bool {
		return f.VendorID == vendorID && f.IsActive != nil && !*f.IsActive
	})).Return([]domain.Product{}, domain.NewPagination(1, 10, 0), nil)

	e := echo.New()
	e.GET("/products/vendor/my-products", h.GetMyProducts, withIdentity(uuid.New(), vendorID))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/vendor/my-products?isActive=false", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

type stubUserService struct {
	UserService
	login func(email, password string) (string, domain.User, error)
}

func (s stubUserService) Login(_ context.Context, email, password string) (string, domain.User, error) {
	return s.login(email, password)
}

func (s stubUserService) Register(_ context.Context, in user.RegisterInput) (domain.User, error) {
	return domain.User{Email: in.Email, Name: in.Name, PasswordHash: "hash"}, nil
}

func TestLogin_AndPasswordHashNeverSerialized(t *testing.T) {
	h := NewUserHandler(stubUserService{login: func(email, password string) (string, domain.User, error) {
		if password != "secret1" {
			return "", domain.User{}, apperror.ErrInvalidCredentials
		}
		return "jwt-token", domain.User{Email: email, PasswordHash: "hash"}, nil
	}})

	e := echo.New()
	e.POST("/login", h.Login)
	e.POST("/register", h.Register)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, jsonRequest(http.MethodPost, "/login", `{"email":"a@b.io","password":"nope"}`))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, jsonRequest(http.MethodPost, "/login", `{"email":"a@b.io","password":"secret1"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "jwt-token")
	assert.NotContains(t, rec.Body.String(), "hash")

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, jsonRequest(http.MethodPost, "/register", `{"name":"A","email":"a@b.io","password":"secret1"}`))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "hash")
	assert.NotContains(t, rec.Body.String(), "password")
}

type recordingStorage struct {
	names  []string
	folder string
}

func (r *recordingStorage) UploadFile(_ context.Context, f storage.File, folder string) (string, error) {
	r.names = append(r.names, f.Name)
	r.folder = folder
	return "https://cdn.test/" + folder + "/" + f.Name, nil
}

func (r *recordingStorage) UploadMultipleFiles(ctx context.Context, files []storage.File, folder string) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, f := range files {
		u, _ := r.UploadFile(ctx, f, folder)
		urls = append(urls, u)
	}
	return urls, nil
}

func (r *recordingStorage) DeleteFile(context.Context, string) error { return nil }

func multipartBody(t *testing.T, field string, names ...string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for _, n := range names {
		part, err := w.CreateFormFile(field, n)
		require.NoError(t, err)
		_, err = part.Write([]byte("data"))
		require.NoError(t, err)
	}
	require.NoError(t, w.WriteField("folder", "avatars"))
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func TestStorageUploads(t *testing.T) {
	store := &recordingStorage{}
	h := NewStorageHandler(store)
	e := echo.New()
	e.POST("/upload", h.Upload)
	e.POST("/upload-multiple", h.UploadMultiple)

	body, ct := multipartBody(t, "file", "a.png")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set(echo.HeaderContentType, ct)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "https://cdn.test/avatars/a.png")

	body, ct = multipartBody(t, "files", "b.png", "c.png")
	req = httptest.NewRequest(http.MethodPost, "/upload-multiple", body)
	req.Header.Set(echo.HeaderContentType, ct)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"a.png", "b.png", "c.png"}, store.names)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, jsonRequest(http.MethodPost, "/upload", `{}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
