package postgres

import (
	"path/filepath"
	"testing"

	"multiMart/domain"
	"multiMart/pkg/database"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) domain.User {
	t.Helper()
	user := domain.User{Email: email, PasswordHash: "x", Name: email, Role: domain.RoleUser}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedVendor(t *testing.T, db *gorm.DB, name string) domain.Vendor {
	t.Helper()
	owner := seedUser(t, db, name+"@vendor.test")
	vendor := domain.Vendor{UserID: owner.ID, BusinessName: name, Status: domain.VendorStatusApproved}
	require.NoError(t, db.Create(&vendor).Error)
	return vendor
}

func seedProduct(t *testing.T, db *gorm.DB, vendorID uuid.UUID, name string, price int64, stock int) domain.Product {
	t.Helper()
	product := domain.Product{
		VendorID:      vendorID,
		Name:          name,
		Price:         decimal.NewFromInt(price),
		StockQuantity: stock,
		Category:      "general",
		Images:        datatypes.JSONSlice[string]{},
		Variants:      datatypes.NewJSONType(domain.ProductVariants{}),
		IsActive:      true,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func stockOf(t *testing.T, db *gorm.DB, id uuid.UUID) int {
	t.Helper()
	var p domain.Product
	require.NoError(t, db.Where("id = ?", id).First(&p).Error)
	return p.StockQuantity
}

func testAddress() datatypes.JSONType[domain.ShippingAddress] {
	return datatypes.NewJSONType(domain.ShippingAddress{
		Street: "1 Main St", City: "Almaty", State: "AL", PostalCode: "050000", Country: "KZ",
	})
}
