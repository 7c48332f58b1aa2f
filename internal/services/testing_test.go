// internal/services/testing_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shopworks/storefront/internal/models"
	"github.com/shopworks/storefront/internal/utils"
)

func defaultPaginationParams() utils.PaginationParams {
	return utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"}
}

// newTestDB opens an in-memory sqlite database with the same schema
// and error translation the server uses against postgres.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// One connection keeps every session on the same in-memory store.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Collection{},
		&models.Product{},
		&models.Promotion{},
		&models.ProductImage{},
		&models.Review{},
		&models.Customer{},
		&models.Address{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	))

	return db
}

func seedCollection(t *testing.T, db *gorm.DB, title string) *models.Collection {
	t.Helper()

	collection := &models.Collection{Title: title}
	require.NoError(t, db.Create(collection).Error)
	return collection
}

func seedProduct(t *testing.T, db *gorm.DB, collectionID uuid.UUID, title string, price string) *models.Product {
	t.Helper()

	unitPrice, err := decimal.NewFromString(price)
	require.NoError(t, err)

	product := &models.Product{
		Title:        title,
		Slug:         title,
		UnitPrice:    unitPrice,
		Inventory:    100,
		CollectionID: collectionID,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}
