// internal/services/catalog_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/shopworks/storefront/internal/models"
)

type CatalogServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	catalog *CatalogService
}

func (s *CatalogServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.catalog = NewCatalogService(s.db)
}

func (s *CatalogServiceTestSuite) TestDeleteCollectionWithProductsBlocked() {
	collection := seedCollection(s.T(), s.db, "Dairy")
	seedProduct(s.T(), s.db, collection.ID, "milk", "3.10")

	err := s.catalog.DeleteCollection(collection.ID)
	s.True(IsConflict(err))

	// Nothing was removed.
	_, err = s.catalog.GetCollection(collection.ID)
	s.NoError(err)
}

func (s *CatalogServiceTestSuite) TestDeleteEmptyCollection() {
	collection := seedCollection(s.T(), s.db, "Seasonal")

	s.Require().NoError(s.catalog.DeleteCollection(collection.ID))

	_, err := s.catalog.GetCollection(collection.ID)
	s.True(IsNotFound(err))
}

func (s *CatalogServiceTestSuite) TestDeleteProductInOrdersBlocked() {
	collection := seedCollection(s.T(), s.db, "Dairy")
	product := seedProduct(s.T(), s.db, collection.ID, "butter", "5.00")

	customer := &models.Customer{PrincipalID: uuid.New(), Membership: models.MembershipBronze}
	s.Require().NoError(s.db.Create(customer).Error)

	order := &models.Order{CustomerID: customer.ID, PaymentStatus: models.PaymentStatusPending}
	s.Require().NoError(s.db.Create(order).Error)
	s.Require().NoError(s.db.Create(&models.OrderItem{
		OrderID:   order.ID,
		ProductID: product.ID,
		Quantity:  1,
		UnitPrice: product.UnitPrice,
	}).Error)

	err := s.catalog.DeleteProduct(product.ID)
	s.True(IsConflict(err))

	_, err = s.catalog.GetProduct(product.ID)
	s.NoError(err)
}

func (s *CatalogServiceTestSuite) TestDeleteProductClearsReferences() {
	collection := seedCollection(s.T(), s.db, "Dairy")
	product := seedProduct(s.T(), s.db, collection.ID, "yoghurt", "2.20")

	// Featured in its collection, present in a cart, reviewed.
	s.Require().NoError(s.db.Model(collection).UpdateColumn("featured_product_id", product.ID).Error)

	carts := NewCartService(s.db)
	cart, err := carts.CreateCart()
	s.Require().NoError(err)
	_, err = carts.AddItem(cart.ID, &AddCartItemRequest{ProductID: product.ID, Quantity: 2})
	s.Require().NoError(err)

	reviews := NewReviewService(s.db)
	_, err = reviews.CreateReview(product.ID, &CreateReviewRequest{Name: "pat", Description: "fine"})
	s.Require().NoError(err)

	s.Require().NoError(s.catalog.DeleteProduct(product.ID))

	var reloaded models.Collection
	s.Require().NoError(s.db.First(&reloaded, "id = ?", collection.ID).Error)
	s.Nil(reloaded.FeaturedProductID)

	var cartItemCount int64
	s.Require().NoError(s.db.Model(&models.CartItem{}).Where("product_id = ?", product.ID).Count(&cartItemCount).Error)
	s.Zero(cartItemCount)

	var reviewCount int64
	s.Require().NoError(s.db.Model(&models.Review{}).Where("product_id = ?", product.ID).Count(&reviewCount).Error)
	s.Zero(reviewCount)
}

func (s *CatalogServiceTestSuite) TestCreateProductRejectsLowPrice() {
	collection := seedCollection(s.T(), s.db, "Dairy")

	_, err := s.catalog.CreateProduct(&CreateProductRequest{
		Title:        "sample",
		Slug:         "sample",
		UnitPrice:    decimal.RequireFromString("0.50"),
		CollectionID: collection.ID,
	})
	s.True(IsValidation(err))
}

func (s *CatalogServiceTestSuite) TestCreateProductUnknownCollection() {
	_, err := s.catalog.CreateProduct(&CreateProductRequest{
		Title:        "sample",
		Slug:         "sample",
		UnitPrice:    decimal.RequireFromString("9.99"),
		CollectionID: uuid.New(),
	})
	s.True(IsValidation(err))
}

func (s *CatalogServiceTestSuite) TestSearchProductsFilters() {
	dairy := seedCollection(s.T(), s.db, "Dairy")
	bakery := seedCollection(s.T(), s.db, "Bakery")
	seedProduct(s.T(), s.db, dairy.ID, "milk", "3.10")
	seedProduct(s.T(), s.db, dairy.ID, "cheese", "8.75")
	seedProduct(s.T(), s.db, bakery.ID, "bread", "2.50")

	params := ProductSearchParams{PaginationParams: defaultPaginationParams()}
	params.CollectionID = &dairy.ID

	products, total, err := s.catalog.SearchProducts(params)
	s.Require().NoError(err)
	s.EqualValues(2, total)
	s.Len(products, 2)

	priceMin := decimal.RequireFromString("5.00")
	params.PriceMin = &priceMin
	products, total, err = s.catalog.SearchProducts(params)
	s.Require().NoError(err)
	s.EqualValues(1, total)
	s.Require().Len(products, 1)
	s.Equal("cheese", products[0].Title)
}

func (s *CatalogServiceTestSuite) TestSearchProductsByTitle() {
	dairy := seedCollection(s.T(), s.db, "Dairy")
	seedProduct(s.T(), s.db, dairy.ID, "Whole Milk", "3.10")
	seedProduct(s.T(), s.db, dairy.ID, "Cheddar", "8.75")

	params := ProductSearchParams{PaginationParams: defaultPaginationParams()}
	params.Search = "milk"

	products, total, err := s.catalog.SearchProducts(params)
	s.Require().NoError(err)
	s.EqualValues(1, total)
	s.Require().Len(products, 1)
	s.Equal("Whole Milk", products[0].Title)
}

func (s *CatalogServiceTestSuite) TestListCollectionsAnnotatesCounts() {
	dairy := seedCollection(s.T(), s.db, "Dairy")
	empty := seedCollection(s.T(), s.db, "Empty")
	seedProduct(s.T(), s.db, dairy.ID, "milk", "3.10")
	seedProduct(s.T(), s.db, dairy.ID, "cheese", "8.75")

	collections, err := s.catalog.ListCollections()
	s.Require().NoError(err)

	counts := make(map[uuid.UUID]int64)
	for _, c := range collections {
		counts[c.ID] = c.ProductsCount
	}
	s.EqualValues(2, counts[dairy.ID])
	s.EqualValues(0, counts[empty.ID])
}

func (s *CatalogServiceTestSuite) TestUpdateProductPartial() {
	dairy := seedCollection(s.T(), s.db, "Dairy")
	product := seedProduct(s.T(), s.db, dairy.ID, "milk", "3.10")

	newPrice := decimal.RequireFromString("3.45")
	updated, err := s.catalog.UpdateProduct(product.ID, &UpdateProductRequest{UnitPrice: &newPrice})
	s.Require().NoError(err)
	s.True(updated.UnitPrice.Equal(newPrice))
	s.Equal("milk", updated.Title)
}

func TestCatalogServiceSuite(t *testing.T) {
	suite.Run(t, new(CatalogServiceTestSuite))
}
