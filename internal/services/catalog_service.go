// internal/services/catalog_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopworks/storefront/internal/models"
	"github.com/shopworks/storefront/internal/utils"
)

type CatalogService struct {
	db *gorm.DB
}

type CreateCollectionRequest struct {
	Title             string     `json:"title" validate:"required,min=1,max=255"`
	FeaturedProductID *uuid.UUID `json:"featured_product_id,omitempty"`
}

type CreateProductRequest struct {
	Title        string          `json:"title" validate:"required,min=1,max=255"`
	Slug         string          `json:"slug" validate:"required,max=255"`
	Description  string          `json:"description,omitempty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Inventory    int             `json:"inventory" validate:"min=0"`
	CollectionID uuid.UUID       `json:"collection_id" validate:"required"`
}

type UpdateProductRequest struct {
	Title        string           `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Slug         string           `json:"slug,omitempty" validate:"omitempty,max=255"`
	Description  *string          `json:"description,omitempty"`
	UnitPrice    *decimal.Decimal `json:"unit_price,omitempty"`
	Inventory    *int             `json:"inventory,omitempty" validate:"omitempty,min=0"`
	CollectionID *uuid.UUID       `json:"collection_id,omitempty"`
}

type ProductSearchParams struct {
	utils.PaginationParams
	CollectionID *uuid.UUID
	PriceMin     *decimal.Decimal
	PriceMax     *decimal.Decimal
}

var minUnitPrice = decimal.NewFromInt(1)

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// Collections

func (s *CatalogService) ListCollections() ([]models.Collection, error) {
	var collections []models.Collection
	if err := s.db.Order("title").Find(&collections).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch collections: %w", err)
	}

	// Annotate product counts in one grouped query.
	type countRow struct {
		CollectionID uuid.UUID
		Count        int64
	}
	var rows []countRow
	if err := s.db.Model(&models.Product{}).
		Select("collection_id, count(*) as count").
		Group("collection_id").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	counts := make(map[uuid.UUID]int64, len(rows))
	for _, r := range rows {
		counts[r.CollectionID] = r.Count
	}
	for i := range collections {
		collections[i].ProductsCount = counts[collections[i].ID]
	}

	return collections, nil
}

func (s *CatalogService) GetCollection(id uuid.UUID) (*models.Collection, error) {
	var collection models.Collection
	if err := s.db.Preload("FeaturedProduct").First(&collection, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErrorf("collection")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Model(&models.Product{}).
		Where("collection_id = ?", id).
		Count(&collection.ProductsCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	return &collection, nil
}

func (s *CatalogService) CreateCollection(req *CreateCollectionRequest) (*models.Collection, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationErrorf("title is required")
	}

	collection := &models.Collection{
		Title:             req.Title,
		FeaturedProductID: req.FeaturedProductID,
	}
	if err := s.db.Create(collection).Error; err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}
	return collection, nil
}

func (s *CatalogService) UpdateCollection(id uuid.UUID, req *CreateCollectionRequest) (*models.Collection, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationErrorf("title is required")
	}

	var collection models.Collection
	if err := s.db.First(&collection, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErrorf("collection")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	updates := map[string]interface{}{
		"title":               req.Title,
		"featured_product_id": req.FeaturedProductID,
	}
	if err := s.db.Model(&collection).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update collection: %w", err)
	}
	return &collection, nil
}

// DeleteCollection refuses to remove a collection that still has
// products. The check fronts the RESTRICT constraint on
// products.collection_id; either mechanism leaves the data intact.
func (s *CatalogService) DeleteCollection(id uuid.UUID) error {
	var productCount int64
	if err := s.db.Model(&models.Product{}).
		Where("collection_id = ?", id).
		Count(&productCount).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if productCount > 0 {
		return &ConflictError{Message: "collection cannot be deleted because it contains products"}
	}

	res := s.db.Delete(&models.Collection{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete collection: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFoundErrorf("collection")
	}
	return nil
}

// Products

func (s *CatalogService) SearchProducts(params ProductSearchParams) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{}).Preload("Images").Preload("Promotions")

	if params.CollectionID != nil {
		query = query.Where("collection_id = ?", *params.CollectionID)
	}

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", searchTerm, searchTerm)
	}

	if params.PriceMin != nil {
		query = query.Where("unit_price >= ?", *params.PriceMin)
	}
	if params.PriceMax != nil {
		query = query.Where("unit_price <= ?", *params.PriceMax)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	allowedSortFields := []string{"created_at", "title", "unit_price", "last_update"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}

func (s *CatalogService) GetProduct(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Images").Preload("Promotions").Preload("Collection").
		First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErrorf("product")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func (s *CatalogService) CreateProduct(req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationErrorf("title, slug and collection_id are required")
	}
	if req.UnitPrice.LessThan(minUnitPrice) {
		return nil, validationErrorf("unit_price must be at least 1")
	}

	var collectionCount int64
	if err := s.db.Model(&models.Collection{}).Where("id = ?", req.CollectionID).Count(&collectionCount).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if collectionCount == 0 {
		return nil, validationErrorf("no such collection")
	}

	product := &models.Product{
		Title:        req.Title,
		Slug:         req.Slug,
		Description:  req.Description,
		UnitPrice:    req.UnitPrice,
		Inventory:    req.Inventory,
		CollectionID: req.CollectionID,
	}
	if err := s.db.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

func (s *CatalogService) UpdateProduct(id uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationErrorf("invalid product fields")
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErrorf("product")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Slug != "" {
		updates["slug"] = req.Slug
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.UnitPrice != nil {
		if req.UnitPrice.LessThan(minUnitPrice) {
			return nil, validationErrorf("unit_price must be at least 1")
		}
		updates["unit_price"] = *req.UnitPrice
	}
	if req.Inventory != nil {
		updates["inventory"] = *req.Inventory
	}
	if req.CollectionID != nil {
		var collectionCount int64
		if err := s.db.Model(&models.Collection{}).Where("id = ?", *req.CollectionID).Count(&collectionCount).Error; err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
		if collectionCount == 0 {
			return nil, validationErrorf("no such collection")
		}
		updates["collection_id"] = *req.CollectionID
	}

	if len(updates) > 0 {
		if err := s.db.Model(&product).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}

	return s.GetProduct(id)
}

// DeleteProduct refuses to remove a product that appears in order
// history, then clears the product's cart references, reviews and
// image records along with the product itself.
func (s *CatalogService) DeleteProduct(id uuid.UUID) error {
	var orderItemCount int64
	if err := s.db.Model(&models.OrderItem{}).
		Where("product_id = ?", id).
		Count(&orderItemCount).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if orderItemCount > 0 {
		return &ConflictError{Message: "product cannot be deleted because it appears in orders"}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		// Detach references a live product may have accumulated. The
		// featured pointer is cleared, never cascaded.
		if err := tx.Model(&models.Collection{}).
			Where("featured_product_id = ?", id).
			UpdateColumn("featured_product_id", nil).Error; err != nil {
			return fmt.Errorf("failed to clear featured product: %w", err)
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete cart items: %w", err)
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return fmt.Errorf("failed to delete reviews: %w", err)
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
			return fmt.Errorf("failed to delete product images: %w", err)
		}
		if err := tx.Exec("DELETE FROM product_promotions WHERE product_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to detach promotions: %w", err)
		}

		res := tx.Delete(&models.Product{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete product: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return notFoundErrorf("product")
		}
		return nil
	})
}

// Product images

func (s *CatalogService) AddProductImage(productID uuid.UUID, url, storageKey string) (*models.ProductImage, error) {
	if err := s.requireProduct(productID); err != nil {
		return nil, err
	}

	image := &models.ProductImage{
		ProductID:  productID,
		URL:        url,
		StorageKey: storageKey,
	}
	if err := s.db.Create(image).Error; err != nil {
		return nil, fmt.Errorf("failed to create product image: %w", err)
	}
	return image, nil
}

func (s *CatalogService) ListProductImages(productID uuid.UUID) ([]models.ProductImage, error) {
	if err := s.requireProduct(productID); err != nil {
		return nil, err
	}

	var images []models.ProductImage
	if err := s.db.Where("product_id = ?", productID).Order("created_at").Find(&images).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch product images: %w", err)
	}
	return images, nil
}

func (s *CatalogService) DeleteProductImage(productID, imageID uuid.UUID) (*models.ProductImage, error) {
	var image models.ProductImage
	if err := s.db.Where("id = ? AND product_id = ?", imageID, productID).First(&image).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErrorf("product image")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Delete(&image).Error; err != nil {
		return nil, fmt.Errorf("failed to delete product image: %w", err)
	}
	return &image, nil
}

func (s *CatalogService) requireProduct(productID uuid.UUID) error {
	var count int64
	if err := s.db.Model(&models.Product{}).Where("id = ?", productID).Count(&count).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if count == 0 {
		return notFoundErrorf("product")
	}
	return nil
}
