// internal/handlers/product.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/shopworks/storefront/internal/services"
	"github.com/shopworks/storefront/internal/utils"
)

type ProductHandler struct {
	catalogService   *services.CatalogService
	reviewService    *services.ReviewService
	promotionService *services.PromotionService
	storageService   *services.StorageService
}

func NewProductHandler(
	catalogService *services.CatalogService,
	reviewService *services.ReviewService,
	promotionService *services.PromotionService,
	storageService *services.StorageService,
) *ProductHandler {
	return &ProductHandler{
		catalogService:   catalogService,
		reviewService:    reviewService,
		promotionService: promotionService,
		storageService:   storageService,
	}
}

// GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	searchParams := services.ProductSearchParams{
		PaginationParams: params,
	}

	if collectionIDStr := c.Query("collection_id"); collectionIDStr != "" {
		if collectionID, err := uuid.Parse(collectionIDStr); err == nil {
			searchParams.CollectionID = &collectionID
		}
	}

	if priceMinStr := c.Query("unit_price_gt"); priceMinStr != "" {
		if priceMin, err := decimal.NewFromString(priceMinStr); err == nil {
			searchParams.PriceMin = &priceMin
		}
	}

	if priceMaxStr := c.Query("unit_price_lt"); priceMaxStr != "" {
		if priceMax, err := decimal.NewFromString(priceMaxStr); err == nil {
			searchParams.PriceMax = &priceMax
		}
	}

	products, total, err := h.catalogService.SearchProducts(searchParams)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result := utils.CreatePaginationResult(products, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.catalogService.GetProduct(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"product": product,
	})
}

// POST /products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid input", err.Error())
		return
	}

	product, err := h.catalogService.CreateProduct(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"product": product,
	})
}

// PUT /products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid input", err.Error())
		return
	}

	product, err := h.catalogService.UpdateProduct(id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"product": product,
	})
}

// DELETE /products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteProduct(id); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// Product images

// GET /products/:id/images
func (h *ProductHandler) GetProductImages(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	images, err := h.catalogService.ListProductImages(productID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"images": images,
	})
}

// POST /products/:id/images
func (h *ProductHandler) UploadProductImage(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, "no image uploaded", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.BadRequestResponse(c, "failed to read uploaded file", nil)
		return
	}
	defer file.Close()

	result, err := h.storageService.UploadImage(file, fileHeader)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	image, err := h.catalogService.AddProductImage(productID, result.URL, result.Key)
	if err != nil {
		// Roll back the object; the database record is the source of truth.
		if delErr := h.storageService.DeleteImage(result.Key); delErr != nil {
			logrus.WithError(delErr).WithField("key", result.Key).Error("failed to delete orphaned image object")
		}
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"image": image,
	})
}

// DELETE /products/:id/images/:imageId
func (h *ProductHandler) DeleteProductImage(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	imageID, ok := parseIDParam(c, "imageId")
	if !ok {
		return
	}

	image, err := h.catalogService.DeleteProductImage(productID, imageID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if err := h.storageService.DeleteImage(image.StorageKey); err != nil {
		logrus.WithError(err).WithField("key", image.StorageKey).Error("failed to delete image object")
	}

	utils.NoContentResponse(c)
}

// Reviews

// GET /products/:id/reviews
func (h *ProductHandler) GetReviews(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	reviews, err := h.reviewService.ListReviews(productID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"reviews": reviews,
	})
}

// POST /products/:id/reviews
func (h *ProductHandler) CreateReview(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid input", err.Error())
		return
	}

	review, err := h.reviewService.CreateReview(productID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"review": review,
	})
}

// DELETE /products/:id/reviews/:reviewId
func (h *ProductHandler) DeleteReview(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	reviewID, ok := parseIDParam(c, "reviewId")
	if !ok {
		return
	}

	if err := h.reviewService.DeleteReview(productID, reviewID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// Promotions on a product

// POST /products/:id/promotions/:promotionId
func (h *ProductHandler) AttachPromotion(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	promotionID, ok := parseIDParam(c, "promotionId")
	if !ok {
		return
	}

	if err := h.promotionService.AttachToProduct(productID, promotionID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"attached": true,
	})
}

// DELETE /products/:id/promotions/:promotionId
func (h *ProductHandler) DetachPromotion(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	promotionID, ok := parseIDParam(c, "promotionId")
	if !ok {
		return
	}

	if err := h.promotionService.DetachFromProduct(productID, promotionID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.NoContentResponse(c)
}
