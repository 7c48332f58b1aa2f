// internal/services/review_service.go
package services

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopworks/storefront/internal/models"
	"github.com/shopworks/storefront/internal/utils"
)

type ReviewService struct {
	db *gorm.DB
}

type CreateReviewRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"required"`
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

func (s *ReviewService) ListReviews(productID uuid.UUID) ([]models.Review, error) {
	if err := s.requireProduct(productID); err != nil {
		return nil, err
	}

	var reviews []models.Review
	if err := s.db.Where("product_id = ?", productID).Order("date DESC").Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch reviews: %w", err)
	}
	return reviews, nil
}

func (s *ReviewService) CreateReview(productID uuid.UUID, req *CreateReviewRequest) (*models.Review, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationErrorf("name and description are required")
	}
	if err := s.requireProduct(productID); err != nil {
		return nil, err
	}

	review := &models.Review{
		ProductID:   productID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.db.Create(review).Error; err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return review, nil
}

func (s *ReviewService) DeleteReview(productID, reviewID uuid.UUID) error {
	res := s.db.Where("id = ? AND product_id = ?", reviewID, productID).Delete(&models.Review{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete review: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFoundErrorf("review")
	}
	return nil
}

func (s *ReviewService) requireProduct(productID uuid.UUID) error {
	var count int64
	if err := s.db.Model(&models.Product{}).Where("id = ?", productID).Count(&count).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if count == 0 {
		return notFoundErrorf("product")
	}
	return nil
}
