// internal/services/promotion_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopworks/storefront/internal/models"
	"github.com/shopworks/storefront/internal/utils"
)

type PromotionService struct {
	db *gorm.DB
}

type PromotionRequest struct {
	Description string  `json:"description" validate:"required,max=255"`
	Discount    float64 `json:"discount" validate:"required,gt=0,lte=100"`
}

func NewPromotionService(db *gorm.DB) *PromotionService {
	return &PromotionService{db: db}
}

func (s *PromotionService) ListPromotions() ([]models.Promotion, error) {
	var promotions []models.Promotion
	if err := s.db.Order("created_at").Find(&promotions).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch promotions: %w", err)
	}
	return promotions, nil
}

func (s *PromotionService) CreatePromotion(req *PromotionRequest) (*models.Promotion, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationErrorf("description and a discount between 0 and 100 are required")
	}

	promotion := &models.Promotion{
		Description: req.Description,
		Discount:    req.Discount,
	}
	if err := s.db.Create(promotion).Error; err != nil {
		return nil, fmt.Errorf("failed to create promotion: %w", err)
	}
	return promotion, nil
}

func (s *PromotionService) UpdatePromotion(id uuid.UUID, req *PromotionRequest) (*models.Promotion, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationErrorf("description and a discount between 0 and 100 are required")
	}

	var promotion models.Promotion
	if err := s.db.First(&promotion, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErrorf("promotion")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	updates := map[string]interface{}{
		"description": req.Description,
		"discount":    req.Discount,
	}
	if err := s.db.Model(&promotion).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update promotion: %w", err)
	}
	return &promotion, nil
}

func (s *PromotionService) DeletePromotion(id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM product_promotions WHERE promotion_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to detach promotion: %w", err)
		}
		res := tx.Delete(&models.Promotion{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete promotion: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return notFoundErrorf("promotion")
		}
		return nil
	})
}

func (s *PromotionService) AttachToProduct(productID, promotionID uuid.UUID) error {
	var product models.Product
	if err := s.db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundErrorf("product")
		}
		return fmt.Errorf("database error: %w", err)
	}

	var promotion models.Promotion
	if err := s.db.First(&promotion, "id = ?", promotionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundErrorf("promotion")
		}
		return fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Model(&product).Association("Promotions").Append(&promotion); err != nil {
		return fmt.Errorf("failed to attach promotion: %w", err)
	}
	return nil
}

func (s *PromotionService) DetachFromProduct(productID, promotionID uuid.UUID) error {
	var product models.Product
	if err := s.db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundErrorf("product")
		}
		return fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Model(&product).Association("Promotions").
		Delete(&models.Promotion{BaseModel: models.BaseModel{ID: promotionID}}); err != nil {
		return fmt.Errorf("failed to detach promotion: %w", err)
	}
	return nil
}
