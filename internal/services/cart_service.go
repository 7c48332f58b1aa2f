// internal/services/cart_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopworks/storefront/internal/models"
	"github.com/shopworks/storefront/internal/utils"
)

type CartService struct {
	db *gorm.DB
}

type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

func (s *CartService) CreateCart() (*models.Cart, error) {
	cart := &models.Cart{}
	if err := s.db.Create(cart).Error; err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	return cart, nil
}

func (s *CartService) GetCart(id uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.Preload("Items.Product").First(&cart, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErrorf("cart")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &cart, nil
}

func (s *CartService) DeleteCart(id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete cart items: %w", err)
		}
		res := tx.Delete(&models.Cart{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete cart: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return notFoundErrorf("cart")
		}
		return nil
	})
}

// AddItem adds a product to the cart, incrementing the quantity when a
// row for (cart, product) already exists. The lookup is only an
// optimization: two concurrent adds can both miss the row and race on
// the insert, and then the unique index decides — the loser surfaces a
// retryable conflict instead of a silent duplicate.
func (s *CartService) AddItem(cartID uuid.UUID, req *AddCartItemRequest) (*models.CartItem, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationErrorf("quantity must be a positive integer")
	}

	if err := s.requireCart(cartID); err != nil {
		return nil, err
	}

	var productCount int64
	if err := s.db.Model(&models.Product{}).Where("id = ?", req.ProductID).Count(&productCount).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if productCount == 0 {
		return nil, validationErrorf("no such product")
	}

	var item models.CartItem
	err := s.db.Where("cart_id = ? AND product_id = ?", cartID, req.ProductID).First(&item).Error
	switch {
	case err == nil:
		if err := s.db.Model(&item).
			UpdateColumn("quantity", gorm.Expr("quantity + ?", req.Quantity)).Error; err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
		if err := s.db.Preload("Product").First(&item, "id = ?", item.ID).Error; err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
		return &item, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		item = models.CartItem{
			CartID:    cartID,
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
		}
		if createErr := s.db.Create(&item).Error; createErr != nil {
			if errors.Is(createErr, gorm.ErrDuplicatedKey) {
				return nil, ErrConcurrentModification
			}
			return nil, fmt.Errorf("failed to create cart item: %w", createErr)
		}
		if err := s.db.Preload("Product").First(&item, "id = ?", item.ID).Error; err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
		return &item, nil

	default:
		return nil, fmt.Errorf("database error: %w", err)
	}
}

func (s *CartService) UpdateItemQuantity(cartID, itemID uuid.UUID, req *UpdateCartItemRequest) (*models.CartItem, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationErrorf("quantity must be a positive integer")
	}

	var item models.CartItem
	if err := s.db.Where("id = ? AND cart_id = ?", itemID, cartID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErrorf("cart item")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Model(&item).UpdateColumn("quantity", req.Quantity).Error; err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}

	if err := s.db.Preload("Product").First(&item, "id = ?", item.ID).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &item, nil
}

func (s *CartService) RemoveItem(cartID, itemID uuid.UUID) error {
	res := s.db.Where("id = ? AND cart_id = ?", itemID, cartID).Delete(&models.CartItem{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFoundErrorf("cart item")
	}
	return nil
}

func (s *CartService) ListItems(cartID uuid.UUID) ([]models.CartItem, error) {
	if err := s.requireCart(cartID); err != nil {
		return nil, err
	}

	var items []models.CartItem
	if err := s.db.Preload("Product").
		Where("cart_id = ?", cartID).
		Order("created_at").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch cart items: %w", err)
	}
	return items, nil
}

func (s *CartService) requireCart(cartID uuid.UUID) error {
	var count int64
	if err := s.db.Model(&models.Cart{}).Where("id = ?", cartID).Count(&count).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if count == 0 {
		return notFoundErrorf("cart")
	}
	return nil
}
