// internal/services/order_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopworks/storefront/internal/events"
	"github.com/shopworks/storefront/internal/models"
	"github.com/shopworks/storefront/internal/utils"
)

type OrderService struct {
	db        *gorm.DB
	publisher events.Publisher
}

type PlaceOrderRequest struct {
	CartID uuid.UUID `json:"cart_id" validate:"required"`
}

type UpdateOrderRequest struct {
	PaymentStatus models.PaymentStatus `json:"payment_status" validate:"required"`
}

func NewOrderService(db *gorm.DB, publisher events.Publisher) *OrderService {
	return &OrderService{db: db, publisher: publisher}
}

// PlaceOrder converts a cart into a durable order exactly once. The
// conversion runs in a single transaction: create the order, copy each
// cart item into an order item with the product's price frozen at this
// instant, and delete the cart. Deleting the cart row is the
// serialization point — if another placement got there first the
// delete touches zero rows and the whole transaction rolls back, so
// two racing placements can never both produce an order. No in-process
// lock is involved; multiple instances may share the store.
func (s *OrderService) PlaceOrder(principalID uuid.UUID, req *PlaceOrderRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationErrorf("cart_id is required")
	}

	var cartCount int64
	if err := s.db.Model(&models.Cart{}).Where("id = ?", req.CartID).Count(&cartCount).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if cartCount == 0 {
		return nil, validationErrorf("cart not found")
	}

	var itemCount int64
	if err := s.db.Model(&models.CartItem{}).Where("cart_id = ?", req.CartID).Count(&itemCount).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if itemCount == 0 {
		return nil, validationErrorf("cart is empty")
	}

	var order models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		customer, err := resolveCustomer(tx, principalID)
		if err != nil {
			return err
		}

		order = models.Order{
			CustomerID:    customer.ID,
			PaymentStatus: models.PaymentStatusPending,
		}
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		// One consistent read of the cart's contents with the current
		// product rows joined in.
		var cartItems []models.CartItem
		if err := tx.Preload("Product").
			Where("cart_id = ?", req.CartID).
			Find(&cartItems).Error; err != nil {
			return fmt.Errorf("failed to read cart items: %w", err)
		}
		if len(cartItems) == 0 {
			return ErrConcurrentModification
		}

		orderItems := make([]models.OrderItem, 0, len(cartItems))
		for _, item := range cartItems {
			orderItems = append(orderItems, models.OrderItem{
				OrderID:   order.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				// A copy, never a reference: later price changes must
				// not reach into placed orders.
				UnitPrice: item.Product.UnitPrice,
			})
		}
		if err := tx.Create(&orderItems).Error; err != nil {
			return fmt.Errorf("failed to create order items: %w", err)
		}

		if err := tx.Where("cart_id = ?", req.CartID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete cart items: %w", err)
		}
		res := tx.Delete(&models.Cart{}, "id = ?", req.CartID)
		if res.Error != nil {
			return fmt.Errorf("failed to delete cart: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// A concurrent placement consumed the cart first.
			return ErrConcurrentModification
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	placed, err := s.getOrderWithItems(order.ID)
	if err != nil {
		return nil, err
	}

	// Best-effort notification after the commit; listener failures are
	// logged by the bus and never undo the order.
	if s.publisher != nil {
		s.publisher.Publish(events.OrderCreated{Order: placed})
	}

	return placed, nil
}

func (s *OrderService) getOrderWithItems(id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Items.Product").Preload("Customer").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &order, nil
}

func (s *OrderService) GetOrder(id, principalID uuid.UUID, isStaff bool) (*models.Order, error) {
	order, err := s.getOrderVisible(id, principalID, isStaff)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) ListOrders(principalID uuid.UUID, isStaff bool, params utils.PaginationParams) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{})

	if !isStaff {
		customer, err := resolveCustomer(s.db, principalID)
		if err != nil {
			return nil, 0, err
		}
		query = query.Where("customer_id = ?", customer.ID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	allowedSortFields := []string{"created_at", "placed_at", "payment_status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var orders []models.Order
	if err := query.Preload("Items.Product").Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}

	return orders, total, nil
}

// UpdatePaymentStatus is the only mutation allowed after placement.
func (s *OrderService) UpdatePaymentStatus(id uuid.UUID, req *UpdateOrderRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationErrorf("payment_status is required")
	}
	if !req.PaymentStatus.Valid() {
		return nil, validationErrorf("unknown payment status")
	}

	var order models.Order
	if err := s.db.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErrorf("order")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Model(&order).UpdateColumn("payment_status", req.PaymentStatus).Error; err != nil {
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}

	return s.getOrderWithItems(order.ID)
}

func (s *OrderService) DeleteOrder(id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete order items: %w", err)
		}
		res := tx.Delete(&models.Order{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete order: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return notFoundErrorf("order")
		}
		return nil
	})
}

func (s *OrderService) getOrderVisible(id, principalID uuid.UUID, isStaff bool) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Items.Product").Preload("Customer").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErrorf("order")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !isStaff {
		customer, err := resolveCustomer(s.db, principalID)
		if err != nil {
			return nil, err
		}
		if order.CustomerID != customer.ID {
			// Hide other customers' orders entirely.
			return nil, notFoundErrorf("order")
		}
	}

	return &order, nil
}
