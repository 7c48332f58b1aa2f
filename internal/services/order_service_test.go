// internal/services/order_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/shopworks/storefront/internal/events"
	"github.com/shopworks/storefront/internal/models"
)

type recordingListener struct {
	received []events.OrderCreated
}

func (l *recordingListener) HandleOrderCreated(event events.OrderCreated) error {
	l.received = append(l.received, event)
	return nil
}

type OrderServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	orders   *OrderService
	carts    *CartService
	listener *recordingListener

	collection *models.Collection
	product    *models.Product
}

func (s *OrderServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())

	bus := events.NewBus()
	s.listener = &recordingListener{}
	bus.Subscribe(s.listener)

	s.orders = NewOrderService(s.db, bus)
	s.carts = NewCartService(s.db)

	s.collection = seedCollection(s.T(), s.db, "Beverages")
	s.product = seedProduct(s.T(), s.db, s.collection.ID, "coffee", "12.50")
}

func (s *OrderServiceTestSuite) newCartWithItem(quantity int) *models.Cart {
	cart, err := s.carts.CreateCart()
	s.Require().NoError(err)

	_, err = s.carts.AddItem(cart.ID, &AddCartItemRequest{
		ProductID: s.product.ID,
		Quantity:  quantity,
	})
	s.Require().NoError(err)
	return cart
}

func (s *OrderServiceTestSuite) TestPlaceOrderConvertsCart() {
	cart := s.newCartWithItem(3)
	principalID := uuid.New()

	order, err := s.orders.PlaceOrder(principalID, &PlaceOrderRequest{CartID: cart.ID})
	s.Require().NoError(err)

	s.Equal(models.PaymentStatusPending, order.PaymentStatus)
	s.Require().Len(order.Items, 1)
	s.Equal(s.product.ID, order.Items[0].ProductID)
	s.Equal(3, order.Items[0].Quantity)
	s.True(order.Items[0].UnitPrice.Equal(decimal.RequireFromString("12.50")))

	// The cart was consumed.
	_, err = s.carts.GetCart(cart.ID)
	s.True(IsNotFound(err))

	var itemCount int64
	s.Require().NoError(s.db.Model(&models.CartItem{}).Where("cart_id = ?", cart.ID).Count(&itemCount).Error)
	s.Zero(itemCount)
}

func (s *OrderServiceTestSuite) TestPlaceOrderSnapshotsPrice() {
	cart := s.newCartWithItem(2)
	principalID := uuid.New()

	order, err := s.orders.PlaceOrder(principalID, &PlaceOrderRequest{CartID: cart.ID})
	s.Require().NoError(err)

	// A later price change must not reach the placed order.
	s.Require().NoError(s.db.Model(&models.Product{}).
		Where("id = ?", s.product.ID).
		UpdateColumn("unit_price", decimal.RequireFromString("99.99")).Error)

	var item models.OrderItem
	s.Require().NoError(s.db.First(&item, "order_id = ?", order.ID).Error)
	s.True(item.UnitPrice.Equal(decimal.RequireFromString("12.50")))
}

func (s *OrderServiceTestSuite) TestPlaceOrderUnknownCart() {
	_, err := s.orders.PlaceOrder(uuid.New(), &PlaceOrderRequest{CartID: uuid.New()})
	s.True(IsValidation(err))

	var orderCount int64
	s.Require().NoError(s.db.Model(&models.Order{}).Count(&orderCount).Error)
	s.Zero(orderCount)
}

func (s *OrderServiceTestSuite) TestPlaceOrderEmptyCart() {
	cart, err := s.carts.CreateCart()
	s.Require().NoError(err)

	_, err = s.orders.PlaceOrder(uuid.New(), &PlaceOrderRequest{CartID: cart.ID})
	s.True(IsValidation(err))
	s.EqualError(err, "cart is empty")

	// An empty cart survives a failed placement.
	_, err = s.carts.GetCart(cart.ID)
	s.NoError(err)
}

func (s *OrderServiceTestSuite) TestPlaceOrderTwiceProducesOneOrder() {
	cart := s.newCartWithItem(1)
	principalID := uuid.New()

	_, err := s.orders.PlaceOrder(principalID, &PlaceOrderRequest{CartID: cart.ID})
	s.Require().NoError(err)

	_, err = s.orders.PlaceOrder(principalID, &PlaceOrderRequest{CartID: cart.ID})
	s.Error(err)

	var orderCount int64
	s.Require().NoError(s.db.Model(&models.Order{}).Count(&orderCount).Error)
	s.EqualValues(1, orderCount)
}

func (s *OrderServiceTestSuite) TestPlaceOrderLosesRaceToCartConsumption() {
	cart := s.newCartWithItem(2)

	// A competing placement consumes the cart after this transaction's
	// pre-validation but before its own cart delete. The delete then
	// touches zero rows, which must roll the whole placement back.
	consumed := false
	err := s.db.Callback().Create().Before("gorm:create").Register("storefront:test_consume_cart", func(tx *gorm.DB) {
		if consumed || tx.Statement.Table != "order_items" {
			return
		}
		consumed = true
		session := tx.Session(&gorm.Session{NewDB: true})
		session.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{})
		session.Delete(&models.Cart{}, "id = ?", cart.ID)
	})
	s.Require().NoError(err)
	defer s.db.Callback().Create().Remove("storefront:test_consume_cart")

	_, placeErr := s.orders.PlaceOrder(uuid.New(), &PlaceOrderRequest{CartID: cart.ID})
	s.ErrorIs(placeErr, ErrConcurrentModification)

	// Nothing survived the rollback.
	var orderCount int64
	s.Require().NoError(s.db.Model(&models.Order{}).Count(&orderCount).Error)
	s.Zero(orderCount)

	var orderItemCount int64
	s.Require().NoError(s.db.Model(&models.OrderItem{}).Count(&orderItemCount).Error)
	s.Zero(orderItemCount)

	s.Empty(s.listener.received)
}

func (s *OrderServiceTestSuite) TestPlaceOrderPublishesEvent() {
	cart := s.newCartWithItem(1)

	order, err := s.orders.PlaceOrder(uuid.New(), &PlaceOrderRequest{CartID: cart.ID})
	s.Require().NoError(err)

	s.Require().Len(s.listener.received, 1)
	s.Equal(order.ID, s.listener.received[0].Order.ID)
}

func (s *OrderServiceTestSuite) TestPlaceOrderCreatesCustomerOnFirstOrder() {
	cart := s.newCartWithItem(1)
	principalID := uuid.New()

	order, err := s.orders.PlaceOrder(principalID, &PlaceOrderRequest{CartID: cart.ID})
	s.Require().NoError(err)

	var customer models.Customer
	s.Require().NoError(s.db.First(&customer, "principal_id = ?", principalID).Error)
	s.Equal(customer.ID, order.CustomerID)
	s.Equal(models.MembershipBronze, customer.Membership)
}

func (s *OrderServiceTestSuite) TestGetOrderHidesOtherCustomers() {
	cart := s.newCartWithItem(1)
	owner := uuid.New()

	order, err := s.orders.PlaceOrder(owner, &PlaceOrderRequest{CartID: cart.ID})
	s.Require().NoError(err)

	// The owner sees it.
	_, err = s.orders.GetOrder(order.ID, owner, false)
	s.NoError(err)

	// Another customer does not, and cannot tell it exists.
	_, err = s.orders.GetOrder(order.ID, uuid.New(), false)
	s.True(IsNotFound(err))

	// Staff sees everything.
	_, err = s.orders.GetOrder(order.ID, uuid.New(), true)
	s.NoError(err)
}

func (s *OrderServiceTestSuite) TestListOrdersScopedToCustomer() {
	first := uuid.New()
	second := uuid.New()

	cart := s.newCartWithItem(1)
	_, err := s.orders.PlaceOrder(first, &PlaceOrderRequest{CartID: cart.ID})
	s.Require().NoError(err)

	cart = s.newCartWithItem(2)
	_, err = s.orders.PlaceOrder(second, &PlaceOrderRequest{CartID: cart.ID})
	s.Require().NoError(err)

	params := defaultPaginationParams()
	mine, total, err := s.orders.ListOrders(first, false, params)
	s.Require().NoError(err)
	s.EqualValues(1, total)
	s.Len(mine, 1)

	all, total, err := s.orders.ListOrders(first, true, params)
	s.Require().NoError(err)
	s.EqualValues(2, total)
	s.Len(all, 2)
}

func (s *OrderServiceTestSuite) TestUpdatePaymentStatus() {
	cart := s.newCartWithItem(1)
	order, err := s.orders.PlaceOrder(uuid.New(), &PlaceOrderRequest{CartID: cart.ID})
	s.Require().NoError(err)

	updated, err := s.orders.UpdatePaymentStatus(order.ID, &UpdateOrderRequest{
		PaymentStatus: models.PaymentStatusComplete,
	})
	s.Require().NoError(err)
	s.Equal(models.PaymentStatusComplete, updated.PaymentStatus)

	_, err = s.orders.UpdatePaymentStatus(order.ID, &UpdateOrderRequest{
		PaymentStatus: models.PaymentStatus("shipped"),
	})
	s.True(IsValidation(err))
}

func (s *OrderServiceTestSuite) TestDeleteOrderRemovesItems() {
	cart := s.newCartWithItem(1)
	order, err := s.orders.PlaceOrder(uuid.New(), &PlaceOrderRequest{CartID: cart.ID})
	s.Require().NoError(err)

	s.Require().NoError(s.orders.DeleteOrder(order.ID))

	var itemCount int64
	s.Require().NoError(s.db.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&itemCount).Error)
	s.Zero(itemCount)

	s.True(IsNotFound(s.orders.DeleteOrder(order.ID)))
}

func TestOrderServiceSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}
