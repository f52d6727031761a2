package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"food-ordering/api/models"
)

const (
	defaultPrepTime      = 20 // minutes, when the restaurant has none set
	deliveryTimeEstimate = 20 // minutes, flat city-wide estimate
)

// OrderService drives checkout, the customer-facing order endpoints and the
// owner side of the state machine.
type OrderService struct {
	orders      OrderStore
	carts       CartStore
	menu        MenuStore
	restaurants RestaurantStore
	users       UserStore
	events      EventPublisher
}

func NewOrderService(orders OrderStore, carts CartStore, menu MenuStore, restaurants RestaurantStore, users UserStore, events EventPublisher) *OrderService {
	return &OrderService{
		orders:      orders,
		carts:       carts,
		menu:        menu,
		restaurants: restaurants,
		users:       users,
		events:      events,
	}
}

// Create turns the customer's cart into an order. Items and totals are frozen
// exactly as the customer saw them; the cart is emptied in the same operation.
func (s *OrderService) Create(ctx context.Context, customerID string, address models.DeliveryAddress, method models.PaymentMethod, instructions string) (*models.Order, error) {
	switch method {
	case models.PaymentCash, models.PaymentCard, models.PaymentUPI, models.PaymentWallet:
	default:
		return nil, fmt.Errorf("unknown payment method %q: %w", method, ErrInvalidInput)
	}

	cart, err := s.carts.GetByCustomer(ctx, customerID)
	if err != nil {
		if err == ErrNotFound {
			return nil, ErrEmptyCart
		}
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	// Every line must still be available at checkout time.
	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		menuItem, err := s.menu.GetItem(ctx, line.MenuItemID)
		if err != nil || !menuItem.IsAvailable {
			name := line.MenuItemID
			if menuItem != nil {
				name = menuItem.Name
			}
			return nil, fmt.Errorf("%s is no longer available: %w", name, ErrItemUnavailable)
		}
		items = append(items, models.OrderItem{
			MenuItemID:     line.MenuItemID,
			Name:           menuItem.Name,
			Quantity:       line.Quantity,
			UnitPrice:      line.UnitPrice,
			Customizations: line.Customizations,
			TotalPrice:     line.TotalPrice,
		})
	}

	prepTime := defaultPrepTime
	if restaurant, err := s.restaurants.Get(ctx, cart.RestaurantID); err == nil && restaurant.PreparationTime > 0 {
		prepTime = restaurant.PreparationTime
	}

	now := time.Now()
	number, err := s.nextOrderNumber(ctx, now)
	if err != nil {
		return nil, err
	}

	paymentStatus := models.PaymentStatusPaid
	if method == models.PaymentCash {
		paymentStatus = models.PaymentStatusPending
	}

	address.Instructions = instructions
	order := &models.Order{
		ID:              uuid.NewString(),
		OrderNumber:     number,
		CustomerID:      customerID,
		RestaurantID:    cart.RestaurantID,
		Items:           items,
		DeliveryAddress: address,
		PaymentMethod:   method,
		PaymentStatus:   paymentStatus,
		// Totals copied verbatim from the cart, never recomputed.
		Subtotal:              cart.Subtotal,
		Tax:                   cart.Tax,
		DeliveryFee:           cart.DeliveryFee,
		Total:                 cart.Total,
		PreparationTime:       prepTime,
		EstimatedDeliveryTime: now.Add(time.Duration(prepTime+deliveryTimeEstimate) * time.Minute),
		Status:                models.OrderStatusPending,
		StatusHistory: []models.StatusEntry{{
			Status:    models.OrderStatusPending,
			Timestamp: now,
			Note:      "Order placed",
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	cleared := *cart
	cleared.Items = []models.CartItem{}
	cleared.RestaurantID = ""
	cleared.DeliveryFee = 0
	cleared.Recalculate()
	cleared.UpdatedAt = now

	if err := s.orders.Checkout(ctx, order, &cleared); err != nil {
		return nil, err
	}

	s.events.OrderEvent("order_placed", order.ID, customerID, order.Status)
	return order, nil
}

func (s *OrderService) nextOrderNumber(ctx context.Context, now time.Time) (string, error) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	count, err := s.orders.CountSince(ctx, midnight)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ORD_%s_%03d", now.Format("20060102"), count+1), nil
}

// Get returns a single order to its customer, its assigned courier, or the
// owner of the restaurant it belongs to.
func (s *OrderService) Get(ctx context.Context, callerID string, role models.Role, orderID string) (*models.Order, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	switch {
	case order.CustomerID == callerID:
	case order.DeliveryBoyID == callerID:
	case role == models.RoleOwner:
		restaurant, err := s.restaurants.GetByOwner(ctx, callerID)
		if err != nil || restaurant.ID != order.RestaurantID {
			return nil, ErrForbidden
		}
	default:
		return nil, ErrForbidden
	}
	return order, nil
}

func (s *OrderService) ListMine(ctx context.Context, customerID string, status models.OrderStatus, page, limit int) ([]models.Order, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return s.orders.ListByCustomer(ctx, customerID, status, page, limit)
}

// Cancel moves the order to cancelled on behalf of its customer. Allowed only
// before pickup; the update is conditional on the status the caller saw.
func (s *OrderService) Cancel(ctx context.Context, customerID, orderID, reason string) (*models.Order, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, ErrForbidden
	}
	if err := CanTransition(order.Status, models.OrderStatusCancelled, models.RoleCustomer); err != nil {
		return nil, err
	}

	entry := models.StatusEntry{
		Status:    models.OrderStatusCancelled,
		Timestamp: time.Now(),
		Note:      reason,
	}
	ok, err := s.orders.SetCancelled(ctx, orderID, order.Status, reason, entry)
	if err != nil {
		return nil, err
	}
	if !ok {
		// The order advanced concurrently; nothing changed.
		return nil, ErrInvalidTransition
	}

	s.events.OrderEvent("order_cancelled", orderID, customerID, models.OrderStatusCancelled)
	return s.orders.Get(ctx, orderID)
}

// Rate records post-delivery feedback and recomputes the restaurant and
// courier averages over all historical ratings. Rating twice overwrites the
// previous value.
func (s *OrderService) Rate(ctx context.Context, customerID, orderID string, foodRating, deliveryRating int, comment string) (*models.Order, error) {
	if foodRating < 0 || foodRating > 5 || deliveryRating < 0 || deliveryRating > 5 {
		return nil, fmt.Errorf("ratings must be between 1 and 5: %w", ErrInvalidInput)
	}

	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, ErrForbidden
	}
	if order.Status != models.OrderStatusDelivered {
		return nil, ErrNotDelivered
	}

	rating := &models.OrderRating{
		Food:     foodRating,
		Delivery: deliveryRating,
		Comment:  comment,
	}
	if err := s.orders.SetRating(ctx, orderID, rating); err != nil {
		return nil, err
	}

	if foodRating > 0 {
		stats, err := s.orders.FoodRatingStats(ctx, order.RestaurantID)
		if err != nil {
			return nil, err
		}
		if err := s.restaurants.SetRating(ctx, order.RestaurantID, stats.Average, stats.Count); err != nil {
			return nil, err
		}
	}
	if deliveryRating > 0 && order.DeliveryBoyID != "" {
		stats, err := s.orders.DeliveryRatingStats(ctx, order.DeliveryBoyID)
		if err != nil {
			return nil, err
		}
		if err := s.users.SetCourierRating(ctx, order.DeliveryBoyID, stats.Average); err != nil {
			return nil, err
		}
	}

	return s.orders.Get(ctx, orderID)
}

func (s *OrderService) Statistics(ctx context.Context, customerID string) (*models.OrderStatistics, error) {
	return s.orders.Statistics(ctx, customerID)
}

// UpdateStatus advances an order through the restaurant-owned part of the
// state machine (confirmed, preparing, ready).
func (s *OrderService) UpdateStatus(ctx context.Context, ownerID, orderID string, status models.OrderStatus, note string) (*models.Order, error) {
	if !ValidStatus(status) {
		return nil, fmt.Errorf("unknown status %q: %w", status, ErrInvalidInput)
	}

	restaurant, err := s.restaurants.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.RestaurantID != restaurant.ID {
		return nil, ErrForbidden
	}
	if err := CanTransition(order.Status, status, models.RoleOwner); err != nil {
		return nil, err
	}

	entry := models.StatusEntry{Status: status, Timestamp: time.Now(), Note: note}
	ok, err := s.orders.TransitionStatus(ctx, orderID, order.Status, status, entry)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost a race with another transition; exactly one history entry wins.
		return nil, ErrInvalidTransition
	}

	s.events.OrderEvent("order_status_updated", orderID, ownerID, status)
	if status == models.OrderStatusReady {
		s.events.OrderReady(orderID)
	}
	return s.orders.Get(ctx, orderID)
}

func (s *OrderService) ListRestaurantOrders(ctx context.Context, ownerID string, status models.OrderStatus, page, limit int) ([]models.Order, int, error) {
	restaurant, err := s.restaurants.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return s.orders.ListByRestaurant(ctx, restaurant.ID, status, page, limit)
}

// RestaurantDashboard aggregates today's activity for the owner.
type RestaurantDashboard struct {
	TodayOrders  int            `json:"today_orders"`
	TodayRevenue float64        `json:"today_revenue"`
	TotalOrders  int            `json:"total_orders"`
	ActiveOrders int            `json:"active_orders"`
	Rating       float64        `json:"rating"`
	TotalReviews int            `json:"total_reviews"`
	RecentOrders []models.Order `json:"recent_orders"`
}

func (s *OrderService) RestaurantDashboard(ctx context.Context, ownerID string) (*RestaurantDashboard, error) {
	restaurant, err := s.restaurants.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	stats, err := s.orders.RestaurantStats(ctx, restaurant.ID, midnight)
	if err != nil {
		return nil, err
	}

	recent, _, err := s.orders.ListByRestaurant(ctx, restaurant.ID, "", 1, 5)
	if err != nil {
		return nil, err
	}

	return &RestaurantDashboard{
		TodayOrders:  stats.TodayOrders,
		TodayRevenue: stats.TodayRevenue,
		TotalOrders:  stats.TotalOrders,
		ActiveOrders: stats.ActiveOrders,
		Rating:       restaurant.Rating,
		TotalReviews: restaurant.TotalReviews,
		RecentOrders: recent,
	}, nil
}
