package service

import (
	"context"
	"log"
	"time"

	"food-ordering/api/models"
)

const availableOrdersLimit = 20

// DeliveryService is the courier side of the state machine: a pull queue of
// ready orders, single-assignment acceptance, and delivery progression.
type DeliveryService struct {
	orders   OrderStore
	users    UserStore
	events   EventPublisher
	presence Presence
}

func NewDeliveryService(orders OrderStore, users UserStore, events EventPublisher, presence Presence) *DeliveryService {
	return &DeliveryService{orders: orders, users: users, events: events, presence: presence}
}

// AvailableOrders lists ready, unassigned orders oldest-first. Any available
// courier may attempt to accept any of them.
func (s *DeliveryService) AvailableOrders(ctx context.Context) ([]models.Order, error) {
	return s.orders.ListReadyUnassigned(ctx, availableOrdersLimit)
}

// Accept claims a ready order for the courier. The claim is a conditional
// update keyed on (status=ready, no assignee); when two couriers race, exactly
// one wins and the loser gets ErrAlreadyAssigned.
func (s *DeliveryService) Accept(ctx context.Context, courierID, orderID string) (*models.Order, error) {
	courier, err := s.users.Get(ctx, courierID)
	if err != nil {
		return nil, err
	}
	if courier.Courier == nil {
		return nil, ErrForbidden
	}
	if !courier.Courier.IsAvailable {
		return nil, ErrCourierUnavailable
	}

	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.DeliveryBoyID != "" {
		return nil, ErrAlreadyAssigned
	}
	if err := CanTransition(order.Status, models.OrderStatusPickedUp, models.RoleDelivery); err != nil {
		return nil, err
	}

	entry := models.StatusEntry{
		Status:    models.OrderStatusPickedUp,
		Timestamp: time.Now(),
		Note:      "Order picked up by delivery boy",
	}
	ok, err := s.orders.AssignCourier(ctx, orderID, courierID, entry)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAlreadyAssigned
	}

	if err := s.users.SetCourierAvailability(ctx, courierID, false); err != nil {
		return nil, err
	}
	if err := s.presence.SetOrderCourier(ctx, orderID, courierID); err != nil {
		log.Printf("Failed to record order courier in presence: %v", err)
	}

	s.events.OrderEvent("order_accepted", orderID, courierID, models.OrderStatusPickedUp)
	return s.orders.Get(ctx, orderID)
}

// MarkOnTheWay moves picked-up → on-the-way; only the assigned courier may.
func (s *DeliveryService) MarkOnTheWay(ctx context.Context, courierID, orderID string) (*models.Order, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.DeliveryBoyID != courierID {
		return nil, ErrForbidden
	}
	if err := CanTransition(order.Status, models.OrderStatusOnTheWay, models.RoleDelivery); err != nil {
		return nil, err
	}

	entry := models.StatusEntry{
		Status:    models.OrderStatusOnTheWay,
		Timestamp: time.Now(),
		Note:      "Order is on the way to customer",
	}
	ok, err := s.orders.TransitionStatus(ctx, orderID, order.Status, models.OrderStatusOnTheWay, entry)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidTransition
	}

	s.events.OrderEvent("order_on_the_way", orderID, courierID, models.OrderStatusOnTheWay)
	return s.orders.Get(ctx, orderID)
}

// MarkDelivered completes the delivery: cash orders flip to paid, the courier
// is credited the delivery fee and becomes available again.
func (s *DeliveryService) MarkDelivered(ctx context.Context, courierID, orderID string) (*models.Order, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.DeliveryBoyID != courierID {
		return nil, ErrForbidden
	}
	if err := CanTransition(order.Status, models.OrderStatusDelivered, models.RoleDelivery); err != nil {
		return nil, err
	}

	now := time.Now()
	entry := models.StatusEntry{
		Status:    models.OrderStatusDelivered,
		Timestamp: now,
		Note:      "Order delivered successfully",
	}
	markPaid := order.PaymentMethod == models.PaymentCash
	ok, err := s.orders.MarkDelivered(ctx, orderID, courierID, now, markPaid, entry)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidTransition
	}

	if err := s.users.AddDelivery(ctx, courierID, order.DeliveryFee); err != nil {
		return nil, err
	}

	s.events.OrderEvent("order_delivered", orderID, courierID, models.OrderStatusDelivered)
	return s.orders.Get(ctx, orderID)
}

// ToggleAvailability flips the courier's availability. Not allowed while the
// courier holds a picked-up or on-the-way order.
func (s *DeliveryService) ToggleAvailability(ctx context.Context, courierID string) (bool, error) {
	if _, err := s.orders.ActiveByCourier(ctx, courierID); err == nil {
		return false, ErrActiveDelivery
	} else if err != ErrNotFound {
		return false, err
	}

	courier, err := s.users.Get(ctx, courierID)
	if err != nil {
		return false, err
	}
	if courier.Courier == nil {
		return false, ErrForbidden
	}

	available := !courier.Courier.IsAvailable
	if err := s.users.SetCourierAvailability(ctx, courierID, available); err != nil {
		return false, err
	}
	return available, nil
}

func (s *DeliveryService) UpdateLocation(ctx context.Context, courierID string, lat, lon float64) error {
	if err := s.users.SetCourierLocation(ctx, courierID, lat, lon); err != nil {
		return err
	}
	if err := s.presence.SetCourierLocation(ctx, courierID, lat, lon); err != nil {
		log.Printf("Failed to update courier presence: %v", err)
	}
	return nil
}

func (s *DeliveryService) MyOrders(ctx context.Context, courierID string, status models.OrderStatus) ([]models.Order, error) {
	return s.orders.ListByCourier(ctx, courierID, status)
}

// ActiveDelivery returns the courier's current picked-up or on-the-way order,
// or nil when there is none.
func (s *DeliveryService) ActiveDelivery(ctx context.Context, courierID string) (*models.Order, error) {
	order, err := s.orders.ActiveByCourier(ctx, courierID)
	if err == ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

// CourierDashboard aggregates the courier's day and lifetime stats.
type CourierDashboard struct {
	TodayDeliveries  int            `json:"today_deliveries"`
	TodayEarnings    float64        `json:"today_earnings"`
	TotalDeliveries  int            `json:"total_deliveries"`
	TotalEarnings    float64        `json:"total_earnings"`
	Rating           float64        `json:"rating"`
	IsAvailable      bool           `json:"is_available"`
	ActiveDelivery   *models.Order  `json:"active_delivery"`
	RecentDeliveries []models.Order `json:"recent_deliveries"`
}

func (s *DeliveryService) Dashboard(ctx context.Context, courierID string) (*CourierDashboard, error) {
	courier, err := s.users.Get(ctx, courierID)
	if err != nil {
		return nil, err
	}
	if courier.Courier == nil {
		return nil, ErrForbidden
	}

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	day, err := s.orders.CourierDayStats(ctx, courierID, midnight)
	if err != nil {
		return nil, err
	}

	active, err := s.ActiveDelivery(ctx, courierID)
	if err != nil {
		return nil, err
	}
	recent, err := s.orders.RecentByCourier(ctx, courierID, 5)
	if err != nil {
		return nil, err
	}

	return &CourierDashboard{
		TodayDeliveries:  day.Deliveries,
		TodayEarnings:    day.Earnings,
		TotalDeliveries:  courier.Courier.TotalDeliveries,
		TotalEarnings:    courier.Courier.Earnings,
		Rating:           courier.Courier.Rating,
		IsAvailable:      courier.Courier.IsAvailable,
		ActiveDelivery:   active,
		RecentDeliveries: recent,
	}, nil
}
