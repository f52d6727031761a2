package service

import (
	"context"
	"time"

	"food-ordering/api/models"
)

// Storage interfaces consumed by the services. The Postgres implementations
// live in the store package; tests run against store.Memory.

type CartStore interface {
	GetByCustomer(ctx context.Context, customerID string) (*models.Cart, error)
	Create(ctx context.Context, cart *models.Cart) error
	Save(ctx context.Context, cart *models.Cart) error
}

type MenuStore interface {
	GetItem(ctx context.Context, id string) (*models.MenuItem, error)
}

type RestaurantStore interface {
	Get(ctx context.Context, id string) (*models.Restaurant, error)
	GetByOwner(ctx context.Context, ownerID string) (*models.Restaurant, error)
	SetRating(ctx context.Context, id string, rating float64, totalReviews int) error
}

type UserStore interface {
	Get(ctx context.Context, id string) (*models.User, error)
	SetCourierAvailability(ctx context.Context, id string, available bool) error
	// AddDelivery credits one completed delivery: totalDeliveries+1,
	// earnings+fee, and the courier becomes available again.
	AddDelivery(ctx context.Context, id string, fee float64) error
	SetCourierRating(ctx context.Context, id string, rating float64) error
	SetCourierLocation(ctx context.Context, id string, lat, lon float64) error
}

// RatingStats is a full-scan aggregate over historical orders.
type RatingStats struct {
	Average float64
	Count   int
}

// RestaurantStats backs the owner dashboard.
type RestaurantStats struct {
	TodayOrders  int
	TodayRevenue float64
	TotalOrders  int
	ActiveOrders int
}

// CourierDayStats backs the courier dashboard.
type CourierDayStats struct {
	Deliveries int
	Earnings   float64
}

type OrderStore interface {
	Get(ctx context.Context, id string) (*models.Order, error)
	// Checkout persists the order and empties the customer's cart as one
	// logical operation; they may not fail independently.
	Checkout(ctx context.Context, order *models.Order, cart *models.Cart) error
	CountSince(ctx context.Context, since time.Time) (int, error)

	ListByCustomer(ctx context.Context, customerID string, status models.OrderStatus, page, limit int) ([]models.Order, int, error)
	ListByRestaurant(ctx context.Context, restaurantID string, status models.OrderStatus, page, limit int) ([]models.Order, int, error)
	ListReadyUnassigned(ctx context.Context, limit int) ([]models.Order, error)
	ListByCourier(ctx context.Context, courierID string, status models.OrderStatus) ([]models.Order, error)
	ActiveByCourier(ctx context.Context, courierID string) (*models.Order, error)
	RecentByCourier(ctx context.Context, courierID string, limit int) ([]models.Order, error)

	// TransitionStatus is a compare-and-set: the update applies only while the
	// order is still in from, and reports whether a row changed.
	TransitionStatus(ctx context.Context, id string, from, to models.OrderStatus, entry models.StatusEntry) (bool, error)
	SetCancelled(ctx context.Context, id string, from models.OrderStatus, reason string, entry models.StatusEntry) (bool, error)
	// AssignCourier moves ready → picked-up and claims the order for courierID
	// in one conditional update; the race loser gets ok=false.
	AssignCourier(ctx context.Context, id, courierID string, entry models.StatusEntry) (bool, error)
	MarkDelivered(ctx context.Context, id, courierID string, deliveredAt time.Time, markPaid bool, entry models.StatusEntry) (bool, error)

	SetRating(ctx context.Context, id string, rating *models.OrderRating) error
	FoodRatingStats(ctx context.Context, restaurantID string) (RatingStats, error)
	DeliveryRatingStats(ctx context.Context, courierID string) (RatingStats, error)

	Statistics(ctx context.Context, customerID string) (*models.OrderStatistics, error)
	RestaurantStats(ctx context.Context, restaurantID string, since time.Time) (*RestaurantStats, error)
	CourierDayStats(ctx context.Context, courierID string, since time.Time) (*CourierDayStats, error)
}

// EventPublisher fans order lifecycle changes out to Kafka and RabbitMQ.
// Publishing is best-effort: failures are logged, never surfaced to callers.
type EventPublisher interface {
	OrderEvent(event string, orderID, actorID string, status models.OrderStatus)
	OrderReady(orderID string)
}

// Presence mirrors courier locations and order assignments into Redis for
// external tracking consumers.
type Presence interface {
	SetCourierLocation(ctx context.Context, courierID string, lat, lon float64) error
	SetOrderCourier(ctx context.Context, orderID, courierID string) error
}
