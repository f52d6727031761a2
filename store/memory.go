package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"food-ordering/api/models"
	"food-ordering/api/service"
)

// Memory is an in-process implementation of every store interface, exposed as
// typed views over one shared, mutex-guarded state. It backs the test suites
// and local development without Postgres; all conditional updates run under a
// single lock, so the compare-and-set semantics match the SQL implementation.
type Memory struct {
	mu          sync.Mutex
	carts       map[string]*models.Cart // keyed by customer id
	orders      map[string]*models.Order
	users       map[string]*models.User
	restaurants map[string]*models.Restaurant
	menu        map[string]*models.MenuItem

	courierLocations map[string][2]float64
	orderCouriers    map[string]string
}

func NewMemory() *Memory {
	return &Memory{
		carts:            make(map[string]*models.Cart),
		orders:           make(map[string]*models.Order),
		users:            make(map[string]*models.User),
		restaurants:      make(map[string]*models.Restaurant),
		menu:             make(map[string]*models.MenuItem),
		courierLocations: make(map[string][2]float64),
		orderCouriers:    make(map[string]string),
	}
}

func (m *Memory) Carts() *MemoryCarts             { return &MemoryCarts{m} }
func (m *Memory) Orders() *MemoryOrders           { return &MemoryOrders{m} }
func (m *Memory) Users() *MemoryUsers             { return &MemoryUsers{m} }
func (m *Memory) Restaurants() *MemoryRestaurants { return &MemoryRestaurants{m} }
func (m *Memory) Menu() *MemoryMenu               { return &MemoryMenu{m} }
func (m *Memory) Presence() *MemoryPresence       { return &MemoryPresence{m} }

var (
	_ service.CartStore       = (*MemoryCarts)(nil)
	_ service.MenuStore       = (*MemoryMenu)(nil)
	_ service.RestaurantStore = (*MemoryRestaurants)(nil)
	_ service.UserStore       = (*MemoryUsers)(nil)
	_ service.OrderStore      = (*MemoryOrders)(nil)
	_ service.Presence        = (*MemoryPresence)(nil)
)

// Seed helpers used by tests and local bootstrap.

func (m *Memory) PutUser(u *models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
}

func (m *Memory) PutRestaurant(r *models.Restaurant) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.restaurants[r.ID] = r
}

func (m *Memory) PutMenuItem(item *models.MenuItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.menu[item.ID] = item
}

func (m *Memory) PutOrder(o *models.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.ID] = cloneOrder(o)
}

func cloneCart(c *models.Cart) *models.Cart {
	out := *c
	out.Items = append([]models.CartItem(nil), c.Items...)
	return &out
}

func cloneOrder(o *models.Order) *models.Order {
	out := *o
	out.Items = append([]models.OrderItem(nil), o.Items...)
	out.StatusHistory = append([]models.StatusEntry(nil), o.StatusHistory...)
	if o.ActualDeliveryTime != nil {
		t := *o.ActualDeliveryTime
		out.ActualDeliveryTime = &t
	}
	if o.Rating != nil {
		r := *o.Rating
		out.Rating = &r
	}
	return &out
}

// MemoryCarts

type MemoryCarts struct{ m *Memory }

func (s *MemoryCarts) GetByCustomer(ctx context.Context, customerID string) (*models.Cart, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	cart, ok := s.m.carts[customerID]
	if !ok {
		return nil, service.ErrNotFound
	}
	return cloneCart(cart), nil
}

func (s *MemoryCarts) Create(ctx context.Context, cart *models.Cart) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.carts[cart.CustomerID] = cloneCart(cart)
	return nil
}

func (s *MemoryCarts) Save(ctx context.Context, cart *models.Cart) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.carts[cart.CustomerID]; !ok {
		return service.ErrNotFound
	}
	s.m.carts[cart.CustomerID] = cloneCart(cart)
	return nil
}

// MemoryMenu

type MemoryMenu struct{ m *Memory }

func (s *MemoryMenu) GetItem(ctx context.Context, id string) (*models.MenuItem, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	item, ok := s.m.menu[id]
	if !ok {
		return nil, service.ErrNotFound
	}
	out := *item
	return &out, nil
}

// MemoryRestaurants

type MemoryRestaurants struct{ m *Memory }

func (s *MemoryRestaurants) Get(ctx context.Context, id string) (*models.Restaurant, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	r, ok := s.m.restaurants[id]
	if !ok {
		return nil, service.ErrNotFound
	}
	out := *r
	return &out, nil
}

func (s *MemoryRestaurants) GetByOwner(ctx context.Context, ownerID string) (*models.Restaurant, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, r := range s.m.restaurants {
		if r.OwnerID == ownerID {
			out := *r
			return &out, nil
		}
	}
	return nil, service.ErrNotFound
}

func (s *MemoryRestaurants) SetRating(ctx context.Context, id string, rating float64, totalReviews int) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	r, ok := s.m.restaurants[id]
	if !ok {
		return service.ErrNotFound
	}
	r.Rating = rating
	r.TotalReviews = totalReviews
	return nil
}

// MemoryUsers

type MemoryUsers struct{ m *Memory }

func (s *MemoryUsers) Get(ctx context.Context, id string) (*models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	u, ok := s.m.users[id]
	if !ok {
		return nil, service.ErrNotFound
	}
	out := *u
	if u.Courier != nil {
		p := *u.Courier
		out.Courier = &p
	}
	return &out, nil
}

func (s *MemoryUsers) SetCourierAvailability(ctx context.Context, id string, available bool) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	u, ok := s.m.users[id]
	if !ok || u.Courier == nil {
		return service.ErrNotFound
	}
	u.Courier.IsAvailable = available
	return nil
}

func (s *MemoryUsers) AddDelivery(ctx context.Context, id string, fee float64) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	u, ok := s.m.users[id]
	if !ok || u.Courier == nil {
		return service.ErrNotFound
	}
	u.Courier.TotalDeliveries++
	u.Courier.Earnings += fee
	u.Courier.IsAvailable = true
	return nil
}

func (s *MemoryUsers) SetCourierRating(ctx context.Context, id string, rating float64) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	u, ok := s.m.users[id]
	if !ok || u.Courier == nil {
		return service.ErrNotFound
	}
	u.Courier.Rating = rating
	return nil
}

func (s *MemoryUsers) SetCourierLocation(ctx context.Context, id string, lat, lon float64) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if u, ok := s.m.users[id]; ok && u.Courier != nil {
		u.Courier.Latitude = lat
		u.Courier.Longitude = lon
		u.Courier.LastUpdate = time.Now()
	}
	return nil
}

// MemoryPresence

type MemoryPresence struct{ m *Memory }

func (s *MemoryPresence) SetCourierLocation(ctx context.Context, courierID string, lat, lon float64) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.courierLocations[courierID] = [2]float64{lat, lon}
	return nil
}

func (s *MemoryPresence) SetOrderCourier(ctx context.Context, orderID, courierID string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.orderCouriers[orderID] = courierID
	return nil
}

// MemoryOrders

type MemoryOrders struct{ m *Memory }

func (s *MemoryOrders) Get(ctx context.Context, id string) (*models.Order, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	o, ok := s.m.orders[id]
	if !ok {
		return nil, service.ErrNotFound
	}
	return cloneOrder(o), nil
}

func (s *MemoryOrders) Checkout(ctx context.Context, order *models.Order, cart *models.Cart) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.orders[order.ID] = cloneOrder(order)
	s.m.carts[cart.CustomerID] = cloneCart(cart)
	return nil
}

func (s *MemoryOrders) CountSince(ctx context.Context, since time.Time) (int, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	count := 0
	for _, o := range s.m.orders {
		if !o.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (s *MemoryOrders) collect(match func(*models.Order) bool) []models.Order {
	var out []models.Order
	for _, o := range s.m.orders {
		if match(o) {
			out = append(out, *cloneOrder(o))
		}
	}
	return out
}

func paginate(orders []models.Order, page, limit int) []models.Order {
	start := (page - 1) * limit
	if start >= len(orders) {
		return nil
	}
	end := start + limit
	if end > len(orders) {
		end = len(orders)
	}
	return orders[start:end]
}

func (s *MemoryOrders) ListByCustomer(ctx context.Context, customerID string, status models.OrderStatus, page, limit int) ([]models.Order, int, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	orders := s.collect(func(o *models.Order) bool {
		return o.CustomerID == customerID && (status == "" || o.Status == status)
	})
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return paginate(orders, page, limit), len(orders), nil
}

func (s *MemoryOrders) ListByRestaurant(ctx context.Context, restaurantID string, status models.OrderStatus, page, limit int) ([]models.Order, int, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	orders := s.collect(func(o *models.Order) bool {
		return o.RestaurantID == restaurantID && (status == "" || o.Status == status)
	})
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return paginate(orders, page, limit), len(orders), nil
}

func (s *MemoryOrders) ListReadyUnassigned(ctx context.Context, limit int) ([]models.Order, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	orders := s.collect(func(o *models.Order) bool {
		return o.Status == models.OrderStatusReady && o.DeliveryBoyID == ""
	})
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.Before(orders[j].CreatedAt) })
	if len(orders) > limit {
		orders = orders[:limit]
	}
	return orders, nil
}

func (s *MemoryOrders) ListByCourier(ctx context.Context, courierID string, status models.OrderStatus) ([]models.Order, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	orders := s.collect(func(o *models.Order) bool {
		return o.DeliveryBoyID == courierID && (status == "" || o.Status == status)
	})
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
}

func (s *MemoryOrders) ActiveByCourier(ctx context.Context, courierID string) (*models.Order, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, o := range s.m.orders {
		if o.DeliveryBoyID == courierID && o.Active() {
			return cloneOrder(o), nil
		}
	}
	return nil, service.ErrNotFound
}

func (s *MemoryOrders) RecentByCourier(ctx context.Context, courierID string, limit int) ([]models.Order, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	orders := s.collect(func(o *models.Order) bool {
		return o.DeliveryBoyID == courierID && o.Status == models.OrderStatusDelivered
	})
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].ActualDeliveryTime != nil && orders[j].ActualDeliveryTime != nil &&
			orders[i].ActualDeliveryTime.After(*orders[j].ActualDeliveryTime)
	})
	if len(orders) > limit {
		orders = orders[:limit]
	}
	return orders, nil
}

func (s *MemoryOrders) TransitionStatus(ctx context.Context, id string, from, to models.OrderStatus, entry models.StatusEntry) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	o, ok := s.m.orders[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	o.StatusHistory = append(o.StatusHistory, entry)
	o.UpdatedAt = entry.Timestamp
	return true, nil
}

func (s *MemoryOrders) SetCancelled(ctx context.Context, id string, from models.OrderStatus, reason string, entry models.StatusEntry) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	o, ok := s.m.orders[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = models.OrderStatusCancelled
	o.CancellationReason = reason
	o.StatusHistory = append(o.StatusHistory, entry)
	o.UpdatedAt = entry.Timestamp
	return true, nil
}

func (s *MemoryOrders) AssignCourier(ctx context.Context, id, courierID string, entry models.StatusEntry) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	o, ok := s.m.orders[id]
	if !ok || o.Status != models.OrderStatusReady || o.DeliveryBoyID != "" {
		return false, nil
	}
	o.Status = models.OrderStatusPickedUp
	o.DeliveryBoyID = courierID
	o.StatusHistory = append(o.StatusHistory, entry)
	o.UpdatedAt = entry.Timestamp
	return true, nil
}

func (s *MemoryOrders) MarkDelivered(ctx context.Context, id, courierID string, deliveredAt time.Time, markPaid bool, entry models.StatusEntry) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	o, ok := s.m.orders[id]
	if !ok || o.Status != models.OrderStatusOnTheWay || o.DeliveryBoyID != courierID {
		return false, nil
	}
	o.Status = models.OrderStatusDelivered
	o.ActualDeliveryTime = &deliveredAt
	if markPaid {
		o.PaymentStatus = models.PaymentStatusPaid
	}
	o.StatusHistory = append(o.StatusHistory, entry)
	o.UpdatedAt = entry.Timestamp
	return true, nil
}

func (s *MemoryOrders) SetRating(ctx context.Context, id string, rating *models.OrderRating) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	o, ok := s.m.orders[id]
	if !ok {
		return service.ErrNotFound
	}
	r := *rating
	o.Rating = &r
	return nil
}

func (s *MemoryOrders) FoodRatingStats(ctx context.Context, restaurantID string) (service.RatingStats, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var stats service.RatingStats
	var sum int
	for _, o := range s.m.orders {
		if o.RestaurantID == restaurantID && o.Rating != nil && o.Rating.Food > 0 {
			sum += o.Rating.Food
			stats.Count++
		}
	}
	if stats.Count > 0 {
		stats.Average = float64(sum) / float64(stats.Count)
	}
	return stats, nil
}

func (s *MemoryOrders) DeliveryRatingStats(ctx context.Context, courierID string) (service.RatingStats, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var stats service.RatingStats
	var sum int
	for _, o := range s.m.orders {
		if o.DeliveryBoyID == courierID && o.Rating != nil && o.Rating.Delivery > 0 {
			sum += o.Rating.Delivery
			stats.Count++
		}
	}
	if stats.Count > 0 {
		stats.Average = float64(sum) / float64(stats.Count)
	}
	return stats, nil
}

func (s *MemoryOrders) Statistics(ctx context.Context, customerID string) (*models.OrderStatistics, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var stats models.OrderStatistics
	for _, o := range s.m.orders {
		if o.CustomerID != customerID {
			continue
		}
		stats.TotalOrders++
		switch o.Status {
		case models.OrderStatusDelivered:
			stats.CompletedOrders++
			stats.TotalSpent += o.Total
		case models.OrderStatusCancelled:
			stats.CancelledOrders++
		}
	}
	stats.ActiveOrders = stats.TotalOrders - stats.CompletedOrders - stats.CancelledOrders
	return &stats, nil
}

func (s *MemoryOrders) RestaurantStats(ctx context.Context, restaurantID string, since time.Time) (*service.RestaurantStats, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var stats service.RestaurantStats
	for _, o := range s.m.orders {
		if o.RestaurantID != restaurantID {
			continue
		}
		stats.TotalOrders++
		if !o.CreatedAt.Before(since) {
			stats.TodayOrders++
			if o.Status != models.OrderStatusCancelled {
				stats.TodayRevenue += o.Total
			}
		}
		if o.Status != models.OrderStatusDelivered && o.Status != models.OrderStatusCancelled {
			stats.ActiveOrders++
		}
	}
	return &stats, nil
}

func (s *MemoryOrders) CourierDayStats(ctx context.Context, courierID string, since time.Time) (*service.CourierDayStats, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var stats service.CourierDayStats
	for _, o := range s.m.orders {
		if o.DeliveryBoyID == courierID && o.Status == models.OrderStatusDelivered &&
			o.ActualDeliveryTime != nil && !o.ActualDeliveryTime.Before(since) {
			stats.Deliveries++
			stats.Earnings += o.DeliveryFee
		}
	}
	return &stats, nil
}
