package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"food-ordering/api/models"
	"food-ordering/api/service"
)

// Orders is the Postgres order store. Items, the delivery address and the
// status history live in JSONB columns, so every lifecycle change is a single
// atomically-updated row; transitions are conditional updates checked through
// rows-affected.
type Orders struct {
	db *sql.DB
}

func NewOrders(db *sql.DB) *Orders { return &Orders{db: db} }

var _ service.OrderStore = (*Orders)(nil)

const orderColumns = `id, order_number, customer_id, restaurant_id, delivery_boy_id,
	items, delivery_address, payment_method, payment_status,
	subtotal, tax, delivery_fee, total,
	preparation_time, estimated_delivery_time, actual_delivery_time,
	status, status_history, cancellation_reason,
	food_rating, delivery_rating, rating_comment,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var (
		o            models.Order
		deliveryBoy  sql.NullString
		deliveredAt  sql.NullTime
		itemsRaw     []byte
		addressRaw   []byte
		historyRaw   []byte
		foodRating   sql.NullInt64
		delivRating  sql.NullInt64
		ratingHolder string
	)

	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.CustomerID, &o.RestaurantID, &deliveryBoy,
		&itemsRaw, &addressRaw, &o.PaymentMethod, &o.PaymentStatus,
		&o.Subtotal, &o.Tax, &o.DeliveryFee, &o.Total,
		&o.PreparationTime, &o.EstimatedDeliveryTime, &deliveredAt,
		&o.Status, &historyRaw, &o.CancellationReason,
		&foodRating, &delivRating, &ratingHolder,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, service.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}

	if deliveryBoy.Valid {
		o.DeliveryBoyID = deliveryBoy.String
	}
	if deliveredAt.Valid {
		t := deliveredAt.Time
		o.ActualDeliveryTime = &t
	}
	if err := json.Unmarshal(itemsRaw, &o.Items); err != nil {
		return nil, fmt.Errorf("failed to decode order items: %w", err)
	}
	if err := json.Unmarshal(addressRaw, &o.DeliveryAddress); err != nil {
		return nil, fmt.Errorf("failed to decode delivery address: %w", err)
	}
	if err := json.Unmarshal(historyRaw, &o.StatusHistory); err != nil {
		return nil, fmt.Errorf("failed to decode status history: %w", err)
	}
	if foodRating.Valid || delivRating.Valid {
		o.Rating = &models.OrderRating{
			Food:     int(foodRating.Int64),
			Delivery: int(delivRating.Int64),
			Comment:  ratingHolder,
		}
	}
	return &o, nil
}

func (s *Orders) Get(ctx context.Context, id string) (*models.Order, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id)
	return scanOrder(row)
}

func (s *Orders) Checkout(ctx context.Context, order *models.Order, cart *models.Cart) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to encode order items: %w", err)
	}
	address, err := json.Marshal(order.DeliveryAddress)
	if err != nil {
		return fmt.Errorf("failed to encode delivery address: %w", err)
	}
	history, err := json.Marshal(order.StatusHistory)
	if err != nil {
		return fmt.Errorf("failed to encode status history: %w", err)
	}
	cartItems, err := json.Marshal(cart.Items)
	if err != nil {
		return fmt.Errorf("failed to encode cart items: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders
			(id, order_number, customer_id, restaurant_id, items, delivery_address,
			 payment_method, payment_status, subtotal, tax, delivery_fee, total,
			 preparation_time, estimated_delivery_time, status, status_history,
			 created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
	`, order.ID, order.OrderNumber, order.CustomerID, order.RestaurantID, items, address,
		order.PaymentMethod, order.PaymentStatus, order.Subtotal, order.Tax,
		order.DeliveryFee, order.Total, order.PreparationTime,
		order.EstimatedDeliveryTime, order.Status, history,
		order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE carts
		SET restaurant_id=NULL, items=$2, subtotal=0, tax=0, delivery_fee=0, total=0, updated_at=now()
		WHERE id=$1
	`, cart.ID, cartItems)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit checkout: %w", err)
	}
	return nil
}

func (s *Orders) CountSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders WHERE created_at >= $1`, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

func (s *Orders) queryOrders(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (s *Orders) ListByCustomer(ctx context.Context, customerID string, status models.OrderStatus, page, limit int) ([]models.Order, int, error) {
	where := `customer_id=$1`
	args := []any{customerID}
	if status != "" {
		where += ` AND status=$2`
		args = append(args, status)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders WHERE `+where, args...).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM orders WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		orderColumns, where, limit, (page-1)*limit)
	orders, err := s.queryOrders(ctx, query, args...)
	return orders, count, err
}

func (s *Orders) ListByRestaurant(ctx context.Context, restaurantID string, status models.OrderStatus, page, limit int) ([]models.Order, int, error) {
	where := `restaurant_id=$1`
	args := []any{restaurantID}
	if status != "" {
		where += ` AND status=$2`
		args = append(args, status)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders WHERE `+where, args...).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM orders WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		orderColumns, where, limit, (page-1)*limit)
	orders, err := s.queryOrders(ctx, query, args...)
	return orders, count, err
}

func (s *Orders) ListReadyUnassigned(ctx context.Context, limit int) ([]models.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders
		WHERE status='ready' AND delivery_boy_id IS NULL
		ORDER BY created_at ASC LIMIT %d`, orderColumns, limit)
	return s.queryOrders(ctx, query)
}

func (s *Orders) ListByCourier(ctx context.Context, courierID string, status models.OrderStatus) ([]models.Order, error) {
	where := `delivery_boy_id=$1`
	args := []any{courierID}
	if status != "" {
		where += ` AND status=$2`
		args = append(args, status)
	}
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE %s ORDER BY created_at DESC`, orderColumns, where)
	return s.queryOrders(ctx, query, args...)
}

func (s *Orders) ActiveByCourier(ctx context.Context, courierID string) (*models.Order, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders
		WHERE delivery_boy_id=$1 AND status IN ('picked-up','on-the-way')
		LIMIT 1`, courierID)
	return scanOrder(row)
}

func (s *Orders) RecentByCourier(ctx context.Context, courierID string, limit int) ([]models.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders
		WHERE delivery_boy_id=$1 AND status='delivered'
		ORDER BY actual_delivery_time DESC LIMIT %d`, orderColumns, limit)
	return s.queryOrders(ctx, query, courierID)
}

func historyEntry(entry models.StatusEntry) ([]byte, error) {
	b, err := json.Marshal([]models.StatusEntry{entry})
	if err != nil {
		return nil, fmt.Errorf("failed to encode status entry: %w", err)
	}
	return b, nil
}

func (s *Orders) TransitionStatus(ctx context.Context, id string, from, to models.OrderStatus, entry models.StatusEntry) (bool, error) {
	b, err := historyEntry(entry)
	if err != nil {
		return false, err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE orders
		SET status=$3, status_history = status_history || $4::jsonb, updated_at=now()
		WHERE id=$1 AND status=$2
	`, id, from, to, b)
	if err != nil {
		return false, fmt.Errorf("failed to transition order: %w", err)
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (s *Orders) SetCancelled(ctx context.Context, id string, from models.OrderStatus, reason string, entry models.StatusEntry) (bool, error) {
	b, err := historyEntry(entry)
	if err != nil {
		return false, err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE orders
		SET status='cancelled', cancellation_reason=$3,
		    status_history = status_history || $4::jsonb, updated_at=now()
		WHERE id=$1 AND status=$2
	`, id, from, reason, b)
	if err != nil {
		return false, fmt.Errorf("failed to cancel order: %w", err)
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// AssignCourier claims the order with a compare-and-set; the WHERE clause
// re-checks both conditions so concurrent acceptors cannot both win.
func (s *Orders) AssignCourier(ctx context.Context, id, courierID string, entry models.StatusEntry) (bool, error) {
	b, err := historyEntry(entry)
	if err != nil {
		return false, err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE orders
		SET status='picked-up', delivery_boy_id=$2,
		    status_history = status_history || $3::jsonb, updated_at=now()
		WHERE id=$1 AND status='ready' AND delivery_boy_id IS NULL
	`, id, courierID, b)
	if err != nil {
		return false, fmt.Errorf("failed to assign courier: %w", err)
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (s *Orders) MarkDelivered(ctx context.Context, id, courierID string, deliveredAt time.Time, markPaid bool, entry models.StatusEntry) (bool, error) {
	b, err := historyEntry(entry)
	if err != nil {
		return false, err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE orders
		SET status='delivered', actual_delivery_time=$3,
		    payment_status = CASE WHEN $4 THEN 'paid' ELSE payment_status END,
		    status_history = status_history || $5::jsonb, updated_at=now()
		WHERE id=$1 AND status='on-the-way' AND delivery_boy_id=$2
	`, id, courierID, deliveredAt, markPaid, b)
	if err != nil {
		return false, fmt.Errorf("failed to mark order delivered: %w", err)
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (s *Orders) SetRating(ctx context.Context, id string, rating *models.OrderRating) error {
	var food, delivery sql.NullInt64
	if rating.Food > 0 {
		food = sql.NullInt64{Int64: int64(rating.Food), Valid: true}
	}
	if rating.Delivery > 0 {
		delivery = sql.NullInt64{Int64: int64(rating.Delivery), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE orders SET food_rating=$2, delivery_rating=$3, rating_comment=$4, updated_at=now()
		WHERE id=$1
	`, id, food, delivery, rating.Comment)
	if err != nil {
		return fmt.Errorf("failed to set rating: %w", err)
	}
	return nil
}

// FoodRatingStats is a full recomputation over every rated order for the
// restaurant; correctness over efficiency.
func (s *Orders) FoodRatingStats(ctx context.Context, restaurantID string) (service.RatingStats, error) {
	var stats service.RatingStats
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(AVG(food_rating), 0), COUNT(food_rating)
		FROM orders WHERE restaurant_id=$1 AND food_rating IS NOT NULL
	`, restaurantID).Scan(&stats.Average, &stats.Count)
	if err != nil {
		return stats, fmt.Errorf("failed to aggregate food ratings: %w", err)
	}
	return stats, nil
}

func (s *Orders) DeliveryRatingStats(ctx context.Context, courierID string) (service.RatingStats, error) {
	var stats service.RatingStats
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(AVG(delivery_rating), 0), COUNT(delivery_rating)
		FROM orders WHERE delivery_boy_id=$1 AND delivery_rating IS NOT NULL
	`, courierID).Scan(&stats.Average, &stats.Count)
	if err != nil {
		return stats, fmt.Errorf("failed to aggregate delivery ratings: %w", err)
	}
	return stats, nil
}

func (s *Orders) Statistics(ctx context.Context, customerID string) (*models.OrderStatistics, error) {
	var stats models.OrderStatistics
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status='delivered'),
		       COUNT(*) FILTER (WHERE status='cancelled'),
		       COALESCE(SUM(total) FILTER (WHERE status='delivered'), 0)
		FROM orders WHERE customer_id=$1
	`, customerID).Scan(&stats.TotalOrders, &stats.CompletedOrders, &stats.CancelledOrders, &stats.TotalSpent)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate order statistics: %w", err)
	}
	stats.ActiveOrders = stats.TotalOrders - stats.CompletedOrders - stats.CancelledOrders
	return &stats, nil
}

func (s *Orders) RestaurantStats(ctx context.Context, restaurantID string, since time.Time) (*service.RestaurantStats, error) {
	var stats service.RestaurantStats
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FILTER (WHERE created_at >= $2),
		       COALESCE(SUM(total) FILTER (WHERE created_at >= $2 AND status <> 'cancelled'), 0),
		       COUNT(*),
		       COUNT(*) FILTER (WHERE status NOT IN ('delivered','cancelled'))
		FROM orders WHERE restaurant_id=$1
	`, restaurantID, since).Scan(&stats.TodayOrders, &stats.TodayRevenue, &stats.TotalOrders, &stats.ActiveOrders)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate restaurant stats: %w", err)
	}
	return &stats, nil
}

func (s *Orders) CourierDayStats(ctx context.Context, courierID string, since time.Time) (*service.CourierDayStats, error) {
	var stats service.CourierDayStats
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(delivery_fee), 0)
		FROM orders
		WHERE delivery_boy_id=$1 AND status='delivered' AND actual_delivery_time >= $2
	`, courierID, since).Scan(&stats.Deliveries, &stats.Earnings)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate courier stats: %w", err)
	}
	return &stats, nil
}
