package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"food-ordering/api/models"
	"food-ordering/api/service"
)

type Carts struct {
	db *sql.DB
}

func NewCarts(db *sql.DB) *Carts { return &Carts{db: db} }

var _ service.CartStore = (*Carts)(nil)

func (s *Carts) GetByCustomer(ctx context.Context, customerID string) (*models.Cart, error) {
	var (
		cart       models.Cart
		restaurant sql.NullString
		itemsRaw   []byte
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, customer_id, restaurant_id, items, subtotal, tax, delivery_fee, total, created_at, updated_at
		FROM carts WHERE customer_id=$1
	`, customerID).Scan(&cart.ID, &cart.CustomerID, &restaurant, &itemsRaw,
		&cart.Subtotal, &cart.Tax, &cart.DeliveryFee, &cart.Total,
		&cart.CreatedAt, &cart.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, service.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	if restaurant.Valid {
		cart.RestaurantID = restaurant.String
	}
	if err := json.Unmarshal(itemsRaw, &cart.Items); err != nil {
		return nil, fmt.Errorf("failed to decode cart items: %w", err)
	}
	return &cart, nil
}

func (s *Carts) Create(ctx context.Context, cart *models.Cart) error {
	items, err := json.Marshal(cart.Items)
	if err != nil {
		return fmt.Errorf("failed to encode cart items: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO carts (id, customer_id, restaurant_id, items, subtotal, tax, delivery_fee, total, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10)
	`, cart.ID, cart.CustomerID, cart.RestaurantID, items,
		cart.Subtotal, cart.Tax, cart.DeliveryFee, cart.Total,
		cart.CreatedAt, cart.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create cart: %w", err)
	}
	return nil
}

func (s *Carts) Save(ctx context.Context, cart *models.Cart) error {
	items, err := json.Marshal(cart.Items)
	if err != nil {
		return fmt.Errorf("failed to encode cart items: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE carts
		SET restaurant_id=NULLIF($2, ''), items=$3, subtotal=$4, tax=$5, delivery_fee=$6, total=$7, updated_at=$8
		WHERE id=$1
	`, cart.ID, cart.RestaurantID, items,
		cart.Subtotal, cart.Tax, cart.DeliveryFee, cart.Total, cart.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return service.ErrNotFound
	}
	return nil
}
