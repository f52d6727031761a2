package store

import (
	"context"
	"database/sql"
	"fmt"

	"food-ordering/api/models"
	"food-ordering/api/service"
)

type Restaurants struct {
	db *sql.DB
}

func NewRestaurants(db *sql.DB) *Restaurants { return &Restaurants{db: db} }

var _ service.RestaurantStore = (*Restaurants)(nil)

const restaurantColumns = `id, owner_id, name, phone, address, preparation_time, is_open, rating, total_reviews`

func scanRestaurant(row *sql.Row) (*models.Restaurant, error) {
	var r models.Restaurant
	err := row.Scan(&r.ID, &r.OwnerID, &r.Name, &r.Phone, &r.Address,
		&r.PreparationTime, &r.IsOpen, &r.Rating, &r.TotalReviews)
	if err == sql.ErrNoRows {
		return nil, service.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan restaurant: %w", err)
	}
	return &r, nil
}

func (s *Restaurants) Get(ctx context.Context, id string) (*models.Restaurant, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+restaurantColumns+` FROM restaurants WHERE id=$1`, id)
	return scanRestaurant(row)
}

func (s *Restaurants) GetByOwner(ctx context.Context, ownerID string) (*models.Restaurant, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+restaurantColumns+` FROM restaurants WHERE owner_id=$1`, ownerID)
	return scanRestaurant(row)
}

func (s *Restaurants) SetRating(ctx context.Context, id string, rating float64, totalReviews int) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE restaurants SET rating=$2, total_reviews=$3 WHERE id=$1
	`, id, rating, totalReviews)
	if err != nil {
		return fmt.Errorf("failed to set restaurant rating: %w", err)
	}
	return nil
}
