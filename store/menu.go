package store

import (
	"context"
	"database/sql"
	"fmt"

	"food-ordering/api/models"
	"food-ordering/api/service"
)

type Menu struct {
	db *sql.DB
}

func NewMenu(db *sql.DB) *Menu { return &Menu{db: db} }

var _ service.MenuStore = (*Menu)(nil)

func (s *Menu) GetItem(ctx context.Context, id string) (*models.MenuItem, error) {
	var item models.MenuItem
	err := s.db.QueryRowContext(ctx, `
		SELECT id, restaurant_id, name, price, is_available FROM menu_items WHERE id=$1
	`, id).Scan(&item.ID, &item.RestaurantID, &item.Name, &item.Price, &item.IsAvailable)
	if err == sql.ErrNoRows {
		return nil, service.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}
	return &item, nil
}
