package store

import (
	"context"
	"database/sql"
	"fmt"

	"food-ordering/api/models"
	"food-ordering/api/service"
)

type Users struct {
	db *sql.DB
}

func NewUsers(db *sql.DB) *Users { return &Users{db: db} }

var _ service.UserStore = (*Users)(nil)

func (s *Users) Get(ctx context.Context, id string) (*models.User, error) {
	var (
		u          models.User
		profile    models.CourierProfile
		locationAt sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, phone, role, is_available, latitude, longitude,
		       total_deliveries, earnings, rating,
		       vehicle_type, vehicle_number, license_number, location_at, created_at
		FROM users WHERE id=$1
	`, id).Scan(&u.ID, &u.Name, &u.Phone, &u.Role,
		&profile.IsAvailable, &profile.Latitude, &profile.Longitude,
		&profile.TotalDeliveries, &profile.Earnings, &profile.Rating,
		&profile.VehicleType, &profile.VehicleNumber, &profile.LicenseNumber,
		&locationAt, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, service.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if u.Role == models.RoleDelivery {
		if locationAt.Valid {
			profile.LastUpdate = locationAt.Time
		}
		u.Courier = &profile
	}
	return &u, nil
}

func (s *Users) SetCourierAvailability(ctx context.Context, id string, available bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET is_available=$2 WHERE id=$1`, id, available)
	if err != nil {
		return fmt.Errorf("failed to set availability: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return service.ErrNotFound
	}
	return nil
}

func (s *Users) AddDelivery(ctx context.Context, id string, fee float64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET total_deliveries = total_deliveries + 1,
		    earnings = earnings + $2,
		    is_available = true
		WHERE id=$1
	`, id, fee)
	if err != nil {
		return fmt.Errorf("failed to credit delivery: %w", err)
	}
	return nil
}

func (s *Users) SetCourierRating(ctx context.Context, id string, rating float64) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET rating=$2 WHERE id=$1`, id, rating)
	if err != nil {
		return fmt.Errorf("failed to set courier rating: %w", err)
	}
	return nil
}

func (s *Users) SetCourierLocation(ctx context.Context, id string, lat, lon float64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET latitude=$2, longitude=$3, location_at=now() WHERE id=$1
	`, id, lat, lon)
	if err != nil {
		return fmt.Errorf("failed to set courier location: %w", err)
	}
	return nil
}
