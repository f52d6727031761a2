package models

import "time"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleOwner    Role = "owner"
	RoleDelivery Role = "delivery"
)

type User struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone,omitempty"`
	Role      Role            `json:"role"`
	Courier   *CourierProfile `json:"courier,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type CourierProfile struct {
	IsAvailable     bool      `json:"is_available"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	TotalDeliveries int       `json:"total_deliveries"`
	Earnings        float64   `json:"earnings"`
	Rating          float64   `json:"rating"`
	VehicleType     string    `json:"vehicle_type,omitempty"`
	VehicleNumber   string    `json:"vehicle_number,omitempty"`
	LicenseNumber   string    `json:"license_number,omitempty"`
	LastUpdate      time.Time `json:"last_update"`
}

type Restaurant struct {
	ID              string  `json:"id"`
	OwnerID         string  `json:"owner_id"`
	Name            string  `json:"name"`
	Phone           string  `json:"phone,omitempty"`
	Address         string  `json:"address,omitempty"`
	PreparationTime int     `json:"preparation_time"`
	IsOpen          bool    `json:"is_open"`
	Rating          float64 `json:"rating"`
	TotalReviews    int     `json:"total_reviews"`
}

type MenuItem struct {
	ID           string  `json:"id"`
	RestaurantID string  `json:"restaurant_id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	IsAvailable  bool    `json:"is_available"`
}
