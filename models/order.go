package models

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusPickedUp  OrderStatus = "picked-up"
	OrderStatusOnTheWay  OrderStatus = "on-the-way"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentUPI    PaymentMethod = "upi"
	PaymentWallet PaymentMethod = "wallet"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

type Order struct {
	ID                    string          `json:"id"`
	OrderNumber           string          `json:"order_number"`
	CustomerID            string          `json:"customer_id"`
	RestaurantID          string          `json:"restaurant_id"`
	DeliveryBoyID         string          `json:"delivery_boy_id,omitempty"`
	Items                 []OrderItem     `json:"items"`
	DeliveryAddress       DeliveryAddress `json:"delivery_address"`
	PaymentMethod         PaymentMethod   `json:"payment_method"`
	PaymentStatus         PaymentStatus   `json:"payment_status"`
	Subtotal              float64         `json:"subtotal"`
	Tax                   float64         `json:"tax"`
	DeliveryFee           float64         `json:"delivery_fee"`
	Total                 float64         `json:"total"`
	PreparationTime       int             `json:"preparation_time"`
	EstimatedDeliveryTime time.Time       `json:"estimated_delivery_time"`
	ActualDeliveryTime    *time.Time      `json:"actual_delivery_time,omitempty"`
	Status                OrderStatus     `json:"status"`
	StatusHistory         []StatusEntry   `json:"status_history"`
	CancellationReason    string          `json:"cancellation_reason,omitempty"`
	Rating                *OrderRating    `json:"rating,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// OrderItem is frozen at checkout; it never changes with later menu edits.
type OrderItem struct {
	MenuItemID     string          `json:"menu_item_id"`
	Name           string          `json:"name"`
	Quantity       int             `json:"quantity"`
	UnitPrice      float64         `json:"unit_price"`
	Customizations []Customization `json:"customizations,omitempty"`
	TotalPrice     float64         `json:"total_price"`
}

type StatusEntry struct {
	Status    OrderStatus `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	Note      string      `json:"note,omitempty"`
}

type DeliveryAddress struct {
	Street       string  `json:"street"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	ZipCode      string  `json:"zip_code"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Instructions string  `json:"instructions,omitempty"`
}

type OrderRating struct {
	Food     int    `json:"food,omitempty"`
	Delivery int    `json:"delivery,omitempty"`
	Comment  string `json:"comment,omitempty"`
}

type OrderStatistics struct {
	TotalOrders     int     `json:"total_orders"`
	CompletedOrders int     `json:"completed_orders"`
	CancelledOrders int     `json:"cancelled_orders"`
	ActiveOrders    int     `json:"active_orders"`
	TotalSpent      float64 `json:"total_spent"`
}

// Active reports whether the order still occupies its courier.
func (o *Order) Active() bool {
	return o.Status == OrderStatusPickedUp || o.Status == OrderStatusOnTheWay
}
