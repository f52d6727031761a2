package models

import "time"

const (
	TaxRate         = 0.05
	FlatDeliveryFee = 50.0
)

type Cart struct {
	ID           string     `json:"id"`
	CustomerID   string     `json:"customer_id"`
	RestaurantID string     `json:"restaurant_id,omitempty"`
	Items        []CartItem `json:"items"`
	Subtotal     float64    `json:"subtotal"`
	Tax          float64    `json:"tax"`
	DeliveryFee  float64    `json:"delivery_fee"`
	Total        float64    `json:"total"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type CartItem struct {
	ID             string          `json:"id"`
	MenuItemID     string          `json:"menu_item_id"`
	Quantity       int             `json:"quantity"`
	Customizations []Customization `json:"customizations,omitempty"`
	UnitPrice      float64         `json:"unit_price"`
	TotalPrice     float64         `json:"total_price"`
}

type Customization struct {
	Name           string  `json:"name"`
	SelectedOption string  `json:"selected_option,omitempty"`
	Price          float64 `json:"price"`
}

// CustomizationTotal is the per-unit surcharge across all customizations.
func (i *CartItem) CustomizationTotal() float64 {
	var sum float64
	for _, c := range i.Customizations {
		sum += c.Price
	}
	return sum
}

// Recalculate rebuilds subtotal, tax and total from the item lines. It must run
// after every mutation so totals are never stale relative to items.
func (c *Cart) Recalculate() {
	c.Subtotal = 0
	for _, item := range c.Items {
		c.Subtotal += item.TotalPrice
	}
	c.Tax = c.Subtotal * TaxRate
	c.Total = c.Subtotal + c.Tax + c.DeliveryFee
}
