package service_test

import (
	"time"

	"food-ordering/api/events"
	"food-ordering/api/models"
	"food-ordering/api/service"
	"food-ordering/api/store"
)

const (
	restaurantID = "rest-1"
	ownerID      = "owner-1"
	customerID   = "cust-1"
	courierID    = "courier-1"

	burgerID = "item-burger"
	friesID  = "item-fries"
	saladID  = "item-salad"
	pizzaID  = "item-pizza"
)

// newMemory seeds two restaurants with menus, a customer, an owner and an
// available courier.
func newMemory() *store.Memory {
	mem := store.NewMemory()

	mem.PutRestaurant(&models.Restaurant{
		ID: restaurantID, OwnerID: ownerID, Name: "Tandoor House",
		PreparationTime: 25, IsOpen: true,
	})
	mem.PutRestaurant(&models.Restaurant{
		ID: "rest-2", OwnerID: "owner-2", Name: "Pizza Palace", IsOpen: true,
	})

	mem.PutMenuItem(&models.MenuItem{ID: burgerID, RestaurantID: restaurantID, Name: "Paneer Burger", Price: 100, IsAvailable: true})
	mem.PutMenuItem(&models.MenuItem{ID: friesID, RestaurantID: restaurantID, Name: "Masala Fries", Price: 40, IsAvailable: true})
	mem.PutMenuItem(&models.MenuItem{ID: saladID, RestaurantID: restaurantID, Name: "Seasonal Salad", Price: 80, IsAvailable: false})
	mem.PutMenuItem(&models.MenuItem{ID: pizzaID, RestaurantID: "rest-2", Name: "Margherita", Price: 250, IsAvailable: true})

	mem.PutUser(&models.User{ID: customerID, Name: "Asha", Role: models.RoleCustomer})
	mem.PutUser(&models.User{ID: ownerID, Name: "Ravi", Role: models.RoleOwner})
	mem.PutUser(&models.User{
		ID: courierID, Name: "Dev", Role: models.RoleDelivery,
		Courier: &models.CourierProfile{IsAvailable: true},
	})
	return mem
}

func newCartService(mem *store.Memory) *service.CartService {
	return service.NewCartService(mem.Carts(), mem.Menu())
}

func newOrderService(mem *store.Memory) *service.OrderService {
	return service.NewOrderService(mem.Orders(), mem.Carts(), mem.Menu(), mem.Restaurants(), mem.Users(), events.Nop{})
}

func newDeliveryService(mem *store.Memory) *service.DeliveryService {
	return service.NewDeliveryService(mem.Orders(), mem.Users(), events.Nop{}, mem.Presence())
}

// seedOrder puts an order in the given status, assigned to courier when the
// status implies one.
func seedOrder(mem *store.Memory, id string, status models.OrderStatus, courier string) *models.Order {
	now := time.Now()
	order := &models.Order{
		ID:            id,
		OrderNumber:   "ORD_20260829_001",
		CustomerID:    customerID,
		RestaurantID:  restaurantID,
		DeliveryBoyID: courier,
		Items: []models.OrderItem{{
			MenuItemID: burgerID, Name: "Paneer Burger", Quantity: 2, UnitPrice: 100, TotalPrice: 200,
		}},
		PaymentMethod: models.PaymentCash,
		PaymentStatus: models.PaymentStatusPending,
		Subtotal:      200,
		Tax:           10,
		DeliveryFee:   models.FlatDeliveryFee,
		Total:         260,
		Status:        status,
		StatusHistory: []models.StatusEntry{{Status: models.OrderStatusPending, Timestamp: now, Note: "Order placed"}},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if status == models.OrderStatusDelivered {
		t := now
		order.ActualDeliveryTime = &t
	}
	mem.PutOrder(order)
	return order
}
