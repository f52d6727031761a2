package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"food-ordering/api/models"
)

// CartService owns the customer's pre-checkout selection. A cart holds items
// from exactly one restaurant and its totals are recomputed on every mutation.
type CartService struct {
	carts CartStore
	menu  MenuStore
}

func NewCartService(carts CartStore, menu MenuStore) *CartService {
	return &CartService{carts: carts, menu: menu}
}

// GetOrCreate returns the customer's cart, creating an empty one on first use.
func (s *CartService) GetOrCreate(ctx context.Context, customerID string) (*models.Cart, error) {
	cart, err := s.carts.GetByCustomer(ctx, customerID)
	if err == nil {
		return cart, nil
	}
	if err != ErrNotFound {
		return nil, err
	}

	cart = &models.Cart{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		Items:      []models.CartItem{},
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := s.carts.Create(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) AddItem(ctx context.Context, customerID, menuItemID string, quantity int, customizations []models.Customization) (*models.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	menuItem, err := s.menu.GetItem(ctx, menuItemID)
	if err != nil {
		if err == ErrNotFound {
			return nil, fmt.Errorf("menu item not found: %w", ErrNotFound)
		}
		return nil, err
	}
	if !menuItem.IsAvailable {
		return nil, ErrItemUnavailable
	}

	cart, err := s.GetOrCreate(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if cart.RestaurantID != "" && cart.RestaurantID != menuItem.RestaurantID && len(cart.Items) > 0 {
		return nil, ErrCrossRestaurant
	}

	// Identical line (same menu item, same customization set) bumps quantity
	// instead of appending a duplicate.
	merged := false
	for i := range cart.Items {
		if cart.Items[i].MenuItemID == menuItemID && sameCustomizations(cart.Items[i].Customizations, customizations) {
			cart.Items[i].Quantity += quantity
			cart.Items[i].TotalPrice = (cart.Items[i].UnitPrice + cart.Items[i].CustomizationTotal()) * float64(cart.Items[i].Quantity)
			merged = true
			break
		}
	}
	if !merged {
		item := models.CartItem{
			ID:             uuid.NewString(),
			MenuItemID:     menuItemID,
			Quantity:       quantity,
			Customizations: customizations,
			UnitPrice:      menuItem.Price,
		}
		item.TotalPrice = (item.UnitPrice + item.CustomizationTotal()) * float64(quantity)
		cart.Items = append(cart.Items, item)
	}

	cart.RestaurantID = menuItem.RestaurantID
	cart.DeliveryFee = models.FlatDeliveryFee
	cart.Recalculate()
	cart.UpdatedAt = time.Now()

	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) UpdateItemQuantity(ctx context.Context, customerID, itemID string, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	cart, err := s.carts.GetByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			cart.Items[i].Quantity = quantity
			cart.Items[i].TotalPrice = (cart.Items[i].UnitPrice + cart.Items[i].CustomizationTotal()) * float64(quantity)
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("item not found in cart: %w", ErrNotFound)
	}

	cart.Recalculate()
	cart.UpdatedAt = time.Now()
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) RemoveItem(ctx context.Context, customerID, itemID string) (*models.Cart, error) {
	cart, err := s.carts.GetByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	items := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ID != itemID {
			items = append(items, item)
		}
	}
	cart.Items = items

	if len(cart.Items) == 0 {
		cart.RestaurantID = ""
		cart.DeliveryFee = 0
	}

	cart.Recalculate()
	cart.UpdatedAt = time.Now()
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) Clear(ctx context.Context, customerID string) (*models.Cart, error) {
	cart, err := s.carts.GetByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	cart.Items = []models.CartItem{}
	cart.RestaurantID = ""
	cart.DeliveryFee = 0
	cart.Recalculate()
	cart.UpdatedAt = time.Now()

	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func sameCustomizations(a, b []models.Customization) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
