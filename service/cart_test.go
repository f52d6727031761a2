package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-ordering/api/models"
	"food-ordering/api/service"
)

func TestGetOrCreateReturnsEmptyCart(t *testing.T) {
	carts := newCartService(newMemory())

	cart, err := carts.GetOrCreate(context.Background(), customerID)
	require.NoError(t, err)
	assert.NotEmpty(t, cart.ID)
	assert.Equal(t, customerID, cart.CustomerID)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Total)

	again, err := carts.GetOrCreate(context.Background(), customerID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)
}

func TestAddItemComputesTotals(t *testing.T) {
	carts := newCartService(newMemory())

	cart, err := carts.AddItem(context.Background(), customerID, burgerID, 2, nil)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, 100.0, cart.Items[0].UnitPrice)
	assert.Equal(t, 200.0, cart.Items[0].TotalPrice)

	assert.Equal(t, restaurantID, cart.RestaurantID)
	assert.Equal(t, 200.0, cart.Subtotal)
	assert.Equal(t, 10.0, cart.Tax)
	assert.Equal(t, models.FlatDeliveryFee, cart.DeliveryFee)
	assert.Equal(t, 260.0, cart.Total)
}

func TestAddItemCustomizationPricing(t *testing.T) {
	carts := newCartService(newMemory())

	extras := []models.Customization{
		{Name: "Cheese", Price: 15},
		{Name: "Spice level", SelectedOption: "hot", Price: 0},
	}
	cart, err := carts.AddItem(context.Background(), customerID, burgerID, 2, extras)
	require.NoError(t, err)

	// (100 + 15) * 2
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 230.0, cart.Items[0].TotalPrice)
	assert.Equal(t, 230.0, cart.Subtotal)
}

func TestAddItemMergesIdenticalLines(t *testing.T) {
	carts := newCartService(newMemory())
	ctx := context.Background()

	_, err := carts.AddItem(ctx, customerID, burgerID, 1, nil)
	require.NoError(t, err)
	cart, err := carts.AddItem(ctx, customerID, burgerID, 2, nil)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, 300.0, cart.Items[0].TotalPrice)
}

func TestAddItemDifferentCustomizationsStaySeparate(t *testing.T) {
	carts := newCartService(newMemory())
	ctx := context.Background()

	_, err := carts.AddItem(ctx, customerID, burgerID, 1, nil)
	require.NoError(t, err)
	cart, err := carts.AddItem(ctx, customerID, burgerID, 1, []models.Customization{{Name: "Cheese", Price: 15}})
	require.NoError(t, err)

	assert.Len(t, cart.Items, 2)
}

func TestAddItemRejectsCrossRestaurant(t *testing.T) {
	carts := newCartService(newMemory())
	ctx := context.Background()

	_, err := carts.AddItem(ctx, customerID, burgerID, 1, nil)
	require.NoError(t, err)

	_, err = carts.AddItem(ctx, customerID, pizzaID, 1, nil)
	assert.ErrorIs(t, err, service.ErrCrossRestaurant)

	// The cart is untouched by the rejected add.
	cart, err := carts.GetOrCreate(ctx, customerID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, burgerID, cart.Items[0].MenuItemID)
}

func TestAddItemValidation(t *testing.T) {
	carts := newCartService(newMemory())
	ctx := context.Background()

	_, err := carts.AddItem(ctx, customerID, burgerID, 0, nil)
	assert.ErrorIs(t, err, service.ErrInvalidQuantity)

	_, err = carts.AddItem(ctx, customerID, "no-such-item", 1, nil)
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = carts.AddItem(ctx, customerID, saladID, 1, nil)
	assert.ErrorIs(t, err, service.ErrItemUnavailable)
}

func TestUpdateItemQuantity(t *testing.T) {
	carts := newCartService(newMemory())
	ctx := context.Background()

	cart, err := carts.AddItem(ctx, customerID, burgerID, 1, nil)
	require.NoError(t, err)
	itemID := cart.Items[0].ID

	cart, err = carts.UpdateItemQuantity(ctx, customerID, itemID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, cart.Items[0].Quantity)
	assert.Equal(t, 400.0, cart.Subtotal)
	assert.Equal(t, 470.0, cart.Total)

	_, err = carts.UpdateItemQuantity(ctx, customerID, itemID, 0)
	assert.ErrorIs(t, err, service.ErrInvalidQuantity)

	_, err = carts.UpdateItemQuantity(ctx, customerID, "missing", 2)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestRemoveLastItemResetsCart(t *testing.T) {
	carts := newCartService(newMemory())
	ctx := context.Background()

	cart, err := carts.AddItem(ctx, customerID, burgerID, 1, nil)
	require.NoError(t, err)

	cart, err = carts.RemoveItem(ctx, customerID, cart.Items[0].ID)
	require.NoError(t, err)

	assert.Empty(t, cart.Items)
	assert.Empty(t, cart.RestaurantID)
	assert.Zero(t, cart.DeliveryFee)
	assert.Zero(t, cart.Total)
}

func TestRemoveOneOfTwoItemsKeepsRestaurant(t *testing.T) {
	carts := newCartService(newMemory())
	ctx := context.Background()

	_, err := carts.AddItem(ctx, customerID, burgerID, 1, nil)
	require.NoError(t, err)
	cart, err := carts.AddItem(ctx, customerID, friesID, 1, nil)
	require.NoError(t, err)

	var friesLine string
	for _, item := range cart.Items {
		if item.MenuItemID == friesID {
			friesLine = item.ID
		}
	}
	cart, err = carts.RemoveItem(ctx, customerID, friesLine)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, restaurantID, cart.RestaurantID)
	assert.Equal(t, models.FlatDeliveryFee, cart.DeliveryFee)
	assert.Equal(t, 155.0, cart.Total) // 100 + 5 tax + 50 fee
}

func TestClearCart(t *testing.T) {
	carts := newCartService(newMemory())
	ctx := context.Background()

	_, err := carts.AddItem(ctx, customerID, burgerID, 2, nil)
	require.NoError(t, err)

	cart, err := carts.Clear(ctx, customerID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Empty(t, cart.RestaurantID)
	assert.Zero(t, cart.Subtotal)
	assert.Zero(t, cart.Total)
}
