package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-ordering/api/models"
	"food-ordering/api/service"
)

var testAddress = models.DeliveryAddress{
	Street: "12 MG Road", City: "Bengaluru", State: "KA", ZipCode: "560001",
	Latitude: 12.97, Longitude: 77.59,
}

func placeOrder(t *testing.T, carts *service.CartService, orders *service.OrderService, method models.PaymentMethod) *models.Order {
	t.Helper()
	ctx := context.Background()
	_, err := carts.AddItem(ctx, customerID, burgerID, 2, nil)
	require.NoError(t, err)
	order, err := orders.Create(ctx, customerID, testAddress, method, "ring the bell")
	require.NoError(t, err)
	return order
}

func TestCreateOrderFromCart(t *testing.T) {
	mem := newMemory()
	carts := newCartService(mem)
	orders := newOrderService(mem)

	order := placeOrder(t, carts, orders, models.PaymentCash)

	assert.Equal(t, fmt.Sprintf("ORD_%s_001", time.Now().Format("20060102")), order.OrderNumber)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, restaurantID, order.RestaurantID)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, 25, order.PreparationTime)

	assert.Equal(t, 200.0, order.Subtotal)
	assert.Equal(t, 10.0, order.Tax)
	assert.Equal(t, models.FlatDeliveryFee, order.DeliveryFee)
	assert.Equal(t, 260.0, order.Total)

	require.Len(t, order.StatusHistory, 1)
	assert.Equal(t, "Order placed", order.StatusHistory[0].Note)
	assert.Equal(t, "ring the bell", order.DeliveryAddress.Instructions)

	// Checkout emptied the cart in the same operation.
	cart, err := carts.GetOrCreate(context.Background(), customerID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Empty(t, cart.RestaurantID)
	assert.Zero(t, cart.Total)
}

func TestCreateOrderNumbersIncrementWithinDay(t *testing.T) {
	mem := newMemory()
	carts := newCartService(mem)
	orders := newOrderService(mem)

	first := placeOrder(t, carts, orders, models.PaymentCard)
	second := placeOrder(t, carts, orders, models.PaymentCard)

	date := time.Now().Format("20060102")
	assert.Equal(t, "ORD_"+date+"_001", first.OrderNumber)
	assert.Equal(t, "ORD_"+date+"_002", second.OrderNumber)
}

func TestCreateOrderPrepaidMethodsStartPaid(t *testing.T) {
	mem := newMemory()
	carts := newCartService(mem)
	orders := newOrderService(mem)

	order := placeOrder(t, carts, orders, models.PaymentUPI)
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
}

func TestCreateOrderEmptyCart(t *testing.T) {
	mem := newMemory()
	orders := newOrderService(mem)
	ctx := context.Background()

	// No cart at all.
	_, err := orders.Create(ctx, customerID, testAddress, models.PaymentCash, "")
	assert.ErrorIs(t, err, service.ErrEmptyCart)

	// An existing but empty cart.
	carts := newCartService(mem)
	_, err = carts.GetOrCreate(ctx, customerID)
	require.NoError(t, err)
	_, err = orders.Create(ctx, customerID, testAddress, models.PaymentCash, "")
	assert.ErrorIs(t, err, service.ErrEmptyCart)
}

func TestCreateOrderUnknownPaymentMethod(t *testing.T) {
	mem := newMemory()
	carts := newCartService(mem)
	orders := newOrderService(mem)
	ctx := context.Background()

	_, err := carts.AddItem(ctx, customerID, burgerID, 1, nil)
	require.NoError(t, err)

	_, err = orders.Create(ctx, customerID, testAddress, "cheque", "")
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestCreateOrderItemWentUnavailable(t *testing.T) {
	mem := newMemory()
	carts := newCartService(mem)
	orders := newOrderService(mem)
	ctx := context.Background()

	_, err := carts.AddItem(ctx, customerID, burgerID, 1, nil)
	require.NoError(t, err)

	mem.PutMenuItem(&models.MenuItem{ID: burgerID, RestaurantID: restaurantID, Name: "Paneer Burger", Price: 100, IsAvailable: false})

	_, err = orders.Create(ctx, customerID, testAddress, models.PaymentCash, "")
	assert.ErrorIs(t, err, service.ErrItemUnavailable)
}

func TestOrderSnapshotSurvivesMenuEdits(t *testing.T) {
	mem := newMemory()
	carts := newCartService(mem)
	orders := newOrderService(mem)

	order := placeOrder(t, carts, orders, models.PaymentCash)

	mem.PutMenuItem(&models.MenuItem{ID: burgerID, RestaurantID: restaurantID, Name: "Deluxe Burger", Price: 180, IsAvailable: true})

	got, err := orders.Get(context.Background(), customerID, models.RoleCustomer, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Paneer Burger", got.Items[0].Name)
	assert.Equal(t, 100.0, got.Items[0].UnitPrice)
	assert.Equal(t, 260.0, got.Total)
}

func TestGetOrderVisibility(t *testing.T) {
	mem := newMemory()
	orders := newOrderService(mem)
	seedOrder(mem, "order-1", models.OrderStatusPickedUp, courierID)
	ctx := context.Background()

	_, err := orders.Get(ctx, customerID, models.RoleCustomer, "order-1")
	assert.NoError(t, err)

	_, err = orders.Get(ctx, courierID, models.RoleDelivery, "order-1")
	assert.NoError(t, err)

	_, err = orders.Get(ctx, ownerID, models.RoleOwner, "order-1")
	assert.NoError(t, err)

	_, err = orders.Get(ctx, "owner-2", models.RoleOwner, "order-1")
	assert.ErrorIs(t, err, service.ErrForbidden)

	_, err = orders.Get(ctx, "cust-2", models.RoleCustomer, "order-1")
	assert.ErrorIs(t, err, service.ErrForbidden)

	_, err = orders.Get(ctx, customerID, models.RoleCustomer, "missing")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestCancelOrder(t *testing.T) {
	mem := newMemory()
	orders := newOrderService(mem)
	seedOrder(mem, "order-1", models.OrderStatusConfirmed, "")
	ctx := context.Background()

	order, err := orders.Cancel(ctx, customerID, "order-1", "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, order.Status)
	assert.Equal(t, "changed my mind", order.CancellationReason)
	assert.Equal(t, models.OrderStatusCancelled, order.StatusHistory[len(order.StatusHistory)-1].Status)

	// Cancelled is terminal.
	_, err = orders.UpdateStatus(ctx, ownerID, "order-1", models.OrderStatusPreparing, "")
	assert.ErrorIs(t, err, service.ErrInvalidTransition)
}

func TestCancelOrderGuards(t *testing.T) {
	mem := newMemory()
	orders := newOrderService(mem)
	ctx := context.Background()

	seedOrder(mem, "order-1", models.OrderStatusPending, "")
	_, err := orders.Cancel(ctx, "cust-2", "order-1", "")
	assert.ErrorIs(t, err, service.ErrForbidden)

	seedOrder(mem, "order-2", models.OrderStatusPickedUp, courierID)
	_, err = orders.Cancel(ctx, customerID, "order-2", "too late")
	assert.ErrorIs(t, err, service.ErrInvalidTransition)

	seedOrder(mem, "order-3", models.OrderStatusDelivered, courierID)
	_, err = orders.Cancel(ctx, customerID, "order-3", "")
	assert.ErrorIs(t, err, service.ErrInvalidTransition)
}

func TestUpdateStatusOwnerFlow(t *testing.T) {
	mem := newMemory()
	orders := newOrderService(mem)
	seedOrder(mem, "order-1", models.OrderStatusPending, "")
	ctx := context.Background()

	for i, status := range []models.OrderStatus{
		models.OrderStatusConfirmed, models.OrderStatusPreparing, models.OrderStatusReady,
	} {
		order, err := orders.UpdateStatus(ctx, ownerID, "order-1", status, "")
		require.NoError(t, err, string(status))
		assert.Equal(t, status, order.Status)
		assert.Len(t, order.StatusHistory, i+2)
	}
}

func TestUpdateStatusGuards(t *testing.T) {
	mem := newMemory()
	orders := newOrderService(mem)
	seedOrder(mem, "order-1", models.OrderStatusPending, "")
	ctx := context.Background()

	_, err := orders.UpdateStatus(ctx, ownerID, "order-1", "burnt", "")
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	// No skipping steps.
	_, err = orders.UpdateStatus(ctx, ownerID, "order-1", models.OrderStatusReady, "")
	assert.ErrorIs(t, err, service.ErrInvalidTransition)

	// Another restaurant's owner.
	_, err = orders.UpdateStatus(ctx, "owner-2", "order-1", models.OrderStatusConfirmed, "")
	assert.ErrorIs(t, err, service.ErrForbidden)

	// Couriers' half of the lifecycle is not reachable from here.
	seedOrder(mem, "order-2", models.OrderStatusReady, "")
	_, err = orders.UpdateStatus(ctx, ownerID, "order-2", models.OrderStatusPickedUp, "")
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestRateOrderRecomputesAverages(t *testing.T) {
	mem := newMemory()
	orders := newOrderService(mem)
	seedOrder(mem, "order-1", models.OrderStatusDelivered, courierID)
	ctx := context.Background()

	order, err := orders.Rate(ctx, customerID, "order-1", 5, 4, "great food")
	require.NoError(t, err)
	require.NotNil(t, order.Rating)
	assert.Equal(t, 5, order.Rating.Food)
	assert.Equal(t, 4, order.Rating.Delivery)

	restaurant, err := mem.Restaurants().Get(ctx, restaurantID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, restaurant.Rating)
	assert.Equal(t, 1, restaurant.TotalReviews)

	courier, err := mem.Users().Get(ctx, courierID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, courier.Courier.Rating)
}

func TestRateOrderAgainOverwrites(t *testing.T) {
	mem := newMemory()
	orders := newOrderService(mem)
	seedOrder(mem, "order-1", models.OrderStatusDelivered, courierID)
	ctx := context.Background()

	_, err := orders.Rate(ctx, customerID, "order-1", 5, 5, "")
	require.NoError(t, err)
	order, err := orders.Rate(ctx, customerID, "order-1", 2, 3, "cold on arrival")
	require.NoError(t, err)
	assert.Equal(t, 2, order.Rating.Food)

	// The aggregate reflects the replacement, not both ratings.
	restaurant, err := mem.Restaurants().Get(ctx, restaurantID)
	require.NoError(t, err)
	assert.Equal(t, 2.0, restaurant.Rating)
	assert.Equal(t, 1, restaurant.TotalReviews)
}

func TestRateOrderAveragesAcrossOrders(t *testing.T) {
	mem := newMemory()
	orders := newOrderService(mem)
	seedOrder(mem, "order-1", models.OrderStatusDelivered, courierID)
	seedOrder(mem, "order-2", models.OrderStatusDelivered, courierID)
	ctx := context.Background()

	_, err := orders.Rate(ctx, customerID, "order-1", 5, 5, "")
	require.NoError(t, err)
	_, err = orders.Rate(ctx, customerID, "order-2", 2, 3, "")
	require.NoError(t, err)

	restaurant, err := mem.Restaurants().Get(ctx, restaurantID)
	require.NoError(t, err)
	assert.Equal(t, 3.5, restaurant.Rating)
	assert.Equal(t, 2, restaurant.TotalReviews)

	courier, err := mem.Users().Get(ctx, courierID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, courier.Courier.Rating)
}

func TestRateOrderGuards(t *testing.T) {
	mem := newMemory()
	orders := newOrderService(mem)
	ctx := context.Background()

	seedOrder(mem, "order-1", models.OrderStatusOnTheWay, courierID)
	_, err := orders.Rate(ctx, customerID, "order-1", 5, 5, "")
	assert.ErrorIs(t, err, service.ErrNotDelivered)

	seedOrder(mem, "order-2", models.OrderStatusDelivered, courierID)
	_, err = orders.Rate(ctx, "cust-2", "order-2", 5, 5, "")
	assert.ErrorIs(t, err, service.ErrForbidden)

	_, err = orders.Rate(ctx, customerID, "order-2", 6, 5, "")
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestCustomerStatistics(t *testing.T) {
	mem := newMemory()
	orders := newOrderService(mem)
	seedOrder(mem, "order-1", models.OrderStatusDelivered, courierID)
	seedOrder(mem, "order-2", models.OrderStatusCancelled, "")
	seedOrder(mem, "order-3", models.OrderStatusPreparing, "")

	stats, err := orders.Statistics(context.Background(), customerID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalOrders)
	assert.Equal(t, 1, stats.CompletedOrders)
	assert.Equal(t, 1, stats.CancelledOrders)
	assert.Equal(t, 1, stats.ActiveOrders)
	assert.Equal(t, 260.0, stats.TotalSpent)
}

func TestListMinePagination(t *testing.T) {
	mem := newMemory()
	orders := newOrderService(mem)
	for i := 0; i < 5; i++ {
		seedOrder(mem, fmt.Sprintf("order-%d", i), models.OrderStatusPending, "")
	}

	page, total, err := orders.ListMine(context.Background(), customerID, "", 1, 2)
	require.NoError(t, err)
	assert.Len(t, page, 2)
	assert.Equal(t, 5, total)

	last, _, err := orders.ListMine(context.Background(), customerID, "", 3, 2)
	require.NoError(t, err)
	assert.Len(t, last, 1)
}

func TestRestaurantDashboard(t *testing.T) {
	mem := newMemory()
	orders := newOrderService(mem)
	seedOrder(mem, "order-1", models.OrderStatusDelivered, courierID)
	seedOrder(mem, "order-2", models.OrderStatusPreparing, "")
	seedOrder(mem, "order-3", models.OrderStatusCancelled, "")

	dash, err := orders.RestaurantDashboard(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Equal(t, 3, dash.TotalOrders)
	assert.Equal(t, 3, dash.TodayOrders)
	assert.Equal(t, 520.0, dash.TodayRevenue) // cancelled orders do not count
	assert.Equal(t, 1, dash.ActiveOrders)
	assert.Len(t, dash.RecentOrders, 3)
}
