package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"food-ordering/api/models"
	"food-ordering/api/service"
)

func TestCanTransitionLegalEdges(t *testing.T) {
	cases := []struct {
		from, to models.OrderStatus
		role     models.Role
	}{
		{models.OrderStatusPending, models.OrderStatusConfirmed, models.RoleOwner},
		{models.OrderStatusConfirmed, models.OrderStatusPreparing, models.RoleOwner},
		{models.OrderStatusPreparing, models.OrderStatusReady, models.RoleOwner},
		{models.OrderStatusReady, models.OrderStatusPickedUp, models.RoleDelivery},
		{models.OrderStatusPickedUp, models.OrderStatusOnTheWay, models.RoleDelivery},
		{models.OrderStatusOnTheWay, models.OrderStatusDelivered, models.RoleDelivery},
		{models.OrderStatusPending, models.OrderStatusCancelled, models.RoleCustomer},
		{models.OrderStatusConfirmed, models.OrderStatusCancelled, models.RoleCustomer},
		{models.OrderStatusPreparing, models.OrderStatusCancelled, models.RoleCustomer},
		{models.OrderStatusReady, models.OrderStatusCancelled, models.RoleCustomer},
	}
	for _, tc := range cases {
		assert.NoError(t, service.CanTransition(tc.from, tc.to, tc.role),
			"%s -> %s by %s", tc.from, tc.to, tc.role)
	}
}

func TestCanTransitionUndefinedEdges(t *testing.T) {
	cases := []struct {
		from, to models.OrderStatus
	}{
		{models.OrderStatusPending, models.OrderStatusPreparing},
		{models.OrderStatusPending, models.OrderStatusReady},
		{models.OrderStatusConfirmed, models.OrderStatusReady},
		{models.OrderStatusReady, models.OrderStatusOnTheWay},
		{models.OrderStatusPickedUp, models.OrderStatusCancelled},
		{models.OrderStatusOnTheWay, models.OrderStatusCancelled},
		{models.OrderStatusDelivered, models.OrderStatusCancelled},
		{models.OrderStatusDelivered, models.OrderStatusPending},
		{models.OrderStatusCancelled, models.OrderStatusPreparing},
		{models.OrderStatusConfirmed, models.OrderStatusConfirmed},
	}
	for _, tc := range cases {
		err := service.CanTransition(tc.from, tc.to, models.RoleOwner)
		assert.ErrorIs(t, err, service.ErrInvalidTransition, "%s -> %s", tc.from, tc.to)
	}
}

func TestCanTransitionWrongRole(t *testing.T) {
	cases := []struct {
		from, to models.OrderStatus
		role     models.Role
	}{
		{models.OrderStatusPending, models.OrderStatusConfirmed, models.RoleCustomer},
		{models.OrderStatusPending, models.OrderStatusConfirmed, models.RoleDelivery},
		{models.OrderStatusReady, models.OrderStatusPickedUp, models.RoleOwner},
		{models.OrderStatusOnTheWay, models.OrderStatusDelivered, models.RoleCustomer},
		{models.OrderStatusPending, models.OrderStatusCancelled, models.RoleOwner},
		{models.OrderStatusReady, models.OrderStatusCancelled, models.RoleDelivery},
	}
	for _, tc := range cases {
		err := service.CanTransition(tc.from, tc.to, tc.role)
		assert.ErrorIs(t, err, service.ErrForbidden, "%s -> %s by %s", tc.from, tc.to, tc.role)
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []models.OrderStatus{
		models.OrderStatusPending, models.OrderStatusConfirmed, models.OrderStatusPreparing,
		models.OrderStatusReady, models.OrderStatusPickedUp, models.OrderStatusOnTheWay,
		models.OrderStatusDelivered, models.OrderStatusCancelled,
	} {
		assert.True(t, service.ValidStatus(s), string(s))
	}
	assert.False(t, service.ValidStatus("shipped"))
	assert.False(t, service.ValidStatus(""))
}
